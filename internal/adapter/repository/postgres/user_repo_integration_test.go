package postgres_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcos-nsantos/photogram-backend/internal/adapter/repository/postgres"
	"github.com/marcos-nsantos/photogram-backend/internal/domain"
	"github.com/marcos-nsantos/photogram-backend/internal/domain/entity"
)

func TestIntegrationUserRepo_Create(t *testing.T) {
	db := SetupTestDB(t)
	defer db.Cleanup(t)

	repo := postgres.NewUserRepo(db.Pool)
	ctx := context.Background()

	t.Run("creates user successfully", func(t *testing.T) {
		db.Truncate(t, "users")

		user := entity.NewUser("ana@example.com", "hashedpassword", "Ana")
		err := repo.Create(ctx, user)

		require.NoError(t, err)

		found, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "ana@example.com", found.Email)
		assert.Equal(t, "Ana", found.Name)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		db.Truncate(t, "users")

		first := entity.NewUser("dup@example.com", "hash", "First")
		require.NoError(t, repo.Create(ctx, first))

		second := entity.NewUser("dup@example.com", "hash", "Second")
		err := repo.Create(ctx, second)

		assert.Error(t, err)
	})
}

func TestIntegrationUserRepo_GetByEmail(t *testing.T) {
	db := SetupTestDB(t)
	defer db.Cleanup(t)

	repo := postgres.NewUserRepo(db.Pool)
	ctx := context.Background()

	t.Run("returns user by email", func(t *testing.T) {
		db.Truncate(t, "users")

		user := entity.NewUser("ana@example.com", "hash", "Ana")
		require.NoError(t, repo.Create(ctx, user))

		found, err := repo.GetByEmail(ctx, "ana@example.com")

		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)
	})

	t.Run("returns not found error", func(t *testing.T) {
		db.Truncate(t, "users")

		found, err := repo.GetByEmail(ctx, "ghost@example.com")

		assert.Nil(t, found)
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestIntegrationUserRepo_Update(t *testing.T) {
	db := SetupTestDB(t)
	defer db.Cleanup(t)

	repo := postgres.NewUserRepo(db.Pool)
	ctx := context.Background()

	t.Run("updates profile fields", func(t *testing.T) {
		db.Truncate(t, "users")

		user := entity.NewUser("ana@example.com", "hash", "Ana")
		require.NoError(t, repo.Create(ctx, user))

		user.Name = "Ana Clara"
		user.Bio = "street photographer"
		user.AvatarKey = "avatars/ana.jpg"
		require.NoError(t, repo.Update(ctx, user))

		found, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "Ana Clara", found.Name)
		assert.Equal(t, "street photographer", found.Bio)
		assert.Equal(t, "avatars/ana.jpg", found.AvatarKey)
	})

	t.Run("missing user", func(t *testing.T) {
		db.Truncate(t, "users")

		ghost := entity.NewUser("ghost@example.com", "hash", "Ghost")
		ghost.ID = uuid.New()
		err := repo.Update(ctx, ghost)

		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestIntegrationUserRepo_ExistsByEmail(t *testing.T) {
	db := SetupTestDB(t)
	defer db.Cleanup(t)

	repo := postgres.NewUserRepo(db.Pool)
	ctx := context.Background()

	t.Run("reports existence", func(t *testing.T) {
		db.Truncate(t, "users")

		user := entity.NewUser("ana@example.com", "hash", "Ana")
		require.NoError(t, repo.Create(ctx, user))

		exists, err := repo.ExistsByEmail(ctx, "ana@example.com")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByEmail(ctx, "ghost@example.com")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}
