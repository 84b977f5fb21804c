package user

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/marcos-nsantos/photogram-backend/internal/adapter/repository"
	"github.com/marcos-nsantos/photogram-backend/internal/domain/entity"
	"github.com/marcos-nsantos/photogram-backend/internal/infrastructure/auth"
)

type Service struct {
	userRepo       repository.UserRepository
	passwordHasher *auth.PasswordHasher
}

func NewService(userRepo repository.UserRepository, passwordHasher *auth.PasswordHasher) *Service {
	return &Service{
		userRepo:       userRepo,
		passwordHasher: passwordHasher,
	}
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

type UpdateProfileInput struct {
	Name      *string
	Password  *string
	Bio       *string
	AvatarKey *string
}

// UpdateProfile applies a partial profile edit. Absent fields stay untouched.
// Photos and comments written before the edit keep their snapshotted name and
// avatar; only the user record changes.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*entity.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Password != nil {
		hash, err := s.passwordHasher.Hash(*input.Password)
		if err != nil {
			return nil, fmt.Errorf("hashing password: %w", err)
		}
		user.PasswordHash = hash
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}
	if input.AvatarKey != nil {
		user.AvatarKey = *input.AvatarKey
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("updating user: %w", err)
	}

	return user, nil
}
