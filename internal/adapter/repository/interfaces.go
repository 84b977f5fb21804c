package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/marcos-nsantos/photogram-backend/internal/domain/entity"
	"github.com/marcos-nsantos/photogram-backend/internal/pkg/pagination"
)

//go:generate mockgen -source=interfaces.go -destination=../../mocks/repository_mocks.go -package=mocks

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type PhotoRepository interface {
	Create(ctx context.Context, photo *entity.Photo) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Photo, error)
	ListAll(ctx context.Context, params pagination.Params) ([]entity.Photo, *pagination.Info, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, params pagination.Params) ([]entity.Photo, *pagination.Info, error)
	SearchByTitle(ctx context.Context, query string, params pagination.Params) ([]entity.Photo, *pagination.Info, error)
	UpdateTitle(ctx context.Context, id uuid.UUID, title string) error

	// ToggleLike flips userID's membership in the photo's like set as a single
	// atomic conditional update. It reports true when the call added the like
	// and false when it removed it. Concurrent toggles by the same user never
	// tear; toggles by different users are independent.
	ToggleLike(ctx context.Context, photoID, userID uuid.UUID) (bool, error)

	// AppendComment inserts the comment as an atomic append. Concurrent
	// commenters never lose each other's entries.
	AppendComment(ctx context.Context, comment *entity.Comment) error

	// Delete removes the photo row inside a transaction and invokes cleanup
	// before committing. When cleanup returns an error the transaction is
	// rolled back and the row survives. 0 rows deleted reports
	// domain.ErrPhotoNotFound, so two concurrent deletes of the same id yield
	// exactly one success.
	Delete(ctx context.Context, id uuid.UUID, cleanup func(context.Context) error) error
}
