package handler

import (
	"context"

	"github.com/google/uuid"

	"github.com/marcos-nsantos/photogram-backend/internal/domain/entity"
	"github.com/marcos-nsantos/photogram-backend/internal/pkg/pagination"
	"github.com/marcos-nsantos/photogram-backend/internal/usecase/auth"
	"github.com/marcos-nsantos/photogram-backend/internal/usecase/photo"
	"github.com/marcos-nsantos/photogram-backend/internal/usecase/user"
)

//go:generate mockgen -source=interfaces.go -destination=../../mocks/handler_mocks.go -package=mocks

type AuthService interface {
	Register(ctx context.Context, input auth.RegisterInput) (*entity.User, *auth.Token, error)
	Login(ctx context.Context, input auth.LoginInput) (*auth.Token, *entity.User, error)
}

type UserService interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input user.UpdateProfileInput) (*entity.User, error)
}

type PhotoService interface {
	Create(ctx context.Context, input photo.CreateInput) (*entity.Photo, error)
	GetByID(ctx context.Context, photoID uuid.UUID) (*entity.Photo, error)
	ListAll(ctx context.Context, page, perPage int) ([]entity.Photo, *pagination.Info, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, page, perPage int) ([]entity.Photo, *pagination.Info, error)
	Search(ctx context.Context, query string, page, perPage int) ([]entity.Photo, *pagination.Info, error)
	Update(ctx context.Context, actorID, photoID uuid.UUID, input photo.UpdateInput) (*entity.Photo, error)
	Delete(ctx context.Context, actorID, photoID uuid.UUID) error
	ToggleLike(ctx context.Context, actorID, photoID uuid.UUID) (*photo.LikeResult, error)
	AddComment(ctx context.Context, actorID, photoID uuid.UUID, body string) (*entity.Comment, error)
}
