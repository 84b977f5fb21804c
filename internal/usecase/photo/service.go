package photo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/marcos-nsantos/photogram-backend/internal/adapter/repository"
	"github.com/marcos-nsantos/photogram-backend/internal/adapter/storage"
	"github.com/marcos-nsantos/photogram-backend/internal/domain"
	"github.com/marcos-nsantos/photogram-backend/internal/domain/entity"
	"github.com/marcos-nsantos/photogram-backend/internal/pkg/pagination"
)

// Service orchestrates the photo lifecycle: creation, ownership-checked
// updates and deletion, and engagement (likes, comments). It keeps the photo
// record and its backing asset consistent; the asset delete runs inside the
// repository's delete transaction so a storage failure rolls the record back.
type Service struct {
	photoRepo repository.PhotoRepository
	userRepo  repository.UserRepository
	assets    storage.AssetStorage
}

func NewService(photoRepo repository.PhotoRepository, userRepo repository.UserRepository, assets storage.AssetStorage) *Service {
	return &Service{
		photoRepo: photoRepo,
		userRepo:  userRepo,
		assets:    assets,
	}
}

type CreateInput struct {
	OwnerID  uuid.UUID
	Title    string
	AssetKey string
}

// Create inserts a new photo owned by input.OwnerID. The asset must already
// be stored under input.AssetKey; this service does not perform the upload.
// The owner's display name is snapshotted onto the record at this point.
func (s *Service) Create(ctx context.Context, input CreateInput) (*entity.Photo, error) {
	owner, err := s.userRepo.GetByID(ctx, input.OwnerID)
	if err != nil {
		return nil, err
	}

	exists, err := s.assets.Exists(ctx, input.AssetKey)
	if err != nil {
		return nil, fmt.Errorf("checking asset: %w", err)
	}
	if !exists {
		return nil, domain.ErrAssetNotFound
	}

	photo := entity.NewPhoto(owner.ID, owner.Name, input.Title, input.AssetKey)

	if err := s.photoRepo.Create(ctx, photo); err != nil {
		return nil, err
	}

	return photo, nil
}

func (s *Service) GetByID(ctx context.Context, photoID uuid.UUID) (*entity.Photo, error) {
	return s.photoRepo.GetByID(ctx, photoID)
}

func (s *Service) ListAll(ctx context.Context, page, perPage int) ([]entity.Photo, *pagination.Info, error) {
	return s.photoRepo.ListAll(ctx, pagination.NewParams(page, perPage))
}

func (s *Service) ListByOwner(ctx context.Context, ownerID uuid.UUID, page, perPage int) ([]entity.Photo, *pagination.Info, error) {
	return s.photoRepo.ListByOwner(ctx, ownerID, pagination.NewParams(page, perPage))
}

func (s *Service) Search(ctx context.Context, query string, page, perPage int) ([]entity.Photo, *pagination.Info, error) {
	return s.photoRepo.SearchByTitle(ctx, query, pagination.NewParams(page, perPage))
}

type UpdateInput struct {
	Title *string
}

// Update edits the photo's title. Only the owner may update; an absent title
// is a no-op, not an error.
func (s *Service) Update(ctx context.Context, actorID, photoID uuid.UUID, input UpdateInput) (*entity.Photo, error) {
	photo, err := s.photoRepo.GetByID(ctx, photoID)
	if err != nil {
		return nil, err
	}

	if photo.OwnerID != actorID {
		return nil, domain.ErrForbidden
	}

	if input.Title == nil {
		return photo, nil
	}

	if err := s.photoRepo.UpdateTitle(ctx, photoID, *input.Title); err != nil {
		return nil, fmt.Errorf("updating title: %w", err)
	}
	photo.Title = *input.Title

	return photo, nil
}

// Delete removes the photo record and its backing asset, owner only. The
// record delete and the asset delete are coordinated: the repository deletes
// the row inside a transaction and commits only after the asset is gone. An
// asset reported as already absent counts as cleaned up; any other storage
// failure aborts the transaction and the record survives untouched.
func (s *Service) Delete(ctx context.Context, actorID, photoID uuid.UUID) error {
	photo, err := s.photoRepo.GetByID(ctx, photoID)
	if err != nil {
		return err
	}

	if photo.OwnerID != actorID {
		return domain.ErrForbidden
	}

	return s.photoRepo.Delete(ctx, photoID, func(ctx context.Context) error {
		if err := s.assets.Delete(ctx, photo.AssetKey); err != nil {
			if errors.Is(err, domain.ErrAssetNotFound) {
				// A prior partial failure already removed the file; the
				// record delete may proceed.
				return nil
			}
			return fmt.Errorf("deleting asset: %w", err)
		}
		return nil
	})
}

type LikeResult struct {
	PhotoID uuid.UUID
	UserID  uuid.UUID
	Liked   bool
}

// ToggleLike adds actorID to the photo's like set, or removes it when already
// a member. The repository applies the flip atomically, so two concurrent
// toggles by the same actor cannot both add. The result reports which
// transition occurred.
func (s *Service) ToggleLike(ctx context.Context, actorID, photoID uuid.UUID) (*LikeResult, error) {
	if _, err := s.photoRepo.GetByID(ctx, photoID); err != nil {
		return nil, err
	}

	liked, err := s.photoRepo.ToggleLike(ctx, photoID, actorID)
	if err != nil {
		return nil, err
	}

	return &LikeResult{
		PhotoID: photoID,
		UserID:  actorID,
		Liked:   liked,
	}, nil
}

// AddComment appends a comment with the author's name and avatar snapshotted
// at comment time. Comments are append-only; no edit or delete exists.
func (s *Service) AddComment(ctx context.Context, actorID, photoID uuid.UUID, body string) (*entity.Comment, error) {
	author, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	if _, err := s.photoRepo.GetByID(ctx, photoID); err != nil {
		return nil, err
	}

	comment := entity.NewComment(photoID, author, body)

	if err := s.photoRepo.AppendComment(ctx, comment); err != nil {
		return nil, err
	}

	return comment, nil
}
