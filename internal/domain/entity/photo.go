package entity

import (
	"time"

	"github.com/google/uuid"
)

// Photo is the central entity. OwnerName is a snapshot of the owner's display
// name taken at creation time; it is not resynced when the owner renames.
// AssetKey is immutable after creation, there is no re-upload path.
type Photo struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	OwnerName string
	Title     string
	AssetKey  string
	Likes     []uuid.UUID
	Comments  []Comment
	CreatedAt time.Time
}

func NewPhoto(ownerID uuid.UUID, ownerName, title, assetKey string) *Photo {
	return &Photo{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		OwnerName: ownerName,
		Title:     title,
		AssetKey:  assetKey,
		CreatedAt: time.Now().UTC(),
	}
}

func (p *Photo) LikedBy(userID uuid.UUID) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}
