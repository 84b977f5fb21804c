package entity

import (
	"time"

	"github.com/google/uuid"
)

// Comment author fields follow the same snapshot policy as Photo.OwnerName:
// copied from the user record when the comment is written, never resynced.
type Comment struct {
	ID           uuid.UUID
	PhotoID      uuid.UUID
	AuthorID     uuid.UUID
	AuthorName   string
	AuthorAvatar string
	Body         string
	CreatedAt    time.Time
}

func NewComment(photoID uuid.UUID, author *User, body string) *Comment {
	return &Comment{
		ID:           uuid.New(),
		PhotoID:      photoID,
		AuthorID:     author.ID,
		AuthorName:   author.Name,
		AuthorAvatar: author.AvatarKey,
		Body:         body,
		CreatedAt:    time.Now().UTC(),
	}
}
