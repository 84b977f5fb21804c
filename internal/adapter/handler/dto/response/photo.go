package response

import (
	"time"

	"github.com/google/uuid"

	"github.com/marcos-nsantos/photogram-backend/internal/domain/entity"
	"github.com/marcos-nsantos/photogram-backend/internal/pkg/pagination"
)

type PhotoResponse struct {
	ID        uuid.UUID         `json:"id"`
	OwnerID   uuid.UUID         `json:"owner_id"`
	OwnerName string            `json:"owner_name"`
	Title     string            `json:"title"`
	AssetKey  string            `json:"asset_key"`
	URL       string            `json:"url"`
	Likes     []uuid.UUID       `json:"likes"`
	Comments  []CommentResponse `json:"comments"`
	CreatedAt time.Time         `json:"created_at"`
}

type CommentResponse struct {
	ID           uuid.UUID `json:"id"`
	AuthorID     uuid.UUID `json:"author_id"`
	AuthorName   string    `json:"author_name"`
	AuthorAvatar string    `json:"author_avatar,omitempty"`
	Comment      string    `json:"comment"`
	CreatedAt    time.Time `json:"created_at"`
}

type LikeResponse struct {
	PhotoID uuid.UUID `json:"photo_id"`
	UserID  uuid.UUID `json:"user_id"`
	Liked   bool      `json:"liked"`
}

type PaginationResponse struct {
	Page       int  `json:"page"`
	PerPage    int  `json:"per_page"`
	TotalItems int  `json:"total_items"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

type PhotosListResponse struct {
	Photos     []PhotoResponse    `json:"photos"`
	Pagination PaginationResponse `json:"pagination"`
}

// PhotoFromEntity renders a photo for the wire. assetURL resolves the stored
// key into the address clients fetch the image from.
func PhotoFromEntity(p *entity.Photo, assetURL func(key string) string) PhotoResponse {
	resp := PhotoResponse{
		ID:        p.ID,
		OwnerID:   p.OwnerID,
		OwnerName: p.OwnerName,
		Title:     p.Title,
		AssetKey:  p.AssetKey,
		URL:       assetURL(p.AssetKey),
		Likes:     p.Likes,
		Comments:  make([]CommentResponse, 0, len(p.Comments)),
		CreatedAt: p.CreatedAt,
	}
	if resp.Likes == nil {
		resp.Likes = []uuid.UUID{}
	}

	for _, c := range p.Comments {
		resp.Comments = append(resp.Comments, CommentFromEntity(&c))
	}

	return resp
}

func PhotosFromEntities(photos []entity.Photo, assetURL func(key string) string) []PhotoResponse {
	result := make([]PhotoResponse, 0, len(photos))
	for _, p := range photos {
		result = append(result, PhotoFromEntity(&p, assetURL))
	}
	return result
}

func CommentFromEntity(c *entity.Comment) CommentResponse {
	return CommentResponse{
		ID:           c.ID,
		AuthorID:     c.AuthorID,
		AuthorName:   c.AuthorName,
		AuthorAvatar: c.AuthorAvatar,
		Comment:      c.Body,
		CreatedAt:    c.CreatedAt,
	}
}

func PaginationFromInfo(info *pagination.Info) PaginationResponse {
	return PaginationResponse{
		Page:       info.Page,
		PerPage:    info.PerPage,
		TotalItems: info.TotalItems,
		TotalPages: info.TotalPages,
		HasNext:    info.HasNext,
		HasPrev:    info.HasPrev,
	}
}
