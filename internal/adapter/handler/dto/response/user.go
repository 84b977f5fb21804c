package response

import (
	"time"

	"github.com/google/uuid"

	"github.com/marcos-nsantos/photogram-backend/internal/domain/entity"
)

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Bio       string    `json:"bio,omitempty"`
	AvatarKey string    `json:"avatar_key,omitempty"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type AuthResponse struct {
	User        UserResponse `json:"user"`
	AccessToken string       `json:"access_token"`
	ExpiresAt   time.Time    `json:"expires_at"`
}

func UserFromEntity(u *entity.User, assetURL func(key string) string) UserResponse {
	resp := UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Bio:       u.Bio,
		AvatarKey: u.AvatarKey,
		CreatedAt: u.CreatedAt,
	}
	if u.AvatarKey != "" {
		resp.AvatarURL = assetURL(u.AvatarKey)
	}
	return resp
}
