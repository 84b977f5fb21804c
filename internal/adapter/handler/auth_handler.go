package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/marcos-nsantos/photogram-backend/internal/adapter/handler/dto/request"
	"github.com/marcos-nsantos/photogram-backend/internal/adapter/handler/dto/response"
	"github.com/marcos-nsantos/photogram-backend/internal/adapter/storage"
	"github.com/marcos-nsantos/photogram-backend/internal/pkg/httputil"
	"github.com/marcos-nsantos/photogram-backend/internal/usecase/auth"
)

type AuthHandler struct {
	authSvc AuthService
	assets  storage.AssetStorage
}

func NewAuthHandler(authSvc AuthService, assets storage.AssetStorage) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, assets: assets}
}

// Register creates an account and signs the user in directly, mirroring the
// register-then-login flow the client expects as a single request.
func (h *AuthHandler) Register(c *gin.Context) {
	var req request.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.ValidationError(c, err)
		return
	}

	user, token, err := h.authSvc.Register(c.Request.Context(), auth.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	httputil.Created(c, response.AuthResponse{
		User:        response.UserFromEntity(user, h.assets.GetURL),
		AccessToken: token.AccessToken,
		ExpiresAt:   token.ExpiresAt,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req request.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.ValidationError(c, err)
		return
	}

	token, user, err := h.authSvc.Login(c.Request.Context(), auth.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	httputil.OK(c, response.AuthResponse{
		User:        response.UserFromEntity(user, h.assets.GetURL),
		AccessToken: token.AccessToken,
		ExpiresAt:   token.ExpiresAt,
	})
}
