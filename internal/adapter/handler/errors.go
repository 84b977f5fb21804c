package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/marcos-nsantos/photogram-backend/internal/domain"
	"github.com/marcos-nsantos/photogram-backend/internal/pkg/apperror"
	"github.com/marcos-nsantos/photogram-backend/internal/pkg/httputil"
)

// respondError maps a use case error onto the HTTP surface. Every handler
// failure path after binding goes through here so the sentinel-to-status
// mapping lives in one place.
func respondError(c *gin.Context, err error) {
	httputil.HandleError(c, asAppError(err))
}

// asAppError translates domain sentinels into typed application errors
// carrying the status code and wire code. Anything unrecognized becomes an
// internal error.
func asAppError(err error) error {
	switch {
	case errors.Is(err, domain.ErrPhotoNotFound):
		return apperror.NotFound("photo")
	case errors.Is(err, domain.ErrUserNotFound):
		return apperror.NotFound("user")
	case errors.Is(err, domain.ErrAssetNotFound):
		return apperror.NotFound("asset")
	case errors.Is(err, domain.ErrForbidden):
		return apperror.Forbidden("access denied")
	case errors.Is(err, domain.ErrPhotoRejected):
		return apperror.Unprocessable("photo could not be created")
	case errors.Is(err, domain.ErrUserAlreadyExists):
		return apperror.New("USER_EXISTS", "email already registered", http.StatusConflict)
	case errors.Is(err, domain.ErrInvalidCredentials):
		return apperror.New("INVALID_CREDENTIALS", "invalid email or password", http.StatusUnauthorized)
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrTokenInvalid):
		return apperror.Unauthorized("authentication required")
	default:
		return apperror.Internal(err)
	}
}
