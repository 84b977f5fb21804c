package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcos-nsantos/photogram-backend/internal/domain"
	"github.com/marcos-nsantos/photogram-backend/internal/pkg/apperror"
)

func TestAsAppError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"photo not found", domain.ErrPhotoNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"user not found", domain.ErrUserNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"asset not found", domain.ErrAssetNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{"rejected insert", domain.ErrPhotoRejected, http.StatusUnprocessableEntity, "UNPROCESSABLE"},
		{"duplicate email", domain.ErrUserAlreadyExists, http.StatusConflict, "USER_EXISTS"},
		{"bad credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"unknown error", errors.New("connection reset"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapped := asAppError(tt.err)

			var appErr *apperror.AppError
			require.ErrorAs(t, mapped, &appErr)
			assert.Equal(t, tt.wantStatus, appErr.StatusCode)
			assert.Equal(t, tt.wantCode, appErr.Code)
		})
	}

	t.Run("unwraps annotated sentinels", func(t *testing.T) {
		wrapped := fmt.Errorf("deleting photo: %w", domain.ErrForbidden)
		assert.Equal(t, http.StatusForbidden, apperror.StatusCode(asAppError(wrapped)))
	})
}
