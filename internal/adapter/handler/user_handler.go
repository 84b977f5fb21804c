package handler

import (
	"fmt"
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/marcos-nsantos/photogram-backend/internal/adapter/handler/dto/request"
	"github.com/marcos-nsantos/photogram-backend/internal/adapter/handler/dto/response"
	"github.com/marcos-nsantos/photogram-backend/internal/adapter/storage"
	"github.com/marcos-nsantos/photogram-backend/internal/pkg/httputil"
	"github.com/marcos-nsantos/photogram-backend/internal/usecase/user"
)

type UserHandler struct {
	userSvc   UserService
	assets    storage.AssetStorage
	processor storage.ImageProcessor
}

func NewUserHandler(userSvc UserService, assets storage.AssetStorage, processor storage.ImageProcessor) *UserHandler {
	return &UserHandler{
		userSvc:   userSvc,
		assets:    assets,
		processor: processor,
	}
}

func (h *UserHandler) Me(c *gin.Context) {
	userID := httputil.GetUserID(c)

	u, err := h.userSvc.GetByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	httputil.OK(c, response.UserFromEntity(u, h.assets.GetURL))
}

func (h *UserHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.ErrorWithCode(c, http.StatusBadRequest, "INVALID_ID", "invalid user id")
		return
	}

	u, err := h.userSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	httputil.OK(c, response.UserFromEntity(u, h.assets.GetURL))
}

// Update applies a partial profile edit. An avatar file may ride along in the
// same multipart request; it is processed and stored before the record is
// touched so a failed upload never leaves a dangling avatar reference.
func (h *UserHandler) Update(c *gin.Context) {
	var req request.UpdateProfileRequest
	if err := c.ShouldBind(&req); err != nil {
		httputil.ValidationError(c, err)
		return
	}

	userID := httputil.GetUserID(c)

	input := user.UpdateProfileInput{
		Name:     req.Name,
		Password: req.Password,
		Bio:      req.Bio,
	}

	if file, header, err := c.Request.FormFile("avatar"); err == nil {
		defer file.Close()

		contentType := header.Header.Get("Content-Type")
		if !isAllowedImageType(contentType) {
			httputil.ErrorWithCode(c, http.StatusBadRequest, "INVALID_TYPE", "only jpeg and png images are allowed")
			return
		}

		processed, size, _, _, err := h.processor.Process(file)
		if err != nil {
			httputil.ErrorWithCode(c, http.StatusBadRequest, "INVALID_FILE", "could not process image")
			return
		}

		key := assetKey("avatars", header.Filename)
		if err := h.assets.Upload(c.Request.Context(), key, processed, contentType, size); err != nil {
			httputil.InternalError(c)
			return
		}
		input.AvatarKey = &key
	}

	u, err := h.userSvc.UpdateProfile(c.Request.Context(), userID, input)
	if err != nil {
		respondError(c, err)
		return
	}

	httputil.OK(c, response.UserFromEntity(u, h.assets.GetURL))
}

func assetKey(prefix, filename string) string {
	ext := path.Ext(filename)
	if ext == "" {
		ext = ".jpg"
	}
	return fmt.Sprintf("%s/%s%s", prefix, uuid.New().String(), ext)
}

func isAllowedImageType(contentType string) bool {
	return contentType == "image/jpeg" || contentType == "image/png" || contentType == "image/jpg"
}
