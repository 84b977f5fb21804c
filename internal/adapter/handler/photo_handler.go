package handler

import (
	"errors"
	"net/http"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/marcos-nsantos/photogram-backend/internal/adapter/handler/dto/request"
	"github.com/marcos-nsantos/photogram-backend/internal/adapter/handler/dto/response"
	"github.com/marcos-nsantos/photogram-backend/internal/adapter/storage"
	"github.com/marcos-nsantos/photogram-backend/internal/domain"
	"github.com/marcos-nsantos/photogram-backend/internal/pkg/httputil"
	"github.com/marcos-nsantos/photogram-backend/internal/usecase/photo"
)

type PhotoHandler struct {
	photoSvc      PhotoService
	assets        storage.AssetStorage
	processor     storage.ImageProcessor
	logger        *zap.Logger
	maxUploadSize int64
}

func NewPhotoHandler(photoSvc PhotoService, assets storage.AssetStorage, processor storage.ImageProcessor, logger *zap.Logger, maxUploadSize int64) *PhotoHandler {
	return &PhotoHandler{
		photoSvc:      photoSvc,
		assets:        assets,
		processor:     processor,
		logger:        logger,
		maxUploadSize: maxUploadSize,
	}
}

// Create accepts a multipart request carrying the title and the image. The
// image is processed and written to the asset store first, then the record is
// inserted; when the insert is rejected the stored asset is removed again so
// no unreferenced file is left behind.
func (h *PhotoHandler) Create(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadSize)

	title := c.PostForm("title")
	if n := utf8.RuneCountInString(title); n < 3 || n > 50 {
		httputil.ErrorWithCode(c, http.StatusBadRequest, "INVALID_TITLE", "title must be between 3 and 50 characters")
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		httputil.ErrorWithCode(c, http.StatusBadRequest, "INVALID_FILE", "image is required")
		return
	}
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

	key := assetKey("photos", header.Filename)
	if err := h.assets.Upload(c.Request.Context(), key, processed, contentType, size); err != nil {
		httputil.InternalError(c)
		return
	}

	userID := httputil.GetUserID(c)

	p, err := h.photoSvc.Create(c.Request.Context(), photo.CreateInput{
		OwnerID:  userID,
		Title:    title,
		AssetKey: key,
	})
	if err != nil {
		if derr := h.assets.Delete(c.Request.Context(), key); derr != nil && !errors.Is(derr, domain.ErrAssetNotFound) {
			h.logger.Warn("asset left behind after rejected photo insert",
				zap.String("asset_key", key),
				zap.Error(derr),
			)
		}
		respondError(c, err)
		return
	}

	httputil.Created(c, response.PhotoFromEntity(p, h.assets.GetURL))
}

func (h *PhotoHandler) List(c *gin.Context) {
	var req request.ListPhotosRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httputil.ValidationError(c, err)
		return
	}

	photos, pageInfo, err := h.photoSvc.ListAll(c.Request.Context(), req.Page, req.PerPage)
	if err != nil {
		respondError(c, err)
		return
	}

	httputil.OK(c, response.PhotosListResponse{
		Photos:     response.PhotosFromEntities(photos, h.assets.GetURL),
		Pagination: response.PaginationFromInfo(pageInfo),
	})
}

func (h *PhotoHandler) ListByUser(c *gin.Context) {
	ownerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.ErrorWithCode(c, http.StatusBadRequest, "INVALID_ID", "invalid user id")
		return
	}

	var req request.ListPhotosRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httputil.ValidationError(c, err)
		return
	}

	photos, pageInfo, err := h.photoSvc.ListByOwner(c.Request.Context(), ownerID, req.Page, req.PerPage)
	if err != nil {
		respondError(c, err)
		return
	}

	httputil.OK(c, response.PhotosListResponse{
		Photos:     response.PhotosFromEntities(photos, h.assets.GetURL),
		Pagination: response.PaginationFromInfo(pageInfo),
	})
}

func (h *PhotoHandler) Search(c *gin.Context) {
	var req request.SearchPhotosRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httputil.ValidationError(c, err)
		return
	}

	photos, pageInfo, err := h.photoSvc.Search(c.Request.Context(), req.Query, req.Page, req.PerPage)
	if err != nil {
		respondError(c, err)
		return
	}

	httputil.OK(c, response.PhotosListResponse{
		Photos:     response.PhotosFromEntities(photos, h.assets.GetURL),
		Pagination: response.PaginationFromInfo(pageInfo),
	})
}

func (h *PhotoHandler) Get(c *gin.Context) {
	photoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.ErrorWithCode(c, http.StatusBadRequest, "INVALID_ID", "invalid photo id")
		return
	}

	p, err := h.photoSvc.GetByID(c.Request.Context(), photoID)
	if err != nil {
		respondError(c, err)
		return
	}

	httputil.OK(c, response.PhotoFromEntity(p, h.assets.GetURL))
}

func (h *PhotoHandler) Update(c *gin.Context) {
	photoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.ErrorWithCode(c, http.StatusBadRequest, "INVALID_ID", "invalid photo id")
		return
	}

	var req request.UpdatePhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.ValidationError(c, err)
		return
	}

	userID := httputil.GetUserID(c)

	p, err := h.photoSvc.Update(c.Request.Context(), userID, photoID, photo.UpdateInput{
		Title: req.Title,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	httputil.OK(c, response.PhotoFromEntity(p, h.assets.GetURL))
}

func (h *PhotoHandler) Delete(c *gin.Context) {
	photoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.ErrorWithCode(c, http.StatusBadRequest, "INVALID_ID", "invalid photo id")
		return
	}

	userID := httputil.GetUserID(c)

	if err := h.photoSvc.Delete(c.Request.Context(), userID, photoID); err != nil {
		respondError(c, err)
		return
	}

	httputil.OK(c, gin.H{"id": photoID})
}

func (h *PhotoHandler) ToggleLike(c *gin.Context) {
	photoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.ErrorWithCode(c, http.StatusBadRequest, "INVALID_ID", "invalid photo id")
		return
	}

	userID := httputil.GetUserID(c)

	result, err := h.photoSvc.ToggleLike(c.Request.Context(), userID, photoID)
	if err != nil {
		respondError(c, err)
		return
	}

	httputil.OK(c, response.LikeResponse{
		PhotoID: result.PhotoID,
		UserID:  result.UserID,
		Liked:   result.Liked,
	})
}

func (h *PhotoHandler) Comment(c *gin.Context) {
	photoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.ErrorWithCode(c, http.StatusBadRequest, "INVALID_ID", "invalid photo id")
		return
	}

	var req request.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.ValidationError(c, err)
		return
	}

	userID := httputil.GetUserID(c)

	comment, err := h.photoSvc.AddComment(c.Request.Context(), userID, photoID, req.Comment)
	if err != nil {
		respondError(c, err)
		return
	}

	httputil.Created(c, response.CommentFromEntity(comment))
}
