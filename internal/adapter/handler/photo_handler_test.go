package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/marcos-nsantos/photogram-backend/internal/adapter/handler/dto/response"
	"github.com/marcos-nsantos/photogram-backend/internal/domain"
	"github.com/marcos-nsantos/photogram-backend/internal/domain/entity"
	"github.com/marcos-nsantos/photogram-backend/internal/mocks"
	"github.com/marcos-nsantos/photogram-backend/internal/pkg/pagination"
	"github.com/marcos-nsantos/photogram-backend/internal/usecase/photo"
)

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// fakeAuth stands in for the JWT middleware and stamps the given user id on
// every request.
func fakeAuth(userID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	}
}

func multipartPhoto(t *testing.T, title string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	require.NoError(t, writer.WriteField("title", title))

	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="image"; filename="shot.jpg"`)
	hdr.Set("Content-Type", "image/jpeg")
	part, err := writer.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write([]byte("jpeg-bytes"))
	require.NoError(t, err)

	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

// stubAssets resolves every key under a fixed base so responses carry a
// predictable url.
func stubAssets(ctrl *gomock.Controller) *mocks.MockAssetStorage {
	assets := mocks.NewMockAssetStorage(ctrl)
	assets.EXPECT().GetURL(gomock.Any()).DoAndReturn(func(key string) string {
		return "https://cdn.test/" + key
	}).AnyTimes()
	return assets
}

func TestPhotoHandlerCreate(t *testing.T) {
	userID := uuid.New()

	newHandler := func(t *testing.T) (*PhotoHandler, *mocks.MockPhotoService, *mocks.MockAssetStorage, *mocks.MockImageProcessor) {
		ctrl := gomock.NewController(t)
		photoSvc := mocks.NewMockPhotoService(ctrl)
		assets := stubAssets(ctrl)
		processor := mocks.NewMockImageProcessor(ctrl)
		return NewPhotoHandler(photoSvc, assets, processor, zap.NewNop(), 10<<20), photoSvc, assets, processor
	}

	t.Run("uploads asset then creates record", func(t *testing.T) {
		h, photoSvc, assets, processor := newHandler(t)

		router := setupRouter()
		router.POST("/photos", fakeAuth(userID), h.Create)

		processed := strings.NewReader("processed")
		processor.EXPECT().Process(gomock.Any()).Return(io.Reader(processed), int64(9), 800, 600, nil)

		var uploadedKey string
		assets.EXPECT().
			Upload(gomock.Any(), gomock.Any(), gomock.Any(), "image/jpeg", int64(9)).
			DoAndReturn(func(_ context.Context, key string, _ io.Reader, _ string, _ int64) error {
				uploadedKey = key
				return nil
			})

		created := entity.NewPhoto(userID, "Ana", "sunset at the pier", "")
		photoSvc.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, input photo.CreateInput) (*entity.Photo, error) {
				assert.Equal(t, userID, input.OwnerID)
				assert.Equal(t, "sunset at the pier", input.Title)
				assert.Equal(t, uploadedKey, input.AssetKey)
				created.AssetKey = input.AssetKey
				return created, nil
			})

		body, contentType := multipartPhoto(t, "sunset at the pier")
		req := httptest.NewRequest(http.MethodPost, "/photos", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code)

		var resp response.PhotoResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, created.ID, resp.ID)
		assert.Equal(t, "https://cdn.test/"+resp.AssetKey, resp.URL)
		assert.NotNil(t, resp.Likes)
		assert.Empty(t, resp.Likes)
	})

	t.Run("removes uploaded asset when insert is rejected", func(t *testing.T) {
		h, photoSvc, assets, processor := newHandler(t)

		router := setupRouter()
		router.POST("/photos", fakeAuth(userID), h.Create)

		processor.EXPECT().Process(gomock.Any()).Return(strings.NewReader("p"), int64(1), 1, 1, nil)

		var uploadedKey string
		assets.EXPECT().
			Upload(gomock.Any(), gomock.Any(), gomock.Any(), "image/jpeg", int64(1)).
			DoAndReturn(func(_ context.Context, key string, _ io.Reader, _ string, _ int64) error {
				uploadedKey = key
				return nil
			})
		photoSvc.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, domain.ErrPhotoRejected)
		assets.EXPECT().
			Delete(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, key string) error {
				assert.Equal(t, uploadedKey, key)
				return nil
			})

		body, contentType := multipartPhoto(t, "doomed photo")
		req := httptest.NewRequest(http.MethodPost, "/photos", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("rejects short title before touching storage", func(t *testing.T) {
		h, _, _, _ := newHandler(t)

		router := setupRouter()
		router.POST("/photos", fakeAuth(userID), h.Create)

		body, contentType := multipartPhoto(t, "ab")
		req := httptest.NewRequest(http.MethodPost, "/photos", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_TITLE")
	})

	t.Run("counts title length in runes not bytes", func(t *testing.T) {
		h, _, _, processor := newHandler(t)

		router := setupRouter()
		router.POST("/photos", fakeAuth(userID), h.Create)

		// two runes, four bytes: must fail the minimum
		body, contentType := multipartPhoto(t, "\u00e4\u00e4")
		req := httptest.NewRequest(http.MethodPost, "/photos", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_TITLE")

		// 18 runes but 54 bytes: must pass the maximum and reach the processor
		processor.EXPECT().Process(gomock.Any()).Return(nil, int64(0), 0, 0, errors.New("bad image"))

		body, contentType = multipartPhoto(t, strings.Repeat("\u5199", 18))
		req = httptest.NewRequest(http.MethodPost, "/photos", body)
		req.Header.Set("Content-Type", contentType)
		w = httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_FILE")
	})

	t.Run("logs the orphaned key when post-rejection cleanup fails", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		photoSvc := mocks.NewMockPhotoService(ctrl)
		assets := stubAssets(ctrl)
		processor := mocks.NewMockImageProcessor(ctrl)

		core, logs := observer.New(zapcore.WarnLevel)
		h := NewPhotoHandler(photoSvc, assets, processor, zap.New(core), 10<<20)

		router := setupRouter()
		router.POST("/photos", fakeAuth(userID), h.Create)

		processor.EXPECT().Process(gomock.Any()).Return(strings.NewReader("p"), int64(1), 1, 1, nil)

		var uploadedKey string
		assets.EXPECT().
			Upload(gomock.Any(), gomock.Any(), gomock.Any(), "image/jpeg", int64(1)).
			DoAndReturn(func(_ context.Context, key string, _ io.Reader, _ string, _ int64) error {
				uploadedKey = key
				return nil
			})
		photoSvc.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, domain.ErrPhotoRejected)
		assets.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))

		body, contentType := multipartPhoto(t, "doomed photo")
		req := httptest.NewRequest(http.MethodPost, "/photos", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

		entries := logs.FilterMessage("asset left behind after rejected photo insert").All()
		require.Len(t, entries, 1)
		assert.Equal(t, uploadedKey, entries[0].ContextMap()["asset_key"])
	})

	t.Run("does not log when post-rejection cleanup finds the asset gone", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		photoSvc := mocks.NewMockPhotoService(ctrl)
		assets := stubAssets(ctrl)
		processor := mocks.NewMockImageProcessor(ctrl)

		core, logs := observer.New(zapcore.WarnLevel)
		h := NewPhotoHandler(photoSvc, assets, processor, zap.New(core), 10<<20)

		router := setupRouter()
		router.POST("/photos", fakeAuth(userID), h.Create)

		processor.EXPECT().Process(gomock.Any()).Return(strings.NewReader("p"), int64(1), 1, 1, nil)
		assets.EXPECT().Upload(gomock.Any(), gomock.Any(), gomock.Any(), "image/jpeg", int64(1)).Return(nil)
		photoSvc.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, domain.ErrPhotoRejected)
		assets.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(domain.ErrAssetNotFound)

		body, contentType := multipartPhoto(t, "doomed photo")
		req := httptest.NewRequest(http.MethodPost, "/photos", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Zero(t, logs.Len())
	})
}

func TestPhotoHandlerGet(t *testing.T) {
	ctrl := gomock.NewController(t)
	photoSvc := mocks.NewMockPhotoService(ctrl)
	h := NewPhotoHandler(photoSvc, stubAssets(ctrl), mocks.NewMockImageProcessor(ctrl), zap.NewNop(), 10<<20)

	router := setupRouter()
	router.GET("/photos/:id", h.Get)

	t.Run("found", func(t *testing.T) {
		stored := entity.NewPhoto(uuid.New(), "Ana", "title", "photos/a.jpg")
		stored.Comments = []entity.Comment{
			{ID: uuid.New(), PhotoID: stored.ID, AuthorID: uuid.New(), AuthorName: "Bia", Body: "nice"},
		}
		photoSvc.EXPECT().GetByID(gomock.Any(), stored.ID).Return(stored, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/photos/"+stored.ID.String(), nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp response.PhotoResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Comments, 1)
		assert.Equal(t, "nice", resp.Comments[0].Comment)
		assert.Equal(t, "https://cdn.test/photos/a.jpg", resp.URL)
	})

	t.Run("not found", func(t *testing.T) {
		photoID := uuid.New()
		photoSvc.EXPECT().GetByID(gomock.Any(), photoID).Return(nil, domain.ErrPhotoNotFound)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/photos/"+photoID.String(), nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("bad id", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/photos/not-a-uuid", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPhotoHandlerList(t *testing.T) {
	ctrl := gomock.NewController(t)
	photoSvc := mocks.NewMockPhotoService(ctrl)
	h := NewPhotoHandler(photoSvc, stubAssets(ctrl), mocks.NewMockImageProcessor(ctrl), zap.NewNop(), 10<<20)

	router := setupRouter()
	router.GET("/photos", h.List)
	router.GET("/photos/search", h.Search)

	t.Run("lists with pagination", func(t *testing.T) {
		photos := []entity.Photo{*entity.NewPhoto(uuid.New(), "Ana", "one", "photos/1.jpg")}
		photoSvc.EXPECT().ListAll(gomock.Any(), 2, 5).Return(photos, pagination.NewInfo(2, 5, 11), nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/photos?page=2&per_page=5", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp response.PhotosListResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Photos, 1)
		assert.Equal(t, 2, resp.Pagination.Page)
		assert.Equal(t, 11, resp.Pagination.TotalItems)
		assert.True(t, resp.Pagination.HasPrev)
	})

	t.Run("search requires q", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/photos/search", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("search by title", func(t *testing.T) {
		photoSvc.EXPECT().Search(gomock.Any(), "sun", 0, 0).
			Return([]entity.Photo{}, pagination.NewInfo(1, 20, 0), nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/photos/search?q=sun", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestPhotoHandlerDelete(t *testing.T) {
	userID := uuid.New()

	newRouter := func(t *testing.T) (*gin.Engine, *mocks.MockPhotoService) {
		ctrl := gomock.NewController(t)
		photoSvc := mocks.NewMockPhotoService(ctrl)
		h := NewPhotoHandler(photoSvc, stubAssets(ctrl), mocks.NewMockImageProcessor(ctrl), zap.NewNop(), 10<<20)
		router := setupRouter()
		router.DELETE("/photos/:id", fakeAuth(userID), h.Delete)
		return router, photoSvc
	}

	t.Run("owner deletes", func(t *testing.T) {
		router, photoSvc := newRouter(t)
		photoID := uuid.New()
		photoSvc.EXPECT().Delete(gomock.Any(), userID, photoID).Return(nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/photos/"+photoID.String(), nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), photoID.String())
	})

	t.Run("non-owner gets forbidden", func(t *testing.T) {
		router, photoSvc := newRouter(t)
		photoID := uuid.New()
		photoSvc.EXPECT().Delete(gomock.Any(), userID, photoID).Return(domain.ErrForbidden)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/photos/"+photoID.String(), nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("missing photo", func(t *testing.T) {
		router, photoSvc := newRouter(t)
		photoID := uuid.New()
		photoSvc.EXPECT().Delete(gomock.Any(), userID, photoID).Return(domain.ErrPhotoNotFound)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/photos/"+photoID.String(), nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("storage failure surfaces as 500", func(t *testing.T) {
		router, photoSvc := newRouter(t)
		photoID := uuid.New()
		photoSvc.EXPECT().Delete(gomock.Any(), userID, photoID).Return(errors.New("deleting asset: connection reset"))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/photos/"+photoID.String(), nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestPhotoHandlerToggleLike(t *testing.T) {
	userID := uuid.New()

	ctrl := gomock.NewController(t)
	photoSvc := mocks.NewMockPhotoService(ctrl)
	h := NewPhotoHandler(photoSvc, stubAssets(ctrl), mocks.NewMockImageProcessor(ctrl), zap.NewNop(), 10<<20)

	router := setupRouter()
	router.PUT("/photos/:id/like", fakeAuth(userID), h.ToggleLike)

	t.Run("like then unlike", func(t *testing.T) {
		photoID := uuid.New()
		gomock.InOrder(
			photoSvc.EXPECT().ToggleLike(gomock.Any(), userID, photoID).
				Return(&photo.LikeResult{PhotoID: photoID, UserID: userID, Liked: true}, nil),
			photoSvc.EXPECT().ToggleLike(gomock.Any(), userID, photoID).
				Return(&photo.LikeResult{PhotoID: photoID, UserID: userID, Liked: false}, nil),
		)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/photos/"+photoID.String()+"/like", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var resp response.LikeResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Liked)

		w = httptest.NewRecorder()
		req = httptest.NewRequest(http.MethodPut, "/photos/"+photoID.String()+"/like", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Liked)
	})

	t.Run("missing photo", func(t *testing.T) {
		photoID := uuid.New()
		photoSvc.EXPECT().ToggleLike(gomock.Any(), userID, photoID).Return(nil, domain.ErrPhotoNotFound)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/photos/"+photoID.String()+"/like", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestPhotoHandlerComment(t *testing.T) {
	userID := uuid.New()

	ctrl := gomock.NewController(t)
	photoSvc := mocks.NewMockPhotoService(ctrl)
	h := NewPhotoHandler(photoSvc, stubAssets(ctrl), mocks.NewMockImageProcessor(ctrl), zap.NewNop(), 10<<20)

	router := setupRouter()
	router.POST("/photos/:id/comments", fakeAuth(userID), h.Comment)

	t.Run("appends comment", func(t *testing.T) {
		photoID := uuid.New()
		author := entity.NewUser("bia@example.com", "hash", "Bia")
		author.ID = userID
		comment := entity.NewComment(photoID, author, "great shot")

		photoSvc.EXPECT().AddComment(gomock.Any(), userID, photoID, "great shot").Return(comment, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/photos/"+photoID.String()+"/comments",
			strings.NewReader(`{"comment":"great shot"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code)

		var resp response.CommentResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "great shot", resp.Comment)
		assert.Equal(t, "Bia", resp.AuthorName)
	})

	t.Run("rejects too-short comment", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/photos/"+uuid.NewString()+"/comments",
			strings.NewReader(`{"comment":"ok"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing photo", func(t *testing.T) {
		photoID := uuid.New()
		photoSvc.EXPECT().AddComment(gomock.Any(), userID, photoID, "where was this taken").
			Return(nil, domain.ErrPhotoNotFound)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/photos/"+photoID.String()+"/comments",
			strings.NewReader(`{"comment":"where was this taken"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestPhotoHandlerUpdate(t *testing.T) {
	userID := uuid.New()

	ctrl := gomock.NewController(t)
	photoSvc := mocks.NewMockPhotoService(ctrl)
	h := NewPhotoHandler(photoSvc, stubAssets(ctrl), mocks.NewMockImageProcessor(ctrl), zap.NewNop(), 10<<20)

	router := setupRouter()
	router.PUT("/photos/:id", fakeAuth(userID), h.Update)

	t.Run("updates title", func(t *testing.T) {
		stored := entity.NewPhoto(userID, "Ana", "new title", "photos/a.jpg")
		photoSvc.EXPECT().
			Update(gomock.Any(), userID, stored.ID, gomock.Any()).
			DoAndReturn(func(_ context.Context, _, _ uuid.UUID, input photo.UpdateInput) (*entity.Photo, error) {
				require.NotNil(t, input.Title)
				assert.Equal(t, "new title", *input.Title)
				return stored, nil
			})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/photos/"+stored.ID.String(),
			strings.NewReader(`{"title":"new title"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("forbidden for non-owner", func(t *testing.T) {
		photoID := uuid.New()
		photoSvc.EXPECT().Update(gomock.Any(), userID, photoID, gomock.Any()).
			Return(nil, domain.ErrForbidden)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/photos/"+photoID.String(),
			strings.NewReader(`{"title":"hijacked"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
