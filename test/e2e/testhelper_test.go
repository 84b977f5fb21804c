package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"github.com/marcos-nsantos/photogram-backend/internal/adapter/handler"
	pgRepo "github.com/marcos-nsantos/photogram-backend/internal/adapter/repository/postgres"
	"github.com/marcos-nsantos/photogram-backend/internal/domain"
	"github.com/marcos-nsantos/photogram-backend/internal/infrastructure/auth"
	"github.com/marcos-nsantos/photogram-backend/internal/infrastructure/database"
	"github.com/marcos-nsantos/photogram-backend/internal/infrastructure/middleware"
	"github.com/marcos-nsantos/photogram-backend/internal/infrastructure/server"
	authUC "github.com/marcos-nsantos/photogram-backend/internal/usecase/auth"
	"github.com/marcos-nsantos/photogram-backend/internal/usecase/photo"
	"github.com/marcos-nsantos/photogram-backend/internal/usecase/user"
)

const (
	testDBUser     = "testuser"
	testDBPassword = "testpass"
	testDBName     = "testdb"
	testJWTSecret  = "test-secret-key-for-e2e-tests"
	apiBasePath    = "/api/v1"
)

type TestApp struct {
	Server     *httptest.Server
	Pool       *pgxpool.Pool
	Container  testcontainers.Container
	Storage    *memoryStorage
	BaseURL    string
	httpClient *http.Client
}

func setupTestApp(t *testing.T) *TestApp {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping e2e test in short mode")
	}

	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:18-alpine",
		postgres.WithDatabase(testDBName),
		postgres.WithUsername(testDBUser),
		postgres.WithPassword(testDBPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	migrationsPath := getMigrationsPath()
	err = database.RunMigrations(ctx, pool, migrationsPath)
	require.NoError(t, err)

	userRepo := pgRepo.NewUserRepo(pool)
	photoRepo := pgRepo.NewPhotoRepo(pool)

	jwtSvc := auth.NewJWTService(testJWTSecret, 15*time.Minute)
	passwordHasher := auth.NewPasswordHasher(4) // Lower cost for faster tests

	// In-memory storage keeps the full upload/exists/delete cycle observable
	// without S3 or the local filesystem.
	storage := newMemoryStorage()
	processor := &stubImageProcessor{}

	authSvc := authUC.NewService(userRepo, jwtSvc, passwordHasher)
	userSvc := user.NewService(userRepo, passwordHasher)
	photoSvc := photo.NewService(photoRepo, userRepo, storage)

	logger, _ := zap.NewDevelopment()

	authHandler := handler.NewAuthHandler(authSvc, storage)
	userHandler := handler.NewUserHandler(userSvc, storage, processor)
	photoHandler := handler.NewPhotoHandler(photoSvc, storage, processor, logger, 10<<20)

	authMiddleware := middleware.NewAuthMiddleware(jwtSvc)
	router := server.NewRouter(server.RouterConfig{
		AuthHandler:    authHandler,
		UserHandler:    userHandler,
		PhotoHandler:   photoHandler,
		AuthMiddleware: authMiddleware,
		Logger:         logger,
		Environment:    "test",
	})

	ts := httptest.NewServer(router.Engine())

	return &TestApp{
		Server:    ts,
		Pool:      pool,
		Container: pgContainer,
		Storage:   storage,
		BaseURL:   ts.URL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (app *TestApp) cleanup(t *testing.T) {
	t.Helper()

	app.Server.Close()
	app.Pool.Close()

	ctx := context.Background()
	if err := app.Container.Terminate(ctx); err != nil {
		t.Logf("failed to terminate container: %v", err)
	}
}

func (app *TestApp) request(method, path string, body any, headers map[string]string) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	fullPath := apiBasePath + path
	req, err := http.NewRequest(method, app.BaseURL+fullPath, bodyReader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return app.httpClient.Do(req)
}

func (app *TestApp) get(path string, headers map[string]string) (*http.Response, error) {
	return app.request(http.MethodGet, path, nil, headers)
}

func (app *TestApp) post(path string, body any, headers map[string]string) (*http.Response, error) {
	return app.request(http.MethodPost, path, body, headers)
}

func (app *TestApp) put(path string, body any, headers map[string]string) (*http.Response, error) {
	return app.request(http.MethodPut, path, body, headers)
}

func (app *TestApp) delete(path string, headers map[string]string) (*http.Response, error) {
	return app.request(http.MethodDelete, path, nil, headers)
}

// postMultipart uploads a photo with the given title and a fake jpeg body.
func (app *TestApp) postMultipart(t *testing.T, path, title, token string) (*http.Response, error) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	require.NoError(t, writer.WriteField("title", title))

	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="image"; filename="shot.jpg"`)
	hdr.Set("Content-Type", "image/jpeg")
	part, err := writer.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write([]byte("fake-jpeg-bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req, err := http.NewRequest(http.MethodPost, app.BaseURL+apiBasePath+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	return app.httpClient.Do(req)
}

func parseResponse(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	if dest != nil {
		err = json.Unmarshal(body, dest)
		require.NoError(t, err, "response body: %s", string(body))
	}
}

func authHeader(token string) map[string]string {
	return map[string]string{
		"Authorization": "Bearer " + token,
	}
}

// memoryStorage is an in-memory asset store tracking uploads and deletes.

type memoryStorage struct {
	mu     sync.Mutex
	assets map[string][]byte
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{assets: make(map[string][]byte)}
}

func (s *memoryStorage) Upload(_ context.Context, key string, reader io.Reader, _ string, _ int64) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assets[key] = data
	return nil
}

func (s *memoryStorage) Exists(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.assets[key]
	return ok, nil
}

func (s *memoryStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.assets[key]; !ok {
		return domain.ErrAssetNotFound
	}
	delete(s.assets, key)
	return nil
}

func (s *memoryStorage) GetURL(key string) string {
	return "https://stub-storage.example.com/" + key
}

func (s *memoryStorage) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.assets)
}

type stubImageProcessor struct{}

func (s *stubImageProcessor) Process(reader io.Reader) (io.Reader, int64, int, int, error) {
	data, _ := io.ReadAll(reader)
	return bytes.NewReader(data), int64(len(data)), 800, 600, nil
}

// getMigrationsPath returns the absolute path to the migrations directory
func getMigrationsPath() string {
	_, filename, _, _ := runtime.Caller(0)
	testDir := filepath.Dir(filename)
	return filepath.Join(testDir, "..", "..", "migrations")
}
