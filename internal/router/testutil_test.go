package router

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MariusZmr/STL-Library-Full-Stack/internal/config"
	"github.com/MariusZmr/STL-Library-Full-Stack/internal/database"
	"github.com/MariusZmr/STL-Library-Full-Stack/internal/models"
	"github.com/MariusZmr/STL-Library-Full-Stack/internal/services"
	"github.com/MariusZmr/STL-Library-Full-Stack/internal/storage"
	"github.com/MariusZmr/STL-Library-Full-Stack/pkg/utils"
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type testEnv struct {
	app    *fiber.App
	db     *gorm.DB
	store  *storage.MemoryStore
	tokens *utils.JWTManager
	audit  *services.AuditService
}

func testConfig() *config.Config {
	return &config.Config{
		DB:      config.DBConfig{Driver: config.DriverSQLite},
		Storage: config.StorageConfig{Driver: config.StorageMemory},
		JWT:     config.JWTConfig{Secret: "router-test-secret", ExpirationHours: 1},
		Server: config.ServerConfig{
			BodyLimitMB:        10,
			CORSAllowedOrigins: "*",
		},
		Catalogue: config.CatalogueConfig{PageSize: 9},
		Upload: config.UploadConfig{
			AllowedExtensions: []string{".stl"},
			MaxFileBytes:      1 << 20,
			MaxThumbnailBytes: 1 << 16,
			RequireThumbnail:  true,
		},
		Audit: config.AuditConfig{QueueSize: 64},
	}
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), database.Options())
	if err != nil {
		t.Fatalf("failed opening in-memory sqlite database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed getting sql.DB from gorm: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed migrating models: %v", err)
	}

	cfg := testConfig()
	tokens, err := utils.NewJWTManager(cfg.JWT.Secret, cfg.TokenTTL())
	if err != nil {
		t.Fatalf("failed creating jwt manager: %v", err)
	}

	store := storage.NewMemoryStore("")
	audit := services.NewAuditService(db, cfg.Audit.QueueSize)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = audit.Close(ctx)
	})

	app := New(Deps{
		Config: cfg,
		DB:     db,
		Store:  storage.Instrument(config.StorageMemory, store),
		Tokens: tokens,
		Audit:  audit,
	})

	return &testEnv{app: app, db: db, store: store, tokens: tokens, audit: audit}
}

func createTestUser(t *testing.T, env *testEnv, email, password string, role models.UserRole) (*models.User, string) {
	t.Helper()

	hash, err := utils.HashPassword(password)
	if err != nil {
		t.Fatalf("failed hashing password: %v", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    "Test",
		LastName:     "User",
		Role:         role,
	}
	if err := env.db.Create(user).Error; err != nil {
		t.Fatalf("failed creating test user: %v", err)
	}

	token, err := env.tokens.GenerateToken(utils.TokenSubject{ID: user.ID, Email: user.Email, Role: string(user.Role)})
	if err != nil {
		t.Fatalf("failed generating auth token: %v", err)
	}

	return user, token
}

func authHeaders(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func performRequest(t *testing.T, app *fiber.App, method, path string, body io.Reader, headers map[string]string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(method, path, body)
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := app.Test(req, int((10 * time.Second).Milliseconds()))
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, path, err)
	}

	return resp
}

func performJSONRequest(t *testing.T, app *fiber.App, method, path string, payload any, headers map[string]string) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("failed to marshal payload: %v", err)
		}
		body = bytes.NewReader(encoded)
	}

	requestHeaders := map[string]string{}
	for key, value := range headers {
		requestHeaders[key] = value
	}
	if payload != nil {
		requestHeaders["Content-Type"] = "application/json"
	}

	return performRequest(t, app, method, path, body, requestHeaders)
}

type uploadForm struct {
	name        string
	description string
	fileName    string
	content     []byte
	thumbnail   string
}

func performUpload(t *testing.T, app *fiber.App, form uploadForm, headers map[string]string) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	fields := map[string]string{
		"name":        form.name,
		"description": form.description,
		"thumbnail":   form.thumbnail,
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("failed writing field %s: %v", key, err)
		}
	}
	if form.fileName != "" {
		part, err := writer.CreateFormFile("file", form.fileName)
		if err != nil {
			t.Fatalf("failed creating form file: %v", err)
		}
		if _, err := part.Write(form.content); err != nil {
			t.Fatalf("failed writing form file: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed closing multipart writer: %v", err)
	}

	requestHeaders := map[string]string{"Content-Type": writer.FormDataContentType()}
	for key, value := range headers {
		requestHeaders[key] = value
	}
	return performRequest(t, app, http.MethodPost, "/api/files/upload", &buf, requestHeaders)
}

func decodeJSONMap(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed reading response body: %v", err)
	}

	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("failed decoding JSON response: %v body=%q", err, string(raw))
	}

	return payload
}

func readBody(t *testing.T, resp *http.Response) []byte {
	t.Helper()
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed reading response body: %v", err)
	}
	return raw
}

func assertStatus(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		t.Fatalf("expected status %d, got %d", expected, resp.StatusCode)
	}
}

func assertEnvelopeError(t *testing.T, body map[string]any, expected string) {
	t.Helper()
	if success, _ := body["success"].(bool); success {
		t.Fatalf("expected success=false, got %+v", body)
	}
	if got, _ := body["error"].(string); got != expected {
		t.Fatalf("expected error %q, got %q", expected, got)
	}
}

func envelopeData(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	if success, _ := body["success"].(bool); !success {
		t.Fatalf("expected success=true, got %+v", body)
	}
	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object, got %T", body["data"])
	}
	return data
}
