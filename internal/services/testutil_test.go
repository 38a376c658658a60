package services

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/MariusZmr/STL-Library-Full-Stack/internal/config"
	"github.com/MariusZmr/STL-Library-Full-Stack/internal/database"
	"github.com/MariusZmr/STL-Library-Full-Stack/internal/models"
	"github.com/MariusZmr/STL-Library-Full-Stack/internal/policy"
	"github.com/MariusZmr/STL-Library-Full-Stack/internal/storage"
	"github.com/MariusZmr/STL-Library-Full-Stack/pkg/utils"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func pngDataURL() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngHeader)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), database.Options())
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func createUser(t *testing.T, db *gorm.DB, email string, role models.UserRole) models.User {
	t.Helper()

	hash, err := utils.HashPassword("password123")
	require.NoError(t, err)

	user := models.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    "Test",
		LastName:     strings.Split(email, "@")[0],
		Role:         role,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func actorFor(u models.User) policy.Actor {
	return policy.Actor{ID: u.ID, Role: u.Role}
}

type recordedAudit struct {
	mu      sync.Mutex
	entries []AuditEntry
}

func (r *recordedAudit) Record(_ context.Context, entry AuditEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
}

func (r *recordedAudit) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.Action)
	}
	return out
}

// faultyStore wraps the memory store and fails calls whose key starts with
// one of the configured prefixes.
type faultyStore struct {
	*storage.MemoryStore

	mu             sync.Mutex
	failUploadsFor []string
	failDeletesFor []string
	deleteCalls    []string
}

var errInjected = errors.New("injected storage failure")

func newFaultyStore() *faultyStore {
	return &faultyStore{MemoryStore: storage.NewMemoryStore("http://blobs.test")}
}

func hasAnyPrefix(key string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(key, prefix) {
			return true
		}
	}
	return false
}

func (f *faultyStore) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	f.mu.Lock()
	fail := hasAnyPrefix(key, f.failUploadsFor)
	f.mu.Unlock()
	if fail {
		return errInjected
	}
	return f.MemoryStore.Upload(ctx, key, reader, size, contentType)
}

func (f *faultyStore) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	f.deleteCalls = append(f.deleteCalls, key)
	fail := hasAnyPrefix(key, f.failDeletesFor)
	f.mu.Unlock()
	if fail {
		return errInjected
	}
	return f.MemoryStore.Delete(ctx, key)
}

func (f *faultyStore) deletes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleteCalls...)
}

func uploadConfig() config.UploadConfig {
	return config.UploadConfig{
		AllowedExtensions: []string{".stl"},
		MaxFileBytes:      1 << 20,
		MaxThumbnailBytes: 1 << 16,
		RequireThumbnail:  true,
	}
}
