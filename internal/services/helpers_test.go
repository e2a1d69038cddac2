package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fergdesign/backend/internal/config"
	"github.com/fergdesign/backend/internal/models"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", name)
	db, err := gorm.Open(sqlite.Open(dsn), models.GormConfig(false))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := models.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		MaxUploadMB:        1,
		MaxPhotoFiles:      5,
		PrivateURLTTL:      900 * time.Second,
		BcryptCost:         4,
		PublicMediaBaseURL: "https://cdn.example/media/",
	}
}

var errStoreDown = errors.New("store unavailable")

// fakeStore is an in-memory ObjectStore. failPutAt makes the n-th Put
// (1-based) fail; deleteErr makes every Delete fail.
type fakeStore struct {
	mu        sync.Mutex
	objects   map[string][]byte
	puts      int
	deleted   []string
	failPutAt int
	deleteErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string][]byte{}}
}

func (f *fakeStore) Put(_ context.Context, key string, data []byte, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.puts++
	if f.failPutAt > 0 && f.puts == f.failPutAt {
		return errStoreDown
	}
	f.objects[key] = data
	return nil
}

func (f *fakeStore) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, key)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.objects, key)
	return nil
}

func (f *fakeStore) PresignGet(_ context.Context, key string, ttl time.Duration) (string, error) {
	return fmt.Sprintf("https://signed.example/%s?expires=%d", key, int(ttl.Seconds())), nil
}

func (f *fakeStore) keys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.objects))
	for k := range f.objects {
		out = append(out, k)
	}
	return out
}

type fakeResolver struct {
	links map[string]string
	calls int
}

func (r *fakeResolver) Resolve(_ context.Context, link string) (string, error) {
	r.calls++
	if href, ok := r.links[link]; ok {
		return href, nil
	}
	return "", Upstream("Failed to resolve Yandex Disk link. Ensure the link is public and points to a file.", nil)
}

func image(name string) UploadFile {
	return UploadFile{Name: name, ContentType: "image/jpeg", Data: []byte("jpeg:" + name)}
}

func clip(name string) UploadFile {
	return UploadFile{Name: name, ContentType: "video/mp4", Data: []byte("mp4:" + name)}
}

func count(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	if err := db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}

func wantKind(t *testing.T, err error, kind ErrorKind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	if got := KindOf(err); got != kind {
		t.Fatalf("error kind = %s, want %s (%v)", got, kind, err)
	}
}

var nopLogger = zap.NewNop()
