package services

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/fergdesign/backend/internal/models"
	"github.com/redis/go-redis/v9"
)

func newRedisCache(t *testing.T) (*CacheService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewCacheService(client, time.Minute, nopLogger), mr
}

func TestCacheServiceStoresUnderSlot(t *testing.T) {
	cache, mr := newRedisCache(t)
	ctx := context.Background()

	slot := cache.Slot(ctx, cacheKeyPhotos)
	if slot != cacheKeyPhotos+":0" {
		t.Fatalf("Slot() = %q, want generation 0", slot)
	}

	var got []string
	if cache.Get(ctx, slot, &got) {
		t.Fatal("Get() on empty cache = hit")
	}
	cache.Set(ctx, slot, []string{"a", "b"})
	if !cache.Get(ctx, slot, &got) || len(got) != 2 || got[1] != "b" {
		t.Fatalf("Get() = %v, want [a b]", got)
	}
	if ttl := mr.TTL(slot); ttl != time.Minute {
		t.Errorf("TTL = %v, want 1m", ttl)
	}

	mr.FastForward(2 * time.Minute)
	if cache.Get(ctx, slot, &got) {
		t.Error("Get() after expiry = hit")
	}
}

func TestCacheServiceInvalidateRetiresStaleSlot(t *testing.T) {
	cache, _ := newRedisCache(t)
	ctx := context.Background()

	// A reader takes its slot, a writer commits and invalidates, then the
	// reader stores the listing it built before the write.
	before := cache.Slot(ctx, cacheKeyCategories)
	cache.Invalidate(ctx, cacheKeyCategories)
	cache.Set(ctx, before, []string{"stale"})

	after := cache.Slot(ctx, cacheKeyCategories)
	if after == before {
		t.Fatalf("Slot() after Invalidate = %q, want a new generation", after)
	}
	var got []string
	if cache.Get(ctx, after, &got) {
		t.Fatalf("Get() served stale listing %v", got)
	}

	cache.Invalidate(ctx, cacheKeyPhotos, cacheKeyCategories)
	if next := cache.Slot(ctx, cacheKeyCategories); next == after {
		t.Errorf("Slot() = %q, want generation bumped again", next)
	}
}

func TestCacheServiceUnavailable(t *testing.T) {
	ctx := context.Background()

	var disabled *CacheService
	if slot := disabled.Slot(ctx, cacheKeyPhotos); slot != "" {
		t.Errorf("nil cache Slot() = %q, want empty", slot)
	}
	if err := NewCacheService(nil, time.Minute, nopLogger).Ping(ctx); err != nil {
		t.Errorf("Ping() without client = %v", err)
	}

	cache, mr := newRedisCache(t)
	if err := cache.Ping(ctx); err != nil {
		t.Fatalf("Ping() = %v", err)
	}
	mr.SetError("ERR server unavailable")
	if slot := cache.Slot(ctx, cacheKeyPhotos); slot != "" {
		t.Errorf("Slot() with failing redis = %q, want empty", slot)
	}
	var got []string
	cache.Set(ctx, "", []string{"x"})
	if cache.Get(ctx, "", &got) {
		t.Error("Get() on empty slot = hit")
	}
	cache.Invalidate(ctx, cacheKeyPhotos)
	if err := cache.Ping(ctx); err == nil {
		t.Error("Ping() with failing redis = nil, want error")
	}
}

func TestCategoryListServedFromCache(t *testing.T) {
	db := newTestDB(t)
	cache, _ := newRedisCache(t)
	svc := NewCategoryService(db, cache, nopLogger)
	ctx := context.Background()

	if _, err := svc.Create(ctx, "Films", "#123456"); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	first, err := svc.List(ctx)
	if err != nil || len(first) != 1 {
		t.Fatalf("List() = %v, %v", first, err)
	}

	// Written around the service, so only a cache hit hides it.
	if err := db.Create(&models.VideoCategory{Name: "Direct", Color: "#000000"}).Error; err != nil {
		t.Fatal(err)
	}
	cached, err := svc.List(ctx)
	if err != nil || len(cached) != 1 {
		t.Fatalf("List() = %v, %v, want the cached single entry", cached, err)
	}

	if _, err := svc.Create(ctx, "Ads", "#abcdef"); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	fresh, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(fresh) != 3 || fresh[0].Name != "Ads" {
		t.Fatalf("List() after Create = %+v, want 3 entries starting with Ads", fresh)
	}
}

func TestPhotoListInvalidatedByDelete(t *testing.T) {
	cache, _ := newRedisCache(t)
	svc := NewPhotoService(newTestDB(t), newFakeStore(), cache, testConfig(), nopLogger)
	ctx := context.Background()

	work, err := svc.Create(ctx, CreatePhotoInput{Title: "One", Description: "d", Format: "single", Files: []UploadFile{image("a.jpg")}})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if items, err := svc.List(ctx); err != nil || len(items) != 1 {
		t.Fatalf("List() = %v, %v", items, err)
	}
	if _, err := svc.Delete(ctx, work.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if items, err := svc.List(ctx); err != nil || len(items) != 0 {
		t.Fatalf("List() after Delete = %v, %v, want empty", items, err)
	}
}
