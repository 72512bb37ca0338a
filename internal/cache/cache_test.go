package cache

import (
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/bookrel/internal/model"
)

func TestCacheKey(t *testing.T) {
	a := CacheKey("https://www.gutenberg.org/files/1342/1342-0.txt")
	b := CacheKey("https://www.gutenberg.org/files/1342/1342-0.txt")
	c := CacheKey("https://www.gutenberg.org/files/84/84-0.txt")

	if a != b {
		t.Error("same URL must give the same key")
	}
	if a == c {
		t.Error("different URLs must give different keys")
	}
	if !strings.HasPrefix(a, "bookrel-source-v1-") {
		t.Errorf("unexpected key prefix: %s", a)
	}
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	if _, ok := c.Get("k"); ok {
		t.Fatal("expected miss")
	}
	_ = c.Set("k", []byte("v"), 0)
	if v, ok := c.Get("k"); !ok || string(v) != "v" {
		t.Fatalf("Get() = %q, %v", v, ok)
	}

	_ = c.Set("short", []byte("v"), time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	if _, ok := c.Get("short"); ok {
		t.Error("expected expired entry to miss")
	}

	_ = c.Clear()
	if _, ok := c.Get("k"); ok {
		t.Error("expected miss after Clear")
	}
}

func TestDiskCache(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Hour)

	if err := c.Set("k", []byte("book text"), 0); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if v, ok := c.Get("k"); !ok || string(v) != "book text" {
		t.Fatalf("Get() = %q, %v", v, ok)
	}

	// A second instance reads the same files
	if _, ok := NewDiskCache(dir, time.Hour).Get("k"); !ok {
		t.Error("expected entry to persist")
	}

	if err := c.Set("old", []byte("x"), -time.Second); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if _, ok := c.Get("old"); ok {
		t.Error("expected expired entry to miss")
	}

	if err := c.Delete("k"); err != nil {
		t.Errorf("Delete() error: %v", err)
	}
	if err := c.Delete("k"); err != nil {
		t.Errorf("Delete() of missing key error: %v", err)
	}

	_ = c.Set("a", []byte("1"), 0)
	if err := c.Clear(); err != nil {
		t.Fatalf("Clear() error: %v", err)
	}
	if _, ok := c.Get("a"); ok {
		t.Error("expected miss after Clear")
	}
}

func TestLayeredCache_PromotesFromDisk(t *testing.T) {
	dir := t.TempDir()
	_ = NewDiskCache(dir, time.Hour).Set("k", []byte("v"), 0)

	c := NewLayeredCache(time.Minute, dir, time.Hour)
	if v, ok := c.Get("k"); !ok || string(v) != "v" {
		t.Fatalf("Get() = %q, %v", v, ok)
	}
	if _, ok := c.memory.Get("k"); !ok {
		t.Error("expected disk hit to be promoted to memory")
	}
}

func TestSourceRoundTrip(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	src := &Source{
		URL:       "https://example.com/book.txt",
		Text:      "CHAPTER I\nJane smiled.",
		Meta:      model.FetchMeta{StatusCode: 200, ContentType: "text/plain"},
		FetchedAt: time.Now().UTC(),
	}

	if err := StoreSource(c, src, 0); err != nil {
		t.Fatalf("StoreSource() error: %v", err)
	}

	got, ok := LoadSource(c, src.URL)
	if !ok {
		t.Fatal("expected cached source")
	}
	if got.Text != src.Text || got.Meta.StatusCode != 200 {
		t.Errorf("LoadSource() = %+v", got)
	}

	if _, ok := LoadSource(c, "https://example.com/other.txt"); ok {
		t.Error("expected miss for another URL")
	}
}
