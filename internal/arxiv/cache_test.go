package arxiv

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"
)

func TestPDFCacheReusesFreshFile(t *testing.T) {
	t.Parallel()

	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Header().Set("Etag", `"v1"`)
		_, _ = w.Write([]byte("%PDF-1.4\nHello"))
	}))
	t.Cleanup(server.Close)

	cache, err := newPDFCache(t.TempDir(), server.Client())
	if err != nil {
		t.Fatalf("newPDFCache: %v", err)
	}
	ctx := context.Background()

	path, err := cache.Fetch(ctx, server.URL+"/pdf/2101.00001.pdf")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("cached file missing: %v", err)
	}

	path2, err := cache.Fetch(ctx, server.URL+"/pdf/2101.00001.pdf")
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if path != path2 {
		t.Fatalf("paths differ: %s vs %s", path, path2)
	}
	if hits != 1 {
		t.Fatalf("cache miss triggered download, total hits %d", hits)
	}
}

func TestPDFCacheRevalidatesStaleFile(t *testing.T) {
	t.Parallel()

	var conditional bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("If-None-Match") == `"v1"` {
			conditional = true
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("Etag", `"v1"`)
		_, _ = w.Write([]byte("%PDF-1.4\nOriginal"))
	}))
	t.Cleanup(server.Close)

	cache, err := newPDFCache(t.TempDir(), server.Client())
	if err != nil {
		t.Fatalf("newPDFCache: %v", err)
	}
	ctx := context.Background()

	path, err := cache.Fetch(ctx, server.URL+"/pdf/2201.00001.pdf")
	if err != nil {
		t.Fatalf("initial fetch: %v", err)
	}

	// Age the file to force a conditional request.
	old := time.Now().Add(-(cacheTTL + time.Hour))
	if err := os.Chtimes(path, old, old); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	if _, err := cache.Fetch(ctx, server.URL+"/pdf/2201.00001.pdf"); err != nil {
		t.Fatalf("conditional fetch: %v", err)
	}
	if !conditional {
		t.Fatalf("expected a conditional request for the stale copy")
	}
	data, err := os.ReadFile(path)
	if err != nil || !strings.Contains(string(data), "Original") {
		t.Fatalf("cached body lost: %q, %v", data, err)
	}
}

func TestPDFCacheFallsBackToStaleCopy(t *testing.T) {
	t.Parallel()

	fail := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail {
			http.Error(w, "down", http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("%PDF-1.4\nKept"))
	}))
	t.Cleanup(server.Close)

	cache, err := newPDFCache(t.TempDir(), server.Client())
	if err != nil {
		t.Fatalf("newPDFCache: %v", err)
	}
	ctx := context.Background()
	path, err := cache.Fetch(ctx, server.URL+"/pdf/2301.00001.pdf")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	old := time.Now().Add(-(cacheTTL + time.Hour))
	if err := os.Chtimes(path, old, old); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	fail = true
	again, err := cache.Fetch(ctx, server.URL+"/pdf/2301.00001.pdf")
	if err != nil {
		t.Fatalf("expected stale copy, got %v", err)
	}
	if again != path {
		t.Fatalf("unexpected path %s", again)
	}

	if _, err := cache.Fetch(ctx, server.URL+"/pdf/other.pdf"); err == nil {
		t.Fatalf("expected error without a cached copy")
	}
}

func TestCacheKeyFallsBackToHash(t *testing.T) {
	t.Parallel()
	key := cacheKey("https://example.com/foo.pdf")
	if len(key) == 0 {
		t.Fatal("cache key empty")
	}
	if strings.Contains(key, "/") {
		t.Fatalf("cache key should be sanitized, got %q", key)
	}
	if got := cacheKey("https://arxiv.org/pdf/hep-th/9901001.pdf"); got != "hep-th-9901001" {
		t.Fatalf("cacheKey = %q", got)
	}
}
