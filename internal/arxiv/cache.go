package arxiv

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	cacheTTL      = 24 * time.Hour
	partialSuffix = ".part"
	metaSuffix    = ".meta"
)

// pdfCache keeps downloaded PDFs on disk and revalidates stale copies with
// ETag and Last-Modified.
type pdfCache struct {
	dir    string
	client *http.Client
}

type pdfCacheMeta struct {
	URL          string    `json:"url"`
	ETag         string    `json:"etag"`
	LastModified string    `json:"lastModified"`
	CachedAt     time.Time `json:"cachedAt"`
}

// DefaultCacheDir is the per-user PDF cache location.
func DefaultCacheDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "paperpin", "pdfs")
}

func newPDFCache(dir string, client *http.Client) (*pdfCache, error) {
	if dir == "" {
		dir = DefaultCacheDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create pdf cache: %w", err)
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &pdfCache{dir: dir, client: client}, nil
}

// Fetch returns a local path for pdfURL. A fresh cached copy is used as is;
// a stale one is revalidated and kept when the server cannot be reached.
func (c *pdfCache) Fetch(ctx context.Context, pdfURL string) (string, error) {
	pdfPath, metaPath, partialPath := c.pathsFor(cacheKey(pdfURL))

	info, statErr := os.Stat(pdfPath)
	cached := statErr == nil && info.Size() > 0
	if cached && time.Since(info.ModTime()) < cacheTTL {
		return pdfPath, nil
	}

	var meta pdfCacheMeta
	if cached {
		meta, _ = readMeta(metaPath)
	}
	err := c.download(ctx, pdfURL, pdfPath, metaPath, partialPath, meta)
	if err != nil && cached {
		return pdfPath, nil
	}
	if err != nil {
		return "", err
	}
	return pdfPath, nil
}

func (c *pdfCache) download(ctx context.Context, pdfURL, pdfPath, metaPath, partialPath string, meta pdfCacheMeta) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pdfURL, nil)
	if err != nil {
		return err
	}
	if meta.ETag != "" {
		req.Header.Set("If-None-Match", meta.ETag)
	}
	if meta.LastModified != "" {
		req.Header.Set("If-Modified-Since", meta.LastModified)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNotModified:
		now := time.Now()
		if err := os.Chtimes(pdfPath, now, now); err != nil {
			return err
		}
		meta.CachedAt = now.UTC()
		return writeMeta(metaPath, meta)
	case http.StatusOK:
		return c.saveBody(resp, pdfPath, metaPath, partialPath)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("pdf download failed: %s (%s)", resp.Status, string(body))
	}
}

func (c *pdfCache) saveBody(resp *http.Response, pdfPath, metaPath, partialPath string) error {
	file, err := os.Create(partialPath)
	if err != nil {
		return err
	}
	if _, err := io.Copy(file, resp.Body); err != nil {
		file.Close()
		os.Remove(partialPath)
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}
	if err := os.Rename(partialPath, pdfPath); err != nil {
		return err
	}
	return writeMeta(metaPath, pdfCacheMeta{
		URL:          resp.Request.URL.String(),
		ETag:         resp.Header.Get("Etag"),
		LastModified: resp.Header.Get("Last-Modified"),
		CachedAt:     time.Now().UTC(),
	})
}

func (c *pdfCache) pathsFor(key string) (string, string, string) {
	return filepath.Join(c.dir, key+".pdf"), filepath.Join(c.dir, key+metaSuffix), filepath.Join(c.dir, key+partialSuffix)
}

func cacheKey(pdfURL string) string {
	if id := ExtractIdentifier(pdfURL); id != "" {
		return sanitizeKey(id)
	}
	sum := sha1.Sum([]byte(pdfURL))
	return hex.EncodeToString(sum[:])
}

func sanitizeKey(value string) string {
	return strings.NewReplacer("/", "-", ":", "-", "..", "-").Replace(strings.TrimSpace(value))
}

func readMeta(path string) (pdfCacheMeta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return pdfCacheMeta{}, err
	}
	var meta pdfCacheMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return pdfCacheMeta{}, err
	}
	return meta, nil
}

func writeMeta(path string, meta pdfCacheMeta) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
