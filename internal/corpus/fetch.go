package corpus

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// Download describes a corpus fetched into the cache.
type Download struct {
	URL    string
	Path   string
	Cached bool
}

// IsURL reports whether s names an http or https corpus.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Fetch downloads url into cacheDir unless a copy is already cached there.
func Fetch(ctx context.Context, url, cacheDir string) (Download, error) {
	if cacheDir == "" {
		return Download{}, fmt.Errorf("cache directory is required")
	}
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return Download{}, fmt.Errorf("failed to create cache dir: %w", err)
	}

	destPath := filepath.Join(cacheDir, cacheName(url))
	if _, err := os.Stat(destPath); err == nil {
		return Download{URL: url, Path: destPath, Cached: true}, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return Download{}, fmt.Errorf("failed to stat cached corpus: %w", err)
	}

	tmpFile, err := os.CreateTemp(cacheDir, "corpus-*.tmp")
	if err != nil {
		return Download{}, fmt.Errorf("failed to create temp corpus: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	resp, err := httpGet(ctx, url)
	if err != nil {
		return Download{}, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return Download{}, fmt.Errorf("unexpected corpus status: %s", resp.Status)
	}

	if _, err := io.Copy(tmpFile, resp.Body); err != nil {
		return Download{}, fmt.Errorf("failed to download corpus: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return Download{}, fmt.Errorf("failed to close temp corpus: %w", err)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return Download{}, fmt.Errorf("failed to move corpus into cache: %w", err)
	}
	return Download{URL: url, Path: destPath}, nil
}

// cacheName keeps the last path element readable and makes it unique per URL.
func cacheName(url string) string {
	sum := sha256.Sum256([]byte(url))
	base := path.Base(strings.SplitN(url, "?", 2)[0])
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	name := b.String()
	if name == "" || name == "." {
		name = "corpus"
	}
	return hex.EncodeToString(sum[:6]) + "-" + name
}

func httpGet(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}
