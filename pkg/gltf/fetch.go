package gltf

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/c2h5oh/datasize"
)

var (
	// ErrUnsupportedURI is returned for URI schemes the fetcher cannot read.
	ErrUnsupportedURI = errors.New("unsupported URI")
	// ErrInvalidDataURI is returned for malformed data: URIs.
	ErrInvalidDataURI = errors.New("invalid data URI")
	// ErrTooLarge is returned when a referenced file exceeds the size limit.
	ErrTooLarge = errors.New("referenced file too large")
)

// Fetcher reads the bytes behind an external reference.
type Fetcher interface {
	Fetch(ctx context.Context, uri string) ([]byte, error)
}

// FileFetcher reads relative URIs from a base directory.
type FileFetcher struct {
	BaseDir string
	MaxSize datasize.ByteSize // 0 means unlimited
}

// Fetch resolves uri against BaseDir and reads the file.
func (f FileFetcher) Fetch(ctx context.Context, uri string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if IsDataURI(uri) {
		return DecodeDataURI(uri)
	}

	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrUnsupportedURI, uri, err)
	}
	if u.Scheme != "" && u.Scheme != "file" {
		return nil, fmt.Errorf("%w: scheme %q", ErrUnsupportedURI, u.Scheme)
	}

	path := filepath.FromSlash(u.Path)
	if !filepath.IsAbs(path) {
		path = filepath.Join(f.BaseDir, path)
	}

	if f.MaxSize > 0 {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", uri, err)
		}
		if datasize.ByteSize(info.Size()) > f.MaxSize {
			return nil, fmt.Errorf("%w: %s is %s, limit %s", ErrTooLarge, uri,
				datasize.ByteSize(info.Size()).HumanReadable(), f.MaxSize.HumanReadable())
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", uri, err)
	}
	return data, nil
}

// IsDataURI reports whether uri embeds its payload.
func IsDataURI(uri string) bool {
	return strings.HasPrefix(uri, "data:")
}

// DecodeDataURI decodes data:[<mediatype>][;base64],<data>. Payloads
// without ;base64 are percent-decoded.
func DecodeDataURI(uri string) ([]byte, error) {
	if !IsDataURI(uri) {
		return nil, fmt.Errorf("%w: missing data: prefix", ErrInvalidDataURI)
	}
	header, payload, ok := strings.Cut(uri[len("data:"):], ",")
	if !ok {
		return nil, fmt.Errorf("%w: missing comma", ErrInvalidDataURI)
	}

	if strings.HasSuffix(header, ";base64") {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDataURI, err)
		}
		return data, nil
	}

	text, err := url.PathUnescape(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDataURI, err)
	}
	return []byte(text), nil
}

// CachingFetcher remembers fetched payloads so a URI shared by several
// entities is read once.
type CachingFetcher struct {
	next Fetcher

	mu     sync.Mutex
	data   map[string][]byte
	hits   int
	misses int
}

// NewCachingFetcher wraps next with a cache.
func NewCachingFetcher(next Fetcher) *CachingFetcher {
	return &CachingFetcher{
		next: next,
		data: make(map[string][]byte),
	}
}

// Fetch returns the cached payload for uri or reads it through the
// wrapped fetcher. Failures are not cached.
func (c *CachingFetcher) Fetch(ctx context.Context, uri string) ([]byte, error) {
	c.mu.Lock()
	if data, ok := c.data[uri]; ok {
		c.hits++
		c.mu.Unlock()
		return data, nil
	}
	c.misses++
	c.mu.Unlock()

	data, err := c.next.Fetch(ctx, uri)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.data[uri] = data
	c.mu.Unlock()
	return data, nil
}

// Clear drops all cached payloads and resets the counters.
func (c *CachingFetcher) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]byte)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *CachingFetcher) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
