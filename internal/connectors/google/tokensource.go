package google

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/oauth2"
)

// TokenCache stores an OAuth token as JSON on disk.
type TokenCache struct {
	path string
}

// NewTokenCache returns a cache backed by path.
func NewTokenCache(path string) *TokenCache {
	return &TokenCache{path: path}
}

// Path returns the cache file.
func (c *TokenCache) Path() string {
	return c.path
}

// Load returns the cached token, or nil when the file does not exist.
// A file that cannot be decoded is reported as an error.
func (c *TokenCache) Load() (*oauth2.Token, error) {
	data, err := os.ReadFile(c.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read token cache: %w", err)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("decode token cache %s: %w", c.path, err)
	}
	return &tok, nil
}

// Save writes the token with owner-only permissions.
func (c *TokenCache) Save(tok *oauth2.Token) error {
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return fmt.Errorf("encode token: %w", err)
	}
	if dir := filepath.Dir(c.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create token directory: %w", err)
		}
	}
	if err := os.WriteFile(c.path, data, 0o600); err != nil {
		return fmt.Errorf("write token cache: %w", err)
	}
	return nil
}

// cachingTokenSource writes each new access token back to the cache so
// refreshes survive the process.
type cachingTokenSource struct {
	mu    sync.Mutex
	base  oauth2.TokenSource
	cache *TokenCache
	last  string
}

// NewCachingTokenSource wraps base, saving tokens to cache whenever the
// access token changes. current is the token already on disk, if any.
func NewCachingTokenSource(base oauth2.TokenSource, cache *TokenCache, current *oauth2.Token) oauth2.TokenSource {
	s := &cachingTokenSource{base: base, cache: cache}
	if current != nil {
		s.last = current.AccessToken
	}
	return s
}

// Token implements oauth2.TokenSource.
func (s *cachingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.base.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if tok.AccessToken != s.last {
		if err := s.cache.Save(tok); err != nil {
			return nil, err
		}
		s.last = tok.AccessToken
	}
	return tok, nil
}
