package cache

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"

	"go.uber.org/zap"

	"github.com/conta-ledger/conta/auth"
	"github.com/conta-ledger/conta/pkg/option"
)

// DefaultPath is the default location of the token cache file.
const DefaultPath = "access_token.json"

var errIncompleteRecord = errors.New("incomplete record")

// record is the on-disk form of a cached token.
//
// Fields are pointers so that a missing field can be told apart from a zero value.
type record struct {
	Token     *string `json:"token"`
	ExpiresAt *int64  `json:"expires_at"`
}

// FileStore keeps a single cached token in a JSON file.
//
// FileStore does not lock the file: concurrent writers overwrite each other.
type FileStore struct {
	path   string
	logger *zap.Logger
}

// NewFileStore returns a new FileStore.
func NewFileStore(path string, logger *zap.Logger) FileStore {
	if path == "" {
		path = DefaultPath
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return FileStore{
		path:   path,
		logger: logger,
	}
}

// Path returns the location of the cache file.
func (s FileStore) Path() string {
	return s.path
}

// Read implements auth.TokenStore.
//
// A missing file is a cache miss. So is a file that cannot be read or does not hold a complete record,
// in which case a warning is logged.
func (s FileStore) Read(_ context.Context) option.Option[auth.CachedToken] {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return option.None[auth.CachedToken]()
	}

	if err != nil {
		s.logger.Warn("token cache could not be read, ignoring", zap.Error(&auth.CacheReadError{Path: s.path, Err: err}))

		return option.None[auth.CachedToken]()
	}

	var r record

	err = json.Unmarshal(data, &r)
	if err == nil && (r.Token == nil || *r.Token == "" || r.ExpiresAt == nil) {
		err = errIncompleteRecord
	}

	if err != nil {
		s.logger.Warn("token cache is malformed, ignoring", zap.Error(&auth.CacheReadError{Path: s.path, Err: err}))

		return option.None[auth.CachedToken]()
	}

	return option.Some(auth.CachedToken{
		Token:     *r.Token,
		ExpiresAt: *r.ExpiresAt,
	})
}

// Write implements auth.TokenStore.
//
// The existing file is removed before the new record is written.
// A crash in between leaves no cache file behind, which reads as a cache miss.
func (s FileStore) Write(_ context.Context, token auth.CachedToken) error {
	data, err := json.Marshal(record{
		Token:     &token.Token,
		ExpiresAt: &token.ExpiresAt,
	})
	if err != nil {
		return &auth.CacheWriteError{Path: s.path, Err: err}
	}

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &auth.CacheWriteError{Path: s.path, Err: err}
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return &auth.CacheWriteError{Path: s.path, Err: err}
	}

	return nil
}
