package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/conta-ledger/conta/auth"
	"github.com/conta-ledger/conta/pkg/option"
)

func TestFileStore_RoundTrip(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "access_token.json"), nil)

	token := auth.CachedToken{
		Token:     "abc",
		ExpiresAt: 1700000000,
	}

	err := store.Write(context.Background(), token)
	require.NoError(t, err)

	cached, ok := option.Get(store.Read(context.Background()))
	require.True(t, ok)

	assert.Equal(t, token, cached)
}

func TestFileStore_Write(t *testing.T) {
	path := filepath.Join(t.TempDir(), "access_token.json")
	store := NewFileStore(path, nil)

	require.NoError(t, store.Write(context.Background(), auth.CachedToken{Token: "first-token-with-a-long-value", ExpiresAt: 1700000000}))
	require.NoError(t, store.Write(context.Background(), auth.CachedToken{Token: "second", ExpiresAt: 1700003600}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.JSONEq(t, `{"token":"second","expires_at":1700003600}`, string(data))
}

func TestFileStore_WriteError(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "missing", "access_token.json"), nil)

	err := store.Write(context.Background(), auth.CachedToken{Token: "abc", ExpiresAt: 1700000000})
	require.Error(t, err)

	var writeErr *auth.CacheWriteError
	assert.ErrorAs(t, err, &writeErr)
}

func TestFileStore_Read(t *testing.T) {
	t.Run("Missing", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		store := NewFileStore(filepath.Join(t.TempDir(), "access_token.json"), zap.New(core))

		assert.False(t, store.Read(context.Background()).HasValue())
		assert.Zero(t, logs.Len())
	})

	testCases := map[string]string{
		"InvalidJSON":      `{"token": "abc", "expires_at": `,
		"MissingToken":     `{"expires_at": 1700000000}`,
		"EmptyToken":       `{"token": "", "expires_at": 1700000000}`,
		"MissingExpiresAt": `{"token": "abc"}`,
		"WrongType":        `{"token": "abc", "expires_at": "tomorrow"}`,
		"Empty":            ``,
	}

	for name, contents := range testCases {
		contents := contents

		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "access_token.json")
			require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

			core, logs := observer.New(zapcore.WarnLevel)
			store := NewFileStore(path, zap.New(core))

			assert.False(t, store.Read(context.Background()).HasValue())
			assert.Equal(t, 1, logs.FilterMessage("token cache is malformed, ignoring").Len())
		})
	}
}

func TestInMemoryStore(t *testing.T) {
	var store InMemoryStore

	assert.False(t, store.Read(context.Background()).HasValue())

	token := auth.CachedToken{Token: "abc", ExpiresAt: 1700000000}
	require.NoError(t, store.Write(context.Background(), token))

	cached, ok := option.Get(store.Read(context.Background()))
	require.True(t, ok)
	assert.Equal(t, token, cached)
}
