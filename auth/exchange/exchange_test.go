package exchange

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/conta-ledger/conta/auth"
)

func TestClient_ExchangeAssertion(t *testing.T) {
	t.Run("OK", func(t *testing.T) {
		var requests int

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++

			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var body map[string]string
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))

			assert.Equal(t, map[string]string{
				"grant_type": "urn:ietf:params:oauth:grant-type:jwt-bearer",
				"assertion":  "signed.jwt.assertion",
			}, body)

			w.Header().Set("Content-Type", "application/json")
			io.WriteString(w, `{"access_token":"ya29.token","expires_in":3599,"token_type":"Bearer"}`)
		}))
		defer server.Close()

		token, err := NewClient().ExchangeAssertion(context.Background(), "signed.jwt.assertion", server.URL)
		require.NoError(t, err)

		assert.Equal(t, auth.ExchangedToken{AccessToken: "ya29.token", ExpiresIn: 3599}, token)
		assert.Equal(t, 1, requests)
	})

	t.Run("ErrorStatus", func(t *testing.T) {
		var requests int

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++

			w.WriteHeader(http.StatusBadRequest)
			io.WriteString(w, `{"error":"invalid_grant","error_description":"Invalid JWT Signature."}`)
		}))
		defer server.Close()

		_, err := NewClient().ExchangeAssertion(context.Background(), "assertion", server.URL)
		require.Error(t, err)

		var serverErr *auth.AuthServerError
		require.ErrorAs(t, err, &serverErr)

		assert.Equal(t, http.StatusBadRequest, serverErr.StatusCode)
		assert.Contains(t, serverErr.Body, "invalid_grant")
		assert.Equal(t, 1, requests, "failed exchanges must not be retried")
	})

	t.Run("ErrorBodyLimit", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			io.WriteString(w, strings.Repeat("x", 2*maxErrorBodySize))
		}))
		defer server.Close()

		_, err := NewClient(WithLogger(zap.NewNop())).ExchangeAssertion(context.Background(), "assertion", server.URL)
		require.Error(t, err)

		var serverErr *auth.AuthServerError
		require.ErrorAs(t, err, &serverErr)

		assert.Len(t, serverErr.Body, maxErrorBodySize)
	})

	t.Run("UnparseableBody", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `<html>not json</html>`)
		}))
		defer server.Close()

		_, err := NewClient().ExchangeAssertion(context.Background(), "assertion", server.URL)
		require.Error(t, err)

		var serverErr *auth.AuthServerError
		assert.ErrorAs(t, err, &serverErr)
	})

	t.Run("EmptyAccessToken", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, `{"expires_in":3600}`)
		}))
		defer server.Close()

		_, err := NewClient().ExchangeAssertion(context.Background(), "assertion", server.URL)
		require.Error(t, err)

		assert.ErrorIs(t, err, auth.ErrEmptyAccessToken)
	})

	t.Run("NetworkError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		endpoint := server.URL
		server.Close()

		_, err := NewClient().ExchangeAssertion(context.Background(), "assertion", endpoint)
		require.Error(t, err)

		var networkErr *auth.NetworkError
		require.ErrorAs(t, err, &networkErr)

		assert.Equal(t, endpoint, networkErr.Endpoint)
	})
}
