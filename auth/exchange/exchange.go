package exchange

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/conta-ledger/conta/auth"
)

// maxErrorBodySize limits how much of an error response is kept for diagnostics.
const maxErrorBodySize = 4 << 10

type tokenRequest struct {
	GrantType string `json:"grant_type"`
	Assertion string `json:"assertion"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Client exchanges signed assertions for access tokens using the OAuth2 JWT-bearer grant.
//
// Client sends exactly one request per exchange: failures are not retried.
type Client struct {
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient returns a new Client.
func NewClient(opts ...Option) Client {
	c := Client{}

	for _, opt := range opts {
		opt.applyClient(&c)
	}

	if c.httpClient == nil {
		c.httpClient = http.DefaultClient
	}

	if c.logger == nil {
		c.logger = zap.NewNop()
	}

	return c
}

// Option configures a Client.
type Option interface {
	applyClient(c *Client)
}

// WithHTTPClient sets the HTTP client used to reach the token endpoint.
func WithHTTPClient(httpClient *http.Client) Option {
	return httpClientOption{httpClient}
}

type httpClientOption struct {
	httpClient *http.Client
}

func (o httpClientOption) applyClient(c *Client) {
	c.httpClient = o.httpClient
}

// WithLogger sets the logger of a Client.
func WithLogger(logger *zap.Logger) Option {
	return loggerOption{logger}
}

type loggerOption struct {
	logger *zap.Logger
}

func (o loggerOption) applyClient(c *Client) {
	c.logger = o.logger
}

// ExchangeAssertion implements auth.TokenExchanger.
//
// Transport failures are returned as *auth.NetworkError,
// non-2xx responses and unexpected response bodies as *auth.AuthServerError.
func (c Client) ExchangeAssertion(ctx context.Context, assertion string, endpoint string) (auth.ExchangedToken, error) {
	body, err := json.Marshal(tokenRequest{
		GrantType: auth.GrantTypeJWTBearer,
		Assertion: assertion,
	})
	if err != nil {
		return auth.ExchangedToken{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return auth.ExchangedToken{}, &auth.NetworkError{Endpoint: endpoint, Err: err}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return auth.ExchangedToken{}, &auth.NetworkError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug("token endpoint responded", zap.String("endpoint", endpoint), zap.Int("status", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))

		return auth.ExchangedToken{}, &auth.AuthServerError{
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
		}
	}

	var tokenResp tokenResponse

	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return auth.ExchangedToken{}, &auth.AuthServerError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("decoding token response: %w", err),
		}
	}

	if tokenResp.AccessToken == "" {
		return auth.ExchangedToken{}, &auth.AuthServerError{
			StatusCode: resp.StatusCode,
			Err:        auth.ErrEmptyAccessToken,
		}
	}

	return auth.ExchangedToken{
		AccessToken: tokenResp.AccessToken,
		ExpiresIn:   tokenResp.ExpiresIn,
	}, nil
}
