package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/conta-ledger/conta/pkg/option"
)

// Provider returns a valid bearer token for a service identity.
//
// Tokens are served from a TokenStore as long as they are valid.
// Otherwise a fresh assertion is signed and exchanged, and the result is written back to the store.
//
// Provider does not coordinate with other processes sharing the same store:
// concurrent processes may both miss the cache and both exchange an assertion (last write wins).
type Provider struct {
	identity   ServiceIdentity
	assertions AssertionBuilder
	exchanger  TokenExchanger
	store      TokenStore

	clock  clockwork.Clock
	logger *zap.Logger

	mu    sync.Mutex
	state State
}

var _ oauth2.TokenSource = (*Provider)(nil)

// NewProvider returns a new Provider.
func NewProvider(identity ServiceIdentity, assertions AssertionBuilder, exchanger TokenExchanger, store TokenStore, opts ...ProviderOption) *Provider {
	p := &Provider{
		identity:   identity,
		assertions: assertions,
		exchanger:  exchanger,
		store:      store,
	}

	for _, opt := range opts {
		opt.applyProvider(p)
	}

	if p.clock == nil {
		p.clock = clockwork.NewRealClock()
	}

	if p.logger == nil {
		p.logger = zap.NewNop()
	}

	return p
}

// GetAccessToken returns a bearer token that is valid at the time of the call.
//
// Errors are either a *SigningError, a *NetworkError or an *AuthServerError (or whatever the configured TokenExchanger returns).
// The store is left untouched when acquisition fails.
func (p *Provider) GetAccessToken(ctx context.Context) (string, error) {
	token, err := p.accessToken(ctx)
	if err != nil {
		return "", err
	}

	return token.Token, nil
}

// Token implements oauth2.TokenSource.
func (p *Provider) Token() (*oauth2.Token, error) {
	token, err := p.accessToken(context.Background())
	if err != nil {
		return nil, err
	}

	return &oauth2.Token{
		AccessToken: token.Token,
		TokenType:   "Bearer",
		Expiry:      time.Unix(token.ExpiresAt, 0),
	}, nil
}

// State returns the state the last acquisition ended in.
func (p *Provider) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.state
}

func (p *Provider) accessToken(ctx context.Context) (CachedToken, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.setState(StateCacheCheck)

	now := p.clock.Now()

	if cached, ok := option.Get(p.store.Read(ctx)); ok {
		if cached.ValidAt(now.Unix()) {
			p.setState(StateCacheHit)
			p.logger.Debug("token recovered from cache", zap.Int64("expiresAt", cached.ExpiresAt))
			p.setState(StateReady)

			return cached, nil
		}

		p.logger.Debug("cached token expired", zap.Int64("expiresAt", cached.ExpiresAt))
	}

	p.setState(StateCacheMiss)
	p.logger.Info("cache miss, requesting new token", zap.String("issuer", p.identity.Issuer))

	assertion, err := p.assertions.BuildAssertion(p.identity, now)
	if err != nil {
		p.setState(StateFailed)

		var signingErr *SigningError
		if !errors.As(err, &signingErr) {
			err = &SigningError{Err: err}
		}

		return CachedToken{}, err
	}

	p.setState(StateExchangeInFlight)

	exchanged, err := p.exchanger.ExchangeAssertion(ctx, assertion, p.identity.TokenEndpoint)
	if err != nil {
		p.setState(StateExchangeFailed)
		p.setState(StateFailed)

		return CachedToken{}, err
	}

	p.setState(StateExchangeSucceeded)

	token := CachedToken{
		Token:     exchanged.AccessToken,
		ExpiresAt: expiresAt(now.Unix(), exchanged.ExpiresIn),
	}

	p.logger.Info("got fresh token", zap.Int64("expiresAt", token.ExpiresAt))

	// The token is usable for this process even if it cannot be persisted.
	if err := p.store.Write(ctx, token); err != nil {
		p.logger.Warn("token could not be saved", zap.Error(err))
	} else {
		p.logger.Debug("token saved")
	}

	p.setState(StateReady)

	return token, nil
}

func (p *Provider) setState(state State) {
	p.state = state
	p.logger.Debug("token acquisition", zap.Stringer("state", state))
}

// expiresAt never trusts a token beyond the lifetime of the assertion it was obtained with,
// but honors a shorter lifetime reported by the token endpoint.
func expiresAt(now int64, expiresIn int64) int64 {
	lifetime := int64(AssertionLifetime / time.Second)

	if expiresIn > 0 && expiresIn < lifetime {
		lifetime = expiresIn
	}

	return now + lifetime
}
