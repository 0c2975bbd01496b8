package auth

import (
	"context"
	"time"

	"github.com/conta-ledger/conta/pkg/option"
)

// AssertionLifetime is how long a signed assertion is valid for.
// It is also the lifetime assumed for the access token obtained with it.
const AssertionLifetime = time.Hour

// CachedToken is a bearer token persisted together with its absolute expiry.
type CachedToken struct {
	Token string

	// ExpiresAt is the expiry in epoch seconds.
	ExpiresAt int64
}

// ValidAt reports whether the token can still be used at now (epoch seconds).
//
// A token expiring in the same second is considered expired.
func (t CachedToken) ValidAt(now int64) bool {
	return now < t.ExpiresAt
}

// ExchangedToken is the result of a successful assertion exchange.
type ExchangedToken struct {
	AccessToken string

	// ExpiresIn is the lifetime reported by the token endpoint in seconds.
	// Zero means the endpoint did not report one.
	ExpiresIn int64
}

// AssertionBuilder builds a signed JWT assertion for a service identity.
type AssertionBuilder interface {
	BuildAssertion(identity ServiceIdentity, now time.Time) (string, error)
}

// TokenExchanger exchanges a signed assertion for an access token at the given endpoint.
type TokenExchanger interface {
	ExchangeAssertion(ctx context.Context, assertion string, endpoint string) (ExchangedToken, error)
}

// TokenStore persists a single CachedToken.
//
// Read never fails: a missing or unreadable record is reported as an empty Option.
// Write replaces the stored record as a whole.
type TokenStore interface {
	Read(ctx context.Context) option.Option[CachedToken]
	Write(ctx context.Context, token CachedToken) error
}
