package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/conta-ledger/conta/auth"
)

// ErrMissingSigningKey is returned when an identity has no signing key.
var ErrMissingSigningKey = errors.New("missing signing key")

// claims of a JWT-bearer grant assertion, as described in [RFC 7523].
//
// [RFC 7523]: https://www.rfc-editor.org/rfc/rfc7523#section-3
type claims struct {
	Issuer    string `json:"iss"`
	Scope     string `json:"scope"`
	Audience  string `json:"aud"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// Valid implements jwt.Claims.
//
// Assertions are only ever created here, never parsed, so there is nothing to validate.
func (c claims) Valid() error {
	return nil
}

// AssertionBuilder signs assertions for the OAuth2 JWT-bearer grant using RS256.
type AssertionBuilder struct{}

// NewAssertionBuilder returns a new AssertionBuilder.
func NewAssertionBuilder() AssertionBuilder {
	return AssertionBuilder{}
}

// BuildAssertion implements auth.AssertionBuilder.
//
// The assertion is issued at now and expires auth.AssertionLifetime later.
// Any failure is returned as an *auth.SigningError.
func (AssertionBuilder) BuildAssertion(identity auth.ServiceIdentity, now time.Time) (string, error) {
	if identity.SigningKey == nil {
		return "", &auth.SigningError{Err: ErrMissingSigningKey}
	}

	if err := identity.SigningKey.Validate(); err != nil {
		return "", &auth.SigningError{Err: err}
	}

	iat := now.Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims{
		Issuer:    identity.Issuer,
		Scope:     identity.Scope,
		Audience:  identity.TokenEndpoint,
		IssuedAt:  iat,
		ExpiresAt: iat + int64(auth.AssertionLifetime/time.Second),
	})

	signedToken, err := token.SignedString(identity.SigningKey)
	if err != nil {
		return "", &auth.SigningError{Err: err}
	}

	return signedToken, nil
}
