package auth

import (
	"crypto/rsa"
	"errors"
)

const (
	// GrantTypeJWTBearer is the OAuth2 grant type used to exchange a signed assertion for an access token.
	GrantTypeJWTBearer = "urn:ietf:params:oauth:grant-type:jwt-bearer"

	// DefaultTokenEndpoint is Google's OAuth2 token endpoint.
	DefaultTokenEndpoint = "https://oauth2.googleapis.com/token"

	// DefaultScope grants read-only access to Drive (and with it, the spreadsheets the ledger lives in).
	DefaultScope = "https://www.googleapis.com/auth/drive.readonly"
)

// ServiceIdentity describes the service account an access token is requested for.
//
// A ServiceIdentity is created once at startup and never mutated afterwards.
type ServiceIdentity struct {
	// Issuer is the service account identifier (usually its e-mail address).
	// It becomes the "iss" claim of the assertion.
	Issuer string

	// SigningKey signs the assertion.
	SigningKey *rsa.PrivateKey

	// Scope identifies the requested permission. It becomes the "scope" claim of the assertion.
	Scope string

	// TokenEndpoint is where assertions are exchanged for access tokens.
	// It is also the "aud" claim of the assertion.
	TokenEndpoint string
}

// Validate validates the identity.
func (i ServiceIdentity) Validate() error {
	if i.Issuer == "" {
		return errors.New("service identity: issuer is required")
	}

	if i.SigningKey == nil {
		return errors.New("service identity: signing key is required")
	}

	if i.Scope == "" {
		return errors.New("service identity: scope is required")
	}

	if i.TokenEndpoint == "" {
		return errors.New("service identity: token endpoint is required")
	}

	return nil
}
