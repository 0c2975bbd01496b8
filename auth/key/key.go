// Package key loads the private key a service account signs its assertions with.
package key

import (
	"bytes"
	"crypto/rsa"
	"errors"
	"fmt"
	"os"

	"github.com/docker/libtrust"
	"github.com/golang-jwt/jwt/v4"

	"github.com/conta-ledger/conta/auth"
)

// ErrUnsupportedKeyType is returned for keys other than RSA.
var ErrUnsupportedKeyType = errors.New("unsupported key type")

// SigningKey is an RSA private key loaded once at startup.
type SigningKey struct {
	rsaKey   *rsa.PrivateKey
	trustKey libtrust.PrivateKey
}

// Load reads a signing key from a file.
//
// See Parse for the supported formats.
func Load(path string) (SigningKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SigningKey{}, &auth.SigningError{Err: fmt.Errorf("reading key file: %w", err)}
	}

	return Parse(data)
}

// Parse parses a PEM encoded (PKCS #1 or PKCS #8) or a JWK encoded RSA private key.
//
// Errors are returned as *auth.SigningError.
func Parse(data []byte) (SigningKey, error) {
	if trimmed := bytes.TrimSpace(data); bytes.HasPrefix(trimmed, []byte("{")) {
		trustKey, err := libtrust.UnmarshalPrivateKeyJWK(trimmed)
		if err != nil {
			return SigningKey{}, &auth.SigningError{Err: fmt.Errorf("parsing JWK: %w", err)}
		}

		return fromTrustKey(trustKey)
	}

	rsaKey, err := jwt.ParseRSAPrivateKeyFromPEM(data)
	if err != nil {
		return SigningKey{}, &auth.SigningError{Err: fmt.Errorf("parsing PEM: %w", err)}
	}

	return FromRSA(rsaKey)
}

// FromRSA wraps an already parsed RSA private key.
func FromRSA(rsaKey *rsa.PrivateKey) (SigningKey, error) {
	if err := rsaKey.Validate(); err != nil {
		return SigningKey{}, &auth.SigningError{Err: err}
	}

	trustKey, err := libtrust.FromCryptoPrivateKey(rsaKey)
	if err != nil {
		return SigningKey{}, &auth.SigningError{Err: err}
	}

	return SigningKey{
		rsaKey:   rsaKey,
		trustKey: trustKey,
	}, nil
}

func fromTrustKey(trustKey libtrust.PrivateKey) (SigningKey, error) {
	if trustKey.KeyType() != "RSA" {
		return SigningKey{}, &auth.SigningError{Err: fmt.Errorf("%w: %s", ErrUnsupportedKeyType, trustKey.KeyType())}
	}

	rsaKey, ok := trustKey.CryptoPrivateKey().(*rsa.PrivateKey)
	if !ok {
		return SigningKey{}, &auth.SigningError{Err: ErrUnsupportedKeyType}
	}

	if err := rsaKey.Validate(); err != nil {
		return SigningKey{}, &auth.SigningError{Err: err}
	}

	return SigningKey{
		rsaKey:   rsaKey,
		trustKey: trustKey,
	}, nil
}

// RSA returns the underlying RSA private key.
func (k SigningKey) RSA() *rsa.PrivateKey {
	return k.rsaKey
}

// KeyID returns the libtrust fingerprint of the public key.
func (k SigningKey) KeyID() string {
	if k.trustKey == nil {
		return ""
	}

	return k.trustKey.KeyID()
}
