package key

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
)

// Credentials is a Google service account key file.
type Credentials struct {
	ClientEmail  string
	PrivateKeyID string
	PrivateKey   []byte
	TokenURI     string
}

// LoadCredentials reads a Google service account key file.
func LoadCredentials(path string) (Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Credentials{}, fmt.Errorf("reading credentials file: %w", err)
	}

	return ParseCredentials(data)
}

// ParseCredentials parses a Google service account key file.
//
// Only "service_account" credentials are accepted.
func ParseCredentials(data []byte) (Credentials, error) {
	cfg, err := google.JWTConfigFromJSON(data)
	if err != nil {
		return Credentials{}, fmt.Errorf("parsing credentials: %w", err)
	}

	if cfg.Email == "" {
		return Credentials{}, errors.New("parsing credentials: client_email is required")
	}

	if len(cfg.PrivateKey) == 0 {
		return Credentials{}, errors.New("parsing credentials: private_key is required")
	}

	return Credentials{
		ClientEmail:  cfg.Email,
		PrivateKeyID: cfg.PrivateKeyID,
		PrivateKey:   cfg.PrivateKey,
		TokenURI:     cfg.TokenURL,
	}, nil
}

// SigningKey parses the private key embedded in the credentials.
func (c Credentials) SigningKey() (SigningKey, error) {
	return Parse(c.PrivateKey)
}
