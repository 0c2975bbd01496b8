package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/conta-ledger/conta/auth"
	"github.com/conta-ledger/conta/auth/key"
)

// Identity is the configuration for an auth.ServiceIdentity.
type Identity struct {
	Type   string `yaml:"type"`
	Config IdentityFactory
}

func (c *Identity) UnmarshalYAML(value *yaml.Node) error {
	var rawConfig rawConfig

	err := value.Decode(&rawConfig)
	if err != nil {
		return err
	}

	var config IdentityFactory

	switch rawConfig.Type {
	case "key":
		var factory keyIdentity

		err := decode(rawConfig.Config, &factory)
		if err != nil {
			return err
		}

		config = factory

	case "googleCredentials":
		var factory googleCredentialsIdentity

		err := decode(rawConfig.Config, &factory)
		if err != nil {
			return err
		}

		config = factory

	default:
		return fmt.Errorf("unknown identity type: %s", rawConfig.Type)
	}

	c.Type = rawConfig.Type
	c.Config = config

	return nil
}

// IdentityFactory creates a new auth.ServiceIdentity.
//
// The signing key is loaded once, when the identity is created.
type IdentityFactory interface {
	CreateIdentity() (auth.ServiceIdentity, key.SigningKey, error)
	Validate() error
}

type keyIdentity struct {
	Issuer         string `mapstructure:"issuer"`
	PrivateKeyFile string `mapstructure:"privateKeyFile"`
	Scope          string `mapstructure:"scope"`
	TokenEndpoint  string `mapstructure:"tokenEndpoint"`
}

func (c keyIdentity) CreateIdentity() (auth.ServiceIdentity, key.SigningKey, error) {
	signingKey, err := key.Load(c.PrivateKeyFile)
	if err != nil {
		return auth.ServiceIdentity{}, key.SigningKey{}, err
	}

	identity := auth.ServiceIdentity{
		Issuer:        c.Issuer,
		SigningKey:    signingKey.RSA(),
		Scope:         orDefault(c.Scope, auth.DefaultScope),
		TokenEndpoint: orDefault(c.TokenEndpoint, auth.DefaultTokenEndpoint),
	}

	if err := identity.Validate(); err != nil {
		return auth.ServiceIdentity{}, key.SigningKey{}, err
	}

	return identity, signingKey, nil
}

func (c keyIdentity) Validate() error {
	if c.Issuer == "" {
		return fmt.Errorf("identity: key: issuer is required")
	}

	if c.PrivateKeyFile == "" {
		return fmt.Errorf("identity: key: privateKeyFile is required")
	}

	return nil
}

type googleCredentialsIdentity struct {
	CredentialsFile string `mapstructure:"credentialsFile"`
	Scope           string `mapstructure:"scope"`

	// TokenEndpoint overrides the token_uri of the credentials file.
	TokenEndpoint string `mapstructure:"tokenEndpoint"`
}

func (c googleCredentialsIdentity) CreateIdentity() (auth.ServiceIdentity, key.SigningKey, error) {
	credentials, err := key.LoadCredentials(c.CredentialsFile)
	if err != nil {
		return auth.ServiceIdentity{}, key.SigningKey{}, err
	}

	signingKey, err := credentials.SigningKey()
	if err != nil {
		return auth.ServiceIdentity{}, key.SigningKey{}, err
	}

	identity := auth.ServiceIdentity{
		Issuer:        credentials.ClientEmail,
		SigningKey:    signingKey.RSA(),
		Scope:         orDefault(c.Scope, auth.DefaultScope),
		TokenEndpoint: orDefault(c.TokenEndpoint, orDefault(credentials.TokenURI, auth.DefaultTokenEndpoint)),
	}

	if err := identity.Validate(); err != nil {
		return auth.ServiceIdentity{}, key.SigningKey{}, err
	}

	return identity, signingKey, nil
}

func (c googleCredentialsIdentity) Validate() error {
	if c.CredentialsFile == "" {
		return fmt.Errorf("identity: googleCredentials: credentialsFile is required")
	}

	return nil
}

func orDefault(value string, def string) string {
	if value == "" {
		return def
	}

	return value
}
