package config

import (
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/conta-ledger/conta/auth"
	"github.com/conta-ledger/conta/auth/cache"
)

// Cache is the configuration for an auth.TokenStore.
type Cache struct {
	Type   string `yaml:"type"`
	Config CacheFactory
}

func (c *Cache) UnmarshalYAML(value *yaml.Node) error {
	var rawConfig rawConfig

	err := value.Decode(&rawConfig)
	if err != nil {
		return err
	}

	var config CacheFactory

	switch rawConfig.Type {
	case "file":
		var factory fileCache

		err := decode(rawConfig.Config, &factory)
		if err != nil {
			return err
		}

		config = factory

	case "memory":
		var factory memoryCache

		err := decode(rawConfig.Config, &factory)
		if err != nil {
			return err
		}

		config = factory

	default:
		return fmt.Errorf("unknown cache type: %s", rawConfig.Type)
	}

	c.Type = rawConfig.Type
	c.Config = config

	return nil
}

// CacheFactory creates a new auth.TokenStore.
type CacheFactory interface {
	CreateTokenStore(logger *zap.Logger) (auth.TokenStore, error)
	Validate() error
}

type fileCache struct {
	Path string `mapstructure:"path"`
}

func (c fileCache) CreateTokenStore(logger *zap.Logger) (auth.TokenStore, error) {
	return cache.NewFileStore(c.Path, logger), nil
}

func (c fileCache) Validate() error {
	return nil
}

type memoryCache struct{}

func (memoryCache) CreateTokenStore(_ *zap.Logger) (auth.TokenStore, error) {
	return &cache.InMemoryStore{}, nil
}

func (memoryCache) Validate() error {
	return nil
}
