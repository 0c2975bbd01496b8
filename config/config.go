package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultSpreadsheetsURL is the base URL of the Google Sheets values API.
const DefaultSpreadsheetsURL = "https://sheets.googleapis.com/v4/spreadsheets"

// Config collects all configuration options.
type Config struct {
	Identity Identity `yaml:"identity"`
	Cache    Cache    `yaml:"cache"`
	Exchange Exchange `yaml:"exchange"`
	Ledger   Ledger   `yaml:"ledger"`
}

// Exchange configures how assertions are exchanged for access tokens.
type Exchange struct {
	// Timeout limits a single exchange request. Zero means no timeout.
	Timeout time.Duration `yaml:"timeout" validate:"gte=0"`
}

// Ledger configures the spreadsheet backed ledger API.
type Ledger struct {
	SpreadsheetID   string `yaml:"spreadsheetId" validate:"required"`
	FunctionsURL    string `yaml:"functionsUrl" validate:"required,url"`
	SpreadsheetsURL string `yaml:"spreadsheetsUrl" validate:"omitempty,url"`
	DevMode         bool   `yaml:"devMode"`
}

// Load reads the configuration from a YAML file.
//
// ${VAR} references are expanded from the environment before parsing.
// Any other "$" is kept as is.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}

	return Parse(data)
}

// Parse parses, defaults and validates a YAML configuration.
func Parse(data []byte) (Config, error) {
	var config Config

	err := yaml.Unmarshal(expandEnv(data), &config)
	if err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}

	config.setDefaults()

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

var envReference = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnv replaces ${VAR} references with the value of the environment variable VAR.
func expandEnv(data []byte) []byte {
	return envReference.ReplaceAllFunc(data, func(ref []byte) []byte {
		name := envReference.FindSubmatch(ref)[1]

		return []byte(os.Getenv(string(name)))
	})
}

func (c *Config) setDefaults() {
	if c.Cache.Config == nil {
		c.Cache.Type = "file"
		c.Cache.Config = fileCache{}
	}

	if c.Ledger.SpreadsheetsURL == "" {
		c.Ledger.SpreadsheetsURL = DefaultSpreadsheetsURL
	}
}

// Validate validates the configuration.
func (c Config) Validate() error {
	if c.Identity.Type == "" {
		return fmt.Errorf("identity type is required")
	}

	if err := c.Identity.Config.Validate(); err != nil {
		return err
	}

	if c.Cache.Type == "" {
		return fmt.Errorf("cache type is required")
	}

	if err := c.Cache.Config.Validate(); err != nil {
		return err
	}

	validate := validator.New()

	if err := validate.Struct(c.Exchange); err != nil {
		return fmt.Errorf("exchange: %w", err)
	}

	if err := validate.Struct(c.Ledger); err != nil {
		return fmt.Errorf("ledger: %w", err)
	}

	return nil
}

// rawConfig is a general struct to be used by other config structs to unmarshal yaml config first.
type rawConfig struct {
	Type   string                 `yaml:"type"`
	Config map[string]interface{} `yaml:"config"`
}

func decode(input map[string]interface{}, output interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  mapstructure.StringToTimeDurationHookFunc(),
		ErrorUnused: true,
		Result:      output,
	})
	if err != nil {
		return err
	}

	return decoder.Decode(input)
}
