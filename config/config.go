package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// Config holds the settings of a run, loaded from a YAML or TOML file.
type Config struct {
	// InputFile is read instead of standard input when set.
	InputFile string `yaml:"inputFile" toml:"input_file"`
	// OutputFile receives the reports instead of standard output when set.
	OutputFile string `yaml:"outputFile" toml:"output_file"`
	// Mode selects the address representation: legacy (17) or range (23).
	Mode string `yaml:"mode" toml:"mode" validate:"oneof=legacy range 17 23"`
	// WholeLine accepts lines without a tab as bare addresses.
	WholeLine bool `yaml:"wholeLine" toml:"whole_line"`
	// PermissiveThreeOctets accepts "a.b.c" addresses.
	PermissiveThreeOctets bool `yaml:"permissiveThreeOctets" toml:"permissive_three_octets"`
	// StrictRange rejects octets above 255 instead of truncating them.
	StrictRange bool `yaml:"strictRange" toml:"strict_range"`
	// Format is the output rendering: plain or arpa.
	Format string `yaml:"format" toml:"format" validate:"oneof=plain arpa"`
	// Verbose enables debug logging.
	Verbose bool `yaml:"verbose" toml:"verbose"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// LoadConfig reads and unmarshals the configuration from the specified file.
// Files ending in .toml are decoded as TOML, anything else as YAML.
func LoadConfig(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", filePath, err)
	}

	var cfg Config
	if strings.EqualFold(filepath.Ext(filePath), ".toml") {
		err = toml.Unmarshal(data, &cfg)
	} else {
		err = yaml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal config file %s: %w", filePath, err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// Validate fills in defaults for empty fields and checks the enumerated ones.
func (c *Config) Validate() error {
	c.applyDefaults()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func (c *Config) applyDefaults() {
	c.Mode = strings.ToLower(strings.TrimSpace(c.Mode))
	if c.Mode == "" {
		c.Mode = "legacy"
	}
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	if c.Format == "" {
		c.Format = "plain"
	}
}
