// Package engine carries the molecular transaction engine's recognized
// configuration, loaded from plain JSON: no viper, no environment overlay,
// just a struct marshaled to a file on disk.
package engine

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/shadowy/molecule/signer"
	"github.com/shadowy/molecule/wallet"
)

// ConfigFileName is the default on-disk name for a Config.
const ConfigFileName = "molecule-config.json"

// Config carries the engine's recognized configuration options.
type Config struct {
	NodeURIs            []string `json:"nodeUris"`
	CellSlug            string   `json:"cellSlug"`
	Secret              string   `json:"secret"` // hex-encoded authentication root
	CompressedSignature bool     `json:"compressedSignature"`
	KeyWidthBits        int      `json:"keyWidthBits"`
}

// DefaultConfig returns a Config with the engine's documented defaults:
// compressedSignature true, keyWidthBits 8192.
func DefaultConfig() *Config {
	return &Config{
		CompressedSignature: true,
		KeyWidthBits:        wallet.DefaultKeyWidthBits,
	}
}

// Validate reports a ConfigError if the configuration cannot be used to sign
// or submit molecules.
func (c *Config) Validate() error {
	if c.CellSlug == "" {
		return &ConfigError{Msg: "cellSlug must not be empty"}
	}
	if len(c.NodeURIs) == 0 {
		return &ConfigError{Msg: "nodeUris must name at least one node"}
	}
	if c.KeyWidthBits <= 0 || c.KeyWidthBits%(signer.Chains*8) != 0 {
		return &ConfigError{Msg: fmt.Sprintf("keyWidthBits must be a positive multiple of %d, got %d", signer.Chains*8, c.KeyWidthBits)}
	}
	if c.Secret != "" {
		if _, err := hex.DecodeString(c.Secret); err != nil {
			return &ConfigError{Msg: "secret must be hex-encoded"}
		}
	}
	return nil
}

// SecretBytes decodes the configured hex secret.
func (c *Config) SecretBytes() ([]byte, error) {
	b, err := hex.DecodeString(c.Secret)
	if err != nil {
		return nil, &ConfigError{Msg: "secret must be hex-encoded"}
	}
	return b, nil
}

// LoadConfigFile reads and parses a Config from path, falling back to
// DefaultConfig fields for anything the file omits.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("engine: reading config file: %w", err)
	}
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("engine: parsing config file: %w", err)
	}
	return cfg, nil
}

// Save writes c to path as indented JSON.
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("engine: marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("engine: writing config file: %w", err)
	}
	return nil
}

// ConfigError reports an invalid or unusable Config.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string { return "engine: " + e.Msg }
