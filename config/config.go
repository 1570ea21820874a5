package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type ValidationMode int

const (
	ValidationFull ValidationMode = iota
	ValidationVerifyOnly
)

// Config is the top-level SDM decoder/verifier configuration.
type Config struct {
	Keys    KeysConfig    `yaml:"keys"`
	SDM     SDMConfig     `yaml:"sdm"`
	Store   StoreConfig   `yaml:"store"`
	Runtime RuntimeConfig `yaml:"runtime"`
}

// KeysConfig points at the hex-encoded key material the core derives
// tag-specific keys from.
type KeysConfig struct {
	MasterKeyHexFile string `yaml:"master_key_hex_file"`
	FileKeyNo        *int   `yaml:"file_key_no"`
}

// SDMConfig controls how a SUN message is interpreted.
type SDMConfig struct {
	ParamMode   string `yaml:"param_mode"` // "separated" or "bulk"
	SDMMACParam string `yaml:"sdmmac_param"`
}

// StoreConfig locates the replay-counter database.
type StoreConfig struct {
	SQLitePath string `yaml:"sqlite_path"`
}

// RuntimeConfig holds reader/runtime knobs.
type RuntimeConfig struct {
	ReaderIndex *int  `yaml:"reader_index"`
	ForcePlain  *bool `yaml:"force_plain"`
}

func Load(path string) (*Config, error) {
	return LoadWithMode(path, ValidationFull)
}

func LoadWithMode(path string, mode ValidationMode) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse config yaml: %w", err)
	}
	cfg.resolvePaths(path)
	if err := cfg.ValidateWithMode(mode); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	return c.ValidateWithMode(ValidationFull)
}

func (c *Config) ValidateWithMode(mode ValidationMode) error {
	if err := c.validateCommon(); err != nil {
		return err
	}
	switch mode {
	case ValidationVerifyOnly:
		return nil
	case ValidationFull:
		return c.validateFullMode()
	default:
		return fmt.Errorf("unsupported validation mode: %d", mode)
	}
}

func (c *Config) validateCommon() error {
	if strings.TrimSpace(c.Keys.MasterKeyHexFile) == "" {
		return fmt.Errorf("config.keys.master_key_hex_file is required")
	}
	if err := validateReadableFile(c.Keys.MasterKeyHexFile, "config.keys.master_key_hex_file"); err != nil {
		return err
	}
	if c.Keys.FileKeyNo == nil {
		return fmt.Errorf("config.keys.file_key_no is required")
	}
	if *c.Keys.FileKeyNo < 0 || *c.Keys.FileKeyNo > 15 {
		return fmt.Errorf("config.keys.file_key_no must be 0..15")
	}

	switch strings.ToLower(c.SDM.ParamMode) {
	case "separated", "bulk":
	default:
		return fmt.Errorf("config.sdm.param_mode must be \"separated\" or \"bulk\", got %q", c.SDM.ParamMode)
	}

	if strings.TrimSpace(c.Store.SQLitePath) == "" {
		return fmt.Errorf("config.store.sqlite_path is required")
	}
	return nil
}

func (c *Config) validateFullMode() error {
	if c.Runtime.ReaderIndex == nil {
		return fmt.Errorf("config.runtime.reader_index is required")
	}
	if *c.Runtime.ReaderIndex < 0 {
		return fmt.Errorf("config.runtime.reader_index must be >= 0")
	}
	if c.Runtime.ForcePlain == nil {
		return fmt.Errorf("config.runtime.force_plain is required")
	}
	return nil
}

func (c *Config) resolvePaths(configPath string) {
	configDir := filepath.Dir(configPath)
	c.Keys.MasterKeyHexFile = resolvePath(configDir, c.Keys.MasterKeyHexFile)
	c.Store.SQLitePath = resolvePath(configDir, c.Store.SQLitePath)
}

func resolvePath(baseDir, path string) string {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" || filepath.IsAbs(trimmed) {
		return trimmed
	}
	return filepath.Clean(filepath.Join(baseDir, trimmed))
}

func validateReadableFile(path string, field string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s must point to a file, got directory", field)
	}
	return nil
}
