package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all runtime configuration for a billtranslate run.
type Config struct {
	DSN           string // optional; enables run persistence when set
	IssueBodyFile string // path to the issue body; empty means the ISSUE_BODY env var
	CodePackPath  string `yaml:"code_pack_path"`
	OutputFile    string `yaml:"output_file"`
	LogFormat     string // "text" or "json"
}

// yamlConfig is the on-disk YAML structure.
type yamlConfig struct {
	CodePackPath string `yaml:"code_pack_path"`
	OutputFile   string `yaml:"output_file"`
}

// LoadFromFile reads a YAML config file and merges its values into Config.
// Values already set by flags take precedence over the file.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	if c.CodePackPath == "" {
		c.CodePackPath = yc.CodePackPath
	}
	if c.OutputFile == "" {
		c.OutputFile = yc.OutputFile
	}
	return nil
}

// Validate checks required fields and returns an error if the config is invalid.
func (c *Config) Validate() error {
	if c.CodePackPath == "" {
		return fmt.Errorf("--code-pack or CODE_PACK_PATH is required")
	}
	if _, err := os.Stat(c.CodePackPath); err != nil {
		return fmt.Errorf("code pack not accessible: %w", err)
	}
	return nil
}

// ValidateWithDSN checks both the code pack and DSN fields.
func (c *Config) ValidateWithDSN() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.DSN == "" {
		return fmt.Errorf("--dsn or BILLTRANSLATE_DB_URL is required")
	}
	return nil
}
