// Package config loads the server configuration from a YAML file and
// fills in defaults for anything unset.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"svw.info/digitguess/internal/domain"
)

type Config struct {
	Addr        string `yaml:"addr"`
	PersistPath string `yaml:"persist_path"`
	LogLevel    string `yaml:"log_level"` // debug|info|warn|error

	// Defaults applies to matches created without explicit rules.
	Defaults RulesConfig `yaml:"defaults"`
}

type RulesConfig struct {
	Length       int    `yaml:"length"`
	AllowRepeats bool   `yaml:"allow_repeats"`
	Difficulty   string `yaml:"difficulty"` // easy|medium|hard
	GuessLimit   int    `yaml:"guess_limit"`
}

// Default is the configuration used when no file is given.
func Default() Config {
	return Config{
		Addr:        ":8080",
		PersistPath: "./data",
		LogLevel:    "info",
		Defaults: RulesConfig{
			Length:       4,
			AllowRepeats: false,
			Difficulty:   "medium",
			GuessLimit:   0,
		},
	}
}

// Load reads path and overlays it on the defaults.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg := Default()
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Finalize validates the configuration after loading.
func (c *Config) Finalize() error {
	if c.Addr == "" {
		return fmt.Errorf("addr must not be empty")
	}
	if c.PersistPath == "" {
		return fmt.Errorf("persist_path must not be empty")
	}
	if _, err := ParseDifficulty(c.Defaults.Difficulty); err != nil {
		return err
	}
	rules, err := c.Rules()
	if err != nil {
		return err
	}
	if err := rules.Validate(); err != nil {
		return fmt.Errorf("defaults: %w", err)
	}
	return nil
}

// ParseDifficulty maps a config/API string to the enum.
func ParseDifficulty(s string) (domain.Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return domain.Easy, nil
	case "", "medium":
		return domain.Medium, nil
	case "hard":
		return domain.Hard, nil
	default:
		return domain.Medium, fmt.Errorf("unknown difficulty %q", s)
	}
}

// Rules converts the default rules section to domain rules.
func (c *Config) Rules() (domain.Rules, error) {
	d, err := ParseDifficulty(c.Defaults.Difficulty)
	if err != nil {
		return domain.Rules{}, err
	}
	return domain.Rules{
		Length:       c.Defaults.Length,
		AllowRepeats: c.Defaults.AllowRepeats,
		Difficulty:   d,
		GuessLimit:   c.Defaults.GuessLimit,
	}, nil
}
