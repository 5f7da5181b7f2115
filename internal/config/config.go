// Package config loads the ConnectChat configuration from a TOML file,
// overlays CONNECTCHAT_* environment variables and validates the result.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "CONNECTCHAT"

var validate = validator.New()

// Config represents ~/.connectchat/config.toml.
type Config struct {
	LogLevel      string        `toml:"log_level" envconfig:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	LogPath       string        `toml:"log_path" envconfig:"LOG_PATH"`
	TypingTimeout time.Duration `toml:"typing_timeout" envconfig:"TYPING_TIMEOUT" validate:"gt=0"`
	WelcomeDelay  time.Duration `toml:"welcome_delay" envconfig:"WELCOME_DELAY" validate:"gte=0"`
	WelcomeText   string        `toml:"welcome_text" envconfig:"WELCOME_TEXT" validate:"required"`
	Demo          Demo          `toml:"demo" envconfig:"DEMO"`
}

// Demo configures the simulated participants.
type Demo struct {
	Enabled          bool          `toml:"enabled" envconfig:"ENABLED"`
	GreetingDelay    time.Duration `toml:"greeting_delay" envconfig:"GREETING_DELAY" validate:"gte=0"`
	ResponseDelayMin time.Duration `toml:"response_delay_min" envconfig:"RESPONSE_DELAY_MIN" validate:"gt=0"`
	ResponseDelayMax time.Duration `toml:"response_delay_max" envconfig:"RESPONSE_DELAY_MAX" validate:"gtefield=ResponseDelayMin"`
	TypingDelayMin   time.Duration `toml:"typing_delay_min" envconfig:"TYPING_DELAY_MIN" validate:"gt=0"`
	TypingDelayMax   time.Duration `toml:"typing_delay_max" envconfig:"TYPING_DELAY_MAX" validate:"gtefield=TypingDelayMin"`
	GreetingText     string        `toml:"greeting_text" envconfig:"GREETING_TEXT" validate:"required"`
	Participants     []string      `toml:"participants" envconfig:"PARTICIPANTS" validate:"dive,required"`
	Responses        []string      `toml:"responses" envconfig:"RESPONSES" validate:"min=1,dive,required"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel:      "info",
		TypingTimeout: 3 * time.Second,
		WelcomeDelay:  time.Second,
		WelcomeText:   "Welcome to ConnectChat! Connect with people in real-time.",
		Demo: Demo{
			Enabled:          true,
			GreetingDelay:    3 * time.Second,
			ResponseDelayMin: 2 * time.Second,
			ResponseDelayMax: 8 * time.Second,
			TypingDelayMin:   time.Second,
			TypingDelayMax:   3 * time.Second,
			GreetingText:     "Hello everyone! Welcome to our chat room. Feel free to introduce yourselves! 😊",
			Participants: []string{
				"Alexandra Chen", "Marcus Rodriguez", "Sarah Johnson",
				"David Kim", "Emma Thompson",
			},
			Responses: []string{
				"That's really interesting! 🤔",
				"I completely agree with that point",
				"Thanks for sharing your thoughts!",
				"Great to have you here! 👋",
				"How has everyone been doing lately?",
				"That makes a lot of sense",
				"Interesting perspective on that topic",
				"Hope everyone is having a good day! ☀️",
				"I've been thinking about that too",
				"Really good point there",
			},
		},
	}
}

// Load reads config from path on top of Default, applies environment
// overrides and validates the result. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("environment overrides: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Save writes config to the given path, creating parent dirs as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	encErr := toml.NewEncoder(f).Encode(cfg)
	if closeErr := f.Close(); closeErr != nil && encErr == nil {
		return closeErr
	}
	return encErr
}
