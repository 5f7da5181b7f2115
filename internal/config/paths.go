package config

import (
	"os"
	"path/filepath"
)

// BaseDir returns ~/.connectchat.
func BaseDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".connectchat")
}

// Path returns the default config file path.
func Path() string {
	return filepath.Join(BaseDir(), "config.toml")
}

// LogDir returns the log directory.
func LogDir() string {
	return filepath.Join(BaseDir(), "logs")
}

// LogPath returns the default log file path.
func LogPath() string {
	return filepath.Join(LogDir(), "connectchat.log")
}

// Resolve picks the config file path: flagOverride, then
// $CONNECTCHAT_CONFIG, then Path().
func Resolve(flagOverride string) string {
	if flagOverride != "" {
		return flagOverride
	}
	if p := os.Getenv(EnvPrefix + "_CONFIG"); p != "" {
		return p
	}
	return Path()
}

// EffectiveLogPath returns the configured log path or the default one.
func (c *Config) EffectiveLogPath() string {
	if c.LogPath != "" {
		return c.LogPath
	}
	return LogPath()
}
