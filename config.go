package tagver

import (
	"os"

	"github.com/linyows/tagver/registry"
)

// Config carries everything a run needs; nothing is read from implicit
// process state after this is built.
type Config struct {
	// Registry is the scheme URL of the project registry store.
	Registry string
	// LogLevel is one of debug, info, warn, error.
	LogLevel string
	// LogFormat is text or json.
	LogFormat string
	// Notify is an optional notifier scheme URL.
	Notify string
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	return Config{
		Registry:  registry.DefaultFileURL(),
		LogLevel:  "ERROR",
		LogFormat: "text",
	}
}

// OverrideWithEnv applies TAGVER_* environment variables on top of the
// current values.
func (c *Config) OverrideWithEnv() {
	if v := os.Getenv("TAGVER_REGISTRY"); v != "" {
		c.Registry = v
	}
	if v := os.Getenv("TAGVER_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("TAGVER_LOG_FORMAT"); v != "" {
		c.LogFormat = v
	}
	if v := os.Getenv("TAGVER_NOTIFY"); v != "" {
		c.Notify = v
	}
}
