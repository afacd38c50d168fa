package game

import (
	"os"
	"strconv"
	"time"
)

// Config holds game configuration options.
type Config struct {
	// Seed for world generation. A seed of 0 means derive one from the clock,
	// so each run wanders a different world.
	Seed int64
}

// ConfigFromEnv reads configuration from the environment. LIMINAL_SEED, if
// set and parseable, pins the world seed for reproducible runs.
func ConfigFromEnv() Config {
	var cfg Config
	if raw := os.Getenv("LIMINAL_SEED"); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
			cfg.Seed = v
		}
	}
	return cfg
}

// EffectiveSeed resolves the zero seed to a clock-derived one.
func (c Config) EffectiveSeed() int64 {
	if c.Seed != 0 {
		return c.Seed
	}
	return time.Now().UnixNano()
}
