package game

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/samdwyer/dungeonrooms/internal/reconcile"
	"github.com/samdwyer/dungeonrooms/internal/world"
)

// ErrInvalidConfig is returned for malformed or inconsistent configuration values.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds session configuration options.
type Config struct {
	// Seed for random number generation. Used for reproducible dungeon generation.
	// A seed of 0 means a random seed will be generated.
	Seed int64

	RoomCount       int
	MinBossDistance int
	ChallengeMin    int
	ChallengeMax    int

	// Theme id; empty picks a random theme.
	Theme string
	// EliteChance is the probability a hostile is upgraded on the first visit.
	EliteChance float64
	// Reseed replaces the seed with a time-based one after generation so later draws
	// (elites, enemy picks) are not tied to the layout. Tests leave it off.
	Reseed bool

	LogLevel  string
	LogFormat string
	Telemetry bool
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		RoomCount:       world.DefaultRoomCount,
		MinBossDistance: world.DefaultMinBossDistance,
		ChallengeMin:    1,
		ChallengeMax:    2,
		EliteChance:     reconcile.DefaultEliteChance,
		LogLevel:        "info",
		LogFormat:       "text",
	}
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if err := c.Options().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.EliteChance < 0 || c.EliteChance > 1 {
		return fmt.Errorf("%w: elite chance %v outside [0,1]", ErrInvalidConfig, c.EliteChance)
	}
	return nil
}

// Options converts the generation part of the config.
func (c Config) Options() world.Options {
	return world.Options{
		RoomCount:       c.RoomCount,
		MinBossDistance: c.MinBossDistance,
		ChallengeMin:    c.ChallengeMin,
		ChallengeMax:    c.ChallengeMax,
	}
}

// LoadConfig reads configuration from the process environment, falling back to the
// given dotenv files for keys the environment does not set.
func LoadConfig(files ...string) (Config, error) {
	fileEnv := map[string]string{}
	if len(files) > 0 {
		m, err := godotenv.Read(files...)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read env files: %w", err)
		}
		fileEnv = m
	}

	return ConfigFromEnv(func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fileEnv[key]
		return v, ok
	})
}

// ConfigFromEnv builds a config from a lookup function, starting from DefaultConfig.
func ConfigFromEnv(lookup func(string) (string, bool)) (Config, error) {
	cfg := DefaultConfig()
	p := envParser{lookup: lookup}

	p.int64("DUNGEON_SEED", &cfg.Seed)
	p.int("DUNGEON_ROOMS", &cfg.RoomCount)
	p.int("DUNGEON_MIN_BOSS_DISTANCE", &cfg.MinBossDistance)
	p.int("DUNGEON_CHALLENGE_MIN", &cfg.ChallengeMin)
	p.int("DUNGEON_CHALLENGE_MAX", &cfg.ChallengeMax)
	p.string("DUNGEON_THEME", &cfg.Theme)
	p.float("DUNGEON_ELITE_CHANCE", &cfg.EliteChance)
	p.bool("DUNGEON_RESEED", &cfg.Reseed)
	p.string("LOG_LEVEL", &cfg.LogLevel)
	p.string("LOG_FORMAT", &cfg.LogFormat)
	p.bool("TELEMETRY_ENABLED", &cfg.Telemetry)

	if p.err != nil {
		return Config{}, p.err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// envParser keeps the first parse error so call sites stay flat.
type envParser struct {
	lookup func(string) (string, bool)
	err    error
}

func (p *envParser) raw(key string) (string, bool) {
	if p.err != nil {
		return "", false
	}
	v, ok := p.lookup(key)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func (p *envParser) fail(key, value string, err error) {
	p.err = fmt.Errorf("%w: %s=%q: %w", ErrInvalidConfig, key, value, err)
}

func (p *envParser) string(key string, dst *string) {
	if v, ok := p.raw(key); ok {
		*dst = v
	}
}

func (p *envParser) int(key string, dst *int) {
	if v, ok := p.raw(key); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			p.fail(key, v, err)
			return
		}
		*dst = n
	}
}

func (p *envParser) int64(key string, dst *int64) {
	if v, ok := p.raw(key); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			p.fail(key, v, err)
			return
		}
		*dst = n
	}
}

func (p *envParser) float(key string, dst *float64) {
	if v, ok := p.raw(key); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			p.fail(key, v, err)
			return
		}
		*dst = f
	}
}

func (p *envParser) bool(key string, dst *bool) {
	if v, ok := p.raw(key); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			p.fail(key, v, err)
			return
		}
		*dst = b
	}
}
