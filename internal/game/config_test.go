package game

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func mapLookup(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestConfigFromEnvDefaults(t *testing.T) {
	cfg, err := ConfigFromEnv(mapLookup(nil))
	if err != nil {
		t.Fatalf("ConfigFromEnv() error = %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("ConfigFromEnv(empty) = %+v, want defaults %+v", cfg, DefaultConfig())
	}
}

func TestConfigFromEnvOverrides(t *testing.T) {
	cfg, err := ConfigFromEnv(mapLookup(map[string]string{
		"DUNGEON_SEED":              "99",
		"DUNGEON_ROOMS":             "30",
		"DUNGEON_MIN_BOSS_DISTANCE": "7",
		"DUNGEON_CHALLENGE_MIN":     "2",
		"DUNGEON_CHALLENGE_MAX":     "4",
		"DUNGEON_THEME":             "forge",
		"DUNGEON_ELITE_CHANCE":      "0.5",
		"DUNGEON_RESEED":            "true",
		"LOG_LEVEL":                 "debug",
		"LOG_FORMAT":                "json",
		"TELEMETRY_ENABLED":         "1",
	}))
	if err != nil {
		t.Fatalf("ConfigFromEnv() error = %v", err)
	}

	want := Config{
		Seed:            99,
		RoomCount:       30,
		MinBossDistance: 7,
		ChallengeMin:    2,
		ChallengeMax:    4,
		Theme:           "forge",
		EliteChance:     0.5,
		Reseed:          true,
		LogLevel:        "debug",
		LogFormat:       "json",
		Telemetry:       true,
	}
	if cfg != want {
		t.Errorf("ConfigFromEnv() = %+v, want %+v", cfg, want)
	}
}

func TestConfigFromEnvEmptyValueKeepsDefault(t *testing.T) {
	cfg, err := ConfigFromEnv(mapLookup(map[string]string{"DUNGEON_ROOMS": ""}))
	if err != nil {
		t.Fatalf("ConfigFromEnv() error = %v", err)
	}
	if cfg.RoomCount != DefaultConfig().RoomCount {
		t.Errorf("RoomCount = %d, want default", cfg.RoomCount)
	}
}

func TestConfigFromEnvRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"non-numeric rooms", map[string]string{"DUNGEON_ROOMS": "many"}},
		{"non-numeric seed", map[string]string{"DUNGEON_SEED": "0x"}},
		{"bad bool", map[string]string{"DUNGEON_RESEED": "maybe"}},
		{"bad float", map[string]string{"DUNGEON_ELITE_CHANCE": "high"}},
		{"zero rooms", map[string]string{"DUNGEON_ROOMS": "0"}},
		{"inverted challenge range", map[string]string{"DUNGEON_CHALLENGE_MIN": "3", "DUNGEON_CHALLENGE_MAX": "1"}},
		{"elite chance above one", map[string]string{"DUNGEON_ELITE_CHANCE": "1.5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ConfigFromEnv(mapLookup(tt.env))
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("ConfigFromEnv() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestLoadConfigEnvironmentWinsOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	content := "DUNGEON_ROOMS=20\nDUNGEON_THEME=sewer\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DUNGEON_THEME", "abyss")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.RoomCount != 20 {
		t.Errorf("RoomCount = %d, want 20 from file", cfg.RoomCount)
	}
	if cfg.Theme != "abyss" {
		t.Errorf("Theme = %q, want %q from environment", cfg.Theme, "abyss")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Error("LoadConfig(missing) expected error")
	}
}
