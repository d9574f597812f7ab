// pkg/config/env_test.go
package config

import (
	"errors"
	"testing"
)

func TestApplyEnvironmentOverrides(t *testing.T) {
	t.Setenv(EnvSeed, "from-env")
	t.Setenv(EnvTickRate, "120")
	t.Setenv(EnvHalfExtent, "600.5")
	t.Setenv(EnvGravity, "0")
	t.Setenv(EnvAsteroids, "7")

	config := DefaultConfig()
	if err := ApplyEnvironmentOverrides(config); err != nil {
		t.Fatalf("ApplyEnvironmentOverrides failed: %v", err)
	}

	if config.Simulation.Seed != "from-env" {
		t.Errorf("Seed = %q", config.Simulation.Seed)
	}
	if config.Simulation.TickRate != 120 {
		t.Errorf("TickRate = %d", config.Simulation.TickRate)
	}
	if config.Arena.HalfExtent != 600.5 {
		t.Errorf("HalfExtent = %v", config.Arena.HalfExtent)
	}
	if config.Physics.Gravity != 0 {
		t.Errorf("Gravity = %v", config.Physics.Gravity)
	}
	if config.Asteroids.Count != 7 {
		t.Errorf("Asteroids.Count = %d", config.Asteroids.Count)
	}
}

func TestApplyEnvironmentOverrides_UnsetKeepsValues(t *testing.T) {
	t.Setenv(EnvTickRate, "")
	config := DefaultConfig()
	if err := ApplyEnvironmentOverrides(config); err != nil {
		t.Fatalf("ApplyEnvironmentOverrides failed: %v", err)
	}
	if config.Simulation.TickRate != 60 {
		t.Errorf("TickRate = %d, want default 60", config.Simulation.TickRate)
	}
}

func TestApplyEnvironmentOverrides_Malformed(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{EnvTickRate, "fast"},
		{EnvHalfExtent, "wide"},
		{EnvGravity, "1e"},
		{EnvAsteroids, "3.5"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			err := ApplyEnvironmentOverrides(DefaultConfig())
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}
