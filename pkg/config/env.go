// pkg/config/env.go
package config

import (
	"os"
	"strconv"
)

// Environment variables that override file configuration.
const (
	EnvSeed       = "ARENA_SEED"
	EnvTickRate   = "ARENA_TICK_RATE"
	EnvHalfExtent = "ARENA_HALF_EXTENT"
	EnvGravity    = "ARENA_GRAVITY"
	EnvAsteroids  = "ARENA_ASTEROIDS"
)

// ApplyEnvironmentOverrides overwrites config fields from ARENA_* variables.
// Unset variables leave the field alone; malformed values are an error.
func ApplyEnvironmentOverrides(config *GameConfig) error {
	config.Simulation.Seed = getEnvOrDefault(EnvSeed, config.Simulation.Seed)

	var err error
	if config.Simulation.TickRate, err = getEnvInt(EnvTickRate, config.Simulation.TickRate); err != nil {
		return err
	}
	if config.Arena.HalfExtent, err = getEnvFloat(EnvHalfExtent, config.Arena.HalfExtent); err != nil {
		return err
	}
	if config.Physics.Gravity, err = getEnvFloat(EnvGravity, config.Physics.Gravity); err != nil {
		return err
	}
	if config.Asteroids.Count, err = getEnvInt(EnvAsteroids, config.Asteroids.Count); err != nil {
		return err
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue, &ValidationError{Field: key, Value: value, Message: "not an integer"}
	}
	return n, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue, &ValidationError{Field: key, Value: value, Message: "not a number"}
	}
	return f, nil
}
