package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Arena.HalfExtent != 400 {
		t.Errorf("Expected HalfExtent 400, got %f", config.Arena.HalfExtent)
	}
	if len(config.Ships) != 2 {
		t.Fatalf("Expected 2 ships, got %d", len(config.Ships))
	}
	if config.Ships[0].X != -100 || config.Ships[1].X != 100 {
		t.Errorf("Unexpected ship positions %+v", config.Ships)
	}
	if config.Asteroids.Count != 4 || config.Asteroids.InitialScale != 4 || config.Asteroids.SplitCount != 4 {
		t.Errorf("Unexpected asteroid config %+v", config.Asteroids)
	}
	if config.Shields.RegenRate != 0.2 || config.Shields.ContactDamage != 0.2 {
		t.Errorf("Unexpected shield config %+v", config.Shields)
	}
	if err := config.Validate(); err != nil {
		t.Errorf("DefaultConfig should validate: %v", err)
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	for _, name := range []string{"arena.json", "arena.yaml", "arena.yml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)

			original := DefaultConfig()
			original.Simulation.Seed = "round-trip"
			original.Asteroids.Count = 9
			original.Controls.Players[1].Fire = "X"

			if err := SaveConfig(original, path); err != nil {
				t.Fatalf("SaveConfig failed: %v", err)
			}
			loaded, err := LoadConfig(path)
			if err != nil {
				t.Fatalf("LoadConfig failed: %v", err)
			}

			if loaded.Simulation.Seed != "round-trip" {
				t.Errorf("Seed = %q", loaded.Simulation.Seed)
			}
			if loaded.Asteroids.Count != 9 {
				t.Errorf("Asteroids.Count = %d", loaded.Asteroids.Count)
			}
			if loaded.Controls.Players[1].Fire != "X" {
				t.Errorf("Player 1 fire key = %q", loaded.Controls.Players[1].Fire)
			}
		})
	}
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("arena:\n  halfExtent: 250\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if config.Arena.HalfExtent != 250 {
		t.Errorf("HalfExtent = %v, want 250", config.Arena.HalfExtent)
	}
	if config.Weapons.MuzzleSpeed != 400 {
		t.Errorf("MuzzleSpeed = %v, want default 400", config.Weapons.MuzzleSpeed)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadConfig(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(bad); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*GameConfig)
		field  string
	}{
		{"zero half extent", func(c *GameConfig) { c.Arena.HalfExtent = 0 }, "arena.halfExtent"},
		{"zero tick rate", func(c *GameConfig) { c.Simulation.TickRate = 0 }, "simulation.tickRate"},
		{"zero min scale", func(c *GameConfig) { c.Asteroids.MinScale = 0 }, "asteroids.minScale"},
		{"negative gravity", func(c *GameConfig) { c.Physics.Gravity = -1 }, "physics.gravity"},
		{"negative asteroid count", func(c *GameConfig) { c.Asteroids.Count = -1 }, "asteroids.count"},
		{"restitution above one", func(c *GameConfig) { c.Physics.Restitution = 1.5 }, "physics.restitution"},
		{"muzzle inside hull", func(c *GameConfig) { c.Weapons.MuzzleOffset = 10 }, "weapons.muzzleOffset"},
		{"duplicate ship player", func(c *GameConfig) { c.Ships[1].Player = 0 }, "ships.player"},
		{"ship player too large", func(c *GameConfig) { c.Ships[1].Player = 200 }, "ships.player"},
		{"duplicate key", func(c *GameConfig) { c.Controls.Players[1].Fire = "Space" }, "controls"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)

			err := config.Validate()
			if err == nil {
				t.Fatal("Expected validation error, but got none")
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("error %v does not wrap ErrInvalidConfig", err)
			}
			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("Expected ValidationError, got %T: %v", err, err)
			}
			if validationErr.Field != tt.field {
				t.Errorf("Expected error for field '%s', got error for field '%s'", tt.field, validationErr.Field)
			}
		})
	}
}

func TestUnboundShipIsValid(t *testing.T) {
	config := DefaultConfig()
	config.Ships = append(config.Ships, ShipConfig{Player: 2})
	if err := config.Validate(); err != nil {
		t.Errorf("a ship without controls should be valid: %v", err)
	}
}

func TestBindings(t *testing.T) {
	table, err := DefaultConfig().Bindings()
	if err != nil {
		t.Fatalf("Bindings failed: %v", err)
	}
	if !table.Bound(0) || !table.Bound(1) || table.Bound(2) {
		t.Error("expected players 0 and 1 bound and player 2 unbound")
	}
	if table.QuitKey() != "Q" {
		t.Errorf("QuitKey = %q", table.QuitKey())
	}
}

func TestSeed(t *testing.T) {
	config := DefaultConfig()
	if _, _, ok := config.Seed(); ok {
		t.Error("empty seed should not be reported")
	}

	config.Simulation.Seed = "alpha"
	a1, a2, ok := config.Seed()
	if !ok {
		t.Fatal("seed not reported")
	}
	b1, b2, _ := config.Seed()
	if a1 != b1 || a2 != b2 {
		t.Error("seed derivation is not stable")
	}
	if a1 == a2 {
		t.Error("seed words should differ")
	}

	config.Simulation.Seed = "beta"
	c1, _, _ := config.Seed()
	if c1 == a1 {
		t.Error("different seed strings produced the same seed")
	}
}

func TestTimeStep(t *testing.T) {
	config := DefaultConfig()
	config.Simulation.TickRate = 64
	if config.TimeStep() != 1.0/64 {
		t.Errorf("TimeStep = %v", config.TimeStep())
	}
}

func TestPresets(t *testing.T) {
	list := ListPresets()
	for _, name := range []string{"classic", "duel", "field"} {
		if _, ok := list[name]; !ok {
			t.Errorf("preset %q missing", name)
		}
		config := GetPreset(name)
		if config == nil {
			t.Fatalf("GetPreset(%q) returned nil", name)
		}
		if err := config.Validate(); err != nil {
			t.Errorf("preset %q invalid: %v", name, err)
		}
	}

	if GetPreset("duel").Asteroids.Count != 0 {
		t.Error("duel preset should have no asteroids")
	}
	if GetPreset("nonexistent") != nil {
		t.Error("unknown preset should be nil")
	}
	// Presets must not share state with each other.
	GetPreset("field").Ships[0].X = 999
	if GetPreset("field").Ships[0].X == 999 {
		t.Error("preset mutation leaked")
	}
}
