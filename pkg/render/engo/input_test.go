package engo

import (
	"errors"
	"testing"

	"github.com/EngoEngine/engo"

	"github.com/opd-ai/go-spacewar/pkg/config"
	"github.com/opd-ai/go-spacewar/pkg/input"
)

var _ input.Provider = (*KeyboardProvider)(nil)

func TestKeyCode(t *testing.T) {
	tests := []struct {
		name string
		want engo.Key
	}{
		{"Up", engo.KeyArrowUp},
		{"left", engo.KeyArrowLeft},
		{" RIGHT ", engo.KeyArrowRight},
		{"Space", engo.KeySpace},
		{"w", engo.KeyW},
		{"Q", engo.KeyQ},
		{"7", engo.KeySeven},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := KeyCode(tt.name)
			if !ok || got != tt.want {
				t.Errorf("KeyCode(%q) = %v, %v; want %v", tt.name, got, ok, tt.want)
			}
		})
	}

	if _, ok := KeyCode("F13"); ok {
		t.Error("unknown key names should not resolve")
	}
}

func TestButtonName(t *testing.T) {
	if got := ButtonName(1, input.TurnLeft); got != "p1.turn_left" {
		t.Errorf("ButtonName = %q", got)
	}
	if ButtonName(0, input.Fire) == ButtonName(1, input.Fire) {
		t.Error("players must not share button names")
	}
}

func TestValidate(t *testing.T) {
	table, err := config.DefaultConfig().Bindings()
	if err != nil {
		t.Fatalf("default bindings: %v", err)
	}
	if err := Validate(table); err != nil {
		t.Errorf("default bindings should map to engo keys: %v", err)
	}

	odd, err := input.NewBindingTable("Q", input.Binding{Player: 0, Thrust: "PageUp", Fire: "Space"})
	if err != nil {
		t.Fatalf("NewBindingTable: %v", err)
	}
	if err := Validate(odd); !errors.Is(err, input.ErrInvalidBinding) {
		t.Errorf("expected ErrInvalidBinding, got %v", err)
	}
}

func TestKeyboardProvider_UnboundPlayer(t *testing.T) {
	table, err := input.NewBindingTable("Q")
	if err != nil {
		t.Fatalf("NewBindingTable: %v", err)
	}
	kp := NewKeyboardProvider(table)

	// Unbound players never consult engo, so this works without a window.
	if held := kp.Held(3); held != 0 {
		t.Errorf("unbound player held %v", held)
	}
}
