// pkg/render/engo/input.go
package engo

import (
	"fmt"

	"github.com/EngoEngine/engo"

	"github.com/opd-ai/go-spacewar/pkg/input"
)

// quitButton is the engo button name of the quit key.
const quitButton = "quit"

// keyCodes maps binding-table key names to engo keys.
var keyCodes = func() map[string]engo.Key {
	m := map[string]engo.Key{
		"UP":        engo.KeyArrowUp,
		"DOWN":      engo.KeyArrowDown,
		"LEFT":      engo.KeyArrowLeft,
		"RIGHT":     engo.KeyArrowRight,
		"SPACE":     engo.KeySpace,
		"ENTER":     engo.KeyEnter,
		"ESCAPE":    engo.KeyEscape,
		"BACKSPACE": engo.KeyBackspace,
	}
	letters := []engo.Key{
		engo.KeyA, engo.KeyB, engo.KeyC, engo.KeyD, engo.KeyE, engo.KeyF, engo.KeyG,
		engo.KeyH, engo.KeyI, engo.KeyJ, engo.KeyK, engo.KeyL, engo.KeyM, engo.KeyN,
		engo.KeyO, engo.KeyP, engo.KeyQ, engo.KeyR, engo.KeyS, engo.KeyT, engo.KeyU,
		engo.KeyV, engo.KeyW, engo.KeyX, engo.KeyY, engo.KeyZ,
	}
	for i, k := range letters {
		m[string(rune('A'+i))] = k
	}
	digits := []engo.Key{
		engo.KeyZero, engo.KeyOne, engo.KeyTwo, engo.KeyThree, engo.KeyFour,
		engo.KeyFive, engo.KeySix, engo.KeySeven, engo.KeyEight, engo.KeyNine,
	}
	for i, k := range digits {
		m[string(rune('0'+i))] = k
	}
	return m
}()

// KeyCode returns the engo key for a binding-table key name.
func KeyCode(name string) (engo.Key, bool) {
	k, ok := keyCodes[input.NormalizeKey(name)]
	return k, ok
}

// ButtonName is the engo button registered for a player's logical button.
func ButtonName(player uint8, b input.Button) string {
	return fmt.Sprintf("p%d.%s", player, b)
}

// KeyboardProvider implements input.Provider on engo's button state. Unlike
// terminals, engo reports key release, so held means down right now.
type KeyboardProvider struct {
	table *input.BindingTable
	quit  bool
}

// NewKeyboardProvider creates a provider for the binding table.
func NewKeyboardProvider(table *input.BindingTable) *KeyboardProvider {
	return &KeyboardProvider{table: table}
}

// Register declares one engo button per bound key. It must run after engo
// has created its input manager, i.e. from a scene's Setup.
func (kp *KeyboardProvider) Register() error {
	if err := Validate(kp.table); err != nil {
		return err
	}
	if k, ok := KeyCode(kp.table.QuitKey()); ok {
		engo.Input.RegisterButton(quitButton, k)
	}
	for _, player := range kp.table.Players() {
		binding, _ := kp.table.Lookup(player)
		for _, b := range input.PlayerButtons {
			if k, ok := KeyCode(binding.Key(b)); ok {
				engo.Input.RegisterButton(ButtonName(player, b), k)
			}
		}
	}
	return nil
}

// Held implements input.Provider.
func (kp *KeyboardProvider) Held(player uint8) input.ButtonSet {
	var s input.ButtonSet
	if !kp.table.Bound(player) {
		return s
	}
	for _, b := range input.PlayerButtons {
		if engo.Input.Button(ButtonName(player, b)).Down() {
			s = s.With(b)
		}
	}
	return s
}

// QuitRequested implements input.Provider. Once seen, quit stays requested.
func (kp *KeyboardProvider) QuitRequested() bool {
	if !kp.quit && engo.Input.Button(quitButton).Down() {
		kp.quit = true
	}
	return kp.quit
}

// Validate reports a bound key that has no engo key code.
func Validate(table *input.BindingTable) error {
	for _, name := range table.Keys() {
		if _, ok := KeyCode(name); !ok {
			return fmt.Errorf("%w: no key named %q", input.ErrInvalidBinding, name)
		}
	}
	return nil
}
