// Package input defines the logical button vocabulary the simulation reads
// and the per-player binding table that maps device keys onto it.
package input

import (
	"errors"
	"fmt"
	"strings"
)

// Button is a logical control.
type Button uint8

const (
	Thrust Button = iota
	TurnLeft
	TurnRight
	Fire
	Quit

	buttonCount
)

// PlayerButtons lists the buttons that belong to a single player, in
// binding order. Quit is global.
var PlayerButtons = [...]Button{Thrust, TurnLeft, TurnRight, Fire}

func (b Button) String() string {
	switch b {
	case Thrust:
		return "thrust"
	case TurnLeft:
		return "turn_left"
	case TurnRight:
		return "turn_right"
	case Fire:
		return "fire"
	case Quit:
		return "quit"
	default:
		return fmt.Sprintf("button(%d)", uint8(b))
	}
}

// ButtonSet is a bitmask of held buttons.
type ButtonSet uint8

// Buttons builds a set from the given buttons.
func Buttons(bs ...Button) ButtonSet {
	var s ButtonSet
	for _, b := range bs {
		s = s.With(b)
	}
	return s
}

// Has reports whether b is held.
func (s ButtonSet) Has(b Button) bool {
	return s&(1<<b) != 0
}

// With returns s with b added.
func (s ButtonSet) With(b Button) ButtonSet {
	return s | 1<<b
}

// Without returns s with b removed.
func (s ButtonSet) Without(b Button) ButtonSet {
	return s &^ (1 << b)
}

func (s ButtonSet) String() string {
	var names []string
	for b := Button(0); b < buttonCount; b++ {
		if s.Has(b) {
			names = append(names, b.String())
		}
	}
	return "{" + strings.Join(names, ",") + "}"
}

// Provider supplies, once per tick, the buttons each player is holding.
type Provider interface {
	// Held returns the player buttons currently held by player. Unbound
	// players report an empty set.
	Held(player uint8) ButtonSet
	// QuitRequested reports whether the quit key has been pressed.
	QuitRequested() bool
}

// MaxPlayers is the size of the binding table.
const MaxPlayers = 8

// ErrInvalidBinding is returned for bindings that cannot be placed in the table.
var ErrInvalidBinding = errors.New("invalid key binding")

// Binding maps one player's buttons to key names.
type Binding struct {
	Player    uint8
	Thrust    string
	TurnLeft  string
	TurnRight string
	Fire      string
}

// Key returns the key bound to b, or "" for Quit and unknown buttons.
func (b Binding) Key(btn Button) string {
	switch btn {
	case Thrust:
		return b.Thrust
	case TurnLeft:
		return b.TurnLeft
	case TurnRight:
		return b.TurnRight
	case Fire:
		return b.Fire
	default:
		return ""
	}
}

type keyTarget struct {
	player uint8
	button Button
}

// BindingTable is the fixed-size per-player binding table, built once at
// startup and indexed by player.
type BindingTable struct {
	slots [MaxPlayers]Binding
	bound [MaxPlayers]bool
	quit  string
	keys  map[string]keyTarget
}

// NormalizeKey canonicalises a key name for lookups.
func NormalizeKey(key string) string {
	return strings.ToUpper(strings.TrimSpace(key))
}

// NewBindingTable builds a table from the quit key and player bindings.
// Player indices must be below MaxPlayers and unique, and no key may be
// bound twice.
func NewBindingTable(quit string, bindings ...Binding) (*BindingTable, error) {
	t := &BindingTable{
		quit: NormalizeKey(quit),
		keys: make(map[string]keyTarget),
	}
	if t.quit != "" {
		t.keys[t.quit] = keyTarget{button: Quit}
	}

	for _, b := range bindings {
		if int(b.Player) >= MaxPlayers {
			return nil, fmt.Errorf("%w: player %d exceeds table size %d", ErrInvalidBinding, b.Player, MaxPlayers)
		}
		if t.bound[b.Player] {
			return nil, fmt.Errorf("%w: player %d bound twice", ErrInvalidBinding, b.Player)
		}
		for _, btn := range PlayerButtons {
			key := NormalizeKey(b.Key(btn))
			if key == "" {
				continue
			}
			if prev, dup := t.keys[key]; dup {
				return nil, fmt.Errorf("%w: key %q already bound to player %d %s", ErrInvalidBinding, key, prev.player, prev.button)
			}
			t.keys[key] = keyTarget{player: b.Player, button: btn}
		}
		t.slots[b.Player] = b
		t.bound[b.Player] = true
	}
	return t, nil
}

// Lookup returns the binding for player.
func (t *BindingTable) Lookup(player uint8) (Binding, bool) {
	if t == nil || int(player) >= MaxPlayers || !t.bound[player] {
		return Binding{}, false
	}
	return t.slots[player], true
}

// Bound reports whether player has an entry in the table.
func (t *BindingTable) Bound(player uint8) bool {
	_, ok := t.Lookup(player)
	return ok
}

// Players returns the bound player indices in ascending order.
func (t *BindingTable) Players() []uint8 {
	var players []uint8
	for i := range t.bound {
		if t.bound[i] {
			players = append(players, uint8(i))
		}
	}
	return players
}

// QuitKey returns the normalised quit key.
func (t *BindingTable) QuitKey() string {
	return t.quit
}

// Resolve maps a key name to the player and button it is bound to. For the
// quit key the player is zero and the button is Quit.
func (t *BindingTable) Resolve(key string) (player uint8, button Button, ok bool) {
	target, ok := t.keys[NormalizeKey(key)]
	return target.player, target.button, ok
}

// Keys returns every bound key name, including the quit key.
func (t *BindingTable) Keys() []string {
	keys := make([]string, 0, len(t.keys))
	for k := range t.keys {
		keys = append(keys, k)
	}
	return keys
}
