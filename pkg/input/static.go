package input

import "sync"

// Static is a Provider whose held buttons are set directly. It backs headless
// runs and tests.
type Static struct {
	mu   sync.RWMutex
	held [MaxPlayers]ButtonSet
	quit bool
}

// NewStatic returns a Static provider with nothing held.
func NewStatic() *Static {
	return &Static{}
}

// Set replaces the buttons held by player.
func (s *Static) Set(player uint8, buttons ButtonSet) {
	if int(player) >= MaxPlayers {
		return
	}
	s.mu.Lock()
	s.held[player] = buttons.Without(Quit)
	s.mu.Unlock()
}

// RequestQuit makes QuitRequested report true.
func (s *Static) RequestQuit() {
	s.mu.Lock()
	s.quit = true
	s.mu.Unlock()
}

// Held implements Provider.
func (s *Static) Held(player uint8) ButtonSet {
	if int(player) >= MaxPlayers {
		return 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.held[player]
}

// QuitRequested implements Provider.
func (s *Static) QuitRequested() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.quit
}
