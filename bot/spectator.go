package bot

import "sync"

// Spectator follows at most one game at a time so its rounds can be read in
// the logs without interleaving. The zero value is idle.
type Spectator struct {
	mu     sync.Mutex
	gameID string
}

// Watch starts following gameID if no game is followed yet.
func (s *Spectator) Watch(gameID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gameID != "" {
		return false
	}
	s.gameID = gameID
	return true
}

// Watching reports whether gameID is the followed game.
func (s *Spectator) Watching(gameID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return gameID != "" && s.gameID == gameID
}

// Release stops following gameID. It reports whether gameID was followed.
func (s *Spectator) Release(gameID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gameID == "" || s.gameID != gameID {
		return false
	}
	s.gameID = ""
	return true
}
