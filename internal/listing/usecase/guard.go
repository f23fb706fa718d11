package usecase

import "sync"

// submitGuard allows one in-flight ad submission per owner.
type submitGuard struct {
	mu     sync.Mutex
	owners map[string]struct{}
}

func newSubmitGuard() *submitGuard {
	return &submitGuard{owners: make(map[string]struct{})}
}

func (g *submitGuard) tryAcquire(ownerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.owners[ownerID]; busy {
		return false
	}
	g.owners[ownerID] = struct{}{}
	return true
}

func (g *submitGuard) release(ownerID string) {
	g.mu.Lock()
	delete(g.owners, ownerID)
	g.mu.Unlock()
}
