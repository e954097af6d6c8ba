package repository

import (
	"context"
	"sync"

	"github.com/rocketscienceinc/tictactoe-core/internal/entity"
)

type memoryMatch struct {
	mu      sync.RWMutex
	matches map[string]entity.Match
}

// NewMemoryMatchRepository keeps snapshots in process memory. It is used when
// Redis is disabled, so a snapshot only lives as long as the process.
func NewMemoryMatchRepository() MatchRepository {
	return &memoryMatch{
		matches: make(map[string]entity.Match),
	}
}

func (that *memoryMatch) CreateOrUpdate(_ context.Context, sessionID string, match *entity.Match) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.matches[sessionID] = *match

	return nil
}

func (that *memoryMatch) GetByID(_ context.Context, sessionID string) (*entity.Match, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	match, ok := that.matches[sessionID]
	if !ok {
		return nil, ErrMatchNotFound
	}

	return &match, nil
}

func (that *memoryMatch) DeleteByID(_ context.Context, sessionID string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.matches[sessionID]; !ok {
		return ErrMatchNotFound
	}

	delete(that.matches, sessionID)

	return nil
}
