package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/tictactoe-core/internal/entity"
)

var ErrMatchNotFound = errors.New("match not found")

// MatchRepository keeps the latest snapshot of the live match of a session.
type MatchRepository interface {
	CreateOrUpdate(ctx context.Context, sessionID string, match *entity.Match) error
	GetByID(ctx context.Context, sessionID string) (*entity.Match, error)
	DeleteByID(ctx context.Context, sessionID string) error
}

type dbMatch struct {
	client *redis.Client
	ttl    time.Duration
}

// NewMatchRepository stores snapshots in Redis. A zero ttl keeps them forever.
func NewMatchRepository(client *redis.Client, ttl time.Duration) MatchRepository {
	return &dbMatch{
		client: client,
		ttl:    ttl,
	}
}

func (that *dbMatch) CreateOrUpdate(ctx context.Context, sessionID string, match *entity.Match) error {
	matchJSON, err := json.Marshal(match)
	if err != nil {
		return fmt.Errorf("could not marshal match: %w", err)
	}

	if err = that.client.Set(ctx, matchKey(sessionID), matchJSON, that.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set match: %w", err)
	}

	return nil
}

func (that *dbMatch) GetByID(ctx context.Context, sessionID string) (*entity.Match, error) {
	response, err := that.client.Get(ctx, matchKey(sessionID)).Result()

	if errors.Is(err, redis.Nil) {
		return nil, ErrMatchNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get match by session id: %w", err)
	}

	var existingMatch entity.Match
	if err = json.Unmarshal([]byte(response), &existingMatch); err != nil {
		return nil, fmt.Errorf("failed to unmarshal match: %w", err)
	}

	return &existingMatch, nil
}

func (that *dbMatch) DeleteByID(ctx context.Context, sessionID string) error {
	deleted, err := that.client.Del(ctx, matchKey(sessionID)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete match by session id: %w", err)
	}

	if deleted == 0 {
		return ErrMatchNotFound
	}

	return nil
}

func matchKey(sessionID string) string {
	return "match:" + sessionID
}
