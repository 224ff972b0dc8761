package storage

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"

	"github.com/weeklypay/ledger-engine/internal/domain"
)

// redisStore keeps the whole ledger as one JSON value under a single key.
// This is the generic key-value deployment of the persistence collaborator.
type redisStore struct {
	client   *redis.Client
	key      string
	validate *validator.Validate
}

func NewRedisStore(client *redis.Client, key string) SnapshotStore {
	return &redisStore{client: client, key: key, validate: newRecordValidator()}
}

func (s *redisStore) LoadAll(ctx context.Context) ([]*domain.Borrower, error) {
	raw, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return []*domain.Borrower{}, nil
	}
	if err != nil {
		return nil, err
	}

	var borrowers []*domain.Borrower
	if err := json.Unmarshal(raw, &borrowers); err != nil {
		return nil, err
	}

	return quarantine(borrowers, s.validate), nil
}

func (s *redisStore) SaveAll(ctx context.Context, snapshot []*domain.Borrower) error {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key, raw, 0).Err()
}
