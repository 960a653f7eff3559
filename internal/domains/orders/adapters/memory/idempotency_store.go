package memory

import (
	"context"
	"sync"

	"github.com/Apurer/storefront-console/internal/domains/orders/ports"
)

var _ ports.IdempotencyStore = (*IdempotencyStore)(nil)

type idempotencyKey struct {
	orderID int64
	key     string
}

// IdempotencyStore keeps order edit keys in memory for development and tests.
type IdempotencyStore struct {
	mu      sync.Mutex
	records map[idempotencyKey]ports.IdempotencyRecord
}

func NewIdempotencyStore() *IdempotencyStore {
	return &IdempotencyStore{records: map[idempotencyKey]ports.IdempotencyRecord{}}
}

func (s *IdempotencyStore) Get(_ context.Context, orderID int64, key string) (*ports.IdempotencyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[idempotencyKey{orderID: orderID, key: key}]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

func (s *IdempotencyStore) Reserve(_ context.Context, record ports.IdempotencyRecord) (*ports.IdempotencyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := idempotencyKey{orderID: record.OrderID, key: record.Key}
	if existing, ok := s.records[id]; ok && !existing.Expired(record.CreatedAt) {
		if existing.RequestHash != record.RequestHash {
			return &existing, ports.ErrIdempotencyConflict
		}
		return &existing, ports.ErrIdempotencyKeyTaken
	}
	s.records[id] = record
	return &record, nil
}

func (s *IdempotencyStore) Release(_ context.Context, orderID int64, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, idempotencyKey{orderID: orderID, key: key})
	return nil
}

// Len reports how many keys are held, expired ones included.
func (s *IdempotencyStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
