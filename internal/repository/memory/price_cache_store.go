package memory

import (
	"context"
	"sync"

	"github.com/NastyaGoryachaya/crypto-price-oracle/internal/domain"
	"github.com/NastyaGoryachaya/crypto-price-oracle/internal/repository"
)

type pointKey struct {
	id       string
	currency string
	bucket   int64
}

// PriceCacheStore - постоянный уровень кэша в памяти (живёт до рестарта)
type PriceCacheStore struct {
	mu     sync.RWMutex
	points map[pointKey]domain.CachedPricePoint
}

func NewPriceCacheStore() *PriceCacheStore {
	return &PriceCacheStore{points: make(map[pointKey]domain.CachedPricePoint)}
}

func (s *PriceCacheStore) GetPoint(_ context.Context, canonicalID, currency string, bucket int64) (domain.CachedPricePoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.points[pointKey{canonicalID, currency, bucket}]
	if !ok {
		return domain.CachedPricePoint{}, repository.ErrNotFound
	}
	return p, nil
}

func (s *PriceCacheStore) UpsertPoint(_ context.Context, p domain.CachedPricePoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.points[pointKey{p.CanonicalID, p.Currency, p.Bucket}] = p
	return nil
}

func (s *PriceCacheStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.points)
}
