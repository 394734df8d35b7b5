package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/NastyaGoryachaya/crypto-price-oracle/internal/domain"
	"github.com/NastyaGoryachaya/crypto-price-oracle/internal/repository"
)

// MappingStore - сопоставления в памяти процесса (storage.driver=memory и тесты).
// Ключи уникальности те же, что у price_mappings.
type MappingStore struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[int64]domain.CanonicalMapping
}

func NewMappingStore() *MappingStore {
	return &MappingStore{rows: make(map[int64]domain.CanonicalMapping)}
}

type mappingKey struct {
	contract bool
	key      string
	network  string
}

func keyOf(m domain.CanonicalMapping) mappingKey {
	if m.IsContract() {
		return mappingKey{contract: true, key: m.ContractAddress, network: m.Network}
	}
	return mappingKey{key: m.Symbol, network: m.Network}
}

// findKeyLocked - строка с тем же ключом уникальности, кроме exceptID
func (s *MappingStore) findKeyLocked(k mappingKey, exceptID int64) (domain.CanonicalMapping, bool) {
	for id, row := range s.rows {
		if id != exceptID && keyOf(row) == k {
			return row, true
		}
	}
	return domain.CanonicalMapping{}, false
}

func (s *MappingStore) FindByContract(_ context.Context, contract, network string) (domain.CanonicalMapping, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		best  domain.CanonicalMapping
		found bool
	)
	for _, row := range s.rows {
		if row.ContractAddress != contract || (network != "" && row.Network != network) {
			continue
		}
		if !found || row.ID < best.ID {
			best, found = row, true
		}
	}
	if !found {
		return domain.CanonicalMapping{}, repository.ErrNotFound
	}
	return best, nil
}

func (s *MappingStore) FindBySymbol(_ context.Context, symbol, network string) (domain.CanonicalMapping, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if row, ok := s.findKeyLocked(mappingKey{key: symbol, network: network}, 0); ok {
		return row, nil
	}
	return domain.CanonicalMapping{}, repository.ErrNotFound
}

func (s *MappingStore) GetByID(_ context.Context, id int64) (domain.CanonicalMapping, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.rows[id]
	if !ok {
		return domain.CanonicalMapping{}, repository.ErrNotFound
	}
	return row, nil
}

func (s *MappingStore) List(_ context.Context, symbol string, limit int) ([]domain.CanonicalMapping, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.CanonicalMapping, 0, len(s.rows))
	for _, row := range s.rows {
		if symbol == "" || row.Symbol == symbol {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MappingStore) Create(_ context.Context, m domain.CanonicalMapping) (domain.CanonicalMapping, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.findKeyLocked(keyOf(m), 0); ok {
		return domain.CanonicalMapping{}, repository.ErrDuplicate
	}
	return s.insertLocked(m), nil
}

func (s *MappingStore) Update(_ context.Context, m domain.CanonicalMapping) (domain.CanonicalMapping, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.rows[m.ID]
	if !ok {
		return domain.CanonicalMapping{}, repository.ErrNotFound
	}
	if _, dup := s.findKeyLocked(keyOf(m), m.ID); dup {
		return domain.CanonicalMapping{}, repository.ErrDuplicate
	}
	m.CreatedAt = old.CreatedAt
	s.rows[m.ID] = m
	return m, nil
}

func (s *MappingStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.rows, id)
	return nil
}

func (s *MappingStore) Upsert(_ context.Context, m domain.CanonicalMapping) (domain.CanonicalMapping, repository.UpsertOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.findKeyLocked(keyOf(m), 0)
	if !ok {
		return s.insertLocked(m), repository.Inserted, nil
	}
	if existing.CanonicalID == m.CanonicalID {
		return existing, repository.Unchanged, nil
	}
	existing.CanonicalID = m.CanonicalID
	existing.Source = m.Source
	if existing.Symbol == "" {
		existing.Symbol = m.Symbol
	}
	s.rows[existing.ID] = existing
	return existing, repository.Updated, nil
}

// Len - число строк (для тестов и отладки)
func (s *MappingStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows)
}

func (s *MappingStore) insertLocked(m domain.CanonicalMapping) domain.CanonicalMapping {
	s.nextID++
	m.ID = s.nextID
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	s.rows[m.ID] = m
	return m
}
