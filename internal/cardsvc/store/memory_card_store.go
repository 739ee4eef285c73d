package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/avvvet/card-services/internal/cardsvc/models"
)

// MemoryCardStore keeps the catalog in process memory, for local runs and
// tests.
type MemoryCardStore struct {
	mu    sync.RWMutex
	cards map[string]models.CardInDb
}

func NewMemoryCardStore() *MemoryCardStore {
	return &MemoryCardStore{cards: make(map[string]models.CardInDb)}
}

func (s *MemoryCardStore) FindByName(_ context.Context, name string) (*models.CardInDb, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	card, ok := s.cards[name]
	if !ok {
		return nil, nil
	}
	return &card, nil
}

// DistinctNames returns names in ascending order.
func (s *MemoryCardStore) DistinctNames(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.cards))
	for name := range s.cards {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *MemoryCardStore) Create(_ context.Context, card models.CardInDb) (*models.CardInDb, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cards[card.Name]; ok {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateName, card.Name)
	}
	s.cards[card.Name] = card
	return &card, nil
}

func (s *MemoryCardStore) FindOneAndUpdate(_ context.Context, patch models.CardPatch) (*models.CardInDb, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	card, ok := s.cards[patch.Name]
	if !ok {
		return nil, nil
	}
	patch.ApplyTo(&card)
	s.cards[patch.Name] = card
	return &card, nil
}
