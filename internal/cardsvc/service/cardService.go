package service

import (
	"context"
	"time"

	"github.com/avvvet/card-services/internal/apperr"
	"github.com/avvvet/card-services/internal/cardsvc/models"
	"github.com/avvvet/card-services/internal/cardsvc/store"
)

// CardService runs the single storage call of each command and turns its
// outcome into either a card or a tagged error.
type CardService struct {
	store store.CardStore
	now   func() time.Time
}

func NewCardService(store store.CardStore, loc *time.Location) *CardService {
	if loc == nil {
		loc = time.Local
	}
	return &CardService{
		store: store,
		now:   func() time.Time { return time.Now().In(loc) },
	}
}

// WithClock replaces the time source used for created/updated stamps.
func (s *CardService) WithClock(now func() time.Time) *CardService {
	s.now = now
	return s
}

func (s *CardService) GetCardByName(ctx context.Context, name string) (*models.CardInDb, error) {
	card, err := s.store.FindByName(ctx, name)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if card == nil {
		return nil, notFound(name)
	}
	return card, nil
}

func (s *CardService) GetCardNames(ctx context.Context) ([]string, error) {
	names, err := s.store.DistinctNames(ctx)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return names, nil
}

func (s *CardService) CreateCard(ctx context.Context, in models.CardInput, author string) (*models.CardInDb, error) {
	card, err := s.store.Create(ctx, models.NewCardInDb(in, author, s.now()))
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return card, nil
}

// UpdateCard stamps the updating author and UpdatedTime and writes only the
// present fields of patch.
func (s *CardService) UpdateCard(ctx context.Context, patch models.CardPatch, author string) (*models.CardInDb, error) {
	patch.Author = author
	patch.UpdatedTime = models.FormatTime(s.now())

	card, err := s.store.FindOneAndUpdate(ctx, patch)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if card == nil {
		return nil, notFound(patch.Name)
	}
	return card, nil
}

func notFound(name string) error {
	return apperr.NotFoundf("Cannot find card with name: %s", name)
}
