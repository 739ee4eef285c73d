package store

import (
	"context"
	"errors"

	"github.com/avvvet/card-services/internal/cardsvc/models"
)

// ErrDuplicateName is returned by Create when the card name is taken.
var ErrDuplicateName = errors.New("duplicate key error: card name already exists")

// CardStore is the catalog gateway. Lookups return nil, nil when no card
// matches the name.
type CardStore interface {
	FindByName(ctx context.Context, name string) (*models.CardInDb, error)
	DistinctNames(ctx context.Context) ([]string, error)
	Create(ctx context.Context, card models.CardInDb) (*models.CardInDb, error)
	FindOneAndUpdate(ctx context.Context, patch models.CardPatch) (*models.CardInDb, error)
}

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)
