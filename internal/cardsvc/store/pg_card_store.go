package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avvvet/card-services/internal/cardsvc/models"
)

const pgUniqueViolation = "23505"

const cardColumns = `name, cost, category, dream_category, description, author, created_time, updated_time`

// document keys that differ from their column names
var pgColumns = map[string]string{
	"createdTime": "created_time",
	"updatedTime": "updated_time",
}

type PgCardStore struct {
	db *pgxpool.Pool
}

func NewPgCardStore(db *pgxpool.Pool) *PgCardStore {
	return &PgCardStore{db: db}
}

// EnsureSchema creates the cards table when it does not exist yet.
func (s *PgCardStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS cards (
			name           TEXT PRIMARY KEY,
			cost           INTEGER NOT NULL,
			category       TEXT NOT NULL,
			dream_category TEXT NOT NULL,
			description    TEXT NOT NULL,
			author         TEXT NOT NULL,
			created_time   TEXT NOT NULL,
			updated_time   TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("create cards table: %w", err)
	}
	return nil
}

func (s *PgCardStore) FindByName(ctx context.Context, name string) (*models.CardInDb, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE name = $1 LIMIT 1`

	card, err := scanCard(s.db.QueryRow(ctx, query, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get card by name: %w", err)
	}
	return card, nil
}

func (s *PgCardStore) DistinctNames(ctx context.Context) ([]string, error) {
	rows, err := s.db.Query(ctx, `SELECT DISTINCT name FROM cards ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list card names: %w", err)
	}

	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan card names: %w", err)
	}
	return names, nil
}

func (s *PgCardStore) Create(ctx context.Context, card models.CardInDb) (*models.CardInDb, error) {
	query := `
		INSERT INTO cards (` + cardColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + cardColumns

	created, err := scanCard(s.db.QueryRow(ctx, query,
		card.Name,
		card.Cost,
		card.Category,
		card.DreamCategory,
		card.Description,
		card.Author,
		card.CreatedTime,
		card.UpdatedTime,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateName, card.Name)
		}
		return nil, fmt.Errorf("failed to create card: %w", err)
	}
	return created, nil
}

func (s *PgCardStore) FindOneAndUpdate(ctx context.Context, patch models.CardPatch) (*models.CardInDb, error) {
	changes := patch.Changes()

	sets := make([]string, 0, len(changes))
	args := []any{patch.Name}
	for _, c := range changes {
		col, ok := pgColumns[c.Field]
		if !ok {
			col = c.Field
		}
		args = append(args, c.Value)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	query := `UPDATE cards SET ` + strings.Join(sets, ", ") + ` WHERE name = $1 RETURNING ` + cardColumns

	card, err := scanCard(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update card: %w", err)
	}
	return card, nil
}

func scanCard(row pgx.Row) (*models.CardInDb, error) {
	var c models.CardInDb
	err := row.Scan(
		&c.Name,
		&c.Cost,
		&c.Category,
		&c.DreamCategory,
		&c.Description,
		&c.Author,
		&c.CreatedTime,
		&c.UpdatedTime,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
