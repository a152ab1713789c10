package repository

import (
	"context"
	"time"

	"github.com/ramonehamilton/rotisserie-companion/internal/storage/models"
)

// CardRepository manages cached card metadata.
type CardRepository interface {
	Upsert(ctx context.Context, card *models.Card) error
	GetAll(ctx context.Context) ([]*models.Card, error)
}

type cardRepository struct {
	db DBTX
}

// NewCardRepository creates a new card repository.
func NewCardRepository(db DBTX) CardRepository {
	return &cardRepository{db: db}
}

// Upsert inserts or replaces a card.
func (r *cardRepository) Upsert(ctx context.Context, card *models.Card) error {
	query := `
		INSERT INTO cards (card_key, name, type_line, color_identity, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (card_key) DO UPDATE SET
			name = excluded.name,
			type_line = excluded.type_line,
			color_identity = excluded.color_identity,
			updated_at = excluded.updated_at
	`
	updatedAt := card.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, query, card.Key, card.Name, card.TypeLine, card.ColorIdentity, updatedAt)
	return err
}

// GetAll returns every cached card ordered by key.
func (r *cardRepository) GetAll(ctx context.Context) ([]*models.Card, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT card_key, name, type_line, color_identity, updated_at FROM cards ORDER BY card_key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*models.Card
	for rows.Next() {
		c := &models.Card{}
		if err := rows.Scan(&c.Key, &c.Name, &c.TypeLine, &c.ColorIdentity, &c.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}
