package repository

import (
	"context"
	"time"

	"github.com/ramonehamilton/rotisserie-companion/internal/storage/models"
)

// SeatResultRepository manages per-seat match records.
type SeatResultRepository interface {
	Add(ctx context.Context, result *models.SeatResult) error
	GetAll(ctx context.Context) ([]*models.SeatResult, error)
	GetByDraft(ctx context.Context, draftID string) ([]*models.SeatResult, error)
}

type seatResultRepository struct {
	db DBTX
}

// NewSeatResultRepository creates a new seat result repository.
func NewSeatResultRepository(db DBTX) SeatResultRepository {
	return &seatResultRepository{db: db}
}

// Add adds games won and lost to a seat's record, creating it if needed.
func (r *seatResultRepository) Add(ctx context.Context, result *models.SeatResult) error {
	query := `
		INSERT INTO seat_results (draft_id, seat, games_won, games_lost, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (draft_id, seat) DO UPDATE SET
			games_won = games_won + excluded.games_won,
			games_lost = games_lost + excluded.games_lost,
			updated_at = excluded.updated_at
	`
	updatedAt := result.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, query, result.DraftID, result.Seat, result.GamesWon, result.GamesLost, updatedAt)
	return err
}

// GetAll returns every seat result ordered by draft and seat.
func (r *seatResultRepository) GetAll(ctx context.Context) ([]*models.SeatResult, error) {
	return r.query(ctx, `SELECT draft_id, seat, games_won, games_lost, updated_at FROM seat_results ORDER BY draft_id, seat`)
}

// GetByDraft returns the seat results of one draft.
func (r *seatResultRepository) GetByDraft(ctx context.Context, draftID string) ([]*models.SeatResult, error) {
	return r.query(ctx, `SELECT draft_id, seat, games_won, games_lost, updated_at FROM seat_results WHERE draft_id = ? ORDER BY seat`, draftID)
}

func (r *seatResultRepository) query(ctx context.Context, query string, args ...any) ([]*models.SeatResult, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*models.SeatResult
	for rows.Next() {
		sr := &models.SeatResult{}
		if err := rows.Scan(&sr.DraftID, &sr.Seat, &sr.GamesWon, &sr.GamesLost, &sr.UpdatedAt); err != nil {
			return nil, err
		}
		results = append(results, sr)
	}
	return results, rows.Err()
}
