package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ramonehamilton/rotisserie-companion/internal/storage/models"
)

// DraftRepository manages drafts and their pick records.
type DraftRepository interface {
	Create(ctx context.Context, draft *models.Draft) error
	GetByID(ctx context.Context, id string) (*models.Draft, error)
	GetByFingerprint(ctx context.Context, fingerprint string) (*models.Draft, error)
	List(ctx context.Context) ([]*models.Draft, error)
	Delete(ctx context.Context, id string) (bool, error)

	InsertPicks(ctx context.Context, picks []*models.Pick) error
	GetAllPicks(ctx context.Context) ([]*models.Pick, error)
	GetPicksByDraft(ctx context.Context, draftID string) ([]*models.Pick, error)
}

type draftRepository struct {
	db DBTX
}

// NewDraftRepository creates a new draft repository.
func NewDraftRepository(db DBTX) DraftRepository {
	return &draftRepository{db: db}
}

// Create inserts a draft row.
func (r *draftRepository) Create(ctx context.Context, draft *models.Draft) error {
	seats, err := json.Marshal(draft.Seats)
	if err != nil {
		return fmt.Errorf("encode seats: %w", err)
	}

	query := `
		INSERT INTO drafts (id, name, draft_date, num_drafters, seats, pool_size, fingerprint, imported_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		draft.ID,
		draft.Name,
		draft.Date,
		draft.NumDrafters,
		string(seats),
		draft.PoolSize,
		draft.Fingerprint,
		draft.ImportedAt,
	)
	return err
}

const draftColumns = `
	d.id, d.name, d.draft_date, d.num_drafters, d.seats, d.pool_size, d.fingerprint, d.imported_at,
	(SELECT COUNT(*) FROM picks p WHERE p.draft_id = d.id AND p.was_picked = 1)
`

// GetByID returns the draft with the given ID, or nil when it does not exist.
func (r *draftRepository) GetByID(ctx context.Context, id string) (*models.Draft, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+draftColumns+` FROM drafts d WHERE d.id = ?`, id)
	return scanOptionalDraft(row)
}

// GetByFingerprint returns the draft with the given content fingerprint, or
// nil when none was imported.
func (r *draftRepository) GetByFingerprint(ctx context.Context, fingerprint string) (*models.Draft, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+draftColumns+` FROM drafts d WHERE d.fingerprint = ?`, fingerprint)
	return scanOptionalDraft(row)
}

// List returns all drafts, newest date first.
func (r *draftRepository) List(ctx context.Context) ([]*models.Draft, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+draftColumns+` FROM drafts d ORDER BY d.draft_date DESC, d.imported_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drafts []*models.Draft
	for rows.Next() {
		d, err := scanDraft(rows)
		if err != nil {
			return nil, err
		}
		drafts = append(drafts, d)
	}
	return drafts, rows.Err()
}

// Delete removes a draft; picks and seat results cascade. Reports whether a
// draft was deleted.
func (r *draftRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM drafts WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// InsertPicks inserts pick rows.
func (r *draftRepository) InsertPicks(ctx context.Context, picks []*models.Pick) error {
	query := `
		INSERT INTO picks (draft_id, card_name, card_key, pick_position, copy_number, was_picked, seat, color)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	for _, p := range picks {
		if _, err := r.db.ExecContext(ctx, query,
			p.DraftID,
			p.CardName,
			p.CardKey,
			p.PickPosition,
			p.CopyNumber,
			p.WasPicked,
			p.Seat,
			p.Color,
		); err != nil {
			return fmt.Errorf("insert pick %q copy %d: %w", p.CardName, p.CopyNumber, err)
		}
	}
	return nil
}

const pickColumns = `id, draft_id, card_name, card_key, pick_position, copy_number, was_picked, seat, color`

// GetAllPicks returns every pick of every draft ordered by draft and position.
func (r *draftRepository) GetAllPicks(ctx context.Context) ([]*models.Pick, error) {
	return r.queryPicks(ctx, `SELECT `+pickColumns+` FROM picks ORDER BY draft_id, pick_position, id`)
}

// GetPicksByDraft returns the picks of one draft ordered by position.
func (r *draftRepository) GetPicksByDraft(ctx context.Context, draftID string) ([]*models.Pick, error) {
	return r.queryPicks(ctx, `SELECT `+pickColumns+` FROM picks WHERE draft_id = ? ORDER BY pick_position, id`, draftID)
}

func (r *draftRepository) queryPicks(ctx context.Context, query string, args ...any) ([]*models.Pick, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var picks []*models.Pick
	for rows.Next() {
		p := &models.Pick{}
		if err := rows.Scan(
			&p.ID,
			&p.DraftID,
			&p.CardName,
			&p.CardKey,
			&p.PickPosition,
			&p.CopyNumber,
			&p.WasPicked,
			&p.Seat,
			&p.Color,
		); err != nil {
			return nil, err
		}
		picks = append(picks, p)
	}
	return picks, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDraft(row rowScanner) (*models.Draft, error) {
	d := &models.Draft{}
	var numDrafters sql.NullInt64
	var seats string
	if err := row.Scan(
		&d.ID,
		&d.Name,
		&d.Date,
		&numDrafters,
		&seats,
		&d.PoolSize,
		&d.Fingerprint,
		&d.ImportedAt,
		&d.PickCount,
	); err != nil {
		return nil, err
	}
	if numDrafters.Valid {
		n := int(numDrafters.Int64)
		d.NumDrafters = &n
	}
	if err := json.Unmarshal([]byte(seats), &d.Seats); err != nil {
		return nil, fmt.Errorf("decode seats of draft %s: %w", d.ID, err)
	}
	return d, nil
}

func scanOptionalDraft(row *sql.Row) (*models.Draft, error) {
	d, err := scanDraft(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return d, err
}
