package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ramonehamilton/rotisserie-companion/internal/cards"
	"github.com/ramonehamilton/rotisserie-companion/internal/draft"
	"github.com/ramonehamilton/rotisserie-companion/internal/draft/analytics"
	"github.com/ramonehamilton/rotisserie-companion/internal/storage/models"
	"github.com/ramonehamilton/rotisserie-companion/internal/storage/repository"
)

var (
	// ErrDraftNotFound means no draft has the requested ID.
	ErrDraftNotFound = errors.New("draft not found")

	// ErrInvalidResult means a seat result has negative games or an
	// impossible seat.
	ErrInvalidResult = errors.New("invalid seat result")
)

// Service provides high-level operations over the draft history.
type Service struct {
	db      *DB
	logger  *slog.Logger
	drafts  repository.DraftRepository
	results repository.SeatResultRepository
	cards   repository.CardRepository
	now     func() time.Time
}

// NewService creates a new storage service.
func NewService(db *DB) *Service {
	logger := db.logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		db:      db,
		logger:  logger,
		drafts:  repository.NewDraftRepository(db.Conn()),
		results: repository.NewSeatResultRepository(db.Conn()),
		cards:   repository.NewCardRepository(db.Conn()),
		now:     time.Now,
	}
}

// ImportResult reports the outcome of ImportDraft.
type ImportResult struct {
	DraftID string
	Created bool // false when identical content was already imported
	Picks   int
}

// ImportDraft stores a parsed draft and its pick records in one transaction.
//
// The draft ID comes from meta, then parsed, then a new UUID. When a draft
// with the same content fingerprint already exists nothing is written and
// the existing ID is returned.
func (s *Service) ImportDraft(ctx context.Context, meta draft.Metadata, parsed *draft.ParsedDraft) (*ImportResult, error) {
	if parsed == nil {
		return nil, errors.New("parsed draft cannot be nil")
	}

	fingerprint := Fingerprint(parsed)
	existing, err := s.drafts.GetByFingerprint(ctx, fingerprint)
	if err != nil {
		return nil, fmt.Errorf("check existing draft: %w", err)
	}
	if existing != nil {
		s.logger.Info("draft already imported", "draft_id", existing.ID, "fingerprint", fingerprint[:12])
		return &ImportResult{DraftID: existing.ID, Picks: existing.PickCount}, nil
	}

	id := meta.DraftID
	if id == "" {
		id = parsed.DraftID
	}
	if id == "" {
		id = uuid.New().String()
	}

	numDrafters := meta.NumDrafters
	if numDrafters <= 0 {
		numDrafters = parsed.NumDrafters
	}

	row := &models.Draft{
		ID:          id,
		Name:        meta.Name,
		Date:        meta.Date,
		Seats:       parsed.Seats,
		PoolSize:    parsed.PoolSize,
		Fingerprint: fingerprint,
		ImportedAt:  s.now().UTC(),
	}
	if numDrafters > 0 {
		row.NumDrafters = &numDrafters
	}

	picks := make([]*models.Pick, 0, len(parsed.Picks))
	for _, r := range parsed.Picks {
		name := cards.NormalizeName(r.CardName)
		picks = append(picks, &models.Pick{
			DraftID:      id,
			CardName:     name,
			CardKey:      cards.LookupKey(name),
			PickPosition: r.PickPosition,
			CopyNumber:   r.CopyNumber,
			WasPicked:    r.WasPicked,
			Seat:         r.Seat,
			Color:        r.Color,
		})
	}

	err = s.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		drafts := repository.NewDraftRepository(tx)
		if err := drafts.Create(ctx, row); err != nil {
			return fmt.Errorf("create draft: %w", err)
		}
		return drafts.InsertPicks(ctx, picks)
	})
	if err != nil {
		return nil, fmt.Errorf("import draft %s: %w", id, err)
	}

	s.logger.Info("draft imported", "draft_id", id, "seats", len(parsed.Seats), "records", len(picks))
	return &ImportResult{DraftID: id, Created: true, Picks: parsed.PickedCount()}, nil
}

// ListDrafts returns every imported draft, newest first.
func (s *Service) ListDrafts(ctx context.Context) ([]*models.Draft, error) {
	return s.drafts.List(ctx)
}

// GetDraft returns one draft.
func (s *Service) GetDraft(ctx context.Context, id string) (*models.Draft, error) {
	d, err := s.drafts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, fmt.Errorf("%w: %s", ErrDraftNotFound, id)
	}
	return d, nil
}

// DraftMetadata returns the metadata of every draft keyed by ID. Drafts with
// an unknown seat count get draft.DefaultNumDrafters.
func (s *Service) DraftMetadata(ctx context.Context) (map[string]draft.Metadata, error) {
	drafts, err := s.drafts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}

	meta := make(map[string]draft.Metadata, len(drafts))
	for _, d := range drafts {
		n := draft.DefaultNumDrafters
		if d.NumDrafters != nil && *d.NumDrafters > 0 {
			n = *d.NumDrafters
		}
		meta[d.ID] = draft.Metadata{DraftID: d.ID, Name: d.Name, Date: d.Date, NumDrafters: n}
	}
	return meta, nil
}

// PickHistory returns the pick records of every draft.
func (s *Service) PickHistory(ctx context.Context) ([]draft.PickRecord, error) {
	picks, err := s.drafts.GetAllPicks(ctx)
	if err != nil {
		return nil, fmt.Errorf("load picks: %w", err)
	}
	return toRecords(picks), nil
}

// DraftPicks returns the pick records of one draft.
func (s *Service) DraftPicks(ctx context.Context, draftID string) ([]draft.PickRecord, error) {
	picks, err := s.drafts.GetPicksByDraft(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("load picks of %s: %w", draftID, err)
	}
	return toRecords(picks), nil
}

func toRecords(picks []*models.Pick) []draft.PickRecord {
	records := make([]draft.PickRecord, len(picks))
	for i, p := range picks {
		records[i] = draft.PickRecord{
			CardName:     p.CardName,
			PickPosition: p.PickPosition,
			CopyNumber:   p.CopyNumber,
			WasPicked:    p.WasPicked,
			DraftID:      p.DraftID,
			Seat:         p.Seat,
			Color:        p.Color,
		}
	}
	return records
}

// RecordSeatResult adds games won and lost to a seat's record in a draft.
func (s *Service) RecordSeatResult(ctx context.Context, draftID string, seat, won, lost int) error {
	if won < 0 || lost < 0 {
		return fmt.Errorf("%w: games cannot be negative (won %d, lost %d)", ErrInvalidResult, won, lost)
	}

	d, err := s.GetDraft(ctx, draftID)
	if err != nil {
		return err
	}
	seats := len(d.Seats)
	if d.NumDrafters != nil && *d.NumDrafters > seats {
		seats = *d.NumDrafters
	}
	if seat < 0 || (seats > 0 && seat >= seats) {
		return fmt.Errorf("%w: seat %d outside 0..%d", ErrInvalidResult, seat, seats-1)
	}

	if err := s.results.Add(ctx, &models.SeatResult{
		DraftID:   draftID,
		Seat:      seat,
		GamesWon:  won,
		GamesLost: lost,
		UpdatedAt: s.now().UTC(),
	}); err != nil {
		return fmt.Errorf("record result: %w", err)
	}

	s.logger.Debug("seat result recorded", "draft_id", draftID, "seat", seat, "won", won, "lost", lost)
	return nil
}

// MatchStats returns every seat's accumulated match record.
func (s *Service) MatchStats(ctx context.Context) (analytics.MatchStats, error) {
	results, err := s.results.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load seat results: %w", err)
	}

	stats := make(analytics.MatchStats)
	for _, r := range results {
		if stats[r.DraftID] == nil {
			stats[r.DraftID] = make(map[int]analytics.SeatRecord)
		}
		stats[r.DraftID][r.Seat] = analytics.SeatRecord{GamesWon: r.GamesWon, GamesLost: r.GamesLost}
	}
	return stats, nil
}

// UpsertCard caches card metadata.
func (s *Service) UpsertCard(ctx context.Context, info cards.Info) error {
	name := cards.NormalizeName(info.Name)
	if name == "" {
		return errors.New("card name cannot be empty")
	}
	return s.cards.Upsert(ctx, &models.Card{
		Key:           cards.LookupKey(name),
		Name:          name,
		TypeLine:      info.TypeLine,
		ColorIdentity: cards.CanonicalColors(info.ColorIdentity),
		UpdatedAt:     s.now().UTC(),
	})
}

// CardCatalog loads all cached card metadata.
func (s *Service) CardCatalog(ctx context.Context) (*cards.Catalog, error) {
	rows, err := s.cards.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load cards: %w", err)
	}
	catalog := cards.NewCatalog()
	for _, c := range rows {
		catalog.Add(cards.Info{Name: c.Name, TypeLine: c.TypeLine, ColorIdentity: c.ColorIdentity})
	}
	return catalog, nil
}

// DeleteDraft removes a draft with its picks and seat results.
func (s *Service) DeleteDraft(ctx context.Context, id string) error {
	deleted, err := s.drafts.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete draft %s: %w", id, err)
	}
	if !deleted {
		return fmt.Errorf("%w: %s", ErrDraftNotFound, id)
	}
	s.logger.Info("draft deleted", "draft_id", id)
	return nil
}

// Close closes the underlying database.
func (s *Service) Close() error {
	return s.db.Close()
}
