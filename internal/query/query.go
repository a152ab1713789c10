// Package query runs the draft analytics over the stored draft history.
// It is shared by the command line and the tool server.
package query

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ramonehamilton/rotisserie-companion/internal/cards"
	"github.com/ramonehamilton/rotisserie-companion/internal/draft"
	"github.com/ramonehamilton/rotisserie-companion/internal/draft/analytics"
	"github.com/ramonehamilton/rotisserie-companion/internal/metrics"
)

// ErrCardNotFound is returned when a card has no pick history.
var ErrCardNotFound = errors.New("card not found")

// Source supplies the immutable inputs of the analytics.
// *storage.Service implements it.
type Source interface {
	PickHistory(ctx context.Context) ([]draft.PickRecord, error)
	DraftMetadata(ctx context.Context) (map[string]draft.Metadata, error)
	MatchStats(ctx context.Context) (analytics.MatchStats, error)
	CardCatalog(ctx context.Context) (*cards.Catalog, error)
}

// RankingOptions narrows a ranking query.
type RankingOptions struct {
	// Color keeps only cards of this color identity ("C" for colorless).
	Color string
	// Limit caps the result; zero or negative means no cap.
	Limit int
}

// Engine answers ranking and equity queries.
type Engine struct {
	source  Source
	metrics *metrics.AnalysisMetrics
}

// NewEngine creates an engine. metrics may be nil.
func NewEngine(source Source, m *metrics.AnalysisMetrics) *Engine {
	return &Engine{source: source, metrics: m}
}

// Metrics returns the engine's collector, which may be nil.
func (e *Engine) Metrics() *metrics.AnalysisMetrics {
	return e.metrics
}

// Rankings computes card statistics for the whole history, best cards first.
func (e *Engine) Rankings(ctx context.Context, opts RankingOptions) ([]analytics.CardStats, error) {
	all, err := e.allStats(ctx)
	if err != nil {
		return nil, err
	}

	if color := strings.ToUpper(strings.TrimSpace(opts.Color)); color != "" {
		if color != cards.Colorless && !cards.IsColorCode(color) {
			return nil, fmt.Errorf("invalid color filter %q: use W, U, B, R, G combinations or C", opts.Color)
		}
		catalog, err := e.source.CardCatalog(ctx)
		if err != nil {
			return nil, fmt.Errorf("load card catalog: %w", err)
		}
		all = analytics.FilterByColor(all, color, catalog)
	}

	if opts.Limit > 0 && len(all) > opts.Limit {
		all = all[:opts.Limit]
	}
	return all, nil
}

// Card returns the statistics of one card looked up by name.
func (e *Engine) Card(ctx context.Context, name string) (analytics.CardStats, error) {
	all, err := e.allStats(ctx)
	if err != nil {
		return analytics.CardStats{}, err
	}
	stat, ok := analytics.FindCard(all, name)
	if !ok {
		return analytics.CardStats{}, fmt.Errorf("%w: %q", ErrCardNotFound, name)
	}
	return stat, nil
}

func (e *Engine) allStats(ctx context.Context) ([]analytics.CardStats, error) {
	records, err := e.source.PickHistory(ctx)
	if err != nil {
		return nil, fmt.Errorf("load pick history: %w", err)
	}
	meta, err := e.source.DraftMetadata(ctx)
	if err != nil {
		return nil, fmt.Errorf("load draft metadata: %w", err)
	}

	start := time.Now()
	all := analytics.CalculateCardStats(records, meta)
	if e.metrics != nil {
		e.metrics.RecordRanking(time.Since(start))
	}
	return all, nil
}

// Equity attributes stored match results to the cards each seat picked.
func (e *Engine) Equity(ctx context.Context) (analytics.EquityResult, error) {
	records, err := e.source.PickHistory(ctx)
	if err != nil {
		return analytics.EquityResult{}, fmt.Errorf("load pick history: %w", err)
	}
	matchStats, err := e.source.MatchStats(ctx)
	if err != nil {
		return analytics.EquityResult{}, fmt.Errorf("load match stats: %w", err)
	}
	catalog, err := e.source.CardCatalog(ctx)
	if err != nil {
		return analytics.EquityResult{}, fmt.Errorf("load card catalog: %w", err)
	}

	start := time.Now()
	result := analytics.CalculateWinEquity(records, matchStats, catalog)
	if e.metrics != nil {
		e.metrics.RecordEquity(time.Since(start))
	}
	return result, nil
}

// RankedEquity returns one equity variant ordered best first.
func (e *Engine) RankedEquity(ctx context.Context, raw bool, limit int) ([]analytics.EquityEntry, error) {
	result, err := e.Equity(ctx)
	if err != nil {
		return nil, err
	}
	variant := result.Weighted
	if raw {
		variant = result.Raw
	}
	ranked := analytics.RankEquity(variant)
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}
