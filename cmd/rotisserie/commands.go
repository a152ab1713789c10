package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ramonehamilton/rotisserie-companion/internal/cards"
	"github.com/ramonehamilton/rotisserie-companion/internal/charts"
	"github.com/ramonehamilton/rotisserie-companion/internal/draft"
	"github.com/ramonehamilton/rotisserie-companion/internal/export"
	"github.com/ramonehamilton/rotisserie-companion/internal/mcpserver"
	"github.com/ramonehamilton/rotisserie-companion/internal/query"
	"github.com/ramonehamilton/rotisserie-companion/internal/version"
	"github.com/ramonehamilton/rotisserie-companion/internal/watch"
)

func (a *app) runImport(ctx context.Context, args []string) error {
	fs := a.flags("import")
	picks := fs.String("picks", a.cfg.Draft.PicksCSV, "Pick grid CSV")
	pool := fs.String("pool", a.cfg.Draft.PoolCSV, "Pool listing CSV (optional)")
	id := fs.String("id", "", "Draft ID (default: generated)")
	name := fs.String("name", "", "Draft name")
	date := fs.String("date", time.Now().Format(time.DateOnly), "Draft date, YYYY-MM-DD")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *picks == "" {
		return fmt.Errorf("%w: -picks is required", errUsage)
	}
	if *date != "" {
		if _, err := time.Parse(time.DateOnly, *date); err != nil {
			return fmt.Errorf("invalid -date %q: want YYYY-MM-DD", *date)
		}
	}

	start := time.Now()
	log, err := draft.ReadPickLogFiles(*picks, *pool)
	if err != nil {
		return err
	}
	parsed, err := draft.ParsePickLog(log, *id)
	a.metrics.RecordParse(time.Since(start), recordCount(parsed), err)
	if err != nil {
		return fmt.Errorf("parse %s: %w", *picks, err)
	}

	svc, err := a.openStore()
	if err != nil {
		return err
	}
	defer svc.Close()

	meta := draft.Metadata{DraftID: *id, Name: *name, Date: *date, NumDrafters: parsed.NumDrafters}
	result, err := svc.ImportDraft(ctx, meta, parsed)
	if err != nil {
		return err
	}

	if result.Created {
		fmt.Fprintf(a.out, "✓ Imported draft %s: %d seats, %d picks, %d pool cards\n",
			result.DraftID, len(parsed.Seats), result.Picks, parsed.PoolSize)
	} else {
		fmt.Fprintf(a.out, "Draft already imported as %s\n", result.DraftID)
	}
	return nil
}

func recordCount(parsed *draft.ParsedDraft) int {
	if parsed == nil {
		return 0
	}
	return len(parsed.Picks)
}

func (a *app) runResult(ctx context.Context, args []string) error {
	fs := a.flags("result")
	draftID := fs.String("draft", "", "Draft ID")
	seat := fs.String("seat", "", "Seat name or 0-indexed seat number")
	won := fs.Int("won", 0, "Games won")
	lost := fs.Int("lost", 0, "Games lost")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *draftID == "" || *seat == "" {
		return fmt.Errorf("%w: -draft and -seat are required", errUsage)
	}

	svc, err := a.openStore()
	if err != nil {
		return err
	}
	defer svc.Close()

	d, err := svc.GetDraft(ctx, *draftID)
	if err != nil {
		return err
	}
	index, err := resolveSeat(d.Seats, *seat)
	if err != nil {
		return err
	}

	if err := svc.RecordSeatResult(ctx, d.ID, index, *won, *lost); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Recorded %d-%d for %s in %s\n", *won, *lost, d.Seats[index], d.ID)
	return nil
}

// resolveSeat accepts a seat number or a seat name in any case.
func resolveSeat(seats []string, seat string) (int, error) {
	if n, err := strconv.Atoi(seat); err == nil {
		if n < 0 || n >= len(seats) {
			return 0, fmt.Errorf("seat %d out of range: draft has %d seats", n, len(seats))
		}
		return n, nil
	}
	for i, s := range seats {
		if strings.EqualFold(strings.TrimSpace(s), strings.TrimSpace(seat)) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("seat %q not found; seats are: %s", seat, strings.Join(seats, ", "))
}

func (a *app) runCatalog(ctx context.Context, args []string) error {
	fs := a.flags("catalog")
	csvPath := fs.String("csv", "", "CSV of name, type line, color identity")
	name := fs.String("name", "", "Card name")
	typeLine := fs.String("type", "", "Card type line")
	colors := fs.String("colors", "", "Color identity, e.g. UR")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var infos []cards.Info
	switch {
	case *csvPath != "":
		f, err := os.Open(*csvPath)
		if err != nil {
			return err
		}
		defer f.Close()
		infos, err = cards.ReadCatalogCSV(f)
		if err != nil {
			return err
		}
	case *name != "":
		if *colors != "" && !cards.IsColorCode(*colors) {
			return fmt.Errorf("invalid -colors %q", *colors)
		}
		infos = []cards.Info{{Name: *name, TypeLine: *typeLine, ColorIdentity: *colors}}
	}

	svc, err := a.openStore()
	if err != nil {
		return err
	}
	defer svc.Close()

	for _, info := range infos {
		if err := svc.UpsertCard(ctx, info); err != nil {
			return err
		}
	}

	catalog, err := svc.CardCatalog(ctx)
	if err != nil {
		return err
	}
	if len(infos) > 0 {
		fmt.Fprintf(a.out, "✓ Stored %d card(s)\n", len(infos))
	}
	fmt.Fprintf(a.out, "Catalog holds %d card(s)\n", catalog.Len())
	return nil
}

func (a *app) runDrafts(ctx context.Context, args []string) error {
	fs := a.flags("drafts")
	deleteID := fs.String("delete", "", "Delete the draft with this ID")
	if err := fs.Parse(args); err != nil {
		return err
	}

	svc, err := a.openStore()
	if err != nil {
		return err
	}
	defer svc.Close()

	if *deleteID != "" {
		if err := svc.DeleteDraft(ctx, *deleteID); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "✓ Deleted draft %s\n", *deleteID)
		return nil
	}

	drafts, err := svc.ListDrafts(ctx)
	if err != nil {
		return err
	}
	displayDrafts(a.out, drafts)
	return nil
}

func (a *app) runCard(ctx context.Context, args []string) error {
	fs := a.flags("card")
	if err := fs.Parse(args); err != nil {
		return err
	}
	name := strings.Join(fs.Args(), " ")
	if name == "" {
		return fmt.Errorf("%w: usage: rotisserie card <name>", errUsage)
	}

	engine, svc, err := a.openEngine()
	if err != nil {
		return err
	}
	defer svc.Close()

	stat, err := engine.Card(ctx, name)
	if err != nil {
		return err
	}
	displayCardStats(a.out, stat)
	return nil
}

func (a *app) runRankings(ctx context.Context, args []string) error {
	fs := a.flags("rankings")
	limit := fs.Int("limit", 25, "Number of cards to show (0 for all)")
	color := fs.String("color", "", "Color identity filter, e.g. U, WR or C for colorless")
	if err := fs.Parse(args); err != nil {
		return err
	}

	engine, svc, err := a.openEngine()
	if err != nil {
		return err
	}
	defer svc.Close()

	ranked, err := engine.Rankings(ctx, query.RankingOptions{Color: *color, Limit: *limit})
	if err != nil {
		return err
	}
	displayRankings(a.out, ranked)
	return nil
}

func (a *app) runEquity(ctx context.Context, args []string) error {
	fs := a.flags("equity")
	limit := fs.Int("limit", 25, "Number of cards to show (0 for all)")
	raw := fs.Bool("raw", false, "Split results evenly instead of by play probability")
	if err := fs.Parse(args); err != nil {
		return err
	}

	engine, svc, err := a.openEngine()
	if err != nil {
		return err
	}
	defer svc.Close()

	ranked, err := engine.RankedEquity(ctx, *raw, *limit)
	if err != nil {
		return err
	}
	displayEquity(a.out, ranked, *raw)
	return nil
}

// liveFlags holds the flags shared by state and watch.
type liveFlags struct {
	picks *string
	pool  *string
	seat  *string
	after *int
}

func (a *app) liveFlagSet(name string) (*flag.FlagSet, liveFlags) {
	fs := a.flags(name)
	return fs, liveFlags{
		picks: fs.String("picks", a.cfg.Draft.PicksCSV, "Pick grid CSV"),
		pool:  fs.String("pool", a.cfg.Draft.PoolCSV, "Pool listing CSV (optional)"),
		seat:  fs.String("seat", a.cfg.Draft.TargetSeat, "Your seat name"),
		after: fs.Int("double-pick-after", a.cfg.Draft.DoublePickAfterRound, "Round after which seats pick twice (0 or less disables)"),
	}
}

// stateOptions maps the configured threshold, where zero disables double
// picks, onto draft.StateOptions, where zero selects the default.
func stateOptions(seat string, after int) draft.StateOptions {
	if after == 0 {
		after = -1
	}
	return draft.StateOptions{TargetSeat: seat, DoublePickAfterRound: after}
}

func (a *app) runState(args []string) error {
	fs, live := a.liveFlagSet("state")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *live.picks == "" {
		return fmt.Errorf("%w: -picks is required", errUsage)
	}

	log, err := draft.ReadPickLogFiles(*live.picks, *live.pool)
	if err != nil {
		return err
	}
	state, err := draft.ParseDraftState(log, stateOptions(*live.seat, *live.after))
	if err != nil {
		return err
	}
	displayState(a.out, state)
	return nil
}

func (a *app) runWatch(ctx context.Context, args []string) error {
	fs, live := a.liveFlagSet("watch")
	if err := fs.Parse(args); err != nil {
		return err
	}

	interval, err := a.cfg.WatchInterval()
	if err != nil {
		return err
	}

	w, err := watch.New(watch.Config{
		PicksPath:   *live.picks,
		PoolPath:    *live.pool,
		Options:     stateOptions(*live.seat, *live.after),
		UseFsnotify: a.cfg.Watch.UseFsnotify,
		MinInterval: interval,
		Metrics:     a.metrics,
		Logger:      a.logger,
	})
	if err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	fmt.Fprintf(a.out, "Watching %s (Ctrl+C to stop)\n\n", *live.picks)
	for state := range w.Updates() {
		displayState(a.out, state)
		fmt.Fprintln(a.out)
	}
	return <-done
}

func (a *app) runChart(ctx context.Context, args []string) error {
	fs := a.flags("chart")
	kind := fs.String("type", "history", "Chart type: history, distribution or top")
	card := fs.String("card", "", "Card name (history and distribution)")
	limit := fs.Int("limit", 20, "Cards in the top chart")
	output := fs.String("out", "", "Output HTML file (default in the export directory)")
	open := fs.Bool("open", false, "Open the chart in a browser")
	if err := fs.Parse(args); err != nil {
		return err
	}

	engine, svc, err := a.openEngine()
	if err != nil {
		return err
	}
	defer svc.Close()

	cfg := charts.DefaultChartConfig()
	var render func(w io.Writer) error
	switch *kind {
	case "history", "distribution":
		if *card == "" {
			return fmt.Errorf("%w: -card is required for %s charts", errUsage, *kind)
		}
		stat, err := engine.Card(ctx, *card)
		if err != nil {
			return err
		}
		render = func(w io.Writer) error { return charts.RenderScoreHistory(stat, cfg, w) }
		if *kind == "distribution" {
			render = func(w io.Writer) error { return charts.RenderPickDistribution(stat, cfg, w) }
		}
	case "top":
		ranked, err := engine.Rankings(ctx, query.RankingOptions{Limit: *limit})
		if err != nil {
			return err
		}
		render = func(w io.Writer) error { return charts.RenderTopCards(ranked, *limit, cfg, w) }
	default:
		return fmt.Errorf("%w: unknown chart type %q", errUsage, *kind)
	}

	path := *output
	if path == "" {
		path = filepath.Join(a.cfg.Export.Dir, fmt.Sprintf("%s_%s.html", *kind, time.Now().Format("20060102_150405")))
	}
	if err := charts.RenderToFile(path, render); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Chart written to %s\n", path)

	if *open {
		return charts.OpenInBrowser(path)
	}
	return nil
}

func (a *app) runExport(ctx context.Context, args []string) error {
	fs := a.flags("export")
	kind := fs.String("type", "rankings", "What to export: rankings or equity")
	formatStr := fs.String("format", "csv", "Output format: csv or json")
	output := fs.String("out", "", "Output file (default: generated name in the export directory)")
	overwrite := fs.Bool("overwrite", false, "Replace an existing file")
	color := fs.String("color", "", "Color identity filter for rankings")
	if err := fs.Parse(args); err != nil {
		return err
	}

	format, err := export.ParseFormat(*formatStr)
	if err != nil {
		return err
	}

	engine, svc, err := a.openEngine()
	if err != nil {
		return err
	}
	defer svc.Close()

	var data any
	switch *kind {
	case "rankings":
		ranked, err := engine.Rankings(ctx, query.RankingOptions{Color: *color})
		if err != nil {
			return err
		}
		data = export.RankingRows(ranked)
	case "equity":
		result, err := engine.Equity(ctx)
		if err != nil {
			return err
		}
		data = export.EquityRows(result)
	default:
		return fmt.Errorf("%w: unknown export type %q", errUsage, *kind)
	}

	path := *output
	if path == "" {
		path = filepath.Join(a.cfg.Export.Dir, export.GenerateFilename(*kind, format, time.Now()))
	}

	exporter := export.NewExporter(export.Options{
		Format:     format,
		FilePath:   path,
		PrettyJSON: a.cfg.Export.PrettyJSON,
		Overwrite:  *overwrite,
	})
	if err := exporter.Export(data); err != nil {
		if errors.Is(err, export.ErrNoData) {
			return fmt.Errorf("nothing to export: import drafts first")
		}
		return err
	}
	fmt.Fprintf(a.out, "✓ Exported %s to %s\n", *kind, path)
	return nil
}

func (a *app) runMCP(ctx context.Context, args []string) error {
	fs := a.flags("mcp")
	if err := fs.Parse(args); err != nil {
		return err
	}

	engine, svc, err := a.openEngine()
	if err != nil {
		return err
	}
	defer svc.Close()

	server := mcpserver.New(engine, mcpserver.Config{
		TargetSeat:           a.cfg.Draft.TargetSeat,
		DoublePickAfterRound: stateOptions("", a.cfg.Draft.DoublePickAfterRound).DoublePickAfterRound,
		PicksCSV:             a.cfg.Draft.PicksCSV,
		PoolCSV:              a.cfg.Draft.PoolCSV,
		Logger:               a.logger,
	})
	return server.Run(ctx)
}

func (a *app) runVersion() error {
	fmt.Fprintf(a.out, "rotisserie %s\n", version.GetVersion())
	return nil
}
