// Package charts renders card analytics as interactive HTML charts.
package charts

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/ramonehamilton/rotisserie-companion/internal/draft/analytics"
)

// ChartConfig holds configuration for charts.
type ChartConfig struct {
	Width  string // e.g. "900px"
	Height string
	Theme  string
	Smooth bool // line charts only
	Colors []string
}

// DefaultChartConfig returns default chart configuration.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Width:  "900px",
		Height: "500px",
		Theme:  "light",
		Smooth: false,
		Colors: []string{"#5470C6", "#91CC75", "#FAC858", "#EE6666", "#73C0DE"},
	}
}

func (c ChartConfig) globalOptions(title, subtitle, xName, yName string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			Width:  c.Width,
			Height: c.Height,
			Theme:  c.Theme,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: subtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(true),
		}),
		charts.WithColorsOpts(opts.Colors(c.Colors)),
		charts.WithXAxisOpts(opts.XAxis{Name: xName}),
		charts.WithYAxisOpts(opts.YAxis{Name: yName}),
	}
}

// RenderScoreHistory draws a card's aggregated pick position and round per
// draft date.
func RenderScoreHistory(stat analytics.CardStats, config ChartConfig, w io.Writer) error {
	if len(stat.ScoreHistory) == 0 {
		return fmt.Errorf("no score history for %s", stat.Name)
	}

	line := charts.NewLine()
	line.SetGlobalOptions(config.globalOptions(
		stat.Name,
		fmt.Sprintf("score %.1f over %d drafts", stat.Score, stat.TimesAvailable),
		"date", "pick",
	)...)

	dates := make([]string, len(stat.ScoreHistory))
	positions := make([]opts.LineData, len(stat.ScoreHistory))
	rounds := make([]opts.LineData, len(stat.ScoreHistory))
	for i, entry := range stat.ScoreHistory {
		dates[i] = entry.Date
		if dates[i] == "" {
			dates[i] = "undated"
		}
		positions[i] = opts.LineData{Value: entry.Position, Name: entry.DraftID}
		rounds[i] = opts.LineData{Value: entry.Round}
	}

	line.SetXAxis(dates).
		AddSeries("Pick position", positions).
		AddSeries("Round", rounds).
		SetSeriesOptions(
			charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(config.Smooth)}),
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(false)}),
		)

	if err := line.Render(w); err != nil {
		return fmt.Errorf("render score history: %w", err)
	}
	return nil
}

// BucketLabels names the pick-distribution buckets, e.g. "1-30" ... "421+".
func BucketLabels() []string {
	labels := make([]string, analytics.HistogramBuckets)
	for i := range labels {
		lo := i*analytics.HistogramBucketSize + 1
		if i == analytics.HistogramBuckets-1 {
			labels[i] = fmt.Sprintf("%d+", lo)
			continue
		}
		labels[i] = fmt.Sprintf("%d-%d", lo, lo+analytics.HistogramBucketSize-1)
	}
	return labels
}

// RenderPickDistribution draws a card's pick-position histogram.
func RenderPickDistribution(stat analytics.CardStats, config ChartConfig, w io.Writer) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(config.globalOptions(
		stat.Name,
		fmt.Sprintf("%d picked, %d unpicked", stat.TotalPicks, stat.TimesUnpicked),
		"pick", "copies",
	)...)

	counts := make([]opts.BarData, len(stat.PickDistribution))
	for i, n := range stat.PickDistribution {
		counts[i] = opts.BarData{Value: n}
	}

	bar.SetXAxis(BucketLabels()).
		AddSeries("Copies", counts).
		SetSeriesOptions(charts.WithLabelOpts(opts.Label{Show: opts.Bool(false)}))

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("render pick distribution: %w", err)
	}
	return nil
}

// RenderTopCards draws the scores of the first limit ranked cards.
func RenderTopCards(ranked []analytics.CardStats, limit int, config ChartConfig, w io.Writer) error {
	if limit > 0 && limit < len(ranked) {
		ranked = ranked[:limit]
	}
	if len(ranked) == 0 {
		return fmt.Errorf("no ranked cards")
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(config.globalOptions("Card rankings", "lower score means picked earlier", "card", "score")...)

	names := make([]string, len(ranked))
	scores := make([]opts.BarData, len(ranked))
	for i, cs := range ranked {
		names[i] = cs.Name
		scores[i] = opts.BarData{Value: cs.Score}
	}

	bar.SetXAxis(names).
		AddSeries("Score", scores).
		SetSeriesOptions(charts.WithLabelOpts(opts.Label{Show: opts.Bool(false)}))

	if err := bar.Render(w); err != nil {
		return fmt.Errorf("render rankings: %w", err)
	}
	return nil
}

// RenderToFile creates outputPath and passes it to render.
func RenderToFile(outputPath string, render func(io.Writer) error) (err error) {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("create chart directory: %w", err)
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("create chart file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return render(f)
}

// OpenInBrowser opens the given file path in the default web browser.
func OpenInBrowser(filePath string) error {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("get absolute path: %w", err)
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", absPath)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", absPath)
	case "linux":
		cmd = exec.Command("xdg-open", absPath)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}
