package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/ramonehamilton/rotisserie-companion/internal/charts"
	"github.com/ramonehamilton/rotisserie-companion/internal/draft"
	"github.com/ramonehamilton/rotisserie-companion/internal/draft/analytics"
	"github.com/ramonehamilton/rotisserie-companion/internal/storage/models"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// displayDrafts lists imported drafts, newest first.
func displayDrafts(w io.Writer, drafts []*models.Draft) {
	if len(drafts) == 0 {
		fmt.Fprintln(w, "No drafts imported yet.")
		return
	}

	fmt.Fprintln(w, "Drafts")
	fmt.Fprintln(w, "======")
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tDate\tName\tSeats\tPicks")
	for _, d := range drafts {
		seats := len(d.Seats)
		if d.NumDrafters != nil {
			seats = *d.NumDrafters
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\n", d.ID, orDash(d.Date), orDash(d.Name), seats, d.PickCount)
	}
	tw.Flush()
}

// displayRankings prints ranked card stats.
func displayRankings(w io.Writer, ranked []analytics.CardStats) {
	if len(ranked) == 0 {
		fmt.Fprintln(w, "No cards found.")
		return
	}

	fmt.Fprintln(w, "Card Rankings")
	fmt.Fprintln(w, "=============")
	tw := newTable(w)
	fmt.Fprintln(tw, "#\tCard\tScore\tPicked\tSeen\tDrafts\tColors")
	for i, cs := range ranked {
		fmt.Fprintf(tw, "%d\t%s\t%.1f\t%d\t%d\t%d\t%s\n",
			i+1, cs.Name, cs.Score, cs.TotalPicks, cs.TimesAvailable, cs.DraftsPickedIn, orDash(strings.Join(cs.Colors, "")))
	}
	tw.Flush()
}

// displayCardStats prints everything known about one card.
func displayCardStats(w io.Writer, cs analytics.CardStats) {
	fmt.Fprintln(w, cs.Name)
	fmt.Fprintln(w, strings.Repeat("=", len(cs.Name)))
	fmt.Fprintf(w, "Score:            %.2f\n", cs.Score)
	fmt.Fprintf(w, "Picked:           %d of %d copies seen\n", cs.TotalPicks, cs.TimesAvailable)
	fmt.Fprintf(w, "Drafts picked in: %d\n", cs.DraftsPickedIn)
	fmt.Fprintf(w, "Went unpicked:    %d\n", cs.TimesUnpicked)
	fmt.Fprintf(w, "Most copies:      %d\n", cs.MaxCopiesInDraft)
	fmt.Fprintf(w, "Colors:           %s\n", orDash(strings.Join(cs.Colors, ", ")))

	if len(cs.ScoreHistory) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "History:")
		tw := newTable(w)
		fmt.Fprintln(tw, "  Date\tPosition\tRound\tPicked In")
		for _, e := range cs.ScoreHistory {
			pickedIn := "-"
			if e.DraftCount > 1 {
				pickedIn = fmt.Sprintf("%d/%d", e.PickedIn, e.DraftCount)
			}
			fmt.Fprintf(tw, "  %s\t%d\t%d\t%s\n", orDash(e.Date), e.Position, e.Round, pickedIn)
		}
		tw.Flush()
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Pick distribution:")
	tw := newTable(w)
	for i, label := range charts.BucketLabels() {
		if n := cs.PickDistribution[i]; n > 0 {
			fmt.Fprintf(tw, "  %s\t%s %d\n", label, strings.Repeat("█", n), n)
		}
	}
	tw.Flush()
}

// displayEquity prints ranked win equity.
func displayEquity(w io.Writer, ranked []analytics.EquityEntry, raw bool) {
	if len(ranked) == 0 {
		fmt.Fprintln(w, "No match results recorded yet.")
		return
	}

	title := "Win Equity (weighted by play probability)"
	if raw {
		title = "Win Equity (raw)"
	}
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("=", len(title)))
	tw := newTable(w)
	fmt.Fprintln(tw, "#\tCard\tWins\tLosses\tWin Rate")
	for i, e := range ranked {
		fmt.Fprintf(tw, "%d\t%s\t%.2f\t%.2f\t%.1f%%\n", i+1, e.Name, e.Wins, e.Losses, e.WinRate*100)
	}
	tw.Flush()
}

// displayState prints the live state of a draft.
func displayState(w io.Writer, s *draft.DraftState) {
	switch {
	case s.Complete:
		fmt.Fprintf(w, "Draft complete after %d picks.\n", s.PicksMade)
	case s.IsUserTurn:
		fmt.Fprintf(w, "▶ Your turn, %s! Pick %d.\n", s.UserName, s.CurrentPick)
	case s.PicksUntilTurn > 0:
		fmt.Fprintf(w, "Pick %d: %s is picking. %d pick(s) until your turn.\n", s.CurrentPick, s.CurrentSeatName, s.PicksUntilTurn)
	default:
		fmt.Fprintf(w, "Pick %d: %s is picking.\n", s.CurrentPick, s.CurrentSeatName)
	}
	fmt.Fprintf(w, "Picks made: %d, cards left: %d of %d\n", s.PicksMade, len(s.Available), s.PoolSize)

	if len(s.UserPicks) > 0 {
		fmt.Fprintf(w, "Your picks (%d): %s\n", len(s.UserPicks), strings.Join(s.UserPicks, ", "))
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
