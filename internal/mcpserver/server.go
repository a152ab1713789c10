// Package mcpserver exposes the draft queries as MCP tools over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ramonehamilton/rotisserie-companion/internal/draft"
	"github.com/ramonehamilton/rotisserie-companion/internal/export"
	"github.com/ramonehamilton/rotisserie-companion/internal/query"
	"github.com/ramonehamilton/rotisserie-companion/internal/version"
)

// Name is the implementation name reported to clients.
const Name = "rotisserie-companion"

const (
	defaultLimit = 25
	maxLimit     = 500
)

// Config holds defaults for tool arguments the caller leaves out.
type Config struct {
	TargetSeat string
	// DoublePickAfterRound of zero selects draft.DefaultDoublePickAfterRound;
	// negative disables double picks.
	DoublePickAfterRound int
	PicksCSV             string
	PoolCSV              string
	Logger               *slog.Logger // defaults to slog.Default()
}

// Server routes tool calls to the query engine.
type Server struct {
	engine *query.Engine
	config Config
	logger *slog.Logger
	tools  []ToolInfo
}

// ToolInfo describes a registered tool.
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// New creates a tool server backed by engine.
func New(engine *query.Engine, config Config) *Server {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{engine: engine, config: config, logger: logger}
}

// CardRankingsArgs are the inputs of card_rankings.
type CardRankingsArgs struct {
	Limit int    `json:"limit,omitempty" jsonschema:"Maximum cards to return (default 25)"`
	Color string `json:"color,omitempty" jsonschema:"Color identity filter such as U, WR or C for colorless"`
}

// CardStatsArgs names the card to look up in card_stats.
type CardStatsArgs struct {
	Name string `json:"name" jsonschema:"Card name (required)"`
}

// WinEquityArgs are the inputs of win_equity.
type WinEquityArgs struct {
	Limit int  `json:"limit,omitempty" jsonschema:"Maximum cards to return (default 25)"`
	Raw   bool `json:"raw,omitempty" jsonschema:"Split results evenly instead of by play probability"`
}

// DraftStateArgs override the configured pick log paths and seat for draft_state.
type DraftStateArgs struct {
	PicksCSV             string `json:"picks_csv,omitempty" jsonschema:"Path to the pick grid CSV (default from config)"`
	PoolCSV              string `json:"pool_csv,omitempty" jsonschema:"Path to the pool listing CSV (default from config)"`
	TargetSeat           string `json:"target_seat,omitempty" jsonschema:"Seat to report on (default from config)"`
	DoublePickAfterRound int    `json:"double_pick_after_round,omitempty" jsonschema:"Round after which seats pick twice (default 25)"`
}

// TurnOrderArgs are the inputs of turn_order. Zero values fall back to the defaults.
type TurnOrderArgs struct {
	Pick                 int `json:"pick" jsonschema:"Absolute pick number, 1-indexed (required)"`
	Drafters             int `json:"drafters,omitempty" jsonschema:"Number of seats (default 10)"`
	DoublePickAfterRound int `json:"double_pick_after_round,omitempty" jsonschema:"Round after which seats pick twice (default 25, negative disables)"`
}

// MetricsArgs is empty; analysis_metrics takes no input.
type MetricsArgs struct{}

// TurnOrderResult answers a turn_order call.
type TurnOrderResult struct {
	Pick       int  `json:"pick"`
	Drafters   int  `json:"drafters"`
	Seat       int  `json:"seat"`
	Round      int  `json:"round"`
	DoublePick bool `json:"double_pick"`
}

// MCP builds the protocol server with every tool registered.
func (s *Server) MCP() *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: Name, Version: version.GetVersion()}, nil)
	s.tools = s.tools[:0]

	addTool(s, server, &mcp.Tool{
		Name:        "card_rankings",
		Description: "Cards ranked by weighted average pick position across all stored drafts",
	}, s.cardRankings)
	addTool(s, server, &mcp.Tool{
		Name:        "card_stats",
		Description: "Full statistics for one card: score, counts, per-date history and pick histogram",
	}, s.cardStats)
	addTool(s, server, &mcp.Tool{
		Name:        "win_equity",
		Description: "Cards ranked by the share of their drafters' match wins attributed to them",
	}, s.winEquity)
	addTool(s, server, &mcp.Tool{
		Name:        "draft_state",
		Description: "Live state of an in-progress draft: who is picking, picks until your turn, cards left",
	}, s.draftState)
	addTool(s, server, &mcp.Tool{
		Name:        "turn_order",
		Description: "Seat on the clock for an absolute pick number",
	}, s.turnOrder)
	addTool(s, server, &mcp.Tool{
		Name:        "analysis_metrics",
		Description: "Parse and query latency and counters for this process",
	}, s.analysisMetrics)

	return server
}

// Tools lists the tools registered by the last MCP call.
func (s *Server) Tools() []ToolInfo {
	return s.tools
}

// Run serves tools over stdin/stdout until ctx is cancelled or the client
// disconnects.
func (s *Server) Run(ctx context.Context) error {
	server := s.MCP()
	s.logger.Info("mcp server starting", "tools", len(s.tools), "version", version.GetVersion())
	return server.Run(ctx, &mcp.StdioTransport{})
}

func addTool[T any](s *Server, server *mcp.Server, tool *mcp.Tool, handler func(context.Context, *mcp.CallToolRequest, T) (*mcp.CallToolResult, any, error)) {
	s.tools = append(s.tools, ToolInfo{Name: tool.Name, Description: tool.Description})
	name := tool.Name
	mcp.AddTool(server, tool, func(ctx context.Context, req *mcp.CallToolRequest, args T) (*mcp.CallToolResult, any, error) {
		start := time.Now()
		res, out, err := handler(ctx, req, args)
		s.logger.Debug("tool call", "tool", name, "duration", time.Since(start), "error", res != nil && res.IsError)
		return res, out, err
	})
}

func (s *Server) cardRankings(ctx context.Context, _ *mcp.CallToolRequest, args CardRankingsArgs) (*mcp.CallToolResult, any, error) {
	ranked, err := s.engine.Rankings(ctx, query.RankingOptions{Color: args.Color, Limit: clampLimit(args.Limit)})
	if err != nil {
		return toolError(err), nil, nil
	}
	return toolJSON(export.RankingRows(ranked))
}

func (s *Server) cardStats(ctx context.Context, _ *mcp.CallToolRequest, args CardStatsArgs) (*mcp.CallToolResult, any, error) {
	if args.Name == "" {
		return toolError(errors.New("name is required")), nil, nil
	}
	stat, err := s.engine.Card(ctx, args.Name)
	if err != nil {
		return toolError(err), nil, nil
	}
	return toolJSON(stat)
}

func (s *Server) winEquity(ctx context.Context, _ *mcp.CallToolRequest, args WinEquityArgs) (*mcp.CallToolResult, any, error) {
	ranked, err := s.engine.RankedEquity(ctx, args.Raw, clampLimit(args.Limit))
	if err != nil {
		return toolError(err), nil, nil
	}
	return toolJSON(ranked)
}

func (s *Server) draftState(_ context.Context, _ *mcp.CallToolRequest, args DraftStateArgs) (*mcp.CallToolResult, any, error) {
	picks := firstNonEmpty(args.PicksCSV, s.config.PicksCSV)
	if picks == "" {
		return toolError(errors.New("picks_csv is required when no default is configured")), nil, nil
	}
	pool := firstNonEmpty(args.PoolCSV, s.config.PoolCSV)
	opts := draft.StateOptions{
		TargetSeat:           firstNonEmpty(args.TargetSeat, s.config.TargetSeat),
		DoublePickAfterRound: args.DoublePickAfterRound,
	}
	if opts.DoublePickAfterRound == 0 {
		opts.DoublePickAfterRound = s.config.DoublePickAfterRound
	}

	start := time.Now()
	log, err := draft.ReadPickLogFiles(picks, pool)
	var state *draft.DraftState
	if err == nil {
		state, err = draft.ParseDraftState(log, opts)
	}
	if m := s.engine.Metrics(); m != nil {
		records := 0
		if state != nil {
			records = state.PicksMade + len(state.Available)
		}
		m.RecordParse(time.Since(start), records, err)
	}
	if err != nil {
		return toolError(err), nil, nil
	}
	return toolJSON(state)
}

func (s *Server) turnOrder(_ context.Context, _ *mcp.CallToolRequest, args TurnOrderArgs) (*mcp.CallToolResult, any, error) {
	if args.Pick < 1 {
		return toolError(fmt.Errorf("pick must be at least 1, got %d", args.Pick)), nil, nil
	}
	n := args.Drafters
	if n == 0 {
		n = draft.DefaultNumDrafters
	}
	if n < 0 {
		return toolError(fmt.Errorf("drafters must be positive, got %d", n)), nil, nil
	}
	after := args.DoublePickAfterRound
	if after == 0 {
		after = draft.DefaultDoublePickAfterRound
	}

	return toolJSON(TurnOrderResult{
		Pick:       args.Pick,
		Drafters:   n,
		Seat:       draft.DrafterForPick(args.Pick, n, after),
		Round:      draft.RoundForPick(args.Pick, n, after),
		DoublePick: after > 0 && args.Pick > after*n,
	})
}

func (s *Server) analysisMetrics(_ context.Context, _ *mcp.CallToolRequest, _ MetricsArgs) (*mcp.CallToolResult, any, error) {
	m := s.engine.Metrics()
	if m == nil {
		return toolError(errors.New("metrics are not enabled")), nil, nil
	}
	return toolJSON(m.GetStats())
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultLimit
	case limit > maxLimit:
		return maxLimit
	}
	return limit
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func toolJSON(v any) (*mcp.CallToolResult, any, error) {
	res, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return toolError(err), nil, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(res)},
		},
	}, nil, nil
}

func toolError(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("error: %v", err)},
		},
	}
}
