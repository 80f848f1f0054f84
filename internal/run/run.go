package run

import (
	"context"
	"time"

	"github.com/msardana94/momentumbot/internal/command"
	"github.com/msardana94/momentumbot/internal/config"
	"github.com/msardana94/momentumbot/internal/decide"
	"github.com/msardana94/momentumbot/internal/marketdata"
	"github.com/msardana94/momentumbot/internal/observ"
	"github.com/msardana94/momentumbot/internal/portfolio"
	"github.com/msardana94/momentumbot/internal/signal"
	"github.com/msardana94/momentumbot/internal/statestore"
)

// Exit codes form the run's status contract for the external scheduler.
// Degradations never stop the report; the most severe code observed wins.
const (
	ExitOK             = 0
	ExitPriceSource    = 2
	ExitCommandChannel = 3
	ExitStateStore     = 4
)

// Channel is the command channel: ordered inbound updates, outbound text.
type Channel interface {
	GetUpdates(ctx context.Context, offset int64) ([]command.Update, error)
	SendMessage(ctx context.Context, text string) error
}

// DataSource is the price/universe collaborator.
type DataSource interface {
	History(ctx context.Context, symbols []string, lookbackDays int) (map[string]marketdata.Series, error)
	FetchBenchmark(ctx context.Context, lookbackDays int) (marketdata.Series, error)
	Universe(ctx context.Context) []string
}

// Publisher mirrors saved state to a remote log, best-effort.
type Publisher interface {
	Publish(ctx context.Context, runID string, p portfolio.Portfolio) error
}

// Journal records run outcomes, best-effort.
type Journal interface {
	Append(runID string, res decide.Result, report string) error
}

// Runner wires one batch invocation: sync commands, persist, analyze, report.
type Runner struct {
	Cfg       config.Root
	Store     statestore.Store
	Channel   Channel
	Data      DataSource
	Journal   Journal
	Publisher Publisher // optional
	RunID     string
	Now       func() time.Time // defaults to time.Now
}

func (r *Runner) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// Run executes one full pass and returns the exit code. The final report is
// the one required side effect; every failure before it degrades and
// continues.
func (r *Runner) Run(ctx context.Context) int {
	exit := ExitOK
	worst := func(code int) {
		if code > exit {
			exit = code
		}
	}

	p, err := r.Store.Load(ctx)
	if err != nil {
		// Load falls back to the first-run default record; surface the
		// failure but keep going.
		observ.IncCounter("state_load_failures_total", nil)
		observ.Log("state_load_failed", map[string]any{"err": err.Error()})
		worst(ExitStateStore)
	}

	p = r.syncCommands(ctx, p, worst)

	res, report := r.analyze(ctx, p, worst)

	if r.Journal != nil {
		if err := r.Journal.Append(r.RunID, res, report); err != nil {
			observ.Log("journal_append_failed", map[string]any{"err": err.Error()})
		}
	}

	if err := r.Channel.SendMessage(ctx, report); err != nil {
		observ.IncCounter("report_send_failures_total", nil)
		observ.Log("report_send_failed", map[string]any{"err": err.Error()})
		worst(ExitCommandChannel)
	}

	observ.Log("run_complete", map[string]any{
		"exit":        exit,
		"market_safe": res.MarketSafe,
		"rebalance":   res.Rebalance,
		"holdings":    len(p.Holdings),
		"buy_signals": len(res.Buys),
		"counters":    observ.Snapshot(),
	})
	return exit
}

// syncCommands runs the mutation phase. A channel fetch failure abandons the
// whole phase: unchanged portfolio, no cursor movement, nothing persisted.
func (r *Runner) syncCommands(ctx context.Context, p portfolio.Portfolio, worst func(int)) portfolio.Portfolio {
	updates, err := r.Channel.GetUpdates(ctx, p.Cursor+1)
	if err != nil {
		observ.IncCounter("command_fetch_failures_total", nil)
		observ.Log("command_fetch_failed", map[string]any{"err": err.Error()})
		worst(ExitCommandChannel)
		return p
	}

	next, changed := command.Process(ctx, p, updates, r.Channel, command.Options{
		MergeLots: r.Cfg.Commands.MergeLots,
	})
	if !changed {
		return next
	}

	if err := r.Store.Save(ctx, next); err != nil {
		// report still goes out from the in-memory state
		observ.IncCounter("state_save_failures_total", nil)
		observ.Log("state_save_failed", map[string]any{"err": err.Error()})
		worst(ExitStateStore)
	} else if r.Publisher != nil {
		if err := r.Publisher.Publish(ctx, r.RunID, next); err != nil {
			observ.IncCounter("state_publish_failures_total", nil)
			observ.Log("state_publish_failed", map[string]any{"err": err.Error()})
		}
	}
	return next
}

// analyze runs the read-only phase: universe, prices, regime, decisions.
func (r *Runner) analyze(ctx context.Context, p portfolio.Portfolio, worst func(int)) (decide.Result, string) {
	universe := r.Data.Universe(ctx)
	held := p.Symbols()

	// held symbols ride along even when the index listing dropped them
	symbols := append([]string(nil), universe...)
	seen := make(map[string]bool, len(universe))
	for _, s := range universe {
		seen[s] = true
	}
	for _, s := range held {
		if !seen[s] {
			symbols = append(symbols, s)
		}
	}

	prices, err := r.Data.History(ctx, symbols, r.Cfg.MarketData.LookbackDays)
	if err != nil {
		observ.Log("history_fetch_degraded", map[string]any{"err": err.Error()})
		worst(ExitPriceSource)
	}

	bench, err := r.Data.FetchBenchmark(ctx, r.Cfg.MarketData.LookbackDays)
	if err != nil {
		// fail closed: no benchmark means unsafe regime
		observ.IncCounter("benchmark_fetch_failures_total", nil)
		observ.Log("benchmark_fetch_failed", map[string]any{"err": err.Error()})
		worst(ExitPriceSource)
		bench = nil
	}

	snap := signal.Evaluate(universe, held, prices, bench, r.Cfg.Strategy)
	res := decide.Decide(p, snap, r.now(), r.Cfg.Strategy)
	return res, decide.BuildReport(res, r.now())
}
