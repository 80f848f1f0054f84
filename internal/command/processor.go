package command

import (
	"context"
	"fmt"

	"github.com/msardana94/momentumbot/internal/observ"
	"github.com/msardana94/momentumbot/internal/portfolio"
)

// Update is one inbound message tagged with its channel sequence number.
type Update struct {
	Seq  int64
	Text string
}

// Notifier delivers outbound confirmations. Delivery is best-effort: a send
// failure is logged and counted but never aborts the batch.
type Notifier interface {
	SendMessage(ctx context.Context, text string) error
}

type Options struct {
	// MergeLots folds a repeated BUY for a held symbol into the existing lot
	// instead of appending a second one.
	MergeLots bool
}

// Process applies eligible updates to the portfolio and returns the new state
// plus whether any mutation was applied. Updates with Seq <= p.Cursor are
// ignored without side effect, so replays are no-ops. The cursor advances to
// the highest sequence seen regardless of whether the text parsed - it tracks
// message position, not successful mutation.
func Process(ctx context.Context, p portfolio.Portfolio, updates []Update, notify Notifier, opts Options) (portfolio.Portfolio, bool) {
	changed := false
	for _, u := range updates {
		if u.Seq <= p.Cursor {
			observ.IncCounter("commands_replayed_total", nil)
			continue
		}
		p = p.WithCursor(u.Seq)

		cmd, ok := Parse(u.Text)
		if !ok {
			observ.IncCounter("commands_ignored_total", nil)
			continue
		}

		var note string
		switch cmd.Verb {
		case VerbBuy:
			p = p.WithPosition(cmd.Symbol, cmd.Shares, opts.MergeLots)
			note = fmt.Sprintf("✅ *System Updated:* Added %d shares of %s.", cmd.Shares, cmd.Symbol)
		case VerbSell:
			var removed bool
			p, removed = p.WithoutSymbol(cmd.Symbol)
			if !removed {
				observ.IncCounter("commands_sell_miss_total", nil)
				continue
			}
			note = fmt.Sprintf("✅ *System Updated:* Removed %s from holdings.", cmd.Symbol)
		case VerbReset:
			p = p.Cleared()
			note = "⚠️ *System Reset:* All holdings cleared."
		}

		changed = true
		observ.IncCounter("commands_applied_total", map[string]string{"verb": string(cmd.Verb)})
		if err := notify.SendMessage(ctx, note); err != nil {
			observ.IncCounter("notify_failures_total", nil)
			observ.Log("notify_failed", map[string]any{"seq": u.Seq, "err": err.Error()})
		}
	}
	return p, changed
}
