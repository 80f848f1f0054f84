package decide

import (
	"time"

	"github.com/msardana94/momentumbot/internal/config"
	"github.com/msardana94/momentumbot/internal/observ"
	"github.com/msardana94/momentumbot/internal/portfolio"
	"github.com/msardana94/momentumbot/internal/signal"
)

type Action string

const (
	ActionHold      Action = "HOLD"
	ActionSell      Action = "SELL"
	ActionDataError Action = "DATA_ERROR"
)

// Closed reason set. Report lines and tests match on these exact strings.
const (
	ReasonMarketUnsafe = "market regime unsafe"
	ReasonTrendBroken  = "trend broken"
	ReasonRankDropped  = "rank dropped out of top-K"
	ReasonDataError    = "data error"
)

// Decision is the verdict for one held lot. Advisory only: nothing here
// mutates the portfolio.
type Decision struct {
	Symbol   string  `json:"symbol"`
	Action   Action  `json:"action"`
	Reason   string  `json:"reason,omitempty"`
	Price    float64 `json:"price,omitempty"`
	HasPrice bool    `json:"has_price"`
}

// Recommendation is an advisory entry candidate with its momentum score.
type Recommendation struct {
	Symbol string  `json:"symbol"`
	Score  float64 `json:"score"`
}

type Result struct {
	MarketSafe bool
	Rebalance  bool
	Decisions  []Decision
	Buys       []Recommendation
}

// Decide applies the exit rules to every held lot and selects entry
// candidates when capacity allows.
//
// Exit priority per lot, first match wins:
//  1. market unsafe        -> SELL (overrides everything, data included)
//  2. trend unknown        -> data error line, no action implied
//  3. trend broken         -> SELL
//  4. rebalance window and ranked out of top-K -> SELL
//  5. hold
//
// Rules 1-3 run every day; rule 4 only inside the rebalance window
// (day-of-month <= cfg.RebalanceDayMax).
func Decide(p portfolio.Portfolio, snap signal.Snapshot, now time.Time, cfg config.Strategy) Result {
	res := Result{
		MarketSafe: snap.MarketSafe,
		Rebalance:  now.Day() <= cfg.RebalanceDayMax,
	}

	for _, lot := range p.Holdings {
		d := Decision{Symbol: lot.Symbol}
		d.Price, d.HasPrice = snap.LastClose(lot.Symbol)

		trending, known := snap.TrendOK(lot.Symbol)
		switch {
		case !snap.MarketSafe:
			d.Action, d.Reason = ActionSell, ReasonMarketUnsafe
		case !known:
			d.Action, d.Reason = ActionDataError, ReasonDataError
		case !trending:
			d.Action, d.Reason = ActionSell, ReasonTrendBroken
		case res.Rebalance && !snap.InTopK(lot.Symbol):
			d.Action, d.Reason = ActionSell, ReasonRankDropped
		default:
			d.Action = ActionHold
		}

		if d.Action == ActionSell {
			observ.IncCounter("sell_decisions_total", map[string]string{"reason": d.Reason})
		}
		res.Decisions = append(res.Decisions, d)
	}

	// entries only when the regime gate is open and capacity remains; the
	// buy-side trend check always applies, rebalance window or not
	capacity := cfg.MaxPositions - len(p.Holdings)
	if snap.MarketSafe && capacity > 0 {
		for _, c := range snap.Ranking {
			if len(res.Buys) >= capacity {
				break
			}
			if p.Holds(c.Symbol) {
				continue
			}
			if trending, known := snap.TrendOK(c.Symbol); !known || !trending {
				continue
			}
			res.Buys = append(res.Buys, Recommendation{Symbol: c.Symbol, Score: c.Score})
			observ.IncCounter("buy_signals_total", nil)
		}
	}

	return res
}
