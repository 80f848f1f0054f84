package signal

import (
	"sort"

	"github.com/thrasher-corp/gct-ta/indicators"

	"github.com/msardana94/momentumbot/internal/config"
	"github.com/msardana94/momentumbot/internal/marketdata"
)

// Candidate is one ranked instrument with its momentum score.
type Candidate struct {
	Symbol string
	Score  float64
}

// Snapshot is everything the decision engine needs from market data: the
// regime gate, the momentum ranking over the universe, and per-symbol trend
// status for every symbol that had enough history.
type Snapshot struct {
	MarketSafe bool
	Ranking    []Candidate

	// trend and lastClose cover universe and held symbols alike. A symbol
	// missing from trend did not have window-length history and counts as a
	// data error when held.
	trend     map[string]bool
	lastClose map[string]float64
	topK      map[string]bool
}

// TrendOK reports the trend filter for symbol; ok is false when the symbol
// lacked enough history for the filter to be computed at all.
func (s Snapshot) TrendOK(symbol string) (trending, ok bool) {
	trending, ok = s.trend[symbol]
	return trending, ok
}

// LastClose returns the latest close for symbol, false when no data arrived.
func (s Snapshot) LastClose(symbol string) (float64, bool) {
	v, ok := s.lastClose[symbol]
	return v, ok
}

// InTopK reports top-K ranking membership.
func (s Snapshot) InTopK(symbol string) bool { return s.topK[symbol] }

// Evaluate computes the regime gate, trend filters and momentum ranking.
// universe fixes the ranking tie-break order; held symbols outside the
// universe still get trend status so exits can be evaluated for them. The
// benchmark fails closed: without window-length history the market is unsafe.
func Evaluate(universe []string, held []string, prices map[string]marketdata.Series, bench marketdata.Series, cfg config.Strategy) Snapshot {
	snap := Snapshot{
		trend:     map[string]bool{},
		lastClose: map[string]float64{},
		topK:      map[string]bool{},
	}

	snap.MarketSafe = aboveSMA(bench, cfg.SMAWindow)

	inUniverse := make(map[string]bool, len(universe))
	for _, sym := range universe {
		inUniverse[sym] = true
	}
	symbols := append([]string(nil), universe...)
	for _, sym := range held {
		if !inUniverse[sym] {
			symbols = append(symbols, sym)
		}
	}

	for _, sym := range symbols {
		series, ok := prices[sym]
		if !ok || len(series) == 0 {
			continue
		}
		last, _ := series.LastClose()
		snap.lastClose[sym] = last
		if len(series) >= cfg.SMAWindow {
			snap.trend[sym] = aboveSMA(series, cfg.SMAWindow)
		}
	}

	// ranking covers the universe only, in iteration order for stable ties
	for _, sym := range universe {
		series := prices[sym]
		score, ok := momentum(series, cfg.MomentumSessions)
		if !ok {
			continue
		}
		snap.Ranking = append(snap.Ranking, Candidate{Symbol: sym, Score: score})
	}
	sort.SliceStable(snap.Ranking, func(i, j int) bool {
		return snap.Ranking[i].Score > snap.Ranking[j].Score
	})

	for i, c := range snap.Ranking {
		if i >= cfg.TopK {
			break
		}
		snap.topK[c.Symbol] = true
	}

	return snap
}

// aboveSMA reports whether the latest close sits above the window-length
// trailing SMA. Short series always report false.
func aboveSMA(series marketdata.Series, window int) bool {
	if len(series) < window {
		return false
	}
	closes := series.Closes()
	sma := indicators.SMA(closes, window)
	if len(sma) == 0 {
		return false
	}
	return closes[len(closes)-1] > sma[len(sma)-1]
}

// momentum is the percentage change of close over the trailing sessions
// count. A series shorter than sessions+1 is excluded from ranking.
func momentum(series marketdata.Series, sessions int) (float64, bool) {
	if len(series) < sessions+1 {
		return 0, false
	}
	closes := series.Closes()
	prev := closes[len(closes)-1-sessions]
	if prev == 0 {
		return 0, false
	}
	return (closes[len(closes)-1]/prev - 1) * 100, true
}
