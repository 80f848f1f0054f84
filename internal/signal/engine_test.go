package signal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msardana94/momentumbot/internal/config"
	"github.com/msardana94/momentumbot/internal/marketdata"
)

func series(closes ...float64) marketdata.Series {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make(marketdata.Series, len(closes))
	for i, c := range closes {
		out[i] = marketdata.Candle{Date: start.AddDate(0, 0, i), Close: c}
	}
	return out
}

// rising produces n closes climbing by step; the last close always sits
// above any trailing SMA.
func rising(n int, start, step float64) marketdata.Series {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = start + step*float64(i)
	}
	return series(closes...)
}

// falling is the opposite: the last close sits below every trailing SMA.
func falling(n int, start, step float64) marketdata.Series {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = start - step*float64(i)
	}
	return series(closes...)
}

func testStrategy() config.Strategy {
	return config.Strategy{
		SMAWindow:        5,
		MomentumSessions: 3,
		TopK:             2,
		MaxPositions:     2,
		RebalanceDayMax:  7,
	}
}

func TestEvaluate_MarketSafeFailsClosedOnShortBenchmark(t *testing.T) {
	cfg := config.Strategy{SMAWindow: 200, MomentumSessions: 21, TopK: 15}

	snap := Evaluate(nil, nil, nil, rising(199, 100, 1), cfg)
	assert.False(t, snap.MarketSafe)

	snap = Evaluate(nil, nil, nil, nil, cfg)
	assert.False(t, snap.MarketSafe)

	snap = Evaluate(nil, nil, nil, rising(200, 100, 1), cfg)
	assert.True(t, snap.MarketSafe)
}

func TestEvaluate_MarketUnsafeWhenBelowSMA(t *testing.T) {
	snap := Evaluate(nil, nil, nil, falling(10, 100, 1), testStrategy())
	assert.False(t, snap.MarketSafe)
}

func TestEvaluate_RankingDescendingAndStable(t *testing.T) {
	universe := []string{"AAA", "BBB", "CCC", "DDD"}
	prices := map[string]marketdata.Series{
		"AAA": series(100, 100, 100, 100, 100, 105), // +5%
		"BBB": series(100, 100, 100, 100, 100, 120), // +20%
		"CCC": series(100, 100, 100, 100, 100, 105), // +5%, ties AAA
		"DDD": series(100, 105),                     // too short, excluded
	}

	snap := Evaluate(universe, nil, prices, rising(10, 100, 1), testStrategy())

	require.Len(t, snap.Ranking, 3)
	assert.Equal(t, "BBB", snap.Ranking[0].Symbol)
	// equal scores keep universe order
	assert.Equal(t, "AAA", snap.Ranking[1].Symbol)
	assert.Equal(t, "CCC", snap.Ranking[2].Symbol)
	assert.InDelta(t, 20.0, snap.Ranking[0].Score, 1e-9)
}

func TestEvaluate_TopKMembership(t *testing.T) {
	universe := []string{"AAA", "BBB", "CCC"}
	prices := map[string]marketdata.Series{
		"AAA": series(100, 100, 100, 110),
		"BBB": series(100, 100, 100, 130),
		"CCC": series(100, 100, 100, 120),
	}

	snap := Evaluate(universe, nil, prices, rising(10, 100, 1), testStrategy()) // TopK = 2

	assert.True(t, snap.InTopK("BBB"))
	assert.True(t, snap.InTopK("CCC"))
	assert.False(t, snap.InTopK("AAA"))
}

func TestEvaluate_TrendFilter(t *testing.T) {
	universe := []string{"UP", "DOWN", "SHORT"}
	prices := map[string]marketdata.Series{
		"UP":    rising(10, 100, 1),
		"DOWN":  falling(10, 100, 1),
		"SHORT": series(100, 101), // below the SMA window
	}

	snap := Evaluate(universe, nil, prices, rising(10, 100, 1), testStrategy())

	trending, known := snap.TrendOK("UP")
	assert.True(t, known)
	assert.True(t, trending)

	trending, known = snap.TrendOK("DOWN")
	assert.True(t, known)
	assert.False(t, trending)

	_, known = snap.TrendOK("SHORT")
	assert.False(t, known)

	_, known = snap.TrendOK("MISSING")
	assert.False(t, known)
}

func TestEvaluate_HeldSymbolOutsideUniverse(t *testing.T) {
	prices := map[string]marketdata.Series{
		"HELD": rising(10, 50, 1),
	}

	snap := Evaluate([]string{"AAA"}, []string{"HELD"}, prices, rising(10, 100, 1), testStrategy())

	_, known := snap.TrendOK("HELD")
	assert.True(t, known)
	last, ok := snap.LastClose("HELD")
	assert.True(t, ok)
	assert.Equal(t, 59.0, last)
	// held symbols never enter the ranking
	assert.Empty(t, snap.Ranking)
}
