package decide

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msardana94/momentumbot/internal/config"
	"github.com/msardana94/momentumbot/internal/marketdata"
	"github.com/msardana94/momentumbot/internal/portfolio"
	"github.com/msardana94/momentumbot/internal/signal"
)

var (
	rebalanceDay = time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)  // day 3 <= 7
	quietDay     = time.Date(2024, 6, 20, 9, 0, 0, 0, time.UTC) // past the window
)

func testStrategy() config.Strategy {
	return config.Strategy{
		SMAWindow:        5,
		MomentumSessions: 3,
		TopK:             2,
		MaxPositions:     2,
		RebalanceDayMax:  7,
	}
}

func trendSeries(n int, start, step float64) marketdata.Series {
	out := make(marketdata.Series, n)
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range out {
		out[i] = marketdata.Candle{Date: day.AddDate(0, 0, i), Close: start + step*float64(i)}
	}
	return out
}

// snapshot builds a signal snapshot through the real engine.
func snapshot(t *testing.T, universe, held []string, prices map[string]marketdata.Series, bench marketdata.Series) signal.Snapshot {
	t.Helper()
	return signal.Evaluate(universe, held, prices, bench, testStrategy())
}

func TestDecide_MarketUnsafeOverridesEverything(t *testing.T) {
	p := portfolio.New(25000).
		WithPosition("XXX", 10, false). // no data at all
		WithPosition("UP", 5, false)    // healthy trend
	prices := map[string]marketdata.Series{"UP": trendSeries(10, 100, 1)}
	snap := snapshot(t, nil, p.Symbols(), prices, trendSeries(10, 100, -1)) // falling benchmark

	res := Decide(p, snap, rebalanceDay, testStrategy())

	require.Len(t, res.Decisions, 2)
	for _, d := range res.Decisions {
		assert.Equal(t, ActionSell, d.Action)
		assert.Equal(t, ReasonMarketUnsafe, d.Reason)
	}
	assert.Empty(t, res.Buys, "no entries in an unsafe market")
}

func TestDecide_DataErrorBeforeTrend(t *testing.T) {
	p := portfolio.New(25000).WithPosition("GONE", 10, false)
	snap := snapshot(t, nil, p.Symbols(), nil, trendSeries(10, 100, 1))

	res := Decide(p, snap, quietDay, testStrategy())

	require.Len(t, res.Decisions, 1)
	assert.Equal(t, ActionDataError, res.Decisions[0].Action)
	assert.Equal(t, ReasonDataError, res.Decisions[0].Reason)
}

func TestDecide_TrendBrokenSellsEveryDay(t *testing.T) {
	p := portfolio.New(25000).WithPosition("DOWN", 10, false)
	prices := map[string]marketdata.Series{"DOWN": trendSeries(10, 100, -1)}
	snap := snapshot(t, nil, p.Symbols(), prices, trendSeries(10, 100, 1))

	for _, day := range []time.Time{rebalanceDay, quietDay} {
		res := Decide(p, snap, day, testStrategy())
		require.Len(t, res.Decisions, 1)
		assert.Equal(t, ActionSell, res.Decisions[0].Action)
		assert.Equal(t, ReasonTrendBroken, res.Decisions[0].Reason)
	}
}

func TestDecide_RankExitOnlyInRebalanceWindow(t *testing.T) {
	// HELD trends fine but ranks third of three with TopK=2
	universe := []string{"AAA", "BBB", "HELD"}
	prices := map[string]marketdata.Series{
		"AAA":  trendSeries(10, 100, 3),
		"BBB":  trendSeries(10, 100, 2),
		"HELD": trendSeries(10, 100, 1),
	}
	p := portfolio.New(25000).WithPosition("HELD", 10, false)
	snap := snapshot(t, universe, p.Symbols(), prices, trendSeries(10, 100, 1))
	require.False(t, snap.InTopK("HELD"))

	res := Decide(p, snap, rebalanceDay, testStrategy())
	require.Len(t, res.Decisions, 1)
	assert.Equal(t, ActionSell, res.Decisions[0].Action)
	assert.Equal(t, ReasonRankDropped, res.Decisions[0].Reason)

	// outside the window the same position holds
	res = Decide(p, snap, quietDay, testStrategy())
	require.Len(t, res.Decisions, 1)
	assert.Equal(t, ActionHold, res.Decisions[0].Action)
}

func TestDecide_BuySelection(t *testing.T) {
	universe := []string{"AAA", "BBB", "CCC", "DOWN"}
	prices := map[string]marketdata.Series{
		"AAA":  trendSeries(10, 100, 4),
		"BBB":  trendSeries(10, 100, 3),
		"CCC":  trendSeries(10, 100, 2),
		"DOWN": trendSeries(10, 100, -1),
	}

	t.Run("empty portfolio takes top two trending", func(t *testing.T) {
		p := portfolio.New(25000)
		snap := snapshot(t, universe, nil, prices, trendSeries(10, 100, 1))
		res := Decide(p, snap, quietDay, testStrategy())

		require.Len(t, res.Buys, 2)
		assert.Equal(t, "AAA", res.Buys[0].Symbol)
		assert.Equal(t, "BBB", res.Buys[1].Symbol)
	})

	t.Run("held symbols are skipped", func(t *testing.T) {
		p := portfolio.New(25000).WithPosition("AAA", 1, false)
		snap := snapshot(t, universe, p.Symbols(), prices, trendSeries(10, 100, 1))
		res := Decide(p, snap, quietDay, testStrategy())

		require.Len(t, res.Buys, 1)
		assert.Equal(t, "BBB", res.Buys[0].Symbol)
	})

	t.Run("no capacity no buys", func(t *testing.T) {
		p := portfolio.New(25000).
			WithPosition("AAA", 1, false).
			WithPosition("BBB", 1, false)
		snap := snapshot(t, universe, p.Symbols(), prices, trendSeries(10, 100, 1))
		res := Decide(p, snap, quietDay, testStrategy())
		assert.Empty(t, res.Buys)
	})

	t.Run("buy-side trend filter applies outside rebalance window", func(t *testing.T) {
		small := []string{"DOWN", "CCC"}
		p := portfolio.New(25000)
		snap := snapshot(t, small, nil, prices, trendSeries(10, 100, 1))
		res := Decide(p, snap, quietDay, testStrategy())

		require.Len(t, res.Buys, 1)
		assert.Equal(t, "CCC", res.Buys[0].Symbol)
	})
}
