package decide

import (
	"fmt"
	"strings"
	"time"
)

const reportDivider = "------------------------"

// BuildReport renders the run outcome as one multi-line chat message.
func BuildReport(res Result, now time.Time) string {
	var lines []string

	lines = append(lines, fmt.Sprintf("📅 *Report for %s*", now.Format("02 Jan 2006")))
	if res.MarketSafe {
		lines = append(lines, "Market Status: ✅ GREEN")
	} else {
		lines = append(lines, "Market Status: ⛔ RED (EXIT ALL)")
	}
	if res.Rebalance {
		lines = append(lines, "Cadence: 🔄 rebalance window (rank exits active)")
	} else {
		lines = append(lines, "Cadence: 🗓 daily safety checks only")
	}
	lines = append(lines, reportDivider)

	if len(res.Decisions) > 0 {
		lines = append(lines, "*🔍 YOUR POSITIONS:*")
		for _, d := range res.Decisions {
			lines = append(lines, positionLine(d))
		}
	} else {
		lines = append(lines, "ℹ️ Portfolio Empty.")
	}

	if len(res.Buys) > 0 {
		lines = append(lines, reportDivider)
		lines = append(lines, fmt.Sprintf("*🚀 BUY SIGNALS (Top %d):*", len(res.Buys)))
		for _, b := range res.Buys {
			lines = append(lines, fmt.Sprintf("👉 %s (Score: %.1f%%)", b.Symbol, b.Score))
		}
	}

	return strings.Join(lines, "\n")
}

func positionLine(d Decision) string {
	switch d.Action {
	case ActionSell:
		glyph := "❌"
		if d.Reason == ReasonMarketUnsafe {
			glyph = "🚨"
		}
		return fmt.Sprintf("%s SELL %s (%s)", glyph, d.Symbol, d.Reason)
	case ActionDataError:
		return fmt.Sprintf("⚠️ %s (%s)", d.Symbol, d.Reason)
	default:
		if d.HasPrice {
			return fmt.Sprintf("✅ HOLD %s (₹%d)", d.Symbol, int64(d.Price))
		}
		return fmt.Sprintf("✅ HOLD %s", d.Symbol)
	}
}
