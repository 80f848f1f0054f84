package portfolio

import (
	"github.com/shopspring/decimal"
)

// Position is one holding lot. Symbols are not required to be unique across
// lots unless lot merging is enabled at the command layer.
type Position struct {
	Symbol string `json:"symbol"`
	Shares int64  `json:"shares"`
}

// Portfolio is the single persisted aggregate. Cash is informational only and
// never recomputed here. Cursor is the highest inbound command sequence
// number processed; it never decreases.
type Portfolio struct {
	Cash     decimal.Decimal `json:"cash"`
	Holdings []Position      `json:"holdings"`
	Cursor   int64           `json:"cursor"`
}

// New returns the first-run default record.
func New(initialCash float64) Portfolio {
	return Portfolio{
		Cash:     decimal.NewFromFloat(initialCash),
		Holdings: []Position{},
	}
}

// All mutations below return a new value; the receiver is never modified.
// Holdings slices are copied on write so callers can hold references safely.

// WithPosition appends a new lot. When merge is set and a lot for the symbol
// already exists, the shares are added to the first matching lot instead.
func (p Portfolio) WithPosition(symbol string, shares int64, merge bool) Portfolio {
	out := p.cloneHoldings()
	if merge {
		for i := range out.Holdings {
			if out.Holdings[i].Symbol == symbol {
				out.Holdings[i].Shares += shares
				return out
			}
		}
	}
	out.Holdings = append(out.Holdings, Position{Symbol: symbol, Shares: shares})
	return out
}

// WithoutSymbol removes every lot matching symbol. The second return reports
// whether anything was removed.
func (p Portfolio) WithoutSymbol(symbol string) (Portfolio, bool) {
	out := p
	kept := make([]Position, 0, len(p.Holdings))
	for _, h := range p.Holdings {
		if h.Symbol != symbol {
			kept = append(kept, h)
		}
	}
	out.Holdings = kept
	return out, len(kept) != len(p.Holdings)
}

// Cleared drops all holdings.
func (p Portfolio) Cleared() Portfolio {
	out := p
	out.Holdings = []Position{}
	return out
}

// WithCursor advances the replay cursor. The cursor never moves backwards.
func (p Portfolio) WithCursor(seq int64) Portfolio {
	out := p.cloneHoldings()
	if seq > out.Cursor {
		out.Cursor = seq
	}
	return out
}

// Holds reports whether any lot exists for symbol.
func (p Portfolio) Holds(symbol string) bool {
	for _, h := range p.Holdings {
		if h.Symbol == symbol {
			return true
		}
	}
	return false
}

// Symbols returns held symbols in acquisition order, without duplicates.
func (p Portfolio) Symbols() []string {
	seen := make(map[string]bool, len(p.Holdings))
	out := make([]string, 0, len(p.Holdings))
	for _, h := range p.Holdings {
		if !seen[h.Symbol] {
			seen[h.Symbol] = true
			out = append(out, h.Symbol)
		}
	}
	return out
}

func (p Portfolio) cloneHoldings() Portfolio {
	out := p
	out.Holdings = make([]Position, len(p.Holdings))
	copy(out.Holdings, p.Holdings)
	return out
}
