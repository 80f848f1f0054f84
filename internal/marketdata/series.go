package marketdata

import (
	"time"
)

// Candle is one daily observation. Only close prices feed the strategy.
type Candle struct {
	Date  time.Time
	Close float64
}

// Series is a chronological run of daily candles for one instrument.
type Series []Candle

// Closes extracts the close prices in order.
func (s Series) Closes() []float64 {
	out := make([]float64, len(s))
	for i, c := range s {
		out[i] = c.Close
	}
	return out
}

// LastClose returns the most recent close, false when the series is empty.
func (s Series) LastClose() (float64, bool) {
	if len(s) == 0 {
		return 0, false
	}
	return s[len(s)-1].Close, true
}
