package stubs

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"
)

// ChartStub serves canned daily close series in the chart API shape plus a
// universe CSV. Good enough for dev runs against localhost.
type ChartStub struct {
	mu       sync.Mutex
	series   map[string][]float64 // provider symbol -> closes, oldest first
	universe []string
}

func NewChartStub() *ChartStub {
	return &ChartStub{series: map[string][]float64{}}
}

// SetSeries registers closes for a provider symbol (suffix included).
func (c *ChartStub) SetSeries(symbol string, closes []float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.series[symbol] = append([]float64(nil), closes...)
}

// SetUniverse registers the constituents returned by the CSV endpoint.
func (c *ChartStub) SetUniverse(symbols []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.universe = append([]string(nil), symbols...)
}

func (c *ChartStub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v8/finance/chart/", c.handleChart)
	mux.HandleFunc("/universe.csv", c.handleUniverse)
	return mux
}

func (c *ChartStub) handleChart(w http.ResponseWriter, r *http.Request) {
	symbol := strings.TrimPrefix(r.URL.Path, "/v8/finance/chart/")

	c.mu.Lock()
	closes, ok := c.series[symbol]
	c.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if !ok {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"chart": map[string]any{
				"result": nil,
				"error":  map[string]string{"code": "Not Found", "description": "no data for " + symbol},
			},
		})
		return
	}

	// one timestamp per close, one calendar day apart, ending today
	start := time.Now().UTC().AddDate(0, 0, -len(closes)+1)
	timestamps := make([]int64, len(closes))
	ptrs := make([]*float64, len(closes))
	for i := range closes {
		timestamps[i] = start.AddDate(0, 0, i).Unix()
		v := closes[i]
		ptrs[i] = &v
	}

	_ = json.NewEncoder(w).Encode(map[string]any{
		"chart": map[string]any{
			"result": []map[string]any{{
				"timestamp": timestamps,
				"indicators": map[string]any{
					"quote": []map[string]any{{"close": ptrs}},
				},
			}},
			"error": nil,
		},
	})
}

func (c *ChartStub) handleUniverse(w http.ResponseWriter, _ *http.Request) {
	c.mu.Lock()
	universe := append([]string(nil), c.universe...)
	c.mu.Unlock()

	w.Header().Set("Content-Type", "text/csv")
	var b strings.Builder
	b.WriteString("Company Name,Industry,Symbol\n")
	for _, sym := range universe {
		b.WriteString("Stub Co," + "Stubs," + sym + "\n")
	}
	_, _ = w.Write([]byte(b.String()))
}
