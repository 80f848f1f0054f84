package main

import (
	"log"
	"net/http"

	"github.com/msardana94/momentumbot/internal/stubs"
)

// Local stand-ins for the chat channel and the chart API. Point the scanner
// at them with:
//
//	telegram.base_url:      http://localhost:8091
//	market_data.chart_base_url: http://localhost:8092
//	market_data.universe_url:   http://localhost:8092/universe.csv
func main() {
	tg := stubs.NewTelegramStub()
	chart := stubs.NewChartStub()

	// a small universe with enough history for the 200-session SMA
	universe := []string{"RELIANCE", "HDFCBANK", "INFY", "TCS", "ITC"}
	chart.SetUniverse(universe)
	for i, sym := range universe {
		chart.SetSeries(sym+".NS", trendingCloses(260, 100+float64(i*10), 0.05+float64(i)*0.01))
	}
	chart.SetSeries("^NSEI", trendingCloses(260, 18000, 4))

	go func() {
		log.Printf("telegram stub listening on :8091")
		if err := http.ListenAndServe(":8091", tg.Handler()); err != nil {
			log.Fatalf("telegram stub: %v", err)
		}
	}()
	log.Printf("chart stub listening on :8092")
	if err := http.ListenAndServe(":8092", chart.Handler()); err != nil {
		log.Fatalf("chart stub: %v", err)
	}
}

// trendingCloses produces a gently rising series so trend filters pass.
func trendingCloses(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + step*float64(i)
	}
	return out
}
