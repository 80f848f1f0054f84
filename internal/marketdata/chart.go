package marketdata

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/msardana94/momentumbot/internal/config"
	"github.com/msardana94/momentumbot/internal/observ"
)

// ChartClient fetches daily history from a Yahoo-style chart API and the
// universe from an index constituents CSV. Provider quirks (exchange
// suffixes, null rows) stay entirely inside this package.
type ChartClient struct {
	cfg        config.MarketData
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewChartClient(cfg config.MarketData) *ChartClient {
	return &ChartClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutMs) * time.Millisecond,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimitPerSec), 1),
	}
}

// chartResponse is the subset of the chart payload this client reads.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// History fetches per-symbol daily close series. Per-symbol failures are
// logged and skipped; the map only misses a symbol, it never fails the batch.
// The error return fires only when every fetch failed at the transport level,
// which callers treat as source-unavailable.
func (c *ChartClient) History(ctx context.Context, symbols []string, lookbackDays int) (map[string]Series, error) {
	out := make(map[string]Series, len(symbols))
	var transportFailures int
	for _, sym := range symbols {
		series, err := c.fetchSeries(ctx, sym, lookbackDays)
		if err != nil {
			observ.IncCounter("chart_fetch_failures_total", map[string]string{"symbol": sym})
			observ.Log("chart_fetch_failed", map[string]any{"symbol": sym, "err": err.Error()})
			if IsUnavailable(err) {
				transportFailures++
			}
			continue
		}
		out[sym] = series
	}
	if len(symbols) > 0 && transportFailures == len(symbols) {
		return out, newError(KindUnavailable, "", fmt.Errorf("all %d chart fetches failed", len(symbols)))
	}
	return out, nil
}

// FetchBenchmark fetches the benchmark series alone. Unlike History, a
// failure here is returned to the caller: the regime gate fails closed on it.
func (c *ChartClient) FetchBenchmark(ctx context.Context, lookbackDays int) (Series, error) {
	return c.fetchSeries(ctx, c.cfg.Benchmark, lookbackDays)
}

func (c *ChartClient) fetchSeries(ctx context.Context, symbol string, lookbackDays int) (Series, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, newError(KindUnavailable, symbol, err)
	}

	u, err := url.Parse(c.cfg.ChartBaseURL + "/v8/finance/chart/" + url.PathEscape(c.providerSymbol(symbol)))
	if err != nil {
		return nil, newError(KindBadPayload, symbol, err)
	}
	now := time.Now()
	q := u.Query()
	q.Set("period1", strconv.FormatInt(now.AddDate(0, 0, -lookbackDays).Unix(), 10))
	q.Set("period2", strconv.FormatInt(now.Unix(), 10))
	q.Set("interval", "1d")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, newError(KindUnavailable, symbol, err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, newError(KindUnavailable, symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, newError(KindUnavailable, symbol, fmt.Errorf("status %d", resp.StatusCode))
	}

	var parsed chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, newError(KindBadPayload, symbol, err)
	}
	if parsed.Chart.Error != nil {
		return nil, newError(KindBadPayload, symbol, fmt.Errorf("%s: %s", parsed.Chart.Error.Code, parsed.Chart.Error.Description))
	}
	if len(parsed.Chart.Result) == 0 || len(parsed.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, newError(KindBadPayload, symbol, fmt.Errorf("empty result"))
	}

	res := parsed.Chart.Result[0]
	closes := res.Indicators.Quote[0].Close
	series := make(Series, 0, len(res.Timestamp))
	for i, ts := range res.Timestamp {
		// null closes show up on holidays and partial sessions
		if i >= len(closes) || closes[i] == nil {
			continue
		}
		series = append(series, Candle{
			Date:  time.Unix(ts, 0).UTC(),
			Close: *closes[i],
		})
	}
	if len(series) == 0 {
		return nil, newError(KindInsufficientData, symbol, fmt.Errorf("no usable closes"))
	}
	return series, nil
}

// Universe lists index constituents from the configured CSV endpoint,
// degrading to the fixed default set on any failure.
func (c *ChartClient) Universe(ctx context.Context) []string {
	symbols, err := c.fetchUniverse(ctx)
	if err != nil {
		observ.IncCounter("universe_fallbacks_total", nil)
		observ.Log("universe_fallback", map[string]any{"err": err.Error()})
		return append([]string(nil), c.cfg.DefaultUniverse...)
	}
	return symbols
}

func (c *ChartClient) fetchUniverse(ctx context.Context) ([]string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, newError(KindUnavailable, "", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.UniverseURL, nil)
	if err != nil {
		return nil, newError(KindUnavailable, "", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, newError(KindUnavailable, "", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, newError(KindUnavailable, "", fmt.Errorf("status %d", resp.StatusCode))
	}

	r := csv.NewReader(resp.Body)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, newError(KindBadPayload, "", err)
	}
	if len(records) < 2 {
		return nil, newError(KindBadPayload, "", fmt.Errorf("universe CSV has no rows"))
	}

	symbolCol := -1
	for i, name := range records[0] {
		if strings.EqualFold(strings.TrimSpace(name), "Symbol") {
			symbolCol = i
			break
		}
	}
	if symbolCol < 0 {
		return nil, newError(KindBadPayload, "", fmt.Errorf("universe CSV missing Symbol column"))
	}

	symbols := make([]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		if symbolCol >= len(rec) {
			continue
		}
		if sym := strings.TrimSpace(rec[symbolCol]); sym != "" {
			symbols = append(symbols, sym)
		}
	}
	if len(symbols) == 0 {
		return nil, newError(KindBadPayload, "", fmt.Errorf("universe CSV yielded no symbols"))
	}
	return symbols, nil
}

// providerSymbol applies the exchange suffix the data provider expects.
// Index tickers (leading ^) are passed through untouched.
func (c *ChartClient) providerSymbol(symbol string) string {
	if strings.HasPrefix(symbol, "^") || strings.HasSuffix(symbol, c.cfg.SymbolSuffix) {
		return symbol
	}
	return symbol + c.cfg.SymbolSuffix
}
