package binance

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/govalues/decimal"

	"github.com/JoeSzeles/Bot-builder-ProRealTime-sub001/pkg/common"
	"github.com/JoeSzeles/Bot-builder-ProRealTime-sub001/pkg/marketdata"
)

const (
	defaultBaseURL   = "https://data-api.binance.vision/api/v3"
	barSourceName    = "marketdata.binance"
	defaultKlineRows = 200
)

// symbolMap translates internal asset names to Binance pairs. Symbols not
// listed are passed through uppercased.
var symbolMap = map[string]string{
	"btcusd": "BTCUSDT",
	"ethusd": "ETHUSDT",
	"eurusd": "EURUSDT",
	"gbpusd": "GBPUSDT",
}

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				DialContext:           (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 15 * time.Second}).DialContext,
				MaxIdleConns:          100,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   5 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
	}
}

func (c *Client) Name() string { return "binance" }

// Klines fetches up to limit closed candles for the given interval, oldest
// first, as the /klines endpoint returns them.
func (c *Client) Klines(ctx context.Context, symbol, interval string, limit int) ([]common.Bar, error) {
	if limit <= 0 {
		limit = defaultKlineRows
	}

	reqURL := c.buildURL("/klines", map[string]string{
		"symbol":   ToExchangeSymbol(symbol),
		"interval": interval,
		"limit":    fmt.Sprintf("%d", limit),
	})

	// Rows are mixed arrays: open time as a number, OHLCV as decimal
	// strings.
	var raw [][]json.RawMessage
	if err := c.fetchJSON(ctx, reqURL, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, marketdata.ErrNoData
	}

	bars := make([]common.Bar, 0, len(raw))
	for _, row := range raw {
		// [0] openTime ms, [1] O, [2] H, [3] L, [4] C, [5] volume
		if len(row) < 6 {
			continue
		}

		var openTimeMs int64
		if err := json.Unmarshal(row[0], &openTimeMs); err != nil {
			return nil, fmt.Errorf("kline open time: %w", err)
		}

		bar := common.Bar{
			Time:   time.UnixMilli(openTimeMs).Unix(),
			Symbol: symbol,
			Source: barSourceName,
		}

		fields := []struct {
			raw  json.RawMessage
			dest *float64
		}{
			{row[1], &bar.Open},
			{row[2], &bar.High},
			{row[3], &bar.Low},
			{row[4], &bar.Close},
			{row[5], &bar.Volume},
		}
		for _, f := range fields {
			value, err := parsePrice(f.raw)
			if err != nil {
				return nil, err
			}
			*f.dest = value
		}

		bars = append(bars, bar)
	}

	return bars, nil
}

func (c *Client) buildURL(endpoint string, params map[string]string) string {
	u, err := url.Parse(c.baseURL + endpoint)
	if err != nil {
		panic(fmt.Sprintf("invalid base URL or endpoint: %v", err))
	}
	q := u.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func (c *Client) fetchJSON(ctx context.Context, fullURL string, target interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("http GET failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(b))
	}
	return json.NewDecoder(resp.Body).Decode(target)
}

func parsePrice(raw json.RawMessage) (float64, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("kline field: %w", err)
	}
	return parseDecimal(s)
}

// parseDecimal goes through decimal parsing so malformed exchange payloads
// are rejected instead of silently becoming zero.
func parseDecimal(s string) (float64, error) {
	d, err := decimal.Parse(s)
	if err != nil {
		return 0, fmt.Errorf("kline field %q: %w", s, err)
	}
	value, ok := d.Float64()
	if !ok {
		return 0, fmt.Errorf("kline field %q out of range", s)
	}
	return value, nil
}

// ToExchangeSymbol maps an internal asset name to the Binance pair.
func ToExchangeSymbol(symbol string) string {
	key := strings.ToLower(strings.TrimSpace(symbol))
	if mapped, ok := symbolMap[key]; ok {
		return mapped
	}
	return strings.ToUpper(key)
}
