// Package market fetches Bitcoin candlestick data and shapes it into the
// dashboard's price and volatility charts.
package market

import (
	"context"
	"errors"
	"net/url"
	"strconv"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/lead-tracker/internal/fetcher"
	"github.com/sells-group/lead-tracker/internal/resilience"
)

const (
	defaultBaseURL     = "https://api.binance.com"
	defaultSymbol      = "BTCUSDT"
	defaultInterval    = "1d"
	defaultPriceDays   = 30
	defaultScatterDays = 180
)

// Option configures the client.
type Option func(*Client)

// WithBaseURL overrides the exchange API base URL.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithSymbol sets the trading pair.
func WithSymbol(symbol string) Option {
	return func(c *Client) {
		c.symbol = symbol
	}
}

// WithInterval sets the candlestick interval.
func WithInterval(interval string) Option {
	return func(c *Client) {
		c.interval = interval
	}
}

// WithWindows sets how many candles the price and scatter charts cover.
func WithWindows(priceDays, scatterDays int) Option {
	return func(c *Client) {
		if priceDays > 0 {
			c.priceDays = priceDays
		}
		if scatterDays > 0 {
			c.scatterDays = scatterDays
		}
	}
}

// WithFetcher overrides the HTTP fetcher.
func WithFetcher(f fetcher.Fetcher) Option {
	return func(c *Client) {
		c.fetcher = f
	}
}

// WithBreaker guards fetches with a circuit breaker.
func WithBreaker(b *resilience.Breaker) Option {
	return func(c *Client) {
		c.breaker = b
	}
}

// Client reads klines from the exchange.
type Client struct {
	baseURL     string
	symbol      string
	interval    string
	priceDays   int
	scatterDays int
	fetcher     fetcher.Fetcher
	breaker     *resilience.Breaker
}

// NewClient creates a market data client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:     defaultBaseURL,
		symbol:      defaultSymbol,
		interval:    defaultInterval,
		priceDays:   defaultPriceDays,
		scatterDays: defaultScatterDays,
	}
	for _, o := range opts {
		o(c)
	}
	if c.fetcher == nil {
		c.fetcher = fetcher.NewHTTPFetcher(fetcher.HTTPOptions{})
	}
	return c
}

// KlinesURL returns the request URL for the last limit candles.
func (c *Client) KlinesURL(limit int) string {
	q := url.Values{}
	q.Set("symbol", c.symbol)
	q.Set("interval", c.interval)
	q.Set("limit", strconv.Itoa(limit))
	return c.baseURL + "/api/v3/klines?" + q.Encode()
}

// FetchKlines returns the last limit candles, oldest first.
func (c *Client) FetchKlines(ctx context.Context, limit int) ([]Kline, error) {
	return resilience.Call(ctx, c.breaker, func(ctx context.Context) ([]Kline, error) {
		klines, err := fetcher.GetJSON[[]Kline](ctx, c.fetcher, c.KlinesURL(limit))
		if err != nil {
			var se *fetcher.StatusError
			if errors.As(err, &se) {
				return nil, eris.Errorf("failed to fetch Bitcoin data: %s", se.StatusText())
			}
			return nil, eris.Wrap(err, "failed to fetch Bitcoin data")
		}
		return *klines, nil
	})
}

// PriceSeries returns the close-price chart.
func (c *Client) PriceSeries(ctx context.Context) ([]PricePoint, error) {
	klines, err := c.FetchKlines(ctx, c.priceDays)
	if err != nil {
		return nil, err
	}
	return ClosePrices(klines), nil
}

// Scatter returns the volume against volatility chart.
func (c *Client) Scatter(ctx context.Context) ([]ScatterPoint, error) {
	klines, err := c.FetchKlines(ctx, c.scatterDays)
	if err != nil {
		return nil, err
	}
	return VolatilityScatter(klines), nil
}

// Dashboard holds both charts. Each chart carries its own error message;
// one failing does not blank the other.
type Dashboard struct {
	Price        []PricePoint   `json:"price"`
	PriceError   string         `json:"price_error,omitempty"`
	Scatter      []ScatterPoint `json:"scatter"`
	ScatterError string         `json:"scatter_error,omitempty"`
}

// Dashboard fetches both charts concurrently.
func (c *Client) Dashboard(ctx context.Context) Dashboard {
	var d Dashboard
	var g errgroup.Group

	g.Go(func() error {
		points, err := c.PriceSeries(ctx)
		if err != nil {
			zap.L().Warn("market: price series failed", zap.Error(err))
			d.PriceError = err.Error()
			return nil
		}
		d.Price = points
		return nil
	})
	g.Go(func() error {
		points, err := c.Scatter(ctx)
		if err != nil {
			zap.L().Warn("market: scatter failed", zap.Error(err))
			d.ScatterError = err.Error()
			return nil
		}
		d.Scatter = points
		return nil
	})
	_ = g.Wait()

	return d
}
