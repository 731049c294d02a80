// Package ingest fetches fresh company leads from the fake company data API.
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/url"
	"strconv"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/lead-tracker/internal/fetcher"
	"github.com/sells-group/lead-tracker/internal/model"
	"github.com/sells-group/lead-tracker/internal/resilience"
)

const (
	defaultBaseURL  = "https://fakerapi.it/api/v2/custom"
	defaultQuantity = 10
)

// ErrInvalidFormat is returned when the response has no data array.
var ErrInvalidFormat = eris.New("invalid data format received from API")

// fieldMapping pairs each CompanyData JSON field with the generator the API
// fills it from.
var fieldMapping = [][2]string{
	{"company", "company_name"},
	{"country", "country"},
	{"state", "state"},
	{"city", "city"},
	{"zipcode", "postcode"},
	{"employees", "counter"},
	{"revenue", "number"},
	{"website", "website"},
	{"sales_rep", "first_name"},
	{"last_contacted", "date"},
	{"purchased", "boolean"},
	{"notes", "text"},
}

// Source produces a batch of company records on demand.
type Source interface {
	FetchCompanies(ctx context.Context) ([]model.CompanyData, error)
}

// Option configures the client.
type Option func(*Client)

// WithBaseURL overrides the default API endpoint.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithQuantity sets how many records each fetch asks for.
func WithQuantity(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.quantity = n
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

// Client fetches company records from the fake company data API.
type Client struct {
	baseURL  string
	quantity int
	fetcher  fetcher.Fetcher
	breaker  *resilience.Breaker
}

// NewClient creates an ingestion client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:  defaultBaseURL,
		quantity: defaultQuantity,
	}
	for _, o := range opts {
		o(c)
	}
	if c.fetcher == nil {
		c.fetcher = fetcher.NewHTTPFetcher(fetcher.HTTPOptions{})
	}
	return c
}

// URL returns the request URL: the quantity first, then one query parameter
// per record field naming its generator.
func (c *Client) URL() string {
	q := "_quantity=" + strconv.Itoa(c.quantity)
	for _, m := range fieldMapping {
		q += "&" + url.QueryEscape(m[0]) + "=" + url.QueryEscape(m[1])
	}
	return c.baseURL + "?" + q
}

// FetchCompanies requests one batch of records. Records are returned as the
// API produced them, without validation.
func (c *Client) FetchCompanies(ctx context.Context) ([]model.CompanyData, error) {
	companies, err := resilience.Call(ctx, c.breaker, c.fetch)
	if err != nil {
		zap.L().Warn("ingest: fetch failed", zap.Error(err))
		return nil, err
	}
	zap.L().Info("ingest: fetched companies", zap.Int("count", len(companies)))
	return companies, nil
}

func (c *Client) fetch(ctx context.Context) ([]model.CompanyData, error) {
	resp, err := fetcher.GetJSON[model.APIResponse](ctx, c.fetcher, c.URL())
	if err != nil {
		var se *fetcher.StatusError
		if errors.As(err, &se) {
			return nil, eris.Errorf("failed to fetch data: %s", se.StatusText())
		}
		if ctx.Err() != nil {
			return nil, eris.Wrap(ctx.Err(), "failed to fetch data")
		}
		if isDecodeError(err) {
			return nil, ErrInvalidFormat
		}
		return nil, eris.Wrap(err, "failed to fetch data")
	}
	if resp.Data == nil {
		return nil, ErrInvalidFormat
	}
	return resp.Data, nil
}

func isDecodeError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) ||
		errors.As(err, &typeErr) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF)
}
