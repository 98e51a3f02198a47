// Package exrate fetches the blue-market dollar quote and keeps it fresh in
// the background.
package exrate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// DefaultURL is the public quote endpoint.
const DefaultURL = "https://api.bluelytics.com.ar/v2/latest"

const maxBodyBytes = 1 << 20

var (
	// ErrUnexpectedStatus is returned for any non-200 answer.
	ErrUnexpectedStatus = errors.New("unexpected status")
	// ErrMalformedQuote is returned when the payload lacks a usable blue.value_avg.
	ErrMalformedQuote = errors.New("malformed quote")
)

// Quote is one successful reading of the endpoint.
type Quote struct {
	Rate float64
	At   time.Time
}

// Fetcher returns the current quote.
type Fetcher interface {
	Latest(ctx context.Context) (Quote, error)
}

// Client reads the quote endpoint over HTTP.
type Client struct {
	url        string
	httpClient *http.Client
	logger     *zap.Logger
	now        func() time.Time
}

// NewClient creates a client for url. A zero timeout leaves the transport
// default in place.
func NewClient(url string, timeout time.Duration, logger *zap.Logger) *Client {
	if url == "" {
		url = DefaultURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
		now:        time.Now,
	}
}

type latestPayload struct {
	Blue *struct {
		ValueAvg *float64 `json:"value_avg"`
	} `json:"blue"`
}

// Latest fetches and validates the blue-market average.
func (c *Client) Latest(ctx context.Context) (Quote, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return Quote{}, fmt.Errorf("create quote request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Quote{}, fmt.Errorf("fetch quote: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Debug("close quote response body", zap.Error(err))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return Quote{}, fmt.Errorf("fetch quote: %w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	var payload latestPayload
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&payload); err != nil {
		return Quote{}, fmt.Errorf("decode quote: %w: %v", ErrMalformedQuote, err)
	}

	if payload.Blue == nil || payload.Blue.ValueAvg == nil {
		return Quote{}, fmt.Errorf("decode quote: %w: missing blue.value_avg", ErrMalformedQuote)
	}

	rate := *payload.Blue.ValueAvg
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate <= 0 {
		return Quote{}, fmt.Errorf("decode quote: %w: blue.value_avg=%v", ErrMalformedQuote, rate)
	}

	return Quote{Rate: rate, At: c.now()}, nil
}
