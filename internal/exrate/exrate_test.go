package exrate

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newQuoteServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("unexpected method %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClientLatestReadsBlueAverage(t *testing.T) {
	srv := newQuoteServer(t, http.StatusOK, `{"oficial":{"value_avg":900},"blue":{"value_avg":350.25,"value_sell":355,"value_buy":345.5}}`)

	quote, err := NewClient(srv.URL, time.Second, zaptest.NewLogger(t)).Latest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 350.25, quote.Rate)
	assert.False(t, quote.At.IsZero())
}

func TestClientLatestRejectsBadPayloads(t *testing.T) {
	cases := map[string]string{
		"missing blue":      `{"oficial":{"value_avg":900}}`,
		"missing value_avg": `{"blue":{"value_sell":355}}`,
		"null value_avg":    `{"blue":{"value_avg":null}}`,
		"zero value_avg":    `{"blue":{"value_avg":0}}`,
		"negative":          `{"blue":{"value_avg":-1}}`,
		"string value":      `{"blue":{"value_avg":"350"}}`,
		"not json":          `<html>oops</html>`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			srv := newQuoteServer(t, http.StatusOK, body)

			_, err := NewClient(srv.URL, time.Second, zaptest.NewLogger(t)).Latest(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedQuote)
		})
	}
}

func TestClientLatestRejectsNonOKStatus(t *testing.T) {
	srv := newQuoteServer(t, http.StatusServiceUnavailable, `{"blue":{"value_avg":350}}`)

	_, err := NewClient(srv.URL, time.Second, zaptest.NewLogger(t)).Latest(context.Background())
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
}

func TestClientLatestNetworkError(t *testing.T) {
	srv := newQuoteServer(t, http.StatusOK, `{}`)
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, time.Second, zaptest.NewLogger(t)).Latest(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMalformedQuote)
}

type scriptedFetcher struct {
	mu      sync.Mutex
	results []fetchResult
}

type fetchResult struct {
	rate float64
	err  error
}

func (f *scriptedFetcher) Latest(context.Context) (Quote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.results) == 0 {
		return Quote{}, errors.New("script exhausted")
	}
	r := f.results[0]
	f.results = f.results[1:]
	if r.err != nil {
		return Quote{}, r.err
	}
	return Quote{Rate: r.rate}, nil
}

func receive(t *testing.T, updates <-chan Update) Update {
	t.Helper()

	select {
	case u, ok := <-updates:
		require.True(t, ok, "updates channel closed")
		return u
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for update")
		return Update{}
	}
}

func TestPollerReportsSuccessFailureAndStale(t *testing.T) {
	boom := errors.New("boom")
	fetcher := &scriptedFetcher{results: []fetchResult{
		{err: boom},
		{rate: 350.25},
		{err: boom},
	}}

	p := NewPoller(fetcher, time.Hour, 350, zaptest.NewLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	first := receive(t, p.Updates())
	assert.Equal(t, StatusFailure, first.Status)
	assert.Equal(t, 350.0, first.Rate)
	assert.ErrorIs(t, first.Err, boom)
	rate, known := p.Rate()
	assert.Equal(t, 350.0, rate)
	assert.False(t, known)

	p.Refresh()
	second := receive(t, p.Updates())
	assert.Equal(t, StatusSuccess, second.Status)
	assert.Equal(t, 350.25, second.Rate)
	assert.NoError(t, second.Err)

	p.Refresh()
	third := receive(t, p.Updates())
	assert.Equal(t, StatusStale, third.Status)
	assert.Equal(t, 350.25, third.Rate)
	rate, known = p.Rate()
	assert.Equal(t, 350.25, rate)
	assert.True(t, known)

	cancel()
	require.NoError(t, <-done)

	_, open := <-p.Updates()
	assert.False(t, open)
}

func TestPollerPollsOnInterval(t *testing.T) {
	fetcher := &scriptedFetcher{results: []fetchResult{{rate: 100}, {rate: 101}, {rate: 102}}}

	p := NewPoller(fetcher, 10*time.Millisecond, 350, zaptest.NewLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	assert.Equal(t, 100.0, receive(t, p.Updates()).Rate)
	assert.Equal(t, 101.0, receive(t, p.Updates()).Rate)
	assert.Equal(t, 102.0, receive(t, p.Updates()).Rate)

	cancel()
	require.NoError(t, <-done)
}

func TestPollerStopsWhileBlockedOnPublish(t *testing.T) {
	fetcher := &scriptedFetcher{results: []fetchResult{{rate: 1}, {rate: 2}, {rate: 3}}}

	p := NewPoller(fetcher, time.Millisecond, 350, zaptest.NewLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	// Nobody reads; the buffer fills and Run must still honour cancellation.
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not stop")
	}
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "success", StatusSuccess.String())
	assert.Equal(t, "failure", StatusFailure.String())
	assert.Equal(t, "stale", StatusStale.String())
	assert.Equal(t, "unknown", Status(9).String())
}
