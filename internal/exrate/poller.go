package exrate

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultInterval is the refresh period between scheduled fetches.
const DefaultInterval = 5 * time.Minute

// Status classifies the outcome of one poll.
type Status int

const (
	// StatusSuccess means a fresh rate was fetched.
	StatusSuccess Status = iota
	// StatusFailure means the fetch failed and no rate was ever fetched; Rate
	// holds the fallback.
	StatusFailure
	// StatusStale means the fetch failed and Rate is the last good reading.
	StatusStale
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusFailure:
		return "failure"
	case StatusStale:
		return "stale"
	default:
		return "unknown"
	}
}

// Update is published after every poll.
type Update struct {
	Status Status
	Rate   float64
	Err    error
	At     time.Time
}

// Poller fetches on start, then on every tick and on Refresh. Failures keep
// the previous rate.
type Poller struct {
	fetcher  Fetcher
	interval time.Duration
	logger   *zap.Logger
	now      func() time.Time

	updates chan Update
	refresh chan struct{}

	mu    sync.RWMutex
	rate  float64
	known bool
}

// NewPoller creates a poller that reports fallback until the first success.
func NewPoller(fetcher Fetcher, interval time.Duration, fallback float64, logger *zap.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Poller{
		fetcher:  fetcher,
		interval: interval,
		logger:   logger,
		now:      time.Now,
		updates:  make(chan Update, 1),
		refresh:  make(chan struct{}, 1),
		rate:     fallback,
	}
}

// Updates delivers one Update per poll. It is closed when Run returns.
func (p *Poller) Updates() <-chan Update {
	return p.updates
}

// Rate returns the current rate and whether it came from a successful fetch.
func (p *Poller) Rate() (float64, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.rate, p.known
}

// Refresh asks Run for an out-of-band poll. Requests made while one is
// already pending are merged.
func (p *Poller) Refresh() {
	select {
	case p.refresh <- struct{}{}:
	default:
	}
}

// Run polls until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) error {
	defer close(p.updates)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.logger.Info("exchange rate poller started", zap.Duration("interval", p.interval))
	if !p.publish(ctx, p.poll(ctx)) {
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("exchange rate poller stopped")
			return nil
		case <-ticker.C:
		case <-p.refresh:
		}

		if !p.publish(ctx, p.poll(ctx)) {
			return nil
		}
	}
}

func (p *Poller) poll(ctx context.Context) Update {
	quote, err := p.fetcher.Latest(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()

	if err != nil {
		status := StatusFailure
		if p.known {
			status = StatusStale
		}
		p.logger.Warn("exchange rate fetch failed",
			zap.Error(err),
			zap.Stringer("status", status),
			zap.Float64("rate", p.rate),
		)
		return Update{Status: status, Rate: p.rate, Err: err, At: p.now()}
	}

	p.rate = quote.Rate
	p.known = true
	p.logger.Debug("exchange rate updated", zap.Float64("rate", quote.Rate))

	at := quote.At
	if at.IsZero() {
		at = p.now()
	}
	return Update{Status: StatusSuccess, Rate: quote.Rate, At: at}
}

func (p *Poller) publish(ctx context.Context, u Update) bool {
	select {
	case p.updates <- u:
		return true
	case <-ctx.Done():
		return false
	}
}
