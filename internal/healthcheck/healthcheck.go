package healthcheck

import (
	"context"
	"errors"
	"sync"

	"github.com/adamdecaf/go-healthchecksio/pkg/healthchecksio"
	"github.com/moov-io/base/log"
)

// Pinger reports each completed job to an entity's configured healthcheck
// URL. Failures are logged by the caller, never escalated.
type Pinger interface {
	Ping(ctx context.Context, pingURL string, success bool) error
}

func NewPinger(logger log.Logger) (Pinger, error) {
	// Ping endpoints are keyless, only the management API needs a key
	underlying := healthchecksio.NewClient("")
	if underlying == nil {
		return nil, errors.New("no healthchecks client created")
	}
	return &pinger{
		logger:     logger,
		underlying: underlying,
	}, nil
}

type pinger struct {
	logger     log.Logger
	underlying healthchecksio.Client
}

func (p *pinger) Ping(ctx context.Context, pingURL string, success bool) error {
	if pingURL == "" {
		return nil
	}

	var opts []healthchecksio.PingOption
	if !success {
		opts = append(opts, healthchecksio.WithFail())
	}

	err := p.underlying.Ping(ctx, pingURL, "", opts...)
	if err != nil {
		return err
	}

	p.logger.With(log.Fields{
		"success": log.Bool(success),
	}).Logf("pinged %s", pingURL)

	return nil
}

// MockPinger records pings for tests.
type MockPinger struct {
	mu    sync.Mutex
	pings []MockPing

	Err error
}

type MockPing struct {
	URL     string
	Success bool
}

var _ Pinger = (&MockPinger{})

func (m *MockPinger) Ping(_ context.Context, pingURL string, success bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pings = append(m.pings, MockPing{URL: pingURL, Success: success})
	return m.Err
}

func (m *MockPinger) Pings() []MockPing {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]MockPing, len(m.pings))
	copy(out, m.pings)
	return out
}
