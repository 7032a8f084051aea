package monitor

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/armada/internal/domain"
	"github.com/MrSnakeDoc/armada/internal/logger"
	"github.com/MrSnakeDoc/armada/internal/notify"
)

// DefaultInterval between periodic sweeps.
const DefaultInterval = time.Minute

// Checker probes one site; sites without a health URL yield nil.
type Checker interface {
	CheckSite(ctx context.Context, site *domain.Site) *domain.HealthResult
}

// Monitor polls every configured site's health URL, independently of the
// deploy cycle, and raises a single alert per sweep when at least one site
// is not UP.
type Monitor struct {
	sites    []domain.Site
	checker  Checker
	notifier notify.Notifier
	state    *State
	log      logger.Logger
	interval time.Duration
	stopCh   chan struct{}
}

func New(sites []domain.Site, checker Checker, notifier notify.Notifier, state *State, log logger.Logger, interval time.Duration) *Monitor {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Monitor{
		sites:    sites,
		checker:  checker,
		notifier: notifier,
		state:    state,
		log:      log,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// CheckAll sweeps every site once, skipping those without a health URL,
// records the results and alerts with the non-UP list if needed.
func (m *Monitor) CheckAll(ctx context.Context) []domain.HealthResult {
	var results []domain.HealthResult
	for i := range m.sites {
		result := m.checker.CheckSite(ctx, &m.sites[i])
		if result == nil {
			continue
		}
		results = append(results, *result)

		switch result.Status {
		case domain.HealthUp:
			m.log.Info("site UP",
				logger.String("site", result.Site),
				logger.Float64("response_ms", result.ResponseTimeMS))
		case domain.HealthDown:
			m.log.Warn("site DOWN",
				logger.String("site", result.Site),
				logger.Int("status_code", result.StatusCode))
		default:
			m.log.Warn("site check errored",
				logger.String("site", result.Site),
				logger.String("error", result.Error))
		}
	}

	if m.state != nil {
		m.state.Update(results)
	}

	var down []domain.HealthResult
	for _, r := range results {
		if r.Status != domain.HealthUp {
			down = append(down, r)
		}
	}
	if len(down) > 0 && m.notifier != nil {
		if err := m.notifier.Alert(ctx, down); err != nil {
			m.log.Error("alert delivery failed", logger.Error(err))
		}
	}

	return results
}

// Start runs one sweep immediately, then keeps sweeping on the interval
// until Stop is called or the context ends.
func (m *Monitor) Start(ctx context.Context) error {
	m.CheckAll(ctx)

	ticker := time.NewTicker(m.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.CheckAll(ctx)
			case <-m.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the periodic sweeps.
func (m *Monitor) Stop() {
	close(m.stopCh)
}
