package monitor

import (
	"context"
	"sync"
	"testing"

	"github.com/MrSnakeDoc/armada/internal/domain"
	"github.com/MrSnakeDoc/armada/internal/logger"
)

type fakeChecker struct {
	statuses map[string]domain.HealthStatus
}

func (f *fakeChecker) CheckSite(_ context.Context, site *domain.Site) *domain.HealthResult {
	if site.HealthCheckURL == "" {
		return nil
	}
	return &domain.HealthResult{
		Site:   site.Name,
		URL:    site.HealthCheckURL,
		Status: f.statuses[site.Name],
	}
}

type fakeNotifier struct {
	mu     sync.Mutex
	alerts [][]domain.HealthResult
}

func (f *fakeNotifier) Alert(_ context.Context, down []domain.HealthResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alerts = append(f.alerts, down)
	return nil
}

func monitoredSites() []domain.Site {
	return []domain.Site{
		{Name: "a", HealthCheckURL: "https://a.example.com/health"},
		{Name: "b", HealthCheckURL: "https://b.example.com/health"},
		{Name: "nocheck"}, // no health URL: skipped
	}
}

func TestCheckAllAlertsOnDownSites(t *testing.T) {
	checker := &fakeChecker{statuses: map[string]domain.HealthStatus{
		"a": domain.HealthUp,
		"b": domain.HealthDown,
	}}
	notifier := &fakeNotifier{}
	state := NewState()

	m := New(monitoredSites(), checker, notifier, state, logger.New("error", false), 0)
	results := m.CheckAll(context.Background())

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2 (site without URL skipped)", len(results))
	}

	if len(notifier.alerts) != 1 {
		t.Fatalf("alerts = %d, want exactly 1 per sweep", len(notifier.alerts))
	}
	down := notifier.alerts[0]
	if len(down) != 1 || down[0].Site != "b" {
		t.Errorf("alert carried %+v, want only site b", down)
	}

	stored := state.All()
	if len(stored) != 2 {
		t.Errorf("state holds %d results, want 2", len(stored))
	}
	if state.LastSweep().IsZero() {
		t.Error("state sweep time not recorded")
	}
}

func TestCheckAllNoAlertWhenAllUp(t *testing.T) {
	checker := &fakeChecker{statuses: map[string]domain.HealthStatus{
		"a": domain.HealthUp,
		"b": domain.HealthUp,
	}}
	notifier := &fakeNotifier{}

	m := New(monitoredSites(), checker, notifier, NewState(), logger.New("error", false), 0)
	m.CheckAll(context.Background())

	if len(notifier.alerts) != 0 {
		t.Errorf("alerts = %d, want none when everything is UP", len(notifier.alerts))
	}
}

func TestCheckAllErrorCountsAsDown(t *testing.T) {
	checker := &fakeChecker{statuses: map[string]domain.HealthStatus{
		"a": domain.HealthError,
		"b": domain.HealthUp,
	}}
	notifier := &fakeNotifier{}

	m := New(monitoredSites(), checker, notifier, NewState(), logger.New("error", false), 0)
	m.CheckAll(context.Background())

	if len(notifier.alerts) != 1 || notifier.alerts[0][0].Site != "a" {
		t.Errorf("ERROR status should raise an alert, got %+v", notifier.alerts)
	}
}

func TestStateAllSorted(t *testing.T) {
	state := NewState()
	state.Update([]domain.HealthResult{
		{Site: "zeta", Status: domain.HealthUp},
		{Site: "alpha", Status: domain.HealthDown},
	})

	all := state.All()
	if len(all) != 2 || all[0].Site != "alpha" || all[1].Site != "zeta" {
		t.Errorf("All() = %+v, want sorted by site", all)
	}

	// A later sweep replaces per-site entries.
	state.Update([]domain.HealthResult{{Site: "alpha", Status: domain.HealthUp}})
	all = state.All()
	if all[0].Status != domain.HealthUp {
		t.Errorf("alpha status = %s, want updated to UP", all[0].Status)
	}
}
