package monitor

import (
	"sort"
	"sync"
	"time"

	"github.com/MrSnakeDoc/armada/internal/domain"
)

// State holds the latest health result per site. It is the read side for
// the status API while the monitor loop keeps writing sweeps into it.
type State struct {
	mu        sync.RWMutex
	results   map[string]domain.HealthResult
	lastSweep time.Time
}

func NewState() *State {
	return &State{results: make(map[string]domain.HealthResult)}
}

// Update replaces the stored result for every site present in the sweep.
func (s *State) Update(results []domain.HealthResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range results {
		s.results[r.Site] = r
	}
	s.lastSweep = time.Now()
}

// All returns the stored results sorted by site name.
func (s *State) All() []domain.HealthResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.HealthResult, 0, len(s.results))
	for _, r := range s.results {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Site < out[j].Site })
	return out
}

// LastSweep returns when the state was last updated (zero if never).
func (s *State) LastSweep() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSweep
}
