package domain

import "time"

// Status is the terminal outcome of one site's deployment attempt.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Result records the outcome of one deployment attempt for one site.
// Exactly one Result is produced per site per run.
type Result struct {
	Site      string    `json:"site"`
	Status    Status    `json:"status"`
	Seconds   float64   `json:"time,omitempty"`  // wall-clock seconds, set on success
	Error     string    `json:"error,omitempty"` // set on failure
	Timestamp time.Time `json:"timestamp"`
}

// RunReport aggregates the results of one multi-site run. It is persisted
// as an immutable JSON record once the run completes.
type RunReport struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Results   []Result  `json:"results"`
	Succeeded int       `json:"succeeded"`
	Failed    int       `json:"failed"`
	Seconds   float64   `json:"total_time"`
}

// Failures returns the failed results, in report order.
func (r *RunReport) Failures() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Status == StatusFailed {
			out = append(out, res)
		}
	}
	return out
}
