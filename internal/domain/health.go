package domain

import "time"

// HealthStatus classifies a single HTTP probe.
type HealthStatus string

const (
	HealthUp    HealthStatus = "UP"    // reachable, HTTP 200
	HealthDown  HealthStatus = "DOWN"  // reachable, non-200
	HealthError HealthStatus = "ERROR" // network or timeout failure
)

// HealthResult is the ephemeral outcome of one probe against one URL.
type HealthResult struct {
	Site           string       `json:"site"`
	URL            string       `json:"url"`
	Status         HealthStatus `json:"status"`
	StatusCode     int          `json:"status_code,omitempty"`
	ResponseTimeMS float64      `json:"response_time,omitempty"`
	Error          string       `json:"error,omitempty"`
	CheckedAt      time.Time    `json:"timestamp"`
}
