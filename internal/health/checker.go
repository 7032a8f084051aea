package health

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/armada/internal/domain"
	"github.com/MrSnakeDoc/armada/internal/utils"
)

// DefaultTimeout bounds a single probe.
const DefaultTimeout = 10 * time.Second

// Checker issues single HTTP probes and classifies the outcome.
// No retries: callers decide on retry policy.
type Checker struct {
	client  *http.Client
	timeout time.Duration
}

func NewChecker(timeout time.Duration) *Checker {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Checker{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DisableKeepAlives: true,
			},
		},
		timeout: timeout,
	}
}

// Check probes url once. HTTP 200 is UP, any other status is DOWN, a
// network or timeout error is ERROR.
func (c *Checker) Check(ctx context.Context, url string) domain.HealthResult {
	result := domain.HealthResult{
		URL:       url,
		CheckedAt: time.Now(),
	}

	cctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(cctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		result.Status = domain.HealthError
		result.Error = err.Error()
		return result
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		result.Status = domain.HealthError
		result.Error = err.Error()
		return result
	}
	defer utils.Close(resp.Body)

	result.StatusCode = resp.StatusCode
	result.ResponseTimeMS = float64(time.Since(start)) / float64(time.Millisecond)

	if resp.StatusCode == http.StatusOK {
		result.Status = domain.HealthUp
	} else {
		result.Status = domain.HealthDown
	}
	return result
}

// CheckSite probes the site's health URL and stamps the result with the
// site name. Sites without a health URL are skipped (nil result).
func (c *Checker) CheckSite(ctx context.Context, site *domain.Site) *domain.HealthResult {
	if site.HealthCheckURL == "" {
		return nil
	}
	result := c.Check(ctx, site.HealthCheckURL)
	result.Site = site.Name
	return &result
}
