package health

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MrSnakeDoc/armada/internal/domain"
)

func TestCheckUp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	result := NewChecker(0).Check(context.Background(), srv.URL)

	if result.Status != domain.HealthUp {
		t.Errorf("status = %s, want UP", result.Status)
	}
	if result.StatusCode != http.StatusOK {
		t.Errorf("status code = %d, want 200", result.StatusCode)
	}
	if result.ResponseTimeMS <= 0 {
		t.Errorf("response time = %f, want > 0", result.ResponseTimeMS)
	}
}

func TestCheckDownOnNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	result := NewChecker(0).Check(context.Background(), srv.URL)

	if result.Status != domain.HealthDown {
		t.Errorf("status = %s, want DOWN", result.Status)
	}
	if result.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status code = %d, want 503", result.StatusCode)
	}
}

func TestCheckErrorOnUnreachable(t *testing.T) {
	// Port 1 on localhost should refuse connections.
	result := NewChecker(500 * time.Millisecond).Check(context.Background(), "http://127.0.0.1:1/")

	if result.Status != domain.HealthError {
		t.Errorf("status = %s, want ERROR", result.Status)
	}
	if result.Error == "" {
		t.Error("expected underlying error message to be retained")
	}
}

func TestCheckErrorOnTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer srv.Close()

	result := NewChecker(100 * time.Millisecond).Check(context.Background(), srv.URL)

	if result.Status != domain.HealthError {
		t.Errorf("status = %s, want ERROR", result.Status)
	}
}

func TestCheckSiteSkipsWithoutURL(t *testing.T) {
	c := NewChecker(0)

	if got := c.CheckSite(context.Background(), &domain.Site{Name: "blog"}); got != nil {
		t.Errorf("expected nil result for site without health URL, got %+v", got)
	}
}

func TestCheckSiteStampsName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	result := NewChecker(0).CheckSite(context.Background(), &domain.Site{
		Name:           "blog",
		HealthCheckURL: srv.URL,
	})
	if result == nil {
		t.Fatal("expected a result")
	}
	if result.Site != "blog" {
		t.Errorf("site = %q, want blog", result.Site)
	}
}
