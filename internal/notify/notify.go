package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/MrSnakeDoc/armada/internal/domain"
	"github.com/MrSnakeDoc/armada/internal/logger"
	"github.com/MrSnakeDoc/armada/internal/utils"
)

// Notifier delivers an alert carrying the sites that are not UP. Delivery
// is best-effort; the monitor's contract ends at producing the list.
type Notifier interface {
	Alert(ctx context.Context, down []domain.HealthResult) error
}

// LogNotifier writes the alert to the log. It stands in when no delivery
// channel is configured.
type LogNotifier struct {
	log logger.Logger
}

func NewLogNotifier(log logger.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Alert(_ context.Context, down []domain.HealthResult) error {
	n.log.Warnf("ALERT: %d site(s) are not UP", len(down))
	for _, r := range down {
		n.log.Warn("site not UP",
			logger.String("site", r.Site),
			logger.String("status", string(r.Status)),
			logger.String("error", r.Error))
	}
	return nil
}

// WebhookNotifier posts a Slack-compatible payload to a webhook URL.
type WebhookNotifier struct {
	url    string
	client *http.Client
}

func NewWebhookNotifier(url string) *WebhookNotifier {
	return &WebhookNotifier{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (n *WebhookNotifier) Alert(ctx context.Context, down []domain.HealthResult) error {
	var b strings.Builder
	fmt.Fprintf(&b, ":rotating_light: %d site(s) are not UP\n", len(down))
	for _, r := range down {
		if r.Error != "" {
			fmt.Fprintf(&b, "• %s: %s (%s)\n", r.Site, r.Status, r.Error)
		} else {
			fmt.Fprintf(&b, "• %s: %s (HTTP %d)\n", r.Site, r.Status, r.StatusCode)
		}
	}

	payload, err := json.Marshal(map[string]string{"text": b.String()})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook delivery failed: %w", err)
	}
	defer utils.Close(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
