package deploy

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/MrSnakeDoc/armada/internal/domain"
	"github.com/MrSnakeDoc/armada/internal/logger"
)

// ReportWriter persists each run's aggregate report as an immutable JSON
// file under the log directory.
type ReportWriter struct {
	dir string
	log logger.Logger
}

func NewReportWriter(dir string, log logger.Logger) *ReportWriter {
	return &ReportWriter{dir: dir, log: log}
}

// Write stores the report as deployment_<YYYYMMDD_HHMMSS>.json and returns
// the file path.
func (w *ReportWriter) Write(report *domain.RunReport) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create log dir: %w", err)
	}

	path := filepath.Join(w.dir, fmt.Sprintf("deployment_%s.json", report.Timestamp.Format("20060102_150405")))

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal run report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write run report: %w", err)
	}

	w.log.Info("run report saved", logger.String("path", path))
	return path, nil
}
