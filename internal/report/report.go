package report

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/nate2211/github-analytics/internal/config"
	"github.com/nate2211/github-analytics/internal/domain"
)

const cliReportFileName = "analytics_cli.json"

// DefaultCLIPath returns where the CLI persists its last report.
func DefaultCLIPath() (string, error) {
	dir, err := config.AppDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, cliReportFileName), nil
}

// Write serializes the report to path as indented JSON.
func Write(path string, r *domain.Report) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
