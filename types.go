package main

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	defaultSQLitePath      = "out/analyses.db"
	artifactSuffix         = ".analysis.json"
	storeReportTopPhrases  = 10
	storeReportUrgentItems = 10
)

// AnalyzeConfig describes one analyze run: where the transcript comes from
// and where the report artifacts go.
type AnalyzeConfig struct {
	InputPath  string
	OutJSON    string
	DBPath     string
	ConfigPath string
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory %q: %w", dir, err)
	}
	return nil
}
