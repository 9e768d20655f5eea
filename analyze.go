package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tetraminz/risk_protocol/internal/analysis"
	"github.com/tetraminz/risk_protocol/internal/keywords"
	"github.com/tetraminz/risk_protocol/internal/recommend"
	"github.com/tetraminz/risk_protocol/internal/sentiment"
	"github.com/tetraminz/risk_protocol/internal/transcript"
)

// analysisArtifact is the JSON artifact written next to the transcript:
// the engine result plus run metadata.
type analysisArtifact struct {
	RunID         string `json:"run_id"`
	SourceFile    string `json:"source_file"`
	AnalyzedAtUTC string `json:"analyzed_at_utc"`
	*analysis.Result
}

func runAnalyzeCmd(args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	in := fs.String("in", "", "Path to transcript text file")
	outJSON := fs.String("out_json", "", "Output JSON artifact path (default <in>"+artifactSuffix+")")
	dbPath := fs.String("db", defaultSQLitePath, "SQLite artifact store path (empty string disables the store)")
	configPath := fs.String("config", "", "Optional keyword config YAML")
	if err := fs.Parse(args); err != nil {
		return err
	}

	return runAnalyze(AnalyzeConfig{
		InputPath:  *in,
		OutJSON:    *outJSON,
		DBPath:     *dbPath,
		ConfigPath: *configPath,
	})
}

func runAnalyze(cfg AnalyzeConfig) error {
	if strings.TrimSpace(cfg.InputPath) == "" {
		return errors.New("--in is required")
	}

	model, err := loadModel(cfg.ConfigPath)
	if err != nil {
		return err
	}
	engine := analysis.NewEngine(
		model.HIV,
		model.Mental,
		sentiment.NewScorer(model.PositiveWords, model.NegativeWords),
		model.UrgentPhrases,
	)

	utterances, err := transcript.LoadFile(cfg.InputPath)
	if err != nil {
		return err
	}

	result, err := engine.Analyze(utterances)
	if err != nil {
		return fmt.Errorf("analyze %q: %w", cfg.InputPath, err)
	}
	recommendations := recommend.Plan(result)

	fmt.Print(BuildAnalysisReport(cfg.InputPath, result, recommendations))

	runID := uuid.NewString()
	artifact := analysisArtifact{
		RunID:         runID,
		SourceFile:    cfg.InputPath,
		AnalyzedAtUTC: time.Now().UTC().Format(time.RFC3339),
		Result:        result,
	}

	outPath := cfg.OutJSON
	if strings.TrimSpace(outPath) == "" {
		outPath = cfg.InputPath + artifactSuffix
	}
	if err := writeArtifact(outPath, artifact); err != nil {
		return err
	}
	fmt.Printf("\nJSON results saved to: %s\n", outPath)

	if strings.TrimSpace(cfg.DBPath) != "" {
		if err := storeRun(cfg.DBPath, artifact, utterances); err != nil {
			return err
		}
		log.Printf("stored run %s in %s", runID, cfg.DBPath)
	}
	return nil
}

func loadModel(configPath string) (keywords.Model, error) {
	if strings.TrimSpace(configPath) == "" {
		return keywords.Default(), nil
	}
	return keywords.Load(configPath)
}

func writeArtifact(path string, artifact analysisArtifact) error {
	if err := ensureParentDir(path); err != nil {
		return err
	}
	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return fmt.Errorf("encode analysis artifact: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write artifact %q: %w", path, err)
	}
	return nil
}

func storeRun(dbPath string, artifact analysisArtifact, utterances []transcript.Utterance) error {
	if err := ensureParentDir(dbPath); err != nil {
		return err
	}
	db, err := openSQLite(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := ensureStoreSchema(db); err != nil {
		return err
	}
	return InsertRun(db, StoredRun{
		RunID:         artifact.RunID,
		SourceFile:    artifact.SourceFile,
		AnalyzedAtUTC: artifact.AnalyzedAtUTC,
		Utterances:    utterances,
		Result:        artifact.Result,
	})
}
