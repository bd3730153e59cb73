package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/careops/rosterpdf/internal/config"
	"github.com/careops/rosterpdf/internal/domain/roster"
)

func testConfig() *config.Config {
	return &config.Config{
		Env:      "test",
		LogLevel: "info",
		PageSize: "Letter",
		Workers:  2,
	}
}

func TestBuildGenerator_Defaults(t *testing.T) {
	gen, err := buildGenerator(testConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(gen.Measures()) != 3 {
		t.Errorf("expected 3 default measures, got %d", len(gen.Measures()))
	}
}

func TestBuildGenerator_BadPageSize(t *testing.T) {
	cfg := testConfig()
	cfg.PageSize = "Tabloid"
	if _, err := buildGenerator(cfg); err == nil {
		t.Error("expected error for unknown page size")
	}
}

func TestBuildGenerator_MeasuresFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "measures.yaml")
	content := "measures:\n" +
		"  - label: Statin\n    prefix: statin\n" +
		"  - label: Beta Blocker\n    prefix: beta_blocker\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write measures file: %v", err)
	}

	cfg := testConfig()
	cfg.MeasuresFile = path
	gen, err := buildGenerator(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defs := gen.Measures()
	if len(defs) != 2 {
		t.Fatalf("expected 2 measures, got %d", len(defs))
	}
	if defs[1].Label != "Beta Blocker" {
		t.Errorf("expected Beta Blocker, got %s", defs[1].Label)
	}
}

func TestBuildGenerator_BadMeasuresFile(t *testing.T) {
	cfg := testConfig()
	cfg.MeasuresFile = filepath.Join(t.TempDir(), "nope.yaml")
	if _, err := buildGenerator(cfg); err == nil {
		t.Error("expected error for missing measures file")
	}
}

func TestBuildService_NarrativeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "narrative.txt")
	if err := os.WriteFile(path, []byte("<b>Q3 review</b>\n"), 0o644); err != nil {
		t.Fatalf("write narrative file: %v", err)
	}

	cfg := testConfig()
	cfg.OutputDir = t.TempDir()
	cfg.NarrativeFile = path
	svc, err := buildService(cfg, zerolog.Nop(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc == nil {
		t.Fatal("expected a service")
	}
}

func TestBuildService_MissingNarrativeFile(t *testing.T) {
	cfg := testConfig()
	cfg.NarrativeFile = filepath.Join(t.TempDir(), "nope.txt")
	if _, err := buildService(cfg, zerolog.Nop(), nil); err == nil {
		t.Error("expected error for missing narrative file")
	}
}

func TestResolveSource_Sample(t *testing.T) {
	src, pool, err := resolveSource(context.Background(), testConfig(), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pool != nil {
		t.Error("expected no pool for the sample source")
	}
	if _, ok := src.(roster.SampleSource); !ok {
		t.Errorf("expected SampleSource, got %T", src)
	}
}

func TestResolveSource_CSV(t *testing.T) {
	cfg := testConfig()
	cfg.CSVPath = "roster.csv"
	src, pool, err := resolveSource(context.Background(), cfg, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pool != nil {
		t.Error("expected no pool for the csv source")
	}
	if _, ok := src.(*roster.CSVSource); !ok {
		t.Errorf("expected CSVSource, got %T", src)
	}
}

func TestResolveSource_None(t *testing.T) {
	src, pool, err := resolveSource(context.Background(), testConfig(), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if src != nil || pool != nil {
		t.Error("expected no source when nothing is configured")
	}
}

func TestNewLogger_BadLevelFallsBack(t *testing.T) {
	cfg := testConfig()
	cfg.LogLevel = "chatty"
	logger := newLogger(cfg)
	if logger.GetLevel() != zerolog.InfoLevel {
		t.Errorf("expected info level, got %s", logger.GetLevel())
	}
}

func TestNewLogger_Level(t *testing.T) {
	cfg := testConfig()
	cfg.LogLevel = "debug"
	logger := newLogger(cfg)
	if logger.GetLevel() != zerolog.DebugLevel {
		t.Errorf("expected debug level, got %s", logger.GetLevel())
	}
}
