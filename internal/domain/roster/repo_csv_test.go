package roster

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "roster.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return path
}

func TestCSVSource_Records(t *testing.T) {
	path := writeCSV(t, `market,pod,provider,member_id,statin_current
East,Primary Care,Dr. Smith,M1,85.5
West,Cardiology,Dr. Lee,M2,
`)

	src := NewCSVSource(path)
	records, err := src.Records(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	if got := records[0].Str(FieldProvider); got != "Dr. Smith" {
		t.Errorf("expected Dr. Smith, got %q", got)
	}
	if v, ok := records[0].Num("statin_current"); !ok || v != 85.5 {
		t.Errorf("expected 85.5, got %v ok=%v", v, ok)
	}
	// empty cell is a missing field, not a zero
	if _, ok := records[1].Num("statin_current"); ok {
		t.Error("expected empty cell to be missing")
	}
}

func TestCSVSource_HeaderOnly(t *testing.T) {
	path := writeCSV(t, "market,pod,provider\n")
	records, err := NewCSVSource(path).Records(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected no records, got %d", len(records))
	}
}

func TestCSVSource_MissingFile(t *testing.T) {
	src := NewCSVSource(filepath.Join(t.TempDir(), "nope.csv"))
	if _, err := src.Records(context.Background()); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestCSVSource_CanceledContext(t *testing.T) {
	path := writeCSV(t, "market,pod\nEast,Primary Care\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewCSVSource(path).Records(ctx); err == nil {
		t.Error("expected error for canceled context")
	}
}
