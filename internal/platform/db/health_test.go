package db

import (
	"encoding/json"
	"testing"
)

func TestStats_JSONShape(t *testing.T) {
	stats := Stats{
		TotalConns:    10,
		IdleConns:     5,
		AcquiredConns: 5,
		MaxConns:      20,
	}

	data, err := json.Marshal(stats)
	if err != nil {
		t.Fatalf("marshal stats: %v", err)
	}

	var decoded map[string]int32
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal stats: %v", err)
	}

	want := map[string]int32{
		"total_conns":    10,
		"idle_conns":     5,
		"acquired_conns": 5,
		"max_conns":      20,
	}
	for key, val := range want {
		if decoded[key] != val {
			t.Errorf("expected %s=%d, got %d", key, val, decoded[key])
		}
	}
}
