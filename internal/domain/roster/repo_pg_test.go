package roster

import (
	"math/big"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

func TestNewPGSource_ValidatesTableName(t *testing.T) {
	cases := []struct {
		table string
		valid bool
	}{
		{"provider_roster", true},
		{"Roster2026", true},
		{"_staging", true},
		{"", false},
		{"2026_roster", false},
		{"roster; DROP TABLE members", false},
		{"roster-2026", false},
		{"public.provider_roster", false},
	}
	for _, tc := range cases {
		_, err := NewPGSource(nil, tc.table)
		if tc.valid && err != nil {
			t.Errorf("table %q: unexpected error: %v", tc.table, err)
		}
		if !tc.valid && err == nil {
			t.Errorf("table %q: expected error", tc.table)
		}
	}
}

func TestNormalizeDBValue(t *testing.T) {
	num := pgtype.Numeric{Int: big.NewInt(855), Exp: -1, Valid: true}

	cases := []struct {
		name string
		in   any
		want any
	}{
		{"nil", nil, nil},
		{"string", "Dr. Smith", "Dr. Smith"},
		{"float64", 85.5, 85.5},
		{"int64", int64(3), int64(3)},
		{"float32 widens", float32(2.5), 2.5},
		{"numeric", num, 85.5},
		{"null numeric", pgtype.Numeric{}, nil},
		{"date", time.Date(1954, 3, 17, 0, 0, 0, 0, time.UTC), "1954-03-17"},
		{"bool", true, true},
	}
	for _, tc := range cases {
		if got := normalizeDBValue(tc.in); got != tc.want {
			t.Errorf("%s: expected %v (%T), got %v (%T)", tc.name, tc.want, tc.want, got, got)
		}
	}
}
