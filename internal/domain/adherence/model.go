// Package adherence maps member medication-adherence values onto the fixed
// red/amber/green taxonomy used by roster documents and selects which
// measures are worth charting for a given record.
package adherence

import (
	"fmt"
	"math"
	"strings"
)

// Bucket is the visual classification of one adherence value.
type Bucket int

const (
	BucketNone Bucket = iota
	BucketRed
	BucketAmber
	BucketGreen
)

// Bucket thresholds are part of the reporting contract: a value earns AMBER
// at 60 and GREEN at 80, inclusive on the lower edge of each bucket.
const (
	amberFloor = 60
	greenFloor = 80
)

func (b Bucket) String() string {
	switch b {
	case BucketRed:
		return "red"
	case BucketAmber:
		return "amber"
	case BucketGreen:
		return "green"
	default:
		return "none"
	}
}

// BucketOf maps a numeric adherence value to its bucket. NaN is the
// missing-value sentinel and maps to BucketNone, never an error.
func BucketOf(v float64) Bucket {
	switch {
	case math.IsNaN(v):
		return BucketNone
	case v < amberFloor:
		return BucketRed
	case v < greenFloor:
		return BucketAmber
	default:
		return BucketGreen
	}
}

// LegendEntry pairs a colored bucket with the label shown beside its legend
// swatch.
type LegendEntry struct {
	Bucket Bucket
	Label  string
}

// Legend lists the three colored buckets in display order. Labels derive
// from the same threshold constants BucketOf uses, so the legend and the
// grid cannot drift apart.
func Legend() []LegendEntry {
	return []LegendEntry{
		{Bucket: BucketRed, Label: fmt.Sprintf("< %d", amberFloor)},
		{Bucket: BucketAmber, Label: fmt.Sprintf("%d-%d", amberFloor, greenFloor-1)},
		{Bucket: BucketGreen, Label: fmt.Sprintf(">= %d", greenFloor)},
	}
}

// ---------------------------------------------------------------------------
// Measure definitions
// ---------------------------------------------------------------------------

// Record field suffixes for the three reporting periods, oldest first.
const (
	SuffixPrior2  = "_prior2"
	SuffixPrior1  = "_prior1"
	SuffixCurrent = "_current"
)

// MeasureDef names one tracked clinical measure and the record field prefix
// its three period values live under.
type MeasureDef struct {
	Label  string `yaml:"label" json:"label"`
	Prefix string `yaml:"prefix" json:"prefix"`
}

// PeriodFields returns the three record field names for the measure, oldest
// period first.
func (d MeasureDef) PeriodFields() [3]string {
	return [3]string{
		d.Prefix + SuffixPrior2,
		d.Prefix + SuffixPrior1,
		d.Prefix + SuffixCurrent,
	}
}

// Validate reports a configuration error for a blank label or prefix. A
// definition that cannot render is a caller error, caught before any
// document output is produced.
func (d MeasureDef) Validate() error {
	if strings.TrimSpace(d.Label) == "" {
		return fmt.Errorf("measure label is required")
	}
	if strings.TrimSpace(d.Prefix) == "" {
		return fmt.Errorf("measure %q: field prefix is required", d.Label)
	}
	return nil
}

// ValidateDefs checks an ordered definition list: non-empty, every entry
// valid, prefixes unique.
func ValidateDefs(defs []MeasureDef) error {
	if len(defs) == 0 {
		return fmt.Errorf("at least one measure definition is required")
	}
	seen := make(map[string]bool, len(defs))
	for _, d := range defs {
		if err := d.Validate(); err != nil {
			return err
		}
		if seen[d.Prefix] {
			return fmt.Errorf("duplicate measure prefix %q", d.Prefix)
		}
		seen[d.Prefix] = true
	}
	return nil
}

// ---------------------------------------------------------------------------
// Selection
// ---------------------------------------------------------------------------

// Row is the record view the selector needs: numeric lookup by field name.
// A field that is absent or not numeric reports ok=false.
type Row interface {
	Num(field string) (float64, bool)
}

// MeasureRow is one selected measure: its display label and the three
// period values, oldest first, with NaN marking a missing period.
type MeasureRow struct {
	Label  string
	Values [3]float64
}

// Select returns the measures worth charting for one record: those with at
// least one non-missing period value, in definition order. A measure whose
// three values are all missing is omitted outright, never padded with a
// blank row. Missing fields degrade to "not included"; Select has no error
// conditions.
func Select(row Row, defs []MeasureDef) []MeasureRow {
	var out []MeasureRow
	for _, def := range defs {
		values := [3]float64{math.NaN(), math.NaN(), math.NaN()}
		present := false
		for i, field := range def.PeriodFields() {
			v, ok := row.Num(field)
			if !ok || math.IsNaN(v) {
				continue
			}
			values[i] = v
			present = true
		}
		if present {
			out = append(out, MeasureRow{Label: def.Label, Values: values})
		}
	}
	return out
}

// PeriodLabels returns the two-digit labels for the three reporting periods
// ending at year, oldest first. Labels wrap modulo 100, so a span crossing
// a century boundary repeats low digits ("98", "99", "00"); callers wanting
// four-digit clarity must widen the label upstream.
func PeriodLabels(year int) [3]string {
	var out [3]string
	for i := 0; i < 3; i++ {
		y := year - 2 + i
		out[i] = fmt.Sprintf("%02d", ((y%100)+100)%100)
	}
	return out
}
