// Package roster models the input rows a report run renders from: member
// records keyed by the market/pod/provider identity that decides which
// document each row lands in.
package roster

import (
	"fmt"
	"strconv"
	"strings"
)

// Field names recognized on a Record. Identity fields key grouping; the
// rest feed the document table.
const (
	FieldMarket    = "market"
	FieldSubmarket = "submarket"
	FieldEntity    = "managing_entity"
	FieldPod       = "pod"
	FieldProvider  = "provider"
	FieldNPI       = "npi"

	FieldMemberID        = "member_id"
	FieldMemberName      = "member_name"
	FieldDOB             = "dob"
	FieldRiskScore       = "risk_score"
	FieldMemberDetail    = "member_detail"
	FieldAdherenceDetail = "adherence_detail"
)

// Record is one input row: field name to scalar value. Values arrive as
// strings (CSV), numbers (database, JSON), or are absent entirely. Records
// are read-only inputs; nothing downstream mutates one.
type Record map[string]any

// Str returns the display form of a field, "" when absent.
func (r Record) Str(field string) string {
	v, ok := r[field]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// Num reports the numeric value of a field. Absent fields, empty cells and
// non-numeric text are not numbers; an explicit NaN is present and left to
// the caller to classify.
func (r Record) Num(field string) (float64, bool) {
	v, ok := r[field]
	if !ok || v == nil {
		return 0, false
	}
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// GroupKey is the identity shared by every record in one group. One key
// maps to exactly one output document.
type GroupKey struct {
	Market    string `json:"market"`
	Submarket string `json:"submarket"`
	Entity    string `json:"managing_entity"`
	Pod       string `json:"pod"`
	Provider  string `json:"provider"`
	NPI       string `json:"npi"`
}

// KeyOf extracts the identity fields of a record.
func KeyOf(r Record) GroupKey {
	return GroupKey{
		Market:    r.Str(FieldMarket),
		Submarket: r.Str(FieldSubmarket),
		Entity:    r.Str(FieldEntity),
		Pod:       r.Str(FieldPod),
		Provider:  r.Str(FieldProvider),
		NPI:       r.Str(FieldNPI),
	}
}

// String is the log form of a key.
func (k GroupKey) String() string {
	return k.Market + "/" + k.Pod + "/" + k.Provider
}

// RecordGroup is an ordered run of records sharing one identity key. Zero
// records is valid: the group still yields a header-only document.
type RecordGroup struct {
	Key     GroupKey
	Records []Record
}
