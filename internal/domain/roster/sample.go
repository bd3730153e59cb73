package roster

import "context"

// SampleSource serves a small embedded roster: four provider panels across
// four markets with measure values spanning every bucket. Used by
// `generate --sample` and by end-to-end tests, so no database or file is
// needed to see output.
type SampleSource struct{}

func (SampleSource) Records(context.Context) ([]Record, error) {
	return SampleRecords(), nil
}

// SampleRecords builds the demo rows fresh on every call so callers can
// never share mutable state through the sample set.
func SampleRecords() []Record {
	return []Record{
		{
			FieldMarket: "East", FieldSubmarket: "NY Metro", FieldEntity: "Atlantic IPA",
			FieldPod: "Primary Care", FieldProvider: "Dr. Smith", FieldNPI: "1568432709",
			FieldMemberID: "Member_001", FieldMemberName: "Alvarez, Maria", FieldDOB: "1980-01-01",
			FieldRiskScore:       0.92,
			FieldMemberDetail:    "<b>Plan:</b> MAPD HMO<br/>Last visit 2026-03-14",
			FieldAdherenceDetail: "Statin refill gap of 12 days in the current period.",
			"statin_prior2":      55.0, "statin_prior1": 65.0, "statin_current": 85.0,
		},
		{
			FieldMarket: "West", FieldSubmarket: "SoCal", FieldEntity: "Pacific IPA",
			FieldPod: "Cardiology", FieldProvider: "Dr. Lee", FieldNPI: "1790246835",
			FieldMemberID: "Member_002", FieldMemberName: "Chen, Wei", FieldDOB: "1981-02-02",
			FieldRiskScore:       0.76,
			FieldMemberDetail:    "<b>Plan:</b> MAPD PPO<br/>Annual wellness visit complete",
			FieldAdherenceDetail: "All three measures on track.",
			"statin_prior2":      82.0, "statin_prior1": 88.0, "statin_current": 91.0,
			"diabetes_prior2":    75.0, "diabetes_prior1": 81.0, "diabetes_current": 84.0,
			"hypertension_prior2": 68.0, "hypertension_prior1": 74.0, "hypertension_current": 80.0,
		},
		{
			FieldMarket: "Midwest", FieldSubmarket: "Chicago", FieldEntity: "Heartland IPA",
			FieldPod: "Endocrinology", FieldProvider: "Dr. Patel", FieldNPI: "1245683097",
			FieldMemberID: "Member_003", FieldMemberName: "Okafor, James", FieldDOB: "1982-03-03",
			FieldRiskScore:       0.88,
			FieldMemberDetail:    "<b>Plan:</b> D-SNP<br/>New to panel this year",
			FieldAdherenceDetail: "Diabetes therapy started mid-year; prior periods not applicable.",
			"diabetes_current":   72.0,
		},
		{
			FieldMarket: "South", FieldSubmarket: "Atlanta", FieldEntity: "Gulf IPA",
			FieldPod: "Family Medicine", FieldProvider: "Dr. Johnson", FieldNPI: "1387920465",
			FieldMemberID: "Member_004", FieldMemberName: "Dubois, Claire", FieldDOB: "1983-04-04",
			FieldRiskScore:       0.64,
			FieldMemberDetail:    "<b>Plan:</b> MAPD HMO<br/>No active adherence measures",
			FieldAdherenceDetail: "Not enrolled in any tracked therapy class.",
		},
		{
			FieldMarket: "East", FieldSubmarket: "NY Metro", FieldEntity: "Atlantic IPA",
			FieldPod: "Primary Care", FieldProvider: "Dr. Smith", FieldNPI: "1568432709",
			FieldMemberID: "Member_005", FieldMemberName: "Goldberg, Ruth", FieldDOB: "1984-05-05",
			FieldRiskScore:       0.95,
			FieldMemberDetail:    "<b>Plan:</b> MAPD HMO<br/>High-risk outreach list",
			FieldAdherenceDetail: "Hypertension PDC trending down three periods running.",
			"statin_prior2":      90.0, "statin_prior1": 92.0, "statin_current": 94.0,
			"hypertension_prior2": 71.0, "hypertension_prior1": 64.0, "hypertension_current": 52.0,
		},
		{
			FieldMarket: "West", FieldSubmarket: "SoCal", FieldEntity: "Pacific IPA",
			FieldPod: "Cardiology", FieldProvider: "Dr. Lee", FieldNPI: "1790246835",
			FieldMemberID: "Member_006", FieldMemberName: "Nakamura, Ken", FieldDOB: "1985-06-06",
			FieldRiskScore:       0.81,
			FieldMemberDetail:    "<b>Plan:</b> MAPD PPO",
			FieldAdherenceDetail: "Holding in the watch band on both measures.",
			"statin_prior2":      66.0, "statin_prior1": 71.0, "statin_current": 78.0,
			"diabetes_prior2":    62.0, "diabetes_prior1": 69.0, "diabetes_current": 75.0,
		},
		{
			FieldMarket: "South", FieldSubmarket: "Atlanta", FieldEntity: "Gulf IPA",
			FieldPod: "Family Medicine", FieldProvider: "Dr. Johnson", FieldNPI: "1387920465",
			FieldMemberID: "Member_007", FieldMemberName: "Reyes, Daniela", FieldDOB: "1986-07-07",
			FieldRiskScore:       0.69,
			FieldMemberDetail:    "<b>Plan:</b> MA only<br/>Pharmacy data unavailable",
			FieldAdherenceDetail: "No claims feed for this member yet.",
		},
		{
			FieldMarket: "Midwest", FieldSubmarket: "Chicago", FieldEntity: "Heartland IPA",
			FieldPod: "Endocrinology", FieldProvider: "Dr. Patel", FieldNPI: "1245683097",
			FieldMemberID: "Member_008", FieldMemberName: "Svensson, Lars", FieldDOB: "1987-08-08",
			FieldRiskScore:       0.90,
			FieldMemberDetail:    "<b>Plan:</b> D-SNP",
			FieldAdherenceDetail: "Consistent top-band adherence across the triad.",
			"statin_prior2":      88.0, "statin_prior1": 90.0, "statin_current": 93.0,
			"diabetes_prior2":    85.0, "diabetes_prior1": 87.0, "diabetes_current": 90.0,
			"hypertension_prior2": 82.0, "hypertension_prior1": 86.0, "hypertension_current": 88.0,
		},
		{
			FieldMarket: "East", FieldSubmarket: "NY Metro", FieldEntity: "Atlantic IPA",
			FieldPod: "Primary Care", FieldProvider: "Dr. Smith", FieldNPI: "1568432709",
			FieldMemberID: "Member_009", FieldMemberName: "Thompson, Earl", FieldDOB: "1988-09-09",
			FieldRiskScore:       0.73,
			FieldMemberDetail:    "<b>Plan:</b> MAPD HMO<br/>Declined mail-order pharmacy",
			FieldAdherenceDetail: "Statin PDC declining; outreach attempted 2026-05-02.",
			"statin_prior2":      58.0, "statin_prior1": 49.0, "statin_current": 41.0,
		},
		{
			FieldMarket: "West", FieldSubmarket: "SoCal", FieldEntity: "Pacific IPA",
			FieldPod: "Cardiology", FieldProvider: "Dr. Lee", FieldNPI: "1790246835",
			FieldMemberID: "Member_010", FieldMemberName: "Ibrahim, Fatima", FieldDOB: "1989-10-10",
			FieldRiskScore:       0.85,
			FieldMemberDetail:    "<b>Plan:</b> MAPD PPO<br/>Transferred from Dr. Smith 2026-01",
			FieldAdherenceDetail: "Gap period during plan transfer; current period recovering.",
			"statin_prior2":      77.0, "statin_current": 83.0,
			"hypertension_prior1": 59.0, "hypertension_current": 61.0,
		},
	}
}
