package model

// Severity ranks exceptions for triage. Lower rank is worse.
type Severity string

const (
	SeverityHigh   Severity = "HIGH"
	SeverityMedium Severity = "MEDIUM"
	SeverityLow    Severity = "LOW"
)

// severityRank orders severities worst-first for worst-of selection.
var severityRank = map[Severity]int{
	SeverityHigh:   0,
	SeverityMedium: 1,
	SeverityLow:    2,
}

// Rank returns the triage rank (0 worst). Unknown severities rank last.
func (s Severity) Rank() int {
	if r, ok := severityRank[s]; ok {
		return r
	}
	return 99
}

// WorstSeverity returns the worst (lowest-rank) severity in the list, or ""
// for an empty list.
func WorstSeverity(severities []Severity) Severity {
	if len(severities) == 0 {
		return ""
	}
	worst := severities[0]
	for _, s := range severities[1:] {
		if s.Rank() < worst.Rank() {
			worst = s
		}
	}
	return worst
}

// Exception types produced across the three close steps.
const (
	ExceptionNegativeAccrual = "Negative Accrual"
	ExceptionLargeSwing      = "Large Swing"
	ExceptionWIMismatch      = "WI% Mismatch"
	ExceptionOverBudget      = "Over Budget"

	// Missing-data policy exceptions (only when the loader flagged blanks).
	ExceptionMissingITD = "Missing ITD"
	ExceptionMissingVOW = "Missing VOW"
	ExceptionZeroITD    = "Zero ITD"
)

// Exception is a single flagged condition on one well. Produced fresh by
// each calculation call; never persisted or deduplicated.
type Exception struct {
	WBSElement        string   `json:"wbs_element"`
	WellName          string   `json:"well_name"`
	Type              string   `json:"exception_type"`
	Severity          Severity `json:"severity"`
	Detail            string   `json:"detail"`
	RecommendedAction string   `json:"recommended_action"`
}
