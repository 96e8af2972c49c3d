package closing

import (
	"fmt"
	"math"

	"github.com/sells-group/capex-close/internal/model"
)

// MissingDataPolicy controls how the accrual calculator treats wells whose
// extract left ITD blank for a category that has a VOW estimate. The wide
// master table is normally fully populated, so the policy only matters for
// partial extracts.
type MissingDataPolicy string

const (
	// UseVOWAsAccrual treats a missing ITD as $0: accrual = full VOW.
	UseVOWAsAccrual MissingDataPolicy = "use_vow_as_accrual"
	// ExcludeAndFlag nulls the well's accrual totals and flags it.
	ExcludeAndFlag MissingDataPolicy = "exclude_and_flag"
	// UsePriorPeriod substitutes the well's prior-period total accrual,
	// falling back to exclude when no prior value exists.
	UsePriorPeriod MissingDataPolicy = "use_prior_period"
)

// AccrualOptions configures an accrual calculation.
type AccrualOptions struct {
	MissingData MissingDataPolicy
}

// resolve maps unknown or empty policies to the safest behavior.
func (o AccrualOptions) resolve() MissingDataPolicy {
	switch o.MissingData {
	case UseVOWAsAccrual, UsePriorPeriod:
		return o.MissingData
	default:
		return ExcludeAndFlag
	}
}

// CategoryAccrual is the accrual waterfall for one cost category of one well.
type CategoryAccrual struct {
	ITD   float64 `json:"itd_amount"`
	VOW   float64 `json:"vow_amount"`
	Gross float64 `json:"gross_accrual"`
	Net   float64 `json:"net_accrual"`
}

// AccrualRow is the per-well accrual result across all four categories.
// Total fields are nil when the missing-data policy excluded the well.
type AccrualRow struct {
	WBSElement   string  `json:"wbs_element"`
	WellName     string  `json:"well_name"`
	BusinessUnit string  `json:"business_unit"`
	ActualWI     float64 `json:"wi_pct"`

	Drill    CategoryAccrual `json:"drill"`
	Comp     CategoryAccrual `json:"comp"`
	Flowback CategoryAccrual `json:"fb"`
	Hookup   CategoryAccrual `json:"hu"`

	TotalGross *float64 `json:"total_gross_accrual"`
	TotalNet   *float64 `json:"total_net_accrual"`
	PriorGross float64  `json:"prior_gross_accrual"`
	NetChange  *float64 `json:"net_change"`
	PctChange  *float64 `json:"pct_change"`

	ExceptionType     string         `json:"exception_type"`
	ExceptionSeverity model.Severity `json:"exception_severity"`
}

// Category returns the category slice of the row.
func (r *AccrualRow) Category(c model.CostCategory) CategoryAccrual {
	switch c {
	case model.CategoryDrill:
		return r.Drill
	case model.CategoryComp:
		return r.Comp
	case model.CategoryFlowback:
		return r.Flowback
	default:
		return r.Hookup
	}
}

// AccrualSummary aggregates accrual rows for the whole record set.
type AccrualSummary struct {
	TotalGrossAccrual float64  `json:"total_gross_accrual"`
	TotalNetAccrual   float64  `json:"total_net_accrual"`
	WellCount         int      `json:"well_count"`
	CalculatedCount   int      `json:"calculated_count"`
	ExceptionCount    int      `json:"exception_count"`
	PriorPeriodTotal  float64  `json:"prior_period_total"`
	NetChangeTotal    float64  `json:"net_change_total"`
	PctChangeTotal    *float64 `json:"pct_change_total"`
}

// AccrualResult is the full output of the accrual step.
type AccrualResult struct {
	Rows       []AccrualRow      `json:"accruals"`
	Summary    AccrualSummary    `json:"summary"`
	Exceptions []model.Exception `json:"exceptions"`
}

// swingThreshold is the fractional change vs prior period above which a
// Large Swing exception fires.
const swingThreshold = 0.25

// Accruals computes gross and net accruals per well per cost category.
// Gross accrual = VOW - ITD, net accrual = gross x actual WI%.
func Accruals(wells []model.WellRecord, opts AccrualOptions) AccrualResult {
	policy := opts.resolve()

	result := AccrualResult{
		Rows:       make([]AccrualRow, 0, len(wells)),
		Exceptions: []model.Exception{},
	}

	for i := range wells {
		w := &wells[i]
		row, excs := accrueWell(w, policy)
		result.Rows = append(result.Rows, row)
		result.Exceptions = append(result.Exceptions, excs...)

		if row.TotalGross != nil {
			result.Summary.TotalGrossAccrual += *row.TotalGross
			result.Summary.TotalNetAccrual += *row.TotalNet
			result.Summary.PriorPeriodTotal += row.PriorGross
			result.Summary.CalculatedCount++
			if row.NetChange != nil {
				result.Summary.NetChangeTotal += *row.NetChange
			}
		}
	}

	result.Summary.WellCount = len(result.Rows)
	result.Summary.ExceptionCount = len(result.Exceptions)
	if result.Summary.PriorPeriodTotal != 0 {
		pct := result.Summary.NetChangeTotal / result.Summary.PriorPeriodTotal
		result.Summary.PctChangeTotal = &pct
	}
	return result
}

func accrueWell(w *model.WellRecord, policy MissingDataPolicy) (AccrualRow, []model.Exception) {
	row := AccrualRow{
		WBSElement:   w.WBSElement,
		WellName:     w.WellName,
		BusinessUnit: w.BusinessUnit,
		ActualWI:     w.ActualWI,
		PriorGross:   w.PriorGrossAccrual,
	}

	var flags []flaggedException

	var totalGross float64
	excluded := false
	missingITD := false
	missingVOW := false
	zeroITD := false

	for _, cat := range model.Categories {
		a := w.Amounts(cat)
		ca := CategoryAccrual{ITD: a.ITD, VOW: a.VOW}

		switch {
		case a.VOWMissing:
			missingVOW = true
			excluded = true
		case a.ITDMissing:
			missingITD = true
			switch policy {
			case UseVOWAsAccrual:
				ca.ITD = 0
				ca.Gross = a.VOW
				ca.Net = ca.Gross * w.ActualWI
				totalGross += ca.Gross
			case UsePriorPeriod:
				// Handled at the well level below.
				excluded = true
			default:
				excluded = true
			}
		default:
			ca.Gross = a.VOW - a.ITD
			ca.Net = ca.Gross * w.ActualWI
			totalGross += ca.Gross
			if a.ITD == 0 && a.VOW > 0 {
				zeroITD = true
			}
		}

		setCategory(&row, cat, ca)
	}

	if missingITD {
		flags = append(flags, flaggedException{
			Type: model.ExceptionMissingITD, Severity: model.SeverityHigh,
			Detail:            "No ITD postings found in the SAP extract for this well.",
			RecommendedAction: "Confirm whether work has started; if yes, investigate missing cost postings.",
		})
	}
	if missingVOW {
		flags = append(flags, flaggedException{
			Type: model.ExceptionMissingVOW, Severity: model.SeverityMedium,
			Detail:            "Well is in the master list but has no VOW estimate from engineering.",
			RecommendedAction: "Request a VOW submission from the responsible engineer.",
		})
	}

	// UsePriorPeriod substitutes the prior total for the whole well when a
	// category could not be computed; with no prior value it excludes.
	if excluded && policy == UsePriorPeriod && !missingVOW && w.PriorGrossAccrual > 0 {
		totalGross = w.PriorGrossAccrual
		excluded = false
	}

	if !excluded {
		totalNet := totalGross * w.ActualWI
		row.TotalGross = &totalGross
		row.TotalNet = &totalNet

		netChange := totalGross - w.PriorGrossAccrual
		row.NetChange = &netChange
		if w.PriorGrossAccrual != 0 {
			pct := netChange / w.PriorGrossAccrual
			row.PctChange = &pct
		}

		if totalGross < 0 {
			totalITD, totalVOW := wellITDVOW(w)
			flags = append(flags, flaggedException{
				Type: model.ExceptionNegativeAccrual, Severity: model.SeverityHigh,
				Detail: fmt.Sprintf("ITD (%s) exceeds VOW (%s): possible over-invoice or stale VOW estimate.",
					FormatDollar(totalITD), FormatDollar(totalVOW)),
				RecommendedAction: "Verify ITD charges with AP and request an updated VOW from the engineer.",
			})
		}

		if w.PriorGrossAccrual > 0 && row.PctChange != nil && math.Abs(*row.PctChange) > swingThreshold {
			flags = append(flags, flaggedException{
				Type: model.ExceptionLargeSwing, Severity: model.SeverityMedium,
				Detail: fmt.Sprintf("Accrual changed by %.1f%% vs prior period (current %s, prior %s).",
					*row.PctChange*100, FormatDollar(totalGross), FormatDollar(w.PriorGrossAccrual)),
				RecommendedAction: "Validate the VOW estimate with the engineer and review ITD for unusual postings.",
			})
		}

		if zeroITD {
			flags = append(flags, flaggedException{
				Type: model.ExceptionZeroITD, Severity: model.SeverityLow,
				Detail:            "ITD is $0 despite an active VOW: work may not have started or costs are not yet posted.",
				RecommendedAction: "Verify the project start date and check for unposted invoices.",
			})
		}
	}

	excs := make([]model.Exception, 0, len(flags))
	types := make([]string, 0, len(flags))
	sevs := make([]model.Severity, 0, len(flags))
	for _, f := range flags {
		excs = append(excs, model.Exception{
			WBSElement:        w.WBSElement,
			WellName:          w.WellName,
			Type:              f.Type,
			Severity:          f.Severity,
			Detail:            f.Detail,
			RecommendedAction: f.RecommendedAction,
		})
		types = append(types, f.Type)
		sevs = append(sevs, f.Severity)
	}
	row.ExceptionType = joinTypes(types)
	row.ExceptionSeverity = model.WorstSeverity(sevs)

	return row, excs
}

type flaggedException struct {
	Type              string
	Severity          model.Severity
	Detail            string
	RecommendedAction string
}

func setCategory(row *AccrualRow, c model.CostCategory, ca CategoryAccrual) {
	switch c {
	case model.CategoryDrill:
		row.Drill = ca
	case model.CategoryComp:
		row.Comp = ca
	case model.CategoryFlowback:
		row.Flowback = ca
	default:
		row.Hookup = ca
	}
}

func wellITDVOW(w *model.WellRecord) (itd, vow float64) {
	for _, c := range model.Categories {
		a := w.Amounts(c)
		itd += a.ITD
		vow += a.VOW
	}
	return itd, vow
}

func joinTypes(types []string) string {
	out := ""
	for i, t := range types {
		if i > 0 {
			out += ", "
		}
		out += t
	}
	return out
}
