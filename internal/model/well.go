// Package model defines the core domain types for the monthly CapEx close:
// well records, cost categories, phase schedules, exceptions, and audit runs.
package model

import (
	"sort"
	"time"
)

// WellStatus is the lifecycle status of a well project.
type WellStatus string

const (
	StatusActive    WellStatus = "Active"
	StatusComplete  WellStatus = "Complete"
	StatusSuspended WellStatus = "Suspended"
)

// CostCategory is one of the four fixed cost buckets tracked per well.
type CostCategory string

const (
	CategoryDrill    CostCategory = "drill"
	CategoryComp     CostCategory = "comp"
	CategoryFlowback CostCategory = "fb"
	CategoryHookup   CostCategory = "hu"
)

// Categories lists all cost categories in canonical order.
var Categories = []CostCategory{CategoryDrill, CategoryComp, CategoryFlowback, CategoryHookup}

// DisplayName returns the human-readable category name used in reports.
func (c CostCategory) DisplayName() string {
	switch c {
	case CategoryDrill:
		return "Drilling"
	case CategoryComp:
		return "Completions"
	case CategoryFlowback:
		return "Flowback"
	case CategoryHookup:
		return "Hookup"
	}
	return string(c)
}

// LumpSum reports whether the category allocates as a single-month lump sum
// instead of linearly by day. Only Hookup does.
func (c CostCategory) LumpSum() bool {
	return c == CategoryHookup
}

// Span returns the [start, end] phase pair whose planned dates bound the
// category's allocation window. Hookup anchors on a single day.
func (c CostCategory) Span() (start, end Phase) {
	switch c {
	case CategoryDrill:
		return PhaseSpud, PhaseTD
	case CategoryComp:
		return PhaseFracStart, PhaseFracEnd
	case CategoryFlowback:
		return PhaseFracEnd, PhaseFirstProduction
	default: // Hookup
		return PhaseFirstProduction, PhaseFirstProduction
	}
}

// CategoryAmounts holds the four money fields tracked per cost category.
// The wide master table is normally fully populated; the Missing flags are
// set by the loader when a cell is blank and feed the optional missing-data
// accrual policy.
type CategoryAmounts struct {
	Budget     float64 `json:"budget"`
	ITD        float64 `json:"itd"`
	VOW        float64 `json:"vow"`
	OpsBudget  float64 `json:"ops_budget"`
	ITDMissing bool    `json:"-"`
	VOWMissing bool    `json:"-"`
}

// WellRecord is one row of the well registry ("WBS master") wide table.
type WellRecord struct {
	WBSElement   string     `json:"wbs_element"`
	WellName     string     `json:"well_name"`
	AFENumber    string     `json:"afe_number"`
	BusinessUnit string     `json:"business_unit"`
	Status       WellStatus `json:"status"`
	StartDate    time.Time  `json:"start_date"`

	// ActualWI is the true working-interest fraction; SystemWI is the
	// fraction recorded in the accounting system. They may legitimately
	// diverge, which is what the net-down step corrects.
	ActualWI float64 `json:"wi_pct"`
	SystemWI float64 `json:"system_wi_pct"`

	Drill    CategoryAmounts `json:"drill"`
	Comp     CategoryAmounts `json:"comp"`
	Flowback CategoryAmounts `json:"fb"`
	Hookup   CategoryAmounts `json:"hu"`

	PriorGrossAccrual float64 `json:"prior_gross_accrual"`
}

// Amounts returns the money fields for one category.
func (w *WellRecord) Amounts(c CostCategory) CategoryAmounts {
	switch c {
	case CategoryDrill:
		return w.Drill
	case CategoryComp:
		return w.Comp
	case CategoryFlowback:
		return w.Flowback
	default:
		return w.Hookup
	}
}

// SetAmounts stores the money fields for one category.
func (w *WellRecord) SetAmounts(c CostCategory, a CategoryAmounts) {
	switch c {
	case CategoryDrill:
		w.Drill = a
	case CategoryComp:
		w.Comp = a
	case CategoryFlowback:
		w.Flowback = a
	default:
		w.Hookup = a
	}
}

// TotalVOW sums value-of-work across all categories.
func (w *WellRecord) TotalVOW() float64 {
	var t float64
	for _, c := range Categories {
		t += w.Amounts(c).VOW
	}
	return t
}

// TotalOpsBudget sums the operations budget across all categories.
func (w *WellRecord) TotalOpsBudget() float64 {
	var t float64
	for _, c := range Categories {
		t += w.Amounts(c).OpsBudget
	}
	return t
}

// BusinessUnits returns the sorted distinct business units in a record set.
func BusinessUnits(wells []WellRecord) []string {
	seen := map[string]bool{}
	var units []string
	for i := range wells {
		bu := wells[i].BusinessUnit
		if !seen[bu] {
			seen[bu] = true
			units = append(units, bu)
		}
	}
	sort.Strings(units)
	return units
}
