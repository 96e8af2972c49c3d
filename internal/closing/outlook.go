package closing

import (
	"fmt"

	"github.com/sells-group/capex-close/internal/model"
)

// CategoryOutlook is the forward projection for one cost category of one
// well. InSystem is the committed cost already reflected at actual WI%;
// FutureOutlook is what remains of the ops budget after it.
type CategoryOutlook struct {
	VOW           float64 `json:"vow_amount"`
	InSystem      float64 `json:"total_in_system"`
	OpsBudget     float64 `json:"ops_budget"`
	FutureOutlook float64 `json:"future_outlook"`
}

// OutlookRow is the per-well projection across all four categories.
type OutlookRow struct {
	WBSElement   string  `json:"wbs_element"`
	WellName     string  `json:"well_name"`
	BusinessUnit string  `json:"business_unit"`
	ActualWI     float64 `json:"wi_pct"`

	Drill    CategoryOutlook `json:"drill"`
	Comp     CategoryOutlook `json:"comp"`
	Flowback CategoryOutlook `json:"fb"`
	Hookup   CategoryOutlook `json:"hu"`

	TotalInSystem      float64 `json:"total_in_system"`
	TotalOpsBudget     float64 `json:"total_ops_budget"`
	TotalFutureOutlook float64 `json:"total_future_outlook"`
	OverBudget         bool    `json:"over_budget"`
}

// Category returns the category slice of the row.
func (r *OutlookRow) Category(c model.CostCategory) CategoryOutlook {
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

// OutlookSummary aggregates outlook rows for the whole record set.
type OutlookSummary struct {
	TotalInSystem      float64 `json:"total_in_system"`
	TotalOpsBudget     float64 `json:"total_ops_budget"`
	TotalFutureOutlook float64 `json:"total_future_outlook"`
	WellCount          int     `json:"well_count"`
	OverBudgetCount    int     `json:"over_budget_count"`
}

// OutlookResult is the full output of the outlook step.
type OutlookResult struct {
	Rows       []OutlookRow      `json:"outlook"`
	Summary    OutlookSummary    `json:"summary"`
	Exceptions []model.Exception `json:"exceptions"`
}

// Outlook projects remaining budget per well per category. In-system cost is
// VOW at actual WI%, future outlook is ops budget minus in-system cost.
func Outlook(wells []model.WellRecord) OutlookResult {
	result := OutlookResult{
		Rows:       make([]OutlookRow, 0, len(wells)),
		Exceptions: []model.Exception{},
	}

	for i := range wells {
		w := &wells[i]
		row := OutlookRow{
			WBSElement:   w.WBSElement,
			WellName:     w.WellName,
			BusinessUnit: w.BusinessUnit,
			ActualWI:     w.ActualWI,
		}

		for _, cat := range model.Categories {
			a := w.Amounts(cat)
			co := CategoryOutlook{
				VOW:       a.VOW,
				InSystem:  a.VOW * w.ActualWI,
				OpsBudget: a.OpsBudget,
			}
			co.FutureOutlook = co.OpsBudget - co.InSystem

			switch cat {
			case model.CategoryDrill:
				row.Drill = co
			case model.CategoryComp:
				row.Comp = co
			case model.CategoryFlowback:
				row.Flowback = co
			default:
				row.Hookup = co
			}

			row.TotalInSystem += co.InSystem
			row.TotalOpsBudget += co.OpsBudget
			row.TotalFutureOutlook += co.FutureOutlook
		}

		if row.TotalFutureOutlook < 0 {
			row.OverBudget = true
			result.Summary.OverBudgetCount++
			result.Exceptions = append(result.Exceptions, model.Exception{
				WBSElement: w.WBSElement,
				WellName:   w.WellName,
				Type:       model.ExceptionOverBudget,
				Severity:   model.SeverityHigh,
				Detail: fmt.Sprintf("Committed cost in system (%s) exceeds the ops budget (%s) by %s.",
					FormatDollar(row.TotalInSystem), FormatDollar(row.TotalOpsBudget),
					FormatDollar(-row.TotalFutureOutlook)),
				RecommendedAction: "Review remaining scope with operations and submit a supplemental AFE if the overrun is real.",
			})
		}

		result.Rows = append(result.Rows, row)
		result.Summary.TotalInSystem += row.TotalInSystem
		result.Summary.TotalOpsBudget += row.TotalOpsBudget
		result.Summary.TotalFutureOutlook += row.TotalFutureOutlook
	}

	result.Summary.WellCount = len(result.Rows)
	return result
}
