package closing

import (
	"fmt"

	"github.com/sells-group/capex-close/internal/model"
)

// NetDownRecord is the correction for one well whose booked working interest
// differs from the actual one. Wells with matching percentages produce no
// record at all.
type NetDownRecord struct {
	WBSElement   string `json:"wbs_element"`
	WellName     string `json:"well_name"`
	BusinessUnit string `json:"business_unit"`

	SystemWI          float64 `json:"system_wi_pct"`
	ActualWI          float64 `json:"wi_pct"`
	TotalSystemCost   float64 `json:"total_system_cost"`
	WIDiscrepancy     float64 `json:"wi_discrepancy"`
	NetDownAdjustment float64 `json:"net_down_adjustment"`
	AdjustedNetCost   float64 `json:"adjusted_net_cost"`
}

// NetDownSummary aggregates the adjustment records.
type NetDownSummary struct {
	TotalSystemCost float64 `json:"total_system_cost"`
	TotalAdjustment float64 `json:"total_net_down_adjustment"`
	TotalAdjusted   float64 `json:"total_adjusted_net_cost"`
	WellCount       int     `json:"well_count"`
	AdjustedCount   int     `json:"adjusted_count"`
}

// NetDownResult is the full output of the net-down step.
type NetDownResult struct {
	Adjustments []NetDownRecord `json:"adjustments"`
	Summary     NetDownSummary  `json:"summary"`
}

// NetDown finds every well where the accounting system carries a different
// working interest than the actual one and computes the correction. The
// comparison is exact, no tolerance band.
func NetDown(wells []model.WellRecord) NetDownResult {
	result := NetDownResult{Adjustments: []NetDownRecord{}}
	result.Summary.WellCount = len(wells)

	for i := range wells {
		w := &wells[i]
		if w.SystemWI == w.ActualWI {
			continue
		}

		cost := w.TotalVOW()
		rec := NetDownRecord{
			WBSElement:        w.WBSElement,
			WellName:          w.WellName,
			BusinessUnit:      w.BusinessUnit,
			SystemWI:          w.SystemWI,
			ActualWI:          w.ActualWI,
			TotalSystemCost:   cost,
			WIDiscrepancy:     w.SystemWI - w.ActualWI,
			NetDownAdjustment: cost * (w.SystemWI - w.ActualWI),
			AdjustedNetCost:   cost * w.ActualWI,
		}
		result.Adjustments = append(result.Adjustments, rec)

		result.Summary.TotalSystemCost += rec.TotalSystemCost
		result.Summary.TotalAdjustment += rec.NetDownAdjustment
		result.Summary.TotalAdjusted += rec.AdjustedNetCost
	}

	result.Summary.AdjustedCount = len(result.Adjustments)
	return result
}

// Exceptions derives a WI% Mismatch notice per adjustment record for the
// unified exception view.
func (r NetDownResult) Exceptions() []model.Exception {
	excs := make([]model.Exception, 0, len(r.Adjustments))
	for _, rec := range r.Adjustments {
		excs = append(excs, model.Exception{
			WBSElement: rec.WBSElement,
			WellName:   rec.WellName,
			Type:       model.ExceptionWIMismatch,
			Severity:   model.SeverityMedium,
			Detail: fmt.Sprintf("System WI %.1f%% differs from actual WI %.1f%%: net-down adjustment of %s required.",
				rec.SystemWI*100, rec.ActualWI*100, FormatDollar(rec.NetDownAdjustment)),
			RecommendedAction: "Correct the WI% in the accounting system and book the net-down adjustment.",
		})
	}
	return excs
}
