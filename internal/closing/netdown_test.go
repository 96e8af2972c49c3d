package closing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/capex-close/internal/model"
)

func TestNetDown_Adjustment(t *testing.T) {
	w := testWell("WBS-1003")
	w.SystemWI = 0.85
	w.ActualWI = 0.60
	w.Drill = model.CategoryAmounts{VOW: 3_000_000}
	w.Comp = model.CategoryAmounts{VOW: 2_000_000}

	res := NetDown([]model.WellRecord{w})
	require.Len(t, res.Adjustments, 1)
	rec := res.Adjustments[0]

	assert.InDelta(t, 5_000_000, rec.TotalSystemCost, 0.001)
	assert.InDelta(t, 0.25, rec.WIDiscrepancy, 0.0001)
	assert.InDelta(t, 1_250_000, rec.NetDownAdjustment, 0.001)
	assert.InDelta(t, 3_000_000, rec.AdjustedNetCost, 0.001)
}

func TestNetDown_MatchingWIProducesNoRecord(t *testing.T) {
	w := testWell("WBS-1001")
	w.Drill = model.CategoryAmounts{VOW: 4_000_000}

	res := NetDown([]model.WellRecord{w})
	assert.Empty(t, res.Adjustments)
	assert.Equal(t, 1, res.Summary.WellCount)
	assert.Equal(t, 0, res.Summary.AdjustedCount)
}

func TestNetDown_NegativeDiscrepancy(t *testing.T) {
	// System WI below actual: the adjustment books the other direction.
	w := testWell("WBS-1007")
	w.SystemWI = 0.50
	w.ActualWI = 0.70
	w.Drill = model.CategoryAmounts{VOW: 1_000_000}

	res := NetDown([]model.WellRecord{w})
	require.Len(t, res.Adjustments, 1)
	assert.InDelta(t, -200_000, res.Adjustments[0].NetDownAdjustment, 0.001)
	assert.InDelta(t, 700_000, res.Adjustments[0].AdjustedNetCost, 0.001)
}

func TestNetDown_Exceptions(t *testing.T) {
	w := testWell("WBS-1003")
	w.SystemWI = 0.85
	w.ActualWI = 0.60
	w.Drill = model.CategoryAmounts{VOW: 5_000_000}

	excs := NetDown([]model.WellRecord{w}).Exceptions()
	require.Len(t, excs, 1)
	assert.Equal(t, model.ExceptionWIMismatch, excs[0].Type)
	assert.Equal(t, model.SeverityMedium, excs[0].Severity)
	assert.Contains(t, excs[0].Detail, "85.0%")
	assert.Contains(t, excs[0].Detail, "60.0%")
	assert.Contains(t, excs[0].Detail, "$1.3M")
}
