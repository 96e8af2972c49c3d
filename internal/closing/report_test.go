package closing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/capex-close/internal/model"
)

// reportWells is a three-well set producing one exception of each step:
// an over-invoiced well, a WI mismatch, and an over-budget well.
func reportWells() []model.WellRecord {
	neg := testWell("WBS-2001")
	neg.Drill = model.CategoryAmounts{ITD: 2_000_000, VOW: 1_700_000, OpsBudget: 2_500_000}

	mismatch := testWell("WBS-2002")
	mismatch.SystemWI = 0.85
	mismatch.ActualWI = 0.60
	mismatch.Comp = model.CategoryAmounts{ITD: 500_000, VOW: 900_000, OpsBudget: 1_000_000}

	over := testWell("WBS-2003")
	over.ActualWI = 1.0
	over.SystemWI = 1.0
	over.Flowback = model.CategoryAmounts{ITD: 400_000, VOW: 800_000, OpsBudget: 600_000}

	return []model.WellRecord{neg, mismatch, over}
}

func TestExceptions_All(t *testing.T) {
	report := Exceptions(reportWells(), "all", AccrualOptions{})

	assert.Equal(t, 3, report.TotalCount)
	assert.Equal(t, 1, report.CountsByType[model.ExceptionNegativeAccrual])
	assert.Equal(t, 1, report.CountsByType[model.ExceptionWIMismatch])
	assert.Equal(t, 1, report.CountsByType[model.ExceptionOverBudget])
	assert.Equal(t, 2, report.CountsBySeverity[model.SeverityHigh])
	assert.Equal(t, 1, report.CountsBySeverity[model.SeverityMedium])
}

func TestExceptions_SeverityFilterCaseInsensitive(t *testing.T) {
	wells := reportWells()

	for _, filter := range []string{"high", "HIGH", "High"} {
		report := Exceptions(wells, filter, AccrualOptions{})
		assert.Equal(t, 2, report.TotalCount, "filter %q", filter)
		for _, e := range report.Exceptions {
			assert.Equal(t, model.SeverityHigh, e.Severity)
		}
	}

	report := Exceptions(wells, "medium", AccrualOptions{})
	assert.Equal(t, 1, report.TotalCount)
	assert.Equal(t, model.ExceptionWIMismatch, report.Exceptions[0].Type)
}

func TestExceptions_EmptyFilterMeansAll(t *testing.T) {
	report := Exceptions(reportWells(), "", AccrualOptions{})
	assert.Equal(t, 3, report.TotalCount)
}

func TestExceptions_UnknownSeverityMatchesNothing(t *testing.T) {
	report := Exceptions(reportWells(), "critical", AccrualOptions{})
	assert.Equal(t, 0, report.TotalCount)
	assert.Empty(t, report.Exceptions)
}

func TestDetail_Found(t *testing.T) {
	wells := reportWells()
	detail := Detail(wells, "WBS-2002", AccrualOptions{})

	require.True(t, detail.Found)
	require.NotNil(t, detail.Well)
	assert.Equal(t, "WBS-2002", detail.Well.WBSElement)

	require.NotNil(t, detail.Accrual)
	assert.InDelta(t, 400_000, detail.Accrual.Comp.Gross, 0.001)

	require.NotNil(t, detail.NetDown)
	assert.InDelta(t, 900_000*0.25, detail.NetDown.NetDownAdjustment, 0.001)

	require.NotNil(t, detail.Outlook)
	require.Len(t, detail.Exceptions, 1)
	assert.Equal(t, model.ExceptionWIMismatch, detail.Exceptions[0].Type)
}

func TestDetail_NoNetDownWhenWIMatches(t *testing.T) {
	detail := Detail(reportWells(), "WBS-2001", AccrualOptions{})
	require.True(t, detail.Found)
	assert.Nil(t, detail.NetDown)
}

func TestDetail_NotFound(t *testing.T) {
	detail := Detail(reportWells(), "WBS-9999", AccrualOptions{})
	assert.False(t, detail.Found)
	assert.Contains(t, detail.Message, "WBS-9999")
	assert.Nil(t, detail.Well)
	assert.Nil(t, detail.Accrual)
}

func TestJournal_PositiveNet(t *testing.T) {
	w := testWell("WBS-2010")
	w.ActualWI = 1.0
	w.SystemWI = 1.0
	w.Drill = model.CategoryAmounts{ITD: 1_000_000, VOW: 1_500_000}

	entry := Journal([]model.WellRecord{w}, "Permian", "2026-01", AccrualOptions{})

	assert.InDelta(t, 500_000, entry.TotalNetAccrual, 0.001)
	assert.InDelta(t, 0, entry.TotalWIAdjustment, 0.001)
	assert.InDelta(t, 500_000, entry.NetAmount, 0.001)

	require.Len(t, entry.Lines, 2)
	assert.Equal(t, AccountCapexWIP, entry.Lines[0].Account)
	assert.InDelta(t, 500_000, entry.Lines[0].Debit, 0.001)
	assert.Equal(t, 0.0, entry.Lines[0].Credit)
	assert.Equal(t, AccountAccruedLiab, entry.Lines[1].Account)
	assert.InDelta(t, 500_000, entry.Lines[1].Credit, 0.001)

	assert.Contains(t, entry.Narrative, "$500.0K")
	assert.Contains(t, entry.Narrative, "Permian")
	assert.Contains(t, entry.Narrative, "2026-01")
}

func TestJournal_NegativeNetFlipsSides(t *testing.T) {
	w := testWell("WBS-2011")
	w.ActualWI = 1.0
	w.SystemWI = 1.0
	w.Drill = model.CategoryAmounts{ITD: 2_000_000, VOW: 1_600_000}

	entry := Journal([]model.WellRecord{w}, "Permian", "2026-01", AccrualOptions{})
	assert.InDelta(t, -400_000, entry.NetAmount, 0.001)

	require.Len(t, entry.Lines, 2)
	assert.Equal(t, AccountAccruedLiab, entry.Lines[0].Account)
	assert.InDelta(t, 400_000, entry.Lines[0].Debit, 0.001)
	assert.Equal(t, AccountCapexWIP, entry.Lines[1].Account)
	assert.InDelta(t, 400_000, entry.Lines[1].Credit, 0.001)
}

func TestSummary_PerUnitAndGrandTotal(t *testing.T) {
	permian := testWell("WBS-3001")
	permian.Drill = model.CategoryAmounts{ITD: 1_000_000, VOW: 1_400_000, OpsBudget: 1_500_000}

	bakken := testWell("WBS-3002")
	bakken.BusinessUnit = "Bakken"
	bakken.SystemWI = 0.85
	bakken.ActualWI = 0.60
	bakken.Comp = model.CategoryAmounts{ITD: 300_000, VOW: 700_000, OpsBudget: 800_000}

	cs := Summary([]model.WellRecord{permian, bakken}, "2026-01", AccrualOptions{})
	require.Len(t, cs.Units, 2)

	// Units are sorted by business unit name.
	assert.Equal(t, "Bakken", cs.Units[0].BusinessUnit)
	assert.Equal(t, "Permian", cs.Units[1].BusinessUnit)

	assert.InDelta(t, 400_000, cs.Units[0].GrossAccrual, 0.001)
	assert.InDelta(t, 700_000*0.25, cs.Units[0].NetDownAdjustment, 0.001)
	assert.Equal(t, 1, cs.Units[0].ExceptionCount) // WI mismatch

	assert.InDelta(t, 400_000, cs.Units[1].GrossAccrual, 0.001)
	assert.Equal(t, 0, cs.Units[1].ExceptionCount)

	assert.Equal(t, 2, cs.Total.WellCount)
	assert.InDelta(t, 800_000, cs.Total.GrossAccrual, 0.001)
	assert.InDelta(t, cs.Units[0].NetAccrual+cs.Units[1].NetAccrual, cs.Total.NetAccrual, 0.001)
	assert.Equal(t, 1, cs.Total.ExceptionCount)
	assert.Equal(t, "2026-01", cs.Period)
}
