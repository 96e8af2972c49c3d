package dataload

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/capex-close/internal/model"
)

func TestWells_All(t *testing.T) {
	l := New("testdata")
	wells, err := l.Wells(BUAll)
	require.NoError(t, err)
	require.Len(t, wells, 3)

	w := wells[0]
	assert.Equal(t, "WBS-1001", w.WBSElement)
	assert.Equal(t, "Maverick 14-22H", w.WellName)
	assert.Equal(t, "AFE-26-041", w.AFENumber)
	assert.Equal(t, "Permian", w.BusinessUnit)
	assert.Equal(t, model.StatusActive, w.Status)
	assert.Equal(t, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), w.StartDate)
	assert.Equal(t, 0.75, w.ActualWI)
	assert.Equal(t, 0.75, w.SystemWI)

	assert.Equal(t, 4_488_004.0, w.Drill.ITD)
	assert.Equal(t, 4_881_331.0, w.Drill.VOW)
	assert.Equal(t, 5_000_000.0, w.Drill.Budget)
	assert.Equal(t, 5_000_000.0, w.Drill.OpsBudget)
	assert.False(t, w.Drill.ITDMissing)
	assert.Equal(t, 393_327.0, w.PriorGrossAccrual)
}

func TestWells_BusinessUnitFilter(t *testing.T) {
	l := New("testdata")

	permian, err := l.Wells("Permian")
	require.NoError(t, err)
	assert.Len(t, permian, 2)
	for _, w := range permian {
		assert.Equal(t, "Permian", w.BusinessUnit)
	}

	// Exact match only: unknown units yield an empty set, not an error.
	none, err := l.Wells("permian")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestWells_BlankITDFlagged(t *testing.T) {
	l := New("testdata")
	wells, err := l.Wells("all")
	require.NoError(t, err)

	w := wells[2]
	assert.Equal(t, "WBS-1003", w.WBSElement)
	assert.True(t, w.Drill.ITDMissing)
	assert.Equal(t, 0.0, w.Drill.ITD)
	assert.False(t, w.Drill.VOWMissing)
	assert.False(t, w.Comp.ITDMissing)
}

func TestSchedule(t *testing.T) {
	l := New("testdata")
	sched, err := l.Schedule()
	require.NoError(t, err)
	require.Len(t, sched, 2)

	start, end, ok := sched.SpanDates("WBS-1001", model.CategoryDrill)
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC), end)

	_, _, ok = sched.SpanDates("WBS-1002", model.CategoryComp)
	assert.False(t, ok)
}

func TestWells_MissingFile(t *testing.T) {
	l := New(t.TempDir())
	_, err := l.Wells(BUAll)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wbs_master.csv")
}

func TestWells_BadNumber(t *testing.T) {
	dir := t.TempDir()
	data := "wbs_element,well_name,afe_number,business_unit,status,start_date,wi_pct,system_wi_pct," +
		"drill_budget,drill_itd,drill_vow,drill_ops_budget,comp_budget,comp_itd,comp_vow,comp_ops_budget," +
		"fb_budget,fb_itd,fb_vow,fb_ops_budget,hu_budget,hu_itd,hu_vow,hu_ops_budget,prior_gross_accrual\n" +
		"WBS-1,Well 1,AFE-1,Permian,Active,2026-01-01,0.5,0.5,abc,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0,0\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wbs_master.csv"), []byte(data), 0o644))

	_, err := New(dir).Wells(BUAll)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
}

func TestSchedule_UnknownPhase(t *testing.T) {
	dir := t.TempDir()
	data := "wbs_element,planned_phase,planned_date\nWBS-1,Sidetrack,2026-01-01\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "drill_schedule.csv"), []byte(data), 0o644))

	_, err := New(dir).Schedule()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Sidetrack")
}
