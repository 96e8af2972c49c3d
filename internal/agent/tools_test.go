package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/capex-close/internal/closing"
	"github.com/sells-group/capex-close/internal/dataload"
	"github.com/sells-group/capex-close/internal/store"
)

const wellsCSV = "wbs_element,well_name,afe_number,business_unit,status,start_date,wi_pct,system_wi_pct," +
	"drill_budget,drill_itd,drill_vow,drill_ops_budget,comp_budget,comp_itd,comp_vow,comp_ops_budget," +
	"fb_budget,fb_itd,fb_vow,fb_ops_budget,hu_budget,hu_itd,hu_vow,hu_ops_budget,prior_gross_accrual\n" +
	"WBS-1001,Maverick 14-22H,AFE-26-041,Permian Basin,Active,2026-01-05,0.75,0.75," +
	"5000000,4488004,4881331,5000000,3500000,1200000,3100000,3500000,800000,100000,650000,800000,400000,50000,350000,400000,3000000\n" +
	"WBS-1002,Ironwood 8-15H,AFE-26-042,DJ Basin,Active,2026-01-12,0.60,0.85," +
	"4200000,3900000,4100000,4200000,2800000,900000,2600000,2800000,600000,50000,500000,600000,350000,20000,300000,350000,2500000\n"

const scheduleCSV = "wbs_element,planned_phase,planned_date\n" +
	"WBS-1001,Spud,2026-01-05\n" +
	"WBS-1001,TD,2026-02-10\n" +
	"WBS-1001,Frac Start,2026-02-20\n" +
	"WBS-1001,Frac End,2026-03-15\n" +
	"WBS-1001,First Production,2026-04-01\n"

func newTestRegistry(t *testing.T, runs store.Store) *Registry {
	return newRegistryWithWells(t, runs, wellsCSV)
}

func newRegistryWithWells(t *testing.T, runs store.Store, wells string) *Registry {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wbs_master.csv"), []byte(wells), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "drill_schedule.csv"), []byte(scheduleCSV), 0o644))

	period, err := closing.ParsePeriod("2026-01")
	require.NoError(t, err)

	session := closing.NewSession(dataload.New(dir), period, closing.AccrualOptions{})
	return NewRegistry(session, runs)
}

func invoke(t *testing.T, r *Registry, tool, input string) map[string]any {
	t.Helper()
	result, isError := r.Invoke(context.Background(), tool, json.RawMessage(input))
	require.False(t, isError, "tool %s errored: %s", tool, result)

	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(result), &out))
	return out
}

func TestInvoke_LoadWells(t *testing.T) {
	r := newTestRegistry(t, nil)

	out := invoke(t, r, ToolLoadWells, `{}`)
	assert.Equal(t, float64(2), out["row_count"])

	out = invoke(t, r, ToolLoadWells, `{"business_unit":"Permian Basin"}`)
	assert.Equal(t, float64(1), out["row_count"])
}

func TestInvoke_Accruals(t *testing.T) {
	r := newTestRegistry(t, nil)

	out := invoke(t, r, ToolAccruals, `{"business_unit":"Permian Basin"}`)
	summary := out["summary"].(map[string]any)
	assert.Equal(t, float64(1), summary["well_count"])
	// drill 393,327 + comp 1,900,000 + fb 550,000 + hu 300,000
	assert.InDelta(t, 3_143_327, summary["total_gross_accrual"].(float64), 0.01)
}

func TestInvoke_NetDown(t *testing.T) {
	r := newTestRegistry(t, nil)

	out := invoke(t, r, ToolNetDown, `{}`)
	summary := out["summary"].(map[string]any)
	assert.Equal(t, float64(1), summary["adjusted_count"])
}

func TestInvoke_Exceptions(t *testing.T) {
	r := newTestRegistry(t, nil)

	out := invoke(t, r, ToolExceptions, `{"severity":"medium"}`)
	assert.Equal(t, float64(1), out["total_count"])
}

func TestInvoke_WellDetail(t *testing.T) {
	r := newTestRegistry(t, nil)

	out := invoke(t, r, ToolWellDetail, `{"wbs_element":"WBS-1002"}`)
	assert.Equal(t, true, out["found"])

	out = invoke(t, r, ToolWellDetail, `{"wbs_element":"WBS-9999"}`)
	assert.Equal(t, false, out["found"])
}

func TestInvoke_WellDetailRequiresElement(t *testing.T) {
	r := newTestRegistry(t, nil)

	result, isError := r.Invoke(context.Background(), ToolWellDetail, json.RawMessage(`{}`))
	assert.True(t, isError)
	assert.Contains(t, result, "wbs_element")
}

func TestInvoke_OutlookGrid(t *testing.T) {
	r := newTestRegistry(t, nil)

	out := invoke(t, r, ToolOutlookGrid, `{"months_forward":3}`)
	months := out["months"].([]any)
	require.Len(t, months, 3)
	assert.Equal(t, "2026-02", months[0])
	assert.Len(t, out["rows"].([]any), 8)
}

func TestInvoke_UnknownTool(t *testing.T) {
	r := newTestRegistry(t, nil)

	result, isError := r.Invoke(context.Background(), "drop_tables", nil)
	assert.True(t, isError)
	assert.Contains(t, result, "unknown tool")
}

func TestInvoke_BadInput(t *testing.T) {
	r := newTestRegistry(t, nil)

	_, isError := r.Invoke(context.Background(), ToolAccruals, json.RawMessage(`{"business_unit":42}`))
	assert.True(t, isError)
}

func TestInvoke_TruncatesOversizedResults(t *testing.T) {
	// Enough rows that the load_wells payload blows past the result cap.
	var b strings.Builder
	b.WriteString(strings.SplitN(wellsCSV, "\n", 2)[0])
	b.WriteString("\n")
	for i := 0; i < 300; i++ {
		fmt.Fprintf(&b, "WBS-%04d,Maverick %d-1H,AFE-26-%03d,Permian Basin,Active,2026-01-05,0.75,0.75,"+
			"5000000,4488004,4881331,5000000,3500000,1200000,3100000,3500000,"+
			"800000,100000,650000,800000,400000,50000,350000,400000,3000000\n", 2000+i, i, i)
	}
	r := newRegistryWithWells(t, nil, b.String())

	result, isError := r.Invoke(context.Background(), ToolLoadWells, json.RawMessage(`{}`))
	require.False(t, isError)

	// The capped payload still has to be well-formed JSON.
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(result), &out))
	assert.Equal(t, true, out["truncated"])
	assert.Contains(t, out["preview"], "WBS-2000")
}

func TestInvoke_RecordsAuditRuns(t *testing.T) {
	s, err := store.NewSQLite(filepath.Join(t.TempDir(), "audit.db"))
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.Migrate(context.Background()))

	r := newTestRegistry(t, s)
	invoke(t, r, ToolAccruals, `{"business_unit":"DJ Basin"}`)

	runs, err := s.ListRuns(context.Background(), store.RunFilter{Tool: ToolAccruals})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "DJ Basin", runs[0].BusinessUnit)
	assert.Contains(t, runs[0].Summary, "well_count")
}
