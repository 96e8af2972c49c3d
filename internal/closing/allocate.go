package closing

import (
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/capex-close/internal/model"
)

// Forecast window bounds for the outlook grid.
const (
	MinForecastMonths     = 1
	MaxForecastMonths     = 6
	DefaultForecastMonths = 6
)

// periodLayout is the close-period string form, e.g. "2026-01".
const periodLayout = "2006-01"

// ParsePeriod parses a close period ("2026-01") into the first day of that
// month, UTC.
func ParsePeriod(s string) (time.Time, error) {
	t, err := time.Parse(periodLayout, s)
	if err != nil {
		return time.Time{}, eris.Wrapf(err, "closing: parse period %q", s)
	}
	return t, nil
}

// ClampMonths forces a months-forward request into the allowed window.
// Zero (unset) maps to the default.
func ClampMonths(n int) int {
	switch {
	case n == 0:
		return DefaultForecastMonths
	case n < MinForecastMonths:
		return MinForecastMonths
	case n > MaxForecastMonths:
		return MaxForecastMonths
	}
	return n
}

// GridRow is one (well, cost category) row of the OneStream load grid.
// Amounts is index-aligned with the grid's Months slice.
type GridRow struct {
	WBSElement   string    `json:"wbs_element"`
	WellName     string    `json:"well_name"`
	BusinessUnit string    `json:"business_unit"`
	Category     string    `json:"cost_category"`
	Amounts      []float64 `json:"monthly_amounts"`
	Total        float64   `json:"total"`
}

// MonthRollup is the alternate month-level view of the same projection:
// expected spend plus schedule activity counts for one month. WellCount
// counts wells with a non-zero allocation in the month, while
// NewWellsStarting and PhasesCompleting count planned schedule dates
// falling in the month whether or not any dollars land there, so planned
// activity stays visible even when a well has nothing left to spend.
type MonthRollup struct {
	Month            string  `json:"month"`
	ExpectedAccrual  float64 `json:"expected_accrual"`
	WellCount        int     `json:"well_count"`
	NewWellsStarting int     `json:"new_wells_starting"`
	PhasesCompleting int     `json:"phases_completing"`
}

// Grid is the projected outlook spread over forward months: the OneStream
// load shape plus a monthly rollup view of the same numbers.
type Grid struct {
	ClosePeriod string        `json:"close_period"`
	Months      []string      `json:"months"`
	Rows        []GridRow     `json:"rows"`
	MonthTotals []float64     `json:"month_totals"`
	GrandTotal  float64       `json:"grand_total"`
	Rollup      []MonthRollup `json:"monthly_rollup"`
}

// BuildGrid spreads each well-category's future outlook across monthsForward
// months starting the month after the close period. Drilling, Completions
// and Flowback allocate linearly by day across their phase span; Hookup
// drops as a lump sum into the First Production month. Positive amounts that
// would otherwise allocate to nothing are spread evenly instead.
func BuildGrid(wells []model.WellRecord, sched model.Schedule, closePeriod time.Time, monthsForward int) Grid {
	monthsForward = ClampMonths(monthsForward)

	monthStarts := make([]time.Time, monthsForward)
	labels := make([]string, monthsForward)
	for i := range monthStarts {
		monthStarts[i] = closePeriod.AddDate(0, i+1, 0)
		labels[i] = monthStarts[i].Format(periodLayout)
	}

	outlook := Outlook(wells)

	grid := Grid{
		ClosePeriod: closePeriod.Format(periodLayout),
		Months:      labels,
		Rows:        []GridRow{},
		MonthTotals: make([]float64, monthsForward),
	}

	wellMonths := map[string][]bool{}

	for i := range outlook.Rows {
		row := &outlook.Rows[i]
		for _, cat := range model.Categories {
			amount := row.Category(cat).FutureOutlook
			amounts := allocateCategory(amount, sched, row.WBSElement, cat, monthStarts)

			gr := GridRow{
				WBSElement:   row.WBSElement,
				WellName:     row.WellName,
				BusinessUnit: row.BusinessUnit,
				Category:     cat.DisplayName(),
				Amounts:      amounts,
			}
			for m, v := range amounts {
				gr.Total += v
				grid.MonthTotals[m] += v
				if v != 0 {
					if wellMonths[row.WBSElement] == nil {
						wellMonths[row.WBSElement] = make([]bool, monthsForward)
					}
					wellMonths[row.WBSElement][m] = true
				}
			}
			gr.Total = round2(gr.Total)
			grid.GrandTotal += gr.Total
			grid.Rows = append(grid.Rows, gr)
		}
	}
	grid.GrandTotal = round2(grid.GrandTotal)
	for m := range grid.MonthTotals {
		grid.MonthTotals[m] = round2(grid.MonthTotals[m])
	}

	grid.Rollup = buildRollup(sched, grid, wellMonths, monthStarts)
	return grid
}

// allocateCategory returns the per-month allocation for one well-category.
func allocateCategory(amount float64, sched model.Schedule, wbs string, cat model.CostCategory, monthStarts []time.Time) []float64 {
	amounts := make([]float64, len(monthStarts))
	if amount <= 0 {
		return amounts
	}

	start, end, ok := sched.SpanDates(wbs, cat)
	if !ok || start.IsZero() || end.IsZero() {
		return amounts
	}

	allocated := false
	if cat.LumpSum() {
		for m, first := range monthStarts {
			if sameMonth(end, first) {
				amounts[m] = round2(amount)
				allocated = true
				break
			}
		}
	} else {
		// An inverted span allocates nothing linearly; the even-spread
		// fallback below then keeps the dollars in the projection.
		totalDays := daysBetween(start, end) + 1
		if totalDays > 0 {
			dailyRate := amount / float64(totalDays)
			for m, first := range monthStarts {
				last := first.AddDate(0, 1, -1)
				overlap := overlapDays(start, end, first, last)
				if overlap > 0 {
					amounts[m] = round2(dailyRate * float64(overlap))
					allocated = true
				}
			}
		}
	}

	// Never drop forecast dollars: a span entirely outside the projection
	// window spreads evenly instead.
	if !allocated {
		even := round2(amount / float64(len(amounts)))
		for m := range amounts {
			amounts[m] = even
		}
	}
	return amounts
}

// buildRollup derives the month-level activity view from the grid and the
// drill schedule.
func buildRollup(sched model.Schedule, grid Grid, wellMonths map[string][]bool, monthStarts []time.Time) []MonthRollup {
	rollup := make([]MonthRollup, len(monthStarts))
	for m, first := range monthStarts {
		r := MonthRollup{
			Month:           grid.Months[m],
			ExpectedAccrual: grid.MonthTotals[m],
		}
		for _, months := range wellMonths {
			if months[m] {
				r.WellCount++
			}
		}
		for _, dates := range sched {
			for phase, d := range dates {
				if d.IsZero() || !sameMonth(d, first) {
					continue
				}
				if phase == model.PhaseSpud {
					r.NewWellsStarting++
				} else {
					r.PhasesCompleting++
				}
			}
		}
		rollup[m] = r
	}
	return rollup
}

// daysBetween counts whole days from a to b. Both dates are midnight UTC.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

// overlapDays counts the inclusive calendar-day overlap of [start, end] and
// [first, last], zero when disjoint.
func overlapDays(start, end, first, last time.Time) int {
	lo := start
	if first.After(lo) {
		lo = first
	}
	hi := end
	if last.Before(hi) {
		hi = last
	}
	if hi.Before(lo) {
		return 0
	}
	return daysBetween(lo, hi) + 1
}

func sameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}
