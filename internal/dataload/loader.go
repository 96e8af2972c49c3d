// Package dataload reads the close input tables (well registry and drill
// schedule) from flat CSV files. Column names are part of the data contract
// and must match the extracts exactly.
package dataload

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/capex-close/internal/model"
)

const (
	wellsFile    = "wbs_master.csv"
	scheduleFile = "drill_schedule.csv"

	dateLayout = "2006-01-02"
)

// BUAll disables business-unit filtering.
const BUAll = "all"

// Loader reads close input tables from a data directory.
type Loader struct {
	dir string
}

// New creates a Loader rooted at dir.
func New(dir string) *Loader {
	return &Loader{dir: dir}
}

// Wells loads the well registry, optionally filtered to one business unit.
// The filter is an exact, case-sensitive match; "all" returns every row.
// An unmatched business unit yields an empty slice, not an error.
func (l *Loader) Wells(businessUnit string) ([]model.WellRecord, error) {
	header, rows, err := readTable(filepath.Join(l.dir, wellsFile))
	if err != nil {
		return nil, err
	}

	wells := make([]model.WellRecord, 0, len(rows))
	for i, row := range rows {
		w, err := parseWell(header, row)
		if err != nil {
			return nil, eris.Wrapf(err, "dataload: %s row %d", wellsFile, i+2)
		}
		if businessUnit != BUAll && w.BusinessUnit != businessUnit {
			continue
		}
		wells = append(wells, w)
	}

	zap.L().Debug("dataload: wells loaded",
		zap.String("business_unit", businessUnit),
		zap.Int("count", len(wells)),
	)
	return wells, nil
}

// Schedule loads the drill schedule grouped by well.
func (l *Loader) Schedule() (model.Schedule, error) {
	header, rows, err := readTable(filepath.Join(l.dir, scheduleFile))
	if err != nil {
		return nil, err
	}

	entries := make([]model.ScheduleEntry, 0, len(rows))
	for i, row := range rows {
		e, err := parseScheduleEntry(header, row)
		if err != nil {
			return nil, eris.Wrapf(err, "dataload: %s row %d", scheduleFile, i+2)
		}
		entries = append(entries, e)
	}

	return model.BuildSchedule(entries), nil
}

// columnIndex maps header names to their positions.
type columnIndex map[string]int

func (c columnIndex) get(row []string, name string) (string, error) {
	i, ok := c[name]
	if !ok {
		return "", eris.Errorf("missing column %q", name)
	}
	if i >= len(row) {
		return "", eris.Errorf("row too short for column %q", name)
	}
	return strings.TrimSpace(row[i]), nil
}

func readTable(path string) (columnIndex, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "dataload: open %s", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, eris.Wrapf(err, "dataload: read %s", path)
	}
	if len(records) == 0 {
		return nil, nil, eris.Errorf("dataload: %s is empty", path)
	}

	header := make(columnIndex, len(records[0]))
	for i, name := range records[0] {
		header[strings.TrimSpace(name)] = i
	}
	return header, records[1:], nil
}

func parseWell(header columnIndex, row []string) (model.WellRecord, error) {
	var w model.WellRecord
	var err error

	if w.WBSElement, err = header.get(row, "wbs_element"); err != nil {
		return w, err
	}
	if w.WellName, err = header.get(row, "well_name"); err != nil {
		return w, err
	}
	if w.AFENumber, err = header.get(row, "afe_number"); err != nil {
		return w, err
	}
	if w.BusinessUnit, err = header.get(row, "business_unit"); err != nil {
		return w, err
	}
	status, err := header.get(row, "status")
	if err != nil {
		return w, err
	}
	w.Status = model.WellStatus(status)

	if w.StartDate, err = dateField(header, row, "start_date"); err != nil {
		return w, err
	}
	if w.ActualWI, err = moneyField(header, row, "wi_pct"); err != nil {
		return w, err
	}
	if w.SystemWI, err = moneyField(header, row, "system_wi_pct"); err != nil {
		return w, err
	}

	for _, cat := range model.Categories {
		var a model.CategoryAmounts
		prefix := string(cat)

		if a.Budget, err = moneyField(header, row, prefix+"_budget"); err != nil {
			return w, err
		}
		if a.OpsBudget, err = moneyField(header, row, prefix+"_ops_budget"); err != nil {
			return w, err
		}

		// Blank ITD/VOW cells are legal in partial extracts; the accrual
		// calculator's missing-data policy decides what to do with them.
		a.ITD, a.ITDMissing, err = optionalMoneyField(header, row, prefix+"_itd")
		if err != nil {
			return w, err
		}
		a.VOW, a.VOWMissing, err = optionalMoneyField(header, row, prefix+"_vow")
		if err != nil {
			return w, err
		}

		w.SetAmounts(cat, a)
	}

	if w.PriorGrossAccrual, err = moneyField(header, row, "prior_gross_accrual"); err != nil {
		return w, err
	}
	return w, nil
}

func parseScheduleEntry(header columnIndex, row []string) (model.ScheduleEntry, error) {
	var e model.ScheduleEntry
	var err error

	if e.WBSElement, err = header.get(row, "wbs_element"); err != nil {
		return e, err
	}
	phase, err := header.get(row, "planned_phase")
	if err != nil {
		return e, err
	}
	p, ok := model.ParsePhase(phase)
	if !ok {
		return e, eris.Errorf("unknown phase %q", phase)
	}
	e.Phase = p

	if e.Date, err = dateField(header, row, "planned_date"); err != nil {
		return e, err
	}
	return e, nil
}

func moneyField(header columnIndex, row []string, name string) (float64, error) {
	s, err := header.get(row, name)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, eris.Wrapf(err, "parse %s", name)
	}
	return v, nil
}

func optionalMoneyField(header columnIndex, row []string, name string) (float64, bool, error) {
	s, err := header.get(row, name)
	if err != nil {
		return 0, false, err
	}
	if s == "" {
		return 0, true, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, eris.Wrapf(err, "parse %s", name)
	}
	return v, false, nil
}

func dateField(header columnIndex, row []string, name string) (time.Time, error) {
	s, err := header.get(row, name)
	if err != nil {
		return time.Time{}, err
	}
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, eris.Wrapf(err, "parse %s", name)
	}
	return t, nil
}
