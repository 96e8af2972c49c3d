// Package seed generates the deterministic demo dataset: an 18-well registry
// and a matching drill schedule. A handful of wells are hardcoded to trip
// specific exception paths so a fresh environment always has something to
// review; the rest are seeded-random normal wells.
package seed

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/capex-close/internal/model"
)

// DefaultSeed keeps repeated runs byte-identical.
const DefaultSeed = 42

const defaultWI = 0.75

// Exception wells. WI mismatch wells carry diverging actual/system WI;
// the others get tailored financials from the generators below.
var wiMismatchWells = map[string]struct{ actual, system float64 }{
	"WBS-1003": {0.75, 0.80},
	"WBS-1007": {0.60, 0.85},
	"WBS-1011": {0.65, 0.70},
}

const (
	negativeAccrualWell = "WBS-1005"
	largeSwingWell      = "WBS-1009"
	overBudgetWell      = "WBS-1015"
)

var wellPrefixes = []string{
	"Eagle Ford", "Wolfcamp", "Spraberry", "Bone Spring", "Niobrara",
	"Codell", "Sussex", "Shannon", "Turner", "Mowry",
	"Frontier", "Muddy", "Dakota", "Parkman", "Teapot",
}

// buAssignment fixes the unit mix: 12 Permian, 4 DJ, 2 Powder River.
var buAssignment = map[string]string{
	"WBS-1001": "Permian Basin",
	"WBS-1002": "Permian Basin",
	"WBS-1003": "Permian Basin",
	"WBS-1004": "DJ Basin",
	"WBS-1005": "Permian Basin",
	"WBS-1006": "Permian Basin",
	"WBS-1007": "Permian Basin",
	"WBS-1008": "DJ Basin",
	"WBS-1009": "Permian Basin",
	"WBS-1010": "Permian Basin",
	"WBS-1011": "Permian Basin",
	"WBS-1012": "DJ Basin",
	"WBS-1013": "Permian Basin",
	"WBS-1014": "Permian Basin",
	"WBS-1015": "Powder River",
	"WBS-1016": "DJ Basin",
	"WBS-1017": "Powder River",
	"WBS-1018": "Permian Basin",
}

// allWBS lists the 18 registry elements in order.
func allWBS() []string {
	out := make([]string, 0, 18)
	for i := 1001; i <= 1018; i++ {
		out = append(out, fmt.Sprintf("WBS-%d", i))
	}
	return out
}

// categoryMoney holds the generated money fields for one cost category.
type categoryMoney struct {
	budget    int
	itd       int
	vow       int
	opsBudget int
}

// wellSeed is one fully generated registry row before CSV encoding.
type wellSeed struct {
	wbs        string
	name       string
	afe        string
	bu         string
	status     model.WellStatus
	startDate  time.Time
	actualWI   float64
	systemWI   float64
	money      map[model.CostCategory]categoryMoney
	priorGross int
}

// Write generates both CSV files under dir using the default seed.
func Write(dir string) error {
	return WriteWithSeed(dir, DefaultSeed)
}

// WriteWithSeed generates wbs_master.csv and drill_schedule.csv under dir.
// The same seed always produces the same files.
func WriteWithSeed(dir string, seed int64) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrapf(err, "seed: create %s", dir)
	}

	rng := rand.New(rand.NewSource(seed))
	wells := generateWells(rng)

	if err := writeMaster(filepath.Join(dir, "wbs_master.csv"), wells); err != nil {
		return err
	}
	if err := writeSchedule(filepath.Join(dir, "drill_schedule.csv"), rng, wells); err != nil {
		return err
	}

	zap.L().Info("seed: dataset generated",
		zap.String("dir", dir),
		zap.Int("wells", len(wells)),
		zap.Int64("seed", seed),
	)
	return nil
}

func generateWells(rng *rand.Rand) []wellSeed {
	// 14 active, 3 complete, 1 suspended, shuffled across the registry.
	statuses := make([]model.WellStatus, 0, 18)
	for i := 0; i < 14; i++ {
		statuses = append(statuses, model.StatusActive)
	}
	for i := 0; i < 3; i++ {
		statuses = append(statuses, model.StatusComplete)
	}
	statuses = append(statuses, model.StatusSuspended)
	rng.Shuffle(len(statuses), func(i, j int) {
		statuses[i], statuses[j] = statuses[j], statuses[i]
	})

	wbsList := allWBS()
	wells := make([]wellSeed, 0, len(wbsList))
	for i, wbs := range wbsList {
		idx := 1001 + i
		prefix := wellPrefixes[rng.Intn(len(wellPrefixes))]

		w := wellSeed{
			wbs:       wbs,
			name:      fmt.Sprintf("%s %d-%dH", prefix, idx, randInt(rng, 1, 20)),
			afe:       fmt.Sprintf("AFE-%d", randInt(rng, 20000, 99999)),
			bu:        buAssignment[wbs],
			status:    statuses[i],
			startDate: randDate(rng, date(2025, 1, 1), date(2026, 6, 30)),
			actualWI:  defaultWI,
			systemWI:  defaultWI,
		}
		if wi, ok := wiMismatchWells[wbs]; ok {
			w.actualWI = wi.actual
			w.systemWI = wi.system
		}

		switch wbs {
		case negativeAccrualWell:
			w.money, w.priorGross = negativeAccrualMoney(rng)
		case largeSwingWell:
			w.money, w.priorGross = largeSwingMoney(rng)
		case overBudgetWell:
			w.money, w.priorGross = overBudgetMoney(rng)
		default:
			w.money, w.priorGross = normalMoney(rng)
		}

		wells = append(wells, w)
	}
	return wells
}

// normalMoney yields a positive accrual in every category and a prior within
// 10% of the current total, so no exception fires.
func normalMoney(rng *rand.Rand) (map[model.CostCategory]categoryMoney, int) {
	money := make(map[model.CostCategory]categoryMoney, len(model.Categories))
	totalAccrual := 0

	for _, cat := range model.Categories {
		budget := randInt(rng, 100, 500) * 10_000
		opsBudget := int(float64(budget) * uniform(rng, 0.95, 1.10))
		itd := int(float64(budget) * uniform(rng, 0.20, 0.70))
		vow := itd + randInt(rng, 50_000, 500_000)

		money[cat] = categoryMoney{budget: budget, itd: itd, vow: vow, opsBudget: opsBudget}
		totalAccrual += vow - itd
	}

	prior := int(float64(totalAccrual) * uniform(rng, 0.90, 1.10))
	if prior < 0 {
		prior = 0
	}
	return money, prior
}

// negativeAccrualMoney drives the drill category far past its VOW so the
// well's total accrual goes negative.
func negativeAccrualMoney(rng *rand.Rand) (map[model.CostCategory]categoryMoney, int) {
	money := make(map[model.CostCategory]categoryMoney, len(model.Categories))
	totalAccrual := 0

	for _, cat := range model.Categories {
		budget := randInt(rng, 100, 500) * 10_000

		var itd, vow int
		if cat == model.CategoryDrill {
			itd = 4_500_000
			vow = 2_800_000
		} else {
			itd = int(float64(budget) * uniform(rng, 0.30, 0.50))
			vow = itd + randInt(rng, 50_000, 150_000)
		}
		opsBudget := int(float64(budget) * uniform(rng, 0.95, 1.10))

		money[cat] = categoryMoney{budget: budget, itd: itd, vow: vow, opsBudget: opsBudget}
		totalAccrual += vow - itd
	}

	prior := int(abs(totalAccrual) * uniform(rng, 0.8, 1.2))
	if prior < 0 {
		prior = 0
	}
	return money, prior
}

// largeSwingMoney fixes the current accrual at $1.07M against an $800K
// prior, a +34% swing.
func largeSwingMoney(rng *rand.Rand) (map[model.CostCategory]categoryMoney, int) {
	money := make(map[model.CostCategory]categoryMoney, len(model.Categories))
	targets := map[model.CostCategory]int{
		model.CategoryDrill:    400_000,
		model.CategoryComp:     350_000,
		model.CategoryFlowback: 200_000,
		model.CategoryHookup:   120_000,
	}

	for _, cat := range model.Categories {
		budget := randInt(rng, 200, 400) * 10_000
		itd := int(float64(budget) * uniform(rng, 0.30, 0.50))
		vow := itd + targets[cat]
		opsBudget := int(float64(budget) * uniform(rng, 0.95, 1.10))

		money[cat] = categoryMoney{budget: budget, itd: itd, vow: vow, opsBudget: opsBudget}
	}
	return money, 800_000
}

// overBudgetMoney keeps every ops budget below the net in-system cost so the
// future outlook goes negative.
func overBudgetMoney(rng *rand.Rand) (map[model.CostCategory]categoryMoney, int) {
	money := make(map[model.CostCategory]categoryMoney, len(model.Categories))
	totalAccrual := 0

	for _, cat := range model.Categories {
		budget := randInt(rng, 200, 500) * 10_000
		itd := int(float64(budget) * uniform(rng, 0.40, 0.60))
		vow := int(float64(budget) * uniform(rng, 0.90, 1.15))
		opsBudget := int(float64(vow) * uniform(rng, 0.55, 0.70))

		money[cat] = categoryMoney{budget: budget, itd: itd, vow: vow, opsBudget: opsBudget}
		totalAccrual += vow - itd
	}

	prior := int(float64(totalAccrual) * uniform(rng, 0.90, 1.10))
	if prior < 0 {
		prior = 0
	}
	return money, prior
}

func masterHeader() []string {
	header := []string{
		"wbs_element", "well_name", "afe_number", "business_unit",
		"status", "start_date", "wi_pct", "system_wi_pct",
	}
	for _, cat := range model.Categories {
		prefix := string(cat)
		header = append(header,
			prefix+"_budget", prefix+"_itd", prefix+"_vow", prefix+"_ops_budget")
	}
	return append(header, "prior_gross_accrual")
}

func writeMaster(path string, wells []wellSeed) error {
	rows := [][]string{masterHeader()}
	for _, w := range wells {
		row := []string{
			w.wbs, w.name, w.afe, w.bu,
			string(w.status), w.startDate.Format("2006-01-02"),
			formatWI(w.actualWI), formatWI(w.systemWI),
		}
		for _, cat := range model.Categories {
			m := w.money[cat]
			row = append(row,
				strconv.Itoa(m.budget), strconv.Itoa(m.itd),
				strconv.Itoa(m.vow), strconv.Itoa(m.opsBudget))
		}
		row = append(row, strconv.Itoa(w.priorGross))
		rows = append(rows, row)
	}
	return writeCSV(path, rows)
}

// writeSchedule emits all five phases per well with strictly increasing
// planned dates, 15 to 90 days apart.
func writeSchedule(path string, rng *rand.Rand, wells []wellSeed) error {
	rows := [][]string{{"wbs_element", "planned_phase", "planned_date"}}
	for _, w := range wells {
		d := randDate(rng, date(2025, 3, 1), date(2026, 6, 1))
		for _, phase := range model.Phases {
			rows = append(rows, []string{w.wbs, string(phase), d.Format("2006-01-02")})
			d = d.AddDate(0, 0, randInt(rng, 15, 90))
		}
	}
	return writeCSV(path, rows)
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "seed: create %s", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return eris.Wrapf(err, "seed: write %s", path)
	}
	return eris.Wrapf(f.Close(), "seed: close %s", path)
}

func formatWI(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func randInt(rng *rand.Rand, lo, hi int) int {
	return lo + rng.Intn(hi-lo+1)
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func randDate(rng *rand.Rand, start, end time.Time) time.Time {
	days := int(end.Sub(start).Hours() / 24)
	return start.AddDate(0, 0, rng.Intn(days+1))
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func abs(v int) float64 {
	if v < 0 {
		return float64(-v)
	}
	return float64(v)
}
