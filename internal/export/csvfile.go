package export

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/sells-group/capex-close/internal/closing"
)

// WriteGridCSV writes the OneStream load grid as a flat CSV file, the same
// shape as the workbook's OneStream Load sheet.
func WriteGridCSV(grid closing.Grid, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(gridHeader(grid)); err != nil {
		return eris.Wrap(err, "export: write grid header")
	}

	for _, r := range grid.Rows {
		row := []string{r.WBSElement, r.WellName, r.BusinessUnit, r.Category}
		for _, v := range r.Amounts {
			row = append(row, formatAmount(v))
		}
		row = append(row, formatAmount(r.Total))
		if err := w.Write(row); err != nil {
			return eris.Wrapf(err, "export: write grid row %s/%s", r.WBSElement, r.Category)
		}
	}

	w.Flush()
	return eris.Wrap(w.Error(), "export: flush grid csv")
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
