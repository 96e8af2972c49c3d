// Package export renders close results into downloadable artifacts: the
// multi-sheet Excel close package and the flat OneStream load CSV.
package export

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/capex-close/internal/closing"
)

const dollarFormat = "#,##0"

// ClosePackage bundles the engine outputs the workbook is built from.
type ClosePackage struct {
	Accruals   closing.AccrualResult
	NetDown    closing.NetDownResult
	Outlook    closing.OutlookResult
	Grid       closing.Grid
	Exceptions closing.ExceptionReport
}

// BuildClosePackage runs the whole engine for one business unit and
// assembles the inputs for the workbook.
func BuildClosePackage(s *closing.Session, businessUnit string) (ClosePackage, error) {
	wells, err := s.Wells(businessUnit)
	if err != nil {
		return ClosePackage{}, err
	}
	sched, err := s.Schedule()
	if err != nil {
		return ClosePackage{}, err
	}

	return ClosePackage{
		Accruals:   closing.Accruals(wells, s.Options()),
		NetDown:    closing.NetDown(wells),
		Outlook:    closing.Outlook(wells),
		Grid:       closing.BuildGrid(wells, sched, s.ClosePeriod(), closing.DefaultForecastMonths),
		Exceptions: closing.Exceptions(wells, closing.SeverityAll, s.Options()),
	}, nil
}

// WriteWorkbook writes the five-sheet close package to an xlsx file:
// Accrual Summary, Net-Down Report, Outlook Summary, OneStream Load, and
// Exception Report.
func WriteWorkbook(pkg ClosePackage, path string) error {
	f := xlsx.NewFile()

	if err := addAccrualSheet(f, pkg.Accruals); err != nil {
		return err
	}
	if err := addNetDownSheet(f, pkg.NetDown); err != nil {
		return err
	}
	if err := addOutlookSheet(f, pkg.Outlook); err != nil {
		return err
	}
	if err := addGridSheet(f, pkg.Grid); err != nil {
		return err
	}
	if err := addExceptionSheet(f, pkg.Exceptions); err != nil {
		return err
	}

	return eris.Wrapf(f.Save(path), "export: save workbook %s", path)
}

// headerStyle is the green bold header used on every sheet.
func headerStyle() *xlsx.Style {
	style := xlsx.NewStyle()
	style.Fill = *xlsx.NewFill("solid", "FF2E7D32", "FF2E7D32")
	style.Font.Bold = true
	style.Font.Color = "FFFFFFFF"
	style.ApplyFill = true
	style.ApplyFont = true
	return style
}

func addHeaderRow(sheet *xlsx.Sheet, titles []string) {
	style := headerStyle()
	row := sheet.AddRow()
	for _, title := range titles {
		cell := row.AddCell()
		cell.SetString(title)
		cell.SetStyle(style)
	}
}

func addMoneyCell(row *xlsx.Row, v float64) {
	row.AddCell().SetFloatWithFormat(v, dollarFormat)
}

// addOptionalMoneyCell leaves the cell blank for excluded values.
func addOptionalMoneyCell(row *xlsx.Row, v *float64) {
	cell := row.AddCell()
	if v != nil {
		cell.SetFloatWithFormat(*v, dollarFormat)
	}
}

// setApproxWidths sizes columns from the header titles, capped like a
// spreadsheet auto-fit.
func setApproxWidths(sheet *xlsx.Sheet, titles []string) {
	for i, title := range titles {
		width := float64(len(title) + 3)
		if width > 30 {
			width = 30
		}
		if width < 12 {
			width = 12
		}
		sheet.SetColWidth(i, i, width)
	}
}

func addAccrualSheet(f *xlsx.File, result closing.AccrualResult) error {
	sheet, err := f.AddSheet("Accrual Summary")
	if err != nil {
		return eris.Wrap(err, "export: add accrual sheet")
	}

	titles := []string{
		"WBS Element", "Well Name", "Business Unit", "WI%",
		"Drill Gross", "Comp Gross", "FB Gross", "HU Gross",
		"Total Gross", "Total Net", "Prior Gross",
	}
	addHeaderRow(sheet, titles)

	for i := range result.Rows {
		r := &result.Rows[i]
		row := sheet.AddRow()
		row.AddCell().SetString(r.WBSElement)
		row.AddCell().SetString(r.WellName)
		row.AddCell().SetString(r.BusinessUnit)
		row.AddCell().SetString(fmt.Sprintf("%.1f%%", r.ActualWI*100))
		addMoneyCell(row, r.Drill.Gross)
		addMoneyCell(row, r.Comp.Gross)
		addMoneyCell(row, r.Flowback.Gross)
		addMoneyCell(row, r.Hookup.Gross)
		addOptionalMoneyCell(row, r.TotalGross)
		addOptionalMoneyCell(row, r.TotalNet)
		addMoneyCell(row, r.PriorGross)
	}

	setApproxWidths(sheet, titles)
	return nil
}

func addNetDownSheet(f *xlsx.File, result closing.NetDownResult) error {
	sheet, err := f.AddSheet("Net-Down Report")
	if err != nil {
		return eris.Wrap(err, "export: add net-down sheet")
	}

	if len(result.Adjustments) == 0 {
		addHeaderRow(sheet, []string{"Note"})
		sheet.AddRow().AddCell().SetString("No WI% mismatches found")
		return nil
	}

	titles := []string{
		"WBS Element", "Well Name", "Total System Cost",
		"System WI%", "Actual WI%", "WI Discrepancy",
		"Net-Down Adjustment", "Adjusted Net Cost",
	}
	addHeaderRow(sheet, titles)

	for _, a := range result.Adjustments {
		row := sheet.AddRow()
		row.AddCell().SetString(a.WBSElement)
		row.AddCell().SetString(a.WellName)
		addMoneyCell(row, a.TotalSystemCost)
		row.AddCell().SetString(fmt.Sprintf("%.1f%%", a.SystemWI*100))
		row.AddCell().SetString(fmt.Sprintf("%.1f%%", a.ActualWI*100))
		row.AddCell().SetString(fmt.Sprintf("%.1f%%", a.WIDiscrepancy*100))
		addMoneyCell(row, a.NetDownAdjustment)
		addMoneyCell(row, a.AdjustedNetCost)
	}

	setApproxWidths(sheet, titles)
	return nil
}

func addOutlookSheet(f *xlsx.File, result closing.OutlookResult) error {
	sheet, err := f.AddSheet("Outlook Summary")
	if err != nil {
		return eris.Wrap(err, "export: add outlook sheet")
	}

	titles := []string{
		"WBS Element", "Well Name", "Business Unit", "WI%",
		"Total Ops Budget", "Total Future Outlook",
	}
	addHeaderRow(sheet, titles)

	for i := range result.Rows {
		r := &result.Rows[i]
		row := sheet.AddRow()
		row.AddCell().SetString(r.WBSElement)
		row.AddCell().SetString(r.WellName)
		row.AddCell().SetString(r.BusinessUnit)
		row.AddCell().SetString(fmt.Sprintf("%.1f%%", r.ActualWI*100))
		addMoneyCell(row, r.TotalOpsBudget)
		addMoneyCell(row, r.TotalFutureOutlook)
	}

	setApproxWidths(sheet, titles)
	return nil
}

func addGridSheet(f *xlsx.File, grid closing.Grid) error {
	sheet, err := f.AddSheet("OneStream Load")
	if err != nil {
		return eris.Wrap(err, "export: add load sheet")
	}

	titles := gridHeader(grid)
	addHeaderRow(sheet, titles)

	for _, r := range grid.Rows {
		row := sheet.AddRow()
		row.AddCell().SetString(r.WBSElement)
		row.AddCell().SetString(r.WellName)
		row.AddCell().SetString(r.BusinessUnit)
		row.AddCell().SetString(r.Category)
		for _, v := range r.Amounts {
			addMoneyCell(row, v)
		}
		addMoneyCell(row, r.Total)
	}

	setApproxWidths(sheet, titles)
	return nil
}

func addExceptionSheet(f *xlsx.File, report closing.ExceptionReport) error {
	sheet, err := f.AddSheet("Exception Report")
	if err != nil {
		return eris.Wrap(err, "export: add exception sheet")
	}

	if len(report.Exceptions) == 0 {
		addHeaderRow(sheet, []string{"Note"})
		sheet.AddRow().AddCell().SetString("No exceptions")
		return nil
	}

	titles := []string{"WBS Element", "Well Name", "Type", "Severity", "Detail"}
	addHeaderRow(sheet, titles)

	for _, e := range report.Exceptions {
		row := sheet.AddRow()
		row.AddCell().SetString(e.WBSElement)
		row.AddCell().SetString(e.WellName)
		row.AddCell().SetString(e.Type)
		row.AddCell().SetString(string(e.Severity))
		row.AddCell().SetString(e.Detail)
	}

	setApproxWidths(sheet, titles)
	return nil
}

// gridHeader builds the OneStream load header: fixed columns, one column
// per projected month, then the total.
func gridHeader(grid closing.Grid) []string {
	titles := []string{"WBS Element", "Well Name", "Business Unit", "Cost Category"}
	titles = append(titles, grid.Months...)
	return append(titles, "Total")
}
