package closing

import (
	"fmt"
	"strings"

	"github.com/sells-group/capex-close/internal/model"
)

// SeverityAll disables severity filtering in the exception report.
const SeverityAll = "all"

// ExceptionReport is the unified exception view across all three close steps.
type ExceptionReport struct {
	SeverityFilter   string                 `json:"severity_filter"`
	Exceptions       []model.Exception      `json:"exceptions"`
	TotalCount       int                    `json:"total_count"`
	CountsByType     map[string]int         `json:"counts_by_type"`
	CountsBySeverity map[model.Severity]int `json:"counts_by_severity"`
}

// Exceptions runs all three calculators and merges their exceptions,
// optionally filtered by severity. The filter is case-insensitive; "all" or
// empty means no filter. Counts reflect the filtered set.
func Exceptions(wells []model.WellRecord, severity string, opts AccrualOptions) ExceptionReport {
	all := Accruals(wells, opts).Exceptions
	all = append(all, NetDown(wells).Exceptions()...)
	all = append(all, Outlook(wells).Exceptions...)

	filter := strings.ToUpper(strings.TrimSpace(severity))
	if filter == "" {
		filter = strings.ToUpper(SeverityAll)
	}

	report := ExceptionReport{
		SeverityFilter:   strings.ToLower(filter),
		Exceptions:       []model.Exception{},
		CountsByType:     map[string]int{},
		CountsBySeverity: map[model.Severity]int{},
	}

	for _, e := range all {
		if filter != strings.ToUpper(SeverityAll) && string(e.Severity) != filter {
			continue
		}
		report.Exceptions = append(report.Exceptions, e)
		report.CountsByType[e.Type]++
		report.CountsBySeverity[e.Severity]++
	}
	report.TotalCount = len(report.Exceptions)
	return report
}

// WellDetail is the full close waterfall for a single well. Found is false
// when the WBS element is not in the record set; the remaining fields are
// then empty.
type WellDetail struct {
	Found      bool   `json:"found"`
	WBSElement string `json:"wbs_element"`
	Message    string `json:"message,omitempty"`

	Well       *model.WellRecord `json:"well,omitempty"`
	Accrual    *AccrualRow       `json:"accrual,omitempty"`
	NetDown    *NetDownRecord    `json:"net_down,omitempty"`
	Outlook    *OutlookRow       `json:"outlook,omitempty"`
	Exceptions []model.Exception `json:"exceptions,omitempty"`
}

// Detail assembles the single-well slice of all three calculators' outputs.
func Detail(wells []model.WellRecord, wbsElement string, opts AccrualOptions) WellDetail {
	for i := range wells {
		if wells[i].WBSElement != wbsElement {
			continue
		}
		one := wells[i : i+1]

		acc := Accruals(one, opts)
		nd := NetDown(one)
		ol := Outlook(one)

		detail := WellDetail{
			Found:      true,
			WBSElement: wbsElement,
			Well:       &wells[i],
			Accrual:    &acc.Rows[0],
			Outlook:    &ol.Rows[0],
			Exceptions: []model.Exception{},
		}
		if len(nd.Adjustments) > 0 {
			detail.NetDown = &nd.Adjustments[0]
		}
		detail.Exceptions = append(detail.Exceptions, acc.Exceptions...)
		detail.Exceptions = append(detail.Exceptions, nd.Exceptions()...)
		detail.Exceptions = append(detail.Exceptions, ol.Exceptions...)
		return detail
	}

	return WellDetail{
		WBSElement: wbsElement,
		Message:    fmt.Sprintf("well %s not found in the WBS master", wbsElement),
	}
}

// Journal entry account codes.
const (
	AccountCapexWIP        = "1410-000"
	AccountAccruedLiab     = "2110-000"
	AccountCapexWIPName    = "CapEx WIP"
	AccountAccruedLiabName = "Accrued Liabilities"
)

// JournalLine is one side of the accrual journal entry.
type JournalLine struct {
	Account     string  `json:"account"`
	Description string  `json:"description"`
	Debit       float64 `json:"debit"`
	Credit      float64 `json:"credit"`
}

// JournalEntry is the month-end accrual booking: net accrual less the WI
// net-down adjustment, as balanced debit and credit lines.
type JournalEntry struct {
	Period       string `json:"period"`
	BusinessUnit string `json:"business_unit"`

	TotalNetAccrual   float64 `json:"total_net_accrual"`
	TotalWIAdjustment float64 `json:"total_wi_adjustment"`
	NetAmount         float64 `json:"net_down_amount"`

	Lines     []JournalLine `json:"lines"`
	Narrative string        `json:"narrative"`
}

// Journal builds the accrual journal entry for a record set. A negative net
// amount reverses the entry: the liability is debited and WIP credited.
func Journal(wells []model.WellRecord, businessUnit, period string, opts AccrualOptions) JournalEntry {
	acc := Accruals(wells, opts)
	nd := NetDown(wells)

	entry := JournalEntry{
		Period:            period,
		BusinessUnit:      businessUnit,
		TotalNetAccrual:   acc.Summary.TotalNetAccrual,
		TotalWIAdjustment: nd.Summary.TotalAdjustment,
	}
	entry.NetAmount = entry.TotalNetAccrual - entry.TotalWIAdjustment

	amount := round2(entry.NetAmount)
	debit, credit := journalLine(AccountCapexWIP, AccountCapexWIPName), journalLine(AccountAccruedLiab, AccountAccruedLiabName)
	if amount < 0 {
		amount = -amount
		debit, credit = credit, debit
	}
	debit.Debit = amount
	credit.Credit = amount
	entry.Lines = []JournalLine{debit, credit}

	entry.Narrative = fmt.Sprintf(
		"Accrue %s net CapEx for %s in period %s: net accrual %s less WI adjustment %s. Dr %s %s / Cr %s %s.",
		FormatDollar(entry.NetAmount), businessUnit, period,
		FormatDollar(entry.TotalNetAccrual), FormatDollar(entry.TotalWIAdjustment),
		debit.Account, debit.Description, credit.Account, credit.Description,
	)
	return entry
}

func journalLine(account, description string) JournalLine {
	return JournalLine{Account: account, Description: description}
}

// UnitSummary is the close totals for one business unit.
type UnitSummary struct {
	BusinessUnit      string  `json:"business_unit"`
	WellCount         int     `json:"well_count"`
	GrossAccrual      float64 `json:"total_gross_accrual"`
	NetAccrual        float64 `json:"total_net_accrual"`
	NetDownAdjustment float64 `json:"total_net_down_adjustment"`
	FutureOutlook     float64 `json:"total_future_outlook"`
	ExceptionCount    int     `json:"exception_count"`
}

// CloseSummary is the whole-close rollup: per-unit totals plus a grand total
// summed directly from the unit rows.
type CloseSummary struct {
	Period string        `json:"period"`
	Units  []UnitSummary `json:"business_units"`
	Total  UnitSummary   `json:"total"`
}

// Summary re-runs all three calculators per distinct business unit and
// assembles the close rollup.
func Summary(wells []model.WellRecord, period string, opts AccrualOptions) CloseSummary {
	cs := CloseSummary{
		Period: period,
		Units:  []UnitSummary{},
		Total:  UnitSummary{BusinessUnit: "all"},
	}

	for _, bu := range model.BusinessUnits(wells) {
		var unit []model.WellRecord
		for i := range wells {
			if wells[i].BusinessUnit == bu {
				unit = append(unit, wells[i])
			}
		}

		acc := Accruals(unit, opts)
		nd := NetDown(unit)
		ol := Outlook(unit)

		us := UnitSummary{
			BusinessUnit:      bu,
			WellCount:         len(unit),
			GrossAccrual:      acc.Summary.TotalGrossAccrual,
			NetAccrual:        acc.Summary.TotalNetAccrual,
			NetDownAdjustment: nd.Summary.TotalAdjustment,
			FutureOutlook:     ol.Summary.TotalFutureOutlook,
			ExceptionCount:    len(acc.Exceptions) + len(nd.Exceptions()) + len(ol.Exceptions),
		}
		cs.Units = append(cs.Units, us)

		cs.Total.WellCount += us.WellCount
		cs.Total.GrossAccrual += us.GrossAccrual
		cs.Total.NetAccrual += us.NetAccrual
		cs.Total.NetDownAdjustment += us.NetDownAdjustment
		cs.Total.FutureOutlook += us.FutureOutlook
		cs.Total.ExceptionCount += us.ExceptionCount
	}
	return cs
}
