package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/sells-group/capex-close/internal/closing"
	"github.com/sells-group/capex-close/internal/dataload"
	"github.com/sells-group/capex-close/internal/model"
	"github.com/sells-group/capex-close/internal/store"
)

// maxToolResultBytes caps tool results sent back to the model.
const maxToolResultBytes = 50_000

// Registry dispatches model tool calls to the calculation engine, scoped to
// one session. Every invocation is recorded in the audit store when one is
// configured.
type Registry struct {
	session *closing.Session
	runs    store.Store
}

// NewRegistry creates a tool registry over a session. The audit store may be
// nil, in which case runs are not recorded.
func NewRegistry(session *closing.Session, runs store.Store) *Registry {
	return &Registry{session: session, runs: runs}
}

// toolInput is the superset of all engine tool parameters.
type toolInput struct {
	BusinessUnit  string `json:"business_unit"`
	Severity      string `json:"severity"`
	WBSElement    string `json:"wbs_element"`
	MonthsForward int    `json:"months_forward"`
}

// Invoke runs one engine tool and returns its JSON result. isError reports
// whether the payload is an {"error": ...} object.
func (r *Registry) Invoke(ctx context.Context, name string, input json.RawMessage) (result string, isError bool) {
	var in toolInput
	if len(input) > 0 {
		if err := json.Unmarshal(input, &in); err != nil {
			return errorPayload(fmt.Sprintf("invalid input for %s: %v", name, err)), true
		}
	}
	if in.BusinessUnit == "" {
		in.BusinessUnit = dataload.BUAll
	}

	out, err := r.dispatch(name, in)
	if err != nil {
		zap.L().Warn("agent: tool failed",
			zap.String("tool", name),
			zap.Error(err),
		)
		return errorPayload(err.Error()), true
	}

	payload, err := json.Marshal(out)
	if err != nil {
		return errorPayload(fmt.Sprintf("encode %s result: %v", name, err)), true
	}
	result = string(payload)
	if len(result) > maxToolResultBytes {
		result = truncatedPayload(result)
	}

	r.record(ctx, name, in.BusinessUnit, out)
	return result, false
}

func (r *Registry) dispatch(name string, in toolInput) (any, error) {
	switch name {
	case ToolLoadWells:
		wells, err := r.session.Wells(in.BusinessUnit)
		if err != nil {
			return nil, err
		}
		return map[string]any{"wells": wells, "row_count": len(wells)}, nil

	case ToolAccruals:
		wells, err := r.session.Wells(in.BusinessUnit)
		if err != nil {
			return nil, err
		}
		return closing.Accruals(wells, r.session.Options()), nil

	case ToolNetDown:
		wells, err := r.session.Wells(in.BusinessUnit)
		if err != nil {
			return nil, err
		}
		return closing.NetDown(wells), nil

	case ToolOutlook:
		wells, err := r.session.Wells(in.BusinessUnit)
		if err != nil {
			return nil, err
		}
		return closing.Outlook(wells), nil

	case ToolExceptions:
		wells, err := r.session.Wells(in.BusinessUnit)
		if err != nil {
			return nil, err
		}
		return closing.Exceptions(wells, in.Severity, r.session.Options()), nil

	case ToolWellDetail:
		if in.WBSElement == "" {
			return nil, fmt.Errorf("%s requires wbs_element", ToolWellDetail)
		}
		wells, err := r.session.Wells(dataload.BUAll)
		if err != nil {
			return nil, err
		}
		return closing.Detail(wells, in.WBSElement, r.session.Options()), nil

	case ToolJournalEntry:
		wells, err := r.session.Wells(in.BusinessUnit)
		if err != nil {
			return nil, err
		}
		return closing.Journal(wells, in.BusinessUnit, r.session.Period(), r.session.Options()), nil

	case ToolCloseSummary:
		wells, err := r.session.Wells(in.BusinessUnit)
		if err != nil {
			return nil, err
		}
		return closing.Summary(wells, r.session.Period(), r.session.Options()), nil

	case ToolOutlookGrid:
		wells, err := r.session.Wells(in.BusinessUnit)
		if err != nil {
			return nil, err
		}
		sched, err := r.session.Schedule()
		if err != nil {
			return nil, err
		}
		return closing.BuildGrid(wells, sched, r.session.ClosePeriod(), in.MonthsForward), nil

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// record writes one audit row, best effort.
func (r *Registry) record(ctx context.Context, tool, businessUnit string, out any) {
	if r.runs == nil {
		return
	}
	_, err := r.runs.RecordRun(ctx, model.CloseRun{
		SessionID:    r.session.ID(),
		Tool:         tool,
		BusinessUnit: businessUnit,
		Summary:      auditSummary(tool, out),
	})
	if err != nil {
		zap.L().Warn("agent: audit record failed",
			zap.String("tool", tool),
			zap.Error(err),
		)
	}
}

// auditSummary renders a compact JSON digest of a tool result for the audit
// log, never the full payload.
func auditSummary(tool string, out any) string {
	digest := map[string]any{}
	switch v := out.(type) {
	case closing.AccrualResult:
		digest["well_count"] = v.Summary.WellCount
		digest["total_gross_accrual"] = v.Summary.TotalGrossAccrual
		digest["exception_count"] = v.Summary.ExceptionCount
	case closing.NetDownResult:
		digest["adjusted_count"] = v.Summary.AdjustedCount
		digest["total_adjustment"] = v.Summary.TotalAdjustment
	case closing.OutlookResult:
		digest["well_count"] = v.Summary.WellCount
		digest["over_budget_count"] = v.Summary.OverBudgetCount
	case closing.ExceptionReport:
		digest["total_count"] = v.TotalCount
	case closing.WellDetail:
		digest["wbs_element"] = v.WBSElement
		digest["found"] = v.Found
	case closing.JournalEntry:
		digest["net_down_amount"] = v.NetAmount
	case closing.CloseSummary:
		digest["unit_count"] = len(v.Units)
		digest["total_net_accrual"] = v.Total.NetAccrual
	case closing.Grid:
		digest["row_count"] = len(v.Rows)
		digest["grand_total"] = v.GrandTotal
	case map[string]any:
		if n, ok := v["row_count"]; ok {
			digest["row_count"] = n
		}
	}
	digest["tool"] = tool

	b, err := json.Marshal(digest)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func errorPayload(msg string) string {
	b, _ := json.Marshal(map[string]string{"error": msg})
	return string(b)
}

// truncatedPayload wraps an oversized result so the model still receives
// valid JSON: the raw prefix rides inside a string field instead of being
// cut mid-token.
func truncatedPayload(full string) string {
	b, err := json.Marshal(map[string]any{
		"truncated": true,
		"preview":   full[:maxToolResultBytes],
	})
	if err != nil {
		return `{"truncated":true}`
	}
	return string(b)
}
