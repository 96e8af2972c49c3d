package agent

import "github.com/sells-group/capex-close/pkg/anthropic"

// Tool names exposed to the model.
const (
	ToolLoadWells       = "load_wells"
	ToolAccruals        = "calculate_accruals"
	ToolNetDown         = "calculate_net_down"
	ToolOutlook         = "calculate_outlook"
	ToolExceptions      = "get_exceptions"
	ToolWellDetail      = "get_well_detail"
	ToolJournalEntry    = "generate_journal_entry"
	ToolCloseSummary    = "get_close_summary"
	ToolOutlookGrid     = "generate_outlook_grid"
	ToolAskUserQuestion = "ask_user_question"
)

// businessUnitProperty is the shared business_unit parameter schema.
func businessUnitProperty() map[string]any {
	return map[string]any{
		"type":        "string",
		"description": "Business unit to filter by, or 'all'.",
		"default":     "all",
	}
}

// Definitions returns the tool schemas sent to the model.
func Definitions() []anthropic.Tool {
	return []anthropic.Tool{
		{
			Name: ToolLoadWells,
			Description: "Load the well registry (WBS master), the single wide table with all financial data per well: " +
				"per-category (drill/comp/fb/hu) budget, ITD, VOW, ops budget, and working interest percentages. " +
				"This is the foundation for all calculations.",
			InputSchema: anthropic.InputSchema{
				Properties: map[string]any{"business_unit": businessUnitProperty()},
			},
		},
		{
			Name: ToolAccruals,
			Description: "Step 1 of the close: calculate gross and net accruals per well per cost category. " +
				"Gross Accrual = VOW - ITD. Net Accrual = Gross x WI%. " +
				"Detects Negative Accrual and Large Swing exceptions.",
			InputSchema: anthropic.InputSchema{
				Properties: map[string]any{"business_unit": businessUnitProperty()},
			},
		},
		{
			Name: ToolNetDown,
			Description: "Step 2 of the close: calculate WI% net-down adjustments. For wells where the system WI% " +
				"differs from the actual WI%, computes Net-Down Adjustment = Total VOW x (System WI% - Actual WI%).",
			InputSchema: anthropic.InputSchema{
				Properties: map[string]any{"business_unit": businessUnitProperty()},
			},
		},
		{
			Name: ToolOutlook,
			Description: "Step 3 of the close: calculate future outlook per well per category. " +
				"Future Outlook = Ops Budget - (VOW x WI%). Negative outlook means the well is over budget.",
			InputSchema: anthropic.InputSchema{
				Properties: map[string]any{"business_unit": businessUnitProperty()},
			},
		},
		{
			Name: ToolExceptions,
			Description: "Get all exceptions detected across all 3 close steps: Negative Accrual, Large Swing, " +
				"WI% Mismatch, and Over Budget. Can filter by severity.",
			InputSchema: anthropic.InputSchema{
				Properties: map[string]any{
					"business_unit": businessUnitProperty(),
					"severity": map[string]any{
						"type":        "string",
						"enum":        []string{"all", "HIGH", "MEDIUM", "LOW"},
						"description": "Filter exceptions by severity level.",
						"default":     "all",
					},
				},
			},
		},
		{
			Name: ToolWellDetail,
			Description: "Get full waterfall detail for a single well: ITD, VOW, gross/net accrual, " +
				"WI% net-down adjustment, and future outlook, all per cost category.",
			InputSchema: anthropic.InputSchema{
				Properties: map[string]any{
					"wbs_element": map[string]any{
						"type":        "string",
						"description": "The WBS element ID to look up (e.g., 'WBS-1007').",
					},
				},
				Required: []string{"wbs_element"},
			},
		},
		{
			Name: ToolJournalEntry,
			Description: "Generate the GL journal entry for the monthly close, combining net accruals with " +
				"WI% net-down adjustments. Returns debit/credit accounts and amounts.",
			InputSchema: anthropic.InputSchema{
				Properties: map[string]any{"business_unit": businessUnitProperty()},
			},
		},
		{
			Name: ToolCloseSummary,
			Description: "Get the final close summary with all totals (gross accrual, net accrual, " +
				"net-down adjustment, future outlook) grouped by business unit.",
			InputSchema: anthropic.InputSchema{
				Properties: map[string]any{"business_unit": businessUnitProperty()},
			},
		},
		{
			Name: ToolOutlookGrid,
			Description: "Generate the monthly outlook grid for OneStream. Allocates future outlook per well " +
				"per category across future months using schedule-based allocation " +
				"(linear by day for drill/comp/fb, lump sum for hookup).",
			InputSchema: anthropic.InputSchema{
				Properties: map[string]any{
					"business_unit": businessUnitProperty(),
					"months_forward": map[string]any{
						"type":        "integer",
						"description": "Number of months to project forward (1-6).",
						"minimum":     1,
						"maximum":     6,
						"default":     6,
					},
				},
			},
		},
		{
			Name: ToolAskUserQuestion,
			Description: "Ask the user a clarifying question and wait for their response. Use this when you need " +
				"human judgment before proceeding, for example when WI% mismatches are found and you need " +
				"confirmation to proceed with net-down adjustments. The user will see your options as choices.",
			InputSchema: anthropic.InputSchema{
				Properties: map[string]any{
					"question": map[string]any{
						"type":        "string",
						"description": "The question to ask the user.",
					},
					"options": map[string]any{
						"type":        "array",
						"items":       map[string]any{"type": "string"},
						"minItems":    2,
						"maxItems":    4,
						"description": "2-4 answer choices to offer.",
					},
				},
				Required: []string{"question", "options"},
			},
		},
	}
}
