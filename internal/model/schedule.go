package model

import "time"

// Phase is one of the fixed well project phases, in chronological order.
type Phase string

const (
	PhaseSpud            Phase = "Spud"
	PhaseTD              Phase = "TD"
	PhaseFracStart       Phase = "Frac Start"
	PhaseFracEnd         Phase = "Frac End"
	PhaseFirstProduction Phase = "First Production"
)

// Phases lists all phases in chronological order.
var Phases = []Phase{PhaseSpud, PhaseTD, PhaseFracStart, PhaseFracEnd, PhaseFirstProduction}

// phaseRank maps each phase to its chronological position.
var phaseRank = map[Phase]int{
	PhaseSpud:            0,
	PhaseTD:              1,
	PhaseFracStart:       2,
	PhaseFracEnd:         3,
	PhaseFirstProduction: 4,
}

// Rank returns the chronological position of the phase, or -1 if unknown.
func (p Phase) Rank() int {
	if r, ok := phaseRank[p]; ok {
		return r
	}
	return -1
}

// ParsePhase validates a planned-phase string from the schedule table.
func ParsePhase(s string) (Phase, bool) {
	p := Phase(s)
	_, ok := phaseRank[p]
	return p, ok
}

// ScheduleEntry is one row of the drill schedule: a planned date for one
// phase of one well.
type ScheduleEntry struct {
	WBSElement string    `json:"wbs_element"`
	Phase      Phase     `json:"planned_phase"`
	Date       time.Time `json:"planned_date"`
}

// PhaseDates holds the planned dates for a single well keyed by phase.
type PhaseDates map[Phase]time.Time

// Schedule indexes schedule entries by well.
type Schedule map[string]PhaseDates

// BuildSchedule groups schedule entries into per-well phase date maps.
// Duplicate (well, phase) rows keep the last entry, matching load order.
func BuildSchedule(entries []ScheduleEntry) Schedule {
	s := make(Schedule)
	for _, e := range entries {
		if s[e.WBSElement] == nil {
			s[e.WBSElement] = make(PhaseDates)
		}
		s[e.WBSElement][e.Phase] = e.Date
	}
	return s
}

// SpanDates looks up the start and end dates bounding a category's
// allocation window for one well. ok is false when either date is missing.
func (s Schedule) SpanDates(wbs string, c CostCategory) (start, end time.Time, ok bool) {
	dates := s[wbs]
	if dates == nil {
		return time.Time{}, time.Time{}, false
	}
	startPhase, endPhase := c.Span()
	start, okStart := dates[startPhase]
	end, okEnd := dates[endPhase]
	return start, end, okStart && okEnd
}
