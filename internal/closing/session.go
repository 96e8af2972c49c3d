package closing

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sells-group/capex-close/internal/dataload"
	"github.com/sells-group/capex-close/internal/model"
)

// Session caches the loaded input tables for one conversation. Sessions are
// never shared across conversations; each chat or HTTP request scope gets
// its own.
type Session struct {
	id          string
	loader      *dataload.Loader
	closePeriod time.Time
	opts        AccrualOptions

	wells []model.WellRecord
	sched model.Schedule
}

// NewSession creates a session over a data directory for one close period.
func NewSession(loader *dataload.Loader, closePeriod time.Time, opts AccrualOptions) *Session {
	return &Session{
		id:          uuid.NewString(),
		loader:      loader,
		closePeriod: closePeriod,
		opts:        opts,
	}
}

// ID returns the session identifier used for audit-log correlation.
func (s *Session) ID() string { return s.id }

// ClosePeriod returns the first day of the close month.
func (s *Session) ClosePeriod() time.Time { return s.closePeriod }

// Period returns the close period in "2026-01" form.
func (s *Session) Period() string { return s.closePeriod.Format(periodLayout) }

// Options returns the accrual options the session was opened with.
func (s *Session) Options() AccrualOptions { return s.opts }

// Wells returns the well registry filtered to one business unit, loading the
// full table on first use.
func (s *Session) Wells(businessUnit string) ([]model.WellRecord, error) {
	if s.wells == nil {
		wells, err := s.loader.Wells(dataload.BUAll)
		if err != nil {
			return nil, err
		}
		s.wells = wells
		zap.L().Debug("session: wells cached",
			zap.String("session_id", s.id),
			zap.Int("count", len(wells)),
		)
	}

	if businessUnit == "" || businessUnit == dataload.BUAll {
		return s.wells, nil
	}
	filtered := []model.WellRecord{}
	for i := range s.wells {
		if s.wells[i].BusinessUnit == businessUnit {
			filtered = append(filtered, s.wells[i])
		}
	}
	return filtered, nil
}

// Schedule returns the drill schedule, loading it on first use.
func (s *Session) Schedule() (model.Schedule, error) {
	if s.sched == nil {
		sched, err := s.loader.Schedule()
		if err != nil {
			return nil, err
		}
		s.sched = sched
	}
	return s.sched, nil
}
