package service

import (
	"fmt"
	"time"

	"github.com/riedtal/admission-backend/internal/config"
	"github.com/riedtal/admission-backend/internal/model"
	"github.com/rs/zerolog"
)

// calendarDateLayout is the semester start date format in configuration.
const calendarDateLayout = "2006-01-02"

// DeadlineService validates application submission times against the
// semester calendar.
//
// Failure policy: fail-open. An unparseable calendar must never reject an
// applicant, so the validator returns on-time with a zero deadline instead
// of an error. Payment escalation deliberately takes the opposite stance.
type DeadlineService struct {
	cfg config.DeadlineConfig
	log zerolog.Logger
}

// NewDeadlineService creates a new DeadlineService.
func NewDeadlineService(cfg config.DeadlineConfig, log zerolog.Logger) *DeadlineService {
	return &DeadlineService{
		cfg: cfg,
		log: log.With().Str("component", "deadline_service").Logger(),
	}
}

// Evaluate decides whether a submission made at submittedAt is on time.
//
// Submissions in January-June target the winter semester of the same year;
// July-December target the summer semester of the following year. The
// submission deadline is the semester start minus the configured offset,
// inclusive: a submission on the deadline day itself still counts.
func (s *DeadlineService) Evaluate(submittedAt time.Time) model.DeadlineRecord {
	winterStart, werr := time.Parse(calendarDateLayout, s.cfg.WinterSemesterStart)
	summerStart, serr := time.Parse(calendarDateLayout, s.cfg.SummerSemesterStart)
	if werr != nil || serr != nil {
		s.log.Error().
			Str("winter", s.cfg.WinterSemesterStart).
			Str("summer", s.cfg.SummerSemesterStart).
			Msg("Unparseable semester calendar, treating submission as on time")
		return model.DeadlineRecord{OnTime: true, TargetSemester: "Unknown"}
	}

	subDate := time.Date(submittedAt.Year(), submittedAt.Month(), submittedAt.Day(), 0, 0, 0, 0, time.UTC)

	var semesterStart time.Time
	var label string
	if submittedAt.Month() <= time.June {
		semesterStart = withYear(winterStart, submittedAt.Year())
		label = fmt.Sprintf("Winter Semester %d", semesterStart.Year())
	} else {
		semesterStart = withYear(summerStart, submittedAt.Year()+1)
		label = fmt.Sprintf("Summer Semester %d", semesterStart.Year())
	}

	deadline := semesterStart.AddDate(0, -s.cfg.MonthsBefore, 0)
	days := int(deadline.Sub(subDate).Hours() / 24)

	return model.DeadlineRecord{
		OnTime:             !subDate.After(deadline),
		TargetSemester:     label,
		SubmissionDeadline: deadline,
		DaysUntilDeadline:  days,
	}
}

func withYear(t time.Time, year int) time.Time {
	return time.Date(year, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
