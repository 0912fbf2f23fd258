package service

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riedtal/admission-backend/internal/config"
)

func newDeadlineService(t *testing.T) *DeadlineService {
	t.Helper()
	return NewDeadlineService(config.DeadlineConfig{
		WinterSemesterStart: "2025-08-01",
		SummerSemesterStart: "2025-02-01",
		MonthsBefore:        2,
	}, zerolog.Nop())
}

func TestDeadlineEvaluate_WinterSemester(t *testing.T) {
	s := newDeadlineService(t)

	rec := s.Evaluate(time.Date(2025, 3, 15, 14, 30, 0, 0, time.UTC))

	assert.True(t, rec.OnTime)
	assert.Equal(t, "Winter Semester 2025", rec.TargetSemester)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), rec.SubmissionDeadline)
	assert.Equal(t, 78, rec.DaysUntilDeadline)
}

func TestDeadlineEvaluate_SummerSemesterNextYear(t *testing.T) {
	s := newDeadlineService(t)

	rec := s.Evaluate(time.Date(2025, 9, 10, 9, 0, 0, 0, time.UTC))

	assert.True(t, rec.OnTime)
	assert.Equal(t, "Summer Semester 2026", rec.TargetSemester)
	assert.Equal(t, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), rec.SubmissionDeadline)
}

func TestDeadlineEvaluate_DeadlineDayIsInclusive(t *testing.T) {
	s := newDeadlineService(t)

	// 23:59 on the deadline day still counts.
	rec := s.Evaluate(time.Date(2025, 6, 1, 23, 59, 0, 0, time.UTC))
	assert.True(t, rec.OnTime)
	assert.Equal(t, 0, rec.DaysUntilDeadline)

	// 00:01 the next day is late.
	rec = s.Evaluate(time.Date(2025, 6, 2, 0, 1, 0, 0, time.UTC))
	assert.False(t, rec.OnTime)
	assert.Negative(t, rec.DaysUntilDeadline)
}

func TestDeadlineEvaluate_JuneJulyBoundary(t *testing.T) {
	s := newDeadlineService(t)

	june := s.Evaluate(time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, "Winter Semester 2025", june.TargetSemester)

	july := s.Evaluate(time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC))
	assert.Equal(t, "Summer Semester 2026", july.TargetSemester)
}

func TestDeadlineEvaluate_UnparseableCalendarFailsOpen(t *testing.T) {
	s := NewDeadlineService(config.DeadlineConfig{
		WinterSemesterStart: "not-a-date",
		SummerSemesterStart: "2025-02-01",
		MonthsBefore:        2,
	}, zerolog.Nop())

	rec := s.Evaluate(time.Date(2025, 12, 24, 0, 0, 0, 0, time.UTC))

	require.True(t, rec.OnTime)
	assert.Equal(t, "Unknown", rec.TargetSemester)
	assert.True(t, rec.SubmissionDeadline.IsZero())
}
