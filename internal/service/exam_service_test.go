package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExamSchedule_TwoWeeksOutAtTen(t *testing.T) {
	s := NewExamService()
	// Wednesday; two weeks later is also a Wednesday.
	now := time.Date(2025, 3, 5, 16, 45, 0, 0, time.UTC)

	rec := s.Schedule(now, 1, "INF")

	assert.Equal(t, time.Date(2025, 3, 19, 10, 0, 0, 0, time.UTC), rec.Date)
	assert.Equal(t, ExamDurationMinutes, rec.DurationMinutes)
	assert.Equal(t, ExamMaxScore, rec.MaxScore)
	assert.Equal(t, ExamPassingScore, rec.PassingScore)
}

func TestExamSchedule_RollsPastWeekend(t *testing.T) {
	s := NewExamService()
	// Saturday; two weeks later lands on a Saturday and must roll to Monday.
	now := time.Date(2025, 3, 8, 11, 0, 0, 0, time.UTC)

	rec := s.Schedule(now, 1, "INF")

	assert.Equal(t, time.Monday, rec.Date.Weekday())
	assert.Equal(t, time.Date(2025, 3, 24, 10, 0, 0, 0, time.UTC), rec.Date)
}

func TestExamSchedule_ProgramVenues(t *testing.T) {
	s := NewExamService()
	now := time.Date(2025, 3, 5, 9, 0, 0, 0, time.UTC)

	med := s.Schedule(now, 1, "MED")
	assert.Equal(t, "Medizinische Fakultät, Hauptgebäude", med.Location)
	assert.Equal(t, "Prof. Dr. Schmidt, Dr. Weber, Dr. Müller", med.Committee)

	unknown := s.Schedule(now, 1, "XYZ")
	assert.Equal(t, defaultExamLocation, unknown.Location)
	assert.Equal(t, defaultExamCommittee, unknown.Committee)
}

func TestExamSchedule_RoomAssignment(t *testing.T) {
	s := NewExamService()
	now := time.Date(2025, 3, 5, 9, 0, 0, 0, time.UTC)

	assert.Equal(t, "Raum P-008", s.Schedule(now, 7, "INF").Room)
	assert.Equal(t, "Raum P-001", s.Schedule(now, 10, "INF").Room)
	assert.Equal(t, "Raum P-003", s.Schedule(now, 42, "INF").Room)
}

func TestExamInvite(t *testing.T) {
	s := NewExamService()
	now := time.Date(2025, 3, 5, 9, 0, 0, 0, time.UTC)

	rec := s.Schedule(now, 42, "BWL")
	s.Invite(&rec, 42)

	assert.Equal(t, "EXAM-19032025-000042", rec.InvitationReference)
	assert.NotEmpty(t, rec.CheckInToken)
	assert.Equal(t, rec.Date.AddDate(0, 0, -3), rec.ConfirmationDeadline)
}
