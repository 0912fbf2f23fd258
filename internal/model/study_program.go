package model

import "time"

// AdmissionType selects the admission path for a study program. Any other
// value in the database is a fatal configuration error.
type AdmissionType string

const (
	AdmissionOpen           AdmissionType = "OPEN"
	AdmissionNumerusClausus AdmissionType = "NUMERUS_CLAUSUS"
	AdmissionEntranceExam   AdmissionType = "ENTRANCE_EXAM"
)

// StudyProgram is a degree program applications are filed against.
// MaxStudents is required for NUMERUS_CLAUSUS programs.
type StudyProgram struct {
	ID            int64         `json:"id"`
	Code          string        `json:"code"`
	Name          string        `json:"name"`
	AdmissionType AdmissionType `json:"admission_type"`
	MaxStudents   *int          `json:"max_students,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}
