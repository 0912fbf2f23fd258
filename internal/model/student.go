package model

import "time"

// Student is an enrolled student. Exactly one Student exists per Application,
// created when the application reaches ENROLLED.
type Student struct {
	ID              int64     `json:"id"`
	StudentNumber   string    `json:"student_number"` // {ProgramCode}{Year}{4-digit seq}
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	Email           string    `json:"email"`
	StudyProgramID  int64     `json:"study_program_id"`
	EnrollmentDate  time.Time `json:"enrollment_date"`
	CurrentSemester int       `json:"current_semester"`
	ApplicationID   int64     `json:"application_id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
