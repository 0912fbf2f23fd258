package model

import "time"

// Sex is the applicant's registered sex.
type Sex string

const (
	SexMale    Sex = "M"
	SexFemale  Sex = "F"
	SexDiverse Sex = "D"
)

// ApplicationStatus tracks an application from submission to its terminal
// outcome. Transitions are forward-only except the document verification
// retry loop, which keeps the application in DOCUMENT_CHECK.
type ApplicationStatus string

const (
	StatusSubmitted     ApplicationStatus = "SUBMITTED"
	StatusDocumentCheck ApplicationStatus = "DOCUMENT_CHECK"
	StatusAccepted      ApplicationStatus = "ACCEPTED"
	StatusRejected      ApplicationStatus = "REJECTED"
	StatusEnrolled      ApplicationStatus = "ENROLLED"
)

// Terminal reports whether no further workflow transitions are possible.
func (s ApplicationStatus) Terminal() bool {
	return s == StatusRejected || s == StatusEnrolled
}

// Application is a university application. Email is unique; TuitionFeePaid
// may only become true while the status is ACCEPTED.
type Application struct {
	ID              int64             `json:"id"`
	FirstName       string            `json:"first_name"`
	LastName        string            `json:"last_name"`
	Email           string            `json:"email"`
	Phone           string            `json:"phone"`
	Sex             Sex               `json:"sex"`
	DateOfBirth     time.Time         `json:"date_of_birth"`
	Street          string            `json:"street"`
	City            string            `json:"city"`
	PostalCode      string            `json:"postal_code"`
	Country         string            `json:"country"`
	StudyProgramID  int64             `json:"study_program_id"`
	HighSchoolGrade *float64          `json:"high_school_grade,omitempty"` // 1.00 best .. 4.00 worst
	Status          ApplicationStatus `json:"status"`
	TuitionFeePaid  bool              `json:"tuition_fee_paid"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// FullName returns the applicant's display name for notifications.
func (a *Application) FullName() string {
	return a.FirstName + " " + a.LastName
}

// SubmitApplicationRequest is the payload for submitting a new application.
type SubmitApplicationRequest struct {
	FirstName       string   `json:"first_name" binding:"required,min=1,max=100"`
	LastName        string   `json:"last_name" binding:"required,min=1,max=100"`
	Email           string   `json:"email" binding:"required,email,max=255"`
	Phone           string   `json:"phone" binding:"omitempty,max=30"`
	Sex             Sex      `json:"sex" binding:"required,oneof=M F D"`
	DateOfBirth     string   `json:"date_of_birth" binding:"required,datetime=2006-01-02"`
	Street          string   `json:"street" binding:"omitempty,max=200"`
	City            string   `json:"city" binding:"omitempty,max=100"`
	PostalCode      string   `json:"postal_code" binding:"omitempty,max=20"`
	Country         string   `json:"country" binding:"omitempty,max=100"`
	StudyProgramID  int64    `json:"study_program_id" binding:"required"`
	HighSchoolGrade *float64 `json:"high_school_grade" binding:"omitempty,min=1.0,max=4.0"`
}

// CompleteVerificationRequest is the payload for completing a document
// verification task.
type CompleteVerificationRequest struct {
	DocumentsComplete bool   `json:"documents_complete"`
	MissingDocuments  string `json:"missing_documents" binding:"omitempty,max=1000"`
	VerificationNotes string `json:"verification_notes" binding:"omitempty,max=1000"`
	VerifiedBy        string `json:"verified_by" binding:"required,min=1,max=100"`
}

// ExamResultRequest is the payload the external grading collaborator posts
// after an entrance exam has been graded.
type ExamResultRequest struct {
	Passed   *bool   `json:"passed" binding:"required"`
	Score    float64 `json:"score" binding:"min=0,max=100"`
	Examiner string  `json:"examiner" binding:"required,min=1,max=100"`
}

// PaymentUpdateRequest is the payload for the payment simulation endpoint.
type PaymentUpdateRequest struct {
	ApplicationID int64 `json:"application_id" binding:"required"`
	Paid          *bool `json:"paid" binding:"required"`
}
