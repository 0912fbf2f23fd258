package model

import "time"

// VerificationTask is one open document verification task as shown to
// admission office staff.
type VerificationTask struct {
	ApplicationID    int64     `json:"application_id"`
	ApplicantName    string    `json:"applicant_name"`
	Email            string    `json:"email"`
	StudyProgramCode string    `json:"study_program_code"`
	Attempts         int       `json:"attempts"`
	MissingDocuments string    `json:"missing_documents,omitempty"`
	SubmittedAt      time.Time `json:"submitted_at"`
}

// ApplicationView is the application together with its workflow state.
type ApplicationView struct {
	Application Application      `json:"application"`
	Workflow    WorkflowInstance `json:"workflow"`
}

// PaymentStatusView is returned by the payment status endpoint.
type PaymentStatusView struct {
	ApplicationID   int64             `json:"application_id"`
	Status          ApplicationStatus `json:"status"`
	TuitionFeePaid  bool              `json:"tuition_fee_paid"`
	Reference       string            `json:"admission_reference,omitempty"`
	FeeAmountEUR    string            `json:"fee_amount_eur,omitempty"`
	PaymentDeadline *time.Time        `json:"payment_deadline,omitempty"`
}
