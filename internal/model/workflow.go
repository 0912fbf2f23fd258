package model

import "time"

// Stage is a resting state of the admission workflow. Intermediate steps
// (routing, ranking, letter issuance) run synchronously inside a single
// event and are never persisted as stages of their own.
type Stage string

const (
	// StageDocumentCheck waits on a human document verification task.
	StageDocumentCheck Stage = "DOCUMENT_CHECK"
	// StageExamPending waits on the external grading collaborator.
	StageExamPending Stage = "EXAM_PENDING"
	// StageAwaitingPaymentFirst waits on the first payment check timer.
	StageAwaitingPaymentFirst Stage = "AWAITING_PAYMENT_1"
	// StageAwaitingPaymentFinal waits on the final payment check timer.
	StageAwaitingPaymentFinal Stage = "AWAITING_PAYMENT_2"
	// StageEnrolled and StageRejected are terminal.
	StageEnrolled Stage = "ENROLLED"
	StageRejected Stage = "REJECTED"
)

// Terminal reports whether the stage accepts no further events.
func (s Stage) Terminal() bool {
	return s == StageEnrolled || s == StageRejected
}

// RejectionReason is the machine-readable code attached to every rejection.
type RejectionReason string

const (
	RejectionDeadlineExceeded   RejectionReason = "DEADLINE_EXCEEDED"
	RejectionInsufficientRank   RejectionReason = "INSUFFICIENT_RANK"
	RejectionExamFailed         RejectionReason = "EXAM_FAILED"
	RejectionPaymentNotReceived RejectionReason = "PAYMENT_NOT_RECEIVED"
)

// AdmissionReason records why an application was admitted.
type AdmissionReason string

const (
	AdmissionDirect      AdmissionReason = "DIRECT_ADMISSION"
	AdmissionRankBased   AdmissionReason = "RANK_BASED"
	AdmissionGenderQuota AdmissionReason = "GENDER_QUOTA"
	AdmissionExamPassed  AdmissionReason = "EXAM_PASSED"
)

// WorkflowInstance is the persisted workflow state of one application.
// Stage and Context are always updated together in a single statement.
type WorkflowInstance struct {
	ApplicationID        int64           `json:"application_id"`
	Stage                Stage           `json:"stage"`
	VerificationAttempts int             `json:"verification_attempts"`
	Context              WorkflowContext `json:"context"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// WorkflowContext carries the typed per-stage records produced while an
// application moves through the workflow. Each stage writes its own record;
// later stages read earlier ones.
type WorkflowContext struct {
	Deadline  *DeadlineRecord  `json:"deadline,omitempty"`
	Documents *DocumentRecord  `json:"documents,omitempty"`
	Ranking   *RankingRecord   `json:"ranking,omitempty"`
	Exam      *ExamRecord      `json:"exam,omitempty"`
	Admission *AdmissionRecord `json:"admission,omitempty"`
	Payment   *PaymentRecord   `json:"payment,omitempty"`
	Rejection *RejectionRecord `json:"rejection,omitempty"`
}

// DeadlineRecord is the deadline validator's output.
type DeadlineRecord struct {
	OnTime             bool      `json:"on_time"`
	TargetSemester     string    `json:"target_semester"`
	SubmissionDeadline time.Time `json:"submission_deadline"`
	DaysUntilDeadline  int       `json:"days_until_deadline"` // negative when late
}

// DocumentRecord holds the latest document verification outcome.
type DocumentRecord struct {
	Complete         bool      `json:"complete"`
	MissingDocuments string    `json:"missing_documents,omitempty"`
	Notes            string    `json:"notes,omitempty"`
	VerifiedBy       string    `json:"verified_by"`
	VerifiedAt       time.Time `json:"verified_at"`
}

// SelectionReason is the outcome of a numerus clausus selection.
type SelectionReason string

const (
	SelectionRankBased        SelectionReason = "RANK_BASED"
	SelectionGenderQuota      SelectionReason = "GENDER_QUOTA"
	SelectionInsufficientRank SelectionReason = "INSUFFICIENT_RANK"
)

// RankingRecord is the NC selection decision for this application.
type RankingRecord struct {
	Rank            int             `json:"rank"`
	Grade           float64         `json:"grade"`
	TotalRanked     int             `json:"total_ranked"`
	MaxStudents     int             `json:"max_students"`
	AdmittedByRank  bool            `json:"admitted_by_rank"`
	AdmittedByQuota bool            `json:"admitted_by_quota"`
	Reason          SelectionReason `json:"reason"`
}

// Admitted reports the overall selection outcome.
func (r RankingRecord) Admitted() bool {
	return r.AdmittedByRank || r.AdmittedByQuota
}

// ExamRecord holds the entrance exam schedule, invitation and result.
type ExamRecord struct {
	Date                 time.Time `json:"date"`
	Location             string    `json:"location"`
	Room                 string    `json:"room"`
	Committee            string    `json:"committee"`
	DurationMinutes      int       `json:"duration_minutes"`
	MaxScore             int       `json:"max_score"`
	PassingScore         int       `json:"passing_score"`
	InvitationReference  string    `json:"invitation_reference,omitempty"`
	CheckInToken         string    `json:"check_in_token,omitempty"`
	ConfirmationDeadline time.Time `json:"confirmation_deadline,omitempty"`
	Graded               bool      `json:"graded"`
	Passed               bool      `json:"passed"`
	Score                float64   `json:"score"`
	Examiner             string    `json:"examiner,omitempty"`
}

// AdmissionRecord holds the issued admission letter details.
type AdmissionRecord struct {
	Reference       string          `json:"reference"` // ZUL-{code}-{year}-{id:06d}
	Reason          AdmissionReason `json:"reason"`
	PaymentDeadline time.Time       `json:"payment_deadline"`
	FeeAmountEUR    string          `json:"fee_amount_eur"`
	IssuedAt        time.Time       `json:"issued_at"`
	Revoked         bool            `json:"revoked"`
}

// PaymentRecord tracks the payment escalation progress.
type PaymentRecord struct {
	FirstCheckAt    *time.Time `json:"first_check_at,omitempty"`
	ReminderSentAt  *time.Time `json:"reminder_sent_at,omitempty"`
	ReminderUrgent  bool       `json:"reminder_urgent"`
	FinalCheckAt    *time.Time `json:"final_check_at,omitempty"`
	DeadlineExpired bool       `json:"deadline_expired"`
}

// RejectionRecord is written once when an application reaches REJECTED.
type RejectionRecord struct {
	Reason     RejectionReason `json:"reason"`
	Message    string          `json:"message"`
	RejectedAt time.Time       `json:"rejected_at"`
}

// StudentNumberSequenceDigits is the zero-padded sequence width in student
// numbers, e.g. INF20250001.
const StudentNumberSequenceDigits = 4
