package workflow

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riedtal/admission-backend/internal/config"
	"github.com/riedtal/admission-backend/internal/model"
	"github.com/riedtal/admission-backend/internal/notifier"
	"github.com/riedtal/admission-backend/internal/repository"
	"github.com/riedtal/admission-backend/internal/scheduler"
	"github.com/riedtal/admission-backend/internal/service"
)

// recordingSender captures notifications instead of delivering them.
type recordingSender struct {
	mu       sync.Mutex
	messages []notifier.Message
}

func (r *recordingSender) Send(_ context.Context, msg notifier.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
	return nil
}

func (r *recordingSender) kinds() []notifier.Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds := make([]notifier.Kind, len(r.messages))
	for i, m := range r.messages {
		kinds[i] = m.Kind
	}
	return kinds
}

func (r *recordingSender) lastKind() notifier.Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.messages) == 0 {
		return ""
	}
	return r.messages[len(r.messages)-1].Kind
}

type testEnv struct {
	engine    *Engine
	apps      *repository.MemoryApplicationStore
	programs  *repository.MemoryStudyProgramStore
	students  *repository.MemoryStudentStore
	instances *repository.MemoryWorkflowStore
	sched     *scheduler.FakeScheduler
	sender    *recordingSender
	cfg       *config.Config
}

var testNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{
		Deadline: config.DeadlineConfig{
			WinterSemesterStart: "2025-08-01",
			SummerSemesterStart: "2025-02-01",
			MonthsBefore:        2,
		},
		Quota: config.QuotaConfig{Enabled: true, MinimumPerGender: 1, QuotaWindow: 2},
		Payment: config.PaymentConfig{
			DeadlineAfter:    28 * 24 * time.Hour,
			FirstCheckAfter:  7 * 24 * time.Hour,
			SecondCheckAfter: 7 * 24 * time.Hour,
			FeeAmountEUR:     "350.00",
		},
	}

	env := &testEnv{
		apps:      repository.NewMemoryApplicationStore(),
		programs:  repository.NewMemoryStudyProgramStore(),
		students:  repository.NewMemoryStudentStore(),
		instances: repository.NewMemoryWorkflowStore(),
		sched:     scheduler.NewFakeScheduler(),
		sender:    &recordingSender{},
		cfg:       cfg,
	}

	log := zerolog.Nop()
	env.engine = NewEngine(
		cfg, log,
		env.apps, env.programs, env.students, env.instances,
		service.NewDeadlineService(cfg.Deadline, log),
		service.NewRankingService(cfg.Quota),
		service.NewExamService(),
		service.NewStudentNumberService(env.students),
		env.sched, env.sender,
	)
	env.engine.now = func() time.Time { return testNow }
	return env
}

func (env *testEnv) createProgram(t *testing.T, code string, admissionType model.AdmissionType, maxStudents *int) *model.StudyProgram {
	t.Helper()
	p := &model.StudyProgram{Code: code, Name: code, AdmissionType: admissionType, MaxStudents: maxStudents}
	require.NoError(t, env.programs.Create(context.Background(), p))
	return p
}

func (env *testEnv) submit(t *testing.T, programID int64, email string, grade *float64, sex model.Sex) *model.ApplicationView {
	t.Helper()
	view, err := env.engine.Submit(context.Background(), &model.SubmitApplicationRequest{
		FirstName:       "Anna",
		LastName:        "Muster",
		Email:           email,
		Sex:             sex,
		DateOfBirth:     "2004-05-20",
		StudyProgramID:  programID,
		HighSchoolGrade: grade,
	})
	require.NoError(t, err)
	return view
}

func (env *testEnv) verifyComplete(t *testing.T, applicationID int64) *model.WorkflowInstance {
	t.Helper()
	inst, err := env.engine.CompleteVerification(context.Background(), applicationID, &model.CompleteVerificationRequest{
		DocumentsComplete: true,
		VerifiedBy:        "office",
	})
	require.NoError(t, err)
	return inst
}

func intPtr(n int) *int { return &n }

func gradePtr(g float64) *float64 { return &g }

func TestSubmit_OnTimeOpensDocumentCheck(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProgram(t, "INF", model.AdmissionOpen, nil)

	view := env.submit(t, p.ID, "anna@example.com", nil, model.SexFemale)

	assert.Equal(t, model.StatusDocumentCheck, view.Application.Status)
	assert.Equal(t, model.StageDocumentCheck, view.Workflow.Stage)
	require.NotNil(t, view.Workflow.Context.Deadline)
	assert.True(t, view.Workflow.Context.Deadline.OnTime)
	assert.Equal(t, []notifier.Kind{notifier.KindWelcome}, env.sender.kinds())
}

func TestSubmit_LateIsRejectedImmediately(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProgram(t, "INF", model.AdmissionOpen, nil)
	// Past the June 1 winter deadline.
	env.engine.now = func() time.Time { return time.Date(2025, 6, 20, 10, 0, 0, 0, time.UTC) }

	view := env.submit(t, p.ID, "late@example.com", nil, model.SexMale)

	assert.Equal(t, model.StatusRejected, view.Application.Status)
	assert.Equal(t, model.StageRejected, view.Workflow.Stage)
	require.NotNil(t, view.Workflow.Context.Rejection)
	assert.Equal(t, model.RejectionDeadlineExceeded, view.Workflow.Context.Rejection.Reason)
	assert.Equal(t, []notifier.Kind{notifier.KindRejection}, env.sender.kinds())
}

func TestSubmit_NumerusClaususRequiresGrade(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProgram(t, "MED", model.AdmissionNumerusClausus, intPtr(10))

	_, err := env.engine.Submit(context.Background(), &model.SubmitApplicationRequest{
		FirstName:      "Ben",
		LastName:       "Muster",
		Email:          "ben@example.com",
		Sex:            model.SexMale,
		DateOfBirth:    "2004-05-20",
		StudyProgramID: p.ID,
	})
	assert.ErrorIs(t, err, ErrGradeRequired)
}

func TestVerification_IncompleteLoopsWithoutLimit(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProgram(t, "INF", model.AdmissionOpen, nil)
	view := env.submit(t, p.ID, "anna@example.com", nil, model.SexFemale)

	for i := 1; i <= 4; i++ {
		inst, err := env.engine.CompleteVerification(context.Background(), view.Application.ID, &model.CompleteVerificationRequest{
			DocumentsComplete: false,
			MissingDocuments:  "Abiturzeugnis",
			VerifiedBy:        "office",
		})
		require.NoError(t, err)
		assert.Equal(t, model.StageDocumentCheck, inst.Stage)
		assert.Equal(t, i, inst.VerificationAttempts)
	}
	assert.Equal(t, notifier.KindDocumentRequest, env.sender.lastKind())

	// The loop ends as soon as the documents are complete.
	inst := env.verifyComplete(t, view.Application.ID)
	assert.Equal(t, model.StageAwaitingPaymentFirst, inst.Stage)
	assert.Equal(t, 5, inst.VerificationAttempts)
}

func TestVerification_OpenAdmissionIssuesLetter(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProgram(t, "INF", model.AdmissionOpen, nil)
	view := env.submit(t, p.ID, "anna@example.com", nil, model.SexFemale)

	inst := env.verifyComplete(t, view.Application.ID)

	assert.Equal(t, model.StageAwaitingPaymentFirst, inst.Stage)
	require.NotNil(t, inst.Context.Admission)
	adm := inst.Context.Admission
	assert.Equal(t, model.AdmissionDirect, adm.Reason)
	assert.Equal(t, fmt.Sprintf("ZUL-INF-2025-%06d", view.Application.ID), adm.Reference)
	assert.Equal(t, "350.00", adm.FeeAmountEUR)
	// Four weeks out, inclusive through the end of that day.
	assert.Equal(t, time.Date(2025, 4, 7, 23, 59, 59, 0, time.UTC), adm.PaymentDeadline)

	// First payment check is scheduled.
	assert.Equal(t, 7*24*time.Hour, env.sched.FirstChecks[view.Application.ID])
	assert.Equal(t, notifier.KindAdmissionLetter, env.sender.lastKind())

	app, err := env.apps.GetByID(context.Background(), view.Application.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusAccepted, app.Status)
}

func TestVerification_NumerusClaususSelection(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProgram(t, "MED", model.AdmissionNumerusClausus, intPtr(1))

	best := env.submit(t, p.ID, "best@example.com", gradePtr(1.2), model.SexMale)
	worse := env.submit(t, p.ID, "worse@example.com", gradePtr(3.5), model.SexMale)
	windowed := env.submit(t, p.ID, "quota@example.com", gradePtr(2.0), model.SexFemale)

	inst := env.verifyComplete(t, best.Application.ID)
	assert.Equal(t, model.StageAwaitingPaymentFirst, inst.Stage)
	assert.Equal(t, model.AdmissionRankBased, inst.Context.Admission.Reason)

	// Rank 2 of 1 seat, inside the quota window, sex F.
	inst = env.verifyComplete(t, windowed.Application.ID)
	assert.Equal(t, model.StageAwaitingPaymentFirst, inst.Stage)
	assert.Equal(t, model.AdmissionGenderQuota, inst.Context.Admission.Reason)

	// Rank 3 of 1 seat, male, past any consideration.
	inst = env.verifyComplete(t, worse.Application.ID)
	assert.Equal(t, model.StageRejected, inst.Stage)
	assert.Equal(t, model.SelectionInsufficientRank, inst.Context.Ranking.Reason)
	assert.Equal(t, model.RejectionInsufficientRank, inst.Context.Rejection.Reason)
}

func TestVerification_UnknownAdmissionTypeFails(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProgram(t, "LOT", model.AdmissionType("LOTTERY"), nil)
	view := env.submit(t, p.ID, "lottery@example.com", nil, model.SexMale)

	_, err := env.engine.CompleteVerification(context.Background(), view.Application.ID, &model.CompleteVerificationRequest{
		DocumentsComplete: true,
		VerifiedBy:        "office",
	})
	assert.ErrorIs(t, err, ErrProgramMisconfigured)
}

func TestVerification_WrongStageRejected(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProgram(t, "INF", model.AdmissionOpen, nil)
	view := env.submit(t, p.ID, "anna@example.com", nil, model.SexFemale)
	env.verifyComplete(t, view.Application.ID)

	_, err := env.engine.CompleteVerification(context.Background(), view.Application.ID, &model.CompleteVerificationRequest{
		DocumentsComplete: true,
		VerifiedBy:        "office",
	})
	assert.ErrorIs(t, err, ErrInvalidStage)
}

func TestExamFlow_PassAndFail(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProgram(t, "BWL", model.AdmissionEntranceExam, nil)

	pass := env.submit(t, p.ID, "pass@example.com", nil, model.SexMale)
	inst := env.verifyComplete(t, pass.Application.ID)
	assert.Equal(t, model.StageExamPending, inst.Stage)
	require.NotNil(t, inst.Context.Exam)
	assert.NotEmpty(t, inst.Context.Exam.InvitationReference)
	assert.Equal(t, notifier.KindExamInvitation, env.sender.lastKind())

	passed := true
	inst, err := env.engine.RecordExamResult(context.Background(), pass.Application.ID, &model.ExamResultRequest{
		Passed:   &passed,
		Score:    82,
		Examiner: "Prof. Dr. Wagner",
	})
	require.NoError(t, err)
	assert.Equal(t, model.StageAwaitingPaymentFirst, inst.Stage)
	assert.Equal(t, model.AdmissionExamPassed, inst.Context.Admission.Reason)

	fail := env.submit(t, p.ID, "fail@example.com", nil, model.SexMale)
	env.verifyComplete(t, fail.Application.ID)
	failed := false
	inst, err = env.engine.RecordExamResult(context.Background(), fail.Application.ID, &model.ExamResultRequest{
		Passed:   &failed,
		Score:    41,
		Examiner: "Prof. Dr. Wagner",
	})
	require.NoError(t, err)
	assert.Equal(t, model.StageRejected, inst.Stage)
	assert.Equal(t, model.RejectionExamFailed, inst.Context.Rejection.Reason)
}

func TestExamResult_WrongStage(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProgram(t, "INF", model.AdmissionOpen, nil)
	view := env.submit(t, p.ID, "anna@example.com", nil, model.SexFemale)

	passed := true
	_, err := env.engine.RecordExamResult(context.Background(), view.Application.ID, &model.ExamResultRequest{
		Passed:   &passed,
		Score:    90,
		Examiner: "Prof. Dr. Wagner",
	})
	assert.ErrorIs(t, err, ErrInvalidStage)
}

func TestPayment_PaidAtFirstCheckEnrolls(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProgram(t, "INF", model.AdmissionOpen, nil)
	view := env.submit(t, p.ID, "anna@example.com", nil, model.SexFemale)
	env.verifyComplete(t, view.Application.ID)

	_, err := env.engine.UpdatePayment(context.Background(), view.Application.ID, true)
	require.NoError(t, err)

	require.NoError(t, env.engine.HandlePaymentCheckFirst(context.Background(), view.Application.ID))

	inst, err := env.instances.Get(context.Background(), view.Application.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StageEnrolled, inst.Stage)

	student, err := env.students.GetByApplicationID(context.Background(), view.Application.ID)
	require.NoError(t, err)
	assert.Equal(t, "INF20250001", student.StudentNumber)
	assert.Equal(t, 1, student.CurrentSemester)
	assert.Equal(t, notifier.KindEnrollmentConfirmation, env.sender.lastKind())

	app, err := env.apps.GetByID(context.Background(), view.Application.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusEnrolled, app.Status)
}

func TestPayment_UnpaidEscalatesThenRevokes(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProgram(t, "INF", model.AdmissionOpen, nil)
	view := env.submit(t, p.ID, "anna@example.com", nil, model.SexFemale)
	env.verifyComplete(t, view.Application.ID)

	require.NoError(t, env.engine.HandlePaymentCheckFirst(context.Background(), view.Application.ID))

	inst, err := env.instances.Get(context.Background(), view.Application.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StageAwaitingPaymentFinal, inst.Stage)
	require.NotNil(t, inst.Context.Payment)
	assert.False(t, inst.Context.Payment.ReminderUrgent) // 21 days left
	assert.Equal(t, notifier.KindPaymentReminder, env.sender.lastKind())
	assert.Equal(t, 7*24*time.Hour, env.sched.FinalChecks[view.Application.ID])

	require.NoError(t, env.engine.HandlePaymentCheckFinal(context.Background(), view.Application.ID))

	inst, err = env.instances.Get(context.Background(), view.Application.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StageRejected, inst.Stage)
	assert.Equal(t, model.RejectionPaymentNotReceived, inst.Context.Rejection.Reason)
	assert.True(t, inst.Context.Admission.Revoked)
	// The fixed test clock is still before the payment deadline.
	assert.False(t, inst.Context.Payment.DeadlineExpired)
}

func TestPayment_ReminderUrgencyNearDeadline(t *testing.T) {
	env := newTestEnv(t)
	// Admission letter deadline only ten days out; at the first check three
	// days remain.
	env.cfg.Payment.DeadlineAfter = 10 * 24 * time.Hour
	p := env.createProgram(t, "INF", model.AdmissionOpen, nil)
	view := env.submit(t, p.ID, "anna@example.com", nil, model.SexFemale)
	env.verifyComplete(t, view.Application.ID)

	env.engine.now = func() time.Time { return testNow.Add(7 * 24 * time.Hour) }
	require.NoError(t, env.engine.HandlePaymentCheckFirst(context.Background(), view.Application.ID))

	inst, err := env.instances.Get(context.Background(), view.Application.ID)
	require.NoError(t, err)
	assert.True(t, inst.Context.Payment.ReminderUrgent)
}

func TestPayment_ExpiredDeadlineAtFirstCheckEscalatesUrgently(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProgram(t, "INF", model.AdmissionOpen, nil)
	view := env.submit(t, p.ID, "anna@example.com", nil, model.SexFemale)
	env.verifyComplete(t, view.Application.ID)

	// Timer fires long after the payment deadline has elapsed. The applicant
	// still gets a last urgent reminder; revocation waits for the final check.
	env.engine.now = func() time.Time { return testNow.Add(40 * 24 * time.Hour) }
	require.NoError(t, env.engine.HandlePaymentCheckFirst(context.Background(), view.Application.ID))

	inst, err := env.instances.Get(context.Background(), view.Application.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StageAwaitingPaymentFinal, inst.Stage)
	assert.True(t, inst.Context.Payment.ReminderUrgent)
	assert.Equal(t, notifier.KindPaymentReminder, env.sender.lastKind())

	require.NoError(t, env.engine.HandlePaymentCheckFinal(context.Background(), view.Application.ID))

	inst, err = env.instances.Get(context.Background(), view.Application.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StageRejected, inst.Stage)
	assert.Equal(t, model.RejectionPaymentNotReceived, inst.Context.Rejection.Reason)
	assert.True(t, inst.Context.Payment.DeadlineExpired)
}

func TestPayment_PaidAtFinalCheckEnrollsDespiteExpiry(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProgram(t, "INF", model.AdmissionOpen, nil)
	view := env.submit(t, p.ID, "anna@example.com", nil, model.SexFemale)
	env.verifyComplete(t, view.Application.ID)

	require.NoError(t, env.engine.HandlePaymentCheckFirst(context.Background(), view.Application.ID))

	_, err := env.engine.UpdatePayment(context.Background(), view.Application.ID, true)
	require.NoError(t, err)

	// A payment received before the final check wins even past the deadline.
	env.engine.now = func() time.Time { return testNow.Add(40 * 24 * time.Hour) }
	require.NoError(t, env.engine.HandlePaymentCheckFinal(context.Background(), view.Application.ID))

	inst, err := env.instances.Get(context.Background(), view.Application.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StageEnrolled, inst.Stage)
}

func TestPayment_TimersAreIdempotent(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProgram(t, "INF", model.AdmissionOpen, nil)
	view := env.submit(t, p.ID, "anna@example.com", nil, model.SexFemale)
	env.verifyComplete(t, view.Application.ID)

	require.NoError(t, env.engine.HandlePaymentCheckFirst(context.Background(), view.Application.ID))
	reminders := len(env.sender.kinds())

	// Redelivered first check is a no-op once the stage has moved on.
	require.NoError(t, env.engine.HandlePaymentCheckFirst(context.Background(), view.Application.ID))
	assert.Len(t, env.sender.kinds(), reminders)

	require.NoError(t, env.engine.HandlePaymentCheckFinal(context.Background(), view.Application.ID))
	require.NoError(t, env.engine.HandlePaymentCheckFinal(context.Background(), view.Application.ID))

	inst, err := env.instances.Get(context.Background(), view.Application.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StageRejected, inst.Stage)
}

func TestPayment_UpdateRequiresAcceptedStatus(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProgram(t, "INF", model.AdmissionOpen, nil)
	view := env.submit(t, p.ID, "anna@example.com", nil, model.SexFemale)

	_, err := env.engine.UpdatePayment(context.Background(), view.Application.ID, true)
	assert.ErrorIs(t, err, ErrPaymentNotOpen)
}

func TestEnroll_IsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProgram(t, "INF", model.AdmissionOpen, nil)
	view := env.submit(t, p.ID, "anna@example.com", nil, model.SexFemale)
	env.verifyComplete(t, view.Application.ID)

	_, err := env.engine.UpdatePayment(context.Background(), view.Application.ID, true)
	require.NoError(t, err)

	require.NoError(t, env.engine.HandlePaymentCheckFirst(context.Background(), view.Application.ID))

	// Replaying the enrollment keeps a single student record.
	app, program, inst, err := env.engine.load(context.Background(), view.Application.ID)
	require.NoError(t, err)
	require.NoError(t, env.engine.enroll(context.Background(), app, program, inst))

	first, err := env.students.GetByApplicationID(context.Background(), view.Application.ID)
	require.NoError(t, err)
	assert.Equal(t, "INF20250001", first.StudentNumber)
}

func TestStudentNumbers_SequentialAcrossEnrollments(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProgram(t, "INF", model.AdmissionOpen, nil)

	for i := 1; i <= 3; i++ {
		view := env.submit(t, p.ID, fmt.Sprintf("a%d@example.com", i), nil, model.SexFemale)
		env.verifyComplete(t, view.Application.ID)
		_, err := env.engine.UpdatePayment(context.Background(), view.Application.ID, true)
		require.NoError(t, err)
		require.NoError(t, env.engine.HandlePaymentCheckFirst(context.Background(), view.Application.ID))

		student, err := env.students.GetByApplicationID(context.Background(), view.Application.ID)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("INF2025%04d", i), student.StudentNumber)
	}
}
