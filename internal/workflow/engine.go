// Package workflow implements the admission workflow engine. Every
// externally visible event (submission, verification result, exam grade,
// payment timer) is processed synchronously until the application comes to
// rest in one of the persisted stages; the stage transition and the updated
// context are written in a single statement.
package workflow

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/riedtal/admission-backend/internal/config"
	"github.com/riedtal/admission-backend/internal/model"
	"github.com/riedtal/admission-backend/internal/notifier"
	"github.com/riedtal/admission-backend/internal/scheduler"
	"github.com/riedtal/admission-backend/internal/service"
)

// Engine drives applications through the admission workflow.
type Engine struct {
	cfg *config.Config
	log zerolog.Logger

	apps      ApplicationStore
	programs  StudyProgramStore
	students  StudentStore
	instances InstanceStore

	deadline  *service.DeadlineService
	ranking   *service.RankingService
	exams     *service.ExamService
	allocator StudentNumberAllocator

	scheduler scheduler.Scheduler
	sender    notifier.Sender

	// now is swapped out in tests.
	now func() time.Time

	// programLocks serializes ranking per study program so concurrent
	// verifications over the same pool admit a consistent set.
	mu           sync.Mutex
	programLocks map[int64]*sync.Mutex
}

// NewEngine creates a new workflow engine.
func NewEngine(
	cfg *config.Config,
	log zerolog.Logger,
	apps ApplicationStore,
	programs StudyProgramStore,
	students StudentStore,
	instances InstanceStore,
	deadline *service.DeadlineService,
	ranking *service.RankingService,
	exams *service.ExamService,
	allocator StudentNumberAllocator,
	sched scheduler.Scheduler,
	sender notifier.Sender,
) *Engine {
	return &Engine{
		cfg:          cfg,
		log:          log.With().Str("component", "workflow").Logger(),
		apps:         apps,
		programs:     programs,
		students:     students,
		instances:    instances,
		deadline:     deadline,
		ranking:      ranking,
		exams:        exams,
		allocator:    allocator,
		scheduler:    sched,
		sender:       sender,
		now:          time.Now,
		programLocks: make(map[int64]*sync.Mutex),
	}
}

func (e *Engine) programLock(programID int64) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	lock, ok := e.programLocks[programID]
	if !ok {
		lock = &sync.Mutex{}
		e.programLocks[programID] = lock
	}
	return lock
}

// notify sends a notification and logs delivery failures. A lost mail never
// rolls back a workflow transition.
func (e *Engine) notify(ctx context.Context, msg notifier.Message) {
	if err := e.sender.Send(ctx, msg); err != nil {
		e.log.Error().Err(err).
			Str("kind", string(msg.Kind)).
			Str("to", msg.To).
			Msg("Notification delivery failed")
	}
}

// reject moves the application to REJECTED with the given reason and informs
// the applicant.
func (e *Engine) reject(ctx context.Context, app *model.Application, inst *model.WorkflowInstance, reason model.RejectionReason, message string) error {
	inst.Context.Rejection = &model.RejectionRecord{
		Reason:     reason,
		Message:    message,
		RejectedAt: e.now(),
	}
	inst.Stage = model.StageRejected
	if err := e.instances.Update(ctx, inst); err != nil {
		return fmt.Errorf("persist rejection: %w", err)
	}
	if err := e.apps.UpdateStatus(ctx, app.ID, model.StatusRejected); err != nil {
		return fmt.Errorf("update application status: %w", err)
	}
	app.Status = model.StatusRejected

	e.log.Info().
		Int64("application_id", app.ID).
		Str("reason", string(reason)).
		Msg("Application rejected")

	e.notify(ctx, notifier.Rejection(app, *inst.Context.Rejection))
	return nil
}

// admit issues the admission letter, starts the payment escalation and
// parks the application in AWAITING_PAYMENT_1.
func (e *Engine) admit(ctx context.Context, app *model.Application, program *model.StudyProgram, inst *model.WorkflowInstance, reason model.AdmissionReason) error {
	now := e.now()
	inst.Context.Admission = &model.AdmissionRecord{
		Reference:       admissionReference(program.Code, now.Year(), app.ID),
		Reason:          reason,
		PaymentDeadline: endOfDay(now.Add(e.cfg.Payment.DeadlineAfter)),
		FeeAmountEUR:    e.cfg.Payment.FeeAmountEUR,
		IssuedAt:        now,
	}
	inst.Context.Payment = &model.PaymentRecord{}
	inst.Stage = model.StageAwaitingPaymentFirst
	if err := e.instances.Update(ctx, inst); err != nil {
		return fmt.Errorf("persist admission: %w", err)
	}
	if err := e.apps.UpdateStatus(ctx, app.ID, model.StatusAccepted); err != nil {
		return fmt.Errorf("update application status: %w", err)
	}
	app.Status = model.StatusAccepted

	if err := e.scheduler.SchedulePaymentCheckFirst(ctx, app.ID, e.cfg.Payment.FirstCheckAfter); err != nil {
		return fmt.Errorf("schedule first payment check: %w", err)
	}

	e.log.Info().
		Int64("application_id", app.ID).
		Str("reference", inst.Context.Admission.Reference).
		Str("reason", string(reason)).
		Msg("Admission letter issued")

	e.notify(ctx, notifier.AdmissionLetter(app, program, *inst.Context.Admission))
	return nil
}

// load fetches the application, its program and its workflow instance.
func (e *Engine) load(ctx context.Context, applicationID int64) (*model.Application, *model.StudyProgram, *model.WorkflowInstance, error) {
	app, err := e.apps.GetByID(ctx, applicationID)
	if err != nil {
		return nil, nil, nil, err
	}
	program, err := e.programs.GetByID(ctx, app.StudyProgramID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load study program %d: %w", app.StudyProgramID, err)
	}
	inst, err := e.instances.Get(ctx, applicationID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load workflow instance: %w", err)
	}
	return app, program, inst, nil
}

func admissionReference(programCode string, year int, applicationID int64) string {
	return fmt.Sprintf("ZUL-%s-%d-%06d", programCode, year, applicationID)
}

// endOfDay pins the payment deadline to the last second of its calendar day,
// so the deadline date itself still counts as on time.
func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}
