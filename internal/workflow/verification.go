package workflow

import (
	"context"
	"fmt"

	"github.com/riedtal/admission-backend/internal/model"
	"github.com/riedtal/admission-backend/internal/notifier"
)

// CompleteVerification records the outcome of a document verification task.
// Incomplete documents keep the application in DOCUMENT_CHECK and request
// the missing ones from the applicant; there is no attempt limit. Complete
// documents route the application by the program's admission type.
func (e *Engine) CompleteVerification(ctx context.Context, applicationID int64, req *model.CompleteVerificationRequest) (*model.WorkflowInstance, error) {
	app, program, inst, err := e.load(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if inst.Stage.Terminal() {
		return nil, ErrTerminalStage
	}
	if inst.Stage != model.StageDocumentCheck {
		return nil, ErrInvalidStage
	}

	inst.VerificationAttempts++
	inst.Context.Documents = &model.DocumentRecord{
		Complete:         req.DocumentsComplete,
		MissingDocuments: req.MissingDocuments,
		Notes:            req.VerificationNotes,
		VerifiedBy:       req.VerifiedBy,
		VerifiedAt:       e.now(),
	}

	if !req.DocumentsComplete {
		if err := e.instances.Update(ctx, inst); err != nil {
			return nil, fmt.Errorf("persist verification attempt: %w", err)
		}
		e.log.Info().
			Int64("application_id", applicationID).
			Int("attempt", inst.VerificationAttempts).
			Str("missing", req.MissingDocuments).
			Msg("Documents incomplete, requesting resubmission")
		e.notify(ctx, notifier.DocumentRequest(app, *inst.Context.Documents, inst.VerificationAttempts))
		return inst, nil
	}

	if err := e.route(ctx, app, program, inst); err != nil {
		return nil, err
	}
	return inst, nil
}

// route dispatches a verified application by the program's admission type.
func (e *Engine) route(ctx context.Context, app *model.Application, program *model.StudyProgram, inst *model.WorkflowInstance) error {
	switch program.AdmissionType {
	case model.AdmissionOpen:
		return e.admit(ctx, app, program, inst, model.AdmissionDirect)

	case model.AdmissionNumerusClausus:
		return e.rankAndDecide(ctx, app, program, inst)

	case model.AdmissionEntranceExam:
		return e.scheduleExam(ctx, app, program, inst)

	default:
		e.log.Error().
			Int64("application_id", app.ID).
			Str("admission_type", string(program.AdmissionType)).
			Msg("Unknown admission type, application stuck")
		return fmt.Errorf("%w: unknown admission type %q", ErrProgramMisconfigured, program.AdmissionType)
	}
}

// rankAndDecide runs the numerus clausus selection for one application. The
// per-program lock keeps the pool read and the decision atomic with respect
// to concurrent verifications of the same program.
func (e *Engine) rankAndDecide(ctx context.Context, app *model.Application, program *model.StudyProgram, inst *model.WorkflowInstance) error {
	if program.MaxStudents == nil {
		return fmt.Errorf("%w: numerus clausus program %s has no seat limit", ErrProgramMisconfigured, program.Code)
	}
	if app.HighSchoolGrade == nil {
		return e.reject(ctx, app, inst, model.RejectionInsufficientRank,
			"No high school grade on record for numerus clausus selection.")
	}

	lock := e.programLock(program.ID)
	lock.Lock()
	defer lock.Unlock()

	pool, err := e.apps.FindRankingPool(ctx, program.ID)
	if err != nil {
		return fmt.Errorf("load ranking pool: %w", err)
	}
	rec, err := e.ranking.Evaluate(pool, app.ID, *program.MaxStudents)
	if err != nil {
		return fmt.Errorf("rank application: %w", err)
	}
	inst.Context.Ranking = &rec

	e.log.Info().
		Int64("application_id", app.ID).
		Str("program", program.Code).
		Int("rank", rec.Rank).
		Int("pool", rec.TotalRanked).
		Bool("admitted", rec.Admitted()).
		Msg("Numerus clausus selection evaluated")

	if !rec.Admitted() {
		return e.reject(ctx, app, inst, model.RejectionInsufficientRank,
			fmt.Sprintf("Rank %d of %d exceeds the %d available seats.", rec.Rank, rec.TotalRanked, rec.MaxStudents))
	}
	reason := model.AdmissionRankBased
	if rec.Reason == model.SelectionGenderQuota {
		reason = model.AdmissionGenderQuota
	}
	return e.admit(ctx, app, program, inst, reason)
}

// scheduleExam books the entrance exam, sends the invitation and parks the
// application until the external grader reports a result.
func (e *Engine) scheduleExam(ctx context.Context, app *model.Application, program *model.StudyProgram, inst *model.WorkflowInstance) error {
	exam := e.exams.Schedule(e.now(), app.ID, program.Code)
	e.exams.Invite(&exam, app.ID)
	inst.Context.Exam = &exam
	inst.Stage = model.StageExamPending
	if err := e.instances.Update(ctx, inst); err != nil {
		return fmt.Errorf("persist exam schedule: %w", err)
	}

	e.log.Info().
		Int64("application_id", app.ID).
		Str("reference", exam.InvitationReference).
		Time("exam_date", exam.Date).
		Msg("Entrance exam scheduled")

	e.notify(ctx, notifier.ExamInvitation(app, program, exam))
	return nil
}
