package workflow

import (
	"context"
	"fmt"

	"github.com/riedtal/admission-backend/internal/model"
)

// RecordExamResult accepts the graded result from the examination office.
// A pass issues the admission letter; a fail rejects the application.
func (e *Engine) RecordExamResult(ctx context.Context, applicationID int64, req *model.ExamResultRequest) (*model.WorkflowInstance, error) {
	app, program, inst, err := e.load(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if inst.Stage.Terminal() {
		return nil, ErrTerminalStage
	}
	if inst.Stage != model.StageExamPending || inst.Context.Exam == nil {
		return nil, ErrInvalidStage
	}

	exam := inst.Context.Exam
	exam.Graded = true
	exam.Passed = *req.Passed
	exam.Score = req.Score
	exam.Examiner = req.Examiner

	e.log.Info().
		Int64("application_id", applicationID).
		Bool("passed", exam.Passed).
		Float64("score", exam.Score).
		Str("examiner", exam.Examiner).
		Msg("Entrance exam graded")

	if !exam.Passed {
		if err := e.reject(ctx, app, inst, model.RejectionExamFailed,
			fmt.Sprintf("Score %.1f is below the passing score of %d.", exam.Score, exam.PassingScore)); err != nil {
			return nil, err
		}
		return inst, nil
	}

	if err := e.admit(ctx, app, program, inst, model.AdmissionExamPassed); err != nil {
		return nil, err
	}
	return inst, nil
}
