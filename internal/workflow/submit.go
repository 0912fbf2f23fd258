package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/riedtal/admission-backend/internal/model"
	"github.com/riedtal/admission-backend/internal/notifier"
)

// Submit registers a new application, validates the submission deadline and
// opens the document verification stage. Late submissions are rejected
// immediately with DEADLINE_EXCEEDED.
func (e *Engine) Submit(ctx context.Context, req *model.SubmitApplicationRequest) (*model.ApplicationView, error) {
	program, err := e.programs.GetByID(ctx, req.StudyProgramID)
	if err != nil {
		return nil, fmt.Errorf("load study program %d: %w", req.StudyProgramID, err)
	}
	if program.AdmissionType == model.AdmissionNumerusClausus && req.HighSchoolGrade == nil {
		return nil, ErrGradeRequired
	}

	dob, err := time.Parse("2006-01-02", req.DateOfBirth)
	if err != nil {
		return nil, fmt.Errorf("parse date of birth: %w", err)
	}

	app := &model.Application{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Phone:           req.Phone,
		Sex:             req.Sex,
		DateOfBirth:     dob,
		Street:          req.Street,
		City:            req.City,
		PostalCode:      req.PostalCode,
		Country:         req.Country,
		StudyProgramID:  req.StudyProgramID,
		HighSchoolGrade: req.HighSchoolGrade,
		Status:          model.StatusSubmitted,
	}
	if err := e.apps.Create(ctx, app); err != nil {
		return nil, err
	}

	deadline := e.deadline.Evaluate(e.now())
	inst := &model.WorkflowInstance{
		ApplicationID: app.ID,
		Stage:         model.StageDocumentCheck,
		Context:       model.WorkflowContext{Deadline: &deadline},
	}
	if err := e.instances.Create(ctx, inst); err != nil {
		return nil, fmt.Errorf("create workflow instance: %w", err)
	}

	if !deadline.OnTime {
		message := fmt.Sprintf("Submission deadline for %s was %s.",
			deadline.TargetSemester, deadline.SubmissionDeadline.Format("2006-01-02"))
		if err := e.reject(ctx, app, inst, model.RejectionDeadlineExceeded, message); err != nil {
			return nil, err
		}
		return &model.ApplicationView{Application: *app, Workflow: *inst}, nil
	}

	if err := e.apps.UpdateStatus(ctx, app.ID, model.StatusDocumentCheck); err != nil {
		return nil, fmt.Errorf("update application status: %w", err)
	}
	app.Status = model.StatusDocumentCheck

	e.log.Info().
		Int64("application_id", app.ID).
		Str("program", program.Code).
		Str("target_semester", deadline.TargetSemester).
		Msg("Application submitted")

	e.notify(ctx, notifier.Welcome(app, program, deadline))

	return &model.ApplicationView{Application: *app, Workflow: *inst}, nil
}
