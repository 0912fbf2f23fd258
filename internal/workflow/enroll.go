package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/riedtal/admission-backend/internal/model"
	"github.com/riedtal/admission-backend/internal/notifier"
	"github.com/riedtal/admission-backend/internal/repository"
)

// allocationAttempts bounds the retry loop when a concurrently created
// student wins the race on the student number unique constraint.
const allocationAttempts = 3

// enroll finalizes a paid admission: allocates the student number, creates
// the student record and moves the application to ENROLLED. Re-running for
// an already enrolled application only settles the stage and status.
func (e *Engine) enroll(ctx context.Context, app *model.Application, program *model.StudyProgram, inst *model.WorkflowInstance) error {
	exists, err := e.students.ExistsByApplicationID(ctx, app.ID)
	if err != nil {
		return fmt.Errorf("check existing student: %w", err)
	}

	if !exists {
		student, err := e.createStudent(ctx, app, program)
		if err != nil {
			return err
		}
		e.log.Info().
			Int64("application_id", app.ID).
			Str("student_number", student.StudentNumber).
			Msg("Student enrolled")
		e.notify(ctx, notifier.EnrollmentConfirmation(app, program, student.StudentNumber))
	}

	inst.Stage = model.StageEnrolled
	if err := e.instances.Update(ctx, inst); err != nil {
		return fmt.Errorf("persist enrollment: %w", err)
	}
	if err := e.apps.UpdateStatus(ctx, app.ID, model.StatusEnrolled); err != nil {
		return fmt.Errorf("update application status: %w", err)
	}
	app.Status = model.StatusEnrolled
	return nil
}

// createStudent allocates a student number and inserts the student row
// inside the allocator's critical section. The unique constraint on
// student_number is the final arbiter across processes; on a duplicate the
// allocation is retried with a fresh read of the sequence.
func (e *Engine) createStudent(ctx context.Context, app *model.Application, program *model.StudyProgram) (*model.Student, error) {
	year := e.now().Year()

	student := &model.Student{
		FirstName:       app.FirstName,
		LastName:        app.LastName,
		Email:           app.Email,
		StudyProgramID:  program.ID,
		EnrollmentDate:  e.now(),
		CurrentSemester: 1,
		ApplicationID:   app.ID,
	}

	var lastErr error
	for attempt := 0; attempt < allocationAttempts; attempt++ {
		_, err := e.allocator.Allocate(ctx, program.Code, year, func(ctx context.Context, number string) error {
			student.StudentNumber = number
			return e.students.Create(ctx, student)
		})
		if err == nil {
			return student, nil
		}
		if !errors.Is(err, repository.ErrDuplicateStudentNumber) {
			return nil, fmt.Errorf("allocate student number: %w", err)
		}
		lastErr = err
		e.log.Warn().
			Int64("application_id", app.ID).
			Str("student_number", student.StudentNumber).
			Int("attempt", attempt+1).
			Msg("Student number taken, retrying allocation")
	}
	return nil, fmt.Errorf("allocate student number after %d attempts: %w", allocationAttempts, lastErr)
}
