package workflow

import (
	"context"

	"github.com/riedtal/admission-backend/internal/model"
)

// ApplicationStore is the application persistence slice the engine needs.
// Satisfied by repository.ApplicationRepository and the in-memory store.
type ApplicationStore interface {
	GetByID(ctx context.Context, id int64) (*model.Application, error)
	Create(ctx context.Context, a *model.Application) error
	UpdateStatus(ctx context.Context, id int64, status model.ApplicationStatus) error
	SetTuitionFeePaid(ctx context.Context, id int64, paid bool) error
	FindRankingPool(ctx context.Context, programID int64) ([]model.Application, error)
}

// StudyProgramStore resolves study programs.
type StudyProgramStore interface {
	GetByID(ctx context.Context, id int64) (*model.StudyProgram, error)
}

// StudentStore persists enrolled students.
type StudentStore interface {
	GetByApplicationID(ctx context.Context, applicationID int64) (*model.Student, error)
	ExistsByApplicationID(ctx context.Context, applicationID int64) (bool, error)
	Create(ctx context.Context, st *model.Student) error
}

// InstanceStore persists workflow instances. Update writes stage, attempt
// counter and context in one statement.
type InstanceStore interface {
	Get(ctx context.Context, applicationID int64) (*model.WorkflowInstance, error)
	Create(ctx context.Context, inst *model.WorkflowInstance) error
	Update(ctx context.Context, inst *model.WorkflowInstance) error
}

// StudentNumberAllocator hands out unique student numbers. commit runs
// inside the allocation critical section and must persist the number.
type StudentNumberAllocator interface {
	Allocate(ctx context.Context, programCode string, year int, commit func(ctx context.Context, number string) error) (string, error)
}
