package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riedtal/admission-backend/internal/model"
)

// WorkflowRepository persists per-application workflow instances. Stage,
// attempts counter and the typed context land in a single row so every
// transition is one atomic UPDATE.
type WorkflowRepository struct {
	pool *pgxpool.Pool
}

// NewWorkflowRepository creates a new WorkflowRepository.
func NewWorkflowRepository(pool *pgxpool.Pool) *WorkflowRepository {
	return &WorkflowRepository{pool: pool}
}

// Get retrieves the workflow instance for an application.
func (r *WorkflowRepository) Get(ctx context.Context, applicationID int64) (*model.WorkflowInstance, error) {
	inst := &model.WorkflowInstance{}
	var raw []byte
	err := r.pool.QueryRow(ctx,
		`SELECT application_id, stage, verification_attempts, context, updated_at
		 FROM workflow_instances WHERE application_id = $1`, applicationID,
	).Scan(&inst.ApplicationID, &inst.Stage, &inst.VerificationAttempts, &raw, &inst.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(raw, &inst.Context); err != nil {
		return nil, err
	}
	return inst, nil
}

// Create inserts the workflow instance for a freshly submitted application.
func (r *WorkflowRepository) Create(ctx context.Context, inst *model.WorkflowInstance) error {
	raw, err := json.Marshal(inst.Context)
	if err != nil {
		return err
	}
	return r.pool.QueryRow(ctx,
		`INSERT INTO workflow_instances (application_id, stage, verification_attempts, context)
		 VALUES ($1, $2, $3, $4)
		 RETURNING updated_at`,
		inst.ApplicationID, inst.Stage, inst.VerificationAttempts, raw,
	).Scan(&inst.UpdatedAt)
}

// Update persists stage, attempts and context in one statement.
func (r *WorkflowRepository) Update(ctx context.Context, inst *model.WorkflowInstance) error {
	raw, err := json.Marshal(inst.Context)
	if err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE workflow_instances
		 SET stage = $1, verification_attempts = $2, context = $3, updated_at = CURRENT_TIMESTAMP
		 WHERE application_id = $4`,
		inst.Stage, inst.VerificationAttempts, raw, inst.ApplicationID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListPendingVerification returns all open document verification tasks,
// oldest submission first.
func (r *WorkflowRepository) ListPendingVerification(ctx context.Context) ([]model.VerificationTask, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT a.id, a.first_name || ' ' || a.last_name, a.email, p.code,
		        w.verification_attempts, COALESCE(w.context->'documents'->>'missing_documents', ''),
		        a.created_at
		 FROM workflow_instances w
		 JOIN applications a ON a.id = w.application_id
		 JOIN study_programs p ON p.id = a.study_program_id
		 WHERE w.stage = $1
		 ORDER BY a.created_at ASC`,
		model.StageDocumentCheck,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []model.VerificationTask
	for rows.Next() {
		t := model.VerificationTask{}
		if err := rows.Scan(&t.ApplicationID, &t.ApplicantName, &t.Email, &t.StudyProgramCode,
			&t.Attempts, &t.MissingDocuments, &t.SubmittedAt); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}
