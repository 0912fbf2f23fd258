package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riedtal/admission-backend/internal/model"
)

// StudyProgramRepository handles study program data access.
type StudyProgramRepository struct {
	pool *pgxpool.Pool
}

// NewStudyProgramRepository creates a new StudyProgramRepository.
func NewStudyProgramRepository(pool *pgxpool.Pool) *StudyProgramRepository {
	return &StudyProgramRepository{pool: pool}
}

// GetByID retrieves a study program by ID.
func (r *StudyProgramRepository) GetByID(ctx context.Context, id int64) (*model.StudyProgram, error) {
	p := &model.StudyProgram{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, code, name, admission_type, max_students, created_at, updated_at
		 FROM study_programs WHERE id = $1`, id,
	).Scan(&p.ID, &p.Code, &p.Name, &p.AdmissionType, &p.MaxStudents, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// List retrieves all study programs ordered by code.
func (r *StudyProgramRepository) List(ctx context.Context) ([]model.StudyProgram, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, code, name, admission_type, max_students, created_at, updated_at
		 FROM study_programs ORDER BY code`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var programs []model.StudyProgram
	for rows.Next() {
		p := model.StudyProgram{}
		if err := rows.Scan(&p.ID, &p.Code, &p.Name, &p.AdmissionType, &p.MaxStudents, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		programs = append(programs, p)
	}
	return programs, rows.Err()
}

// Create inserts a new study program.
func (r *StudyProgramRepository) Create(ctx context.Context, p *model.StudyProgram) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO study_programs (code, name, admission_type, max_students)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		p.Code, p.Name, p.AdmissionType, p.MaxStudents,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateProgramCode
		}
		return err
	}
	return nil
}
