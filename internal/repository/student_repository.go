package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riedtal/admission-backend/internal/model"
)

// StudentRepository handles enrolled student data access.
type StudentRepository struct {
	pool *pgxpool.Pool
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(pool *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{pool: pool}
}

// GetByApplicationID retrieves the student created from an application.
func (r *StudentRepository) GetByApplicationID(ctx context.Context, applicationID int64) (*model.Student, error) {
	s := &model.Student{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, student_number, first_name, last_name, email, study_program_id,
		        enrollment_date, current_semester, application_id, created_at, updated_at
		 FROM students WHERE application_id = $1`, applicationID,
	).Scan(&s.ID, &s.StudentNumber, &s.FirstName, &s.LastName, &s.Email, &s.StudyProgramID,
		&s.EnrollmentDate, &s.CurrentSemester, &s.ApplicationID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

// ExistsByApplicationID reports whether a student was already enrolled for
// the application.
func (r *StudentRepository) ExistsByApplicationID(ctx context.Context, applicationID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM students WHERE application_id = $1)`, applicationID,
	).Scan(&exists)
	return exists, err
}

// ExistsByStudentNumber reports whether a student number is already in use.
func (r *StudentRepository) ExistsByStudentNumber(ctx context.Context, studentNumber string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM students WHERE student_number = $1)`, studentNumber,
	).Scan(&exists)
	return exists, err
}

// FindMaxNumberForPrefix returns the lexicographically highest student number
// starting with prefix ({ProgramCode}{Year}), or "" when none exists.
func (r *StudentRepository) FindMaxNumberForPrefix(ctx context.Context, prefix string) (string, error) {
	var max string
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(MAX(student_number), '')
		 FROM students WHERE student_number LIKE $1 || '%'`, prefix,
	).Scan(&max)
	return max, err
}

// Create inserts a new student. The unique constraints on student_number and
// application_id back the allocator's race detection.
func (r *StudentRepository) Create(ctx context.Context, s *model.Student) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO students
		 (student_number, first_name, last_name, email, study_program_id,
		  enrollment_date, current_semester, application_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at, updated_at`,
		s.StudentNumber, s.FirstName, s.LastName, s.Email, s.StudyProgramID,
		s.EnrollmentDate, s.CurrentSemester, s.ApplicationID,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateStudentNumber
		}
		return err
	}
	return nil
}
