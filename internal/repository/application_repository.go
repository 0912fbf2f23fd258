package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riedtal/admission-backend/internal/model"
)

const applicationColumns = `id, first_name, last_name, email, phone, sex, date_of_birth,
	 street, city, postal_code, country, study_program_id, high_school_grade,
	 status, tuition_fee_paid, created_at, updated_at`

// ApplicationRepository handles application data access.
type ApplicationRepository struct {
	pool *pgxpool.Pool
}

// NewApplicationRepository creates a new ApplicationRepository.
func NewApplicationRepository(pool *pgxpool.Pool) *ApplicationRepository {
	return &ApplicationRepository{pool: pool}
}

func scanApplication(row pgx.Row) (*model.Application, error) {
	a := &model.Application{}
	err := row.Scan(
		&a.ID, &a.FirstName, &a.LastName, &a.Email, &a.Phone, &a.Sex, &a.DateOfBirth,
		&a.Street, &a.City, &a.PostalCode, &a.Country, &a.StudyProgramID, &a.HighSchoolGrade,
		&a.Status, &a.TuitionFeePaid, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

// GetByID retrieves an application by ID.
func (r *ApplicationRepository) GetByID(ctx context.Context, id int64) (*model.Application, error) {
	return scanApplication(r.pool.QueryRow(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id,
	))
}

// Create inserts a new application with status SUBMITTED.
func (r *ApplicationRepository) Create(ctx context.Context, a *model.Application) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO applications
		 (first_name, last_name, email, phone, sex, date_of_birth,
		  street, city, postal_code, country, study_program_id, high_school_grade, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 RETURNING id, created_at, updated_at`,
		a.FirstName, a.LastName, a.Email, a.Phone, a.Sex, a.DateOfBirth,
		a.Street, a.City, a.PostalCode, a.Country, a.StudyProgramID, a.HighSchoolGrade,
		model.StatusSubmitted,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateEmail
		}
		return err
	}
	a.Status = model.StatusSubmitted
	return nil
}

// UpdateStatus sets the application status.
func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id int64, status model.ApplicationStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE applications SET status = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`,
		status, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetTuitionFeePaid records a payment status update. The status guard lives
// in the service layer; this is a plain column update.
func (r *ApplicationRepository) SetTuitionFeePaid(ctx context.Context, id int64, paid bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE applications SET tuition_fee_paid = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`,
		paid, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// FindRankingPool returns all applications for a program that are not
// rejected and carry a high school grade, ordered best grade first with
// submission time then id as stable tie-breaks. The NC engine re-reads this
// on every invocation; the pool is never cached.
func (r *ApplicationRepository) FindRankingPool(ctx context.Context, programID int64) ([]model.Application, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+applicationColumns+`
		 FROM applications
		 WHERE study_program_id = $1
		   AND status <> $2
		   AND high_school_grade IS NOT NULL
		 ORDER BY high_school_grade ASC, created_at ASC, id ASC`,
		programID, model.StatusRejected,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pool []model.Application
	for rows.Next() {
		a := model.Application{}
		if err := rows.Scan(
			&a.ID, &a.FirstName, &a.LastName, &a.Email, &a.Phone, &a.Sex, &a.DateOfBirth,
			&a.Street, &a.City, &a.PostalCode, &a.Country, &a.StudyProgramID, &a.HighSchoolGrade,
			&a.Status, &a.TuitionFeePaid, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, err
		}
		pool = append(pool, a)
	}
	return pool, rows.Err()
}
