package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rtuhub/sgpa-backend/internal/model"
)

// ErrSubjectNotFound is returned when an update or delete targets a missing id.
var ErrSubjectNotFound = errors.New("catalog subject not found")

// CandidateFilter narrows the catalog query for subject matching. Zero
// values mean "any": an empty filter returns the whole catalog.
type CandidateFilter struct {
	Branch   string
	Semester int
}

// SubjectRepository provides catalog subject persistence and the candidate
// queries used by transcript matching.
type SubjectRepository struct {
	pool *pgxpool.Pool
}

func NewSubjectRepository(pool *pgxpool.Pool) *SubjectRepository {
	return &SubjectRepository{pool: pool}
}

const subjectColumns = `id, subject_name, branch, semester, credits, is_lab, COALESCE(subject_code, ''), created_at, updated_at`

// FindCandidates returns catalog subjects matching the filter. A branch
// filter always includes the COMMON branch alongside it, since first-year
// subjects are shared across branches.
func (r *SubjectRepository) FindCandidates(ctx context.Context, filter CandidateFilter) ([]model.CatalogSubject, error) {
	var rows pgx.Rows
	var err error

	switch {
	case filter.Branch != "" && filter.Semester != 0:
		rows, err = r.pool.Query(ctx,
			`SELECT `+subjectColumns+` FROM subjects
			 WHERE semester = $2 AND (branch = $1 OR branch = 'COMMON')
			 ORDER BY id ASC`,
			filter.Branch, filter.Semester)
	case filter.Semester != 0:
		rows, err = r.pool.Query(ctx,
			`SELECT `+subjectColumns+` FROM subjects
			 WHERE semester = $1
			 ORDER BY id ASC`,
			filter.Semester)
	case filter.Branch != "":
		rows, err = r.pool.Query(ctx,
			`SELECT `+subjectColumns+` FROM subjects
			 WHERE branch = $1 OR branch = 'COMMON'
			 ORDER BY id ASC`,
			filter.Branch)
	default:
		rows, err = r.pool.Query(ctx,
			`SELECT `+subjectColumns+` FROM subjects ORDER BY id ASC`)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSubjects(rows)
}

// GetAll lists catalog subjects, optionally narrowed by the same filter.
func (r *SubjectRepository) GetAll(ctx context.Context, filter CandidateFilter) ([]model.CatalogSubject, error) {
	return r.FindCandidates(ctx, filter)
}

func (r *SubjectRepository) Create(ctx context.Context, s *model.CatalogSubject) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO subjects (subject_name, branch, semester, credits, is_lab, subject_code)
		 VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''))
		 RETURNING id, created_at, updated_at`,
		s.SubjectName, s.Branch, s.Semester, s.Credits, s.IsLab, s.SubjectCode).
		Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

func (r *SubjectRepository) Update(ctx context.Context, s *model.CatalogSubject) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE subjects
		 SET subject_name = $1, branch = $2, semester = $3, credits = $4,
		     is_lab = $5, subject_code = NULLIF($6, ''), updated_at = NOW()
		 WHERE id = $7`,
		s.SubjectName, s.Branch, s.Semester, s.Credits, s.IsLab, s.SubjectCode, s.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSubjectNotFound
	}
	return nil
}

func (r *SubjectRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM subjects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSubjectNotFound
	}
	return nil
}

func scanSubjects(rows pgx.Rows) ([]model.CatalogSubject, error) {
	var subjects []model.CatalogSubject
	for rows.Next() {
		var s model.CatalogSubject
		if err := rows.Scan(&s.ID, &s.SubjectName, &s.Branch, &s.Semester,
			&s.Credits, &s.IsLab, &s.SubjectCode, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		subjects = append(subjects, s)
	}
	return subjects, rows.Err()
}
