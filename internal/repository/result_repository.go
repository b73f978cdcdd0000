package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rtuhub/sgpa-backend/internal/model"
)

// ErrResultNotFound is returned when no persisted result matches the lookup.
var ErrResultNotFound = errors.New("student result not found")

// ResultRepository persists computed semester results.
type ResultRepository struct {
	pool *pgxpool.Pool
}

func NewResultRepository(pool *pgxpool.Pool) *ResultRepository {
	return &ResultRepository{pool: pool}
}

// Upsert stores a computed result, replacing any previous result for the
// same roll number and semester.
func (r *ResultRepository) Upsert(ctx context.Context, res *model.StudentResult) error {
	subjects, err := json.Marshal(res.Subjects)
	if err != nil {
		return fmt.Errorf("marshal subjects: %w", err)
	}

	return r.pool.QueryRow(ctx,
		`INSERT INTO student_results
		   (roll_no, name, branch, semester, sgpa, total_credits, total_grade_points,
		    subjects, source_name, source_mime)
		 VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), $4, $5, $6, $7, $8, NULLIF($9, ''), NULLIF($10, ''))
		 ON CONFLICT (roll_no, semester) DO UPDATE SET
		   name = EXCLUDED.name,
		   branch = EXCLUDED.branch,
		   sgpa = EXCLUDED.sgpa,
		   total_credits = EXCLUDED.total_credits,
		   total_grade_points = EXCLUDED.total_grade_points,
		   subjects = EXCLUDED.subjects,
		   source_name = EXCLUDED.source_name,
		   source_mime = EXCLUDED.source_mime,
		   updated_at = NOW()
		 RETURNING id, created_at, updated_at`,
		res.RollNo, res.Name, res.Branch, res.Semester, res.Sgpa,
		res.TotalCredits, res.TotalGradePoints, subjects, res.SourceName, res.SourceMime).
		Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt)
}

// GetByRollNoAndSemester fetches a persisted result.
func (r *ResultRepository) GetByRollNoAndSemester(ctx context.Context, rollNo string, semester int) (*model.StudentResult, error) {
	var res model.StudentResult
	var subjects []byte

	err := r.pool.QueryRow(ctx,
		`SELECT id, roll_no, COALESCE(name, ''), COALESCE(branch, ''), semester,
		        sgpa, total_credits, total_grade_points, subjects,
		        COALESCE(source_name, ''), COALESCE(source_mime, ''),
		        created_at, updated_at
		 FROM student_results
		 WHERE roll_no = $1 AND semester = $2`,
		rollNo, semester).
		Scan(&res.ID, &res.RollNo, &res.Name, &res.Branch, &res.Semester,
			&res.Sgpa, &res.TotalCredits, &res.TotalGradePoints, &subjects,
			&res.SourceName, &res.SourceMime, &res.CreatedAt, &res.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrResultNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(subjects, &res.Subjects); err != nil {
		return nil, fmt.Errorf("unmarshal subjects: %w", err)
	}
	return &res, nil
}
