package model

import "time"

// ExtractedSubject is one row recovered from transcript text. It is built
// once by the line parser and consumed by matching; nil pointer fields mean
// the value could not be recovered from the text.
type ExtractedSubject struct {
	SubjectName  string   `json:"subject_name"`
	SubjectCode  string   `json:"subject_code,omitempty"`
	TotalMarks   *int     `json:"total_marks,omitempty"`
	MaxMarks     *int     `json:"max_marks,omitempty"`
	Grade        string   `json:"grade,omitempty"`
	IsPercentage bool     `json:"is_percentage"`
	CreditsHint  *float64 `json:"credits_hint,omitempty"`
	RawLine      string   `json:"-"`
}

// Metadata holds the student identity fields recovered from transcript text.
// Zero values ("" / 0) mean the field was not found.
type Metadata struct {
	RollNo   string `json:"roll_no"`
	Name     string `json:"name"`
	Branch   string `json:"branch"`
	Semester int    `json:"semester"`
}

// ComputedSubject is the final per-subject output row.
type ComputedSubject struct {
	Subject      string   `json:"subject"`
	SubjectCode  string   `json:"subject_code,omitempty"`
	Credits      *float64 `json:"credits"`
	Marks        *int     `json:"marks"`
	Grade        string   `json:"grade"`
	GradePoint   *float64 `json:"grade_point"`
	Contribution *float64 `json:"contribution"`
}

// SgpaSummary aggregates credit-weighted grade points for one semester.
// Sgpa is nil when no subject carried both credits and a grade point.
type SgpaSummary struct {
	Sgpa             *float64 `json:"sgpa"`
	TotalCredits     float64  `json:"total_credits"`
	TotalGradePoints float64  `json:"total_grade_points"`
}

// StudentResult is the structured result produced by the pipeline and
// persisted when roll number and semester are known.
type StudentResult struct {
	ID               int               `json:"id,omitempty"`
	RollNo           string            `json:"roll_no"`
	Name             string            `json:"name"`
	Branch           string            `json:"branch"`
	Semester         int               `json:"semester"`
	Sgpa             *float64          `json:"sgpa"`
	TotalCredits     float64           `json:"total_credits"`
	TotalGradePoints float64           `json:"total_grade_points"`
	Subjects         []ComputedSubject `json:"subjects"`
	SourceName       string            `json:"source_name,omitempty"`
	SourceMime       string            `json:"source_mime,omitempty"`
	CreatedAt        time.Time         `json:"created_at,omitempty"`
	UpdatedAt        time.Time         `json:"updated_at,omitempty"`
}

// ResultHints are caller-supplied fallbacks used only when the corresponding
// field could not be derived from the transcript text.
type ResultHints struct {
	RollNo   string `form:"rollNo"`
	Name     string `form:"name"`
	Branch   string `form:"branch"`
	Semester string `form:"semester"`
}
