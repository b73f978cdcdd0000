package model

import (
	"strconv"
	"time"
)

// CatalogSubject is an authoritative subject record from the master catalog.
// Branch is an uppercase code ("CSE", "EE", ...) or "COMMON" for first-year
// subjects shared across branches.
type CatalogSubject struct {
	ID          int       `json:"id"`
	SubjectName string    `json:"subject_name"`
	Branch      string    `json:"branch"`
	Semester    int       `json:"semester"`
	Credits     float64   `json:"credits"`
	IsLab       bool      `json:"is_lab"`
	SubjectCode string    `json:"subject_code,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ClaimKey identifies a catalog subject within one matching run. Subject
// names are unique per branch+semester, so the key is stable without the
// database id (seed data may not carry ids).
func (s CatalogSubject) ClaimKey() string {
	return s.SubjectName + "|" + s.Branch + "|" + strconv.Itoa(s.Semester)
}

// CreateSubjectRequest is the payload for creating a catalog subject.
type CreateSubjectRequest struct {
	SubjectName string  `json:"subject_name" binding:"required,min=3,max=150"`
	Branch      string  `json:"branch" binding:"required,min=2,max=10"`
	Semester    int     `json:"semester" binding:"required,min=1,max=8"`
	Credits     float64 `json:"credits" binding:"required,min=0.5"`
	IsLab       *bool   `json:"is_lab" binding:"required"`
	SubjectCode string  `json:"subject_code" binding:"omitempty,max=20"`
}

// UpdateSubjectRequest is the payload for updating a catalog subject.
type UpdateSubjectRequest struct {
	SubjectName string  `json:"subject_name" binding:"required,min=3,max=150"`
	Branch      string  `json:"branch" binding:"required,min=2,max=10"`
	Semester    int     `json:"semester" binding:"required,min=1,max=8"`
	Credits     float64 `json:"credits" binding:"required,min=0.5"`
	IsLab       *bool   `json:"is_lab" binding:"required"`
	SubjectCode string  `json:"subject_code" binding:"omitempty,max=20"`
}
