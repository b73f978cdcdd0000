package transcript

import (
	"testing"

	"github.com/rtuhub/sgpa-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catalogSubject(id int, name string, isLab bool) model.CatalogSubject {
	return model.CatalogSubject{
		ID:          id,
		SubjectName: name,
		Branch:      "CSE",
		Semester:    4,
		Credits:     3,
		IsLab:       isLab,
	}
}

func TestMatchSubjectsExactName(t *testing.T) {
	extracted := []model.ExtractedSubject{{SubjectName: "Theory of Computation"}}
	catalog := []model.CatalogSubject{
		catalogSubject(1, "THEORY OF COMPUTATION", false),
		catalogSubject(2, "DATABASE MANAGEMENT SYSTEM", false),
	}

	result := MatchSubjects(extracted, catalog)

	require.Len(t, result.Matched, 1)
	assert.Equal(t, 1, result.Matched[0].Subject.ID)
	assert.GreaterOrEqual(t, result.Matched[0].Score, 0.9)
	assert.Empty(t, result.Unmatched)
}

func TestMatchSubjectsAbbreviationExpansion(t *testing.T) {
	extracted := []model.ExtractedSubject{{SubjectName: "DBMS"}}
	catalog := []model.CatalogSubject{
		catalogSubject(1, "DATABASE MANAGEMENT SYSTEMS", false),
	}

	result := MatchSubjects(extracted, catalog)

	require.Len(t, result.Matched, 1)
	assert.Equal(t, 1, result.Matched[0].Subject.ID)
}

func TestMatchSubjectsLabNeverMatchesTheory(t *testing.T) {
	extracted := []model.ExtractedSubject{{SubjectName: "Database Management Systems Lab"}}
	theoryOnly := []model.CatalogSubject{
		catalogSubject(1, "DATABASE MANAGEMENT SYSTEM", false),
	}

	result := MatchSubjects(extracted, theoryOnly)

	assert.Empty(t, result.Matched)
	require.Len(t, result.Unmatched, 1)
}

func TestMatchSubjectsLabPrefersLabEntry(t *testing.T) {
	extracted := []model.ExtractedSubject{{SubjectName: "Database Management Systems Lab"}}
	catalog := []model.CatalogSubject{
		catalogSubject(1, "DATABASE MANAGEMENT SYSTEM", false),
		{ID: 2, SubjectName: "DATABASE MANAGEMENT SYSTEM LAB", Branch: "CSE", Semester: 4, Credits: 1.5, IsLab: true},
	}

	result := MatchSubjects(extracted, catalog)

	require.Len(t, result.Matched, 1)
	assert.Equal(t, 2, result.Matched[0].Subject.ID)
}

func TestMatchSubjectsCandidateClaimedOnce(t *testing.T) {
	extracted := []model.ExtractedSubject{
		{SubjectName: "Operating System"},
		{SubjectName: "Operating Systems"},
	}
	catalog := []model.CatalogSubject{
		catalogSubject(1, "OPERATING SYSTEM", false),
	}

	result := MatchSubjects(extracted, catalog)

	require.Len(t, result.Matched, 1)
	require.Len(t, result.Unmatched, 1)

	seen := make(map[int]int)
	for _, m := range result.Matched {
		seen[m.Subject.ID]++
	}
	for id, n := range seen {
		assert.Equal(t, 1, n, "catalog id %d claimed more than once", id)
	}
}

func TestMatchSubjectsPartitionComplete(t *testing.T) {
	extracted := []model.ExtractedSubject{
		{SubjectName: "Operating System"},
		{SubjectName: "Compiler Design"},
		{SubjectName: "Underwater Basket Weaving"},
		{SubjectName: ""},
	}
	catalog := []model.CatalogSubject{
		catalogSubject(1, "OPERATING SYSTEM", false),
		catalogSubject(2, "COMPILER DESIGN", false),
	}

	result := MatchSubjects(extracted, catalog)

	assert.Len(t, result.Matched, 2)
	assert.Len(t, result.Unmatched, 2)
	assert.Equal(t, len(extracted), len(result.Matched)+len(result.Unmatched))
}

func TestMatchSubjectsBelowThreshold(t *testing.T) {
	extracted := []model.ExtractedSubject{{SubjectName: "Quantum Gravity"}}
	catalog := []model.CatalogSubject{
		catalogSubject(1, "ENGINEERING CHEMISTRY", false),
	}

	result := MatchSubjects(extracted, catalog)

	assert.Empty(t, result.Matched)
	assert.Len(t, result.Unmatched, 1)
}

func TestMatchSubjectsEmptyInputs(t *testing.T) {
	result := MatchSubjects(nil, nil)
	assert.Empty(t, result.Matched)
	assert.Empty(t, result.Unmatched)

	result = MatchSubjects([]model.ExtractedSubject{{SubjectName: "OS"}}, nil)
	assert.Len(t, result.Unmatched, 1)
}

func TestDiceCoefficient(t *testing.T) {
	assert.Equal(t, 1.0, diceCoefficient("NIGHT", "NIGHT"))
	assert.Equal(t, 0.25, diceCoefficient("NIGHT", "NACHT"))
	assert.Equal(t, 0.0, diceCoefficient("", "ABC"))
	assert.Equal(t, 0.0, diceCoefficient("A", "AB"))
}
