package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rtuhub/sgpa-backend/internal/catalog"
	"github.com/rtuhub/sgpa-backend/internal/config"
	"github.com/rtuhub/sgpa-backend/internal/model"
	"github.com/rtuhub/sgpa-backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCandidateSource struct {
	byFilter map[repository.CandidateFilter][]model.CatalogSubject
	calls    []repository.CandidateFilter
}

func (f *fakeCandidateSource) FindCandidates(_ context.Context, filter repository.CandidateFilter) ([]model.CatalogSubject, error) {
	f.calls = append(f.calls, filter)
	return f.byFilter[filter], nil
}

type fakeResultStore struct {
	upserts []*model.StudentResult
}

func (f *fakeResultStore) Upsert(_ context.Context, res *model.StudentResult) error {
	f.upserts = append(f.upserts, res)
	return nil
}

func (f *fakeResultStore) GetByRollNoAndSemester(_ context.Context, _ string, _ int) (*model.StudentResult, error) {
	return nil, repository.ErrResultNotFound
}

func newTestService(src *fakeCandidateSource, store *fakeResultStore) *ResultService {
	return NewResultService(src, store, catalog.Empty(), nil, &config.Config{}, zerolog.Nop())
}

func cseSubject(id int, name, code string, credits float64) model.CatalogSubject {
	return model.CatalogSubject{
		ID:          id,
		SubjectName: name,
		Branch:      "CSE",
		Semester:    5,
		Credits:     credits,
		SubjectCode: code,
	}
}

const sampleTranscript = `RAJASTHAN TECHNICAL UNIVERSITY, KOTA
ROLL NO: 20EJCCS001
NAME: RAHUL SHARMA
BRANCH: CSE
SEMESTER: V
OPERATING SYSTEM 5CS4-03 82/100 A
COMPILER DESIGN 5CS4-02 75/100 B+
`

func TestCalculateFullPipeline(t *testing.T) {
	primary := repository.CandidateFilter{Branch: "CSE", Semester: 5}
	src := &fakeCandidateSource{byFilter: map[repository.CandidateFilter][]model.CatalogSubject{
		primary: {
			cseSubject(1, "OPERATING SYSTEM", "5CS4-03", 3),
			cseSubject(2, "COMPILER DESIGN", "5CS4-02", 3),
		},
	}}
	store := &fakeResultStore{}
	svc := newTestService(src, store)

	result, err := svc.Calculate(context.Background(), CalculateInput{Text: sampleTranscript})
	require.NoError(t, err)

	assert.Equal(t, "20EJCCS001", result.RollNo)
	assert.Equal(t, "Rahul Sharma", result.Name)
	assert.Equal(t, "CSE", result.Branch)
	assert.Equal(t, 5, result.Semester)

	require.Len(t, result.Subjects, 2)
	os := result.Subjects[0]
	assert.Equal(t, "OPERATING SYSTEM", os.Subject)
	assert.Equal(t, "A", os.Grade)
	require.NotNil(t, os.Credits)
	assert.Equal(t, 3.0, *os.Credits)
	require.NotNil(t, os.Contribution)
	assert.Equal(t, 25.5, *os.Contribution)

	// 3x8.5 + 3x8 over 6 credits.
	assert.Equal(t, 6.0, result.TotalCredits)
	assert.Equal(t, 49.5, result.TotalGradePoints)
	require.NotNil(t, result.Sgpa)
	assert.Equal(t, 8.25, *result.Sgpa)

	// Full coverage on the primary filter, so no widening queries.
	assert.Equal(t, []repository.CandidateFilter{primary}, src.calls)

	// Roll number and semester known, so the result was persisted.
	require.Len(t, store.upserts, 1)
	assert.Equal(t, "20EJCCS001", store.upserts[0].RollNo)
}

func TestCalculateWideningAdoptedOnStrictIncrease(t *testing.T) {
	primary := repository.CandidateFilter{Branch: "CSE", Semester: 5}
	semesterOnly := repository.CandidateFilter{Semester: 5}
	src := &fakeCandidateSource{byFilter: map[repository.CandidateFilter][]model.CatalogSubject{
		primary: nil, // misconfigured branch rows: nothing to match
		semesterOnly: {
			cseSubject(1, "OPERATING SYSTEM", "5CS4-03", 3),
			cseSubject(2, "COMPILER DESIGN", "5CS4-02", 3),
		},
	}}
	svc := newTestService(src, &fakeResultStore{})

	result, err := svc.Calculate(context.Background(), CalculateInput{Text: sampleTranscript})
	require.NoError(t, err)

	require.NotNil(t, result.Sgpa)
	assert.Equal(t, 8.25, *result.Sgpa)

	// Coverage reached the target on the semester-only retry; the wider
	// branch-only and unfiltered queries were never issued.
	assert.Equal(t, []repository.CandidateFilter{primary, semesterOnly}, src.calls)
}

func TestCalculateWideningNotAdoptedWithoutImprovement(t *testing.T) {
	primary := repository.CandidateFilter{Branch: "CSE", Semester: 5}
	src := &fakeCandidateSource{byFilter: map[repository.CandidateFilter][]model.CatalogSubject{
		primary: {cseSubject(1, "OPERATING SYSTEM", "5CS4-03", 3)},
		// All wider sets return the same single candidate: no strict
		// increase, so the primary match stands.
		{Semester: 5}:  {cseSubject(1, "OPERATING SYSTEM", "5CS4-03", 3)},
		{Branch: "CSE"}: {cseSubject(1, "OPERATING SYSTEM", "5CS4-03", 3)},
		{}:              {cseSubject(1, "OPERATING SYSTEM", "5CS4-03", 3)},
	}}
	svc := newTestService(src, &fakeResultStore{})

	result, err := svc.Calculate(context.Background(), CalculateInput{Text: sampleTranscript})
	require.NoError(t, err)

	// One matched, one unmatched: coverage 0.5 < 0.8 so every fallback ran.
	assert.Len(t, src.calls, 4)
	require.Len(t, result.Subjects, 2)

	matched := result.Subjects[0]
	require.NotNil(t, matched.Credits)
	unmatched := result.Subjects[1]
	assert.Nil(t, unmatched.Credits)
	assert.Equal(t, "B+", unmatched.Grade) // grade still resolved from the row
}

func TestCalculateHintsFillMissingMetadata(t *testing.T) {
	text := `OPERATING SYSTEM 5CS4-03 82/100 A
COMPILER DESIGN 5CS4-02 75/100 B+`
	primary := repository.CandidateFilter{Branch: "CSE", Semester: 5}
	src := &fakeCandidateSource{byFilter: map[repository.CandidateFilter][]model.CatalogSubject{
		primary: {
			cseSubject(1, "OPERATING SYSTEM", "5CS4-03", 3),
			cseSubject(2, "COMPILER DESIGN", "5CS4-02", 3),
		},
	}}
	store := &fakeResultStore{}
	svc := newTestService(src, store)

	result, err := svc.Calculate(context.Background(), CalculateInput{
		Text: text,
		Hints: model.ResultHints{
			RollNo:   "21EJCCS042",
			Name:     "PRIYA VERMA",
			Branch:   "cse",
			Semester: "V",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "21EJCCS042", result.RollNo)
	assert.Equal(t, "Priya Verma", result.Name)
	assert.Equal(t, "CSE", result.Branch)
	assert.Equal(t, 5, result.Semester)
	require.Len(t, store.upserts, 1)
}

func TestCalculateInfersBranchAndSemesterFromMatches(t *testing.T) {
	text := `OPERATING SYSTEM 82/100 A
COMPILER DESIGN 75/100 B+`
	src := &fakeCandidateSource{byFilter: map[repository.CandidateFilter][]model.CatalogSubject{
		{Semester: 5}: {
			cseSubject(1, "OPERATING SYSTEM", "5CS4-03", 3),
			cseSubject(2, "COMPILER DESIGN", "5CS4-02", 3),
		},
	}}
	svc := newTestService(src, &fakeResultStore{})

	// No code tokens and no labeled metadata except a semester hint, so the
	// branch must come from the matched catalog records.
	result, err := svc.Calculate(context.Background(), CalculateInput{
		Text:  text,
		Hints: model.ResultHints{Semester: "5"},
	})
	require.NoError(t, err)

	assert.Equal(t, "CSE", result.Branch)
	assert.Equal(t, 5, result.Semester)
}

func TestCalculateNoSubjectsParsed(t *testing.T) {
	svc := newTestService(&fakeCandidateSource{}, &fakeResultStore{})

	_, err := svc.Calculate(context.Background(), CalculateInput{
		Text: "RAJASTHAN TECHNICAL UNIVERSITY\nRESULT DECLARED",
	})
	assert.ErrorIs(t, err, ErrNoSubjectsParsed)
}

func TestCalculateUnsupportedInput(t *testing.T) {
	svc := newTestService(&fakeCandidateSource{}, &fakeResultStore{})

	_, err := svc.Calculate(context.Background(), CalculateInput{Text: "   \n  "})
	assert.ErrorIs(t, err, ErrUnsupportedInput)
}

func TestCalculateNoPersistWithoutRollNo(t *testing.T) {
	text := `OPERATING SYSTEM 5CS4-03 82/100 A
COMPILER DESIGN 5CS4-02 75/100 B+`
	src := &fakeCandidateSource{byFilter: map[repository.CandidateFilter][]model.CatalogSubject{
		{Branch: "CSE", Semester: 5}: {
			cseSubject(1, "OPERATING SYSTEM", "5CS4-03", 3),
			cseSubject(2, "COMPILER DESIGN", "5CS4-02", 3),
		},
	}}
	store := &fakeResultStore{}
	svc := newTestService(src, store)

	result, err := svc.Calculate(context.Background(), CalculateInput{Text: text})
	require.NoError(t, err)

	assert.Equal(t, "", result.RollNo)
	assert.Empty(t, store.upserts)
}
