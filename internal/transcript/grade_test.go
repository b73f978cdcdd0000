package transcript

import (
	"testing"

	"github.com/rtuhub/sgpa-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGradeFromRelativeMarks(t *testing.T) {
	cases := []struct {
		marks float64
		grade string
		point float64
	}{
		{95, "A++", 10},
		{90, "A++", 10},
		{85, "A+", 9},
		{82, "A", 8.5},
		{80, "A", 8.5},
		{78, "B+", 8},
		{70, "B", 7.5},
		{66, "C+", 7},
		{60, "C", 6.5},
		{55, "D+", 6},
		{50, "D", 5.5},
		{45, "E+", 5},
		{40, "E", 4},
		{39.9, "F", 0},
		{0, "F", 0},
	}
	for _, c := range cases {
		grade, point, ok := GradeFromRelativeMarks(c.marks)
		require.True(t, ok, "marks %v", c.marks)
		assert.Equal(t, c.grade, grade, "marks %v", c.marks)
		assert.Equal(t, c.point, point, "marks %v", c.marks)
	}
}

func TestGradePointFromGrade(t *testing.T) {
	g, p, ok := GradePointFromGrade("a +")
	require.True(t, ok)
	assert.Equal(t, "A+", g)
	assert.Equal(t, 9.0, p)

	_, _, ok = GradePointFromGrade("Z")
	assert.False(t, ok)

	_, _, ok = GradePointFromGrade("")
	assert.False(t, ok)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 0.13, Round2(0.125))
	assert.Equal(t, 7.93, Round2(55.5/7))
	assert.Equal(t, 8.0, Round2(8.0))
	// Applying it twice is a no-op.
	for _, x := range []float64{0.125, 7.926, 1.0 / 3.0, 55.5 / 7} {
		assert.Equal(t, Round2(x), Round2(Round2(x)))
	}
}

func TestRelativeMarks(t *testing.T) {
	total, max := 78, 100
	rel := RelativeMarks(model.ExtractedSubject{TotalMarks: &total, MaxMarks: &max})
	require.NotNil(t, rel)
	assert.Equal(t, 78.0, *rel)

	pct := 85
	rel = RelativeMarks(model.ExtractedSubject{TotalMarks: &pct, IsPercentage: true})
	require.NotNil(t, rel)
	assert.Equal(t, 85.0, *rel)

	raw := 62
	assert.Nil(t, RelativeMarks(model.ExtractedSubject{TotalMarks: &raw}))
	assert.Nil(t, RelativeMarks(model.ExtractedSubject{}))
}

func TestCalculateSgpa(t *testing.T) {
	c1, c2 := 4.0, 3.0
	p1, p2 := 8.5, 7.5

	summary := CalculateSgpa([]model.ComputedSubject{
		{Credits: &c1, GradePoint: &p1},
		{Credits: &c2, GradePoint: &p2},
	})

	assert.Equal(t, 7.0, summary.TotalCredits)
	assert.Equal(t, 56.5, summary.TotalGradePoints)
	require.NotNil(t, summary.Sgpa)
	assert.Equal(t, 8.07, *summary.Sgpa)
	assert.GreaterOrEqual(t, *summary.Sgpa, 0.0)
	assert.LessOrEqual(t, *summary.Sgpa, 10.0)
}

func TestCalculateSgpaSkipsIncompleteRows(t *testing.T) {
	c, p := 3.0, 8.0

	summary := CalculateSgpa([]model.ComputedSubject{
		{Credits: &c, GradePoint: &p},
		{Credits: nil, GradePoint: &p},
		{Credits: &c, GradePoint: nil},
	})

	assert.Equal(t, 3.0, summary.TotalCredits)
	assert.Equal(t, 24.0, summary.TotalGradePoints)
	require.NotNil(t, summary.Sgpa)
	assert.Equal(t, 8.0, *summary.Sgpa)
}

func TestCalculateSgpaUndefined(t *testing.T) {
	summary := CalculateSgpa(nil)
	assert.Nil(t, summary.Sgpa)
	assert.Equal(t, 0.0, summary.TotalCredits)

	p := 8.0
	summary = CalculateSgpa([]model.ComputedSubject{{GradePoint: &p}})
	assert.Nil(t, summary.Sgpa)
}
