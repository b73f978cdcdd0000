package transcript

import (
	"math"
	"strings"

	"github.com/rtuhub/sgpa-backend/internal/model"
)

// gradeBands maps relative marks to the RTU grade scale, highest threshold
// first. The first band whose minimum the marks meet wins.
var gradeBands = []struct {
	Min   float64
	Grade string
	Point float64
}{
	{90, "A++", 10},
	{85, "A+", 9},
	{80, "A", 8.5},
	{75, "B+", 8},
	{70, "B", 7.5},
	{65, "C+", 7},
	{60, "C", 6.5},
	{55, "D+", 6},
	{50, "D", 5.5},
	{45, "E+", 5},
	{40, "E", 4},
	{0, "F", 0},
}

var gradePoints = func() map[string]float64 {
	m := make(map[string]float64, len(gradeBands))
	for _, b := range gradeBands {
		m[b.Grade] = b.Point
	}
	return m
}()

// Round2 rounds to two decimals, half away from zero.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// GradeFromRelativeMarks resolves the grade band for a 0-100 relative mark.
func GradeFromRelativeMarks(relative float64) (grade string, point float64, ok bool) {
	if math.IsNaN(relative) {
		return "", 0, false
	}
	for _, b := range gradeBands {
		if relative >= b.Min {
			return b.Grade, b.Point, true
		}
	}
	return "", 0, false
}

// GradePointFromGrade looks up the point value for an explicit grade token.
// The token is uppercased and whitespace-stripped before lookup.
func GradePointFromGrade(grade string) (normalized string, point float64, ok bool) {
	g := strings.ReplaceAll(strings.ToUpper(grade), " ", "")
	point, ok = gradePoints[g]
	if !ok {
		return "", 0, false
	}
	return g, point, true
}

// RelativeMarks converts an extracted row's marks to the 0-100 scale:
// total/max when both are present, the raw total when flagged as a
// percentage, nil otherwise.
func RelativeMarks(ext model.ExtractedSubject) *float64 {
	if ext.TotalMarks == nil {
		return nil
	}
	if ext.MaxMarks != nil && *ext.MaxMarks > 0 {
		rel := float64(*ext.TotalMarks) / float64(*ext.MaxMarks) * 100
		return &rel
	}
	if ext.IsPercentage {
		rel := float64(*ext.TotalMarks)
		return &rel
	}
	return nil
}

// CalculateSgpa aggregates the credit-weighted grade points of the computed
// subjects. Rows missing either credits or a grade point contribute nothing.
// Sgpa is nil when the credit sum is zero.
func CalculateSgpa(subjects []model.ComputedSubject) model.SgpaSummary {
	var totalCredits, totalGradePoints float64

	for _, s := range subjects {
		if s.Credits == nil || s.GradePoint == nil {
			continue
		}
		totalCredits += *s.Credits
		totalGradePoints += *s.Credits * *s.GradePoint
	}

	summary := model.SgpaSummary{
		TotalCredits:     Round2(totalCredits),
		TotalGradePoints: Round2(totalGradePoints),
	}
	if totalCredits > 0 {
		sgpa := Round2(totalGradePoints / totalCredits)
		summary.Sgpa = &sgpa
	}
	return summary
}
