package transcript

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTextIdempotent(t *testing.T) {
	inputs := []string{
		"ENGINEERING MATHEMATICS – I\r\nB0B0B   \n\n\nR0LL N0: 20EJCCS001",
		"“quoted” text’s dash—here",
		"plain ascii already clean\nsecond line",
		"",
	}
	for _, in := range inputs {
		once := NormalizeText(in)
		assert.Equal(t, once, NormalizeText(once))
	}
}

func TestNormalizeTextDigitConfusions(t *testing.T) {
	assert.Equal(t, "ROLL", NormalizeText("R0LL"))
	assert.Equal(t, "BOBOB", NormalizeText("B0B0B"))
	assert.Equal(t, "DIGITAL", NormalizeText("D1G1TAL"))
	// Digits inside course codes and numbers stay untouched.
	assert.Equal(t, "1CS3-05", NormalizeText("1CS3-05"))
	assert.Equal(t, "78/100", NormalizeText("78/100"))
}

func TestNormalizeTextWhitespace(t *testing.T) {
	assert.Equal(t, "A\nB\nC", NormalizeText("A  \nB\n\n\nC"))
	assert.Equal(t, "X - Y", NormalizeText("X – Y"))
}

func TestNormalizeSubjectName(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Data Structures & Algorithms", "DATA STRUCTURES AND ALGORITHMS"},
		{"DBMS Lab", "DATABASE MANAGEMENT SYSTEMS LAB"},
		{"Engineering Mathematics-II", "ENGINEERING MATHEMATICS II"},
		{"Electrical Machines-I", "ELECTRICAL MACHINE I"},
		{"IOT", "INTERNET OF THINGS"},
		{"Compiler   Design ", "COMPILER DESIGN"},
		{"Physics 101", "PHYSICS"},
		{"", ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, NormalizeSubjectName(c.in), "input %q", c.in)
	}
}

func TestTokenizeDropsStopwords(t *testing.T) {
	assert.Equal(t, []string{"THEORY", "COMPUTATION"}, Tokenize("THEORY OF COMPUTATION"))
	assert.Equal(t, []string{"ENGINEERING", "MATHEMATICS"}, Tokenize("ENGINEERING MATHEMATICS II"))
	assert.Nil(t, Tokenize(""))
}

func TestInferIsLab(t *testing.T) {
	assert.True(t, InferIsLab("Advance Java Lab"))
	assert.True(t, InferIsLab("MANUFACTURING PRACTICAL"))
	assert.True(t, InferIsLab("Machine Drawing Workshop"))
	assert.False(t, InferIsLab("Operating System"))
	assert.False(t, InferIsLab("Collaborative Design"))
}

func TestParseSemester(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"IV", 4}, {"vii", 7}, {"3", 3}, {"Semester 5", 5},
		{"9", 0}, {"0", 0}, {"", 0}, {"IX", 0},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ParseSemester(c.in), "input %q", c.in)
	}
}

func TestNormalizeBranch(t *testing.T) {
	cases := []struct{ in, want string }{
		{"CSE", "CSE"},
		{"cse (computer science)", "CSE"},
		{"CS", "CSE"},
		{"EC", "ECE"},
		{"EEE", "EE"},
		{"EE", "EE"},
		{"FY", "COMMON"},
		{"5EE4", "EE"},
		{"unknown branch", ""},
		{"", ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, NormalizeBranch(c.in), "input %q", c.in)
	}
}

func TestToTitleCase(t *testing.T) {
	assert.Equal(t, "Rahul Sharma", ToTitleCase("RAHUL SHARMA"))
	assert.Equal(t, "A B", ToTitleCase("a b"))
	assert.Equal(t, "", ToTitleCase(""))
}
