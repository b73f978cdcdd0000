package transcript

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractMetadataLabeledFields(t *testing.T) {
	text := NormalizeText(`RAJASTHAN TECHNICAL UNIVERSITY, KOTA
ROLL NO: 20EJCCS001
NAME: RAHUL SHARMA FATHER NAME: RAMESH SHARMA
BRANCH: Computer Science (CSE)
SEMESTER: IV`)

	md := ExtractMetadata(text)

	assert.Equal(t, "20EJCCS001", md.RollNo)
	assert.Equal(t, "RAHUL SHARMA", md.Name)
	assert.Equal(t, "CSE", md.Branch)
	assert.Equal(t, 4, md.Semester)
}

func TestExtractMetadataGluedEnrollment(t *testing.T) {
	// OCR often fuses the enrollment number onto the roll number line.
	md := ExtractMetadata("ROLL NO: 20EJCCS001ENROLLMENT NO: 20E1EJCSM30P001")
	assert.Equal(t, "20EJCCS001", md.RollNo)
}

func TestExtractMetadataSkipsCollegeName(t *testing.T) {
	md := ExtractMetadata("COLLEGE NAME: ENGINEERING COLLEGE AJMER\nNAME: PRIYA VERMA")
	assert.Equal(t, "PRIYA VERMA", md.Name)
}

func TestExtractMetadataGuardianBeforeName(t *testing.T) {
	// When the guardian label precedes NAME on the line, the student name
	// cannot be isolated reliably and must stay empty.
	md := ExtractMetadata("FATHER NAME: RAMESH SHARMA")
	assert.Equal(t, "", md.Name)
}

func TestExtractMetadataProgramFallback(t *testing.T) {
	md := ExtractMetadata("PROGRAMME: B.TECH ECE")
	assert.Equal(t, "", md.Branch) // "BTECHECE" carries no recognizable prefix
}

func TestDetectFromCourseCodes(t *testing.T) {
	text := `ADVANCED ENGINEERING MATHEMATICS 3CS2-01 62/100 C
DATA STRUCTURES AND ALGORITHMS 3CS4-05 78/100 B+
DATABASE MANAGEMENT SYSTEM 4CS4-06 81/100 A`

	md := ExtractMetadata(text)

	assert.Equal(t, "CSE", md.Branch)
	assert.Equal(t, 3, md.Semester) // two sem-3 codes outvote one sem-4
}

func TestDetectFromCourseCodesOCRSemesterDigit(t *testing.T) {
	md := ExtractMetadata("DATA STRUCTURES ICS3-05 78/100 B+")
	assert.Equal(t, 1, md.Semester)
	assert.Equal(t, "CSE", md.Branch)
}

func TestExtractMetadataEmpty(t *testing.T) {
	md := ExtractMetadata("")
	assert.Equal(t, "", md.RollNo)
	assert.Equal(t, "", md.Name)
	assert.Equal(t, "", md.Branch)
	assert.Equal(t, 0, md.Semester)
}
