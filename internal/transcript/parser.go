package transcript

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/rtuhub/sgpa-backend/internal/model"
)

var (
	codeRe       = regexp.MustCompile(`([1-8][A-Z]{2,4}\d-\d{2}|FEC\d{2})`)
	codeOCRRe    = regexp.MustCompile(`I[A-Z]{2,4}\d-\d{2}`)
	letterRe     = regexp.MustCompile(`[A-Za-z]`)
	digitRe      = regexp.MustCompile(`\d`)
	upperOnlyRe  = regexp.MustCompile(`[A-Z]`)
	numberingRe  = regexp.MustCompile(`^\d+[.\s]`)
	percentRe    = regexp.MustCompile(`\b(\d{1,3})\s*%`)
	fractionRe   = regexp.MustCompile(`\b(\d{1,3})\s*/\s*(\d{1,3})\b`)
	smallNumRe   = regexp.MustCompile(`\b\d{1,3}\b`)
	maxKeywordRe = regexp.MustCompile(`\b(OUT\s*OF|MAX|MM)\b`)
	codeNoiseRe  = regexp.MustCompile(`\b[A-Z]{1,3}\d{2,4}\b`)
	codeShapeRe  = regexp.MustCompile(`\b\d{1,2}[A-Z]{2,4}\d?[- ]?\d{2}\b`)
	preGradeRe   = regexp.MustCompile(`(\d{1,3})\s*$`)
	nameTrashRe  = regexp.MustCompile(`[|%/:;,]`)

	// Grade anchored at line end. The packed variant also captures the
	// credit/point/contribution columns some gradesheets print after the
	// grade letter, often with no separator between point and contribution.
	gradePackedRe = regexp.MustCompile(`\s(A\+\+|A\+|A|B\+|B|C\+|C|D\+|D|E\+|E|F)\s+(\d[\d. ]*)$`)
	gradeEndRe    = regexp.MustCompile(`(A\+\+|A\+|A|B\+|B|C\+|C|D\+|D|E\+|E|F)\s*$`)

	headerKeywordRe = regexp.MustCompile(
		`RAJASTHAN|UNIVERSITY|RESULT|ROLL|NAME|BRANCH|SEMESTER|SGPA|CGPA|TOTAL|STATUS|COLLEGE|EXAM|INSTITUTE|COURSE|TITLE|CODE|MARKS|GRADE|REMARKS|INSTRUCTION|PAGE`)
)

// fullMarksValues are the totals RTU gradesheets actually use; a second
// number on a row is only accepted as max marks when it is one of these.
var fullMarksValues = map[int]struct{}{
	50: {}, 75: {}, 80: {}, 100: {}, 150: {}, 200: {},
}

// ParseSubjects segments normalized transcript text into subject rows and
// extracts per-row fields. Rows are deduplicated by normalized code (or name
// when no code was found); the first occurrence in line order wins.
func ParseSubjects(text string) []model.ExtractedSubject {
	var subjects []model.ExtractedSubject
	seen := make(map[string]struct{})

	for _, line := range mergeWrappedLines(text) {
		if isNoiseLine(line) {
			continue
		}
		parsed := parseSubjectLine(line)
		if parsed == nil {
			continue
		}

		key := strings.ToUpper(parsed.SubjectCode)
		if key == "" {
			key = strings.ToUpper(parsed.SubjectName)
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		subjects = append(subjects, *parsed)
	}

	return subjects
}

// mergeWrappedLines rejoins subject titles that wrapped onto their own line.
// A purely alphabetic line is buffered; it is prepended to the next line only
// when that line looks like the code/grade half of the same row.
func mergeWrappedLines(text string) []string {
	var combined []string
	var buffer string

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		// A header or footer between lines breaks any pending wrap.
		if isNoiseLine(line) {
			buffer = ""
			continue
		}

		hasLetter := letterRe.MatchString(line)
		hasDigit := digitRe.MatchString(line)

		if !hasDigit && hasLetter {
			if buffer != "" {
				buffer += " " + line
			} else {
				buffer = line
			}
			continue
		}

		if buffer != "" {
			if codeRe.MatchString(line) || gradeEndRe.MatchString(line) {
				combined = append(combined, strings.TrimSpace(buffer+" "+line))
			} else {
				combined = append(combined, line)
			}
			buffer = ""
			continue
		}

		combined = append(combined, line)
	}

	return combined
}

// isNoiseLine filters headers, footers, and column labels before field
// extraction.
func isNoiseLine(line string) bool {
	upper := strings.ToUpper(line)
	if len(upper) < 6 {
		return true
	}
	if !upperOnlyRe.MatchString(upper) {
		return true
	}
	if numberingRe.MatchString(upper) {
		return true
	}
	return headerKeywordRe.MatchString(upper)
}

// parseSubjectLine recovers the fields of one subject row. Returns nil when
// the line cannot plausibly describe a subject.
func parseSubjectLine(line string) *model.ExtractedSubject {
	if !letterRe.MatchString(line) || !digitRe.MatchString(line) {
		return nil
	}

	normalized := repairCodeOCR(line)

	grade, packedTail, working := splitTrailingGrade(normalized)

	var creditsHint *float64
	if grade != "" && packedTail != "" {
		if _, point, ok := GradePointFromGrade(grade); ok {
			creditsHint = recoverPackedColumns(packedTail, point)
		}
	}

	var totalMarks, maxMarks *int
	isPercentage := false

	if m := percentRe.FindStringSubmatch(working); m != nil {
		totalMarks = atoiPtr(m[1])
		isPercentage = true
	}

	if m := fractionRe.FindStringSubmatch(working); m != nil {
		totalMarks = atoiPtr(m[1])
		maxMarks = atoiPtr(m[2])
		isPercentage = false
	}

	var subjectCode, subjectName string

	// The grade-anchored fallback below must not read digits that belong to
	// the course code, so it scans only the text right of the code.
	preGradeSource := working

	if loc := codeRe.FindStringIndex(working); loc != nil {
		subjectCode = working[loc[0]:loc[1]]
		subjectName = cleanSubjectName(working[:loc[0]])
		preGradeSource = working[loc[1]:]

		if totalMarks == nil {
			totalMarks = marksFromCodeTail(preGradeSource)
		}
	} else {
		totalMarks, maxMarks = marksFromLooseNumbers(working, totalMarks, maxMarks)
		subjectName = cleanSubjectName(stripNumericNoise(working))
	}

	// Grade-anchored candidate: the number printed just left of the grade
	// column. Only trusted when nothing better was found, or when the prior
	// candidate is not a believable mark.
	if grade != "" {
		if m := preGradeRe.FindStringSubmatch(preGradeSource); m != nil {
			if v := atoiPtr(m[1]); v != nil && (totalMarks == nil || *totalMarks > 100) {
				totalMarks = v
			}
		}
	}

	if len(subjectName) < 3 {
		return nil
	}

	return &model.ExtractedSubject{
		SubjectName:  subjectName,
		SubjectCode:  subjectCode,
		TotalMarks:   totalMarks,
		MaxMarks:     maxMarks,
		Grade:        grade,
		IsPercentage: isPercentage,
		CreditsHint:  creditsHint,
		RawLine:      line,
	}
}

// repairCodeOCR fixes the leading semester digit of a course code that OCR
// rendered as "I" ("ICS3-05" -> "1CS3-05").
func repairCodeOCR(line string) string {
	return codeOCRRe.ReplaceAllStringFunc(line, func(m string) string {
		return "1" + m[1:]
	})
}

// splitTrailingGrade locates a grade token anchored near the line end and
// returns (grade, packed digit tail, remainder before the grade).
func splitTrailingGrade(line string) (grade, tail, working string) {
	if m := gradePackedRe.FindStringSubmatchIndex(line); m != nil {
		grade = line[m[2]:m[3]]
		tail = line[m[4]:m[5]]
		working = strings.TrimSpace(line[:m[2]])
		return
	}
	if m := gradeEndRe.FindStringSubmatchIndex(line); m != nil {
		grade = line[m[2]:m[3]]
		working = strings.TrimSpace(line[:m[2]])
		return
	}
	return "", "", strings.TrimSpace(line)
}

// recoverPackedColumns splits the digit blob after a grade token into the
// credit and contribution columns, using the grade's known point value as the
// anchor ("38.525.5" with point 8.5 reads as credits 3, contribution 25.5).
// Returns the credits hint, or nil when the blob does not decompose cleanly.
func recoverPackedColumns(tail string, point float64) *float64 {
	compact := strings.ReplaceAll(tail, " ", "")
	pointStr := strconv.FormatFloat(point, 'f', -1, 64)

	idx := strings.Index(compact, pointStr)
	if idx < 0 {
		return nil
	}
	head := compact[:idx]
	rest := compact[idx+len(pointStr):]

	var credits, contribution *float64
	if head != "" {
		if v, err := strconv.ParseFloat(head, 64); err == nil && v >= 0.5 && v <= 12 {
			credits = &v
		}
	}
	if rest != "" {
		if v, err := strconv.ParseFloat(rest, 64); err == nil {
			contribution = &v
		}
	}

	if credits != nil && contribution != nil {
		// Both columns present: accept the credit column only when it agrees
		// with contribution = credits x point.
		if math.Abs(*credits*point-*contribution) > 0.01 {
			return nil
		}
		return credits
	}
	if credits != nil {
		return credits
	}
	if contribution != nil && point > 0 {
		c := *contribution / point
		if c >= 0.5 && c <= 12 && math.Abs(c*2-math.Round(c*2)) < 1e-6 {
			rounded := math.Round(c*2) / 2
			return &rounded
		}
	}
	return nil
}

// marksFromCodeTail infers marks from the digit groups after a subject code.
// Four or more digits usually pack internal and external marks as two 2-digit
// halves that sum to the total.
func marksFromCodeTail(tail string) *int {
	digits := nonDigitRe.ReplaceAllString(tail, "")
	if len(digits) >= 4 {
		last4 := digits[len(digits)-4:]
		mid, err1 := strconv.Atoi(last4[:2])
		end, err2 := strconv.Atoi(last4[2:])
		if err1 == nil && err2 == nil {
			sum := mid + end
			return &sum
		}
	}
	if len(digits) >= 2 {
		return atoiPtr(digits)
	}
	return nil
}

// marksFromLooseNumbers applies the codeless fallback: the last 1-3 digit
// number is the mark, and a second number is the max only when it is a
// plausible full-marks value or an "out of" keyword flags it.
func marksFromLooseNumbers(working string, totalMarks, maxMarks *int) (*int, *int) {
	nums := smallNumRe.FindAllString(working, -1)
	vals := make([]int, 0, len(nums))
	for _, n := range nums {
		if v, err := strconv.Atoi(n); err == nil {
			vals = append(vals, v)
		}
	}

	if totalMarks == nil && len(vals) > 0 {
		totalMarks = &vals[len(vals)-1]
	}

	if maxMarks == nil && len(vals) >= 2 {
		maxCandidate, minCandidate := vals[0], vals[0]
		for _, v := range vals[1:] {
			if v > maxCandidate {
				maxCandidate = v
			}
			if v < minCandidate {
				minCandidate = v
			}
		}

		upper := strings.ToUpper(working)
		switch {
		case maxKeywordRe.MatchString(upper):
			maxMarks = &maxCandidate
			if totalMarks != nil && maxCandidate == *totalMarks {
				totalMarks = &minCandidate
			}
		case len(vals) == 2:
			a, b := vals[0], vals[1]
			if _, plausible := fullMarksValues[b]; b > a && plausible {
				totalMarks = &a
				maxMarks = &b
			}
		default:
			if _, plausible := fullMarksValues[maxCandidate]; plausible &&
				totalMarks != nil && maxCandidate > *totalMarks &&
				maxCandidate >= 100 {
				maxMarks = &maxCandidate
			}
		}
	}

	return totalMarks, maxMarks
}

// stripNumericNoise removes code-shaped tokens and stray numbers so only the
// subject title remains.
func stripNumericNoise(working string) string {
	s := codeRe.ReplaceAllString(working, " ")
	s = fractionRe.ReplaceAllString(s, " ")
	s = smallNumRe.ReplaceAllString(s, " ")
	s = codeNoiseRe.ReplaceAllString(s, " ")
	s = codeShapeRe.ReplaceAllString(s, " ")
	return s
}

func cleanSubjectName(s string) string {
	s = nameTrashRe.ReplaceAllString(s, " ")
	return spaceRunRe.ReplaceAllString(strings.TrimSpace(s), " ")
}

func atoiPtr(s string) *int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}
