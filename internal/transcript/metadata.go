package transcript

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rtuhub/sgpa-backend/internal/model"
)

var (
	rollNoRe        = regexp.MustCompile(`\bROLL\s*(?:NO|NUMBER)\b\s*[:\-]?\s*([A-Z0-9/\-]+)`)
	enrollSuffixRe  = regexp.MustCompile(`(?i)ENROLL.*$`)
	nameFieldRe     = regexp.MustCompile(`(?i)NAME\s*[:\-]?\s*(.+)$`)
	guardianSplitRe = regexp.MustCompile(`(?i)FATHER|MOTHER|HUSBAND|GUARDIAN`)
	nameCleanRe     = regexp.MustCompile(`[^A-Za-z\s.]`)
	branchFieldRe   = regexp.MustCompile(`(?i)BRANCH\s*[:\-]?\s*(.+)$`)
	programFieldRe  = regexp.MustCompile(`(?i)PROGRAM(?:ME)?\s*[:\-]?\s*(.+)$`)
	semesterFieldRe = regexp.MustCompile(`(?i)SEM(?:ESTER)?\s*[:\-]?\s*([IVX]+|\d+)`)
	courseCodeScanRe = regexp.MustCompile(`([1-8I])([A-Z]{2,4})\d-\d{2}`)
)

// ExtractMetadata scans normalized transcript text for student identity
// fields using keyword-anchored line patterns. Branch and semester fall back
// to the most frequent values implied by subject-code tokens when no labeled
// line is found. Pure function of the text.
func ExtractMetadata(text string) model.Metadata {
	var md model.Metadata

	for _, line := range strings.Split(text, "\n") {
		upper := strings.ToUpper(line)

		if md.RollNo == "" {
			if m := rollNoRe.FindStringSubmatch(upper); m != nil {
				// OCR runs often glue the enrollment number onto the roll number.
				md.RollNo = enrollSuffixRe.ReplaceAllString(m[1], "")
			}
		}

		if md.Name == "" && nameKeywordRe.MatchString(upper) && !collegeNameRe.MatchString(upper) {
			md.Name = extractNameField(line, upper)
		}

		if md.Branch == "" && branchKeywordRe.MatchString(upper) {
			if m := branchFieldRe.FindStringSubmatch(line); m != nil {
				md.Branch = NormalizeBranch(m[1])
			}
		}
		if md.Branch == "" && programKeywordRe.MatchString(upper) {
			if m := programFieldRe.FindStringSubmatch(line); m != nil {
				md.Branch = NormalizeBranch(m[1])
			}
		}

		if md.Semester == 0 && semesterKeywordRe.MatchString(upper) {
			if m := semesterFieldRe.FindStringSubmatch(line); m != nil {
				md.Semester = ParseSemester(m[1])
			}
		}
	}

	if md.Branch == "" || md.Semester == 0 {
		branch, semester := detectFromCourseCodes(strings.ToUpper(text))
		if md.Branch == "" {
			md.Branch = branch
		}
		if md.Semester == 0 {
			md.Semester = semester
		}
	}

	return md
}

var (
	nameKeywordRe     = regexp.MustCompile(`\bNAME\b`)
	branchKeywordRe   = regexp.MustCompile(`\bBRANCH\b`)
	collegeNameRe     = regexp.MustCompile(`COLLEGE\s*NAME`)
	programKeywordRe  = regexp.MustCompile(`\bPROGRAM(ME)?\b`)
	semesterKeywordRe = regexp.MustCompile(`\bSEM(ESTER)?\b`)
)

// extractNameField pulls the student name out of a "NAME: ..." line, cutting
// at the earliest father/mother/guardian label so combined identity lines do
// not leak the guardian's name in.
func extractNameField(line, upper string) string {
	nameIdx := strings.Index(upper, "NAME")
	earliestStop := -1
	for _, kw := range []string{"FATHER", "MOTHER", "GUARDIAN"} {
		if idx := strings.Index(upper, kw); idx >= 0 && (earliestStop == -1 || idx < earliestStop) {
			earliestStop = idx
		}
	}
	if earliestStop != -1 && nameIdx >= earliestStop {
		return ""
	}
	m := nameFieldRe.FindStringSubmatch(line)
	if m == nil {
		return ""
	}
	name := guardianSplitRe.Split(m[1], 2)[0]
	name = nameCleanRe.ReplaceAllString(name, " ")
	return spaceRunRe.ReplaceAllString(strings.TrimSpace(name), " ")
}

// orderedCounter accumulates counts while remembering first-seen order, so
// that ties resolve to the earliest key under strict greater-than comparison.
type orderedCounter struct {
	counts map[string]int
	order  []string
}

func newOrderedCounter() *orderedCounter {
	return &orderedCounter{counts: make(map[string]int)}
}

func (c *orderedCounter) add(key string) {
	if key == "" {
		return
	}
	if _, seen := c.counts[key]; !seen {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

func (c *orderedCounter) mostCommon() string {
	best := ""
	bestCount := 0
	for _, key := range c.order {
		if c.counts[key] > bestCount {
			bestCount = c.counts[key]
			best = key
		}
	}
	return best
}

// detectFromCourseCodes infers branch and semester from subject-code tokens
// ("4CS3-05" carries both). The leading digit may have been OCR'd as "I".
func detectFromCourseCodes(upperText string) (string, int) {
	branches := newOrderedCounter()
	semesters := newOrderedCounter()

	for _, m := range courseCodeScanRe.FindAllStringSubmatch(upperText, -1) {
		semToken := m[1]
		if semToken == "I" {
			semToken = "1"
		}
		if sem := ParseSemester(semToken); sem != 0 {
			semesters.add(strconv.Itoa(sem))
		}
		branches.add(NormalizeBranch(m[2]))
	}

	semester := 0
	if s := semesters.mostCommon(); s != "" {
		semester = ParseSemester(s)
	}
	return branches.mostCommon(), semester
}
