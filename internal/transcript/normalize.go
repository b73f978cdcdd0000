package transcript

import (
	"regexp"
	"strconv"
	"strings"
)

// stopwords dropped by Tokenize: articles, short prepositions, and the roman
// semester words that appear in almost every subject title.
var stopwords = map[string]struct{}{
	"THE": {}, "OF": {}, "AND": {}, "IN": {}, "TO": {}, "FOR": {}, "A": {},
	"AN": {}, "WITH": {}, "ON": {}, "I": {}, "II": {}, "III": {}, "IV": {},
	"V": {}, "VI": {}, "VII": {}, "VIII": {}, "SEM": {}, "SEMESTER": {},
}

var romanSemesters = map[string]int{
	"I": 1, "II": 2, "III": 3, "IV": 4, "V": 5, "VI": 6, "VII": 7, "VIII": 8,
}

var (
	dashRe          = regexp.MustCompile("[–—]")
	doubleQuoteRe   = regexp.MustCompile("[“”]")
	singleQuoteRe   = regexp.MustCompile("’")
	trailingSpaceRe = regexp.MustCompile(`[ \t]+\n`)
	blankLinesRe    = regexp.MustCompile(`\n{2,}`)
	spaceRunRe      = regexp.MustCompile(`\s+`)
	smallNumberRe   = regexp.MustCompile(`\b\d{1,3}\b`)
	namePunctRe     = regexp.MustCompile(`[^A-Z0-9\s]`)
	labKeywordRe    = regexp.MustCompile(`\b(LAB|LABORATORY|PRACTICAL|WORKSHOP|STUDIO)\b`)
	nonLetterRe     = regexp.MustCompile(`[^A-Z]`)
	nonDigitRe      = regexp.MustCompile(`\D`)
)

// abbreviations expanded by NormalizeSubjectName, applied in order so that
// longer acronyms win before shorter ones embedded in them.
var abbreviations = []struct{ re *regexp.Regexp; full string }{
	{regexp.MustCompile(`\bDBMS\b`), "DATABASE MANAGEMENT SYSTEMS"},
	{regexp.MustCompile(`\bOOP\b`), "OBJECT ORIENTED PROGRAMMING"},
	{regexp.MustCompile(`\bCN\b`), "COMPUTER NETWORKS"},
	{regexp.MustCompile(`\bOS\b`), "OPERATING SYSTEMS"},
	{regexp.MustCompile(`\bAI\b`), "ARTIFICIAL INTELLIGENCE"},
	{regexp.MustCompile(`\bML\b`), "MACHINE LEARNING"},
	{regexp.MustCompile(`\bDL\b`), "DEEP LEARNING"},
	{regexp.MustCompile(`\bNLP\b`), "NATURAL LANGUAGE PROCESSING"},
	{regexp.MustCompile(`\bDSP\b`), "DIGITAL SIGNAL PROCESSING"},
	{regexp.MustCompile(`\bIOT\b`), "INTERNET OF THINGS"},
	{regexp.MustCompile(`\bSE\b`), "SOFTWARE ENGINEERING"},
	{regexp.MustCompile(`\bMACHINES\b`), "MACHINE"},
}

// NormalizeText cleans raw PDF/OCR text into a canonical line-oriented form.
// The transformation is lossy but deterministic and idempotent: feeding the
// output back in produces the same output.
func NormalizeText(text string) string {
	if text == "" {
		return ""
	}
	t := strings.ReplaceAll(text, "\r", "\n")
	t = dashRe.ReplaceAllString(t, "-")
	t = doubleQuoteRe.ReplaceAllString(t, `"`)
	t = singleQuoteRe.ReplaceAllString(t, "'")
	t = stripNonASCII(t)
	t = fixDigitConfusions(t)
	t = trailingSpaceRe.ReplaceAllString(t, "\n")
	t = blankLinesRe.ReplaceAllString(t, "\n")
	return t
}

func stripNonASCII(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r > 127 {
			b.WriteByte(' ')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// fixDigitConfusions repairs the two dominant OCR substitutions: a lone '0'
// between letters becomes 'O' and a lone '1' between letters becomes 'I'.
// A single rune scan handles overlapping runs ("B0B0B") in one pass, which
// keeps the whole normalization idempotent.
func fixDigitConfusions(s string) string {
	b := []byte(s)
	for i := 1; i < len(b)-1; i++ {
		if !isLetterByte(b[i-1]) || !isLetterByte(b[i+1]) {
			continue
		}
		switch b[i] {
		case '0':
			b[i] = 'O'
		case '1':
			b[i] = 'I'
		}
	}
	return string(b)
}

func isLetterByte(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

// NormalizeSubjectName canonicalizes a subject title for matching: uppercase,
// "&" spelled out, domain acronyms expanded, punctuation and stray numbers
// stripped, whitespace collapsed.
func NormalizeSubjectName(name string) string {
	if name == "" {
		return ""
	}
	n := strings.ToUpper(name)
	n = strings.ReplaceAll(n, "&", " AND ")
	for _, a := range abbreviations {
		n = a.re.ReplaceAllString(n, a.full)
	}
	n = namePunctRe.ReplaceAllString(n, " ")
	n = smallNumberRe.ReplaceAllString(n, " ")
	return spaceRunRe.ReplaceAllString(strings.TrimSpace(n), " ")
}

// Tokenize splits normalized text on whitespace and drops stopwords.
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}
	fields := strings.Fields(text)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, skip := stopwords[f]; skip {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// InferIsLab reports whether a subject title names a lab/practical course.
func InferIsLab(name string) bool {
	return labKeywordRe.MatchString(strings.ToUpper(name))
}

// ParseSemester interprets a roman or numeric semester token. Returns 0 when
// the value is missing or outside 1-8.
func ParseSemester(value string) int {
	v := strings.ToUpper(strings.TrimSpace(value))
	if v == "" {
		return 0
	}
	if sem, ok := romanSemesters[v]; ok {
		return sem
	}
	digits := nonDigitRe.ReplaceAllString(v, "")
	n, err := strconv.Atoi(digits)
	if err != nil || n < 1 || n > 8 {
		return 0
	}
	return n
}

// branchPrefixes maps course-code and programme-name prefixes to canonical
// branch codes. Order matters: longer prefixes must win ("CSE" before "CS").
var branchPrefixes = []struct{ prefix, branch string }{
	{"CSE", "CSE"},
	{"COMPUTERSCIENCE", "CSE"},
	{"INFORMATIONTECH", "IT"},
	{"INFOTECH", "IT"},
	{"IT", "IT"},
	{"FY", "COMMON"},
	{"ECE", "ECE"},
	{"ELECTRONICS", "ECE"},
	{"EEE", "EE"},
	{"EE", "EE"},
	{"ELECTRICAL", "EE"},
	{"ME", "ME"},
	{"MECHANICAL", "ME"},
	{"CE", "CE"},
	{"CIVIL", "CE"},
	{"AIML", "AIML"},
	{"AI", "AI"},
	{"DS", "DS"},
	{"CS", "CSE"},
}

// NormalizeBranch maps a free-form branch/programme string to a canonical
// branch code, or "" when unrecognized.
func NormalizeBranch(value string) string {
	v := nonLetterRe.ReplaceAllString(strings.ToUpper(value), "")
	if v == "" {
		return ""
	}
	if v == "EC" {
		return "ECE"
	}
	for _, p := range branchPrefixes {
		if strings.HasPrefix(v, p.prefix) {
			return p.branch
		}
	}
	return ""
}

// ToTitleCase converts an uppercase extracted name to display casing.
func ToTitleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
