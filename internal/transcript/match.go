package transcript

import (
	"strings"

	"github.com/rtuhub/sgpa-backend/internal/model"
)

// minMatchScore is the acceptance threshold for a catalog candidate.
const minMatchScore = 0.55

// boostKeywords are discipline-defining tokens; sharing one is far stronger
// evidence than sharing a filler word of the same length.
var boostKeywords = map[string]struct{}{
	"DATABASE": {}, "NETWORKS": {}, "OPERATING": {}, "COMPILER": {},
	"ALGORITHMS": {}, "MACHINE": {}, "LEARNING": {}, "CIRCUITS": {},
	"SIGNALS": {}, "THERMODYNAMICS": {}, "STRUCTURES": {}, "ANALYSIS": {},
	"CONTROL": {}, "POWER": {}, "COMMUNICATION": {}, "DESIGN": {},
	"SOFTWARE": {}, "MICROPROCESSOR": {}, "ELECTRICAL": {}, "MECHANICS": {},
	"MINING": {}, "CLOUD": {}, "SECURITY": {}, "VISION": {}, "NATURAL": {},
	"LANGUAGE": {}, "ENVIRONMENTAL": {}, "GEOTECHNICAL": {},
	"TRANSPORTATION": {}, "HYDROLOGY": {}, "VLSI": {}, "EMBEDDED": {},
	"WIRELESS": {}, "DSP": {}, "REFRIGERATION": {}, "CONSTRUCTION": {},
	"VISUALIZATION": {},
}

// MatchedPair couples an extracted row with the catalog subject it claimed.
type MatchedPair struct {
	Extracted model.ExtractedSubject `json:"extracted"`
	Subject   model.CatalogSubject   `json:"subject"`
	Score     float64                `json:"score"`
}

// MatchResult partitions extracted subjects into matched and unmatched.
// Every extracted subject lands in exactly one of the two slices, and no
// catalog subject appears in more than one pair.
type MatchResult struct {
	Matched   []MatchedPair            `json:"matched"`
	Unmatched []model.ExtractedSubject `json:"unmatched"`
}

type candidate struct {
	subject model.CatalogSubject
	norm    string
	tokens  []string
	key     string
}

// MatchSubjects greedily assigns each extracted subject, in input order, to
// its best-scoring unclaimed catalog candidate. Lab rows only match lab
// catalog entries and vice versa; a row whose lab status cannot be inferred
// is treated as theory. Candidates are claimed at most once per run.
func MatchSubjects(extracted []model.ExtractedSubject, catalog []model.CatalogSubject) MatchResult {
	candidates := make([]candidate, len(catalog))
	for i, s := range catalog {
		norm := NormalizeSubjectName(s.SubjectName)
		candidates[i] = candidate{
			subject: s,
			norm:    norm,
			tokens:  Tokenize(norm),
			key:     s.ClaimKey(),
		}
	}

	result := MatchResult{}
	claimed := make(map[string]struct{})

	for _, ext := range extracted {
		extNorm := NormalizeSubjectName(ext.SubjectName)
		if extNorm == "" {
			result.Unmatched = append(result.Unmatched, ext)
			continue
		}

		extTokens := Tokenize(extNorm)
		extIsLab := InferIsLab(ext.SubjectName)

		var best *candidate
		bestScore := 0.0

		for i := range candidates {
			c := &candidates[i]
			if _, used := claimed[c.key]; used {
				continue
			}
			if c.subject.IsLab != extIsLab {
				continue
			}

			score := scoreNames(extNorm, c.norm, extTokens, c.tokens)
			if score > bestScore {
				bestScore = score
				best = c
			}
		}

		if best != nil && bestScore >= minMatchScore {
			claimed[best.key] = struct{}{}
			result.Matched = append(result.Matched, MatchedPair{
				Extracted: ext,
				Subject:   best.subject,
				Score:     bestScore,
			})
		} else {
			result.Unmatched = append(result.Unmatched, ext)
		}
	}

	return result
}

// scoreNames combines weighted token overlap with a bigram Dice coefficient.
// Long tokens weigh 1.2, discipline keywords get a further +0.6, and exact
// normalized equality earns a bonus. The result is capped at 1.
func scoreNames(aNorm, bNorm string, aTokens, bTokens []string) float64 {
	if aNorm == "" || bNorm == "" {
		return 0
	}

	setB := make(map[string]struct{}, len(bTokens))
	for _, t := range bTokens {
		setB[t] = struct{}{}
	}

	union := make(map[string]struct{}, len(aTokens)+len(bTokens))
	for _, t := range bTokens {
		union[t] = struct{}{}
	}

	var overlap float64
	seenA := make(map[string]struct{}, len(aTokens))
	for _, t := range aTokens {
		union[t] = struct{}{}
		if _, dup := seenA[t]; dup {
			continue
		}
		seenA[t] = struct{}{}
		if _, shared := setB[t]; shared {
			w := 1.0
			if len(t) >= 6 {
				w = 1.2
			}
			if _, boost := boostKeywords[t]; boost {
				w += 0.6
			}
			overlap += w
		}
	}

	unionSize := len(union)
	if unionSize == 0 {
		unionSize = 1
	}
	tokenScore := overlap / float64(unionSize)

	strScore := diceCoefficient(
		strings.ReplaceAll(aNorm, " ", ""),
		strings.ReplaceAll(bNorm, " ", ""),
	)

	score := tokenScore*0.7 + strScore*0.3
	if aNorm == bNorm {
		score += 0.2
	}
	if score > 1 {
		score = 1
	}
	return score
}

// diceCoefficient computes the bigram Dice similarity of two strings.
func diceCoefficient(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}
	if len(a) < 2 || len(b) < 2 {
		return 0
	}

	bigrams := make(map[string]int, len(a)-1)
	for i := 0; i < len(a)-1; i++ {
		bigrams[a[i:i+2]]++
	}

	intersection := 0
	for i := 0; i < len(b)-1; i++ {
		gram := b[i : i+2]
		if bigrams[gram] > 0 {
			bigrams[gram]--
			intersection++
		}
	}

	return float64(2*intersection) / float64(len(a)+len(b)-2)
}
