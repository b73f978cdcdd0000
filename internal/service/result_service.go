package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rtuhub/sgpa-backend/internal/catalog"
	"github.com/rtuhub/sgpa-backend/internal/config"
	"github.com/rtuhub/sgpa-backend/internal/model"
	"github.com/rtuhub/sgpa-backend/internal/repository"
	"github.com/rtuhub/sgpa-backend/internal/transcript"
)

// Sentinel errors for transcript processing.
var (
	// ErrUnsupportedInput means extraction yielded no usable text at all.
	ErrUnsupportedInput = errors.New("transcript text unusable")
	// ErrNoSubjectsParsed means the text was readable but no subject rows
	// were recognized.
	ErrNoSubjectsParsed = errors.New("no subjects parsed")
)

// coverageTarget is the matched fraction below which the catalog query is
// progressively widened.
const coverageTarget = 0.8

// CandidateSource supplies catalog subjects for matching.
type CandidateSource interface {
	FindCandidates(ctx context.Context, filter repository.CandidateFilter) ([]model.CatalogSubject, error)
}

// ResultStore persists computed semester results.
type ResultStore interface {
	Upsert(ctx context.Context, res *model.StudentResult) error
	GetByRollNoAndSemester(ctx context.Context, rollNo string, semester int) (*model.StudentResult, error)
}

// CalculateInput carries the extracted transcript text plus caller hints
// used only when the text-derived metadata is absent.
type CalculateInput struct {
	Text  string
	Hints model.ResultHints

	// SourceDigest is the SHA-256 of the uploaded file; identical uploads
	// hit the Redis cache. Empty disables caching.
	SourceDigest string
	SourceName   string
	SourceMime   string
}

// ResultService runs the transcript pipeline: normalize, extract, match
// against the catalog, resolve credits, aggregate SGPA, persist.
type ResultService struct {
	subjects CandidateSource
	results  ResultStore
	credits  *catalog.CreditCatalog
	rdb      *redis.Client
	cfg      *config.Config
	log      zerolog.Logger
}

func NewResultService(
	subjects CandidateSource,
	results ResultStore,
	credits *catalog.CreditCatalog,
	rdb *redis.Client,
	cfg *config.Config,
	log zerolog.Logger,
) *ResultService {
	return &ResultService{
		subjects: subjects,
		results:  results,
		credits:  credits,
		rdb:      rdb,
		cfg:      cfg,
		log:      log.With().Str("component", "result_service").Logger(),
	}
}

// Calculate processes one transcript. Per-row and per-field gaps are
// recovered locally (nil fields); only unusable text and zero parsed rows
// are escalated.
func (s *ResultService) Calculate(ctx context.Context, input CalculateInput) (*model.StudentResult, error) {
	if cached := s.cachedResult(ctx, input.SourceDigest); cached != nil {
		return cached, nil
	}

	text := transcript.NormalizeText(input.Text)
	if strings.TrimSpace(text) == "" {
		return nil, ErrUnsupportedInput
	}

	md := transcript.ExtractMetadata(text)
	rollNo := firstNonEmpty(md.RollNo, strings.TrimSpace(input.Hints.RollNo))
	name := firstNonEmpty(md.Name, strings.TrimSpace(input.Hints.Name))
	if name != "" {
		name = transcript.ToTitleCase(name)
	}
	branch := md.Branch
	if branch == "" {
		branch = transcript.NormalizeBranch(input.Hints.Branch)
	}
	semester := md.Semester
	if semester == 0 {
		semester = transcript.ParseSemester(input.Hints.Semester)
	}

	extracted := transcript.ParseSubjects(text)
	if len(extracted) == 0 {
		return nil, ErrNoSubjectsParsed
	}

	match, err := s.matchWithWidening(ctx, extracted, branch, semester)
	if err != nil {
		return nil, err
	}

	if branch == "" || semester == 0 {
		inferredBranch, inferredSemester := inferFromMatches(match.Matched)
		if branch == "" {
			branch = inferredBranch
		}
		if semester == 0 {
			semester = inferredSemester
		}
	}

	computed := s.computeSubjects(match)
	summary := transcript.CalculateSgpa(computed)

	result := &model.StudentResult{
		RollNo:           rollNo,
		Name:             name,
		Branch:           branch,
		Semester:         semester,
		Sgpa:             summary.Sgpa,
		TotalCredits:     summary.TotalCredits,
		TotalGradePoints: summary.TotalGradePoints,
		Subjects:         computed,
		SourceName:       input.SourceName,
		SourceMime:       input.SourceMime,
	}

	if rollNo != "" && semester != 0 && s.results != nil {
		if err := s.results.Upsert(ctx, result); err != nil {
			// Persistence is best-effort; the computed result is still valid.
			s.log.Warn().Err(err).
				Str("roll_no", rollNo).
				Int("semester", semester).
				Msg("Failed to persist result")
		}
	}

	s.cacheResult(ctx, input.SourceDigest, result)

	s.log.Info().
		Str("roll_no", rollNo).
		Str("branch", branch).
		Int("semester", semester).
		Int("extracted", len(extracted)).
		Int("matched", len(match.Matched)).
		Msg("Transcript processed")

	return result, nil
}

// GetStored fetches a previously persisted result, read through Redis.
func (s *ResultService) GetStored(ctx context.Context, rollNo string, semester int) (*model.StudentResult, error) {
	key := config.StudentResultKey(rollNo, semester)
	if s.rdb != nil {
		if data, err := s.rdb.Get(ctx, key).Bytes(); err == nil {
			var res model.StudentResult
			if err := json.Unmarshal(data, &res); err == nil {
				return &res, nil
			}
		}
	}

	res, err := s.results.GetByRollNoAndSemester(ctx, rollNo, semester)
	if err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if data, err := json.Marshal(res); err == nil {
			if err := s.rdb.Set(ctx, key, data, s.cfg.ResultCacheTTL).Err(); err != nil {
				s.log.Warn().Err(err).Msg("Failed to cache stored result")
			}
		}
	}
	return res, nil
}

// matchWithWidening matches against the primary filtered candidate set and,
// when coverage stays below the target, retries progressively wider queries.
// A wider set is adopted only when it strictly increases the matched count.
func (s *ResultService) matchWithWidening(ctx context.Context, extracted []model.ExtractedSubject, branch string, semester int) (transcript.MatchResult, error) {
	primary := repository.CandidateFilter{}
	switch {
	case branch != "" && semester != 0:
		primary = repository.CandidateFilter{Branch: branch, Semester: semester}
	case semester != 0:
		primary = repository.CandidateFilter{Semester: semester}
	}

	candidates, err := s.subjects.FindCandidates(ctx, primary)
	if err != nil {
		return transcript.MatchResult{}, err
	}
	best := transcript.MatchSubjects(extracted, candidates)

	if primary == (repository.CandidateFilter{}) {
		return best, nil
	}

	for _, wider := range widenedFilters(primary) {
		if coverage(best, extracted) >= coverageTarget {
			break
		}
		candidates, err := s.subjects.FindCandidates(ctx, wider)
		if err != nil {
			// Widening is opportunistic; keep the result we already have.
			s.log.Warn().Err(err).Msg("Fallback candidate query failed")
			break
		}
		attempt := transcript.MatchSubjects(extracted, candidates)
		if len(attempt.Matched) > len(best.Matched) {
			best = attempt
		}
	}

	return best, nil
}

// widenedFilters lists fallback queries in widening order: semester-only,
// branch-only, unfiltered. The primary filter itself is skipped.
func widenedFilters(primary repository.CandidateFilter) []repository.CandidateFilter {
	var filters []repository.CandidateFilter
	if primary.Semester != 0 && primary.Branch != "" {
		filters = append(filters, repository.CandidateFilter{Semester: primary.Semester})
	}
	if primary.Branch != "" {
		filters = append(filters, repository.CandidateFilter{Branch: primary.Branch})
	}
	filters = append(filters, repository.CandidateFilter{})
	return filters
}

func coverage(match transcript.MatchResult, extracted []model.ExtractedSubject) float64 {
	if len(extracted) == 0 {
		return 0
	}
	return float64(len(match.Matched)) / float64(len(extracted))
}

// computeSubjects converts matched and unmatched rows into final output
// rows, deduplicated by normalized code (or title), first occurrence wins.
func (s *ResultService) computeSubjects(match transcript.MatchResult) []model.ComputedSubject {
	computed := make([]model.ComputedSubject, 0, len(match.Matched)+len(match.Unmatched))
	seen := make(map[string]struct{})

	add := func(ext model.ExtractedSubject, matched *model.CatalogSubject) {
		key := catalog.NormalizeCode(ext.SubjectCode)
		if key == "" {
			key = catalog.NormalizeTitleKey(ext.SubjectName)
		}
		if key != "" {
			if _, dup := seen[key]; dup {
				return
			}
			seen[key] = struct{}{}
		}

		grade := "NA"
		var gradePoint *float64
		if ext.Grade != "" {
			if g, point, ok := transcript.GradePointFromGrade(ext.Grade); ok {
				grade = g
				gradePoint = &point
			}
		} else if rel := transcript.RelativeMarks(ext); rel != nil {
			if g, point, ok := transcript.GradeFromRelativeMarks(*rel); ok {
				grade = g
				gradePoint = &point
			}
		}

		credits := s.resolveCredits(ext, matched)

		var contribution *float64
		if credits != nil && gradePoint != nil {
			v := transcript.Round2(*credits * *gradePoint)
			contribution = &v
		}

		label := ext.SubjectName
		if matched != nil {
			label = matched.SubjectName
		}

		computed = append(computed, model.ComputedSubject{
			Subject:      label,
			SubjectCode:  ext.SubjectCode,
			Credits:      credits,
			Marks:        ext.TotalMarks,
			Grade:        grade,
			GradePoint:   gradePoint,
			Contribution: contribution,
		})
	}

	for _, m := range match.Matched {
		subject := m.Subject
		add(m.Extracted, &subject)
	}
	for _, u := range match.Unmatched {
		add(u, nil)
	}

	return computed
}

// resolveCredits applies the credit resolution tiers: catalog by code,
// catalog by title, the matched catalog record, then the packed-column hint
// recovered from the row itself. Nil means unknown; the subject is excluded
// from the SGPA denominator.
func (s *ResultService) resolveCredits(ext model.ExtractedSubject, matched *model.CatalogSubject) *float64 {
	if ext.SubjectCode != "" {
		if v, ok := s.credits.CreditsByCode(ext.SubjectCode); ok {
			return &v
		}
	}
	if v, ok := s.credits.CreditsByTitle(ext.SubjectName); ok {
		return &v
	}
	if matched != nil {
		v := matched.Credits
		return &v
	}
	if ext.CreditsHint != nil {
		v := *ext.CreditsHint
		return &v
	}
	return nil
}

// inferFromMatches derives missing branch/semester from the matched catalog
// records, picking the most common value (COMMON never counts as a branch).
func inferFromMatches(matched []transcript.MatchedPair) (string, int) {
	branches := make(map[string]int)
	var branchOrder []string
	semesters := make(map[int]int)
	var semesterOrder []int

	for _, m := range matched {
		if b := m.Subject.Branch; b != "" && b != "COMMON" {
			if _, seen := branches[b]; !seen {
				branchOrder = append(branchOrder, b)
			}
			branches[b]++
		}
		if sem := m.Subject.Semester; sem != 0 {
			if _, seen := semesters[sem]; !seen {
				semesterOrder = append(semesterOrder, sem)
			}
			semesters[sem]++
		}
	}

	branch, bestCount := "", 0
	for _, b := range branchOrder {
		if branches[b] > bestCount {
			bestCount = branches[b]
			branch = b
		}
	}
	semester, bestCount := 0, 0
	for _, sem := range semesterOrder {
		if semesters[sem] > bestCount {
			bestCount = semesters[sem]
			semester = sem
		}
	}
	return branch, semester
}

func (s *ResultService) cachedResult(ctx context.Context, digest string) *model.StudentResult {
	if s.rdb == nil || digest == "" {
		return nil
	}
	data, err := s.rdb.Get(ctx, config.ResultCacheKey(digest)).Bytes()
	if err != nil {
		return nil
	}
	var res model.StudentResult
	if err := json.Unmarshal(data, &res); err != nil {
		return nil
	}
	s.log.Debug().Str("digest", digest).Msg("Result cache hit")
	return &res
}

func (s *ResultService) cacheResult(ctx context.Context, digest string, res *model.StudentResult) {
	if s.rdb == nil || digest == "" {
		return
	}
	data, err := json.Marshal(res)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, config.ResultCacheKey(digest), data, s.cfg.ResultCacheTTL).Err(); err != nil {
		s.log.Warn().Err(err).Msg("Failed to cache result")
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
