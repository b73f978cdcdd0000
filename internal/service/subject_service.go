package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rtuhub/sgpa-backend/internal/model"
	"github.com/rtuhub/sgpa-backend/internal/repository"
	"github.com/rtuhub/sgpa-backend/internal/transcript"
)

// SubjectService manages the master subject catalog.
type SubjectService struct {
	subjectRepo *repository.SubjectRepository
	log         zerolog.Logger
}

func NewSubjectService(subjectRepo *repository.SubjectRepository, log zerolog.Logger) *SubjectService {
	return &SubjectService{
		subjectRepo: subjectRepo,
		log:         log.With().Str("component", "subject_service").Logger(),
	}
}

func (s *SubjectService) GetAll(ctx context.Context, filter repository.CandidateFilter) ([]model.CatalogSubject, error) {
	return s.subjectRepo.GetAll(ctx, filter)
}

func (s *SubjectService) Create(ctx context.Context, sub *model.CatalogSubject) error {
	sub.Branch = canonicalBranch(sub.Branch)
	return s.subjectRepo.Create(ctx, sub)
}

func (s *SubjectService) Update(ctx context.Context, sub *model.CatalogSubject) error {
	sub.Branch = canonicalBranch(sub.Branch)
	return s.subjectRepo.Update(ctx, sub)
}

// canonicalBranch maps a branch to its canonical code but keeps values the
// normalizer does not know (notably "COMMON") as-is, uppercased.
func canonicalBranch(branch string) string {
	if b := transcript.NormalizeBranch(branch); b != "" {
		return b
	}
	return strings.ToUpper(strings.TrimSpace(branch))
}

func (s *SubjectService) Delete(ctx context.Context, id int) error {
	return s.subjectRepo.Delete(ctx, id)
}
