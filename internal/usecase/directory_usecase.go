package usecase

import (
	"context"
	"io"
	"log"
	"time"

	"github.com/google/uuid"

	"talent-match/internal/directory"
	"talent-match/internal/domain/candidate"
	"talent-match/internal/domain/user"
	"talent-match/internal/export"
	"talent-match/internal/repository"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

type CandidateListParams struct {
	Search  string
	MinRank float64
	Skills  []string
	Limit   int
	Offset  int
}

func (p CandidateListParams) criteria() directory.Criteria {
	return directory.Criteria{Search: p.Search, MinRank: p.MinRank, Skills: p.Skills}
}

// CandidateList is one page of the directory. SkillOptions lists every skill
// present across all candidates, for building filters.
type CandidateList struct {
	Items        []candidate.Profile `json:"items"`
	Total        int                 `json:"total"`
	Limit        int                 `json:"limit"`
	Offset       int                 `json:"offset"`
	SkillOptions []string            `json:"skill_options"`
}

type CandidateDetail struct {
	Profile   candidate.Profile
	Interview InterviewView
}

type DirectoryUsecase interface {
	List(ctx context.Context, auth user.AuthContext, p CandidateListParams) (CandidateList, error)
	Get(ctx context.Context, auth user.AuthContext, id uuid.UUID) (CandidateDetail, error)
	Export(ctx context.Context, auth user.AuthContext, p CandidateListParams, w io.Writer) error
}

type Directory struct {
	candidates repository.CandidateRepository
	interviews InterviewUsecase
	cache      Cache
	threshold  float64
	logger     *log.Logger
	now        func() time.Time
}

func NewDirectoryUsecase(candidates repository.CandidateRepository, interviews InterviewUsecase, cache Cache, threshold float64, logger *log.Logger) *Directory {
	if cache == nil {
		cache = noopCache{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Directory{
		candidates: candidates,
		interviews: interviews,
		cache:      cache,
		threshold:  threshold,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (u *Directory) List(ctx context.Context, auth user.AuthContext, p CandidateListParams) (CandidateList, error) {
	if !auth.IsRecruiter() {
		return CandidateList{}, ErrForbidden
	}
	if p.MinRank < 0 || p.Offset < 0 || p.Limit < 0 {
		return CandidateList{}, ErrInvalidInput
	}
	if p.Limit == 0 {
		p.Limit = DefaultListLimit
	}
	if p.Limit > MaxListLimit {
		p.Limit = MaxListLimit
	}

	key := CandidateSearchCacheKey(p.criteria(), p.Limit, p.Offset)
	var cached CandidateList
	if hit, err := u.cache.GetJSON(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}

	all, err := u.candidates.List(ctx)
	if err != nil {
		u.logger.Printf("level=error msg=directory_list_failed err=%q", err.Error())
		return CandidateList{}, ErrInternal
	}
	matched := directory.Filter(all, p.criteria())
	out := CandidateList{
		Items:        directory.Page(matched, p.Limit, p.Offset),
		Total:        len(matched),
		Limit:        p.Limit,
		Offset:       p.Offset,
		SkillOptions: directory.AllSkills(all),
	}

	if err := u.cache.SetJSON(ctx, key, out, 0); err != nil {
		u.logger.Printf("level=warn msg=directory_cache_set_failed err=%q", err.Error())
	}
	return out, nil
}

func (u *Directory) Get(ctx context.Context, auth user.AuthContext, id uuid.UUID) (CandidateDetail, error) {
	if !auth.IsRecruiter() {
		return CandidateDetail{}, ErrForbidden
	}
	p, err := u.candidates.GetByID(ctx, id)
	if err != nil {
		return CandidateDetail{}, mapCandidateErr(err)
	}
	view, err := u.interviews.ForCandidate(ctx, auth, id)
	if err != nil {
		return CandidateDetail{}, err
	}
	return CandidateDetail{Profile: p, Interview: view}, nil
}

// Export writes every candidate matching the filters, unpaged, as xlsx.
func (u *Directory) Export(ctx context.Context, auth user.AuthContext, p CandidateListParams, w io.Writer) error {
	if !auth.IsRecruiter() {
		return ErrForbidden
	}
	if p.MinRank < 0 {
		return ErrInvalidInput
	}
	all, err := u.candidates.List(ctx)
	if err != nil {
		u.logger.Printf("level=error msg=directory_export_failed err=%q", err.Error())
		return ErrInternal
	}
	matched := directory.Filter(all, p.criteria())
	if err := export.WriteCandidates(w, matched, u.threshold, u.now()); err != nil {
		u.logger.Printf("level=error msg=directory_export_failed err=%q", err.Error())
		return ErrInternal
	}
	u.logger.Printf("level=info msg=directory_export recruiter_id=%s rows=%d", auth.UserID, len(matched))
	return nil
}
