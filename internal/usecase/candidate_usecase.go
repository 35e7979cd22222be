package usecase

import (
	"context"
	"strings"
	"unicode/utf8"

	"talent-match/internal/domain/candidate"
	"talent-match/internal/domain/user"
	"talent-match/internal/repository"
)

const maxContactFieldLength = 200

type UpdateCandidateInput struct {
	FullName string
	Phone    string
}

type CandidateProfileUsecase interface {
	Me(ctx context.Context, auth user.AuthContext) (candidate.Profile, error)
	UpdateMe(ctx context.Context, auth user.AuthContext, in UpdateCandidateInput) (candidate.Profile, error)
}

type CandidateProfile struct {
	candidates repository.CandidateRepository
	cache      Cache
}

func NewCandidateProfileUsecase(candidates repository.CandidateRepository, cache Cache) *CandidateProfile {
	if cache == nil {
		cache = noopCache{}
	}
	return &CandidateProfile{candidates: candidates, cache: cache}
}

func (u *CandidateProfile) Me(ctx context.Context, auth user.AuthContext) (candidate.Profile, error) {
	if !auth.IsCandidate() {
		return candidate.Profile{}, ErrForbidden
	}
	p, err := u.candidates.GetByUserID(ctx, auth.UserID)
	if err != nil {
		return candidate.Profile{}, mapCandidateErr(err)
	}
	return p, nil
}

func (u *CandidateProfile) UpdateMe(ctx context.Context, auth user.AuthContext, in UpdateCandidateInput) (candidate.Profile, error) {
	if !auth.IsCandidate() {
		return candidate.Profile{}, ErrForbidden
	}
	name := strings.Join(strings.Fields(in.FullName), " ")
	phone := strings.TrimSpace(in.Phone)
	if name == "" || utf8.RuneCountInString(name) > maxContactFieldLength || utf8.RuneCountInString(phone) > maxContactFieldLength {
		return candidate.Profile{}, ErrInvalidInput
	}

	p, err := u.candidates.UpdateContact(ctx, auth.UserID, name, phone)
	if err != nil {
		return candidate.Profile{}, mapCandidateErr(err)
	}
	_ = u.cache.DeleteByPattern(ctx, candidateSearchPattern)
	return p, nil
}
