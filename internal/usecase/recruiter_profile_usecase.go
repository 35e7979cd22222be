package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"talent-match/internal/domain/recruiter"
	"talent-match/internal/domain/user"
	"talent-match/internal/repository"
)

const maxProfileFieldRunes = 200

// RecruiterProfileInput carries a full replacement of the editable fields.
type RecruiterProfileInput struct {
	FullName          string
	Company           string
	Position          string
	NotificationEmail bool
	NotificationApp   bool
}

type RecruiterProfileUsecase interface {
	Get(ctx context.Context, auth user.AuthContext) (recruiter.Profile, error)
	Update(ctx context.Context, auth user.AuthContext, in RecruiterProfileInput) (recruiter.Profile, error)
}

type RecruiterProfile struct {
	profiles repository.RecruiterProfileRepository
	logger   *log.Logger
	now      func() time.Time
}

func NewRecruiterProfileUsecase(profiles repository.RecruiterProfileRepository, logger *log.Logger) *RecruiterProfile {
	if logger == nil {
		logger = log.Default()
	}
	return &RecruiterProfile{profiles: profiles, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

func (u *RecruiterProfile) Get(ctx context.Context, auth user.AuthContext) (recruiter.Profile, error) {
	if !auth.IsRecruiter() {
		return recruiter.Profile{}, ErrForbidden
	}
	p, err := u.profiles.GetByUserID(ctx, auth.UserID)
	switch {
	case err == nil:
		return p, nil
	case errors.Is(err, recruiter.ErrNotFound):
		return recruiter.Default(auth.UserID), nil
	default:
		u.logger.Printf("level=error msg=recruiter_profile_get_failed user_id=%s err=%q", auth.UserID, err.Error())
		return recruiter.Profile{}, ErrInternal
	}
}

func (u *RecruiterProfile) Update(ctx context.Context, auth user.AuthContext, in RecruiterProfileInput) (recruiter.Profile, error) {
	if !auth.IsRecruiter() {
		return recruiter.Profile{}, ErrForbidden
	}
	in.FullName = strings.TrimSpace(in.FullName)
	in.Company = strings.TrimSpace(in.Company)
	in.Position = strings.TrimSpace(in.Position)
	for _, v := range []string{in.FullName, in.Company, in.Position} {
		if len([]rune(v)) > maxProfileFieldRunes {
			return recruiter.Profile{}, ErrInvalidInput
		}
	}

	now := u.now()
	p, err := u.profiles.Upsert(ctx, recruiter.Profile{
		ID:                uuid.New(),
		UserID:            auth.UserID,
		FullName:          in.FullName,
		Company:           in.Company,
		Position:          in.Position,
		NotificationEmail: in.NotificationEmail,
		NotificationApp:   in.NotificationApp,
		CreatedAt:         now,
		UpdatedAt:         now,
	})
	if err != nil {
		u.logger.Printf("level=error msg=recruiter_profile_update_failed user_id=%s err=%q", auth.UserID, err.Error())
		return recruiter.Profile{}, ErrInternal
	}
	return p, nil
}
