package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"talent-match/internal/domain/candidate"
	"talent-match/internal/domain/feedback"
	"talent-match/internal/domain/user"
	"talent-match/internal/repository"
)

const maxFeedbackRunes = 5000

type SubmitFeedbackInput struct {
	Rating int
	Text   string
}

type FeedbackUsecase interface {
	Submit(ctx context.Context, auth user.AuthContext, candidateID uuid.UUID, in SubmitFeedbackInput) (feedback.Feedback, error)
	MyReviews(ctx context.Context, auth user.AuthContext) ([]feedback.Review, error)
}

type Feedback struct {
	feedback repository.FeedbackRepository
	logger   *log.Logger
	now      func() time.Time
}

func NewFeedbackUsecase(repo repository.FeedbackRepository, logger *log.Logger) *Feedback {
	if logger == nil {
		logger = log.Default()
	}
	return &Feedback{feedback: repo, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// Submit stores the recruiter's single review of a candidate. Reviews are
// immutable; a second one is ErrAlreadyExists.
func (u *Feedback) Submit(ctx context.Context, auth user.AuthContext, candidateID uuid.UUID, in SubmitFeedbackInput) (feedback.Feedback, error) {
	if !auth.IsRecruiter() {
		return feedback.Feedback{}, ErrForbidden
	}
	text := strings.TrimSpace(in.Text)
	if !feedback.ValidRating(in.Rating) || text == "" || len([]rune(text)) > maxFeedbackRunes {
		return feedback.Feedback{}, ErrInvalidInput
	}

	f, err := u.feedback.Create(ctx, feedback.Feedback{
		ID:          uuid.New(),
		RecruiterID: auth.UserID,
		CandidateID: candidateID,
		Rating:      in.Rating,
		Text:        text,
		CreatedAt:   u.now(),
	})
	switch {
	case err == nil:
	case errors.Is(err, feedback.ErrAlreadyExists):
		return feedback.Feedback{}, feedback.ErrAlreadyExists
	case errors.Is(err, candidate.ErrNotFound):
		return feedback.Feedback{}, ErrNotFound
	default:
		u.logger.Printf("level=error msg=feedback_submit_failed recruiter_id=%s candidate_id=%s err=%q", auth.UserID, candidateID, err.Error())
		return feedback.Feedback{}, ErrInternal
	}

	u.logger.Printf("level=info msg=feedback_submit recruiter_id=%s candidate_id=%s rating=%d", auth.UserID, candidateID, f.Rating)
	return f, nil
}

func (u *Feedback) MyReviews(ctx context.Context, auth user.AuthContext) ([]feedback.Review, error) {
	if !auth.IsRecruiter() {
		return nil, ErrForbidden
	}
	out, err := u.feedback.ListByRecruiter(ctx, auth.UserID)
	if err != nil {
		u.logger.Printf("level=error msg=feedback_list_failed recruiter_id=%s err=%q", auth.UserID, err.Error())
		return nil, ErrInternal
	}
	if out == nil {
		out = []feedback.Review{}
	}
	return out, nil
}
