package usecase

import (
	"context"
	"log"

	"golang.org/x/sync/errgroup"

	"talent-match/internal/domain/user"
	"talent-match/internal/repository"
)

type DashboardStats struct {
	TotalCandidates int     `json:"total_candidates"`
	ReviewedByMe    int     `json:"reviewed_by_me"`
	MyAverageRating float64 `json:"my_average_rating"`
	HighRanked      int     `json:"high_ranked"`
	Threshold       float64 `json:"threshold"`
}

type DashboardUsecase interface {
	Stats(ctx context.Context, auth user.AuthContext) (DashboardStats, error)
}

type Dashboard struct {
	candidates repository.CandidateRepository
	feedback   repository.FeedbackRepository
	threshold  float64
	logger     *log.Logger
}

func NewDashboardUsecase(candidates repository.CandidateRepository, fb repository.FeedbackRepository, threshold float64, logger *log.Logger) *Dashboard {
	if logger == nil {
		logger = log.Default()
	}
	return &Dashboard{candidates: candidates, feedback: fb, threshold: threshold, logger: logger}
}

func (u *Dashboard) Stats(ctx context.Context, auth user.AuthContext) (DashboardStats, error) {
	if !auth.IsRecruiter() {
		return DashboardStats{}, ErrForbidden
	}

	out := DashboardStats{Threshold: u.threshold}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := u.candidates.Count(gctx)
		out.TotalCandidates = n
		return err
	})
	g.Go(func() error {
		n, err := u.candidates.CountRankedAtLeast(gctx, u.threshold)
		out.HighRanked = n
		return err
	})
	g.Go(func() error {
		s, err := u.feedback.StatsByRecruiter(gctx, auth.UserID)
		out.ReviewedByMe = s.Count
		out.MyAverageRating = s.AverageRating
		return err
	})
	if err := g.Wait(); err != nil {
		u.logger.Printf("level=error msg=dashboard_stats_failed recruiter_id=%s err=%q", auth.UserID, err.Error())
		return DashboardStats{}, ErrInternal
	}
	return out, nil
}
