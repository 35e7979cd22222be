package repository

import (
	"context"

	"github.com/google/uuid"

	"talent-match/internal/database"
	"talent-match/internal/database/postgres"
	"talent-match/internal/domain/candidate"
	"talent-match/internal/domain/feedback"
)

type FeedbackRepository interface {
	Create(ctx context.Context, f feedback.Feedback) (feedback.Feedback, error)
	ListByRecruiter(ctx context.Context, recruiterID uuid.UUID) ([]feedback.Review, error)
	StatsByRecruiter(ctx context.Context, recruiterID uuid.UUID) (feedback.Stats, error)
}

type PostgresFeedbackRepository struct {
	db database.DB
}

func NewPostgresFeedbackRepository(db database.DB) *PostgresFeedbackRepository {
	return &PostgresFeedbackRepository{db: db}
}

func (r *PostgresFeedbackRepository) Create(ctx context.Context, f feedback.Feedback) (feedback.Feedback, error) {
	err := r.db.QueryRow(ctx,
		`INSERT INTO recruiter_feedback (id, recruiter_id, candidate_id, rating, feedback)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`,
		f.ID, f.RecruiterID, f.CandidateID, f.Rating, f.Text,
	).Scan(&f.CreatedAt)
	switch {
	case err == nil:
		return f, nil
	case postgres.IsUniqueViolation(err, ""):
		return feedback.Feedback{}, feedback.ErrAlreadyExists
	case postgres.IsForeignKeyViolation(err):
		return feedback.Feedback{}, candidate.ErrNotFound
	default:
		return feedback.Feedback{}, err
	}
}

func (r *PostgresFeedbackRepository) ListByRecruiter(ctx context.Context, recruiterID uuid.UUID) ([]feedback.Review, error) {
	rows, err := r.db.Query(ctx,
		`SELECT f.id, f.recruiter_id, f.candidate_id, f.rating, f.feedback, f.created_at,
		        COALESCE(NULLIF(cp.full_name, ''), cp.parsed_resume #>> '{contact_info,name}', ''),
		        u.email, cp.ai_ranking, cp.skills
		 FROM recruiter_feedback f
		 JOIN candidate_profiles cp ON cp.id = f.candidate_id
		 JOIN users u ON u.id = cp.user_id
		 WHERE f.recruiter_id = $1
		 ORDER BY f.created_at DESC`,
		recruiterID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]feedback.Review, 0)
	for rows.Next() {
		var rv feedback.Review
		if err := rows.Scan(
			&rv.ID, &rv.RecruiterID, &rv.CandidateID, &rv.Rating, &rv.Text, &rv.CreatedAt,
			&rv.CandidateName, &rv.CandidateEmail, &rv.CandidateRank, &rv.CandidateSkills,
		); err != nil {
			return nil, err
		}
		if rv.CandidateSkills == nil {
			rv.CandidateSkills = []string{}
		}
		out = append(out, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresFeedbackRepository) StatsByRecruiter(ctx context.Context, recruiterID uuid.UUID) (feedback.Stats, error) {
	var s feedback.Stats
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(AVG(rating), 0)::float8 FROM recruiter_feedback WHERE recruiter_id = $1`,
		recruiterID,
	).Scan(&s.Count, &s.AverageRating)
	return s, err
}
