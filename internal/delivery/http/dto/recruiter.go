package dto

import (
	"time"

	"github.com/google/uuid"

	"talent-match/internal/domain/feedback"
	"talent-match/internal/domain/recruiter"
)

type CandidateDetailResponse struct {
	Candidate CandidateResponse     `json:"candidate"`
	Interview InterviewViewResponse `json:"interview"`
}

type FeedbackRequest struct {
	Rating   *int   `json:"rating"`
	Feedback string `json:"feedback"`
}

type FeedbackResponse struct {
	ID          uuid.UUID `json:"id"`
	CandidateID uuid.UUID `json:"candidate_id"`
	Rating      int       `json:"rating"`
	Feedback    string    `json:"feedback"`
	CreatedAt   time.Time `json:"created_at"`
}

type ReviewResponse struct {
	FeedbackResponse
	CandidateName   string   `json:"candidate_name"`
	CandidateEmail  string   `json:"candidate_email"`
	CandidateRank   *float64 `json:"candidate_ai_ranking"`
	CandidateSkills []string `json:"candidate_skills"`
}

type RecruiterProfileRequest struct {
	FullName          string `json:"full_name"`
	Company           string `json:"company"`
	Position          string `json:"position"`
	NotificationEmail *bool  `json:"notification_email"`
	NotificationApp   *bool  `json:"notification_app"`
}

type RecruiterProfileResponse struct {
	UserID            uuid.UUID `json:"user_id"`
	FullName          string    `json:"full_name"`
	Company           string    `json:"company"`
	Position          string    `json:"position"`
	NotificationEmail bool      `json:"notification_email"`
	NotificationApp   bool      `json:"notification_app"`
}

func NewFeedbackResponse(f feedback.Feedback) FeedbackResponse {
	return FeedbackResponse{
		ID:          f.ID,
		CandidateID: f.CandidateID,
		Rating:      f.Rating,
		Feedback:    f.Text,
		CreatedAt:   f.CreatedAt,
	}
}

func NewReviewResponses(rs []feedback.Review) []ReviewResponse {
	out := make([]ReviewResponse, 0, len(rs))
	for _, r := range rs {
		out = append(out, ReviewResponse{
			FeedbackResponse: NewFeedbackResponse(r.Feedback),
			CandidateName:    r.CandidateName,
			CandidateEmail:   r.CandidateEmail,
			CandidateRank:    r.CandidateRank,
			CandidateSkills:  r.CandidateSkills,
		})
	}
	return out
}

func NewRecruiterProfileResponse(p recruiter.Profile) RecruiterProfileResponse {
	return RecruiterProfileResponse{
		UserID:            p.UserID,
		FullName:          p.FullName,
		Company:           p.Company,
		Position:          p.Position,
		NotificationEmail: p.NotificationEmail,
		NotificationApp:   p.NotificationApp,
	}
}
