package dto

import (
	"time"

	"github.com/google/uuid"

	"talent-match/internal/domain/candidate"
	"talent-match/internal/domain/interview"
	"talent-match/internal/domain/resume"
)

type CandidateResponse struct {
	ID                   uuid.UUID             `json:"id"`
	UserID               uuid.UUID             `json:"user_id"`
	Email                string                `json:"email"`
	FullName             string                `json:"full_name"`
	Phone                string                `json:"phone"`
	ResumeURL            *string               `json:"resume_url"`
	ParsedResume         *resume.Parsed        `json:"parsed_resume"`
	Skills               []string              `json:"skills"`
	Assessment           *candidate.Assessment `json:"assessment"`
	Rank                 *float64              `json:"ai_ranking"`
	InterviewStatus      interview.Status      `json:"interview_status"`
	InterviewCompletedAt *time.Time            `json:"interview_completed_at"`
	CreatedAt            time.Time             `json:"created_at"`
	UpdatedAt            time.Time             `json:"updated_at"`
}

// CandidateSummary is the list row shown to recruiters.
type CandidateSummary struct {
	ID              uuid.UUID        `json:"id"`
	Name            string           `json:"name"`
	Email           string           `json:"email"`
	Skills          []string         `json:"skills"`
	Rank            *float64         `json:"ai_ranking"`
	InterviewStatus interview.Status `json:"interview_status"`
	HasResume       bool             `json:"has_resume"`
}

type CandidateListResponse struct {
	Items        []CandidateSummary `json:"items"`
	SkillOptions []string           `json:"skill_options"`
}

type UpdateCandidateRequest struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
}

func NewCandidateResponse(p candidate.Profile) CandidateResponse {
	skills := p.Skills
	if skills == nil {
		skills = []string{}
	}
	return CandidateResponse{
		ID:                   p.ID,
		UserID:               p.UserID,
		Email:                p.Email,
		FullName:             p.DisplayName(),
		Phone:                p.Phone,
		ResumeURL:            p.ResumeURL,
		ParsedResume:         p.ParsedResume,
		Skills:               skills,
		Assessment:           p.Assessment,
		Rank:                 p.Rank,
		InterviewStatus:      p.InterviewStatus,
		InterviewCompletedAt: p.InterviewCompletedAt,
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
}

func NewCandidateSummaries(ps []candidate.Profile) []CandidateSummary {
	out := make([]CandidateSummary, 0, len(ps))
	for _, p := range ps {
		skills := p.Skills
		if skills == nil {
			skills = []string{}
		}
		out = append(out, CandidateSummary{
			ID:              p.ID,
			Name:            p.DisplayName(),
			Email:           p.Email,
			Skills:          skills,
			Rank:            p.Rank,
			InterviewStatus: p.InterviewStatus,
			HasResume:       p.HasResume(),
		})
	}
	return out
}
