package candidate

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"talent-match/internal/domain/interview"
	"talent-match/internal/domain/resume"
)

var ErrNotFound = errors.New("candidate not found")

// Assessment is the verification result for one candidate. VerifiedSkills maps
// each claimed skill to a confidence in [0,1]; OverallScore is on a 0-10 scale.
type Assessment struct {
	VerifiedSkills map[string]float64 `json:"verified_skills"`
	SkillGaps      []string           `json:"skill_gaps"`
	OverallScore   float64            `json:"overall_score"`
	Summary        string             `json:"summary"`
}

type Profile struct {
	ID     uuid.UUID
	UserID uuid.UUID
	Email  string

	FullName string
	Phone    string

	ResumeURL    *string
	ParsedResume *resume.Parsed
	Skills       []string

	Assessment *Assessment
	// Rank is nil until the candidate has been assessed.
	Rank *float64

	InterviewStatus      interview.Status
	InterviewCompletedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DisplayName prefers the explicit profile name, then the parsed resume name.
func (p Profile) DisplayName() string {
	if p.FullName != "" {
		return p.FullName
	}
	if p.ParsedResume != nil && p.ParsedResume.ContactInfo.Name != "" &&
		p.ParsedResume.ContactInfo.Name != resume.NamePlaceholder {
		return p.ParsedResume.ContactInfo.Name
	}
	return ""
}

func (p Profile) HasResume() bool {
	return p.ParsedResume != nil
}
