package feedback

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	MinRating     = 1
	MaxRating     = 5
	DefaultRating = 3
)

var (
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
	ErrEmptyText     = errors.New("feedback text is required")
	ErrAlreadyExists = errors.New("feedback already submitted for this candidate")
)

type Feedback struct {
	ID          uuid.UUID
	RecruiterID uuid.UUID
	CandidateID uuid.UUID
	Rating      int
	Text        string
	CreatedAt   time.Time
}

func ValidRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}

// Review is a feedback row joined with the candidate it is about.
type Review struct {
	Feedback
	CandidateName   string
	CandidateEmail  string
	CandidateRank   *float64
	CandidateSkills []string
}

// Stats summarizes one recruiter's feedback.
type Stats struct {
	Count         int
	AverageRating float64
}
