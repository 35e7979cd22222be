package assessment

import (
	"context"
	"math/rand"
	"sync"

	"talent-match/internal/domain/candidate"
	"talent-match/internal/domain/resume"
)

// Engine scores a candidate from their resume and finished chat transcript.
// Implementations must return a verified-skill entry for every skill in
// SkillsOf(resume).
type Engine interface {
	Assess(ctx context.Context, r resume.Parsed, t Transcript) (candidate.Assessment, error)
}

const (
	MinConfidence   = 0.80
	MaxConfidence   = 0.98
	MinOverallScore = 8.5
	MaxOverallScore = 10.0
)

var DefaultSkillGaps = []string{
	"Docker containerization experience",
	"Cloud deployment (AWS/Azure)",
	"Testing frameworks (Jest/Mocha)",
}

const DefaultSummary = "The candidate demonstrates strong frontend development skills, particularly in React and JavaScript. " +
	"They have good experience with modern web development practices and some backend exposure. " +
	"Areas for improvement include containerization technologies, cloud services, and automated testing frameworks."

// MockEngine produces randomized results within the documented bounds. It is
// safe for concurrent use.
type MockEngine struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewMockEngine(seed int64) *MockEngine {
	return &MockEngine{rnd: rand.New(rand.NewSource(seed))}
}

func (m *MockEngine) Assess(ctx context.Context, r resume.Parsed, _ Transcript) (candidate.Assessment, error) {
	if err := ctx.Err(); err != nil {
		return candidate.Assessment{}, err
	}

	skills := SkillsOf(r)

	m.mu.Lock()
	defer m.mu.Unlock()

	verified := make(map[string]float64, len(skills))
	for _, s := range skills {
		verified[s] = clamp(round2(m.rnd.Float64()*0.18+MinConfidence), MinConfidence, MaxConfidence)
	}

	return candidate.Assessment{
		VerifiedSkills: verified,
		SkillGaps:      append([]string(nil), DefaultSkillGaps...),
		OverallScore:   clamp(round1(m.rnd.Float64()*1.5+MinOverallScore), MinOverallScore, MaxOverallScore),
		Summary:        DefaultSummary,
	}, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
