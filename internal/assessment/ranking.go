package assessment

import (
	"math"

	"talent-match/internal/domain/candidate"
)

const (
	RankFloor   = 80.0
	RankCeiling = 100.0

	weightOverall  = 0.6
	weightVerified = 0.3
	weightGaps     = 0.1
	gapPenalty     = 0.1
)

// Rank reduces an assessment to a score on the 0-100 scale. The result is
// clamped to [RankFloor, RankCeiling] and rounded to one decimal.
func Rank(a candidate.Assessment) float64 {
	verified := 0.0
	if n := len(a.VerifiedSkills); n > 0 {
		sum := 0.0
		for _, c := range a.VerifiedSkills {
			sum += c
		}
		verified = sum / float64(n)
	}
	penalty := float64(len(a.SkillGaps)) * gapPenalty

	raw := a.OverallScore*weightOverall + verified*weightVerified - penalty*weightGaps
	score := raw * 10
	if math.IsNaN(score) {
		score = RankFloor
	}
	score = math.Min(math.Max(score, RankFloor), RankCeiling)
	return round1(score)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
