package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"talent-match/internal/directory"
)

// Cache is the JSON cache usecases read through. A miss is (false, nil).
type Cache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// Locker hands out short-lived advisory locks. release is never nil.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (ok bool, release func(), err error)
}

const (
	candidateSearchPrefix  = "candidates:search:"
	candidateSearchPattern = candidateSearchPrefix + "*"
)

type candidateSearchKeyInput struct {
	Search  string   `json:"search"`
	MinRank float64  `json:"min_rank"`
	Skills  []string `json:"skills"`
	Limit   int      `json:"limit"`
	Offset  int      `json:"offset"`
}

func normalizeSearchValue(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return strings.Join(strings.Fields(s), " ")
}

// CandidateSearchCacheKey is stable across equivalent criteria: case,
// whitespace, skill aliases and skill order do not change it.
func CandidateSearchCacheKey(c directory.Criteria, limit, offset int) string {
	c = c.Normalize()
	skills := make([]string, 0, len(c.Skills))
	for _, s := range c.Skills {
		skills = append(skills, strings.ToLower(s))
	}
	sort.Strings(skills)

	in := candidateSearchKeyInput{
		Search:  normalizeSearchValue(c.Search),
		MinRank: c.MinRank,
		Skills:  skills,
		Limit:   limit,
		Offset:  offset,
	}
	b, _ := json.Marshal(in)
	sum := sha256.Sum256(b)
	return candidateSearchPrefix + hex.EncodeToString(sum[:])
}

func chatAnswerLockKey(candidateID uuid.UUID) string {
	return "chat:answer:lock:" + candidateID.String()
}

func inviteLockKey(candidateID uuid.UUID) string {
	return "interview:invite:lock:" + candidateID.String()
}

// noopCache stands in when no cache is configured.
type noopCache struct{}

func (noopCache) GetJSON(context.Context, string, any) (bool, error)        { return false, nil }
func (noopCache) SetJSON(context.Context, string, any, time.Duration) error { return nil }
func (noopCache) Delete(context.Context, string) error                      { return nil }
func (noopCache) DeleteByPattern(context.Context, string) error             { return nil }

func (noopCache) TryLock(context.Context, string, time.Duration) (bool, func(), error) {
	return true, func() {}, nil
}
