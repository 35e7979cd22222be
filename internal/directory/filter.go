// Package directory filters and orders candidate profiles for recruiters.
// Everything here is pure and safe for concurrent use.
package directory

import (
	"sort"
	"strings"

	"talent-match/internal/domain/candidate"
	"talent-match/internal/search"
)

// Criteria composes with AND. A zero Criteria matches every profile.
//
// MinRank <= 0 disables the rank predicate. With MinRank > 0, profiles that
// have no rank never match.
type Criteria struct {
	Search  string
	MinRank float64
	Skills  []string
}

// Normalize trims the search text and canonicalizes and dedupes the skills.
func (c Criteria) Normalize() Criteria {
	return Criteria{
		Search:  strings.TrimSpace(c.Search),
		MinRank: c.MinRank,
		Skills:  search.DedupSkills(c.Skills),
	}
}

// Filter returns the matching profiles in directory order. The input slice
// is not modified.
func Filter(profiles []candidate.Profile, c Criteria) []candidate.Profile {
	c = c.Normalize()
	out := make([]candidate.Profile, 0, len(profiles))
	for _, p := range profiles {
		if Matches(p, c) {
			out = append(out, p)
		}
	}
	Sort(out)
	return out
}

func Matches(p candidate.Profile, c Criteria) bool {
	return matchesSearch(p, c.Search) && matchesRank(p, c.MinRank) && matchesSkills(p, c.Skills)
}

// matchesSearch is a case-insensitive substring test against the display
// name and each skill. Aliases apply to the skills predicate only.
func matchesSearch(p candidate.Profile, q string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(p.DisplayName()), q) {
		return true
	}
	for _, s := range p.Skills {
		if strings.Contains(strings.ToLower(s), q) {
			return true
		}
	}
	return false
}

func matchesRank(p candidate.Profile, min float64) bool {
	if min <= 0 {
		return true
	}
	return p.Rank != nil && *p.Rank >= min
}

func matchesSkills(p candidate.Profile, required []string) bool {
	for _, want := range required {
		found := false
		for _, have := range p.Skills {
			if search.SameSkill(have, want) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Sort orders by rank descending with unranked profiles last. Ties fall back
// to display name, then id, so the order is total.
func Sort(ps []candidate.Profile) {
	sort.SliceStable(ps, func(i, j int) bool {
		a, b := ps[i], ps[j]
		switch {
		case a.Rank != nil && b.Rank == nil:
			return true
		case a.Rank == nil && b.Rank != nil:
			return false
		case a.Rank != nil && b.Rank != nil && *a.Rank != *b.Rank:
			return *a.Rank > *b.Rank
		}
		an, bn := strings.ToLower(a.DisplayName()), strings.ToLower(b.DisplayName())
		if an != bn {
			return an < bn
		}
		return a.ID.String() < b.ID.String()
	})
}

// AllSkills lists the distinct skills across profiles, sorted, for building
// filter options.
func AllSkills(ps []candidate.Profile) []string {
	var all []string
	for _, p := range ps {
		all = append(all, p.Skills...)
	}
	out := search.DedupSkills(all)
	sort.Slice(out, func(i, j int) bool { return strings.ToLower(out[i]) < strings.ToLower(out[j]) })
	return out
}

// Page slices an ordered result. Out-of-range offsets yield an empty page.
func Page(ps []candidate.Profile, limit, offset int) []candidate.Profile {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(ps) {
		return []candidate.Profile{}
	}
	end := len(ps)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return ps[offset:end]
}
