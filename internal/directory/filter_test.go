package directory

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talent-match/internal/domain/candidate"
)

func rank(v float64) *float64 { return &v }

func profile(name string, r *float64, skills ...string) candidate.Profile {
	return candidate.Profile{ID: uuid.New(), FullName: name, Rank: r, Skills: skills}
}

func names(ps []candidate.Profile) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.FullName
	}
	return out
}

func fixture() []candidate.Profile {
	return []candidate.Profile{
		profile("Alice", rank(91), "Go", "PostgreSQL", "Docker"),
		profile("Bob", nil, "React", "CSS"),
		profile("Carol", rank(84.5), "React", "TypeScript", "Go"),
		profile("Dan", rank(80), "Go"),
		profile("Erin", rank(97.2), "Python", "Docker"),
		profile("Frank", nil, "Go", "Docker"),
	}
}

func TestFilter_ZeroCriteriaSortsByRank(t *testing.T) {
	got := Filter(fixture(), Criteria{})
	assert.Equal(t, []string{"Erin", "Alice", "Carol", "Dan", "Bob", "Frank"}, names(got))
}

func TestFilter_SkillsAreAND(t *testing.T) {
	got := Filter(fixture(), Criteria{Skills: []string{"Go", "Docker"}})
	assert.Equal(t, []string{"Alice", "Frank"}, names(got))

	for _, p := range got {
		assert.Subset(t, p.Skills, []string{"Go", "Docker"})
	}
}

func TestFilter_SkillsCaseAndAliasInsensitive(t *testing.T) {
	got := Filter(fixture(), Criteria{Skills: []string{"golang", "postgres"}})
	assert.Equal(t, []string{"Alice"}, names(got))

	got = Filter(fixture(), Criteria{Skills: []string{"REACT"}})
	assert.Equal(t, []string{"Carol", "Bob"}, names(got))
}

func TestFilter_MinRankDropsUnranked(t *testing.T) {
	got := Filter(fixture(), Criteria{MinRank: 84.5})
	assert.Equal(t, []string{"Erin", "Alice", "Carol"}, names(got))

	got = Filter(fixture(), Criteria{MinRank: 0.1})
	assert.NotContains(t, names(got), "Bob")
	assert.NotContains(t, names(got), "Frank")
}

func TestFilter_SearchNameOrSkill(t *testing.T) {
	assert.Equal(t, []string{"Carol"}, names(Filter(fixture(), Criteria{Search: "car"})))
	assert.Equal(t, []string{"Erin"}, names(Filter(fixture(), Criteria{Search: "PYTH"})))
	assert.Equal(t, []string{"Carol", "Bob"}, names(Filter(fixture(), Criteria{Search: "react"})))
	assert.Empty(t, Filter(fixture(), Criteria{Search: "haskell"}))
}

func TestFilter_SearchMatchesSkillWithoutName(t *testing.T) {
	p := profile("", rank(88), "Go")
	got := Filter([]candidate.Profile{p}, Criteria{Search: "go"})
	require.Len(t, got, 1)
}

func TestFilter_Composed(t *testing.T) {
	got := Filter(fixture(), Criteria{Search: "o", MinRank: 81, Skills: []string{"Go"}})
	// Alice (name has no o but skill Go does), Carol (Go skill); Dan is below 81.
	assert.Equal(t, []string{"Alice", "Carol"}, names(got))
}

func TestFilter_Idempotent(t *testing.T) {
	cases := []Criteria{
		{},
		{Search: "go"},
		{MinRank: 85},
		{Skills: []string{"Go", "Docker"}},
		{Search: "a", MinRank: 80, Skills: []string{"go"}},
	}
	for _, c := range cases {
		once := Filter(fixture(), c)
		twice := Filter(once, c)
		assert.Equal(t, once, twice, "criteria=%+v", c)
	}
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	in := fixture()
	before := names(in)
	_ = Filter(in, Criteria{MinRank: 1})
	assert.Equal(t, before, names(in))
}

func TestFilter_ConcurrentUse(t *testing.T) {
	in := fixture()
	want := names(Filter(in, Criteria{Skills: []string{"Go"}}))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want, names(Filter(in, Criteria{Skills: []string{"Go"}})))
		}()
	}
	wg.Wait()
}

func TestSort_TiesByNameThenID(t *testing.T) {
	a := profile("zed", rank(90))
	b := profile("Amy", rank(90))
	ps := []candidate.Profile{a, b}
	Sort(ps)
	assert.Equal(t, []string{"Amy", "zed"}, names(ps))
}

func TestPage(t *testing.T) {
	ps := Filter(fixture(), Criteria{})
	assert.Equal(t, []string{"Erin", "Alice"}, names(Page(ps, 2, 0)))
	assert.Equal(t, []string{"Frank"}, names(Page(ps, 2, 5)))
	assert.Empty(t, Page(ps, 2, 6))
	assert.Len(t, Page(ps, 0, 0), 6)
}

func TestAllSkills(t *testing.T) {
	assert.Equal(t,
		[]string{"CSS", "Docker", "Go", "PostgreSQL", "Python", "React", "TypeScript"},
		AllSkills(fixture()),
	)
}

func TestFilter_SearchDoesNotExpandAliases(t *testing.T) {
	p := profile("Gina", nil, "JavaScript")
	assert.Empty(t, Filter([]candidate.Profile{p}, Criteria{Search: "js"}))
	assert.Len(t, Filter([]candidate.Profile{p}, Criteria{Search: "java"}), 1)
	assert.Len(t, Filter([]candidate.Profile{p}, Criteria{Skills: []string{"js"}}), 1)
}
