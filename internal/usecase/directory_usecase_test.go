package usecase

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"talent-match/internal/domain/candidate"
	"talent-match/internal/export"
)

func newDirectoryFixture() (*memStore, *memCache, *Directory) {
	f := newInterviewFixture()
	uc := NewDirectoryUsecase(f.store, f.uc, f.cache, 80, quietLogger())
	return f.store, f.cache, uc
}

func seedDirectory(store *memStore) {
	store.addCandidate(candidate.Profile{Email: "a@example.com", FullName: "Ada", Skills: []string{"Go", "PostgreSQL"}, Rank: rankPtr(91)})
	store.addCandidate(candidate.Profile{Email: "b@example.com", FullName: "Bo", Skills: []string{"React", "TypeScript"}, Rank: rankPtr(84)})
	store.addCandidate(candidate.Profile{Email: "c@example.com", FullName: "Cy", Skills: []string{"Go", "React"}})
}

func TestDirectory_ListFiltersAndPages(t *testing.T) {
	store, _, uc := newDirectoryFixture()
	seedDirectory(store)
	auth := recruiterAuth()

	all, err := uc.List(context.Background(), auth, CandidateListParams{})
	require.NoError(t, err)
	assert.Equal(t, 3, all.Total)
	assert.Equal(t, DefaultListLimit, all.Limit)
	assert.ElementsMatch(t, []string{"Go", "PostgreSQL", "React", "TypeScript"}, all.SkillOptions)

	both, err := uc.List(context.Background(), auth, CandidateListParams{Skills: []string{"go", "react"}})
	require.NoError(t, err)
	require.Equal(t, 1, both.Total)
	assert.Equal(t, "Cy", both.Items[0].FullName)

	ranked, err := uc.List(context.Background(), auth, CandidateListParams{MinRank: 85})
	require.NoError(t, err)
	require.Equal(t, 1, ranked.Total)
	assert.Equal(t, "Ada", ranked.Items[0].FullName)

	page, err := uc.List(context.Background(), auth, CandidateListParams{Limit: 1, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
	assert.Len(t, page.Items, 1)

	capped, err := uc.List(context.Background(), auth, CandidateListParams{Limit: 1000})
	require.NoError(t, err)
	assert.Equal(t, MaxListLimit, capped.Limit)
}

func TestDirectory_ListUsesCache(t *testing.T) {
	store, cache, uc := newDirectoryFixture()
	seedDirectory(store)
	auth := recruiterAuth()

	_, err := uc.List(context.Background(), auth, CandidateListParams{Search: "ada", Skills: []string{"Go"}})
	require.NoError(t, err)
	_, err = uc.List(context.Background(), auth, CandidateListParams{Search: "  ADA ", Skills: []string{"golang"}})
	require.NoError(t, err)

	assert.Equal(t, 1, store.listCalls)
	assert.Equal(t, 1, cache.len())
}

func TestDirectory_ListValidation(t *testing.T) {
	_, _, uc := newDirectoryFixture()

	_, err := uc.List(context.Background(), recruiterAuth(), CandidateListParams{MinRank: -1})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = uc.List(context.Background(), recruiterAuth(), CandidateListParams{Offset: -5})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = uc.List(context.Background(), candidateAuth(recruiterAuth().UserID), CandidateListParams{})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestDirectory_Get(t *testing.T) {
	store, _, uc := newDirectoryFixture()
	p := store.addCandidate(candidate.Profile{Email: "d@example.com", Rank: rankPtr(90)})

	d, err := uc.Get(context.Background(), recruiterAuth(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, d.Profile.ID)
	assert.Equal(t, p.InterviewStatus, d.Interview.Status)
}

func TestDirectory_ExportWritesFilteredWorkbook(t *testing.T) {
	store, _, uc := newDirectoryFixture()
	seedDirectory(store)

	var buf bytes.Buffer
	require.NoError(t, uc.Export(context.Background(), recruiterAuth(), CandidateListParams{Skills: []string{"Go"}}, &buf))

	wb, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer wb.Close()
	rows, err := wb.GetRows(export.CandidatesSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}
