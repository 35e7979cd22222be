package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talent-match/internal/domain/candidate"
	"talent-match/internal/domain/interview"
	"talent-match/internal/infrastructure/notify"
	"talent-match/internal/pkg/retry"
)

type interviewFixture struct {
	store    *memStore
	cache    *memCache
	notifier *recordingNotifier
	uc       *Interview
}

func newInterviewFixture() interviewFixture {
	store := newMemStore()
	cache := newMemCache()
	n := &recordingNotifier{}
	uc := NewInterviewUsecase(InterviewDeps{
		Candidates: store,
		Interviews: store,
		Store:      store,
		Cache:      cache,
		Notifier:   n,
		Threshold:  80,
		Retry:      retry.Policy{Attempts: 3, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond},
		Logger:     quietLogger(),
	})
	return interviewFixture{store: store, cache: cache, notifier: n, uc: uc}
}

func (f interviewFixture) ranked(rank float64) candidate.Profile {
	return f.store.addCandidate(candidate.Profile{Email: uuid.NewString() + "@example.com", Rank: rankPtr(rank)})
}

func TestInterview_InviteThresholdBoundary(t *testing.T) {
	f := newInterviewFixture()
	below := f.ranked(79.9)
	at := f.ranked(80.0)

	_, invited, err := f.uc.InviteIfQualified(context.Background(), below.ID)
	require.NoError(t, err)
	assert.False(t, invited)
	assert.Equal(t, interview.StatusNone, f.store.candidate(below.ID).InterviewStatus)
	assert.Empty(t, f.store.requestsFor(below.ID))

	req, invited, err := f.uc.InviteIfQualified(context.Background(), at.ID)
	require.NoError(t, err)
	assert.True(t, invited)
	assert.Equal(t, interview.StatusInvited, f.store.candidate(at.ID).InterviewStatus)
	assert.Equal(t, interview.RequestPending, req.Status)
	assert.Equal(t, interview.DefaultSlots, req.AvailableSlots)
	require.Len(t, f.store.requestsFor(at.ID), 1)

	events := f.notifier.of(at.UserID)
	require.Len(t, events, 1)
	assert.Equal(t, notify.EventInterviewInvited, events[0].Type)
}

func TestInterview_UnrankedCandidateIsNotInvited(t *testing.T) {
	f := newInterviewFixture()
	p := f.store.addCandidate(candidate.Profile{Email: "new@example.com"})

	_, err := f.uc.Invite(context.Background(), recruiterAuth(), p.ID)
	assert.ErrorIs(t, err, ErrNotQualified)
	assert.Empty(t, f.store.requestsFor(p.ID))
}

func TestInterview_InviteRequiresRecruiter(t *testing.T) {
	f := newInterviewFixture()
	p := f.ranked(95)

	_, err := f.uc.Invite(context.Background(), candidateAuth(p.UserID), p.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.uc.Invite(context.Background(), recruiterAuth(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInterview_ConcurrentInvitesCreateOneRequest(t *testing.T) {
	f := newInterviewFixture()
	p := f.ranked(92.5)

	const callers = 16
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
		errs    []error
	)
	start := make(chan struct{})
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			var err error
			if i%2 == 0 {
				_, err = f.uc.Invite(context.Background(), recruiterAuth(), p.ID)
			} else {
				var invited bool
				_, invited, err = f.uc.InviteIfQualified(context.Background(), p.ID)
				if err == nil && !invited {
					err = ErrAlreadyInvited
				}
			}
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				success++
			} else {
				errs = append(errs, err)
			}
		}(i)
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, success)
	for _, err := range errs {
		assert.ErrorIs(t, err, ErrAlreadyInvited)
	}
	assert.Len(t, f.store.requestsFor(p.ID), 1)
	assert.Equal(t, interview.StatusInvited, f.store.candidate(p.ID).InterviewStatus)
	assert.Len(t, f.notifier.of(p.UserID), 1)
}

func TestInterview_SecondInviteRejected(t *testing.T) {
	f := newInterviewFixture()
	p := f.ranked(88)

	_, err := f.uc.Invite(context.Background(), recruiterAuth(), p.ID)
	require.NoError(t, err)
	_, err = f.uc.Invite(context.Background(), recruiterAuth(), p.ID)
	assert.ErrorIs(t, err, ErrAlreadyInvited)
}

func TestInterview_ScheduleRejectsUnknownSlot(t *testing.T) {
	f := newInterviewFixture()
	p := f.ranked(90)
	auth := candidateAuth(p.UserID)
	_, err := f.uc.Invite(context.Background(), recruiterAuth(), p.ID)
	require.NoError(t, err)

	_, err = f.uc.Schedule(context.Background(), auth, "2025-05-15", "11:11 AM")
	assert.ErrorIs(t, err, ErrSlotUnavailable)
	_, err = f.uc.Schedule(context.Background(), auth, "2030-01-01", "10:00 AM")
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	assert.Equal(t, interview.StatusInvited, f.store.candidate(p.ID).InterviewStatus)
	reqs := f.store.requestsFor(p.ID)
	require.Len(t, reqs, 1)
	assert.Equal(t, interview.RequestPending, reqs[0].Status)
	assert.Nil(t, reqs[0].SelectedDate)

	req, err := f.uc.Schedule(context.Background(), auth, "2025-05-15", "1:00 PM")
	require.NoError(t, err)
	assert.Equal(t, interview.RequestScheduled, req.Status)
	assert.Equal(t, "2025-05-15", *req.SelectedDate)
	assert.Equal(t, "1:00 PM", *req.SelectedTime)
	assert.Equal(t, interview.StatusScheduled, f.store.candidate(p.ID).InterviewStatus)

	_, err = f.uc.Schedule(context.Background(), auth, "2025-05-16", "9:30 AM")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestInterview_ScheduleWithoutInvitation(t *testing.T) {
	f := newInterviewFixture()
	p := f.ranked(90)

	_, err := f.uc.Schedule(context.Background(), candidateAuth(p.UserID), "2025-05-15", "10:00 AM")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestInterview_CompleteRequiresScheduled(t *testing.T) {
	f := newInterviewFixture()
	p := f.ranked(90)
	auth := candidateAuth(p.UserID)
	transcript := []interview.TranscriptEntry{{Type: interview.EntryAnswer, Text: "hello"}}

	_, err := f.uc.Complete(context.Background(), p.ID, uuid.New(), "/files/x.webm", transcript)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	req, err := f.uc.Invite(context.Background(), recruiterAuth(), p.ID)
	require.NoError(t, err)
	_, err = f.uc.Complete(context.Background(), p.ID, req.ID, "/files/x.webm", transcript)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, interview.StatusInvited, f.store.candidate(p.ID).InterviewStatus)

	_, err = f.uc.Schedule(context.Background(), auth, "2025-05-17", "4:00 PM")
	require.NoError(t, err)

	_, err = f.uc.Complete(context.Background(), p.ID, uuid.New(), "/files/x.webm", transcript)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	rec, err := f.uc.Complete(context.Background(), p.ID, req.ID, "/files/x.webm", transcript)
	require.NoError(t, err)
	assert.Equal(t, req.ID, rec.InterviewRequestID)

	got := f.store.candidate(p.ID)
	assert.Equal(t, interview.StatusCompleted, got.InterviewStatus)
	require.NotNil(t, got.InterviewCompletedAt)

	_, err = f.uc.Complete(context.Background(), p.ID, req.ID, "/files/y.webm", transcript)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	view, err := f.uc.ForCandidate(context.Background(), recruiterAuth(), p.ID)
	require.NoError(t, err)
	require.NotNil(t, view.Recording)
	assert.Equal(t, "/files/x.webm", view.Recording.RecordingURL)

	events := f.notifier.of(p.UserID)
	require.Len(t, events, 3)
	assert.Equal(t, notify.EventInterviewCompleted, events[2].Type)
}

func TestInterview_RetriesTransientStoreErrors(t *testing.T) {
	f := newInterviewFixture()
	p := f.ranked(90)
	f.store.txFailures = []error{&pgconn.PgError{Code: "40001"}}

	_, err := f.uc.Invite(context.Background(), recruiterAuth(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, f.store.txCalls)
}

func TestInterview_PermanentStoreErrorIsInternal(t *testing.T) {
	f := newInterviewFixture()
	p := f.ranked(90)
	f.store.txFailures = []error{errStoreDown}

	_, err := f.uc.Invite(context.Background(), recruiterAuth(), p.ID)
	assert.ErrorIs(t, err, ErrInternal)
	assert.Equal(t, 1, f.store.txCalls)
	assert.Equal(t, interview.StatusNone, f.store.candidate(p.ID).InterviewStatus)
}

func TestInterview_MineShowsQuestionsOnceScheduled(t *testing.T) {
	f := newInterviewFixture()
	p := f.ranked(90)
	auth := candidateAuth(p.UserID)

	v, err := f.uc.Mine(context.Background(), auth)
	require.NoError(t, err)
	assert.Equal(t, interview.StatusNone, v.Status)
	assert.Nil(t, v.Request)

	_, err = f.uc.Invite(context.Background(), recruiterAuth(), p.ID)
	require.NoError(t, err)
	v, err = f.uc.Mine(context.Background(), auth)
	require.NoError(t, err)
	require.NotNil(t, v.Request)
	assert.Empty(t, v.Questions)

	_, err = f.uc.Schedule(context.Background(), auth, "2025-05-16", "2:00 PM")
	require.NoError(t, err)
	v, err = f.uc.Mine(context.Background(), auth)
	require.NoError(t, err)
	assert.Equal(t, interview.VideoQuestions, v.Questions)
}

func TestInterview_TransitionsInvalidateDirectoryCache(t *testing.T) {
	f := newInterviewFixture()
	p := f.ranked(90)
	require.NoError(t, f.cache.SetJSON(context.Background(), candidateSearchPrefix+"abc", CandidateList{}, 0))

	_, err := f.uc.Invite(context.Background(), recruiterAuth(), p.ID)
	require.NoError(t, err)
	assert.Zero(t, f.cache.len())
}
