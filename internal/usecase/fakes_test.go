package usecase

import (
	"context"
	"errors"
	"io"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"talent-match/internal/assessment"
	"talent-match/internal/domain/candidate"
	"talent-match/internal/domain/feedback"
	"talent-match/internal/domain/interview"
	"talent-match/internal/domain/recruiter"
	"talent-match/internal/domain/resume"
	"talent-match/internal/domain/user"
	"talent-match/internal/infrastructure/notify"
	"talent-match/internal/repository"
)

var errStoreDown = errors.New("store down")

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func candidateAuth(userID uuid.UUID) user.AuthContext {
	return user.AuthContext{UserID: userID, Email: "cand@example.com", Role: user.RoleCandidate}
}

func recruiterAuth() user.AuthContext {
	return user.AuthContext{UserID: uuid.New(), Email: "hr@example.com", Role: user.RoleRecruiter}
}

func rankPtr(v float64) *float64 { return &v }

// memStore is an in-memory stand-in for the Postgres repositories. Lifecycle
// transactions run one at a time, which is what the candidate row lock
// guarantees in Postgres, and roll back on error.
type memStore struct {
	txMu sync.Mutex

	mu         sync.Mutex
	candidates map[uuid.UUID]candidate.Profile
	requests   []interview.Request
	recordings []interview.Recording
	chats      map[uuid.UUID]assessment.ChatSession
	feedback   []feedback.Feedback
	recruiters map[uuid.UUID]recruiter.Profile

	listCalls       int
	txCalls         int
	txFailures      []error
	updateResumeErr error
	assessmentErr   error
	countErr        error
}

func newMemStore() *memStore {
	return &memStore{
		candidates: map[uuid.UUID]candidate.Profile{},
		chats:      map[uuid.UUID]assessment.ChatSession{},
		recruiters: map[uuid.UUID]recruiter.Profile{},
	}
}

func (s *memStore) addCandidate(p candidate.Profile) candidate.Profile {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.UserID == uuid.Nil {
		p.UserID = uuid.New()
	}
	if p.InterviewStatus == "" {
		p.InterviewStatus = interview.StatusNone
	}
	if p.Skills == nil {
		p.Skills = []string{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.candidates[p.ID] = p
	return p
}

func (s *memStore) candidate(id uuid.UUID) candidate.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.candidates[id]
}

func (s *memStore) requestsFor(candidateID uuid.UUID) []interview.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []interview.Request
	for _, r := range s.requests {
		if r.CandidateID == candidateID {
			out = append(out, r)
		}
	}
	return out
}

// CandidateRepository

func (s *memStore) GetByUserID(_ context.Context, userID uuid.UUID) (candidate.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.candidates {
		if p.UserID == userID {
			return p, nil
		}
	}
	return candidate.Profile{}, candidate.ErrNotFound
}

func (s *memStore) GetByID(_ context.Context, id uuid.UUID) (candidate.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.candidates[id]
	if !ok {
		return candidate.Profile{}, candidate.ErrNotFound
	}
	return p, nil
}

func (s *memStore) List(context.Context) ([]candidate.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++
	out := make([]candidate.Profile, 0, len(s.candidates))
	for _, p := range s.candidates {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (s *memStore) UpdateContact(ctx context.Context, userID uuid.UUID, fullName, phone string) (candidate.Profile, error) {
	p, err := s.GetByUserID(ctx, userID)
	if err != nil {
		return candidate.Profile{}, err
	}
	p.FullName, p.Phone = fullName, phone
	if p.ParsedResume != nil {
		p.ParsedResume.ContactInfo.Name = fullName
		p.ParsedResume.ContactInfo.Phone = phone
	}
	s.mu.Lock()
	s.candidates[p.ID] = p
	s.mu.Unlock()
	return p, nil
}

func (s *memStore) UpdateResume(ctx context.Context, userID uuid.UUID, url string, parsed resume.Parsed) (candidate.Profile, error) {
	if s.updateResumeErr != nil {
		return candidate.Profile{}, s.updateResumeErr
	}
	p, err := s.GetByUserID(ctx, userID)
	if err != nil {
		return candidate.Profile{}, err
	}
	p.ResumeURL = &url
	p.ParsedResume = &parsed
	p.Skills = append([]string(nil), parsed.Skills...)
	s.mu.Lock()
	s.candidates[p.ID] = p
	s.mu.Unlock()
	return p, nil
}

func (s *memStore) UpdateAssessment(_ context.Context, id uuid.UUID, a candidate.Assessment, rank float64) error {
	if s.assessmentErr != nil {
		return s.assessmentErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.candidates[id]
	if !ok {
		return candidate.ErrNotFound
	}
	p.Assessment = &a
	p.Rank = &rank
	s.candidates[id] = p
	return nil
}

func (s *memStore) Count(context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.countErr != nil {
		return 0, s.countErr
	}
	return len(s.candidates), nil
}

func (s *memStore) CountRankedAtLeast(_ context.Context, min float64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, p := range s.candidates {
		if p.Rank != nil && *p.Rank >= min {
			n++
		}
	}
	return n, nil
}

// InterviewRepository

func (s *memStore) LatestRequest(_ context.Context, candidateID uuid.UUID) (interview.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latestRequestLocked(candidateID)
}

func (s *memStore) latestRequestLocked(candidateID uuid.UUID) (interview.Request, error) {
	for i := len(s.requests) - 1; i >= 0; i-- {
		if s.requests[i].CandidateID == candidateID {
			return s.requests[i], nil
		}
	}
	return interview.Request{}, interview.ErrRequestNotFound
}

func (s *memStore) LatestRecording(_ context.Context, candidateID uuid.UUID) (interview.Recording, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.recordings) - 1; i >= 0; i-- {
		if s.recordings[i].CandidateID == candidateID {
			return s.recordings[i], nil
		}
	}
	return interview.Recording{}, interview.ErrRecordingNotFound
}

// LifecycleStore

func (s *memStore) WithinLifecycleTx(ctx context.Context, fn func(tx repository.LifecycleTx) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	s.txCalls++
	if len(s.txFailures) > 0 {
		err := s.txFailures[0]
		s.txFailures = s.txFailures[1:]
		s.mu.Unlock()
		return err
	}
	candidates := make(map[uuid.UUID]candidate.Profile, len(s.candidates))
	for k, v := range s.candidates {
		candidates[k] = v
	}
	requests := append([]interview.Request(nil), s.requests...)
	recordings := append([]interview.Recording(nil), s.recordings...)
	s.mu.Unlock()

	if err := fn(memTx{s: s}); err != nil {
		s.mu.Lock()
		s.candidates, s.requests, s.recordings = candidates, requests, recordings
		s.mu.Unlock()
		return err
	}
	return nil
}

type memTx struct {
	s *memStore
}

func (t memTx) LockCandidate(ctx context.Context, candidateID uuid.UUID) (candidate.Profile, error) {
	return t.s.GetByID(ctx, candidateID)
}

func (t memTx) SetInterviewStatus(_ context.Context, candidateID uuid.UUID, status interview.Status, completedAt *time.Time) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	p, ok := t.s.candidates[candidateID]
	if !ok {
		return candidate.ErrNotFound
	}
	p.InterviewStatus = status
	if completedAt != nil {
		p.InterviewCompletedAt = completedAt
	}
	t.s.candidates[candidateID] = p
	return nil
}

func (t memTx) CreateRequest(_ context.Context, req interview.Request) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	for _, r := range t.s.requests {
		if r.CandidateID == req.CandidateID && (r.Status == interview.RequestPending || r.Status == interview.RequestScheduled) {
			return interview.ErrOutstanding
		}
	}
	t.s.requests = append(t.s.requests, req)
	return nil
}

func (t memTx) LockLatestRequest(_ context.Context, candidateID uuid.UUID) (interview.Request, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	return t.s.latestRequestLocked(candidateID)
}

func (t memTx) UpdateRequest(_ context.Context, req interview.Request) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	for i := range t.s.requests {
		if t.s.requests[i].ID == req.ID {
			t.s.requests[i] = req
			return nil
		}
	}
	return interview.ErrRequestNotFound
}

func (t memTx) CreateRecording(_ context.Context, rec interview.Recording) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	t.s.recordings = append(t.s.recordings, rec)
	return nil
}

// ChatSessionRepository

type memChats struct{ s *memStore }

func (c memChats) Get(_ context.Context, candidateID uuid.UUID) (assessment.ChatSession, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	cs, ok := c.s.chats[candidateID]
	if !ok {
		return assessment.ChatSession{}, assessment.ErrChatNotFound
	}
	return cs, nil
}

func (c memChats) Save(_ context.Context, candidateID uuid.UUID, cs assessment.ChatSession) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	c.s.chats[candidateID] = cs
	return nil
}

// FeedbackRepository

type memFeedback struct{ s *memStore }

func (f memFeedback) Create(_ context.Context, fb feedback.Feedback) (feedback.Feedback, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	if _, ok := f.s.candidates[fb.CandidateID]; !ok {
		return feedback.Feedback{}, candidate.ErrNotFound
	}
	for _, e := range f.s.feedback {
		if e.RecruiterID == fb.RecruiterID && e.CandidateID == fb.CandidateID {
			return feedback.Feedback{}, feedback.ErrAlreadyExists
		}
	}
	f.s.feedback = append(f.s.feedback, fb)
	return fb, nil
}

func (f memFeedback) ListByRecruiter(_ context.Context, recruiterID uuid.UUID) ([]feedback.Review, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var out []feedback.Review
	for _, e := range f.s.feedback {
		if e.RecruiterID != recruiterID {
			continue
		}
		p := f.s.candidates[e.CandidateID]
		out = append(out, feedback.Review{
			Feedback:        e,
			CandidateName:   p.DisplayName(),
			CandidateEmail:  p.Email,
			CandidateRank:   p.Rank,
			CandidateSkills: p.Skills,
		})
	}
	return out, nil
}

func (f memFeedback) StatsByRecruiter(_ context.Context, recruiterID uuid.UUID) (feedback.Stats, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	var st feedback.Stats
	sum := 0
	for _, e := range f.s.feedback {
		if e.RecruiterID == recruiterID {
			st.Count++
			sum += e.Rating
		}
	}
	if st.Count > 0 {
		st.AverageRating = float64(sum) / float64(st.Count)
	}
	return st, nil
}

// RecruiterProfileRepository

type memRecruiters struct{ s *memStore }

func (r memRecruiters) GetByUserID(_ context.Context, userID uuid.UUID) (recruiter.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.recruiters[userID]
	if !ok {
		return recruiter.Profile{}, recruiter.ErrNotFound
	}
	return p, nil
}

func (r memRecruiters) Upsert(_ context.Context, p recruiter.Profile) (recruiter.Profile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if old, ok := r.s.recruiters[p.UserID]; ok {
		p.ID = old.ID
		p.CreatedAt = old.CreatedAt
	}
	r.s.recruiters[p.UserID] = p
	return p, nil
}

// memCache records keys and supports a trailing-* pattern delete.
type memCache struct {
	mu      sync.Mutex
	data    map[string]any
	deletes int
}

func newMemCache() *memCache { return &memCache{data: map[string]any{}} }

func (c *memCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return false, nil
	}
	if dst, ok := out.(*CandidateList); ok {
		*dst = v.(CandidateList)
		return true, nil
	}
	return false, nil
}

func (c *memCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) DeleteByPattern(_ context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deletes++
	prefix := strings.TrimSuffix(pattern, "*")
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			delete(c.data, k)
		}
	}
	return nil
}

func (c *memCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

// recordingNotifier collects events per user.
type recordingNotifier struct {
	mu     sync.Mutex
	events map[uuid.UUID][]notify.Event
}

func (n *recordingNotifier) Notify(_ context.Context, userID uuid.UUID, evt notify.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.events == nil {
		n.events = map[uuid.UUID][]notify.Event{}
	}
	n.events[userID] = append(n.events[userID], evt)
}

func (n *recordingNotifier) of(userID uuid.UUID) []notify.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notify.Event(nil), n.events[userID]...)
}

type fixedEngine struct {
	a   candidate.Assessment
	err error
}

func (e fixedEngine) Assess(context.Context, resume.Parsed, assessment.Transcript) (candidate.Assessment, error) {
	return e.a, e.err
}

// slowEngine counts calls and holds each one long enough for concurrent
// callers to overlap.
type slowEngine struct {
	inner assessment.Engine
	delay time.Duration

	mu    sync.Mutex
	calls int
}

func (e *slowEngine) Assess(ctx context.Context, r resume.Parsed, t assessment.Transcript) (candidate.Assessment, error) {
	e.mu.Lock()
	e.calls++
	e.mu.Unlock()
	time.Sleep(e.delay)
	return e.inner.Assess(ctx, r, t)
}

func (e *slowEngine) count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}

// heldLocker reports every key as held elsewhere.
type heldLocker struct{}

func (heldLocker) TryLock(context.Context, string, time.Duration) (bool, func(), error) {
	return false, func() {}, nil
}

type memBlobStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
}

func newMemBlobStore() *memBlobStore {
	return &memBlobStore{objects: map[string][]byte{}}
}

func (b *memBlobStore) Put(_ context.Context, key string, r io.Reader, _ string) (string, error) {
	if b.putErr != nil {
		return "", b.putErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[key] = data
	return b.URL(key), nil
}

func (b *memBlobStore) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.objects, key)
	return nil
}

func (b *memBlobStore) URL(key string) string { return "/files/" + key }

func (b *memBlobStore) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.objects)
}
