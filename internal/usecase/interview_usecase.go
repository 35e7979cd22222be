package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"talent-match/internal/database/postgres"
	"talent-match/internal/domain/candidate"
	"talent-match/internal/domain/interview"
	"talent-match/internal/domain/user"
	"talent-match/internal/infrastructure/notify"
	"talent-match/internal/pkg/retry"
	"talent-match/internal/repository"
)

// InterviewView is what a candidate or recruiter sees of the interview state.
type InterviewView struct {
	Status    interview.Status
	Request   *interview.Request
	Recording *interview.Recording
	Questions []string
}

type InterviewUsecase interface {
	// InviteIfQualified invites when the stored rank meets the threshold.
	// It reports false without error when the candidate does not qualify or
	// already holds an invitation.
	InviteIfQualified(ctx context.Context, candidateID uuid.UUID) (interview.Request, bool, error)
	Invite(ctx context.Context, auth user.AuthContext, candidateID uuid.UUID) (interview.Request, error)
	Schedule(ctx context.Context, auth user.AuthContext, date, at string) (interview.Request, error)
	Complete(ctx context.Context, candidateID, requestID uuid.UUID, recordingURL string, transcript []interview.TranscriptEntry) (interview.Recording, error)
	Mine(ctx context.Context, auth user.AuthContext) (InterviewView, error)
	ForCandidate(ctx context.Context, auth user.AuthContext, candidateID uuid.UUID) (InterviewView, error)
}

type InterviewDeps struct {
	Candidates repository.CandidateRepository
	Interviews repository.InterviewRepository
	Store      repository.LifecycleStore
	Locker     Locker
	Cache      Cache
	Notifier   notify.Notifier
	Slots      interview.Slots
	Threshold  float64
	Retry      retry.Policy
	Logger     *log.Logger
}

type Interview struct {
	candidates repository.CandidateRepository
	interviews repository.InterviewRepository
	store      repository.LifecycleStore
	locker     Locker
	cache      Cache
	notifier   notify.Notifier
	slots      interview.Slots
	threshold  float64
	retry      retry.Policy
	logger     *log.Logger
	now        func() time.Time
}

func NewInterviewUsecase(d InterviewDeps) *Interview {
	u := &Interview{
		candidates: d.Candidates,
		interviews: d.Interviews,
		store:      d.Store,
		locker:     d.Locker,
		cache:      d.Cache,
		notifier:   d.Notifier,
		slots:      d.Slots,
		threshold:  d.Threshold,
		retry:      d.Retry,
		logger:     d.Logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
	if u.locker == nil {
		u.locker = noopCache{}
	}
	if u.cache == nil {
		u.cache = noopCache{}
	}
	if u.notifier == nil {
		u.notifier = notify.Nop{}
	}
	if len(u.slots) == 0 {
		u.slots = interview.DefaultSlots
	}
	if u.retry.Attempts == 0 {
		u.retry = retry.DefaultPolicy
	}
	if u.logger == nil {
		u.logger = log.Default()
	}
	return u
}

func (u *Interview) InviteIfQualified(ctx context.Context, candidateID uuid.UUID) (interview.Request, bool, error) {
	req, err := u.invite(ctx, candidateID)
	switch {
	case err == nil:
		return req, true, nil
	case errors.Is(err, ErrNotQualified), errors.Is(err, ErrAlreadyInvited):
		return interview.Request{}, false, nil
	default:
		return interview.Request{}, false, err
	}
}

func (u *Interview) Invite(ctx context.Context, auth user.AuthContext, candidateID uuid.UUID) (interview.Request, error) {
	if !auth.IsRecruiter() {
		return interview.Request{}, ErrForbidden
	}
	return u.invite(ctx, candidateID)
}

// invite moves none -> invited and creates the interview request in one
// transaction. The candidate row lock serializes concurrent invites; the
// outstanding-request index backs it up.
func (u *Interview) invite(ctx context.Context, candidateID uuid.UUID) (interview.Request, error) {
	ok, release, _ := u.locker.TryLock(ctx, inviteLockKey(candidateID), 15*time.Second)
	if !ok {
		u.logger.Printf("level=info msg=interview_invite candidate_id=%s status=locked", candidateID)
		return interview.Request{}, ErrAlreadyInvited
	}
	defer release()

	var (
		req    interview.Request
		userID uuid.UUID
	)
	err := u.transition(ctx, func(tx repository.LifecycleTx) error {
		p, err := tx.LockCandidate(ctx, candidateID)
		if err != nil {
			return err
		}
		if p.Rank == nil || *p.Rank < u.threshold {
			return ErrNotQualified
		}
		if p.InterviewStatus != interview.StatusNone {
			return ErrAlreadyInvited
		}
		if err := interview.Transition(p.InterviewStatus, interview.StatusInvited); err != nil {
			return err
		}

		now := u.now()
		req = interview.Request{
			ID:             uuid.New(),
			CandidateID:    p.ID,
			Status:         interview.RequestPending,
			AvailableSlots: u.slots.Clone(),
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := tx.CreateRequest(ctx, req); err != nil {
			if errors.Is(err, interview.ErrOutstanding) {
				return ErrAlreadyInvited
			}
			return err
		}
		if err := tx.SetInterviewStatus(ctx, p.ID, interview.StatusInvited, nil); err != nil {
			return err
		}
		userID = p.UserID
		return nil
	})
	if err != nil {
		return interview.Request{}, u.lifecycleError("interview_invite", candidateID, err)
	}

	u.invalidate(ctx)
	u.logger.Printf("level=info msg=interview_invite candidate_id=%s request_id=%s status=ok", candidateID, req.ID)
	u.notifier.Notify(ctx, userID, notify.Event{
		Type:    notify.EventInterviewInvited,
		Message: "You have been invited to a video interview. Pick a time slot to continue.",
		Data:    map[string]any{"request_id": req.ID, "available_slots": req.AvailableSlots},
	})
	return req, nil
}

func (u *Interview) Schedule(ctx context.Context, auth user.AuthContext, date, at string) (interview.Request, error) {
	if !auth.IsCandidate() {
		return interview.Request{}, ErrForbidden
	}
	p, err := u.candidates.GetByUserID(ctx, auth.UserID)
	if err != nil {
		return interview.Request{}, mapCandidateErr(err)
	}

	var req interview.Request
	err = u.transition(ctx, func(tx repository.LifecycleTx) error {
		locked, err := tx.LockCandidate(ctx, p.ID)
		if err != nil {
			return err
		}
		if err := interview.Transition(locked.InterviewStatus, interview.StatusScheduled); err != nil {
			return err
		}
		req, err = tx.LockLatestRequest(ctx, p.ID)
		if err != nil {
			return err
		}
		if err := req.Schedule(date, at, u.now()); err != nil {
			if errors.Is(err, interview.ErrNotPending) {
				return interview.ErrInvalidTransition
			}
			return err
		}
		if err := tx.UpdateRequest(ctx, req); err != nil {
			return err
		}
		return tx.SetInterviewStatus(ctx, p.ID, interview.StatusScheduled, nil)
	})
	if err != nil {
		return interview.Request{}, u.lifecycleError("interview_schedule", p.ID, err)
	}

	u.invalidate(ctx)
	u.logger.Printf("level=info msg=interview_schedule candidate_id=%s date=%q time=%q status=ok", p.ID, *req.SelectedDate, *req.SelectedTime)
	u.notifier.Notify(ctx, p.UserID, notify.Event{
		Type:    notify.EventInterviewScheduled,
		Message: "Your interview is scheduled.",
		Data:    map[string]any{"request_id": req.ID, "date": *req.SelectedDate, "time": *req.SelectedTime},
	})
	return req, nil
}

// Complete persists a finished recording and moves scheduled -> completed.
// requestID must be the candidate's current scheduled request.
func (u *Interview) Complete(ctx context.Context, candidateID, requestID uuid.UUID, recordingURL string, transcript []interview.TranscriptEntry) (interview.Recording, error) {
	var (
		rec    interview.Recording
		userID uuid.UUID
	)
	err := u.transition(ctx, func(tx repository.LifecycleTx) error {
		p, err := tx.LockCandidate(ctx, candidateID)
		if err != nil {
			return err
		}
		if err := interview.Transition(p.InterviewStatus, interview.StatusCompleted); err != nil {
			return err
		}
		req, err := tx.LockLatestRequest(ctx, candidateID)
		if err != nil {
			return err
		}
		if req.ID != requestID || req.Status != interview.RequestScheduled {
			return interview.ErrInvalidTransition
		}

		now := u.now()
		rec = interview.Recording{
			ID:                 uuid.New(),
			InterviewRequestID: req.ID,
			CandidateID:        candidateID,
			RecordingURL:       recordingURL,
			Transcript:         transcript,
			CompletedAt:        now,
			CreatedAt:          now,
		}
		if err := tx.CreateRecording(ctx, rec); err != nil {
			return err
		}
		userID = p.UserID
		return tx.SetInterviewStatus(ctx, candidateID, interview.StatusCompleted, &now)
	})
	if err != nil {
		return interview.Recording{}, u.lifecycleError("interview_complete", candidateID, err)
	}

	u.invalidate(ctx)
	u.logger.Printf("level=info msg=interview_complete candidate_id=%s recording_id=%s status=ok", candidateID, rec.ID)
	u.notifier.Notify(ctx, userID, notify.Event{
		Type:    notify.EventInterviewCompleted,
		Message: "Thanks! Your interview recording has been submitted.",
	})
	return rec, nil
}

func (u *Interview) Mine(ctx context.Context, auth user.AuthContext) (InterviewView, error) {
	if !auth.IsCandidate() {
		return InterviewView{}, ErrForbidden
	}
	p, err := u.candidates.GetByUserID(ctx, auth.UserID)
	if err != nil {
		return InterviewView{}, mapCandidateErr(err)
	}
	return u.view(ctx, p)
}

func (u *Interview) ForCandidate(ctx context.Context, auth user.AuthContext, candidateID uuid.UUID) (InterviewView, error) {
	if !auth.IsRecruiter() {
		return InterviewView{}, ErrForbidden
	}
	p, err := u.candidates.GetByID(ctx, candidateID)
	if err != nil {
		return InterviewView{}, mapCandidateErr(err)
	}
	return u.view(ctx, p)
}

func (u *Interview) view(ctx context.Context, p candidate.Profile) (InterviewView, error) {
	v := InterviewView{Status: p.InterviewStatus}
	if p.InterviewStatus == interview.StatusNone {
		return v, nil
	}

	req, err := u.interviews.LatestRequest(ctx, p.ID)
	switch {
	case err == nil:
		v.Request = &req
	case errors.Is(err, interview.ErrRequestNotFound):
	default:
		return InterviewView{}, ErrInternal
	}

	if p.InterviewStatus == interview.StatusScheduled {
		v.Questions = append([]string(nil), interview.VideoQuestions...)
	}
	if p.InterviewStatus == interview.StatusCompleted {
		rec, err := u.interviews.LatestRecording(ctx, p.ID)
		switch {
		case err == nil:
			v.Recording = &rec
		case errors.Is(err, interview.ErrRecordingNotFound):
		default:
			return InterviewView{}, ErrInternal
		}
	}
	return v, nil
}

// invalidate drops cached directory pages, which show interview status.
func (u *Interview) invalidate(ctx context.Context) {
	if err := u.cache.DeleteByPattern(ctx, candidateSearchPattern); err != nil {
		u.logger.Printf("level=warn msg=cache_invalidate_failed err=%q", err.Error())
	}
}

// transition runs fn in a lifecycle transaction, retrying the whole
// transaction on transient store errors.
func (u *Interview) transition(ctx context.Context, fn func(tx repository.LifecycleTx) error) error {
	return retry.Do(ctx, u.retry, postgres.IsTransient, func(ctx context.Context) error {
		return u.store.WithinLifecycleTx(ctx, fn)
	})
}

// lifecycleError logs and maps a failed transition. Domain outcomes pass
// through unchanged; store failures become ErrInternal.
func (u *Interview) lifecycleError(op string, candidateID uuid.UUID, err error) error {
	switch {
	case errors.Is(err, ErrNotQualified), errors.Is(err, ErrAlreadyInvited):
		u.logger.Printf("level=info msg=%s candidate_id=%s status=rejected reason=%q", op, candidateID, err.Error())
		return err
	case errors.Is(err, interview.ErrInvalidTransition), errors.Is(err, interview.ErrSlotUnavailable):
		u.logger.Printf("level=info msg=%s candidate_id=%s status=rejected reason=%q", op, candidateID, err.Error())
		return err
	case errors.Is(err, candidate.ErrNotFound), errors.Is(err, interview.ErrRequestNotFound):
		return ErrNotFound
	default:
		u.logger.Printf("level=error msg=%s candidate_id=%s status=failed err=%q", op, candidateID, err.Error())
		return ErrInternal
	}
}

func mapCandidateErr(err error) error {
	if errors.Is(err, candidate.ErrNotFound) {
		return ErrNotFound
	}
	return ErrInternal
}
