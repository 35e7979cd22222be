package usecase

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/google/uuid"

	"talent-match/internal/domain/interview"
	"talent-match/internal/domain/user"
	"talent-match/internal/recording"
	"talent-match/internal/repository"
)

type RecordingStart struct {
	SessionID uuid.UUID
	Questions []string
}

type RecordingUsecase interface {
	Start(ctx context.Context, auth user.AuthContext) (RecordingStart, error)
	AppendChunk(ctx context.Context, auth user.AuthContext, id uuid.UUID, r io.Reader) (int64, error)
	AppendTranscript(ctx context.Context, auth user.AuthContext, id uuid.UUID, entries []interview.TranscriptEntry) error
	Finish(ctx context.Context, auth user.AuthContext, id uuid.UUID) (interview.Recording, error)
	Cancel(ctx context.Context, auth user.AuthContext, id uuid.UUID) error
}

type Recording struct {
	candidates repository.CandidateRepository
	interviews repository.InterviewRepository
	lifecycle  InterviewUsecase
	sessions   *recording.Manager
	logger     *log.Logger
}

func NewRecordingUsecase(
	candidates repository.CandidateRepository,
	interviews repository.InterviewRepository,
	lifecycle InterviewUsecase,
	sessions *recording.Manager,
	logger *log.Logger,
) *Recording {
	if logger == nil {
		logger = log.Default()
	}
	return &Recording{
		candidates: candidates,
		interviews: interviews,
		lifecycle:  lifecycle,
		sessions:   sessions,
		logger:     logger,
	}
}

// Start opens a recording session for a candidate with a scheduled interview.
func (u *Recording) Start(ctx context.Context, auth user.AuthContext) (RecordingStart, error) {
	if !auth.IsCandidate() {
		return RecordingStart{}, ErrForbidden
	}
	p, err := u.candidates.GetByUserID(ctx, auth.UserID)
	if err != nil {
		return RecordingStart{}, mapCandidateErr(err)
	}
	if err := interview.Transition(p.InterviewStatus, interview.StatusCompleted); err != nil {
		return RecordingStart{}, err
	}
	req, err := u.interviews.LatestRequest(ctx, p.ID)
	if err != nil {
		if errors.Is(err, interview.ErrRequestNotFound) {
			return RecordingStart{}, interview.ErrInvalidTransition
		}
		return RecordingStart{}, ErrInternal
	}
	if req.Status != interview.RequestScheduled {
		return RecordingStart{}, interview.ErrInvalidTransition
	}

	s := u.sessions.Start(ctx, auth.UserID, p.ID, req.ID)
	return RecordingStart{
		SessionID: s.ID,
		Questions: append([]string(nil), interview.VideoQuestions...),
	}, nil
}

func (u *Recording) AppendChunk(ctx context.Context, auth user.AuthContext, id uuid.UUID, r io.Reader) (int64, error) {
	s, err := u.owned(auth, id)
	if err != nil {
		return 0, err
	}
	if _, err := io.Copy(s, r); err != nil {
		if errors.Is(err, recording.ErrTooLarge) {
			_ = u.sessions.Cancel(ctx, id)
		}
		return 0, err
	}
	return s.Size(), nil
}

func (u *Recording) AppendTranscript(ctx context.Context, auth user.AuthContext, id uuid.UUID, entries []interview.TranscriptEntry) error {
	s, err := u.owned(auth, id)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return ErrInvalidInput
		}
	}
	for _, e := range entries {
		if err := s.AppendTranscript(e); err != nil {
			return err
		}
	}
	return nil
}

// Finish uploads the video and completes the interview. If completion is
// rejected the upload is removed and the session is gone.
func (u *Recording) Finish(ctx context.Context, auth user.AuthContext, id uuid.UUID) (interview.Recording, error) {
	if _, err := u.owned(auth, id); err != nil {
		return interview.Recording{}, err
	}
	var rec interview.Recording
	_, err := u.sessions.Finish(ctx, id, func(ctx context.Context, res recording.Result) error {
		var err error
		rec, err = u.lifecycle.Complete(ctx, res.CandidateID, res.RequestID, res.URL, res.Transcript)
		return err
	})
	if err != nil {
		u.logger.Printf("level=warn msg=recording_finish_failed session_id=%s err=%q", id, err.Error())
		return interview.Recording{}, err
	}
	return rec, nil
}

func (u *Recording) Cancel(ctx context.Context, auth user.AuthContext, id uuid.UUID) error {
	if _, err := u.owned(auth, id); err != nil {
		return err
	}
	return u.sessions.Cancel(ctx, id)
}

func (u *Recording) owned(auth user.AuthContext, id uuid.UUID) (*recording.Session, error) {
	if !auth.IsCandidate() {
		return nil, ErrForbidden
	}
	s, err := u.sessions.Get(id)
	if err != nil {
		return nil, err
	}
	if s.OwnerID != auth.UserID {
		return nil, recording.ErrNotOwner
	}
	return s, nil
}
