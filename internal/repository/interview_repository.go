package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"talent-match/internal/database"
	"talent-match/internal/database/postgres"
	"talent-match/internal/domain/candidate"
	"talent-match/internal/domain/interview"
)

// InterviewRepository reads interview state outside of lifecycle transitions.
type InterviewRepository interface {
	LatestRequest(ctx context.Context, candidateID uuid.UUID) (interview.Request, error)
	LatestRecording(ctx context.Context, candidateID uuid.UUID) (interview.Recording, error)
}

// LifecycleTx is the statement set a lifecycle transition runs in one
// transaction. Lock* methods take row locks held until the tx ends.
type LifecycleTx interface {
	LockCandidate(ctx context.Context, candidateID uuid.UUID) (candidate.Profile, error)
	SetInterviewStatus(ctx context.Context, candidateID uuid.UUID, status interview.Status, completedAt *time.Time) error
	CreateRequest(ctx context.Context, req interview.Request) error
	LockLatestRequest(ctx context.Context, candidateID uuid.UUID) (interview.Request, error)
	UpdateRequest(ctx context.Context, req interview.Request) error
	CreateRecording(ctx context.Context, rec interview.Recording) error
}

type LifecycleStore interface {
	WithinLifecycleTx(ctx context.Context, fn func(tx LifecycleTx) error) error
}

const outstandingRequestIndex = "uq_interview_requests_outstanding"

const requestSelect = `SELECT id, candidate_id, status, available_slots, selected_date, selected_time,
		email_sent, created_at, updated_at
	 FROM interview_requests`

type PostgresInterviewRepository struct {
	db database.DB
}

func NewPostgresInterviewRepository(db database.DB) *PostgresInterviewRepository {
	return &PostgresInterviewRepository{db: db}
}

func (r *PostgresInterviewRepository) LatestRequest(ctx context.Context, candidateID uuid.UUID) (interview.Request, error) {
	return scanRequest(r.db.QueryRow(ctx,
		requestSelect+` WHERE candidate_id = $1 ORDER BY created_at DESC LIMIT 1`,
		candidateID,
	))
}

func (r *PostgresInterviewRepository) LatestRecording(ctx context.Context, candidateID uuid.UUID) (interview.Recording, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, interview_request_id, candidate_id, recording_url, transcript, completed_at, created_at
		 FROM interview_recordings
		 WHERE candidate_id = $1
		 ORDER BY completed_at DESC
		 LIMIT 1`,
		candidateID,
	)

	var rec interview.Recording
	var raw []byte
	if err := row.Scan(&rec.ID, &rec.InterviewRequestID, &rec.CandidateID, &rec.RecordingURL, &raw, &rec.CompletedAt, &rec.CreatedAt); err != nil {
		if postgres.IsNoRows(err) {
			return interview.Recording{}, interview.ErrRecordingNotFound
		}
		return interview.Recording{}, err
	}
	if _, err := decodeJSON(raw, &rec.Transcript); err != nil {
		return interview.Recording{}, fmt.Errorf("decode transcript for %s: %w", rec.ID, err)
	}
	if rec.Transcript == nil {
		rec.Transcript = []interview.TranscriptEntry{}
	}
	return rec, nil
}

func (r *PostgresInterviewRepository) WithinLifecycleTx(ctx context.Context, fn func(tx LifecycleTx) error) error {
	return database.WithTx(ctx, r.db, func(q database.Querier) error {
		return fn(lifecycleTx{q: q})
	})
}

type lifecycleTx struct {
	q database.Querier
}

func (t lifecycleTx) LockCandidate(ctx context.Context, candidateID uuid.UUID) (candidate.Profile, error) {
	return scanCandidate(t.q.QueryRow(ctx, candidateSelect+` WHERE cp.id = $1 FOR UPDATE OF cp`, candidateID))
}

func (t lifecycleTx) SetInterviewStatus(ctx context.Context, candidateID uuid.UUID, status interview.Status, completedAt *time.Time) error {
	n, err := t.q.Exec(ctx,
		`UPDATE candidate_profiles
		 SET interview_status = $2,
		     interview_completed_at = COALESCE($3, interview_completed_at),
		     updated_at = now()
		 WHERE id = $1`,
		candidateID, string(status), completedAt,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return candidate.ErrNotFound
	}
	return nil
}

func (t lifecycleTx) CreateRequest(ctx context.Context, req interview.Request) error {
	slots, err := json.Marshal(req.AvailableSlots)
	if err != nil {
		return fmt.Errorf("encode slots: %w", err)
	}
	_, err = t.q.Exec(ctx,
		`INSERT INTO interview_requests (id, candidate_id, status, available_slots, email_sent, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $6)`,
		req.ID, req.CandidateID, string(req.Status), slots, req.EmailSent, req.CreatedAt,
	)
	if postgres.IsUniqueViolation(err, outstandingRequestIndex) {
		return interview.ErrOutstanding
	}
	return err
}

func (t lifecycleTx) LockLatestRequest(ctx context.Context, candidateID uuid.UUID) (interview.Request, error) {
	return scanRequest(t.q.QueryRow(ctx,
		requestSelect+` WHERE candidate_id = $1 ORDER BY created_at DESC LIMIT 1 FOR UPDATE`,
		candidateID,
	))
}

func (t lifecycleTx) UpdateRequest(ctx context.Context, req interview.Request) error {
	n, err := t.q.Exec(ctx,
		`UPDATE interview_requests
		 SET status = $2, selected_date = $3, selected_time = $4, email_sent = $5, updated_at = $6
		 WHERE id = $1`,
		req.ID, string(req.Status), req.SelectedDate, req.SelectedTime, req.EmailSent, req.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return interview.ErrRequestNotFound
	}
	return nil
}

func (t lifecycleTx) CreateRecording(ctx context.Context, rec interview.Recording) error {
	transcript := rec.Transcript
	if transcript == nil {
		transcript = []interview.TranscriptEntry{}
	}
	raw, err := json.Marshal(transcript)
	if err != nil {
		return fmt.Errorf("encode transcript: %w", err)
	}
	_, err = t.q.Exec(ctx,
		`INSERT INTO interview_recordings (id, interview_request_id, candidate_id, recording_url, transcript, completed_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.ID, rec.InterviewRequestID, rec.CandidateID, rec.RecordingURL, raw, rec.CompletedAt,
	)
	return err
}

func scanRequest(row scanner) (interview.Request, error) {
	var req interview.Request
	var status string
	var slots []byte
	if err := row.Scan(
		&req.ID, &req.CandidateID, &status, &slots, &req.SelectedDate, &req.SelectedTime,
		&req.EmailSent, &req.CreatedAt, &req.UpdatedAt,
	); err != nil {
		if postgres.IsNoRows(err) {
			return interview.Request{}, interview.ErrRequestNotFound
		}
		return interview.Request{}, err
	}
	req.Status = interview.RequestStatus(status)
	if _, err := decodeJSON(slots, &req.AvailableSlots); err != nil {
		return interview.Request{}, fmt.Errorf("decode slots for %s: %w", req.ID, err)
	}
	return req, nil
}
