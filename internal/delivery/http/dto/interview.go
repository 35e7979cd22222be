package dto

import (
	"time"

	"github.com/google/uuid"

	"talent-match/internal/domain/interview"
)

type InterviewRequestResponse struct {
	ID             uuid.UUID               `json:"id"`
	CandidateID    uuid.UUID               `json:"candidate_id"`
	Status         interview.RequestStatus `json:"status"`
	AvailableSlots interview.Slots         `json:"available_slots"`
	SelectedDate   *string                 `json:"selected_date"`
	SelectedTime   *string                 `json:"selected_time"`
	CreatedAt      time.Time               `json:"created_at"`
	UpdatedAt      time.Time               `json:"updated_at"`
}

type RecordingResponse struct {
	ID                 uuid.UUID                   `json:"id"`
	InterviewRequestID uuid.UUID                   `json:"interview_request_id"`
	CandidateID        uuid.UUID                   `json:"candidate_id"`
	RecordingURL       string                      `json:"recording_url"`
	Transcript         []interview.TranscriptEntry `json:"transcript"`
	CompletedAt        time.Time                   `json:"completed_at"`
}

type InterviewViewResponse struct {
	Status    interview.Status          `json:"status"`
	Request   *InterviewRequestResponse `json:"request"`
	Recording *RecordingResponse        `json:"recording"`
	Questions []string                  `json:"questions"`
}

type ScheduleRequest struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

type RecordingStartResponse struct {
	SessionID uuid.UUID `json:"session_id"`
	Questions []string  `json:"questions"`
}

type TranscriptRequest struct {
	Entries []interview.TranscriptEntry `json:"entries"`
}

type ChunkResponse struct {
	Bytes int64 `json:"bytes"`
}

func NewInterviewRequestResponse(r interview.Request) InterviewRequestResponse {
	return InterviewRequestResponse{
		ID:             r.ID,
		CandidateID:    r.CandidateID,
		Status:         r.Status,
		AvailableSlots: r.AvailableSlots,
		SelectedDate:   r.SelectedDate,
		SelectedTime:   r.SelectedTime,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func NewRecordingResponse(r interview.Recording) RecordingResponse {
	t := r.Transcript
	if t == nil {
		t = []interview.TranscriptEntry{}
	}
	return RecordingResponse{
		ID:                 r.ID,
		InterviewRequestID: r.InterviewRequestID,
		CandidateID:        r.CandidateID,
		RecordingURL:       r.RecordingURL,
		Transcript:         t,
		CompletedAt:        r.CompletedAt,
	}
}

func NewInterviewViewResponse(status interview.Status, req *interview.Request, rec *interview.Recording, questions []string) InterviewViewResponse {
	out := InterviewViewResponse{Status: status, Questions: questions}
	if out.Questions == nil {
		out.Questions = []string{}
	}
	if req != nil {
		r := NewInterviewRequestResponse(*req)
		out.Request = &r
	}
	if rec != nil {
		r := NewRecordingResponse(*rec)
		out.Recording = &r
	}
	return out
}
