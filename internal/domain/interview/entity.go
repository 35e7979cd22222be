package interview

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrRequestNotFound   = errors.New("interview request not found")
	ErrRecordingNotFound = errors.New("interview recording not found")
	ErrSlotUnavailable   = errors.New("selected slot is not offered")
	ErrNotPending        = errors.New("interview request is not pending")
	ErrOutstanding       = errors.New("candidate already has an outstanding interview request")
)

type RequestStatus string

const (
	RequestPending   RequestStatus = "pending"
	RequestScheduled RequestStatus = "scheduled"
)

// Slot is one offered date with its selectable times.
type Slot struct {
	Date  string   `json:"date"`
	Times []string `json:"slots"`
}

type Slots []Slot

func (s Slots) Contains(date, at string) bool {
	for _, d := range s {
		if d.Date != date {
			continue
		}
		for _, t := range d.Times {
			if t == at {
				return true
			}
		}
	}
	return false
}

// Validate requires at least one date, every date with at least one time and
// no duplicate dates.
func (s Slots) Validate() error {
	if len(s) == 0 {
		return errors.New("slot catalog is empty")
	}
	seen := make(map[string]struct{}, len(s))
	for _, d := range s {
		date := strings.TrimSpace(d.Date)
		if date == "" {
			return errors.New("slot date is empty")
		}
		if _, ok := seen[date]; ok {
			return fmt.Errorf("duplicate slot date %s", date)
		}
		seen[date] = struct{}{}
		if len(d.Times) == 0 {
			return fmt.Errorf("slot date %s has no times", date)
		}
	}
	return nil
}

func (s Slots) Clone() Slots {
	out := make(Slots, len(s))
	for i, d := range s {
		out[i] = Slot{Date: d.Date, Times: append([]string(nil), d.Times...)}
	}
	return out
}

// DefaultSlots is the catalog offered when none is configured.
var DefaultSlots = Slots{
	{Date: "2025-05-15", Times: []string{"10:00 AM", "1:00 PM", "3:30 PM"}},
	{Date: "2025-05-16", Times: []string{"9:30 AM", "11:00 AM", "2:00 PM"}},
	{Date: "2025-05-17", Times: []string{"10:30 AM", "1:30 PM", "4:00 PM"}},
}

type Request struct {
	ID             uuid.UUID
	CandidateID    uuid.UUID
	Status         RequestStatus
	AvailableSlots Slots
	SelectedDate   *string
	SelectedTime   *string
	EmailSent      bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Schedule records the chosen slot. The request must be pending and the slot
// must be one of the offered ones.
func (r *Request) Schedule(date, at string, now time.Time) error {
	if r.Status != RequestPending {
		return ErrNotPending
	}
	date = strings.TrimSpace(date)
	at = strings.TrimSpace(at)
	if !r.AvailableSlots.Contains(date, at) {
		return fmt.Errorf("%w: %s %s", ErrSlotUnavailable, date, at)
	}
	r.Status = RequestScheduled
	r.SelectedDate = &date
	r.SelectedTime = &at
	r.UpdatedAt = now
	return nil
}

type EntryType string

const (
	EntryQuestion EntryType = "question"
	EntryAnswer   EntryType = "answer"
)

type TranscriptEntry struct {
	Type      EntryType `json:"type"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

func (e TranscriptEntry) Validate() error {
	if e.Type != EntryQuestion && e.Type != EntryAnswer {
		return fmt.Errorf("invalid transcript entry type %q", e.Type)
	}
	if strings.TrimSpace(e.Text) == "" {
		return errors.New("transcript entry text is empty")
	}
	return nil
}

type Recording struct {
	ID                 uuid.UUID
	InterviewRequestID uuid.UUID
	CandidateID        uuid.UUID
	RecordingURL       string
	Transcript         []TranscriptEntry
	CompletedAt        time.Time
	CreatedAt          time.Time
}

// VideoQuestions are asked, in order, during the recorded interview.
var VideoQuestions = []string{
	"Tell me about yourself and your background in this field.",
	"What are your key strengths that make you a good fit for this role?",
	"Describe a challenging situation you faced at work and how you resolved it.",
	"How do you handle pressure and deadlines?",
	"Where do you see yourself professionally in 5 years?",
}
