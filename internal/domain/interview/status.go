package interview

import (
	"errors"
	"fmt"
)

// Status is the interview lifecycle of a candidate. It only moves forward:
// none -> invited -> scheduled -> completed.
type Status string

const (
	StatusNone      Status = "none"
	StatusInvited   Status = "invited"
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
)

var (
	ErrInvalidTransition = errors.New("invalid interview status transition")
	ErrUnknownStatus     = errors.New("unknown interview status")
)

var next = map[Status]Status{
	StatusNone:      StatusInvited,
	StatusInvited:   StatusScheduled,
	StatusScheduled: StatusCompleted,
}

// ParseStatus accepts the stored representation. An empty value is none.
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case "":
		return StatusNone, nil
	case StatusNone, StatusInvited, StatusScheduled, StatusCompleted:
		return st, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
}

func (s Status) Next() (Status, bool) {
	n, ok := next[s]
	return n, ok
}

func (s Status) Terminal() bool { return s == StatusCompleted }

// Outstanding reports whether an interview request is open for the candidate.
func (s Status) Outstanding() bool {
	return s == StatusInvited || s == StatusScheduled
}

func (s Status) CanTransitionTo(to Status) bool {
	n, ok := s.Next()
	return ok && n == to
}

// Transition validates a single forward step.
func Transition(from, to Status) error {
	if !from.CanTransitionTo(to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}
