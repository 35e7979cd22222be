// Package recording buffers a video interview while it is captured and
// uploads it once the candidate finishes.
package recording

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"talent-match/internal/domain/interview"
)

type State string

const (
	StateCapturing State = "capturing"
	StateUploading State = "uploading"
	StateDone      State = "done"
	StateFailed    State = "failed"
)

var (
	ErrSessionNotFound = errors.New("recording session not found")
	ErrNotCapturing    = errors.New("recording session is not capturing")
	ErrTooLarge        = errors.New("recording exceeds the maximum size")
	ErrCancelled       = errors.New("recording cancelled")
	ErrEmptyRecording  = errors.New("recording has no data")
	ErrNotOwner        = errors.New("recording session belongs to another user")
)

// Session is one in-progress recording. Chunks and transcript entries are
// accepted only while capturing.
type Session struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	CandidateID uuid.UUID
	RequestID   uuid.UUID
	StartedAt   time.Time
	BlobKey     string

	mu         sync.Mutex
	state      State
	buf        bytes.Buffer
	transcript []interview.TranscriptEntry
	maxBytes   int64
	err        error
	// committing is set once the upload succeeded and completion is running;
	// from then on the session can no longer be cancelled.
	committing   bool
	cancelUpload context.CancelFunc
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err is the reason a failed session failed.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Session) Size() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(s.buf.Len())
}

// Write appends a media chunk.
func (s *Session) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateCapturing {
		return 0, ErrNotCapturing
	}
	if s.maxBytes > 0 && int64(s.buf.Len()+len(p)) > s.maxBytes {
		s.fail(fmt.Errorf("%w: limit %d bytes", ErrTooLarge, s.maxBytes))
		return 0, s.err
	}
	return s.buf.Write(p)
}

func (s *Session) AppendTranscript(e interview.TranscriptEntry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateCapturing {
		return ErrNotCapturing
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	s.transcript = append(s.transcript, e)
	return nil
}

func (s *Session) Transcript() []interview.TranscriptEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]interview.TranscriptEntry(nil), s.transcript...)
}

// fail drops the buffer and records err. Caller holds mu.
func (s *Session) fail(err error) {
	s.state = StateFailed
	s.err = err
	s.buf = bytes.Buffer{}
	if s.cancelUpload != nil {
		s.cancelUpload()
		s.cancelUpload = nil
	}
}
