package recording

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"talent-match/internal/domain/interview"
)

const contentType = "video/webm"

// Blobs is the part of blob storage a recording needs.
type Blobs interface {
	Put(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// Result is handed to the completion callback once the video is stored.
type Result struct {
	SessionID   uuid.UUID
	CandidateID uuid.UUID
	RequestID   uuid.UUID
	BlobKey     string
	URL         string
	Size        int64
	Transcript  []interview.TranscriptEntry
}

// CompleteFunc persists a finished recording. When it fails the uploaded blob
// is deleted and the session fails with its error.
type CompleteFunc func(ctx context.Context, res Result) error

// Manager owns the live sessions of this process.
type Manager struct {
	blobs    Blobs
	maxBytes int64
	logger   *log.Logger
	now      func() time.Time

	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
}

func NewManager(blobs Blobs, maxBytes int64, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.Default()
	}
	return &Manager{
		blobs:    blobs,
		maxBytes: maxBytes,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
		sessions: map[uuid.UUID]*Session{},
	}
}

// Start opens a capturing session. An earlier live session of the same
// candidate is cancelled first so only one recording runs per candidate.
func (m *Manager) Start(ctx context.Context, ownerID, candidateID, requestID uuid.UUID) *Session {
	m.mu.Lock()
	var stale []uuid.UUID
	for id, s := range m.sessions {
		if s.CandidateID == candidateID {
			stale = append(stale, id)
		}
	}
	m.mu.Unlock()
	for _, id := range stale {
		_ = m.Cancel(ctx, id)
	}

	now := m.now()
	s := &Session{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		CandidateID: candidateID,
		RequestID:   requestID,
		StartedAt:   now,
		BlobKey:     fmt.Sprintf("interview-recordings/interview_%s_%d.webm", candidateID, now.UnixMilli()),
		state:       StateCapturing,
		maxBytes:    m.maxBytes,
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.logger.Printf("level=info msg=recording_started session_id=%s candidate_id=%s", s.ID, candidateID)
	return s
}

func (m *Manager) Get(id uuid.UUID) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Finish uploads the buffered video and then runs complete. The session ends
// done only if both succeed. On any failure nothing is left in blob storage.
func (m *Manager) Finish(ctx context.Context, id uuid.UUID, complete CompleteFunc) (Result, error) {
	s, err := m.Get(id)
	if err != nil {
		return Result{}, err
	}

	s.mu.Lock()
	if s.state != StateCapturing {
		st, serr := s.state, s.err
		s.mu.Unlock()
		if st == StateFailed && serr != nil {
			m.remove(id)
			return Result{}, serr
		}
		return Result{}, ErrNotCapturing
	}
	if s.buf.Len() == 0 {
		s.mu.Unlock()
		return Result{}, ErrEmptyRecording
	}
	data := append([]byte(nil), s.buf.Bytes()...)
	transcript := append([]interview.TranscriptEntry(nil), s.transcript...)
	upCtx, cancel := context.WithCancel(ctx)
	s.state = StateUploading
	s.cancelUpload = cancel
	s.mu.Unlock()
	defer cancel()

	url, err := m.blobs.Put(upCtx, s.BlobKey, bytes.NewReader(data), contentType)

	s.mu.Lock()
	if s.state != StateUploading {
		// cancelled while uploading
		s.mu.Unlock()
		m.discard(ctx, s)
		m.remove(id)
		return Result{}, ErrCancelled
	}
	if err != nil {
		s.fail(fmt.Errorf("upload recording: %w", err))
		ferr := s.err
		s.mu.Unlock()
		m.discard(ctx, s)
		m.remove(id)
		return Result{}, ferr
	}
	s.committing = true
	s.cancelUpload = nil
	s.mu.Unlock()

	res := Result{
		SessionID:   s.ID,
		CandidateID: s.CandidateID,
		RequestID:   s.RequestID,
		BlobKey:     s.BlobKey,
		URL:         url,
		Size:        int64(len(data)),
		Transcript:  transcript,
	}

	if err := complete(ctx, res); err != nil {
		s.mu.Lock()
		s.fail(err)
		s.mu.Unlock()
		m.discard(ctx, s)
		m.remove(id)
		m.logger.Printf("level=warn msg=recording_complete_failed session_id=%s err=%q", s.ID, err.Error())
		return Result{}, err
	}

	s.mu.Lock()
	s.state = StateDone
	s.buf = bytes.Buffer{}
	s.mu.Unlock()
	m.remove(id)

	m.logger.Printf("level=info msg=recording_done session_id=%s candidate_id=%s bytes=%d", s.ID, s.CandidateID, res.Size)
	return res, nil
}

// Cancel abandons a session that is not done. The buffer is dropped, an
// in-flight upload is aborted and any partial blob is deleted.
func (m *Manager) Cancel(ctx context.Context, id uuid.UUID) error {
	s, err := m.Get(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	switch {
	case s.state == StateDone, s.committing:
		s.mu.Unlock()
		return ErrNotCapturing
	case s.state == StateFailed:
		s.mu.Unlock()
		m.remove(id)
		return nil
	}
	wasUploading := s.state == StateUploading
	s.fail(ErrCancelled)
	s.mu.Unlock()

	// An uploading session is cleaned up by Finish once Put returns.
	if !wasUploading {
		m.remove(id)
	} else {
		m.discard(ctx, s)
	}
	m.logger.Printf("level=info msg=recording_cancelled session_id=%s", s.ID)
	return nil
}

// Sweep cancels sessions that have been capturing for longer than maxAge
// and forgets failed ones.
func (m *Manager) Sweep(ctx context.Context, maxAge time.Duration) int {
	cutoff := m.now().Add(-maxAge)
	return m.cancelWhere(ctx, func(s *Session) bool { return s.StartedAt.Before(cutoff) })
}

// Drain cancels every session still capturing or failed and returns how many
// live recordings were abandoned. Sessions mid-commit are left to finish.
func (m *Manager) Drain(ctx context.Context) int {
	return m.cancelWhere(ctx, func(s *Session) bool {
		if s.State() != StateCapturing {
			return false
		}
		m.logger.Printf("level=warn msg=recording_abandoned session_id=%s candidate_id=%s", s.ID, s.CandidateID)
		return true
	})
}

// Active reports the number of sessions still capturing or uploading.
func (m *Manager) Active() int {
	m.mu.Lock()
	all := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		all = append(all, s)
	}
	m.mu.Unlock()

	n := 0
	for _, s := range all {
		if st := s.State(); st == StateCapturing || st == StateUploading {
			n++
		}
	}
	return n
}

func (m *Manager) cancelWhere(ctx context.Context, match func(*Session) bool) int {
	m.mu.Lock()
	all := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		all = append(all, s)
	}
	m.mu.Unlock()

	n := 0
	for _, s := range all {
		if st := s.State(); st != StateCapturing && st != StateFailed {
			continue
		}
		if !match(s) {
			continue
		}
		if err := m.Cancel(ctx, s.ID); err == nil {
			n++
		}
	}
	return n
}

// RunSweeper calls Sweep every interval until ctx is done.
func (m *Manager) RunSweeper(ctx context.Context, interval, maxAge time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := m.Sweep(ctx, maxAge); n > 0 {
				m.logger.Printf("level=info msg=recording_sweep cancelled=%d", n)
			}
		}
	}
}

func (m *Manager) discard(ctx context.Context, s *Session) {
	dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := m.blobs.Delete(dctx, s.BlobKey); err != nil {
		m.logger.Printf("level=warn msg=recording_blob_delete_failed key=%s err=%q", s.BlobKey, err.Error())
	}
}

func (m *Manager) remove(id uuid.UUID) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}
