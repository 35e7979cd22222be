package ws

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talent-match/internal/domain/interview"
	"talent-match/internal/domain/user"
)

type fakeRecorder struct {
	bytes     int64
	entries   []interview.TranscriptEntry
	finished  bool
	cancelled bool
	chunkErr  error
	finishErr error
}

func (f *fakeRecorder) AppendChunk(_ context.Context, _ user.AuthContext, _ uuid.UUID, r io.Reader) (int64, error) {
	if f.chunkErr != nil {
		return 0, f.chunkErr
	}
	n, _ := io.Copy(io.Discard, r)
	f.bytes += n
	return f.bytes, nil
}

func (f *fakeRecorder) AppendTranscript(_ context.Context, _ user.AuthContext, _ uuid.UUID, e []interview.TranscriptEntry) error {
	for _, x := range e {
		if err := x.Validate(); err != nil {
			return err
		}
	}
	f.entries = append(f.entries, e...)
	return nil
}

func (f *fakeRecorder) Finish(context.Context, user.AuthContext, uuid.UUID) (interview.Recording, error) {
	if f.finishErr != nil {
		return interview.Recording{}, f.finishErr
	}
	f.finished = true
	return interview.Recording{RecordingURL: "/files/interview.webm"}, nil
}

func (f *fakeRecorder) Cancel(context.Context, user.AuthContext, uuid.UUID) error {
	f.cancelled = true
	return nil
}

func newStream(rec Recorder) *RecordingStream {
	return NewRecordingStream(rec, nil, log.New(io.Discard, "", 0))
}

func command(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func TestRecordingStream_ChunksTranscriptFinish(t *testing.T) {
	rec := &fakeRecorder{}
	s := newStream(rec)
	auth := user.AuthContext{UserID: uuid.New(), Role: user.RoleCandidate}
	id := uuid.New()
	ctx := context.Background()

	reply, done := s.handle(ctx, auth, id, websocket.BinaryMessage, []byte("abc"))
	assert.False(t, done)
	assert.Equal(t, streamReply{Type: "ack", Bytes: 3}, reply)

	reply, done = s.handle(ctx, auth, id, websocket.TextMessage, command(t, map[string]any{
		"action": "transcript",
		"entry":  map[string]string{"type": "answer", "text": "hello"},
	}))
	assert.False(t, done)
	assert.Equal(t, "ack", reply.Type)
	require.Len(t, rec.entries, 1)

	reply, done = s.handle(ctx, auth, id, websocket.TextMessage, command(t, map[string]string{"action": "finish"}))
	assert.True(t, done)
	assert.Equal(t, "done", reply.Type)
	assert.Equal(t, "/files/interview.webm", reply.RecordingURL)
	assert.True(t, rec.finished)
}

func TestRecordingStream_Errors(t *testing.T) {
	rec := &fakeRecorder{chunkErr: errors.New("recording exceeds the maximum size")}
	s := newStream(rec)
	auth := user.AuthContext{UserID: uuid.New(), Role: user.RoleCandidate}
	ctx := context.Background()

	reply, done := s.handle(ctx, auth, uuid.New(), websocket.TextMessage, []byte("{"))
	assert.False(t, done)
	assert.Equal(t, "error", reply.Type)

	reply, done = s.handle(ctx, auth, uuid.New(), websocket.TextMessage, command(t, map[string]string{"action": "dance"}))
	assert.False(t, done)
	assert.Equal(t, "unknown action", reply.Message)

	reply, done = s.handle(ctx, auth, uuid.New(), websocket.BinaryMessage, []byte("x"))
	assert.True(t, done)
	assert.Equal(t, "error", reply.Type)

	reply, done = s.handle(ctx, auth, uuid.New(), websocket.TextMessage, command(t, map[string]string{"action": "cancel"}))
	assert.True(t, done)
	assert.Equal(t, "cancelled", reply.Type)
	assert.True(t, rec.cancelled)
}
