package ws

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"talent-match/internal/domain/interview"
	"talent-match/internal/domain/user"
)

const (
	maxChunkSize   = 1 << 20
	streamIdleWait = 2 * time.Minute
)

// Recorder is the recording API a stream drives.
type Recorder interface {
	AppendChunk(ctx context.Context, auth user.AuthContext, id uuid.UUID, r io.Reader) (int64, error)
	AppendTranscript(ctx context.Context, auth user.AuthContext, id uuid.UUID, entries []interview.TranscriptEntry) error
	Finish(ctx context.Context, auth user.AuthContext, id uuid.UUID) (interview.Recording, error)
	Cancel(ctx context.Context, auth user.AuthContext, id uuid.UUID) error
}

// streamCommand is a text frame. Binary frames are media chunks.
type streamCommand struct {
	Action string                    `json:"action"`
	Entry  interview.TranscriptEntry `json:"entry"`
}

type streamReply struct {
	Type         string `json:"type"`
	Bytes        int64  `json:"bytes,omitempty"`
	RecordingURL string `json:"recording_url,omitempty"`
	Message      string `json:"message,omitempty"`
}

const (
	actionTranscript = "transcript"
	actionFinish     = "finish"
	actionCancel     = "cancel"
)

type RecordingStream struct {
	rec    Recorder
	auth   Authenticator
	logger *log.Logger
}

func NewRecordingStream(rec Recorder, auth Authenticator, logger *log.Logger) *RecordingStream {
	if logger == nil {
		logger = log.Default()
	}
	return &RecordingStream{rec: rec, auth: auth, logger: logger}
}

// HandleRecording streams one recording session over a websocket. The
// session stays open on disconnect so the client may resume or finish it
// over HTTP.
func (s *RecordingStream) HandleRecording(c fiber.Ctx) error {
	auth, err := s.auth.Authenticate(c.Query("token"))
	if err != nil || !auth.IsCandidate() {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid session id")
	}

	fiberHandler := adaptor.HTTPHandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			s.logger.Printf("level=warn msg=ws_upgrade_failed err=%q", err.Error())
			return
		}
		go s.serve(conn, auth, id)
	})
	return fiberHandler(c)
}

func (s *RecordingStream) serve(conn *websocket.Conn, auth user.AuthContext, id uuid.UUID) {
	defer conn.Close()
	ctx := context.Background()
	conn.SetReadLimit(maxChunkSize)

	for {
		_ = conn.SetReadDeadline(time.Now().Add(streamIdleWait))
		kind, data, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Printf("level=info msg=recording_stream_closed session_id=%s err=%q", id, err.Error())
			}
			return
		}

		reply, done := s.handle(ctx, auth, id, kind, data)
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(reply); err != nil || done {
			return
		}
	}
}

func (s *RecordingStream) handle(ctx context.Context, auth user.AuthContext, id uuid.UUID, kind int, data []byte) (streamReply, bool) {
	if kind == websocket.BinaryMessage {
		n, err := s.rec.AppendChunk(ctx, auth, id, bytes.NewReader(data))
		if err != nil {
			return streamReply{Type: "error", Message: err.Error()}, true
		}
		return streamReply{Type: "ack", Bytes: n}, false
	}

	var cmd streamCommand
	if err := json.Unmarshal(data, &cmd); err != nil {
		return streamReply{Type: "error", Message: "malformed command"}, false
	}
	switch cmd.Action {
	case actionTranscript:
		if err := s.rec.AppendTranscript(ctx, auth, id, []interview.TranscriptEntry{cmd.Entry}); err != nil {
			return streamReply{Type: "error", Message: err.Error()}, false
		}
		return streamReply{Type: "ack"}, false
	case actionFinish:
		rec, err := s.rec.Finish(ctx, auth, id)
		if err != nil {
			return streamReply{Type: "error", Message: err.Error()}, true
		}
		return streamReply{Type: "done", RecordingURL: rec.RecordingURL}, true
	case actionCancel:
		if err := s.rec.Cancel(ctx, auth, id); err != nil {
			return streamReply{Type: "error", Message: err.Error()}, true
		}
		return streamReply{Type: "cancelled"}, true
	default:
		return streamReply{Type: "error", Message: "unknown action"}, false
	}
}
