package handler

import (
	"bytes"

	"github.com/gofiber/fiber/v3"

	"talent-match/internal/delivery/http/dto"
	"talent-match/internal/pkg/response"
	"talent-match/internal/usecase"
)

type InterviewHandler struct {
	interviews usecase.InterviewUsecase
	recordings usecase.RecordingUsecase
}

func NewInterviewHandler(interviews usecase.InterviewUsecase, recordings usecase.RecordingUsecase) *InterviewHandler {
	return &InterviewHandler{interviews: interviews, recordings: recordings}
}

// RegisterCandidateRoutes mounts the candidate's own interview endpoints.
func (h *InterviewHandler) RegisterCandidateRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("", h.Mine)
	r.Post("/schedule", h.Schedule)
	r.Post("/recordings", h.StartRecording)
}

// RegisterRecordingRoutes mounts the per-session recording endpoints.
func (h *InterviewHandler) RegisterRecordingRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Put("/:id/chunks", h.AppendChunk)
	r.Post("/:id/transcript", h.AppendTranscript)
	r.Post("/:id/finish", h.Finish)
	r.Delete("/:id", h.Cancel)
}

func (h *InterviewHandler) Mine(c fiber.Ctx) error {
	auth, err := authOf(c)
	if err != nil {
		return err
	}
	v, err := h.interviews.Mine(c.Context(), auth)
	if err != nil {
		return mapError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewInterviewViewResponse(v.Status, v.Request, v.Recording, v.Questions))
}

func (h *InterviewHandler) Schedule(c fiber.Ctx) error {
	auth, err := authOf(c)
	if err != nil {
		return err
	}
	var req dto.ScheduleRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}
	if req.Date == "" || req.Time == "" {
		return badRequest(nil)
	}

	r, err := h.interviews.Schedule(c.Context(), auth, req.Date, req.Time)
	if err != nil {
		return mapError(err)
	}
	return response.Success(c, fiber.StatusOK, "Interview scheduled", dto.NewInterviewRequestResponse(r))
}

func (h *InterviewHandler) StartRecording(c fiber.Ctx) error {
	auth, err := authOf(c)
	if err != nil {
		return err
	}
	s, err := h.recordings.Start(c.Context(), auth)
	if err != nil {
		return mapError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageCreated, dto.RecordingStartResponse{
		SessionID: s.SessionID,
		Questions: s.Questions,
	})
}

func (h *InterviewHandler) AppendChunk(c fiber.Ctx) error {
	auth, err := authOf(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	if len(c.Body()) == 0 {
		return badRequest(nil)
	}

	n, err := h.recordings.AppendChunk(c.Context(), auth, id, bytes.NewReader(c.Body()))
	if err != nil {
		return mapError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.ChunkResponse{Bytes: n})
}

func (h *InterviewHandler) AppendTranscript(c fiber.Ctx) error {
	auth, err := authOf(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.TranscriptRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}
	if len(req.Entries) == 0 {
		return badRequest(nil)
	}

	if err := h.recordings.AppendTranscript(c.Context(), auth, id, req.Entries); err != nil {
		return mapError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, nil)
}

func (h *InterviewHandler) Finish(c fiber.Ctx) error {
	auth, err := authOf(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	rec, err := h.recordings.Finish(c.Context(), auth, id)
	if err != nil {
		return mapError(err)
	}
	return response.Success(c, fiber.StatusOK, "Interview completed", dto.NewRecordingResponse(rec))
}

func (h *InterviewHandler) Cancel(c fiber.Ctx) error {
	auth, err := authOf(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.recordings.Cancel(c.Context(), auth, id); err != nil {
		return mapError(err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
