package handler

import (
	"github.com/gofiber/fiber/v3"

	"talent-match/internal/delivery/http/dto"
	"talent-match/internal/pkg/response"
	"talent-match/internal/usecase"
)

type AssessmentHandler struct {
	uc usecase.AssessmentUsecase
}

func NewAssessmentHandler(uc usecase.AssessmentUsecase) *AssessmentHandler {
	return &AssessmentHandler{uc: uc}
}

func (h *AssessmentHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/questions", h.Questions)
	r.Post("/chat", h.StartChat)
	r.Post("/chat/answers", h.Answer)
}

func (h *AssessmentHandler) Questions(c fiber.Ctx) error {
	auth, err := authOf(c)
	if err != nil {
		return err
	}
	qs, err := h.uc.Questions(c.Context(), auth)
	if err != nil {
		return mapError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, qs)
}

func (h *AssessmentHandler) StartChat(c fiber.Ctx) error {
	auth, err := authOf(c)
	if err != nil {
		return err
	}
	s, err := h.uc.StartChat(c.Context(), auth)
	if err != nil {
		return mapError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageCreated, dto.ChatResponse{
		Messages:  s.Messages,
		Questions: s.Questions,
		Current:   s.Current,
		Completed: s.Completed,
	})
}

func (h *AssessmentHandler) Answer(c fiber.Ctx) error {
	auth, err := authOf(c)
	if err != nil {
		return err
	}
	var req dto.AnswerRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}

	turn, err := h.uc.Answer(c.Context(), auth, req.Answer)
	if err != nil {
		return mapError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.ChatTurnResponse{
		Messages:   turn.Messages,
		Completed:  turn.Completed,
		Assessment: turn.Assessment,
		Rank:       turn.Rank,
		Invited:    turn.Invited,
	})
}
