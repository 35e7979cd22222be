package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"talent-match/internal/assessment"
	"talent-match/internal/delivery/http/middleware"
	"talent-match/internal/domain/feedback"
	"talent-match/internal/domain/user"
	"talent-match/internal/pkg/response"
	"talent-match/internal/recording"
	"talent-match/internal/resume"
	"talent-match/internal/usecase"
	ucauth "talent-match/internal/usecase/auth"
)

type errorMapping struct {
	target  error
	status  int
	message string
}

// errorMappings is checked in order; the first match wins.
var errorMappings = []errorMapping{
	{usecase.ErrInvalidInput, fiber.StatusBadRequest, "Invalid request payload"},
	{usecase.ErrUnauthorized, fiber.StatusUnauthorized, "Unauthorized"},
	{usecase.ErrForbidden, fiber.StatusForbidden, "Forbidden"},
	{usecase.ErrNotFound, fiber.StatusNotFound, "Not found"},
	{usecase.ErrNotQualified, fiber.StatusUnprocessableEntity, "Candidate rank is below the interview threshold"},
	{usecase.ErrAlreadyInvited, fiber.StatusConflict, "Candidate already invited"},
	{usecase.ErrSlotUnavailable, fiber.StatusBadRequest, "Selected slot is not offered"},
	{usecase.ErrInvalidTransition, fiber.StatusConflict, "Interview is not in the required state"},

	{ucauth.ErrEmailAlreadyRegistered, fiber.StatusConflict, "Email already registered"},
	{ucauth.ErrInvalidCredentials, fiber.StatusUnauthorized, "Invalid email or password"},
	{ucauth.ErrInvalidInput, fiber.StatusBadRequest, "Invalid request payload"},
	{usecase.ErrRefreshTokenExpired, fiber.StatusUnauthorized, "Refresh token expired"},
	{usecase.ErrInvalidRefreshToken, fiber.StatusUnauthorized, "Invalid refresh token"},

	{resume.ErrUnsupportedType, fiber.StatusBadRequest, "Only PDF resumes are supported"},
	{resume.ErrTooLarge, fiber.StatusBadRequest, "Resume exceeds the maximum upload size"},
	{resume.ErrEmptyDocument, fiber.StatusBadRequest, "Resume file is empty"},

	{assessment.ErrChatNotFound, fiber.StatusNotFound, "Assessment chat not started"},
	{assessment.ErrChatCompleted, fiber.StatusConflict, "Assessment chat already completed"},
	{usecase.ErrAnswerInProgress, fiber.StatusConflict, "An answer is already being processed"},
	{assessment.ErrEmptyAnswer, fiber.StatusBadRequest, "Answer is empty"},

	{feedback.ErrAlreadyExists, fiber.StatusConflict, "Feedback already submitted for this candidate"},

	{recording.ErrSessionNotFound, fiber.StatusNotFound, "Recording session not found"},
	{recording.ErrNotOwner, fiber.StatusForbidden, "Forbidden"},
	{recording.ErrNotCapturing, fiber.StatusConflict, "Recording session is not capturing"},
	{recording.ErrCancelled, fiber.StatusConflict, "Recording cancelled"},
	{recording.ErrTooLarge, fiber.StatusRequestEntityTooLarge, "Recording exceeds the maximum size"},
	{recording.ErrEmptyRecording, fiber.StatusBadRequest, "Recording has no data"},
}

// mapError converts a usecase error into an AppError. Unknown errors become
// 500s whose cause is logged by the error middleware.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return middleware.NewAppError(m.status, m.message, nil, err)
		}
	}
	return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
}

func authOf(c fiber.Ctx) (user.AuthContext, error) {
	auth, ok := middleware.AuthFrom(c)
	if !ok {
		return user.AuthContext{}, middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	return auth, nil
}

func uuidParam(c fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, middleware.NewAppError(fiber.StatusBadRequest, "Invalid id", nil, err)
	}
	return id, nil
}

func badRequest(err error) error {
	return middleware.NewAppError(fiber.StatusBadRequest, "Invalid request payload", nil, err)
}
