package usecase

import (
	"errors"

	"talent-match/internal/domain/interview"
)

var (
	ErrInternal            = errors.New("internal error")
	ErrInvalidInput        = errors.New("invalid input")
	ErrNotFound            = errors.New("not found")
	ErrForbidden           = errors.New("forbidden")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")

	ErrNotQualified   = errors.New("candidate rank is below the interview threshold")
	ErrAlreadyInvited = errors.New("candidate already invited")

	ErrAnswerInProgress = errors.New("an answer is already being processed")

	// Re-exported so handlers map lifecycle failures from one place.
	ErrInvalidTransition = interview.ErrInvalidTransition
	ErrSlotUnavailable   = interview.ErrSlotUnavailable
)
