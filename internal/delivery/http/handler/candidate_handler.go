package handler

import (
	"github.com/gofiber/fiber/v3"

	"talent-match/internal/delivery/http/dto"
	"talent-match/internal/delivery/http/middleware"
	"talent-match/internal/pkg/response"
	"talent-match/internal/usecase"
)

const resumeFormField = "resume"

type CandidateHandler struct {
	profiles usecase.CandidateProfileUsecase
	resumes  usecase.ResumeUsecase
}

func NewCandidateHandler(profiles usecase.CandidateProfileUsecase, resumes usecase.ResumeUsecase) *CandidateHandler {
	return &CandidateHandler{profiles: profiles, resumes: resumes}
}

func (h *CandidateHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/me", h.GetMe)
	r.Put("/me", h.UpdateMe)
	r.Post("/me/resume", h.UploadResume)
}

func (h *CandidateHandler) GetMe(c fiber.Ctx) error {
	auth, err := authOf(c)
	if err != nil {
		return err
	}
	p, err := h.profiles.Me(c.Context(), auth)
	if err != nil {
		return mapError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewCandidateResponse(p))
}

func (h *CandidateHandler) UpdateMe(c fiber.Ctx) error {
	auth, err := authOf(c)
	if err != nil {
		return err
	}
	var req dto.UpdateCandidateRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}

	p, err := h.profiles.UpdateMe(c.Context(), auth, usecase.UpdateCandidateInput{FullName: req.FullName, Phone: req.Phone})
	if err != nil {
		return mapError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewCandidateResponse(p))
}

func (h *CandidateHandler) UploadResume(c fiber.Ctx) error {
	auth, err := authOf(c)
	if err != nil {
		return err
	}
	fh, err := c.FormFile(resumeFormField)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "A resume file is required", nil, err)
	}
	f, err := fh.Open()
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Unreadable resume file", nil, err)
	}
	defer f.Close()

	p, err := h.resumes.Upload(c.Context(), auth, usecase.ResumeUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	})
	if err != nil {
		return mapError(err)
	}
	return response.Success(c, fiber.StatusOK, "Resume uploaded", dto.NewCandidateResponse(p))
}
