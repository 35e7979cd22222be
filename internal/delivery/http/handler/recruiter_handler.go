package handler

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"

	"talent-match/internal/delivery/http/dto"
	"talent-match/internal/domain/feedback"
	"talent-match/internal/export"
	"talent-match/internal/pkg/response"
	"talent-match/internal/usecase"
)

type RecruiterHandler struct {
	directory  usecase.DirectoryUsecase
	interviews usecase.InterviewUsecase
	feedback   usecase.FeedbackUsecase
	dashboard  usecase.DashboardUsecase
	profiles   usecase.RecruiterProfileUsecase
}

type RecruiterDeps struct {
	Directory  usecase.DirectoryUsecase
	Interviews usecase.InterviewUsecase
	Feedback   usecase.FeedbackUsecase
	Dashboard  usecase.DashboardUsecase
	Profiles   usecase.RecruiterProfileUsecase
}

func NewRecruiterHandler(d RecruiterDeps) *RecruiterHandler {
	return &RecruiterHandler{
		directory:  d.Directory,
		interviews: d.Interviews,
		feedback:   d.Feedback,
		dashboard:  d.Dashboard,
		profiles:   d.Profiles,
	}
}

func (h *RecruiterHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/candidates", h.ListCandidates)
	r.Get("/candidates/export", h.ExportCandidates)
	r.Get("/candidates/:id", h.GetCandidate)
	r.Post("/candidates/:id/invite", h.Invite)
	r.Post("/candidates/:id/feedback", h.SubmitFeedback)
	r.Get("/reviews", h.Reviews)
	r.Get("/dashboard", h.Dashboard)
	r.Get("/profile", h.GetProfile)
	r.Put("/profile", h.UpdateProfile)
}

func parseListParams(c fiber.Ctx) (usecase.CandidateListParams, error) {
	p := usecase.CandidateListParams{Search: strings.TrimSpace(c.Query("search"))}

	if raw := strings.TrimSpace(c.Query("min_rank")); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return p, badRequest(err)
		}
		p.MinRank = v
	}
	if raw := strings.TrimSpace(c.Query("skills")); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				p.Skills = append(p.Skills, s)
			}
		}
	}
	for name, dst := range map[string]*int{"limit": &p.Limit, "offset": &p.Offset} {
		raw := strings.TrimSpace(c.Query(name))
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return p, badRequest(err)
		}
		*dst = v
	}
	return p, nil
}

func (h *RecruiterHandler) ListCandidates(c fiber.Ctx) error {
	auth, err := authOf(c)
	if err != nil {
		return err
	}
	p, err := parseListParams(c)
	if err != nil {
		return err
	}

	list, err := h.directory.List(c.Context(), auth, p)
	if err != nil {
		return mapError(err)
	}
	return response.Page(c, response.MessageOK, dto.CandidateListResponse{
		Items:        dto.NewCandidateSummaries(list.Items),
		SkillOptions: list.SkillOptions,
	}, response.Meta{Total: list.Total, Limit: list.Limit, Offset: list.Offset})
}

func (h *RecruiterHandler) ExportCandidates(c fiber.Ctx) error {
	auth, err := authOf(c)
	if err != nil {
		return err
	}
	p, err := parseListParams(c)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := h.directory.Export(c.Context(), auth, p, &buf); err != nil {
		return mapError(err)
	}
	name := fmt.Sprintf("candidates-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Set(fiber.HeaderContentType, export.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Status(fiber.StatusOK).Send(buf.Bytes())
}

func (h *RecruiterHandler) GetCandidate(c fiber.Ctx) error {
	auth, err := authOf(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	d, err := h.directory.Get(c.Context(), auth, id)
	if err != nil {
		return mapError(err)
	}
	v := d.Interview
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.CandidateDetailResponse{
		Candidate: dto.NewCandidateResponse(d.Profile),
		Interview: dto.NewInterviewViewResponse(v.Status, v.Request, v.Recording, v.Questions),
	})
}

func (h *RecruiterHandler) Invite(c fiber.Ctx) error {
	auth, err := authOf(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	req, err := h.interviews.Invite(c.Context(), auth, id)
	if err != nil {
		return mapError(err)
	}
	return response.Success(c, fiber.StatusCreated, "Interview invitation sent", dto.NewInterviewRequestResponse(req))
}

func (h *RecruiterHandler) SubmitFeedback(c fiber.Ctx) error {
	auth, err := authOf(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.FeedbackRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}
	rating := feedback.DefaultRating
	if req.Rating != nil {
		rating = *req.Rating
	}

	f, err := h.feedback.Submit(c.Context(), auth, id, usecase.SubmitFeedbackInput{Rating: rating, Text: req.Feedback})
	if err != nil {
		return mapError(err)
	}
	return response.Success(c, fiber.StatusCreated, "Feedback submitted", dto.NewFeedbackResponse(f))
}

func (h *RecruiterHandler) Reviews(c fiber.Ctx) error {
	auth, err := authOf(c)
	if err != nil {
		return err
	}
	rs, err := h.feedback.MyReviews(c.Context(), auth)
	if err != nil {
		return mapError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewReviewResponses(rs))
}

func (h *RecruiterHandler) Dashboard(c fiber.Ctx) error {
	auth, err := authOf(c)
	if err != nil {
		return err
	}
	stats, err := h.dashboard.Stats(c.Context(), auth)
	if err != nil {
		return mapError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, stats)
}

func (h *RecruiterHandler) GetProfile(c fiber.Ctx) error {
	auth, err := authOf(c)
	if err != nil {
		return err
	}
	p, err := h.profiles.Get(c.Context(), auth)
	if err != nil {
		return mapError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewRecruiterProfileResponse(p))
}

func (h *RecruiterHandler) UpdateProfile(c fiber.Ctx) error {
	auth, err := authOf(c)
	if err != nil {
		return err
	}
	var req dto.RecruiterProfileRequest
	if err := c.Bind().Body(&req); err != nil {
		return badRequest(err)
	}

	current, err := h.profiles.Get(c.Context(), auth)
	if err != nil {
		return mapError(err)
	}
	in := usecase.RecruiterProfileInput{
		FullName:          req.FullName,
		Company:           req.Company,
		Position:          req.Position,
		NotificationEmail: current.NotificationEmail,
		NotificationApp:   current.NotificationApp,
	}
	if req.NotificationEmail != nil {
		in.NotificationEmail = *req.NotificationEmail
	}
	if req.NotificationApp != nil {
		in.NotificationApp = *req.NotificationApp
	}

	p, err := h.profiles.Update(c.Context(), auth, in)
	if err != nil {
		return mapError(err)
	}
	return response.Success(c, fiber.StatusOK, "Profile updated", dto.NewRecruiterProfileResponse(p))
}
