package v1

import (
	"github.com/gofiber/fiber/v3"

	"talent-match/internal/delivery/http/handler"
	"talent-match/internal/delivery/http/middleware"
	"talent-match/internal/domain/user"
)

// Handlers groups everything mounted under /api/v1.
type Handlers struct {
	Auth       *handler.AuthHandler
	Candidate  *handler.CandidateHandler
	Assessment *handler.AssessmentHandler
	Interview  *handler.InterviewHandler
	Recruiter  *handler.RecruiterHandler
}

func Register(r fiber.Router, authMw *middleware.AuthMiddleware, h Handlers) {
	if r == nil || authMw == nil {
		return
	}

	if h.Auth != nil {
		h.Auth.RegisterRoutes(r.Group("/auth"))
	}

	protected := r.Group("", authMw.Middleware())

	candidates := protected.Group("/candidates", middleware.RequireRole(user.RoleCandidate))
	if h.Candidate != nil {
		h.Candidate.RegisterRoutes(candidates)
	}
	if h.Assessment != nil {
		h.Assessment.RegisterRoutes(candidates.Group("/me/assessment"))
	}
	if h.Interview != nil {
		h.Interview.RegisterCandidateRoutes(candidates.Group("/me/interview"))
		h.Interview.RegisterRecordingRoutes(protected.Group("/recordings", middleware.RequireRole(user.RoleCandidate)))
	}

	if h.Recruiter != nil {
		h.Recruiter.RegisterRoutes(protected.Group("/recruiter", middleware.RequireRole(user.RoleRecruiter)))
	}
}
