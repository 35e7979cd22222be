package app

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"

	"talent-match/internal/assessment"
	"talent-match/internal/config"
	"talent-match/internal/delivery/http/handler"
	"talent-match/internal/delivery/http/middleware"
	"talent-match/internal/delivery/http/routes"
	v1 "talent-match/internal/delivery/http/routes/v1"
	"talent-match/internal/infrastructure/notify"
	"talent-match/internal/pkg/jwt"
	"talent-match/internal/pkg/retry"
	"talent-match/internal/recording"
	"talent-match/internal/repository"
	"talent-match/internal/resume"
	"talent-match/internal/usecase"
	"talent-match/internal/ws"
)

const (
	sweepInterval = time.Minute
	bodyLimit     = 16 * 1024 * 1024
)

type App struct {
	Fiber      *fiber.App
	Recordings *recording.Manager
	Logger     *log.Logger
}

// Bootstrap wires the container into a ready-to-listen app and starts the
// background workers. The returned cleanup stops them and closes the
// container.
func Bootstrap(cfg config.Config) (*App, func() error, error) {
	c, err := NewContainer(cfg)
	if err != nil {
		return nil, nil, err
	}

	if cfg.App.AutoMigrate {
		mctx, mcancel := context.WithTimeout(context.Background(), 2*time.Minute)
		err := c.Migrate(mctx)
		mcancel()
		if err != nil {
			_ = c.Close()
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	logger := c.Logger

	hub := ws.NewHub(logger)
	go hub.Run(ctx)

	dispatcher := notify.NewDispatcher(cfg.Notify, hub, logger)
	dispatcher.Start(ctx)

	sessions := recording.NewManager(c.Blobs, cfg.Storage.MaxVideoBytes, logger)
	go sessions.RunSweeper(ctx, sweepInterval, cfg.Interview.RecordingTTL)

	jwtSvc := jwt.NewHMACService(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiresIn,
		cfg.JWT.RefreshExpiresIn,
	)
	authMw := middleware.NewAuthMiddleware(jwtSvc)

	users := repository.NewPostgresUserRepository(c.DB)
	candidates := repository.NewPostgresCandidateRepository(c.DB)
	interviews := repository.NewPostgresInterviewRepository(c.DB)
	chats := repository.NewPostgresChatSessionRepository(c.DB)
	feedbackRepo := repository.NewPostgresFeedbackRepository(c.DB)
	recruiters := repository.NewPostgresRecruiterProfileRepository(c.DB)

	threshold := cfg.Interview.QualifyThreshold

	interviewUC := usecase.NewInterviewUsecase(usecase.InterviewDeps{
		Candidates: candidates,
		Interviews: interviews,
		Store:      interviews,
		Locker:     c.Cache,
		Cache:      c.Cache,
		Notifier:   dispatcher,
		Slots:      c.Slots,
		Threshold:  threshold,
		Retry:      retry.DefaultPolicy,
		Logger:     logger,
	})
	authUC := usecase.NewAuthUsecase(users, jwtSvc)
	profileUC := usecase.NewCandidateProfileUsecase(candidates, c.Cache)
	resumeUC := usecase.NewResumeUsecase(
		candidates,
		resume.NewDocExtractor(),
		resume.NewKeywordParser(),
		c.Blobs,
		c.Cache,
		cfg.Storage.MaxResumeBytes,
		logger,
	)
	assessmentUC := usecase.NewAssessmentUsecase(
		candidates,
		chats,
		c.Engine,
		interviewUC,
		c.Cache,
		c.Cache,
		assessment.ChatPolicy{FollowUpBelowWords: cfg.Assessment.ChatFollowUpMax},
		logger,
	)
	recordingUC := usecase.NewRecordingUsecase(candidates, interviews, interviewUC, sessions, logger)
	directoryUC := usecase.NewDirectoryUsecase(candidates, interviewUC, c.Cache, threshold, logger)
	feedbackUC := usecase.NewFeedbackUsecase(feedbackRepo, logger)
	dashboardUC := usecase.NewDashboardUsecase(candidates, feedbackRepo, threshold, logger)
	recruiterUC := usecase.NewRecruiterProfileUsecase(recruiters, logger)

	f := fiber.New(fiber.Config{
		AppName:   cfg.App.AppName,
		BodyLimit: bodyLimit,
	})
	registerGlobalMiddleware(f, logger)

	registry := &routes.Registry{
		Health: handler.NewHealthHandler(c.DB, c.Cache),
		Auth:   authMw,
		V1: v1.Handlers{
			Auth:       handler.NewAuthHandler(authUC),
			Candidate:  handler.NewCandidateHandler(profileUC, resumeUC),
			Assessment: handler.NewAssessmentHandler(assessmentUC),
			Interview:  handler.NewInterviewHandler(interviewUC, recordingUC),
			Recruiter: handler.NewRecruiterHandler(handler.RecruiterDeps{
				Directory:  directoryUC,
				Interviews: interviewUC,
				Feedback:   feedbackUC,
				Dashboard:  dashboardUC,
				Profiles:   recruiterUC,
			}),
		},
		Notifications: ws.NewHandler(hub, authMw, logger),
		Recordings:    ws.NewRecordingStream(recordingUC, authMw, logger),
		FilesDir:      cfg.Storage.Dir,
	}
	registry.Register(f)

	logger.Printf("level=info msg=app_ready name=%s env=%s threshold=%.1f", cfg.App.AppName, cfg.App.Environment, threshold)

	cleanup := func() error {
		cancel()
		dispatcher.Close()
		return c.Close()
	}
	return &App{Fiber: f, Recordings: sessions, Logger: logger}, cleanup, nil
}

func registerGlobalMiddleware(app *fiber.App, logger *log.Logger) {
	if app == nil {
		return
	}

	errMw := middleware.NewErrorMiddleware(logger)
	accessMw := middleware.NewAccessLogMiddleware(logger)
	app.Use(accessMw.Middleware())
	app.Use(errMw.Middleware())
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
