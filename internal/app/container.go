package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"talent-match/internal/assessment"
	"talent-match/internal/config"
	"talent-match/internal/database"
	"talent-match/internal/database/migration"
	dbpostgres "talent-match/internal/database/postgres"
	"talent-match/internal/domain/interview"
	"talent-match/internal/infrastructure/cache"
	"talent-match/internal/infrastructure/storage"
	"talent-match/migrations"
)

// Container owns the process-wide infrastructure: connections, storage and
// the assessment engine.
type Container struct {
	Config config.Config
	Logger *log.Logger
	DB     database.DB
	Cache  *cache.Redis
	Blobs  *storage.LocalBlobStore
	Engine assessment.Engine
	Slots  interview.Slots

	closers []func() error
}

func NewContainer(cfg config.Config) (*Container, error) {
	logger := log.New(os.Stdout, "", log.LstdFlags|log.LUTC)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	c := &Container{Config: cfg, Logger: logger, DB: db}
	c.closers = append(c.closers, db.Close)

	slots, err := loadSlots(cfg.Interview.SlotsJSON)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	c.Slots = slots

	blobs, err := storage.NewLocalBlobStore(cfg.Storage.Dir, cfg.Storage.PublicBaseURL)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	c.Blobs = blobs

	engine, err := c.newEngine(ctx)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	c.Engine = engine

	c.Cache = cache.NewRedis(cfg.Redis, logger)
	c.closers = append(c.closers, c.Cache.Close)

	return c, nil
}

// Migrate applies the embedded schema migrations.
func (c *Container) Migrate(ctx context.Context) error {
	r := migration.Runner{Source: migrations.FS, Logger: c.Logger}
	return r.Run(ctx, c.DB.SQLDB())
}

func (c *Container) newEngine(ctx context.Context) (assessment.Engine, error) {
	cfg := c.Config.Assessment
	switch cfg.Engine {
	case config.EngineVertex:
		gen, err := assessment.NewVertexGenerator(ctx, cfg.GCPProject, cfg.GCPLocation, cfg.VertexModel)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, gen.Close)
		c.Logger.Printf("level=info msg=assessment_engine engine=vertex model=%s", cfg.VertexModel)
		return assessment.NewVertexEngine(gen, c.Logger), nil
	default:
		c.Logger.Printf("level=info msg=assessment_engine engine=mock seed=%d", cfg.MockSeed)
		return assessment.NewMockEngine(cfg.MockSeed), nil
	}
}

func loadSlots(raw string) (interview.Slots, error) {
	if strings.TrimSpace(raw) == "" {
		return interview.DefaultSlots.Clone(), nil
	}
	var slots interview.Slots
	if err := json.Unmarshal([]byte(raw), &slots); err != nil {
		return nil, fmt.Errorf("invalid INTERVIEW_SLOTS: %w", err)
	}
	if err := slots.Validate(); err != nil {
		return nil, fmt.Errorf("invalid INTERVIEW_SLOTS: %w", err)
	}
	return slots, nil
}

// Close releases resources in reverse order of acquisition.
func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var first error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	c.closers = nil
	return first
}
