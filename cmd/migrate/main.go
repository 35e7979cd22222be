package main

import (
	"context"
	"flag"
	"log"
	"time"

	"talent-match/internal/app"
	"talent-match/internal/config"
	"talent-match/internal/database/seeder"
)

func main() {
	seed := flag.Bool("seed", false, "create demo recruiter and candidate accounts")
	password := flag.String("seed-password", seeder.DefaultPassword, "password for seeded accounts")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	c, err := app.NewContainer(cfg)
	if err != nil {
		log.Fatalf("failed to init container: %v", err)
	}
	defer func() {
		_ = c.Close()
	}()

	migCtx, migCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer migCancel()
	if err := c.Migrate(migCtx); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	c.Logger.Printf("level=info msg=migrations_done")

	if !*seed {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	r := seeder.Runner{Seeders: seeder.Defaults(*password), Logger: c.Logger}
	if err := r.Run(ctx, c.DB); err != nil {
		log.Fatalf("seed failed: %v", err)
	}
	c.Logger.Printf("level=info msg=seed_done recruiter=%s candidate=%s", seeder.DemoRecruiterEmail, seeder.DemoCandidateEmail)
}
