package seeder

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"talent-match/internal/database"
	"talent-match/internal/domain/user"
)

const (
	DemoRecruiterEmail = "recruiter@demo.local"
	DemoCandidateEmail = "candidate@demo.local"
	DefaultPassword    = "password123"
)

// DemoAccountsSeeder creates one recruiter and one candidate that can log in
// straight away. Existing accounts are left untouched.
type DemoAccountsSeeder struct {
	Password string
}

func (DemoAccountsSeeder) Name() string { return "demo_accounts" }

func (s DemoAccountsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := RequireColumns(ctx, db, Columns{
		"users":              {"id", "email", "password_hash", "role"},
		"candidate_profiles": {"user_id", "full_name", "skills"},
		"recruiter_profiles": {"user_id", "full_name", "company", "position"},
	}); err != nil {
		return err
	}

	pw := s.Password
	if pw == "" {
		pw = DefaultPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return database.WithTx(ctx, db, func(q database.Querier) error {
		recruiterID, err := upsertUser(ctx, q, DemoRecruiterEmail, string(hash), user.RoleRecruiter)
		if err != nil {
			return err
		}
		if _, err := q.Exec(
			ctx,
			`INSERT INTO recruiter_profiles (user_id, full_name, company, position)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (user_id) DO NOTHING`,
			recruiterID, "Demo Recruiter", "Talent Match", "Hiring Manager",
		); err != nil {
			return err
		}

		candidateID, err := upsertUser(ctx, q, DemoCandidateEmail, string(hash), user.RoleCandidate)
		if err != nil {
			return err
		}
		_, err = q.Exec(
			ctx,
			`INSERT INTO candidate_profiles (user_id, full_name, skills)
			 VALUES ($1, $2, $3)
			 ON CONFLICT (user_id) DO NOTHING`,
			candidateID, "Demo Candidate", []string{"Go", "PostgreSQL", "Docker"},
		)
		return err
	})
}

func upsertUser(ctx context.Context, q database.Querier, email, hash string, role user.Role) (uuid.UUID, error) {
	if _, err := q.Exec(
		ctx,
		`INSERT INTO users (email, password_hash, role) VALUES ($1, $2, $3) ON CONFLICT (email) DO NOTHING`,
		email, hash, string(role),
	); err != nil {
		return uuid.Nil, err
	}
	var id uuid.UUID
	if err := q.QueryRow(ctx, `SELECT id FROM users WHERE email = $1`, email).Scan(&id); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}
