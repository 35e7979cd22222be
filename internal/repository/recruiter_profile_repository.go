package repository

import (
	"context"

	"github.com/google/uuid"

	"talent-match/internal/database"
	"talent-match/internal/database/postgres"
	"talent-match/internal/domain/recruiter"
)

type RecruiterProfileRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (recruiter.Profile, error)
	Upsert(ctx context.Context, p recruiter.Profile) (recruiter.Profile, error)
}

type PostgresRecruiterProfileRepository struct {
	db database.DB
}

func NewPostgresRecruiterProfileRepository(db database.DB) *PostgresRecruiterProfileRepository {
	return &PostgresRecruiterProfileRepository{db: db}
}

func (r *PostgresRecruiterProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (recruiter.Profile, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, user_id, full_name, company, position, notification_email, notification_app, created_at, updated_at
		 FROM recruiter_profiles WHERE user_id = $1`,
		userID,
	)
	return scanRecruiter(row)
}

func (r *PostgresRecruiterProfileRepository) Upsert(ctx context.Context, p recruiter.Profile) (recruiter.Profile, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO recruiter_profiles (user_id, full_name, company, position, notification_email, notification_app)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (user_id) DO UPDATE SET
		     full_name = EXCLUDED.full_name,
		     company = EXCLUDED.company,
		     position = EXCLUDED.position,
		     notification_email = EXCLUDED.notification_email,
		     notification_app = EXCLUDED.notification_app,
		     updated_at = now()
		 RETURNING id, user_id, full_name, company, position, notification_email, notification_app, created_at, updated_at`,
		p.UserID, p.FullName, p.Company, p.Position, p.NotificationEmail, p.NotificationApp,
	)
	return scanRecruiter(row)
}

func scanRecruiter(row scanner) (recruiter.Profile, error) {
	var p recruiter.Profile
	if err := row.Scan(
		&p.ID, &p.UserID, &p.FullName, &p.Company, &p.Position,
		&p.NotificationEmail, &p.NotificationApp, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		if postgres.IsNoRows(err) {
			return recruiter.Profile{}, recruiter.ErrNotFound
		}
		return recruiter.Profile{}, err
	}
	return p, nil
}
