package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"talent-match/internal/database"
	"talent-match/internal/database/postgres"
	"talent-match/internal/domain/user"
)

type PostgresUserRepository struct {
	db database.DB
}

func NewPostgresUserRepository(db database.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) Create(ctx context.Context, u user.User) error {
	err := database.WithTx(ctx, r.db, func(q database.Querier) error {
		if _, err := q.Exec(ctx,
			`INSERT INTO users (id, email, password_hash, role) VALUES ($1, $2, $3, $4)`,
			u.ID, strings.ToLower(strings.TrimSpace(u.Email)), u.PasswordHash, string(u.Role),
		); err != nil {
			return err
		}
		if u.Role != user.RoleCandidate {
			return nil
		}
		_, err := q.Exec(ctx, `INSERT INTO candidate_profiles (user_id) VALUES ($1)`, u.ID)
		return err
	})
	if postgres.IsUniqueViolation(err, "users_email_key") {
		return user.ErrEmailTaken
	}
	return err
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, email, password_hash, role, created_at, updated_at FROM users WHERE id = $1`,
		id,
	)
	return scanUser(row)
}

func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, email, password_hash, role, created_at, updated_at FROM users WHERE email = $1`,
		strings.ToLower(strings.TrimSpace(email)),
	)
	return scanUser(row)
}

func scanUser(row database.Row) (user.User, error) {
	var u user.User
	var role string
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if postgres.IsNoRows(err) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	u.Role = user.Role(role)
	return u, nil
}
