package user

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleCandidate Role = "candidate"
	RoleRecruiter Role = "recruiter"
)

func (r Role) Valid() bool {
	return r == RoleCandidate || r == RoleRecruiter
}

type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AuthContext is the authenticated principal attached to a request.
type AuthContext struct {
	UserID uuid.UUID
	Email  string
	Role   Role
}

func (a AuthContext) IsCandidate() bool { return a.Role == RoleCandidate }
func (a AuthContext) IsRecruiter() bool { return a.Role == RoleRecruiter }
