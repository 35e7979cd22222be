package recruiter

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("recruiter profile not found")

type Profile struct {
	ID                uuid.UUID
	UserID            uuid.UUID
	FullName          string
	Company           string
	Position          string
	NotificationEmail bool
	NotificationApp   bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Default is returned for recruiters who never saved a profile.
func Default(userID uuid.UUID) Profile {
	return Profile{
		UserID:            userID,
		NotificationEmail: true,
		NotificationApp:   true,
	}
}
