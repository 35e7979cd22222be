package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"talent-match/internal/assessment"
	"talent-match/internal/database"
	"talent-match/internal/database/postgres"
)

// ChatSessionRepository keeps one assessment chat per candidate.
type ChatSessionRepository interface {
	Get(ctx context.Context, candidateID uuid.UUID) (assessment.ChatSession, error)
	Save(ctx context.Context, candidateID uuid.UUID, s assessment.ChatSession) error
}

type PostgresChatSessionRepository struct {
	db database.DB
}

func NewPostgresChatSessionRepository(db database.DB) *PostgresChatSessionRepository {
	return &PostgresChatSessionRepository{db: db}
}

func (r *PostgresChatSessionRepository) Get(ctx context.Context, candidateID uuid.UUID) (assessment.ChatSession, error) {
	var raw []byte
	err := r.db.QueryRow(ctx, `SELECT session_data FROM chat_sessions WHERE candidate_id = $1`, candidateID).Scan(&raw)
	if err != nil {
		if postgres.IsNoRows(err) {
			return assessment.ChatSession{}, assessment.ErrChatNotFound
		}
		return assessment.ChatSession{}, err
	}
	var s assessment.ChatSession
	if err := json.Unmarshal(raw, &s); err != nil {
		return assessment.ChatSession{}, fmt.Errorf("decode chat session: %w", err)
	}
	return s, nil
}

func (r *PostgresChatSessionRepository) Save(ctx context.Context, candidateID uuid.UUID, s assessment.ChatSession) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode chat session: %w", err)
	}
	_, err = r.db.Exec(ctx,
		`INSERT INTO chat_sessions (candidate_id, session_data)
		 VALUES ($1, $2)
		 ON CONFLICT (candidate_id) DO UPDATE SET session_data = EXCLUDED.session_data, updated_at = now()`,
		candidateID, raw,
	)
	return err
}
