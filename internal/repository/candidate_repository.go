package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"talent-match/internal/database"
	"talent-match/internal/database/postgres"
	"talent-match/internal/domain/candidate"
	"talent-match/internal/domain/interview"
	"talent-match/internal/domain/resume"
)

type CandidateRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (candidate.Profile, error)
	GetByID(ctx context.Context, id uuid.UUID) (candidate.Profile, error)
	List(ctx context.Context) ([]candidate.Profile, error)
	// UpdateContact also patches the contact block of a parsed resume.
	UpdateContact(ctx context.Context, userID uuid.UUID, fullName, phone string) (candidate.Profile, error)
	UpdateResume(ctx context.Context, userID uuid.UUID, resumeURL string, parsed resume.Parsed) (candidate.Profile, error)
	UpdateAssessment(ctx context.Context, id uuid.UUID, a candidate.Assessment, rank float64) error
	Count(ctx context.Context) (int, error)
	CountRankedAtLeast(ctx context.Context, min float64) (int, error)
}

const candidateSelect = `SELECT cp.id, cp.user_id, u.email, cp.full_name, cp.phone, cp.resume_url,
		cp.parsed_resume, cp.skills, cp.assessment, cp.ai_ranking, cp.interview_status,
		cp.interview_completed_at, cp.created_at, cp.updated_at
	 FROM candidate_profiles cp
	 JOIN users u ON u.id = cp.user_id`

type PostgresCandidateRepository struct {
	db database.DB
}

func NewPostgresCandidateRepository(db database.DB) *PostgresCandidateRepository {
	return &PostgresCandidateRepository{db: db}
}

func (r *PostgresCandidateRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (candidate.Profile, error) {
	return scanCandidate(r.db.QueryRow(ctx, candidateSelect+` WHERE cp.user_id = $1`, userID))
}

func (r *PostgresCandidateRepository) GetByID(ctx context.Context, id uuid.UUID) (candidate.Profile, error) {
	return scanCandidate(r.db.QueryRow(ctx, candidateSelect+` WHERE cp.id = $1`, id))
}

func (r *PostgresCandidateRepository) List(ctx context.Context) ([]candidate.Profile, error) {
	rows, err := r.db.Query(ctx, candidateSelect+` ORDER BY cp.ai_ranking DESC NULLS LAST, cp.created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]candidate.Profile, 0)
	for rows.Next() {
		p, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresCandidateRepository) UpdateContact(ctx context.Context, userID uuid.UUID, fullName, phone string) (candidate.Profile, error) {
	n, err := r.db.Exec(ctx,
		`UPDATE candidate_profiles
		 SET full_name = $2,
		     phone = $3,
		     parsed_resume = CASE
		         WHEN parsed_resume IS NULL THEN NULL
		         ELSE jsonb_set(
		             jsonb_set(parsed_resume, '{contact_info,name}', to_jsonb($2::text), true),
		             '{contact_info,phone}', to_jsonb($3::text), true)
		     END,
		     updated_at = now()
		 WHERE user_id = $1`,
		userID, fullName, phone,
	)
	if err != nil {
		return candidate.Profile{}, err
	}
	if n == 0 {
		return candidate.Profile{}, candidate.ErrNotFound
	}
	return r.GetByUserID(ctx, userID)
}

func (r *PostgresCandidateRepository) UpdateResume(ctx context.Context, userID uuid.UUID, resumeURL string, parsed resume.Parsed) (candidate.Profile, error) {
	raw, err := json.Marshal(parsed)
	if err != nil {
		return candidate.Profile{}, fmt.Errorf("encode parsed resume: %w", err)
	}
	skills := parsed.Skills
	if skills == nil {
		skills = []string{}
	}
	n, err := r.db.Exec(ctx,
		`UPDATE candidate_profiles
		 SET resume_url = $2, parsed_resume = $3, skills = $4, updated_at = now()
		 WHERE user_id = $1`,
		userID, resumeURL, raw, skills,
	)
	if err != nil {
		return candidate.Profile{}, err
	}
	if n == 0 {
		return candidate.Profile{}, candidate.ErrNotFound
	}
	return r.GetByUserID(ctx, userID)
}

func (r *PostgresCandidateRepository) UpdateAssessment(ctx context.Context, id uuid.UUID, a candidate.Assessment, rank float64) error {
	raw, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("encode assessment: %w", err)
	}
	n, err := r.db.Exec(ctx,
		`UPDATE candidate_profiles SET assessment = $2, ai_ranking = $3, updated_at = now() WHERE id = $1`,
		id, raw, rank,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return candidate.ErrNotFound
	}
	return nil
}

func (r *PostgresCandidateRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM candidate_profiles`).Scan(&n)
	return n, err
}

func (r *PostgresCandidateRepository) CountRankedAtLeast(ctx context.Context, min float64) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM candidate_profiles WHERE ai_ranking >= $1`, min).Scan(&n)
	return n, err
}

func scanCandidate(row scanner) (candidate.Profile, error) {
	var (
		p         candidate.Profile
		parsedRaw []byte
		assessRaw []byte
		status    string
		skills    []string
	)
	if err := row.Scan(
		&p.ID, &p.UserID, &p.Email, &p.FullName, &p.Phone, &p.ResumeURL,
		&parsedRaw, &skills, &assessRaw, &p.Rank, &status,
		&p.InterviewCompletedAt, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		if postgres.IsNoRows(err) {
			return candidate.Profile{}, candidate.ErrNotFound
		}
		return candidate.Profile{}, err
	}

	var parsed resume.Parsed
	ok, err := decodeJSON(parsedRaw, &parsed)
	if err != nil {
		return candidate.Profile{}, fmt.Errorf("decode parsed_resume for %s: %w", p.ID, err)
	}
	if ok {
		parsed.Normalize()
		p.ParsedResume = &parsed
	}

	var a candidate.Assessment
	ok, err = decodeJSON(assessRaw, &a)
	if err != nil {
		return candidate.Profile{}, fmt.Errorf("decode assessment for %s: %w", p.ID, err)
	}
	if ok {
		p.Assessment = &a
	}

	p.Skills = skills
	if p.Skills == nil {
		p.Skills = []string{}
	}
	st, err := interview.ParseStatus(status)
	if err != nil {
		return candidate.Profile{}, err
	}
	p.InterviewStatus = st
	return p, nil
}
