package usecase

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"talent-match/internal/assessment"
	"talent-match/internal/domain/candidate"
	"talent-match/internal/domain/resume"
	"talent-match/internal/domain/user"
	"talent-match/internal/repository"
)

// ChatTurn is the outcome of one answer. Assessment and Rank are set on the
// turn that completes the chat.
type ChatTurn struct {
	Messages   []assessment.Message
	Completed  bool
	Assessment *candidate.Assessment
	Rank       *float64
	Invited    bool
}

type AssessmentUsecase interface {
	Questions(ctx context.Context, auth user.AuthContext) ([]assessment.Question, error)
	StartChat(ctx context.Context, auth user.AuthContext) (assessment.ChatSession, error)
	Answer(ctx context.Context, auth user.AuthContext, text string) (ChatTurn, error)
}

type Assessment struct {
	candidates repository.CandidateRepository
	chats      repository.ChatSessionRepository
	engine     assessment.Engine
	interviews InterviewUsecase
	cache      Cache
	locker     Locker
	policy     assessment.ChatPolicy
	logger     *log.Logger
	now        func() time.Time

	mu        sync.Mutex
	answering map[uuid.UUID]struct{}
}

func NewAssessmentUsecase(
	candidates repository.CandidateRepository,
	chats repository.ChatSessionRepository,
	engine assessment.Engine,
	interviews InterviewUsecase,
	cache Cache,
	locker Locker,
	policy assessment.ChatPolicy,
	logger *log.Logger,
) *Assessment {
	if cache == nil {
		cache = noopCache{}
	}
	if locker == nil {
		locker = noopCache{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Assessment{
		candidates: candidates,
		chats:      chats,
		engine:     engine,
		interviews: interviews,
		cache:      cache,
		locker:     locker,
		policy:     policy,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
		answering:  map[uuid.UUID]struct{}{},
	}
}

func (u *Assessment) Questions(ctx context.Context, auth user.AuthContext) ([]assessment.Question, error) {
	p, err := u.me(ctx, auth)
	if err != nil {
		return nil, err
	}
	return assessment.GenerateQuestions(resumeOf(p)), nil
}

// StartChat opens a fresh chat, replacing any earlier one.
func (u *Assessment) StartChat(ctx context.Context, auth user.AuthContext) (assessment.ChatSession, error) {
	p, err := u.me(ctx, auth)
	if err != nil {
		return assessment.ChatSession{}, err
	}
	s, err := assessment.StartChat(assessment.GenerateQuestions(resumeOf(p)), u.now())
	if err != nil {
		return assessment.ChatSession{}, ErrInternal
	}
	if err := u.chats.Save(ctx, p.ID, s); err != nil {
		u.logger.Printf("level=error msg=chat_save_failed candidate_id=%s err=%q", p.ID, err.Error())
		return assessment.ChatSession{}, ErrInternal
	}
	u.logger.Printf("level=info msg=chat_started candidate_id=%s questions=%d", p.ID, len(s.Questions))
	return s, nil
}

// Answer advances the chat. The final answer assesses and ranks the
// candidate and, when the rank qualifies, sends the interview invitation.
// The chat is only saved once the assessment is stored, so a failed final
// turn can be retried. One answer per candidate is processed at a time; a
// concurrent one gets ErrAnswerInProgress.
func (u *Assessment) Answer(ctx context.Context, auth user.AuthContext, text string) (ChatTurn, error) {
	p, err := u.me(ctx, auth)
	if err != nil {
		return ChatTurn{}, err
	}
	release, ok := u.acquireAnswer(ctx, p.ID)
	if !ok {
		u.logger.Printf("level=info msg=chat_answer candidate_id=%s status=busy", p.ID)
		return ChatTurn{}, ErrAnswerInProgress
	}
	defer release()

	s, err := u.chats.Get(ctx, p.ID)
	if err != nil {
		if errors.Is(err, assessment.ErrChatNotFound) {
			return ChatTurn{}, err
		}
		return ChatTurn{}, ErrInternal
	}

	msgs, err := s.Answer(text, u.policy, u.now())
	if err != nil {
		return ChatTurn{}, err
	}
	turn := ChatTurn{Messages: msgs, Completed: s.Completed}

	if s.Completed {
		a, err := u.engine.Assess(ctx, resumeOf(p), s.Transcript())
		if err != nil {
			u.logger.Printf("level=error msg=assessment_failed candidate_id=%s err=%q", p.ID, err.Error())
			return ChatTurn{}, ErrInternal
		}
		rank := assessment.Rank(a)
		if err := u.candidates.UpdateAssessment(ctx, p.ID, a, rank); err != nil {
			u.logger.Printf("level=error msg=assessment_save_failed candidate_id=%s err=%q", p.ID, err.Error())
			return ChatTurn{}, ErrInternal
		}
		_ = u.cache.DeleteByPattern(ctx, candidateSearchPattern)
		turn.Assessment = &a
		turn.Rank = &rank
		u.logger.Printf("level=info msg=assessment_done candidate_id=%s rank=%.1f", p.ID, rank)
	}

	if err := u.chats.Save(ctx, p.ID, s); err != nil {
		u.logger.Printf("level=error msg=chat_save_failed candidate_id=%s err=%q", p.ID, err.Error())
		return ChatTurn{}, ErrInternal
	}

	if s.Completed && u.interviews != nil {
		_, invited, err := u.interviews.InviteIfQualified(ctx, p.ID)
		if err != nil {
			u.logger.Printf("level=warn msg=auto_invite_failed candidate_id=%s err=%q", p.ID, err.Error())
		}
		turn.Invited = invited
	}
	return turn, nil
}

// acquireAnswer holds the candidate's answer slot in this process and, when
// Redis is up, across processes.
func (u *Assessment) acquireAnswer(ctx context.Context, candidateID uuid.UUID) (func(), bool) {
	u.mu.Lock()
	if _, busy := u.answering[candidateID]; busy {
		u.mu.Unlock()
		return nil, false
	}
	u.answering[candidateID] = struct{}{}
	u.mu.Unlock()

	done := func() {
		u.mu.Lock()
		delete(u.answering, candidateID)
		u.mu.Unlock()
	}
	ok, release, _ := u.locker.TryLock(ctx, chatAnswerLockKey(candidateID), 30*time.Second)
	if !ok {
		done()
		return nil, false
	}
	return func() {
		release()
		done()
	}, true
}

func (u *Assessment) me(ctx context.Context, auth user.AuthContext) (candidate.Profile, error) {
	if !auth.IsCandidate() {
		return candidate.Profile{}, ErrForbidden
	}
	p, err := u.candidates.GetByUserID(ctx, auth.UserID)
	if err != nil {
		return candidate.Profile{}, mapCandidateErr(err)
	}
	return p, nil
}

// resumeOf treats a candidate without a parsed resume as having an empty one.
func resumeOf(p candidate.Profile) resume.Parsed {
	if p.ParsedResume == nil {
		return resume.Empty()
	}
	return *p.ParsedResume
}
