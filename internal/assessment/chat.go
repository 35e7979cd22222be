package assessment

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrChatCompleted = errors.New("assessment chat already completed")
	ErrEmptyAnswer   = errors.New("answer is empty")
	ErrNoQuestions   = errors.New("assessment chat has no questions")
	ErrChatNotFound  = errors.New("assessment chat not started")
)

type Role string

const (
	RoleCandidate   Role = "candidate"
	RoleInterviewer Role = "interviewer"
)

type Message struct {
	Role Role      `json:"role"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

// Transcript is the ordered candidate/interviewer exchange fed to an Engine.
type Transcript []Message

const (
	WelcomeMessage = "Hi there! I'm your AI interviewer. I'd like to ask you a few questions about your experience and skills to learn more about you. Let's get started!"
	ClosingMessage = "Thank you for answering all my questions! I'll analyze your responses and provide feedback to potential recruiters. Best of luck with your job search!"

	defaultFollowUp = "Thank you for sharing that. Could you tell me more about how you applied this in a real project?"
)

var followUps = map[string]string{
	"React":                    "That's interesting! Could you elaborate on how you handle component state in your React applications?",
	"JavaScript":               "Thanks for sharing. Have you worked with any JavaScript frameworks besides React?",
	"CSS":                      "Great to know. What's your approach to responsive design and cross-browser compatibility?",
	"Performance Optimization": "That's a solid approach. Have you used any specific tools to measure performance improvements?",
	"Adaptability":             "Excellent learning strategy. What's the most recent technology you've learned and how did you apply it?",
}

// FollowUpFor returns the interviewer's follow-up prompt for a question.
func FollowUpFor(q Question) string {
	if f, ok := followUps[q.SkillToVerify]; ok {
		return f
	}
	return defaultFollowUp
}

// ChatSession is the persisted state of one candidate's assessment chat.
// Current indexes the question awaiting an answer.
type ChatSession struct {
	Questions []Question `json:"questions"`
	Messages  []Message  `json:"messages"`
	Current   int        `json:"current"`
	Completed bool       `json:"completed"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
}

// ChatPolicy decides when the interviewer adds a follow-up before moving on.
// A follow-up is sent after answers shorter than FollowUpBelowWords words,
// never after the final question. Zero disables follow-ups.
type ChatPolicy struct {
	FollowUpBelowWords int
}

// StartChat opens a session with the welcome message and first question.
func StartChat(questions []Question, now time.Time) (ChatSession, error) {
	if len(questions) == 0 {
		return ChatSession{}, ErrNoQuestions
	}
	s := ChatSession{
		Questions: append([]Question(nil), questions...),
		StartedAt: now,
	}
	s.say(RoleInterviewer, WelcomeMessage, now)
	s.say(RoleInterviewer, questions[0].Question, now)
	return s, nil
}

// Answer records the candidate's reply to the current question and returns
// the interviewer messages it produced. After the last answer the session is
// completed and only the closing message is returned.
func (s *ChatSession) Answer(text string, policy ChatPolicy, now time.Time) ([]Message, error) {
	if s.Completed {
		return nil, ErrChatCompleted
	}
	if len(s.Questions) == 0 {
		return nil, ErrNoQuestions
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyAnswer
	}

	s.say(RoleCandidate, text, now)
	start := len(s.Messages)

	q := s.Questions[s.Current]
	next := s.Current + 1
	if next >= len(s.Questions) {
		s.say(RoleInterviewer, ClosingMessage, now)
		s.Completed = true
		s.Current = len(s.Questions)
		ended := now
		s.EndedAt = &ended
		return s.tail(start), nil
	}

	if policy.FollowUpBelowWords > 0 && len(strings.Fields(text)) < policy.FollowUpBelowWords {
		s.say(RoleInterviewer, FollowUpFor(q), now)
	}
	s.say(RoleInterviewer, s.Questions[next].Question, now)
	s.Current = next
	return s.tail(start), nil
}

// Transcript returns a copy of the exchanged messages.
func (s ChatSession) Transcript() Transcript {
	return append(Transcript(nil), s.Messages...)
}

func (s *ChatSession) say(role Role, text string, at time.Time) {
	s.Messages = append(s.Messages, Message{Role: role, Text: text, At: at})
}

func (s *ChatSession) tail(from int) []Message {
	return append([]Message(nil), s.Messages[from:]...)
}
