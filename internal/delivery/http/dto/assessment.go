package dto

import (
	"talent-match/internal/assessment"
	"talent-match/internal/domain/candidate"
)

type AnswerRequest struct {
	Answer string `json:"answer"`
}

type ChatResponse struct {
	Messages  []assessment.Message  `json:"messages"`
	Questions []assessment.Question `json:"questions,omitempty"`
	Current   int                   `json:"current"`
	Completed bool                  `json:"completed"`
}

type ChatTurnResponse struct {
	Messages   []assessment.Message  `json:"messages"`
	Completed  bool                  `json:"completed"`
	Assessment *candidate.Assessment `json:"assessment,omitempty"`
	Rank       *float64              `json:"ai_ranking,omitempty"`
	Invited    bool                  `json:"invited"`
}
