package assessment

import (
	"fmt"

	"talent-match/internal/domain/resume"
	"talent-match/internal/search"
)

// QuestionCount is the fixed length of every generated question list.
const QuestionCount = 5

const skillQuestionCount = 3

// FallbackSkills stand in for the resume skills when none were extracted.
var FallbackSkills = []string{"JavaScript", "React", "TypeScript", "Node.js", "HTML", "CSS"}

type Question struct {
	ID            int    `json:"id"`
	Question      string `json:"question"`
	SkillToVerify string `json:"skill_to_verify"`
	Purpose       string `json:"purpose"`
}

var skillPurposes = [skillQuestionCount]string{
	"Technical depth assessment",
	"Architecture knowledge",
	"Practical application",
}

var skillQuestions = map[string]string{
	"React":      "Can you describe a challenging project where you used React, and how you structured the component hierarchy?",
	"JavaScript": "How do you typically handle state management in your frontend applications?",
	"CSS":        "Can you explain how you've implemented responsive designs in your previous work?",
}

const genericSkillQuestion = "Can you walk me through a project where you relied on %s, and what trade-offs you made along the way?"

var behavioralQuestions = []Question{
	{
		Question:      "Tell me about a time when you had to optimize a web application for performance. What approaches did you take?",
		SkillToVerify: "Performance Optimization",
		Purpose:       "Problem-solving assessment",
	},
	{
		Question:      "How do you approach learning new technologies in your field?",
		SkillToVerify: "Adaptability",
		Purpose:       "Learning capacity",
	},
}

// SkillsOf returns the skills to assess: the resume skills, or FallbackSkills
// when the resume lists none.
func SkillsOf(r resume.Parsed) []string {
	skills := search.DedupSkills(r.Skills)
	if len(skills) == 0 {
		return append([]string(nil), FallbackSkills...)
	}
	return skills
}

// GenerateQuestions builds QuestionCount questions: one per leading skill,
// padded from FallbackSkills, followed by the behavioral questions. The
// result depends only on the resume skills.
func GenerateQuestions(r resume.Parsed) []Question {
	skills := SkillsOf(r)

	picked := make([]string, 0, skillQuestionCount)
	seen := map[string]bool{}
	for _, pool := range [][]string{skills, FallbackSkills} {
		for _, s := range pool {
			if len(picked) == skillQuestionCount {
				break
			}
			if seen[s] {
				continue
			}
			seen[s] = true
			picked = append(picked, s)
		}
	}

	out := make([]Question, 0, QuestionCount)
	for i, s := range picked {
		text, ok := skillQuestions[s]
		if !ok {
			text = fmt.Sprintf(genericSkillQuestion, s)
		}
		out = append(out, Question{
			ID:            i + 1,
			Question:      text,
			SkillToVerify: s,
			Purpose:       skillPurposes[i],
		})
	}
	for _, q := range behavioralQuestions {
		q.ID = len(out) + 1
		out = append(out, q)
	}
	return out
}
