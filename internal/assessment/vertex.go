package assessment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"cloud.google.com/go/vertexai/genai"

	"talent-match/internal/domain/candidate"
	"talent-match/internal/domain/resume"
	"talent-match/internal/pkg/jsonschema"
)

var ErrModelOutput = errors.New("assessment model returned unusable output")

const maxSkillGaps = 5

var outputSchema = jsonschema.MustCompile(`{
	"type": "object",
	"required": ["verified_skills", "skill_gaps", "overall_score", "summary"],
	"properties": {
		"verified_skills": {
			"type": "object",
			"additionalProperties": {"type": "number", "minimum": 0, "maximum": 1}
		},
		"skill_gaps": {"type": "array", "items": {"type": "string"}},
		"overall_score": {"type": "number", "minimum": 0, "maximum": 10},
		"summary": {"type": "string", "minLength": 1}
	}
}`)

// Generator is the text-in, text-out surface of a language model.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// VertexEngine asks a Gemini model for the assessment and coerces the reply
// into the Engine contract: JSON shape validated, confidences clamped into
// [MinConfidence, MaxConfidence], score clamped into [MinOverallScore,
// MaxOverallScore] and missing skills filled with MinConfidence.
type VertexEngine struct {
	gen    Generator
	logger *log.Logger
}

func NewVertexEngine(gen Generator, logger *log.Logger) *VertexEngine {
	if logger == nil {
		logger = log.Default()
	}
	return &VertexEngine{gen: gen, logger: logger}
}

func (e *VertexEngine) Assess(ctx context.Context, r resume.Parsed, t Transcript) (candidate.Assessment, error) {
	skills := SkillsOf(r)

	raw, err := e.gen.Generate(ctx, buildPrompt(skills, t))
	if err != nil {
		return candidate.Assessment{}, err
	}

	body := stripFences(raw)
	if err := outputSchema.ValidateBytes([]byte(body)); err != nil {
		e.logger.Printf("level=warn msg=assessment_model_output_invalid err=%q", err.Error())
		return candidate.Assessment{}, fmt.Errorf("%w: %v", ErrModelOutput, err)
	}

	var out candidate.Assessment
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		return candidate.Assessment{}, fmt.Errorf("%w: %v", ErrModelOutput, err)
	}
	return coerce(out, skills), nil
}

func coerce(a candidate.Assessment, skills []string) candidate.Assessment {
	verified := make(map[string]float64, len(skills))
	for _, s := range skills {
		c, ok := lookupFold(a.VerifiedSkills, s)
		if !ok {
			c = MinConfidence
		}
		verified[s] = round2(clamp(c, MinConfidence, MaxConfidence))
	}

	gaps := make([]string, 0, len(a.SkillGaps))
	for _, g := range a.SkillGaps {
		if g = strings.TrimSpace(g); g != "" {
			gaps = append(gaps, g)
		}
		if len(gaps) == maxSkillGaps {
			break
		}
	}

	return candidate.Assessment{
		VerifiedSkills: verified,
		SkillGaps:      gaps,
		OverallScore:   round1(clamp(a.OverallScore, MinOverallScore, MaxOverallScore)),
		Summary:        strings.TrimSpace(a.Summary),
	}
}

func lookupFold(m map[string]float64, key string) (float64, bool) {
	if v, ok := m[key]; ok {
		return v, true
	}
	for k, v := range m {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return 0, false
}

func buildPrompt(skills []string, t Transcript) string {
	var b strings.Builder
	b.WriteString("You are assessing a job candidate's claimed skills from an interview transcript.\n")
	b.WriteString("Claimed skills: ")
	b.WriteString(strings.Join(skills, ", "))
	b.WriteString("\n\nTranscript:\n")
	for _, m := range t {
		fmt.Fprintf(&b, "%s: %s\n", m.Role, m.Text)
	}
	b.WriteString(`
Reply with JSON only, no prose, using exactly this shape:
{"verified_skills": {"<skill>": <confidence 0..1>}, "skill_gaps": ["<gap>"], "overall_score": <0..10>, "summary": "<two or three sentences>"}
Include every claimed skill in verified_skills. List at most 5 skill gaps.`)
	return b.String()
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// VertexGenerator calls a Gemini model through the Vertex AI SDK.
type VertexGenerator struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewVertexGenerator(ctx context.Context, project, location, model string) (*VertexGenerator, error) {
	client, err := genai.NewClient(ctx, project, location)
	if err != nil {
		return nil, fmt.Errorf("create vertex client: %w", err)
	}

	m := client.GenerativeModel(model)
	m.SetTemperature(0.2)
	m.SetTopK(40)
	m.SetTopP(0.95)
	m.SetMaxOutputTokens(2048)
	m.ResponseMIMEType = "application/json"

	return &VertexGenerator{client: client, model: m}, nil
}

func (g *VertexGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("%w: no candidates", ErrModelOutput)
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return b.String(), nil
}

func (g *VertexGenerator) Close() error {
	return g.client.Close()
}
