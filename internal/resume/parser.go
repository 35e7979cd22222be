package resume

import (
	"regexp"
	"strings"
	"unicode"

	domain "talent-match/internal/domain/resume"
	"talent-match/internal/pkg/jsonschema"
	"talent-match/internal/search"
)

type section int

const (
	sectionNone section = iota
	sectionSkills
	sectionExperience
	sectionEducation
	sectionOther
)

var headers = map[string]section{
	"skills":                  sectionSkills,
	"technical skills":        sectionSkills,
	"core skills":             sectionSkills,
	"core competencies":       sectionSkills,
	"technologies":            sectionSkills,
	"experience":              sectionExperience,
	"work experience":         sectionExperience,
	"professional experience": sectionExperience,
	"employment":              sectionExperience,
	"employment history":      sectionExperience,
	"work history":            sectionExperience,
	"education":               sectionEducation,
	"academic background":     sectionEducation,
	"projects":                sectionOther,
	"certifications":          sectionOther,
	"summary":                 sectionOther,
	"profile":                 sectionOther,
	"objective":               sectionOther,
	"languages":               sectionOther,
	"interests":               sectionOther,
	"references":              sectionOther,
}

var (
	emailRe    = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	phoneRe    = regexp.MustCompile(`\+?\(?\d[\d\s().-]{6,}\d`)
	yearRe     = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	durationRe = regexp.MustCompile(`(?i)((?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+)?(19|20)\d{2}\s*(?:-|–|to)\s*((?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+)?((19|20)\d{2}|present|current|now)`)
	bulletRe   = regexp.MustCompile(`^\s*(?:[-*•▪◦·]|\d+[.)])\s+`)
	schoolRe   = regexp.MustCompile(`(?i)\b(university|college|institute|school|academy|polytechnic)\b`)
	skillSepRe = regexp.MustCompile(`\s*[,;|•·]\s*`)
)

var schema = jsonschema.MustCompile(parsedSchema)

const parsedSchema = `{
	"type": "object",
	"required": ["contact_info", "skills", "work_experience", "education"],
	"properties": {
		"contact_info": {
			"type": "object",
			"required": ["name", "email", "phone"],
			"properties": {
				"name": {"type": "string", "minLength": 1},
				"email": {"type": "string"},
				"phone": {"type": "string"}
			}
		},
		"skills": {"type": "array", "items": {"type": "string", "minLength": 1}},
		"work_experience": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["company", "position", "duration", "responsibilities"],
				"properties": {
					"responsibilities": {"type": "array", "items": {"type": "string"}}
				}
			}
		},
		"education": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["institution", "degree", "graduation_year"]
			}
		}
	}
}`

// KeywordParser is a heuristic line-oriented parser. It recognizes common
// section headings, pulls contact details with regular expressions and scans
// the whole text for known skills.
type KeywordParser struct{}

func NewKeywordParser() *KeywordParser { return &KeywordParser{} }

func (p *KeywordParser) Parse(text string) domain.Parsed {
	out := domain.Empty()

	lines := splitLines(text)
	if len(lines) == 0 {
		return out
	}

	out.ContactInfo.Email = emailRe.FindString(text)
	out.ContactInfo.Phone = strings.TrimSpace(findPhone(lines))
	if name := guessName(lines); name != "" {
		out.ContactInfo.Name = name
	}

	var (
		current    = sectionNone
		skillLines []string
		expLines   []string
		eduLines   []string
	)
	for _, l := range lines {
		if s, ok := headerOf(l); ok {
			current = s
			continue
		}
		switch current {
		case sectionSkills:
			skillLines = append(skillLines, l)
		case sectionExperience:
			expLines = append(expLines, l)
		case sectionEducation:
			eduLines = append(eduLines, l)
		}
	}

	listed := make([]string, 0, 16)
	for _, l := range skillLines {
		l = bulletRe.ReplaceAllString(l, "")
		if i := strings.Index(l, ":"); i >= 0 && i < 30 {
			l = l[i+1:]
		}
		for _, s := range skillSepRe.Split(l, -1) {
			s = strings.TrimSpace(s)
			if s != "" && len(s) <= 40 {
				listed = append(listed, s)
			}
		}
	}
	out.Skills = search.DedupSkills(append(listed, search.ScanSkills(text)...))
	out.WorkExperience = parseExperience(expLines)
	out.Education = parseEducation(eduLines)

	out.Normalize()
	if err := schema.ValidateGo(out); err != nil {
		return domain.Empty()
	}
	return out
}

// Validate checks a parsed resume against the stored JSON shape.
func Validate(p domain.Parsed) error {
	return schema.ValidateGo(p)
}

func splitLines(text string) []string {
	raw := strings.FieldsFunc(text, func(r rune) bool { return r == '\n' || r == '\r' })
	out := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.Join(strings.Fields(l), " ")
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}

func headerOf(line string) (section, bool) {
	if len(line) > 40 {
		return sectionNone, false
	}
	key := strings.ToLower(strings.TrimRight(strings.TrimSpace(line), ":"))
	s, ok := headers[key]
	return s, ok
}

func findPhone(lines []string) string {
	for _, l := range lines {
		if _, ok := headerOf(l); ok {
			continue
		}
		for _, m := range phoneRe.FindAllString(l, -1) {
			if yearRe.MatchString(m) && durationRe.MatchString(l) {
				continue
			}
			digits := 0
			for _, r := range m {
				if unicode.IsDigit(r) {
					digits++
				}
			}
			if digits >= 7 && digits <= 15 {
				return m
			}
		}
	}
	return ""
}

// guessName takes the first short line of plain words near the top that is not
// a heading or contact detail.
func guessName(lines []string) string {
	limit := min(len(lines), 5)
	for _, l := range lines[:limit] {
		if _, ok := headerOf(l); ok {
			return ""
		}
		if emailRe.MatchString(l) || phoneRe.MatchString(l) {
			continue
		}
		words := strings.Fields(l)
		if len(words) < 2 || len(words) > 4 {
			continue
		}
		ok := true
		for _, w := range words {
			for _, r := range w {
				if !unicode.IsLetter(r) && r != '.' && r != '-' && r != '\'' {
					ok = false
					break
				}
			}
			if !ok {
				break
			}
			if first := []rune(w)[0]; !unicode.IsUpper(first) {
				ok = false
				break
			}
		}
		if ok {
			return l
		}
	}
	return ""
}

func parseExperience(lines []string) []domain.WorkExperience {
	out := []domain.WorkExperience{}
	var cur *domain.WorkExperience

	flush := func() {
		if cur != nil && (cur.Company != "" || cur.Position != "") {
			out = append(out, *cur)
		}
		cur = nil
	}

	for _, l := range lines {
		if bulletRe.MatchString(l) {
			if cur == nil {
				continue
			}
			if r := strings.TrimSpace(bulletRe.ReplaceAllString(l, "")); r != "" {
				cur.Responsibilities = append(cur.Responsibilities, r)
			}
			continue
		}

		duration := durationRe.FindString(l)
		rest := strings.TrimSpace(strings.Trim(strings.Replace(l, duration, "", 1), " ,|-–()"))

		// A bare date line belongs to the entry above it.
		if rest == "" && duration != "" && cur != nil && cur.Duration == "" {
			cur.Duration = duration
			continue
		}

		flush()
		position, company := splitRole(rest)
		cur = &domain.WorkExperience{
			Position:         position,
			Company:          company,
			Duration:         duration,
			Responsibilities: []string{},
		}
	}
	flush()
	return out
}

// splitRole understands "Position at Company", "Position - Company",
// "Position | Company" and "Position, Company".
func splitRole(s string) (position, company string) {
	for _, sep := range []string{" at ", " @ ", " | ", " - ", " – ", ", "} {
		if i := strings.Index(s, sep); i > 0 {
			return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+len(sep):])
		}
	}
	return strings.TrimSpace(s), ""
}

func parseEducation(lines []string) []domain.Education {
	out := []domain.Education{}
	for _, l := range lines {
		l = strings.TrimSpace(bulletRe.ReplaceAllString(l, ""))
		if l == "" {
			continue
		}
		year := ""
		if ys := yearRe.FindAllString(l, -1); len(ys) > 0 {
			year = ys[len(ys)-1]
		}
		stripped := strings.TrimSpace(strings.Trim(yearRe.ReplaceAllString(l, ""), " ,|-–()"))
		parts := splitAny(stripped, []string{" | ", " - ", " – ", ", ", " at "})

		var edu domain.Education
		edu.GraduationYear = year
		for _, part := range parts {
			part = strings.Trim(strings.TrimSpace(part), "(),-–")
			if part == "" {
				continue
			}
			if edu.Institution == "" && schoolRe.MatchString(part) {
				edu.Institution = part
				continue
			}
			if edu.Degree == "" {
				edu.Degree = part
			}
		}
		if edu.Institution == "" && edu.Degree == "" {
			continue
		}
		// A line that only names a school extends the previous degree line.
		if edu.Degree == "" && len(out) > 0 && out[len(out)-1].Institution == "" {
			prev := &out[len(out)-1]
			prev.Institution = edu.Institution
			if prev.GraduationYear == "" {
				prev.GraduationYear = edu.GraduationYear
			}
			continue
		}
		out = append(out, edu)
	}
	return out
}

func splitAny(s string, seps []string) []string {
	parts := []string{s}
	for _, sep := range seps {
		next := make([]string, 0, len(parts))
		for _, p := range parts {
			next = append(next, strings.Split(p, sep)...)
		}
		parts = next
	}
	return parts
}
