package search

import (
	"regexp"
	"sort"
	"strings"
)

// skillAliases maps a normalized spelling to its canonical skill name.
var skillAliases = map[string]string{
	"javascript": "JavaScript", "js": "JavaScript", "es6": "JavaScript", "ecmascript": "JavaScript",
	"typescript": "TypeScript", "ts": "TypeScript",
	"react": "React", "reactjs": "React", "react.js": "React",
	"react native": "React Native",
	"node": "Node.js", "nodejs": "Node.js", "node.js": "Node.js",
	"express": "Express", "expressjs": "Express", "express.js": "Express",
	"next.js": "Next.js", "nextjs": "Next.js",
	"vue": "Vue.js", "vuejs": "Vue.js", "vue.js": "Vue.js",
	"angular": "Angular", "angularjs": "Angular",
	"html": "HTML", "html5": "HTML",
	"css": "CSS", "css3": "CSS",
	"tailwind": "Tailwind CSS", "tailwindcss": "Tailwind CSS", "tailwind css": "Tailwind CSS",
	"sass": "Sass", "scss": "Sass",
	"go": "Go", "golang": "Go",
	"python": "Python", "java": "Java", "kotlin": "Kotlin", "swift": "Swift",
	"c++": "C++", "cpp": "C++", "c#": "C#", "csharp": "C#", ".net": ".NET", "dotnet": ".NET",
	"php": "PHP", "ruby": "Ruby", "rust": "Rust", "scala": "Scala",
	"django": "Django", "flask": "Flask", "spring": "Spring", "spring boot": "Spring Boot",
	"sql": "SQL", "mysql": "MySQL", "postgres": "PostgreSQL", "postgresql": "PostgreSQL",
	"mongodb": "MongoDB", "mongo": "MongoDB", "redis": "Redis", "graphql": "GraphQL",
	"docker": "Docker", "kubernetes": "Kubernetes", "k8s": "Kubernetes",
	"aws": "AWS", "amazon web services": "AWS", "azure": "Azure", "gcp": "GCP", "google cloud": "GCP",
	"git": "Git", "github": "GitHub", "ci/cd": "CI/CD", "cicd": "CI/CD", "ci cd": "CI/CD",
	"rest": "RESTful APIs", "rest api": "RESTful APIs", "rest apis": "RESTful APIs",
	"restful api": "RESTful APIs", "restful apis": "RESTful APIs",
	"jest": "Jest", "mocha": "Mocha", "cypress": "Cypress",
	"agile": "Agile", "scrum": "Scrum", "jira": "Jira",
	"figma": "Figma", "linux": "Linux",
	"machine learning": "Machine Learning", "ml": "Machine Learning",
	"data analysis": "Data Analysis", "tensorflow": "TensorFlow", "pytorch": "PyTorch",
	"redux": "Redux", "webpack": "Webpack",
}

// catalog is the subset of aliases worth scanning free text for. Short or
// ambiguous spellings (go, ts, js, ml, rest) are excluded to avoid noise.
var catalog = buildCatalog()

func buildCatalog() []catalogEntry {
	skip := map[string]bool{"go": true, "ts": true, "js": true, "ml": true, "rest": true, "node": true, "spring": true, "express": true}
	out := make([]catalogEntry, 0, len(skillAliases))
	for alias, canon := range skillAliases {
		if skip[alias] {
			continue
		}
		out = append(out, catalogEntry{
			canonical: canon,
			re:        regexp.MustCompile(`(?i)(^|[^a-z0-9+#.])` + regexp.QuoteMeta(alias) + `($|[^a-z0-9+#])`),
		})
	}
	return out
}

type catalogEntry struct {
	canonical string
	re        *regexp.Regexp
}

func lookupAlias(normalized string) (string, bool) {
	c, ok := skillAliases[normalized]
	return c, ok
}

// CanonicalSkill maps a skill spelling onto its canonical name. Unknown skills
// are returned trimmed with inner whitespace collapsed.
func CanonicalSkill(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return ""
	}
	if c, ok := lookupAlias(strings.ToLower(s)); ok {
		return c
	}
	if c, ok := lookupAlias(NormalizeQuery(s)); ok {
		return c
	}
	return s
}

// SameSkill compares two skill spellings after canonicalization, ignoring case.
func SameSkill(a, b string) bool {
	return strings.EqualFold(CanonicalSkill(a), CanonicalSkill(b))
}

// DedupSkills canonicalizes every entry and drops blanks and case-insensitive
// duplicates, keeping first-seen order.
func DedupSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	seen := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		c := CanonicalSkill(s)
		if c == "" {
			continue
		}
		k := strings.ToLower(c)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, c)
	}
	return out
}

// ScanSkills returns the canonical skills from the catalog that occur in text.
// The result order follows first occurrence in text.
func ScanSkills(text string) []string {
	if strings.TrimSpace(text) == "" {
		return []string{}
	}
	type hit struct {
		pos   int
		skill string
	}
	hits := make([]hit, 0, 8)
	for _, e := range catalog {
		loc := e.re.FindStringIndex(text)
		if loc == nil {
			continue
		}
		hits = append(hits, hit{pos: loc[0], skill: e.canonical})
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].pos != hits[j].pos {
			return hits[i].pos < hits[j].pos
		}
		return hits[i].skill < hits[j].skill
	})
	names := make([]string, len(hits))
	for i, h := range hits {
		names[i] = h.skill
	}
	return DedupSkills(names)
}
