package resume

import (
	"context"
	"io"
)

// NamePlaceholder is used when no candidate name can be recovered.
const NamePlaceholder = "Name not found"

type ContactInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type WorkExperience struct {
	Company          string   `json:"company"`
	Position         string   `json:"position"`
	Duration         string   `json:"duration"`
	Responsibilities []string `json:"responsibilities"`
}

type Education struct {
	Institution    string `json:"institution"`
	Degree         string `json:"degree"`
	GraduationYear string `json:"graduation_year"`
}

// Parsed is the structured form of a resume. Every field is always present;
// slices are empty rather than nil so the JSON shape stays stable.
type Parsed struct {
	ContactInfo    ContactInfo      `json:"contact_info"`
	Skills         []string         `json:"skills"`
	WorkExperience []WorkExperience `json:"work_experience"`
	Education      []Education      `json:"education"`
}

// Empty is the well-formed default returned when nothing can be extracted.
func Empty() Parsed {
	return Parsed{
		ContactInfo:    ContactInfo{Name: NamePlaceholder},
		Skills:         []string{},
		WorkExperience: []WorkExperience{},
		Education:      []Education{},
	}
}

// Normalize fills nil slices and the name placeholder in place.
func (p *Parsed) Normalize() {
	if p.ContactInfo.Name == "" {
		p.ContactInfo.Name = NamePlaceholder
	}
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.WorkExperience == nil {
		p.WorkExperience = []WorkExperience{}
	}
	for i := range p.WorkExperience {
		if p.WorkExperience[i].Responsibilities == nil {
			p.WorkExperience[i].Responsibilities = []string{}
		}
	}
	if p.Education == nil {
		p.Education = []Education{}
	}
}

// Extractor turns an uploaded document into plain text.
type Extractor interface {
	Extract(ctx context.Context, r io.Reader, mimeType string) (string, error)
}

// Parser turns plain text into a Parsed resume. It never fails; unparseable
// input yields Empty.
type Parser interface {
	Parse(text string) Parsed
}
