package resume

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "talent-match/internal/domain/resume"
)

const sampleResume = `Jane Smith
jane.smith@example.com | +1 (555) 123-4567

Skills
JavaScript, React, Node.js, TypeScript
Docker; PostgreSQL

Experience
Senior Developer at Acme Corp
Jan 2020 - Present
- Led the frontend team
- Built CI pipelines
Developer - Globex, 2017 - 2019
- Maintained APIs

Education
B.Sc. Computer Science, State University, 2016
`

func TestKeywordParser_FullResume(t *testing.T) {
	got := NewKeywordParser().Parse(sampleResume)

	assert.Equal(t, "Jane Smith", got.ContactInfo.Name)
	assert.Equal(t, "jane.smith@example.com", got.ContactInfo.Email)
	assert.Equal(t, "+1 (555) 123-4567", got.ContactInfo.Phone)

	assert.Equal(t, []string{"JavaScript", "React", "Node.js", "TypeScript", "Docker", "PostgreSQL"}, got.Skills)

	require.Len(t, got.WorkExperience, 2)
	assert.Equal(t, domain.WorkExperience{
		Company:          "Acme Corp",
		Position:         "Senior Developer",
		Duration:         "Jan 2020 - Present",
		Responsibilities: []string{"Led the frontend team", "Built CI pipelines"},
	}, got.WorkExperience[0])
	assert.Equal(t, "Globex", got.WorkExperience[1].Company)
	assert.Equal(t, "Developer", got.WorkExperience[1].Position)
	assert.Equal(t, "2017 - 2019", got.WorkExperience[1].Duration)

	require.Len(t, got.Education, 1)
	assert.Equal(t, domain.Education{
		Institution:    "State University",
		Degree:         "B.Sc. Computer Science",
		GraduationYear: "2016",
	}, got.Education[0])

	require.NoError(t, Validate(got))
}

func TestKeywordParser_DegenerateInput(t *testing.T) {
	for _, text := range []string{"", "   \n\n ", "random words without any structure"} {
		got := NewKeywordParser().Parse(text)

		assert.Equal(t, domain.NamePlaceholder, got.ContactInfo.Name, "text=%q", text)
		assert.NotNil(t, got.Skills)
		assert.Empty(t, got.Skills)
		assert.NotNil(t, got.WorkExperience)
		assert.NotNil(t, got.Education)
		assert.NoError(t, Validate(got))
	}
}

func TestKeywordParser_SkillsFromFreeText(t *testing.T) {
	got := NewKeywordParser().Parse("Someone who ships golang and k8s workloads with Docker and AWS")

	assert.Contains(t, got.Skills, "Docker")
	assert.Contains(t, got.Skills, "AWS")
	assert.Equal(t, domain.NamePlaceholder, got.ContactInfo.Name)
}

func TestValidateUpload(t *testing.T) {
	const max = 5 * 1024 * 1024

	assert.NoError(t, ValidateUpload("cv.pdf", "application/pdf", 1024, max))
	assert.NoError(t, ValidateUpload("cv.PDF", "", 1024, max))
	assert.ErrorIs(t, ValidateUpload("cv.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", 1024, max), ErrUnsupportedType)
	assert.ErrorIs(t, ValidateUpload("cv.pdf", "application/pdf", max+1, max), ErrTooLarge)
	assert.NoError(t, ValidateUpload("cv.pdf", "application/pdf", max, max))
	assert.ErrorIs(t, ValidateUpload("cv.pdf", "application/pdf", 0, max), ErrEmptyDocument)
}

func TestSniffPDF(t *testing.T) {
	assert.NoError(t, SniffPDF([]byte("%PDF-1.7\n...")))
	assert.ErrorIs(t, SniffPDF([]byte("PK\x03\x04 zip")), ErrUnsupportedType)
	assert.ErrorIs(t, SniffPDF(nil), ErrEmptyDocument)
}

func TestReadLimited(t *testing.T) {
	b, err := ReadLimited(strings.NewReader("12345"), 5)
	require.NoError(t, err)
	assert.Equal(t, "12345", string(b))

	_, err = ReadLimited(strings.NewReader("123456"), 5)
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestStaticExtractor(t *testing.T) {
	text, err := StaticExtractor{Text: "hello"}.Extract(context.Background(), bytes.NewReader([]byte("x")), MimePDF)
	require.NoError(t, err)
	assert.Equal(t, "hello", text)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = StaticExtractor{Text: "hello"}.Extract(ctx, bytes.NewReader(nil), MimePDF)
	assert.ErrorIs(t, err, context.Canceled)
}
