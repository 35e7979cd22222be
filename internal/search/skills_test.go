package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeQuery(t *testing.T) {
	cases := map[string]string{
		"  React  JS ": "react js",
		"Node.js":      "node.js",
		"C++ / C#":     "c++ c#",
		"front-end":    "front end",
		"":             "",
		"!!!":          "",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeQuery(in), in)
	}
}

func TestCanonicalSkill(t *testing.T) {
	assert.Equal(t, "JavaScript", CanonicalSkill("js"))
	assert.Equal(t, "Node.js", CanonicalSkill("NodeJS"))
	assert.Equal(t, "PostgreSQL", CanonicalSkill(" postgres "))
	assert.Equal(t, "Kubernetes", CanonicalSkill("k8s"))
	assert.Equal(t, "Elixir Phoenix", CanonicalSkill("  Elixir   Phoenix "))
	assert.Equal(t, "", CanonicalSkill("   "))
}

func TestSameSkill(t *testing.T) {
	assert.True(t, SameSkill("react", "ReactJS"))
	assert.True(t, SameSkill("Go", "golang"))
	assert.False(t, SameSkill("Java", "JavaScript"))
}

func TestDedupSkills(t *testing.T) {
	got := DedupSkills([]string{"react", "React.js", "", "TypeScript", "ts", "Docker"})
	assert.Equal(t, []string{"React", "TypeScript", "Docker"}, got)
}

func TestScanSkills(t *testing.T) {
	text := "Built services in Node.js and TypeScript.\nDeployed with Docker on AWS; data in PostgreSQL. JavaScript everywhere."
	got := ScanSkills(text)

	assert.Equal(t, []string{"Node.js", "TypeScript", "Docker", "AWS", "PostgreSQL", "JavaScript"}, got)
}

func TestScanSkills_WordBoundaries(t *testing.T) {
	got := ScanSkills("Worked with MySQL and JavaScript")
	assert.NotContains(t, got, "SQL")
	assert.NotContains(t, got, "Java")
	assert.Contains(t, got, "MySQL")
}

