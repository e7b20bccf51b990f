package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSkillExtractor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "languages and tools",
			text: "Backend engineer. Built services in Go and Python, deployed with Docker and Kubernetes on AWS.",
			want: []string{"Python", "Go", "AWS", "Docker", "Kubernetes"},
		},
		{
			name: "case insensitive for longer skills",
			text: "experience with postgresql, redis and graphql",
			want: []string{"PostgreSQL", "Redis", "GraphQL"},
		},
		{
			name: "short skills are case sensitive",
			text: "I like to go hiking and read books.",
			want: []string{},
		},
		{
			name: "no match inside longer words",
			text: "Worked at Google on Javascripting. Rusty at Perlin noise.",
			want: []string{},
		},
		{
			name: "symbols stay distinct",
			text: "C++ and C# developer, some C.",
			want: []string{"C", "C++", "C#"},
		},
		{
			name: "dotted names",
			text: "Frontend in Vue.js, backend on Node.js and Express.js.",
			want: []string{"Vue.js", "Node.js", "Express.js"},
		},
		{
			name: "multi word",
			text: "Focus on machine learning and computer vision; REST API design.",
			want: []string{"Machine Learning", "Computer Vision", "REST API"},
		},
	}

	extractor := NewSkillExtractor()
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, extractor.Extract(tt.text))
		})
	}
}

func TestMergeSkills(t *testing.T) {
	assert.Equal(t, []string{"Go", "Docker", "Rust"}, MergeSkills([]string{"Go", "Docker"}, []string{"go", "Rust", " "}))
}
