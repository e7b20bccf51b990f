package services

import (
	"regexp"
	"unicode"
	"unicode/utf8"
)

// skillCatalog is the fixed vocabulary resume text is matched against.
var skillCatalog = []string{
	// Programming languages
	"Python", "Java", "C", "C++", "C#", "Go", "Rust", "Kotlin", "Swift", "PHP", "JavaScript", "TypeScript", "R", "Ruby", "MATLAB", "Perl",

	// Web
	"HTML", "CSS", "React", "Angular", "Vue.js", "Next.js", "Nuxt.js",
	"Node.js", "Express.js", "Django", "Flask", "Spring Boot", "Laravel", "ASP.NET",

	// Databases
	"SQL", "MySQL", "PostgreSQL", "SQLite", "MongoDB", "Redis", "Cassandra", "Elasticsearch", "Firebase",

	// Cloud and devops
	"AWS", "Azure", "Google Cloud", "GCP", "Docker", "Kubernetes", "Jenkins", "Terraform", "Ansible", "Git", "GitHub", "GitLab", "CI/CD",

	// Data and ML
	"Machine Learning", "Deep Learning", "Artificial Intelligence", "Data Science", "Computer Vision",
	"Natural Language Processing", "NLP", "TensorFlow", "Keras", "PyTorch", "Scikit-learn", "Pandas", "NumPy", "Matplotlib", "Seaborn",
	"Hugging Face", "OpenCV", "Transformers",

	// Big data
	"Hadoop", "Spark", "Kafka", "Tableau", "Power BI", "Excel",

	// Mobile
	"React Native", "Flutter", "Android", "iOS",

	// Security
	"Penetration Testing", "Ethical Hacking", "Cybersecurity", "Network Security", "Cryptography",

	// Concepts
	"Agile", "Scrum", "REST API", "GraphQL", "Microservices", "OOP", "Data Structures", "Algorithms",
}

type SkillExtractor interface {
	Extract(text string) []string
}

type skillMatcher struct {
	name    string
	pattern *regexp.Regexp
}

type skillExtractor struct {
	matchers []skillMatcher
}

// NewSkillExtractor builds a matcher for every catalog entry. Skills of one
// or two characters ("C", "Go", "R") are matched case-sensitively.
func NewSkillExtractor() SkillExtractor {
	e := &skillExtractor{}
	seen := make(map[string]bool)
	for _, skill := range skillCatalog {
		if seen[skill] {
			continue
		}
		seen[skill] = true

		flags := "(?i)"
		if utf8.RuneCountInString(skill) <= 2 {
			flags = ""
		}
		e.matchers = append(e.matchers, skillMatcher{
			name:    skill,
			pattern: regexp.MustCompile(flags + regexp.QuoteMeta(skill)),
		})
	}
	return e
}

// Extract returns the catalog skills found in text, in catalog order.
func (e *skillExtractor) Extract(text string) []string {
	found := []string{}
	for _, m := range e.matchers {
		for _, loc := range m.pattern.FindAllStringIndex(text, -1) {
			if boundaryBefore(text, loc[0]) && boundaryAfter(text, loc[1]) {
				found = append(found, m.name)
				break
			}
		}
	}
	return found
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '+' || r == '#'
}

func boundaryBefore(text string, start int) bool {
	if start == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:start])
	return !isWordRune(r)
}

// boundaryAfter treats a dot as a boundary only when it ends a sentence,
// so "Node" does not match inside "Node.js".
func boundaryAfter(text string, end int) bool {
	if end == len(text) {
		return true
	}
	r, size := utf8.DecodeRuneInString(text[end:])
	if r == '.' {
		next, _ := utf8.DecodeRuneInString(text[end+size:])
		return end+size == len(text) || !unicode.IsLetter(next)
	}
	return !isWordRune(r)
}

// MergeSkills appends extra to base, skipping case-insensitive duplicates.
func MergeSkills(base, extra []string) []string {
	return normalizeSkills(append(append([]string(nil), base...), extra...))
}

