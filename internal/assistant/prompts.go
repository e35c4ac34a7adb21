package assistant

import (
	"strings"
	"text/template"
)

// DefaultLevel and DefaultQuizQuestions are the fixed parameters used when
// explain and quiz are requested through the API.
const (
	DefaultLevel         = "beginner"
	DefaultQuizQuestions = 3
)

var prompts = template.Must(template.New("prompts").Parse(`
{{define "question"}}A user is asking about video content they're watching.

Video Context: {{or .Context "No specific context provided"}}

User Question: {{.Question}}

Please provide a clear, concise answer that helps them understand the concept better.{{end}}

{{define "summary"}}Create a concise summary of a video with the following details:

Video Title: {{.Title}}
Context/Description: {{or .Context "No additional context provided"}}

The summary should be 3-5 bullet points covering the main topics.{{end}}

{{define "explain"}}Explain the following concept in {{.Level}}-friendly language:

Concept: {{.Concept}}

The explanation should be clear, use examples, and avoid heavy jargon.{{end}}

{{define "quiz"}}Create {{.Count}} quiz questions about this topic for learning reinforcement:

Topic: {{.Topic}}

Format each question with:
- Question number
- The question
- Multiple choice options (A, B, C, D)
- Correct answer

Make questions progressively harder.{{end}}

{{define "notes"}}Help organize and improve these study notes:

Video Title: {{.Title}}
Current Notes: {{.Notes}}

Please:
1. Reorganize for clarity
2. Add any missing key points
3. Suggest memory aids or mnemonics if helpful
4. Format as a clear outline{{end}}
`))

func render(name string, data any) (string, error) {
	var b strings.Builder
	if err := prompts.ExecuteTemplate(&b, name, data); err != nil {
		return "", err
	}
	return b.String(), nil
}
