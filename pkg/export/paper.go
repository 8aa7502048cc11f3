// Package export renders question papers into downloadable documents.
package export

import "fmt"

// Item is one numbered question on a paper.
type Item struct {
	Number     int
	QuestionID int64
	Content    string
	Options    []string
	Answer     string
	AnswerText string
	HasDiagram bool
}

// Paper is the renderer-facing view of an assembled paper.
type Paper struct {
	Title       string
	Description string
	CreatedAt   string
	Items       []Item
}

// Renderer turns a paper into file bytes.
type Renderer interface {
	Render(p Paper) ([]byte, error)
}

var optionLabels = []string{"A", "B", "C", "D"}

func optionLabel(i int) string {
	if i >= 0 && i < len(optionLabels) {
		return optionLabels[i]
	}
	return fmt.Sprintf("%d", i+1)
}
