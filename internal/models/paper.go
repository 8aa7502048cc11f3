package models

import "time"

// CreatedAtLayout renders timestamps the way browsers render Date.toISOString.
const CreatedAtLayout = "2006-01-02T15:04:05.000Z"

// FormatCreatedAt renders t in UTC with CreatedAtLayout.
func FormatCreatedAt(t time.Time) string {
	return t.UTC().Format(CreatedAtLayout)
}

// Paper is an assembled set of questions owned by a user.
type Paper struct {
	ID          int64   `db:"id" json:"id"`
	Title       string  `db:"title" json:"title"`
	Description *string `db:"description" json:"description"`
	UserID      int64   `db:"user_id" json:"userId"`
	CreatedAt   string  `db:"created_at" json:"createdAt"`
}

// PaperQuestion links a question into a paper at a zero-based position.
type PaperQuestion struct {
	ID         int64 `db:"id" json:"id"`
	PaperID    int64 `db:"paper_id" json:"paperId"`
	QuestionID int64 `db:"question_id" json:"questionId"`
	OrderIndex int   `db:"order_index" json:"orderIndex"`
}

// PaperWithQuestions is a paper with its questions resolved in selection order.
type PaperWithQuestions struct {
	Paper
	Questions []Question `json:"questions"`
}
