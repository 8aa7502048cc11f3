package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// AnswerSheet maps question ids to the chosen option letter. Persisted as JSONB.
type AnswerSheet map[int64]string

// Value marshals the sheet to JSON for persistence.
func (a AnswerSheet) Value() (driver.Value, error) {
	if a == nil {
		a = AnswerSheet{}
	}
	data, err := json.Marshal(map[int64]string(a))
	if err != nil {
		return nil, fmt.Errorf("marshal answer sheet: %w", err)
	}
	return data, nil
}

// Scan unmarshals a JSON object column into the sheet.
func (a *AnswerSheet) Scan(value interface{}) error {
	if value == nil {
		*a = AnswerSheet{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for AnswerSheet", value)
	}
	out := map[int64]string{}
	if err := json.Unmarshal(data, &out); err != nil {
		return fmt.Errorf("unmarshal answer sheet: %w", err)
	}
	*a = out
	return nil
}

// Attempt is a scored mock-test submission against a paper.
type Attempt struct {
	ID          int64       `db:"id" json:"id"`
	PaperID     int64       `db:"paper_id" json:"paperId"`
	UserID      int64       `db:"user_id" json:"userId"`
	Answers     AnswerSheet `db:"answers" json:"answers"`
	Correct     int         `db:"correct" json:"correct"`
	Incorrect   int         `db:"incorrect" json:"incorrect"`
	Unanswered  int         `db:"unanswered" json:"unanswered"`
	Total       int         `db:"total" json:"total"`
	Score       float64     `db:"score" json:"score"`
	SubmittedAt string      `db:"submitted_at" json:"submittedAt"`
}

// QuestionResult is the per-question outcome of an attempt.
type QuestionResult struct {
	QuestionID    int64  `json:"questionId"`
	Selected      string `json:"selected,omitempty"`
	CorrectAnswer string `json:"correctAnswer"`
	IsCorrect     bool   `json:"isCorrect"`
}

// AttemptResult is returned right after scoring.
type AttemptResult struct {
	Attempt
	Results []QuestionResult `json:"results"`
}
