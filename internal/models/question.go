package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// OptionCount is the number of answer options every question carries.
const OptionCount = 4

// optionLetters maps option positions to answer labels.
var optionLetters = [OptionCount]string{"a", "b", "c", "d"}

// Options holds the ordered answer options, persisted as a JSON array.
type Options []string

// Value marshals options to JSON for persistence.
func (o Options) Value() (driver.Value, error) {
	if o == nil {
		o = Options{}
	}
	data, err := json.Marshal([]string(o))
	if err != nil {
		return nil, fmt.Errorf("marshal question options: %w", err)
	}
	return data, nil
}

// Scan unmarshals a JSON array column into the options slice.
func (o *Options) Scan(value interface{}) error {
	if value == nil {
		*o = Options{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for Options", value)
	}
	var out []string
	if err := json.Unmarshal(data, &out); err != nil {
		return fmt.Errorf("unmarshal question options: %w", err)
	}
	*o = out
	return nil
}

// Question is a single multiple-choice item in the bank.
type Question struct {
	ID                int64   `db:"id" json:"id"`
	Content           string  `db:"content" json:"content"`
	Options           Options `db:"options" json:"options"`
	CorrectAnswer     string  `db:"correct_answer" json:"correctAnswer"`
	HasDiagram        bool    `db:"has_diagram" json:"hasDiagram"`
	DiagramSVG        *string `db:"diagram_svg" json:"diagramSvg,omitempty"`
	SubjectID         int64   `db:"subject_id" json:"subjectId"`
	ChapterID         int64   `db:"chapter_id" json:"chapterId"`
	TopicID           *int64  `db:"topic_id" json:"topicId"`
	DifficultyLevelID int64   `db:"difficulty_level_id" json:"difficultyLevelId"`
	QuestionTypeID    int64   `db:"question_type_id" json:"questionTypeId"`
}

// Clone returns a deep copy so callers never share slices or pointers with the store.
func (q Question) Clone() Question {
	out := q
	if q.Options != nil {
		out.Options = append(Options(nil), q.Options...)
	}
	if q.DiagramSVG != nil {
		svg := *q.DiagramSVG
		out.DiagramSVG = &svg
	}
	if q.TopicID != nil {
		topic := *q.TopicID
		out.TopicID = &topic
	}
	return out
}

// AnswerIndex maps an answer letter (case-insensitive) to its option index.
func AnswerIndex(letter string) (int, bool) {
	letter = strings.ToLower(strings.TrimSpace(letter))
	for i, l := range optionLetters {
		if l == letter {
			return i, true
		}
	}
	return -1, false
}

// CorrectOption returns the text of the correct option, or "" when the answer does not resolve.
func (q Question) CorrectOption() string {
	idx, ok := AnswerIndex(q.CorrectAnswer)
	if !ok || idx >= len(q.Options) {
		return ""
	}
	return q.Options[idx]
}
