package models

// Subject is a top-level area of study, e.g. PHYSICS.
type Subject struct {
	ID          int64   `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	Description *string `db:"description" json:"description,omitempty"`
}

// Chapter belongs to a subject and carries its display number.
type Chapter struct {
	ID          int64   `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	Number      int     `db:"number" json:"number"`
	SubjectID   int64   `db:"subject_id" json:"subjectId"`
	Description *string `db:"description" json:"description,omitempty"`
}

// Topic belongs to a chapter. Each chapter may carry an "All" topic row.
type Topic struct {
	ID          int64   `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	ChapterID   int64   `db:"chapter_id" json:"chapterId"`
	Description *string `db:"description" json:"description,omitempty"`
}

// QuestionType classifies a question's answer format.
type QuestionType struct {
	ID          int64   `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	Description *string `db:"description" json:"description,omitempty"`
}

// DifficultyLevel grades how hard a question is.
type DifficultyLevel struct {
	ID          int64   `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	Description *string `db:"description" json:"description,omitempty"`
}
