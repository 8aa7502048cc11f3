package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	appErrors "github.com/noah-isme/exam-prep-api/pkg/errors"
)

// workbookColumns is the header row of an import workbook, in template order.
var workbookColumns = []string{"content", "option_a", "option_b", "option_c", "option_d", "correct_answer",
	"has_diagram", "diagram_svg", "subject_id", "chapter_id", "topic_id", "difficulty_level_id", "question_type_id"}

// has_diagram, diagram_svg and topic_id may be omitted.
var workbookRequired = []string{"content", "option_a", "option_b", "option_c", "option_d", "correct_answer",
	"subject_id", "chapter_id", "difficulty_level_id", "question_type_id"}

// ImportTemplate renders an empty workbook with the header row and one example row.
func ImportTemplate() ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	example := []interface{}{"A ball is dropped from rest. Its speed after 2 s is:", "9.8 m/s", "19.6 m/s", "4.9 m/s", "39.2 m/s", "b",
		false, "", 1, 1, "", 1, 1}
	for i, h := range workbookColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
		cell, _ = excelize.CoordinatesToCellName(i+1, 2)
		_ = f.SetCellValue(sheet, cell, example[i])
	}
	_ = f.SetColWidth(sheet, "A", "A", 60)
	_ = f.SetColWidth(sheet, "B", "M", 18)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write import template: %w", err)
	}
	return buf.Bytes(), nil
}

// ImportWorkbook reads the first sheet of an xlsx workbook and imports its rows.
// Row numbers in the report are spreadsheet row numbers (the header is row 1).
func (s *QuestionService) ImportWorkbook(ctx context.Context, r io.Reader) (*ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Invalid workbook")
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Invalid workbook")
	}
	if len(rows) < 2 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "No questions to import")
	}

	header := map[string]int{}
	for i, h := range rows[0] {
		header[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range workbookRequired {
		if _, ok := header[col]; !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, "Missing required column: "+col)
		}
	}

	var parsed []importRow
	var rejected []ImportRowError
	for i := 1; i < len(rows); i++ {
		rowNo := i + 1
		row := rows[i]
		get := func(key string) string {
			idx, ok := header[key]
			if !ok || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}
		if blankRow(row) {
			continue
		}

		q, err := workbookQuestion(get)
		if err != nil {
			rejected = append(rejected, ImportRowError{Row: rowNo, Error: err.Error()})
			continue
		}
		parsed = append(parsed, importRow{number: rowNo, question: q})
	}

	return s.importRows(ctx, parsed, rejected)
}

func workbookQuestion(get func(string) string) (ImportQuestion, error) {
	q := ImportQuestion{
		Content:       get("content"),
		Options:       []string{get("option_a"), get("option_b"), get("option_c"), get("option_d")},
		CorrectAnswer: get("correct_answer"),
	}

	var err error
	if raw := get("has_diagram"); raw != "" {
		if q.HasDiagram, err = strconv.ParseBool(strings.ToLower(raw)); err != nil {
			return q, fmt.Errorf("has_diagram: %q is not a boolean", raw)
		}
	}
	if svg := get("diagram_svg"); svg != "" {
		q.DiagramSVG = &svg
	}

	ids := []struct {
		column string
		dest   *int64
	}{
		{"subject_id", &q.SubjectID},
		{"chapter_id", &q.ChapterID},
		{"difficulty_level_id", &q.DifficultyLevelID},
		{"question_type_id", &q.QuestionTypeID},
	}
	for _, field := range ids {
		if *field.dest, err = parseCellID(field.column, get(field.column)); err != nil {
			return q, err
		}
	}
	if raw := get("topic_id"); raw != "" {
		topic, err := parseCellID("topic_id", raw)
		if err != nil {
			return q, err
		}
		q.TopicID = &topic
	}
	return q, nil
}

func parseCellID(column, raw string) (int64, error) {
	if raw == "" {
		return 0, fmt.Errorf("%s: required", column)
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not an integer", column, raw)
	}
	return v, nil
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
