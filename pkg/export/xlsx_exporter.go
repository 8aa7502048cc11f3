package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	questionsSheet = "Questions"
	answersSheet   = "Answer Key"
)

// XLSXExporter writes the questions and the answer key to separate sheets.
type XLSXExporter struct{}

// NewXLSXExporter constructs an XLSX exporter.
func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

// Render creates the workbook for p.
func (e *XLSXExporter) Render(p Paper) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), questionsSheet); err != nil {
		return nil, fmt.Errorf("name questions sheet: %w", err)
	}
	if _, err := f.NewSheet(answersSheet); err != nil {
		return nil, fmt.Errorf("create answer sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	header := []interface{}{"No", "Question", "A", "B", "C", "D"}
	if err := f.SetSheetRow(questionsSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	answerHeader := []interface{}{"No", "Question ID", "Answer", "Answer Text"}
	if err := f.SetSheetRow(answersSheet, "A1", &answerHeader); err != nil {
		return nil, fmt.Errorf("write answer header: %w", err)
	}
	_ = f.SetCellStyle(questionsSheet, "A1", "F1", bold)
	_ = f.SetCellStyle(answersSheet, "A1", "D1", bold)

	for i, item := range p.Items {
		row := []interface{}{item.Number, item.Content}
		for j := 0; j < 4; j++ {
			opt := ""
			if j < len(item.Options) {
				opt = item.Options[j]
			}
			row = append(row, opt)
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(questionsSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write question %d: %w", item.Number, err)
		}

		answer := []interface{}{item.Number, item.QuestionID, strings.ToUpper(item.Answer), item.AnswerText}
		if err := f.SetSheetRow(answersSheet, cell, &answer); err != nil {
			return nil, fmt.Errorf("write answer %d: %w", item.Number, err)
		}
	}
	_ = f.SetColWidth(questionsSheet, "B", "B", 70)
	_ = f.SetColWidth(questionsSheet, "C", "F", 22)
	_ = f.SetColWidth(answersSheet, "B", "B", 14)
	_ = f.SetColWidth(answersSheet, "D", "D", 40)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
