package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func samplePaper() Paper {
	return Paper{
		Title:       "Kinematics drill",
		Description: "Chapter 4 warm-up",
		CreatedAt:   "2024-03-01T10:00:00.000Z",
		Items: []Item{
			{Number: 1, QuestionID: 49587, Content: "Unit of force?", Options: []string{"Joule", "Newton", "Watt", "Pascal"}, Answer: "b", AnswerText: "Newton"},
			{Number: 2, QuestionID: 49590, Content: "g near Earth, in m/s²?", Options: []string{"9.8", "8.9", "10.8", "1.0"}, Answer: "a", AnswerText: "9.8", HasDiagram: true},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	data, err := NewCSVExporter().Render(samplePaper())
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, csvHeader, records[0])
	assert.Equal(t, []string{"1", "49587", "Unit of force?", "Joule", "Newton", "Watt", "Pascal", "b"}, records[1])
}

func TestPDFExporterRender(t *testing.T) {
	data, err := NewPDFExporter().Render(samplePaper())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestXLSXExporterRender(t *testing.T) {
	data, err := NewXLSXExporter().Render(samplePaper())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close() //nolint:errcheck

	assert.Equal(t, []string{questionsSheet, answersSheet}, f.GetSheetList())

	questions, err := f.GetRows(questionsSheet)
	require.NoError(t, err)
	require.Len(t, questions, 3)
	assert.Equal(t, "Unit of force?", questions[1][1])

	answers, err := f.GetRows(answersSheet)
	require.NoError(t, err)
	assert.Equal(t, []string{"No", "Question ID", "Answer", "Answer Text"}, answers[0])
	assert.Equal(t, []string{"2", "49590", "A", "9.8"}, answers[2])
}
