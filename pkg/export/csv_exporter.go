package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
)

var csvHeader = []string{"number", "question_id", "content", "option_a", "option_b", "option_c", "option_d", "correct_answer"}

// CSVExporter writes one row per question, answer included.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces the CSV bytes for p.
func (e *CSVExporter) Render(p Paper) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, item := range p.Items {
		record := []string{strconv.Itoa(item.Number), strconv.FormatInt(item.QuestionID, 10), item.Content}
		for i := 0; i < 4; i++ {
			opt := ""
			if i < len(item.Options) {
				opt = item.Options[i]
			}
			record = append(record, opt)
		}
		record = append(record, strings.ToLower(item.Answer))
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row %d: %w", item.Number, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
