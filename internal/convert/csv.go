package convert

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// csvBatchSize groups data rows so each batch lands near one chunk.
const csvBatchSize = 20

// CSVConverter handles CSV files. Each batch of rows is emitted under its
// own heading line so row groups stay addressable after segmentation.
type CSVConverter struct{}

func (c *CSVConverter) Convert(r io.Reader, filename string) (string, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return "", fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return "", nil
	}

	// First row is headers.
	headers := records[0]
	dataRows := records[1:]

	var blocks []string
	for i := 0; i < len(dataRows); i += csvBatchSize {
		end := i + csvBatchSize
		if end > len(dataRows) {
			end = len(dataRows)
		}

		var text strings.Builder
		// 1-indexed row numbers, counting the header row.
		fmt.Fprintf(&text, "## Rows %d-%d\n", i+2, end+1)
		for _, row := range dataRows[i:end] {
			for j, cell := range row {
				if j < len(headers) {
					text.WriteString(headers[j] + ": " + cell)
				} else {
					text.WriteString(cell)
				}
				if j < len(row)-1 {
					text.WriteString(", ")
				}
			}
			text.WriteString("\n")
		}
		blocks = append(blocks, strings.TrimRight(text.String(), "\n"))
	}

	return strings.Join(blocks, "\n\n"), nil
}
