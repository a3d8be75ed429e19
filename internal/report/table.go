// Package report renders the skipped-entry summary of a run.
package report

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// minColumnWidth keeps separator cells at least "---".
const minColumnWidth = 3

// FormatTable renders a markdown pipe table whose columns are padded to the
// terminal display width of their widest cell.
func FormatTable(header []string, rows [][]string) string {
	colCount := len(header)
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}

	if colCount == 0 {
		return ""
	}

	colWidths := make([]int, colCount)
	measure := func(row []string) {
		for i := 0; i < len(row) && i < colCount; i++ {
			if width := runewidth.StringWidth(row[i]); width > colWidths[i] {
				colWidths[i] = width
			}
		}
	}

	measure(header)

	for _, row := range rows {
		measure(row)
	}

	for i := range colWidths {
		if colWidths[i] < minColumnWidth {
			colWidths[i] = minColumnWidth
		}
	}

	lines := make([]string, 0, len(rows)+2)
	lines = append(lines, formatRow(header, colWidths, false))
	lines = append(lines, formatRow(nil, colWidths, true))

	for _, row := range rows {
		lines = append(lines, formatRow(row, colWidths, false))
	}

	return strings.Join(lines, "\n")
}

func formatRow(row []string, colWidths []int, isSeparator bool) string {
	var sb strings.Builder

	sb.WriteString("|")

	for j, width := range colWidths {
		sb.WriteString(" ")

		if isSeparator {
			sb.WriteString(strings.Repeat("-", width))
		} else {
			content := ""
			if j < len(row) {
				content = row[j]
			}

			sb.WriteString(content)

			if padding := width - runewidth.StringWidth(content); padding > 0 {
				sb.WriteString(strings.Repeat(" ", padding))
			}
		}

		sb.WriteString(" |")
	}

	return sb.String()
}
