package report

import (
	"fmt"
	"io"
	"strconv"

	"schaledb/internal/models"
	"schaledb/internal/normalizer"
	"schaledb/pkg/utils"
)

// SkipTable renders one row per skipped entry. Reasons longer than
// maxReasonWidth columns are truncated.
func SkipTable(skips []normalizer.Skip, maxReasonWidth int) string {
	strs := utils.NewStringHelper()

	rows := make([][]string, 0, len(skips))
	for _, s := range skips {
		rows = append(rows, []string{
			strs.NormalizeWhitespace(s.Key),
			strconv.Itoa(s.Position),
			strs.TruncateString(strs.NormalizeWhitespace(s.Err.Error()), maxReasonWidth),
		})
	}

	return FormatTable([]string{"KEY", "POSITION", "REASON"}, rows)
}

// Write prints the summary header and, when anything was skipped, the table.
func Write(w io.Writer, kind models.Kind, total int, skips []normalizer.Skip, maxReasonWidth int) error {
	if _, err := fmt.Fprintf(w, "%s: %d of %d entries skipped\n", kind, len(skips), total); err != nil {
		return err
	}

	if len(skips) == 0 {
		return nil
	}

	_, err := fmt.Fprintln(w, SkipTable(skips, maxReasonWidth))

	return err
}
