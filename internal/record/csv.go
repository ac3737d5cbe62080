package record

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"time"
)

// encodeCSV renders one timestamp,value,exit_code row with standard CSV
// quoting. No header row is ever written, not even for a brand-new file.
func encodeCSV(o Outcome) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	err := w.Write([]string{
		o.Timestamp.Format(time.RFC3339),
		o.Value,
		strconv.Itoa(o.ExitCode),
	})
	if err != nil {
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
