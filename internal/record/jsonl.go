package record

import (
	"encoding/json"
	"time"
)

// jsonRecord is the JSONL wire shape. Key names are a stable contract.
type jsonRecord struct {
	Timestamp string `json:"timestamp"`
	Value     string `json:"value"`
	ExitCode  int    `json:"exit_code"`
}

// encodeJSONL renders one compact JSON object followed by a newline.
func encodeJSONL(o Outcome) ([]byte, error) {
	b, err := json.Marshal(jsonRecord{
		Timestamp: o.Timestamp.Format(time.RFC3339),
		Value:     o.Value,
		ExitCode:  o.ExitCode,
	})
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}
