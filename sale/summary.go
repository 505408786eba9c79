package sale

import (
	"errors"
	"io"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
)

// ErrWritingSummaryFailed is returned when the summary cannot be encoded or written.
var ErrWritingSummaryFailed = errors.New("writing the summary failed")

// Summary holds the aggregates of one finished sale.
type Summary struct {
	RunID     uuid.UUID     `json:"run_id"`
	Engine    string        `json:"engine"`
	Initial   int           `json:"initial"`
	Buyers    int           `json:"buyers"`
	Bought    int           `json:"bought"`
	Missed    int           `json:"missed"`
	Available int           `json:"available"`
	Sold      int           `json:"sold"`
	Duration  time.Duration `json:"duration_ns"`
}

// WriteJSON encodes the summary as one JSON object followed by a newline.
func (s Summary) WriteJSON(w io.Writer) error {
	data, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(s)
	if err != nil {
		return errors.Join(ErrWritingSummaryFailed, err)
	}

	if _, err = w.Write(append(data, '\n')); err != nil {
		return errors.Join(ErrWritingSummaryFailed, err)
	}

	return nil
}

// ReadSummary decodes a summary written by WriteJSON.
func ReadSummary(data []byte) (Summary, error) {
	var s Summary
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(data, &s); err != nil {
		return Summary{}, err
	}

	return s, nil
}
