package sale_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/ticketsale-go/sale"
	"github.com/AntonStoeckl/ticketsale-go/testutil/helper"
)

func Test_Summary_WriteJSON(t *testing.T) {
	// arrange
	runID := helper.GivenUniqueRunID(t)
	summary := sale.Summary{
		RunID:     runID,
		Engine:    "postgres",
		Initial:   20,
		Buyers:    30,
		Bought:    20,
		Missed:    10,
		Available: 0,
		Sold:      20,
		Duration:  1500 * time.Microsecond,
	}

	var out bytes.Buffer

	// act
	err := summary.WriteJSON(&out)

	// assert
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"run_id": "`+runID.String()+`",
		"engine": "postgres",
		"initial": 20,
		"buyers": 30,
		"bought": 20,
		"missed": 10,
		"available": 0,
		"sold": 20,
		"duration_ns": 1500000
	}`, out.String())

	decoded, decodeErr := sale.ReadSummary(out.Bytes())
	require.NoError(t, decodeErr)
	assert.Equal(t, summary, decoded)
}

func Test_Summary_WriteJSON_When_TheWriterFails(t *testing.T) {
	// act
	err := sale.Summary{}.WriteJSON(failingWriter{})

	// assert
	assert.ErrorIs(t, err, sale.ErrWritingSummaryFailed)
}

func Test_ReadSummary_RejectsInvalidJSON(t *testing.T) {
	// act
	_, err := sale.ReadSummary([]byte(`{"bought":`))

	// assert
	assert.Error(t, err)
}
