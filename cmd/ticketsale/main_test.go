package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/ticketsale-go/sale"
)

func Test_Run_DefaultSale(t *testing.T) {
	for _, engineName := range []string{engineMutex, engineAtomic} {
		t.Run(engineName, func(t *testing.T) {
			// arrange
			var stdout, stderr bytes.Buffer

			// act
			code := run(context.Background(), []string{"-engine", engineName}, envFrom(nil), &stdout, &stderr)

			// assert
			require.Equal(t, exitOK, code, stderr.String())

			lines := strings.Split(strings.TrimSuffix(stdout.String(), "\n"), "\n")
			require.Len(t, lines, 32, "30 buyer lines and two totals")
			assert.Equal(t, "Total Available Tickets: 0", lines[30])
			assert.Equal(t, "Total Sold Tickets: 20", lines[31])
			assert.Equal(t, 20, strings.Count(stdout.String(), "got the ticket.!."))
			assert.Equal(t, 10, strings.Count(stdout.String(), "missed the ticket."))
			assert.Empty(t, stderr.String(), "nothing is logged at the default warn level")
		})
	}
}

func Test_Run_WritesTheSummaryFile(t *testing.T) {
	// arrange
	path := filepath.Join(t.TempDir(), "summary.json")
	var stdout, stderr bytes.Buffer

	// act
	code := run(context.Background(),
		[]string{"-tickets", "1", "-buyers", "100", "-summary-file", path},
		envFrom(nil), &stdout, &stderr)

	// assert
	require.Equal(t, exitOK, code, stderr.String())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	summary, err := sale.ReadSummary(data)
	require.NoError(t, err)
	assert.Equal(t, engineMutex, summary.Engine)
	assert.Equal(t, 1, summary.Bought)
	assert.Equal(t, 99, summary.Missed)
	assert.Equal(t, 0, summary.Available)
	assert.Equal(t, 1, summary.Sold)
}

func Test_Run_ExitsWithUsage_OnInvalidConfiguration(t *testing.T) {
	// arrange
	var stdout, stderr bytes.Buffer

	// act
	code := run(context.Background(), []string{"-engine", "sqlite"}, envFrom(nil), &stdout, &stderr)

	// assert
	assert.Equal(t, exitUsage, code)
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "invalid configuration")
}

func Test_Run_ExitsWithFatal_WhenTheSummaryCannotBeWritten(t *testing.T) {
	// arrange
	path := filepath.Join(t.TempDir(), "missing-dir", "summary.json")
	var stdout, stderr bytes.Buffer

	// act
	code := run(context.Background(), []string{"-summary-file", path}, envFrom(nil), &stdout, &stderr)

	// assert
	assert.Equal(t, exitFatal, code)
	assert.Contains(t, stderr.String(), "ticket sale failed")
}

func Test_Run_Help(t *testing.T) {
	// arrange
	var stdout, stderr bytes.Buffer

	// act
	code := run(context.Background(), []string{"-h"}, envFrom(nil), &stdout, &stderr)

	// assert
	assert.Equal(t, exitOK, code)
	assert.Contains(t, stderr.String(), "-engine")
}
