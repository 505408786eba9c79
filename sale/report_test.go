package sale_test

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/ticketsale-go/inventory"
	"github.com/AntonStoeckl/ticketsale-go/sale"
)

func Test_Reporter_WritesTheExactLines(t *testing.T) {
	// arrange
	var out bytes.Buffer
	reporter := sale.NewReporter(&out)

	// act
	require.NoError(t, reporter.Outcome(inventory.BoughtResult(4, 19)))
	require.NoError(t, reporter.Outcome(inventory.MissedResult(12)))
	require.NoError(t, reporter.Totals(inventory.Snapshot{Initial: 20, Available: 0, Sold: 20}))

	// assert
	assert.Equal(t,
		"Buyer 4 got the ticket.!. Remaining Available Tickets: 19\n"+
			"Buyer 12 missed the ticket.\n"+
			"Total Available Tickets: 0\n"+
			"Total Sold Tickets: 20\n",
		out.String())
}

func Test_Reporter_LinesFromConcurrentBuyers_DoNotInterleave(t *testing.T) {
	// arrange
	var out bytes.Buffer
	reporter := sale.NewReporter(&out)

	// act
	var wg sync.WaitGroup
	for i := range 200 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = reporter.Outcome(inventory.MissedResult(inventory.BuyerID(i)))
		}()
	}
	wg.Wait()

	// assert
	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	require.Len(t, lines, 200)
	for _, line := range lines {
		assert.Regexp(t, `^Buyer \d+ missed the ticket\.$`, line)
	}
}
