package sale

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/AntonStoeckl/ticketsale-go/inventory"
)

const (
	lineMissed         = "Buyer %s missed the ticket.\n"
	lineBought         = "Buyer %s got the ticket.!. Remaining Available Tickets: %d\n"
	lineTotalAvailable = "Total Available Tickets: %d\n"
	lineTotalSold      = "Total Sold Tickets: %d\n"
)

// Reporter writes the report lines of one sale. Lines from concurrent buyers never interleave.
type Reporter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewReporter creates a Reporter writing to w.
func NewReporter(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

// Outcome writes the line for one purchase result.
func (r *Reporter) Outcome(result inventory.PurchaseResult) error {
	if result.Outcome == inventory.Bought {
		return r.printf(lineBought, result.BuyerID, result.Remaining)
	}

	return r.printf(lineMissed, result.BuyerID)
}

// Totals writes the two total lines of the final state.
func (r *Reporter) Totals(snapshot inventory.Snapshot) error {
	return r.printf(lineTotalAvailable+lineTotalSold, snapshot.Available, snapshot.Sold)
}

func (r *Reporter) printf(format string, args ...any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := fmt.Fprintf(r.w, format, args...); err != nil {
		return errors.Join(ErrReportFailed, err)
	}

	return nil
}
