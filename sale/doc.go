// Package sale races a fixed number of buyers against one inventory.Counter and reports the result.
//
// A Sale spawns one goroutine per buyer, each making exactly one purchase attempt, waits for all of
// them, and only then reads the final counter pair. Every outcome is written as one line to the
// report writer, followed by the totals:
//
//	Buyer 3 got the ticket.!. Remaining Available Tickets: 19
//	Buyer 7 missed the ticket.
//	Total Available Tickets: 0
//	Total Sold Tickets: 20
//
// Buyer lines appear in completion order, which is not deterministic.
//
// Usage:
//
//	counter, _ := memengine.NewMutexCounter(20)
//	s, err := sale.NewSale(counter, sale.WithBuyerCount(30), sale.WithReportWriter(os.Stdout))
//	summary, err := s.Run(ctx)
package sale
