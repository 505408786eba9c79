package sale

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/AntonStoeckl/ticketsale-go/inventory"
	"github.com/AntonStoeckl/ticketsale-go/inventory/observable"
)

const (
	// DefaultBuyerCount is the number of buyers when nothing else is configured.
	DefaultBuyerCount = 30

	defaultEngineName = "unknown"

	logMsgRunStarted    = "sale started"
	logMsgRunFinished   = "sale finished"
	logMsgRunFailed     = "sale failed"
	logMsgBuyerPanicked = "buyer panicked"
	logAttrInitial      = "initial"
	logAttrAvailable    = "available"
	logAttrSold         = "sold"
)

// Sale races a fixed number of buyers against one shared counter.
type Sale struct {
	counter          inventory.Counter
	buyerCount       int
	engine           string
	runID            uuid.UUID
	reporter         *Reporter
	logger           inventory.Logger
	contextualLogger inventory.ContextualLogger
	metricsCollector inventory.MetricsCollector
	tracingCollector inventory.TracingCollector
}

// NewSale creates a Sale over the given counter, which must already hold the initial inventory.
func NewSale(counter inventory.Counter, options ...Option) (*Sale, error) {
	if counter == nil {
		return nil, ErrNilCounter
	}

	runID, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	s := &Sale{
		counter:    counter,
		buyerCount: DefaultBuyerCount,
		engine:     defaultEngineName,
		runID:      runID,
		reporter:   NewReporter(io.Discard),
	}

	for _, option := range options {
		if optErr := option(s); optErr != nil {
			return nil, optErr
		}
	}

	return s, nil
}

// RunID returns the ID of this run.
func (s *Sale) RunID() uuid.UUID {
	return s.runID
}

// Run lets every buyer make one purchase attempt, waits for all of them, verifies the final
// counter pair against the outcomes, and writes the totals.
// Any buyer fault fails the whole run and no summary is returned.
func (s *Sale) Run(ctx context.Context) (Summary, error) {
	start := time.Now()

	ctx, span := observable.StartSpan(ctx, s.tracingCollector, inventory.SpanSaleRun, map[string]string{
		inventory.AttrRunID:  s.runID.String(),
		inventory.AttrEngine: s.engine,
		inventory.AttrBuyers: strconv.Itoa(s.buyerCount),
	})

	observable.LogInfo(ctx, s.logger, s.contextualLogger, logMsgRunStarted,
		inventory.AttrRunID, s.runID.String(),
		inventory.AttrEngine, s.engine,
		inventory.AttrBuyers, s.buyerCount)

	summary, err := s.run(ctx)
	duration := time.Since(start)

	status := inventory.StatusSuccess
	if err != nil {
		status = observable.ClassifyError(err)
		observable.LogError(ctx, s.logger, s.contextualLogger, logMsgRunFailed, err,
			inventory.AttrRunID, s.runID.String())
	} else {
		summary.Duration = duration
		observable.LogInfo(ctx, s.logger, s.contextualLogger, logMsgRunFinished,
			inventory.AttrRunID, s.runID.String(),
			inventory.AttrBought, summary.Bought,
			inventory.AttrMissed, summary.Missed,
			logAttrInitial, summary.Initial,
			logAttrAvailable, summary.Available,
			logAttrSold, summary.Sold,
			observable.LogAttrDurationMS, observable.ToMilliseconds(duration))
	}

	observable.RecordDuration(ctx, s.metricsCollector, inventory.MetricRunDuration, duration,
		map[string]string{inventory.AttrEngine: s.engine, inventory.AttrStatus: status})

	if span != nil && err == nil {
		span.AddAttribute(inventory.AttrBought, strconv.Itoa(summary.Bought))
		span.AddAttribute(inventory.AttrMissed, strconv.Itoa(summary.Missed))
	}
	observable.FinishSpan(s.tracingCollector, span, status, duration, err)

	if err != nil {
		return Summary{}, err
	}

	return summary, nil
}

func (s *Sale) run(ctx context.Context) (Summary, error) {
	before, err := s.counter.Snapshot(ctx)
	if err != nil {
		return Summary{}, errors.Join(ErrInventoryStateUnavailable, err)
	}

	var bought, missed atomic.Int64

	group, groupCtx := errgroup.WithContext(ctx)
	for i := 0; i < s.buyerCount; i++ {
		buyerID := inventory.BuyerID(i)

		group.Go(func() error {
			outcome, buyErr := s.buy(groupCtx, buyerID)
			if buyErr != nil {
				return buyErr
			}

			if outcome == inventory.Bought {
				bought.Add(1)
			} else {
				missed.Add(1)
			}

			return nil
		})
	}

	if waitErr := group.Wait(); waitErr != nil {
		return Summary{}, waitErr
	}

	after, err := s.counter.Snapshot(ctx)
	if err != nil {
		if errors.Is(err, inventory.ErrInconsistentState) {
			return Summary{}, errors.Join(ErrJointInvariantViolated, err)
		}

		return Summary{}, errors.Join(ErrInventoryStateUnavailable, err)
	}

	if verifyErr := verifyFinalState(before, after, s.buyerCount, int(bought.Load())); verifyErr != nil {
		return Summary{}, verifyErr
	}

	if reportErr := s.reporter.Totals(after); reportErr != nil {
		return Summary{}, reportErr
	}

	return Summary{
		RunID:     s.runID,
		Engine:    s.engine,
		Initial:   after.Initial,
		Buyers:    s.buyerCount,
		Bought:    int(bought.Load()),
		Missed:    int(missed.Load()),
		Available: after.Available,
		Sold:      after.Sold,
	}, nil
}

// buy makes the single purchase attempt of one buyer and reports its outcome.
func (s *Sale) buy(ctx context.Context, buyerID inventory.BuyerID) (outcome inventory.Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			observable.LogError(ctx, s.logger, s.contextualLogger, logMsgBuyerPanicked, fmt.Errorf("%v", r),
				inventory.AttrBuyerID, buyerID.String())
			err = errors.Join(ErrBuyerFailed, fmt.Errorf("buyer %s panicked: %v", buyerID, r))
		}
	}()

	result, err := s.counter.AttemptPurchase(ctx, buyerID)
	if err != nil {
		return inventory.Missed, errors.Join(ErrBuyerFailed, err)
	}

	if reportErr := s.reporter.Outcome(result); reportErr != nil {
		return inventory.Missed, errors.Join(ErrBuyerFailed, reportErr)
	}

	return result.Outcome, nil
}

// verifyFinalState checks the state after the join against the state before the race.
// Exactly min(available before, buyers) tickets must have been sold, one per Bought outcome.
func verifyFinalState(before, after inventory.Snapshot, buyers, bought int) error {
	sold := min(before.Available, buyers)
	expected := inventory.Snapshot{
		Initial:   before.Initial,
		Available: before.Available - sold,
		Sold:      before.Sold + sold,
	}

	switch {
	case !after.Consistent():
		return fmt.Errorf("%w: %+v is not consistent", ErrJointInvariantViolated, after)

	case after != expected:
		return fmt.Errorf("%w: got %+v, expected %+v", ErrJointInvariantViolated, after, expected)

	case bought != sold:
		return fmt.Errorf("%w: %d buyers got a ticket but %d were sold", ErrJointInvariantViolated, bought, sold)
	}

	return nil
}
