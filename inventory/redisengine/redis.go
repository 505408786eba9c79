package redisengine

import (
	"context"
	"errors"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/AntonStoeckl/ticketsale-go/inventory"
)

const (
	defaultKeyPrefix         = "ticketsale:inventory"
	fieldInitial             = "initial"
	fieldAvailable           = "available"
	fieldSold                = "sold"
	scriptResultMissed       = -1
	scriptResultNotFound     = -2
	logMsgCommandExecuted    = "executed redis command for: "
	logMsgOperation          = "inventory operation: "
	logMsgCommandFailed      = "redis command failed"
	logMsgInventorySeeded    = "inventory seeded"
	logMsgInventoryDiscarded = "inventory discarded"
	logMsgInventoryNotFound  = "inventory not found"
	logMsgInconsistentState  = "inventory state violates the joint invariant"
	logMsgInvalidFieldValue  = "invalid inventory field value"
	logAttrError             = "error"
	logAttrKey               = "key"
	logAttrInitial           = "initial"
	logAttrDurationMS        = "duration_ms"
	logActionSeed            = "seed"
	logActionPurchase        = "purchase"
	logActionSnapshot        = "snapshot"
	logActionDiscard         = "discard"
)

// purchaseScript returns the post-purchase available count, -1 when sold out, -2 when the hash is missing.
var purchaseScript = redis.NewScript(`
local available = redis.call('HGET', KEYS[1], 'available')
if not available then
	return -2
end
available = tonumber(available)
if available <= 0 then
	return -1
end
redis.call('HINCRBY', KEYS[1], 'sold', 1)
return redis.call('HINCRBY', KEYS[1], 'available', -1)
`)

// seedScript creates the hash only if it does not exist yet; it returns 0 for an existing hash.
var seedScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
	return 0
end
redis.call('HSET', KEYS[1], 'initial', ARGV[1], 'available', ARGV[1], 'sold', 0)
return 1
`)

// Counter is an inventory.Counter backed by one Redis hash per sale.
type Counter struct {
	client    redis.UniversalClient
	runID     uuid.UUID
	keyPrefix string
	logger    inventory.Logger
}

// NewCounter creates a new Counter on the given client with optional configuration.
func NewCounter(client redis.UniversalClient, runID uuid.UUID, options ...Option) (*Counter, error) {
	if client == nil {
		return nil, inventory.ErrNilDatabaseConnection
	}

	c := &Counter{
		client:    client,
		runID:     runID,
		keyPrefix: defaultKeyPrefix,
	}

	for _, option := range options {
		if err := option(c); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// RunID returns the ID of the sale whose hash this Counter operates on.
func (c *Counter) RunID() uuid.UUID {
	return c.runID
}

// Key returns the key of the hash holding the counter pair.
func (c *Counter) Key() string {
	return c.keyPrefix + ":" + c.runID.String()
}

// Seed creates the hash for this sale holding initial available and zero sold tickets.
func (c *Counter) Seed(ctx context.Context, initial int) error {
	if err := inventory.ValidateInitialInventory(initial); err != nil {
		return err
	}

	start := time.Now()
	created, err := seedScript.Run(ctx, c.client, []string{c.Key()}, initial).Int64()
	c.logCommandWithDuration(logActionSeed, time.Since(start))

	if err != nil {
		c.logError(logMsgCommandFailed, err)
		return errors.Join(inventory.ErrSeedingFailed, err)
	}

	if created == 0 {
		return errors.Join(inventory.ErrSeedingFailed, inventory.ErrInventoryAlreadyExists)
	}

	c.logOperation(logMsgInventorySeeded, logAttrInitial, initial)

	return nil
}

// AttemptPurchase sells one ticket to the buyer if any is left.
// The check and both increments run inside one Lua script.
func (c *Counter) AttemptPurchase(ctx context.Context, buyerID inventory.BuyerID) (inventory.PurchaseResult, error) {
	start := time.Now()
	result, err := purchaseScript.Run(ctx, c.client, []string{c.Key()}).Int64()
	c.logCommandWithDuration(logActionPurchase, time.Since(start))

	if err != nil {
		c.logError(logMsgCommandFailed, err)
		return inventory.PurchaseResult{}, errors.Join(inventory.ErrPurchaseFailed, err)
	}

	switch result {
	case scriptResultNotFound:
		c.logError(logMsgInventoryNotFound, inventory.ErrInventoryNotFound)
		return inventory.PurchaseResult{}, errors.Join(inventory.ErrPurchaseFailed, inventory.ErrInventoryNotFound)

	case scriptResultMissed:
		return inventory.MissedResult(buyerID), nil

	default:
		return inventory.BoughtResult(buyerID, int(result)), nil
	}
}

// Snapshot reads both counters of this sale with one HGETALL.
func (c *Counter) Snapshot(ctx context.Context) (inventory.Snapshot, error) {
	start := time.Now()
	fields, err := c.client.HGetAll(ctx, c.Key()).Result()
	c.logCommandWithDuration(logActionSnapshot, time.Since(start))

	if err != nil {
		c.logError(logMsgCommandFailed, err)
		return inventory.Snapshot{}, errors.Join(inventory.ErrSnapshotFailed, err)
	}

	if len(fields) == 0 {
		c.logError(logMsgInventoryNotFound, inventory.ErrInventoryNotFound)
		return inventory.Snapshot{}, inventory.ErrInventoryNotFound
	}

	snapshot, parseErr := c.parseSnapshot(fields)
	if parseErr != nil {
		return inventory.Snapshot{}, errors.Join(inventory.ErrSnapshotFailed, parseErr)
	}

	if !snapshot.Consistent() {
		c.logError(logMsgInconsistentState, inventory.ErrInconsistentState)
		return inventory.Snapshot{}, inventory.ErrInconsistentState
	}

	return snapshot, nil
}

// Discard deletes the hash of this sale.
func (c *Counter) Discard(ctx context.Context) error {
	start := time.Now()
	err := c.client.Del(ctx, c.Key()).Err()
	c.logCommandWithDuration(logActionDiscard, time.Since(start))

	if err != nil {
		c.logError(logMsgCommandFailed, err)
		return errors.Join(inventory.ErrDiscardFailed, err)
	}

	c.logOperation(logMsgInventoryDiscarded)

	return nil
}

func (c *Counter) parseSnapshot(fields map[string]string) (inventory.Snapshot, error) {
	values := make(map[string]int, 3)

	for _, name := range []string{fieldInitial, fieldAvailable, fieldSold} {
		value, err := strconv.Atoi(fields[name])
		if err != nil {
			c.logError(logMsgInvalidFieldValue, err, "field", name)
			return inventory.Snapshot{}, err
		}

		values[name] = value
	}

	return inventory.Snapshot{
		Initial:   values[fieldInitial],
		Available: values[fieldAvailable],
		Sold:      values[fieldSold],
	}, nil
}

// logCommandWithDuration logs executed commands at debug level if the logger is configured.
func (c *Counter) logCommandWithDuration(action string, duration time.Duration) {
	if c.logger != nil {
		c.logger.Debug(logMsgCommandExecuted+action, logAttrDurationMS, toMilliseconds(duration), logAttrKey, c.Key())
	}
}

// logOperation logs operational information at info level if the logger is configured.
func (c *Counter) logOperation(action string, args ...any) {
	if c.logger != nil {
		allArgs := []any{logAttrKey, c.Key()}
		allArgs = append(allArgs, args...)
		c.logger.Info(logMsgOperation+action, allArgs...)
	}
}

// logError logs error information at the error level if the logger is configured.
func (c *Counter) logError(message string, err error, args ...any) {
	if c.logger != nil {
		allArgs := []any{logAttrError, err.Error(), logAttrKey, c.Key()}
		allArgs = append(allArgs, args...)
		c.logger.Error(message, allArgs...)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

var _ inventory.Counter = (*Counter)(nil)
