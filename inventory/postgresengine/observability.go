package postgresengine

import (
	"context"
	"math"
	"time"
)

// logQueryWithDuration logs SQL statements with execution time at debug level if a logger is configured.
func (c *Counter) logQueryWithDuration(ctx context.Context, sqlQuery string, action string, duration time.Duration) {
	c.logDebug(ctx, logMsgSQLExecuted+action, logAttrDurationMS, c.toMilliseconds(duration), logAttrQuery, sqlQuery)
}

// logOperation logs operational information at info level if a logger is configured.
func (c *Counter) logOperation(ctx context.Context, action string, args ...any) {
	allArgs := []any{logAttrRunID, c.runID.String()}
	allArgs = append(allArgs, args...)

	if c.contextualLogger != nil {
		c.contextualLogger.InfoContext(ctx, logMsgOperation+action, allArgs...)
		return
	}

	if c.logger != nil {
		c.logger.Info(logMsgOperation+action, allArgs...)
	}
}

// logWarn logs non-critical issues at warn level if a logger is configured.
func (c *Counter) logWarn(ctx context.Context, message string, err error) {
	if c.contextualLogger != nil {
		c.contextualLogger.WarnContext(ctx, message, logAttrError, err.Error())
		return
	}

	if c.logger != nil {
		c.logger.Warn(message, logAttrError, err.Error())
	}
}

// logError logs error information at the error level if a logger is configured.
func (c *Counter) logError(ctx context.Context, message string, err error, args ...any) {
	allArgs := []any{logAttrError, err.Error(), logAttrRunID, c.runID.String()}
	allArgs = append(allArgs, args...)

	if c.contextualLogger != nil {
		c.contextualLogger.ErrorContext(ctx, message, allArgs...)
		return
	}

	if c.logger != nil {
		c.logger.Error(message, allArgs...)
	}
}

func (c *Counter) logDebug(ctx context.Context, message string, args ...any) {
	if c.contextualLogger != nil {
		c.contextualLogger.DebugContext(ctx, message, args...)
		return
	}

	if c.logger != nil {
		c.logger.Debug(message, args...)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func (c *Counter) toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}
