package mysqlengine

import (
	"math"
	"time"
)

// logQueryWithDuration logs SQL statements with execution time at debug level if the logger is configured.
func (c *Counter) logQueryWithDuration(sqlQuery string, action string, duration time.Duration) {
	if c.logger != nil {
		c.logger.Debug(logMsgSQLExecuted+action, logAttrDurationMS, c.toMilliseconds(duration), logAttrQuery, sqlQuery)
	}
}

// logOperation logs operational information at info level if the logger is configured.
func (c *Counter) logOperation(action string, args ...any) {
	if c.logger != nil {
		allArgs := []any{logAttrRunID, c.runID.String()}
		allArgs = append(allArgs, args...)
		c.logger.Info(logMsgOperation+action, allArgs...)
	}
}

// logError logs error information at the error level if the logger is configured.
func (c *Counter) logError(message string, err error, args ...any) {
	if c.logger != nil {
		allArgs := []any{logAttrError, err.Error(), logAttrRunID, c.runID.String()}
		allArgs = append(allArgs, args...)
		c.logger.Error(message, allArgs...)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func (c *Counter) toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}
