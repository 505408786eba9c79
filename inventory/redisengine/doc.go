// Package redisengine provides a Redis implementation of the inventory.Counter interface.
//
// The counter pair of one sale lives in one hash (fields initial, available, sold) under a key
// derived from the sale's run ID. A purchase attempt is a Lua script: Redis runs scripts one at a
// time, so reading available, comparing it to zero and updating both fields is one critical section.
package redisengine
