// Package config provides database configuration for ticket sale integration tests.
//
// This package contains factory functions for creating connections to the storage
// services backing the database engines: PostgreSQL through every supported adapter
// (pgx.Pool, sql.DB, sqlx.DB), MySQL through database/sql, and Redis through go-redis.
//
// DSNs default to the local docker-compose services and can be overridden with the
// same environment variables the ticketsale command reads.
package config
