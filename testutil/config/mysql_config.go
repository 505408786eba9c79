package config

import (
	"database/sql"
	"log"
	"time"

	"github.com/go-sql-driver/mysql"
)

// MySQLTestConfig creates a configured *sql.DB for the MySQL test database.
// The connection is opened lazily, callers ping it before use.
func MySQLTestConfig() *sql.DB {
	const defaultMaxOpenConnections = 50
	const defaultMaxIdleConnections = 2
	const defaultMaxConnLifetime = time.Hour
	const defaultTimeout = time.Second * 5

	driverConfig, err := mysql.ParseDSN(MySQLTestDSN())
	if err != nil {
		log.Fatal("Failed to parse mysql dsn, error: ", err)
	}

	driverConfig.Timeout = defaultTimeout

	connector, err := mysql.NewConnector(driverConfig)
	if err != nil {
		log.Fatal("Failed to create a mysql connector, error: ", err)
	}

	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(defaultMaxOpenConnections)
	db.SetMaxIdleConns(defaultMaxIdleConnections)
	db.SetConnMaxLifetime(defaultMaxConnLifetime)

	return db
}
