package database

import "database/sql"

// schemaStatements create the five entity tables. Ids are opaque strings
// assigned by the application, so no sequences are involved. Referential
// integrity and email uniqueness are enforced here; the repository layer
// classifies the resulting pq errors.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS owner (
		id            TEXT PRIMARY KEY,
		first_name    TEXT NOT NULL,
		last_name     TEXT NOT NULL,
		email_address TEXT NOT NULL UNIQUE,
		dob           TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS location (
		id        TEXT PRIMARY KEY,
		longitude DOUBLE PRECISION NOT NULL,
		latitude  DOUBLE PRECISION NOT NULL,
		country   TEXT NOT NULL,
		city      TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS sensor (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		sensor_type TEXT NOT NULL,
		unit        TEXT NOT NULL,
		threshold   DOUBLE PRECISION NOT NULL,
		owner_id    TEXT NOT NULL REFERENCES owner(id),
		location_id TEXT NOT NULL REFERENCES location(id)
	)`,
	`CREATE TABLE IF NOT EXISTS observation (
		id        TEXT PRIMARY KEY,
		sensor_id TEXT NOT NULL REFERENCES sensor(id),
		value     DOUBLE PRECISION NOT NULL,
		timestamp BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS alarm (
		id          TEXT PRIMARY KEY,
		sensor_id   TEXT NOT NULL REFERENCES sensor(id),
		alarm_value DOUBLE PRECISION NOT NULL,
		timestamp   BIGINT NOT NULL
	)`,
}

// EnsureSchema creates the tables if they do not exist yet.
func EnsureSchema(db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
