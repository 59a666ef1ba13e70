// Package postgres provides PostgreSQL-specific implementations for the data
// storage interfaces defined in the internal/store package. It handles
// connection setup through the pgx driver, schema migrations through goose,
// and mapping between domain entities and database rows.
package postgres
