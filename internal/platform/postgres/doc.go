// Package postgres implements the store interfaces on top of PostgreSQL
// through database/sql and the pgx stdlib driver. It maps Postgres error
// codes to the store's domain-level sentinels and provides the
// transaction-backed unit of work.
package postgres
