// Package store defines the persistence contracts of the marketplace: one
// repository interface per entity kind with typed filter and patch structs,
// and the UnitOfWork abstraction that binds a set of repositories to a
// single atomic transaction.
//
// Business logic depends only on these interfaces; the concrete Postgres
// implementation lives in internal/platform/postgres.
package store
