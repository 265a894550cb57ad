// Package service contains the marketplace use cases: category, listing,
// provider, and skill operations. Each operation runs inside a single unit
// of work; cross-cutting side effects (catalog sync, email) are dispatched
// as background jobs after commit.
package service
