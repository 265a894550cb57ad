// Package mocks provides test doubles: an in-memory unit-of-work factory
// with real commit/rollback semantics, and capture-style fakes for the
// task queue collaborators.
package mocks
