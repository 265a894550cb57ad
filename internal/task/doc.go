// Package task provides the background job facility: named side-effect
// jobs (welcome email, skill-catalog sync) submitted fire-and-forget after
// the originating transaction has committed, persisted to the tasks table
// and processed by a worker pool. Delivery is at-least-once; pending and
// interrupted jobs are recovered on startup, so every job's consumer must
// be idempotent.
package task
