// Package domain defines the core business entities of the marketplace:
// accounts, categories, listings, providers and catalog skills, together
// with their validation rules and shared domain errors.
package domain
