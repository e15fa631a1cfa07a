// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the application's core logic, allowing business rules to remain
// independent of specific database technologies or persistence details.
//
// Referential integrity (users -> decks -> cards, ON DELETE CASCADE) and
// email uniqueness are enforced by the storage backend itself; callers
// must not emulate them with read-then-write sequences.
package store
