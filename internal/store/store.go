// Package store persists room snapshots. The whole room document is
// serialized and rewritten on every mutation; there is no versioning or
// migration logic, and a snapshot that fails to parse on load is skipped
// rather than treated as fatal.
package store

import (
	"context"

	"fatenexus/internal/fate"
)

// Repository is the persistence mirror for room state.
type Repository interface {
	// SaveRoom replaces the stored snapshot for the room's code.
	SaveRoom(ctx context.Context, room fate.Room) error

	// LoadRooms restores all readable snapshots. Malformed snapshots are
	// skipped.
	LoadRooms(ctx context.Context) ([]fate.Room, error)

	// DeleteRoom removes the stored snapshot for a code.
	DeleteRoom(ctx context.Context, code string) error

	// Ping verifies connectivity to the backing database.
	Ping(ctx context.Context) error

	// Close releases database resources.
	Close() error
}
