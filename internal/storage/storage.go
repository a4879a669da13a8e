// Package storage defines the Storage interface — a contract that any
// database backend must satisfy to work with this application.
//
// WHY AN INTERFACE?
// ─────────────────
// Handlers (HTTP layer) should not know or care which database they are
// talking to. By depending only on this interface:
//
//   - Switching databases = implement the interface for the new DB,
//     change one line in main.go. Zero handler changes.
//
//   - Writing tests = pass a fake/mock that satisfies the interface.
//     No real database needed for unit tests.
package storage

import (
	"errors"

	"github.com/karanjoshi/friends-map-api/internal/types"
)

// ErrNotFound is returned by DeleteFriendByID when no row matches the
// given id. Handlers map it to a 404; every other storage error maps
// to a 500.
var ErrNotFound = errors.New("friend not found")

// Storage is the database contract.
// Any concrete type that implements ALL of these methods automatically
// satisfies this interface — Go does this implicitly (no "implements"
// keyword required).
type Storage interface {
	// CreateFriend inserts a new friend record and returns the stored
	// row, including the auto-generated id and creation timestamp.
	CreateFriend(req types.CreateFriendRequest) (types.Friend, error)

	// GetFriends returns every friend, newest first.
	// Returns an empty slice (not nil) if there are no friends.
	GetFriends() ([]types.Friend, error)

	// DeleteFriendByID removes one friend record permanently.
	// Returns ErrNotFound when the id does not exist.
	DeleteFriendByID(id int64) error

	// DeleteAllFriends removes every record and reports how many
	// rows were removed.
	DeleteAllFriends() (int64, error)

	// GetStats computes aggregate counts over the whole table.
	GetStats() (types.Stats, error)

	// Close releases the underlying database handle.
	Close() error
}
