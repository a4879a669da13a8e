// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// WHY SQLite?
// ───────────
// SQLite stores everything in a single file on disk. There is no
// network, no separate server process, and no installation beyond the
// driver. For a personal/small-group friends map it is more than
// enough, and write serialisation comes for free from the engine.
//
// The blank import below registers the sqlite3 driver with database/sql.
// The driver's init() function does this automatically when the package
// is loaded — we never call anything from it directly.
package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/karanjoshi/friends-map-api/internal/config"
	"github.com/karanjoshi/friends-map-api/internal/storage"
	"github.com/karanjoshi/friends-map-api/internal/types"

	// Blank import: side-effect only (registers the "sqlite3" driver).
	_ "github.com/mattn/go-sqlite3"
)

// SQLite is the concrete implementation of storage.Storage.
// It holds a *sql.DB which is a connection pool managed by database/sql.
// A single *sql.DB is safe for concurrent use by multiple goroutines,
// which is why handlers can share it without extra locking.
type SQLite struct {
	Db *sql.DB
}

// New opens the SQLite database at the path specified in cfg.StoragePath,
// creates the friends table if it does not already exist, and returns
// a ready-to-use *SQLite.
//
// CREATE TABLE IF NOT EXISTS is idempotent — safe to run on every
// startup. created_at defaults to the time of insertion and is never
// written by application code.
func New(cfg *config.Config) (*SQLite, error) {
	// sql.Open does NOT open a real connection yet — it just validates
	// the driver name and data source name (DSN).
	// The first actual connection happens on the first query.
	db, err := sql.Open("sqlite3", cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS friends (
			id           INTEGER   PRIMARY KEY AUTOINCREMENT,
			name         TEXT      NOT NULL,
			location     TEXT      NOT NULL,
			notes        TEXT,
			other_cities TEXT,
			display_name TEXT,
			latitude     REAL      NOT NULL,
			longitude    REAL      NOT NULL,
			created_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: create table: %w", err)
	}

	return &SQLite{Db: db}, nil
}

// Close releases the database handle. Called once on shutdown.
func (s *SQLite) Close() error {
	return s.Db.Close()
}

// scanFriend reads one row into a Friend. The column order here must
// match friendColumns exactly.
const friendColumns = "id, name, location, notes, other_cities, display_name, latitude, longitude, created_at"

func scanFriend(row interface{ Scan(...any) error }) (types.Friend, error) {
	var (
		friend                          types.Friend
		notes, otherCities, displayName sql.NullString
	)

	err := row.Scan(
		&friend.ID,
		&friend.Name,
		&friend.Location,
		&notes,
		&otherCities,
		&displayName,
		&friend.Coordinates.Lat,
		&friend.Coordinates.Lng,
		&friend.CreatedAt,
	)
	if err != nil {
		return types.Friend{}, err
	}

	// NULL columns become nil pointers so they serialise as JSON null.
	if notes.Valid {
		friend.Notes = &notes.String
	}
	if otherCities.Valid {
		friend.OtherCities = &otherCities.String
	}
	if displayName.Valid {
		friend.DisplayName = &displayName.String
	}

	return friend, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// CreateFriend inserts a new row and re-reads it by primary key, so the
// caller echoes back exactly what is stored — including the id assigned
// by AUTOINCREMENT and the created_at filled in by the column default.
//
// Prepared statements use placeholders (?): the driver sends query and
// values separately, so the engine treats the values as pure data,
// never as SQL syntax.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) CreateFriend(req types.CreateFriendRequest) (types.Friend, error) {
	stmt, err := s.Db.Prepare(`
		INSERT INTO friends (name, location, notes, other_cities, display_name, latitude, longitude)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return types.Friend{}, fmt.Errorf("CreateFriend: prepare: %w", err)
	}
	// defer ensures the statement is closed when this function returns,
	// even if we return early due to an error.
	defer stmt.Close()

	// The validator guarantees req.Coords and both pointers are
	// non-nil before storage is reached. Optional *string fields pass
	// through as-is: a nil pointer inserts SQL NULL.
	result, err := stmt.Exec(
		req.Name,
		req.Location,
		req.Notes,
		req.OtherCities,
		req.DisplayName,
		*req.Coords.Lat,
		*req.Coords.Lng,
	)
	if err != nil {
		return types.Friend{}, fmt.Errorf("CreateFriend: exec: %w", err)
	}

	lastID, err := result.LastInsertId()
	if err != nil {
		return types.Friend{}, fmt.Errorf("CreateFriend: last insert id: %w", err)
	}

	return s.getFriendByID(lastID)
}

func (s *SQLite) getFriendByID(id int64) (types.Friend, error) {
	stmt, err := s.Db.Prepare(
		"SELECT " + friendColumns + " FROM friends WHERE id = ? LIMIT 1",
	)
	if err != nil {
		return types.Friend{}, fmt.Errorf("getFriendByID: prepare: %w", err)
	}
	defer stmt.Close()

	friend, err := scanFriend(stmt.QueryRow(id))
	if err != nil {
		return types.Friend{}, fmt.Errorf("getFriendByID: scan: %w", err)
	}

	return friend, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// GetFriends returns all rows, newest first. The id tiebreak keeps the
// order deterministic when two rows share a created_at second.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) GetFriends() ([]types.Friend, error) {
	stmt, err := s.Db.Prepare(
		// Explicitly list columns — never use SELECT * here; a column
		// added later would break Scan's ordering.
		"SELECT " + friendColumns + " FROM friends ORDER BY created_at DESC, id DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("GetFriends: prepare: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.Query()
	if err != nil {
		return nil, fmt.Errorf("GetFriends: query: %w", err)
	}
	defer rows.Close() // must close rows to free the DB connection

	// Pre-allocate an empty (non-nil) slice.
	// Returning [] instead of null in JSON is better API behaviour.
	friends := make([]types.Friend, 0)

	for rows.Next() {
		friend, err := scanFriend(rows)
		if err != nil {
			return nil, fmt.Errorf("GetFriends: scan row: %w", err)
		}
		friends = append(friends, friend)
	}

	// rows.Err() captures any error that occurred during iteration.
	// This is separate from Scan errors.
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetFriends: rows iteration: %w", err)
	}

	return friends, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// DeleteFriendByID removes one row by primary key.
// RowsAffected distinguishes "deleted" from "was never there": zero
// affected rows becomes storage.ErrNotFound so the handler can answer
// with a 404 instead of a lying success message.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) DeleteFriendByID(id int64) error {
	stmt, err := s.Db.Prepare("DELETE FROM friends WHERE id = ?")
	if err != nil {
		return fmt.Errorf("DeleteFriendByID: prepare: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.Exec(id)
	if err != nil {
		return fmt.Errorf("DeleteFriendByID: exec: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("DeleteFriendByID: rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}

	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// DeleteAllFriends empties the table and reports the number of rows
// removed. A single DELETE is atomic in SQLite, so the count always
// matches what was actually removed.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) DeleteAllFriends() (int64, error) {
	result, err := s.Db.Exec("DELETE FROM friends")
	if err != nil {
		return 0, fmt.Errorf("DeleteAllFriends: exec: %w", err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("DeleteAllFriends: rows affected: %w", err)
	}

	return removed, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// GetStats computes all three dashboard counts in one aggregate pass.
// An empty string counts the same as NULL: a friend whose notes were
// submitted as "" has no notes worth counting.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) GetStats() (types.Stats, error) {
	var stats types.Stats

	err := s.Db.QueryRow(`
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN notes        IS NOT NULL AND notes        != '' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN other_cities IS NOT NULL AND other_cities != '' THEN 1 ELSE 0 END), 0)
		FROM friends
	`).Scan(
		&stats.TotalFriends,
		&stats.FriendsWithNotes,
		&stats.FriendsWithRecommendations,
	)
	if err != nil {
		return types.Stats{}, fmt.Errorf("GetStats: scan: %w", err)
	}

	return stats, nil
}
