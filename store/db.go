package store

import (
	"time"

	"github.com/focushub/focushub/internal/models"
)

// DB is the local storage interface. Two implementations exist: a BoltDB
// client for normal operation and an inert stub for environments without a
// persistent medium.
type DB interface {
	// SaveTimerState overwrites the persisted timer snapshot.
	SaveTimerState(snap *models.TimerSnapshot) error
	// GetTimerState returns the persisted timer snapshot, or nil when no
	// snapshot has been saved yet.
	GetTimerState() (*models.TimerSnapshot, error)
	// SaveAuthState overwrites the persisted auth identity.
	SaveAuthState(state *models.AuthState) error
	// GetAuthState returns the persisted auth identity, or nil when absent.
	GetAuthState() (*models.AuthState, error)
	// DeleteAuthState removes the persisted auth identity.
	DeleteAuthState() error
	// UpdateSession appends or overwrites a session history record keyed by
	// its start time.
	UpdateSession(sess *models.SessionRecord) error
	// GetSessions returns history records within the time bounds.
	GetSessions(startTime, endTime time.Time) ([]models.SessionRecord, error)
	// Enqueue adds a pending timer write to the durable sync queue.
	Enqueue(item *models.PendingSync) error
	// Pending returns all queued timer writes in insertion order.
	Pending() ([]models.PendingSync, error)
	// ClearPending empties the sync queue.
	ClearPending() error
	// PutCache stores a value in a named cache.
	PutCache(cache, key string, value []byte) error
	// GetCache returns a value from a named cache, or nil when absent.
	GetCache(cache, key string) ([]byte, error)
	// DeleteCache removes a named cache and all its entries.
	DeleteCache(cache string) error
	// CacheNames lists all named caches.
	CacheNames() ([]string, error)
	// Close ends the database connection.
	Close() error
	// Open begins a database connection.
	Open() error
}
