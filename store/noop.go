package store

import (
	"time"

	"github.com/focushub/focushub/internal/models"
)

// Noop is an inert DB used when no persistent medium is available (such as a
// read-only data directory). Writes succeed without effect and reads find
// nothing, so stores degrade to session-scoped state instead of failing.
type Noop struct{}

func (Noop) SaveTimerState(*models.TimerSnapshot) error { return nil }

func (Noop) GetTimerState() (*models.TimerSnapshot, error) { return nil, nil }

func (Noop) SaveAuthState(*models.AuthState) error { return nil }

func (Noop) GetAuthState() (*models.AuthState, error) { return nil, nil }

func (Noop) DeleteAuthState() error { return nil }

func (Noop) UpdateSession(*models.SessionRecord) error { return nil }

func (Noop) GetSessions(_, _ time.Time) ([]models.SessionRecord, error) {
	return nil, nil
}

func (Noop) Enqueue(*models.PendingSync) error { return nil }

func (Noop) Pending() ([]models.PendingSync, error) { return nil, nil }

func (Noop) ClearPending() error { return nil }

func (Noop) PutCache(_, _ string, _ []byte) error { return nil }

func (Noop) GetCache(_, _ string) ([]byte, error) { return nil, nil }

func (Noop) DeleteCache(string) error { return nil }

func (Noop) CacheNames() ([]string, error) { return nil, nil }

func (Noop) Close() error { return nil }

func (Noop) Open() error { return nil }
