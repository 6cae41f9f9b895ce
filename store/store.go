// Package store connects to the local datastore and manages timer snapshots,
// auth state, session history, response caches, and the offline sync queue.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/focushub/focushub/internal/models"
	"github.com/focushub/focushub/internal/timeutil"
)

var pathToDB string

var errAlreadyRunning = errors.New(
	"is FocusHub already running? Only one instance can be active at a time",
)

// Fixed storage keys for the two persisted state slices.
const (
	timerStateKey = "focushub-timer"
	authStateKey  = "focushub-auth"
)

const (
	stateBucket    = "state"
	sessionsBucket = "sessions"
	queueBucket    = "sync_queue"
	cachesBucket   = "caches"
)

// Client is a BoltDB database client.
type Client struct {
	*bolt.DB
}

func (c *Client) SaveTimerState(snap *models.TimerSnapshot) error {
	return c.putState(timerStateKey, snap)
}

func (c *Client) GetTimerState() (*models.TimerSnapshot, error) {
	var snap models.TimerSnapshot

	ok, err := c.getState(timerStateKey, &snap)
	if err != nil || !ok {
		return nil, err
	}

	return &snap, nil
}

func (c *Client) SaveAuthState(state *models.AuthState) error {
	return c.putState(authStateKey, state)
}

func (c *Client) GetAuthState() (*models.AuthState, error) {
	var state models.AuthState

	ok, err := c.getState(authStateKey, &state)
	if err != nil || !ok {
		return nil, err
	}

	return &state, nil
}

func (c *Client) DeleteAuthState() error {
	return c.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(stateBucket)).Delete([]byte(authStateKey))
	})
}

func (c *Client) putState(key string, v any) error {
	value, err := json.Marshal(v)
	if err != nil {
		return err
	}

	return c.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(stateBucket)).Put([]byte(key), value)
	})
}

func (c *Client) getState(key string, v any) (bool, error) {
	var found bool

	err := c.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(stateBucket)).Get([]byte(key))
		if len(b) == 0 {
			return nil
		}

		found = true

		return json.Unmarshal(b, v)
	})

	return found, err
}

func (c *Client) UpdateSession(sess *models.SessionRecord) error {
	key := timeutil.ToKey(sess.StartTime)

	value, err := json.Marshal(sess)
	if err != nil {
		return err
	}

	return c.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(sessionsBucket)).Put(key, value)
	})
}

func (c *Client) GetSessions(
	startTime, endTime time.Time,
) ([]models.SessionRecord, error) {
	var sessions []models.SessionRecord

	err := c.View(func(tx *bolt.Tx) error {
		cur := tx.Bucket([]byte(sessionsBucket)).Cursor()
		min := timeutil.ToKey(startTime)
		max := timeutil.ToKey(endTime)

		for k, v := cur.Seek(min); k != nil && bytes.Compare(k, max) <= 0; k, v = cur.Next() {
			var sess models.SessionRecord

			err := json.Unmarshal(v, &sess)
			if err != nil {
				return err
			}

			sessions = append(sessions, sess)
		}

		return nil
	})

	return sessions, err
}

func (c *Client) Enqueue(item *models.PendingSync) error {
	value, err := json.Marshal(item)
	if err != nil {
		return err
	}

	return c.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(queueBucket))

		seq, err := b.NextSequence()
		if err != nil {
			return err
		}

		return b.Put(queueKey(seq), value)
	})
}

func (c *Client) Pending() ([]models.PendingSync, error) {
	var items []models.PendingSync

	err := c.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(queueBucket)).ForEach(func(_, v []byte) error {
			var item models.PendingSync

			err := json.Unmarshal(v, &item)
			if err != nil {
				return err
			}

			items = append(items, item)

			return nil
		})
	})

	return items, err
}

func (c *Client) ClearPending() error {
	return c.Update(func(tx *bolt.Tx) error {
		err := tx.DeleteBucket([]byte(queueBucket))
		if err != nil {
			return err
		}

		_, err = tx.CreateBucket([]byte(queueBucket))

		return err
	})
}

func (c *Client) PutCache(cache, key string, value []byte) error {
	return c.Update(func(tx *bolt.Tx) error {
		b, err := tx.Bucket([]byte(cachesBucket)).
			CreateBucketIfNotExists([]byte(cache))
		if err != nil {
			return err
		}

		return b.Put([]byte(key), value)
	})
}

func (c *Client) GetCache(cache, key string) ([]byte, error) {
	var value []byte

	err := c.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(cachesBucket)).Bucket([]byte(cache))
		if b == nil {
			return nil
		}

		v := b.Get([]byte(key))
		if v != nil {
			value = make([]byte, len(v))
			copy(value, v)
		}

		return nil
	})

	return value, err
}

func (c *Client) DeleteCache(cache string) error {
	return c.Update(func(tx *bolt.Tx) error {
		err := tx.Bucket([]byte(cachesBucket)).DeleteBucket([]byte(cache))
		if errors.Is(err, bolt.ErrBucketNotFound) {
			return nil
		}

		return err
	})
}

func (c *Client) CacheNames() ([]string, error) {
	var names []string

	err := c.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(cachesBucket)).
			ForEachBucket(func(k []byte) error {
				names = append(names, string(k))
				return nil
			})
	})

	return names, err
}

func (c *Client) Open() error {
	db, err := openDB(pathToDB)
	if err != nil {
		return err
	}

	*c = Client{
		db,
	}

	return nil
}

func queueKey(seq uint64) []byte {
	// big-endian so Bolt iterates in insertion order
	key := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		key[i] = byte(seq)
		seq >>= 8
	}

	return key
}

// openDB creates or opens a database and locks it.
func openDB(pathToDB string) (*bolt.DB, error) {
	var fileMode fs.FileMode = 0o600

	db, err := bolt.Open(
		pathToDB,
		fileMode,
		&bolt.Options{Timeout: 1 * time.Second},
	)
	if err != nil {
		if errors.Is(err, bolt.ErrDatabaseOpen) ||
			errors.Is(err, bolt.ErrTimeout) {
			return nil, errAlreadyRunning
		}

		return nil, err
	}

	return db, nil
}

// NewClient returns a wrapper to a BoltDB connection.
func NewClient(dbPath string) (*Client, error) {
	pathToDB = dbPath

	db, err := openDB(pathToDB)
	if err != nil {
		return nil, err
	}

	// Create the necessary buckets for storing data if they do not exist
	// already
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{
			stateBucket,
			sessionsBucket,
			queueBucket,
			cachesBucket,
		} {
			_, err = tx.CreateBucketIfNotExists([]byte(name))
			if err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Client{
		db,
	}, nil
}
