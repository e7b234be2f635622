package bolt

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	bbolt "go.etcd.io/bbolt"

	"github.com/saadamjad-44/school-attendance-system/domain"
	"github.com/saadamjad-44/school-attendance-system/repository"
)

const defaultBucket = "sessions"

// SessionRepository keeps cookie jars in a BoltDB file so a session survives
// between command invocations.
type SessionRepository struct {
	db     *bbolt.DB
	bucket []byte
}

var _ repository.SessionRepository = (*SessionRepository)(nil)

// Open initializes the BoltDB file and ensures the bucket exists.
func Open(path string, bucket string) (*SessionRepository, error) {
	if bucket == "" {
		bucket = defaultBucket
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucket))
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &SessionRepository{
		db:     db,
		bucket: []byte(bucket),
	}, nil
}

func (r *SessionRepository) Get(_ context.Context, id string) (*domain.Session, error) {
	if r == nil || r.db == nil {
		return nil, bbolt.ErrDatabaseNotOpen
	}

	var payload []byte
	err := r.db.View(func(tx *bbolt.Tx) error {
		if v := tx.Bucket(r.bucket).Get([]byte(id)); v != nil {
			payload = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, domain.ErrSessionNotFound
	}

	var session domain.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *SessionRepository) Save(_ context.Context, session *domain.Session) error {
	if r == nil || r.db == nil {
		return bbolt.ErrDatabaseNotOpen
	}
	if session == nil || session.ID == "" {
		return domain.ErrInvalidPayload
	}
	if session.UpdatedAt.IsZero() {
		session.UpdatedAt = time.Now()
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return r.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(r.bucket).Put([]byte(session.ID), payload)
	})
}

func (r *SessionRepository) Delete(_ context.Context, id string) error {
	if r == nil || r.db == nil {
		return bbolt.ErrDatabaseNotOpen
	}
	return r.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(r.bucket).Delete([]byte(id))
	})
}

// Profiles lists the ids of all stored sessions.
func (r *SessionRepository) Profiles() ([]string, error) {
	if r == nil || r.db == nil {
		return nil, bbolt.ErrDatabaseNotOpen
	}
	var ids []string
	err := r.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(r.bucket).ForEach(func(k, _ []byte) error {
			ids = append(ids, string(k))
			return nil
		})
	})
	return ids, err
}

// Close closes the Bolt database.
func (r *SessionRepository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}
