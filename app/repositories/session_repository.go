package repositories

import (
	"time"

	"likedposts/app/models"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// BadgerSessionRepository implements SessionRepository using BadgerDB.
// Values are sealed with a key derived from the session secret and expire
// after ttl when ttl is positive.
type BadgerSessionRepository struct {
	db     *badger.DB
	sealer *sealer
	ttl    time.Duration
}

// NewBadgerSessionRepository creates a new BadgerSessionRepository
func NewBadgerSessionRepository(db *badger.DB, secret string, ttl time.Duration) (*BadgerSessionRepository, error) {
	s, err := newSealer(secret)
	if err != nil {
		return nil, err
	}
	return &BadgerSessionRepository{db: db, sealer: s, ttl: ttl}, nil
}

// Create stores a session, replacing any existing one with the same id.
// A missing id is generated.
func (r *BadgerSessionRepository) Create(session *models.Session) error {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	session.BeforeCreate()
	if err := session.Validate(); err != nil {
		return errors.Wrap(err, "invalid session")
	}

	data, err := marshalEntity(session)
	if err != nil {
		return err
	}
	sealed, err := r.sealer.seal(data)
	if err != nil {
		return err
	}

	return r.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(sessionKey(session.ID), sealed)
		if r.ttl > 0 {
			entry = entry.WithTTL(r.ttl)
		}
		return txn.SetEntry(entry)
	})
}

// GetByID retrieves a session by ID
func (r *BadgerSessionRepository) GetByID(id string) (*models.Session, error) {
	var session models.Session

	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(sessionKey(id))
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return r.decode(val, &session)
		})
	})

	if err != nil {
		return nil, err
	}
	return &session, nil
}

// Delete deletes a session by ID
func (r *BadgerSessionRepository) Delete(id string) error {
	return r.db.Update(func(txn *badger.Txn) error {
		key := sessionKey(id)

		_, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		return txn.Delete(key)
	})
}

func (r *BadgerSessionRepository) decode(val []byte, session *models.Session) error {
	plain, err := r.sealer.open(val)
	if err != nil {
		return err
	}
	return unmarshalEntity(plain, session)
}
