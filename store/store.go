package store

import (
	"errors"

	"cloudvault/apperr"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is the record store. It holds the connection pool, never a session,
// so one Store is shared by all requests.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) DB() *gorm.DB {
	return s.db
}

// forUpdate locks the selected rows until the transaction ends.
// SQLite ignores the clause, its single connection already serialises writers.
var forUpdate = clause.Locking{Strength: "UPDATE"}

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.Errorf(apperr.ErrNotFound, "%s", what)
	}
	return err
}
