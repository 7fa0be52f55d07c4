// Package sqlite provides a dao.Store backed by a SQLite database file.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/dekarrin/cmdtree/server/dao"
	"modernc.org/sqlite"
)

type store struct {
	dbFilename string

	db *sql.DB

	seshes *SessionsDB
	coms   *CommandsDB
}

// NewDatastore opens (creating if needed) the database in storageDir and
// returns a store that uses it.
func NewDatastore(storageDir string) (dao.Store, error) {
	st := &store{
		dbFilename: "data.db",
	}

	fileName := filepath.Join(storageDir, st.dbFilename)

	var err error
	// FKs are off by default in sqlite and the pragma is per-connection.
	st.db, err = sql.Open("sqlite", fileName+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, wrapDBError(err)
	}
	st.db.SetMaxOpenConns(1)

	st.seshes = &SessionsDB{db: st.db}
	if err := st.seshes.init(); err != nil {
		st.db.Close()
		return nil, err
	}

	st.coms = &CommandsDB{db: st.db}
	if err := st.coms.init(true); err != nil {
		st.db.Close()
		return nil, err
	}

	return st, nil
}

func (s *store) Sessions() dao.SessionRepository {
	return s.seshes
}

func (s *store) Commands() dao.CommandRepository {
	return s.coms
}

func (s *store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("%s: %w", s.dbFilename, err)
	}
	return nil
}

func wrapDBError(err error) error {
	sqliteErr := &sqlite.Error{}
	if errors.As(err, &sqliteErr) {
		// SQLITE_CONSTRAINT
		if sqliteErr.Code()&0xff == 19 {
			return dao.ErrConstraintViolation
		}
		return fmt.Errorf("%s", sqlite.ErrorCodeString[sqliteErr.Code()])
	} else if errors.Is(err, sql.ErrNoRows) {
		return dao.ErrNotFound
	}
	return err
}
