package sqlite

import (
	"context"
	"database/sql"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/dekarrin/cmdtree/server/dao"
	"github.com/dekarrin/rezi"
	"github.com/google/uuid"
)

func NewSessionsDBConn(file string) (*SessionsDB, error) {
	repo := &SessionsDB{}

	var err error
	repo.db, err = sql.Open("sqlite", file)
	if err != nil {
		return nil, wrapDBError(err)
	}

	return repo, repo.init()
}

type SessionsDB struct {
	db *sql.DB
}

func (repo *SessionsDB) init() error {
	stmt := `CREATE TABLE IF NOT EXISTS sessions (
		id TEXT NOT NULL PRIMARY KEY,
		player TEXT NOT NULL,
		state TEXT NOT NULL,
		created INTEGER NOT NULL
	);`
	_, err := repo.db.Exec(stmt)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

func (repo *SessionsDB) Create(ctx context.Context, s dao.Session) (dao.Session, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Session{}, fmt.Errorf("could not generate ID: %w", err)
	}

	stmt, err := repo.db.Prepare(`INSERT INTO sessions (id, player, state, created) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return dao.Session{}, wrapDBError(err)
	}
	defer stmt.Close()
	now := time.Now()

	_, err = stmt.ExecContext(ctx, newUUID.String(), s.State.Player, encodeState(s), now.Unix())
	if err != nil {
		return dao.Session{}, wrapDBError(err)
	}

	return repo.GetByID(ctx, newUUID)
}

func (repo *SessionsDB) GetAll(ctx context.Context) ([]dao.Session, error) {
	rows, err := repo.db.QueryContext(ctx, `SELECT id, state, created FROM sessions ORDER BY id;`)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var all []dao.Session

	for rows.Next() {
		var s dao.Session
		var id string
		var encState string
		var created int64
		err = rows.Scan(
			&id,
			&encState,
			&created,
		)
		if err != nil {
			return nil, wrapDBError(err)
		}

		s.ID, err = uuid.Parse(id)
		if err != nil {
			return all, fmt.Errorf("stored UUID %q is invalid", id)
		}
		s.Created = time.Unix(created, 0)
		if err := decodeState(encState, &s); err != nil {
			return all, err
		}

		all = append(all, s)
	}

	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}

	return all, nil
}

func (repo *SessionsDB) Update(ctx context.Context, id uuid.UUID, s dao.Session) (dao.Session, error) {
	res, err := repo.db.ExecContext(ctx, `UPDATE sessions SET id=?, player=?, state=?, created=? WHERE id=?;`,
		s.ID.String(),
		s.State.Player,
		encodeState(s),
		s.Created.Unix(),
		id.String(),
	)
	if err != nil {
		return dao.Session{}, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return dao.Session{}, wrapDBError(err)
	}
	if rowsAff < 1 {
		return dao.Session{}, dao.ErrNotFound
	}

	return repo.GetByID(ctx, s.ID)
}

func (repo *SessionsDB) GetByID(ctx context.Context, id uuid.UUID) (dao.Session, error) {
	s := dao.Session{
		ID: id,
	}
	var created int64
	var encState string

	row := repo.db.QueryRowContext(ctx, `SELECT created, state FROM sessions WHERE id = ?;`,
		id.String(),
	)
	err := row.Scan(
		&created,
		&encState,
	)
	if err != nil {
		return s, wrapDBError(err)
	}

	s.Created = time.Unix(created, 0)
	if err := decodeState(encState, &s); err != nil {
		return s, err
	}

	return s, nil
}

func (repo *SessionsDB) Delete(ctx context.Context, id uuid.UUID) (dao.Session, error) {
	curVal, err := repo.GetByID(ctx, id)
	if err != nil {
		return curVal, err
	}

	res, err := repo.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id.String())
	if err != nil {
		return curVal, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return curVal, wrapDBError(err)
	}
	if rowsAff < 1 {
		return curVal, dao.ErrNotFound
	}

	return curVal, nil
}

func (repo *SessionsDB) Close() error {
	return repo.db.Close()
}

func encodeState(s dao.Session) string {
	stateData := rezi.EncBinary(s.State)
	return base64.StdEncoding.EncodeToString(stateData)
}

func decodeState(encState string, s *dao.Session) error {
	stateData, err := base64.StdEncoding.DecodeString(encState)
	if err != nil {
		return fmt.Errorf("stored state for %s is invalid: %w", s.ID.String(), err)
	}
	_, err = rezi.DecBinary(stateData, &s.State)
	if err != nil {
		return fmt.Errorf("stored state for %s could not be decoded: %w", s.ID.String(), err)
	}
	return nil
}
