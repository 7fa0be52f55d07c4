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

func NewCommandsDBConn(file string) (*CommandsDB, error) {
	repo := &CommandsDB{}

	var err error
	repo.db, err = sql.Open("sqlite", file)
	if err != nil {
		return nil, wrapDBError(err)
	}

	return repo, repo.init(false)
}

type CommandsDB struct {
	db *sql.DB
}

func (repo *CommandsDB) init(fk bool) error {
	stmt := `CREATE TABLE IF NOT EXISTS commands (
		id TEXT NOT NULL PRIMARY KEY,
		session_id TEXT NOT NULL`

	if fk {
		stmt += ` REFERENCES sessions(id) ON DELETE CASCADE ON UPDATE CASCADE`
	}

	stmt += `,
		input TEXT NOT NULL,
		output TEXT NOT NULL,
		error TEXT NOT NULL,
		created INTEGER NOT NULL
	);`
	_, err := repo.db.Exec(stmt)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

func (repo *CommandsDB) Create(ctx context.Context, c dao.Command) (dao.Command, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Command{}, fmt.Errorf("could not generate ID: %w", err)
	}

	stmt, err := repo.db.Prepare(`INSERT INTO commands (id, session_id, input, output, error, created) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return dao.Command{}, wrapDBError(err)
	}
	defer stmt.Close()
	now := time.Now()

	_, err = stmt.ExecContext(
		ctx,
		newUUID.String(),
		c.SessionID.String(),
		c.Input,
		encodeOutput(c.Output),
		c.Error,
		now.Unix(),
	)
	if err != nil {
		return dao.Command{}, wrapDBError(err)
	}

	return repo.GetByID(ctx, newUUID)
}

func (repo *CommandsDB) GetAllBySession(ctx context.Context, sessionID uuid.UUID) ([]dao.Command, error) {
	// rowid gives insertion order; created alone is too coarse
	rows, err := repo.db.QueryContext(ctx, `
		SELECT id, input, output, error, created
		FROM commands
		WHERE session_id = ?
		ORDER BY rowid
	;`,
		sessionID.String(),
	)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	all := []dao.Command{}

	for rows.Next() {
		c := dao.Command{
			SessionID: sessionID,
		}
		var id string
		var encOutput string
		var created int64
		err = rows.Scan(
			&id,
			&c.Input,
			&encOutput,
			&c.Error,
			&created,
		)
		if err != nil {
			return nil, wrapDBError(err)
		}

		c.ID, err = uuid.Parse(id)
		if err != nil {
			return all, fmt.Errorf("stored UUID %q is invalid", id)
		}
		c.Output, err = decodeOutput(encOutput)
		if err != nil {
			return all, fmt.Errorf("stored output for %s is invalid: %w", id, err)
		}
		c.Created = time.Unix(created, 0)

		all = append(all, c)
	}

	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}

	return all, nil
}

func (repo *CommandsDB) GetByID(ctx context.Context, id uuid.UUID) (dao.Command, error) {
	c := dao.Command{
		ID: id,
	}
	var seshID string
	var encOutput string
	var created int64

	row := repo.db.QueryRowContext(ctx, `SELECT session_id, input, output, error, created FROM commands WHERE id = ?;`,
		id.String(),
	)
	err := row.Scan(
		&seshID,
		&c.Input,
		&encOutput,
		&c.Error,
		&created,
	)
	if err != nil {
		return c, wrapDBError(err)
	}

	c.SessionID, err = uuid.Parse(seshID)
	if err != nil {
		return c, fmt.Errorf("stored session ID %q is invalid: %w", seshID, err)
	}
	c.Output, err = decodeOutput(encOutput)
	if err != nil {
		return c, fmt.Errorf("stored output for %s is invalid: %w", id, err)
	}
	c.Created = time.Unix(created, 0)

	return c, nil
}

func (repo *CommandsDB) DeleteAllBySession(ctx context.Context, sessionID uuid.UUID) ([]dao.Command, error) {
	curVals, err := repo.GetAllBySession(ctx, sessionID)
	if err != nil {
		return curVals, err
	}

	_, err = repo.db.ExecContext(ctx, `DELETE FROM commands WHERE session_id = ?`, sessionID.String())
	if err != nil {
		return curVals, wrapDBError(err)
	}

	return curVals, nil
}

func (repo *CommandsDB) Close() error {
	return repo.db.Close()
}

// encodeOutput gives the output messages as a count followed by each message,
// in REZI format, then base64 encoded for the TEXT column.
func encodeOutput(out []string) string {
	var data []byte
	data = append(data, rezi.EncInt(len(out))...)
	for _, msg := range out {
		data = append(data, rezi.EncString(msg)...)
	}
	return base64.StdEncoding.EncodeToString(data)
}

func decodeOutput(enc string) ([]string, error) {
	data, err := base64.StdEncoding.DecodeString(enc)
	if err != nil {
		return nil, err
	}

	count, n, err := rezi.DecInt(data)
	if err != nil {
		return nil, fmt.Errorf("count: %w", err)
	}
	data = data[n:]

	if count < 1 {
		return nil, nil
	}

	out := make([]string, count)
	for i := range out {
		out[i], n, err = rezi.DecString(data)
		if err != nil {
			return nil, fmt.Errorf("message %d: %w", i, err)
		}
		data = data[n:]
	}
	return out, nil
}
