// Package dao provides data access objects for use in the cmdtree server.
package dao

import (
	"context"
	"time"

	"github.com/dekarrin/cmdtree/internal/world"
	"github.com/google/uuid"
)

// Store holds all the repositories.
type Store interface {
	Sessions() SessionRepository
	Commands() CommandRepository
	Close() error
}

// Session is a player session that commands are run against. State is the
// whole of the session's world state.
type Session struct {
	ID      uuid.UUID
	State   world.Session
	Created time.Time
}

// Command is one line of input that was dispatched in a session, along with
// what came of it.
type Command struct {
	ID        uuid.UUID
	SessionID uuid.UUID
	Input     string

	// Output is the feedback messages the command produced, in order.
	Output []string

	// Error is the human-readable message of the error the command failed
	// with. It is empty if the command succeeded.
	Error string

	Created time.Time
}

type SessionRepository interface {

	// Create creates a new Session. All attributes except for auto-generated
	// fields are taken from the provided Session.
	Create(ctx context.Context, s Session) (Session, error)
	GetByID(ctx context.Context, id uuid.UUID) (Session, error)
	GetAll(ctx context.Context) ([]Session, error)
	Update(ctx context.Context, id uuid.UUID, s Session) (Session, error)
	Delete(ctx context.Context, id uuid.UUID) (Session, error)
	Close() error
}

type CommandRepository interface {

	// Create creates a new Command. All attributes except for auto-generated
	// fields are taken from the provided Command.
	Create(ctx context.Context, c Command) (Command, error)
	GetByID(ctx context.Context, id uuid.UUID) (Command, error)

	// GetAllBySession returns every command run in the given session, oldest
	// first.
	GetAllBySession(ctx context.Context, sessionID uuid.UUID) ([]Command, error)
	DeleteAllBySession(ctx context.Context, sessionID uuid.UUID) ([]Command, error)
	Close() error
}
