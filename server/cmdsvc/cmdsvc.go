// Package cmdsvc has services for interacting with the cmdtree server backend
// decoupled from the API that accesses it.
package cmdsvc

import (
	"sync"

	"github.com/dekarrin/cmdtree/internal/command"
	"github.com/dekarrin/cmdtree/internal/world"
	"github.com/dekarrin/cmdtree/server/dao"
	"github.com/dekarrin/cmdtree/tree"
	"github.com/google/uuid"
)

// Service is a service for interacting with and modifying the cmdtree server
// backend. It performs the actions requested and makes calls to server
// persistence to preserve the backend state.
//
// The zero-value of Service is not ready to be used; assign a valid DAO store
// to DB and a command tree to Commands before attempting to use it. A Service
// must not be copied after first use.
type Service struct {

	// DB is the persistence store of the service.
	DB dao.Store

	// Commands is the tree that every session dispatches against. It is never
	// modified by the Service, so all sessions share it.
	Commands *tree.Tree[*world.Caller]

	// Aliases is expanded on input before dispatch. It may be nil.
	Aliases *command.Aliases

	// OperatorPassword is the bcrypt hash of the password that grants
	// moderator sessions. If nil, no session can be a moderator.
	OperatorPassword []byte

	// sessionLocks holds a *sync.Mutex per session ID.
	sessionLocks sync.Map
}

// lockSession acquires the lock for the session with the given ID and
// returns the function that releases it.
func (svc *Service) lockSession(id uuid.UUID) func() {
	v, _ := svc.sessionLocks.LoadOrStore(id, &sync.Mutex{})
	mtx := v.(*sync.Mutex)
	mtx.Lock()
	return mtx.Unlock
}
