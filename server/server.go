// Package server provides an HTTP REST server that runs commands from a
// command tree in player sessions.
//
// Routes, all under /api/v1:
//
//	POST   /sessions       - start a session and get a token for it. An operator
//	                         password may be given to make it a moderator.
//	GET    /sessions/{id}  - get the state of a session (own session only).
//	DELETE /sessions/{id}  - end a session (own session only).
//	POST   /tokens         - get a new token for the current session.
//	POST   /commands       - run a command in the current session.
//	GET    /commands       - get the command history of the current session.
//	GET    /commands/{id}  - get one command from the history.
//	GET    /tree           - get the serialized command tree, as JSON or
//	                         (with ?format=binary) REZI bytes.
//	GET    /info           - get version info.
package server

import (
	"fmt"
	"log"
	"net/http"

	"github.com/dekarrin/cmdtree/internal/world"
	"github.com/dekarrin/cmdtree/server/api"
	"github.com/dekarrin/cmdtree/server/cmdsvc"
	"github.com/dekarrin/cmdtree/server/dao"
)

// Server is an HTTP REST server that runs commands in player sessions. The
// zero-value of a Server should not be used directly; call New() to get one
// ready for use.
type Server struct {
	router http.Handler
	db     dao.Store
	api    api.API
}

// New creates a new Server from the given config. Unset values in cfg are
// filled with their defaults before it is validated.
func New(cfg Config) (*Server, error) {
	cfg = cfg.FillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	def, err := cfg.Definition()
	if err != nil {
		return nil, err
	}

	cmds, err := world.Commands(def)
	if err != nil {
		return nil, fmt.Errorf("building command tree: %w", err)
	}
	aliases, err := def.AliasTable()
	if err != nil {
		return nil, fmt.Errorf("building alias table: %w", err)
	}

	db, err := cfg.DB.Connect()
	if err != nil {
		return nil, fmt.Errorf("connect to DB: %w", err)
	}

	srv := &Server{
		db: db,
		api: api.API{
			Backend: &cmdsvc.Service{
				DB:               db,
				Commands:         cmds,
				Aliases:          aliases,
				OperatorPassword: cfg.OperatorPassword,
			},
			UnauthDelay: cfg.UnauthDelay(),
			Secret:      cfg.TokenSecret,
		},
	}
	srv.router = newRouter(srv.api)

	return srv, nil
}

// ServeHTTP serves the API.
func (s *Server) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	s.router.ServeHTTP(w, req)
}

// ServeForever begins listening on the given address and port for HTTP REST
// client requests. If address is kept as "", it will default to "localhost". If
// port is less than 1, it will default to 8080.
func (s *Server) ServeForever(address string, port int) {
	if address == "" {
		address = "localhost"
	}
	if port < 1 {
		port = 8080
	}

	listenAddress := fmt.Sprintf("%s:%d", address, port)
	log.Printf("INFO  Listening on %s", listenAddress)
	log.Fatalf("FATAL %v", http.ListenAndServe(listenAddress, s))
}

// Close releases the server's connection to its persistence layer.
func (s *Server) Close() error {
	return s.db.Close()
}
