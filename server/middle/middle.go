// Package middle contains middleware for use with the cmdtree server.
package middle

import (
	"context"
	"net/http"
	"time"

	"github.com/dekarrin/cmdtree/server/dao"
	"github.com/dekarrin/cmdtree/server/result"
	"github.com/dekarrin/cmdtree/server/token"
)

// Middleware is a function that takes a handler and returns a new handler which
// wraps the given one and provides some additional functionality.
type Middleware func(next http.Handler) http.Handler

// AuthKey is a key in the context of a request populated by an AuthHandler.
type AuthKey int64

const (
	AuthLoggedIn AuthKey = iota
	AuthSession
)

// Session gives the session that the request's token was issued for, and
// whether there was one. It only works on contexts of requests that went
// through an AuthHandler.
func Session(ctx context.Context) (dao.Session, bool) {
	loggedIn, _ := ctx.Value(AuthLoggedIn).(bool)
	if !loggedIn {
		return dao.Session{}, false
	}
	sesh, ok := ctx.Value(AuthSession).(dao.Session)
	return sesh, ok
}

// AuthHandler is middleware that finds the bearer token of a request and looks
// up the session it was issued for. It sets AuthLoggedIn and AuthSession in
// the request context before calling the next handler; read them with
// Session.
//
// If auth is required, a request with a missing or bad token gets an HTTP-401
// and never reaches the next handler.
type AuthHandler struct {
	db            dao.SessionRepository
	secret        []byte
	required      bool
	unauthedDelay time.Duration
	next          http.Handler
}

func (ah *AuthHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	sesh, err := ah.authenticate(req)
	if err != nil && ah.required {
		r := result.Unauthorized("", "%s", err.Error())
		time.Sleep(ah.unauthedDelay)
		r.WriteResponse(w)
		return
	}

	ctx := context.WithValue(req.Context(), AuthLoggedIn, err == nil)
	ctx = context.WithValue(ctx, AuthSession, sesh)
	ah.next.ServeHTTP(w, req.WithContext(ctx))
}

func (ah *AuthHandler) authenticate(req *http.Request) (dao.Session, error) {
	tok, err := token.Get(req)
	if err != nil {
		return dao.Session{}, err
	}
	return token.Validate(req.Context(), tok, ah.secret, ah.db)
}

func authMiddleware(db dao.SessionRepository, secret []byte, unauthDelay time.Duration, required bool) Middleware {
	return func(next http.Handler) http.Handler {
		return &AuthHandler{
			db:            db,
			secret:        secret,
			unauthedDelay: unauthDelay,
			required:      required,
			next:          next,
		}
	}
}

// RequireAuth returns middleware that rejects requests without a valid token
// with an HTTP-401.
func RequireAuth(db dao.SessionRepository, secret []byte, unauthDelay time.Duration) Middleware {
	return authMiddleware(db, secret, unauthDelay, true)
}

// OptionalAuth returns middleware that looks up the session of a valid token
// if one is given, but lets requests through either way.
func OptionalAuth(db dao.SessionRepository, secret []byte, unauthDelay time.Duration) Middleware {
	return authMiddleware(db, secret, unauthDelay, false)
}
