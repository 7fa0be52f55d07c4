// Package api provides HTTP API endpoints for the cmdtree server.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/dekarrin/cmdtree/server/cmdsvc"
	"github.com/dekarrin/cmdtree/server/dao"
	"github.com/dekarrin/cmdtree/server/middle"
	"github.com/dekarrin/cmdtree/server/serr"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const (
	// PathPrefix is the prefix of all paths in the API. Routers should mount
	// a sub-router that routes all requests to the API at this path.
	PathPrefix = "/api/v1"

	// MaxBodySize is the largest request body an endpoint will read.
	MaxBodySize = 64 * 1024
)

// API holds parameters for endpoints needed to run and a service layer that
// will perform most of the actual logic. To use API, create one and then
// assign the result of its HTTP* methods as handlers to a router or some other
// kind of server mux.
//
// This is exclusively an API for serving external requests. For direct
// programmatic access into the backend of a cmdtree server via Go code, see
// [cmdsvc.Service].
type API struct {
	// Backend is the service that the API calls to perform the requested
	// actions.
	Backend *cmdsvc.Service

	// UnauthDelay is how long a request pauses before an HTTP-401, HTTP-403,
	// or HTTP-500 response is written.
	UnauthDelay time.Duration

	// Secret is the secret used to sign JWT tokens.
	Secret []byte
}

// requireIDParam gives the UUID in the "id" path param. Routes that use it
// constrain the param to UUID syntax, so a bad value is a routing bug and
// panics.
func requireIDParam(req *http.Request) uuid.UUID {
	raw := chi.URLParam(req, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		panic(fmt.Sprintf("id param %q: %v", raw, err))
	}
	return id
}

// requireSession gives the session of the client making the request. Routes
// that use it sit behind middle.RequireAuth, so a missing session is a routing
// bug and panics.
func requireSession(req *http.Request) dao.Session {
	sesh, ok := middle.Session(req.Context())
	if !ok {
		panic("no session in request context; is the route missing auth middleware?")
	}
	return sesh
}

// parseJSON decodes the JSON body of req into v, which must be a pointer.
// Problems with the JSON itself give an error that matches
// serr.ErrBodyUnmarshal.
func parseJSON(req *http.Request, v interface{}) error {
	mediaType, _, err := mime.ParseMediaType(req.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		return fmt.Errorf("request content-type is not application/json")
	}

	dec := json.NewDecoder(io.LimitReader(req.Body, MaxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return serr.New("request body is empty", serr.ErrBodyUnmarshal)
		}
		return serr.New("malformed JSON in request", err, serr.ErrBodyUnmarshal)
	}
	return nil
}
