package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/dekarrin/cmdtree/server/api"
	"github.com/dekarrin/cmdtree/server/middle"
	"github.com/dekarrin/cmdtree/server/result"
	"github.com/go-chi/chi/v5"
)

var (
	paramTypePats = map[string]string{
		"uuid": "[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}",
	}
)

// p is a quick parameter in a URI, made very small to ease readability in route
// listings.
func p(nameType string) string {
	var name string
	var pat string

	parts := strings.SplitN(nameType, ":", 2)
	name = parts[0]
	if len(parts) == 2 {
		// we have a type, if it's a name in the paramTypePats map use that else
		// treat it as a normal pattern
		pat = parts[1]

		if translatedPat, ok := paramTypePats[parts[1]]; ok {
			pat = translatedPat
		}
	}

	if pat == "" {
		return "{" + name + "}"
	}
	return "{" + name + ":" + pat + "}"
}

func newRouter(a api.API) chi.Router {
	r := chi.NewRouter()

	r.Mount(api.PathPrefix, newAPIRouter(a))

	return r
}

func newAPIRouter(a api.API) chi.Router {
	r := chi.NewRouter()

	r.Mount("/sessions", newSessionsRouter(a))
	r.Mount("/tokens", newTokensRouter(a))
	r.Mount("/commands", newCommandsRouter(a))
	r.Mount("/tree", newTreeRouter(a))
	r.Mount("/info", newInfoRouter(a))
	r.HandleFunc("/info/", api.RedirectNoTrailingSlash)
	r.HandleFunc("/tree/", api.RedirectNoTrailingSlash)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		result.NotFound().WriteResponse(w)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		time.Sleep(a.UnauthDelay)
		result.MethodNotAllowed(req).WriteResponse(w)
	})

	return r
}

func newSessionsRouter(a api.API) chi.Router {
	reqAuth := middle.RequireAuth(a.Backend.DB.Sessions(), a.Secret, a.UnauthDelay)

	r := chi.NewRouter()

	r.Post("/", a.HTTPCreateSession())
	r.Route("/"+p("id:uuid"), func(r chi.Router) {
		r.Use(reqAuth)
		r.Get("/", a.HTTPGetSession())
		r.Delete("/", a.HTTPDeleteSession())
	})

	return r
}

func newTokensRouter(a api.API) chi.Router {
	reqAuth := middle.RequireAuth(a.Backend.DB.Sessions(), a.Secret, a.UnauthDelay)

	r := chi.NewRouter()

	r.With(reqAuth).Post("/", a.HTTPCreateToken())

	return r
}

func newCommandsRouter(a api.API) chi.Router {
	reqAuth := middle.RequireAuth(a.Backend.DB.Sessions(), a.Secret, a.UnauthDelay)

	r := chi.NewRouter()

	r.Use(reqAuth)

	r.Get("/", a.HTTPGetAllCommands())
	r.Post("/", a.HTTPCreateCommand())
	r.Get("/"+p("id:uuid"), a.HTTPGetCommand())

	return r
}

func newTreeRouter(a api.API) chi.Router {
	r := chi.NewRouter()

	r.Get("/", a.HTTPGetTree())

	return r
}

func newInfoRouter(a api.API) chi.Router {
	optAuth := middle.OptionalAuth(a.Backend.DB.Sessions(), a.Secret, a.UnauthDelay)

	r := chi.NewRouter()

	r.With(optAuth).Get("/", a.HTTPGetInfo())

	return r
}
