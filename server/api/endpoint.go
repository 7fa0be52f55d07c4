package api

import (
	"fmt"
	"log"
	"net"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/dekarrin/cmdtree/server/result"
)

// EndpointFunc is the logic of a single endpoint. It gives the Result that
// should be written for req.
type EndpointFunc func(req *http.Request) result.Result

// Endpoint wraps ep as an http.HandlerFunc that logs and writes its result.
// Responses that a prober could learn from wait unauthDelay before they are
// written.
func Endpoint(unauthDelay time.Duration, ep EndpointFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		defer recoverTo500(w, req)

		r := ep(req)
		if r.Status == 0 {
			logResponse("ERROR", req, http.StatusInternalServerError, "endpoint gave an unpopulated result")
			http.Error(w, "An internal server error occurred", http.StatusInternalServerError)
			return
		}

		// marshal now; WriteResponse panics on failure
		if err := r.PrepareMarshaledResponse(); err != nil {
			r = result.Err(http.StatusInternalServerError, "An internal server error occurred", "could not marshal JSON response: "+err.Error())
		}

		level := "INFO"
		if r.IsErr {
			level = "ERROR"
		}
		logResponse(level, req, r.Status, r.InternalMsg)

		switch r.Status {
		case http.StatusUnauthorized, http.StatusForbidden, http.StatusInternalServerError:
			time.Sleep(unauthDelay)
		}

		r.WriteResponse(w)
	}
}

// RedirectNoTrailingSlash is an http.HandlerFunc that redirects to the same URL
// as the request but with no trailing slash.
func RedirectNoTrailingSlash(w http.ResponseWriter, req *http.Request) {
	r := result.Redirection(strings.TrimRight(req.URL.Path, "/"))
	logResponse("INFO", req, r.Status, r.InternalMsg)
	r.WriteResponse(w)
}

func recoverTo500(w http.ResponseWriter, req *http.Request) {
	panicErr := recover()
	if panicErr == nil {
		return
	}

	r := result.TextErr(
		http.StatusInternalServerError,
		"An internal server error occurred",
		fmt.Sprintf("panic: %v\nSTACK TRACE: %s", panicErr, debug.Stack()),
	)
	logResponse("ERROR", req, r.Status, r.InternalMsg)
	r.WriteResponse(w)
}

// logResponse logs one line per response. The client's port is dropped.
func logResponse(level string, req *http.Request, status int, msg string) {
	client, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		client = req.RemoteAddr
	}

	log.Printf("%-5.5s %s %s %s: HTTP-%d %s", level, client, req.Method, req.URL.Path, status, msg)
}
