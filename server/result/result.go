// Package result contains results that are used to write out API responses.
package result

import (
	"encoding/json"
	"fmt"
	"net/http"
)

type ErrorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

// internalFormat splits the optional internal message arguments taken by
// result constructors into a format string and its arguments. def is used if
// none are given.
func internalFormat(def string, internalMsg []interface{}) (string, []interface{}) {
	if len(internalMsg) < 1 {
		return def, nil
	}
	return internalMsg[0].(string), internalMsg[1:]
}

// OK returns a Result containing an HTTP-200. internalMsg, if given, is a
// format string and its arguments for a message that is logged but not shown
// to the client.
func OK(respObj interface{}, internalMsg ...interface{}) Result {
	f, args := internalFormat("OK", internalMsg)
	return Response(http.StatusOK, respObj, f, args...)
}

// NoContent returns a Result containing an HTTP-204.
func NoContent(internalMsg ...interface{}) Result {
	f, args := internalFormat("no content", internalMsg)
	return Response(http.StatusNoContent, nil, f, args...)
}

// Created returns a Result containing an HTTP-201.
func Created(respObj interface{}, internalMsg ...interface{}) Result {
	f, args := internalFormat("created", internalMsg)
	return Response(http.StatusCreated, respObj, f, args...)
}

// BadRequest returns a Result containing an HTTP-400. userMsg is shown to the
// client.
func BadRequest(userMsg string, internalMsg ...interface{}) Result {
	f, args := internalFormat("bad request", internalMsg)
	if userMsg == "" {
		userMsg = "The request was not valid"
	}
	return Err(http.StatusBadRequest, userMsg, f, args...)
}

// MethodNotAllowed returns a Result containing an HTTP-405.
func MethodNotAllowed(req *http.Request, internalMsg ...interface{}) Result {
	f, args := internalFormat("method not allowed", internalMsg)
	userMsg := fmt.Sprintf("Method %s is not allowed for %s", req.Method, req.URL.Path)
	return Err(http.StatusMethodNotAllowed, userMsg, f, args...)
}

// NotFound returns a Result containing an HTTP-404.
func NotFound(internalMsg ...interface{}) Result {
	f, args := internalFormat("not found", internalMsg)
	return Err(http.StatusNotFound, "The requested resource was not found", f, args...)
}

// Forbidden returns a Result containing an HTTP-403.
func Forbidden(internalMsg ...interface{}) Result {
	f, args := internalFormat("forbidden", internalMsg)
	return Err(http.StatusForbidden, "You don't have permission to do that", f, args...)
}

// Unauthorized returns a Result containing an HTTP-401 along with the proper
// WWW-Authenticate header. If userMsg is empty a generic one is used.
func Unauthorized(userMsg string, internalMsg ...interface{}) Result {
	f, args := internalFormat("unauthorized", internalMsg)
	if userMsg == "" {
		userMsg = "You are not authorized to do that"
	}

	return Err(http.StatusUnauthorized, userMsg, f, args...).
		WithHeader("WWW-Authenticate", `Bearer realm="cmdtree server", charset="utf-8"`)
}

// InternalServerError returns a Result containing an HTTP-500. The details
// given in internalMsg are only logged.
func InternalServerError(internalMsg ...interface{}) Result {
	f, args := internalFormat("internal server error", internalMsg)
	return Err(http.StatusInternalServerError, "An internal server error occurred", f, args...)
}

// Response returns a JSON Result. If status is http.StatusNoContent, respObj
// will not be read and may be nil. Otherwise, respObj MUST NOT be nil.
func Response(status int, respObj interface{}, internalMsg string, v ...interface{}) Result {
	return Result{
		IsJSON:      true,
		IsErr:       false,
		Status:      status,
		InternalMsg: fmt.Sprintf(internalMsg, v...),
		resp:        respObj,
	}
}

// Binary returns an HTTP-200 Result whose body is data as-is.
func Binary(data []byte, internalMsg string, v ...interface{}) Result {
	return Result{
		Status:      http.StatusOK,
		InternalMsg: fmt.Sprintf(internalMsg, v...),
		raw:         data,
	}
}

// Err returns a JSON error Result. userMsg is shown to the client and
// internalMsg is a format string for a message that is only logged.
func Err(status int, userMsg, internalMsg string, v ...interface{}) Result {
	return Result{
		IsJSON:      true,
		IsErr:       true,
		Status:      status,
		InternalMsg: fmt.Sprintf(internalMsg, v...),
		resp: ErrorResponse{
			Error:  userMsg,
			Status: status,
		},
	}
}

// Redirection returns a Result that permanently redirects to uri.
func Redirection(uri string) Result {
	return Result{
		Status:      http.StatusPermanentRedirect,
		InternalMsg: fmt.Sprintf("redirect -> %s", uri),
		redir:       uri,
	}
}

// TextErr is like Err but it avoids JSON encoding of any kind and writes the
// output as plain text.
func TextErr(status int, userMsg, internalMsg string, v ...interface{}) Result {
	return Result{
		IsJSON:      false,
		IsErr:       true,
		Status:      status,
		InternalMsg: fmt.Sprintf(internalMsg, v...),
		resp:        userMsg,
	}
}

// Result is the outcome of an endpoint, ready to be written as an HTTP
// response.
type Result struct {
	Status      int
	IsErr       bool
	IsJSON      bool
	InternalMsg string

	resp  interface{}
	raw   []byte // only used for binary
	redir string // only used for redirects
	hdrs  [][2]string

	// set by calling PrepareMarshaledResponse.
	respJSONBytes []byte
}

// WithHeader returns a copy of r that also sets the given header.
func (r Result) WithHeader(name, val string) Result {
	erCopy := r
	erCopy.hdrs = make([][2]string, len(r.hdrs), len(r.hdrs)+1)
	copy(erCopy.hdrs, r.hdrs)
	erCopy.hdrs = append(erCopy.hdrs, [2]string{name, val})
	return erCopy
}

// PrepareMarshaledResponse marshals the response to JSON if r is a JSON
// result with a body. Calling it again once it has succeeded has no effect.
func (r *Result) PrepareMarshaledResponse() error {
	if r.respJSONBytes != nil {
		return nil
	}

	if r.IsJSON && r.Status != http.StatusNoContent && r.redir == "" {
		var err error
		r.respJSONBytes, err = json.Marshal(r.resp)
		if err != nil {
			return err
		}
	}

	return nil
}

// WriteResponse writes r to w. It panics if r was never populated or its
// response cannot be marshaled.
func (r Result) WriteResponse(w http.ResponseWriter) {
	if r.Status == 0 {
		panic("result not populated")
	}

	err := r.PrepareMarshaledResponse()
	if err != nil {
		panic(fmt.Sprintf("could not marshal response: %s", err.Error()))
	}

	var respBytes []byte

	switch {
	case r.raw != nil:
		w.Header().Set("Content-Type", "application/octet-stream")
		respBytes = r.raw
	case r.IsJSON:
		w.Header().Set("Content-Type", "application/json")
		if r.redir == "" {
			respBytes = r.respJSONBytes
		}
	default:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if r.Status != http.StatusNoContent && r.redir == "" {
			respBytes = []byte(fmt.Sprintf("%v", r.resp))
		}
	}
	w.Header().Set("X-Content-Type-Options", "nosniff")

	if r.redir != "" {
		w.Header().Set("Location", r.redir)
	}

	for i := range r.hdrs {
		w.Header().Set(r.hdrs[i][0], r.hdrs[i][1])
	}

	w.WriteHeader(r.Status)

	if r.Status != http.StatusNoContent {
		w.Write(respBytes)
	}
}
