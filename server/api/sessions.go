package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/dekarrin/cmdtree/server/dao"
	"github.com/dekarrin/cmdtree/server/result"
	"github.com/dekarrin/cmdtree/server/serr"
	"github.com/dekarrin/cmdtree/server/token"
)

func sessionModel(s dao.Session) SessionModel {
	st := s.State
	return SessionModel{
		URI:      PathPrefix + "/sessions/" + s.ID.String(),
		ID:       s.ID.String(),
		Player:   st.Player,
		Group:    st.Group,
		Mode:     st.Mode.String(),
		Location: st.Location,
		Position: PositionModel{X: st.Pos.X, Y: st.Pos.Y, Z: st.Pos.Z},
		Time:     st.Time,
		Speed:    st.Speed,
		Flying:   st.Flying,
		XP:       st.XP,
		Class:    st.Class,
		Team:     st.Team,
		Created:  s.Created.Format(time.RFC3339),
	}
}

// HTTPCreateSession returns a HandlerFunc that starts a new session for a
// player and returns a token for acting as it.
func (api API) HTTPCreateSession() http.HandlerFunc {
	return Endpoint(api.UnauthDelay, api.epCreateSession)
}

func (api API) epCreateSession(req *http.Request) result.Result {
	var data SessionRequest
	err := parseJSON(req, &data)
	if err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	if data.Player == "" {
		return result.BadRequest("player: property is empty or missing from request", "empty player")
	}

	sesh, err := api.Backend.CreateSession(req.Context(), data.Player, data.Password)
	if err != nil {
		if errors.Is(err, serr.ErrBadCredentials) {
			return result.Unauthorized(serr.ErrBadCredentials.Error(), "player '%s': %s", data.Player, err.Error())
		} else if errors.Is(err, serr.ErrBadArgument) {
			return result.BadRequest(err.Error(), err.Error())
		}
		return result.InternalServerError(err.Error())
	}

	tok, err := token.Generate(api.Secret, sesh)
	if err != nil {
		return result.InternalServerError("could not generate JWT: " + err.Error())
	}

	resp := TokenResponse{
		Token:     tok,
		SessionID: sesh.ID.String(),
	}
	return result.Created(resp, "player '%s' started session %s as %s", sesh.State.Player, sesh.ID, sesh.State.Group)
}

// HTTPGetSession returns a HandlerFunc that gets the state of a session. A
// client can only get the session it is logged in as.
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// the ID of the session to get and the session of the client making the
// request.
func (api API) HTTPGetSession() http.HandlerFunc {
	return Endpoint(api.UnauthDelay, api.epGetSession)
}

func (api API) epGetSession(req *http.Request) result.Result {
	id := requireIDParam(req)
	sesh := requireSession(req)

	if id != sesh.ID {
		return result.Forbidden("session %s get session %s: forbidden", sesh.ID, id)
	}

	// the auth copy is from before the request was made, but commands may have
	// run since then in other requests.
	current, err := api.Backend.GetSession(req.Context(), id)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError(err.Error())
	}

	return result.OK(sessionModel(current), "session %s got own state", id)
}

// HTTPDeleteSession returns a HandlerFunc that ends a session. A client can
// only end the session it is logged in as.
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// the ID of the session to end and the session of the client making the
// request.
func (api API) HTTPDeleteSession() http.HandlerFunc {
	return Endpoint(api.UnauthDelay, api.epDeleteSession)
}

func (api API) epDeleteSession(req *http.Request) result.Result {
	id := requireIDParam(req)
	sesh := requireSession(req)

	if id != sesh.ID {
		return result.Forbidden("session %s end session %s: forbidden", sesh.ID, id)
	}

	_, err := api.Backend.EndSession(req.Context(), id)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError("could not end session: " + err.Error())
	}

	return result.NoContent("session %s ended", id)
}

// HTTPCreateToken returns a HandlerFunc that creates a new token for the
// session the client is logged in as.
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// the session of the client making the request.
func (api API) HTTPCreateToken() http.HandlerFunc {
	return Endpoint(api.UnauthDelay, api.epCreateToken)
}

func (api API) epCreateToken(req *http.Request) result.Result {
	sesh := requireSession(req)

	tok, err := token.Generate(api.Secret, sesh)
	if err != nil {
		return result.InternalServerError("could not generate JWT: " + err.Error())
	}

	resp := TokenResponse{
		Token:     tok,
		SessionID: sesh.ID.String(),
	}
	return result.Created(resp, "session %s successfully created new token", sesh.ID)
}
