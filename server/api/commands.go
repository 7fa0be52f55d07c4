package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/dekarrin/cmdtree/server/dao"
	"github.com/dekarrin/cmdtree/server/result"
	"github.com/dekarrin/cmdtree/server/serr"
)

func commandModel(c dao.Command) CommandModel {
	out := c.Output
	if out == nil {
		out = []string{}
	}
	return CommandModel{
		URI:     PathPrefix + "/commands/" + c.ID.String(),
		ID:      c.ID.String(),
		Input:   c.Input,
		Output:  out,
		Error:   c.Error,
		Created: c.Created.Format(time.RFC3339),
	}
}

// HTTPCreateCommand returns a HandlerFunc that runs a command in the session
// the client is logged in as. A command that is run but fails is still
// created; its failure is given in the response.
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// the session of the client making the request.
func (api API) HTTPCreateCommand() http.HandlerFunc {
	return Endpoint(api.UnauthDelay, api.epCreateCommand)
}

func (api API) epCreateCommand(req *http.Request) result.Result {
	sesh := requireSession(req)

	var data CommandRequest
	err := parseJSON(req, &data)
	if err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	cmd, err := api.Backend.RunCommand(req.Context(), sesh.ID, data.Command)
	if err != nil {
		if errors.Is(err, serr.ErrBadArgument) {
			return result.BadRequest("command: property is empty or missing from request", err.Error())
		} else if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound("session %s was ended", sesh.ID)
		}
		return result.InternalServerError(err.Error())
	}

	outcome := "ran"
	if cmd.Error != "" {
		outcome = "failed"
	}
	return result.Created(commandModel(cmd), "session %s %s command %q", sesh.ID, outcome, cmd.Input)
}

// HTTPGetAllCommands returns a HandlerFunc that gets the history of commands
// run in the session the client is logged in as, oldest first.
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// the session of the client making the request.
func (api API) HTTPGetAllCommands() http.HandlerFunc {
	return Endpoint(api.UnauthDelay, api.epGetAllCommands)
}

func (api API) epGetAllCommands(req *http.Request) result.Result {
	sesh := requireSession(req)

	cmds, err := api.Backend.GetCommands(req.Context(), sesh.ID)
	if err != nil {
		return result.InternalServerError(err.Error())
	}

	resp := make([]CommandModel, len(cmds))
	for i := range cmds {
		resp[i] = commandModel(cmds[i])
	}

	return result.OK(resp, "session %s got all commands", sesh.ID)
}

// HTTPGetCommand returns a HandlerFunc that gets one command run in the session
// the client is logged in as. Commands of other sessions are not found.
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// the ID of the command and the session of the client making the request.
func (api API) HTTPGetCommand() http.HandlerFunc {
	return Endpoint(api.UnauthDelay, api.epGetCommand)
}

func (api API) epGetCommand(req *http.Request) result.Result {
	id := requireIDParam(req)
	sesh := requireSession(req)

	cmd, err := api.Backend.GetCommand(req.Context(), sesh.ID, id)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError(err.Error())
	}

	return result.OK(commandModel(cmd), "session %s got command %s", sesh.ID, id)
}
