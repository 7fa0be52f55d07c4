package api

import (
	"net/http"

	"github.com/dekarrin/cmdtree/internal/version"
	"github.com/dekarrin/cmdtree/server/middle"
	"github.com/dekarrin/cmdtree/server/result"
)

// HTTPGetInfo returns a HandlerFunc that retrieves information on the API and
// server.
//
// The request context may carry the client's session; see middle.Session.
func (api API) HTTPGetInfo() http.HandlerFunc {
	return Endpoint(api.UnauthDelay, api.epGetInfo)
}

func (api API) epGetInfo(req *http.Request) result.Result {
	var resp InfoModel
	resp.Version.Server = version.ServerCurrent
	resp.Version.CmdTree = version.Current

	clientStr := "unauthed client"
	if sesh, ok := middle.Session(req.Context()); ok {
		clientStr = "session " + sesh.ID.String()
	}
	return result.OK(resp, "%s got API info", clientStr)
}
