package api

import (
	"net/http"
	"strings"

	"github.com/dekarrin/cmdtree/server/result"
	"github.com/dekarrin/rezi"
)

// HTTPGetTree returns a HandlerFunc that gives the serialized command tree.
// It is JSON unless the format query parameter is "binary", in which case it
// is the REZI encoding of the packet.
func (api API) HTTPGetTree() http.HandlerFunc {
	return Endpoint(api.UnauthDelay, api.epGetTree)
}

func (api API) epGetTree(req *http.Request) result.Result {
	pkt := api.Backend.Tree()

	format := strings.ToLower(req.URL.Query().Get("format"))
	switch format {
	case "", "json":
		return result.OK(pkt, "got command tree (%d nodes)", len(pkt.Nodes))
	case "binary":
		return result.Binary(rezi.EncBinary(pkt), "got binary command tree (%d nodes)", len(pkt.Nodes))
	default:
		return result.BadRequest("format: must be one of 'json' or 'binary'", "bad format %q", format)
	}
}
