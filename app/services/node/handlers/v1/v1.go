// Package v1 contains the full set of handler functions and routes
// supported by the web api.
package v1

import (
	"net/http"

	"github.com/ardanlabs/ledger/app/services/node/handlers/v1/public"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"github.com/ardanlabs/ledger/foundation/events"
	"github.com/ardanlabs/ledger/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// version is empty since peers and existing clients call the routes at the
// root of the host.
const version = ""

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log   *zap.SugaredLogger
	State *state.State
	Evts  *events.Events
}

// PublicRoutes binds all the public routes.
func PublicRoutes(app *web.App, cfg Config) {
	pbl := public.Handlers{
		Log:   cfg.Log,
		State: cfg.State,
		WS:    websocket.Upgrader{},
		Evts:  cfg.Evts,
	}

	app.Handle(http.MethodGet, version, "/mine_block", pbl.MineBlock)
	app.Handle(http.MethodGet, version, "/get_chain", pbl.Chain)
	app.Handle(http.MethodGet, version, "/is_valid", pbl.IsValid)
	app.Handle(http.MethodPost, version, "/add_transaction", pbl.AddTransaction)
	app.Handle(http.MethodPost, version, "/connect_node", pbl.ConnectNode)
	app.Handle(http.MethodGet, version, "/replace_chain", pbl.ReplaceChain)
	app.Handle(http.MethodGet, version, "/mempool", pbl.Mempool)
	app.Handle(http.MethodGet, version, "/events", pbl.Events)
}
