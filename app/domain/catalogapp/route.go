package catalogapp

import (
	"net/http"

	"github.com/jcpaschoal/coopfrota/app/sdk/auth"
	"github.com/jcpaschoal/coopfrota/app/sdk/mid"
	"github.com/jcpaschoal/coopfrota/business/domain/catalogbus"
	"github.com/jcpaschoal/coopfrota/business/sdk/web"
	"github.com/jcpaschoal/coopfrota/business/types/role"
)

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Auth       *auth.Auth
	CatalogBus *catalogbus.Core
}

// Routes adds specific routes for this group.
func Routes(app *web.App, cfg Config) {
	const version = "v1"

	authen := mid.Authenticate(cfg.Auth)
	ruleAdmin := mid.Authorize(cfg.Auth, role.Admin)
	ruleAny := mid.Authorize(cfg.Auth, role.Admin, role.Member)

	api := newApp(cfg.CatalogBus)

	app.HandlerFunc(http.MethodGet, version, "/vehicles", api.queryVehicles, authen, ruleAny)
	app.HandlerFunc(http.MethodPut, version, "/vehicles/{vehicle_id}/maintenance", api.setMaintenance, authen, ruleAdmin)

	app.HandlerFunc(http.MethodGet, version, "/extras", api.queryExtras, authen, ruleAny)
	app.HandlerFunc(http.MethodPost, version, "/extras", api.createExtra, authen, ruleAdmin)

	app.HandlerFunc(http.MethodGet, version, "/rooms", api.queryRooms, authen, ruleAny)
}
