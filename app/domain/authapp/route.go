package authapp

import (
	"net/http"

	"github.com/jcpaschoal/coopfrota/app/sdk/auth"
	"github.com/jcpaschoal/coopfrota/business/domain/orgbus"
	"github.com/jcpaschoal/coopfrota/business/sdk/web"
)

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Auth   *auth.Auth
	OrgBus *orgbus.Core
}

// Routes adds specific routes for this group.
func Routes(app *web.App, cfg Config) {
	const version = "v1"

	api := newApp(cfg.Auth, cfg.OrgBus)

	app.HandlerFunc(http.MethodPost, version, "/auth/token", api.token)
}
