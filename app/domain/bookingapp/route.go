package bookingapp

import (
	"net/http"

	"github.com/jcpaschoal/coopfrota/app/sdk/auth"
	"github.com/jcpaschoal/coopfrota/app/sdk/mid"
	"github.com/jcpaschoal/coopfrota/business/domain/availbus"
	"github.com/jcpaschoal/coopfrota/business/domain/bookingbus"
	"github.com/jcpaschoal/coopfrota/business/sdk/sqldb"
	"github.com/jcpaschoal/coopfrota/business/sdk/web"
	"github.com/jcpaschoal/coopfrota/business/types/role"
	"github.com/jcpaschoal/coopfrota/foundation/logger"
)

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log        *logger.Logger
	DB         sqldb.Beginner
	Auth       *auth.Auth
	BookingBus *bookingbus.Core
	AvailBus   *availbus.Core
}

// Routes adds specific routes for this group.
func Routes(app *web.App, cfg Config) {
	const version = "v1"

	authen := mid.Authenticate(cfg.Auth)
	ruleAny := mid.Authorize(cfg.Auth, role.Admin, role.Member)
	tran := mid.BeginCommitRollback(cfg.Log, cfg.DB)

	api := newApp(cfg.BookingBus, cfg.AvailBus)

	app.HandlerFunc(http.MethodGet, version, "/availability", api.availability, authen, ruleAny)

	app.HandlerFunc(http.MethodGet, version, "/bookings", api.queryByOrg, authen, ruleAny)
	app.HandlerFunc(http.MethodPost, version, "/bookings", api.create, authen, ruleAny, tran)
	app.HandlerFunc(http.MethodDelete, version, "/bookings/{booking_id}", api.cancel, authen, ruleAny)
}
