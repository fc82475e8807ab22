// Package all binds all the routes into the specified app.
package all

import (
	"time"

	"github.com/jcpaschoal/coopfrota/app/domain/authapp"
	"github.com/jcpaschoal/coopfrota/app/domain/bookingapp"
	"github.com/jcpaschoal/coopfrota/app/domain/catalogapp"
	"github.com/jcpaschoal/coopfrota/app/domain/checkapp"
	"github.com/jcpaschoal/coopfrota/app/sdk/auth"
	"github.com/jcpaschoal/coopfrota/app/sdk/mux"
	"github.com/jcpaschoal/coopfrota/business/domain/availbus"
	"github.com/jcpaschoal/coopfrota/business/domain/bookingbus"
	"github.com/jcpaschoal/coopfrota/business/domain/bookingbus/stores/bookingdb"
	"github.com/jcpaschoal/coopfrota/business/domain/catalogbus"
	"github.com/jcpaschoal/coopfrota/business/domain/catalogbus/stores/catalogcache"
	"github.com/jcpaschoal/coopfrota/business/domain/catalogbus/stores/catalogdb"
	"github.com/jcpaschoal/coopfrota/business/domain/orgbus"
	"github.com/jcpaschoal/coopfrota/business/domain/orgbus/stores/orgdb"
	"github.com/jcpaschoal/coopfrota/business/sdk/sqldb"
	"github.com/jcpaschoal/coopfrota/business/sdk/web"
)

// Routes constructs the add value which provides the implementation of
// of RouteAdder for specifying what routes to bind to this instance.
func Routes() add {
	return add{}
}

type add struct{}

func (add) Add(app *web.App, cfg mux.Config) {

	orgBus := orgbus.NewCore(cfg.Log, orgdb.NewStore(cfg.Log, cfg.DB))
	catalogBus := catalogbus.NewCore(cfg.Log, catalogcache.NewStore(cfg.Log, catalogdb.NewStore(cfg.Log, cfg.DB), time.Minute*5))
	bookingBus := bookingbus.NewCore(cfg.Log, bookingdb.NewStore(cfg.Log, cfg.DB), catalogBus, orgBus)
	availBus := availbus.NewCore(cfg.Log, catalogBus, bookingBus)

	authClient := auth.New(auth.Config{
		Log:       cfg.Log,
		OrgBus:    orgBus,
		KeyLookup: cfg.AuthConfig.KeyLookup,
		Issuer:    cfg.AuthConfig.Issuer,
		ActiveKID: cfg.AuthConfig.ActiveKID,
	})

	checkapp.Routes(app, checkapp.Config{
		Build: cfg.Build,
		Log:   cfg.Log,
		DB:    cfg.DB,
	})

	authapp.Routes(app, authapp.Config{
		Auth:   authClient,
		OrgBus: orgBus,
	})

	catalogapp.Routes(app, catalogapp.Config{
		Auth:       authClient,
		CatalogBus: catalogBus,
	})

	bookingapp.Routes(app, bookingapp.Config{
		Log:        cfg.Log,
		DB:         sqldb.NewBeginner(cfg.DB),
		Auth:       authClient,
		BookingBus: bookingBus,
		AvailBus:   availBus,
	})
}
