// Package catalogapp maintains the app layer api for the resource catalog:
// pool vehicles, per-day extra vehicles and meeting rooms.
package catalogapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jcpaschoal/coopfrota/app/sdk/errs"
	"github.com/jcpaschoal/coopfrota/app/sdk/mid"
	"github.com/jcpaschoal/coopfrota/business/domain/catalogbus"
	"github.com/jcpaschoal/coopfrota/business/sdk/web"
)

type app struct {
	catalogBus *catalogbus.Core
}

// newApp constructs a catalog app API for use.
func newApp(catalogBus *catalogbus.Core) *app {
	return &app{
		catalogBus: catalogBus,
	}
}

func (a *app) queryVehicles(ctx context.Context, r *http.Request) web.Encoder {
	orgID, err := mid.GetOrgID(ctx)
	if err != nil {
		return errs.New(errs.Unauthenticated, err)
	}

	vs, err := a.catalogBus.QueryVehicles(ctx)
	if err != nil {
		return errs.Errorf(errs.Internal, "query: %s", err)
	}

	visible := make([]catalogbus.Vehicle, 0, len(vs))
	for _, v := range vs {
		if v.VisibleTo(orgID) {
			visible = append(visible, v)
		}
	}

	return toAppVehicles(visible)
}

func (a *app) setMaintenance(ctx context.Context, r *http.Request) web.Encoder {
	vehicleID, err := uuid.Parse(web.Param(r, "vehicle_id"))
	if err != nil {
		return errs.New(errs.InvalidArgument, fmt.Errorf("parsing vehicle id: %w", err))
	}

	var req SetMaintenance
	if err := web.Decode(r, &req); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	status, window, err := toBusMaintenance(req)
	if err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	v, err := a.catalogBus.SetMaintenance(ctx, vehicleID, status, window)
	if err != nil {
		switch {
		case errors.Is(err, catalogbus.ErrNotFound):
			return errs.New(errs.NotFound, catalogbus.ErrNotFound)
		case errors.Is(err, catalogbus.ErrInvalidWindow):
			return errs.New(errs.InvalidArgument, catalogbus.ErrInvalidWindow)
		}
		return errs.Errorf(errs.Internal, "setMaintenance: vehicleID[%s]: %s", vehicleID, err)
	}

	return toAppVehicle(v)
}

func (a *app) queryExtras(ctx context.Context, r *http.Request) web.Encoder {
	orgID, err := mid.GetOrgID(ctx)
	if err != nil {
		return errs.New(errs.Unauthenticated, err)
	}

	day, err := parseDay(r.URL.Query().Get("day"))
	if err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	evs, err := a.catalogBus.QueryExtraVehicles(ctx, orgID, day)
	if err != nil {
		return errs.Errorf(errs.Internal, "query: %s", err)
	}

	return toAppExtraVehicles(evs)
}

func (a *app) createExtra(ctx context.Context, r *http.Request) web.Encoder {
	orgID, err := mid.GetOrgID(ctx)
	if err != nil {
		return errs.New(errs.Unauthenticated, err)
	}

	var req NewExtraVehicle
	if err := web.Decode(r, &req); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	// O veículo extra é sempre criado para a organização do token, nunca
	// para uma organização informada no corpo.
	nev, err := toBusNewExtraVehicle(req, orgID)
	if err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	ev, err := a.catalogBus.CreateExtraVehicle(ctx, nev)
	if err != nil {
		return errs.Errorf(errs.Internal, "createExtraVehicle: %s", err)
	}

	return toAppExtraVehicle(ev)
}

func (a *app) queryRooms(ctx context.Context, r *http.Request) web.Encoder {
	orgID, err := mid.GetOrgID(ctx)
	if err != nil {
		return errs.New(errs.Unauthenticated, err)
	}

	rms, err := a.catalogBus.QueryRooms(ctx, orgID)
	if err != nil {
		return errs.Errorf(errs.Internal, "query: %s", err)
	}

	return toAppRooms(rms)
}

// parseDay accepts a calendar date in YYYY-MM-DD form, defaulting to today.
func parseDay(value string) (time.Time, error) {
	if value == "" {
		return time.Now().UTC(), nil
	}

	day, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing day %q: %w", value, err)
	}

	return day, nil
}
