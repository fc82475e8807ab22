// Package bookingapp maintains the app layer api for the reservation domain:
// availability queries and the create/list/cancel booking operations.
package bookingapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jcpaschoal/coopfrota/app/sdk/errs"
	"github.com/jcpaschoal/coopfrota/app/sdk/mid"
	"github.com/jcpaschoal/coopfrota/app/sdk/query"
	"github.com/jcpaschoal/coopfrota/business/domain/availbus"
	"github.com/jcpaschoal/coopfrota/business/domain/bookingbus"
	"github.com/jcpaschoal/coopfrota/business/domain/catalogbus"
	"github.com/jcpaschoal/coopfrota/business/sdk/interval"
	"github.com/jcpaschoal/coopfrota/business/sdk/order"
	"github.com/jcpaschoal/coopfrota/business/sdk/page"
	"github.com/jcpaschoal/coopfrota/business/sdk/web"
)

type app struct {
	bookingBus *bookingbus.Core
	availBus   *availbus.Core
}

// newApp constructs a booking app API for use.
func newApp(bookingBus *bookingbus.Core, availBus *availbus.Core) *app {
	return &app{
		bookingBus: bookingBus,
		availBus:   availBus,
	}
}

// executeUnderTransaction constructs a new app value using a booking core
// bound to the transaction started by the middleware, when one exists.
func (a *app) executeUnderTransaction(ctx context.Context) (*app, error) {
	tx, err := mid.GetTran(ctx)
	if err != nil {
		return a, nil
	}

	bookingBus, err := a.bookingBus.NewWithTx(tx)
	if err != nil {
		return nil, err
	}

	return &app{
		bookingBus: bookingBus,
		availBus:   a.availBus,
	}, nil
}

func (a *app) availability(ctx context.Context, r *http.Request) web.Encoder {
	orgID, err := mid.GetOrgID(ctx)
	if err != nil {
		return errs.New(errs.Unauthenticated, err)
	}

	start, end, err := parseWindow(r)
	if err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	vds, err := a.availBus.Query(ctx, orgID, start, end)
	if err != nil {
		if errors.Is(err, bookingbus.ErrInvalidRange) {
			return errs.New(errs.InvalidArgument, bookingbus.ErrInvalidRange)
		}
		return errs.Errorf(errs.Internal, "availability: %s", err)
	}

	return toAppVerdicts(vds)
}

func (a *app) create(ctx context.Context, r *http.Request) web.Encoder {
	a, err := a.executeUnderTransaction(ctx)
	if err != nil {
		return errs.New(errs.Internal, err)
	}

	var req NewBooking
	if err := web.Decode(r, &req); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	orgID, err := mid.GetOrgID(ctx)
	if err != nil {
		return errs.New(errs.Unauthenticated, err)
	}

	nb, err := toBusNewBooking(req, orgID)
	if err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	bkg, err := a.bookingBus.Create(ctx, nb, mid.GetIdentity(ctx))
	if err != nil {
		return createError(err)
	}

	return toAppBooking(bkg)
}

func (a *app) queryByOrg(ctx context.Context, r *http.Request) web.Encoder {
	orgID, err := mid.GetOrgID(ctx)
	if err != nil {
		return errs.New(errs.Unauthenticated, err)
	}

	qp := r.URL.Query()

	pg, err := page.Parse(qp.Get("page"), qp.Get("rows"))
	if err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	orderBy, err := order.Parse(orderByFields, qp.Get("orderBy"), bookingbus.DefaultOrderBy)
	if err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	var day *time.Time
	if v := qp.Get("day"); v != "" {
		d, err := time.Parse(time.DateOnly, v)
		if err != nil {
			return errs.New(errs.InvalidArgument, fmt.Errorf("parsing day %q: %w", v, err))
		}
		day = &d
	}

	bkgs, err := a.bookingBus.QueryByOrg(ctx, orgID, day, orderBy, pg)
	if err != nil {
		return errs.Errorf(errs.Internal, "query: %s", err)
	}

	total, err := a.bookingBus.Count(ctx, orgID, day)
	if err != nil {
		return errs.Errorf(errs.Internal, "count: %s", err)
	}

	return query.NewResult(toAppBookings(bkgs), total, pg.Number(), pg.RowsPerPage())
}

func (a *app) cancel(ctx context.Context, r *http.Request) web.Encoder {
	a, err := a.executeUnderTransaction(ctx)
	if err != nil {
		return errs.New(errs.Internal, err)
	}

	bookingID, err := uuid.Parse(web.Param(r, "booking_id"))
	if err != nil {
		return errs.New(errs.InvalidArgument, fmt.Errorf("parsing booking id: %w", err))
	}

	if _, err := a.bookingBus.Cancel(ctx, bookingID, mid.GetIdentity(ctx)); err != nil {
		switch {
		case errors.Is(err, bookingbus.ErrNotFound):
			return errs.New(errs.NotFound, bookingbus.ErrNotFound)
		case errors.Is(err, bookingbus.ErrForbidden):
			return errs.New(errs.PermissionDenied, bookingbus.ErrForbidden)
		}
		return errs.Errorf(errs.Internal, "cancel: bookingID[%s]: %s", bookingID, err)
	}

	return nil
}

func createError(err error) web.Encoder {
	switch {
	case errors.Is(err, bookingbus.ErrOverlap):
		return errs.New(errs.AlreadyExists, bookingbus.ErrOverlap)
	case errors.Is(err, bookingbus.ErrInvalidRange):
		return errs.New(errs.InvalidArgument, bookingbus.ErrInvalidRange)
	case errors.Is(err, bookingbus.ErrInvalidRef):
		return errs.New(errs.InvalidArgument, bookingbus.ErrInvalidRef)
	case errors.Is(err, bookingbus.ErrWrongDay):
		return errs.New(errs.FailedPrecondition, bookingbus.ErrWrongDay)
	case errors.Is(err, bookingbus.ErrWrongOrg):
		return errs.New(errs.PermissionDenied, bookingbus.ErrWrongOrg)
	case errors.Is(err, bookingbus.ErrResourceUnavailable):
		return errs.New(errs.FailedPrecondition, bookingbus.ErrResourceUnavailable)
	case errors.Is(err, bookingbus.ErrForbidden):
		return errs.New(errs.PermissionDenied, bookingbus.ErrForbidden)
	case errors.Is(err, catalogbus.ErrNotFound):
		return errs.New(errs.NotFound, catalogbus.ErrNotFound)
	}

	return errs.Errorf(errs.Internal, "create: %s", err)
}

// parseWindow aceita uma janela explícita (start/end RFC3339) ou um dia
// inteiro (date=YYYY-MM-DD, interpretado em UTC).
func parseWindow(r *http.Request) (time.Time, time.Time, error) {
	qp := r.URL.Query()

	if date := qp.Get("date"); date != "" {
		day, err := time.Parse(time.DateOnly, date)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("parsing date: %w", err)
		}

		start, end := interval.DayWindow(day)
		return start, end, nil
	}

	start, err := time.Parse(time.RFC3339, qp.Get("start"))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parsing start: %w", err)
	}

	end, err := time.Parse(time.RFC3339, qp.Get("end"))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parsing end: %w", err)
	}

	return start, end, nil
}
