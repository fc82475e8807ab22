// Package availbus computes per-resource availability verdicts for an
// organization and a time window. It is a read-only projection over the
// catalog and the booking ledger; the commit-time gate for creates lives in
// bookingbus, never here.
package availbus

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jcpaschoal/coopfrota/business/domain/bookingbus"
	"github.com/jcpaschoal/coopfrota/business/domain/catalogbus"
	"github.com/jcpaschoal/coopfrota/business/sdk/interval"
	"github.com/jcpaschoal/coopfrota/business/types/name"
	"github.com/jcpaschoal/coopfrota/foundation/logger"
	"github.com/jcpaschoal/coopfrota/foundation/otel"
)

// Verdict is the availability answer for one resource over the queried
// window.
type Verdict struct {
	Ref       bookingbus.ResourceRef
	Label     name.Name
	Available bool
}

// Core manages the set of APIs for availability access.
type Core struct {
	catalogBus *catalogbus.Core
	bookingBus *bookingbus.Core
	log        *logger.Logger
}

// NewCore constructs a core for availability api access.
func NewCore(log *logger.Logger, catalogBus *catalogbus.Core, bookingBus *bookingbus.Core) *Core {
	return &Core{
		catalogBus: catalogBus,
		bookingBus: bookingBus,
		log:        log,
	}
}

// Query produces a verdict for every resource visible to the organization
// over [start, end): all pool vehicles the organization can see, its extra
// vehicles for the window's day, and its namespace rooms.
func (c *Core) Query(ctx context.Context, orgID uuid.UUID, start, end time.Time) ([]Verdict, error) {
	ctx, span := otel.AddSpan(ctx, "business.availbus.query")
	defer span.End()

	start = start.UTC()
	end = end.UTC()

	if !interval.IsValidRange(start, end) {
		return nil, bookingbus.ErrInvalidRange
	}

	vehicles, err := c.catalogBus.QueryVehicles(ctx)
	if err != nil {
		return nil, fmt.Errorf("queryVehicles: %w", err)
	}

	extras, err := c.catalogBus.QueryExtraVehicles(ctx, orgID, interval.Day(start))
	if err != nil {
		return nil, fmt.Errorf("queryExtraVehicles: %w", err)
	}

	rooms, err := c.catalogBus.QueryRooms(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("queryRooms: %w", err)
	}

	// One indexed range query resolves every resource in the window.
	booked, err := c.bookingBus.QueryWindow(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("queryWindow: %w", err)
	}

	busy := make(map[bookingbus.ResourceRef]struct{}, len(booked))
	for _, bkg := range booked {
		busy[bkg.Ref] = struct{}{}
	}

	verdicts := make([]Verdict, 0, len(vehicles)+len(extras)+len(rooms))

	for _, v := range vehicles {
		if !v.VisibleTo(orgID) {
			continue
		}

		if v.BlockedDuring(start, end) {
			verdicts = append(verdicts, Verdict{Ref: bookingbus.VehicleRef(v.ID), Label: v.Label})
			continue
		}

		verdicts = append(verdicts, verdict(bookingbus.VehicleRef(v.ID), v.Label, busy))
	}

	for _, ev := range extras {
		verdicts = append(verdicts, verdict(bookingbus.ExtraRef(ev.ID), ev.Label, busy))
	}

	for _, rm := range rooms {
		verdicts = append(verdicts, verdict(bookingbus.RoomRef(rm.ID), rm.Label, busy))
	}

	return verdicts, nil
}

func verdict(ref bookingbus.ResourceRef, label name.Name, busy map[bookingbus.ResourceRef]struct{}) Verdict {
	_, taken := busy[ref]

	return Verdict{
		Ref:       ref,
		Label:     label,
		Available: !taken,
	}
}
