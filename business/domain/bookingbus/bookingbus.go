// Package bookingbus provides business access to the reservation ledger and
// implements the create/cancel orchestration: resource class validation,
// overlap rejection and cancellation authorization.
//
// The pre-insert overlap check is advisory. Two racing creates can both pass
// it, so the store is required to enforce the same rule at commit time (the
// booking table carries a range exclusion constraint) and report the loser
// as ErrOverlap. Callers see one error either way.
package bookingbus

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jcpaschoal/coopfrota/business/domain/catalogbus"
	"github.com/jcpaschoal/coopfrota/business/domain/orgbus"
	"github.com/jcpaschoal/coopfrota/business/sdk/interval"
	"github.com/jcpaschoal/coopfrota/business/sdk/order"
	"github.com/jcpaschoal/coopfrota/business/sdk/page"
	"github.com/jcpaschoal/coopfrota/business/sdk/sqldb"
	"github.com/jcpaschoal/coopfrota/business/types/rclass"
	"github.com/jcpaschoal/coopfrota/business/types/role"
	"github.com/jcpaschoal/coopfrota/foundation/logger"
	"github.com/jcpaschoal/coopfrota/foundation/otel"
)

var (
	ErrNotFound            = errors.New("booking not found")
	ErrOverlap             = errors.New("resource already booked in this period")
	ErrForbidden           = errors.New("caller may not cancel this booking")
	ErrInvalidRange        = errors.New("end must be after start")
	ErrInvalidRef          = errors.New("exactly one resource must be selected")
	ErrResourceUnavailable = errors.New("resource is under maintenance in this period")
	ErrWrongDay            = errors.New("extra vehicle is not valid on this day")
	ErrWrongOrg            = errors.New("resource does not belong to this organization")
)

// Storer defines the behavior required by the bookingbus to interact with
// the database. Create must refuse a row whose range overlaps an existing
// row for the same resource and report it as ErrOverlap.
type Storer interface {
	NewWithTx(tx sqldb.CommitRollbacker) (Storer, error)
	Create(ctx context.Context, bkg Booking) error
	Delete(ctx context.Context, bkg Booking) error
	QueryByID(ctx context.Context, bookingID uuid.UUID) (Booking, error)
	QueryByOrg(ctx context.Context, orgID uuid.UUID, day *time.Time, orderBy order.By, page page.Page) ([]Booking, error)
	Count(ctx context.Context, orgID uuid.UUID, day *time.Time) (int, error)
	QueryOverlapping(ctx context.Context, ref ResourceRef, start, end time.Time) ([]Booking, error)
	QueryWindow(ctx context.Context, start, end time.Time) ([]Booking, error)
}

// Set of fields bookings can be ordered by.
const (
	OrderByStart   = "start_at"
	OrderByCreated = "created_at"
)

// DefaultOrderBy is start ascending, the order a day view wants.
var DefaultOrderBy = order.NewBy(OrderByStart, order.ASC)

// Core manages the set of APIs for booking access.
type Core struct {
	storer     Storer
	catalogBus *catalogbus.Core
	orgBus     *orgbus.Core
	log        *logger.Logger
}

// NewCore constructs a core for booking api access.
func NewCore(log *logger.Logger, storer Storer, catalogBus *catalogbus.Core, orgBus *orgbus.Core) *Core {
	return &Core{
		storer:     storer,
		catalogBus: catalogBus,
		orgBus:     orgBus,
		log:        log,
	}
}

// NewWithTx constructs a new Core value replacing the Storer and delegate
// bus values with values that are currently inside a transaction.
func (c *Core) NewWithTx(tx sqldb.CommitRollbacker) (*Core, error) {
	storer, err := c.storer.NewWithTx(tx)
	if err != nil {
		return nil, fmt.Errorf("newWithTx: %w", err)
	}

	catalogBus, err := c.catalogBus.NewWithTx(tx)
	if err != nil {
		return nil, fmt.Errorf("newWithTx: %w", err)
	}

	orgBus, err := c.orgBus.NewWithTx(tx)
	if err != nil {
		return nil, fmt.Errorf("newWithTx: %w", err)
	}

	return NewCore(c.log, storer, catalogBus, orgBus), nil
}

// Create reserves a resource for the requested range. The range must be
// valid, the resource must exist and be bookable by the requesting
// organization for that range, and no live booking for the same resource
// may overlap it.
func (c *Core) Create(ctx context.Context, nb NewBooking, idn *Identity) (Booking, error) {
	ctx, span := otel.AddSpan(ctx, "business.bookingbus.create")
	defer span.End()

	start := nb.Start.UTC()
	end := nb.End.UTC()

	if !interval.IsValidRange(start, end) {
		return Booking{}, ErrInvalidRange
	}

	if nb.Ref.IsZero() {
		return Booking{}, ErrInvalidRef
	}

	if idn != nil && idn.OrgID != nb.OrgID {
		return Booking{}, ErrForbidden
	}

	// The booking is attributed to the requesting organization except for
	// namespace rooms, resolved below.
	bookingOrg := nb.OrgID
	var sourceOrg uuid.NullUUID

	switch nb.Ref.Class() {
	case rclass.Vehicle:
		v, err := c.catalogBus.QueryVehicleByID(ctx, nb.Ref.ID())
		if err != nil {
			return Booking{}, fmt.Errorf("queryVehicleByID: %w", err)
		}

		if !v.VisibleTo(nb.OrgID) {
			return Booking{}, ErrWrongOrg
		}

		if v.BlockedDuring(start, end) {
			return Booking{}, ErrResourceUnavailable
		}

	case rclass.Extra:
		ev, err := c.catalogBus.QueryExtraVehicleByID(ctx, nb.Ref.ID())
		if err != nil {
			return Booking{}, fmt.Errorf("queryExtraVehicleByID: %w", err)
		}

		if ev.OrgID != nb.OrgID {
			return Booking{}, ErrWrongOrg
		}

		if !interval.SameDay(ev.Day, start) {
			return Booking{}, ErrWrongDay
		}

	case rclass.Room:
		rm, err := c.catalogBus.QueryRoomByID(ctx, nb.Ref.ID())
		if err != nil {
			return Booking{}, fmt.Errorf("queryRoomByID: %w", err)
		}

		if rm.OrgID != nb.OrgID {
			shares, err := c.orgBus.SharesNamespace(ctx, rm.OrgID, nb.OrgID)
			if err != nil {
				return Booking{}, fmt.Errorf("sharesNamespace: %w", err)
			}
			if !shares {
				return Booking{}, ErrWrongOrg
			}

			// Attribute the booking to the room-owning organization and keep
			// the requesting organization for display.
			bookingOrg = rm.OrgID
			sourceOrg = uuid.NullUUID{UUID: nb.OrgID, Valid: true}
		}

	default:
		return Booking{}, ErrInvalidRef
	}

	// Advisory check. The exclusion constraint behind Create is the gate
	// that survives two racing requests.
	existing, err := c.storer.QueryOverlapping(ctx, nb.Ref, start, end)
	if err != nil {
		return Booking{}, fmt.Errorf("queryOverlapping: %w", err)
	}
	if len(existing) > 0 {
		return Booking{}, ErrOverlap
	}

	var userID uuid.NullUUID
	if idn != nil {
		userID = uuid.NullUUID{UUID: idn.UserID, Valid: true}
	}

	bkg := Booking{
		ID:          uuid.New(),
		OrgID:       bookingOrg,
		SourceOrgID: sourceOrg,
		Ref:         nb.Ref,
		UserID:      userID,
		Requester:   nb.Requester,
		Note:        nb.Note,
		Start:       start,
		End:         end,
		CreatedAt:   time.Now(),
	}

	if err := c.storer.Create(ctx, bkg); err != nil {
		return Booking{}, fmt.Errorf("create: %w", err)
	}

	return bkg, nil
}

// Cancel removes a booking and returns the prior row. With no caller
// identity the deletion is allowed unconditionally: the legacy anonymous
// clients still depend on it. Otherwise only the owning user or an admin may
// cancel, and bookings with no owner at all are admin-only.
func (c *Core) Cancel(ctx context.Context, bookingID uuid.UUID, idn *Identity) (Booking, error) {
	ctx, span := otel.AddSpan(ctx, "business.bookingbus.cancel")
	defer span.End()

	bkg, err := c.storer.QueryByID(ctx, bookingID)
	if err != nil {
		return Booking{}, fmt.Errorf("queryByID: bookingID[%s]: %w", bookingID, err)
	}

	if idn != nil {
		isOwner := bkg.UserID.Valid && bkg.UserID.UUID == idn.UserID
		isAdmin := idn.Role.Equal(role.Admin)
		isLegacy := !bkg.UserID.Valid

		if !isOwner && !isAdmin {
			return Booking{}, ErrForbidden
		}

		if isLegacy && !isAdmin {
			return Booking{}, ErrForbidden
		}
	}

	if err := c.storer.Delete(ctx, bkg); err != nil {
		return Booking{}, fmt.Errorf("delete: %w", err)
	}

	return bkg, nil
}

// QueryByID finds the booking by the specified ID.
func (c *Core) QueryByID(ctx context.Context, bookingID uuid.UUID) (Booking, error) {
	ctx, span := otel.AddSpan(ctx, "business.bookingbus.queryByID")
	defer span.End()

	bkg, err := c.storer.QueryByID(ctx, bookingID)
	if err != nil {
		return Booking{}, fmt.Errorf("query: bookingID[%s]: %w", bookingID, err)
	}

	return bkg, nil
}

// QueryByOrg retrieves the bookings attributed to or made by an
// organization, optionally restricted to one UTC calendar day.
func (c *Core) QueryByOrg(ctx context.Context, orgID uuid.UUID, day *time.Time, orderBy order.By, page page.Page) ([]Booking, error) {
	ctx, span := otel.AddSpan(ctx, "business.bookingbus.queryByOrg")
	defer span.End()

	bkgs, err := c.storer.QueryByOrg(ctx, orgID, day, orderBy, page)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	return bkgs, nil
}

// Count returns the total number of bookings matching the org and day
// filter.
func (c *Core) Count(ctx context.Context, orgID uuid.UUID, day *time.Time) (int, error) {
	ctx, span := otel.AddSpan(ctx, "business.bookingbus.count")
	defer span.End()

	return c.storer.Count(ctx, orgID, day)
}

// QueryOverlapping retrieves the live bookings for one resource whose range
// overlaps [start, end). Rooms are contended by room id alone, regardless of
// which namespace organization booked them.
func (c *Core) QueryOverlapping(ctx context.Context, ref ResourceRef, start, end time.Time) ([]Booking, error) {
	ctx, span := otel.AddSpan(ctx, "business.bookingbus.queryOverlapping")
	defer span.End()

	bkgs, err := c.storer.QueryOverlapping(ctx, ref, start.UTC(), end.UTC())
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	return bkgs, nil
}

// QueryWindow retrieves the live bookings across all resources whose range
// overlaps [start, end). The availability projection resolves a whole window
// with this single range query instead of one lookup per resource.
func (c *Core) QueryWindow(ctx context.Context, start, end time.Time) ([]Booking, error) {
	ctx, span := otel.AddSpan(ctx, "business.bookingbus.queryWindow")
	defer span.End()

	bkgs, err := c.storer.QueryWindow(ctx, start.UTC(), end.UTC())
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	return bkgs, nil
}
