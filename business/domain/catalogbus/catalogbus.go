// Package catalogbus provides business access to the resource catalog: pool
// vehicles, per-day extra vehicles and meeting rooms. The catalog is read
// mostly; the only mutations during normal operation are adding extra
// vehicles and flipping a vehicle's maintenance status.
package catalogbus

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jcpaschoal/coopfrota/business/sdk/interval"
	"github.com/jcpaschoal/coopfrota/business/sdk/sqldb"
	"github.com/jcpaschoal/coopfrota/business/types/vstatus"
	"github.com/jcpaschoal/coopfrota/foundation/logger"
	"github.com/jcpaschoal/coopfrota/foundation/otel"
)

var (
	ErrNotFound      = errors.New("resource not found")
	ErrInvalidWindow = errors.New("invalid maintenance window")
)

// Storer defines the behavior required by the catalogbus to interact with
// the database.
type Storer interface {
	NewWithTx(tx sqldb.CommitRollbacker) (Storer, error)
	CreateVehicle(ctx context.Context, v Vehicle) error
	UpdateVehicle(ctx context.Context, v Vehicle) error
	QueryVehicles(ctx context.Context) ([]Vehicle, error)
	QueryVehicleByID(ctx context.Context, vehicleID uuid.UUID) (Vehicle, error)
	CreateExtraVehicle(ctx context.Context, ev ExtraVehicle) error
	QueryExtraVehicles(ctx context.Context, orgID uuid.UUID, day time.Time) ([]ExtraVehicle, error)
	QueryExtraVehicleByID(ctx context.Context, extraID uuid.UUID) (ExtraVehicle, error)
	CreateRoom(ctx context.Context, rm Room) error
	QueryRooms(ctx context.Context, orgID uuid.UUID) ([]Room, error)
	QueryRoomByID(ctx context.Context, roomID uuid.UUID) (Room, error)
}

// Core manages the set of APIs for catalog access.
type Core struct {
	storer Storer
	log    *logger.Logger
}

// NewCore constructs a core for catalog api access.
func NewCore(log *logger.Logger, storer Storer) *Core {
	return &Core{
		storer: storer,
		log:    log,
	}
}

// NewWithTx constructs a new Core value replacing the Storer
// value with a Storer value that is currently inside a transaction.
func (c *Core) NewWithTx(tx sqldb.CommitRollbacker) (*Core, error) {
	storer, err := c.storer.NewWithTx(tx)
	if err != nil {
		return nil, fmt.Errorf("newWithTx: %w", err)
	}

	return NewCore(c.log, storer), nil
}

// CreateVehicle adds a new pool vehicle to the catalog.
func (c *Core) CreateVehicle(ctx context.Context, nv NewVehicle) (Vehicle, error) {
	ctx, span := otel.AddSpan(ctx, "business.catalogbus.createVehicle")
	defer span.End()

	now := time.Now()

	v := Vehicle{
		ID:        uuid.New(),
		Label:     nv.Label,
		OrgID:     nv.OrgID,
		Status:    vstatus.Available,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := c.storer.CreateVehicle(ctx, v); err != nil {
		return Vehicle{}, fmt.Errorf("createVehicle: %w", err)
	}

	return v, nil
}

// QueryVehicles retrieves all pool vehicles ordered by label.
func (c *Core) QueryVehicles(ctx context.Context) ([]Vehicle, error) {
	ctx, span := otel.AddSpan(ctx, "business.catalogbus.queryVehicles")
	defer span.End()

	vs, err := c.storer.QueryVehicles(ctx)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	return vs, nil
}

// QueryVehicleByID finds the vehicle by the specified ID.
func (c *Core) QueryVehicleByID(ctx context.Context, vehicleID uuid.UUID) (Vehicle, error) {
	ctx, span := otel.AddSpan(ctx, "business.catalogbus.queryVehicleByID")
	defer span.End()

	v, err := c.storer.QueryVehicleByID(ctx, vehicleID)
	if err != nil {
		return Vehicle{}, fmt.Errorf("query: vehicleID[%s]: %w", vehicleID, err)
	}

	return v, nil
}

// SetMaintenance transitions a pool vehicle's status. Returning the vehicle
// to available clears any blackout window. A window, when provided, must be
// a valid range.
func (c *Core) SetMaintenance(ctx context.Context, vehicleID uuid.UUID, status vstatus.Status, window *MaintenanceWindow) (Vehicle, error) {
	ctx, span := otel.AddSpan(ctx, "business.catalogbus.setMaintenance")
	defer span.End()

	v, err := c.storer.QueryVehicleByID(ctx, vehicleID)
	if err != nil {
		return Vehicle{}, fmt.Errorf("query: vehicleID[%s]: %w", vehicleID, err)
	}

	v.Status = status
	v.UnavailableFrom = nil
	v.UnavailableUntil = nil

	if status.Equal(vstatus.Maintenance) && window != nil {
		if !interval.IsValidRange(window.From, window.Until) {
			return Vehicle{}, ErrInvalidWindow
		}

		from := window.From.UTC()
		until := window.Until.UTC()
		v.UnavailableFrom = &from
		v.UnavailableUntil = &until
	}

	v.UpdatedAt = time.Now()

	if err := c.storer.UpdateVehicle(ctx, v); err != nil {
		return Vehicle{}, fmt.Errorf("updateVehicle: %w", err)
	}

	return v, nil
}

// CreateExtraVehicle adds a vehicle valid for one organization and one UTC
// calendar day. Duplicate labels are permitted.
func (c *Core) CreateExtraVehicle(ctx context.Context, nev NewExtraVehicle) (ExtraVehicle, error) {
	ctx, span := otel.AddSpan(ctx, "business.catalogbus.createExtraVehicle")
	defer span.End()

	ev := ExtraVehicle{
		ID:        uuid.New(),
		OrgID:     nev.OrgID,
		Label:     nev.Label,
		Day:       interval.Day(nev.Day),
		CreatedAt: time.Now(),
	}

	if err := c.storer.CreateExtraVehicle(ctx, ev); err != nil {
		return ExtraVehicle{}, fmt.Errorf("createExtraVehicle: %w", err)
	}

	return ev, nil
}

// QueryExtraVehicles retrieves the extra vehicles valid for exactly that
// organization and calendar day.
func (c *Core) QueryExtraVehicles(ctx context.Context, orgID uuid.UUID, day time.Time) ([]ExtraVehicle, error) {
	ctx, span := otel.AddSpan(ctx, "business.catalogbus.queryExtraVehicles")
	defer span.End()

	evs, err := c.storer.QueryExtraVehicles(ctx, orgID, interval.Day(day))
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	return evs, nil
}

// QueryExtraVehicleByID finds the extra vehicle by the specified ID.
func (c *Core) QueryExtraVehicleByID(ctx context.Context, extraID uuid.UUID) (ExtraVehicle, error) {
	ctx, span := otel.AddSpan(ctx, "business.catalogbus.queryExtraVehicleByID")
	defer span.End()

	ev, err := c.storer.QueryExtraVehicleByID(ctx, extraID)
	if err != nil {
		return ExtraVehicle{}, fmt.Errorf("query: extraID[%s]: %w", extraID, err)
	}

	return ev, nil
}

// CreateRoom adds a meeting room owned by one organization.
func (c *Core) CreateRoom(ctx context.Context, nr NewRoom) (Room, error) {
	ctx, span := otel.AddSpan(ctx, "business.catalogbus.createRoom")
	defer span.End()

	now := time.Now()

	rm := Room{
		ID:        uuid.New(),
		OrgID:     nr.OrgID,
		Label:     nr.Label,
		Capacity:  nr.Capacity,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := c.storer.CreateRoom(ctx, rm); err != nil {
		return Room{}, fmt.Errorf("createRoom: %w", err)
	}

	return rm, nil
}

// QueryRooms retrieves the rooms visible to an organization: its own rooms
// plus the rooms of every organization sharing its meeting namespace.
func (c *Core) QueryRooms(ctx context.Context, orgID uuid.UUID) ([]Room, error) {
	ctx, span := otel.AddSpan(ctx, "business.catalogbus.queryRooms")
	defer span.End()

	rms, err := c.storer.QueryRooms(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	return rms, nil
}

// QueryRoomByID finds the room by the specified ID.
func (c *Core) QueryRoomByID(ctx context.Context, roomID uuid.UUID) (Room, error) {
	ctx, span := otel.AddSpan(ctx, "business.catalogbus.queryRoomByID")
	defer span.End()

	rm, err := c.storer.QueryRoomByID(ctx, roomID)
	if err != nil {
		return Room{}, fmt.Errorf("query: roomID[%s]: %w", roomID, err)
	}

	return rm, nil
}
