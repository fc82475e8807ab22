package catalogapp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jcpaschoal/coopfrota/app/sdk/errs"
	"github.com/jcpaschoal/coopfrota/business/domain/catalogbus"
	"github.com/jcpaschoal/coopfrota/business/types/name"
	"github.com/jcpaschoal/coopfrota/business/types/vstatus"
)

// =============================================================================
// Vehicle (Output)
// =============================================================================

// Vehicle represents a pool vehicle.
type Vehicle struct {
	ID               string `json:"id"`
	Label            string `json:"label"`
	Status           string `json:"status"`
	UnavailableFrom  string `json:"unavailableFrom,omitempty"`
	UnavailableUntil string `json:"unavailableUntil,omitempty"`
}

// Encode implements the web.Encoder interface.
func (v Vehicle) Encode() ([]byte, string, error) {
	data, err := json.Marshal(v)
	return data, "application/json", err
}

func toAppVehicle(bus catalogbus.Vehicle) Vehicle {
	v := Vehicle{
		ID:     bus.ID.String(),
		Label:  bus.Label.String(),
		Status: bus.Status.String(),
	}

	if bus.UnavailableFrom != nil {
		v.UnavailableFrom = bus.UnavailableFrom.Format(time.RFC3339)
	}
	if bus.UnavailableUntil != nil {
		v.UnavailableUntil = bus.UnavailableUntil.Format(time.RFC3339)
	}

	return v
}

// Vehicles is the collection form with its own encoding.
type Vehicles []Vehicle

// Encode implements the web.Encoder interface.
func (vs Vehicles) Encode() ([]byte, string, error) {
	data, err := json.Marshal(vs)
	return data, "application/json", err
}

func toAppVehicles(bus []catalogbus.Vehicle) Vehicles {
	app := make(Vehicles, len(bus))
	for i, v := range bus {
		app[i] = toAppVehicle(v)
	}
	return app
}

// =============================================================================
// SetMaintenance (Input)
// =============================================================================

// SetMaintenance defines the data needed to flip a vehicle's status.
type SetMaintenance struct {
	Status string `json:"status" validate:"required"`
	From   string `json:"from" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Until  string `json:"until" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

// Decode implements the web.Decoder interface.
func (app *SetMaintenance) Decode(data []byte) error {
	return json.Unmarshal(data, app)
}

// Validate checks the data in the model is considered clean.
func (app SetMaintenance) Validate() error {
	if err := errs.Check(app); err != nil {
		return errs.New(errs.InvalidArgument, fmt.Errorf("validate: %w", err))
	}
	return nil
}

func toBusMaintenance(app SetMaintenance) (vstatus.Status, *catalogbus.MaintenanceWindow, error) {
	status, err := vstatus.Parse(app.Status)
	if err != nil {
		return vstatus.Status{}, nil, fmt.Errorf("parse status: %w", err)
	}

	if app.From == "" && app.Until == "" {
		return status, nil, nil
	}

	if app.From == "" || app.Until == "" {
		return vstatus.Status{}, nil, fmt.Errorf("window requires both from and until")
	}

	from, err := time.Parse(time.RFC3339, app.From)
	if err != nil {
		return vstatus.Status{}, nil, fmt.Errorf("parse from: %w", err)
	}

	until, err := time.Parse(time.RFC3339, app.Until)
	if err != nil {
		return vstatus.Status{}, nil, fmt.Errorf("parse until: %w", err)
	}

	return status, &catalogbus.MaintenanceWindow{From: from, Until: until}, nil
}

// =============================================================================
// ExtraVehicle
// =============================================================================

// ExtraVehicle represents a vehicle valid for one organization and one day.
type ExtraVehicle struct {
	ID    string `json:"id"`
	OrgID string `json:"orgId"`
	Label string `json:"label"`
	Day   string `json:"day"`
}

// Encode implements the web.Encoder interface.
func (ev ExtraVehicle) Encode() ([]byte, string, error) {
	data, err := json.Marshal(ev)
	return data, "application/json", err
}

func toAppExtraVehicle(bus catalogbus.ExtraVehicle) ExtraVehicle {
	return ExtraVehicle{
		ID:    bus.ID.String(),
		OrgID: bus.OrgID.String(),
		Label: bus.Label.String(),
		Day:   bus.Day.Format(time.DateOnly),
	}
}

// ExtraVehicles is the collection form with its own encoding.
type ExtraVehicles []ExtraVehicle

// Encode implements the web.Encoder interface.
func (evs ExtraVehicles) Encode() ([]byte, string, error) {
	data, err := json.Marshal(evs)
	return data, "application/json", err
}

func toAppExtraVehicles(bus []catalogbus.ExtraVehicle) ExtraVehicles {
	app := make(ExtraVehicles, len(bus))
	for i, ev := range bus {
		app[i] = toAppExtraVehicle(ev)
	}
	return app
}

// NewExtraVehicle defines the data needed to add an extra vehicle. The
// vehicle is always created for the caller's own organization.
type NewExtraVehicle struct {
	Label string `json:"label" validate:"required"`
	Day   string `json:"day" validate:"required,datetime=2006-01-02"`
}

// Decode implements the web.Decoder interface.
func (app *NewExtraVehicle) Decode(data []byte) error {
	return json.Unmarshal(data, app)
}

// Validate checks the data in the model is considered clean.
func (app NewExtraVehicle) Validate() error {
	if err := errs.Check(app); err != nil {
		return errs.New(errs.InvalidArgument, fmt.Errorf("validate: %w", err))
	}
	return nil
}

func toBusNewExtraVehicle(app NewExtraVehicle, orgID uuid.UUID) (catalogbus.NewExtraVehicle, error) {
	label, err := name.Parse(app.Label)
	if err != nil {
		return catalogbus.NewExtraVehicle{}, fmt.Errorf("parse label: %w", err)
	}

	day, err := time.Parse(time.DateOnly, app.Day)
	if err != nil {
		return catalogbus.NewExtraVehicle{}, fmt.Errorf("parse day: %w", err)
	}

	return catalogbus.NewExtraVehicle{
		OrgID: orgID,
		Label: label,
		Day:   day,
	}, nil
}

// =============================================================================
// Room (Output)
// =============================================================================

// Room represents a meeting room.
type Room struct {
	ID       string `json:"id"`
	OrgID    string `json:"orgId"`
	Label    string `json:"label"`
	Capacity int    `json:"capacity"`
}

// Encode implements the web.Encoder interface.
func (rm Room) Encode() ([]byte, string, error) {
	data, err := json.Marshal(rm)
	return data, "application/json", err
}

func toAppRoom(bus catalogbus.Room) Room {
	return Room{
		ID:       bus.ID.String(),
		OrgID:    bus.OrgID.String(),
		Label:    bus.Label.String(),
		Capacity: bus.Capacity,
	}
}

// Rooms is the collection form with its own encoding.
type Rooms []Room

// Encode implements the web.Encoder interface.
func (rms Rooms) Encode() ([]byte, string, error) {
	data, err := json.Marshal(rms)
	return data, "application/json", err
}

func toAppRooms(bus []catalogbus.Room) Rooms {
	app := make(Rooms, len(bus))
	for i, rm := range bus {
		app[i] = toAppRoom(rm)
	}
	return app
}
