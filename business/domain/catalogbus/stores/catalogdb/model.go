package catalogdb

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jcpaschoal/coopfrota/business/domain/catalogbus"
	"github.com/jcpaschoal/coopfrota/business/types/name"
	"github.com/jcpaschoal/coopfrota/business/types/vstatus"
)

type vehicleDB struct {
	ID               uuid.UUID     `db:"vehicle_id"`
	Label            string        `db:"label"`
	OrgID            uuid.NullUUID `db:"org_id"`
	Status           string        `db:"status"`
	UnavailableFrom  *time.Time    `db:"unavailable_from"`
	UnavailableUntil *time.Time    `db:"unavailable_until"`
	CreatedAt        time.Time     `db:"created_at"`
	UpdatedAt        time.Time     `db:"updated_at"`
}

func toDBVehicle(bus catalogbus.Vehicle) vehicleDB {
	return vehicleDB{
		ID:               bus.ID,
		Label:            bus.Label.String(),
		OrgID:            bus.OrgID,
		Status:           bus.Status.String(),
		UnavailableFrom:  bus.UnavailableFrom,
		UnavailableUntil: bus.UnavailableUntil,
		CreatedAt:        bus.CreatedAt.UTC(),
		UpdatedAt:        bus.UpdatedAt.UTC(),
	}
}

func toBusVehicle(db vehicleDB) (catalogbus.Vehicle, error) {
	label, err := name.Parse(db.Label)
	if err != nil {
		return catalogbus.Vehicle{}, fmt.Errorf("parse label: %w", err)
	}

	status, err := vstatus.Parse(db.Status)
	if err != nil {
		return catalogbus.Vehicle{}, fmt.Errorf("parse status: %w", err)
	}

	bus := catalogbus.Vehicle{
		ID:               db.ID,
		Label:            label,
		OrgID:            db.OrgID,
		Status:           status,
		UnavailableFrom:  db.UnavailableFrom,
		UnavailableUntil: db.UnavailableUntil,
		CreatedAt:        db.CreatedAt.In(time.Local),
		UpdatedAt:        db.UpdatedAt.In(time.Local),
	}

	return bus, nil
}

func toBusVehicles(dbs []vehicleDB) ([]catalogbus.Vehicle, error) {
	bus := make([]catalogbus.Vehicle, len(dbs))

	for i, db := range dbs {
		var err error
		bus[i], err = toBusVehicle(db)
		if err != nil {
			return nil, err
		}
	}

	return bus, nil
}

// =============================================================================

type extraVehicleDB struct {
	ID        uuid.UUID `db:"extra_id"`
	OrgID     uuid.UUID `db:"org_id"`
	Label     string    `db:"label"`
	Day       time.Time `db:"day"`
	CreatedAt time.Time `db:"created_at"`
}

func toDBExtraVehicle(bus catalogbus.ExtraVehicle) extraVehicleDB {
	return extraVehicleDB{
		ID:        bus.ID,
		OrgID:     bus.OrgID,
		Label:     bus.Label.String(),
		Day:       bus.Day.UTC(),
		CreatedAt: bus.CreatedAt.UTC(),
	}
}

func toBusExtraVehicle(db extraVehicleDB) (catalogbus.ExtraVehicle, error) {
	label, err := name.Parse(db.Label)
	if err != nil {
		return catalogbus.ExtraVehicle{}, fmt.Errorf("parse label: %w", err)
	}

	bus := catalogbus.ExtraVehicle{
		ID:        db.ID,
		OrgID:     db.OrgID,
		Label:     label,
		Day:       db.Day.UTC(),
		CreatedAt: db.CreatedAt.In(time.Local),
	}

	return bus, nil
}

func toBusExtraVehicles(dbs []extraVehicleDB) ([]catalogbus.ExtraVehicle, error) {
	bus := make([]catalogbus.ExtraVehicle, len(dbs))

	for i, db := range dbs {
		var err error
		bus[i], err = toBusExtraVehicle(db)
		if err != nil {
			return nil, err
		}
	}

	return bus, nil
}

// =============================================================================

type roomDB struct {
	ID        uuid.UUID `db:"room_id"`
	OrgID     uuid.UUID `db:"org_id"`
	Label     string    `db:"label"`
	Capacity  int       `db:"capacity"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func toDBRoom(bus catalogbus.Room) roomDB {
	return roomDB{
		ID:        bus.ID,
		OrgID:     bus.OrgID,
		Label:     bus.Label.String(),
		Capacity:  bus.Capacity,
		CreatedAt: bus.CreatedAt.UTC(),
		UpdatedAt: bus.UpdatedAt.UTC(),
	}
}

func toBusRoom(db roomDB) (catalogbus.Room, error) {
	label, err := name.Parse(db.Label)
	if err != nil {
		return catalogbus.Room{}, fmt.Errorf("parse label: %w", err)
	}

	bus := catalogbus.Room{
		ID:        db.ID,
		OrgID:     db.OrgID,
		Label:     label,
		Capacity:  db.Capacity,
		CreatedAt: db.CreatedAt.In(time.Local),
		UpdatedAt: db.UpdatedAt.In(time.Local),
	}

	return bus, nil
}

func toBusRooms(dbs []roomDB) ([]catalogbus.Room, error) {
	bus := make([]catalogbus.Room, len(dbs))

	for i, db := range dbs {
		var err error
		bus[i], err = toBusRoom(db)
		if err != nil {
			return nil, err
		}
	}

	return bus, nil
}
