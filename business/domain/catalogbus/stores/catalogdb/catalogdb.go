// Package catalogdb contains resource catalog related CRUD functionality.
package catalogdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jcpaschoal/coopfrota/business/domain/catalogbus"
	"github.com/jcpaschoal/coopfrota/business/sdk/sqldb"
	"github.com/jcpaschoal/coopfrota/foundation/logger"
	"github.com/jmoiron/sqlx"
)

// Store manages the set of APIs for catalog database access.
type Store struct {
	log *logger.Logger
	db  sqlx.ExtContext
}

// NewStore constructs the api for data access.
func NewStore(log *logger.Logger, db *sqlx.DB) *Store {
	return &Store{
		log: log,
		db:  db,
	}
}

// NewWithTx constructs a new Store value replacing the sqlx DB
// value with a sqlx DB value that is currently inside a transaction.
func (s *Store) NewWithTx(tx sqldb.CommitRollbacker) (catalogbus.Storer, error) {
	ec, err := sqldb.GetExtContext(tx)
	if err != nil {
		return nil, err
	}

	store := Store{
		log: s.log,
		db:  ec,
	}

	return &store, nil
}

// CreateVehicle inserts a new pool vehicle into the database.
func (s *Store) CreateVehicle(ctx context.Context, v catalogbus.Vehicle) error {
	const q = `
	INSERT INTO "public"."vehicle"
		(vehicle_id, label, org_id, status, unavailable_from, unavailable_until, created_at, updated_at)
	VALUES
		(:vehicle_id, :label, :org_id, :status, :unavailable_from, :unavailable_until, :created_at, :updated_at)`

	if err := sqldb.NamedExecContext(ctx, s.log, s.db, q, toDBVehicle(v)); err != nil {
		return fmt.Errorf("namedexeccontext: %w", err)
	}

	return nil
}

// UpdateVehicle replaces a vehicle document in the database.
func (s *Store) UpdateVehicle(ctx context.Context, v catalogbus.Vehicle) error {
	const q = `
	UPDATE
		"public"."vehicle"
	SET
		status = :status,
		unavailable_from = :unavailable_from,
		unavailable_until = :unavailable_until,
		updated_at = :updated_at
	WHERE
		vehicle_id = :vehicle_id`

	if err := sqldb.NamedExecContext(ctx, s.log, s.db, q, toDBVehicle(v)); err != nil {
		return fmt.Errorf("namedexeccontext: %w", err)
	}

	return nil
}

// QueryVehicles retrieves all pool vehicles ordered by identifier.
func (s *Store) QueryVehicles(ctx context.Context) ([]catalogbus.Vehicle, error) {
	const q = `
	SELECT
		vehicle_id, label, org_id, status, unavailable_from, unavailable_until, created_at, updated_at
	FROM
		"public"."vehicle"
	ORDER BY
		vehicle_id`

	var dbVs []vehicleDB
	if err := sqldb.NamedQuerySlice(ctx, s.log, s.db, q, struct{}{}, &dbVs); err != nil {
		return nil, fmt.Errorf("namedqueryslice: %w", err)
	}

	return toBusVehicles(dbVs)
}

// QueryVehicleByID gets the specified vehicle from the database.
func (s *Store) QueryVehicleByID(ctx context.Context, vehicleID uuid.UUID) (catalogbus.Vehicle, error) {
	data := struct {
		ID string `db:"vehicle_id"`
	}{
		ID: vehicleID.String(),
	}

	const q = `
	SELECT
		vehicle_id, label, org_id, status, unavailable_from, unavailable_until, created_at, updated_at
	FROM
		"public"."vehicle"
	WHERE
		vehicle_id = :vehicle_id`

	var dbV vehicleDB
	if err := sqldb.NamedQueryStruct(ctx, s.log, s.db, q, data, &dbV); err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			return catalogbus.Vehicle{}, fmt.Errorf("db: %w", catalogbus.ErrNotFound)
		}
		return catalogbus.Vehicle{}, fmt.Errorf("db: %w", err)
	}

	return toBusVehicle(dbV)
}

// CreateExtraVehicle inserts a new extra vehicle into the database.
func (s *Store) CreateExtraVehicle(ctx context.Context, ev catalogbus.ExtraVehicle) error {
	const q = `
	INSERT INTO "public"."extra_vehicle"
		(extra_id, org_id, label, day, created_at)
	VALUES
		(:extra_id, :org_id, :label, :day, :created_at)`

	if err := sqldb.NamedExecContext(ctx, s.log, s.db, q, toDBExtraVehicle(ev)); err != nil {
		return fmt.Errorf("namedexeccontext: %w", err)
	}

	return nil
}

// QueryExtraVehicles retrieves the extra vehicles for one organization and
// one calendar day ordered by label.
func (s *Store) QueryExtraVehicles(ctx context.Context, orgID uuid.UUID, day time.Time) ([]catalogbus.ExtraVehicle, error) {
	data := struct {
		OrgID string    `db:"org_id"`
		Day   time.Time `db:"day"`
	}{
		OrgID: orgID.String(),
		Day:   day.UTC(),
	}

	const q = `
	SELECT
		extra_id, org_id, label, day, created_at
	FROM
		"public"."extra_vehicle"
	WHERE
		org_id = :org_id AND day = :day
	ORDER BY
		label`

	var dbEVs []extraVehicleDB
	if err := sqldb.NamedQuerySlice(ctx, s.log, s.db, q, data, &dbEVs); err != nil {
		return nil, fmt.Errorf("namedqueryslice: %w", err)
	}

	return toBusExtraVehicles(dbEVs)
}

// QueryExtraVehicleByID gets the specified extra vehicle from the database.
func (s *Store) QueryExtraVehicleByID(ctx context.Context, extraID uuid.UUID) (catalogbus.ExtraVehicle, error) {
	data := struct {
		ID string `db:"extra_id"`
	}{
		ID: extraID.String(),
	}

	const q = `
	SELECT
		extra_id, org_id, label, day, created_at
	FROM
		"public"."extra_vehicle"
	WHERE
		extra_id = :extra_id`

	var dbEV extraVehicleDB
	if err := sqldb.NamedQueryStruct(ctx, s.log, s.db, q, data, &dbEV); err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			return catalogbus.ExtraVehicle{}, fmt.Errorf("db: %w", catalogbus.ErrNotFound)
		}
		return catalogbus.ExtraVehicle{}, fmt.Errorf("db: %w", err)
	}

	return toBusExtraVehicle(dbEV)
}

// CreateRoom inserts a new meeting room into the database.
func (s *Store) CreateRoom(ctx context.Context, rm catalogbus.Room) error {
	const q = `
	INSERT INTO "public"."room"
		(room_id, org_id, label, capacity, created_at, updated_at)
	VALUES
		(:room_id, :org_id, :label, :capacity, :created_at, :updated_at)`

	if err := sqldb.NamedExecContext(ctx, s.log, s.db, q, toDBRoom(rm)); err != nil {
		return fmt.Errorf("namedexeccontext: %w", err)
	}

	return nil
}

// QueryRooms retrieves the rooms visible to an organization: its own plus
// every room owned by an organization sharing its meeting namespace.
func (s *Store) QueryRooms(ctx context.Context, orgID uuid.UUID) ([]catalogbus.Room, error) {
	data := struct {
		OrgID string `db:"org_id"`
	}{
		OrgID: orgID.String(),
	}

	const q = `
	SELECT
		r.room_id, r.org_id, r.label, r.capacity, r.created_at, r.updated_at
	FROM
		"public"."room" AS r
	JOIN
		"public"."organization" AS o ON o.org_id = r.org_id
	WHERE
		r.org_id = :org_id
		OR (o.meeting_ns IS NOT NULL AND o.meeting_ns = (
			SELECT meeting_ns FROM "public"."organization" WHERE org_id = :org_id))
	ORDER BY
		r.label`

	var dbRMs []roomDB
	if err := sqldb.NamedQuerySlice(ctx, s.log, s.db, q, data, &dbRMs); err != nil {
		return nil, fmt.Errorf("namedqueryslice: %w", err)
	}

	return toBusRooms(dbRMs)
}

// QueryRoomByID gets the specified room from the database.
func (s *Store) QueryRoomByID(ctx context.Context, roomID uuid.UUID) (catalogbus.Room, error) {
	data := struct {
		ID string `db:"room_id"`
	}{
		ID: roomID.String(),
	}

	const q = `
	SELECT
		room_id, org_id, label, capacity, created_at, updated_at
	FROM
		"public"."room"
	WHERE
		room_id = :room_id`

	var dbRM roomDB
	if err := sqldb.NamedQueryStruct(ctx, s.log, s.db, q, data, &dbRM); err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			return catalogbus.Room{}, fmt.Errorf("db: %w", catalogbus.ErrNotFound)
		}
		return catalogbus.Room{}, fmt.Errorf("db: %w", err)
	}

	return toBusRoom(dbRM)
}
