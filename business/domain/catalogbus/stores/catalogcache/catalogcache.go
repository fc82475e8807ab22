// Package catalogcache contains catalog related CRUD functionality with a
// sturdyc read-through cache. The vehicle catalog is small and read on every
// availability check, so single vehicle reads are served from memory.
package catalogcache

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jcpaschoal/coopfrota/business/domain/catalogbus"
	"github.com/jcpaschoal/coopfrota/business/sdk/sqldb"
	"github.com/jcpaschoal/coopfrota/foundation/logger"
	"github.com/viccon/sturdyc"
)

// Store manages the set of APIs for catalog data and caching.
type Store struct {
	log      *logger.Logger
	storer   catalogbus.Storer
	vehicles *sturdyc.Client[catalogbus.Vehicle]
	rooms    *sturdyc.Client[catalogbus.Room]
}

// NewStore constructs the api for data and caching access.
func NewStore(log *logger.Logger, storer catalogbus.Storer, ttl time.Duration) *Store {
	const capacity = 10000
	const numShards = 10
	const evictionPercentage = 10

	return &Store{
		log:      log,
		storer:   storer,
		vehicles: sturdyc.New[catalogbus.Vehicle](capacity, numShards, ttl, evictionPercentage),
		rooms:    sturdyc.New[catalogbus.Room](capacity, numShards, ttl, evictionPercentage),
	}
}

// NewWithTx constructs a new Store value replacing the storer value with a
// storer value that is currently inside a transaction. The cache is bypassed
// for transactional work.
func (s *Store) NewWithTx(tx sqldb.CommitRollbacker) (catalogbus.Storer, error) {
	return s.storer.NewWithTx(tx)
}

// CreateVehicle inserts a new pool vehicle into the database.
func (s *Store) CreateVehicle(ctx context.Context, v catalogbus.Vehicle) error {
	if err := s.storer.CreateVehicle(ctx, v); err != nil {
		return err
	}

	s.vehicles.Set(v.ID.String(), v)

	return nil
}

// UpdateVehicle replaces a vehicle document in the database and drops the
// cached copy so the next read observes the new maintenance state.
func (s *Store) UpdateVehicle(ctx context.Context, v catalogbus.Vehicle) error {
	if err := s.storer.UpdateVehicle(ctx, v); err != nil {
		return err
	}

	s.vehicles.Delete(v.ID.String())

	return nil
}

// QueryVehicles retrieves all pool vehicles from the database. The listing
// is not cached; correctness of availability listings beats the round trip.
func (s *Store) QueryVehicles(ctx context.Context) ([]catalogbus.Vehicle, error) {
	return s.storer.QueryVehicles(ctx)
}

// QueryVehicleByID gets the specified vehicle from the cache, falling back
// to the database.
func (s *Store) QueryVehicleByID(ctx context.Context, vehicleID uuid.UUID) (catalogbus.Vehicle, error) {
	fetch := func(ctx context.Context) (catalogbus.Vehicle, error) {
		return s.storer.QueryVehicleByID(ctx, vehicleID)
	}

	return s.vehicles.GetOrFetch(ctx, vehicleID.String(), fetch)
}

// CreateExtraVehicle inserts a new extra vehicle into the database.
func (s *Store) CreateExtraVehicle(ctx context.Context, ev catalogbus.ExtraVehicle) error {
	return s.storer.CreateExtraVehicle(ctx, ev)
}

// QueryExtraVehicles retrieves the extra vehicles for one organization and
// one calendar day. Extra vehicles live for a single day; not cached.
func (s *Store) QueryExtraVehicles(ctx context.Context, orgID uuid.UUID, day time.Time) ([]catalogbus.ExtraVehicle, error) {
	return s.storer.QueryExtraVehicles(ctx, orgID, day)
}

// QueryExtraVehicleByID gets the specified extra vehicle from the database.
func (s *Store) QueryExtraVehicleByID(ctx context.Context, extraID uuid.UUID) (catalogbus.ExtraVehicle, error) {
	return s.storer.QueryExtraVehicleByID(ctx, extraID)
}

// CreateRoom inserts a new meeting room into the database.
func (s *Store) CreateRoom(ctx context.Context, rm catalogbus.Room) error {
	if err := s.storer.CreateRoom(ctx, rm); err != nil {
		return err
	}

	s.rooms.Set(rm.ID.String(), rm)

	return nil
}

// QueryRooms retrieves the rooms visible to an organization from the
// database.
func (s *Store) QueryRooms(ctx context.Context, orgID uuid.UUID) ([]catalogbus.Room, error) {
	return s.storer.QueryRooms(ctx, orgID)
}

// QueryRoomByID gets the specified room from the cache, falling back to the
// database.
func (s *Store) QueryRoomByID(ctx context.Context, roomID uuid.UUID) (catalogbus.Room, error) {
	fetch := func(ctx context.Context) (catalogbus.Room, error) {
		return s.storer.QueryRoomByID(ctx, roomID)
	}

	return s.rooms.GetOrFetch(ctx, roomID.String(), fetch)
}
