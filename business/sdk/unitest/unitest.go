// Package unitest provides in-memory Storer implementations so the business
// layer can be tested without a database. The booking store reproduces the
// commit-time overlap guarantee the real schema enforces with its range
// exclusion constraint: inserts are serialized under a mutex and a colliding
// range is refused with bookingbus.ErrOverlap.
package unitest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jcpaschoal/coopfrota/business/domain/bookingbus"
	"github.com/jcpaschoal/coopfrota/business/domain/catalogbus"
	"github.com/jcpaschoal/coopfrota/business/domain/orgbus"
	"github.com/jcpaschoal/coopfrota/business/sdk/interval"
	"github.com/jcpaschoal/coopfrota/business/sdk/order"
	"github.com/jcpaschoal/coopfrota/business/sdk/page"
	"github.com/jcpaschoal/coopfrota/business/sdk/sqldb"
)

// =============================================================================
// Organization store

// OrgStore is an in-memory orgbus.Storer.
type OrgStore struct {
	mu      sync.RWMutex
	orgs    map[uuid.UUID]orgbus.Org
	members map[uuid.UUID]orgbus.Member
}

// NewOrgStore constructs an empty in-memory organization store.
func NewOrgStore() *OrgStore {
	return &OrgStore{
		orgs:    make(map[uuid.UUID]orgbus.Org),
		members: make(map[uuid.UUID]orgbus.Member),
	}
}

// NewWithTx implements the orgbus.Storer interface.
func (s *OrgStore) NewWithTx(tx sqldb.CommitRollbacker) (orgbus.Storer, error) {
	return s, nil
}

// Create implements the orgbus.Storer interface.
func (s *OrgStore) Create(ctx context.Context, org orgbus.Org) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.orgs[org.ID] = org
	return nil
}

// Update implements the orgbus.Storer interface.
func (s *OrgStore) Update(ctx context.Context, org orgbus.Org) error {
	return s.Create(ctx, org)
}

// QueryByID implements the orgbus.Storer interface.
func (s *OrgStore) QueryByID(ctx context.Context, orgID uuid.UUID) (orgbus.Org, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	org, exists := s.orgs[orgID]
	if !exists {
		return orgbus.Org{}, orgbus.ErrNotFound
	}
	return org, nil
}

// QueryByCodeFingerprint implements the orgbus.Storer interface.
func (s *OrgStore) QueryByCodeFingerprint(ctx context.Context, fingerprint string) (orgbus.Org, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, org := range s.orgs {
		if org.CodeFingerprint == fingerprint {
			return org, nil
		}
	}
	return orgbus.Org{}, orgbus.ErrNotFound
}

// CreateMember implements the orgbus.Storer interface.
func (s *OrgStore) CreateMember(ctx context.Context, mbr orgbus.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.members[mbr.ID] = mbr
	return nil
}

// QueryMemberByID implements the orgbus.Storer interface.
func (s *OrgStore) QueryMemberByID(ctx context.Context, memberID uuid.UUID) (orgbus.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	mbr, exists := s.members[memberID]
	if !exists {
		return orgbus.Member{}, orgbus.ErrMemberNotFound
	}
	return mbr, nil
}

// QueryMembers implements the orgbus.Storer interface.
func (s *OrgStore) QueryMembers(ctx context.Context, orgID uuid.UUID) ([]orgbus.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var mbrs []orgbus.Member
	for _, mbr := range s.members {
		if mbr.OrgID == orgID {
			mbrs = append(mbrs, mbr)
		}
	}
	return mbrs, nil
}

// =============================================================================
// Catalog store

// CatalogStore is an in-memory catalogbus.Storer.
type CatalogStore struct {
	mu       sync.RWMutex
	vehicles map[uuid.UUID]catalogbus.Vehicle
	extras   map[uuid.UUID]catalogbus.ExtraVehicle
	rooms    map[uuid.UUID]catalogbus.Room
	orgs     *OrgStore
}

// NewCatalogStore constructs an empty in-memory catalog store. The org store
// is needed to resolve meeting namespaces for room listings.
func NewCatalogStore(orgs *OrgStore) *CatalogStore {
	return &CatalogStore{
		vehicles: make(map[uuid.UUID]catalogbus.Vehicle),
		extras:   make(map[uuid.UUID]catalogbus.ExtraVehicle),
		rooms:    make(map[uuid.UUID]catalogbus.Room),
		orgs:     orgs,
	}
}

// NewWithTx implements the catalogbus.Storer interface.
func (s *CatalogStore) NewWithTx(tx sqldb.CommitRollbacker) (catalogbus.Storer, error) {
	return s, nil
}

// CreateVehicle implements the catalogbus.Storer interface.
func (s *CatalogStore) CreateVehicle(ctx context.Context, v catalogbus.Vehicle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.vehicles[v.ID] = v
	return nil
}

// UpdateVehicle implements the catalogbus.Storer interface.
func (s *CatalogStore) UpdateVehicle(ctx context.Context, v catalogbus.Vehicle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.vehicles[v.ID]; !exists {
		return catalogbus.ErrNotFound
	}
	s.vehicles[v.ID] = v
	return nil
}

// QueryVehicles implements the catalogbus.Storer interface.
func (s *CatalogStore) QueryVehicles(ctx context.Context) ([]catalogbus.Vehicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	vs := make([]catalogbus.Vehicle, 0, len(s.vehicles))
	for _, v := range s.vehicles {
		vs = append(vs, v)
	}

	sort.Slice(vs, func(i, j int) bool {
		return vs[i].ID.String() < vs[j].ID.String()
	})

	return vs, nil
}

// QueryVehicleByID implements the catalogbus.Storer interface.
func (s *CatalogStore) QueryVehicleByID(ctx context.Context, vehicleID uuid.UUID) (catalogbus.Vehicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, exists := s.vehicles[vehicleID]
	if !exists {
		return catalogbus.Vehicle{}, catalogbus.ErrNotFound
	}
	return v, nil
}

// CreateExtraVehicle implements the catalogbus.Storer interface.
func (s *CatalogStore) CreateExtraVehicle(ctx context.Context, ev catalogbus.ExtraVehicle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.extras[ev.ID] = ev
	return nil
}

// QueryExtraVehicles implements the catalogbus.Storer interface.
func (s *CatalogStore) QueryExtraVehicles(ctx context.Context, orgID uuid.UUID, day time.Time) ([]catalogbus.ExtraVehicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var evs []catalogbus.ExtraVehicle
	for _, ev := range s.extras {
		if ev.OrgID == orgID && interval.SameDay(ev.Day, day) {
			evs = append(evs, ev)
		}
	}

	sort.Slice(evs, func(i, j int) bool {
		return evs[i].Label.String() < evs[j].Label.String()
	})

	return evs, nil
}

// QueryExtraVehicleByID implements the catalogbus.Storer interface.
func (s *CatalogStore) QueryExtraVehicleByID(ctx context.Context, extraID uuid.UUID) (catalogbus.ExtraVehicle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ev, exists := s.extras[extraID]
	if !exists {
		return catalogbus.ExtraVehicle{}, catalogbus.ErrNotFound
	}
	return ev, nil
}

// CreateRoom implements the catalogbus.Storer interface.
func (s *CatalogStore) CreateRoom(ctx context.Context, rm catalogbus.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rooms[rm.ID] = rm
	return nil
}

// QueryRooms implements the catalogbus.Storer interface.
func (s *CatalogStore) QueryRooms(ctx context.Context, orgID uuid.UUID) ([]catalogbus.Room, error) {
	org, err := s.orgs.QueryByID(ctx, orgID)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var rms []catalogbus.Room
	for _, rm := range s.rooms {
		if rm.OrgID == orgID {
			rms = append(rms, rm)
			continue
		}

		if !org.MeetingNS.Valid {
			continue
		}

		owner, err := s.orgs.QueryByID(ctx, rm.OrgID)
		if err != nil {
			continue
		}

		if owner.MeetingNS.Valid && owner.MeetingNS.UUID == org.MeetingNS.UUID {
			rms = append(rms, rm)
		}
	}

	sort.Slice(rms, func(i, j int) bool {
		return rms[i].Label.String() < rms[j].Label.String()
	})

	return rms, nil
}

// QueryRoomByID implements the catalogbus.Storer interface.
func (s *CatalogStore) QueryRoomByID(ctx context.Context, roomID uuid.UUID) (catalogbus.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rm, exists := s.rooms[roomID]
	if !exists {
		return catalogbus.Room{}, catalogbus.ErrNotFound
	}
	return rm, nil
}

// =============================================================================
// Booking store

// BookingStore is an in-memory bookingbus.Storer.
type BookingStore struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]bookingbus.Booking
}

// NewBookingStore constructs an empty in-memory booking store.
func NewBookingStore() *BookingStore {
	return &BookingStore{
		bookings: make(map[uuid.UUID]bookingbus.Booking),
	}
}

// NewWithTx implements the bookingbus.Storer interface.
func (s *BookingStore) NewWithTx(tx sqldb.CommitRollbacker) (bookingbus.Storer, error) {
	return s, nil
}

// Create implements the bookingbus.Storer interface. The check and the
// insert happen under one lock, matching the atomicity the database's
// exclusion constraint gives the real store.
func (s *BookingStore) Create(ctx context.Context, bkg bookingbus.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.bookings {
		if existing.Ref.Equal(bkg.Ref) && interval.Overlaps(bkg.Start, bkg.End, existing.Start, existing.End) {
			return bookingbus.ErrOverlap
		}
	}

	s.bookings[bkg.ID] = bkg
	return nil
}

// Delete implements the bookingbus.Storer interface.
func (s *BookingStore) Delete(ctx context.Context, bkg bookingbus.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.bookings, bkg.ID)
	return nil
}

// QueryByID implements the bookingbus.Storer interface.
func (s *BookingStore) QueryByID(ctx context.Context, bookingID uuid.UUID) (bookingbus.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bkg, exists := s.bookings[bookingID]
	if !exists {
		return bookingbus.Booking{}, bookingbus.ErrNotFound
	}
	return bkg, nil
}

// QueryByOrg implements the bookingbus.Storer interface.
func (s *BookingStore) QueryByOrg(ctx context.Context, orgID uuid.UUID, day *time.Time, orderBy order.By, pg page.Page) ([]bookingbus.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var bkgs []bookingbus.Booking
	for _, bkg := range s.bookings {
		if !matchesOrg(bkg, orgID) || !matchesDay(bkg, day) {
			continue
		}
		bkgs = append(bkgs, bkg)
	}

	sort.Slice(bkgs, func(i, j int) bool {
		if orderBy.Direction == order.DESC {
			i, j = j, i
		}
		return bkgs[i].Start.Before(bkgs[j].Start)
	})

	offset := (pg.Number() - 1) * pg.RowsPerPage()
	if offset >= len(bkgs) {
		return nil, nil
	}

	end := min(offset+pg.RowsPerPage(), len(bkgs))

	return bkgs[offset:end], nil
}

// Count implements the bookingbus.Storer interface.
func (s *BookingStore) Count(ctx context.Context, orgID uuid.UUID, day *time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, bkg := range s.bookings {
		if matchesOrg(bkg, orgID) && matchesDay(bkg, day) {
			count++
		}
	}
	return count, nil
}

// QueryOverlapping implements the bookingbus.Storer interface.
func (s *BookingStore) QueryOverlapping(ctx context.Context, ref bookingbus.ResourceRef, start, end time.Time) ([]bookingbus.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var bkgs []bookingbus.Booking
	for _, bkg := range s.bookings {
		if bkg.Ref.Equal(ref) && interval.Overlaps(start, end, bkg.Start, bkg.End) {
			bkgs = append(bkgs, bkg)
		}
	}

	sort.Slice(bkgs, func(i, j int) bool {
		return bkgs[i].Start.Before(bkgs[j].Start)
	})

	return bkgs, nil
}

// QueryWindow implements the bookingbus.Storer interface.
func (s *BookingStore) QueryWindow(ctx context.Context, start, end time.Time) ([]bookingbus.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var bkgs []bookingbus.Booking
	for _, bkg := range s.bookings {
		if interval.Overlaps(start, end, bkg.Start, bkg.End) {
			bkgs = append(bkgs, bkg)
		}
	}

	sort.Slice(bkgs, func(i, j int) bool {
		return bkgs[i].Start.Before(bkgs[j].Start)
	})

	return bkgs, nil
}

func matchesOrg(bkg bookingbus.Booking, orgID uuid.UUID) bool {
	return bkg.OrgID == orgID || (bkg.SourceOrgID.Valid && bkg.SourceOrgID.UUID == orgID)
}

func matchesDay(bkg bookingbus.Booking, day *time.Time) bool {
	if day == nil {
		return true
	}

	dayStart, dayEnd := interval.DayWindow(*day)
	return !bkg.Start.Before(dayStart) && !bkg.Start.After(dayEnd)
}
