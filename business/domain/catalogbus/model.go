package catalogbus

import (
	"time"

	"github.com/google/uuid"
	"github.com/jcpaschoal/coopfrota/business/sdk/interval"
	"github.com/jcpaschoal/coopfrota/business/types/name"
	"github.com/jcpaschoal/coopfrota/business/types/vstatus"
)

// Vehicle represents a durable pool vehicle. OrgID is null for vehicles in
// the shared pool and set for vehicles scoped to a single organization.
type Vehicle struct {
	ID               uuid.UUID
	Label            name.Name
	OrgID            uuid.NullUUID
	Status           vstatus.Status
	UnavailableFrom  *time.Time
	UnavailableUntil *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// BlockedDuring reports whether the vehicle is unavailable for the given
// range. Maintenance with no blackout window blocks every range; with a
// window only overlapping ranges are blocked.
func (v Vehicle) BlockedDuring(start, end time.Time) bool {
	if !v.Status.Equal(vstatus.Maintenance) {
		return false
	}

	if v.UnavailableFrom == nil || v.UnavailableUntil == nil {
		return true
	}

	return interval.Overlaps(start, end, *v.UnavailableFrom, *v.UnavailableUntil)
}

// VisibleTo reports whether the vehicle is offerable to the specified
// organization.
func (v Vehicle) VisibleTo(orgID uuid.UUID) bool {
	return !v.OrgID.Valid || v.OrgID.UUID == orgID
}

// ExtraVehicle represents a vehicle added for a single organization and a
// single UTC calendar day. It stops being offerable once that day passes.
type ExtraVehicle struct {
	ID        uuid.UUID
	OrgID     uuid.UUID
	Label     name.Name
	Day       time.Time
	CreatedAt time.Time
}

// Room represents a meeting room owned by one organization.
type Room struct {
	ID        uuid.UUID
	OrgID     uuid.UUID
	Label     name.Name
	Capacity  int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MaintenanceWindow is an explicit blackout period for a pool vehicle.
type MaintenanceWindow struct {
	From  time.Time
	Until time.Time
}

// NewVehicle contains information needed to add a pool vehicle.
type NewVehicle struct {
	Label name.Name
	OrgID uuid.NullUUID
}

// NewExtraVehicle contains information needed to add an extra vehicle.
type NewExtraVehicle struct {
	OrgID uuid.UUID
	Label name.Name
	Day   time.Time
}

// NewRoom contains information needed to add a meeting room.
type NewRoom struct {
	OrgID    uuid.UUID
	Label    name.Name
	Capacity int
}
