package bookingbus

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jcpaschoal/coopfrota/business/types/name"
	"github.com/jcpaschoal/coopfrota/business/types/rclass"
	"github.com/jcpaschoal/coopfrota/business/types/role"
)

// ResourceRef identifies exactly one bookable resource. The class and id are
// set together by the constructors below; a zero ResourceRef selects nothing.
// Modeling the selector as a single tagged value keeps "exactly one of
// vehicle, extra, room" out of runtime flag checking.
type ResourceRef struct {
	class rclass.Class
	id    uuid.UUID
}

// VehicleRef constructs a reference to a pool vehicle.
func VehicleRef(vehicleID uuid.UUID) ResourceRef {
	return ResourceRef{class: rclass.Vehicle, id: vehicleID}
}

// ExtraRef constructs a reference to an extra vehicle.
func ExtraRef(extraID uuid.UUID) ResourceRef {
	return ResourceRef{class: rclass.Extra, id: extraID}
}

// RoomRef constructs a reference to a meeting room.
func RoomRef(roomID uuid.UUID) ResourceRef {
	return ResourceRef{class: rclass.Room, id: roomID}
}

// NewRef constructs a reference from its parts. Used by the stores when
// rehydrating rows.
func NewRef(class rclass.Class, id uuid.UUID) ResourceRef {
	return ResourceRef{class: class, id: id}
}

// Class returns the resource class of the reference.
func (r ResourceRef) Class() rclass.Class {
	return r.class
}

// ID returns the resource id of the reference.
func (r ResourceRef) ID() uuid.UUID {
	return r.id
}

// IsZero reports whether the reference selects no resource.
func (r ResourceRef) IsZero() bool {
	return r == ResourceRef{}
}

// Equal provides support for the go-cmp package and testing.
func (r ResourceRef) Equal(r2 ResourceRef) bool {
	return r == r2
}

// String returns a printable form of the reference.
func (r ResourceRef) String() string {
	return fmt.Sprintf("%s[%s]", r.class, r.id)
}

// =============================================================================

// Booking represents a reservation of one resource for one half-open time
// range. OrgID is the organization the booking is attributed to; for rooms
// booked across a meeting namespace that is the room-owning organization and
// SourceOrgID records who actually made the booking.
type Booking struct {
	ID          uuid.UUID
	OrgID       uuid.UUID
	SourceOrgID uuid.NullUUID
	Ref         ResourceRef
	UserID      uuid.NullUUID
	Requester   name.Name
	Note        string
	Start       time.Time
	End         time.Time
	CreatedAt   time.Time
}

// NewBooking contains information needed to create a new booking. OrgID is
// the requesting organization.
type NewBooking struct {
	OrgID     uuid.UUID
	Ref       ResourceRef
	Requester name.Name
	Note      string
	Start     time.Time
	End       time.Time
}

// Identity is the already-verified caller identity handed down by the
// transport layer. A nil *Identity means the legacy anonymous path.
type Identity struct {
	UserID uuid.UUID
	OrgID  uuid.UUID
	Role   role.Role
}
