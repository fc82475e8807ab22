package orgbus

import (
	"time"

	"github.com/google/uuid"
	"github.com/jcpaschoal/coopfrota/business/types/accesscode"
	"github.com/jcpaschoal/coopfrota/business/types/name"
	"github.com/jcpaschoal/coopfrota/business/types/role"
	"github.com/jcpaschoal/coopfrota/business/types/section"
)

// Org represents a member organization in the system. The MeetingNS field,
// when set, groups several organizations into one shared meeting-room pool
// while each keeps attribution of its own bookings.
type Org struct {
	ID              uuid.UUID
	Name            name.Name
	CodeHash        []byte
	CodeFingerprint string
	Sections        section.Set
	MeetingNS       uuid.NullUUID
	Enabled         bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Member represents an individual belonging to exactly one organization.
type Member struct {
	ID        uuid.UUID
	OrgID     uuid.UUID
	Name      name.Name
	Role      role.Role
	Enabled   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewOrg contains information needed to create a new organization.
type NewOrg struct {
	Name       name.Name
	AccessCode accesscode.Code
	Sections   section.Set
	MeetingNS  uuid.NullUUID
}

// UpdateOrg contains information needed to update an organization. Only the
// enabled sections and the meeting namespace change during normal operation.
type UpdateOrg struct {
	Sections  *section.Set
	MeetingNS *uuid.NullUUID
	Enabled   *bool
}

// NewMember contains information needed to add a member to an organization.
type NewMember struct {
	OrgID uuid.UUID
	Name  name.Name
	Role  role.Role
}
