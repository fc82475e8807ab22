package orgdb

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jcpaschoal/coopfrota/business/domain/orgbus"
	"github.com/jcpaschoal/coopfrota/business/types/name"
	"github.com/jcpaschoal/coopfrota/business/types/role"
	"github.com/jcpaschoal/coopfrota/business/types/section"
)

type orgDB struct {
	ID              uuid.UUID     `db:"org_id"`
	Name            string        `db:"name"`
	CodeHash        []byte        `db:"code_hash"`
	CodeFingerprint string        `db:"code_fp"`
	Sections        string        `db:"sections"`
	MeetingNS       uuid.NullUUID `db:"meeting_ns"`
	Enabled         bool          `db:"enabled"`
	CreatedAt       time.Time     `db:"created_at"`
	UpdatedAt       time.Time     `db:"updated_at"`
}

func toDBOrg(bus orgbus.Org) orgDB {
	return orgDB{
		ID:              bus.ID,
		Name:            bus.Name.String(),
		CodeHash:        bus.CodeHash,
		CodeFingerprint: bus.CodeFingerprint,
		Sections:        bus.Sections.String(),
		MeetingNS:       bus.MeetingNS,
		Enabled:         bus.Enabled,
		CreatedAt:       bus.CreatedAt.UTC(),
		UpdatedAt:       bus.UpdatedAt.UTC(),
	}
}

func toBusOrg(db orgDB) (orgbus.Org, error) {
	nme, err := name.Parse(db.Name)
	if err != nil {
		return orgbus.Org{}, fmt.Errorf("parse name: %w", err)
	}

	sections, err := section.ParseSet(db.Sections)
	if err != nil {
		return orgbus.Org{}, fmt.Errorf("parse sections: %w", err)
	}

	bus := orgbus.Org{
		ID:              db.ID,
		Name:            nme,
		CodeHash:        db.CodeHash,
		CodeFingerprint: db.CodeFingerprint,
		Sections:        sections,
		MeetingNS:       db.MeetingNS,
		Enabled:         db.Enabled,
		CreatedAt:       db.CreatedAt.In(time.Local),
		UpdatedAt:       db.UpdatedAt.In(time.Local),
	}

	return bus, nil
}

// =============================================================================

type memberDB struct {
	ID        uuid.UUID `db:"member_id"`
	OrgID     uuid.UUID `db:"org_id"`
	Name      string    `db:"name"`
	Role      string    `db:"role"`
	Enabled   bool      `db:"enabled"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func toDBMember(bus orgbus.Member) memberDB {
	return memberDB{
		ID:        bus.ID,
		OrgID:     bus.OrgID,
		Name:      bus.Name.String(),
		Role:      bus.Role.String(),
		Enabled:   bus.Enabled,
		CreatedAt: bus.CreatedAt.UTC(),
		UpdatedAt: bus.UpdatedAt.UTC(),
	}
}

func toBusMember(db memberDB) (orgbus.Member, error) {
	nme, err := name.Parse(db.Name)
	if err != nil {
		return orgbus.Member{}, fmt.Errorf("parse name: %w", err)
	}

	mbrRole, err := role.Parse(db.Role)
	if err != nil {
		return orgbus.Member{}, fmt.Errorf("parse role: %w", err)
	}

	bus := orgbus.Member{
		ID:        db.ID,
		OrgID:     db.OrgID,
		Name:      nme,
		Role:      mbrRole,
		Enabled:   db.Enabled,
		CreatedAt: db.CreatedAt.In(time.Local),
		UpdatedAt: db.UpdatedAt.In(time.Local),
	}

	return bus, nil
}

func toBusMembers(dbs []memberDB) ([]orgbus.Member, error) {
	bus := make([]orgbus.Member, len(dbs))

	for i, db := range dbs {
		var err error
		bus[i], err = toBusMember(db)
		if err != nil {
			return nil, err
		}
	}

	return bus, nil
}
