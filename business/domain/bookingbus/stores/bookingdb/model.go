package bookingdb

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jcpaschoal/coopfrota/business/domain/bookingbus"
	"github.com/jcpaschoal/coopfrota/business/types/name"
	"github.com/jcpaschoal/coopfrota/business/types/rclass"
)

type bookingDB struct {
	ID            uuid.UUID     `db:"booking_id"`
	OrgID         uuid.UUID     `db:"org_id"`
	SourceOrgID   uuid.NullUUID `db:"source_org_id"`
	ResourceClass string        `db:"resource_class"`
	ResourceID    uuid.UUID     `db:"resource_id"`
	MemberID      uuid.NullUUID `db:"member_id"`
	Requester     string        `db:"requester"`
	Note          string        `db:"note"`
	StartAt       time.Time     `db:"start_at"`
	EndAt         time.Time     `db:"end_at"`
	CreatedAt     time.Time     `db:"created_at"`
}

func toDBBooking(bus bookingbus.Booking) bookingDB {
	return bookingDB{
		ID:            bus.ID,
		OrgID:         bus.OrgID,
		SourceOrgID:   bus.SourceOrgID,
		ResourceClass: bus.Ref.Class().String(),
		ResourceID:    bus.Ref.ID(),
		MemberID:      bus.UserID,
		Requester:     bus.Requester.String(),
		Note:          bus.Note,
		StartAt:       bus.Start.UTC(),
		EndAt:         bus.End.UTC(),
		CreatedAt:     bus.CreatedAt.UTC(),
	}
}

func toBusBooking(db bookingDB) (bookingbus.Booking, error) {
	class, err := rclass.Parse(db.ResourceClass)
	if err != nil {
		return bookingbus.Booking{}, fmt.Errorf("parse class: %w", err)
	}

	requester, err := name.Parse(db.Requester)
	if err != nil {
		return bookingbus.Booking{}, fmt.Errorf("parse requester: %w", err)
	}

	bus := bookingbus.Booking{
		ID:          db.ID,
		OrgID:       db.OrgID,
		SourceOrgID: db.SourceOrgID,
		Ref:         bookingbus.NewRef(class, db.ResourceID),
		UserID:      db.MemberID,
		Requester:   requester,
		Note:        db.Note,
		Start:       db.StartAt.UTC(),
		End:         db.EndAt.UTC(),
		CreatedAt:   db.CreatedAt.In(time.Local),
	}

	return bus, nil
}

func toBusBookings(dbs []bookingDB) ([]bookingbus.Booking, error) {
	bus := make([]bookingbus.Booking, len(dbs))

	for i, db := range dbs {
		var err error
		bus[i], err = toBusBooking(db)
		if err != nil {
			return nil, err
		}
	}

	return bus, nil
}
