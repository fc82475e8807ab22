package availbus_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jcpaschoal/coopfrota/business/domain/availbus"
	"github.com/jcpaschoal/coopfrota/business/domain/bookingbus"
	"github.com/jcpaschoal/coopfrota/business/domain/catalogbus"
	"github.com/jcpaschoal/coopfrota/business/domain/orgbus"
	"github.com/jcpaschoal/coopfrota/business/sdk/unitest"
	"github.com/jcpaschoal/coopfrota/business/types/name"
	"github.com/jcpaschoal/coopfrota/business/types/role"
	"github.com/jcpaschoal/coopfrota/business/types/vstatus"
	"github.com/jcpaschoal/coopfrota/foundation/logger"
)

type seed struct {
	availBus   *availbus.Core
	bookingBus *bookingbus.Core

	org     uuid.UUID
	idn     bookingbus.Identity
	vehicle uuid.UUID
	maint   uuid.UUID
	extra   uuid.UUID
	room    uuid.UUID
}

func newSeed(t *testing.T) seed {
	t.Helper()

	log := logger.New(io.Discard, logger.LevelInfo, "TEST", nil)

	orgStore := unitest.NewOrgStore()
	catStore := unitest.NewCatalogStore(orgStore)
	bkgStore := unitest.NewBookingStore()

	orgBus := orgbus.NewCore(log, orgStore)
	catalogBus := catalogbus.NewCore(log, catStore)
	bookingBus := bookingbus.NewCore(log, bkgStore, catalogBus, orgBus)

	ctx := context.Background()

	sd := seed{
		availBus:   availbus.NewCore(log, catalogBus, bookingBus),
		bookingBus: bookingBus,
		org:        uuid.New(),
		vehicle:    uuid.New(),
		maint:      uuid.New(),
		extra:      uuid.New(),
		room:       uuid.New(),
	}
	sd.idn = bookingbus.Identity{UserID: uuid.New(), OrgID: sd.org, Role: role.Member}

	org := orgbus.Org{ID: sd.org, Name: name.MustParse("Coop Norte"), Enabled: true}
	if err := orgStore.Create(ctx, org); err != nil {
		t.Fatalf("seeding org: %s", err)
	}

	vehicles := []catalogbus.Vehicle{
		{ID: sd.vehicle, Label: name.MustParse("Kombi 01"), Status: vstatus.Available},
		{ID: sd.maint, Label: name.MustParse("Kombi 02"), Status: vstatus.Maintenance},
	}
	for _, v := range vehicles {
		if err := catStore.CreateVehicle(ctx, v); err != nil {
			t.Fatalf("seeding vehicle: %s", err)
		}
	}

	ev := catalogbus.ExtraVehicle{
		ID:    sd.extra,
		OrgID: sd.org,
		Label: name.MustParse("Extra 01"),
		Day:   time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
	}
	if err := catStore.CreateExtraVehicle(ctx, ev); err != nil {
		t.Fatalf("seeding extra vehicle: %s", err)
	}

	rm := catalogbus.Room{ID: sd.room, OrgID: sd.org, Label: name.MustParse("Sala Grande"), Capacity: 12}
	if err := catStore.CreateRoom(ctx, rm); err != nil {
		t.Fatalf("seeding room: %s", err)
	}

	return sd
}

func find(t *testing.T, vds []availbus.Verdict, ref bookingbus.ResourceRef) availbus.Verdict {
	t.Helper()

	for _, vd := range vds {
		if vd.Ref.Equal(ref) {
			return vd
		}
	}

	t.Fatalf("no verdict for %s", ref)
	return availbus.Verdict{}
}

func Test_Query(t *testing.T) {
	sd := newSeed(t)
	ctx := context.Background()

	start := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	// One booking on the pool vehicle for part of the window.
	nb := bookingbus.NewBooking{
		OrgID:     sd.org,
		Ref:       bookingbus.VehicleRef(sd.vehicle),
		Requester: name.MustParse("Ana"),
		Start:     start.Add(30 * time.Minute),
		End:       end.Add(30 * time.Minute),
	}
	if _, err := sd.bookingBus.Create(ctx, nb, &sd.idn); err != nil {
		t.Fatalf("creating booking: %s", err)
	}

	vds, err := sd.availBus.Query(ctx, sd.org, start, end)
	if err != nil {
		t.Fatalf("querying availability: %s", err)
	}

	if len(vds) != 4 {
		t.Fatalf("verdicts = %d, want 4", len(vds))
	}

	if vd := find(t, vds, bookingbus.VehicleRef(sd.vehicle)); vd.Available {
		t.Error("booked vehicle should be unavailable")
	}
	if vd := find(t, vds, bookingbus.VehicleRef(sd.maint)); vd.Available {
		t.Error("maintenance vehicle should be unavailable")
	}
	if vd := find(t, vds, bookingbus.ExtraRef(sd.extra)); !vd.Available {
		t.Error("extra vehicle should be available")
	}
	if vd := find(t, vds, bookingbus.RoomRef(sd.room)); !vd.Available {
		t.Error("room should be available")
	}

	// A window touching the booking's end does not conflict.
	vds, err = sd.availBus.Query(ctx, sd.org, end.Add(30*time.Minute), end.Add(90*time.Minute))
	if err != nil {
		t.Fatalf("querying availability: %s", err)
	}
	if vd := find(t, vds, bookingbus.VehicleRef(sd.vehicle)); !vd.Available {
		t.Error("vehicle should be available for a touching window")
	}
}

func Test_Query_ExtraDayScope(t *testing.T) {
	sd := newSeed(t)
	ctx := context.Background()

	// The extra vehicle exists for June 10 only.
	start := time.Date(2025, 6, 11, 10, 0, 0, 0, time.UTC)

	vds, err := sd.availBus.Query(ctx, sd.org, start, start.Add(time.Hour))
	if err != nil {
		t.Fatalf("querying availability: %s", err)
	}

	for _, vd := range vds {
		if vd.Ref.Equal(bookingbus.ExtraRef(sd.extra)) {
			t.Error("extra vehicle should not appear outside its day")
		}
	}
}

func Test_Query_InvalidRange(t *testing.T) {
	sd := newSeed(t)
	ctx := context.Background()

	start := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)

	if _, err := sd.availBus.Query(ctx, sd.org, start, start); !errors.Is(err, bookingbus.ErrInvalidRange) {
		t.Errorf("err = %v, want ErrInvalidRange", err)
	}
}

func Test_Query_MultipleBooked(t *testing.T) {
	sd := newSeed(t)
	ctx := context.Background()

	start := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	// Bookings on two different resources inside the window, and one on the
	// extra vehicle entirely after it.
	bookings := []bookingbus.NewBooking{
		{OrgID: sd.org, Ref: bookingbus.VehicleRef(sd.vehicle), Requester: name.MustParse("Ana"), Start: start, End: end},
		{OrgID: sd.org, Ref: bookingbus.RoomRef(sd.room), Requester: name.MustParse("Bia"), Start: start, End: end},
		{OrgID: sd.org, Ref: bookingbus.ExtraRef(sd.extra), Requester: name.MustParse("Caio"), Start: end, End: end.Add(time.Hour)},
	}
	for _, nb := range bookings {
		if _, err := sd.bookingBus.Create(ctx, nb, &sd.idn); err != nil {
			t.Fatalf("creating booking on %s: %s", nb.Ref, err)
		}
	}

	vds, err := sd.availBus.Query(ctx, sd.org, start, end)
	if err != nil {
		t.Fatalf("querying availability: %s", err)
	}

	// Each busy resource is attributed its own verdict; the booking after
	// the window keeps the extra vehicle available.
	if vd := find(t, vds, bookingbus.VehicleRef(sd.vehicle)); vd.Available {
		t.Error("booked vehicle should be unavailable")
	}
	if vd := find(t, vds, bookingbus.RoomRef(sd.room)); vd.Available {
		t.Error("booked room should be unavailable")
	}
	if vd := find(t, vds, bookingbus.ExtraRef(sd.extra)); !vd.Available {
		t.Error("extra vehicle booked after the window should be available")
	}
}
