package catalogbus_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jcpaschoal/coopfrota/business/domain/catalogbus"
	"github.com/jcpaschoal/coopfrota/business/domain/orgbus"
	"github.com/jcpaschoal/coopfrota/business/sdk/unitest"
	"github.com/jcpaschoal/coopfrota/business/types/name"
	"github.com/jcpaschoal/coopfrota/business/types/vstatus"
	"github.com/jcpaschoal/coopfrota/foundation/logger"
)

func newCore(t *testing.T) (*catalogbus.Core, *unitest.OrgStore) {
	t.Helper()

	log := logger.New(io.Discard, logger.LevelInfo, "TEST", nil)
	orgStore := unitest.NewOrgStore()

	return catalogbus.NewCore(log, unitest.NewCatalogStore(orgStore)), orgStore
}

func Test_SetMaintenance(t *testing.T) {
	catalogBus, _ := newCore(t)
	ctx := context.Background()

	v, err := catalogBus.CreateVehicle(ctx, catalogbus.NewVehicle{Label: name.MustParse("Kombi 01")})
	if err != nil {
		t.Fatalf("creating vehicle: %s", err)
	}

	if !v.Status.Equal(vstatus.Available) {
		t.Fatalf("status = %s, want AVAILABLE", v.Status)
	}

	from := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)
	until := time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC)

	v, err = catalogBus.SetMaintenance(ctx, v.ID, vstatus.Maintenance, &catalogbus.MaintenanceWindow{From: from, Until: until})
	if err != nil {
		t.Fatalf("setting maintenance: %s", err)
	}

	if v.UnavailableFrom == nil || !v.UnavailableFrom.Equal(from) {
		t.Errorf("unavailable from = %v, want %s", v.UnavailableFrom, from)
	}
	if !v.BlockedDuring(from.Add(time.Hour), from.Add(2*time.Hour)) {
		t.Error("vehicle should be blocked inside the window")
	}
	if v.BlockedDuring(until, until.Add(time.Hour)) {
		t.Error("vehicle should not be blocked after the window")
	}

	// Back to available clears the window.
	v, err = catalogBus.SetMaintenance(ctx, v.ID, vstatus.Available, nil)
	if err != nil {
		t.Fatalf("clearing maintenance: %s", err)
	}
	if v.UnavailableFrom != nil || v.UnavailableUntil != nil {
		t.Error("window should be cleared on return to available")
	}

	// Inverted window is refused.
	if _, err := catalogBus.SetMaintenance(ctx, v.ID, vstatus.Maintenance, &catalogbus.MaintenanceWindow{From: until, Until: from}); !errors.Is(err, catalogbus.ErrInvalidWindow) {
		t.Errorf("err = %v, want ErrInvalidWindow", err)
	}
}

func Test_ExtraVehicleDayNormalization(t *testing.T) {
	catalogBus, _ := newCore(t)
	ctx := context.Background()

	orgID := uuid.New()

	nev := catalogbus.NewExtraVehicle{
		OrgID: orgID,
		Label: name.MustParse("Extra 01"),
		Day:   time.Date(2025, 6, 10, 15, 42, 7, 0, time.UTC),
	}

	ev, err := catalogBus.CreateExtraVehicle(ctx, nev)
	if err != nil {
		t.Fatalf("creating extra vehicle: %s", err)
	}

	want := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	if !ev.Day.Equal(want) {
		t.Errorf("day = %s, want %s", ev.Day, want)
	}

	// Listed for its day, absent for the adjacent one.
	evs, err := catalogBus.QueryExtraVehicles(ctx, orgID, time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("querying extras: %s", err)
	}
	if len(evs) != 1 {
		t.Errorf("extras for its day = %d, want 1", len(evs))
	}

	evs, err = catalogBus.QueryExtraVehicles(ctx, orgID, want.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("querying extras: %s", err)
	}
	if len(evs) != 0 {
		t.Errorf("extras for adjacent day = %d, want 0", len(evs))
	}

	// Scoped to the owning organization.
	evs, err = catalogBus.QueryExtraVehicles(ctx, uuid.New(), want)
	if err != nil {
		t.Fatalf("querying extras: %s", err)
	}
	if len(evs) != 0 {
		t.Errorf("extras for another org = %d, want 0", len(evs))
	}
}

func Test_QueryRooms_Namespace(t *testing.T) {
	catalogBus, orgStore := newCore(t)
	ctx := context.Background()

	ns := uuid.New()
	orgA := orgbus.Org{ID: uuid.New(), Name: name.MustParse("Coop Norte"), MeetingNS: uuid.NullUUID{UUID: ns, Valid: true}, Enabled: true}
	orgB := orgbus.Org{ID: uuid.New(), Name: name.MustParse("Coop Sul"), MeetingNS: uuid.NullUUID{UUID: ns, Valid: true}, Enabled: true}
	orgC := orgbus.Org{ID: uuid.New(), Name: name.MustParse("Coop Leste"), Enabled: true}

	for _, org := range []orgbus.Org{orgA, orgB, orgC} {
		if err := orgStore.Create(ctx, org); err != nil {
			t.Fatalf("seeding org: %s", err)
		}
	}

	if _, err := catalogBus.CreateRoom(ctx, catalogbus.NewRoom{OrgID: orgA.ID, Label: name.MustParse("Sala Grande"), Capacity: 12}); err != nil {
		t.Fatalf("creating room: %s", err)
	}
	if _, err := catalogBus.CreateRoom(ctx, catalogbus.NewRoom{OrgID: orgC.ID, Label: name.MustParse("Sala Leste"), Capacity: 6}); err != nil {
		t.Fatalf("creating room: %s", err)
	}

	// orgB shares the namespace with orgA and sees its room, not orgC's.
	rms, err := catalogBus.QueryRooms(ctx, orgB.ID)
	if err != nil {
		t.Fatalf("querying rooms: %s", err)
	}
	if len(rms) != 1 || rms[0].OrgID != orgA.ID {
		t.Errorf("rooms = %v, want only the namespace room", rms)
	}

	// orgC has no namespace and sees only its own room.
	rms, err = catalogBus.QueryRooms(ctx, orgC.ID)
	if err != nil {
		t.Fatalf("querying rooms: %s", err)
	}
	if len(rms) != 1 || rms[0].OrgID != orgC.ID {
		t.Errorf("rooms = %v, want only own room", rms)
	}
}

func Test_QueryVehicles_IDOrder(t *testing.T) {
	catalogBus, _ := newCore(t)
	ctx := context.Background()

	for _, label := range []string{"Zebra 01", "Alfa 01", "Mike 01"} {
		if _, err := catalogBus.CreateVehicle(ctx, catalogbus.NewVehicle{Label: name.MustParse(label)}); err != nil {
			t.Fatalf("creating vehicle %q: %s", label, err)
		}
	}

	vs, err := catalogBus.QueryVehicles(ctx)
	if err != nil {
		t.Fatalf("querying vehicles: %s", err)
	}

	if len(vs) != 3 {
		t.Fatalf("vehicles = %d, want 3", len(vs))
	}

	// The pool listing orders by identifier, not by label.
	for i := 1; i < len(vs); i++ {
		if vs[i-1].ID.String() > vs[i].ID.String() {
			t.Errorf("vehicles out of order at %d: %s > %s", i, vs[i-1].ID, vs[i].ID)
		}
	}
}
