package bookingbus_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/jcpaschoal/coopfrota/business/domain/bookingbus"
	"github.com/jcpaschoal/coopfrota/business/domain/catalogbus"
	"github.com/jcpaschoal/coopfrota/business/domain/orgbus"
	"github.com/jcpaschoal/coopfrota/business/sdk/page"
	"github.com/jcpaschoal/coopfrota/business/sdk/unitest"
	"github.com/jcpaschoal/coopfrota/business/types/name"
	"github.com/jcpaschoal/coopfrota/business/types/role"
	"github.com/jcpaschoal/coopfrota/business/types/vstatus"
	"github.com/jcpaschoal/coopfrota/foundation/logger"
)

type seed struct {
	bookingBus *bookingbus.Core
	store      *unitest.BookingStore

	orgA uuid.UUID // meeting namespace ns
	orgB uuid.UUID // meeting namespace ns
	orgC uuid.UUID // no namespace

	vehicle     uuid.UUID // available pool vehicle
	maintWindow uuid.UUID // maintenance Mon 00:00 - Wed 00:00
	maintAll    uuid.UUID // maintenance, no window
	extraA      uuid.UUID // extra vehicle for orgA, day 2025-06-10
	roomA       uuid.UUID // room owned by orgA

	memberA  bookingbus.Identity // MEMBER of orgA
	memberA2 bookingbus.Identity // another MEMBER of orgA
	adminA   bookingbus.Identity // ADMIN of orgA
	memberB  bookingbus.Identity // MEMBER of orgB
}

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()

	tm, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("parsing time %q: %s", value, err)
	}

	return tm
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

	ns := uuid.New()
	sd := seed{
		bookingBus: bookingBus,
		store:      bkgStore,
		orgA:       uuid.New(),
		orgB:       uuid.New(),
		orgC:       uuid.New(),
	}

	orgs := []orgbus.Org{
		{ID: sd.orgA, Name: name.MustParse("Coop Norte"), MeetingNS: uuid.NullUUID{UUID: ns, Valid: true}, Enabled: true},
		{ID: sd.orgB, Name: name.MustParse("Coop Sul"), MeetingNS: uuid.NullUUID{UUID: ns, Valid: true}, Enabled: true},
		{ID: sd.orgC, Name: name.MustParse("Coop Leste"), Enabled: true},
	}
	for _, org := range orgs {
		if err := orgStore.Create(ctx, org); err != nil {
			t.Fatalf("seeding org: %s", err)
		}
	}

	monday := mustTime(t, "2025-06-09T00:00:00Z")
	wednesday := mustTime(t, "2025-06-11T00:00:00Z")

	sd.vehicle = uuid.New()
	sd.maintWindow = uuid.New()
	sd.maintAll = uuid.New()

	vehicles := []catalogbus.Vehicle{
		{ID: sd.vehicle, Label: name.MustParse("Kombi 01"), Status: vstatus.Available},
		{ID: sd.maintWindow, Label: name.MustParse("Kombi 02"), Status: vstatus.Maintenance, UnavailableFrom: &monday, UnavailableUntil: &wednesday},
		{ID: sd.maintAll, Label: name.MustParse("Kombi 03"), Status: vstatus.Maintenance},
	}
	for _, v := range vehicles {
		if err := catStore.CreateVehicle(ctx, v); err != nil {
			t.Fatalf("seeding vehicle: %s", err)
		}
	}

	sd.extraA = uuid.New()
	ev := catalogbus.ExtraVehicle{
		ID:    sd.extraA,
		OrgID: sd.orgA,
		Label: name.MustParse("Extra 01"),
		Day:   mustTime(t, "2025-06-10T00:00:00Z"),
	}
	if err := catStore.CreateExtraVehicle(ctx, ev); err != nil {
		t.Fatalf("seeding extra vehicle: %s", err)
	}

	sd.roomA = uuid.New()
	rm := catalogbus.Room{
		ID:       sd.roomA,
		OrgID:    sd.orgA,
		Label:    name.MustParse("Sala Grande"),
		Capacity: 12,
	}
	if err := catStore.CreateRoom(ctx, rm); err != nil {
		t.Fatalf("seeding room: %s", err)
	}

	sd.memberA = bookingbus.Identity{UserID: uuid.New(), OrgID: sd.orgA, Role: role.Member}
	sd.memberA2 = bookingbus.Identity{UserID: uuid.New(), OrgID: sd.orgA, Role: role.Member}
	sd.adminA = bookingbus.Identity{UserID: uuid.New(), OrgID: sd.orgA, Role: role.Admin}
	sd.memberB = bookingbus.Identity{UserID: uuid.New(), OrgID: sd.orgB, Role: role.Member}

	return sd
}

func newBooking(ref bookingbus.ResourceRef, orgID uuid.UUID, start, end time.Time) bookingbus.NewBooking {
	return bookingbus.NewBooking{
		OrgID:     orgID,
		Ref:       ref,
		Requester: name.MustParse("Ana"),
		Start:     start,
		End:       end,
	}
}

func Test_Create(t *testing.T) {
	sd := newSeed(t)
	ctx := context.Background()

	start := mustTime(t, "2025-06-10T10:00:00Z")
	end := mustTime(t, "2025-06-10T11:00:00Z")

	nb := newBooking(bookingbus.VehicleRef(sd.vehicle), sd.orgA, start, end)

	bkg, err := sd.bookingBus.Create(ctx, nb, &sd.memberA)
	if err != nil {
		t.Fatalf("creating booking: %s", err)
	}

	if !bkg.UserID.Valid || bkg.UserID.UUID != sd.memberA.UserID {
		t.Errorf("owner = %v, want %s", bkg.UserID, sd.memberA.UserID)
	}

	got, err := sd.bookingBus.QueryByID(ctx, bkg.ID)
	if err != nil {
		t.Fatalf("querying booking: %s", err)
	}

	if diff := cmp.Diff(bkg, got); diff != "" {
		t.Errorf("booking mismatch (-want +got):\n%s", diff)
	}
}

func Test_Create_InvalidRange(t *testing.T) {
	sd := newSeed(t)
	ctx := context.Background()

	start := mustTime(t, "2025-06-10T10:00:00Z")

	tests := []struct {
		name string
		end  time.Time
	}{
		{"zero length", start},
		{"inverted", start.Add(-time.Hour)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nb := newBooking(bookingbus.VehicleRef(sd.vehicle), sd.orgA, start, tt.end)

			if _, err := sd.bookingBus.Create(ctx, nb, &sd.memberA); !errors.Is(err, bookingbus.ErrInvalidRange) {
				t.Errorf("err = %v, want ErrInvalidRange", err)
			}
		})
	}
}

func Test_Create_NoResourceSelected(t *testing.T) {
	sd := newSeed(t)
	ctx := context.Background()

	nb := newBooking(bookingbus.ResourceRef{}, sd.orgA, mustTime(t, "2025-06-10T10:00:00Z"), mustTime(t, "2025-06-10T11:00:00Z"))

	if _, err := sd.bookingBus.Create(ctx, nb, &sd.memberA); !errors.Is(err, bookingbus.ErrInvalidRef) {
		t.Errorf("err = %v, want ErrInvalidRef", err)
	}
}

func Test_Create_UnknownResource(t *testing.T) {
	sd := newSeed(t)
	ctx := context.Background()

	nb := newBooking(bookingbus.VehicleRef(uuid.New()), sd.orgA, mustTime(t, "2025-06-10T10:00:00Z"), mustTime(t, "2025-06-10T11:00:00Z"))

	if _, err := sd.bookingBus.Create(ctx, nb, &sd.memberA); !errors.Is(err, catalogbus.ErrNotFound) {
		t.Errorf("err = %v, want catalogbus.ErrNotFound", err)
	}
}

func Test_Create_BoundaryTouchIsNotConflict(t *testing.T) {
	sd := newSeed(t)
	ctx := context.Background()

	ref := bookingbus.VehicleRef(sd.vehicle)

	first := newBooking(ref, sd.orgA, mustTime(t, "2025-06-10T10:00:00Z"), mustTime(t, "2025-06-10T11:00:00Z"))
	if _, err := sd.bookingBus.Create(ctx, first, &sd.memberA); err != nil {
		t.Fatalf("creating first booking: %s", err)
	}

	second := newBooking(ref, sd.orgA, mustTime(t, "2025-06-10T11:00:00Z"), mustTime(t, "2025-06-10T12:00:00Z"))
	if _, err := sd.bookingBus.Create(ctx, second, &sd.memberA); err != nil {
		t.Fatalf("creating touching booking: %s", err)
	}
}

func Test_Create_OverlapRejected(t *testing.T) {
	sd := newSeed(t)
	ctx := context.Background()

	ref := bookingbus.VehicleRef(sd.vehicle)

	first := newBooking(ref, sd.orgA, mustTime(t, "2025-06-10T10:00:00Z"), mustTime(t, "2025-06-10T12:00:00Z"))
	if _, err := sd.bookingBus.Create(ctx, first, &sd.memberA); err != nil {
		t.Fatalf("creating first booking: %s", err)
	}

	second := newBooking(ref, sd.orgA, mustTime(t, "2025-06-10T11:00:00Z"), mustTime(t, "2025-06-10T13:00:00Z"))
	if _, err := sd.bookingBus.Create(ctx, second, &sd.memberA); !errors.Is(err, bookingbus.ErrOverlap) {
		t.Errorf("err = %v, want ErrOverlap", err)
	}
}

func Test_Create_MaintenanceBlackout(t *testing.T) {
	sd := newSeed(t)
	ctx := context.Background()

	ref := bookingbus.VehicleRef(sd.maintWindow)

	// Tuesday falls inside the Mon 00:00 - Wed 00:00 window.
	inside := newBooking(ref, sd.orgA, mustTime(t, "2025-06-10T09:00:00Z"), mustTime(t, "2025-06-10T10:00:00Z"))
	if _, err := sd.bookingBus.Create(ctx, inside, &sd.memberA); !errors.Is(err, bookingbus.ErrResourceUnavailable) {
		t.Errorf("err = %v, want ErrResourceUnavailable", err)
	}

	// Wednesday 01:00 is past the window.
	outside := newBooking(ref, sd.orgA, mustTime(t, "2025-06-11T01:00:00Z"), mustTime(t, "2025-06-11T02:00:00Z"))
	if _, err := sd.bookingBus.Create(ctx, outside, &sd.memberA); err != nil {
		t.Errorf("creating booking after blackout: %s", err)
	}

	// No window means unavailable for every range.
	always := newBooking(bookingbus.VehicleRef(sd.maintAll), sd.orgA, mustTime(t, "2025-12-01T09:00:00Z"), mustTime(t, "2025-12-01T10:00:00Z"))
	if _, err := sd.bookingBus.Create(ctx, always, &sd.memberA); !errors.Is(err, bookingbus.ErrResourceUnavailable) {
		t.Errorf("err = %v, want ErrResourceUnavailable", err)
	}
}

func Test_Create_ExtraVehicleDayScoped(t *testing.T) {
	sd := newSeed(t)
	ctx := context.Background()

	ref := bookingbus.ExtraRef(sd.extraA)

	// Wrong day.
	wrongDay := newBooking(ref, sd.orgA, mustTime(t, "2025-06-11T10:00:00Z"), mustTime(t, "2025-06-11T11:00:00Z"))
	if _, err := sd.bookingBus.Create(ctx, wrongDay, &sd.memberA); !errors.Is(err, bookingbus.ErrWrongDay) {
		t.Errorf("err = %v, want ErrWrongDay", err)
	}

	// Wrong organization.
	wrongOrg := newBooking(ref, sd.orgB, mustTime(t, "2025-06-10T10:00:00Z"), mustTime(t, "2025-06-10T11:00:00Z"))
	if _, err := sd.bookingBus.Create(ctx, wrongOrg, &sd.memberB); !errors.Is(err, bookingbus.ErrWrongOrg) {
		t.Errorf("err = %v, want ErrWrongOrg", err)
	}

	// Matching day and organization.
	ok := newBooking(ref, sd.orgA, mustTime(t, "2025-06-10T10:00:00Z"), mustTime(t, "2025-06-10T11:00:00Z"))
	if _, err := sd.bookingBus.Create(ctx, ok, &sd.memberA); err != nil {
		t.Errorf("creating extra vehicle booking: %s", err)
	}
}

func Test_Create_RoomNamespace(t *testing.T) {
	sd := newSeed(t)
	ctx := context.Background()

	ref := bookingbus.RoomRef(sd.roomA)

	// orgB shares the namespace with the room-owning orgA; the booking is
	// attributed to orgA with orgB recorded as the source.
	nb := newBooking(ref, sd.orgB, mustTime(t, "2025-06-10T10:00:00Z"), mustTime(t, "2025-06-10T11:00:00Z"))
	bkg, err := sd.bookingBus.Create(ctx, nb, &sd.memberB)
	if err != nil {
		t.Fatalf("creating namespace booking: %s", err)
	}

	if bkg.OrgID != sd.orgA {
		t.Errorf("booking org = %s, want room owner %s", bkg.OrgID, sd.orgA)
	}
	if !bkg.SourceOrgID.Valid || bkg.SourceOrgID.UUID != sd.orgB {
		t.Errorf("source org = %v, want %s", bkg.SourceOrgID, sd.orgB)
	}

	// orgC is outside the namespace.
	outside := newBooking(ref, sd.orgC, mustTime(t, "2025-06-10T14:00:00Z"), mustTime(t, "2025-06-10T15:00:00Z"))
	outsider := bookingbus.Identity{UserID: uuid.New(), OrgID: sd.orgC, Role: role.Member}
	if _, err := sd.bookingBus.Create(ctx, outside, &outsider); !errors.Is(err, bookingbus.ErrWrongOrg) {
		t.Errorf("err = %v, want ErrWrongOrg", err)
	}

	// Differently-attributed organizations still contend for the same room.
	contended := newBooking(ref, sd.orgA, mustTime(t, "2025-06-10T10:30:00Z"), mustTime(t, "2025-06-10T11:30:00Z"))
	if _, err := sd.bookingBus.Create(ctx, contended, &sd.memberA); !errors.Is(err, bookingbus.ErrOverlap) {
		t.Errorf("err = %v, want ErrOverlap", err)
	}
}

func Test_Create_IdentityOrgMismatch(t *testing.T) {
	sd := newSeed(t)
	ctx := context.Background()

	nb := newBooking(bookingbus.VehicleRef(sd.vehicle), sd.orgA, mustTime(t, "2025-06-10T10:00:00Z"), mustTime(t, "2025-06-10T11:00:00Z"))

	if _, err := sd.bookingBus.Create(ctx, nb, &sd.memberB); !errors.Is(err, bookingbus.ErrForbidden) {
		t.Errorf("err = %v, want ErrForbidden", err)
	}
}

func Test_Cancel_Authorization(t *testing.T) {
	sd := newSeed(t)
	ctx := context.Background()

	create := func(t *testing.T, hour int, idn *bookingbus.Identity) bookingbus.Booking {
		t.Helper()

		start := time.Date(2025, 6, 10, hour, 0, 0, 0, time.UTC)
		nb := newBooking(bookingbus.VehicleRef(sd.vehicle), sd.orgA, start, start.Add(time.Hour))

		bkg, err := sd.bookingBus.Create(ctx, nb, idn)
		if err != nil {
			t.Fatalf("creating booking: %s", err)
		}
		return bkg
	}

	t.Run("owner cancels own booking", func(t *testing.T) {
		bkg := create(t, 8, &sd.memberA)
		if _, err := sd.bookingBus.Cancel(ctx, bkg.ID, &sd.memberA); err != nil {
			t.Errorf("cancel: %s", err)
		}
	})

	t.Run("other member is refused", func(t *testing.T) {
		bkg := create(t, 9, &sd.memberA)
		if _, err := sd.bookingBus.Cancel(ctx, bkg.ID, &sd.memberA2); !errors.Is(err, bookingbus.ErrForbidden) {
			t.Errorf("err = %v, want ErrForbidden", err)
		}
	})

	t.Run("admin cancels any booking", func(t *testing.T) {
		bkg := create(t, 10, &sd.memberA)
		if _, err := sd.bookingBus.Cancel(ctx, bkg.ID, &sd.adminA); err != nil {
			t.Errorf("cancel: %s", err)
		}
	})

	t.Run("ownerless booking is admin only", func(t *testing.T) {
		bkg := create(t, 11, nil)

		if _, err := sd.bookingBus.Cancel(ctx, bkg.ID, &sd.memberA); !errors.Is(err, bookingbus.ErrForbidden) {
			t.Errorf("err = %v, want ErrForbidden", err)
		}

		if _, err := sd.bookingBus.Cancel(ctx, bkg.ID, &sd.adminA); err != nil {
			t.Errorf("cancel: %s", err)
		}
	})

	t.Run("anonymous caller may cancel", func(t *testing.T) {
		bkg := create(t, 12, &sd.memberA)
		if _, err := sd.bookingBus.Cancel(ctx, bkg.ID, nil); err != nil {
			t.Errorf("cancel: %s", err)
		}
	})

	t.Run("missing booking", func(t *testing.T) {
		if _, err := sd.bookingBus.Cancel(ctx, uuid.New(), &sd.adminA); !errors.Is(err, bookingbus.ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})
}

func Test_QueryByOrg_DayFilter(t *testing.T) {
	sd := newSeed(t)
	ctx := context.Background()

	nb := newBooking(bookingbus.VehicleRef(sd.vehicle), sd.orgA, mustTime(t, "2025-06-10T10:00:00Z"), mustTime(t, "2025-06-10T11:00:00Z"))
	bkg, err := sd.bookingBus.Create(ctx, nb, &sd.memberA)
	if err != nil {
		t.Fatalf("creating booking: %s", err)
	}

	pg := page.MustParse("1", "10")

	day := mustTime(t, "2025-06-10T00:00:00Z")
	got, err := sd.bookingBus.QueryByOrg(ctx, sd.orgA, &day, bookingbus.DefaultOrderBy, pg)
	if err != nil {
		t.Fatalf("querying bookings: %s", err)
	}
	if len(got) != 1 || got[0].ID != bkg.ID {
		t.Errorf("bookings = %v, want the created booking", got)
	}

	adjacent := mustTime(t, "2025-06-11T00:00:00Z")
	got, err = sd.bookingBus.QueryByOrg(ctx, sd.orgA, &adjacent, bookingbus.DefaultOrderBy, pg)
	if err != nil {
		t.Fatalf("querying bookings: %s", err)
	}
	if len(got) != 0 {
		t.Errorf("bookings for adjacent day = %v, want none", got)
	}
}

func Test_Create_ConcurrentSameWindow(t *testing.T) {
	sd := newSeed(t)
	ctx := context.Background()

	const goroutines = 16

	start := mustTime(t, "2025-06-10T10:00:00Z")
	end := mustTime(t, "2025-06-10T11:00:00Z")
	ref := bookingbus.VehicleRef(sd.vehicle)

	var wg sync.WaitGroup
	errs := make([]error, goroutines)

	for i := range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()

			nb := newBooking(ref, sd.orgA, start, end)
			_, errs[i] = sd.bookingBus.Create(ctx, nb, &sd.memberA)
		}()
	}
	wg.Wait()

	var created, conflicted int
	for _, err := range errs {
		switch {
		case err == nil:
			created++
		case errors.Is(err, bookingbus.ErrOverlap):
			conflicted++
		default:
			t.Errorf("unexpected error: %s", err)
		}
	}

	if created != 1 {
		t.Errorf("created = %d, want exactly 1", created)
	}
	if conflicted != goroutines-1 {
		t.Errorf("conflicted = %d, want %d", conflicted, goroutines-1)
	}

	rows, err := sd.bookingBus.QueryOverlapping(ctx, ref, start, end)
	if err != nil {
		t.Fatalf("querying overlapping: %s", err)
	}
	if len(rows) != 1 {
		t.Errorf("stored rows = %d, want exactly 1", len(rows))
	}
}
