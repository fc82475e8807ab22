package orgbus_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/jcpaschoal/coopfrota/business/domain/orgbus"
	"github.com/jcpaschoal/coopfrota/business/sdk/unitest"
	"github.com/jcpaschoal/coopfrota/business/types/accesscode"
	"github.com/jcpaschoal/coopfrota/business/types/name"
	"github.com/jcpaschoal/coopfrota/business/types/role"
	"github.com/jcpaschoal/coopfrota/business/types/section"
	"github.com/jcpaschoal/coopfrota/foundation/logger"
)

func newCore(t *testing.T) *orgbus.Core {
	t.Helper()

	log := logger.New(io.Discard, logger.LevelInfo, "TEST", nil)
	return orgbus.NewCore(log, unitest.NewOrgStore())
}

func Test_Authenticate(t *testing.T) {
	orgBus := newCore(t)
	ctx := context.Background()

	code := accesscode.MustParse("frota-norte-2025")

	no := orgbus.NewOrg{
		Name:       name.MustParse("Coop Norte"),
		AccessCode: code,
		Sections:   section.NewSet(section.Vehicles, section.Rooms),
	}

	org, err := orgBus.Create(ctx, no)
	if err != nil {
		t.Fatalf("creating org: %s", err)
	}

	got, err := orgBus.Authenticate(ctx, code)
	if err != nil {
		t.Fatalf("authenticating: %s", err)
	}
	if got.ID != org.ID {
		t.Errorf("org = %s, want %s", got.ID, org.ID)
	}

	if _, err := orgBus.Authenticate(ctx, accesscode.MustParse("frota-errada")); !errors.Is(err, orgbus.ErrAuthenticationFailure) {
		t.Errorf("err = %v, want ErrAuthenticationFailure", err)
	}

	// A disabled organization cannot authenticate.
	disabled := false
	if _, err := orgBus.Update(ctx, org, orgbus.UpdateOrg{Enabled: &disabled}); err != nil {
		t.Fatalf("disabling org: %s", err)
	}
	if _, err := orgBus.Authenticate(ctx, code); !errors.Is(err, orgbus.ErrAuthenticationFailure) {
		t.Errorf("err = %v, want ErrAuthenticationFailure", err)
	}
}

func Test_SharesNamespace(t *testing.T) {
	orgBus := newCore(t)
	ctx := context.Background()

	ns := uuid.NullUUID{UUID: uuid.New(), Valid: true}

	create := func(t *testing.T, orgName string, meetingNS uuid.NullUUID) orgbus.Org {
		t.Helper()

		org, err := orgBus.Create(ctx, orgbus.NewOrg{
			Name:       name.MustParse(orgName),
			AccessCode: accesscode.MustParse("codigo-" + orgName),
			MeetingNS:  meetingNS,
		})
		if err != nil {
			t.Fatalf("creating org: %s", err)
		}
		return org
	}

	orgA := create(t, "Coop Norte", ns)
	orgB := create(t, "Coop Sul", ns)
	orgC := create(t, "Coop Leste", uuid.NullUUID{})
	orgD := create(t, "Coop Oeste", uuid.NullUUID{})

	tests := []struct {
		name string
		a, b uuid.UUID
		want bool
	}{
		{"same org", orgA.ID, orgA.ID, true},
		{"shared namespace", orgA.ID, orgB.ID, true},
		{"one side without namespace", orgA.ID, orgC.ID, false},
		{"both without namespace", orgC.ID, orgD.ID, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := orgBus.SharesNamespace(ctx, tt.a, tt.b)
			if err != nil {
				t.Fatalf("sharesNamespace: %s", err)
			}
			if got != tt.want {
				t.Errorf("sharesNamespace = %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_CreateMember(t *testing.T) {
	orgBus := newCore(t)
	ctx := context.Background()

	org, err := orgBus.Create(ctx, orgbus.NewOrg{
		Name:       name.MustParse("Coop Norte"),
		AccessCode: accesscode.MustParse("frota-norte-2025"),
	})
	if err != nil {
		t.Fatalf("creating org: %s", err)
	}

	mbr, err := orgBus.CreateMember(ctx, orgbus.NewMember{
		OrgID: org.ID,
		Name:  name.MustParse("Ana"),
		Role:  role.Admin,
	})
	if err != nil {
		t.Fatalf("creating member: %s", err)
	}

	got, err := orgBus.QueryMemberByID(ctx, mbr.ID)
	if err != nil {
		t.Fatalf("querying member: %s", err)
	}
	if got.OrgID != org.ID || !got.Role.Equal(role.Admin) {
		t.Errorf("member = %+v, want org %s role ADMIN", got, org.ID)
	}

	// Members require an existing organization.
	if _, err := orgBus.CreateMember(ctx, orgbus.NewMember{OrgID: uuid.New(), Name: name.MustParse("Bia"), Role: role.Member}); !errors.Is(err, orgbus.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
