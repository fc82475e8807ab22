package catalogapp

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func Test_NewExtraVehicle_CallerOrgScope(t *testing.T) {
	callerOrg := uuid.New()

	// O corpo da requisição não carrega organização; o veículo extra
	// pertence sempre à organização do chamador.
	req := NewExtraVehicle{
		Label: "Van Extra Feira",
		Day:   "2025-06-10",
	}

	nev, err := toBusNewExtraVehicle(req, callerOrg)
	if err != nil {
		t.Fatalf("Should be able to convert the request: %s", err)
	}

	if nev.OrgID != callerOrg {
		t.Errorf("Should scope the extra vehicle to the caller's org: got %s, want %s", nev.OrgID, callerOrg)
	}

	wantDay := time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)
	if !nev.Day.Equal(wantDay) {
		t.Errorf("Should parse the day as a UTC date: got %v, want %v", nev.Day, wantDay)
	}
}
