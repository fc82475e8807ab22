package bookingapp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jcpaschoal/coopfrota/app/sdk/errs"
	"github.com/jcpaschoal/coopfrota/business/domain/availbus"
	"github.com/jcpaschoal/coopfrota/business/domain/bookingbus"
	"github.com/jcpaschoal/coopfrota/business/types/name"
)

// =============================================================================
// Booking (Output)
// =============================================================================

// Booking represents a reservation of one resource.
type Booking struct {
	ID          string `json:"id"`
	OrgID       string `json:"orgId"`
	SourceOrgID string `json:"sourceOrgId,omitempty"`
	Resource    string `json:"resource"`
	ResourceID  string `json:"resourceId"`
	MemberID    string `json:"memberId,omitempty"`
	Requester   string `json:"requester"`
	Note        string `json:"note,omitempty"`
	Start       string `json:"start"`
	End         string `json:"end"`
	CreatedAt   string `json:"createdAt"`
}

// Encode implements the web.Encoder interface.
func (b Booking) Encode() ([]byte, string, error) {
	data, err := json.Marshal(b)
	return data, "application/json", err
}

func toAppBooking(bus bookingbus.Booking) Booking {
	b := Booking{
		ID:         bus.ID.String(),
		OrgID:      bus.OrgID.String(),
		Resource:   bus.Ref.Class().String(),
		ResourceID: bus.Ref.ID().String(),
		Requester:  bus.Requester.String(),
		Note:       bus.Note,
		Start:      bus.Start.Format(time.RFC3339),
		End:        bus.End.Format(time.RFC3339),
		CreatedAt:  bus.CreatedAt.Format(time.RFC3339),
	}

	if bus.SourceOrgID.Valid {
		b.SourceOrgID = bus.SourceOrgID.UUID.String()
	}
	if bus.UserID.Valid {
		b.MemberID = bus.UserID.UUID.String()
	}

	return b
}

func toAppBookings(bus []bookingbus.Booking) []Booking {
	app := make([]Booking, len(bus))
	for i, bkg := range bus {
		app[i] = toAppBooking(bkg)
	}
	return app
}

// =============================================================================
// NewBooking (Input)
// =============================================================================

// NewBooking defines the data needed to create a booking. Exactly one of
// VehicleID, ExtraID and RoomID must be provided.
type NewBooking struct {
	VehicleID string `json:"vehicleId" validate:"omitempty,uuid"`
	ExtraID   string `json:"extraId" validate:"omitempty,uuid"`
	RoomID    string `json:"roomId" validate:"omitempty,uuid"`
	Requester string `json:"requester" validate:"required"`
	Note      string `json:"note"`
	Start     string `json:"start" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	End       string `json:"end" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
}

// Decode implements the web.Decoder interface.
func (app *NewBooking) Decode(data []byte) error {
	return json.Unmarshal(data, app)
}

// Validate checks the data in the model is considered clean.
func (app NewBooking) Validate() error {
	if err := errs.Check(app); err != nil {
		return errs.New(errs.InvalidArgument, fmt.Errorf("validate: %w", err))
	}
	return nil
}

func toBusNewBooking(app NewBooking, orgID uuid.UUID) (bookingbus.NewBooking, error) {
	ref, err := toBusRef(app)
	if err != nil {
		return bookingbus.NewBooking{}, err
	}

	requester, err := name.Parse(app.Requester)
	if err != nil {
		return bookingbus.NewBooking{}, fmt.Errorf("parse requester: %w", err)
	}

	start, err := time.Parse(time.RFC3339, app.Start)
	if err != nil {
		return bookingbus.NewBooking{}, fmt.Errorf("parse start: %w", err)
	}

	end, err := time.Parse(time.RFC3339, app.End)
	if err != nil {
		return bookingbus.NewBooking{}, fmt.Errorf("parse end: %w", err)
	}

	return bookingbus.NewBooking{
		OrgID:     orgID,
		Ref:       ref,
		Requester: requester,
		Note:      app.Note,
		Start:     start,
		End:       end,
	}, nil
}

func toBusRef(app NewBooking) (bookingbus.ResourceRef, error) {
	var refs []bookingbus.ResourceRef

	if app.VehicleID != "" {
		id, err := uuid.Parse(app.VehicleID)
		if err != nil {
			return bookingbus.ResourceRef{}, fmt.Errorf("parse vehicle id: %w", err)
		}
		refs = append(refs, bookingbus.VehicleRef(id))
	}

	if app.ExtraID != "" {
		id, err := uuid.Parse(app.ExtraID)
		if err != nil {
			return bookingbus.ResourceRef{}, fmt.Errorf("parse extra id: %w", err)
		}
		refs = append(refs, bookingbus.ExtraRef(id))
	}

	if app.RoomID != "" {
		id, err := uuid.Parse(app.RoomID)
		if err != nil {
			return bookingbus.ResourceRef{}, fmt.Errorf("parse room id: %w", err)
		}
		refs = append(refs, bookingbus.RoomRef(id))
	}

	if len(refs) != 1 {
		return bookingbus.ResourceRef{}, bookingbus.ErrInvalidRef
	}

	return refs[0], nil
}

var orderByFields = map[string]string{
	"start":   bookingbus.OrderByStart,
	"created": bookingbus.OrderByCreated,
}

// =============================================================================
// Verdict (Output)
// =============================================================================

// Verdict is the availability answer for one resource.
type Verdict struct {
	Resource   string `json:"resource"`
	ResourceID string `json:"resourceId"`
	Label      string `json:"label"`
	Available  bool   `json:"available"`
}

func toAppVerdict(bus availbus.Verdict) Verdict {
	return Verdict{
		Resource:   bus.Ref.Class().String(),
		ResourceID: bus.Ref.ID().String(),
		Label:      bus.Label.String(),
		Available:  bus.Available,
	}
}

// Verdicts is the collection form with its own encoding.
type Verdicts []Verdict

// Encode implements the web.Encoder interface.
func (vds Verdicts) Encode() ([]byte, string, error) {
	data, err := json.Marshal(vds)
	return data, "application/json", err
}

func toAppVerdicts(bus []availbus.Verdict) Verdicts {
	app := make(Verdicts, len(bus))
	for i, vd := range bus {
		app[i] = toAppVerdict(vd)
	}
	return app
}
