// Package orgbus provides business access to the member organizations and
// their members. Organizations are the tenant boundary of the system: they
// own members, rooms, extra vehicles and bookings.
package orgbus

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jcpaschoal/coopfrota/business/sdk/sqldb"
	"github.com/jcpaschoal/coopfrota/business/types/accesscode"
	"github.com/jcpaschoal/coopfrota/foundation/logger"
	"github.com/jcpaschoal/coopfrota/foundation/otel"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrNotFound              = errors.New("organization not found")
	ErrMemberNotFound        = errors.New("member not found")
	ErrAuthenticationFailure = errors.New("authentication failed")
	ErrUniqueName            = errors.New("name is not unique")
)

// Storer defines the behavior required by the orgbus to interact with the
// database.
type Storer interface {
	NewWithTx(tx sqldb.CommitRollbacker) (Storer, error)
	Create(ctx context.Context, org Org) error
	Update(ctx context.Context, org Org) error
	QueryByID(ctx context.Context, orgID uuid.UUID) (Org, error)
	QueryByCodeFingerprint(ctx context.Context, fingerprint string) (Org, error)
	CreateMember(ctx context.Context, mbr Member) error
	QueryMemberByID(ctx context.Context, memberID uuid.UUID) (Member, error)
	QueryMembers(ctx context.Context, orgID uuid.UUID) ([]Member, error)
}

// Core manages the set of APIs for organization access.
type Core struct {
	storer Storer
	log    *logger.Logger
}

// NewCore constructs a core for organization api access.
func NewCore(log *logger.Logger, storer Storer) *Core {
	return &Core{
		storer: storer,
		log:    log,
	}
}

// NewWithTx constructs a new Core value replacing the Storer
// value with a Storer value that is currently inside a transaction.
func (c *Core) NewWithTx(tx sqldb.CommitRollbacker) (*Core, error) {
	storer, err := c.storer.NewWithTx(tx)
	if err != nil {
		return nil, fmt.Errorf("newWithTx: %w", err)
	}

	return NewCore(c.log, storer), nil
}

// Create adds a new organization to the system.
func (c *Core) Create(ctx context.Context, no NewOrg) (Org, error) {
	ctx, span := otel.AddSpan(ctx, "business.orgbus.create")
	defer span.End()

	hash, err := bcrypt.GenerateFromPassword([]byte(no.AccessCode.Plain()), bcrypt.DefaultCost)
	if err != nil {
		return Org{}, fmt.Errorf("generateFromPassword: %w", err)
	}

	now := time.Now()

	org := Org{
		ID:              uuid.New(),
		Name:            no.Name,
		CodeHash:        hash,
		CodeFingerprint: no.AccessCode.Fingerprint(),
		Sections:        no.Sections,
		MeetingNS:       no.MeetingNS,
		Enabled:         true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := c.storer.Create(ctx, org); err != nil {
		return Org{}, fmt.Errorf("create: %w", err)
	}

	return org, nil
}

// Update modifies the mutable fields of an organization: the enabled feature
// sections and the meeting namespace.
func (c *Core) Update(ctx context.Context, org Org, uo UpdateOrg) (Org, error) {
	ctx, span := otel.AddSpan(ctx, "business.orgbus.update")
	defer span.End()

	if uo.Sections != nil {
		org.Sections = *uo.Sections
	}

	if uo.MeetingNS != nil {
		org.MeetingNS = *uo.MeetingNS
	}

	if uo.Enabled != nil {
		org.Enabled = *uo.Enabled
	}

	org.UpdatedAt = time.Now()

	if err := c.storer.Update(ctx, org); err != nil {
		return Org{}, fmt.Errorf("update: %w", err)
	}

	return org, nil
}

// QueryByID finds the organization by the specified ID.
func (c *Core) QueryByID(ctx context.Context, orgID uuid.UUID) (Org, error) {
	ctx, span := otel.AddSpan(ctx, "business.orgbus.queryByID")
	defer span.End()

	org, err := c.storer.QueryByID(ctx, orgID)
	if err != nil {
		return Org{}, fmt.Errorf("query: orgID[%s]: %w", orgID, err)
	}

	return org, nil
}

// Authenticate resolves an access code to its organization and verifies the
// code against the stored hash. The fingerprint narrows the lookup, the
// bcrypt comparison is the authority.
func (c *Core) Authenticate(ctx context.Context, code accesscode.Code) (Org, error) {
	ctx, span := otel.AddSpan(ctx, "business.orgbus.authenticate")
	defer span.End()

	org, err := c.storer.QueryByCodeFingerprint(ctx, code.Fingerprint())
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Org{}, ErrAuthenticationFailure
		}
		return Org{}, fmt.Errorf("query by fingerprint: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(org.CodeHash, []byte(code.Plain())); err != nil {
		return Org{}, fmt.Errorf("compareHashAndPassword: %w", ErrAuthenticationFailure)
	}

	if !org.Enabled {
		return Org{}, ErrAuthenticationFailure
	}

	return org, nil
}

// CreateMember adds a new member to an organization.
func (c *Core) CreateMember(ctx context.Context, nm NewMember) (Member, error) {
	ctx, span := otel.AddSpan(ctx, "business.orgbus.createMember")
	defer span.End()

	if _, err := c.storer.QueryByID(ctx, nm.OrgID); err != nil {
		return Member{}, fmt.Errorf("query: orgID[%s]: %w", nm.OrgID, err)
	}

	now := time.Now()

	mbr := Member{
		ID:        uuid.New(),
		OrgID:     nm.OrgID,
		Name:      nm.Name,
		Role:      nm.Role,
		Enabled:   true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := c.storer.CreateMember(ctx, mbr); err != nil {
		return Member{}, fmt.Errorf("createMember: %w", err)
	}

	return mbr, nil
}

// QueryMemberByID finds the member by the specified ID.
func (c *Core) QueryMemberByID(ctx context.Context, memberID uuid.UUID) (Member, error) {
	ctx, span := otel.AddSpan(ctx, "business.orgbus.queryMemberByID")
	defer span.End()

	mbr, err := c.storer.QueryMemberByID(ctx, memberID)
	if err != nil {
		return Member{}, fmt.Errorf("query: memberID[%s]: %w", memberID, err)
	}

	return mbr, nil
}

// QueryMembers retrieves the members of an organization.
func (c *Core) QueryMembers(ctx context.Context, orgID uuid.UUID) ([]Member, error) {
	ctx, span := otel.AddSpan(ctx, "business.orgbus.queryMembers")
	defer span.End()

	mbrs, err := c.storer.QueryMembers(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	return mbrs, nil
}

// SharesNamespace reports whether two organizations belong to the same
// meeting namespace. An organization always shares with itself; otherwise
// both must carry the same non-null namespace id.
func (c *Core) SharesNamespace(ctx context.Context, orgA uuid.UUID, orgB uuid.UUID) (bool, error) {
	ctx, span := otel.AddSpan(ctx, "business.orgbus.sharesNamespace")
	defer span.End()

	if orgA == orgB {
		return true, nil
	}

	a, err := c.storer.QueryByID(ctx, orgA)
	if err != nil {
		return false, fmt.Errorf("query: orgID[%s]: %w", orgA, err)
	}

	b, err := c.storer.QueryByID(ctx, orgB)
	if err != nil {
		return false, fmt.Errorf("query: orgID[%s]: %w", orgB, err)
	}

	if !a.MeetingNS.Valid || !b.MeetingNS.Valid {
		return false, nil
	}

	return a.MeetingNS.UUID == b.MeetingNS.UUID, nil
}
