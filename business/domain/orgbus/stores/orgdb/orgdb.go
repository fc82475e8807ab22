// Package orgdb contains organization related CRUD functionality.
package orgdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jcpaschoal/coopfrota/business/domain/orgbus"
	"github.com/jcpaschoal/coopfrota/business/sdk/sqldb"
	"github.com/jcpaschoal/coopfrota/foundation/logger"
	"github.com/jmoiron/sqlx"
)

// Store manages the set of APIs for organization database access.
type Store struct {
	log *logger.Logger
	db  sqlx.ExtContext
}

// NewStore constructs the api for data access.
func NewStore(log *logger.Logger, db *sqlx.DB) *Store {
	return &Store{
		log: log,
		db:  db,
	}
}

// NewWithTx constructs a new Store value replacing the sqlx DB
// value with a sqlx DB value that is currently inside a transaction.
func (s *Store) NewWithTx(tx sqldb.CommitRollbacker) (orgbus.Storer, error) {
	ec, err := sqldb.GetExtContext(tx)
	if err != nil {
		return nil, err
	}

	store := Store{
		log: s.log,
		db:  ec,
	}

	return &store, nil
}

// Create inserts a new organization into the database.
func (s *Store) Create(ctx context.Context, org orgbus.Org) error {
	const q = `
	INSERT INTO "public"."organization"
		(org_id, name, code_hash, code_fp, sections, meeting_ns, enabled, created_at, updated_at)
	VALUES
		(:org_id, :name, :code_hash, :code_fp, :sections, :meeting_ns, :enabled, :created_at, :updated_at)`

	if err := sqldb.NamedExecContext(ctx, s.log, s.db, q, toDBOrg(org)); err != nil {
		var dupErr sqldb.ErrDBDuplicatedEntry
		if errors.As(err, &dupErr) {
			if dupErr.Column == "name" || dupErr.Column == "uq_organization_name" {
				return fmt.Errorf("namedexeccontext: %w", orgbus.ErrUniqueName)
			}
		}
		return fmt.Errorf("namedexeccontext: %w", err)
	}

	return nil
}

// Update replaces an organization document in the database.
func (s *Store) Update(ctx context.Context, org orgbus.Org) error {
	const q = `
	UPDATE
		"public"."organization"
	SET
		sections = :sections,
		meeting_ns = :meeting_ns,
		enabled = :enabled,
		updated_at = :updated_at
	WHERE
		org_id = :org_id`

	if err := sqldb.NamedExecContext(ctx, s.log, s.db, q, toDBOrg(org)); err != nil {
		return fmt.Errorf("namedexeccontext: %w", err)
	}

	return nil
}

// QueryByID gets the specified organization from the database.
func (s *Store) QueryByID(ctx context.Context, orgID uuid.UUID) (orgbus.Org, error) {
	data := struct {
		ID string `db:"org_id"`
	}{
		ID: orgID.String(),
	}

	const q = `
	SELECT
		org_id, name, code_hash, code_fp, sections, meeting_ns, enabled, created_at, updated_at
	FROM
		"public"."organization"
	WHERE
		org_id = :org_id`

	var dbOrg orgDB
	if err := sqldb.NamedQueryStruct(ctx, s.log, s.db, q, data, &dbOrg); err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			return orgbus.Org{}, fmt.Errorf("db: %w", orgbus.ErrNotFound)
		}
		return orgbus.Org{}, fmt.Errorf("db: %w", err)
	}

	return toBusOrg(dbOrg)
}

// QueryByCodeFingerprint gets the organization matching an access code
// fingerprint from the database.
func (s *Store) QueryByCodeFingerprint(ctx context.Context, fingerprint string) (orgbus.Org, error) {
	data := struct {
		Fingerprint string `db:"code_fp"`
	}{
		Fingerprint: fingerprint,
	}

	const q = `
	SELECT
		org_id, name, code_hash, code_fp, sections, meeting_ns, enabled, created_at, updated_at
	FROM
		"public"."organization"
	WHERE
		code_fp = :code_fp`

	var dbOrg orgDB
	if err := sqldb.NamedQueryStruct(ctx, s.log, s.db, q, data, &dbOrg); err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			return orgbus.Org{}, fmt.Errorf("db: %w", orgbus.ErrNotFound)
		}
		return orgbus.Org{}, fmt.Errorf("db: %w", err)
	}

	return toBusOrg(dbOrg)
}

// CreateMember inserts a new member into the database.
func (s *Store) CreateMember(ctx context.Context, mbr orgbus.Member) error {
	const q = `
	INSERT INTO "public"."member"
		(member_id, org_id, name, role, enabled, created_at, updated_at)
	VALUES
		(:member_id, :org_id, :name, :role, :enabled, :created_at, :updated_at)`

	if err := sqldb.NamedExecContext(ctx, s.log, s.db, q, toDBMember(mbr)); err != nil {
		return fmt.Errorf("namedexeccontext: %w", err)
	}

	return nil
}

// QueryMemberByID gets the specified member from the database.
func (s *Store) QueryMemberByID(ctx context.Context, memberID uuid.UUID) (orgbus.Member, error) {
	data := struct {
		ID string `db:"member_id"`
	}{
		ID: memberID.String(),
	}

	const q = `
	SELECT
		member_id, org_id, name, role, enabled, created_at, updated_at
	FROM
		"public"."member"
	WHERE
		member_id = :member_id`

	var dbMbr memberDB
	if err := sqldb.NamedQueryStruct(ctx, s.log, s.db, q, data, &dbMbr); err != nil {
		if errors.Is(err, sqldb.ErrDBNotFound) {
			return orgbus.Member{}, fmt.Errorf("db: %w", orgbus.ErrMemberNotFound)
		}
		return orgbus.Member{}, fmt.Errorf("db: %w", err)
	}

	return toBusMember(dbMbr)
}

// QueryMembers retrieves the members of an organization ordered by name.
func (s *Store) QueryMembers(ctx context.Context, orgID uuid.UUID) ([]orgbus.Member, error) {
	data := struct {
		OrgID string `db:"org_id"`
	}{
		OrgID: orgID.String(),
	}

	const q = `
	SELECT
		member_id, org_id, name, role, enabled, created_at, updated_at
	FROM
		"public"."member"
	WHERE
		org_id = :org_id
	ORDER BY
		name`

	var dbMbrs []memberDB
	if err := sqldb.NamedQuerySlice(ctx, s.log, s.db, q, data, &dbMbrs); err != nil {
		return nil, fmt.Errorf("namedqueryslice: %w", err)
	}

	return toBusMembers(dbMbrs)
}
