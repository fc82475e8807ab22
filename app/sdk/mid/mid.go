// Package mid provides app level middleware support.
package mid

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jcpaschoal/coopfrota/app/sdk/auth"
	"github.com/jcpaschoal/coopfrota/business/domain/bookingbus"
	"github.com/jcpaschoal/coopfrota/business/sdk/sqldb"
	"github.com/jcpaschoal/coopfrota/business/sdk/web"
	"github.com/jcpaschoal/coopfrota/business/types/role"
)

func checkIsError(e web.Encoder) error {
	err, hasError := e.(error)
	if hasError {
		return err
	}

	return nil
}

// =============================================================================

type ctxKey int

const (
	claimKey ctxKey = iota + 1
	memberIDKey
	orgIDKey
	trKey
)

func setOrgID(ctx context.Context, orgID uuid.UUID) context.Context {
	return context.WithValue(ctx, orgIDKey, orgID)
}

// GetOrgID returns the organization id bound to the request.
func GetOrgID(ctx context.Context) (uuid.UUID, error) {
	v, ok := ctx.Value(orgIDKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, errors.New("org id not found in context")
	}
	return v, nil
}

func setClaims(ctx context.Context, claims auth.Claims) context.Context {
	return context.WithValue(ctx, claimKey, claims)
}

// GetClaims returns the claims from the context.
func GetClaims(ctx context.Context) auth.Claims {
	v, ok := ctx.Value(claimKey).(auth.Claims)
	if !ok {
		return auth.Claims{}
	}
	return v
}

func setMemberID(ctx context.Context, memberID uuid.UUID) context.Context {
	return context.WithValue(ctx, memberIDKey, memberID)
}

// GetMemberID returns the member id from the context.
func GetMemberID(ctx context.Context) (uuid.UUID, error) {
	v, ok := ctx.Value(memberIDKey).(uuid.UUID)
	if !ok {
		return uuid.UUID{}, errors.New("member id not found in context")
	}

	return v, nil
}

// GetIdentity assembles the verified caller identity for the booking layer.
// Requests that never passed authentication yield nil, the legacy anonymous
// path.
func GetIdentity(ctx context.Context) *bookingbus.Identity {
	memberID, err := GetMemberID(ctx)
	if err != nil {
		return nil
	}

	orgID, err := GetOrgID(ctx)
	if err != nil {
		return nil
	}

	r, err := role.Parse(GetClaims(ctx).Role)
	if err != nil {
		return nil
	}

	return &bookingbus.Identity{
		UserID: memberID,
		OrgID:  orgID,
		Role:   r,
	}
}

func setTran(ctx context.Context, tx sqldb.CommitRollbacker) context.Context {
	return context.WithValue(ctx, trKey, tx)
}

// GetTran retrieves the value that can manage a transaction.
func GetTran(ctx context.Context) (sqldb.CommitRollbacker, error) {
	v, ok := ctx.Value(trKey).(sqldb.CommitRollbacker)
	if !ok {
		return nil, errors.New("transaction not found in context")
	}

	return v, nil
}
