// Package authapp maintains the app layer api for the auth domain.
package authapp

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/jcpaschoal/coopfrota/app/sdk/auth"
	"github.com/jcpaschoal/coopfrota/app/sdk/errs"
	"github.com/jcpaschoal/coopfrota/business/domain/orgbus"
	"github.com/jcpaschoal/coopfrota/business/sdk/web"
	"github.com/jcpaschoal/coopfrota/business/types/accesscode"
)

type app struct {
	auth   *auth.Auth
	orgBus *orgbus.Core
}

// newApp constructs an auth app API for use.
func newApp(auth *auth.Auth, orgBus *orgbus.Core) *app {
	return &app{
		auth:   auth,
		orgBus: orgBus,
	}
}

func (a *app) token(ctx context.Context, r *http.Request) web.Encoder {
	var req TokenRequest

	if err := web.Decode(r, &req); err != nil {
		return errs.New(errs.InvalidArgument, err)
	}

	code, err := accesscode.Parse(req.AccessCode)
	if err != nil {
		return errs.New(errs.InvalidArgument, fmt.Errorf("parsing access code: %w", err))
	}

	org, err := a.auth.Login(ctx, code)
	if err != nil {
		return errs.New(errs.Unauthenticated, err)
	}

	memberID, err := uuid.Parse(req.MemberID)
	if err != nil {
		return errs.New(errs.InvalidArgument, fmt.Errorf("parsing member id: %w", err))
	}

	mbr, err := a.orgBus.QueryMemberByID(ctx, memberID)
	if err != nil {
		return errs.New(errs.Unauthenticated, orgbus.ErrAuthenticationFailure)
	}

	// O membro precisa pertencer à organização do código informado.
	if mbr.OrgID != org.ID || !mbr.Enabled {
		return errs.New(errs.Unauthenticated, orgbus.ErrAuthenticationFailure)
	}

	tokenStr, err := a.auth.GenerateToken(org.ID, mbr.ID, mbr.Role)
	if err != nil {
		return errs.New(errs.Internal, err)
	}

	return toAppToken(tokenStr)
}
