package v1

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/breeew/stellar-api/internal/core"
	"github.com/breeew/stellar-api/pkg/errors"
	"github.com/breeew/stellar-api/pkg/i18n"
	"github.com/breeew/stellar-api/pkg/security"
	"github.com/breeew/stellar-api/pkg/types"
)

type _userInfo struct {
	ctx  context.Context
	core *core.Core
	u    *security.TokenClaims
}

func (u *_userInfo) GetUserInfo() security.TokenClaims {
	return *u.u
}

// demographic picks the audience of a summary: the explicit value first,
// then the profile of the caller, then researcher.
func (u *_userInfo) demographic(raw string) types.Demographic {
	if raw != "" {
		return types.ParseDemographic(raw)
	}
	if u.u.User == "" {
		return types.DEMOGRAPHIC_RESEARCHER
	}
	user, err := u.core.Store().UserStore().GetUser(u.ctx, u.u.User)
	if err != nil {
		if err != sql.ErrNoRows {
			slog.Warn("Failed to load user demographic", slog.String("user_id", u.u.User), slog.String("error", err.Error()))
		}
		return types.DEMOGRAPHIC_RESEARCHER
	}
	return types.ParseDemographic(string(user.Demographic))
}

func (u *_userInfo) mustUser(trace string) (string, error) {
	if u.u.User == "" {
		return "", errors.New(trace, i18n.ERROR_UNAUTHORIZED, nil).Code(http.StatusUnauthorized)
	}
	return u.u.User, nil
}

func setupUserInfo(ctx context.Context, core *core.Core) UserInfo {
	userInfo, ok := InjectTokenClaim(ctx)
	if !ok {
		slog.Debug("Not found user in context", slog.String("component", "logic.v1.setupUserInfo"))
		userInfo = security.TokenClaims{}
	}
	return &_userInfo{
		ctx:  ctx,
		u:    &userInfo,
		core: core,
	}
}

type UserInfo interface {
	GetUserInfo() security.TokenClaims
	demographic(raw string) types.Demographic
	mustUser(trace string) (string, error)
}
