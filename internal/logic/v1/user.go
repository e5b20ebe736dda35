package v1

import (
	"context"
	"database/sql"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/breeew/stellar-api/internal/core"
	"github.com/breeew/stellar-api/internal/store"
	"github.com/breeew/stellar-api/pkg/errors"
	"github.com/breeew/stellar-api/pkg/i18n"
	"github.com/breeew/stellar-api/pkg/security"
	"github.com/breeew/stellar-api/pkg/types"
	"github.com/breeew/stellar-api/pkg/utils"
)

const (
	APP_NAME = "stellar"

	MIN_PASSWORD_LENGTH = 6
)

type UserLogic struct {
	UserInfo
	ctx  context.Context
	core *core.Core
}

func NewUserLogic(ctx context.Context, core *core.Core) *UserLogic {
	l := &UserLogic{
		ctx:      ctx,
		core:     core,
		UserInfo: setupUserInfo(ctx, core),
	}

	return l
}

func (l *UserLogic) Signup(name, email, password, demographic string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return "", errors.New("UserLogic.Signup.Email", i18n.ERROR_INVALIDARGUMENT, err).Code(http.StatusBadRequest)
	}
	if len(password) < MIN_PASSWORD_LENGTH {
		return "", errors.New("UserLogic.Signup.Password", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest)
	}

	exist, err := l.core.Store().UserStore().GetByEmail(l.ctx, email)
	if err != nil && err != sql.ErrNoRows {
		return "", errors.New("UserLogic.Signup.UserStore.GetByEmail", i18n.ERROR_INTERNAL, err)
	}
	if exist != nil {
		return "", errors.New("UserLogic.Signup.UserStore.GetByEmail", i18n.ERROR_EMAIL_ALREADY_REGISTED, nil).Code(http.StatusConflict)
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return "", errors.New("UserLogic.Signup.HashPassword", i18n.ERROR_INTERNAL, err)
	}

	if name = strings.TrimSpace(name); name == "" {
		name = strings.Split(email, "@")[0]
	}
	now := time.Now().Unix()
	user := types.User{
		ID:          utils.GenSpecIDStr(),
		Name:        name,
		Email:       email,
		Password:    hash,
		Demographic: types.ParseDemographic(demographic),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err = l.core.Store().UserStore().Create(l.ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			return "", errors.New("UserLogic.Signup.UserStore.Create", i18n.ERROR_EMAIL_ALREADY_REGISTED, err).Code(http.StatusConflict)
		}
		return "", errors.New("UserLogic.Signup.UserStore.Create", i18n.ERROR_INTERNAL, err)
	}
	return user.ID, nil
}

type LoginResult struct {
	Token     string      `json:"token"`
	ExpiresAt int64       `json:"expires_at"`
	User      *types.User `json:"user"`
}

func (l *UserLogic) Login(email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := l.core.Store().UserStore().GetByEmail(l.ctx, email)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("UserLogic.Login.UserStore.GetByEmail", i18n.ERROR_INTERNAL, err)
	}
	if user == nil || !security.CheckPassword(user.Password, password) {
		return nil, errors.New("UserLogic.Login.CheckPassword", i18n.ERROR_INVALID_ACCOUNT, nil).Code(http.StatusUnauthorized)
	}

	expiresAt := time.Now().Add(l.core.Cfg().Security.SessionDuration()).Unix()
	token, err := l.core.Srv().Signer().Sign(security.NewTokenClaims(l.core.DefaultAppid(), APP_NAME, user.ID, expiresAt))
	if err != nil {
		return nil, errors.New("UserLogic.Login.Signer.Sign", i18n.ERROR_INTERNAL, err)
	}

	return &LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
	}, nil
}

func (l *UserLogic) Profile() (*types.User, error) {
	userID, err := l.mustUser("UserLogic.Profile")
	if err != nil {
		return nil, err
	}
	user, err := l.core.Store().UserStore().GetUser(l.ctx, userID)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("UserLogic.Profile.UserStore.GetUser", i18n.ERROR_INTERNAL, err)
	}
	if user == nil {
		return nil, errors.New("UserLogic.Profile.UserStore.GetUser.nil", i18n.ERROR_NOTFOUND, nil).Code(http.StatusNotFound)
	}
	return user, nil
}

func (l *UserLogic) UpdateDemographic(demographic string) error {
	userID, err := l.mustUser("UserLogic.UpdateDemographic")
	if err != nil {
		return err
	}
	d := types.Demographic(demographic)
	if d != types.DEMOGRAPHIC_INVESTOR && d != types.DEMOGRAPHIC_RESEARCHER {
		return errors.New("UserLogic.UpdateDemographic.Validate", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest)
	}

	err = l.core.Store().UserStore().UpdateDemographic(l.ctx, userID, d, time.Now().Unix())
	if errors.Is(err, sql.ErrNoRows) {
		return errors.New("UserLogic.UpdateDemographic.UserStore.UpdateDemographic", i18n.ERROR_NOTFOUND, err).Code(http.StatusNotFound)
	}
	if err != nil {
		return errors.New("UserLogic.UpdateDemographic.UserStore.UpdateDemographic", i18n.ERROR_INTERNAL, err)
	}
	return nil
}

// EnsureUser creates the account unless email is already registered. It
// reports whether a new account was created.
func (l *UserLogic) EnsureUser(name, email, password string) (bool, error) {
	exist, err := l.core.Store().UserStore().GetByEmail(l.ctx, strings.ToLower(email))
	if err != nil && err != sql.ErrNoRows {
		return false, errors.New("UserLogic.EnsureUser.UserStore.GetByEmail", i18n.ERROR_INTERNAL, err)
	}
	if exist != nil {
		return false, nil
	}
	if _, err = l.Signup(name, email, password, string(types.DEMOGRAPHIC_RESEARCHER)); err != nil {
		return false, errors.Trace("UserLogic.EnsureUser", err)
	}
	return true, nil
}
