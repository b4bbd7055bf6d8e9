package app

import (
	"context"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Makepad-fr/debts/internal/api"
	apperrors "github.com/Makepad-fr/debts/internal/errors"
	"github.com/Makepad-fr/debts/internal/model"
	"github.com/Makepad-fr/debts/internal/store/tokenstore"
)

// App drives the API client on behalf of the views and owns the token
// lifecycle: login writes it, logout and authentication failures clear it.
type App struct {
	api    *api.Client
	tokens tokenstore.Store
	log    zerolog.Logger
}

func New(client *api.Client, tokens tokenstore.Store, log zerolog.Logger) *App {
	return &App{api: client, tokens: tokens, log: log}
}

// IsSignedOut reports whether err means the user has to log in again.
func IsSignedOut(err error) bool {
	return apperrors.IsKind(err, apperrors.KindAuth)
}

// Token reads the persisted token.
func (a *App) Token(ctx context.Context) (string, bool, error) {
	token, ok, err := a.tokens.Read(ctx)
	if err != nil {
		return "", false, apperrors.Wrap(apperrors.KindStorage, "token", "read token", err)
	}
	return token, ok, nil
}

// TokenSource names where the token comes from.
func (a *App) TokenSource() string { return a.tokens.Source() }

// APIURL is the backend base URL.
func (a *App) APIURL() string { return a.api.BaseURL() }

// Register creates an account. It does not sign in.
func (a *App) Register(ctx context.Context, creds model.Credentials) (model.User, error) {
	res := api.Post[model.User](ctx, a.api, "/auth/register", creds, "")
	if !res.OK() {
		a.log.Info().Int("status", res.Err().Status).Msg("register rejected")
		return model.User{}, res.Err()
	}
	a.log.Info().Str("user", res.Data().ID).Msg("registered")
	return res.Data(), nil
}

// Login exchanges credentials for a token and persists it.
func (a *App) Login(ctx context.Context, creds model.Credentials) error {
	res := api.Post[model.LoginResponse](ctx, a.api, "/auth/login", creds, "")
	if !res.OK() {
		a.log.Info().Int("status", res.Err().Status).Msg("login rejected")
		return res.Err()
	}
	token := strings.TrimSpace(res.Data().Token)
	if token == "" {
		return &api.Error{Status: 200, Message: api.InvalidResponseMessage, Kind: apperrors.KindDecode}
	}
	if err := a.tokens.Write(ctx, token); err != nil {
		return apperrors.Wrap(apperrors.KindStorage, "login", "save token", err)
	}
	a.log.Info().Str("source", a.tokens.Source()).Msg("signed in")
	return nil
}

// Logout forgets the persisted token.
func (a *App) Logout(ctx context.Context) error {
	if err := tokenstore.Clear(ctx, a.tokens); err != nil {
		return apperrors.Wrap(apperrors.KindStorage, "logout", "clear token", err)
	}
	a.log.Info().Msg("signed out")
	return nil
}

// signOut clears the token after an authentication failure and returns
// the error the views treat as "go to login".
func (a *App) signOut(ctx context.Context, op string, cause error) error {
	if err := tokenstore.Clear(ctx, a.tokens); err != nil {
		a.log.Error().Err(err).Str("op", op).Msg("clear token after auth failure")
	}
	a.log.Warn().Err(cause).Str("op", op).Msg("forced sign-out")
	return &apperrors.Error{Kind: apperrors.KindAuth, Op: op, Message: "signed out", Cause: cause}
}

// protected turns a 401 into a forced sign-out; other failures pass through.
func (a *App) protected(ctx context.Context, op string, err *api.Error) error {
	if err.Unauthorized() {
		return a.signOut(ctx, op, err)
	}
	return err
}

// Me returns the signed-in user. Any failure signs the user out.
func (a *App) Me(ctx context.Context, token string) (model.User, error) {
	res := api.Get[model.User](ctx, a.api, "/auth/me", token)
	if !res.OK() {
		return model.User{}, a.signOut(ctx, "me", res.Err())
	}
	return res.Data(), nil
}

// ListDebts returns the debts created by userID, newest first as the backend orders them.
func (a *App) ListDebts(ctx context.Context, token, userID string) ([]model.Debt, error) {
	res := api.Get[model.DebtList](ctx, a.api, "/debts?created_by="+url.QueryEscape(userID), token)
	if !res.OK() {
		return nil, a.protected(ctx, "list", res.Err())
	}
	items := res.Data().Items
	if items == nil {
		items = []model.Debt{}
	}
	return items, nil
}

// CreateDebt records a new debt owned by the token's user.
func (a *App) CreateDebt(ctx context.Context, token, title, description string) (model.Debt, error) {
	res := api.Post[model.Debt](ctx, a.api, "/debts", model.CreateDebt{Title: title, Description: description}, token)
	if !res.OK() {
		return model.Debt{}, a.protected(ctx, "create", res.Err())
	}
	a.log.Info().Str("debt", res.Data().ID).Msg("debt created")
	return res.Data(), nil
}

func (a *App) GetDebt(ctx context.Context, token, id string) (model.Debt, error) {
	res := api.Get[model.Debt](ctx, a.api, "/debts/"+url.PathEscape(id), token)
	if !res.OK() {
		return model.Debt{}, a.protected(ctx, "get", res.Err())
	}
	return res.Data(), nil
}

// SetDebtStatus moves a debt to open, settled or cancelled.
func (a *App) SetDebtStatus(ctx context.Context, token, id, status string) (model.Debt, error) {
	if !model.ValidStatus(status) {
		return model.Debt{}, apperrors.New(apperrors.KindUsage, "status", "invalid status: "+status)
	}
	res := api.Put[model.Debt](ctx, a.api, "/debts/"+url.PathEscape(id), model.UpdateDebt{Status: &status}, token)
	if !res.OK() {
		return model.Debt{}, a.protected(ctx, "update", res.Err())
	}
	a.log.Info().Str("debt", id).Str("status", status).Msg("debt updated")
	return res.Data(), nil
}

func (a *App) DeleteDebt(ctx context.Context, token, id string) error {
	res := api.Delete[struct{}](ctx, a.api, "/debts/"+url.PathEscape(id), token)
	if !res.OK() {
		return a.protected(ctx, "delete", res.Err())
	}
	a.log.Info().Str("debt", id).Msg("debt deleted")
	return nil
}
