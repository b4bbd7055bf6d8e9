package tui

import (
	"context"

	"github.com/Makepad-fr/debts/internal/app"
	"github.com/Makepad-fr/debts/internal/model"
)

// Backend is what the screens need from the application layer.
// *app.App satisfies it.
type Backend interface {
	Token(ctx context.Context) (string, bool, error)
	// TokenSource names where the token comes from; "env" means login cannot replace it.
	TokenSource() string
	Register(ctx context.Context, creds model.Credentials) (model.User, error)
	Login(ctx context.Context, creds model.Credentials) error
	Logout(ctx context.Context) error
	LoadDashboard(ctx context.Context) (*app.Dashboard, error)
	CreateDebt(ctx context.Context, token, title, description string) (model.Debt, error)
	SetDebtStatus(ctx context.Context, token, id, status string) (model.Debt, error)
	DeleteDebt(ctx context.Context, token, id string) error
}

var _ Backend = (*app.App)(nil)
