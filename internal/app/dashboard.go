package app

import (
	"context"

	apperrors "github.com/Makepad-fr/debts/internal/errors"
	"github.com/Makepad-fr/debts/internal/model"
)

// Dashboard is what the dashboard view renders.
type Dashboard struct {
	// Token is the credential read when loading started. Later actions on
	// this dashboard reuse it instead of re-reading the store.
	Token string
	User  model.User
	Debts []model.Debt
	// Err is a list failure shown inline; the user stays signed in.
	Err string
}

// LoadDashboard reads the token once, resolves the user and lists their
// debts. A missing token or a failing /auth/me yields a signed-out error
// (the latter after clearing the token).
func (a *App) LoadDashboard(ctx context.Context) (*Dashboard, error) {
	token, ok, err := a.Token(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.New(apperrors.KindAuth, "dashboard", "not signed in")
	}

	user, err := a.Me(ctx, token)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{Token: token, User: user, Debts: []model.Debt{}}
	debts, err := a.ListDebts(ctx, token, user.ID)
	if err != nil {
		if IsSignedOut(err) {
			return nil, err
		}
		d.Err = err.Error()
		return d, nil
	}
	d.Debts = debts
	return d, nil
}

// Prepend puts a freshly created debt first, keeping every prior entry.
func (d *Dashboard) Prepend(debt model.Debt) {
	d.Debts = append([]model.Debt{debt}, d.Debts...)
}

// Replace swaps the entry with the same id, if present.
func (d *Dashboard) Replace(debt model.Debt) {
	for i := range d.Debts {
		if d.Debts[i].ID == debt.ID {
			d.Debts[i] = debt
			return
		}
	}
}

// Remove drops the entry with id, if present.
func (d *Dashboard) Remove(id string) {
	for i := range d.Debts {
		if d.Debts[i].ID == id {
			d.Debts = append(d.Debts[:i], d.Debts[i+1:]...)
			return
		}
	}
}

// Counts splits the list into open and settled totals; cancelled debts
// count as neither.
func (d *Dashboard) Counts() (settled, open int) {
	for _, debt := range d.Debts {
		switch debt.Status {
		case model.StatusSettled:
			settled++
		case model.StatusOpen, "":
			open++
		}
	}
	return
}
