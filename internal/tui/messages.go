package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/debts/internal/app"
	"github.com/Makepad-fr/debts/internal/model"
)

type navigateMsg struct {
	to     Route
	notice string
}

func navigate(to Route, notice string) tea.Cmd {
	return func() tea.Msg { return navigateMsg{to: to, notice: notice} }
}

type loginDoneMsg struct{ err error }

type registerDoneMsg struct {
	user model.User
	err  error
}

type dashboardLoadedMsg struct {
	dash *app.Dashboard
	err  error
}

type debtCreatedMsg struct {
	debt model.Debt
	err  error
}

type debtUpdatedMsg struct {
	debt model.Debt
	err  error
}

type debtDeletedMsg struct {
	id  string
	err error
}

type loggedOutMsg struct{ err error }
