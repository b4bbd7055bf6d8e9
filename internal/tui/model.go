// Package tui holds the interactive screens: login, register and the
// dashboard, switched by route.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

type screen interface {
	route() Route
	init() tea.Cmd
	update(tea.Msg) (screen, tea.Cmd)
	view() string
}

// Model is the root Bubble Tea model. It owns navigation; screens own
// their own state.
type Model struct {
	ctx     context.Context
	backend Backend
	screen  screen

	width, height int
}

// New builds the model on the screen for path, after the token guard.
func New(ctx context.Context, b Backend, path string) Model {
	m := Model{ctx: ctx, backend: b}
	m.screen = m.open(Resolve(path), "")
	return m
}

// Route is the active screen.
func (m Model) Route() Route { return m.screen.route() }

func (m Model) hasToken() bool {
	_, ok, err := m.backend.Token(m.ctx)
	return err == nil && ok
}

func (m Model) open(r Route, notice string) screen {
	switch Guard(r, m.hasToken()) {
	case RouteLogin:
		return newAuthForm(m.ctx, m.backend, false, notice)
	case RouteRegister:
		return newAuthForm(m.ctx, m.backend, true, notice)
	default:
		return newDashboard(m.ctx, m.backend, m.width, m.height)
	}
}

func (m Model) Init() tea.Cmd { return m.screen.init() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case navigateMsg:
		m.screen = m.open(msg.to, msg.notice)
		return m, m.screen.init()
	}

	var cmd tea.Cmd
	m.screen, cmd = m.screen.update(msg)
	return m, cmd
}

func (m Model) View() string { return m.screen.view() }

// Run starts the program on path and blocks until the user quits.
func Run(ctx context.Context, b Backend, path string, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	_, err := tea.NewProgram(New(ctx, b, path), opts...).Run()
	return err
}
