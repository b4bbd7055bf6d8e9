package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/debts/internal/model"
	"github.com/Makepad-fr/debts/internal/store/tokenstore"
	"github.com/Makepad-fr/debts/internal/ui"
)

// EnvTokenMessage explains why logging in is refused while DEBTS_TOKEN is set.
const EnvTokenMessage = "token is provided by DEBTS_TOKEN env var; unset it to log in"

// authForm is the login screen, or the register screen when register is set.
type authForm struct {
	ctx      context.Context
	backend  Backend
	register bool

	inputs  [2]textinput.Model
	focus   int
	loading bool
	err     string
	notice  string
}

var (
	submitKey = key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit"))
	nextKey   = key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field"))
	prevKey   = key.NewBinding(key.WithKeys("shift+tab", "up"))
	switchKey = key.NewBinding(key.WithKeys("ctrl+r"))
)

func newAuthForm(ctx context.Context, b Backend, register bool, notice string) authForm {
	email := textinput.New()
	email.Prompt = "Email    "
	email.Placeholder = "you@example.com"
	email.CharLimit = 254

	password := textinput.New()
	password.Prompt = "Password "
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.CharLimit = 128

	f := authForm{ctx: ctx, backend: b, register: register, notice: notice}
	f.inputs = [2]textinput.Model{email, password}
	f.inputs[0].Focus()
	return f
}

func (f authForm) route() Route {
	if f.register {
		return RouteRegister
	}
	return RouteLogin
}

func (f authForm) init() tea.Cmd { return textinput.Blink }

func (f authForm) credentials() model.Credentials {
	return model.Credentials{
		Email:    strings.TrimSpace(f.inputs[0].Value()),
		Password: f.inputs[1].Value(),
	}
}

func (f authForm) setFocus(i int) authForm {
	f.focus = (i + len(f.inputs)) % len(f.inputs)
	for j := range f.inputs {
		if j == f.focus {
			f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
	return f
}

func (f authForm) submit() (authForm, tea.Cmd) {
	if f.loading {
		return f, nil
	}
	if !f.register && f.backend.TokenSource() == tokenstore.SourceEnv {
		f.err = EnvTokenMessage
		return f, nil
	}
	f.loading = true
	f.err = ""
	f.notice = ""
	creds := f.credentials()
	ctx, b := f.ctx, f.backend
	if f.register {
		return f, func() tea.Msg {
			user, err := b.Register(ctx, creds)
			return registerDoneMsg{user: user, err: err}
		}
	}
	return f, func() tea.Msg {
		return loginDoneMsg{err: b.Login(ctx, creds)}
	}
}

func (f authForm) update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loginDoneMsg:
		f.loading = false
		if msg.err != nil {
			f.err = msg.err.Error()
			return f, nil
		}
		return f, navigate(RouteDashboard, "")

	case registerDoneMsg:
		f.loading = false
		if msg.err != nil {
			f.err = msg.err.Error()
			return f, nil
		}
		return f, navigate(RouteLogin, "Account created for "+msg.user.Email+". Please log in.")

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, switchKey):
			if f.register {
				return f, navigate(RouteLogin, "")
			}
			return f, navigate(RouteRegister, "")
		case key.Matches(msg, nextKey):
			return f.setFocus(f.focus + 1), nil
		case key.Matches(msg, prevKey):
			return f.setFocus(f.focus - 1), nil
		case key.Matches(msg, submitKey):
			if f.focus < len(f.inputs)-1 {
				return f.setFocus(f.focus + 1), nil
			}
			return f.submit()
		}
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

func (f authForm) view() string {
	t := ui.Current()
	title, button, busy, other := "Login", "[ Login ]", "Logging in...", "ctrl+r: create an account"
	if f.register {
		title, button, busy, other = "Register", "[ Create account ]", "Creating...", "ctrl+r: back to login"
	}

	var b strings.Builder
	b.WriteString(t.Title.Render(title) + "\n\n")
	if f.notice != "" {
		b.WriteString(t.Success.Render(f.notice) + "\n\n")
	}
	for _, in := range f.inputs {
		b.WriteString(in.View() + "\n")
	}
	b.WriteString("\n")
	if f.loading {
		b.WriteString(t.Muted.Render(busy))
	} else {
		b.WriteString(t.Accent.Render(button))
	}
	b.WriteString("\n")
	if f.err != "" {
		b.WriteString("\n" + t.Error.Render("Error: "+f.err) + "\n")
	}
	b.WriteString("\n" + t.Help.Render("tab: next field • enter: submit • "+other+" • ctrl+c: quit"))
	return ui.PanelString(b.String())
}
