package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/debts/internal/app"
	"github.com/Makepad-fr/debts/internal/model"
	"github.com/Makepad-fr/debts/internal/ui"
)

var (
	addKey     = key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	settleKey  = key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "settle/reopen"))
	cancelKey  = key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "cancel debt"))
	deleteKey  = key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"))
	reloadKey  = key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload"))
	logoutKey  = key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "logout"))
	quitKey    = key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit"))
	escapeKey  = key.NewBinding(key.WithKeys("esc"))
	actionKeys = []key.Binding{addKey, settleKey, cancelKey, deleteKey, reloadKey, logoutKey}
)

type dashboard struct {
	ctx     context.Context
	backend Backend

	loading bool
	data    *app.Dashboard
	err     string

	list    list.Model
	spinner spinner.Model

	// inline create form
	adding   bool
	creating bool
	field    int
	title    textinput.Model
	desc     textinput.Model
	formErr  string

	width, height int
}

func newDashboard(ctx context.Context, b Backend, width, height int) dashboard {
	l := list.New(nil, itemDelegate{}, 0, 0)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetShowTitle(false)
	l.SetFilteringEnabled(true)
	l.Styles.HelpStyle = ui.Current().Help
	l.Styles.PaginationStyle = ui.Current().Help
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("debt", "debts")
	l.AdditionalShortHelpKeys = func() []key.Binding { return actionKeys }
	l.AdditionalFullHelpKeys = func() []key.Binding { return actionKeys }

	title := textinput.New()
	title.Prompt = "Title       "
	title.Placeholder = "Dinner at Luigi's"
	title.CharLimit = 255

	desc := textinput.New()
	desc.Prompt = "Description "
	desc.Placeholder = "optional"
	desc.CharLimit = 1000

	s := spinner.New()
	s.Spinner = spinner.Dot

	d := dashboard{
		ctx:     ctx,
		backend: b,
		loading: true,
		list:    l,
		spinner: s,
		title:   title,
		desc:    desc,
	}
	return d.resize(width, height)
}

func (d dashboard) route() Route { return RouteDashboard }

func (d dashboard) init() tea.Cmd {
	return tea.Batch(d.spinner.Tick, d.load())
}

func (d dashboard) load() tea.Cmd {
	ctx, b := d.ctx, d.backend
	return func() tea.Msg {
		dash, err := b.LoadDashboard(ctx)
		return dashboardLoadedMsg{dash: dash, err: err}
	}
}

func (d dashboard) resize(width, height int) dashboard {
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}
	d.width, d.height = width, height
	listHeight := height - 10
	if d.adding {
		listHeight -= 4
	}
	if listHeight < 3 {
		listHeight = 3
	}
	d.list.SetSize(width-4, listHeight)
	return d
}

func (d dashboard) token() string {
	if d.data == nil {
		return ""
	}
	return d.data.Token
}

func (d dashboard) selected() (model.Debt, bool) {
	it, ok := d.list.SelectedItem().(debtItem)
	if !ok {
		return model.Debt{}, false
	}
	return it.debt, true
}

func (d dashboard) sync() dashboard {
	if d.data != nil {
		d.list.SetItems(toItems(d.data.Debts))
	}
	return d
}

// failed routes an action error: sign-outs go to login, the rest show inline.
func (d dashboard) failed(err error) (screen, tea.Cmd) {
	if app.IsSignedOut(err) {
		return d, navigate(RouteLogin, "")
	}
	d.err = err.Error()
	return d, nil
}

func (d dashboard) openForm() dashboard {
	d.adding = true
	d.field = 0
	d.formErr = ""
	d.title.SetValue("")
	d.desc.SetValue("")
	d.title.Focus()
	d.desc.Blur()
	return d.resize(d.width, d.height)
}

func (d dashboard) closeForm() dashboard {
	d.adding = false
	d.formErr = ""
	d.title.Blur()
	d.desc.Blur()
	return d.resize(d.width, d.height)
}

func (d dashboard) submitForm() (screen, tea.Cmd) {
	if d.creating {
		return d, nil
	}
	title := strings.TrimSpace(d.title.Value())
	if title == "" {
		d.formErr = "Title is required"
		d.field = 0
		d.title.Focus()
		d.desc.Blur()
		return d, nil
	}
	d.creating = true
	d.formErr = ""
	d.err = ""
	ctx, b, token := d.ctx, d.backend, d.token()
	desc := strings.TrimSpace(d.desc.Value())
	create := func() tea.Msg {
		debt, err := b.CreateDebt(ctx, token, title, desc)
		return debtCreatedMsg{debt: debt, err: err}
	}
	return d, tea.Batch(d.spinner.Tick, create)
}

func (d dashboard) updateForm(msg tea.KeyMsg) (screen, tea.Cmd) {
	switch {
	case key.Matches(msg, escapeKey):
		return d.closeForm(), nil
	case key.Matches(msg, nextKey), key.Matches(msg, prevKey):
		d.field = 1 - d.field
		if d.field == 0 {
			d.title.Focus()
			d.desc.Blur()
		} else {
			d.desc.Focus()
			d.title.Blur()
		}
		return d, nil
	case key.Matches(msg, submitKey):
		if d.field == 0 && strings.TrimSpace(d.title.Value()) != "" {
			d.field = 1
			d.title.Blur()
			d.desc.Focus()
			return d, nil
		}
		return d.submitForm()
	}

	var cmd tea.Cmd
	if d.field == 0 {
		d.title, cmd = d.title.Update(msg)
	} else {
		d.desc, cmd = d.desc.Update(msg)
	}
	return d, cmd
}

func (d dashboard) setStatus(status string) (screen, tea.Cmd) {
	debt, ok := d.selected()
	if !ok {
		return d, nil
	}
	ctx, b, token := d.ctx, d.backend, d.token()
	return d, func() tea.Msg {
		updated, err := b.SetDebtStatus(ctx, token, debt.ID, status)
		return debtUpdatedMsg{debt: updated, err: err}
	}
}

func (d dashboard) update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return d.resize(msg.Width, msg.Height), nil

	case spinner.TickMsg:
		if !d.loading && !d.creating {
			return d, nil
		}
		var cmd tea.Cmd
		d.spinner, cmd = d.spinner.Update(msg)
		return d, cmd

	case dashboardLoadedMsg:
		d.loading = false
		if msg.err != nil {
			return d.failed(msg.err)
		}
		d.data = msg.dash
		d.err = msg.dash.Err
		return d.sync(), nil

	case debtCreatedMsg:
		d.creating = false
		if msg.err != nil {
			return d.failed(msg.err)
		}
		if d.data != nil {
			d.data.Prepend(msg.debt)
		}
		d = d.closeForm().sync()
		d.list.Select(0)
		return d, nil

	case debtUpdatedMsg:
		if msg.err != nil {
			return d.failed(msg.err)
		}
		d.err = ""
		if d.data != nil {
			d.data.Replace(msg.debt)
		}
		return d.sync(), nil

	case debtDeletedMsg:
		if msg.err != nil {
			return d.failed(msg.err)
		}
		d.err = ""
		if d.data != nil {
			d.data.Remove(msg.id)
		}
		return d.sync(), nil

	case loggedOutMsg:
		if msg.err != nil {
			d.err = msg.err.Error()
			return d, nil
		}
		return d, navigate(RouteLogin, "Signed out.")

	case tea.KeyMsg:
		if d.loading {
			if key.Matches(msg, quitKey, escapeKey) {
				return d, tea.Quit
			}
			return d, nil
		}
		if d.adding {
			return d.updateForm(msg)
		}
		if d.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, quitKey):
			return d, tea.Quit
		case key.Matches(msg, addKey):
			return d.openForm(), textinput.Blink
		case key.Matches(msg, logoutKey):
			ctx, b := d.ctx, d.backend
			return d, func() tea.Msg { return loggedOutMsg{err: b.Logout(ctx)} }
		case key.Matches(msg, reloadKey):
			d.loading = true
			d.err = ""
			return d, tea.Batch(d.spinner.Tick, d.load())
		case key.Matches(msg, settleKey):
			debt, ok := d.selected()
			if !ok {
				return d, nil
			}
			status := model.StatusSettled
			if debt.Status == model.StatusSettled {
				status = model.StatusOpen
			}
			return d.setStatus(status)
		case key.Matches(msg, cancelKey):
			return d.setStatus(model.StatusCancelled)
		case key.Matches(msg, deleteKey):
			debt, ok := d.selected()
			if !ok {
				return d, nil
			}
			ctx, b, token := d.ctx, d.backend, d.token()
			return d, func() tea.Msg {
				return debtDeletedMsg{id: debt.ID, err: b.DeleteDebt(ctx, token, debt.ID)}
			}
		}
	}

	var cmd tea.Cmd
	d.list, cmd = d.list.Update(msg)
	return d, cmd
}

func (d dashboard) view() string {
	t := ui.Current()
	if d.loading {
		return ui.PanelString(d.spinner.View() + " Loading...")
	}

	var b strings.Builder
	if d.data != nil {
		settled, open := d.data.Counts()
		b.WriteString(t.Muted.Render("Signed in as: ") + d.data.User.Email + "\n")
		b.WriteString(ui.Summary(settled, open, len(d.data.Debts)) + "\n")
		b.WriteString(ui.ProgressBar(settled, settled+open, 28) + "\n\n")
	}

	if d.adding {
		head := t.Title.Render("New debt")
		if d.formErr != "" {
			head += "  " + t.Error.Render(d.formErr)
		}
		form := head + "\n" + d.title.View() + "\n" + d.desc.View()
		if d.creating {
			form += "\n" + d.spinner.View() + " Creating..."
		}
		b.WriteString(ui.PanelString(form) + "\n")
	}

	if d.err != "" {
		b.WriteString(t.Error.Render("Error: "+d.err) + "\n")
	}

	if d.data == nil || len(d.data.Debts) == 0 {
		b.WriteString(t.Muted.Render("No debts yet.") + "\n\n")
		b.WriteString(t.Help.Render("a: add • r: reload • l: logout • q: quit"))
	} else {
		b.WriteString(d.list.View())
	}
	return ui.PanelString(b.String())
}
