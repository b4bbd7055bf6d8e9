package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/debts/internal/model"
	"github.com/Makepad-fr/debts/internal/ui"
)

// debtItem adapts model.Debt to bubbles/list.Item.
type debtItem struct{ debt model.Debt }

func (i debtItem) Title() string       { return i.debt.Title }
func (i debtItem) Description() string { return i.debt.Desc() }
func (i debtItem) FilterValue() string { return i.debt.Title + " " + i.debt.Desc() }

func toItems(debts []model.Debt) []list.Item {
	items := make([]list.Item, 0, len(debts))
	for _, d := range debts {
		items = append(items, debtItem{debt: d})
	}
	return items
}

// itemDelegate renders each debt on a single line.
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(debtItem)
	if !ok {
		return
	}
	prefix := "  "
	if index == m.Index() {
		prefix = ui.Current().Selected.Render("> ")
	}
	fmt.Fprintln(w, prefix+ui.DebtLine(it.debt))
}
