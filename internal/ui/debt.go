package ui

import (
	"fmt"
	"strings"

	"github.com/Makepad-fr/debts/internal/model"
)

// StatusMark is the styled checkbox for a debt status.
func StatusMark(status string) string {
	t := Current()
	switch status {
	case model.StatusSettled:
		return t.Success.Render(t.SymSettled)
	case model.StatusCancelled:
		return t.Muted.Render(t.SymCancelled)
	default:
		return t.Muted.Render(t.SymOpen)
	}
}

// DebtTitle styles a title according to its status.
func DebtTitle(d model.Debt) string {
	t := Current()
	switch d.Status {
	case model.StatusSettled:
		return t.Done.Render(d.Title)
	case model.StatusCancelled:
		return t.Cancelled.Render(d.Title)
	}
	return d.Title
}

// DebtLine is the one-line listing form: mark, title, description, id.
func DebtLine(d model.Debt) string {
	t := Current()
	parts := []string{StatusMark(d.Status), DebtTitle(d)}
	if desc := d.Desc(); desc != "" {
		parts = append(parts, t.Muted.Render("- "+desc))
	}
	parts = append(parts, t.Muted.Render("("+ShortID(d.ID)+")"))
	return strings.Join(parts, " ")
}

// DebtDetail is the multi-line form used by `show`.
func DebtDetail(d model.Debt) []string {
	t := Current()
	lines := []string{
		t.Title.Render(d.Title),
		fmt.Sprintf("%s %s", t.Muted.Render("id:     "), d.ID),
		fmt.Sprintf("%s %s %s", t.Muted.Render("status: "), StatusMark(d.Status), d.Status),
	}
	if desc := d.Desc(); desc != "" {
		lines = append(lines, fmt.Sprintf("%s %s", t.Muted.Render("note:   "), desc))
	}
	if d.CreatedAt != nil {
		lines = append(lines, fmt.Sprintf("%s %s", t.Muted.Render("created:"), *d.CreatedAt))
	}
	if d.UpdatedAt != nil {
		lines = append(lines, fmt.Sprintf("%s %s", t.Muted.Render("updated:"), *d.UpdatedAt))
	}
	return lines
}

// Summary is the header with live counts.
func Summary(settled, open, total int) string {
	t := Current()
	return fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		t.Title.Render("Debts"),
		t.Success.Render(t.SymSettled), settled,
		t.Pending.Render(t.SymOpen), open,
		t.Accent.Render("Total"), total,
	)
}

// ShortID trims uuids to their first block for display.
func ShortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}
