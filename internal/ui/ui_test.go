package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Makepad-fr/debts/internal/model"
)

func withTheme(t *testing.T, name string) {
	t.Helper()
	prev := current
	SetTheme(name)
	t.Cleanup(func() { current = prev })
}

func TestProgressBar(t *testing.T) {
	withTheme(t, "mono")

	tests := []struct {
		done, total, width int
		want               string
	}{
		{1, 4, 8, "[##......] 1/4"},
		{0, 0, 4, "[....] 0/0"},
		{3, 3, 5, "[#####] 3/3"},
		{5, 3, 5, "[#####] 5/3"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ProgressBar(tt.done, tt.total, tt.width))
	}
	assert.Len(t, []rune(ProgressBar(0, 1, 0)), len("[] 0/1")+28)
}

func TestPrinter(t *testing.T) {
	withTheme(t, "mono")
	var out, errOut bytes.Buffer
	p := NewPrinter(&out, &errOut)

	p.OK("signed in")
	p.Fail("Network error")
	p.Panel([]string{"a", "bb"})

	assert.Contains(t, out.String(), "ok signed in")
	assert.Contains(t, errOut.String(), "error: Network error")
	assert.NotContains(t, out.String(), "Network error")
	assert.Contains(t, out.String(), "| bb |")
	assert.Contains(t, out.String(), "+----+")
}

func TestDebtLine(t *testing.T) {
	withTheme(t, "mono")
	desc := "pizza"
	d := model.Debt{ID: "1a2b3c4d-0000-0000-0000-000000000000", Title: "Dinner", Description: &desc, Status: model.StatusSettled}

	line := DebtLine(d)
	assert.True(t, strings.HasPrefix(line, "[x] Dinner"), line)
	assert.Contains(t, line, "- pizza")
	assert.Contains(t, line, "(1a2b3c4d)")

	d.Description = nil
	d.Status = model.StatusOpen
	assert.Equal(t, "[ ] Dinner (1a2b3c4d)", DebtLine(d))

	d.Status = model.StatusCancelled
	assert.True(t, strings.HasPrefix(DebtLine(d), "[-]"))
}

func TestDebtDetail(t *testing.T) {
	withTheme(t, "mono")
	created := "2024-01-01T00:00:00Z"
	lines := DebtDetail(model.Debt{ID: "x", Title: "Rent", Status: model.StatusOpen, CreatedAt: &created})
	joined := strings.Join(lines, "\n")
	assert.Contains(t, joined, "Rent")
	assert.Contains(t, joined, "status:  [ ] open")
	assert.Contains(t, joined, created)
	assert.NotContains(t, joined, "note:")
}

func TestSetTheme(t *testing.T) {
	withTheme(t, "NEON")
	assert.Equal(t, "neon", Current().Name)
	SetTheme("nope")
	assert.Equal(t, "classic", Current().Name)
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "abc", ShortID("abc-def"))
	assert.Equal(t, "plain", ShortID("plain"))
	assert.Equal(t, "-x", ShortID("-x"))
}
