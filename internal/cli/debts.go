package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Makepad-fr/debts/internal/model"
	"github.com/Makepad-fr/debts/internal/ui"
)

var statusFor = map[string]string{
	"settle": model.StatusSettled,
	"reopen": model.StatusOpen,
	"cancel": model.StatusCancelled,
}

// splitAddArgs joins the title words and pulls out -d/--desc.
func splitAddArgs(args []string) (title, desc string, ok bool) {
	var words []string
	for i := 0; i < len(args); i++ {
		switch a := args[i]; {
		case a == "-d" || a == "--desc":
			if i+1 >= len(args) {
				return "", "", false
			}
			desc = args[i+1]
			i++
		case strings.HasPrefix(a, "--desc="):
			desc = strings.TrimPrefix(a, "--desc=")
		default:
			words = append(words, a)
		}
	}
	title = strings.TrimSpace(strings.Join(words, " "))
	return title, strings.TrimSpace(desc), title != ""
}

func (r *runner) doList(group bool) int {
	d, err := r.app.LoadDashboard(r.ctx)
	if err != nil {
		return r.report("ls", err)
	}
	if d.Err != "" {
		r.p.Fail("ls: " + d.Err)
		return 1
	}

	t := ui.Current()
	settled, open := d.Counts()
	lines := []string{
		ui.Summary(settled, open, len(d.Debts)),
		t.Muted.Render(ui.ProgressBar(settled, settled+open, 28)),
		t.Muted.Render("Signed in as: ") + d.User.Email,
		"",
	}
	if group {
		lines = append(lines, groupLines(d.Debts)...)
	} else {
		lines = append(lines, flatLines(d.Debts, 0)...)
	}
	lines = append(lines, "", t.Muted.Render("Tip: add with `debts add Lunch -d \"pizza\"`"))
	r.p.Panel(lines)
	return 0
}

func flatLines(debts []model.Debt, offset int) []string {
	if len(debts) == 0 {
		return []string{ui.Current().Muted.Render("No debts yet.")}
	}
	out := make([]string, 0, len(debts))
	for i, d := range debts {
		idx := ui.Current().Muted.Render(fmt.Sprintf("%2d.", offset+i+1))
		out = append(out, idx+" "+ui.DebtLine(truncated(d)))
	}
	return out
}

// groupLines keeps the ls numbering so indexes stay valid for settle/rm.
// Statuses the client does not know land under "Other", shown only when used.
func groupLines(debts []model.Debt) []string {
	known := func(status string) bool { return status == "" || model.ValidStatus(status) }
	sections := []struct {
		label    string
		match    func(status string) bool
		optional bool
	}{
		{"Open", func(s string) bool { return s == model.StatusOpen || s == "" }, false},
		{"Settled", func(s string) bool { return s == model.StatusSettled }, false},
		{"Cancelled", func(s string) bool { return s == model.StatusCancelled }, false},
		{"Other", func(s string) bool { return !known(s) }, true},
	}
	t := ui.Current()
	var lines []string
	for _, sec := range sections {
		var section []string
		for i, d := range debts {
			if sec.match(d.Status) {
				section = append(section, flatLines([]model.Debt{d}, i)...)
			}
		}
		if len(section) == 0 {
			if sec.optional {
				continue
			}
			section = []string{t.Muted.Render("(none)")}
		}
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, t.Accent.Render(sec.label))
		lines = append(lines, section...)
	}
	return lines
}

const maxTitleRunes = 80

func truncated(d model.Debt) model.Debt {
	if r := []rune(d.Title); len(r) > maxTitleRunes {
		d.Title = string(r[:maxTitleRunes-3]) + "..."
	}
	return d
}

func (r *runner) doAdd(title, desc string) int {
	token, code := r.requireToken()
	if code != 0 {
		return code
	}
	debt, err := r.app.CreateDebt(r.ctx, token, title, desc)
	if err != nil {
		return r.report("add", err)
	}
	r.p.OK("added " + ui.ShortID(debt.ID))
	return 0
}

// resolve turns an ls index or an id prefix into a debt id.
func (r *runner) resolve(ref string) (string, int) {
	d, err := r.app.LoadDashboard(r.ctx)
	if err != nil {
		return "", r.report("resolve", err)
	}
	if d.Err != "" {
		// listing failed; let the server judge the raw reference
		return ref, 0
	}
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(d.Debts) {
			r.p.Fail(fmt.Sprintf("index out of range: have %d, got %d", len(d.Debts), n))
			fmt.Fprintln(r.p.Err, ui.Current().Muted.Render("Hint: run `debts ls` to see valid indexes"))
			return "", 2
		}
		return d.Debts[n-1].ID, 0
	}
	var matches []string
	for _, debt := range d.Debts {
		if debt.ID == ref {
			return ref, 0
		}
		if strings.HasPrefix(debt.ID, ref) {
			matches = append(matches, debt.ID)
		}
	}
	switch len(matches) {
	case 0:
		return ref, 0
	case 1:
		return matches[0], 0
	}
	r.p.Fail(fmt.Sprintf("ambiguous id %q matches %d debts", ref, len(matches)))
	return "", 2
}

func (r *runner) doShow(ref string) int {
	token, code := r.requireToken()
	if code != 0 {
		return code
	}
	id, code := r.resolve(ref)
	if code != 0 {
		return code
	}
	debt, err := r.app.GetDebt(r.ctx, token, id)
	if err != nil {
		return r.report("show", err)
	}
	r.p.Panel(ui.DebtDetail(debt))
	return 0
}

func (r *runner) doStatusChange(ref, status string) int {
	token, code := r.requireToken()
	if code != 0 {
		return code
	}
	id, code := r.resolve(ref)
	if code != 0 {
		return code
	}
	debt, err := r.app.SetDebtStatus(r.ctx, token, id, status)
	if err != nil {
		return r.report(status, err)
	}
	r.p.OK(debt.Status + ": " + debt.Title)
	return 0
}

func (r *runner) doRemove(ref string) int {
	token, code := r.requireToken()
	if code != 0 {
		return code
	}
	id, code := r.resolve(ref)
	if code != 0 {
		return code
	}
	if err := r.app.DeleteDebt(r.ctx, token, id); err != nil {
		return r.report("rm", err)
	}
	r.p.OK("removed " + ui.ShortID(id))
	return 0
}
