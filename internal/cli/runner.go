// Package cli is the one-shot subcommand front end. Run returns an exit
// code: 0 ok, 1 error, 2 usage.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Makepad-fr/debts/internal/app"
	"github.com/Makepad-fr/debts/internal/tui"
	"github.com/Makepad-fr/debts/internal/ui"
)

// Options tune output behavior from root flags.
type Options struct {
	App   *app.App
	Group bool // list grouped by status

	In       io.Reader
	Out, Err io.Writer

	// UI starts the interactive client on a route. Defaults to tui.Run.
	UI func(ctx context.Context, path string) error
}

type runner struct {
	ctx context.Context
	app *app.App
	opt Options
	p   *ui.Printer
	in  *bufio.Reader
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(ctx context.Context, args []string, opt Options) int {
	if opt.In == nil {
		opt.In = os.Stdin
	}
	r := &runner{
		ctx: ctx,
		app: opt.App,
		opt: opt,
		p:   ui.NewPrinter(opt.Out, opt.Err),
		in:  bufio.NewReader(opt.In),
	}
	if r.opt.UI == nil {
		r.opt.UI = func(ctx context.Context, path string) error { return tui.Run(ctx, r.app, path) }
	}

	if len(args) == 0 {
		r.printHelp()
		return 2
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		r.printHelp()
		return 0

	case "register":
		if len(a) > 1 {
			return r.usage("debts register [email]")
		}
		return r.doRegister(a)

	case "login":
		if len(a) > 1 {
			return r.usage("debts login [email]")
		}
		return r.doLogin(a)

	case "logout":
		return r.doLogout()

	case "status":
		return r.doStatus()

	case "whoami":
		return r.doWhoAmI()

	case "ls":
		group := r.opt.Group
		for _, arg := range a {
			if arg != "-g" && arg != "--group" {
				return r.usage("debts ls [--group]")
			}
			group = true
		}
		return r.doList(group)

	case "add":
		title, desc, ok := splitAddArgs(a)
		if !ok {
			return r.usage("debts add <title...> [-d description]")
		}
		return r.doAdd(title, desc)

	case "show":
		if len(a) != 1 {
			return r.usage("debts show <id|index>")
		}
		return r.doShow(a[0])

	case "settle", "reopen", "cancel":
		if len(a) != 1 {
			return r.usage("debts " + cmd + " <id|index>")
		}
		return r.doStatusChange(a[0], statusFor[cmd])

	case "rm":
		if len(a) != 1 {
			return r.usage("debts rm <id|index>")
		}
		return r.doRemove(a[0])

	case "ui":
		if len(a) > 1 {
			return r.usage("debts ui [login|register|dashboard]")
		}
		route := "/dashboard"
		if len(a) == 1 {
			route = a[0]
		}
		if err := r.opt.UI(r.ctx, route); err != nil {
			r.p.Fail("ui: " + err.Error())
			return 1
		}
		return 0
	}

	r.p.Fail("unknown subcommand: " + cmd)
	fmt.Fprintln(r.p.Err)
	r.printHelp()
	return 2
}

func (r *runner) usage(line string) int {
	r.p.Fail("usage: " + line)
	return 2
}

// report prints err and returns the exit code for it.
func (r *runner) report(op string, err error) int {
	if app.IsSignedOut(err) {
		r.p.Fail(op + ": signed out. Run: debts login")
		return 1
	}
	r.p.Fail(op + ": " + err.Error())
	return 1
}

// prompt reads one trimmed line from the input.
func (r *runner) prompt(label string) (string, error) {
	fmt.Fprint(r.p.Out, label)
	line, err := r.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func PrintHelp(w io.Writer) {
	fmt.Fprint(w, `debts - track shared debts from the terminal

Usage:
  debts [--api URL] [--group] [--theme NAME] <subcommand> [args]

Subcommands:
  register [email]             Create an account
  login [email]                Log in and remember the token
  logout                       Forget the token
  status                       Show where the token comes from and what it says
  whoami                       Ask the server who the token belongs to
  ls [--group]                 List your debts, optionally grouped by status
  add <title...> [-d desc]     Record a new debt
  show <id|index>              Show one debt
  settle <id|index>            Mark a debt as settled
  reopen <id|index>            Mark a debt as open again
  cancel <id|index>            Mark a debt as cancelled
  rm <id|index>                Delete a debt
  ui [route]                   Interactive client (login, register, dashboard)

Debts can be referenced by the 1-based index shown by ls or by an id prefix.

Examples:
  debts login ann@example.com
  debts add Dinner at Luigi's -d "split the bill"
  debts ls --group
  debts settle 2
`)
}

func (r *runner) printHelp() { PrintHelp(r.p.Out) }
