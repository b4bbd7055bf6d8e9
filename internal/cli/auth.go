package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/x/term"
	"github.com/golang-jwt/jwt/v5"

	"github.com/Makepad-fr/debts/internal/model"
	"github.com/Makepad-fr/debts/internal/store/tokenstore"
	"github.com/Makepad-fr/debts/internal/tui"
	"github.com/Makepad-fr/debts/internal/ui"
)

// readPassword reads without echo on a terminal and falls back to a plain
// line otherwise (pipes, tests).
func (r *runner) readPassword(label string) (string, error) {
	if f, ok := r.opt.In.(*os.File); ok && term.IsTerminal(f.Fd()) {
		fmt.Fprint(r.p.Out, label)
		b, err := term.ReadPassword(f.Fd())
		fmt.Fprintln(r.p.Out)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	return r.prompt(label)
}

func (r *runner) readCredentials(args []string) (model.Credentials, bool) {
	var creds model.Credentials
	if len(args) == 1 {
		creds.Email = strings.TrimSpace(args[0])
	} else {
		email, err := r.prompt("Email: ")
		if err != nil {
			r.p.Fail("read email: " + err.Error())
			return creds, false
		}
		creds.Email = email
	}
	password, err := r.readPassword("Password: ")
	if err != nil {
		r.p.Fail("read password: " + err.Error())
		return creds, false
	}
	creds.Password = password
	return creds, true
}

func (r *runner) doRegister(args []string) int {
	creds, ok := r.readCredentials(args)
	if !ok {
		return 1
	}
	user, err := r.app.Register(r.ctx, creds)
	if err != nil {
		return r.report("register", err)
	}
	r.p.OK("account created for " + user.Email)
	r.p.Println(ui.Current().Muted.Render("Next: debts login " + user.Email))
	return 0
}

func (r *runner) doLogin(args []string) int {
	if r.app.TokenSource() == tokenstore.SourceEnv {
		r.p.Fail(tui.EnvTokenMessage)
		return 1
	}
	creds, ok := r.readCredentials(args)
	if !ok {
		return 1
	}
	if err := r.app.Login(r.ctx, creds); err != nil {
		return r.report("login", err)
	}
	r.p.OK("logged in")
	return 0
}

func (r *runner) doLogout() int {
	if r.app.TokenSource() == tokenstore.SourceEnv {
		r.p.OK("token is provided by DEBTS_TOKEN env var (nothing to delete)")
		return 0
	}
	if err := r.app.Logout(r.ctx); err != nil {
		return r.report("logout", err)
	}
	r.p.OK("logged out")
	return 0
}

// requireToken returns the stored token or prints the login hint.
func (r *runner) requireToken() (string, int) {
	token, ok, err := r.app.Token(r.ctx)
	if err != nil {
		return "", r.report("token", err)
	}
	if !ok {
		r.p.Fail("not logged in. Run: debts login")
		return "", 2
	}
	return token, 0
}

func (r *runner) doStatus() int {
	token, ok, err := r.app.Token(r.ctx)
	if err != nil {
		return r.report("status", err)
	}
	t := ui.Current()
	r.p.Printf("api:    %s\n", r.app.APIURL())
	if !ok {
		r.p.Println(t.Muted.Render("not logged in"))
		r.p.Println("Run: debts login")
		return 0
	}
	r.p.Printf("source: %s\n", r.app.TokenSource())

	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		r.p.Println("token:  opaque (cannot introspect locally)")
	} else {
		if claims.Subject != "" {
			r.p.Printf("user:   %s\n", claims.Subject)
		}
		if claims.IssuedAt != nil {
			r.p.Printf("issued: %s\n", claims.IssuedAt.UTC().Format(time.RFC3339))
		}
		if claims.ExpiresAt != nil {
			r.p.Printf("expires: %s\n", claims.ExpiresAt.UTC().Format(time.RFC3339))
		} else {
			r.p.Println("expires: (unknown)")
		}
	}
	r.p.Println(t.Muted.Render("env override: DEBTS_TOKEN"))
	return 0
}

func (r *runner) doWhoAmI() int {
	token, code := r.requireToken()
	if code != 0 {
		return code
	}
	user, err := r.app.Me(r.ctx, token)
	if err != nil {
		return r.report("whoami", err)
	}
	r.p.Panel([]string{
		ui.Current().Title.Render(user.Email),
		ui.Current().Muted.Render("id: ") + user.ID,
	})
	return 0
}
