package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/tnlabs/auth-client-kit/internal/core/domain"
	"github.com/tnlabs/auth-client-kit/internal/core/session"
	"github.com/tnlabs/auth-client-kit/internal/token"
	"github.com/tnlabs/auth-client-kit/internal/ui"
)

// newFlagSet builds a flag set with the transport selector every networked
// subcommand shares.
func newFlagSet(name string, useGraphQL *bool) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.BoolVar(useGraphQL, "graphql", false, "use the GraphQL transport instead of REST")
	return fs
}

// promptPassword reads a password without echo when stdin is a terminal.
func promptPassword(label string) (string, error) {
	fmt.Fprintf(os.Stderr, "%s: ", label)
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", fmt.Errorf("stdin is not a terminal; pass --password")
	}
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(raw), nil
}

func runLogin(args []string) error {
	var (
		useGraphQL bool
		password   string
		rememberMe bool
	)
	fs := newFlagSet("login", &useGraphQL)
	fs.StringVar(&password, "password", "", "password (omit to prompt)")
	fs.BoolVar(&rememberMe, "remember", false, "ask the backend for a long-lived session")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: authctl login <email> [flags]")
	}
	email := fs.Arg(0)

	if password == "" {
		var err error
		if password, err = promptPassword("Password"); err != nil {
			return err
		}
	}

	a, err := newApp(useGraphQL)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.RequestTimeout)
	defer cancel()

	err = a.manager.Login(ctx, domain.LoginCredentials{
		Email:      email,
		Password:   password,
		RememberMe: rememberMe,
	})
	if err != nil {
		fmt.Println(a.styles.Error.Render("login failed"))
		return err
	}

	snap := a.store.Snapshot()
	fmt.Println(a.styles.Success.Render("logged in as " + snap.User.Email))
	return nil
}

func runRegister(args []string) error {
	var (
		useGraphQL bool
		name       string
		password   string
	)
	fs := newFlagSet("register", &useGraphQL)
	fs.StringVar(&name, "name", "", "display name")
	fs.StringVar(&password, "password", "", "password (omit to prompt)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: authctl register <email> --name <name> [flags]")
	}
	email := fs.Arg(0)

	if password == "" {
		var err error
		if password, err = promptPassword("Password"); err != nil {
			return err
		}
	}

	a, err := newApp(useGraphQL)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.RequestTimeout)
	defer cancel()

	err = a.manager.Register(ctx, domain.RegisterCredentials{
		Email:    email,
		Name:     name,
		Password: password,
	})
	if err != nil {
		fmt.Println(a.styles.Error.Render("registration failed"))
		return err
	}

	snap := a.store.Snapshot()
	fmt.Println(a.styles.Success.Render("registered and logged in as " + snap.User.Email))
	return nil
}

func runLogout(args []string) error {
	var useGraphQL bool
	fs := newFlagSet("logout", &useGraphQL)
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := newApp(useGraphQL)
	if err != nil {
		return err
	}
	a.manager.Rehydrate()

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.RequestTimeout)
	defer cancel()

	a.manager.Logout(ctx)
	fmt.Println(a.styles.Success.Render("logged out"))
	return nil
}

func runWhoami(args []string) error {
	var useGraphQL bool
	fs := newFlagSet("whoami", &useGraphQL)
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := newApp(useGraphQL)
	if err != nil {
		return err
	}
	a.manager.Rehydrate()

	if !session.Guard(a.store, a.nav, domain.RouteProfile) {
		return fmt.Errorf("not logged in")
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.RequestTimeout)
	defer cancel()

	user, err := a.me(ctx)
	if err != nil {
		return err
	}
	printUser(a, user)
	return nil
}

func runProfile(args []string) error {
	var (
		useGraphQL bool
		name       string
		avatar     string
	)
	fs := newFlagSet("profile", &useGraphQL)
	fs.StringVar(&name, "name", "", "new display name")
	fs.StringVar(&avatar, "avatar", "", "new avatar URL")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if useGraphQL {
		return fmt.Errorf("profile updates are REST-only")
	}
	if name == "" && avatar == "" {
		return fmt.Errorf("nothing to update: pass --name or --avatar")
	}

	a, err := newApp(false)
	if err != nil {
		return err
	}
	a.manager.Rehydrate()

	if !session.Guard(a.store, a.nav, domain.RouteProfile) {
		return fmt.Errorf("not logged in")
	}

	var update domain.UserUpdate
	if name != "" {
		update.Name = &name
	}
	if avatar != "" {
		update.Avatar = &avatar
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.RequestTimeout)
	defer cancel()

	user, err := a.users.UpdateMe(ctx, update)
	if err != nil {
		return err
	}

	// The store holds whole user records; the update replaces it outright.
	a.store.SetUser(&user)
	if err := a.keys.SetUser(user); err != nil {
		a.log.Error().Err(err).Msg("persist user record")
	}

	fmt.Println(a.styles.Success.Render("profile updated"))
	printUser(a, user)
	return nil
}

func runUsers(args []string) error {
	var (
		useGraphQL bool
		page       int
		pageSize   int
	)
	fs := newFlagSet("users", &useGraphQL)
	fs.IntVar(&page, "page", 1, "page number")
	fs.IntVar(&pageSize, "page-size", 10, "results per page")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !useGraphQL {
		return fmt.Errorf("the user directory is GraphQL-only; pass --graphql")
	}

	a, err := newApp(true)
	if err != nil {
		return err
	}
	a.manager.Rehydrate()

	if !session.Guard(a.store, a.nav, domain.RouteDashboard) {
		return fmt.Errorf("not logged in")
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.RequestTimeout)
	defer cancel()

	result, err := a.dir.Users(ctx, page, pageSize)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "ID\tEMAIL\tNAME\tROLE")
	for _, u := range result.Users {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", u.ID, u.Email, u.Name, u.Role)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Println(a.styles.Muted.Render(fmt.Sprintf(
		"page %d of %d (%d users)", result.Meta.Page, result.Meta.TotalPages, result.Meta.Total)))
	return nil
}

func runToken(args []string) error {
	var useGraphQL bool
	fs := newFlagSet("token", &useGraphQL)
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := newApp(useGraphQL)
	if err != nil {
		return err
	}

	raw := a.keys.AccessToken()
	if raw == "" {
		return fmt.Errorf("no stored access token")
	}

	claims := token.Decode(raw)
	if claims == nil {
		return fmt.Errorf("stored access token is malformed")
	}

	s := a.styles
	fmt.Println(s.Title.Render("Access token"))
	fmt.Printf("%s %s\n", s.Label.Render("subject:"), s.Value.Render(claims.Subject))
	fmt.Printf("%s %s\n", s.Label.Render("email:  "), s.Value.Render(claims.Email))
	fmt.Printf("%s %s\n", s.Label.Render("role:   "), s.Value.Render(claims.Role))
	fmt.Printf("%s %s\n", s.Label.Render("expires:"), s.Value.Render(claims.ExpiresAt.Format(time.RFC3339)))

	switch {
	case token.IsExpired(raw):
		fmt.Println(s.Error.Render("token is expired"))
	case token.IsExpiringSoon(raw, token.DefaultExpiryThreshold):
		fmt.Println(s.Muted.Render("token expires soon"))
	}
	return nil
}

func runTheme(args []string) error {
	fs := pflag.NewFlagSet("theme", pflag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := newApp(false)
	if err != nil {
		return err
	}

	if fs.NArg() == 0 {
		fmt.Println(string(ui.LoadTheme(a.keys)))
		return nil
	}

	t := ui.Theme(fs.Arg(0))
	if err := ui.SaveTheme(a.keys, t); err != nil {
		return err
	}
	fmt.Println(a.styles.Success.Render("theme set to " + string(t)))
	return nil
}

// me fetches the profile over whichever transport the app carries.
func (a *app) me(ctx context.Context) (domain.User, error) {
	if a.dir != nil {
		return a.dir.Me(ctx)
	}
	return a.users.Me(ctx)
}

func printUser(a *app, u domain.User) {
	s := a.styles
	fmt.Println(s.Title.Render(u.Name))
	fmt.Printf("%s %s\n", s.Label.Render("id:   "), s.Value.Render(u.ID))
	fmt.Printf("%s %s\n", s.Label.Render("email:"), s.Value.Render(u.Email))
	fmt.Printf("%s %s\n", s.Label.Render("role: "), s.Value.Render(u.Role))
	if u.Avatar != "" {
		fmt.Printf("%s %s\n", s.Label.Render("avatar:"), s.Value.Render(u.Avatar))
	}
}
