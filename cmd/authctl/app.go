package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/tnlabs/auth-client-kit/internal/core/domain"
	"github.com/tnlabs/auth-client-kit/internal/core/ports"
	"github.com/tnlabs/auth-client-kit/internal/core/session"
	"github.com/tnlabs/auth-client-kit/internal/infrastructure/graphql"
	"github.com/tnlabs/auth-client-kit/internal/infrastructure/keystore"
	"github.com/tnlabs/auth-client-kit/internal/infrastructure/rest"
	"github.com/tnlabs/auth-client-kit/internal/pkg/config"
	"github.com/tnlabs/auth-client-kit/internal/ui"
	"github.com/tnlabs/auth-client-kit/pkg/logger"
)

// app holds the wired client stack shared by all subcommands.
type app struct {
	cfg     *config.Config
	log     zerolog.Logger
	keys    ports.Keystore
	store   *session.Store
	manager *session.Manager
	users   ports.UserAPI
	dir     ports.UserDirectory
	styles  ui.Styles
	nav     *cliNavigator
}

// cliNavigator maps view transitions onto terminal output. Replace marks
// redirects the session layer forced, Push ordinary forward navigation.
type cliNavigator struct {
	styles ui.Styles
}

func (n *cliNavigator) Push(route domain.Route) {
	fmt.Fprintln(os.Stderr, n.styles.Muted.Render("→ "+string(route)))
}

func (n *cliNavigator) Replace(route domain.Route) {
	fmt.Fprintln(os.Stderr, n.styles.Muted.Render("⇒ "+string(route)))
}

// deferredListener breaks the construction cycle between the transports and
// the session manager: the transports are built first with this listener,
// the manager is attached once it exists.
type deferredListener struct {
	m *session.Manager
}

func (d *deferredListener) AuthFailure(reason error) {
	if d.m != nil {
		d.m.AuthFailure(reason)
	}
}

// newApp wires the full client stack. useGraphQL selects the transport the
// auth and user calls ride on; both speak to the same backend.
func newApp(useGraphQL bool) (*app, error) {
	cfg := config.Load()
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true})

	keys, err := keystore.NewFile(cfg.StateDir)
	if err != nil {
		return nil, fmt.Errorf("open keystore: %w", err)
	}

	styles := ui.NewStyles(ui.LoadTheme(keys))
	nav := &cliNavigator{styles: styles}
	store := session.NewStore()
	listener := &deferredListener{}

	var (
		authAPI ports.AuthAPI
		userAPI ports.UserAPI
		dirAPI  ports.UserDirectory
	)
	if useGraphQL {
		client := graphql.NewClient(graphql.Options{
			Endpoint:    cfg.GraphQLEndpoint,
			Timeout:     cfg.RequestTimeout,
			Keystore:    keys,
			AuthFailure: listener,
			Logger:      log,
		})
		authAPI = graphql.NewAuthService(client)
		dirAPI = graphql.NewUserService(client)
	} else {
		client, err := rest.NewClient(rest.Options{
			BaseURL:     cfg.APIBaseURL,
			Timeout:     cfg.RequestTimeout,
			Keystore:    keys,
			AuthFailure: listener,
			Logger:      log,
		})
		if err != nil {
			return nil, err
		}
		authAPI = rest.NewAuthService(client)
		userAPI = rest.NewUserService(client)
	}

	manager := session.NewManager(store, keys, authAPI, nav, log)
	listener.m = manager

	return &app{
		cfg:     cfg,
		log:     log,
		keys:    keys,
		store:   store,
		manager: manager,
		users:   userAPI,
		dir:     dirAPI,
		styles:  styles,
		nav:     nav,
	}, nil
}
