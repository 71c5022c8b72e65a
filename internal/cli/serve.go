package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/electoral/internal/server"
	"github.com/matzehuels/electoral/pkg/dashboard"
	"github.com/matzehuels/electoral/pkg/errors"
	"github.com/matzehuels/electoral/pkg/session"
)

const (
	storeMemory = "memory"
	storeFile   = "file"
)

// serveCommand runs the HTTP server until interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		store   string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the interactive dashboard over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			if cmd.Flags().Changed("addr") {
				c.Config.Server.Addr = addr
			}

			runner, err := c.newRunner(ctx, noCache, false)
			if err != nil {
				return err
			}
			defer runner.Close()

			sessions, err := newSessionStore(store)
			if err != nil {
				return err
			}
			width := c.Config.Render.Width
			mgr := session.NewManager(sessions, func() *dashboard.Dashboard {
				return dashboard.New(runner,
					dashboard.WithWidth(width),
					dashboard.WithLogger(logger.WithPrefix("dashboard")))
			}, c.Config.Server.SessionTTL.Duration)
			mgr.SetLogger(logger.WithPrefix("sessions"))
			go mgr.Run(ctx, session.DefaultCleanupInterval)

			srv := server.New(server.Config{
				Addr:        c.Config.Server.Addr,
				CORSOrigins: c.Config.Server.CORSOrigins,
				Width:       width,
				Logger:      logger,
				Runner:      runner,
				Sessions:    mgr,
			})

			errc := make(chan error, 1)
			go func() { errc <- srv.Start() }()
			printInfo("Serving %s on %s", c.Config.Data.Source, StyleLink.Render(displayAddr(srv.Addr())))

			select {
			case err := <-errc:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return err
			}
			return ctx.Err()
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&store, "sessions", storeMemory, "session store: memory or file")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}

func newSessionStore(kind string) (session.Store, error) {
	switch kind {
	case storeMemory:
		return session.NewMemoryStore(), nil
	case storeFile:
		return session.NewFileStore("")
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "unknown session store %q (want memory or file)", kind)
}

// displayAddr turns a listen address into a browsable URL.
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "http://localhost" + addr
	}
	return "http://" + addr
}
