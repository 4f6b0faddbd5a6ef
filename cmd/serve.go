package cmd

import (
	"context"
	"log"
	"net"
	"net/http"
	"os"
	"time"

	"likedposts/app/client"
	"likedposts/app/config"
	"likedposts/app/controllers"
	"likedposts/app/routes"
	"likedposts/app/views"

	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the liked posts web view and JSON API",
	Args:  cobra.NoArgs,
	RunE:  serve,
}

func init() {
	RootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("addr", "a", "", "listen address (default from config)")
}

func serve(cmd *cobra.Command, args []string) error {
	configureLogging(cfg.LogFile, os.Stderr)

	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = cfg.Addr
	}

	s, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	handler, err := newHandler(cfg, s)
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "listen on %s", addr)
	}
	log.Printf("Serving liked posts on %s (backend %s)", ln.Addr(), cfg.APIBaseURL)

	return runServer(cmd.Context(), &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}, ln)
}

func newHandler(cfg *config.Config, s *store) (http.Handler, error) {
	renderer, err := views.NewRenderer()
	if err != nil {
		return nil, err
	}

	fetcherFor := func(tokens client.TokenSource) client.Fetcher {
		return newClient(cfg, tokens)
	}

	return routes.SetupRoutes(routes.Deps{
		Liked:          controllers.NewLikedController(fetcherFor, s.sessions, renderer, cfg.PageSize),
		Sessions:       controllers.NewSessionController(s.sessions, renderer, cfg.SessionTTL),
		AllowedOrigins: cfg.AllowedOrigins,
		Health: func() error {
			if s.db.IsClosed() {
				return badger.ErrDBClosed
			}
			return nil
		},
	}), nil
}

// runServer serves on ln until ctx is done, then drains in-flight requests.
func runServer(ctx context.Context, srv *http.Server, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}

	log.Println("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown")
	}
	return nil
}
