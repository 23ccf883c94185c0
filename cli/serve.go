package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"txtransform/api"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(env *cmdEnv) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the preset and transform API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := env.app(cmd, appOptions{})
			if err != nil {
				return err
			}
			ln, err := net.Listen("tcp", a.settings.Listen)
			if err != nil {
				return err
			}
			srv := &http.Server{
				Handler:           api.RegisterRoutes(a.svc, a.registry, a.log.With().Str("component", "http").Logger()),
				ReadHeaderTimeout: 10 * time.Second,
			}
			a.log.Info().
				Str("addr", ln.Addr().String()).
				Str("config_dir", a.settings.Dirs.Config).
				Str("data_dir", a.settings.Dirs.Data).
				Msg("listening")
			return serve(cmd.Context(), srv, ln, a.log)
		},
	}
	cmd.Flags().String("listen", "", "address to listen on (default :8080)")
	return cmd
}

// serve runs srv on ln until ctx is canceled, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server, ln net.Listener, log zerolog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
