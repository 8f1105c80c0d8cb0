package cli

import (
	"context"
	"delivery-scheduler/internal/api"
	"delivery-scheduler/internal/services"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newServeCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Route the day and serve package status over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			s, res, err := route(ctx, o)
			if err != nil {
				return err
			}

			router := api.NewRouter(services.NewReporter(s, res), res)
			srv := &http.Server{
				Addr:              o.httpAddr,
				Handler:           router,
				ReadHeaderTimeout: 5 * time.Second,
				ReadTimeout:       10 * time.Second,
				WriteTimeout:      30 * time.Second,
				IdleTimeout:       60 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logrus.WithFields(logrus.Fields{"addr": o.httpAddr, "run_id": res.RunID}).Info("server listening")
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return fmt.Errorf("serve: %w", err)
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), o.settings.ShutdownTimeout)
			defer cancel()
			logrus.Info("shutting down")
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("serve: shutdown: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&o.httpAddr, "addr", o.settings.HTTPAddr, "Listen address")
	return cmd
}
