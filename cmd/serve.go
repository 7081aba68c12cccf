package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"bulkcat/internal/apihandlers"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	serveAddr string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run bulkcat as an HTTP API server",
	Long: `Starts an HTTP server exposing the post filter view, the category list and
the bulk move operation. Stops gracefully on interrupt.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		cfg := appInstance.Config
		if cmd.Flags().Changed("addr") {
			cfg.Server.Addr = serveAddr
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = servePort
		}

		gin.SetMode(gin.ReleaseMode)
		srv := &http.Server{
			Addr:         cfg.ListenAddr(),
			Handler:      apihandlers.NewRouter(appInstance),
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		}

		errCh := make(chan error, 1)
		go func() {
			log.Infof("Starting bulkcat API server on http://%s", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("failed to run API server: %w", err)
			}
			return nil
		case <-cmd.Context().Done():
		}

		log.Info("Shutdown signal received. Draining HTTP server...")
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		log.Info("bulkcat API server stopped.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "127.0.0.1", "Address to listen on (e.g., '0.0.0.0' for all interfaces)")
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
}
