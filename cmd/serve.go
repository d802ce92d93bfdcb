package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/xolan/punch/internal/api"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the tracker over a local HTTP API",
	Long: `Start an HTTP server exposing the tracker as JSON, for status bars,
widgets and scripts.

Routes:
  GET  /api/status
  GET  /api/records
  GET  /api/report?from=YYYY-MM-DD&to=YYYY-MM-DD
  POST /api/work
  POST /api/break
  POST /api/toggle
  POST /api/break-add   {"minutes": 30}

The address defaults to listen_addr from the configuration.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		addr, _ := cmd.Flags().GetString("addr")
		serve(cmd.Context(), addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (host:port), overrides listen_addr")
}

// resolveListenAddr returns flagAddr when set, otherwise configured
func resolveListenAddr(flagAddr, configured string) (string, error) {
	addr := configured
	if flagAddr != "" {
		addr = flagAddr
	}
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return "", fmt.Errorf("invalid listen address %q: %w", addr, err)
	}
	return addr, nil
}

func serve(ctx context.Context, flagAddr string) {
	if ctx == nil {
		ctx = context.Background()
	}

	services, ok := bootstrap()
	if !ok {
		return
	}

	addr, err := resolveListenAddr(flagAddr, services.Config.Get().ListenAddr)
	if err != nil {
		fail("Invalid listen address", err, "Use host:port, for example 127.0.0.1:7878")
		return
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           api.NewRouter(api.NewHandler(services.Tracker)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	_, _ = fmt.Fprintf(deps.Stdout, "Serving on http://%s (Ctrl+C to stop)\n", addr)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			fail("Server failed", err, "Check that the address is free: "+addr)
		}
		return
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		fail("Failed to stop server", err, "")
		return
	}
	_, _ = fmt.Fprintln(deps.Stdout, "Server stopped")
}
