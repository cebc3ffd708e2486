package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tablekit/quicklinks/internal/server"
)

var (
	servePort     int
	serveAllowAll bool
	serveNoReload bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the editor and viewer web server",
	Long: `Starts an HTTP server with the adventure index, the viewer pages, the form
editor and the adventure API. Open viewers reload when their adventure
file changes on disk.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Port = servePort
		}
		if cmd.Flags().Changed("allow-all-origins") {
			cfg.AllowAllOrigins = serveAllowAll
		}
		if serveNoReload {
			cfg.Viewer.LiveReload = false
		}

		pdfs, err := openPDFs(cfg)
		if err != nil {
			return err
		}
		renderer, err := createRendererFromConfig(cfg)
		if err != nil {
			return err
		}
		st := openStore(cfg)

		srv := server.New(server.Config{
			Port:       cfg.Port,
			AllowAll:   cfg.AllowAllOrigins,
			LiveReload: cfg.Viewer.LiveReload,
		}, st, renderer, pdfs)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := srv.WatchAdventures(ctx); err != nil {
			return fmt.Errorf("starting live reload: %w", err)
		}

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		fmt.Fprintf(os.Stderr, "quicklinks server v%s starting on port %d\n", Version, cfg.Port)
		fmt.Fprintf(os.Stderr, "  Adventures: %s\n", st.Dir())
		fmt.Fprintf(os.Stderr, "  PDF: %s\n", pdfs.Default().Path)
		fmt.Fprintf(os.Stderr, "  Editor: http://localhost:%d/editor\n", cfg.Port)

		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().BoolVar(&serveAllowAll, "allow-all-origins", false, "allow all CORS origins (dev mode)")
	serveCmd.Flags().BoolVar(&serveNoReload, "no-reload", false, "disable live reload")
	rootCmd.AddCommand(serveCmd)
}
