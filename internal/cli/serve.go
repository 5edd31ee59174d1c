package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vocabtutor/amas/internal/api"
	"github.com/vocabtutor/amas/internal/config"
	"github.com/vocabtutor/amas/internal/engine"
	"github.com/vocabtutor/amas/internal/infra/sqlite"
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("addr", "a", ":8080", "HTTP listen address")
	serveCmd.Flags().StringP("config", "c", "", "Path to TOML config file (defaults baked in if omitted)")
	serveCmd.Flags().StringP("db", "d", "amas.db", "Path to the SQLite state database")
	serveCmd.Flags().Bool("metrics", true, "Mount /metrics (Prometheus)")
	serveCmd.Flags().Duration("stale-after", time.Hour, "Evict cached users idle longer than this")
	serveCmd.Flags().Duration("cleanup-interval", 10*time.Minute, "How often to sweep for stale cached users")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the AMAS HTTP daemon",
	Long:  `Boot the engine, open the SQLite state store, and serve the event/state/strategy API over HTTP.`,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	addr, _ := cmd.Flags().GetString("addr")
	configPath, _ := cmd.Flags().GetString("config")
	dbPath, _ := cmd.Flags().GetString("db")
	metricsEnabled, _ := cmd.Flags().GetBool("metrics")
	staleAfter, _ := cmd.Flags().GetDuration("stale-after")
	cleanupInterval, _ := cmd.Flags().GetDuration("cleanup-interval")

	cfg := config.DefaultConfig()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	db, err := sqlite.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open state database: %w", err)
	}
	defer db.Close()

	e := engine.New(cfg, db, nil)

	srv := api.NewServer(e, configPath)
	if metricsEnabled {
		srv.EnableMetrics()
	}

	httpServer := &http.Server{
		Addr:    addr,
		Handler: srv.Handler(),
	}

	parentCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, gctx := errgroup.WithContext(parentCtx)

	g.Go(func() error {
		fmt.Fprintf(os.Stdout, "amasd: listening on %s (db=%s)\n", addr, dbPath)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		runCleanupLoop(gctx, e, cleanupInterval, staleAfter)
		return nil
	})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case sig := <-sigCh:
			if sig == syscall.SIGHUP {
				if configPath == "" {
					fmt.Fprintln(os.Stderr, "amasd: SIGHUP received but no --config path was given, ignoring")
					continue
				}
				reloaded, err := config.Load(configPath)
				if err != nil {
					fmt.Fprintf(os.Stderr, "amasd: config reload failed: %v\n", err)
					continue
				}
				e.ReloadConfig(reloaded)
				fmt.Fprintln(os.Stdout, "amasd: config reloaded")
				continue
			}

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			err := httpServer.Shutdown(shutdownCtx)
			shutdownCancel()
			cancel()
			if waitErr := g.Wait(); waitErr != nil && err == nil {
				err = waitErr
			}
			return err

		case <-gctx.Done():
			// One of the coordinated goroutines failed; tear the other
			// down and surface whichever error caused it.
			cancel()
			_ = httpServer.Shutdown(context.Background())
			return g.Wait()
		}
	}
}

func runCleanupLoop(ctx context.Context, e *engine.Engine, interval, maxAge time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			e.CleanupStaleUsers(maxAge)
		case <-ctx.Done():
			return
		}
	}
}
