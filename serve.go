package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aminshennan/portfolio/internal/config"
	"github.com/aminshennan/portfolio/internal/i18n"
	"github.com/aminshennan/portfolio/internal/storage"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	servePort   string
	serveWatch  bool
	serveStrict bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the portfolio web server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "", "Listen port (overrides PORT)")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "Reload catalogs when files in the locales directory change")
	serveCmd.Flags().BoolVar(&serveStrict, "strict", false, "Sort undated timeline entries last")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort != "" {
		cfg.Port = servePort
	}
	if serveWatch {
		cfg.WatchLocales = true
	}
	if serveStrict {
		cfg.StrictTimeline = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	tree, err := loadTree(cfg)
	if err != nil {
		return err
	}
	catalog := i18n.NewCatalog(tree)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := storage.Open(ctx, cfg.DatabasePath, randomToken())
	if err != nil {
		// The site still works without visitor metrics.
		log.Printf("Failed to initialize database: %v", err)
		db = nil
	} else {
		defer db.Close()
	}
	if db == nil && cfg.PreferenceBackend == config.BackendSQLite {
		log.Printf("PREFERENCE_BACKEND=sqlite unavailable, using cookies")
	}

	if cfg.WatchLocales {
		w, err := i18n.NewWatcher(cfg.LocalesDir, catalog, func(_ i18n.Tree, err error) {
			if err != nil {
				log.Printf("Catalog reload failed, keeping previous catalogs: %v", err)
				return
			}
			log.Printf("Catalogs reloaded from %s", cfg.LocalesDir)
		})
		if err != nil {
			return err
		}
		if err := w.Start(); err != nil {
			return err
		}
		defer w.Stop()
	}

	s := newSite(cfg, catalog, db)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("Listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if db != nil {
		g.Go(func() error {
			cleanupVisits(ctx, db, cfg.VisitorRetention)
			return nil
		})
	}
	err = g.Wait()
	// Deferred db.Close runs after pending visits are written.
	s.visits.Wait()
	return err
}

// cleanupVisits drops expired visits once at startup and then daily.
func cleanupVisits(ctx context.Context, db *storage.DB, retention time.Duration) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	for {
		if removed, err := db.CleanupVisits(ctx, retention); err != nil {
			log.Printf("Error cleaning up old visitor data: %v", err)
		} else if removed > 0 {
			log.Printf("Cleaned up %d old visitor records", removed)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
