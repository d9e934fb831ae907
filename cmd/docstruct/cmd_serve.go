package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dgallion1/docstruct/internal/api"
	"github.com/dgallion1/docstruct/internal/classify"
	"github.com/dgallion1/docstruct/internal/config"
	"github.com/dgallion1/docstruct/internal/pipeline"
	"github.com/dgallion1/docstruct/internal/source"
	"github.com/dgallion1/docstruct/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the extraction HTTP service",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if err := cfg.Validate(); err != nil {
			return err
		}

		profile := config.DefaultProfile()
		path := cfg.ProfilePath
		if profilePath != "" {
			path = profilePath
		}
		if path != "" {
			var err error
			profile, err = config.LoadProfile(path)
			if err != nil {
				return err
			}
		}
		headerRe, err := profile.HeaderRegexp()
		if err != nil {
			return err
		}

		st, err := store.New(cfg.DataDir)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		srcOpts := source.Options{
			Classifier:    classify.NewStyleClassifier(profile.Thresholds()),
			HeaderPattern: headerRe,
		}
		orch := pipeline.NewOrchestrator(cfg, st, srcOpts, log)
		orch.Start(ctx)

		srv := api.NewServer(orch, log, cfg, profile)

		httpServer := &http.Server{
			Addr:         ":" + cfg.Port,
			Handler:      srv,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 120 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		// Graceful shutdown.
		go func() {
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			<-sigCh
			log.Info("shutting down...")

			orch.Stop()

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			httpServer.Shutdown(shutdownCtx)
		}()

		log.Info("starting docstruct", "port", cfg.Port, "data_dir", cfg.DataDir)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	},
}
