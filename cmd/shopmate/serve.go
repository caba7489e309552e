package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	html "github.com/gofiber/template/html/v2"
	"github.com/spf13/cobra"

	"shopmate/internal/config"
	"shopmate/internal/http/handlers"
	"shopmate/internal/repos"
	"shopmate/internal/shopclient"
)

var reloadTemplates bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web shop and chat API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		// Optional file logging
		if cfg.LogFile != "" {
			f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
			if err != nil {
				log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
			} else {
				defer f.Close()
				log.SetOutput(io.MultiWriter(os.Stdout, f))
			}
		}

		db, err := repos.OpenDB(cfg.DBDSN)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer db.Close()

		engine := html.New(cfg.TemplatesDir, ".html")
		engine.Reload(reloadTemplates)

		client := shopclient.New(cfg.BackendURL, cfg.RequestTimeout)
		deps := handlers.NewDeps(db, cfg, client)
		app := handlers.NewApp(deps, engine)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errc := make(chan error, 1)
		go func() { errc <- app.Listen(":" + cfg.Port) }()

		select {
		case err := <-errc:
			return err
		case <-ctx.Done():
			log.Printf("[server] shutting down")
			sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return app.ShutdownWithContext(sctx)
		}
	},
}

func init() {
	serveCmd.Flags().BoolVar(&reloadTemplates, "reload", false, "reload templates on every render")
}
