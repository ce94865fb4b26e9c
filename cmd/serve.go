package cmd

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/jjenkins/legreview/internal/handlers"
	"github.com/jjenkins/legreview/internal/service"
	"github.com/jjenkins/legreview/internal/store"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the review web server",
	Long: `Start the web server reviewers sign in to.

The users table must be readable at startup; the server refuses to start
otherwise. Dataset files are read when a reviewer first selects them.`,
	Run: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to run the server on")
	if err := v.BindPFlag("port", serveCmd.Flags().Lookup("port")); err != nil {
		log.Fatalf("Failed to bind flag: %v", err)
	}
}

func runServe(cmd *cobra.Command, args []string) {
	cfg := loadConfig(true)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	log.Printf("Connecting to %s backend...", cfg.Backend)
	tables, closeTables, err := openTables(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to backend: %v", err)
	}
	defer closeTables()

	if err := tables.Ping(ctx); err != nil {
		log.Fatalf("Backend unreachable: %v", err)
	}

	users := store.NewUserStore(tables, cfg.UsersTable)
	reviewers, err := users.List(ctx)
	if err != nil {
		log.Fatalf("Failed to read users table: %v", err)
	}
	log.Printf("Loaded %d reviewers", len(reviewers))

	records := newRecordStore(cfg)
	sessions := service.NewSessions(service.Deps{
		Records:  records,
		Cursors:  store.NewCursorStore(tables),
		Verdicts: store.NewVerdictStore(tables),
		Pacing: service.Pacing{
			Cursor:   cfg.Pacing.Cursor,
			Verdicts: cfg.Pacing.Verdicts,
		},
	})

	app := fiber.New(fiber.Config{
		AppName: "Legislation Review",
	})

	app.Use(logger.New())

	handlers.Routes(app, &handlers.Env{
		Tables:   tables,
		Users:    users,
		Catalog:  records.Catalog(),
		Sessions: sessions,
		Store:    handlers.NewSessionStore(cfg.SessionTTL),
	})

	log.Printf("Starting server on :%s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
