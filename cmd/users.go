package cmd

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/jjenkins/legreview/internal/model"
	"github.com/jjenkins/legreview/internal/store"
	"github.com/spf13/cobra"
)

var userPassword string

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage reviewer accounts",
}

var usersAddCmd = &cobra.Command{
	Use:   "add <username>",
	Short: "Add a reviewer to the users table",
	Long: `Add appends a Username/Password row to the users table, creating the
table if it does not exist yet.`,
	Args: cobra.ExactArgs(1),
	Run:  runUsersAdd,
}

func init() {
	rootCmd.AddCommand(usersCmd)
	usersCmd.AddCommand(usersAddCmd)
	usersAddCmd.Flags().StringVar(&userPassword, "password", "", "Password for the reviewer")
}

func runUsersAdd(cmd *cobra.Command, args []string) {
	cfg := loadConfig(true)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	tables, closeTables, err := openTables(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to backend: %v", err)
	}
	defer closeTables()

	users := store.NewUserStore(tables, cfg.UsersTable)
	err = users.Add(ctx, model.Reviewer{Username: args[0], Password: userPassword})
	if errors.Is(err, store.ErrReviewerExists) {
		log.Fatalf("Reviewer %q already exists", args[0])
	}
	if err != nil {
		log.Fatalf("Failed to add reviewer: %v", err)
	}

	log.Printf("Added reviewer %s", args[0])
}
