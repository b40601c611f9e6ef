package main

import (
	"errors"
	"fmt"

	"smartapp-notes/smartapp/config"
	"smartapp-notes/smartapp/database"
	"smartapp-notes/smartapp/forms"
	"smartapp-notes/smartapp/services"

	"github.com/spf13/cobra"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			log, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer log.Close()

			db, err := database.Setup(cfg, log)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer db.Close()

			if err := database.RunMigrations(db.DB); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Migrations completed successfully")
			return nil
		},
	}
}

func newUserCommand() *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "User management commands",
	}

	createUserCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new user",
		RunE: func(cmd *cobra.Command, args []string) error {
			username, _ := cmd.Flags().GetString("username")
			password, _ := cmd.Flags().GetString("password")
			return createUser(cmd, config.Load(), username, password)
		},
	}
	createUserCmd.Flags().String("username", "", "Username (required)")
	createUserCmd.Flags().String("password", "", "Password, at least 8 characters (required)")
	_ = createUserCmd.MarkFlagRequired("username")
	_ = createUserCmd.MarkFlagRequired("password")

	userCmd.AddCommand(createUserCmd)
	return userCmd
}

func createUser(cmd *cobra.Command, cfg config.Config, username, password string) error {
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Close()

	db, err := database.Setup(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db.DB); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	authService := services.NewAuthService(cfg.JWTSecret, cfg.JWTExpirationHours, services.UserServiceInstance)
	user, err := authService.Register(db, forms.RegisterInput{Username: username, Password: password})
	if err != nil {
		if errors.Is(err, forms.ErrValidation) {
			return fmt.Errorf("invalid user: %w", err)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "User created: %s (%s)\n", user.Username, user.ID)
	return nil
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "smartapp %s\n", version)
		},
	}
}
