package main

import (
	"CaseTrack/internal/config"
	"CaseTrack/internal/repo"
	"CaseTrack/internal/service"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var dsn string

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "casectl",
		Short:        "CaseTrack operations CLI",
		Long:         `casectl runs one-off maintenance tasks against the CaseTrack database: schema migration and admin provisioning.`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVarP(&dsn, "dsn", "d", "", "database DSN (defaults to DATABASE_URI)")
	cmd.AddCommand(
		newMigrateCmd(),
		newCreateAdminCmd(),
	)
	return cmd
}

func openDB() (*gorm.DB, error) {
	cfg := config.FromEnv()
	if dsn != "" {
		cfg.DatabaseDSN = dsn
	}
	// InitDB сам выполняет миграцию схемы
	return repo.InitDB(cfg.DatabaseDSN)
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := openDB(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
			return nil
		},
	}
}

func newCreateAdminCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create the admin user if it does not exist yet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromEnv()
			if email == "" {
				email = cfg.AdminEmail
			}
			if password == "" {
				password = cfg.AdminPassword
			}
			if email == "" || password == "" {
				return errors.New("--email and --password (or ADMIN_EMAIL/ADMIN_PASSWORD) are required")
			}
			db, err := openDB()
			if err != nil {
				return err
			}
			created, err := service.NewUserService(repo.NewUserRepository(db)).EnsureAdmin(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "Admin user %s created successfully\n", email)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Admin user %s already exists\n", email)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "admin email")
	cmd.Flags().StringVar(&password, "password", "", "admin password")
	return cmd
}
