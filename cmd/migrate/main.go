package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/pkg/database"
	"github.com/CounsellorPrenuer/Samir-Kumar-sub000/pkg/utils"

	"github.com/golang-migrate/migrate/v4"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "migrate",
		Short:         "Manage the checkout database schema",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrator(cmd, func(m *migrate.Migrate) error {
					if err := m.Up(); err != nil {
						if errors.Is(err, migrate.ErrNoChange) {
							cmd.Println("No change: schema is up to date")
							return nil
						}
						return err
					}
					cmd.Println("Migrations applied")
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "down [steps]",
			Short: "Roll back migrations (default 1 step)",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				steps := 1
				if len(args) == 1 {
					n, err := strconv.Atoi(args[0])
					if err != nil || n < 1 {
						return fmt.Errorf("invalid step count %q", args[0])
					}
					steps = n
				}
				return withMigrator(cmd, func(m *migrate.Migrate) error {
					if err := m.Steps(-steps); err != nil {
						return err
					}
					cmd.Printf("Rolled back %d migration(s)\n", steps)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrator(cmd, func(m *migrate.Migrate) error {
					version, dirty, err := m.Version()
					if errors.Is(err, migrate.ErrNilVersion) {
						cmd.Println("No migrations applied yet")
						return nil
					}
					if err != nil {
						return err
					}
					suffix := ""
					if dirty {
						suffix = " (dirty)"
					}
					cmd.Printf("Current version: %d%s\n", version, suffix)
					return nil
				})
			},
		},
	)

	return root
}

func withMigrator(cmd *cobra.Command, fn func(m *migrate.Migrate) error) error {
	config, err := utils.LoadConfig()
	if err != nil {
		return err
	}

	url, err := database.MigrationURL(config.Database)
	if err != nil {
		return err
	}

	m, err := database.NewMigrator(config.Database.Driver, url)
	if err != nil {
		return err
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			cmd.PrintErrf("close migrator: %v, %v\n", srcErr, dbErr)
		}
	}()

	cmd.Printf("Using %s database\n", config.Database.Driver)
	return fn(m)
}
