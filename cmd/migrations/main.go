package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/pepysdiary/pepysdiary/pkg/config"
	"github.com/pepysdiary/pepysdiary/pkg/database"
	"github.com/pepysdiary/pepysdiary/pkg/migrations"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v2"
)

func main() {
	log := logger.New()

	var db *bun.DB
	migrator := func() *migrate.Migrator {
		return migrations.NewMigrator(db)
	}

	app := &cli.App{
		Name:  "migrations",
		Usage: "manage the diary database schema",
		// The database is only opened for a real command so --help works
		// without any config.
		Before: func(c *cli.Context) error {
			if c.Args().First() == "" || c.Args().First() == "help" {
				return nil
			}
			cfg, err := config.New()
			if err != nil {
				return errors.WithStack(err)
			}
			db, err = database.New(cfg)
			return errors.WithStack(err)
		},
		After: func(*cli.Context) error {
			if db == nil {
				return nil
			}
			return errors.WithStack(db.Close())
		},
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "create the migration bookkeeping tables",
				Action: func(c *cli.Context) error {
					return errors.WithStack(migrator().Init(c.Context))
				},
			},
			{
				Name:  "migrate",
				Usage: "apply every pending migration",
				Action: func(c *cli.Context) error {
					if err := database.CheckFTS5Support(db); err != nil {
						return err
					}

					group, err := migrations.BringUpToDate(c.Context, db)
					if err != nil {
						return err
					}
					if group.ID == 0 {
						fmt.Println("Nothing to migrate")
						return nil
					}
					fmt.Printf("Migrated to %s\n", group)
					return nil
				},
			},
			{
				Name:  "rollback",
				Usage: "roll back the last migration group",
				Action: func(c *cli.Context) error {
					group, err := migrator().Rollback(c.Context)
					if err != nil {
						return errors.WithStack(err)
					}
					if group.ID == 0 {
						fmt.Println("Nothing to roll back")
						return nil
					}
					fmt.Printf("Rolled back %s\n", group)
					return nil
				},
			},
			{
				Name:      "create",
				Usage:     "write a new Go migration file",
				ArgsUsage: "<words of the migration name>",
				Action: func(c *cli.Context) error {
					if c.NArg() == 0 {
						return errors.New("a migration name is required")
					}
					name := strings.Join(c.Args().Slice(), "_")
					mf, err := migrator().CreateGoMigration(c.Context, name, migrate.WithGoTemplate(migrationTemplate))
					if err != nil {
						return errors.WithStack(err)
					}
					fmt.Printf("Created %s (%s)\n", mf.Name, mf.Path)
					return nil
				},
			},
			{
				Name:  "unlock",
				Usage: "release a migration lock left by a crashed process",
				Action: func(c *cli.Context) error {
					return errors.WithStack(migrator().Unlock(c.Context))
				},
			},
			{
				Name:  "status",
				Usage: "list applied and pending migrations",
				Action: func(c *cli.Context) error {
					ms, err := migrator().MigrationsWithStatus(c.Context)
					if err != nil {
						return errors.WithStack(err)
					}
					fmt.Printf("Migrations:           %s\n", ms)
					fmt.Printf("Pending:              %s\n", ms.Unapplied())
					fmt.Printf("Last migration group: %s\n", ms.LastGroup())
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Err(err).Fatal("migrations failed")
	}
}

const migrationTemplate = `package %s

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

func init() {
	up := func(_ context.Context, db *bun.DB) error {
		_, err := db.Exec("")
		return errors.WithStack(err)
	}

	down := func(_ context.Context, db *bun.DB) error {
		_, err := db.Exec("")
		return errors.WithStack(err)
	}

	Migrations.MustRegister(up, down)
}
`
