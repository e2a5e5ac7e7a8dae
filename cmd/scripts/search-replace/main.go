// search-replace swaps one literal string for another across articles, news
// posts and topic summaries. It's a dry run unless --apply is given.
package main

import (
	"fmt"
	"os"

	"github.com/pepysdiary/pepysdiary/pkg/config"
	"github.com/pepysdiary/pepysdiary/pkg/contentfix"
	"github.com/pepysdiary/pepysdiary/pkg/database"
	"github.com/pepysdiary/pepysdiary/pkg/search"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/urfave/cli/v2"
)

func main() {
	log := logger.New()

	app := &cli.App{
		Name:      "search-replace",
		Usage:     "replace a string throughout editorial text",
		ArgsUsage: "<search> <replace>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "apply", Usage: "write the changes instead of reporting them"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return errors.New("expected exactly two arguments: <search> <replace>")
			}
			searchFor, replaceWith := c.Args().Get(0), c.Args().Get(1)
			dryRun := !c.Bool("apply")

			cfg, err := config.New()
			if err != nil {
				return errors.WithStack(err)
			}
			db, err := database.New(cfg)
			if err != nil {
				return errors.WithStack(err)
			}
			defer db.Close()

			ctx := log.WithContext(c.Context)
			report, err := contentfix.New(db).Run(ctx, searchFor, replaceWith, dryRun)
			if err != nil {
				return err
			}

			for _, col := range report.Columns {
				fmt.Printf("%s.%s: %d matches in %d rows %v\n", col.Table, col.Column, col.Matches, len(col.IDs), col.IDs)
			}
			fmt.Printf("Total: %d\n", report.Total())
			if report.Preview != "" {
				fmt.Printf("\nFirst change:\n%s\n", report.Preview)
			}

			if dryRun {
				fmt.Println("Dry run, nothing written. Re-run with --apply to make the changes.")
				return nil
			}
			if report.Total() == 0 {
				return nil
			}

			counts, err := search.NewService(db).RebuildAll(ctx)
			if err != nil {
				return errors.Wrap(err, "rebuilding search index")
			}
			fmt.Printf("Search index rebuilt: %v\n", counts)
			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Err(err).Fatal("search-replace failed")
	}
}
