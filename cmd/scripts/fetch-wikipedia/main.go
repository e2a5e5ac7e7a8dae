// fetch-wikipedia refreshes encyclopedia topic texts from Wikipedia and
// prints which topics succeeded and failed.
package main

import (
	"fmt"
	"os"

	"github.com/pepysdiary/pepysdiary/pkg/config"
	"github.com/pepysdiary/pepysdiary/pkg/database"
	"github.com/pepysdiary/pepysdiary/pkg/encyclopedia"
	"github.com/pepysdiary/pepysdiary/pkg/search"
	"github.com/pepysdiary/pepysdiary/pkg/wikipedia"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/robinjoseph08/golib/pointerutil"
	"github.com/urfave/cli/v2"
)

func main() {
	log := logger.New()

	app := &cli.App{
		Name:  "fetch-wikipedia",
		Usage: "fetch Wikipedia summaries for encyclopedia topics",
		Flags: []cli.Flag{
			&cli.IntSliceFlag{Name: "id", Usage: "topic ID to fetch (repeatable)"},
			&cli.IntFlag{Name: "num", Usage: "fetch this many topics, least recently fetched first"},
			&cli.BoolFlag{Name: "all", Usage: "fetch every topic with a Wikipedia fragment"},
		},
		Action: func(c *cli.Context) error {
			opts := encyclopedia.FetchWikipediaOptions{
				TopicIDs: c.IntSlice("id"),
				All:      c.Bool("all"),
			}
			if c.IsSet("num") {
				opts.Num = pointerutil.Int(c.Int("num"))
			}
			if !opts.All && opts.Num == nil && len(opts.TopicIDs) == 0 {
				return errors.New("one of --id, --num or --all is required")
			}

			cfg, err := config.New()
			if err != nil {
				return errors.WithStack(err)
			}
			db, err := database.New(cfg)
			if err != nil {
				return errors.WithStack(err)
			}
			defer db.Close()

			svc := encyclopedia.NewService(db, search.NewService(db),
				encyclopedia.WithWikipedia(wikipedia.NewFetcher(cfg.WikipediaAPIURL), cfg.WikipediaFetchDelay))

			ctx := log.WithContext(c.Context)
			result, err := svc.FetchWikipediaTexts(ctx, opts)
			if err != nil {
				return err
			}

			fmt.Printf("Fetched %d topics: %v\n", len(result.Success), result.Success)
			if len(result.Failure) > 0 {
				fmt.Printf("Failed %d topics: %v\n", len(result.Failure), result.Failure)
			}
			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Err(err).Fatal("fetch failed")
	}
}
