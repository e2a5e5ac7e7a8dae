// reorder-titles recomputes the automatic order title of every encyclopedia
// topic, for use after the ordering rules change.
package main

import (
	"fmt"
	"os"

	"github.com/pepysdiary/pepysdiary/pkg/config"
	"github.com/pepysdiary/pepysdiary/pkg/database"
	"github.com/pepysdiary/pepysdiary/pkg/encyclopedia"
	"github.com/pepysdiary/pepysdiary/pkg/search"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/urfave/cli/v2"
)

func main() {
	log := logger.New()

	app := &cli.App{
		Name:  "reorder-titles",
		Usage: "recompute encyclopedia order titles",
		Action: func(c *cli.Context) error {
			cfg, err := config.New()
			if err != nil {
				return errors.WithStack(err)
			}
			db, err := database.New(cfg)
			if err != nil {
				return errors.WithStack(err)
			}
			defer db.Close()

			svc := encyclopedia.NewService(db, search.NewService(db))
			changed, err := svc.ReorderTitles(log.WithContext(c.Context))
			if err != nil {
				return err
			}
			fmt.Printf("Updated %d topics\n", changed)
			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Err(err).Fatal("reorder failed")
	}
}
