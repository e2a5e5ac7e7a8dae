package server

import (
	"github.com/pepysdiary/pepysdiary/pkg/akismet"
	"github.com/pepysdiary/pepysdiary/pkg/annotations"
	"github.com/pepysdiary/pepysdiary/pkg/config"
	"github.com/pepysdiary/pepysdiary/pkg/diary"
	"github.com/pepysdiary/pepysdiary/pkg/encyclopedia"
	"github.com/pepysdiary/pepysdiary/pkg/indepth"
	"github.com/pepysdiary/pepysdiary/pkg/joblogs"
	"github.com/pepysdiary/pepysdiary/pkg/jobs"
	"github.com/pepysdiary/pepysdiary/pkg/letters"
	"github.com/pepysdiary/pepysdiary/pkg/news"
	"github.com/pepysdiary/pepysdiary/pkg/search"
	"github.com/pepysdiary/pepysdiary/pkg/wikipedia"
	"github.com/uptrace/bun"
)

// Services holds one instance of every feature service, shared by the HTTP
// server and the worker.
type Services struct {
	Search       *search.Service
	Encyclopedia *encyclopedia.Service
	Annotations  *annotations.Service
	Diary        *diary.Service
	Letters      *letters.Service
	Articles     *indepth.Service
	Posts        *news.Service
	Jobs         *jobs.Service
	JobLogs      *joblogs.Service
}

func NewServices(cfg *config.Config, db *bun.DB) *Services {
	searchService := search.NewService(db)

	var annotationOpts []annotations.Option
	if cfg.UseSpamCheck && cfg.AkismetAPIKey != "" {
		client := akismet.NewClient(cfg.AkismetAPIKey, cfg.AkismetBaseURL, cfg.SiteURL)
		annotationOpts = append(annotationOpts, annotations.WithSpamChecker(client, cfg.SiteURL))
	}

	return &Services{
		Search: searchService,
		Encyclopedia: encyclopedia.NewService(db, searchService,
			encyclopedia.WithWikipedia(wikipedia.NewFetcher(cfg.WikipediaAPIURL), cfg.WikipediaFetchDelay)),
		Annotations: annotations.NewService(db, searchService, annotationOpts...),
		Diary:       diary.NewService(db, searchService, cfg.SiteURL),
		Letters:     letters.NewService(db, searchService),
		Articles:    indepth.NewService(db, searchService),
		Posts:       news.NewService(db, searchService),
		Jobs:        jobs.NewService(db),
		JobLogs:     joblogs.NewService(db),
	}
}
