package migrations

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

func init() {
	up := func(_ context.Context, db *bun.DB) error {
		statements := []string{
			`CREATE TABLE jobs (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				type TEXT NOT NULL,
				status TEXT NOT NULL,
				data TEXT NOT NULL,
				result TEXT,
				process_id TEXT
			)`,
			`CREATE INDEX ix_jobs_status_created_at ON jobs (status, created_at)`,

			`CREATE TABLE categories (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				title TEXT NOT NULL,
				slug TEXT NOT NULL,
				path TEXT NOT NULL,
				depth INTEGER NOT NULL,
				topic_count INTEGER NOT NULL DEFAULT 0
			)`,
			`CREATE UNIQUE INDEX ux_categories_path ON categories (path)`,
			`CREATE INDEX ix_categories_slug ON categories (slug)`,

			`CREATE TABLE topics (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				title TEXT NOT NULL,
				order_title TEXT NOT NULL,
				order_title_source TEXT NOT NULL,
				is_person BOOLEAN NOT NULL DEFAULT FALSE,
				summary TEXT NOT NULL DEFAULT '',
				summary_html TEXT NOT NULL DEFAULT '',
				wikipedia_fragment TEXT NOT NULL DEFAULT '',
				wikipedia_html TEXT NOT NULL DEFAULT '',
				wikipedia_last_fetch TIMESTAMPTZ,
				latitude REAL,
				longitude REAL,
				zoom INTEGER,
				allow_comments BOOLEAN NOT NULL DEFAULT TRUE,
				comment_count INTEGER NOT NULL DEFAULT 0
			)`,
			`CREATE INDEX ix_topics_order_title ON topics (order_title COLLATE NOCASE)`,

			`CREATE TABLE topic_categories (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				topic_id INTEGER NOT NULL REFERENCES topics (id) ON DELETE CASCADE,
				category_id INTEGER NOT NULL REFERENCES categories (id) ON DELETE CASCADE
			)`,
			`CREATE UNIQUE INDEX ux_topic_categories_topic_id_category_id ON topic_categories (topic_id, category_id)`,
			`CREATE INDEX ix_topic_categories_category_id ON topic_categories (category_id)`,

			`CREATE TABLE entries (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				diary_date TIMESTAMPTZ NOT NULL,
				title TEXT NOT NULL,
				text TEXT NOT NULL DEFAULT '',
				text_html TEXT NOT NULL DEFAULT '',
				footnotes TEXT NOT NULL DEFAULT '',
				footnotes_html TEXT NOT NULL DEFAULT '',
				allow_comments BOOLEAN NOT NULL DEFAULT TRUE,
				comment_count INTEGER NOT NULL DEFAULT 0
			)`,
			`CREATE UNIQUE INDEX ux_entries_diary_date ON entries (diary_date)`,

			`CREATE TABLE entry_topics (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				entry_id INTEGER NOT NULL REFERENCES entries (id) ON DELETE CASCADE,
				topic_id INTEGER NOT NULL REFERENCES topics (id) ON DELETE CASCADE
			)`,
			`CREATE UNIQUE INDEX ux_entry_topics_entry_id_topic_id ON entry_topics (entry_id, topic_id)`,
			`CREATE INDEX ix_entry_topics_topic_id ON entry_topics (topic_id)`,

			`CREATE TABLE summaries (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				summary_date TIMESTAMPTZ NOT NULL,
				title TEXT NOT NULL,
				text TEXT NOT NULL DEFAULT '',
				text_html TEXT NOT NULL DEFAULT ''
			)`,
			`CREATE UNIQUE INDEX ux_summaries_summary_date ON summaries (summary_date)`,

			`CREATE TABLE day_events (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				title TEXT NOT NULL,
				event_date TIMESTAMPTZ NOT NULL,
				url TEXT NOT NULL DEFAULT '',
				source INTEGER,
				sort_order INTEGER
			)`,
			`CREATE INDEX ix_day_events_event_date ON day_events (event_date)`,

			`CREATE TABLE letters (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				title TEXT NOT NULL,
				slug TEXT NOT NULL,
				letter_date TIMESTAMPTZ NOT NULL,
				sender TEXT NOT NULL DEFAULT '',
				recipient TEXT NOT NULL DEFAULT '',
				text TEXT NOT NULL DEFAULT '',
				text_html TEXT NOT NULL DEFAULT '',
				footnotes TEXT NOT NULL DEFAULT '',
				footnotes_html TEXT NOT NULL DEFAULT '',
				allow_comments BOOLEAN NOT NULL DEFAULT TRUE,
				comment_count INTEGER NOT NULL DEFAULT 0
			)`,
			`CREATE UNIQUE INDEX ux_letters_letter_date_slug ON letters (letter_date, slug)`,

			`CREATE TABLE articles (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				title TEXT NOT NULL,
				slug TEXT NOT NULL,
				date_published TIMESTAMPTZ NOT NULL,
				status TEXT NOT NULL,
				author_name TEXT NOT NULL DEFAULT '',
				author_url TEXT NOT NULL DEFAULT '',
				item_authors TEXT NOT NULL DEFAULT '',
				intro TEXT NOT NULL DEFAULT '',
				intro_html TEXT NOT NULL DEFAULT '',
				text TEXT NOT NULL DEFAULT '',
				text_html TEXT NOT NULL DEFAULT '',
				cover_width INTEGER,
				cover_height INTEGER,
				allow_comments BOOLEAN NOT NULL DEFAULT TRUE,
				comment_count INTEGER NOT NULL DEFAULT 0
			)`,
			`CREATE UNIQUE INDEX ux_articles_date_published_slug ON articles (date_published, slug)`,
			`CREATE INDEX ix_articles_status_date_published ON articles (status, date_published)`,

			`CREATE TABLE posts (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				title TEXT NOT NULL,
				date_published TIMESTAMPTZ NOT NULL,
				status TEXT NOT NULL,
				category TEXT NOT NULL,
				intro TEXT NOT NULL DEFAULT '',
				intro_html TEXT NOT NULL DEFAULT '',
				text TEXT NOT NULL DEFAULT '',
				text_html TEXT NOT NULL DEFAULT '',
				allow_comments BOOLEAN NOT NULL DEFAULT TRUE,
				comment_count INTEGER NOT NULL DEFAULT 0
			)`,
			`CREATE INDEX ix_posts_status_date_published ON posts (status, date_published)`,

			`CREATE TABLE annotations (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
				object_type TEXT NOT NULL,
				object_id INTEGER NOT NULL,
				user_name TEXT NOT NULL,
				user_email TEXT NOT NULL DEFAULT '',
				user_url TEXT NOT NULL DEFAULT '',
				comment TEXT NOT NULL,
				comment_html TEXT NOT NULL,
				submit_date TIMESTAMPTZ NOT NULL,
				ip_address TEXT NOT NULL DEFAULT '',
				is_public BOOLEAN NOT NULL DEFAULT TRUE,
				is_removed BOOLEAN NOT NULL DEFAULT FALSE
			)`,
			`CREATE INDEX ix_annotations_object ON annotations (object_type, object_id, submit_date)`,
			`CREATE INDEX ix_annotations_submit_date ON annotations (submit_date)`,

			`CREATE TABLE annotation_flags (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				annotation_id INTEGER NOT NULL REFERENCES annotations (id) ON DELETE CASCADE,
				flag TEXT NOT NULL,
				flag_date TIMESTAMPTZ NOT NULL,
				flagged_by TEXT NOT NULL DEFAULT ''
			)`,
			`CREATE INDEX ix_annotation_flags_annotation_id ON annotation_flags (annotation_id)`,
		}

		for _, stmt := range statements {
			if _, err := db.Exec(stmt); err != nil {
				return errors.WithStack(err)
			}
		}
		return nil
	}

	down := func(_ context.Context, db *bun.DB) error {
		tables := []string{
			"annotation_flags",
			"annotations",
			"posts",
			"articles",
			"letters",
			"day_events",
			"summaries",
			"entry_topics",
			"entries",
			"topic_categories",
			"topics",
			"categories",
			"jobs",
		}
		for _, table := range tables {
			if _, err := db.Exec("DROP TABLE IF EXISTS " + table); err != nil {
				return errors.WithStack(err)
			}
		}
		return nil
	}

	Migrations.MustRegister(up, down)
}
