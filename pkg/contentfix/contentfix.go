// Package contentfix replaces a literal string throughout the site's
// editorial text, for fixing things like moved URLs in bulk.
package contentfix

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/uptrace/bun"
)

type field struct {
	table  string
	column string
}

// fields are searched in this order. Markdown sources and their rendered HTML
// are both changed so they don't drift apart.
var fields = []field{
	{"articles", "intro"},
	{"articles", "intro_html"},
	{"articles", "text"},
	{"articles", "text_html"},
	{"posts", "intro"},
	{"posts", "intro_html"},
	{"posts", "text"},
	{"posts", "text_html"},
	{"topics", "summary"},
	{"topics", "summary_html"},
}

// ColumnReport describes the matches in one column.
type ColumnReport struct {
	Table   string `json:"table"`
	Column  string `json:"column"`
	IDs     []int  `json:"ids"`
	Matches int    `json:"matches"`
}

type Report struct {
	Search  string          `json:"search"`
	Replace string          `json:"replace"`
	DryRun  bool            `json:"dry_run"`
	Columns []*ColumnReport `json:"columns"`
	// Preview is a patch showing the change to the first matching value.
	Preview string `json:"preview,omitempty"`
}

// Total is the number of occurrences across every column.
func (r *Report) Total() int {
	n := 0
	for _, c := range r.Columns {
		n += c.Matches
	}
	return n
}

type Replacer struct {
	db *bun.DB
}

func New(db *bun.DB) *Replacer {
	return &Replacer{db: db}
}

type match struct {
	ID    int    `bun:"id"`
	Value string `bun:"value"`
}

// Run finds every occurrence of search and, unless dryRun is set, replaces
// them all with replace in a single transaction. Matching is case sensitive.
func (r *Replacer) Run(ctx context.Context, search, replace string, dryRun bool) (*Report, error) {
	if search == "" {
		return nil, errors.New("search string can't be empty")
	}

	report := &Report{Search: search, Replace: replace, DryRun: dryRun, Columns: []*ColumnReport{}}

	err := r.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		now := time.Now().UTC()

		for _, f := range fields {
			var matches []match
			err := tx.NewRaw(
				"SELECT id, ? AS value FROM ? WHERE instr(?, ?) > 0 ORDER BY id",
				bun.Ident(f.column), bun.Ident(f.table), bun.Ident(f.column), search,
			).Scan(ctx, &matches)
			if err != nil {
				return errors.Wrapf(err, "searching %s.%s", f.table, f.column)
			}
			if len(matches) == 0 {
				continue
			}

			col := &ColumnReport{Table: f.table, Column: f.column, IDs: make([]int, 0, len(matches))}
			for _, m := range matches {
				col.IDs = append(col.IDs, m.ID)
				col.Matches += strings.Count(m.Value, search)
			}
			report.Columns = append(report.Columns, col)

			if report.Preview == "" {
				report.Preview = preview(matches[0].Value, strings.ReplaceAll(matches[0].Value, search, replace))
			}

			if dryRun {
				continue
			}
			_, err = tx.NewRaw(
				"UPDATE ? SET ? = replace(?, ?, ?), updated_at = ? WHERE instr(?, ?) > 0",
				bun.Ident(f.table), bun.Ident(f.column), bun.Ident(f.column), search, replace, now,
				bun.Ident(f.column), search,
			).Exec(ctx)
			if err != nil {
				return errors.Wrapf(err, "updating %s.%s", f.table, f.column)
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return report, nil
}

func preview(before, after string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(before, after, false)
	diffs = dmp.DiffCleanupSemantic(diffs)
	return dmp.PatchToText(dmp.PatchMake(before, diffs))
}
