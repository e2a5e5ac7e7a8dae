package encyclopedia

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/pepysdiary/pepysdiary/pkg/errcodes"
	"github.com/pepysdiary/pepysdiary/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type RetrieveCategoryOptions struct {
	ID   *int
	Path *string
}

type UpdateCategoryOptions struct {
	Columns []string
}

// pathSegment renders the n-th sibling's step of a materialized path in
// base 36, e.g. 1 is "0001" and 36 is "0010".
func pathSegment(n int) string {
	s := strings.ToUpper(strconv.FormatInt(int64(n), 36))
	return strings.Repeat("0", models.CategoryPathStep-len(s)) + s
}

func parsePathSegment(s string) int {
	n, err := strconv.ParseInt(s, 36, 64)
	if err != nil {
		return 0
	}
	return int(n)
}

// CreateCategory adds category as the last child of parentID, or as a new
// root when parentID is nil. The slug is derived from the title when empty.
func (svc *Service) CreateCategory(ctx context.Context, category *models.Category, parentID *int) error {
	now := time.Now().UTC()
	if category.CreatedAt.IsZero() {
		category.CreatedAt = now
	}
	category.UpdatedAt = category.CreatedAt
	if category.Slug == "" {
		category.Slug = slug.Make(category.Title)
	}

	return svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		prefix := ""
		depth := 1
		if parentID != nil {
			parent := &models.Category{}
			err := tx.NewSelect().Model(parent).Where("c.id = ?", *parentID).Scan(ctx)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return errcodes.NotFound("Parent category")
				}
				return errors.WithStack(err)
			}
			prefix = parent.Path
			depth = parent.Depth + 1
		}

		var last string
		err := tx.NewSelect().
			Model((*models.Category)(nil)).
			ColumnExpr("COALESCE(MAX(c.path), '')").
			Where("c.depth = ?", depth).
			Where("c.path LIKE ?", prefix+"%").
			Scan(ctx, &last)
		if err != nil {
			return errors.WithStack(err)
		}

		next := 1
		if last != "" {
			next = parsePathSegment(last[len(last)-models.CategoryPathStep:]) + 1
		}
		category.Path = prefix + pathSegment(next)
		category.Depth = depth

		_, err = tx.NewInsert().Model(category).Returning("*").Exec(ctx)
		return errors.WithStack(err)
	})
}

func (svc *Service) RetrieveCategory(ctx context.Context, opts RetrieveCategoryOptions) (*models.Category, error) {
	category := &models.Category{}

	q := svc.db.
		NewSelect().
		Model(category)

	if opts.ID != nil {
		q = q.Where("c.id = ?", *opts.ID)
	}
	if opts.Path != nil {
		q = q.Where("c.path = ?", *opts.Path)
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Category")
		}
		return nil, errors.WithStack(err)
	}
	return category, nil
}

// RetrieveCategoryBySlugs walks down the tree from a root, matching one slug
// per level, e.g. ["places", "london", "streets"].
func (svc *Service) RetrieveCategoryBySlugs(ctx context.Context, slugs []string) (*models.Category, error) {
	if len(slugs) == 0 {
		return nil, errcodes.NotFound("Category")
	}

	var current *models.Category
	for i, s := range slugs {
		category := &models.Category{}
		q := svc.db.NewSelect().
			Model(category).
			Where("c.slug = ?", s).
			Where("c.depth = ?", i+1).
			Order("c.path ASC").
			Limit(1)
		if current != nil {
			q = q.Where("c.path LIKE ?", current.Path+"%")
		}
		if err := q.Scan(ctx); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, errcodes.NotFound("Category")
			}
			return nil, errors.WithStack(err)
		}
		current = category
	}
	return current, nil
}

// ListRootCategories returns the top level of the tree.
func (svc *Service) ListRootCategories(ctx context.Context) ([]*models.Category, error) {
	var categories []*models.Category
	err := svc.db.NewSelect().
		Model(&categories).
		Where("c.depth = 1").
		Order("c.path ASC").
		Scan(ctx)
	return categories, errors.WithStack(err)
}

// ListChildCategories returns the categories directly below parent, by title.
func (svc *Service) ListChildCategories(ctx context.Context, parent *models.Category) ([]*models.Category, error) {
	var categories []*models.Category
	err := svc.db.NewSelect().
		Model(&categories).
		Where("c.path LIKE ?", parent.Path+"%").
		Where("c.depth = ?", parent.Depth+1).
		OrderExpr("c.title COLLATE NOCASE ASC").
		Scan(ctx)
	return categories, errors.WithStack(err)
}

// ListAncestorCategories returns every category above c, root first.
func (svc *Service) ListAncestorCategories(ctx context.Context, c *models.Category) ([]*models.Category, error) {
	categories := []*models.Category{}
	paths := c.AncestorPaths()
	if len(paths) == 0 {
		return categories, nil
	}
	err := svc.db.NewSelect().
		Model(&categories).
		Where("c.path IN (?)", bun.In(paths)).
		Order("c.depth ASC").
		Scan(ctx)
	return categories, errors.WithStack(err)
}

// SlugPath returns the URL path of a category below /encyclopedia/.
func (svc *Service) SlugPath(ctx context.Context, c *models.Category) (string, error) {
	ancestors, err := svc.ListAncestorCategories(ctx, c)
	if err != nil {
		return "", err
	}
	parts := make([]string, 0, len(ancestors)+1)
	for _, a := range ancestors {
		parts = append(parts, a.Slug)
	}
	parts = append(parts, c.Slug)
	return strings.Join(parts, "/"), nil
}

func (svc *Service) ListCategories(ctx context.Context, ids []int) ([]*models.Category, error) {
	categories := []*models.Category{}
	if len(ids) == 0 {
		return categories, nil
	}
	err := svc.db.NewSelect().
		Model(&categories).
		Where("c.id IN (?)", bun.In(ids)).
		Order("c.path ASC").
		Scan(ctx)
	return categories, errors.WithStack(err)
}

func (svc *Service) UpdateCategory(ctx context.Context, category *models.Category, opts UpdateCategoryOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}

	category.UpdatedAt = time.Now().UTC()
	columns := append(opts.Columns, "updated_at")

	res, err := svc.db.NewUpdate().
		Model(category).
		Column(columns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errcodes.NotFound("Category")
	}
	return nil
}

// ListTopicCategories returns the categories a topic is filed under.
func (svc *Service) ListTopicCategories(ctx context.Context, topicID int) ([]*models.Category, error) {
	categories := []*models.Category{}
	err := svc.db.NewSelect().
		Model(&categories).
		Join("JOIN topic_categories AS tc ON tc.category_id = c.id").
		Where("tc.topic_id = ?", topicID).
		Order("c.path ASC").
		Scan(ctx)
	return categories, errors.WithStack(err)
}

func (svc *Service) setTopicCategories(ctx context.Context, tx bun.IDB, topicID int, categoryIDs []int) error {
	ids := uniqueInts(categoryIDs)

	if len(ids) > 0 {
		count, err := tx.NewSelect().
			Model((*models.Category)(nil)).
			Where("c.id IN (?)", bun.In(ids)).
			Count(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if count != len(ids) {
			return errcodes.ValidationError("One or more categories don't exist.")
		}
	}

	var previous []int
	err := tx.NewSelect().
		Model((*models.TopicCategory)(nil)).
		Column("category_id").
		Where("topic_id = ?", topicID).
		Scan(ctx, &previous)
	if err != nil {
		return errors.WithStack(err)
	}

	_, err = tx.NewDelete().
		Model((*models.TopicCategory)(nil)).
		Where("topic_id = ?", topicID).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	if len(ids) > 0 {
		rows := make([]*models.TopicCategory, 0, len(ids))
		for _, id := range ids {
			rows = append(rows, &models.TopicCategory{TopicID: topicID, CategoryID: id})
		}
		if _, err := tx.NewInsert().Model(&rows).Exec(ctx); err != nil {
			return errors.WithStack(err)
		}
	}

	return recountCategories(ctx, tx, uniqueInts(append(previous, ids...)))
}

// recountCategories refreshes topic_count on the given categories.
func recountCategories(ctx context.Context, db bun.IDB, ids []int) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := db.NewRaw(
		"UPDATE categories SET topic_count = (SELECT COUNT(*) FROM topic_categories WHERE category_id = categories.id) WHERE id IN (?)",
		bun.In(ids),
	).Exec(ctx)
	return errors.WithStack(err)
}

func uniqueInts(in []int) []int {
	seen := make(map[int]bool, len(in))
	out := make([]int, 0, len(in))
	for _, v := range in {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
