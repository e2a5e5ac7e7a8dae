package models

import (
	"strings"
	"time"

	"github.com/uptrace/bun"
)

// CategoryPathStep is the width of each level of a category's materialized
// path. "0001" is a root, "00010003" is its third child.
const CategoryPathStep = 4

type Category struct {
	bun.BaseModel `bun:"table:categories,alias:c"`

	ID         int       `bun:",pk,nullzero" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Title      string    `bun:",notnull" json:"title"`
	Slug       string    `bun:",notnull" json:"slug"`
	Path       string    `bun:",notnull" json:"-"`
	Depth      int       `bun:",notnull" json:"depth"`
	TopicCount int       `bun:",notnull" json:"topic_count"`
}

// AncestorPaths returns the paths of every ancestor, root first.
func (c *Category) AncestorPaths() []string {
	var paths []string
	for end := CategoryPathStep; end < len(c.Path); end += CategoryPathStep {
		paths = append(paths, c.Path[:end])
	}
	return paths
}

// IsRoot reports whether the category sits at the top of the tree.
func (c *Category) IsRoot() bool {
	return c.Depth <= 1
}

// HasAncestor reports whether other is above c in the tree.
func (c *Category) HasAncestor(other *Category) bool {
	return len(other.Path) < len(c.Path) && strings.HasPrefix(c.Path, other.Path)
}

type TopicCategory struct {
	bun.BaseModel `bun:"table:topic_categories,alias:tc"`

	ID         int `bun:",pk,nullzero" json:"id"`
	TopicID    int `bun:",nullzero" json:"topic_id"`
	CategoryID int `bun:",nullzero" json:"category_id"`
}
