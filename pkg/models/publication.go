package models

// Publication statuses for articles and posts. Only published items are
// visible on the public site.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)
