package domain

import "time"

// ArticleVisibility controls who may read a knowledge base article.
type ArticleVisibility string

const (
	VisibilityPublic   ArticleVisibility = "PUBLIC"
	VisibilityInternal ArticleVisibility = "INTERNAL"
)

// KBArticle is a knowledge base entry. Internal articles are excluded
// from anything rendered for a Customer.
type KBArticle struct {
	ID         string
	Title      string
	Content    string
	Category   string
	Tags       []string
	Visibility ArticleVisibility
	AuthorID   *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
