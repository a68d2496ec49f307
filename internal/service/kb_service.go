package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/helpdesk-pro/helpdesk-service/internal/domain"
	"github.com/helpdesk-pro/helpdesk-service/internal/policy"
	"github.com/helpdesk-pro/helpdesk-service/internal/repository"
	apperrors "github.com/helpdesk-pro/helpdesk-service/pkg/util/errorutil"
)

// KBService serves knowledge base content with per-article visibility
// applied on every read path.
type KBService struct {
	articles repository.ArticleRepository
}

// KBDependencies bundles the knowledge base service inputs.
type KBDependencies struct {
	ArticleRepo repository.ArticleRepository
}

// ArticleInput is the authoring payload.
type ArticleInput struct {
	Title      string
	Content    string
	Category   string
	Tags       []string
	Visibility domain.ArticleVisibility
}

// NewKBService constructs the service.
func NewKBService(deps KBDependencies) *KBService {
	return &KBService{articles: deps.ArticleRepo}
}

// List returns articles the actor may read.
func (s *KBService) List(ctx context.Context, actor *domain.User, limit, offset int) ([]domain.KBArticle, error) {
	articles, err := s.articles.List(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return policy.VisibleArticles(actor.Role, articles), nil
}

// Get fetches one article. An internal article requested by a customer
// reads as missing, not forbidden, so its existence is not revealed.
func (s *KBService) Get(ctx context.Context, actor *domain.User, articleID string) (*domain.KBArticle, error) {
	article, err := s.articles.GetByID(ctx, articleID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("article", map[string]any{"article_id": articleID})
		}
		return nil, apperrors.MapError(err)
	}
	if article.Visibility == domain.VisibilityInternal && !policy.IsStaff(actor.Role) {
		return nil, apperrors.NewNotFound("article", map[string]any{"article_id": articleID})
	}
	return article, nil
}

// Categories lists distinct article categories.
func (s *KBService) Categories(ctx context.Context) ([]string, error) {
	categories, err := s.articles.ListCategories(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return categories, nil
}

// Search runs a keyword search over title and content, then applies
// visibility.
func (s *KBService) Search(ctx context.Context, actor *domain.User, keyword string, limit int) ([]domain.KBArticle, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return s.List(ctx, actor, limit, 0)
	}
	articles, err := s.articles.Search(ctx, keyword, limit)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return policy.VisibleArticles(actor.Role, articles), nil
}

// Create publishes a new article, staff only.
func (s *KBService) Create(ctx context.Context, actor *domain.User, input ArticleInput) (*domain.KBArticle, error) {
	if !policy.IsStaff(actor.Role) {
		return nil, apperrors.NewForbidden("article authoring is staff only")
	}
	title := strings.TrimSpace(input.Title)
	content := strings.TrimSpace(input.Content)
	if title == "" || content == "" {
		return nil, apperrors.NewValidationError("title and content required", nil)
	}
	visibility := input.Visibility
	if visibility == "" {
		visibility = domain.VisibilityPublic
	}
	if visibility != domain.VisibilityPublic && visibility != domain.VisibilityInternal {
		return nil, apperrors.NewValidationError("unknown visibility", map[string]any{"visibility": visibility})
	}

	article := &domain.KBArticle{
		Title:      title,
		Content:    content,
		Category:   strings.TrimSpace(input.Category),
		Tags:       input.Tags,
		Visibility: visibility,
		AuthorID:   &actor.ID,
	}
	if article.Category == "" {
		article.Category = domain.DefaultCategory
	}
	if err := s.articles.Create(ctx, article); err != nil {
		return nil, apperrors.MapError(err)
	}
	return article, nil
}
