package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/helpdesk-pro/helpdesk-service/internal/domain"
)

// ArticleRepository encapsulates knowledge base persistence.
type ArticleRepository interface {
	Create(ctx context.Context, article *domain.KBArticle) error
	GetByID(ctx context.Context, id string) (*domain.KBArticle, error)
	List(ctx context.Context, limit, offset int) ([]domain.KBArticle, error)
	ListCategories(ctx context.Context) ([]string, error)
	Search(ctx context.Context, keyword string, limit int) ([]domain.KBArticle, error)
}

type articleRepository struct {
	pool *pgxpool.Pool
}

// NewArticleRepository builds repository.
func NewArticleRepository(pool *pgxpool.Pool) ArticleRepository {
	return &articleRepository{pool: pool}
}

const articleColumns = `id, title, content, category, tags, visibility, author_id, created_at, updated_at`

func (r *articleRepository) Create(ctx context.Context, article *domain.KBArticle) error {
	const query = `
        INSERT INTO kb_articles (title, content, category, tags, visibility, author_id)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		article.Title,
		article.Content,
		article.Category,
		article.Tags,
		article.Visibility,
		article.AuthorID,
	).Scan(&article.ID, &article.CreatedAt, &article.UpdatedAt)
}

func (r *articleRepository) GetByID(ctx context.Context, id string) (*domain.KBArticle, error) {
	var article domain.KBArticle
	query := `SELECT ` + articleColumns + ` FROM kb_articles WHERE id=$1`
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&article.ID,
		&article.Title,
		&article.Content,
		&article.Category,
		&article.Tags,
		&article.Visibility,
		&article.AuthorID,
		&article.CreatedAt,
		&article.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &article, nil
}

func (r *articleRepository) List(ctx context.Context, limit, offset int) ([]domain.KBArticle, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	query := `SELECT ` + articleColumns + ` FROM kb_articles ORDER BY created_at DESC` + limitOffset(limit, offset)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanArticles(rows)
}

func (r *articleRepository) ListCategories(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT category FROM kb_articles ORDER BY category ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (r *articleRepository) Search(ctx context.Context, keyword string, limit int) ([]domain.KBArticle, error) {
	if limit <= 0 {
		limit = 50
	}
	search := "%" + strings.ToLower(strings.TrimSpace(keyword)) + "%"
	query := `SELECT ` + articleColumns + ` FROM kb_articles
        WHERE LOWER(title) LIKE $1 OR LOWER(content) LIKE $1
        ORDER BY created_at DESC` + limitOffset(limit, 0)
	rows, err := r.pool.Query(ctx, query, search)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanArticles(rows)
}

func scanArticles(rows pgx.Rows) ([]domain.KBArticle, error) {
	var result []domain.KBArticle
	for rows.Next() {
		var article domain.KBArticle
		if err := rows.Scan(
			&article.ID,
			&article.Title,
			&article.Content,
			&article.Category,
			&article.Tags,
			&article.Visibility,
			&article.AuthorID,
			&article.CreatedAt,
			&article.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, article)
	}
	return result, rows.Err()
}
