package api

import (
	"context"
	"strings"
	"time"

	"github.com/harmony-haven/haven-client/internal/domain"
	"github.com/harmony-haven/haven-client/internal/logger"
	"github.com/harmony-haven/haven-client/internal/session"
	"github.com/harmony-haven/haven-client/pkg/httpclient"
	"github.com/harmony-haven/haven-client/pkg/retry"
)

// ArticleDTO is the wire record for an article. The article endpoint is the
// most shape-stable one the backend has, so plain tags suffice.
type ArticleDTO struct {
	ID             int    `json:"id"`
	Title          string `json:"title"`
	Slug           string `json:"slug"`
	Content        string `json:"content"`
	ContentPreview string `json:"contentPreview"`
	PublishDate    string `json:"publishDate"`
	CategoryID     int    `json:"categoryId"`
	ImagePath      string `json:"imagePath"`
}

// ArticleCategoryDTO is the wire record for an article category.
type ArticleCategoryDTO struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	ImagePath string `json:"imagePath"`
}

// ArticleService fetches articles and categories.
type ArticleService struct {
	service
	now func() time.Time
}

// NewArticleService builds the article service on top of the shared transport.
func NewArticleService(sender httpclient.Sender, policy retry.Policy, sess *session.Context, log logger.Logger) *ArticleService {
	return &ArticleService{
		service: newService(sender, policy, sess, log),
		now:     time.Now,
	}
}

// FetchArticles retrieves all articles.
func (s *ArticleService) FetchArticles(ctx context.Context) ([]domain.Article, error) {
	return s.fetchArticles(ctx, nil)
}

// FetchArticlesByCategory retrieves the articles of one category.
func (s *ArticleService) FetchArticlesByCategory(ctx context.Context, categoryID int) ([]domain.Article, error) {
	return s.fetchArticles(ctx, map[string]any{"categoryId": categoryID})
}

func (s *ArticleService) fetchArticles(ctx context.Context, params map[string]any) ([]domain.Article, error) {
	body, err := s.get(ctx, endpointArticles, params)
	if err != nil {
		return nil, err
	}

	dtos, _ := DecodeFeed[ArticleDTO](body, envelopeKeys("articles"), s.log)
	articles := make([]domain.Article, 0, len(dtos))
	for _, dto := range dtos {
		articles = append(articles, mapArticle(dto, s.now))
	}
	return articles, nil
}

// FetchCategories retrieves the article category list.
func (s *ArticleService) FetchCategories(ctx context.Context) ([]domain.ArticleCategory, error) {
	body, err := s.get(ctx, endpointCategories, nil)
	if err != nil {
		return nil, err
	}

	dtos, _ := DecodeFeed[ArticleCategoryDTO](body, envelopeKeys("categories"), s.log)
	categories := make([]domain.ArticleCategory, 0, len(dtos))
	for _, dto := range dtos {
		categories = append(categories, domain.ArticleCategory{
			ID:        dto.ID,
			Name:      dto.Name,
			ImagePath: dto.ImagePath,
		})
	}
	return categories, nil
}

// mapArticle converts a wire article into the immutable domain entity.
// Publish dates go through the shared timestamp parser (the fixed article
// layout is its first hypothesis) and fall back to the current time. A
// missing preview is derived from the HTML body.
func mapArticle(dto ArticleDTO, now func() time.Time) domain.Article {
	publishDate, ok := ParseTimestamp(dto.PublishDate)
	if !ok {
		logger.WarnObj("article publish date unparseable, using current time", "publish_date", dto.PublishDate)
		publishDate = now()
	}

	preview := dto.ContentPreview
	if strings.TrimSpace(preview) == "" {
		preview = domain.PreviewFromHTML(dto.Content)
	}

	return domain.Article{
		ID:             dto.ID,
		Title:          dto.Title,
		Slug:           dto.Slug,
		Content:        dto.Content,
		ContentPreview: preview,
		PublishDate:    publishDate,
		CategoryID:     dto.CategoryID,
		ImagePath:      dto.ImagePath,
	}
}
