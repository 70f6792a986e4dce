package service

import (
	"context"

	"github.com/conduit/internal/db"
	"gorm.io/gorm"
)

// TagService wraps tag related read operations. Tags are created lazily by
// the article lifecycle and never deleted.
type TagService struct {
	db *gorm.DB
}

// TagUsage 描述标签的使用次数
type TagUsage struct {
	Name  string
	Count int64
}

// NewTagService creates a TagService instance.
func NewTagService(gdb *gorm.DB) *TagService {
	return &TagService{db: gdb}
}

// List returns the names of tags attached to published articles, most used first.
func (s *TagService) List(ctx context.Context) ([]string, error) {
	usages, err := s.PublishedUsage(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(usages))
	for _, usage := range usages {
		names = append(names, usage.Name)
	}
	return names, nil
}

// PublishedUsage 返回已发布文章中标签的使用统计
func (s *TagService) PublishedUsage(ctx context.Context) ([]TagUsage, error) {
	var rows []TagUsage
	if err := s.db.WithContext(ctx).
		Table("tags").
		Select("tags.name AS name, COUNT(DISTINCT articles.id) AS count").
		Joins("JOIN article_tags ON article_tags.tag_name = tags.name").
		Joins("JOIN articles ON articles.id = article_tags.article_id").
		Where("articles.is_draft = ?", false).
		Group("tags.name").
		Order("count desc").
		Order("tags.name asc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// All returns every tag row, including tags no longer attached to any article.
func (s *TagService) All(ctx context.Context) ([]db.Tag, error) {
	var tags []db.Tag
	if err := s.db.WithContext(ctx).Order("name asc").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}
