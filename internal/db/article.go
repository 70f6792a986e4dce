package db

import "time"

// Article 定义了文章模型；草稿的 Slug 为 NULL，发布后唯一
type Article struct {
	ID          uint    `gorm:"primaryKey"`
	Slug        *string `gorm:"uniqueIndex"`
	Title       string
	Description string
	Body        string `gorm:"type:text"`
	IsDraft     bool   `gorm:"not null;index"`
	ReadCount   int    `gorm:"not null"`
	AuthorID    uint   `gorm:"not null;index"`
	Author      Person
	Tags        []ArticleTag
	Favorites   []ArticleFavorite
	CreatedAt   time.Time `gorm:"index"`
	UpdatedAt   time.Time
}

// SlugValue returns the slug or "" for drafts that never had one.
func (a *Article) SlugValue() string {
	if a == nil || a.Slug == nil {
		return ""
	}
	return *a.Slug
}

// TagNames returns the names of the loaded tag associations.
func (a *Article) TagNames() []string {
	names := make([]string, 0, len(a.Tags))
	for _, at := range a.Tags {
		names = append(names, at.TagName)
	}
	return names
}

// ArticleFavorite 记录用户收藏，(person_id, article_id) 唯一
type ArticleFavorite struct {
	PersonID  uint `gorm:"primaryKey"`
	ArticleID uint `gorm:"primaryKey;index"`
	CreatedAt time.Time
}

// Comment 定义了文章评论
type Comment struct {
	ID        uint   `gorm:"primaryKey"`
	Body      string `gorm:"type:text;not null"`
	ArticleID uint   `gorm:"not null;index"`
	AuthorID  uint   `gorm:"not null;index"`
	Author    Person
	CreatedAt time.Time
	UpdatedAt time.Time
}
