package service

import (
	"context"

	"github.com/conduit/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FavoriteService 维护文章收藏，收藏与取消收藏均为幂等操作
type FavoriteService struct {
	db *gorm.DB
}

// NewFavoriteService creates a FavoriteService instance.
func NewFavoriteService(gdb *gorm.DB) *FavoriteService {
	return &FavoriteService{db: gdb}
}

// Favorite marks the published article as favorited by requester.
func (s *FavoriteService) Favorite(ctx context.Context, slug, requester string) (*ArticleView, error) {
	return s.toggle(ctx, slug, requester, true)
}

// Unfavorite removes requester's favorite from the article.
func (s *FavoriteService) Unfavorite(ctx context.Context, slug, requester string) (*ArticleView, error) {
	return s.toggle(ctx, slug, requester, false)
}

func (s *FavoriteService) toggle(ctx context.Context, slug, requester string, favorite bool) (*ArticleView, error) {
	if requester == "" {
		return nil, ErrAuthRequired
	}

	var view *ArticleView
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		person, err := findPerson(tx, requester)
		if err != nil {
			return err
		}
		article, err := findArticle(tx, BySlug(slug), ErrArticleNotFound)
		if err != nil {
			return err
		}
		if article.IsDraft {
			return ErrArticleNotFound
		}

		if favorite {
			err = tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&db.ArticleFavorite{PersonID: person.ID, ArticleID: article.ID}).Error
		} else {
			err = tx.Where("person_id = ? AND article_id = ?", person.ID, article.ID).
				Delete(&db.ArticleFavorite{}).Error
		}
		if err != nil {
			return err
		}

		view, err = loadArticleView(tx, article.ID, person.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}
