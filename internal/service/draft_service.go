package service

import (
	"context"

	"github.com/conduit/internal/db"
	"gorm.io/gorm"
)

// CreateDraft persists a draft; only the title is required.
func (s *ArticleService) CreateDraft(ctx context.Context, requester string, input ArticleInput) (*ArticleView, error) {
	return s.Create(ctx, requester, input, true)
}

// GetDraft returns one of the requester's drafts.
func (s *ArticleService) GetDraft(ctx context.Context, id uint, requester string) (*ArticleView, error) {
	if requester == "" {
		return nil, ErrAuthRequired
	}

	var view *ArticleView
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		article, err := findDraft(tx, id, requester)
		if err != nil {
			return err
		}

		view, err = loadArticleView(tx, article.ID, article.AuthorID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// EditDraft applies a partial update to a draft.
func (s *ArticleService) EditDraft(ctx context.Context, id uint, requester string, input ArticleInput) (*ArticleView, error) {
	if requester == "" {
		return nil, ErrAuthRequired
	}

	var view *ArticleView
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		article, err := findDraft(tx, id, requester)
		if err != nil {
			return err
		}

		if err := s.applyEdit(ctx, tx, article, input); err != nil {
			return err
		}

		view, err = loadArticleView(tx, article.ID, article.AuthorID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// PublishDraft publishes the draft with the given id. Publishing an article
// that is already published is a conflict, not a missing draft.
func (s *ArticleService) PublishDraft(ctx context.Context, id uint, requester string) (*ArticleView, error) {
	return s.publish(ctx, ByID(id), requester, ErrDraftNotFound)
}

// DeleteDraft removes a draft and its dependent rows.
func (s *ArticleService) DeleteDraft(ctx context.Context, id uint, requester string) error {
	if requester == "" {
		return ErrAuthRequired
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		article, err := findDraft(tx, id, requester)
		if err != nil {
			return err
		}
		return deleteArticleCascade(tx, article.ID)
	})
}

// ListDrafts returns the requester's own drafts, most recently updated first.
func (s *ArticleService) ListDrafts(ctx context.Context, requester string, limit, offset int) (*ArticleList, error) {
	if requester == "" {
		return nil, ErrAuthRequired
	}

	gdb := s.db.WithContext(ctx)
	person, err := findPerson(gdb, requester)
	if err != nil {
		return nil, err
	}

	base := func() *gorm.DB {
		return gdb.Model(&db.Article{}).
			Where("articles.is_draft = ? AND articles.author_id = ?", true, person.ID)
	}

	return listArticles(gdb, base, "articles.updated_at desc, articles.id desc", limit, offset, person.ID)
}

// findDraft loads a draft owned by requester. Published articles are not
// reachable through the draft surface.
func findDraft(tx *gorm.DB, id uint, requester string) (*db.Article, error) {
	article, err := findArticle(tx, ByID(id), ErrDraftNotFound)
	if err != nil {
		return nil, err
	}
	if !article.IsDraft {
		return nil, ErrDraftNotFound
	}
	if err := authorize(article, requester); err != nil {
		return nil, err
	}
	return article, nil
}
