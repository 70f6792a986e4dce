package service

import (
	"context"
	"errors"

	"github.com/conduit/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CommentService handles comments attached to articles.
type CommentService struct {
	db *gorm.DB
}

// NewCommentService creates a CommentService instance.
func NewCommentService(gdb *gorm.DB) *CommentService {
	return &CommentService{db: gdb}
}

// Add appends a comment by requester to the published article.
func (s *CommentService) Add(ctx context.Context, slug, requester, body string) (*CommentView, error) {
	if requester == "" {
		return nil, ErrAuthRequired
	}

	v := &ValidationError{}
	requiredField(v, "body", body)
	if err := v.Err(); err != nil {
		return nil, err
	}

	var view *CommentView
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

		comment := db.Comment{Body: body, ArticleID: article.ID, AuthorID: person.ID}
		if err := tx.Omit(clause.Associations).Create(&comment).Error; err != nil {
			return err
		}
		comment.Author = *person

		views, err := projectComments(tx, []db.Comment{comment}, person.ID)
		if err != nil {
			return err
		}
		view = &views[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// List returns the article's comments, oldest first. Comments on a draft are
// visible to its author only.
func (s *CommentService) List(ctx context.Context, slug, viewer string) ([]CommentView, error) {
	gdb := s.db.WithContext(ctx)

	article, err := findArticle(gdb, BySlug(slug), ErrArticleNotFound)
	if err != nil {
		return nil, err
	}
	if article.IsDraft && article.Author.Username != viewer {
		if viewer == "" {
			return nil, ErrAuthRequired
		}
		return nil, ErrNotAuthor
	}

	viewerID, err := resolveViewerID(gdb, viewer)
	if err != nil {
		return nil, err
	}

	comments, err := loadComments(gdb, article.ID)
	if err != nil {
		return nil, err
	}
	return projectComments(gdb, comments, viewerID)
}

// Delete removes a comment; only its author may do so.
func (s *CommentService) Delete(ctx context.Context, slug string, commentID uint, requester string) error {
	if requester == "" {
		return ErrAuthRequired
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		article, err := findArticle(tx, BySlug(slug), ErrArticleNotFound)
		if err != nil {
			return err
		}

		var comment db.Comment
		if err := tx.Preload("Author").
			Where("id = ? AND article_id = ?", commentID, article.ID).
			First(&comment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCommentNotFound
			}
			return err
		}
		if comment.Author.Username != requester {
			return ErrNotAuthor
		}

		return tx.Delete(&db.Comment{}, comment.ID).Error
	})
}
