package service

import (
	"github.com/conduit/internal/db"
	"gorm.io/gorm"
)

// deleteArticleCascade removes an article together with its tag links,
// favorites and comments. Tags and persons are left untouched.
func deleteArticleCascade(tx *gorm.DB, articleID uint) error {
	if err := tx.Where("article_id = ?", articleID).Delete(&db.ArticleTag{}).Error; err != nil {
		return err
	}
	if err := tx.Where("article_id = ?", articleID).Delete(&db.ArticleFavorite{}).Error; err != nil {
		return err
	}
	if err := tx.Where("article_id = ?", articleID).Delete(&db.Comment{}).Error; err != nil {
		return err
	}

	result := tx.Delete(&db.Article{}, articleID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrArticleNotFound
	}
	return nil
}
