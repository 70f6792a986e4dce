package service

import (
	"sort"
	"time"

	"github.com/conduit/internal/db"
	"gorm.io/gorm"
)

// ProfileView 是对外暴露的作者摘要
type ProfileView struct {
	Username  string `json:"username"`
	Bio       string `json:"bio"`
	Image     string `json:"image"`
	Following bool   `json:"following"`
}

// CommentView 是评论的对外表示
type CommentView struct {
	ID        uint        `json:"id"`
	Body      string      `json:"body"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
	Author    ProfileView `json:"author"`
}

// ArticleView is the representation shared by article and draft endpoints.
type ArticleView struct {
	ID             uint          `json:"id"`
	Slug           *string       `json:"slug"`
	Title          string        `json:"title"`
	Description    string        `json:"description"`
	Body           string        `json:"body"`
	BodyHTML       string        `json:"bodyHtml,omitempty"`
	TagList        []string      `json:"tagList"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
	IsDraft        bool          `json:"isDraft"`
	ReadCount      int           `json:"readCount"`
	Favorited      bool          `json:"favorited"`
	FavoritesCount int           `json:"favoritesCount"`
	Author         ProfileView   `json:"author"`
	Comments       []CommentView `json:"comments,omitempty"`
}

// ArticleList 聚合分页结果；ArticlesCount 统计过滤后的全部文章，与分页窗口无关
type ArticleList struct {
	Articles      []ArticleView `json:"articles"`
	ArticlesCount int64         `json:"articlesCount"`
}

func preloadArticle(query *gorm.DB) *gorm.DB {
	return query.Preload("Author").Preload("Tags").Preload("Favorites")
}

func newProfileView(person db.Person, following bool) ProfileView {
	return ProfileView{
		Username:  person.Username,
		Bio:       person.Bio,
		Image:     person.Image,
		Following: following,
	}
}

// followedAmong returns which of targetIDs viewerID follows.
func followedAmong(tx *gorm.DB, viewerID uint, targetIDs []uint) (map[uint]bool, error) {
	followed := make(map[uint]bool)
	if viewerID == 0 || len(targetIDs) == 0 {
		return followed, nil
	}

	var ids []uint
	if err := tx.Model(&db.Follow{}).
		Where("observer_id = ? AND target_id IN ?", viewerID, targetIDs).
		Pluck("target_id", &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		followed[id] = true
	}
	return followed, nil
}

func projectArticles(tx *gorm.DB, articles []db.Article, viewerID uint) ([]ArticleView, error) {
	authorIDs := make([]uint, 0, len(articles))
	for _, article := range articles {
		authorIDs = append(authorIDs, article.AuthorID)
	}

	followed, err := followedAmong(tx, viewerID, authorIDs)
	if err != nil {
		return nil, err
	}

	views := make([]ArticleView, 0, len(articles))
	for i := range articles {
		views = append(views, projectArticle(&articles[i], viewerID, followed[articles[i].AuthorID]))
	}
	return views, nil
}

func projectArticle(article *db.Article, viewerID uint, following bool) ArticleView {
	tags := article.TagNames()
	sort.Strings(tags)

	favorited := false
	for _, fav := range article.Favorites {
		if viewerID != 0 && fav.PersonID == viewerID {
			favorited = true
			break
		}
	}

	return ArticleView{
		ID:             article.ID,
		Slug:           article.Slug,
		Title:          article.Title,
		Description:    article.Description,
		Body:           article.Body,
		TagList:        tags,
		CreatedAt:      article.CreatedAt,
		UpdatedAt:      article.UpdatedAt,
		IsDraft:        article.IsDraft,
		ReadCount:      article.ReadCount,
		Favorited:      favorited,
		FavoritesCount: len(article.Favorites),
		Author:         newProfileView(article.Author, following),
	}
}

func loadComments(tx *gorm.DB, articleID uint) ([]db.Comment, error) {
	var comments []db.Comment
	if err := tx.Preload("Author").
		Where("article_id = ?", articleID).
		Order("created_at asc, id asc").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

func projectComments(tx *gorm.DB, comments []db.Comment, viewerID uint) ([]CommentView, error) {
	authorIDs := make([]uint, 0, len(comments))
	for _, comment := range comments {
		authorIDs = append(authorIDs, comment.AuthorID)
	}

	followed, err := followedAmong(tx, viewerID, authorIDs)
	if err != nil {
		return nil, err
	}

	views := make([]CommentView, 0, len(comments))
	for _, comment := range comments {
		views = append(views, CommentView{
			ID:        comment.ID,
			Body:      comment.Body,
			CreatedAt: comment.CreatedAt,
			UpdatedAt: comment.UpdatedAt,
			Author:    newProfileView(comment.Author, followed[comment.AuthorID]),
		})
	}
	return views, nil
}

// loadArticleView reloads an article and assembles its single-article view,
// including rendered body and comments.
func loadArticleView(tx *gorm.DB, articleID, viewerID uint) (*ArticleView, error) {
	var article db.Article
	if err := preloadArticle(tx).First(&article, articleID).Error; err != nil {
		return nil, err
	}

	views, err := projectArticles(tx, []db.Article{article}, viewerID)
	if err != nil {
		return nil, err
	}
	view := views[0]

	html, err := RenderMarkdown(article.Body)
	if err != nil {
		return nil, err
	}
	view.BodyHTML = html

	comments, err := loadComments(tx, article.ID)
	if err != nil {
		return nil, err
	}
	view.Comments, err = projectComments(tx, comments, viewerID)
	if err != nil {
		return nil, err
	}

	return &view, nil
}
