package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/conduit/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultPageLimit is used when a listing request gives no positive limit.
const DefaultPageLimit = 20

// ArticleService implements the article lifecycle: create, edit, publish,
// delete and the read-side projections built on top of it.
type ArticleService struct {
	db  *gorm.DB
	now func() time.Time
}

// ArticleRef addresses an article by numeric id or by slug.
type ArticleRef struct {
	ID   uint
	Slug string
}

// ByID references an article by its id.
func ByID(id uint) ArticleRef {
	return ArticleRef{ID: id}
}

// BySlug references an article by its slug.
func BySlug(slug string) ArticleRef {
	return ArticleRef{Slug: slug}
}

// ArticleInput carries the optional fields of create and edit requests.
// A nil field is "not provided"; a nil TagList leaves tags untouched while a
// non-nil empty TagList clears them.
type ArticleInput struct {
	Title       *string
	Description *string
	Body        *string
	TagList     *[]string
}

// ArticleFilter describes filters for listing published articles.
type ArticleFilter struct {
	Tag       string
	Author    string
	Favorited string
	Limit     int
	Offset    int
}

// NewArticleService creates an ArticleService instance.
func NewArticleService(gdb *gorm.DB) *ArticleService {
	return &ArticleService{
		db:  gdb,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Create persists a new article, as a draft (no slug) or directly published.
func (s *ArticleService) Create(ctx context.Context, requester string, input ArticleInput, asDraft bool) (*ArticleView, error) {
	if requester == "" {
		return nil, ErrAuthRequired
	}

	title := strings.TrimSpace(deref(input.Title))
	description := deref(input.Description)
	body := deref(input.Body)

	v := &ValidationError{}
	requiredField(v, "title", title)
	if !asDraft {
		requiredField(v, "description", description)
		requiredField(v, "body", body)
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	var view *ArticleView
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		author, err := findPerson(tx, requester)
		if err != nil {
			return err
		}

		now := s.now()
		article := db.Article{
			Title:       title,
			Description: description,
			Body:        body,
			IsDraft:     asDraft,
			AuthorID:    author.ID,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		if !asDraft {
			slug, err := ResolveUniqueSlug(ctx, slugCandidate(title), 0, slugExists(tx))
			if err != nil {
				return err
			}
			article.Slug = &slug
		}

		if err := tx.Omit(clause.Associations).Create(&article).Error; err != nil {
			return err
		}

		if input.TagList != nil {
			if err := applyTagDiff(tx, article.ID, Reconcile(nil, *input.TagList)); err != nil {
				return err
			}
		}

		view, err = loadArticleView(tx, article.ID, author.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// Get returns a single article with its comments. Drafts are visible to
// their author only; published articles count a read for every other viewer.
func (s *ArticleService) Get(ctx context.Context, ref ArticleRef, viewer string) (*ArticleView, error) {
	var view *ArticleView
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		article, err := findArticle(tx, ref, ErrArticleNotFound)
		if err != nil {
			return err
		}

		isAuthor := viewer != "" && article.Author.Username == viewer
		if article.IsDraft && !isAuthor {
			if viewer == "" {
				return ErrAuthRequired
			}
			return ErrNotAuthor
		}

		if !article.IsDraft && !isAuthor {
			if err := tx.Model(&db.Article{}).
				Where("id = ?", article.ID).
				UpdateColumn("read_count", gorm.Expr("read_count + 1")).Error; err != nil {
				return err
			}
		}

		viewerID, err := resolveViewerID(tx, viewer)
		if err != nil {
			return err
		}

		view, err = loadArticleView(tx, article.ID, viewerID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// Edit applies a partial update. Only the author may edit; updated_at moves
// only when a field or the tag set actually changed.
func (s *ArticleService) Edit(ctx context.Context, ref ArticleRef, requester string, input ArticleInput) (*ArticleView, error) {
	if requester == "" {
		return nil, ErrAuthRequired
	}

	var view *ArticleView
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		article, err := findArticle(tx, ref, ErrArticleNotFound)
		if err != nil {
			return err
		}
		if err := authorize(article, requester); err != nil {
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

// Publish moves a draft to the published state and assigns its slug.
func (s *ArticleService) Publish(ctx context.Context, ref ArticleRef, requester string) (*ArticleView, error) {
	return s.publish(ctx, ref, requester, ErrArticleNotFound)
}

// Delete removes the article and its dependent rows.
func (s *ArticleService) Delete(ctx context.Context, ref ArticleRef, requester string) error {
	if requester == "" {
		return ErrAuthRequired
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		article, err := findArticle(tx, ref, ErrArticleNotFound)
		if err != nil {
			return err
		}
		if err := authorize(article, requester); err != nil {
			return err
		}
		return deleteArticleCascade(tx, article.ID)
	})
}

// List returns published articles matching every given filter, newest first.
func (s *ArticleService) List(ctx context.Context, filter ArticleFilter, viewer string) (*ArticleList, error) {
	gdb := s.db.WithContext(ctx)

	viewerID, err := resolveViewerID(gdb, viewer)
	if err != nil {
		return nil, err
	}

	base := func() *gorm.DB {
		query := gdb.Model(&db.Article{}).Where("articles.is_draft = ?", false)
		return applyArticleFilters(gdb, query, filter)
	}

	return listArticles(gdb, base, "articles.created_at desc, articles.id desc", filter.Limit, filter.Offset, viewerID)
}

// Feed returns published articles written by persons the requester follows.
func (s *ArticleService) Feed(ctx context.Context, requester string, limit, offset int) (*ArticleList, error) {
	if requester == "" {
		return nil, ErrAuthRequired
	}

	gdb := s.db.WithContext(ctx)
	person, err := findPerson(gdb, requester)
	if err != nil {
		return nil, err
	}

	base := func() *gorm.DB {
		following := gdb.Model(&db.Follow{}).Select("target_id").Where("observer_id = ?", person.ID)
		return gdb.Model(&db.Article{}).
			Where("articles.is_draft = ?", false).
			Where("articles.author_id IN (?)", following)
	}

	return listArticles(gdb, base, "articles.created_at desc, articles.id desc", limit, offset, person.ID)
}

func (s *ArticleService) publish(ctx context.Context, ref ArticleRef, requester string, notFound error) (*ArticleView, error) {
	if requester == "" {
		return nil, ErrAuthRequired
	}

	var view *ArticleView
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		article, err := findArticle(tx, ref, notFound)
		if err != nil {
			return err
		}
		if err := authorize(article, requester); err != nil {
			return err
		}
		if !article.IsDraft {
			return ErrAlreadyPublished
		}

		v := &ValidationError{}
		requiredField(v, "title", article.Title)
		requiredField(v, "description", article.Description)
		requiredField(v, "body", article.Body)
		if err := v.Err(); err != nil {
			return err
		}

		// 始终根据当前标题重新生成 slug，排除自身
		slug, err := ResolveUniqueSlug(ctx, slugCandidate(article.Title), article.ID, slugExists(tx))
		if err != nil {
			return err
		}

		if err := tx.Model(&db.Article{}).
			Where("id = ? AND is_draft = ?", article.ID, true).
			UpdateColumns(map[string]interface{}{
				"slug":       slug,
				"is_draft":   false,
				"updated_at": s.now(),
			}).Error; err != nil {
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

func (s *ArticleService) applyEdit(ctx context.Context, tx *gorm.DB, article *db.Article, input ArticleInput) error {
	v := &ValidationError{}
	if input.Title != nil {
		requiredField(v, "title", *input.Title)
	}
	if !article.IsDraft {
		if input.Description != nil {
			requiredField(v, "description", *input.Description)
		}
		if input.Body != nil {
			requiredField(v, "body", *input.Body)
		}
	}
	if err := v.Err(); err != nil {
		return err
	}

	updates := make(map[string]interface{})
	if input.Title != nil {
		if title := strings.TrimSpace(*input.Title); title != article.Title {
			updates["title"] = title
		}
	}
	if input.Description != nil && *input.Description != article.Description {
		updates["description"] = *input.Description
	}
	if input.Body != nil && *input.Body != article.Body {
		updates["body"] = *input.Body
	}

	// 已发布文章修改标题后同步更新 slug
	if title, ok := updates["title"].(string); ok && !article.IsDraft {
		slug, err := ResolveUniqueSlug(ctx, slugCandidate(title), article.ID, slugExists(tx))
		if err != nil {
			return err
		}
		if slug != article.SlugValue() {
			updates["slug"] = slug
		}
	}

	var diff TagDiff
	if input.TagList != nil {
		diff = Reconcile(article.TagNames(), *input.TagList)
	}

	if len(updates) == 0 && diff.Empty() {
		return nil
	}

	updates["updated_at"] = s.now()
	if err := tx.Model(&db.Article{}).
		Where("id = ?", article.ID).
		UpdateColumns(updates).Error; err != nil {
		return err
	}

	return applyTagDiff(tx, article.ID, diff)
}

func listArticles(gdb *gorm.DB, base func() *gorm.DB, orderBy string, limit, offset int, viewerID uint) (*ArticleList, error) {
	limit, offset = normalizePage(limit, offset)

	result := &ArticleList{}
	if err := base().Count(&result.ArticlesCount).Error; err != nil {
		return nil, err
	}

	var articles []db.Article
	if err := preloadArticle(base()).
		Order(orderBy).
		Limit(limit).
		Offset(offset).
		Find(&articles).Error; err != nil {
		return nil, err
	}

	views, err := projectArticles(gdb, articles, viewerID)
	if err != nil {
		return nil, err
	}
	result.Articles = views
	return result, nil
}

func applyArticleFilters(gdb *gorm.DB, query *gorm.DB, filter ArticleFilter) *gorm.DB {
	if tag := strings.TrimSpace(filter.Tag); tag != "" {
		tagged := gdb.Model(&db.ArticleTag{}).
			Select("article_tags.article_id").
			Where("article_tags.tag_name = ?", tag)
		query = query.Where("articles.id IN (?)", tagged)
	}

	if author := strings.TrimSpace(filter.Author); author != "" {
		authors := gdb.Model(&db.Person{}).
			Select("persons.id").
			Where("persons.username = ?", author)
		query = query.Where("articles.author_id IN (?)", authors)
	}

	if favorited := strings.TrimSpace(filter.Favorited); favorited != "" {
		favorites := gdb.Model(&db.ArticleFavorite{}).
			Select("article_favorites.article_id").
			Joins("JOIN persons ON persons.id = article_favorites.person_id").
			Where("persons.username = ?", favorited)
		query = query.Where("articles.id IN (?)", favorites)
	}

	return query
}

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func findArticle(tx *gorm.DB, ref ArticleRef, notFound error) (*db.Article, error) {
	query := tx.Preload("Author").Preload("Tags")
	switch {
	case ref.Slug != "":
		query = query.Where("slug = ?", ref.Slug)
	case ref.ID != 0:
		query = query.Where("id = ?", ref.ID)
	default:
		return nil, notFound
	}

	var article db.Article
	if err := query.First(&article).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound
		}
		return nil, err
	}
	return &article, nil
}

func authorize(article *db.Article, requester string) error {
	if requester == "" {
		return ErrAuthRequired
	}
	if article.Author.Username != requester {
		return ErrNotAuthor
	}
	return nil
}

func slugExists(tx *gorm.DB) SlugExistsFunc {
	return func(ctx context.Context, slug string, excludeID uint) (bool, error) {
		query := tx.Model(&db.Article{}).Where("slug = ?", slug)
		if excludeID != 0 {
			query = query.Where("id <> ?", excludeID)
		}

		var count int64
		if err := query.Count(&count).Error; err != nil {
			return false, err
		}
		return count > 0, nil
	}
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
