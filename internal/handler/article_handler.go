package handler

import (
	"net/http"
	"strings"

	"github.com/conduit/internal/service"
	"github.com/gin-gonic/gin"
)

// articlePayload 中的指针字段用于区分“未提供”和“提供了空值”
type articlePayload struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Body        *string   `json:"body"`
	TagList     *[]string `json:"tagList"`
}

type articleRequest struct {
	Article articlePayload `json:"article"`
}

func (p articlePayload) input() service.ArticleInput {
	return service.ArticleInput{
		Title:       p.Title,
		Description: p.Description,
		Body:        p.Body,
		TagList:     p.TagList,
	}
}

// ListArticles 按 tag/author/favorited 过滤已发布文章
func (a *API) ListArticles(c *gin.Context) {
	limit, offset, err := parsePage(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	filter := service.ArticleFilter{
		Tag:       strings.TrimSpace(c.Query("tag")),
		Author:    strings.TrimSpace(c.Query("author")),
		Favorited: strings.TrimSpace(c.Query("favorited")),
		Limit:     limit,
		Offset:    offset,
	}

	list, err := a.articles.List(c.Request.Context(), filter, currentUsername(c))
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// FeedArticles returns articles written by followed authors.
func (a *API) FeedArticles(c *gin.Context) {
	limit, offset, err := parsePage(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	list, err := a.articles.Feed(c.Request.Context(), currentUsername(c), limit, offset)
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// CreateArticle 直接创建并发布文章
func (a *API) CreateArticle(c *gin.Context) {
	var req articleRequest
	if !bindJSON(c, &req, "invalid article payload") {
		return
	}

	view, err := a.articles.Create(c.Request.Context(), currentUsername(c), req.Article.input(), false)
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"article": view})
}

// GetArticle 获取文章详情
func (a *API) GetArticle(c *gin.Context) {
	view, err := a.articles.Get(c.Request.Context(), service.BySlug(c.Param("slug")), currentUsername(c))
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"article": view})
}

// UpdateArticle 部分更新文章
func (a *API) UpdateArticle(c *gin.Context) {
	var req articleRequest
	if !bindJSON(c, &req, "invalid article payload") {
		return
	}

	view, err := a.articles.Edit(c.Request.Context(), service.BySlug(c.Param("slug")), currentUsername(c), req.Article.input())
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"article": view})
}

// PublishArticle publishes an article addressed by slug.
func (a *API) PublishArticle(c *gin.Context) {
	view, err := a.articles.Publish(c.Request.Context(), service.BySlug(c.Param("slug")), currentUsername(c))
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"article": view})
}

// DeleteArticle 删除文章及其评论、收藏与标签关联
func (a *API) DeleteArticle(c *gin.Context) {
	if err := a.articles.Delete(c.Request.Context(), service.BySlug(c.Param("slug")), currentUsername(c)); err != nil {
		a.respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// FavoriteArticle 收藏文章
func (a *API) FavoriteArticle(c *gin.Context) {
	view, err := a.favorites.Favorite(c.Request.Context(), c.Param("slug"), currentUsername(c))
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"article": view})
}

// UnfavoriteArticle 取消收藏
func (a *API) UnfavoriteArticle(c *gin.Context) {
	view, err := a.favorites.Unfavorite(c.Request.Context(), c.Param("slug"), currentUsername(c))
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"article": view})
}
