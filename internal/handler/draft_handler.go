package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListDrafts 列出当前用户的草稿
func (a *API) ListDrafts(c *gin.Context) {
	limit, offset, err := parsePage(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	list, err := a.articles.ListDrafts(c.Request.Context(), currentUsername(c), limit, offset)
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// CreateDraft 创建草稿，只要求标题
func (a *API) CreateDraft(c *gin.Context) {
	var req articleRequest
	if !bindJSON(c, &req, "invalid draft payload") {
		return
	}

	view, err := a.articles.CreateDraft(c.Request.Context(), currentUsername(c), req.Article.input())
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"article": view})
}

// GetDraft 获取草稿详情
func (a *API) GetDraft(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的草稿ID")
		return
	}

	view, err := a.articles.GetDraft(c.Request.Context(), id, currentUsername(c))
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"article": view})
}

// UpdateDraft 部分更新草稿
func (a *API) UpdateDraft(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的草稿ID")
		return
	}

	var req articleRequest
	if !bindJSON(c, &req, "invalid draft payload") {
		return
	}

	view, err := a.articles.EditDraft(c.Request.Context(), id, currentUsername(c), req.Article.input())
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"article": view})
}

// PublishDraft 发布草稿
func (a *API) PublishDraft(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的草稿ID")
		return
	}

	view, err := a.articles.PublishDraft(c.Request.Context(), id, currentUsername(c))
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"article": view})
}

// DeleteDraft 删除草稿
func (a *API) DeleteDraft(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的草稿ID")
		return
	}

	if err := a.articles.DeleteDraft(c.Request.Context(), id, currentUsername(c)); err != nil {
		a.respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
