package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type commentRequest struct {
	Comment struct {
		Body string `json:"body"`
	} `json:"comment"`
}

// ListComments 获取文章评论
func (a *API) ListComments(c *gin.Context) {
	comments, err := a.comments.List(c.Request.Context(), c.Param("slug"), currentUsername(c))
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

// AddComment 发表评论
func (a *API) AddComment(c *gin.Context) {
	var req commentRequest
	if !bindJSON(c, &req, "invalid comment payload") {
		return
	}

	comment, err := a.comments.Add(c.Request.Context(), c.Param("slug"), currentUsername(c), req.Comment.Body)
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"comment": comment})
}

// DeleteComment 删除评论
func (a *API) DeleteComment(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的评论ID")
		return
	}

	if err := a.comments.Delete(c.Request.Context(), c.Param("slug"), id, currentUsername(c)); err != nil {
		a.respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
