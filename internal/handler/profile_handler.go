package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetProfile 获取用户资料
func (a *API) GetProfile(c *gin.Context) {
	profile, err := a.profiles.Get(c.Request.Context(), c.Param("username"), currentUsername(c))
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// FollowProfile 关注用户
func (a *API) FollowProfile(c *gin.Context) {
	profile, err := a.profiles.Follow(c.Request.Context(), c.Param("username"), currentUsername(c))
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// UnfollowProfile 取消关注
func (a *API) UnfollowProfile(c *gin.Context) {
	profile, err := a.profiles.Unfollow(c.Request.Context(), c.Param("username"), currentUsername(c))
	if err != nil {
		a.respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}
