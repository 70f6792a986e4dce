package handler

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	sessionUsernameKey = "username"
	sessionPersonIDKey = "person_id"
)

type loginRequest struct {
	User struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	} `json:"user"`
}

// Login 校验用户名密码并把身份写入会话
func (a *API) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req, "用户名和密码不能为空") {
		return
	}

	person, err := a.profiles.Authenticate(c.Request.Context(), strings.TrimSpace(req.User.Username), req.User.Password)
	if err != nil {
		a.respondServiceError(c, err)
		return
	}

	session := sessions.Default(c)
	session.Set(sessionPersonIDKey, person.ID)
	session.Set(sessionUsernameKey, person.Username)
	if err := session.Save(); err != nil {
		a.respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": gin.H{
		"username": person.Username,
		"email":    person.Email,
		"bio":      person.Bio,
		"image":    person.Image,
	}})
}

// Logout 清除会话
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		a.respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// currentUsername 返回会话中的用户名，匿名请求返回空串
func currentUsername(c *gin.Context) string {
	if _, ok := c.Get(sessions.DefaultKey); !ok {
		return ""
	}
	username, _ := sessions.Default(c).Get(sessionUsernameKey).(string)
	return username
}

// AuthRequired 是一个简单的认证中间件
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentUsername(c) == "" {
			respondError(c, http.StatusUnauthorized, "authentication required")
			c.Abort()
			return
		}
		c.Next()
	}
}
