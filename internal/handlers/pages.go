package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

func (h *Handler) ShowIndex(c *gin.Context) {
	session := sessions.Default(c)
	user := session.Get("user_id")

	c.HTML(http.StatusOK, "index.html", gin.H{
		"User": user,
	})
}
