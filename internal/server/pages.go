package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// pageDateLayout renders the header date like "January 15, 2025".
const pageDateLayout = "January 2, 2006"

func (h *httpHandler) handleHome(c *gin.Context) {
	if _, err := h.sessionUser(c); err == nil {
		c.Redirect(http.StatusFound, "/dashboard")
		return
	}
	c.HTML(http.StatusOK, "index.html", nil)
}

func (h *httpHandler) handleDashboardPage(c *gin.Context) {
	user := currentUser(c)
	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"Username": user.Username,
		"Date":     h.now().Format(pageDateLayout),
	})
}

func (h *httpHandler) handleStatsPage(c *gin.Context) {
	c.HTML(http.StatusOK, "stats.html", nil)
}

func (h *httpHandler) handleLogPage(c *gin.Context) {
	c.HTML(http.StatusOK, "log.html", nil)
}
