package handler

import (
	"Vine/config"
	"Vine/middleware"
	"Vine/pkg/context"
	"Vine/pkg/response"
	"Vine/service"

	"github.com/gin-gonic/gin"
)

type Content struct {
	Config         *config.Config
	ContentService service.IContentService
}

func (h *Content) RegisterRouter(r gin.IRouter) {
	g := r.Group("/v1")
	g.Use(middleware.Auth([]byte(h.Config.Jwt.Secret)))
	g.GET("/devotionals/today", context.Wrap(h.TodayDevotional))
	g.GET("/announcements", context.Wrap(h.Announcements))
}

func (h *Content) TodayDevotional(c *gin.Context) error {
	d, err := h.ContentService.TodayDevotional(c.Request.Context())
	if err != nil {
		return bizError(err)
	}
	response.Success(c, d)
	return nil
}

func (h *Content) Announcements(c *gin.Context) error {
	list, err := h.ContentService.ActiveAnnouncements(c.Request.Context())
	if err != nil {
		return bizError(err)
	}
	response.Success(c, list)
	return nil
}
