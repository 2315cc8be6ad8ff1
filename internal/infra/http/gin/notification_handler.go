package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"innkeep/internal/app/dto"
	notificationsvc "innkeep/internal/app/services/notifications"
	domainnotification "innkeep/internal/domain/notification"
)

type NotificationHTTP interface {
	ListMine(c *gin.Context)
	MarkRead(c *gin.Context)
	MarkAllRead(c *gin.Context)
}

type NotificationHandler struct {
	Service *notificationsvc.Service
	Logger  *slog.Logger
}

func (h NotificationHandler) ListMine(c *gin.Context) {
	p, ok := requireAuth(c)
	if !ok {
		return
	}
	items, err := h.Service.ListMine(c.Request.Context(), p.actor().ID)
	if err != nil {
		respondDomainError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapNotifications(items))
}

func (h NotificationHandler) MarkRead(c *gin.Context) {
	p, ok := requireAuth(c)
	if !ok {
		return
	}
	err := h.Service.MarkRead(c.Request.Context(), domainnotification.ID(c.Param("id")), p.actor().ID)
	if err != nil {
		respondDomainError(c, h.Logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h NotificationHandler) MarkAllRead(c *gin.Context) {
	p, ok := requireAuth(c)
	if !ok {
		return
	}
	if err := h.Service.MarkAllRead(c.Request.Context(), p.actor().ID); err != nil {
		respondDomainError(c, h.Logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

var _ NotificationHTTP = (*NotificationHandler)(nil)
