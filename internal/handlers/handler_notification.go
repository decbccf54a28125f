package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SscSPs/finance_tracker/internal/core/ports/services"
	"github.com/SscSPs/finance_tracker/internal/dto"
)

type notificationHandler struct {
	notificationService portssvc.NotificationSvcFacade
}

// RegisterNotificationRoutes registers the inbox and preference routes.
func RegisterNotificationRoutes(rg *gin.RouterGroup, notificationService portssvc.NotificationSvcFacade) {
	h := &notificationHandler{notificationService: notificationService}

	notifications := rg.Group("/notifications")
	{
		notifications.GET("", h.listNotifications)
		notifications.GET("/preferences", h.getPreferences)
		notifications.PUT("/preferences", h.updatePreferences)
		notifications.POST("/:id/read", h.markRead)
	}
}

// listNotifications godoc
// @Summary List notifications, newest first
// @Tags notifications
// @Produce json
// @Param unreadOnly query bool false "Only unread notifications"
// @Param limit query int false "Maximum number returned" default(50)
// @Success 200 {array} domain.Notification
// @Security BearerAuth
// @Router /notifications [get]
func (h *notificationHandler) listNotifications(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var params dto.ListNotificationsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	notifications, err := h.notificationService.ListNotifications(c.Request.Context(), userID, params)
	if err != nil {
		respondError(c, err, "Failed to list notifications")
		return
	}
	c.JSON(http.StatusOK, notifications)
}

// markRead godoc
// @Summary Mark a notification read
// @Tags notifications
// @Param id path string true "Notification ID"
// @Success 204
// @Security BearerAuth
// @Router /notifications/{id}/read [post]
func (h *notificationHandler) markRead(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	if err := h.notificationService.MarkRead(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err, "Failed to mark notification read")
		return
	}
	c.Status(http.StatusNoContent)
}

// getPreferences godoc
// @Summary Get notification preferences
// @Tags notifications
// @Produce json
// @Success 200 {object} domain.NotificationPreferences
// @Security BearerAuth
// @Router /notifications/preferences [get]
func (h *notificationHandler) getPreferences(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	prefs, err := h.notificationService.GetPreferences(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve preferences")
		return
	}
	c.JSON(http.StatusOK, prefs)
}

// updatePreferences godoc
// @Summary Update notification preferences
// @Tags notifications
// @Accept json
// @Produce json
// @Param preferences body dto.UpdatePreferencesRequest true "Switches to change"
// @Success 200 {object} domain.NotificationPreferences
// @Security BearerAuth
// @Router /notifications/preferences [put]
func (h *notificationHandler) updatePreferences(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req dto.UpdatePreferencesRequest
	if !bindJSON(c, &req) {
		return
	}
	prefs, err := h.notificationService.UpdatePreferences(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err, "Failed to update preferences")
		return
	}
	c.JSON(http.StatusOK, prefs)
}
