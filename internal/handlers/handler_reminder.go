package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	portssvc "github.com/SscSPs/finance_tracker/internal/core/ports/services"
	"github.com/SscSPs/finance_tracker/internal/dto"
)

type reminderHandler struct {
	reminderService portssvc.ReminderCrudSvc
}

// RegisterReminderRoutes registers the reminder routes.
func RegisterReminderRoutes(rg *gin.RouterGroup, reminderService portssvc.ReminderCrudSvc) {
	h := &reminderHandler{reminderService: reminderService}

	reminders := rg.Group("/reminders")
	{
		reminders.POST("", h.createReminder)
		reminders.GET("", h.listReminders)
		reminders.GET("/:id", h.getReminder)
		reminders.PUT("/:id", h.updateReminder)
		reminders.DELETE("/:id", h.deleteReminder)
		reminders.POST("/:id/complete", h.completeReminder)
		reminders.POST("/:id/snooze", h.snoozeReminder)
	}
}

// createReminder godoc
// @Summary Create a reminder
// @Description Auto-create reminders need an amount, a wallet and a transaction kind
// @Tags reminders
// @Accept json
// @Produce json
// @Param reminder body dto.CreateReminderRequest true "Reminder"
// @Success 201 {object} domain.Reminder
// @Failure 400 {object} map[string]string "Validation error"
// @Security BearerAuth
// @Router /reminders [post]
func (h *reminderHandler) createReminder(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req dto.CreateReminderRequest
	if !bindJSON(c, &req) {
		return
	}
	reminder, err := h.reminderService.CreateReminder(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err, "Failed to create reminder")
		return
	}
	c.JSON(http.StatusCreated, reminder)
}

// listReminders godoc
// @Summary List reminders, soonest first
// @Tags reminders
// @Produce json
// @Param status query string false "Filter by status" Enums(PENDING, OVERDUE, COMPLETED)
// @Success 200 {array} domain.Reminder
// @Security BearerAuth
// @Router /reminders [get]
func (h *reminderHandler) listReminders(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var status *domain.ReminderStatus
	if raw := strings.ToUpper(c.Query("status")); raw != "" {
		s := domain.ReminderStatus(raw)
		switch s {
		case domain.ReminderPending, domain.ReminderOverdue, domain.ReminderCompleted:
			status = &s
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
			return
		}
	}

	reminders, err := h.reminderService.ListReminders(c.Request.Context(), userID, status)
	if err != nil {
		respondError(c, err, "Failed to list reminders")
		return
	}
	c.JSON(http.StatusOK, reminders)
}

func (h *reminderHandler) getReminder(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	reminder, err := h.reminderService.GetReminder(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve reminder")
		return
	}
	c.JSON(http.StatusOK, reminder)
}

func (h *reminderHandler) updateReminder(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req dto.UpdateReminderRequest
	if !bindJSON(c, &req) {
		return
	}
	reminder, err := h.reminderService.UpdateReminder(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Failed to update reminder")
		return
	}
	c.JSON(http.StatusOK, reminder)
}

func (h *reminderHandler) deleteReminder(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	if err := h.reminderService.DeleteReminder(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete reminder")
		return
	}
	c.Status(http.StatusNoContent)
}

// completeReminder godoc
// @Summary Mark the current occurrence done
// @Description Recurring reminders move to their next occurrence, one-off reminders become COMPLETED
// @Tags reminders
// @Produce json
// @Param id path string true "Reminder ID"
// @Success 200 {object} domain.Reminder
// @Failure 422 {object} map[string]string "Already completed"
// @Security BearerAuth
// @Router /reminders/{id}/complete [post]
func (h *reminderHandler) completeReminder(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	reminder, err := h.reminderService.CompleteReminder(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to complete reminder")
		return
	}
	c.JSON(http.StatusOK, reminder)
}

// snoozeReminder godoc
// @Summary Hide a reminder from the engine until a future time
// @Tags reminders
// @Accept json
// @Produce json
// @Param id path string true "Reminder ID"
// @Param snooze body dto.SnoozeReminderRequest true "Snooze until"
// @Success 200 {object} domain.Reminder
// @Security BearerAuth
// @Router /reminders/{id}/snooze [post]
func (h *reminderHandler) snoozeReminder(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req dto.SnoozeReminderRequest
	if !bindJSON(c, &req) {
		return
	}
	reminder, err := h.reminderService.SnoozeReminder(c.Request.Context(), userID, c.Param("id"), req.Until)
	if err != nil {
		respondError(c, err, "Failed to snooze reminder")
		return
	}
	c.JSON(http.StatusOK, reminder)
}
