package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SscSPs/finance_tracker/internal/core/ports/services"
	"github.com/SscSPs/finance_tracker/internal/dto"
)

type recurringHandler struct {
	recurringService portssvc.RecurringRuleSvc
}

// RegisterRecurringRoutes registers the recurring rule routes.
func RegisterRecurringRoutes(rg *gin.RouterGroup, recurringService portssvc.RecurringRuleSvc) {
	h := &recurringHandler{recurringService: recurringService}

	rules := rg.Group("/recurring")
	{
		rules.POST("", h.createRule)
		rules.GET("", h.listRules)
		rules.GET("/:id", h.getRule)
		rules.PUT("/:id", h.updateRule)
		rules.POST("/:id/toggle", h.toggleRule)
		rules.DELETE("/:id", h.deleteRule)
	}
}

// createRule godoc
// @Summary Create a recurring transaction rule
// @Tags recurring
// @Accept json
// @Produce json
// @Param rule body dto.CreateRecurringRuleRequest true "Rule"
// @Success 201 {object} domain.RecurringRule
// @Security BearerAuth
// @Router /recurring [post]
func (h *recurringHandler) createRule(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req dto.CreateRecurringRuleRequest
	if !bindJSON(c, &req) {
		return
	}
	rule, err := h.recurringService.CreateRule(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err, "Failed to create recurring rule")
		return
	}
	c.JSON(http.StatusCreated, rule)
}

// listRules godoc
// @Summary List recurring rules
// @Tags recurring
// @Produce json
// @Success 200 {array} domain.RecurringRule
// @Security BearerAuth
// @Router /recurring [get]
func (h *recurringHandler) listRules(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	rules, err := h.recurringService.ListRules(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to list recurring rules")
		return
	}
	c.JSON(http.StatusOK, rules)
}

func (h *recurringHandler) getRule(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	rule, err := h.recurringService.GetRule(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve recurring rule")
		return
	}
	c.JSON(http.StatusOK, rule)
}

func (h *recurringHandler) updateRule(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req dto.UpdateRecurringRuleRequest
	if !bindJSON(c, &req) {
		return
	}
	rule, err := h.recurringService.UpdateRule(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		respondError(c, err, "Failed to update recurring rule")
		return
	}
	c.JSON(http.StatusOK, rule)
}

// toggleRule godoc
// @Summary Pause or resume a recurring rule
// @Description A rule retired by the engine cannot be resumed
// @Tags recurring
// @Accept json
// @Produce json
// @Param id path string true "Rule ID"
// @Param toggle body dto.ToggleRecurringRuleRequest true "Desired state"
// @Success 200 {object} domain.RecurringRule
// @Failure 422 {object} map[string]string "Rule already completed"
// @Security BearerAuth
// @Router /recurring/{id}/toggle [post]
func (h *recurringHandler) toggleRule(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req dto.ToggleRecurringRuleRequest
	if !bindJSON(c, &req) {
		return
	}
	rule, err := h.recurringService.ToggleRule(c.Request.Context(), userID, c.Param("id"), req.Active)
	if err != nil {
		respondError(c, err, "Failed to toggle recurring rule")
		return
	}
	c.JSON(http.StatusOK, rule)
}

func (h *recurringHandler) deleteRule(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	if err := h.recurringService.DeleteRule(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete recurring rule")
		return
	}
	c.Status(http.StatusNoContent)
}
