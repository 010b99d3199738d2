package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/budget_planner/internal/apperrors"
	"github.com/SscSPs/budget_planner/internal/core/domain"
	portssvc "github.com/SscSPs/budget_planner/internal/core/ports/services"
	"github.com/SscSPs/budget_planner/internal/dto"
	"github.com/SscSPs/budget_planner/internal/middleware"
	"github.com/SscSPs/budget_planner/internal/utils"
	"github.com/SscSPs/budget_planner/internal/utils/budgeting"
	"github.com/gin-gonic/gin"
)

// budgetPlanHandler handles HTTP requests related to budget plans.
type budgetPlanHandler struct {
	planService portssvc.BudgetPlanSvcFacade
	formatter   *utils.CurrencyFormatter
}

// RegisterBudgetPlanRoutes registers the /budget-plans/:year/:month routes.
func RegisterBudgetPlanRoutes(rg *gin.RouterGroup, planService portssvc.BudgetPlanSvcFacade, formatter *utils.CurrencyFormatter) {
	h := &budgetPlanHandler{planService: planService, formatter: formatter}

	plans := rg.Group("/budget-plans/:year/:month")
	{
		plans.GET("", h.getPlan)
		plans.POST("", h.createPlan)
		plans.PUT("", h.updatePlan)
		plans.DELETE("", h.deletePlan)
	}
}

// bindPlanRequest resolves the caller and the period of a plan route. It writes the
// error response itself and reports false when the request cannot proceed.
func bindPlanRequest(c *gin.Context, logger *slog.Logger) (string, domain.PeriodKey, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", domain.PeriodKey{}, false
	}

	var uri dto.PeriodURI
	if err := c.ShouldBindUri(&uri); err != nil {
		logger.Warn("Invalid period in path", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid period: " + err.Error()})
		return "", domain.PeriodKey{}, false
	}
	return userID, uri.Period(), true
}

// getPlan godoc
// @Summary Get the budget plan of a month
// @Description Retrieves the plan with actual spending, diffs, category names and totals
// @Tags budget-plans
// @Produce  json
// @Param   year path int true "Year"
// @Param   month path int true "Month (1-12)"
// @Success 200 {object} dto.BudgetPlanResponse
// @Failure 400 {object} map[string]string "Invalid period"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "No plan for this month"
// @Failure 500 {object} map[string]string "Failed to retrieve budget plan"
// @Security BearerAuth
// @Router /budget-plans/{year}/{month} [get]
func (h *budgetPlanHandler) getPlan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, period, ok := bindPlanRequest(c, logger)
	if !ok {
		return
	}
	logger = logger.With(slog.String("period", period.String()))

	plan, err := h.planService.GetPlan(c.Request.Context(), userID, period)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Debug("Budget plan not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Budget plan not found"})
		} else {
			logger.Error("Failed to get budget plan from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve budget plan"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToBudgetPlanResponse(plan, h.formatter))
}

// createPlan godoc
// @Summary Create the budget plan of a month
// @Description Stores the first plan for a month. Fails if one already exists.
// @Tags budget-plans
// @Accept  json
// @Produce  json
// @Param   year path int true "Year"
// @Param   month path int true "Month (1-12)"
// @Param   plan body dto.SavePlanRequest true "Plan rows"
// @Success 201 {object} dto.BudgetPlanResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "A plan already exists for this month"
// @Failure 500 {object} map[string]string "Failed to create budget plan"
// @Security BearerAuth
// @Router /budget-plans/{year}/{month} [post]
func (h *budgetPlanHandler) createPlan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, period, ok := bindPlanRequest(c, logger)
	if !ok {
		return
	}

	var req dto.SavePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreatePlan", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger = logger.With(slog.String("period", period.String()))
	logger.Info("Received request to create budget plan", slog.Int("rows", len(req.Rows)))

	plan, err := h.planService.CreatePlan(c.Request.Context(), userID, period, req.ToDocument())
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			logger.Warn("Budget plan already exists")
			c.JSON(http.StatusConflict, gin.H{"error": "Budget plan already exists for this month"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error creating budget plan", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create budget plan in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create budget plan"})
		}
		return
	}

	logger.Info("Budget plan created successfully", slog.String("plan_id", plan.PlanID))
	c.JSON(http.StatusCreated, h.writtenPlanResponse(plan))
}

// updatePlan godoc
// @Summary Replace the budget plan of a month
// @Description Replaces every row of an existing plan
// @Tags budget-plans
// @Accept  json
// @Produce  json
// @Param   year path int true "Year"
// @Param   month path int true "Month (1-12)"
// @Param   plan body dto.SavePlanRequest true "Plan rows"
// @Success 200 {object} dto.BudgetPlanResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "No plan for this month"
// @Failure 500 {object} map[string]string "Failed to update budget plan"
// @Security BearerAuth
// @Router /budget-plans/{year}/{month} [put]
func (h *budgetPlanHandler) updatePlan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, period, ok := bindPlanRequest(c, logger)
	if !ok {
		return
	}

	var req dto.SavePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdatePlan", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger = logger.With(slog.String("period", period.String()))

	plan, err := h.planService.UpdatePlan(c.Request.Context(), userID, period, req.ToDocument())
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Debug("Budget plan not found for update")
			c.JSON(http.StatusNotFound, gin.H{"error": "Budget plan not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error updating budget plan", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to update budget plan in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update budget plan"})
		}
		return
	}

	logger.Info("Budget plan updated successfully", slog.String("plan_id", plan.PlanID))
	c.JSON(http.StatusOK, h.writtenPlanResponse(plan))
}

// deletePlan godoc
// @Summary Delete the budget plan of a month
// @Tags budget-plans
// @Param   year path int true "Year"
// @Param   month path int true "Month (1-12)"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Invalid period"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "No plan for this month"
// @Failure 500 {object} map[string]string "Failed to delete budget plan"
// @Security BearerAuth
// @Router /budget-plans/{year}/{month} [delete]
func (h *budgetPlanHandler) deletePlan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, period, ok := bindPlanRequest(c, logger)
	if !ok {
		return
	}
	logger = logger.With(slog.String("period", period.String()))

	if err := h.planService.DeletePlan(c.Request.Context(), userID, period); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Debug("Budget plan not found for delete")
			c.JSON(http.StatusNotFound, gin.H{"error": "Budget plan not found"})
		} else {
			logger.Error("Failed to delete budget plan in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete budget plan"})
		}
		return
	}

	logger.Info("Budget plan deleted successfully")
	c.Status(http.StatusNoContent)
}

// writtenPlanResponse renders a freshly stored plan. Actuals are only resolved on reads.
func (h *budgetPlanHandler) writtenPlanResponse(plan *domain.BudgetPlan) dto.BudgetPlanResponse {
	rows := make([]domain.ReconciledRow, 0, len(plan.Rows))
	for _, r := range plan.Rows {
		rows = append(rows, domain.ReconciledRow{BudgetRow: r})
	}
	return dto.ToBudgetPlanResponse(&domain.ReconciledPlan{
		Plan:    *plan,
		Rows:    rows,
		Summary: budgeting.Summarize(plan.Rows),
	}, h.formatter)
}
