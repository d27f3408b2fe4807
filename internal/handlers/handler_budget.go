package handlers

import (
	"net/http"
	"time"

	"github.com/SscSPs/myspendr/internal/core/domain"
	portssvc "github.com/SscSPs/myspendr/internal/core/ports/services"
	"github.com/SscSPs/myspendr/internal/dto"
	"github.com/gin-gonic/gin"
)

// budgetHandler handles HTTP requests for monthly category budgets.
type budgetHandler struct {
	budgetService portssvc.BudgetSvc
	now           func() time.Time
}

// RegisterBudgetRoutes registers routes related to budgets.
func RegisterBudgetRoutes(rg *gin.RouterGroup, budgetService portssvc.BudgetSvc) {
	h := &budgetHandler{budgetService: budgetService, now: time.Now}

	budgets := rg.Group("/budgets")
	{
		budgets.PUT("", h.setBudget)
		budgets.GET("", h.listBudgets)
		budgets.GET("/:category", h.getBudget)
	}
}

// setBudget godoc
// @Summary Set a monthly budget
// @Description Creates or replaces the spending limit of a category for one month
// @Tags budgets
// @Accept  json
// @Produce  json
// @Param   budget body dto.SetBudgetRequest true "Budget limit"
// @Success 200 {object} dto.BudgetResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 500 {object} map[string]string "Failed to set budget"
// @Security BearerAuth
// @Router /budgets [put]
func (h *budgetHandler) setBudget(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.SetBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	key := domain.BudgetKey{UserID: userID, Category: domain.Category(req.Category), Month: req.Month, Year: req.Year}
	if _, err := h.budgetService.SetLimit(c.Request.Context(), key, *req.Limit); err != nil {
		respondError(c, err, "Failed to set budget")
		return
	}
	eval, err := h.budgetService.Evaluate(c.Request.Context(), key)
	if err != nil {
		respondError(c, err, "Failed to evaluate budget")
		return
	}
	c.JSON(http.StatusOK, dto.ToBudgetResponse(eval))
}

// getBudget godoc
// @Summary Evaluate a category budget
// @Description Returns limit, spent and remaining for a category. Month and year default to the current month.
// @Tags budgets
// @Produce  json
// @Param   category path string true "Category"
// @Param   month query int false "Month (1-12)"
// @Param   year query int false "Year"
// @Success 200 {object} dto.BudgetResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Security BearerAuth
// @Router /budgets/{category} [get]
func (h *budgetHandler) getBudget(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	month, year, ok := h.period(c)
	if !ok {
		return
	}
	category, err := domain.ParseCategory(c.Param("category"))
	if err != nil {
		badRequest(c, err)
		return
	}

	eval, err := h.budgetService.Evaluate(c.Request.Context(), domain.BudgetKey{UserID: userID, Category: category, Month: month, Year: year})
	if err != nil {
		respondError(c, err, "Failed to evaluate budget")
		return
	}
	c.JSON(http.StatusOK, dto.ToBudgetResponse(eval))
}

// listBudgets godoc
// @Summary Evaluate every configured budget of a month
// @Tags budgets
// @Produce  json
// @Param   month query int false "Month (1-12)"
// @Param   year query int false "Year"
// @Success 200 {array} dto.BudgetResponse
// @Security BearerAuth
// @Router /budgets [get]
func (h *budgetHandler) listBudgets(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	month, year, ok := h.period(c)
	if !ok {
		return
	}

	evals, err := h.budgetService.EvaluateAll(c.Request.Context(), userID, month, year)
	if err != nil {
		respondError(c, err, "Failed to list budgets")
		return
	}
	c.JSON(http.StatusOK, dto.ToListBudgetResponse(evals))
}

// period binds month and year, filling the gaps from the current date.
func (h *budgetHandler) period(c *gin.Context) (int, int, bool) {
	var params dto.BudgetPeriodParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, err)
		return 0, 0, false
	}
	now := h.now().UTC()
	if params.Month == 0 {
		params.Month = int(now.Month())
	}
	if params.Year == 0 {
		params.Year = now.Year()
	}
	return params.Month, params.Year, true
}
