package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/myspendr/internal/core/domain"
	portssvc "github.com/SscSPs/myspendr/internal/core/ports/services"
	"github.com/SscSPs/myspendr/internal/dto"
	"github.com/SscSPs/myspendr/internal/middleware"
	"github.com/gin-gonic/gin"
)

// capitalHandler handles HTTP requests for the user's capital account.
type capitalHandler struct {
	capitalService portssvc.CapitalSvcFacade
	ledgerService  portssvc.LedgerSvc
}

// RegisterCapitalRoutes registers routes related to the capital account.
func RegisterCapitalRoutes(rg *gin.RouterGroup, capitalService portssvc.CapitalSvcFacade, ledgerService portssvc.LedgerSvc) {
	h := &capitalHandler{capitalService: capitalService, ledgerService: ledgerService}

	capital := rg.Group("/capital")
	{
		capital.POST("", h.createCapital)
		capital.PUT("", h.updateCapital)
		capital.GET("", h.getCapital)
		capital.DELETE("", h.deleteCapital)
		capital.POST("/reset", h.resetPartial)
		capital.POST("/reset/full", h.resetFull)
		capital.GET("/report/monthly", h.report(domain.ReportMonthly))
		capital.GET("/report/yearly", h.report(domain.ReportYearly))
	}
}

// createCapital godoc
// @Summary Create the capital account
// @Description Creates the current user's capital account with its opening sub-balances
// @Tags capital
// @Accept  json
// @Produce  json
// @Param   capital body dto.CapitalRequest true "Opening balances"
// @Success 201 {object} dto.CapitalResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Capital account already exists"
// @Failure 500 {object} map[string]string "Failed to create capital"
// @Security BearerAuth
// @Router /capital [post]
func (h *capitalHandler) createCapital(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.CapitalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	capital, err := h.capitalService.CreateCapital(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err, "Failed to create capital")
		return
	}
	c.JSON(http.StatusCreated, dto.ToCapitalResponse(capital))
}

// updateCapital godoc
// @Summary Replace the sub-balances
// @Description Overwrites bank, cash and other with the given values
// @Tags capital
// @Accept  json
// @Produce  json
// @Param   capital body dto.CapitalRequest true "New balances"
// @Success 200 {object} dto.CapitalResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Capital account not found"
// @Security BearerAuth
// @Router /capital [put]
func (h *capitalHandler) updateCapital(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.CapitalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	capital, err := h.capitalService.UpdateCapital(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err, "Failed to update capital")
		return
	}
	c.JSON(http.StatusOK, dto.ToCapitalResponse(capital))
}

// getCapital godoc
// @Summary Get the capital account
// @Tags capital
// @Produce  json
// @Success 200 {object} dto.CapitalResponse
// @Failure 404 {object} map[string]string "Capital account not found"
// @Security BearerAuth
// @Router /capital [get]
func (h *capitalHandler) getCapital(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	capital, err := h.capitalService.GetCapital(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to retrieve capital")
		return
	}
	c.JSON(http.StatusOK, dto.ToCapitalResponse(capital))
}

// deleteCapital godoc
// @Summary Delete the capital account
// @Description Deletes the capital account together with its movements
// @Tags capital
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Capital account not found"
// @Security BearerAuth
// @Router /capital [delete]
func (h *capitalHandler) deleteCapital(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.capitalService.DeleteCapital(c.Request.Context(), userID); err != nil {
		respondError(c, err, "Failed to delete capital")
		return
	}
	c.Status(http.StatusNoContent)
}

// resetPartial godoc
// @Summary Zero the balances
// @Description Sets every sub-balance to zero and keeps the movement history
// @Tags capital
// @Produce  json
// @Success 200 {object} dto.CapitalResponse
// @Failure 404 {object} map[string]string "Capital account not found"
// @Security BearerAuth
// @Router /capital/reset [post]
func (h *capitalHandler) resetPartial(c *gin.Context) {
	h.reset(c, false)
}

// resetFull godoc
// @Summary Zero the balances and drop history
// @Description Sets every sub-balance to zero and deletes all movements
// @Tags capital
// @Produce  json
// @Success 200 {object} dto.CapitalResponse
// @Failure 404 {object} map[string]string "Capital account not found"
// @Security BearerAuth
// @Router /capital/reset/full [post]
func (h *capitalHandler) resetFull(c *gin.Context) {
	h.reset(c, true)
}

func (h *capitalHandler) reset(c *gin.Context, full bool) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	reset := h.ledgerService.ResetPartial
	if full {
		reset = h.ledgerService.ResetFull
	}
	capital, err := reset(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to reset capital")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Capital reset via API", slog.Bool("full", full))
	c.JSON(http.StatusOK, dto.ToCapitalResponse(capital))
}

// report godoc
// @Summary Capital totals per period
// @Description Groups the capital snapshot by month (yyyy-MM) or year (yyyy) of its last update
// @Tags capital
// @Produce  json
// @Success 200 {object} dto.CapitalReportResponse
// @Security BearerAuth
// @Router /capital/report/monthly [get]
// @Router /capital/report/yearly [get]
func (h *capitalHandler) report(granularity domain.ReportGranularity) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUser(c)
		if !ok {
			return
		}
		rows, err := h.capitalService.Report(c.Request.Context(), userID, granularity)
		if err != nil {
			respondError(c, err, "Failed to build capital report")
			return
		}
		c.JSON(http.StatusOK, dto.CapitalReportResponse{Granularity: granularity, Rows: rows})
	}
}
