package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/myspendr/internal/core/domain"
	portssvc "github.com/SscSPs/myspendr/internal/core/ports/services"
	"github.com/SscSPs/myspendr/internal/dto"
	"github.com/SscSPs/myspendr/internal/middleware"
	"github.com/gin-gonic/gin"
)

// movementHandler handles HTTP requests for the movement log.
type movementHandler struct {
	ledgerService   portssvc.LedgerSvc
	movementService portssvc.MovementSvcFacade
}

// RegisterMovementRoutes registers routes related to movements.
func RegisterMovementRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvc, movementService portssvc.MovementSvcFacade) {
	h := &movementHandler{ledgerService: ledgerService, movementService: movementService}

	movements := rg.Group("/movements")
	{
		movements.POST("", h.createMovement)
		movements.GET("", h.listMovements)
		movements.GET("/range", h.listMovementsInRange)
		movements.GET("/:movementID", h.getMovement)
		movements.DELETE("/:movementID", h.deleteMovement)
		movements.GET("/totals/:direction", h.totals)
		movements.GET("/totals/:direction/last-month", h.totalsLastMonth)
	}
}

// createMovement godoc
// @Summary Record a movement
// @Description Applies an IN or OUT movement to the sub-balance named by source and stores it
// @Tags movements
// @Accept  json
// @Produce  json
// @Param   movement body dto.CreateMovementRequest true "Movement details"
// @Success 201 {object} dto.MovementResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Capital account not found"
// @Failure 500 {object} map[string]string "Failed to record movement"
// @Security BearerAuth
// @Router /movements [post]
func (h *movementHandler) createMovement(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var req dto.CreateMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	draft, err := req.ToDraft()
	if err != nil {
		badRequest(c, err)
		return
	}

	m, err := h.ledgerService.Apply(c.Request.Context(), userID, draft)
	if err != nil {
		respondError(c, err, "Failed to record movement")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Movement recorded via API", slog.String("movement_id", m.MovementID))
	c.JSON(http.StatusCreated, dto.ToMovementResponse(m))
}

// listMovements godoc
// @Summary List movements
// @Description Lists the current user's movements newest first, one page at a time
// @Tags movements
// @Produce  json
// @Param   limit query int false "Page size (1-200, default 50)"
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListMovementsResponse
// @Failure 400 {object} map[string]string "Invalid parameters"
// @Security BearerAuth
// @Router /movements [get]
func (h *movementHandler) listMovements(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var params dto.ListMovementsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, err)
		return
	}
	if params.Limit == 0 {
		params.Limit = dto.DefaultMovementPageSize
	}

	page, err := h.movementService.ListMovementsPage(c.Request.Context(), userID, params.Limit, params.NextToken)
	if err != nil {
		respondError(c, err, "Failed to list movements")
		return
	}
	c.JSON(http.StatusOK, dto.ToListMovementsPageResponse(page))
}

// listMovementsInRange godoc
// @Summary List movements in a date range
// @Tags movements
// @Produce  json
// @Param   start query string true "First day (yyyy-mm-dd), inclusive"
// @Param   end query string true "Last day (yyyy-mm-dd), inclusive"
// @Success 200 {array} dto.MovementResponse
// @Failure 400 {object} map[string]string "Invalid range"
// @Security BearerAuth
// @Router /movements/range [get]
func (h *movementHandler) listMovementsInRange(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	var params dto.MovementRangeParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, err)
		return
	}
	// Layout already checked by binding.
	from, _ := time.Parse(domain.DateLayout, params.Start)
	to, _ := time.Parse(domain.DateLayout, params.End)

	ms, err := h.movementService.ListMovementsInRange(c.Request.Context(), userID, from, to)
	if err != nil {
		respondError(c, err, "Failed to list movements")
		return
	}
	c.JSON(http.StatusOK, dto.ToListMovementResponse(ms))
}

// getMovement godoc
// @Summary Get a movement
// @Tags movements
// @Produce  json
// @Param   movementID path string true "Movement ID"
// @Success 200 {object} dto.MovementResponse
// @Failure 404 {object} map[string]string "Movement not found"
// @Security BearerAuth
// @Router /movements/{movementID} [get]
func (h *movementHandler) getMovement(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	m, err := h.movementService.GetMovement(c.Request.Context(), userID, c.Param("movementID"))
	if err != nil {
		respondError(c, err, "Failed to retrieve movement")
		return
	}
	c.JSON(http.StatusOK, dto.ToMovementResponse(m))
}

// deleteMovement godoc
// @Summary Reverse and delete a movement
// @Description Reverts the movement's effect on its sub-balance, then deletes it
// @Tags movements
// @Param   movementID path string true "Movement ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string "Movement not found"
// @Security BearerAuth
// @Router /movements/{movementID} [delete]
func (h *movementHandler) deleteMovement(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.ledgerService.ReverseAndDelete(c.Request.Context(), userID, c.Param("movementID")); err != nil {
		respondError(c, err, "Failed to delete movement")
		return
	}
	c.Status(http.StatusNoContent)
}

// totals godoc
// @Summary Total amount per direction
// @Tags movements
// @Produce  json
// @Param   direction path string true "IN or OUT"
// @Success 200 {object} dto.TotalsResponse
// @Failure 400 {object} map[string]string "Invalid direction"
// @Security BearerAuth
// @Router /movements/totals/{direction} [get]
func (h *movementHandler) totals(c *gin.Context) {
	h.respondTotals(c, h.movementService.TotalByDirection)
}

// totalsLastMonth godoc
// @Summary Total amount per direction over the previous calendar month
// @Tags movements
// @Produce  json
// @Param   direction path string true "IN or OUT"
// @Success 200 {object} dto.TotalsResponse
// @Failure 400 {object} map[string]string "Invalid direction"
// @Security BearerAuth
// @Router /movements/totals/{direction}/last-month [get]
func (h *movementHandler) totalsLastMonth(c *gin.Context) {
	h.respondTotals(c, h.movementService.TotalByDirectionLastMonth)
}

func (h *movementHandler) respondTotals(c *gin.Context, total func(context.Context, string, domain.Direction) (*domain.DirectionTotals, error)) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	direction, err := domain.ParseDirection(c.Param("direction"))
	if err != nil {
		badRequest(c, err)
		return
	}
	totals, err := total(c.Request.Context(), userID, direction)
	if err != nil {
		respondError(c, err, "Failed to compute totals")
		return
	}
	c.JSON(http.StatusOK, dto.ToTotalsResponse(totals))
}
