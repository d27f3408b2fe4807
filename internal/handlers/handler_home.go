package handlers

import (
	"net/http"

	"github.com/SscSPs/myspendr/cmd/docs"
	"github.com/gin-gonic/gin"
)

// getHome godoc
// @Summary Service banner
// @Description Names the service and its API version
// @Tags root
// @Produce json
// @Success 200 {object} map[string]string
// @Router / [get]
func getHome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"service": "myspendr", "version": docs.SwaggerInfo.Version})
}
