package handlers

import (
	"net/http"

	"github.com/SscSPs/myspendr/internal/core/domain"
	portssvc "github.com/SscSPs/myspendr/internal/core/ports/services"
	"github.com/SscSPs/myspendr/internal/dto"
	"github.com/gin-gonic/gin"
)

type chatLinkHandler struct {
	chatLinkService portssvc.ChatLinkSvcFacade
}

// RegisterChatLinkRoutes registers the authenticated routes that bind chats to the current user.
func RegisterChatLinkRoutes(rg *gin.RouterGroup, chatLinkService portssvc.ChatLinkSvcFacade) {
	h := &chatLinkHandler{chatLinkService: chatLinkService}

	chat := rg.Group("/chat")
	{
		chat.POST("/link-token", h.issueLinkToken)
		chat.GET("/links", h.listLinks)
	}
}

// issueLinkToken godoc
// @Summary Issue a chat link token
// @Description Returns a one-time token. Sending the returned command from a chat binds that chat to the current user.
// @Tags chat
// @Produce  json
// @Success 201 {object} dto.LinkTokenResponse
// @Security BearerAuth
// @Router /chat/link-token [post]
func (h *chatLinkHandler) issueLinkToken(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	token, err := h.chatLinkService.IssueLinkToken(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to issue link token")
		return
	}
	c.JSON(http.StatusCreated, dto.LinkTokenResponse{
		Token:     token.Token,
		Command:   "/" + domain.CommandStart + " " + token.Token,
		ExpiresAt: token.ExpiresAt,
	})
}

// listLinks godoc
// @Summary List linked chats
// @Tags chat
// @Produce  json
// @Success 200 {object} dto.ChatLinksResponse
// @Security BearerAuth
// @Router /chat/links [get]
func (h *chatLinkHandler) listLinks(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	ids, err := h.chatLinkService.ChatIDsForUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to list chat links")
		return
	}
	if ids == nil {
		ids = []string{}
	}
	c.JSON(http.StatusOK, dto.ChatLinksResponse{ChatIDs: ids})
}
