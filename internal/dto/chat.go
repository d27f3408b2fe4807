package dto

import "time"

// LinkTokenResponse is returned when a user asks to connect a chat.
type LinkTokenResponse struct {
	Token     string    `json:"token"`
	Command   string    `json:"command"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ChatLinksResponse lists the chats bound to the current user.
type ChatLinksResponse struct {
	ChatIDs []string `json:"chatIDs"`
}
