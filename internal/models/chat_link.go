package models

import "time"

type ChatLink struct {
	ChatID   string    `db:"chat_id"`
	UserID   string    `db:"user_id"`
	LinkedAt time.Time `db:"linked_at"`
}

type LinkToken struct {
	Token     string    `db:"token"`
	UserID    string    `db:"user_id"`
	ExpiresAt time.Time `db:"expires_at"`
}
