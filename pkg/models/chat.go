package models

import (
	"time"
)

const (
	ChatSenderUser = "user"
	ChatSenderCafe = "cafe"
)

type ChatMessage struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Sender    string    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
}
