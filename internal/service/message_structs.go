package service

import (
	"time"

	"github.com/helpify-project/messageboard/internal/database/models"
)

// Sent by client
type CreateMessageRequest struct {
	Body     string `json:"body" validate:"required"`
	Username string `json:"username" validate:"required"`
}

// Sent by client. An empty Body leaves the message untouched.
type UpdateMessageRequest struct {
	Body string `json:"body"`
}

// Message is the wire form of models.Message. Field order is the JSON order.
type Message struct {
	ID        int64     `json:"id"`
	Body      string    `json:"body"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func MessageFromModel(msg models.Message) (m Message) {
	m.FromModel(msg)
	return
}

func (m *Message) FromModel(msg models.Message) {
	m.ID = msg.ID
	m.Body = msg.Body
	m.Username = msg.Username
	m.CreatedAt = msg.CreatedAt.UTC()
	m.UpdatedAt = msg.UpdatedAt.UTC()
}
