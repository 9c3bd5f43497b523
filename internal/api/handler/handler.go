package handler

import (
	"webchat/backend/internal/chathub"
	"webchat/backend/internal/mailer"
	"webchat/backend/internal/storage"
)

// Handler carries the dependencies of every HTTP endpoint.
type Handler struct {
	Hub       *chathub.Hub
	Storage   storage.Storage
	Mailer    *mailer.Mailer
	JWTSecret []byte
}

func NewHandler(hub *chathub.Hub, s storage.Storage, m *mailer.Mailer, jwtSecret []byte) *Handler {
	return &Handler{
		Hub:       hub,
		Storage:   s,
		Mailer:    m,
		JWTSecret: jwtSecret,
	}
}
