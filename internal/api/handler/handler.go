package handler

import "futuremesh/backend/internal/chathub"

// Handler holds the realtime hub the HTTP endpoints hand connections to.
type Handler struct {
	Hub *chathub.ManagerService
}

func NewHandler(hub *chathub.ManagerService) *Handler {
	return &Handler{Hub: hub}
}
