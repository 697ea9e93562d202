package api

import (
	authDelivery "inboxcal/internal/auth/delivery"
	candidateDelivery "inboxcal/internal/candidate/delivery"

	"github.com/gin-gonic/gin"
)

// Handler wraps the gin engine and route setup.
type Handler struct {
	router *gin.Engine
}

func NewHandler(authHandler *authDelivery.AuthHandler, candidateHandler *candidateDelivery.CandidateHandler) *Handler {
	router := gin.Default()
	SetupRoutes(router, authHandler, candidateHandler)
	return &Handler{router: router}
}

// Start runs the HTTP server.
func (h *Handler) Start(addr string) error {
	return h.router.Run(addr)
}
