package handlers

import (
	"net/http"

	"asset-backend/internal/auth"
	"asset-backend/internal/notify"
	"asset-backend/pkg/utils"
)

// WSHandler guards the notification websocket. Browsers cannot set an
// Authorization header on a websocket handshake, so the token travels as
// a query parameter instead.
type WSHandler struct {
	jwt *auth.JWTManager
	hub *notify.Hub
}

func NewWSHandler(jwt *auth.JWTManager, hub *notify.Hub) *WSHandler {
	return &WSHandler{jwt: jwt, hub: hub}
}

func (h *WSHandler) Serve(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		utils.Error(w, http.StatusUnauthorized, "token query parameter required")
		return
	}
	if _, err := h.jwt.ValidateToken(token); err != nil {
		utils.Error(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}
	h.hub.ServeWS(w, r)
}
