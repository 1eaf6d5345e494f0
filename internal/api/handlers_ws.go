// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

package api

import (
	"context"
	"net/http"
	"net/url"
	"time"

	gws "github.com/gorilla/websocket"

	"github.com/tomtom215/guesthouse/internal/auth"
	"github.com/tomtom215/guesthouse/internal/logging"
	"github.com/tomtom215/guesthouse/internal/websocket"
)

// wsJoinTimeout bounds the wait for the hub to accept a new connection.
const wsJoinTimeout = 5 * time.Second

// WebSocket upgrades an authenticated admin request and registers the
// connection with the live event hub.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Live updates are unavailable", nil)
		return
	}

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		logging.Ctx(r.Context()).Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	username := ""
	if claims := auth.ClaimsFromContext(r.Context()); claims != nil {
		username = claims.Username
	}

	client := websocket.NewClient(h.hub, conn, username)
	ctx, cancel := context.WithTimeout(r.Context(), wsJoinTimeout)
	defer cancel()
	if !h.hub.Join(ctx, client) {
		logging.Ctx(r.Context()).Warn().Msg("WebSocket hub not running, connection closed")
		_ = conn.WriteControl(gws.CloseMessage,
			gws.FormatCloseMessage(gws.CloseTryAgainLater, "live updates restarting"),
			time.Now().Add(time.Second))
		_ = conn.Close()
		return
	}
	client.Start()
}

func (h *Handler) getUpgrader() gws.Upgrader {
	return gws.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin accepts same-origin requests and configured CORS
// origins. Browsers always send Origin, so a missing one is rejected.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		logging.Ctx(r.Context()).Warn().Msg("WebSocket connection rejected: missing Origin header")
		return false
	}

	if u, err := url.Parse(origin); err == nil && u.Host == r.Host {
		return true
	}

	for _, allowed := range h.cfg.Security.CORSOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}

	logging.Ctx(r.Context()).Warn().
		Str("origin", logging.SanitizeLogValue(origin)).
		Msg("WebSocket connection rejected from unauthorized origin")
	return false
}
