// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/guesthouse/internal/audit"
	"github.com/tomtom215/guesthouse/internal/auth"
	"github.com/tomtom215/guesthouse/internal/backup"
	"github.com/tomtom215/guesthouse/internal/cache"
	"github.com/tomtom215/guesthouse/internal/config"
	"github.com/tomtom215/guesthouse/internal/database"
	"github.com/tomtom215/guesthouse/internal/storage"
	"github.com/tomtom215/guesthouse/internal/websocket"
)

// maxJSONBody bounds JSON request bodies.
const maxJSONBody = 1 << 20

// multipartMemory is kept in memory while parsing uploads; the rest spills to
// temporary files.
const multipartMemory = 8 << 20

// Dependencies are the services a Handler needs. Hub, Backups and Audit may
// be nil; live events and activity entries are then skipped and the backup
// and activity endpoints answer 503.
type Dependencies struct {
	Config      *config.Config
	DB          *database.DB
	Store       storage.Store
	Credentials *auth.Credentials
	JWT         *auth.JWTManager
	AuthMW      *auth.Middleware
	Hub         *websocket.Hub
	Backups     *backup.Manager
	Audit       *audit.Logger
	Version     string
}

// Handler serves every API endpoint.
type Handler struct {
	cfg        *config.Config
	db         *database.DB
	store      storage.Store
	creds      *auth.Credentials
	jwt        *auth.JWTManager
	authMW     *auth.Middleware
	hub        *websocket.Hub
	backups    *backup.Manager
	audit      *audit.Logger
	statsCache *cache.Cache
	snapshot   func(context.Context) (*database.Snapshot, error)
	version    string
	startTime  time.Time
	now        func() time.Time
}

// NewHandler creates a Handler. Close releases the stats cache.
func NewHandler(deps Dependencies) *Handler {
	ttl := deps.Config.Stats.CacheTTL
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &Handler{
		cfg:        deps.Config,
		db:         deps.DB,
		store:      deps.Store,
		creds:      deps.Credentials,
		jwt:        deps.JWT,
		authMW:     deps.AuthMW,
		hub:        deps.Hub,
		backups:    deps.Backups,
		audit:      deps.Audit,
		statsCache: cache.New("stats", ttl),
		snapshot:   deps.DB.Snapshot,
		version:    deps.Version,
		startTime:  time.Now(),
		now:        time.Now,
	}
}

// Close stops background work owned by the handler.
func (h *Handler) Close() {
	h.statsCache.Close()
}

// broadcast sends a live event and drops cached statistics, which every
// broadcast-worthy write invalidates.
func (h *Handler) broadcast(msgType string, data interface{}) {
	h.statsCache.Clear()
	if h.hub != nil {
		h.hub.Broadcast(msgType, data)
	}
}

func (h *Handler) broadcastDeleted(msgType, id string) {
	h.statsCache.Clear()
	if h.hub != nil {
		h.hub.BroadcastDeleted(msgType, id)
	}
}

// recordChange adds an activity entry attributed to the authenticated caller,
// or to the public site when the request carries no claims.
func (h *Handler) recordChange(r *http.Request, eventType audit.EventType, target audit.Target, description string, metadata map[string]interface{}) {
	actor := audit.PublicActor()
	if claims := auth.ClaimsFromContext(r.Context()); claims != nil {
		actor = audit.UserActor(claims.Username, claims.Role)
	}
	h.audit.LogChange(r.Context(), eventType, actor, audit.SourceFromRequest(r), target, description, metadata)
}
