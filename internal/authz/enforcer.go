// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

package authz

import (
	_ "embed"
	"fmt"
	"time"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	stringadapter "github.com/casbin/casbin/v2/persist/string-adapter"

	"github.com/tomtom215/guesthouse/internal/cache"
)

//go:embed model.conf
var embeddedModel string

//go:embed policy.csv
var embeddedPolicy string

// Actions passed to Enforce.
const (
	ActionRead  = "read"
	ActionWrite = "write"
)

// EnforcerConfig controls decision caching. The policy is fixed at build
// time, so cached decisions only go stale on restart.
type EnforcerConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
}

// DefaultEnforcerConfig caches decisions for five minutes.
func DefaultEnforcerConfig() *EnforcerConfig {
	return &EnforcerConfig{CacheEnabled: true, CacheTTL: 5 * time.Minute}
}

// Enforcer answers role, path and action questions against the embedded
// casbin model and policy.
type Enforcer struct {
	casbin    *casbin.SyncedEnforcer
	decisions *cache.Cache // nil when caching is off
}

// NewEnforcer compiles the embedded model and loads the embedded policy.
func NewEnforcer(config *EnforcerConfig) (*Enforcer, error) {
	if config == nil {
		config = DefaultEnforcerConfig()
	}

	m, err := model.NewModelFromString(embeddedModel)
	if err != nil {
		return nil, fmt.Errorf("parse authorization model: %w", err)
	}
	ce, err := casbin.NewSyncedEnforcer(m, stringadapter.NewAdapter(embeddedPolicy))
	if err != nil {
		return nil, fmt.Errorf("load authorization policy: %w", err)
	}

	e := &Enforcer{casbin: ce}
	if config.CacheEnabled {
		e.decisions = cache.New("authz", config.CacheTTL)
	}
	return e, nil
}

// Enforce reports whether role may perform action on path.
func (e *Enforcer) Enforce(role, path, action string) (bool, error) {
	key := cache.Key(role, action, path)
	if e.decisions != nil {
		if v, ok := e.decisions.Get(key); ok {
			return v.(bool), nil
		}
	}

	allowed, err := e.casbin.Enforce(role, path, action)
	if err != nil {
		return false, fmt.Errorf("enforce %s %s for %q: %w", action, path, role, err)
	}

	if e.decisions != nil {
		e.decisions.Set(key, allowed)
	}
	return allowed, nil
}

// Close releases the decision cache.
func (e *Enforcer) Close() {
	if e.decisions != nil {
		e.decisions.Close()
	}
}
