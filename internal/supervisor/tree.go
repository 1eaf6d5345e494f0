// Guesthouse - Booking and Property Management
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guesthouse

package supervisor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"
)

// Layer names a child supervisor of the root.
type Layer string

const (
	// LayerData holds jobs that touch the document store: scheduled
	// backups and activity log retention.
	LayerData Layer = "data-layer"
	// LayerMessaging holds the WebSocket hub.
	LayerMessaging Layer = "messaging-layer"
	// LayerAPI holds the HTTP server.
	LayerAPI Layer = "api-layer"
)

// layers is the start order.
var layers = []Layer{LayerData, LayerMessaging, LayerAPI}

// TreeConfig holds restart and shutdown tuning. Zero fields take the values
// from DefaultTreeConfig.
type TreeConfig struct {
	FailureThreshold float64       // failures before backing off
	FailureDecay     float64       // seconds for the failure count to halve
	FailureBackoff   time.Duration // pause once the threshold is hit
	ShutdownTimeout  time.Duration // per-service stop deadline
}

// DefaultTreeConfig returns suture's own defaults.
func DefaultTreeConfig() TreeConfig {
	return TreeConfig{
		FailureThreshold: 5,
		FailureDecay:     30,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	}
}

func (c TreeConfig) withDefaults() TreeConfig {
	d := DefaultTreeConfig()
	if c.FailureThreshold == 0 {
		c.FailureThreshold = d.FailureThreshold
	}
	if c.FailureDecay == 0 {
		c.FailureDecay = d.FailureDecay
	}
	if c.FailureBackoff == 0 {
		c.FailureBackoff = d.FailureBackoff
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = d.ShutdownTimeout
	}
	return c
}

func (c TreeConfig) spec() suture.Spec {
	return suture.Spec{
		FailureThreshold: c.FailureThreshold,
		FailureDecay:     c.FailureDecay,
		FailureBackoff:   c.FailureBackoff,
		Timeout:          c.ShutdownTimeout,
	}
}

// SupervisorTree is the process supervisor. Each Layer restarts its own
// services, so a crashing backup job never restarts the HTTP server.
type SupervisorTree struct {
	root     *suture.Supervisor
	children map[Layer]*suture.Supervisor
	config   TreeConfig

	mu    sync.Mutex
	names map[Layer][]string
}

// NewSupervisorTree builds the root supervisor named "guesthouse" and one
// child per Layer. Supervisor events go to logger through sutureslog.
func NewSupervisorTree(logger *slog.Logger, config TreeConfig) (*SupervisorTree, error) {
	if logger == nil {
		return nil, fmt.Errorf("supervisor tree needs a logger")
	}
	config = config.withDefaults()

	hook := (&sutureslog.Handler{Logger: logger}).MustHook()
	rootSpec := config.spec()
	rootSpec.EventHook = hook

	t := &SupervisorTree{
		root:     suture.New("guesthouse", rootSpec),
		children: make(map[Layer]*suture.Supervisor, len(layers)),
		config:   config,
		names:    make(map[Layer][]string),
	}
	// Children inherit the root's event hook when added.
	for _, l := range layers {
		child := suture.New(string(l), config.spec())
		t.children[l] = child
		t.root.Add(child)
	}
	return t, nil
}

// Add registers svc under layer. It panics on an unknown layer, which is a
// programming error.
func (t *SupervisorTree) Add(layer Layer, svc suture.Service) suture.ServiceToken {
	child, ok := t.children[layer]
	if !ok {
		panic(fmt.Sprintf("supervisor: unknown layer %q", layer))
	}
	t.mu.Lock()
	t.names[layer] = append(t.names[layer], fmt.Sprint(svc))
	t.mu.Unlock()
	return child.Add(svc)
}

// Services lists the names of the services added to layer, in order.
func (t *SupervisorTree) Services(layer Layer) []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.names[layer]...)
}

// Serve runs the tree until ctx is canceled.
func (t *SupervisorTree) Serve(ctx context.Context) error {
	return t.root.Serve(ctx)
}

// ServeBackground starts the tree in a goroutine. The channel receives one
// value when the tree stops and is never closed.
func (t *SupervisorTree) ServeBackground(ctx context.Context) <-chan error {
	return t.root.ServeBackground(ctx)
}

// UnstoppedServiceReport lists services that missed the shutdown timeout.
func (t *SupervisorTree) UnstoppedServiceReport() ([]suture.UnstoppedService, error) {
	return t.root.UnstoppedServiceReport()
}
