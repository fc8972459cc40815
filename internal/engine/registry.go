// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// registry.go resolves template kinds to strategies. Each strategy parses
// its templates once, so instances are cached and shared by every store.
package engine

import (
	"log/slog"
	"sync"

	"tiendazo/internal/models"
)

// Registry hands out one shared Strategy per template kind.
type Registry struct {
	opts Options

	mu        sync.RWMutex
	instances map[models.TemplateKind]Strategy
}

// NewRegistry creates an empty registry. Strategies are built on first use.
func NewRegistry(opts Options) *Registry {
	return &Registry{
		opts:      opts.withDefaults(),
		instances: make(map[models.TemplateKind]Strategy),
	}
}

// Template returns the strategy for kind. Unknown kinds get the Modern
// template so a storefront always renders.
func (r *Registry) Template(kind models.TemplateKind) Strategy {
	resolved, ok := models.ParseTemplateKind(string(kind))
	if !ok {
		slog.Warn("unknown template kind, using modern", "kind", kind)
		resolved = models.TemplateModern
	}

	r.mu.RLock()
	s, ok := r.instances[resolved]
	r.mu.RUnlock()
	if ok {
		return s
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check after acquiring write lock.
	if s, ok := r.instances[resolved]; ok {
		return s
	}

	s = r.build(resolved)
	r.instances[resolved] = s
	slog.Debug("template strategy cached", "kind", resolved, "size", len(r.instances))
	return s
}

func (r *Registry) build(kind models.TemplateKind) Strategy {
	switch kind {
	case models.TemplateMinimalist:
		return NewMinimalist(r.opts)
	case models.TemplateElegant:
		return NewElegant(r.opts)
	default:
		return NewModern(r.opts)
	}
}

// All returns one strategy of every kind, in display order.
func (r *Registry) All() []Strategy {
	out := make([]Strategy, 0, len(models.TemplateKinds))
	for _, kind := range models.TemplateKinds {
		out = append(out, r.Template(kind))
	}
	return out
}

// Clear drops every cached strategy.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.instances = make(map[models.TemplateKind]Strategy)
	slog.Debug("template strategy cache cleared")
}
