// Package module wires the harvest HTTP surface into the API using modkit
package module

import (
	"net/http"

	modkit "rowboat/internal/modkit"
	"rowboat/internal/modkit/httpkit"

	hhttp "rowboat/internal/services/api/harvest/http"
	hdom "rowboat/internal/services/harvest/domain"
)

// Ports declares the worker ports this API module consumes
type Ports struct {
	Harvester hdom.HarvesterPort
	History   hdom.HistoryPort
}

// Module implements the harvest API module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws       []func(http.Handler) http.Handler
	ports     any
	swaggerOn bool

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)
}

// New constructs the harvest API module. The Harvester and History ports
// come from the harvest worker module via modkit.WithPorts.
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("harvest"),
		modkit.WithPrefix("/harvest"),
	}, opts...)...)

	var injected Ports
	if p, ok := b.Ports.(Ports); ok {
		injected = p
	}
	if injected.Harvester == nil {
		panic("harvest API module requires Harvester port (from services/harvest)")
	}

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		swaggerOn: b.SwaggerOn,
		subrouter: b.Subrouter,
		ports:     injected,
	}

	external := b.Register
	m.register = func(r httpkit.Router) {
		hhttp.Register(r, hhttp.Deps{
			Harvester: injected.Harvester,
			History:   injected.History,
		})
		if external != nil {
			external(r)
		}
	}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return m.name }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// Prefix satisfies modkit.Module
func (m *Module) Prefix() string { return m.prefix }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		if m.subrouter != nil {
			rr = m.subrouter(rr)
		}
		if m.register != nil {
			m.register(rr)
		}
	})
}
