// Package module implements the harvest service module
package module

import (
	"rowboat/internal/adapters/scholarone"
	"rowboat/internal/core/flatten"
	"rowboat/internal/modkit"
	"rowboat/internal/modkit/httpkit"
	"rowboat/internal/modkit/repokit"
	"rowboat/internal/services/harvest/domain"
	"rowboat/internal/services/harvest/repo"
	"rowboat/internal/services/harvest/service"
)

// Ports exposed by the harvest module
type Ports struct {
	Harvester domain.HarvesterPort
	History   domain.HistoryPort
}

// Module implements the harvest service module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a new harvest module
func New(deps modkit.Deps) *Module {
	opts := FromConfig(deps.Cfg)

	fetcher := scholarone.NewClient(scholarone.Options{
		BaseURL:   opts.BaseURL,
		Username:  opts.Username,
		APIKey:    opts.APIKey,
		UserAgent: opts.UserAgent,
		Timeout:   opts.Timeout,
	})

	svc := service.New(repokit.TxRunner(deps.PG), repo.NewPG(), fetcher, service.Config{
		Sites:  opts.Sites,
		Policy: flatten.ParsePolicy(opts.Policy),
	})

	m := &Module{deps: deps}
	m.ports = Ports{
		Harvester: svc,
		History:   svc,
	}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "harvest" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// Prefix satisfies modkit.Module
func (m *Module) Prefix() string { return "" }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {}
