// Package api provides the HTTP API for the application
package api

import (
	"rowboat/internal/platform/config"
	"rowboat/internal/platform/logger"
	phttp "rowboat/internal/platform/net/http"
	"rowboat/internal/platform/store"

	"rowboat/internal/modkit"
	"rowboat/internal/modkit/httpkit"
	"rowboat/internal/modkit/module"

	harvestapi "rowboat/internal/services/api/harvest/module"
	metamod "rowboat/internal/services/api/meta/module"

	// Worker harvest module (owns the Harvester and History ports)
	harvestmod "rowboat/internal/services/harvest/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg: opt.Config,
	}
	if opt.Store != nil {
		deps.PG = opt.Store.PG
	}

	// Construct the worker harvest module first and extract its ports
	worker := harvestmod.New(deps)
	ports := module.MustPortsOf[harvestmod.Ports](worker)

	// Inject those ports into the harvest API module
	harvestAPI := harvestapi.New(
		deps,
		modkit.WithPorts(harvestapi.Ports{
			Harvester: ports.Harvester,
			History:   ports.History,
		}),
	)

	mods := []module.Module{
		metamod.New(deps),
		worker, // include worker so its ports are registered
		harvestAPI,
	}

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		phttp.MountSwagger(r, opt.EnableSwagger)
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())

			// mount module routes under its Prefix()
			m.MountRoutes(api)
		}
	})
}
