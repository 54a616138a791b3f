// @title         Rowboat API
// @version       0.1.0
// @description   Harvest ScholarOne manuscript data into flat tables

package main

import (
	"context"

	"rowboat/internal/platform/config"
	"rowboat/internal/platform/logger"
	phttp "rowboat/internal/platform/net/http"
	"rowboat/internal/platform/store"

	"rowboat/internal/services/api"
)

func main() {
	// service-scoped config for HTTP etc (API_*)
	root := config.New()
	apiCfg := root.Prefix("API_")

	pgCfg := root.Prefix("SERVICE_PGSQL_")

	// bring up logging early
	l := logger.Get()

	st, err := store.Open(
		context.Background(),
		store.Config{
			AppName: "rowboat-api",
			PG: store.PGConfig{
				Enabled:     true,
				URL:         pgCfg.MustString("DBURL"),
				MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
				SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
				LogSQL:      pgCfg.MayBool("LOG_SQL", true),
			},
		},
		store.WithLogger(*logger.Get()),
	)
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// http server (reads API_PORT / API_ADDR)
	srv := phttp.NewServer(apiCfg)

	api.Mount(
		srv.Router(),
		api.Options{
			Config:         root,
			Store:          st,
			Logger:         l,
			EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("PROFILER", true),
		},
	)

	if err := srv.Run(context.Background()); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
