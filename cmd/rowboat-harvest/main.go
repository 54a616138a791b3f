package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"rowboat/internal/modkit"
	"rowboat/internal/modkit/module"
	"rowboat/internal/platform/config"
	"rowboat/internal/platform/logger"
	"rowboat/internal/platform/store"
	ptime "rowboat/internal/platform/time"

	"rowboat/internal/services/export"
	harvestdom "rowboat/internal/services/harvest/domain"
	harvestmod "rowboat/internal/services/harvest/module"
)

func mustSetEnv(k, v string) {
	if v != "" {
		_ = os.Setenv(k, v)
	}
}

func main() {
	var (
		endpoint = flag.String("endpoint", "", "upstream endpoint name, e.g. getSubmissionInfoFull")
		sites    = flag.String("sites", "", "comma separated site names (default: configured sites)")
		ids      = flag.String("ids", "", "document ids or emails, any whitespace/comma/semicolon/pipe separated")
		startStr = flag.String("start", "", "inclusive day for date endpoints, e.g. 2026-03-01")
		endStr   = flag.String("end", "", "inclusive day for date endpoints, e.g. 2026-03-15")
		policy   = flag.String("policy", "", "column collision policy: overwrite or disambiguate")
		out      = flag.String("out", "", "output path (.xlsx or .csv, default rowboat_export_<ts>.xlsx)")
		dryRun   = flag.Bool("dry-run", false, "harvest without recording run history")
	)
	flag.Parse()

	if *endpoint == "" {
		log.Fatal("-endpoint is required")
	}

	root := config.New()
	l := logger.Get()

	// Pass CLI flags into HARVEST_* so the module can read its own config
	mustSetEnv("HARVEST_POLICY", *policy)

	deps := modkit.Deps{
		Cfg: root,
		Log: *l,
	}

	if !*dryRun {
		pgCfg := root.Prefix("SERVICE_PGSQL_")
		st, err := store.Open(context.Background(), store.Config{
			AppName: "rowboat-harvest",
			PG: store.PGConfig{
				Enabled:     true,
				URL:         pgCfg.MustString("DBURL"),
				MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 2)),
				SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
				LogSQL:      pgCfg.MayBool("LOG_SQL", false),
			},
		}, store.WithLogger(*l))
		if err != nil {
			l.Panic().Err(err).Msg("store.Open failed")
		}
		defer func() {
			if err := st.Close(context.Background()); err != nil {
				l.Error().Err(err).Msg("failed to close store")
			}
		}()
		deps.PG = st.PG
	}

	spec := harvestdom.RunSpec{
		Endpoint: *endpoint,
		RawIDs:   *ids,
		Policy:   *policy,
	}
	if *sites != "" {
		for _, s := range strings.Split(*sites, ",") {
			if s = strings.TrimSpace(s); s != "" {
				spec.Sites = append(spec.Sites, s)
			}
		}
	}
	if *startStr != "" {
		d, err := time.Parse("2006-01-02", *startStr)
		if err != nil {
			log.Fatalf("bad -start: %v", err)
		}
		spec.From = ptime.DayStartUTC(d)
	}
	if *endStr != "" {
		d, err := time.Parse("2006-01-02", *endStr)
		if err != nil {
			log.Fatalf("bad -end: %v", err)
		}
		spec.To = ptime.DayEndUTC(d)
	}

	hm := harvestmod.New(deps)
	module.Register(hm.Name(), hm.Ports())
	ports := hm.Ports().(harvestmod.Ports)

	rep, err := ports.Harvester.Execute(context.Background(), spec)
	if err != nil {
		l.Fatal().Err(err).Msg("harvest failed")
	}

	path := *out
	if path == "" {
		path = export.DefaultFilename(rep.Run.StartedAt)
	}
	f, err := os.Create(path)
	if err != nil {
		l.Fatal().Err(err).Str("path", path).Msg("create output file")
	}
	if err := export.Write(f, rep.Table, export.FormatForPath(path)); err != nil {
		_ = f.Close()
		l.Fatal().Err(err).Msg("write output")
	}
	if err := f.Close(); err != nil {
		l.Fatal().Err(err).Msg("close output")
	}

	l.Info().
		Str("run", rep.Run.ID.String()).
		Str("status", string(rep.Run.Status)).
		Int("rows", rep.Run.RowCount).
		Str("path", path).
		Msg("harvest complete")
}
