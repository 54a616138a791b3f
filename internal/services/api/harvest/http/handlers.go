// Package http provides http transport for harvest runs
package http

import (
	"encoding/json"
	stdhttp "net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"rowboat/internal/adapters/scholarone"
	"rowboat/internal/core/flatten"
	"rowboat/internal/core/rowset"
	"rowboat/internal/modkit/httpkit"
	perr "rowboat/internal/platform/errors"
	"rowboat/internal/platform/logger"
	phttp "rowboat/internal/platform/net/http"
	"rowboat/internal/platform/net/http/bind"
	ptime "rowboat/internal/platform/time"
	apidom "rowboat/internal/services/api/harvest/domain"
	"rowboat/internal/services/export"
	dom "rowboat/internal/services/harvest/domain"
)

// Deps are the handler dependencies
type Deps struct {
	Harvester dom.HarvesterPort
	History   dom.HistoryPort
}

type handlers struct{ deps Deps }

// Register mounts harvest endpoints on the given router
func Register(r httpkit.Router, d Deps) {
	h := &handlers{deps: d}

	httpkit.PostJSON[apidom.RunInput](r, "/runs", h.run)
	httpkit.PostJSON[apidom.ListRunsInput](r, "/runs/search", h.list)
	httpkit.Get(r, "/runs/{id}", h.get)
	httpkit.PostJSON[apidom.PreviewInput](r, "/preview", h.preview)
	httpkit.Get(r, "/endpoints", h.endpoints)
	r.Post("/export", h.export)
}

// swagger:route POST /harvest/runs Harvest harvestRun
// @Summary Execute a harvest run and return its summary
// @Tags Harvest
// @Accept json
// @Produce json
// @Param payload body domain.RunInput true "Run request"
// @Success 200 {object} domain.RunResponse "ok"
// @Router /harvest/runs [post]
func (h *handlers) run(r *stdhttp.Request, in apidom.RunInput) (any, error) {
	spec, err := toSpec(in)
	if err != nil {
		return nil, err
	}
	rep, err := h.deps.Harvester.Execute(r.Context(), spec)
	if err != nil {
		return nil, err
	}
	return runResponse(rep.Run, rep.Table.Columns), nil
}

// swagger:route POST /harvest/runs/search Harvest harvestRunsSearch
// @Summary List past harvest runs
// @Tags Harvest
// @Accept json
// @Produce json
// @Param payload body domain.ListRunsInput true "Filter"
// @Success 200 {array} domain.RunResponse "ok"
// @Router /harvest/runs/search [post]
func (h *handlers) list(r *stdhttp.Request, in apidom.ListRunsInput) (any, error) {
	runs, err := h.deps.History.List(r.Context(), dom.ListInput{
		Endpoint: in.Endpoint,
		Limit:    in.Limit,
		Offset:   in.Offset,
	})
	if err != nil {
		return nil, err
	}
	out := make([]apidom.RunResponse, 0, len(runs))
	for _, run := range runs {
		out = append(out, runResponse(run, nil))
	}
	return out, nil
}

// swagger:route GET /harvest/runs/{id} Harvest harvestRunGet
// @Summary Fetch one harvest run by id
// @Tags Harvest
// @Produce json
// @Param id path string true "Run id"
// @Success 200 {object} domain.RunResponse "ok"
// @Router /harvest/runs/{id} [get]
func (h *handlers) get(r *stdhttp.Request) (any, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return nil, perr.WithField(perr.Newf(perr.ErrorCodeValidation, "bad run id"), "id")
	}
	run, err := h.deps.History.Get(r.Context(), id)
	if err != nil {
		return nil, err
	}
	fetches, err := h.deps.History.Fetches(r.Context(), id)
	if err != nil {
		return nil, err
	}
	out := runResponse(run, nil)
	for _, f := range fetches {
		out.Fetches = append(out.Fetches, apidom.FetchResponse{
			Site:    f.Site,
			IDCount: f.IDCount,
			Rows:    f.Rows,
			TookMs:  f.TookMs,
			Error:   f.Error,
		})
	}
	return out, nil
}

// swagger:route POST /harvest/preview Harvest harvestPreview
// @Summary Flatten a raw payload without fetching upstream
// @Tags Harvest
// @Accept json
// @Produce json
// @Param payload body domain.PreviewInput true "Payload"
// @Success 200 {object} domain.TableResponse "ok"
// @Router /harvest/preview [post]
func (h *handlers) preview(_ *stdhttp.Request, in apidom.PreviewInput) (any, error) {
	var payload any
	if err := json.Unmarshal(in.Payload, &payload); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeJSON, "decode payload")
	}

	site := in.Site
	if site == "" {
		site = "preview"
	}
	asm := rowset.Assembler{Flatten: flatten.Options{Policy: flatten.ParsePolicy(in.Policy)}}
	t := rowset.BuildTable(asm.ToRows(payload, site))

	rows := make([]map[string]any, len(t.Rows))
	for i, row := range t.Rows {
		rows[i] = row
	}
	return apidom.TableResponse{Columns: t.Columns, Rows: rows}, nil
}

// swagger:route GET /harvest/endpoints Harvest harvestEndpoints
// @Summary List the known upstream endpoints
// @Tags Harvest
// @Produce json
// @Success 200 {array} string "ok"
// @Router /harvest/endpoints [get]
func (h *handlers) endpoints(_ *stdhttp.Request) (any, error) {
	return scholarone.Names(), nil
}

// swagger:route POST /harvest/export Harvest harvestExport
// @Summary Execute a harvest run and stream the spreadsheet
// @Tags Harvest
// @Accept json
// @Produce application/octet-stream
// @Param payload body domain.ExportInput true "Run request"
// @Success 200 {file} binary "spreadsheet"
// @Router /harvest/export [post]
func (h *handlers) export(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	in, err := bind.ParseJSON[apidom.ExportInput](r)
	if err != nil {
		phttp.RespondError(w, r, err)
		return
	}
	spec, err := toSpec(in.RunInput)
	if err != nil {
		phttp.RespondError(w, r, err)
		return
	}
	rep, err := h.deps.Harvester.Execute(r.Context(), spec)
	if err != nil {
		phttp.RespondError(w, r, err)
		return
	}

	format := export.FormatXLSX
	if in.Format != "" {
		format = export.Format(in.Format)
	}
	name := export.DefaultFilename(rep.Run.StartedAt)
	if format == export.FormatCSV {
		name = name[:len(name)-len("xlsx")] + "csv"
		w.Header().Set("Content-Type", "text/csv")
	} else {
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	}
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.Header().Set("X-Run-ID", rep.Run.ID.String())

	if err := export.Write(w, rep.Table, format); err != nil {
		logger.C(r.Context()).Error().Err(err).Msg("export write failed")
	}
}

func toSpec(in apidom.RunInput) (dom.RunSpec, error) {
	spec := dom.RunSpec{
		Endpoint: in.Endpoint,
		Sites:    in.Sites,
		RawIDs:   in.IDs,
		Policy:   in.Policy,
	}
	if in.StartDate != "" {
		d, err := time.Parse("2006-01-02", in.StartDate)
		if err != nil {
			return dom.RunSpec{}, perr.InvalidArgf("bad start_date")
		}
		spec.From = ptime.DayStartUTC(d)
	}
	if in.EndDate != "" {
		d, err := time.Parse("2006-01-02", in.EndDate)
		if err != nil {
			return dom.RunSpec{}, perr.InvalidArgf("bad end_date")
		}
		spec.To = ptime.DayEndUTC(d)
	}
	return spec, nil
}

func runResponse(run dom.Run, cols []string) apidom.RunResponse {
	out := apidom.RunResponse{
		ID:         run.ID.String(),
		Endpoint:   run.Endpoint,
		Sites:      run.Sites,
		Policy:     run.Policy,
		Status:     string(run.Status),
		RowCount:   run.RowCount,
		FetchCount: run.FetchCount,
		ErrorCount: run.ErrorCount,
		StartedAt:  run.StartedAt.Format(time.RFC3339),
		Error:      run.Error,
		Columns:    cols,
	}
	if run.FinishedAt != nil {
		out.FinishedAt = run.FinishedAt.Format(time.RFC3339)
	}
	return out
}
