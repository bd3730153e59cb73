package report

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/careops/rosterpdf/internal/domain/roster"
	"github.com/careops/rosterpdf/pkg/pagination"
)

type Handler struct {
	svc *Service
	src roster.Source
}

// NewHandler wires the report service to the HTTP surface. src is the
// roster source batch runs read from; nil disables batch runs.
func NewHandler(svc *Service, src roster.Source) *Handler {
	return &Handler{svc: svc, src: src}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/reports", h.CreateReport)
	api.POST("/reports/batch", h.RunBatch)
	api.GET("/reports", h.ListReports)
	api.GET("/measures", h.ListMeasures)
}

// buildRequest is the payload for CreateReport. Records use the flat
// column-name keys produced by the roster sources.
type buildRequest struct {
	Narrative string          `json:"narrative"`
	Records   []roster.Record `json:"records"`
}

// CreateReport renders one group's document and streams it back. The
// submitted records must all belong to a single identity group.
func (h *Handler) CreateReport(c echo.Context) error {
	var req buildRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if len(req.Records) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "records are required")
	}
	groups := roster.GroupRecords(req.Records)
	if len(groups) > 1 {
		return echo.NewHTTPError(http.StatusBadRequest, "records span multiple identity groups")
	}

	doc, name, err := h.svc.Render(c.Request().Context(), groups[0], req.Narrative)
	if err != nil {
		if errors.Is(err, roster.ErrMixedGroup) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Blob(http.StatusOK, "application/pdf", buf.Bytes())
}

// batchResult is one group's outcome in a batch response.
type batchResult struct {
	Key      roster.GroupKey `json:"key"`
	FileName string          `json:"file_name,omitempty"`
	Pages    int             `json:"pages,omitempty"`
	Bytes    int64           `json:"bytes,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// RunBatch loads the configured roster source and writes one document per
// group to the output directory, reporting per-group outcomes.
func (h *Handler) RunBatch(c echo.Context) error {
	if h.src == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "no roster source configured")
	}

	results, err := h.svc.Run(c.Request().Context(), h.src)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	written, failed := 0, 0
	out := make([]batchResult, 0, len(results))
	for _, r := range results {
		br := batchResult{Key: r.Key}
		if r.Failed() {
			failed++
			br.Error = r.Err.Error()
		} else {
			written++
			br.FileName = r.Artifact.FileName
			br.Pages = r.Artifact.Pages
			br.Bytes = r.Artifact.Bytes
		}
		out = append(out, br)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"written": written,
		"failed":  failed,
		"results": out,
	})
}

// ListReports pages through the documents in the output directory.
func (h *Handler) ListReports(c echo.Context) error {
	infos, err := h.svc.ListArtifacts()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	p := pagination.FromContext(c)
	lo, hi := p.Page(len(infos))
	resp := pagination.NewResponse(infos[lo:hi], len(infos), p)
	resp.Links = p.Links(c.Path(), len(infos))
	return c.JSON(http.StatusOK, resp)
}

// ListMeasures reports the measure definitions the service charts.
func (h *Handler) ListMeasures(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.Measures())
}
