package server

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/piwi3910/LaminateCut/internal/engine"
	"github.com/piwi3910/LaminateCut/internal/export"
	"github.com/piwi3910/LaminateCut/internal/importer"
	"github.com/piwi3910/LaminateCut/internal/model"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// MaterialInput is one laminate code in a plan request. The sheet is taken
// from SheetWidth/SheetHeight when either is set, otherwise from SheetSize
// (a standard label or "WxH"), otherwise the server default.
type MaterialInput struct {
	Code        string `json:"code" binding:"required"`
	SheetSize   string `json:"sheet_size"`
	SheetWidth  int    `json:"sheet_width"`
	SheetHeight int    `json:"sheet_height"`
	Panels      string `json:"panels"`
}

// PlanRequest is the body of POST /api/v1/plans.
type PlanRequest struct {
	Kerf          *int            `json:"kerf"`
	MaxSheets     int             `json:"max_sheets"`
	BufferPercent float64         `json:"buffer_percent"`
	Materials     []MaterialInput `json:"materials" binding:"required,min=1,dive"`
}

// PlanSummary is one entry of GET /api/v1/plans.
type PlanSummary struct {
	ID        string `json:"id"`
	Materials int    `json:"materials"`
	Sheets    int    `json:"sheets"`
	Failures  int    `json:"failures"`
}

func (s *Server) settingsFor(req PlanRequest) model.CutSettings {
	settings := s.cfg.Settings
	if req.Kerf != nil {
		settings.Kerf = *req.Kerf
	}
	if req.MaxSheets > 0 {
		settings.MaxSheets = req.MaxSheets
	}
	if req.BufferPercent > 0 {
		settings.BufferPercent = req.BufferPercent
	}
	return settings
}

func (s *Server) materialFor(in MaterialInput) (model.Material, error) {
	if in.SheetWidth != 0 || in.SheetHeight != 0 {
		return model.NewMaterial(in.Code, in.SheetWidth, in.SheetHeight), nil
	}
	if in.SheetSize == "" {
		return s.cfg.DefaultSize.Material(in.Code), nil
	}
	size, ok := importer.ParseSheetSize(in.SheetSize)
	if !ok {
		return model.Material{}, errors.New("unknown sheet size " + strconv.Quote(in.SheetSize) + " for " + in.Code)
	}
	return size.Material(in.Code), nil
}

// CreatePlan packs the requested materials and stores the plan.
func (s *Server) CreatePlan(c *gin.Context) {
	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	requests := make([]model.MaterialRequest, 0, len(req.Materials))
	for _, in := range req.Materials {
		m, err := s.materialFor(in)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		requests = append(requests, model.MaterialRequest{Material: m, PanelText: in.Panels})
	}

	ctx := c.Request.Context()
	if s.cfg.PlanTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.PlanTimeout)
		defer cancel()
	}

	planner := engine.New(s.settingsFor(req), s.logger.Named("planner"))
	plan, err := planner.Plan(ctx, requests)
	if err != nil {
		if errors.Is(err, engine.ErrInvalidKerf) || errors.Is(err, engine.ErrInvalidSheet) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	s.store.Put(plan)
	s.logger.Info("plan created", "plan", plan.ID, "sheets", plan.SheetCount(), "failures", len(plan.Failures))
	c.JSON(http.StatusCreated, plan)
}

// ListPlans returns summaries of the stored plans, newest first.
func (s *Server) ListPlans(c *gin.Context) {
	plans := s.store.List()
	out := make([]PlanSummary, 0, len(plans))
	for _, p := range plans {
		out = append(out, PlanSummary{
			ID:        p.ID,
			Materials: len(p.Materials),
			Sheets:    p.SheetCount(),
			Failures:  len(p.Failures),
		})
	}
	c.JSON(http.StatusOK, out)
}

// lookup fetches the plan named in the path or writes a 404.
func (s *Server) lookup(c *gin.Context) (model.Plan, bool) {
	plan, ok := s.store.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "plan not found"})
	}
	return plan, ok
}

func (s *Server) GetPlan(c *gin.Context) {
	if plan, ok := s.lookup(c); ok {
		c.JSON(http.StatusOK, plan)
	}
}

// GetPlanPDF renders the cutting plan PDF.
func (s *Server) GetPlanPDF(c *gin.Context) {
	plan, ok := s.lookup(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := export.WritePDF(&buf, plan); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+plan.ID+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// GetPlanExcel renders the summary workbook.
func (s *Server) GetPlanExcel(c *gin.Context) {
	plan, ok := s.lookup(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := export.WriteExcel(&buf, plan); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+plan.ID+`.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// GetPlanChart renders the waste chart page.
func (s *Server) GetPlanChart(c *gin.Context) {
	plan, ok := s.lookup(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := RenderWasteChart(&buf, plan); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// GetSheetPNG renders a preview of the n-th sheet of the plan, counting from
// 1 across all materials. The optional "size" query sets the long edge in
// pixels.
func (s *Server) GetSheetPNG(c *gin.Context) {
	plan, ok := s.lookup(c)
	if !ok {
		return
	}
	n, err := strconv.Atoi(c.Param("n"))
	if err != nil || n < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sheet number must be a positive integer"})
		return
	}
	sheet, ok := nthSheet(plan, n)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "sheet not found"})
		return
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(export.DefaultPreviewSize)))
	if err != nil || size <= 0 || size > 4000 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "size must be between 1 and 4000"})
		return
	}

	var buf bytes.Buffer
	if err := export.WriteSheetPNG(&buf, sheet, size); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

func nthSheet(plan model.Plan, n int) (model.SheetInstance, bool) {
	for _, mp := range plan.Materials {
		if n <= len(mp.Sheets) {
			return mp.Sheets[n-1], true
		}
		n -= len(mp.Sheets)
	}
	return model.SheetInstance{}, false
}

// GetSizes lists the standard sheet sizes.
func (s *Server) GetSizes(c *gin.Context) {
	c.JSON(http.StatusOK, model.StandardSizes)
}
