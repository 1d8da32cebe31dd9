package server

import (
	"bytes"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/LaminateCut/internal/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer() *Server {
	return New(Config{Settings: model.DefaultSettings(), MaxPlans: 5}, nil)
}

func do(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

const scenarioA = `{
	"kerf": 3,
	"materials": [
		{"code": "HGS-1", "sheet_size": "8x4 ft (1220x2440)", "panels": "450x600x2\n300x1200x3\n750x400x4"}
	]
}`

func createPlan(t *testing.T, router http.Handler, body string) model.Plan {
	t.Helper()
	w := do(t, router, http.MethodPost, "/api/v1/plans", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var plan model.Plan
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &plan))
	return plan
}

func TestHealth(t *testing.T) {
	w := do(t, newTestServer().Router(), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestCreatePlan_ScenarioA(t *testing.T) {
	srv := newTestServer()
	router := srv.Router()

	plan := createPlan(t, router, scenarioA)
	assert.NotEmpty(t, plan.ID)
	require.Len(t, plan.Materials, 1)
	assert.Equal(t, 2, plan.SheetCount())
	require.Len(t, plan.Orders, 1)
	assert.Equal(t, model.OrderLine{Code: "HGS-1", SheetSize: "8x4 ft (1220x2440)", Sheets: 2}, plan.Orders[0])
	assert.Empty(t, plan.Failures)
	assert.Equal(t, 1, srv.Store().Len())

	w := do(t, router, http.MethodGet, "/api/v1/plans/"+plan.ID, "")
	assert.Equal(t, http.StatusOK, w.Code)

	var fetched model.Plan
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fetched))
	assert.Equal(t, plan.ID, fetched.ID)
	assert.Equal(t, plan.SheetCount(), fetched.SheetCount())
}

func TestCreatePlan_DefaultsAndCustomSheet(t *testing.T) {
	router := newTestServer().Router()

	plan := createPlan(t, router, `{"materials":[
		{"code":"A","panels":"500x500"},
		{"code":"B","sheet_width":1000,"sheet_height":1000,"panels":"600x600x3"}
	]}`)

	assert.Equal(t, 3, plan.Kerf, "kerf should default from server settings")
	a, ok := plan.Material("A")
	require.True(t, ok)
	assert.Equal(t, 1220, a.Material.SheetWidth)
	b, ok := plan.Material("B")
	require.True(t, ok)
	assert.Len(t, b.Sheets, 3)
}

func TestCreatePlan_ReportsFailures(t *testing.T) {
	router := newTestServer().Router()

	plan := createPlan(t, router, `{"kerf":0,"materials":[
		{"code":"HGS-1","sheet_size":"1220x2440","panels":"abc\n3000x100\n100x100"},
		{"code":"HGS-2","panels":"nothing here"}
	]}`)

	assert.Equal(t, 1, model.CountFailures(plan.Failures, model.FailurePlacement))
	assert.Equal(t, 2, model.CountFailures(plan.Failures, model.FailureParse))
	assert.Equal(t, 1, model.CountFailures(plan.Failures, model.FailureEmptyInput))
	require.Len(t, plan.Orders, 1)
	assert.Equal(t, "HGS-1", plan.Orders[0].Code)
}

func TestCreatePlan_BadRequests(t *testing.T) {
	router := newTestServer().Router()

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"malformed json", `{"materials":`, http.StatusBadRequest},
		{"no materials", `{"materials":[]}`, http.StatusBadRequest},
		{"missing code", `{"materials":[{"panels":"100x100"}]}`, http.StatusBadRequest},
		{"unknown size", `{"materials":[{"code":"A","sheet_size":"huge","panels":"100x100"}]}`, http.StatusBadRequest},
		{"negative kerf", `{"kerf":-1,"materials":[{"code":"A","panels":"100x100"}]}`, http.StatusUnprocessableEntity},
		{"zero sheet", `{"materials":[{"code":"A","sheet_width":1000,"panels":"100x100"}]}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, router, http.MethodPost, "/api/v1/plans", tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.Contains(t, w.Body.String(), `"error"`)
		})
	}
}

func TestGetPlan_NotFound(t *testing.T) {
	router := newTestServer().Router()
	for _, path := range []string{
		"/api/v1/plans/nope",
		"/api/v1/plans/nope/pdf",
		"/api/v1/plans/nope/xlsx",
		"/api/v1/plans/nope/chart",
		"/api/v1/plans/nope/sheets/1/png",
	} {
		w := do(t, router, http.MethodGet, path, "")
		assert.Equal(t, http.StatusNotFound, w.Code, path)
	}
}

func TestListPlans(t *testing.T) {
	router := newTestServer().Router()
	first := createPlan(t, router, scenarioA)
	second := createPlan(t, router, `{"materials":[{"code":"X","panels":"100x100"}]}`)

	w := do(t, router, http.MethodGet, "/api/v1/plans", "")
	require.Equal(t, http.StatusOK, w.Code)

	var list []PlanSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
	assert.Equal(t, 2, list[1].Sheets)
}

func TestPlanDownloads(t *testing.T) {
	router := newTestServer().Router()
	plan := createPlan(t, router, scenarioA)
	base := "/api/v1/plans/" + plan.ID

	w := do(t, router, http.MethodGet, base+"/pdf", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))

	w = do(t, router, http.MethodGet, base+"/xlsx", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	// xlsx is a zip archive
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")))

	w = do(t, router, http.MethodGet, base+"/chart", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Waste per sheet")
	assert.Contains(t, w.Body.String(), "echarts")
}

func TestGetSheetPNG(t *testing.T) {
	router := newTestServer().Router()
	plan := createPlan(t, router, scenarioA)
	base := "/api/v1/plans/" + plan.ID + "/sheets/"

	w := do(t, router, http.MethodGet, base+"2/png?size=244", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	img, err := png.Decode(w.Body)
	require.NoError(t, err)
	assert.Equal(t, 244, img.Bounds().Dy())
	assert.Equal(t, 122, img.Bounds().Dx())

	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodGet, base+"3/png", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodGet, base+"0/png", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, router, http.MethodGet, base+"1/png?size=-5", "").Code)
}

func TestGetSizes(t *testing.T) {
	w := do(t, newTestServer().Router(), http.MethodGet, "/api/v1/sizes", "")
	require.Equal(t, http.StatusOK, w.Code)

	var sizes []model.SheetSize
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sizes))
	assert.Equal(t, model.StandardSizes, sizes)
}

func TestWasteChart_OneBarPerSheet(t *testing.T) {
	plan := model.Plan{
		Materials: []model.MaterialPlan{
			{Sheets: []model.SheetInstance{
				{Material: "A", Index: 0, Width: 100, Height: 100},
				{Material: "A", Index: 1, Width: 100, Height: 100},
			}},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, RenderWasteChart(&buf, plan))
	assert.Contains(t, buf.String(), "Sheet 2")
}
