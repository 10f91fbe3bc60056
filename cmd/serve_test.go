package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/zoobzio/clockz"
	"gorm.io/gorm"

	"firewatch/internal/domain/actionplan"
	"firewatch/internal/domain/maintenance"
	"firewatch/internal/infrastructure/cache"
	"firewatch/internal/infrastructure/persistence/sqlite/model"
	"firewatch/internal/infrastructure/persistence/sqlite/repository"
	"firewatch/internal/infrastructure/persistence/sqlite/uow"
	"firewatch/internal/ports"
	"firewatch/internal/usecase/inspection"
)

type testAPI struct {
	handler http.Handler
	clock   clockz.Clock
}

func newTestAPI(t *testing.T) testAPI {
	t.Helper()

	db, err := gorm.Open(gormsqlite.Open(filepath.Join(t.TempDir(), "api.sqlite")), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	require.NoError(t, db.AutoMigrate(model.All()...))

	catalog, err := actionplan.NewCatalog()
	require.NoError(t, err)
	clock := clockz.NewFakeClock()

	svc := inspection.NewService(inspection.Deps{
		Tenants: repository.NewTenantRepository(db),
		Assets:  repository.NewAssetRepository(db),
		Records: repository.NewServiceRecordRepository(db),
		Audit:   repository.NewAuditRepository(db),
		UoW:     uow.NewUnitOfWork(db),
		Cache:   cache.NewSQLiteCache(db, time.Hour).WithClock(clock),
		Catalog: catalog,
		Clock:   clock,
	})
	return testAPI{
		handler: newAPIHandler(context.Background(), svc, apiOptions{MaxUploadBytes: 1 << 20, DefaultHorizonDays: 30}),
		clock:   clock,
	}
}

func (a testAPI) do(t *testing.T, method string, path string, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp := httptest.NewRecorder()
	a.handler.ServeHTTP(resp, req)
	return resp
}

func (a testAPI) date(days int) string {
	return maintenance.FormatDate(a.clock.Now().UTC().AddDate(0, 0, days))
}

func decodeBody[T any](t *testing.T, resp *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out), "body=%s", resp.Body.String())
	return out
}

func seedAPIAsset(t *testing.T, api testAPI, tenantID string, assetID string) {
	t.Helper()

	resp := api.do(t, http.MethodPost, "/api/v1/tenants", fmt.Sprintf(`{"tenant_id":%q,"actor":"tester"}`, tenantID))
	if resp.Code != http.StatusCreated {
		require.Equal(t, http.StatusConflict, resp.Code, resp.Body.String())
	}
	resp = api.do(t, http.MethodPost, "/api/v1/tenants/"+tenantID+"/assets",
		fmt.Sprintf(`{"asset_id":%q,"family":"extinguisher","location":"hall","actor":"tester"}`, assetID))
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
}

func TestAPIRecordStateAndDue(t *testing.T) {
	api := newTestAPI(t)
	seedAPIAsset(t, api, "acme", "EXT-1")

	resp := api.do(t, http.MethodPost, "/api/v1/tenants/acme/assets/EXT-1/records", fmt.Sprintf(
		`{"service_date":%q,"service_level":"Inspection","approved":"no","observation":"manometro quebrado","actor":"ana"}`,
		api.date(-40)))
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	recorded := decodeBody[recordServiceResponse](t, resp)
	require.Equal(t, "Replace the pressure gauge immediately.", recorded.Record.ActionPlan)
	require.NotNil(t, recorded.Record.NextInspection)
	require.Nil(t, recorded.Retired)

	resp = api.do(t, http.MethodGet, "/api/v1/tenants/acme/assets/EXT-1/state", "")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	state := decodeBody[inspection.StateView](t, resp)
	require.Equal(t, 1, state.RecordCount)
	require.Equal(t, "extinguisher", state.Family)
	require.Equal(t, *recorded.Record.NextInspection, *state.Latest.NextInspection)

	resp = api.do(t, http.MethodGet, "/api/v1/tenants/acme/assets/EXT-1/history", "")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	require.Len(t, decodeBody[[]inspection.RecordView](t, resp), 1)

	resp = api.do(t, http.MethodGet, "/api/v1/tenants/acme/due?horizon_days=0", "")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	report := decodeBody[inspection.DueReport](t, resp)
	require.Equal(t, 0, report.HorizonDays)
	require.Len(t, report.Items, 1)
	require.Equal(t, "EXT-1", report.Items[0].AssetID)
	require.Equal(t, maintenance.CategoryInspection, report.Items[0].Category)
	require.Equal(t, inspection.UrgencyOverdue, report.Items[0].Urgency)

	resp = api.do(t, http.MethodGet, "/api/v1/tenants/acme/due", "")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	require.Equal(t, 30, decodeBody[inspection.DueReport](t, resp).HorizonDays)

	resp = api.do(t, http.MethodGet, "/api/v1/tenants/acme/audit?limit=1", "")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	entries := decodeBody[[]auditView](t, resp)
	require.Len(t, entries, 1)
	require.Equal(t, "service.record", entries[0].Action)
	require.Equal(t, "ana", entries[0].Actor)
}

func TestAPISubstitutionAndDispose(t *testing.T) {
	api := newTestAPI(t)
	seedAPIAsset(t, api, "acme", "EXT-OLD")

	resp := api.do(t, http.MethodPost, "/api/v1/tenants/acme/assets/EXT-OLD/records", fmt.Sprintf(
		`{"service_date":%q,"service_level":"Substitution","approved":"yes","replacement_asset_id":"EXT-NEW"}`, api.date(0)))
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	recorded := decodeBody[recordServiceResponse](t, resp)
	require.Equal(t, "EXT-NEW", recorded.Record.AssetID)
	require.NotNil(t, recorded.Retired)
	require.Equal(t, "EXT-OLD", recorded.Retired.AssetID)
	require.Nil(t, recorded.Retired.NextInspection)

	resp = api.do(t, http.MethodGet, "/api/v1/tenants/acme/assets", "")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	active := decodeBody[[]assetView](t, resp)
	require.Len(t, active, 1)
	require.Equal(t, "EXT-NEW", active[0].AssetID)

	resp = api.do(t, http.MethodGet, "/api/v1/tenants/acme/assets?include_retired=true", "")
	require.Len(t, decodeBody[[]assetView](t, resp), 2)

	resp = api.do(t, http.MethodPost, "/api/v1/tenants/acme/assets/EXT-OLD/records", fmt.Sprintf(
		`{"service_date":%q,"service_level":"Inspection","approved":"yes"}`, api.date(0)))
	require.Equal(t, http.StatusConflict, resp.Code, resp.Body.String())

	resp = api.do(t, http.MethodPost, "/api/v1/tenants/acme/assets/EXT-NEW/dispose", `{"reason":"scrapped"}`)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	resp = api.do(t, http.MethodPost, "/api/v1/tenants/acme/assets/EXT-NEW/dispose", "")
	require.Equal(t, http.StatusConflict, resp.Code, resp.Body.String())
}

func TestAPIErrorEnvelope(t *testing.T) {
	api := newTestAPI(t)
	seedAPIAsset(t, api, "acme", "EXT-1")

	cases := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"duplicate tenant", http.MethodPost, "/api/v1/tenants", `{"tenant_id":"acme"}`, http.StatusConflict},
		{"bad tenant id", http.MethodPost, "/api/v1/tenants", `{"tenant_id":"a b"}`, http.StatusBadRequest},
		{"unknown tenant", http.MethodGet, "/api/v1/tenants/nope/due", "", http.StatusNotFound},
		{"unknown asset", http.MethodGet, "/api/v1/tenants/acme/assets/EXT-404/state", "", http.StatusNotFound},
		{"no history", http.MethodGet, "/api/v1/tenants/acme/assets/EXT-1/state", "", http.StatusNotFound},
		{"bad level", http.MethodPost, "/api/v1/tenants/acme/assets/EXT-1/records", `{"service_date":"2024-01-01","service_level":"polish"}`, http.StatusBadRequest},
		{"bad date", http.MethodPost, "/api/v1/tenants/acme/assets/EXT-1/records", `{"service_date":"soon","service_level":"Inspection"}`, http.StatusBadRequest},
		{"unknown field", http.MethodPost, "/api/v1/tenants/acme/assets", `{"asset":"EXT-2"}`, http.StatusBadRequest},
		{"bad horizon", http.MethodGet, "/api/v1/tenants/acme/due?horizon_days=soon", "", http.StatusBadRequest},
		{"negative horizon", http.MethodGet, "/api/v1/tenants/acme/due?horizon_days=-1", "", http.StatusBadRequest},
		{"unknown family", http.MethodPost, "/api/v1/action-plan", `{"family":"boat","approved":"no"}`, http.StatusBadRequest},
		{"import without file", http.MethodPost, "/api/v1/tenants/acme/import", "", http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := api.do(t, tc.method, tc.path, tc.body)
			require.Equal(t, tc.status, resp.Code, resp.Body.String())
			body := decodeBody[apiErrorResponse](t, resp)
			require.NotEmpty(t, body.Error)
			require.Equal(t, resp.Header().Get(requestIDHeader), body.RequestID)
		})
	}
}

func TestAPIExportThenImport(t *testing.T) {
	api := newTestAPI(t)
	seedAPIAsset(t, api, "acme", "EXT-1")
	resp := api.do(t, http.MethodPost, "/api/v1/tenants/acme/assets/EXT-1/records", `{"service_date":"2024-06-15","service_level":"Maintenance-Tier3","approved":"yes"}`)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	resp = api.do(t, http.MethodPost, "/api/v1/tenants", `{"tenant_id":"beta"}`)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	resp = api.do(t, http.MethodGet, "/api/v1/tenants/acme/export.xlsx", "")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	require.Contains(t, resp.Header().Get("Content-Type"), "spreadsheetml")
	workbook := resp.Body.Bytes()
	require.NotEmpty(t, workbook)

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("file", "acme.xlsx")
	require.NoError(t, err)
	_, err = part.Write(workbook)
	require.NoError(t, err)
	require.NoError(t, form.WriteField("actor", "migrator"))
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tenants/beta/import", &body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	resp = httptest.NewRecorder()
	api.handler.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	result := decodeBody[inspection.ImportSheetResult](t, resp)
	require.Equal(t, 1, result.Imported)
	require.Equal(t, 1, result.AssetsCreated)
	require.Empty(t, result.Skipped)

	resp = api.do(t, http.MethodGet, "/api/v1/tenants/beta/assets/EXT-1/state", "")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	state := decodeBody[inspection.StateView](t, resp)
	require.Equal(t, "2024-06-15", state.Latest.ServiceDate)
	require.NotNil(t, state.Latest.NextTier3)
	require.Equal(t, "2029-06-15", *state.Latest.NextTier3)
}

func TestAPIImportRejectsNonWorkbook(t *testing.T) {
	api := newTestAPI(t)
	seedAPIAsset(t, api, "acme", "EXT-1")

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("file", "records.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte("asset_id,service_date\nEXT-1,2024-01-01\n"))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tenants/acme/import", &body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	resp := httptest.NewRecorder()
	api.handler.ServeHTTP(resp, req)
	require.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())

	envelope := decodeBody[apiErrorResponse](t, resp)
	require.Contains(t, envelope.Error, "xlsx")
	require.Equal(t, resp.Header().Get(requestIDHeader), envelope.RequestID)
}

func TestAPIRequestID(t *testing.T) {
	t.Parallel()

	handler := newAPIHandler(context.Background(), nil, apiOptions{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "req-42")
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, "req-42", resp.Header().Get(requestIDHeader))

	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	_, err := uuid.Parse(resp.Header().Get(requestIDHeader))
	require.NoError(t, err)
}

func TestAPIStatusMapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("load: %w", ports.ErrTenantNotFound), http.StatusNotFound},
		{fmt.Errorf("load: %w", ports.ErrAssetNotFound), http.StatusNotFound},
		{maintenance.ErrNotFound, http.StatusNotFound},
		{ports.ErrTenantExists, http.StatusConflict},
		{inspection.ErrAssetRetired, http.StatusConflict},
		{maintenance.ErrInvalidServiceLevel, http.StatusBadRequest},
		{actionplan.ErrUnknownFamily, http.StatusBadRequest},
		{context.Canceled, http.StatusServiceUnavailable},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := apiStatus(tc.err); got != tc.want {
			t.Fatalf("apiStatus(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestReloadActionPlanTablesKeepsActiveOnError(t *testing.T) {
	t.Parallel()

	catalog, err := actionplan.NewCatalog()
	require.NoError(t, err)
	dir := t.TempDir()
	path := filepath.Join(dir, "tables.toml")

	valid := `
[[tables]]
family = "alarm"
version = "2025.03"

[[tables.rules]]
keyword = "SIRENE"
action = "Swap the sounder."
`
	require.NoError(t, os.WriteFile(path, []byte(valid), 0o644))
	require.True(t, reloadActionPlanTables(context.Background(), path, catalog))

	table, err := catalog.Table(actionplan.FamilyAlarm)
	require.NoError(t, err)
	require.Equal(t, "2025.03", table.Version)

	require.NoError(t, os.WriteFile(path, []byte("[[tables]]\nfamily = \"boat\"\n"), 0o644))
	require.False(t, reloadActionPlanTables(context.Background(), path, catalog))

	table, err = catalog.Table(actionplan.FamilyAlarm)
	require.NoError(t, err)
	require.Equal(t, "2025.03", table.Version)
}
