package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"firewatch/internal/bootstrap/logging"
	"firewatch/internal/domain/actionplan"
	"firewatch/internal/domain/maintenance"
	"firewatch/internal/errs"
	"firewatch/internal/ports"
	"firewatch/internal/usecase/inspection"
)

const requestIDHeader = "X-Request-ID"

// inspectionAPI is the part of inspection.Service exposed over HTTP.
type inspectionAPI interface {
	RegisterTenant(ctx context.Context, input inspection.RegisterTenantInput) (ports.Tenant, error)
	ListTenants(ctx context.Context) ([]ports.Tenant, error)
	RegisterAsset(ctx context.Context, input inspection.RegisterAssetInput) (ports.Asset, error)
	ListAssets(ctx context.Context, tenantID string, filter ports.AssetFilter) ([]ports.Asset, error)
	DisposeAsset(ctx context.Context, input inspection.DisposeAssetInput) error
	RecordService(ctx context.Context, input inspection.RecordServiceInput) (inspection.RecordServiceResult, error)
	CurrentState(ctx context.Context, tenantID string, assetID string) (inspection.StateView, error)
	History(ctx context.Context, tenantID string, assetID string) ([]maintenance.ServiceRecord, error)
	DueReport(ctx context.Context, tenantID string, horizonDays int) (inspection.DueReport, error)
	ImportSheet(ctx context.Context, input inspection.ImportSheetInput) (inspection.ImportSheetResult, error)
	ExportSheet(ctx context.Context, tenantID string, w io.Writer) (int, error)
	ResolveActionPlan(family string, approved string, observation string) (inspection.ActionPlanResult, error)
	AuditLog(ctx context.Context, tenantID string, limit int) ([]ports.AuditEntry, error)
}

type apiOptions struct {
	MaxUploadBytes     int64
	DefaultHorizonDays int
}

type apiHandler struct {
	svc     inspectionAPI
	options apiOptions
}

type apiErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

type createTenantRequest struct {
	TenantID string `json:"tenant_id"`
	Name     string `json:"name"`
	Plan     string `json:"plan"`
	Actor    string `json:"actor"`
}

type registerAssetRequest struct {
	AssetID  string `json:"asset_id"`
	Family   string `json:"family"`
	Location string `json:"location"`
	Actor    string `json:"actor"`
}

type disposeAssetRequest struct {
	Reason string `json:"reason"`
	Actor  string `json:"actor"`
}

type recordServiceRequest struct {
	ServiceDate        string `json:"service_date"`
	ServiceLevel       string `json:"service_level"`
	Approved           string `json:"approved"`
	Observation        string `json:"observation"`
	ReplacementAssetID string `json:"replacement_asset_id"`
	HydrostaticDue     string `json:"hydrostatic_due"`
	Actor              string `json:"actor"`
}

type recordServiceResponse struct {
	Record  inspection.RecordView  `json:"record"`
	Retired *inspection.RecordView `json:"retired,omitempty"`
}

type resolveActionPlanRequest struct {
	Family      string `json:"family"`
	Approved    string `json:"approved"`
	Observation string `json:"observation"`
}

// newAPIHandler builds the HTTP API. baseCtx carries the logger every request inherits.
func newAPIHandler(baseCtx context.Context, svc inspectionAPI, options apiOptions) http.Handler {
	if options.MaxUploadBytes <= 0 {
		options.MaxUploadBytes = 16 << 20
	}
	h := &apiHandler{svc: svc, options: options}

	r := chi.NewRouter()
	r.Use(requestContext(baseCtx))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeAPIJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/action-plan", h.resolveActionPlan)

		r.Get("/tenants", h.listTenants)
		r.Post("/tenants", h.createTenant)

		r.Route("/tenants/{tenant}", func(r chi.Router) {
			r.Get("/assets", h.listAssets)
			r.Post("/assets", h.registerAsset)
			r.Route("/assets/{asset}", func(r chi.Router) {
				r.Get("/state", h.assetState)
				r.Get("/history", h.assetHistory)
				r.Post("/records", h.recordService)
				r.Post("/dispose", h.disposeAsset)
			})
			r.Get("/due", h.dueReport)
			r.Get("/audit", h.auditLog)
			r.Get("/export.xlsx", h.exportSheet)
			r.Post("/import", h.importSheet)
		})
	})

	return r
}

// requestContext tags every request with an id, echoed in X-Request-ID, and logs its outcome.
func requestContext(baseCtx context.Context) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := strings.TrimSpace(r.Header.Get(requestIDHeader))
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, requestID)

			ctx := logging.WithLogger(r.Context(), logging.Logger(baseCtx))
			ctx = logging.WithAttrs(ctx, logging.Attrs(baseCtx)...)
			ctx = logging.WithRequestID(ctx, requestID)

			started := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			logging.Info(
				ctx,
				"http request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.Int("bytes", ww.BytesWritten()),
				slog.Duration("elapsed", time.Since(started)),
			)
		})
	}
}

func tenantContext(r *http.Request) (context.Context, string) {
	tenantID := chi.URLParam(r, "tenant")
	return logging.WithTenant(r.Context(), tenantID), tenantID
}

func (h *apiHandler) listTenants(w http.ResponseWriter, r *http.Request) {
	tenants, err := h.svc.ListTenants(r.Context())
	if err != nil {
		writeAPIError(w, r, err)
		return
	}
	writeAPIJSON(w, http.StatusOK, newTenantViews(tenants))
}

func (h *apiHandler) createTenant(w http.ResponseWriter, r *http.Request) {
	var req createTenantRequest
	if !decodeAPIRequest(w, r, &req) {
		return
	}
	tenant, err := h.svc.RegisterTenant(r.Context(), inspection.RegisterTenantInput{
		TenantID: req.TenantID,
		Name:     req.Name,
		Plan:     req.Plan,
		Actor:    req.Actor,
	})
	if err != nil {
		writeAPIError(w, r, err)
		return
	}
	writeAPIJSON(w, http.StatusCreated, newTenantView(tenant))
}

func (h *apiHandler) listAssets(w http.ResponseWriter, r *http.Request) {
	ctx, tenantID := tenantContext(r)
	includeRetired, _ := strconv.ParseBool(r.URL.Query().Get("include_retired"))
	assets, err := h.svc.ListAssets(ctx, tenantID, ports.AssetFilter{
		Family:         r.URL.Query().Get("family"),
		IncludeRetired: includeRetired,
	})
	if err != nil {
		writeAPIError(w, r, err)
		return
	}
	writeAPIJSON(w, http.StatusOK, newAssetViews(assets))
}

func (h *apiHandler) registerAsset(w http.ResponseWriter, r *http.Request) {
	ctx, tenantID := tenantContext(r)
	var req registerAssetRequest
	if !decodeAPIRequest(w, r, &req) {
		return
	}
	asset, err := h.svc.RegisterAsset(ctx, inspection.RegisterAssetInput{
		TenantID: tenantID,
		AssetID:  req.AssetID,
		Family:   req.Family,
		Location: req.Location,
		Actor:    req.Actor,
	})
	if err != nil {
		writeAPIError(w, r, err)
		return
	}
	writeAPIJSON(w, http.StatusCreated, newAssetView(asset))
}

func (h *apiHandler) disposeAsset(w http.ResponseWriter, r *http.Request) {
	ctx, tenantID := tenantContext(r)
	var req disposeAssetRequest
	if !decodeAPIRequest(w, r, &req) {
		return
	}
	assetID := chi.URLParam(r, "asset")
	if err := h.svc.DisposeAsset(ctx, inspection.DisposeAssetInput{
		TenantID: tenantID,
		AssetID:  assetID,
		Reason:   req.Reason,
		Actor:    req.Actor,
	}); err != nil {
		writeAPIError(w, r, err)
		return
	}
	writeAPIJSON(w, http.StatusOK, map[string]string{"asset_id": assetID, "status": ports.AssetStatusRetired})
}

func (h *apiHandler) assetState(w http.ResponseWriter, r *http.Request) {
	ctx, tenantID := tenantContext(r)
	state, err := h.svc.CurrentState(ctx, tenantID, chi.URLParam(r, "asset"))
	if err != nil {
		writeAPIError(w, r, err)
		return
	}
	writeAPIJSON(w, http.StatusOK, state)
}

func (h *apiHandler) assetHistory(w http.ResponseWriter, r *http.Request) {
	ctx, tenantID := tenantContext(r)
	history, err := h.svc.History(ctx, tenantID, chi.URLParam(r, "asset"))
	if err != nil {
		writeAPIError(w, r, err)
		return
	}
	views := make([]inspection.RecordView, 0, len(history))
	for _, record := range history {
		views = append(views, inspection.NewRecordView(record))
	}
	writeAPIJSON(w, http.StatusOK, views)
}

func (h *apiHandler) recordService(w http.ResponseWriter, r *http.Request) {
	ctx, tenantID := tenantContext(r)
	var req recordServiceRequest
	if !decodeAPIRequest(w, r, &req) {
		return
	}
	result, err := h.svc.RecordService(ctx, inspection.RecordServiceInput{
		TenantID:           tenantID,
		AssetID:            chi.URLParam(r, "asset"),
		ServiceDate:        req.ServiceDate,
		Level:              req.ServiceLevel,
		Approved:           req.Approved,
		Observation:        req.Observation,
		ReplacementAssetID: req.ReplacementAssetID,
		HydrostaticDue:     req.HydrostaticDue,
		Actor:              req.Actor,
	})
	if err != nil {
		writeAPIError(w, r, err)
		return
	}
	resp := recordServiceResponse{Record: inspection.NewRecordView(result.Record)}
	if result.Retired != nil {
		retired := inspection.NewRecordView(*result.Retired)
		resp.Retired = &retired
	}
	writeAPIJSON(w, http.StatusCreated, resp)
}

func (h *apiHandler) dueReport(w http.ResponseWriter, r *http.Request) {
	ctx, tenantID := tenantContext(r)
	horizon := h.options.DefaultHorizonDays
	if raw := strings.TrimSpace(r.URL.Query().Get("horizon_days")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeAPIError(w, r, fmt.Errorf("%w: horizon_days must be an integer", inspection.ErrInvalidInput))
			return
		}
		horizon = parsed
	}
	report, err := h.svc.DueReport(ctx, tenantID, horizon)
	if err != nil {
		writeAPIError(w, r, err)
		return
	}
	writeAPIJSON(w, http.StatusOK, report)
}

func (h *apiHandler) auditLog(w http.ResponseWriter, r *http.Request) {
	ctx, tenantID := tenantContext(r)
	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeAPIError(w, r, fmt.Errorf("%w: limit must be a non-negative integer", inspection.ErrInvalidInput))
			return
		}
		limit = parsed
	}
	entries, err := h.svc.AuditLog(ctx, tenantID, limit)
	if err != nil {
		writeAPIError(w, r, err)
		return
	}
	writeAPIJSON(w, http.StatusOK, newAuditViews(entries))
}

func (h *apiHandler) exportSheet(w http.ResponseWriter, r *http.Request) {
	ctx, tenantID := tenantContext(r)
	var buf bytes.Buffer
	if _, err := h.svc.ExportSheet(ctx, tenantID, &buf); err != nil {
		writeAPIError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", tenantID+"-service-records.xlsx"))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		logging.Warn(ctx, "write export response failed", slog.Any("err", errs.Loggable(err)))
	}
}

func (h *apiHandler) importSheet(w http.ResponseWriter, r *http.Request) {
	ctx, tenantID := tenantContext(r)
	r.Body = http.MaxBytesReader(w, r.Body, h.options.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.options.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeAPIErrorStatus(w, r, http.StatusRequestEntityTooLarge, "upload exceeds the size limit")
			return
		}
		writeAPIError(w, r, fmt.Errorf("%w: multipart form with a file field is required", inspection.ErrInvalidInput))
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		writeAPIError(w, r, fmt.Errorf("%w: file field is required", inspection.ErrInvalidInput))
		return
	}
	defer file.Close()

	result, err := h.svc.ImportSheet(ctx, inspection.ImportSheetInput{
		TenantID: tenantID,
		Reader:   file,
		Actor:    r.FormValue("actor"),
	})
	if err != nil {
		writeAPIError(w, r, err)
		return
	}
	writeAPIJSON(w, http.StatusOK, result)
}

func (h *apiHandler) resolveActionPlan(w http.ResponseWriter, r *http.Request) {
	var req resolveActionPlanRequest
	if !decodeAPIRequest(w, r, &req) {
		return
	}
	result, err := h.svc.ResolveActionPlan(req.Family, req.Approved, req.Observation)
	if err != nil {
		writeAPIError(w, r, err)
		return
	}
	writeAPIJSON(w, http.StatusOK, result)
}

func decodeAPIRequest(w http.ResponseWriter, r *http.Request, dst any) bool {
	decoder := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		writeAPIError(w, r, fmt.Errorf("%w: malformed json body: %v", inspection.ErrInvalidInput, err))
		return false
	}
	return true
}

func apiStatus(err error) int {
	switch {
	case errs.IsAny(err, ports.ErrTenantNotFound, ports.ErrAssetNotFound, maintenance.ErrNotFound):
		return http.StatusNotFound
	case errs.IsAny(err, ports.ErrTenantExists, inspection.ErrAssetRetired):
		return http.StatusConflict
	case errs.IsAny(err,
		inspection.ErrInvalidInput,
		maintenance.ErrAssetIDRequired,
		maintenance.ErrInvalidServiceDate,
		maintenance.ErrInvalidServiceLevel,
		actionplan.ErrUnknownFamily,
	):
		return http.StatusBadRequest
	case errs.IsAny(err, context.Canceled, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeAPIError(w http.ResponseWriter, r *http.Request, err error) {
	status := apiStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		logging.Error(r.Context(), "http request failed", slog.Any("err", errs.Loggable(err)))
		message = "internal error"
	}
	writeAPIErrorStatus(w, r, status, message)
}

func writeAPIErrorStatus(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeAPIJSON(w, status, apiErrorResponse{
		Error:     message,
		RequestID: w.Header().Get(requestIDHeader),
	})
}

func writeAPIJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
