package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"achihouse/internal/config"
	"achihouse/internal/database"
	"achihouse/internal/domain"
	"achihouse/internal/metrics"
	"achihouse/internal/models"
	"achihouse/internal/reservation"
	"achihouse/internal/service"

	"github.com/rs/zerolog"
)

// HTTPServer exposes the public reservation endpoint and the admin
// content API over plain net/http.
type HTTPServer struct {
	cfg          config.APIConfig
	reservations domain.ReservationService
	content      domain.ContentService
	server       *http.Server
	auth         *HTTPAuth
	logger       zerolog.Logger
}

func NewHTTPServer(cfg config.APIConfig, reservations domain.ReservationService, content domain.ContentService, logger zerolog.Logger) *HTTPServer {
	mux := http.NewServeMux()
	srv := &HTTPServer{
		cfg:          cfg,
		reservations: reservations,
		content:      content,
		logger:       logger.With().Str("component", "http_api").Logger(),
	}
	srv.auth = NewHTTPAuth(cfg)

	mux.HandleFunc("/api/v1/reservation-requests", srv.handleReservations)
	mux.HandleFunc("/api/v1/reservation-requests/export", srv.handleReservationExport)
	mux.HandleFunc("/api/v1/reservation-requests/min-time", srv.handleMinTime)
	mux.HandleFunc("/api/v1/reservation-requests/", srv.handleReservationByID)
	mux.HandleFunc("/api/v1/testimonials", srv.handleTestimonials)
	mux.HandleFunc("/api/v1/testimonials/", srv.handleTestimonialByID)
	mux.HandleFunc("/api/v1/media-assets", srv.handleMediaAssets)
	mux.HandleFunc("/api/v1/media-assets/", srv.handleMediaAssetByID)
	mux.HandleFunc("/api/v1/uploads/single", srv.handleUploadSingle)
	mux.HandleFunc("/healthz", srv.handleHealthz)

	handler := srv.loggingMiddleware(srv.auth.Wrap(mux))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	return srv
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *HTTPServer) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) handleReservations(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleReservationSubmit(w, r)
	case http.MethodGet:
		s.handleReservationList(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleReservationSubmit(w http.ResponseWriter, r *http.Request) {
	var input reservation.RawInput
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	created, err := s.reservations.Submit(r.Context(), input, clientAddr(r))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"id":        created.ID,
		"status":    created.Status,
		"createdAt": created.CreatedAt,
	})
}

func (s *HTTPServer) handleReservationList(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	items, total, err := s.reservations.List(r.Context(), page, limit)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse(items, total, page, limit))
}

func (s *HTTPServer) handleReservationByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "/api/v1/reservation-requests/")
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		req, err := s.reservations.Get(r.Context(), id)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, req)

	case http.MethodPatch:
		var body struct {
			Status  string `json:"status"`
			Version int64  `json:"version"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		updated, err := s.reservations.UpdateStatus(r.Context(), id, body.Version, body.Status)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, updated)

	case http.MethodDelete:
		if err := s.reservations.Delete(r.Context(), id); err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleReservationExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	start := strings.TrimSpace(r.URL.Query().Get("start"))
	end := strings.TrimSpace(r.URL.Query().Get("end"))
	if start == "" || end == "" {
		writeError(w, http.StatusBadRequest, "start and end are required")
		return
	}
	for _, d := range []string{start, end} {
		if _, err := time.Parse("2006-01-02", d); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid date: %s", d))
			return
		}
	}

	data, err := s.reservations.Export(r.Context(), start, end)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	filename := fmt.Sprintf("reservations_%s_%s.xlsx", start, end)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	_, _ = w.Write(data)
}

func (s *HTTPServer) handleMinTime(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if date == "" {
		writeError(w, http.StatusBadRequest, "date is required")
		return
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		writeError(w, http.StatusBadRequest, "invalid date format; expected YYYY-MM-DD")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"date":    date,
		"minTime": s.reservations.MinSelectableTime(date),
	})
}

func (s *HTTPServer) handleTestimonials(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		page, limit := pageParams(r)
		items, total, err := s.content.ListTestimonials(r.Context(), page, limit, activeOnly(r))
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, listResponse(items, total, page, limit))

	case http.MethodPost:
		var t models.Testimonial
		if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if err := s.content.CreateTestimonial(r.Context(), &t); err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, t)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleTestimonialByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "/api/v1/testimonials/")
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		t, err := s.content.GetTestimonial(r.Context(), id)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, t)

	case http.MethodPut:
		var t models.Testimonial
		if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		t.ID = id
		if err := s.content.UpdateTestimonial(r.Context(), &t); err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, t)

	case http.MethodDelete:
		if err := s.content.DeleteTestimonial(r.Context(), id); err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleMediaAssets(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		page, limit := pageParams(r)
		items, total, err := s.content.ListMediaAssets(r.Context(), page, limit, activeOnly(r))
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, listResponse(items, total, page, limit))

	case http.MethodPost:
		var a models.MediaAsset
		if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if err := s.content.CreateMediaAsset(r.Context(), &a); err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, a)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleMediaAssetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "/api/v1/media-assets/")
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		a, err := s.content.GetMediaAsset(r.Context(), id)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, a)

	case http.MethodPut:
		var a models.MediaAsset
		if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		a.ID = id
		if err := s.content.UpdateMediaAsset(r.Context(), &a); err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, a)

	case http.MethodDelete:
		if err := s.content.DeleteMediaAsset(r.Context(), id); err != nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// maxUploadForm caps the multipart form memory buffer, not the file size;
// the content service enforces the configured byte limit.
const maxUploadForm = 32 << 20

func (s *HTTPServer) handleUploadSingle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if err := r.ParseMultipartForm(maxUploadForm); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read file")
		return
	}

	item, err := s.content.UploadFile(r.Context(), header.Filename, header.Header.Get("Content-Type"), data)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	resp := map[string]any{"upload": item}
	if parseBool(r.FormValue("createAsset")) {
		alt := models.LocalizedString{
			Vi: r.FormValue("altVi"),
			En: r.FormValue("altEn"),
		}
		asset, err := s.content.CreateMediaAssetFromUpload(r.Context(), item, alt)
		if err != nil {
			s.writeServiceError(w, err)
			return
		}
		resp["asset"] = asset
	}

	writeJSON(w, http.StatusCreated, resp)
}

func (s *HTTPServer) writeServiceError(w http.ResponseWriter, err error) {
	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"message": vErr.Error(),
			"errors":  vErr.Fields,
		})
	case errors.Is(err, service.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, service.ErrDuplicateSubmission),
		errors.Is(err, database.ErrVersionConflict),
		errors.Is(err, database.ErrDuplicateSlug):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, database.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrUploadTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidRating),
		errors.Is(err, service.ErrEmptyQuote):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *HTTPServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		dur := time.Since(start)

		metrics.IncHTTP(r.URL.Path, strconv.Itoa(recorder.status))
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", dur).
			Msg("http request")
	})
}

func pathID(w http.ResponseWriter, r *http.Request, prefix string) (int64, bool) {
	raw := strings.TrimPrefix(r.URL.Path, prefix)
	if raw == "" || strings.Contains(raw, "/") {
		writeError(w, http.StatusNotFound, "not found")
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func pageParams(r *http.Request) (int, int) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > models.MaxPageLimit {
		limit = models.DefaultPageLimit
	}
	return page, limit
}

func activeOnly(r *http.Request) bool {
	return parseBool(r.URL.Query().Get("active"))
}

func parseBool(raw string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	return err == nil && v
}

func listResponse[T any](items []T, total, page, limit int) map[string]any {
	if items == nil {
		items = []T{}
	}
	return map[string]any{
		"items": items,
		"total": total,
		"page":  page,
		"limit": limit,
	}
}

func clientAddr(r *http.Request) string {
	if fwd := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); fwd != "" {
		if first := strings.TrimSpace(strings.Split(fwd, ",")[0]); first != "" {
			return first
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
