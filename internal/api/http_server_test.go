package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"achihouse/internal/config"
	"achihouse/internal/database"
	"achihouse/internal/models"
	"achihouse/internal/reservation"
	"achihouse/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockReservationService struct {
	mock.Mock
}

func (m *mockReservationService) Submit(ctx context.Context, input reservation.RawInput, clientKey string) (*models.ReservationRequest, error) {
	args := m.Called(ctx, input, clientKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReservationRequest), args.Error(1)
}

func (m *mockReservationService) Get(ctx context.Context, id int64) (*models.ReservationRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReservationRequest), args.Error(1)
}

func (m *mockReservationService) List(ctx context.Context, page, limit int) ([]models.ReservationRequest, int, error) {
	args := m.Called(ctx, page, limit)
	return args.Get(0).([]models.ReservationRequest), args.Int(1), args.Error(2)
}

func (m *mockReservationService) UpdateStatus(ctx context.Context, id, version int64, status string) (*models.ReservationRequest, error) {
	args := m.Called(ctx, id, version, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReservationRequest), args.Error(1)
}

func (m *mockReservationService) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockReservationService) Export(ctx context.Context, start, end string) ([]byte, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *mockReservationService) MinSelectableTime(date string) string {
	return m.Called(date).String(0)
}

type mockContentService struct {
	mock.Mock
}

func (m *mockContentService) CreateTestimonial(ctx context.Context, t *models.Testimonial) error {
	return m.Called(ctx, t).Error(0)
}

func (m *mockContentService) GetTestimonial(ctx context.Context, id int64) (*models.Testimonial, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Testimonial), args.Error(1)
}

func (m *mockContentService) ListTestimonials(ctx context.Context, page, limit int, activeOnly bool) ([]models.Testimonial, int, error) {
	args := m.Called(ctx, page, limit, activeOnly)
	return args.Get(0).([]models.Testimonial), args.Int(1), args.Error(2)
}

func (m *mockContentService) UpdateTestimonial(ctx context.Context, t *models.Testimonial) error {
	return m.Called(ctx, t).Error(0)
}

func (m *mockContentService) DeleteTestimonial(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockContentService) CreateMediaAsset(ctx context.Context, a *models.MediaAsset) error {
	return m.Called(ctx, a).Error(0)
}

func (m *mockContentService) GetMediaAsset(ctx context.Context, id int64) (*models.MediaAsset, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MediaAsset), args.Error(1)
}

func (m *mockContentService) ListMediaAssets(ctx context.Context, page, limit int, activeOnly bool) ([]models.MediaAsset, int, error) {
	args := m.Called(ctx, page, limit, activeOnly)
	return args.Get(0).([]models.MediaAsset), args.Int(1), args.Error(2)
}

func (m *mockContentService) UpdateMediaAsset(ctx context.Context, a *models.MediaAsset) error {
	return m.Called(ctx, a).Error(0)
}

func (m *mockContentService) DeleteMediaAsset(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockContentService) UploadFile(ctx context.Context, filename, contentType string, data []byte) (*models.UploadItem, error) {
	args := m.Called(ctx, filename, contentType, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UploadItem), args.Error(1)
}

func (m *mockContentService) CreateMediaAssetFromUpload(ctx context.Context, item *models.UploadItem, alt models.LocalizedString) (*models.MediaAsset, error) {
	args := m.Called(ctx, item, alt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MediaAsset), args.Error(1)
}

const (
	testAPIKey = "admin-key"
	testExtra  = "admin-extra"
)

func testAPIConfig() config.APIConfig {
	return config.APIConfig{
		Enabled: true,
		HTTP:    config.APIHTTPConfig{Enabled: true, Port: 0},
		Auth: config.APIAuthConfig{
			Enabled: true,
			APIKeys: []config.APIClientKey{
				{
					Key:   testAPIKey,
					Extra: testExtra,
					Name:  "admin",
					Permissions: []string{
						PermReadContent, PermWriteContent,
						PermReadReservations, PermWriteReservations,
					},
				},
				{
					Key:         "viewer-key",
					Extra:       "viewer-extra",
					Name:        "viewer",
					Permissions: []string{PermReadReservations},
				},
			},
		},
	}
}

func newTestServer(t *testing.T) (*httptest.Server, *mockReservationService, *mockContentService) {
	t.Helper()
	res := &mockReservationService{}
	content := &mockContentService{}
	srv := NewHTTPServer(testAPIConfig(), res, content, zerolog.Nop())
	ts := httptest.NewServer(srv.server.Handler)
	t.Cleanup(ts.Close)
	return ts, res, content
}

func doJSON(t *testing.T, method, url string, body any, admin bool) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if admin {
		req.Header.Set("x-api-key", testAPIKey)
		req.Header.Set("x-api-extra", testExtra)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func TestSubmitReservationAccepted(t *testing.T) {
	ts, res, _ := newTestServer(t)

	created := &models.ReservationRequest{
		ID:        7,
		Status:    models.StatusPending,
		CreatedAt: time.Now(),
	}
	res.On("Submit", mock.Anything, mock.MatchedBy(func(in reservation.RawInput) bool {
		return in.FullName == "Nguyễn Văn An" && in.GuestCount == 4
	}), mock.AnythingOfType("string")).Return(created, nil)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/v1/reservation-requests", map[string]any{
		"fullName":        "Nguyễn Văn An",
		"phoneNumber":     "0985310238",
		"guestCount":      4,
		"reservationDate": "2025-12-25",
		"reservationTime": "19:30",
		"locale":          "vi",
	}, false)

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var body struct {
		ID     int64  `json:"id"`
		Status string `json:"status"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, int64(7), body.ID)
	assert.Equal(t, models.StatusPending, body.Status)
	res.AssertExpectations(t)
}

func TestSubmitReservationValidationError(t *testing.T) {
	ts, res, _ := newTestServer(t)

	res.On("Submit", mock.Anything, mock.Anything, mock.Anything).Return(nil, &service.ValidationError{
		Locale: "en",
		Fields: reservation.FieldErrors{
			"fullName": {"Name must contain at least 2 words"},
		},
	})

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/v1/reservation-requests", map[string]any{
		"fullName": "An",
	}, false)

	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	var body struct {
		Message string              `json:"message"`
		Errors  map[string][]string `json:"errors"`
	}
	decodeBody(t, resp, &body)
	assert.NotEmpty(t, body.Message)
	assert.Contains(t, body.Errors, "fullName")
}

func TestSubmitReservationDuplicate(t *testing.T) {
	ts, res, _ := newTestServer(t)
	res.On("Submit", mock.Anything, mock.Anything, mock.Anything).Return(nil, service.ErrDuplicateSubmission)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/v1/reservation-requests", map[string]any{
		"fullName": "Nguyễn Văn An",
	}, false)

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestSubmitReservationRateLimited(t *testing.T) {
	ts, res, _ := newTestServer(t)
	res.On("Submit", mock.Anything, mock.Anything, mock.Anything).Return(nil, service.ErrRateLimited)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/v1/reservation-requests", map[string]any{
		"fullName": "Nguyễn Văn An",
	}, false)

	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestSubmitReservationRejectsUnknownFields(t *testing.T) {
	ts, _, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/v1/reservation-requests", map[string]any{
		"fullName":   "Nguyễn Văn An",
		"unexpected": "field",
	}, false)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListReservationsRequiresAuth(t *testing.T) {
	ts, _, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/v1/reservation-requests", nil, false)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestListReservations(t *testing.T) {
	ts, res, _ := newTestServer(t)

	res.On("List", mock.Anything, 2, 10).Return([]models.ReservationRequest{
		{ID: 5, FullName: "Trần Thị Bình", Status: models.StatusPending},
	}, 21, nil)

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/v1/reservation-requests?page=2&limit=10", nil, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Items []models.ReservationRequest `json:"items"`
		Total int                         `json:"total"`
		Page  int                         `json:"page"`
		Limit int                         `json:"limit"`
	}
	decodeBody(t, resp, &body)
	assert.Len(t, body.Items, 1)
	assert.Equal(t, 21, body.Total)
	assert.Equal(t, 2, body.Page)
	assert.Equal(t, 10, body.Limit)
}

func TestPermissionDenied(t *testing.T) {
	ts, _, _ := newTestServer(t)

	// Viewer key lacks write:reservations.
	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/api/v1/reservation-requests/3", nil)
	require.NoError(t, err)
	req.Header.Set("x-api-key", "viewer-key")
	req.Header.Set("x-api-extra", "viewer-extra")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestWrongExtraHeaderRejected(t *testing.T) {
	ts, _, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/v1/reservation-requests", nil)
	require.NoError(t, err)
	req.Header.Set("x-api-key", testAPIKey)
	req.Header.Set("x-api-extra", "wrong")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestUpdateReservationStatus(t *testing.T) {
	ts, res, _ := newTestServer(t)

	updated := &models.ReservationRequest{ID: 3, Status: models.StatusConfirmed, Version: 2}
	res.On("UpdateStatus", mock.Anything, int64(3), int64(1), models.StatusConfirmed).Return(updated, nil)

	resp := doJSON(t, http.MethodPatch, ts.URL+"/api/v1/reservation-requests/3", map[string]any{
		"status":  "confirmed",
		"version": 1,
	}, true)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body models.ReservationRequest
	decodeBody(t, resp, &body)
	assert.Equal(t, models.StatusConfirmed, body.Status)
	assert.Equal(t, int64(2), body.Version)
}

func TestUpdateReservationStatusVersionConflict(t *testing.T) {
	ts, res, _ := newTestServer(t)
	res.On("UpdateStatus", mock.Anything, int64(3), int64(1), models.StatusConfirmed).Return(nil, database.ErrVersionConflict)

	resp := doJSON(t, http.MethodPatch, ts.URL+"/api/v1/reservation-requests/3", map[string]any{
		"status":  "confirmed",
		"version": 1,
	}, true)

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestGetReservationNotFound(t *testing.T) {
	ts, res, _ := newTestServer(t)
	res.On("Get", mock.Anything, int64(99)).Return(nil, database.ErrNotFound)

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/v1/reservation-requests/99", nil, true)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestReservationInvalidID(t *testing.T) {
	ts, _, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/v1/reservation-requests/abc", nil, true)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestExportReservations(t *testing.T) {
	ts, res, _ := newTestServer(t)
	res.On("Export", mock.Anything, "2025-12-01", "2025-12-31").Return([]byte("workbook"), nil)

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/v1/reservation-requests/export?start=2025-12-01&end=2025-12-31", nil, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "spreadsheetml")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "reservations_2025-12-01_2025-12-31.xlsx")
}

func TestExportRequiresDates(t *testing.T) {
	ts, _, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/v1/reservation-requests/export?start=2025-12-01", nil, true)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMinTimePublic(t *testing.T) {
	ts, res, _ := newTestServer(t)
	res.On("MinSelectableTime", "2025-12-25").Return("10:00")

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/v1/reservation-requests/min-time?date=2025-12-25", nil, false)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "10:00", body["minTime"])
}

func TestPublicTestimonialsActiveOnly(t *testing.T) {
	ts, _, content := newTestServer(t)

	content.On("ListTestimonials", mock.Anything, 1, 20, true).Return([]models.Testimonial{
		{ID: 1, Slug: "ngoc-anh", IsActive: true},
	}, 1, nil)

	// active=true is served without credentials
	resp := doJSON(t, http.MethodGet, ts.URL+"/api/v1/testimonials?active=true", nil, false)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// the unfiltered admin list is not
	resp = doJSON(t, http.MethodGet, ts.URL+"/api/v1/testimonials", nil, false)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCreateTestimonial(t *testing.T) {
	ts, _, content := newTestServer(t)

	content.On("CreateTestimonial", mock.Anything, mock.MatchedBy(func(tm *models.Testimonial) bool {
		return tm.AuthorName == "Trần Thị Ngọc Ánh" && tm.Rating == 5
	})).Return(nil)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/v1/testimonials", map[string]any{
		"authorName": "Trần Thị Ngọc Ánh",
		"rating":     5,
		"quote_i18n": map[string]string{"vi": "Món ăn rất ngon!"},
	}, true)

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	content.AssertExpectations(t)
}

func TestCreateTestimonialBadRating(t *testing.T) {
	ts, _, content := newTestServer(t)
	content.On("CreateTestimonial", mock.Anything, mock.Anything).Return(service.ErrInvalidRating)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/v1/testimonials", map[string]any{
		"authorName": "Trần Thị Ngọc Ánh",
		"rating":     9,
	}, true)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUpdateTestimonialUsesPathID(t *testing.T) {
	ts, _, content := newTestServer(t)

	content.On("UpdateTestimonial", mock.Anything, mock.MatchedBy(func(tm *models.Testimonial) bool {
		return tm.ID == 12
	})).Return(nil)

	resp := doJSON(t, http.MethodPut, ts.URL+"/api/v1/testimonials/12", map[string]any{
		"authorName": "Lê Minh Hoàng",
		"rating":     4,
	}, true)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	content.AssertExpectations(t)
}

func TestDeleteMediaAsset(t *testing.T) {
	ts, _, content := newTestServer(t)
	content.On("DeleteMediaAsset", mock.Anything, int64(4)).Return(nil)

	resp := doJSON(t, http.MethodDelete, ts.URL+"/api/v1/media-assets/4", nil, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]bool
	decodeBody(t, resp, &body)
	assert.True(t, body["deleted"])
}

func TestCreateMediaAssetDuplicateSlug(t *testing.T) {
	ts, _, content := newTestServer(t)
	content.On("CreateMediaAsset", mock.Anything, mock.Anything).Return(database.ErrDuplicateSlug)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/v1/media-assets", map[string]any{
		"slug": "pho-dac-biet",
		"url":  "https://cdn.example.com/pho.jpg",
	}, true)

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func uploadRequest(t *testing.T, url string, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", "mon-an.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("fake image bytes"))
	require.NoError(t, err)

	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	require.NoError(t, writer.Close())

	req, err := http.NewRequest(http.MethodPost, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("x-api-key", testAPIKey)
	req.Header.Set("x-api-extra", testExtra)
	return req
}

func TestUploadSingle(t *testing.T) {
	ts, _, content := newTestServer(t)

	item := &models.UploadItem{URL: "https://cdn.example.com/u/abc.jpg", PublicID: "abc", Bytes: 16, Format: "jpg"}
	content.On("UploadFile", mock.Anything, "mon-an.jpg", mock.AnythingOfType("string"), []byte("fake image bytes")).Return(item, nil)

	resp, err := http.DefaultClient.Do(uploadRequest(t, ts.URL+"/api/v1/uploads/single", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var body struct {
		Upload models.UploadItem `json:"upload"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, "abc", body.Upload.PublicID)
}

func TestUploadSingleCreatesAsset(t *testing.T) {
	ts, _, content := newTestServer(t)

	item := &models.UploadItem{URL: "https://cdn.example.com/u/abc.jpg", PublicID: "abc"}
	asset := &models.MediaAsset{ID: 9, Slug: "abc-12ab34cd", URL: item.URL, Kind: "image"}
	content.On("UploadFile", mock.Anything, "mon-an.jpg", mock.AnythingOfType("string"), mock.Anything).Return(item, nil)
	content.On("CreateMediaAssetFromUpload", mock.Anything, item, models.LocalizedString{Vi: "Món ăn", En: "A dish"}).Return(asset, nil)

	req := uploadRequest(t, ts.URL+"/api/v1/uploads/single", map[string]string{
		"createAsset": "true",
		"altVi":       "Món ăn",
		"altEn":       "A dish",
	})
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var body struct {
		Asset models.MediaAsset `json:"asset"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, int64(9), body.Asset.ID)
	content.AssertExpectations(t)
}

func TestUploadTooLarge(t *testing.T) {
	ts, _, content := newTestServer(t)
	content.On("UploadFile", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, service.ErrUploadTooLarge)

	resp, err := http.DefaultClient.Do(uploadRequest(t, ts.URL+"/api/v1/uploads/single", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestHealthz(t *testing.T) {
	ts, _, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, ts.URL+"/healthz", nil, false)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "ok", body["status"])
}

func TestRateLimitByKey(t *testing.T) {
	cfg := testAPIConfig()
	cfg.RateLimit.RPS = 0.001
	cfg.RateLimit.Burst = 2

	res := &mockReservationService{}
	content := &mockContentService{}
	res.On("MinSelectableTime", mock.Anything).Return("10:00")

	srv := NewHTTPServer(cfg, res, content, zerolog.Nop())
	ts := httptest.NewServer(srv.server.Handler)
	t.Cleanup(ts.Close)

	url := fmt.Sprintf("%s/api/v1/reservation-requests/min-time?date=%s", ts.URL, "2025-12-25")
	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		resp, err := http.Get(url)
		require.NoError(t, err)
		resp.Body.Close()
		statuses = append(statuses, resp.StatusCode)
	}

	assert.Equal(t, http.StatusOK, statuses[0])
	assert.Equal(t, http.StatusOK, statuses[1])
	assert.Equal(t, http.StatusTooManyRequests, statuses[2])
}

func TestMethodNotAllowed(t *testing.T) {
	ts, _, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodPut, ts.URL+"/api/v1/reservation-requests", strings.NewReader("{}"))
	require.NoError(t, err)
	req.Header.Set("x-api-key", testAPIKey)
	req.Header.Set("x-api-extra", testExtra)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
