package domain

import (
	"context"
	"time"

	"achihouse/internal/models"
	"achihouse/internal/reservation"
)

type Repository interface {
	CreateReservationRequest(ctx context.Context, r *models.ReservationRequest) error
	GetReservationRequest(ctx context.Context, id int64) (*models.ReservationRequest, error)
	ListReservationRequests(ctx context.Context, page, limit int) ([]models.ReservationRequest, int, error)
	ListReservationRequestsByDateRange(ctx context.Context, start, end string) ([]models.ReservationRequest, error)
	UpdateReservationStatusWithVersion(ctx context.Context, id, version int64, status string) error
	MarkReservationEmailed(ctx context.Context, id int64, at time.Time) error
	DeleteReservationRequest(ctx context.Context, id int64) error

	CreateTestimonial(ctx context.Context, t *models.Testimonial) error
	GetTestimonial(ctx context.Context, id int64) (*models.Testimonial, error)
	ListTestimonials(ctx context.Context, page, limit int, activeOnly bool) ([]models.Testimonial, int, error)
	UpdateTestimonial(ctx context.Context, t *models.Testimonial) error
	DeleteTestimonial(ctx context.Context, id int64) error

	CreateMediaAsset(ctx context.Context, a *models.MediaAsset) error
	GetMediaAsset(ctx context.Context, id int64) (*models.MediaAsset, error)
	ListMediaAssets(ctx context.Context, page, limit int, activeOnly bool) ([]models.MediaAsset, int, error)
	UpdateMediaAsset(ctx context.Context, a *models.MediaAsset) error
	DeleteMediaAsset(ctx context.Context, id int64) error
}

// StateRepository holds short-lived coordination state: submission
// dedupe markers and per-client rate limit counters.
type StateRepository interface {
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
	ClaimSubmission(ctx context.Context, key string, window time.Duration) (bool, error)
	ReleaseSubmission(ctx context.Context, key string) error
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

type NotifyWorker interface {
	EnqueueTask(ctx context.Context, taskType string, r *models.ReservationRequest) error
}

// UploadProvider stores a raw file and returns where it ended up.
type UploadProvider interface {
	Upload(ctx context.Context, filename string, contentType string, data []byte) (*models.UploadItem, error)
}

type ManagerNotifier interface {
	NotifyReservation(ctx context.Context, r *models.ReservationRequest) error
}

type ConfirmationMailer interface {
	SendConfirmation(ctx context.Context, r *models.ReservationRequest) error
}

type SheetsWriter interface {
	AppendReservation(ctx context.Context, r *models.ReservationRequest) error
	UpdateReservationStatus(ctx context.Context, id int64, status string) error
	ReplaceReservationsSheet(ctx context.Context, requests []models.ReservationRequest) error
}

type ReservationService interface {
	Submit(ctx context.Context, input reservation.RawInput, clientKey string) (*models.ReservationRequest, error)
	Get(ctx context.Context, id int64) (*models.ReservationRequest, error)
	List(ctx context.Context, page, limit int) ([]models.ReservationRequest, int, error)
	UpdateStatus(ctx context.Context, id, version int64, status string) (*models.ReservationRequest, error)
	Delete(ctx context.Context, id int64) error
	Export(ctx context.Context, start, end string) ([]byte, error)
	MinSelectableTime(date string) string
}

type ContentService interface {
	CreateTestimonial(ctx context.Context, t *models.Testimonial) error
	GetTestimonial(ctx context.Context, id int64) (*models.Testimonial, error)
	ListTestimonials(ctx context.Context, page, limit int, activeOnly bool) ([]models.Testimonial, int, error)
	UpdateTestimonial(ctx context.Context, t *models.Testimonial) error
	DeleteTestimonial(ctx context.Context, id int64) error

	CreateMediaAsset(ctx context.Context, a *models.MediaAsset) error
	GetMediaAsset(ctx context.Context, id int64) (*models.MediaAsset, error)
	ListMediaAssets(ctx context.Context, page, limit int, activeOnly bool) ([]models.MediaAsset, int, error)
	UpdateMediaAsset(ctx context.Context, a *models.MediaAsset) error
	DeleteMediaAsset(ctx context.Context, id int64) error

	UploadFile(ctx context.Context, filename, contentType string, data []byte) (*models.UploadItem, error)
	CreateMediaAssetFromUpload(ctx context.Context, item *models.UploadItem, alt models.LocalizedString) (*models.MediaAsset, error)
}
