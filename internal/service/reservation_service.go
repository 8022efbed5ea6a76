package service

import (
	"context"
	"fmt"
	"time"

	"achihouse/internal/domain"
	"achihouse/internal/events"
	"achihouse/internal/export"
	"achihouse/internal/metrics"
	"achihouse/internal/models"
	"achihouse/internal/reservation"

	"github.com/rs/zerolog"
)

type ReservationService struct {
	repo     domain.Repository
	state    domain.StateRepository
	eventBus domain.EventPublisher
	worker   domain.NotifyWorker
	hours    reservation.OpeningHours
	now      func() time.Time
	logger   *zerolog.Logger
}

func NewReservationService(
	repo domain.Repository,
	state domain.StateRepository,
	eventBus domain.EventPublisher,
	worker domain.NotifyWorker,
	hours reservation.OpeningHours,
	logger *zerolog.Logger,
) *ReservationService {
	return &ReservationService{
		repo:     repo,
		state:    state,
		eventBus: eventBus,
		worker:   worker,
		hours:    hours,
		now:      time.Now,
		logger:   logger,
	}
}

// Submit validates a public form submission, stores it as a pending
// request and fans out notifications. clientKey identifies the caller
// for rate limiting; an empty key skips the check.
func (s *ReservationService) Submit(ctx context.Context, input reservation.RawInput, clientKey string) (*models.ReservationRequest, error) {
	locale := input.Locale
	if locale != models.LocaleVi {
		locale = models.LocaleEn
	}

	normalized, fieldErrs := reservation.Validate(input, s.now(), s.hours)
	if len(fieldErrs) > 0 {
		metrics.IncReservation("rejected")
		return nil, &ValidationError{Locale: locale, Fields: fieldErrs}
	}

	if clientKey != "" {
		allowed, err := s.state.CheckRateLimit(ctx, clientKey, models.RateLimitMessages, models.RateLimitWindow*time.Second)
		if err != nil {
			return nil, fmt.Errorf("rate limit check: %w", err)
		}
		if !allowed {
			metrics.IncReservation("rate_limited")
			return nil, ErrRateLimited
		}
	}

	dedupeKey := normalized.PhoneNumber + ":" + normalized.ReservationDate + ":" + normalized.ReservationTime
	claimed, err := s.state.ClaimSubmission(ctx, dedupeKey, models.DedupeWindow*time.Second)
	if err != nil {
		return nil, fmt.Errorf("dedupe check: %w", err)
	}
	if !claimed {
		metrics.IncReservation("duplicate")
		return nil, ErrDuplicateSubmission
	}

	source := normalized.Source
	if source == "" {
		source = models.SourceWebsite
	}

	r := &models.ReservationRequest{
		FullName:        normalized.FullName,
		PhoneNumber:     normalized.PhoneNumber,
		Email:           normalized.Email,
		GuestCount:      normalized.GuestCount,
		ReservationDate: normalized.ReservationDate,
		ReservationTime: normalized.ReservationTime,
		Note:            normalized.Note,
		Source:          source,
		Locale:          locale,
	}

	if err := s.repo.CreateReservationRequest(ctx, r); err != nil {
		// The claim is released so the guest can retry after a storage hiccup.
		_ = s.state.ReleaseSubmission(ctx, dedupeKey)
		return nil, err
	}

	s.logger.Info().
		Int64("reservation_id", r.ID).
		Str("date", r.ReservationDate).
		Str("time", r.ReservationTime).
		Int("guests", r.GuestCount).
		Msg("Reservation request accepted")

	metrics.IncReservation("accepted")
	s.publishEvent(events.EventReservationCreated, r)
	s.enqueueNotify(ctx, events.EventReservationCreated, r)

	return r, nil
}

func (s *ReservationService) Get(ctx context.Context, id int64) (*models.ReservationRequest, error) {
	return s.repo.GetReservationRequest(ctx, id)
}

func (s *ReservationService) List(ctx context.Context, page, limit int) ([]models.ReservationRequest, int, error) {
	return s.repo.ListReservationRequests(ctx, page, limit)
}

var statusEvents = map[string]string{
	models.StatusPending:   "",
	models.StatusConfirmed: events.EventReservationConfirmed,
	models.StatusCancelled: events.EventReservationCancelled,
	models.StatusCompleted: events.EventReservationCompleted,
}

// UpdateStatus applies an optimistic status transition and returns the
// updated request.
func (s *ReservationService) UpdateStatus(ctx context.Context, id, version int64, status string) (*models.ReservationRequest, error) {
	eventType, known := statusEvents[status]
	if !known {
		return nil, ErrInvalidStatus
	}

	if err := s.repo.UpdateReservationStatusWithVersion(ctx, id, version, status); err != nil {
		return nil, err
	}

	r, err := s.repo.GetReservationRequest(ctx, id)
	if err != nil {
		return nil, err
	}

	if eventType != "" {
		s.publishEvent(eventType, r)
		s.enqueueNotify(ctx, eventType, r)
	}

	return r, nil
}

func (s *ReservationService) Delete(ctx context.Context, id int64) error {
	return s.repo.DeleteReservationRequest(ctx, id)
}

// Export renders all requests in [start, end] as an xlsx workbook.
func (s *ReservationService) Export(ctx context.Context, start, end string) ([]byte, error) {
	requests, err := s.repo.ListReservationRequestsByDateRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return export.ReservationsToExcel(requests, start, end)
}

// MinSelectableTime reports the earliest bookable slot for a date.
func (s *ReservationService) MinSelectableTime(date string) string {
	return reservation.MinSelectableTime(s.now(), date, s.hours)
}

func (s *ReservationService) publishEvent(eventType string, r *models.ReservationRequest) {
	if s.eventBus == nil {
		return
	}

	payload := events.ReservationEventPayload{
		ReservationID:   r.ID,
		FullName:        r.FullName,
		PhoneNumber:     r.PhoneNumber,
		Email:           r.Email,
		GuestCount:      r.GuestCount,
		ReservationDate: r.ReservationDate,
		ReservationTime: r.ReservationTime,
		Status:          r.Status,
		Locale:          r.Locale,
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event", eventType).Msg("Failed to publish event")
	}
}

func (s *ReservationService) enqueueNotify(ctx context.Context, taskType string, r *models.ReservationRequest) {
	if s.worker == nil {
		return
	}
	if err := s.worker.EnqueueTask(ctx, taskType, r); err != nil {
		s.logger.Error().Err(err).Int64("reservation_id", r.ID).Msg("Failed to enqueue notification")
	}
}
