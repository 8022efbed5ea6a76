package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"achihouse/internal/database"
	"achihouse/internal/domain"
	"achihouse/internal/events"
	"achihouse/internal/metrics"
	"achihouse/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// taskPayload is persisted in NotifyTask.Payload as JSON.
type taskPayload struct {
	Reservation *models.ReservationRequest `json:"reservation"`
}

// NotifyWorker consumes notify_queue tasks and fans them out to the
// configured channels. Every channel is optional; a nil channel is
// simply skipped.
type NotifyWorker struct {
	db            *database.DB
	notifier      domain.ManagerNotifier
	mailer        domain.ConfirmationMailer
	sheets        domain.SheetsWriter
	redis         *redis.Client
	retryPolicy   RetryPolicy
	queue         chan models.NotifyTask
	redisQueueKey string
	deadLetterKey string
	pollInterval  time.Duration
	batchSize     int
	logger        zerolog.Logger
}

// NewNotifyWorker builds a worker with sane defaults.
func NewNotifyWorker(
	db *database.DB,
	notifier domain.ManagerNotifier,
	mailer domain.ConfirmationMailer,
	sheets domain.SheetsWriter,
	redisClient *redis.Client,
	retry RetryPolicy,
	logger *zerolog.Logger,
) *NotifyWorker {
	if retry.MaxRetries == 0 {
		retry.MaxRetries = 5
	}
	if retry.InitialDelay == 0 {
		retry.InitialDelay = 2 * time.Second
	}
	if retry.MaxDelay == 0 {
		retry.MaxDelay = 1 * time.Minute
	}
	if retry.BackoffFactor == 0 {
		retry.BackoffFactor = 2
	}

	return &NotifyWorker{
		db:            db,
		notifier:      notifier,
		mailer:        mailer,
		sheets:        sheets,
		redis:         redisClient,
		retryPolicy:   retry,
		queue:         make(chan models.NotifyTask, models.WorkerQueueSize),
		redisQueueKey: "notify:queue",
		deadLetterKey: "notify:deadletter",
		pollInterval:  2 * time.Second,
		batchSize:     20,
		logger:        logger.With().Str("component", "notify_worker").Logger(),
	}
}

// EnqueueTask persists the task and schedules it via redis or the
// in-memory queue.
func (w *NotifyWorker) EnqueueTask(ctx context.Context, taskType string, r *models.ReservationRequest) error {
	if taskType == "" {
		return errors.New("task type is required")
	}
	if r == nil || r.ID == 0 {
		return errors.New("reservation is required")
	}

	payloadBytes, err := json.Marshal(taskPayload{Reservation: r})
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	task := models.NotifyTask{
		TaskType:      taskType,
		ReservationID: r.ID,
		Payload:       string(payloadBytes),
		Status:        "pending",
	}

	if err := w.db.CreateNotifyTask(ctx, &task); err != nil {
		return fmt.Errorf("persist notify task: %w", err)
	}

	// Try redis first for durability.
	if w.redis != nil {
		if err := w.pushRedis(ctx, task); err != nil {
			w.logger.Warn().Err(err).Msg("Redis push failed, fallback to memory queue")
		} else {
			return nil
		}
	}

	select {
	case w.queue <- task:
	default:
		w.logger.Warn().Int64("task_id", task.ID).Msg("In-memory queue full, task left to polling")
	}

	return nil
}

// Start launches the main loop; stops when ctx is done.
func (w *NotifyWorker) Start(ctx context.Context) {
	w.logger.Info().Msg("Notify worker started")
	defer w.logger.Info().Msg("Notify worker stopped")

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if t, ok := w.tryLocalQueue(); ok {
			w.processTask(ctx, &t)
			continue
		}

		if t, ok := w.tryRedis(ctx); ok {
			w.processTask(ctx, &t)
			continue
		}

		tasks, err := w.db.GetPendingNotifyTasks(ctx, w.batchSize)
		if err != nil {
			w.logger.Error().Err(err).Msg("Failed to fetch pending tasks")
			time.Sleep(w.pollInterval)
			continue
		}
		if len(tasks) == 0 {
			time.Sleep(w.pollInterval)
			continue
		}

		for i := range tasks {
			w.processTask(ctx, &tasks[i])
		}
	}
}

func (w *NotifyWorker) tryLocalQueue() (models.NotifyTask, bool) {
	select {
	case t := <-w.queue:
		return t, true
	default:
		return models.NotifyTask{}, false
	}
}

func (w *NotifyWorker) tryRedis(ctx context.Context) (models.NotifyTask, bool) {
	if w.redis == nil {
		return models.NotifyTask{}, false
	}
	res, err := w.redis.BRPop(ctx, time.Second, w.redisQueueKey).Result()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, redis.Nil) {
			return models.NotifyTask{}, false
		}
		w.logger.Error().Err(err).Msg("Redis BRPOP error")
		return models.NotifyTask{}, false
	}
	if len(res) != 2 {
		return models.NotifyTask{}, false
	}
	var task models.NotifyTask
	if err := json.Unmarshal([]byte(res[1]), &task); err != nil {
		w.logger.Error().Err(err).Msg("Failed to decode redis task")
		return models.NotifyTask{}, false
	}
	return task, true
}

func (w *NotifyWorker) processTask(ctx context.Context, task *models.NotifyTask) {
	var payload taskPayload
	if err := json.Unmarshal([]byte(task.Payload), &payload); err != nil {
		w.failTask(ctx, task, fmt.Errorf("decode payload: %w", err))
		return
	}
	if payload.Reservation == nil {
		w.failTask(ctx, task, errors.New("reservation payload missing"))
		return
	}

	if err := w.dispatch(ctx, task.TaskType, payload.Reservation); err != nil {
		w.retryOrFail(ctx, task, err)
		return
	}

	if err := w.db.UpdateNotifyTaskStatus(ctx, task.ID, "completed", "", nil); err != nil {
		w.logger.Error().Err(err).Int64("task_id", task.ID).Msg("Failed to mark task completed")
	}
}

var taskStatuses = map[string]string{
	events.EventReservationConfirmed: models.StatusConfirmed,
	events.EventReservationCancelled: models.StatusCancelled,
	events.EventReservationCompleted: models.StatusCompleted,
}

func (w *NotifyWorker) dispatch(ctx context.Context, taskType string, r *models.ReservationRequest) error {
	switch taskType {
	case events.EventReservationCreated:
		return w.dispatchCreated(ctx, r)
	default:
		status, ok := taskStatuses[taskType]
		if !ok {
			return fmt.Errorf("unknown task type: %s", taskType)
		}
		if w.sheets == nil {
			return nil
		}
		if err := w.sheets.UpdateReservationStatus(ctx, r.ID, status); err != nil {
			metrics.IncNotification("sheets", "error")
			return fmt.Errorf("sheets status update: %w", err)
		}
		metrics.IncNotification("sheets", "ok")
		return nil
	}
}

func (w *NotifyWorker) dispatchCreated(ctx context.Context, r *models.ReservationRequest) error {
	var errs []error

	if w.notifier != nil {
		if err := w.notifier.NotifyReservation(ctx, r); err != nil {
			metrics.IncNotification("telegram", "error")
			errs = append(errs, fmt.Errorf("telegram: %w", err))
		} else {
			metrics.IncNotification("telegram", "ok")
		}
	}

	if w.mailer != nil && r.Email != "" && r.EmailedAt == nil {
		if err := w.mailer.SendConfirmation(ctx, r); err != nil {
			metrics.IncNotification("email", "error")
			errs = append(errs, fmt.Errorf("email: %w", err))
		} else {
			metrics.IncNotification("email", "ok")
			now := time.Now()
			r.EmailedAt = &now
			if err := w.db.MarkReservationEmailed(ctx, r.ID, now); err != nil {
				w.logger.Error().Err(err).Int64("reservation_id", r.ID).Msg("Failed to record emailed_at")
			}
		}
	}

	if w.sheets != nil {
		if err := w.sheets.AppendReservation(ctx, r); err != nil {
			metrics.IncNotification("sheets", "error")
			errs = append(errs, fmt.Errorf("sheets: %w", err))
		} else {
			metrics.IncNotification("sheets", "ok")
		}
	}

	return errors.Join(errs...)
}

func (w *NotifyWorker) retryOrFail(ctx context.Context, task *models.NotifyTask, cause error) {
	attempt := task.RetryCount + 1
	if attempt >= w.retryPolicy.MaxRetries {
		if err := w.db.UpdateNotifyTaskStatus(ctx, task.ID, "failed", cause.Error(), nil); err != nil {
			w.logger.Error().Err(err).Int64("task_id", task.ID).Msg("Failed to mark task failed")
		}
		w.pushDeadLetter(ctx, task)
		return
	}

	nextDelay := w.retryPolicy.NextDelay(attempt)
	nextTime := time.Now().Add(nextDelay)
	if err := w.db.UpdateNotifyTaskStatus(ctx, task.ID, "retry", cause.Error(), &nextTime); err != nil {
		w.logger.Error().Err(err).Int64("task_id", task.ID).Msg("Failed to mark task for retry")
	}
}

func (w *NotifyWorker) failTask(ctx context.Context, task *models.NotifyTask, cause error) {
	if err := w.db.UpdateNotifyTaskStatus(ctx, task.ID, "failed", cause.Error(), nil); err != nil {
		w.logger.Error().Err(err).Int64("task_id", task.ID).Msg("Failed to mark task failed")
	}
	w.pushDeadLetter(ctx, task)
}

func (w *NotifyWorker) pushRedis(ctx context.Context, task models.NotifyTask) error {
	if w.redis == nil {
		return errors.New("redis client is nil")
	}
	data, err := json.Marshal(task)
	if err != nil {
		return err
	}
	return w.redis.LPush(ctx, w.redisQueueKey, data).Err()
}

func (w *NotifyWorker) pushDeadLetter(ctx context.Context, task *models.NotifyTask) {
	if w.redis == nil {
		return
	}
	data, err := json.Marshal(task)
	if err != nil {
		w.logger.Error().Err(err).Int64("task_id", task.ID).Msg("Failed to encode deadletter task")
		return
	}
	if err := w.redis.LPush(ctx, w.deadLetterKey, data).Err(); err != nil {
		w.logger.Error().Err(err).Int64("task_id", task.ID).Msg("Failed to push deadletter task")
	}
}
