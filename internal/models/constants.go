package models

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

const (
	SourceWebsite = "website"

	LocaleVi = "vi"
	LocaleEn = "en"
)

const (
	// DedupeWindow окно подавления повторных заявок
	DedupeWindow = 10 * 60 // 10 minutes in seconds

	// WorkerQueueSize размер очереди воркера уведомлений
	WorkerQueueSize = 1000

	// DefaultPageLimit размер страницы по умолчанию в админке
	DefaultPageLimit = 20

	// MaxPageLimit верхняя граница limit в запросе
	MaxPageLimit = 100

	// RateLimitMessages количество заявок в окне с одного клиента
	RateLimitMessages = 5

	// RateLimitWindow окно ограничения частоты заявок
	RateLimitWindow = 60 // 1 minute in seconds
)
