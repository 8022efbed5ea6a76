package notify

import (
	"context"
	"fmt"

	"achihouse/internal/config"
	"achihouse/internal/models"

	mailjet "github.com/mailjet/mailjet-apiv3-go/v3"
	"github.com/rs/zerolog"
)

// mailClient is the slice of the Mailjet API the mailer needs.
type mailClient interface {
	SendMailV31(data *mailjet.MessagesV31, options ...mailjet.RequestOptions) (*mailjet.ResultsV31, error)
}

// Mailer sends the guest a confirmation email once their reservation
// is accepted. Guests without an email address are skipped silently.
type Mailer struct {
	client         mailClient
	fromEmail      string
	fromName       string
	restaurantName string
	logger         zerolog.Logger
}

func NewMailer(cfg config.EmailConfig, restaurantName string, logger *zerolog.Logger) *Mailer {
	return &Mailer{
		client:         mailjet.NewMailjetClient(cfg.APIKey, cfg.SecretKey),
		fromEmail:      cfg.FromEmail,
		fromName:       cfg.FromName,
		restaurantName: restaurantName,
		logger:         logger.With().Str("component", "mailer").Logger(),
	}
}

func (m *Mailer) SendConfirmation(ctx context.Context, r *models.ReservationRequest) error {
	if r.Email == "" {
		return nil
	}

	subject, textPart := confirmationBody(r, m.restaurantName)
	messages := mailjet.MessagesV31{
		Info: []mailjet.InfoMessagesV31{{
			From: &mailjet.RecipientV31{
				Email: m.fromEmail,
				Name:  m.fromName,
			},
			To: &mailjet.RecipientsV31{
				mailjet.RecipientV31{
					Email: r.Email,
					Name:  r.FullName,
				},
			},
			Subject:  subject,
			TextPart: textPart,
		}},
	}

	if _, err := m.client.SendMailV31(&messages); err != nil {
		return fmt.Errorf("mailjet send: %w", err)
	}

	m.logger.Info().Int64("reservation_id", r.ID).Str("email", r.Email).Msg("Confirmation email sent")
	return nil
}

func confirmationBody(r *models.ReservationRequest, restaurantName string) (subject, text string) {
	if r.Locale == models.LocaleVi {
		subject = fmt.Sprintf("Xác nhận đặt bàn tại %s", restaurantName)
		text = fmt.Sprintf(
			"Xin chào %s,\n\n"+
				"Chúng tôi đã nhận được yêu cầu đặt bàn của bạn:\n"+
				"- Ngày: %s\n"+
				"- Giờ: %s\n"+
				"- Số khách: %d\n\n"+
				"Nhà hàng sẽ liên hệ qua số %s để xác nhận.\n\n"+
				"Trân trọng,\n%s",
			r.FullName, r.ReservationDate, r.ReservationTime, r.GuestCount, r.PhoneNumber, restaurantName,
		)
		return subject, text
	}

	subject = fmt.Sprintf("Reservation request received at %s", restaurantName)
	text = fmt.Sprintf(
		"Hello %s,\n\n"+
			"We have received your reservation request:\n"+
			"- Date: %s\n"+
			"- Time: %s\n"+
			"- Guests: %d\n\n"+
			"We will call %s to confirm your table.\n\n"+
			"Best regards,\n%s",
		r.FullName, r.ReservationDate, r.ReservationTime, r.GuestCount, r.PhoneNumber, restaurantName,
	)
	return subject, text
}
