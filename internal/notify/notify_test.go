package notify

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"achihouse/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	mailjet "github.com/mailjet/mailjet-apiv3-go/v3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent []tgbotapi.Chattable
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, f.err
}

func testReservation() *models.ReservationRequest {
	return &models.ReservationRequest{
		ID:              42,
		FullName:        "Nguyen Van A",
		PhoneNumber:     "0985310238",
		Email:           "a@example.com",
		GuestCount:      4,
		ReservationDate: "2025-12-25",
		ReservationTime: "19:30",
		Note:            "Bàn gần cửa sổ",
		Locale:          models.LocaleVi,
	}
}

func TestTelegramNotifierSendsToManagersChat(t *testing.T) {
	sender := &fakeSender{}
	logger := zerolog.New(io.Discard)
	notifier := NewTelegramNotifierWithSender(sender, -100123, &logger)

	require.NoError(t, notifier.NotifyReservation(context.Background(), testReservation()))
	require.Len(t, sender.sent, 1)

	msg, ok := sender.sent[0].(tgbotapi.MessageConfig)
	require.True(t, ok)
	assert.EqualValues(t, -100123, msg.ChatID)
	assert.Contains(t, msg.Text, "Nguyen Van A")
	assert.Contains(t, msg.Text, "0985310238")
	assert.Contains(t, msg.Text, "2025-12-25")
	assert.Contains(t, msg.Text, "Bàn gần cửa sổ")
}

func TestTelegramNotifierPropagatesError(t *testing.T) {
	sender := &fakeSender{err: errors.New("chat not found")}
	logger := zerolog.New(io.Discard)
	notifier := NewTelegramNotifierWithSender(sender, 1, &logger)

	err := notifier.NotifyReservation(context.Background(), testReservation())
	assert.ErrorContains(t, err, "chat not found")
}

type fakeMailClient struct {
	sent []*mailjet.MessagesV31
	err  error
}

func (f *fakeMailClient) SendMailV31(data *mailjet.MessagesV31, _ ...mailjet.RequestOptions) (*mailjet.ResultsV31, error) {
	f.sent = append(f.sent, data)
	return &mailjet.ResultsV31{}, f.err
}

func TestMailerSendsLocalizedConfirmation(t *testing.T) {
	client := &fakeMailClient{}
	logger := zerolog.New(io.Discard)
	mailer := &Mailer{
		client:         client,
		fromEmail:      "hello@achihouse.vn",
		fromName:       "Achi House",
		restaurantName: "Achi House",
		logger:         logger,
	}

	require.NoError(t, mailer.SendConfirmation(context.Background(), testReservation()))
	require.Len(t, client.sent, 1)

	info := client.sent[0].Info
	require.Len(t, info, 1)
	assert.Equal(t, "hello@achihouse.vn", info[0].From.Email)
	assert.True(t, strings.Contains(info[0].Subject, "Xác nhận"))
	assert.Contains(t, info[0].TextPart, "Nguyen Van A")
	assert.Contains(t, info[0].TextPart, "2025-12-25")
}

func TestMailerEnglishLocale(t *testing.T) {
	client := &fakeMailClient{}
	logger := zerolog.New(io.Discard)
	mailer := &Mailer{
		client:         client,
		fromEmail:      "hello@achihouse.vn",
		restaurantName: "Achi House",
		logger:         logger,
	}

	r := testReservation()
	r.Locale = models.LocaleEn
	require.NoError(t, mailer.SendConfirmation(context.Background(), r))
	require.Len(t, client.sent, 1)
	assert.Contains(t, client.sent[0].Info[0].Subject, "Reservation request received")
}

func TestMailerSkipsWithoutEmail(t *testing.T) {
	client := &fakeMailClient{}
	logger := zerolog.New(io.Discard)
	mailer := &Mailer{client: client, logger: logger}

	r := testReservation()
	r.Email = ""
	require.NoError(t, mailer.SendConfirmation(context.Background(), r))
	assert.Empty(t, client.sent)
}
