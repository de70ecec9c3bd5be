package notifyapplicant

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"creator-campaign-workers/internal/common/aws"
	"creator-campaign-workers/internal/common/errors"
	"creator-campaign-workers/internal/common/logger"
)

type MockEmail struct {
	mock.Mock
}

func (m *MockEmail) SendEmail(ctx context.Context, from, to, subject, body string) (string, error) {
	args := m.Called(ctx, from, to, subject, body)
	return args.String(0), args.Error(1)
}

type MockSMS struct {
	mock.Mock
}

func (m *MockSMS) SendSMS(ctx context.Context, phone, senderID, message string) (string, error) {
	args := m.Called(ctx, phone, senderID, message)
	return args.String(0), args.Error(1)
}

var (
	_ EmailSender = (*aws.SESClient)(nil)
	_ SMSSender   = (*aws.SNSClient)(nil)
)

func testConfig() *Config {
	return &Config{
		EmailEnabled: true,
		SMSEnabled:   true,
		FromEmail:    "campanas@example.com",
		SMSSenderID:  "Creators",
		Timeout:      time.Second,
	}
}

func testInput() *Input {
	return &Input{
		CampaignID:              "camp-1",
		CampaignTitle:           "Verano 2026",
		Email:                   "laura@example.com",
		FirstName:               "Laura",
		Whatsapp:                "+57 300 000-0000",
		AcceptsMarketingContact: true,
	}
}

func TestExecute_EmailAndSMS(t *testing.T) {
	email := new(MockEmail)
	sms := new(MockSMS)
	email.On("SendEmail", mock.Anything, "campanas@example.com", "laura@example.com",
		"Recibimos tu aplicación a Verano 2026", mock.AnythingOfType("string")).Return("ses-1", nil)
	sms.On("SendSMS", mock.Anything, "+573000000000", "Creators",
		"Hola Laura, recibimos tu aplicación a Verano 2026.").Return("sns-1", nil)

	h := NewHandler(testConfig(), Dependencies{Email: email, SMS: sms}, logger.NewTestLogger(t))
	out, err := h.Execute(context.Background(), testInput())

	require.NoError(t, err)
	assert.NotEmpty(t, out.NotificationID)
	assert.True(t, out.EmailSent)
	assert.True(t, out.SMSSent)
	email.AssertExpectations(t)
	sms.AssertExpectations(t)
}

func TestExecute_NoSMSWithoutConsent(t *testing.T) {
	tests := []struct {
		name string
		edit func(*Input)
	}{
		{"no consent", func(in *Input) { in.AcceptsMarketingContact = false }},
		{"no number", func(in *Input) { in.Whatsapp = " " }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			email := new(MockEmail)
			sms := new(MockSMS)
			email.On("SendEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("ses-1", nil)

			input := testInput()
			tt.edit(input)
			out, err := NewHandler(testConfig(), Dependencies{Email: email, SMS: sms}, logger.NewNoOpLogger()).
				Execute(context.Background(), input)

			require.NoError(t, err)
			assert.True(t, out.EmailSent)
			assert.False(t, out.SMSSent)
			sms.AssertNotCalled(t, "SendSMS", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestExecute_EmailFailureIsRetryable(t *testing.T) {
	email := new(MockEmail)
	email.On("SendEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", stderrors.New("throttled"))

	_, err := NewHandler(testConfig(), Dependencies{Email: email}, logger.NewNoOpLogger()).
		Execute(context.Background(), testInput())

	var stdErr *errors.StandardError
	require.True(t, stderrors.As(err, &stdErr))
	assert.Equal(t, errors.ErrCodeNotificationSendFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)
}

func TestExecute_SMSFailureDoesNotFailJob(t *testing.T) {
	email := new(MockEmail)
	sms := new(MockSMS)
	email.On("SendEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("ses-1", nil)
	sms.On("SendSMS", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", stderrors.New("opted out"))

	out, err := NewHandler(testConfig(), Dependencies{Email: email, SMS: sms}, logger.NewNoOpLogger()).
		Execute(context.Background(), testInput())

	require.NoError(t, err)
	assert.True(t, out.EmailSent)
	assert.False(t, out.SMSSent)
}

func TestExecute_Disabled(t *testing.T) {
	cfg := testConfig()
	cfg.EmailEnabled = false
	cfg.SMSEnabled = false

	out, err := NewHandler(cfg, Dependencies{Email: new(MockEmail), SMS: new(MockSMS)}, logger.NewNoOpLogger()).
		Execute(context.Background(), testInput())

	require.NoError(t, err)
	assert.False(t, out.EmailSent)
	assert.False(t, out.SMSSent)
}
