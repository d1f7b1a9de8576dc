package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"gopkg.in/gomail.v2"

	"uplink/internal/config"
	"uplink/internal/manifest"
)

// Service defines the notification surface exposed to the watch workflow.
// Every send is addressed to the manifest-level notification address; an
// empty address is a logged skip, never an error.
type Service interface {
	NotifyInvalidAsset(ctx context.Context, to string, asset *manifest.Asset, manifestName, manifestText string) error
	NotifyCreateFailed(ctx context.Context, to string, asset *manifest.Asset, manifestName, manifestText string) error
	NotifyIngestFailed(ctx context.Context, to string, asset *manifest.Asset, manifestName, manifestText string) error
	NotifyUpdateWarning(ctx context.Context, to string, asset *manifest.Asset, manifestName, manifestText string) error
	NotifySuccess(ctx context.Context, to string, asset *manifest.Asset) error
	TestNotification(ctx context.Context, to string) error
}

// SendFunc delivers one prepared message. It exists so tests can capture
// messages without a relay.
type SendFunc func(msg *gomail.Message) error

// Option customizes the mail service.
type Option func(*mailService)

// WithSender overrides the SMTP delivery function.
func WithSender(send SendFunc) Option {
	return func(s *mailService) {
		if send != nil {
			s.send = send
		}
	}
}

// NewService builds an email notification service backed by the configured
// relay. When email is disabled a noop implementation is returned.
func NewService(cfg *config.Config, logger *slog.Logger, opts ...Option) Service {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg == nil || !cfg.Email.Enabled {
		return noopService{}
	}

	dialer := gomail.NewDialer(cfg.Email.SMTPHost, cfg.Email.SMTPPort, "", "")
	svc := &mailService{
		from:   cfg.Email.From,
		logger: logger,
		send: func(msg *gomail.Message) error {
			return dialer.DialAndSend(msg)
		},
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type mailService struct {
	from   string
	logger *slog.Logger
	send   SendFunc
}

func (s *mailService) NotifyInvalidAsset(ctx context.Context, to string, asset *manifest.Asset, manifestName, manifestText string) error {
	body := fmt.Sprintf(
		"Invalid asset found - file, client id, client secret, account id, and profile are all required\n\n%s\nManifest: %s\n\n%s",
		asset.Detail(), manifestName, manifestText)
	return s.deliver(ctx, to, "Uplink - Invalid Asset Found", body)
}

func (s *mailService) NotifyCreateFailed(ctx context.Context, to string, asset *manifest.Asset, manifestName, manifestText string) error {
	body := fmt.Sprintf(
		"Error creating video for asset:\n\n%s\nManifest: %s\n\n%s",
		asset.Detail(), manifestName, manifestText)
	return s.deliver(ctx, to, "Uplink - Error creating video", body)
}

func (s *mailService) NotifyIngestFailed(ctx context.Context, to string, asset *manifest.Asset, manifestName, manifestText string) error {
	body := fmt.Sprintf(
		"Error issuing ingest request for video:\n\n%s\nManifest: %s\n\n%s",
		asset.Detail(), manifestName, manifestText)
	return s.deliver(ctx, to, "Uplink - Error ingesting video", body)
}

func (s *mailService) NotifyUpdateWarning(ctx context.Context, to string, asset *manifest.Asset, manifestName, manifestText string) error {
	body := fmt.Sprintf(
		"Error updating the video for asset - video will still process:\n\n%s\nManifest: %s\n\n%s",
		asset.Detail(), manifestName, manifestText)
	return s.deliver(ctx, to, "Uplink - Warning - problem updating video", body)
}

func (s *mailService) NotifySuccess(ctx context.Context, to string, asset *manifest.Asset) error {
	body := fmt.Sprintf("Successfully completed ingest request for asset:\n\n%s", asset.Detail())
	return s.deliver(ctx, to, "Uplink - Success!", body)
}

func (s *mailService) TestNotification(ctx context.Context, to string) error {
	return s.deliver(ctx, to, "Uplink - Test", "Notification relay test")
}

func (s *mailService) deliver(_ context.Context, to, subject, body string) error {
	to = strings.TrimSpace(to)
	if to == "" {
		s.logger.Warn("no notification address, dropping email", slog.String("subject", subject))
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := s.send(msg); err != nil {
		return fmt.Errorf("send notification %q: %w", subject, err)
	}
	return nil
}

type noopService struct{}

func (noopService) NotifyInvalidAsset(context.Context, string, *manifest.Asset, string, string) error {
	return nil
}

func (noopService) NotifyCreateFailed(context.Context, string, *manifest.Asset, string, string) error {
	return nil
}

func (noopService) NotifyIngestFailed(context.Context, string, *manifest.Asset, string, string) error {
	return nil
}

func (noopService) NotifyUpdateWarning(context.Context, string, *manifest.Asset, string, string) error {
	return nil
}

func (noopService) NotifySuccess(context.Context, string, *manifest.Asset) error { return nil }

func (noopService) TestNotification(context.Context, string) error { return nil }
