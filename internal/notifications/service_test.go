package notifications_test

import (
	"context"
	"strings"
	"testing"

	"gopkg.in/gomail.v2"

	"uplink/internal/config"
	"uplink/internal/manifest"
	"uplink/internal/notifications"
)

func testAsset() *manifest.Asset {
	return &manifest.Asset{
		FileName:     "movies/feature.mp4",
		ClientID:     "client-1",
		ClientSecret: "secret-value-1",
		AccountID:    "12345",
		Title:        "Feature Film",
		Description:  "A test feature",
		Profile:      "multi-platform-standard",
	}
}

func captureService(t *testing.T, captured *[]*gomail.Message) notifications.Service {
	t.Helper()
	cfg := config.Default()
	return notifications.NewService(&cfg, nil, notifications.WithSender(func(msg *gomail.Message) error {
		*captured = append(*captured, msg)
		return nil
	}))
}

func messageBody(t *testing.T, msg *gomail.Message) string {
	t.Helper()
	var b strings.Builder
	if _, err := msg.WriteTo(&b); err != nil {
		t.Fatalf("render message: %v", err)
	}
	return b.String()
}

func TestNotifySuccessAddressesSubmitter(t *testing.T) {
	var captured []*gomail.Message
	svc := captureService(t, &captured)

	if err := svc.NotifySuccess(context.Background(), "submitter@example.com", testAsset()); err != nil {
		t.Fatalf("NotifySuccess: %v", err)
	}
	if len(captured) != 1 {
		t.Fatalf("expected one message, got %d", len(captured))
	}
	msg := captured[0]
	if got := msg.GetHeader("To"); len(got) != 1 || got[0] != "submitter@example.com" {
		t.Fatalf("unexpected To header %v", got)
	}
	if got := msg.GetHeader("Subject"); len(got) != 1 || got[0] != "Uplink - Success!" {
		t.Fatalf("unexpected Subject %v", got)
	}
	body := messageBody(t, msg)
	if !strings.Contains(body, "movies/feature.mp4") {
		t.Fatalf("body missing asset detail: %q", body)
	}
}

func TestEmptyRecipientIsDropped(t *testing.T) {
	var captured []*gomail.Message
	svc := captureService(t, &captured)

	if err := svc.NotifyCreateFailed(context.Background(), "", testAsset(), "drop/batch.xml", "<Manifest/>"); err != nil {
		t.Fatalf("empty recipient must not error: %v", err)
	}
	if len(captured) != 0 {
		t.Fatalf("no message should be sent without a recipient, got %d", len(captured))
	}
}

func TestFailureBodiesQuoteManifest(t *testing.T) {
	var captured []*gomail.Message
	svc := captureService(t, &captured)
	ctx := context.Background()
	asset := testAsset()

	calls := []func() error{
		func() error {
			return svc.NotifyInvalidAsset(ctx, "a@example.com", asset, "drop/batch.xml", "<Manifest>raw</Manifest>")
		},
		func() error {
			return svc.NotifyCreateFailed(ctx, "a@example.com", asset, "drop/batch.xml", "<Manifest>raw</Manifest>")
		},
		func() error {
			return svc.NotifyIngestFailed(ctx, "a@example.com", asset, "drop/batch.xml", "<Manifest>raw</Manifest>")
		},
		func() error {
			return svc.NotifyUpdateWarning(ctx, "a@example.com", asset, "drop/batch.xml", "<Manifest>raw</Manifest>")
		},
	}
	for _, call := range calls {
		if err := call(); err != nil {
			t.Fatalf("notify: %v", err)
		}
	}
	if len(captured) != len(calls) {
		t.Fatalf("expected %d messages, got %d", len(calls), len(captured))
	}
	for _, msg := range captured {
		body := messageBody(t, msg)
		if !strings.Contains(body, "drop/batch.xml") {
			t.Fatalf("body missing manifest name: %q", body)
		}
	}
}

func TestBodiesMaskClientSecret(t *testing.T) {
	var captured []*gomail.Message
	svc := captureService(t, &captured)

	if err := svc.NotifySuccess(context.Background(), "a@example.com", testAsset()); err != nil {
		t.Fatalf("NotifySuccess: %v", err)
	}
	if strings.Contains(messageBody(t, captured[0]), "secret-value-1") {
		t.Fatal("full client secret must not appear in email bodies")
	}
}

func TestDisabledConfigReturnsNoop(t *testing.T) {
	cfg := config.Default()
	cfg.Email.Enabled = false
	svc := notifications.NewService(&cfg, nil)
	if err := svc.NotifySuccess(context.Background(), "a@example.com", testAsset()); err != nil {
		t.Fatalf("noop service must not error: %v", err)
	}
}
