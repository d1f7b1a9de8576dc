package manifest

import (
	"fmt"
	"strings"
)

// Asset holds one video's ingestion instructions extracted from a manifest.
// VideoID and IngestRequestID are filled in as the ingest workflow advances.
type Asset struct {
	FileName             string
	ClientID             string
	ClientSecret         string
	AccountID            string
	Title                string
	Description          string
	ReferenceID          string
	Profile              string
	NotificationEndpoint string

	VideoID         string
	IngestRequestID string
}

// Validate checks the required fields and backfills display defaults in
// place. It returns false when any of file name, client id, client secret,
// account id, or profile is empty; fields that were present are left
// untouched either way. On success an empty title falls back to the file
// name, then an empty description falls back to the (possibly backfilled)
// title.
func (a *Asset) Validate() bool {
	if a.FileName == "" ||
		a.ClientID == "" ||
		a.ClientSecret == "" ||
		a.AccountID == "" ||
		a.Profile == "" {
		return false
	}

	if a.Title == "" {
		a.Title = a.FileName
	}
	if a.Description == "" {
		a.Description = a.Title
	}
	return true
}

// Detail renders the asset for notification bodies. Credentials are partially
// masked so workflow emails do not leak full secrets.
func (a *Asset) Detail() string {
	var b strings.Builder
	fmt.Fprintf(&b, "File: %s\n", a.FileName)
	fmt.Fprintf(&b, "Account: %s\n", a.AccountID)
	fmt.Fprintf(&b, "Client ID: %s\n", a.ClientID)
	fmt.Fprintf(&b, "Client Secret: %s\n", maskSecret(a.ClientSecret))
	fmt.Fprintf(&b, "Title: %s\n", a.Title)
	fmt.Fprintf(&b, "Description: %s\n", a.Description)
	fmt.Fprintf(&b, "Reference ID: %s\n", a.ReferenceID)
	fmt.Fprintf(&b, "Profile: %s\n", a.Profile)
	fmt.Fprintf(&b, "Notification Endpoint: %s\n", a.NotificationEndpoint)
	if a.VideoID != "" {
		fmt.Fprintf(&b, "Video ID: %s\n", a.VideoID)
	}
	if a.IngestRequestID != "" {
		fmt.Fprintf(&b, "Ingest Request ID: %s\n", a.IngestRequestID)
	}
	return b.String()
}

func maskSecret(secret string) string {
	if len(secret) <= 4 {
		return strings.Repeat("*", len(secret))
	}
	return secret[:4] + strings.Repeat("*", len(secret)-4)
}
