package manifest

import (
	"encoding/xml"
	"strings"

	"uplink/internal/services"
)

// Manifest is one parsed manifest document plus the raw text it came from.
// The raw text is carried along so notification emails can quote the exact
// document the submitter uploaded.
type Manifest struct {
	Name   string
	Email  string
	Assets []Asset
	Raw    string
}

// The nine asset fields are extracted declaratively through nested xml tags;
// any element missing from the document simply decodes to the empty string.
type assetElement struct {
	FileName             string `xml:"FileName"`
	ClientID             string `xml:"Credentials>ClientID"`
	ClientSecret         string `xml:"Credentials>ClientSecret"`
	AccountID            string `xml:"Credentials>AccountID"`
	Title                string `xml:"VideoCloudAsset>Title"`
	Description          string `xml:"VideoCloudAsset>ShortDescription"`
	ReferenceID          string `xml:"VideoCloudAsset>ReferenceID"`
	Profile              string `xml:"Profile"`
	NotificationEndpoint string `xml:"NotificationEndpoint"`
}

type document struct {
	Email  string         `xml:"Email"`
	Assets []assetElement `xml:"Asset"`
}

// Parse decodes a manifest document. A document that is not well-formed XML
// fails as a whole with a services.ErrParse error; missing fields inside a
// well-formed document never do.
func Parse(name, raw string) (*Manifest, error) {
	var doc document
	if err := xml.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, services.Wrap(services.ErrParse, "manifest", "parse", name, err)
	}

	m := &Manifest{
		Name:   name,
		Email:  strings.TrimSpace(doc.Email),
		Assets: make([]Asset, 0, len(doc.Assets)),
		Raw:    raw,
	}
	for _, el := range doc.Assets {
		m.Assets = append(m.Assets, Asset{
			FileName:             strings.TrimSpace(el.FileName),
			ClientID:             strings.TrimSpace(el.ClientID),
			ClientSecret:         strings.TrimSpace(el.ClientSecret),
			AccountID:            strings.TrimSpace(el.AccountID),
			Title:                strings.TrimSpace(el.Title),
			Description:          strings.TrimSpace(el.Description),
			ReferenceID:          strings.TrimSpace(el.ReferenceID),
			Profile:              strings.TrimSpace(el.Profile),
			NotificationEndpoint: strings.TrimSpace(el.NotificationEndpoint),
		})
	}
	return m, nil
}

// IsManifest reports whether an object key should be treated as a manifest.
func IsManifest(key, suffix string) bool {
	if suffix == "" {
		suffix = ".xml"
	}
	return strings.HasSuffix(key, suffix)
}
