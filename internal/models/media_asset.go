package models

import "time"

// MediaAsset references an image or video stored with an upload provider.
type MediaAsset struct {
	ID        int64           `json:"id"`
	Slug      string          `json:"slug"`
	Kind      string          `json:"kind"` // image, video
	Provider  string          `json:"provider,omitempty"`
	URL       string          `json:"url"`
	Alt       LocalizedString `json:"alt_i18n"`
	Caption   LocalizedString `json:"caption_i18n"`
	Tags      []string        `json:"tags,omitempty"`
	SortOrder int64           `json:"sortOrder"`
	IsActive  bool            `json:"isActive"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// UploadItem describes the outcome of a single file upload.
type UploadItem struct {
	URL         string `json:"url"`
	PublicID    string `json:"publicId"`
	Bytes       int64  `json:"bytes"`
	Format      string `json:"format,omitempty"`
	ContentType string `json:"contentType,omitempty"`
	ViewURL     string `json:"view_url,omitempty"`
	DownloadURL string `json:"download_url,omitempty"`
}
