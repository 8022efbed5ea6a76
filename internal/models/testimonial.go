package models

import "time"

// Testimonial is a guest review shown on the public site and managed
// through the admin console.
type Testimonial struct {
	ID             int64           `json:"id"`
	Slug           string          `json:"slug"`
	Quote          LocalizedString `json:"quote_i18n"`
	Rating         int             `json:"rating"`
	AuthorName     string          `json:"authorName"`
	AuthorRole     LocalizedString `json:"authorRole_i18n"`
	AvatarInitials string          `json:"avatarInitials,omitempty"`
	AvatarAssetID  int64           `json:"avatarAssetId,omitempty"`
	MediaAssetIDs  []int64         `json:"mediaAssetIds,omitempty"`
	Source         string          `json:"source,omitempty"`
	IsFeatured     bool            `json:"isFeatured"`
	IsActive       bool            `json:"isActive"`
	SortOrder      int64           `json:"sortOrder"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}
