package service

import (
	"context"
	"path/filepath"
	"strings"
	"unicode"

	"achihouse/internal/domain"
	"achihouse/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

type ContentService struct {
	repo     domain.Repository
	provider domain.UploadProvider
	maxBytes int64
	logger   *zerolog.Logger
}

func NewContentService(repo domain.Repository, provider domain.UploadProvider, maxBytes int64, logger *zerolog.Logger) *ContentService {
	return &ContentService{
		repo:     repo,
		provider: provider,
		maxBytes: maxBytes,
		logger:   logger,
	}
}

func (s *ContentService) CreateTestimonial(ctx context.Context, t *models.Testimonial) error {
	if err := normalizeTestimonial(t); err != nil {
		return err
	}
	return s.repo.CreateTestimonial(ctx, t)
}

func (s *ContentService) GetTestimonial(ctx context.Context, id int64) (*models.Testimonial, error) {
	return s.repo.GetTestimonial(ctx, id)
}

func (s *ContentService) ListTestimonials(ctx context.Context, page, limit int, activeOnly bool) ([]models.Testimonial, int, error) {
	return s.repo.ListTestimonials(ctx, page, limit, activeOnly)
}

func (s *ContentService) UpdateTestimonial(ctx context.Context, t *models.Testimonial) error {
	if err := normalizeTestimonial(t); err != nil {
		return err
	}
	return s.repo.UpdateTestimonial(ctx, t)
}

func (s *ContentService) DeleteTestimonial(ctx context.Context, id int64) error {
	return s.repo.DeleteTestimonial(ctx, id)
}

func (s *ContentService) CreateMediaAsset(ctx context.Context, a *models.MediaAsset) error {
	normalizeMediaAsset(a)
	return s.repo.CreateMediaAsset(ctx, a)
}

func (s *ContentService) GetMediaAsset(ctx context.Context, id int64) (*models.MediaAsset, error) {
	return s.repo.GetMediaAsset(ctx, id)
}

func (s *ContentService) ListMediaAssets(ctx context.Context, page, limit int, activeOnly bool) ([]models.MediaAsset, int, error) {
	return s.repo.ListMediaAssets(ctx, page, limit, activeOnly)
}

func (s *ContentService) UpdateMediaAsset(ctx context.Context, a *models.MediaAsset) error {
	normalizeMediaAsset(a)
	return s.repo.UpdateMediaAsset(ctx, a)
}

func (s *ContentService) DeleteMediaAsset(ctx context.Context, id int64) error {
	return s.repo.DeleteMediaAsset(ctx, id)
}

// UploadFile stores a raw file with the configured provider after
// enforcing the size limit.
func (s *ContentService) UploadFile(ctx context.Context, filename, contentType string, data []byte) (*models.UploadItem, error) {
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return nil, ErrUploadTooLarge
	}
	return s.provider.Upload(ctx, filename, contentType, data)
}

// CreateMediaAssetFromUpload registers an uploaded file as a media asset.
// The slug is derived from the stored public ID so repeated uploads of
// the same file never collide.
func (s *ContentService) CreateMediaAssetFromUpload(ctx context.Context, item *models.UploadItem, alt models.LocalizedString) (*models.MediaAsset, error) {
	base := strings.TrimSuffix(filepath.Base(item.PublicID), filepath.Ext(item.PublicID))
	slugBase := Slugify(base)
	if slugBase == "" {
		slugBase = "asset"
	}

	asset := &models.MediaAsset{
		Slug:     slugBase + "-" + shortSuffix(),
		Kind:     kindFromFormat(item.Format),
		Provider: "upload",
		URL:      item.URL,
		Alt:      alt,
		IsActive: true,
	}
	if err := s.CreateMediaAsset(ctx, asset); err != nil {
		return nil, err
	}
	return asset, nil
}

func normalizeTestimonial(t *models.Testimonial) error {
	var ok bool
	if t.Quote, ok = t.Quote.Clean(); !ok {
		return ErrEmptyQuote
	}
	t.AuthorRole, _ = t.AuthorRole.Clean()
	t.AuthorName = strings.TrimSpace(t.AuthorName)

	if t.Rating < 1 || t.Rating > 5 {
		return ErrInvalidRating
	}

	if t.Slug = strings.TrimSpace(t.Slug); t.Slug == "" {
		t.Slug = Slugify(t.AuthorName)
		if t.Slug == "" {
			t.Slug = "testimonial"
		}
		t.Slug += "-" + shortSuffix()
	} else {
		t.Slug = Slugify(t.Slug)
	}
	return nil
}

func normalizeMediaAsset(a *models.MediaAsset) {
	a.Slug = Slugify(strings.TrimSpace(a.Slug))
	a.Alt, _ = a.Alt.Clean()
	a.Caption, _ = a.Caption.Clean()
	if a.Kind == "" {
		a.Kind = "image"
	}
}

var diacriticStripper = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Slugify lowercases, strips diacritics (Vietnamese copy is full of
// them) and collapses everything else to single hyphens.
func Slugify(value string) string {
	stripped, _, err := transform.String(diacriticStripper, value)
	if err != nil {
		stripped = value
	}
	// đ survives NFD decomposition; it is a letter of its own.
	stripped = strings.NewReplacer("đ", "d", "Đ", "d").Replace(stripped)
	stripped = strings.ToLower(stripped)

	var b strings.Builder
	lastHyphen := true
	for _, r := range stripped {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

func shortSuffix() string {
	return uuid.New().String()[:8]
}

var videoFormats = map[string]bool{
	"mp4": true, "webm": true, "mov": true, "avi": true, "mkv": true,
}

func kindFromFormat(format string) string {
	if videoFormats[strings.ToLower(format)] {
		return "video"
	}
	return "image"
}
