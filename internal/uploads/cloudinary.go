package uploads

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"achihouse/internal/config"
	"achihouse/internal/models"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CloudinaryProvider pushes uploads to Cloudinary for CDN delivery.
type CloudinaryProvider struct {
	client *cloudinary.Cloudinary
	folder string
	logger zerolog.Logger
}

func NewCloudinaryProvider(cfg config.CloudinaryConfig, logger *zerolog.Logger) (*CloudinaryProvider, error) {
	client, err := cloudinary.NewFromURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("cloudinary init: %w", err)
	}
	return &CloudinaryProvider{
		client: client,
		folder: cfg.Folder,
		logger: logger.With().Str("component", "cloudinary_uploads").Logger(),
	}, nil
}

func (p *CloudinaryProvider) Upload(ctx context.Context, filename, contentType string, data []byte) (*models.UploadItem, error) {
	publicID := uuid.New().String()
	if p.folder != "" {
		publicID = p.folder + "/" + publicID
	}

	resp, err := p.client.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		PublicID: publicID,
	})
	if err != nil {
		return nil, fmt.Errorf("cloudinary upload: %w", err)
	}

	p.logger.Info().Str("public_id", resp.PublicID).Int("bytes", resp.Bytes).Msg("File stored")

	format := resp.Format
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	}

	return &models.UploadItem{
		URL:         resp.SecureURL,
		PublicID:    resp.PublicID,
		Bytes:       int64(resp.Bytes),
		Format:      format,
		ContentType: contentType,
	}, nil
}
