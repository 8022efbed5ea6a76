package uploads

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"achihouse/internal/config"
	"achihouse/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// LocalProvider writes uploads to a directory served as static files.
type LocalProvider struct {
	dir     string
	baseURL string
	logger  zerolog.Logger
}

func NewLocalProvider(cfg config.LocalUploadsConfig, logger *zerolog.Logger) (*LocalProvider, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &LocalProvider{
		dir:     cfg.Dir,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		logger:  logger.With().Str("component", "local_uploads").Logger(),
	}, nil
}

func (p *LocalProvider) Upload(ctx context.Context, filename, contentType string, data []byte) (*models.UploadItem, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	publicID := uuid.New().String()

	path := filepath.Join(p.dir, publicID+ext)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("write upload: %w", err)
	}

	p.logger.Info().Str("file", path).Int("bytes", len(data)).Msg("File stored")

	return &models.UploadItem{
		URL:         p.baseURL + "/" + publicID + ext,
		PublicID:    publicID,
		Bytes:       int64(len(data)),
		Format:      strings.TrimPrefix(ext, "."),
		ContentType: contentType,
	}, nil
}
