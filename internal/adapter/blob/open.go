package blob

import (
	"context"
	"fmt"

	"github.com/simaogato/stockcal-backend/internal/config"
)

// Open builds the store selected by cfg.Driver
func Open(ctx context.Context, cfg config.ExportConfig) (Store, error) {
	switch cfg.Driver {
	case config.ExportFS:
		return NewFS(cfg.Dir)
	case config.ExportS3:
		return NewS3(ctx, S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			Prefix:          cfg.S3Prefix,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			UsePathStyle:    cfg.S3UsePathStyle,
		})
	}
	return nil, fmt.Errorf("unsupported export driver %q", cfg.Driver)
}
