package storage

import (
	"context"
	"fmt"

	"github.com/bookvoice/bookvoice/internal/config"
)

// NewAdapter creates a storage adapter from configuration, resolving
// ${ENV_VAR} references in credentials.
func NewAdapter(ctx context.Context, cfg config.StorageCfg) (Adapter, error) {
	switch cfg.Type {
	case "local":
		return NewLocal(cfg.Local.Dir)
	case "s3":
		return NewS3(ctx, S3Options{
			Bucket:       cfg.S3.Bucket,
			Region:       cfg.S3.Region,
			Prefix:       cfg.S3.Prefix,
			Endpoint:     cfg.S3.Endpoint,
			AccessKey:    config.ResolveEnvVars(cfg.S3.AccessKey),
			SecretKey:    config.ResolveEnvVars(cfg.S3.SecretKey),
			UsePathStyle: cfg.S3.UsePathStyle,
		})
	default:
		return nil, fmt.Errorf("unknown storage type: %q", cfg.Type)
	}
}
