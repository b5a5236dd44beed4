package storage

import (
	"context"
	"fmt"
	"io"
)

// Storage abstracts where proof images live (local disk or Cloudflare R2).
type Storage interface {
	Save(ctx context.Context, path string, reader io.Reader, contentType string) error
	Get(ctx context.Context, path string) (io.ReadCloser, error)
	Delete(ctx context.Context, path string) error
	GetURL(path string) string
}

type Config struct {
	Type      string // local, cloudflare_r2
	BasePath  string // для local
	BaseURL   string // публичная база URL
	Bucket    string // для R2
	AccessKey string
	SecretKey string
	Endpoint  string
}

func NewStorage(cfg Config) (Storage, error) {
	switch cfg.Type {
	case "local", "":
		return NewLocalStorage(cfg)
	case "cloudflare_r2":
		return NewCloudflareR2Storage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
