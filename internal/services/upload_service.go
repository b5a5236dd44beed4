package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"rupeestream_backend/internal/config"
	"rupeestream_backend/internal/services/dto"
	"rupeestream_backend/internal/storage"
	"rupeestream_backend/pkg/apperrors"
)

// UploadService - загрузка пруф-изображений к выполнениям заданий.
type UploadService interface {
	UploadProofs(ctx context.Context, userID string, files []*multipart.FileHeader) (*dto.UploadResponse, error)
	GetFile(ctx context.Context, path string) ([]byte, string, error)
}

type UploadServiceImpl struct {
	storage storage.Storage
	cfg     *config.Config
}

func NewUploadService(store storage.Storage, cfg *config.Config) UploadService {
	return &UploadServiceImpl{
		storage: store,
		cfg:     cfg,
	}
}

func (s *UploadServiceImpl) UploadProofs(ctx context.Context, userID string, files []*multipart.FileHeader) (*dto.UploadResponse, error) {
	if len(files) == 0 {
		return nil, apperrors.NewBadRequestError("no files provided")
	}
	if len(files) > 6 {
		return nil, apperrors.NewBadRequestError("too many files, maximum is 6")
	}

	paths := make([]string, 0, len(files))
	for _, header := range files {
		path, err := s.saveOne(ctx, userID, header)
		if err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}

	return &dto.UploadResponse{Paths: paths}, nil
}

func (s *UploadServiceImpl) saveOne(ctx context.Context, userID string, header *multipart.FileHeader) (string, error) {
	if header.Size > s.cfg.Upload.MaxSize {
		return "", apperrors.NewBadRequestError(
			fmt.Sprintf("file %s exceeds the %d byte limit", header.Filename, s.cfg.Upload.MaxSize))
	}

	contentType := header.Header.Get("Content-Type")
	if !s.isAllowedType(contentType) {
		return "", apperrors.NewBadRequestError(
			fmt.Sprintf("file type %s is not allowed", contentType))
	}

	file, err := header.Open()
	if err != nil {
		return "", apperrors.InternalError(err)
	}
	defer file.Close()

	suffix := make([]byte, 8)
	if _, err := rand.Read(suffix); err != nil {
		return "", apperrors.InternalError(err)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	path := fmt.Sprintf("proofs/%s/%d_%s%s",
		userID, time.Now().Unix(), hex.EncodeToString(suffix), ext)

	if err := s.storage.Save(ctx, path, file, contentType); err != nil {
		return "", apperrors.InternalError(err)
	}
	return path, nil
}

func (s *UploadServiceImpl) GetFile(ctx context.Context, path string) ([]byte, string, error) {
	reader, err := s.storage.Get(ctx, path)
	if err != nil {
		return nil, "", apperrors.ErrNotFound(err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, "", apperrors.InternalError(err)
	}

	contentType := "application/octet-stream"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		contentType = "image/jpeg"
	case ".png":
		contentType = "image/png"
	case ".webp":
		contentType = "image/webp"
	}
	return data, contentType, nil
}

func (s *UploadServiceImpl) isAllowedType(contentType string) bool {
	for _, allowed := range s.cfg.Upload.AllowedTypes {
		if allowed == contentType {
			return true
		}
	}
	return false
}
