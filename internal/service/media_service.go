package service

import (
	"Buildrs/internal/api/dto"
	"Buildrs/internal/pkg/consts"
	"Buildrs/internal/pkg/util"
	"context"
	"io"
	log "log/slog"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ObjectStorage is satisfied by *minio.Storage.
type ObjectStorage interface {
	UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error)
	GetPublicURL(objectName string) string
}

type MediaService interface {
	Upload(ctx context.Context, userID, filename string, reader io.ReadSeeker, size int64) (*dto.MediaUploadDTO, error)
}

type mediaServiceImpl struct {
	storage ObjectStorage
	now     func() time.Time
}

// NewMediaService accepts a nil storage; uploads then fail with ErrMediaDisabled.
func NewMediaService(storage ObjectStorage) MediaService {
	return &mediaServiceImpl{storage: storage, now: time.Now}
}

func (s *mediaServiceImpl) Upload(ctx context.Context, userID, filename string, reader io.ReadSeeker, size int64) (*dto.MediaUploadDTO, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	if s.storage == nil {
		return nil, ErrMediaDisabled
	}
	if size <= 0 || size > consts.MaxMediaSize {
		return nil, ErrParamInvalid
	}

	contentType, err := util.GetSafeContentType(reader)
	if err != nil {
		return nil, ErrParamInvalid
	}
	if !strings.HasPrefix(contentType, consts.MimePrefixImage) && !strings.HasPrefix(contentType, consts.MimePrefixVideo) {
		return nil, ErrFileNotSupported
	}

	objectName := s.now().UTC().Format("2006/01/02/") + uuid.NewString() + strings.ToLower(path.Ext(filename))
	key, err := s.storage.UploadFile(ctx, objectName, reader, size, contentType)
	if err != nil {
		log.ErrorContext(ctx, "MinIO upload failed", "err", err)
		return nil, UnExpectedError
	}

	return &dto.MediaUploadDTO{
		URL:       s.storage.GetPublicURL(key),
		ObjectKey: key,
		MimeType:  contentType,
		Size:      size,
	}, nil
}
