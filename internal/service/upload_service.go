package service

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"brokerage/internal/models"
	"brokerage/internal/observability"
	"brokerage/internal/storage"

	"github.com/google/uuid"
)

const (
	DefaultUploadBucket      = "media"
	DefaultUploadFolder      = "uploads"
	DefaultUploadMaxSizeMB   = 10
	maxUploadPathSegmentSize = 64
)

// imageContentTypes maps every accepted extension to the stored content type.
var imageContentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".avif": "image/avif",
}

var pathSegmentPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

type UploadInput struct {
	Filename string
	Content  []byte
	Folder   string
	Bucket   string
}

type UploadResult struct {
	URL  string `json:"url"`
	Path string `json:"path"`
}

type UploadService struct {
	store        storage.ObjectStore
	maxSizeBytes int64
	now          func() time.Time
	suffix       func() string
}

func NewUploadService(store storage.ObjectStore, maxSizeMB int) *UploadService {
	if maxSizeMB <= 0 {
		maxSizeMB = DefaultUploadMaxSizeMB
	}
	return &UploadService{
		store:        store,
		maxSizeBytes: int64(maxSizeMB) * 1024 * 1024,
		now:          time.Now,
		suffix:       randomSuffix,
	}
}

func randomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// ContentTypeFor returns the content type for filename's extension, ignoring case.
func ContentTypeFor(filename string) (string, bool) {
	ct, ok := imageContentTypes[strings.ToLower(filepath.Ext(filename))]
	return ct, ok
}

// validPath accepts one or more slash-separated lower-case segments.
func validPath(p string) bool {
	if p == "" {
		return false
	}
	for _, seg := range strings.Split(p, "/") {
		if len(seg) > maxUploadPathSegmentSize || !pathSegmentPattern.MatchString(seg) {
			return false
		}
	}
	return true
}

// Upload checks the file and writes it as {folder}/{generated name} in bucket.
// Every check runs before anything is written.
func (s *UploadService) Upload(ctx context.Context, in UploadInput) (_ *UploadResult, err error) {
	ctx, done := observe(ctx, EntityUpload, OpUpload)
	defer func() {
		observability.RecordUpload(err)
		done(err)
	}()

	if len(in.Content) == 0 {
		return nil, models.NewValidationError("No file uploaded")
	}
	if int64(len(in.Content)) > s.maxSizeBytes {
		return nil, models.NewValidationError(fmt.Sprintf("File too large (max %d MB)", s.maxSizeBytes/(1024*1024)))
	}

	ext := strings.ToLower(filepath.Ext(in.Filename))
	contentType, ok := imageContentTypes[ext]
	if !ok {
		return nil, models.NewValidationError("Unsupported file type. Allowed: .jpg, .jpeg, .png, .gif, .webp, .avif")
	}

	bucket := strings.TrimSpace(in.Bucket)
	if bucket == "" {
		bucket = DefaultUploadBucket
	}
	folder := strings.Trim(strings.TrimSpace(in.Folder), "/")
	if folder == "" {
		folder = DefaultUploadFolder
	}
	fields := map[string]string{}
	if !validPath(bucket) || strings.Contains(bucket, "/") {
		fields["bucket"] = "must contain only lower-case letters, digits, '-' and '_'"
	}
	if !validPath(folder) {
		fields["folder"] = "must contain only lower-case letters, digits, '-', '_' and '/'"
	}
	if len(fields) > 0 {
		return nil, models.NewFieldValidationError(fields)
	}

	name := fmt.Sprintf("%d-%s%s", s.now().UnixMilli(), s.suffix(), ext)
	key := folder + "/" + name

	url, err := s.store.Put(ctx, storage.Object{
		Bucket:      bucket,
		Key:         key,
		ContentType: contentType,
		Size:        int64(len(in.Content)),
		Body:        bytes.NewReader(in.Content),
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	return &UploadResult{URL: url, Path: bucket + "/" + key}, nil
}
