package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"regexp"
	"strings"

	"lexron-admin/internal/config"

	"github.com/cespare/xxhash/v2"
	"github.com/spf13/afero"
)

var (
	ErrInvalidObjectPath = errors.New("invalid bucket or object path")
	ErrObjectExists      = errors.New("the resource already exists")
	ErrObjectNotFound    = errors.New("object not found")
)

var bucketPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,62}$`)

// StoredObject describes an object after upload
type StoredObject struct {
	Key       string `json:"Key"`
	Size      int64  `json:"size"`
	ETag      string `json:"etag"`
	PublicURL string `json:"public_url"`
}

// StorageService stores uploaded files in buckets and hands out public URLs
type StorageService interface {
	Upload(ctx context.Context, bucket, objectPath string, r io.Reader, upsert bool) (*StoredObject, error)
	Open(bucket, objectPath string) (afero.File, error)
	PublicURL(bucket, objectPath string) string
}

type storageService struct {
	fs      afero.Fs
	baseURL string
}

// NewStorageService creates a StorageService rooted at cfg.Root on disk
func NewStorageService(cfg config.StorageConfig) StorageService {
	return NewStorageServiceWithFs(afero.NewBasePathFs(afero.NewOsFs(), cfg.Root), cfg.PublicBaseURL)
}

// NewStorageServiceWithFs creates a StorageService over an arbitrary filesystem
func NewStorageServiceWithFs(fs afero.Fs, publicBaseURL string) StorageService {
	return &storageService{fs: fs, baseURL: strings.TrimRight(publicBaseURL, "/")}
}

// objectKey validates bucket and objectPath and returns the cleaned key
func objectKey(bucket, objectPath string) (string, error) {
	if !bucketPattern.MatchString(bucket) {
		return "", ErrInvalidObjectPath
	}
	objectPath = strings.TrimPrefix(objectPath, "/")
	if objectPath == "" || strings.HasSuffix(objectPath, "/") {
		return "", ErrInvalidObjectPath
	}
	for _, segment := range strings.Split(objectPath, "/") {
		if segment == "" || segment == "." || segment == ".." {
			return "", ErrInvalidObjectPath
		}
	}
	return path.Join(bucket, objectPath), nil
}

// Upload writes r to bucket/objectPath. Without upsert an existing object is
// left untouched and ErrObjectExists is returned.
func (s *storageService) Upload(ctx context.Context, bucket, objectPath string, r io.Reader, upsert bool) (*StoredObject, error) {
	key, err := objectKey(bucket, objectPath)
	if err != nil {
		return nil, err
	}

	if !upsert {
		exists, err := afero.Exists(s.fs, key)
		if err != nil {
			return nil, fmt.Errorf("failed to stat object: %w", err)
		}
		if exists {
			return nil, ErrObjectExists
		}
	}

	if err := s.fs.MkdirAll(path.Dir(key), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create bucket directory: %w", err)
	}

	f, err := s.fs.OpenFile(key, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to create object: %w", err)
	}
	defer f.Close()

	digest := xxhash.New()
	size, err := io.Copy(io.MultiWriter(f, digest), readerWithContext(ctx, r))
	if err != nil {
		_ = s.fs.Remove(key)
		return nil, fmt.Errorf("failed to write object: %w", err)
	}

	return &StoredObject{
		Key:       key,
		Size:      size,
		ETag:      fmt.Sprintf("%016x", digest.Sum64()),
		PublicURL: s.PublicURL(bucket, objectPath),
	}, nil
}

// Open returns the stored object for reading
func (s *storageService) Open(bucket, objectPath string) (afero.File, error) {
	key, err := objectKey(bucket, objectPath)
	if err != nil {
		return nil, err
	}

	f, err := s.fs.Open(key)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("failed to open object: %w", err)
	}

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		f.Close()
		return nil, ErrObjectNotFound
	}

	return f, nil
}

func (s *storageService) PublicURL(bucket, objectPath string) string {
	return s.baseURL + "/" + bucket + "/" + strings.TrimPrefix(objectPath, "/")
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func readerWithContext(ctx context.Context, r io.Reader) io.Reader {
	return &ctxReader{ctx: ctx, r: r}
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
