package console

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"lexron-admin/internal/backend"
	"lexron-admin/internal/domain"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"
)

const (
	LogoBucket  = "brands"
	MaxLogoSize = 5 << 20
)

// LogoPath names a logo after its content, so re-uploading the same file
// lands on the same object
func LogoPath(filename string, content []byte) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
	if ext == "" {
		ext = "bin"
	}
	return fmt.Sprintf("logos/%016x.%s", xxhash.Sum64(content), ext)
}

// UploadLogo stores a logo file and puts its public URL on the brand draft
func (s *BrandsScreen) UploadLogo(ctx context.Context, filename string, r io.Reader) (string, error) {
	s.mu.Lock()
	s.uploading = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.uploading = false
		s.mu.Unlock()
	}()

	content, err := io.ReadAll(io.LimitReader(r, MaxLogoSize+1))
	if err != nil {
		s.Brands.SetAlert("Upload failed: " + err.Error())
		return "", fmt.Errorf("failed to read logo: %w", err)
	}
	if len(content) > MaxLogoSize {
		s.Brands.SetAlert("Upload failed: the logo is larger than 5 MB.")
		return "", fmt.Errorf("logo %s exceeds %d bytes", filename, MaxLogoSize)
	}

	objectPath := LogoPath(filename, content)
	if _, err := s.storage.Upload(ctx, LogoBucket, objectPath, bytes.NewReader(content), true); err != nil {
		s.logger.Error("Logo upload failed", zap.String("path", objectPath), zap.Error(err))
		s.Brands.SetAlert(fmt.Sprintf("Upload failed: %s. Make sure the '%s' bucket exists and is public.", backend.Message(err), LogoBucket))
		return "", err
	}

	url := s.storage.PublicURL(LogoBucket, objectPath)
	s.Brands.EditDraft(func(b *domain.Brand) { b.LogoURL = &url })
	s.logger.Info("Logo uploaded", zap.String("path", objectPath))
	return url, nil
}
