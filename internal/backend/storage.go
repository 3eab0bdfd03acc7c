package backend

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"
	"strconv"
)

// HTTPStorage uploads objects through the API's /storage/v1 endpoints
type HTTPStorage struct {
	client *Client
}

// Storage returns the object store of c
func (c *Client) Storage() *HTTPStorage {
	return &HTTPStorage{client: c}
}

func (s *HTTPStorage) Upload(ctx context.Context, bucket, objectPath string, r io.Reader, upsert bool) (string, error) {
	contentType := mime.TypeByExtension(path.Ext(objectPath))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	var stored struct {
		Key string `json:"Key"`
	}
	err := s.client.do(ctx, request{
		method: http.MethodPost,
		path:   "/storage/v1/object/" + bucket + "/" + objectPath,
		body:   r,
		headers: map[string]string{
			"Content-Type": contentType,
			"x-upsert":     strconv.FormatBool(upsert),
		},
	}, &stored)
	if err != nil {
		return "", fmt.Errorf("upload %s/%s: %w", bucket, objectPath, err)
	}
	return stored.Key, nil
}

// PublicURL is where bucket/objectPath can be fetched without credentials
func (s *HTTPStorage) PublicURL(bucket, objectPath string) string {
	return s.client.baseURL + "/storage/v1/object/public/" + bucket + "/" + objectPath
}
