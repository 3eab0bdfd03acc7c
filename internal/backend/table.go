package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// HTTPTable is a Table served by the API's /rest/v1 endpoints
type HTTPTable[T any] struct {
	client *Client
	name   string
}

// From returns the table called name
func From[T any](c *Client, name string) *HTTPTable[T] {
	return &HTTPTable[T]{client: c, name: name}
}

func (t *HTTPTable[T]) path(id string) string {
	p := "/rest/v1/" + t.name
	if id != "" {
		p += "/" + url.PathEscape(id)
	}
	return p
}

func (t *HTTPTable[T]) Select(ctx context.Context, q Query) ([]T, error) {
	values := url.Values{}
	if q.Order != "" {
		dir := "asc"
		if q.Desc {
			dir = "desc"
		}
		values.Set("order", q.Order+"."+dir)
	}
	for col, v := range q.Filters {
		values.Set(col, "eq."+v)
	}

	p := t.path("")
	if len(values) > 0 {
		p += "?" + values.Encode()
	}

	var rows []T
	if err := t.client.do(ctx, request{method: http.MethodGet, path: p}, &rows); err != nil {
		return nil, fmt.Errorf("select %s: %w", t.name, err)
	}
	return rows, nil
}

func (t *HTTPTable[T]) Insert(ctx context.Context, record T) (T, error) {
	var stored T
	err := t.client.do(ctx, request{
		method:  http.MethodPost,
		path:    t.path(""),
		json:    record,
		headers: map[string]string{"Prefer": "return=representation"},
	}, &stored)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("insert into %s: %w", t.name, err)
	}
	return stored, nil
}

func (t *HTTPTable[T]) Update(ctx context.Context, id string, fields map[string]interface{}) error {
	if err := t.client.do(ctx, request{method: http.MethodPatch, path: t.path(id), json: fields}, nil); err != nil {
		return fmt.Errorf("update %s: %w", t.name, err)
	}
	return nil
}

func (t *HTTPTable[T]) Delete(ctx context.Context, id string) error {
	if err := t.client.do(ctx, request{method: http.MethodDelete, path: t.path(id)}, nil); err != nil {
		return fmt.Errorf("delete from %s: %w", t.name, err)
	}
	return nil
}
