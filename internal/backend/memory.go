package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryTable is a Table kept in process. Rows are copied in and out so
// callers never share state with the table. Setting Err makes every call
// fail with it, which stands in for an unreachable backend.
type MemoryTable[T any] struct {
	mu    sync.Mutex
	id    func(*T) *string
	rows  []T
	calls int

	Err error
}

// NewMemoryTable creates a table holding rows. id points at a row's
// identifier.
func NewMemoryTable[T any](id func(*T) *string, rows ...T) *MemoryTable[T] {
	return &MemoryTable[T]{id: id, rows: append([]T(nil), rows...)}
}

// Calls reports how many operations reached the table
func (t *MemoryTable[T]) Calls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.calls
}

// Rows returns a copy of the stored rows
func (t *MemoryTable[T]) Rows() []T {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]T(nil), t.rows...)
}

func (t *MemoryTable[T]) enter() error {
	t.calls++
	return t.Err
}

func (t *MemoryTable[T]) Select(_ context.Context, q Query) ([]T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.enter(); err != nil {
		return nil, err
	}

	out := make([]T, 0, len(t.rows))
	for _, row := range t.rows {
		fields, err := toFields(row)
		if err != nil {
			return nil, err
		}
		if matches(fields, q.Filters) {
			out = append(out, row)
		}
	}

	if q.Order != "" {
		sort.SliceStable(out, func(i, j int) bool {
			a, _ := toFields(out[i])
			b, _ := toFields(out[j])
			x, y := fmt.Sprint(a[q.Order]), fmt.Sprint(b[q.Order])
			if q.Desc {
				return x > y
			}
			return x < y
		})
	}
	return out, nil
}

func (t *MemoryTable[T]) Insert(_ context.Context, record T) (T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	var zero T
	if err := t.enter(); err != nil {
		return zero, err
	}

	id := t.id(&record)
	if *id == "" {
		*id = uuid.NewString()
	}
	if t.indexOf(*id) >= 0 {
		return zero, &Error{Status: http.StatusConflict, Message: "record with this key already exists"}
	}

	t.rows = append(t.rows, record)
	return record, nil
}

func (t *MemoryTable[T]) Update(_ context.Context, id string, fields map[string]interface{}) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.enter(); err != nil {
		return err
	}

	i := t.indexOf(id)
	if i < 0 {
		return &Error{Status: http.StatusNotFound, Message: "record not found"}
	}

	current, err := toFields(t.rows[i])
	if err != nil {
		return err
	}
	for k, v := range fields {
		current[k] = v
	}

	var updated T
	if err := fromFields(current, &updated); err != nil {
		return err
	}
	*t.id(&updated) = id
	t.rows[i] = updated
	return nil
}

func (t *MemoryTable[T]) Delete(_ context.Context, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.enter(); err != nil {
		return err
	}

	i := t.indexOf(id)
	if i < 0 {
		return &Error{Status: http.StatusNotFound, Message: "record not found"}
	}
	t.rows = append(t.rows[:i], t.rows[i+1:]...)
	return nil
}

func (t *MemoryTable[T]) indexOf(id string) int {
	for i := range t.rows {
		if *t.id(&t.rows[i]) == id {
			return i
		}
	}
	return -1
}

// toFields views a row the way it travels over the wire
func toFields(row interface{}) (map[string]interface{}, error) {
	raw, err := json.Marshal(row)
	if err != nil {
		return nil, fmt.Errorf("failed to encode row: %w", err)
	}
	fields := make(map[string]interface{})
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("failed to decode row: %w", err)
	}
	return fields, nil
}

func fromFields(fields map[string]interface{}, out interface{}) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to encode row: %w", err)
	}
	return json.Unmarshal(raw, out)
}

func matches(fields map[string]interface{}, filters map[string]string) bool {
	for col, want := range filters {
		if fmt.Sprint(fields[col]) != want {
			return false
		}
	}
	return true
}
