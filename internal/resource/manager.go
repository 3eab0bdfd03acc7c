// Package resource keeps a local mirror of one backend collection in step
// with the changes an admin makes to it.
package resource

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"lexron-admin/internal/backend"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	ErrValidation      = errors.New("validation failed")
	ErrMutationPending = errors.New("a change to this record is already in progress")
	ErrDegraded        = errors.New("collection unavailable, showing local fallback")
	ErrNoDeleteTarget  = errors.New("no record selected for deletion")
	ErrNotFound        = errors.New("record not found")
)

// Status describes where the items of a Manager came from
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusReady
	// StatusDegraded means the backend could not be read and the items are
	// the seed dataset
	StatusDegraded
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusDegraded:
		return "degraded"
	default:
		return "idle"
	}
}

// Spec describes one collection
type Spec[T any] struct {
	Collection string
	Query      backend.Query
	ID         func(*T) *string
	// Fields lists the editable columns of a record. It never includes the id.
	Fields func(*T) map[string]interface{}
	Seed   []T

	// Required is the alert shown when a draft fails its validate tags
	Required string
	// Check adds rules the tags cannot express. It returns the alert to
	// show, or "" when the draft is fine.
	Check func(*T) string
	// Blank is the draft offered for a new record
	Blank func() T
	// Prepare runs on a valid draft right before it is inserted
	Prepare func(*T)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	return v
}

// describe turns the first failed rule into a sentence
func describe(fe validator.FieldError) string {
	field := strings.ReplaceAll(fe.Field(), "_", " ")
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "oneof":
		return field + " must be one of: " + fe.Param()
	case "gte":
		return field + " must be at least " + fe.Param()
	default:
		return field + " is invalid"
	}
}

var tracer = otel.Tracer("lexron-admin/internal/resource")

// Manager mirrors one collection. All methods are safe for concurrent use;
// mutations against different ids may run at the same time, a second
// mutation against an id already in flight is refused.
type Manager[T any] struct {
	spec   Spec[T]
	table  backend.Table[T]
	logger *zap.Logger

	mu            sync.RWMutex
	items         []T
	status        Status
	pending       map[string]bool
	draft         T
	editing       string
	confirmTarget string
	alert         string
}

// NewManager creates a Manager over table
func NewManager[T any](table backend.Table[T], spec Spec[T], logger *zap.Logger) *Manager[T] {
	m := &Manager[T]{
		spec:    spec,
		table:   table,
		logger:  logger.With(zap.String("collection", spec.Collection)),
		pending: make(map[string]bool),
	}
	m.draft = m.blank()
	return m
}

func (m *Manager[T]) blank() T {
	if m.spec.Blank != nil {
		return m.spec.Blank()
	}
	var zero T
	return zero
}

func (m *Manager[T]) startSpan(ctx context.Context, op, id string) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("resource.collection", m.spec.Collection),
		attribute.String("resource.operation", op),
	}
	if id != "" {
		attrs = append(attrs, attribute.String("resource.id", id))
	}
	return tracer.Start(ctx, "resource."+op, trace.WithAttributes(attrs...))
}

func fail(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// Load replaces the items with the backend collection. When the backend
// cannot be read the seed dataset is shown instead, the status becomes
// StatusDegraded and the returned error wraps ErrDegraded. The items are
// usable either way.
func (m *Manager[T]) Load(ctx context.Context) error {
	ctx, span := m.startSpan(ctx, "load", "")
	defer span.End()

	m.mu.Lock()
	m.status = StatusLoading
	m.mu.Unlock()

	rows, err := m.table.Select(ctx, m.spec.Query)

	m.mu.Lock()
	defer m.mu.Unlock()

	if err != nil {
		fail(span, err)
		m.logger.Warn("Falling back to seed data", zap.Error(err))
		m.items = append([]T{}, m.spec.Seed...)
		m.status = StatusDegraded
		m.alert = fmt.Sprintf("Using local fallback for %s.", m.spec.Collection)
		return fmt.Errorf("%w: %s: %w", ErrDegraded, m.spec.Collection, err)
	}

	if rows == nil {
		rows = []T{}
	}
	m.items = rows
	m.status = StatusReady
	m.alert = ""
	span.SetAttributes(attribute.Int("resource.count", len(rows)))
	return nil
}

// Loader is anything that can be loaded alongside other collections
type Loader interface {
	Load(ctx context.Context) error
}

// LoadAll loads every collection concurrently. Each one falls back on its
// own; the first error is returned once all have settled.
func LoadAll(ctx context.Context, loaders ...Loader) error {
	var g errgroup.Group
	for _, l := range loaders {
		g.Go(func() error {
			return l.Load(ctx)
		})
	}
	return g.Wait()
}

// check returns the alert for an invalid draft, or "" when it is valid
func (m *Manager[T]) check(draft *T) string {
	if err := validate.Struct(draft); err != nil {
		if m.spec.Required != "" {
			return m.spec.Required
		}
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return describe(fieldErrs[0])
		}
		return err.Error()
	}
	if m.spec.Check != nil {
		return m.spec.Check(draft)
	}
	return ""
}

func (m *Manager[T]) reject(message string) error {
	m.mu.Lock()
	m.alert = message
	m.mu.Unlock()
	m.logger.Debug("Draft rejected", zap.String("reason", message))
	return fmt.Errorf("%w: %s", ErrValidation, message)
}

// Create validates draft and inserts it. The record is added to the items
// only once the backend has echoed it back, carrying the id the backend
// assigned. Invalid drafts never reach the backend.
func (m *Manager[T]) Create(ctx context.Context, draft T) (T, error) {
	var zero T
	if msg := m.check(&draft); msg != "" {
		return zero, m.reject(msg)
	}
	if !m.begin(newRecord) {
		return zero, ErrMutationPending
	}
	if m.spec.Prepare != nil {
		m.spec.Prepare(&draft)
	}

	ctx, span := m.startSpan(ctx, "create", "")
	defer span.End()

	created, err := m.table.Insert(ctx, draft)

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pending, newRecord)

	if err != nil {
		fail(span, err)
		m.alert = "Failed to save: " + backend.Message(err)
		m.logger.Error("Create failed", zap.Error(err))
		return zero, err
	}

	m.items = append(m.items, created)
	m.draft = m.blank()
	m.editing = ""
	m.alert = ""
	m.logger.Info("Record created", zap.String("id", *m.spec.ID(&created)))
	return created, nil
}

// newRecord is the pending key of an insert that has no id yet
const newRecord = ""

func (m *Manager[T]) begin(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pending[id] {
		return false
	}
	m.pending[id] = true
	return true
}

func (m *Manager[T]) indexOf(id string) int {
	for i := range m.items {
		if *m.spec.ID(&m.items[i]) == id {
			return i
		}
	}
	return -1
}

// Update validates draft and sends its editable fields for id. On success
// the local record is replaced by draft without reading it back; on
// failure the items are left as they were.
func (m *Manager[T]) Update(ctx context.Context, id string, draft T) error {
	if msg := m.check(&draft); msg != "" {
		return m.reject(msg)
	}
	if !m.begin(id) {
		return ErrMutationPending
	}

	ctx, span := m.startSpan(ctx, "update", id)
	defer span.End()

	err := m.table.Update(ctx, id, m.spec.Fields(&draft))

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pending, id)

	if err != nil {
		fail(span, err)
		m.alert = "Update failed: " + backend.Message(err)
		m.logger.Error("Update failed", zap.String("id", id), zap.Error(err))
		return err
	}

	*m.spec.ID(&draft) = id
	if i := m.indexOf(id); i >= 0 {
		m.items[i] = draft
	}
	m.draft = m.blank()
	m.editing = ""
	m.alert = ""
	m.logger.Info("Record updated", zap.String("id", id))
	return nil
}

// UpdateFields changes a few columns of id without going through the
// draft. apply makes the same change to the local copy. While the items are
// seed data the change is made locally only.
func (m *Manager[T]) UpdateFields(ctx context.Context, id string, fields map[string]interface{}, apply func(*T)) error {
	if !m.begin(id) {
		return ErrMutationPending
	}

	m.mu.RLock()
	degraded := m.status == StatusDegraded
	m.mu.RUnlock()

	var err error
	if !degraded {
		var span trace.Span
		ctx, span = m.startSpan(ctx, "update", id)
		if err = m.table.Update(ctx, id, fields); err != nil {
			fail(span, err)
		}
		span.End()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pending, id)

	if err != nil {
		m.alert = "Update failed: " + backend.Message(err)
		m.logger.Error("Update failed", zap.String("id", id), zap.Error(err))
		return err
	}

	i := m.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	apply(&m.items[i])
	return nil
}

// RequestDelete asks for confirmation before id is deleted
func (m *Manager[T]) RequestDelete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.confirmTarget = id
}

// CancelDelete drops the pending confirmation
func (m *Manager[T]) CancelDelete() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.confirmTarget = ""
}

// ConfirmTarget is the id awaiting delete confirmation, or ""
func (m *Manager[T]) ConfirmTarget() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.confirmTarget
}

// ConfirmDelete deletes the confirmed record. It is removed from the items
// only after the backend accepted the delete. The confirmation is cleared
// whatever the outcome.
func (m *Manager[T]) ConfirmDelete(ctx context.Context) error {
	m.mu.Lock()
	id := m.confirmTarget
	m.confirmTarget = ""
	switch {
	case id == "":
		m.mu.Unlock()
		return ErrNoDeleteTarget
	case m.pending[id]:
		m.mu.Unlock()
		return ErrMutationPending
	}
	m.pending[id] = true
	m.mu.Unlock()

	ctx, span := m.startSpan(ctx, "delete", id)
	defer span.End()

	err := m.table.Delete(ctx, id)

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pending, id)

	if err != nil {
		fail(span, err)
		m.alert = "Delete failed: " + backend.Message(err)
		m.logger.Error("Delete failed", zap.String("id", id), zap.Error(err))
		return err
	}

	if i := m.indexOf(id); i >= 0 {
		m.items = append(m.items[:i:i], m.items[i+1:]...)
	}
	m.alert = ""
	m.logger.Info("Record deleted", zap.String("id", id))
	return nil
}
