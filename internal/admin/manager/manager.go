// Package manager drives the list screens of the admin: load the list, open
// a create or edit modal, submit it, upload an image into it, delete with
// confirmation and, for messages, mark a message read when it is selected.
//
// Every mutation is followed by a full re-fetch of the list; the manager
// never merges local and server state.
package manager

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/libyanfood/site/internal/admin/apiclient"
	"github.com/libyanfood/site/internal/admin/schema"
	"github.com/libyanfood/site/internal/models"
)

var (
	ErrNoModal         = errors.New("no modal is open")
	ErrImageAlreadySet = errors.New("an image is already set; clear it first")
	ErrNoImageField    = errors.New("this form has no image field")
	ErrBusy            = errors.New("a submit is already in progress")
)

// Client is the CRUD surface of one collection. *resource.Client satisfies it.
type Client[T models.Resource] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, draft map[string]any) (*T, error)
	Update(ctx context.Context, id uint, draft map[string]any) (*T, error)
	Delete(ctx context.Context, id uint) error
}

type Uploader interface {
	Upload(ctx context.Context, filename string, r io.Reader) (*apiclient.UploadResult, error)
}

// ConfirmFunc asks the user to confirm a destructive action.
type ConfirmFunc func(prompt string) bool

type Config[T models.Resource] struct {
	Entity        string
	Client        Client[T]
	Form          schema.Form
	ConfirmPrompt string

	// Uploader is required when Form has an image field.
	Uploader Uploader

	// MarkRead and IsUnread enable the read-on-select side channel.
	MarkRead func(ctx context.Context, id uint) error
	IsUnread func(item T) bool

	Logger *slog.Logger
}

type LoadState int

const (
	Loading LoadState = iota
	Loaded
	LoadFailed
)

func (s LoadState) String() string {
	switch s {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case LoadFailed:
		return "load_failed"
	}
	return fmt.Sprintf("LoadState(%d)", int(s))
}

type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

// Modal is a snapshot of the open create or edit form.
type Modal struct {
	Mode      Mode
	EditingID uint
	Draft     map[string]any
	Err       error
}

type modal struct {
	mode      Mode
	editingID uint
	draft     map[string]any
	err       error
}

type Manager[T models.Resource] struct {
	cfg  Config[T]
	log  *slog.Logger
	life apiclient.Lifetime

	mu        sync.Mutex
	state     LoadState
	loadErr   error
	actionErr error
	items     []T
	modal     *modal
	saving    bool
	uploading bool
	selected  *T
}

func New[T models.Resource](cfg Config[T]) *Manager[T] {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Manager[T]{
		cfg:   cfg,
		log:   cfg.Logger.With("component", "manager", "entity", cfg.Entity),
		state: Loading,
	}
}

// Load fetches the list. On failure the previous items stay visible and the
// manager reports LoadFailed until Retry succeeds.
func (m *Manager[T]) Load(ctx context.Context) error {
	m.mu.Lock()
	m.state = Loading
	m.mu.Unlock()

	ctx, cancel := m.life.Bind(ctx)
	defer cancel()
	return m.refresh(ctx)
}

func (m *Manager[T]) Retry(ctx context.Context) error {
	return m.Load(ctx)
}

func (m *Manager[T]) refresh(ctx context.Context) error {
	items, err := m.cfg.Client.List(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.state = LoadFailed
		m.loadErr = err
		m.log.Error("failed to fetch list", "error", err)
		return err
	}

	m.items = items
	m.state = Loaded
	m.loadErr = nil

	if m.selected != nil {
		id := (*m.selected).GetID()
		m.selected = nil
		for i := range items {
			if items[i].GetID() == id {
				item := items[i]
				m.selected = &item
				break
			}
		}
	}
	return nil
}

func (m *Manager[T]) State() (LoadState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state, m.loadErr
}

func (m *Manager[T]) Items() []T {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.items)
}

// Err returns the failure of the last delete or select, if any.
func (m *Manager[T]) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.actionErr
}

func (m *Manager[T]) Saving() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saving
}

func (m *Manager[T]) Uploading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.uploading
}

// OpenModal opens the form. A nil item starts a new record from the form
// defaults, placed after the current list; otherwise the draft is seeded
// from item.
func (m *Manager[T]) OpenModal(item *T) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if item == nil {
		draft := m.cfg.Form.Defaults()
		if _, ok := m.cfg.Form.Field("order_num"); ok {
			draft["order_num"] = len(m.items)
		}
		m.modal = &modal{mode: ModeCreate, draft: draft}
		return nil
	}

	draft, err := m.draftFrom(*item)
	if err != nil {
		return err
	}
	m.modal = &modal{mode: ModeEdit, editingID: (*item).GetID(), draft: draft}
	return nil
}

func (m *Manager[T]) draftFrom(item T) (map[string]any, error) {
	raw, err := json.Marshal(item)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", m.cfg.Entity, err)
	}
	attrs := map[string]any{}
	if err := json.Unmarshal(raw, &attrs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", m.cfg.Entity, err)
	}

	draft := m.cfg.Form.Defaults()
	for _, fd := range m.cfg.Form.Fields {
		v, ok := attrs[fd.Key]
		if !ok || v == nil {
			continue
		}
		if n, isNum := v.(float64); isNum && (fd.Kind == schema.Number || fd.Kind == schema.Rating) {
			v = int(n)
		}
		draft[fd.Key] = v
	}
	return draft, nil
}

func (m *Manager[T]) Modal() (Modal, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.modal == nil {
		return Modal{}, false
	}
	return Modal{
		Mode:      m.modal.mode,
		EditingID: m.modal.editingID,
		Draft:     maps.Clone(m.modal.draft),
		Err:       m.modal.err,
	}, true
}

func (m *Manager[T]) CloseModal() {
	m.mu.Lock()
	m.modal = nil
	m.mu.Unlock()
}

// SetField updates the draft after converting value to the field's kind.
func (m *Manager[T]) SetField(key string, value any) error {
	fd, ok := m.cfg.Form.Field(key)
	if !ok {
		return &apiclient.ValidationError{Fields: map[string]string{key: "unknown field"}}
	}
	v, err := fd.Coerce(value)
	if err != nil {
		return &apiclient.ValidationError{Fields: map[string]string{key: err.Error()}}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.modal == nil {
		return ErrNoModal
	}
	m.modal.draft[key] = v
	return nil
}

// Submit creates or updates the record. On success the modal closes and the
// list is re-fetched; on failure the modal stays open with its draft and the
// error is kept on it. A call made while another is in flight fails with
// ErrBusy and sends nothing.
func (m *Manager[T]) Submit(ctx context.Context) error {
	m.mu.Lock()
	md := m.modal
	if md == nil {
		m.mu.Unlock()
		return ErrNoModal
	}
	if m.saving {
		m.mu.Unlock()
		return ErrBusy
	}
	if missing := m.cfg.Form.Missing(md.draft); missing != nil {
		md.err = &apiclient.ValidationError{Fields: missing}
		m.mu.Unlock()
		return md.err
	}
	body := maps.Clone(md.draft)
	mode, id := md.mode, md.editingID
	m.saving = true
	m.mu.Unlock()

	ctx, cancel := m.life.Bind(ctx)
	defer cancel()

	var err error
	if mode == ModeEdit {
		body["is_active"] = true
		_, err = m.cfg.Client.Update(ctx, id, body)
	} else {
		_, err = m.cfg.Client.Create(ctx, body)
	}

	m.mu.Lock()
	m.saving = false
	if err != nil {
		md.err = err
		m.mu.Unlock()
		m.log.Error("failed to save", "mode", mode, "id", id, "error", err)
		return err
	}
	if m.modal == md {
		m.modal = nil
	}
	m.mu.Unlock()

	return m.refresh(ctx)
}

// UploadImage uploads r and puts the returned URL into the draft's image
// field. A nil r does nothing. A draft that already has an image must be
// cleared with ClearImage first.
func (m *Manager[T]) UploadImage(ctx context.Context, filename string, r io.Reader) error {
	if r == nil {
		return nil
	}
	key, ok := m.cfg.Form.ImageField()
	if !ok || m.cfg.Uploader == nil {
		return ErrNoImageField
	}

	m.mu.Lock()
	md := m.modal
	if md == nil {
		m.mu.Unlock()
		return ErrNoModal
	}
	if current, _ := md.draft[key].(string); current != "" {
		m.mu.Unlock()
		return ErrImageAlreadySet
	}
	m.uploading = true
	m.mu.Unlock()

	ctx, cancel := m.life.Bind(ctx)
	defer cancel()

	res, err := m.cfg.Uploader.Upload(ctx, filename, r)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploading = false
	if err != nil {
		md.err = err
		m.log.Error("failed to upload image", "filename", filename, "error", err)
		return err
	}
	md.draft[key] = res.URL
	md.err = nil
	return nil
}

func (m *Manager[T]) ClearImage() error {
	key, ok := m.cfg.Form.ImageField()
	if !ok {
		return ErrNoImageField
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.modal == nil {
		return ErrNoModal
	}
	m.modal.draft[key] = ""
	return nil
}

// Delete removes the record after confirm approves. A declined or missing
// confirmation sends nothing.
func (m *Manager[T]) Delete(ctx context.Context, id uint, confirm ConfirmFunc) error {
	if confirm == nil || !confirm(m.cfg.ConfirmPrompt) {
		return nil
	}

	ctx, cancel := m.life.Bind(ctx)
	defer cancel()

	if err := m.cfg.Client.Delete(ctx, id); err != nil {
		m.mu.Lock()
		m.actionErr = err
		m.mu.Unlock()
		m.log.Error("failed to delete", "id", id, "error", err)
		return err
	}

	m.mu.Lock()
	m.actionErr = nil
	if m.selected != nil && (*m.selected).GetID() == id {
		m.selected = nil
	}
	m.mu.Unlock()

	return m.refresh(ctx)
}

// Select makes item the viewed record. An unread item is marked read once
// and the list re-fetched.
func (m *Manager[T]) Select(ctx context.Context, item T) error {
	m.mu.Lock()
	m.selected = &item
	m.mu.Unlock()

	if m.cfg.MarkRead == nil || m.cfg.IsUnread == nil || !m.cfg.IsUnread(item) {
		return nil
	}

	ctx, cancel := m.life.Bind(ctx)
	defer cancel()

	if err := m.cfg.MarkRead(ctx, item.GetID()); err != nil {
		m.mu.Lock()
		m.actionErr = err
		m.mu.Unlock()
		m.log.Error("failed to mark read", "id", item.GetID(), "error", err)
		return err
	}
	return m.refresh(ctx)
}

func (m *Manager[T]) Selected() (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.selected == nil {
		var zero T
		return zero, false
	}
	return *m.selected, true
}

func (m *Manager[T]) ClearSelection() {
	m.mu.Lock()
	m.selected = nil
	m.mu.Unlock()
}

// Close cancels every in-flight request of this manager.
func (m *Manager[T]) Close() {
	m.life.Close()
}
