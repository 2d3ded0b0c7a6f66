// Package editor edits the keyed site content one field at a time.
//
// Values are edited locally and only sent when a field is saved. Saves of
// different fields run concurrently; saves of the same field queue behind
// each other and only the newest one may report its outcome.
package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/libyanfood/site/internal/admin/apiclient"
	"github.com/libyanfood/site/internal/admin/contentstore"
	"github.com/libyanfood/site/internal/admin/schema"

	"golang.org/x/sync/errgroup"
)

const (
	DefaultNoticeTTL = 3 * time.Second

	SavedText      = "تم الحفظ بنجاح!"
	SaveFailedText = "حدث خطأ أثناء الحفظ"
)

// Store is the part of contentstore.Store the editor needs.
type Store interface {
	FetchSection(ctx context.Context, section string) (contentstore.Section, error)
	SaveField(ctx context.Context, section, key, value string) error
}

type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

type Notice struct {
	Kind    NoticeKind
	Text    string
	Section string
	Key     string
}

// Input is one rendered form control.
type Input struct {
	Field schema.Field
	Value string
	Busy  bool
}

type Options struct {
	// Sections defaults to schema.Sections.
	Sections  []schema.Section
	NoticeTTL time.Duration
	Logger    *slog.Logger
}

type fieldID struct {
	section string
	key     string
}

type Editor struct {
	store    Store
	sections []schema.Section
	ttl      time.Duration
	log      *slog.Logger
	life     apiclient.Lifetime

	mu        sync.Mutex
	values    map[string]map[string]string
	loadErrs  map[string]error
	pending   map[fieldID]int
	versions  map[fieldID]uint64
	locks     map[fieldID]*sync.Mutex
	notice    *Notice
	noticeSeq uint64
	timer     *time.Timer
}

func New(store Store, opts Options) *Editor {
	if opts.Sections == nil {
		opts.Sections = schema.Sections
	}
	if opts.NoticeTTL <= 0 {
		opts.NoticeTTL = DefaultNoticeTTL
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	e := &Editor{
		store:    store,
		sections: opts.Sections,
		ttl:      opts.NoticeTTL,
		log:      opts.Logger.With("component", "editor"),
		values:   map[string]map[string]string{},
		loadErrs: map[string]error{},
		pending:  map[fieldID]int{},
		versions: map[fieldID]uint64{},
		locks:    map[fieldID]*sync.Mutex{},
	}
	for _, s := range e.sections {
		e.values[s.Key] = blank(s)
	}
	return e
}

func blank(s schema.Section) map[string]string {
	vals := make(map[string]string, len(s.Fields))
	for _, f := range s.Fields {
		vals[f.Key] = ""
	}
	return vals
}

// Load fetches every section in parallel. A section that fails keeps its
// previous values; the others load regardless. An unknown section on the
// server loads as empty.
func (e *Editor) Load(ctx context.Context) error {
	ctx, cancel := e.life.Bind(ctx)
	defer cancel()

	var g errgroup.Group
	errs := make([]error, len(e.sections))

	for i, s := range e.sections {
		i, s := i, s
		g.Go(func() error {
			fetched, err := e.store.FetchSection(ctx, s.Key)
			if errors.Is(err, apiclient.ErrNotFound) {
				fetched, err = contentstore.Section{}, nil
			}

			e.mu.Lock()
			defer e.mu.Unlock()
			if err != nil {
				e.loadErrs[s.Key] = err
				errs[i] = fmt.Errorf("load %s: %w", s.Key, err)
				e.log.Error("failed to load section", "section", s.Key, "error", err)
				return nil
			}

			vals := blank(s)
			for key := range vals {
				vals[key] = fetched[key].Value
			}
			e.values[s.Key] = vals
			delete(e.loadErrs, s.Key)
			return nil
		})
	}
	_ = g.Wait()

	return errors.Join(errs...)
}

// Form returns one input per declared field of section, in schema order.
func (e *Editor) Form(section string) ([]Input, error) {
	s, ok := e.section(section)
	if !ok {
		return nil, unknownField(section, "")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	inputs := make([]Input, 0, len(s.Fields))
	for _, f := range s.Fields {
		inputs = append(inputs, Input{
			Field: f,
			Value: e.values[section][f.Key],
			Busy:  e.pending[fieldID{section, f.Key}] > 0,
		})
	}
	return inputs, nil
}

// Edit changes the local value only.
func (e *Editor) Edit(section, key, value string) error {
	if !e.known(section, key) {
		return unknownField(section, key)
	}
	e.mu.Lock()
	e.values[section][key] = value
	e.mu.Unlock()
	return nil
}

func (e *Editor) Value(section, key string) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.values[section][key]
}

// Busy reports whether a save of the field is queued or in flight.
func (e *Editor) Busy(section, key string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pending[fieldID{section, key}] > 0
}

func (e *Editor) LoadError(section string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loadErrs[section]
}

// Notice returns the current banner, if one has not yet expired.
func (e *Editor) Notice() (Notice, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.notice == nil {
		return Notice{}, false
	}
	return *e.notice, true
}

// Save sends the field's local value. The local value is kept whatever the
// outcome.
func (e *Editor) Save(ctx context.Context, section, key string) error {
	if !e.known(section, key) {
		return unknownField(section, key)
	}
	id := fieldID{section, key}

	e.mu.Lock()
	e.versions[id]++
	version := e.versions[id]
	e.pending[id]++
	lock, ok := e.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		e.locks[id] = lock
	}
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.pending[id]--
		e.mu.Unlock()
	}()

	lock.Lock()
	defer lock.Unlock()

	ctx, cancel := e.life.Bind(ctx)
	defer cancel()

	e.mu.Lock()
	value := e.values[section][key]
	e.mu.Unlock()

	err := e.store.SaveField(ctx, section, key, value)
	if err != nil {
		e.log.Error("failed to save field", "section", section, "key", key, "error", err)
	}
	if e.life.Closed() {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.versions[id] == version {
		if err != nil {
			e.setNoticeLocked(Notice{Kind: NoticeError, Text: SaveFailedText, Section: section, Key: key})
		} else {
			e.setNoticeLocked(Notice{Kind: NoticeSuccess, Text: SavedText, Section: section, Key: key})
		}
	}
	return err
}

func (e *Editor) setNoticeLocked(n Notice) {
	e.notice = &n
	e.noticeSeq++
	seq := e.noticeSeq

	if e.timer != nil {
		e.timer.Stop()
	}
	e.timer = time.AfterFunc(e.ttl, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.noticeSeq == seq {
			e.notice = nil
		}
	})
}

// Close cancels every in-flight request and clears the notice.
func (e *Editor) Close() {
	e.life.Close()

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.timer != nil {
		e.timer.Stop()
	}
	e.notice = nil
}

func (e *Editor) section(key string) (schema.Section, bool) {
	for _, s := range e.sections {
		if s.Key == key {
			return s, true
		}
	}
	return schema.Section{}, false
}

func (e *Editor) known(section, key string) bool {
	s, ok := e.section(section)
	if !ok {
		return false
	}
	_, ok = s.Field(key)
	return ok
}

func unknownField(section, key string) error {
	return &apiclient.ValidationError{Fields: map[string]string{
		section + "." + key: "unknown field",
	}}
}
