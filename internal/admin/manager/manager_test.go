package manager_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/libyanfood/site/internal/admin/apiclient"
	"github.com/libyanfood/site/internal/admin/manager"
	"github.com/libyanfood/site/internal/admin/schema"
	"github.com/libyanfood/site/internal/database"
	"github.com/libyanfood/site/internal/models"
	"github.com/libyanfood/site/internal/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type request struct {
	Method string
	Path   string
	Body   []byte
}

// recorder keeps every request the server receives.
type recorder struct {
	mu   sync.Mutex
	reqs []request
}

func (rec *recorder) wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))

		rec.mu.Lock()
		rec.reqs = append(rec.reqs, request{Method: r.Method, Path: r.URL.Path, Body: body})
		rec.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

func (rec *recorder) count(method, path string) int {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	n := 0
	for _, r := range rec.reqs {
		if r.Method == method && (path == "" || r.Path == path) {
			n++
		}
	}
	return n
}

func (rec *recorder) last(method string) request {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	for i := len(rec.reqs) - 1; i >= 0; i-- {
		if rec.reqs[i].Method == method {
			return rec.reqs[i]
		}
	}
	return request{}
}

func setup(t *testing.T) (*apiclient.Client, *recorder) {
	rec := &recorder{}
	app := testutils.SetupSeededApp(t)
	token := testutils.AdminToken(t)
	srv := testutils.NewHTTPServer(t, app, rec.wrap)
	return apiclient.New(srv.URL+"/api", apiclient.WithTokenSource(apiclient.StaticToken(token))), rec
}

func yes(string) bool { return true }
func no(string) bool  { return false }

func TestCreateAppearsInList(t *testing.T) {
	api, rec := setup(t)
	ctx := context.Background()
	m := manager.Services(api, nil)
	defer m.Close()

	require.NoError(t, m.Load(ctx))
	state, _ := m.State()
	assert.Equal(t, manager.Loaded, state)
	before := m.Items()
	require.Len(t, before, 6)

	require.NoError(t, m.OpenModal(nil))
	md, ok := m.Modal()
	require.True(t, ok)
	assert.Equal(t, manager.ModeCreate, md.Mode)
	assert.Equal(t, 6, md.Draft["order_num"])
	assert.Equal(t, "Wheat", md.Draft["icon"])

	require.NoError(t, m.SetField("title", "خدمة التعبئة"))
	require.NoError(t, m.SetField("description", "تعبئة وتغليف المواد الغذائية"))
	require.NoError(t, m.SetField("icon", "Package"))
	md, _ = m.Modal()

	require.NoError(t, m.Submit(ctx))

	_, open := m.Modal()
	assert.False(t, open)

	t.Run("Body equals the draft", func(t *testing.T) {
		var sent, want map[string]any
		require.NoError(t, json.Unmarshal(rec.last(http.MethodPost).Body, &sent))
		raw, err := json.Marshal(md.Draft)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &want))
		assert.Equal(t, want, sent)
	})

	t.Run("List includes the new record", func(t *testing.T) {
		after := m.Items()
		require.Len(t, after, 7)

		var created *models.Service
		for i := range after {
			if after[i].Title == "خدمة التعبئة" {
				created = &after[i]
			}
		}
		require.NotNil(t, created)
		for _, s := range before {
			assert.NotEqual(t, s.ID, created.ID)
		}
		assert.Equal(t, "Package", created.Icon)
		assert.Equal(t, 6, created.OrderNum)
	})
}

func TestSubmitValidation(t *testing.T) {
	api, rec := setup(t)
	ctx := context.Background()
	m := manager.News(api, nil)
	defer m.Close()
	require.NoError(t, m.Load(ctx))

	require.NoError(t, m.OpenModal(nil))
	require.NoError(t, m.SetField("title", "خبر"))

	err := m.Submit(ctx)
	var verr *apiclient.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "excerpt")
	assert.NotContains(t, verr.Fields, "title")
	assert.Zero(t, rec.count(http.MethodPost, ""))

	md, open := m.Modal()
	require.True(t, open)
	assert.Equal(t, "خبر", md.Draft["title"])
	assert.ErrorIs(t, md.Err, apiclient.ErrValidation)

	t.Run("Bad values are rejected", func(t *testing.T) {
		assert.ErrorIs(t, m.SetField("category", "رياضة"), apiclient.ErrValidation)
		assert.ErrorIs(t, m.SetField("nope", "x"), apiclient.ErrValidation)
	})

	t.Run("No modal", func(t *testing.T) {
		m.CloseModal()
		assert.ErrorIs(t, m.SetField("title", "x"), manager.ErrNoModal)
		assert.ErrorIs(t, m.Submit(ctx), manager.ErrNoModal)
	})
}

func TestEditSubmit(t *testing.T) {
	api, rec := setup(t)
	ctx := context.Background()
	m := manager.Testimonials(api, nil)
	defer m.Close()
	require.NoError(t, m.Load(ctx))

	item := m.Items()[0]
	require.NoError(t, m.OpenModal(&item))

	md, _ := m.Modal()
	assert.Equal(t, manager.ModeEdit, md.Mode)
	assert.Equal(t, item.ID, md.EditingID)
	assert.Equal(t, item.Name, md.Draft["name"])
	assert.Equal(t, 5, md.Draft["rating"])
	assert.NotContains(t, md.Draft, "id")

	require.NoError(t, m.SetField("rating", "4"))
	require.NoError(t, m.Submit(ctx))

	put := rec.last(http.MethodPut)
	assert.True(t, strings.HasSuffix(put.Path, "/testimonials/"+itoa(item.ID)))
	var sent map[string]any
	require.NoError(t, json.Unmarshal(put.Body, &sent))
	assert.Equal(t, true, sent["is_active"])
	assert.Equal(t, float64(4), sent["rating"])

	for _, tm := range m.Items() {
		if tm.ID == item.ID {
			assert.Equal(t, 4, tm.Rating)
		}
	}
}

func TestSubmitFailureKeepsModal(t *testing.T) {
	api, _ := setup(t)
	ctx := context.Background()
	m := manager.Services(api, nil)
	defer m.Close()
	require.NoError(t, m.Load(ctx))

	item := m.Items()[0]
	require.NoError(t, m.OpenModal(&item))
	require.NoError(t, database.DB.Delete(&models.Service{}, item.ID).Error)

	err := m.Submit(ctx)
	assert.ErrorIs(t, err, apiclient.ErrNotFound)

	md, open := m.Modal()
	require.True(t, open)
	assert.ErrorIs(t, md.Err, apiclient.ErrNotFound)
	assert.Equal(t, item.Title, md.Draft["title"])
	assert.False(t, m.Saving())
}

func TestDelete(t *testing.T) {
	api, rec := setup(t)
	ctx := context.Background()
	m := manager.News(api, nil)
	defer m.Close()
	require.NoError(t, m.Load(ctx))

	target := m.Items()[1]
	require.NoError(t, m.Select(ctx, target))

	t.Run("Declined confirmation sends nothing", func(t *testing.T) {
		require.NoError(t, m.Delete(ctx, target.ID, no))
		require.NoError(t, m.Delete(ctx, target.ID, nil))
		assert.Zero(t, rec.count(http.MethodDelete, ""))
		assert.Len(t, m.Items(), 3)
	})

	t.Run("Confirmed delete removes the record", func(t *testing.T) {
		var prompt string
		confirm := func(p string) bool { prompt = p; return true }

		require.NoError(t, m.Delete(ctx, target.ID, confirm))
		assert.Equal(t, "هل أنت متأكد من حذف هذا الخبر؟", prompt)
		assert.Equal(t, 1, rec.count(http.MethodDelete, ""))

		for _, n := range m.Items() {
			assert.NotEqual(t, target.ID, n.ID)
		}
		_, selected := m.Selected()
		assert.False(t, selected)
		assert.NoError(t, m.Err())
	})

	t.Run("Deleting again reports not found", func(t *testing.T) {
		err := m.Delete(ctx, target.ID, yes)
		assert.ErrorIs(t, err, apiclient.ErrNotFound)
		assert.ErrorIs(t, m.Err(), apiclient.ErrNotFound)
		assert.Len(t, m.Items(), 2)
	})
}

func TestSelectMarksRead(t *testing.T) {
	api, rec := setup(t)
	ctx := context.Background()

	require.NoError(t, database.DB.Create(&[]models.ContactMessage{
		{Name: "سالم", Email: "salem@x.ly", Message: "استفسار"},
		{Name: "هند", Email: "hind@x.ly", Message: "طلب عرض"},
	}).Error)

	m := manager.Messages(api, nil)
	defer m.Close()
	require.NoError(t, m.Load(ctx))

	before, err := api.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, before.UnreadMessages)

	msg := m.Items()[0]
	require.False(t, msg.IsRead)
	require.NoError(t, m.Select(ctx, msg))

	assert.Equal(t, 1, rec.count(http.MethodPut, "/api/contact/"+itoa(msg.ID)+"/read"))

	after, err := api.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, before.UnreadMessages-1, after.UnreadMessages)

	selected, ok := m.Selected()
	require.True(t, ok)
	assert.True(t, selected.IsRead)

	require.NoError(t, m.Select(ctx, selected))
	assert.Equal(t, 1, rec.count(http.MethodPut, ""))
}

func TestUploadImage(t *testing.T) {
	api, rec := setup(t)
	ctx := context.Background()
	m := manager.Projects(api, nil)
	defer m.Close()
	require.NoError(t, m.Load(ctx))
	require.NoError(t, m.OpenModal(nil))

	t.Run("No file sends nothing", func(t *testing.T) {
		require.NoError(t, m.UploadImage(ctx, "", nil))
		assert.Zero(t, rec.count(http.MethodPost, "/api/upload"))
	})

	t.Run("Upload fills the image field", func(t *testing.T) {
		require.NoError(t, m.UploadImage(ctx, "ship.png", bytes.NewReader(testutils.PNGHeader)))
		md, _ := m.Modal()
		assert.True(t, strings.HasPrefix(md.Draft["image"].(string), "/uploads/images/"))
		assert.False(t, m.Uploading())
	})

	t.Run("Second upload needs a clear first", func(t *testing.T) {
		err := m.UploadImage(ctx, "other.png", bytes.NewReader(testutils.PNGHeader))
		assert.ErrorIs(t, err, manager.ErrImageAlreadySet)
		assert.Equal(t, 1, rec.count(http.MethodPost, "/api/upload"))

		require.NoError(t, m.ClearImage())
		require.NoError(t, m.UploadImage(ctx, "other.png", bytes.NewReader(testutils.PNGHeader)))
		md, _ := m.Modal()
		assert.True(t, strings.HasSuffix(md.Draft["image"].(string), "_other.png"))
	})

	t.Run("Failed upload keeps the previous value", func(t *testing.T) {
		require.NoError(t, m.ClearImage())
		err := m.UploadImage(ctx, "notes.txt", strings.NewReader("plain text"))
		assert.ErrorIs(t, err, apiclient.ErrValidation)

		md, _ := m.Modal()
		assert.Equal(t, "", md.Draft["image"])
		assert.Error(t, md.Err)
	})

	t.Run("Form without image field", func(t *testing.T) {
		s := manager.Services(api, nil)
		defer s.Close()
		require.NoError(t, s.OpenModal(nil))
		assert.ErrorIs(t, s.UploadImage(ctx, "a.png", bytes.NewReader(testutils.PNGHeader)), manager.ErrNoImageField)
	})
}

// failingClient fails List until ok is set.
type failingClient struct {
	ok    bool
	items []models.Service
}

func (f *failingClient) List(context.Context) ([]models.Service, error) {
	if !f.ok {
		return nil, apiclient.ErrNetwork
	}
	return f.items, nil
}

func (f *failingClient) Create(context.Context, map[string]any) (*models.Service, error) {
	return nil, errors.New("not implemented")
}

func (f *failingClient) Update(context.Context, uint, map[string]any) (*models.Service, error) {
	return nil, errors.New("not implemented")
}

func (f *failingClient) Delete(context.Context, uint) error { return nil }

func TestLoadFailureAndRetry(t *testing.T) {
	client := &failingClient{ok: true, items: []models.Service{{ID: 1, Title: "أ"}}}
	m := manager.New(manager.Config[models.Service]{
		Entity: "service",
		Client: client,
		Form:   schema.ServiceForm,
	})
	defer m.Close()
	ctx := context.Background()

	require.NoError(t, m.Load(ctx))

	client.ok = false
	err := m.Load(ctx)
	assert.ErrorIs(t, err, apiclient.ErrNetwork)
	state, loadErr := m.State()
	assert.Equal(t, manager.LoadFailed, state)
	assert.ErrorIs(t, loadErr, apiclient.ErrNetwork)
	assert.Len(t, m.Items(), 1)

	client.ok = true
	client.items = append(client.items, models.Service{ID: 2, Title: "ب"})
	require.NoError(t, m.Retry(ctx))
	state, loadErr = m.State()
	assert.Equal(t, manager.Loaded, state)
	assert.NoError(t, loadErr)
	assert.Len(t, m.Items(), 2)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// blockingClient holds Create until release is closed.
type blockingClient struct {
	failingClient
	creates atomic.Int32
	entered chan struct{}
	release chan struct{}
}

func (b *blockingClient) Create(ctx context.Context, draft map[string]any) (*models.Service, error) {
	b.creates.Add(1)
	b.entered <- struct{}{}
	<-b.release
	return &models.Service{ID: 9}, nil
}

func TestSubmitWhileSaving(t *testing.T) {
	client := &blockingClient{
		failingClient: failingClient{ok: true},
		entered:       make(chan struct{}, 1),
		release:       make(chan struct{}),
	}
	m := manager.New(manager.Config[models.Service]{
		Entity: "service",
		Client: client,
		Form:   schema.ServiceForm,
	})
	defer m.Close()
	ctx := context.Background()

	require.NoError(t, m.OpenModal(nil))
	require.NoError(t, m.SetField("title", "خدمة"))
	require.NoError(t, m.SetField("description", "وصف"))

	done := make(chan error, 1)
	go func() { done <- m.Submit(ctx) }()
	<-client.entered
	assert.True(t, m.Saving())

	assert.ErrorIs(t, m.Submit(ctx), manager.ErrBusy)

	close(client.release)
	require.NoError(t, <-done)
	assert.Equal(t, int32(1), client.creates.Load())
	assert.False(t, m.Saving())
}
