package apiclient_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/libyanfood/site/internal/admin/apiclient"
	"github.com/libyanfood/site/internal/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T, wrap func(http.Handler) http.Handler, opts ...apiclient.Option) *apiclient.Client {
	srv := testutils.NewHTTPServer(t, testutils.SetupSeededApp(t), wrap)
	return apiclient.New(srv.URL+"/api", opts...)
}

func TestLoginAndStats(t *testing.T) {
	api := newClient(t, nil)
	ctx := context.Background()

	res, err := api.Login(ctx, testutils.AdminUsername, testutils.AdminPassword)
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.Equal(t, "admin", res.User.Role)

	api.SetTokenSource(apiclient.StaticToken(res.AccessToken))

	stats, err := api.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, stats.Services)
	assert.Equal(t, 3, stats.Projects)
	assert.Equal(t, 0, stats.TotalMessages)

	me, err := api.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, testutils.AdminUsername, me.Username)
}

func TestErrorClassification(t *testing.T) {
	api := newClient(t, nil)
	ctx := context.Background()

	t.Run("Wrong password", func(t *testing.T) {
		_, err := api.Login(ctx, testutils.AdminUsername, "wrong")
		assert.ErrorIs(t, err, apiclient.ErrInvalidCredentials)
		assert.NotErrorIs(t, err, apiclient.ErrAuth)
	})

	t.Run("Missing token", func(t *testing.T) {
		_, err := api.Stats(ctx)
		assert.ErrorIs(t, err, apiclient.ErrAuth)

		var apiErr *apiclient.APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
		assert.Equal(t, "UNAUTHORIZED", apiErr.Code)
	})

	t.Run("Unknown route", func(t *testing.T) {
		err := api.Do(ctx, http.MethodGet, "/nowhere", nil, nil)
		assert.ErrorIs(t, err, apiclient.ErrNotFound)
	})

	t.Run("Validation details", func(t *testing.T) {
		err := api.Do(ctx, http.MethodPost, "/contact", map[string]string{"name": "x"}, nil)
		assert.ErrorIs(t, err, apiclient.ErrValidation)

		var apiErr *apiclient.APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Contains(t, apiErr.FieldErrors(), "email")
	})
}

func TestServerErrorAndBadEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/broken") {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"success":false,"error":{"code":"INTERNAL_ERROR","message":"boom"}}`))
			return
		}
		w.Write([]byte("<html>not json</html>"))
	}))
	t.Cleanup(srv.Close)
	api := apiclient.New(srv.URL)

	err := api.Do(context.Background(), http.MethodGet, "/broken", nil, nil)
	assert.ErrorIs(t, err, apiclient.ErrServer)
	assert.Contains(t, err.Error(), "boom")

	err = api.Do(context.Background(), http.MethodGet, "/html", nil, nil)
	var apiErr *apiclient.APIError
	assert.True(t, errors.As(err, &apiErr))
}

func TestTimeout(t *testing.T) {
	slow := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-time.After(2 * time.Second):
			case <-r.Context().Done():
				return
			}
			next.ServeHTTP(w, r)
		})
	}
	api := newClient(t, slow, apiclient.WithTimeout(50*time.Millisecond))

	err := api.Do(context.Background(), http.MethodGet, "/content", nil, nil)
	assert.ErrorIs(t, err, apiclient.ErrTimeout)
}

func TestNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	api := apiclient.New(url + "/api")
	_, err := api.Stats(context.Background())
	assert.ErrorIs(t, err, apiclient.ErrNetwork)
}

func TestCallerCancel(t *testing.T) {
	api := newClient(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := api.Stats(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, apiclient.ErrNetwork)
}

func TestLifetime(t *testing.T) {
	var l apiclient.Lifetime

	ctx, cancel := l.Bind(context.Background())
	defer cancel()
	assert.NoError(t, ctx.Err())

	l.Close()
	assert.True(t, l.Closed())
	assert.Eventually(t, func() bool { return ctx.Err() != nil }, time.Second, 5*time.Millisecond)

	late, cancelLate := l.Bind(context.Background())
	defer cancelLate()
	assert.Error(t, late.Err())
}
