// Package session holds the admin's access token and guards the components
// that need one.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/libyanfood/site/internal/admin/apiclient"

	"github.com/golang-jwt/jwt/v5"
)

// Gate is the apiclient.TokenSource of an authenticated admin session.
type Gate struct {
	api   *apiclient.Client
	store TokenStore
	now   func() time.Time

	mu    sync.RWMutex
	token string
	user  *apiclient.User
}

// NewGate restores any saved token and installs the gate as api's token source.
func NewGate(api *apiclient.Client, store TokenStore) (*Gate, error) {
	if store == nil {
		store = &MemoryStore{}
	}
	token, err := store.Load()
	if err != nil {
		return nil, err
	}

	g := &Gate{api: api, store: store, now: time.Now, token: token}
	api.SetTokenSource(g)
	return g, nil
}

func (g *Gate) Token() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.token
}

// User is the account returned by the last Login, or nil.
func (g *Gate) User() *apiclient.User {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.user
}

// IsAuthenticated reports whether a token is held and its exp claim has not
// passed. The signature is the server's business and is not checked here.
func (g *Gate) IsAuthenticated() bool {
	token := g.Token()
	if token == "" {
		return false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return g.now().Before(exp.Time)
}

func (g *Gate) Login(ctx context.Context, username, password string) error {
	res, err := g.api.Login(ctx, username, password)
	if err != nil {
		return err
	}
	if err := g.store.Save(res.AccessToken); err != nil {
		return err
	}

	g.mu.Lock()
	g.token = res.AccessToken
	g.user = &res.User
	g.mu.Unlock()

	g.api.Logger().Info("admin logged in", "user", res.User.Username)
	return nil
}

func (g *Gate) Logout() error {
	g.mu.Lock()
	g.token = ""
	g.user = nil
	g.mu.Unlock()
	return g.store.Clear()
}

// Require fails with apiclient.ErrAuth unless the session is authenticated.
func (g *Gate) Require() error {
	if !g.IsAuthenticated() {
		return fmt.Errorf("session: %w", apiclient.ErrAuth)
	}
	return nil
}
