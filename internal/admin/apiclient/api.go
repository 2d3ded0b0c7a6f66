package apiclient

import (
	"context"
	"net/http"
	"time"
)

// Stats are the dashboard counters.
type Stats struct {
	Services       int `json:"services"`
	Projects       int `json:"projects"`
	Testimonials   int `json:"testimonials"`
	News           int `json:"news"`
	UnreadMessages int `json:"unread_messages"`
	TotalMessages  int `json:"total_messages"`
}

type User struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type LoginResult struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	User        User   `json:"user"`
}

// UploadResult is what the server answers to a file upload.
type UploadResult struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

func (c *Client) Stats(ctx context.Context) (*Stats, error) {
	var s Stats
	if err := c.Do(ctx, http.MethodGet, "/stats", nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Login exchanges credentials for an access token. Wrong credentials fail
// with an error matching ErrInvalidCredentials.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	body := map[string]string{"username": username, "password": password}
	var res LoginResult
	if err := c.Do(ctx, http.MethodPost, "/auth/login", body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Me(ctx context.Context) (*User, error) {
	var u User
	if err := c.Do(ctx, http.MethodGet, "/auth/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
