// Package resource is the typed CRUD client for the admin-managed lists.
package resource

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/libyanfood/site/internal/admin/apiclient"
	"github.com/libyanfood/site/internal/models"
)

type Client[T models.Resource] struct {
	api  *apiclient.Client
	path string
}

// New returns a client for the collection mounted at path, e.g. "/services".
func New[T models.Resource](api *apiclient.Client, path string) *Client[T] {
	return &Client[T]{api: api, path: path}
}

func Services(api *apiclient.Client) *Client[models.Service] {
	return New[models.Service](api, "/services")
}

func Projects(api *apiclient.Client) *Client[models.Project] {
	return New[models.Project](api, "/projects")
}

func Testimonials(api *apiclient.Client) *Client[models.Testimonial] {
	return New[models.Testimonial](api, "/testimonials")
}

func News(api *apiclient.Client) *Client[models.NewsItem] {
	return New[models.NewsItem](api, "/news")
}

func Messages(api *apiclient.Client) *Client[models.ContactMessage] {
	return New[models.ContactMessage](api, "/contact")
}

func (c *Client[T]) Path() string { return c.path }

func (c *Client[T]) List(ctx context.Context) ([]T, error) {
	var items []T
	if err := c.api.Do(ctx, http.MethodGet, c.path, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Create posts draft verbatim and returns the stored record.
func (c *Client[T]) Create(ctx context.Context, draft map[string]any) (*T, error) {
	var item T
	if err := c.api.Do(ctx, http.MethodPost, c.path, draft, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *Client[T]) Update(ctx context.Context, id uint, draft map[string]any) (*T, error) {
	var item T
	if err := c.api.Do(ctx, http.MethodPut, c.itemPath(id), draft, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *Client[T]) Delete(ctx context.Context, id uint) error {
	return c.api.Do(ctx, http.MethodDelete, c.itemPath(id), nil, nil)
}

// MarkRead flags a contact message as read. Only meaningful for Messages.
func (c *Client[T]) MarkRead(ctx context.Context, id uint) error {
	return c.api.Do(ctx, http.MethodPut, c.itemPath(id)+"/read", nil, nil)
}

// Upload sends one image and returns where the server stored it.
func (c *Client[T]) Upload(ctx context.Context, filename string, r io.Reader) (*apiclient.UploadResult, error) {
	var res apiclient.UploadResult
	if err := c.api.Upload(ctx, "/upload", filename, r, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client[T]) itemPath(id uint) string {
	return fmt.Sprintf("%s/%d", c.path, id)
}
