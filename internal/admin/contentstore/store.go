// Package contentstore reads and writes the keyed site content.
package contentstore

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/libyanfood/site/internal/admin/apiclient"
)

// Field is one stored content value, identified by (Section, Key).
type Field struct {
	Section   string    `json:"-"`
	Key       string    `json:"-"`
	Value     string    `json:"value"`
	Kind      string    `json:"type"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Section maps field keys to their stored values.
type Section map[string]Field

type Store struct {
	api *apiclient.Client
}

func New(api *apiclient.Client) *Store {
	return &Store{api: api}
}

func (s *Store) FetchSection(ctx context.Context, section string) (Section, error) {
	out := Section{}
	if err := s.api.Do(ctx, http.MethodGet, "/content/"+url.PathEscape(section), nil, &out); err != nil {
		return nil, err
	}
	return fill(section, out), nil
}

// FetchAll returns every section the server knows about.
func (s *Store) FetchAll(ctx context.Context) (map[string]Section, error) {
	out := map[string]Section{}
	if err := s.api.Do(ctx, http.MethodGet, "/content", nil, &out); err != nil {
		return nil, err
	}
	for name, sec := range out {
		out[name] = fill(name, sec)
	}
	return out, nil
}

// SaveField persists one value. The server does not echo the stored field;
// success means value is now canonical.
func (s *Store) SaveField(ctx context.Context, section, key, value string) error {
	path := "/content/" + url.PathEscape(section) + "/" + url.PathEscape(key)
	return s.api.Do(ctx, http.MethodPut, path, map[string]string{"value": value}, nil)
}

func fill(section string, sec Section) Section {
	if sec == nil {
		return Section{}
	}
	for key, f := range sec {
		f.Section = section
		f.Key = key
		sec[key] = f
	}
	return sec
}
