package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
)

// AdminResources are the CRUD collections under /admin
var AdminResources = []string{
	"categories",
	"blogs",
	"faqs",
	"testimonials",
	"why-choose-us",
	"industries",
	"document-types",
	"income-source-types",
	"return-types",
	"contact-messages",
	"newsletter-subscribers",
	"tax-organizers",
	"invoices",
}

// ListParams select one page of a list
type ListParams struct {
	Page      int
	Limit     int
	Search    string
	SortBy    string
	SortOrder string
	// Filters are sent as extra query parameters, e.g. {"status": "draft"}
	Filters map[string]string
}

func (p ListParams) values() url.Values {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if p.SortBy != "" {
		q.Set("sort_by", p.SortBy)
	}
	if p.SortOrder != "" {
		q.Set("sort_order", p.SortOrder)
	}
	for k, v := range p.Filters {
		q.Set(k, v)
	}
	return q
}

// Resource is one collection of the API, e.g. /admin/faqs
type Resource[T any] struct {
	client *Client
	path   string
}

// NewResource returns the collection at path
func NewResource[T any](c *Client, path string) *Resource[T] {
	return &Resource[T]{client: c, path: path}
}

// Admin returns the admin collection name as raw JSON documents
func (c *Client) Admin(name string) *Resource[json.RawMessage] {
	return NewResource[json.RawMessage](c, "/admin/"+name)
}

// Path returns the collection path below the base URL
func (r *Resource[T]) Path() string {
	return r.path
}

// List returns one page
func (r *Resource[T]) List(ctx context.Context, p ListParams) (*Page[T], error) {
	env, err := call[[]T](ctx, r.client, request{method: http.MethodGet, path: r.path, query: p.values()})
	if err != nil {
		return nil, err
	}
	page := &Page[T]{Items: env.Data}
	if env.Pagination != nil {
		page.Pagination = *env.Pagination
	}
	return page, nil
}

// Get returns one item
func (r *Resource[T]) Get(ctx context.Context, id string) (*T, error) {
	return r.send(ctx, http.MethodGet, r.item(id), nil)
}

// Create adds an item and returns it as stored
func (r *Resource[T]) Create(ctx context.Context, in any) (*T, error) {
	return r.send(ctx, http.MethodPost, r.path, in)
}

// Update replaces an item and returns it as stored
func (r *Resource[T]) Update(ctx context.Context, id string, in any) (*T, error) {
	return r.send(ctx, http.MethodPut, r.item(id), in)
}

// Delete removes an item
func (r *Resource[T]) Delete(ctx context.Context, id string) error {
	_, err := call[json.RawMessage](ctx, r.client, request{method: http.MethodDelete, path: r.item(id)})
	return err
}

// Action posts to a sub-path of an item, e.g. Action(ctx, id, "publish")
func (r *Resource[T]) Action(ctx context.Context, id, action string) (*T, error) {
	return r.send(ctx, http.MethodPost, r.item(id)+"/"+action, nil)
}

func (r *Resource[T]) item(id string) string {
	return r.path + "/" + url.PathEscape(id)
}

func (r *Resource[T]) send(ctx context.Context, method, path string, in any) (*T, error) {
	req, err := jsonRequest(method, path, in)
	if err != nil {
		return nil, err
	}
	env, err := call[T](ctx, r.client, req)
	if err != nil {
		return nil, err
	}
	return &env.Data, nil
}
