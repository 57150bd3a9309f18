package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"))
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func newServer(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c := New(srv.URL + "/api/v1/")
	t.Cleanup(srv.Client().CloseIdleConnections)
	c.http = srv.Client()
	return c
}

type faq struct {
	ID       string `json:"id"`
	Question string `json:"question"`
}

func TestLoginKeepsToken(t *testing.T) {
	var seen []string
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/api/v1/auth/login":
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "admin@taxprep.test", body["email"])
			writeJSON(w, http.StatusOK, map[string]any{
				"success": true,
				"data": map[string]any{
					"access_token": "tok-1",
					"token_type":   "Bearer",
					"user":         map[string]any{"email": "admin@taxprep.test", "role": "admin"},
				},
			})
		case "/api/v1/auth/me":
			writeJSON(w, http.StatusOK, map[string]any{
				"success": true,
				"data":    map[string]any{"email": "admin@taxprep.test", "role": "admin"},
			})
		}
	})

	session, err := c.Login(context.Background(), "admin@taxprep.test", "secret")
	require.NoError(t, err)
	assert.Equal(t, "admin", session.User.Role)
	assert.Equal(t, "tok-1", c.Token())

	me, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "admin@taxprep.test", me.Email)
	assert.Equal(t, []string{"", "Bearer tok-1"}, seen)
}

func TestAPIError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		code    string
		message string
		fields  int
	}{
		{
			name:    "envelope error",
			status:  http.StatusUnprocessableEntity,
			body:    `{"success":false,"message":"Validation failed","code":"ERR_VALIDATION","errors":[{"field":"name","message":"is required"}]}`,
			code:    "ERR_VALIDATION",
			message: "Validation failed",
			fields:  1,
		},
		{
			name:    "plain text body",
			status:  http.StatusBadGateway,
			body:    "upstream down",
			message: "Bad Gateway",
		},
		{
			name:    "success false with 200",
			status:  http.StatusOK,
			body:    `{"success":false,"message":"nope"}`,
			message: "nope",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})
			_, err := c.Admin("faqs").Get(context.Background(), "1")
			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.code, apiErr.Code)
			assert.Equal(t, tt.message, apiErr.Message)
			assert.Len(t, apiErr.Errors, tt.fields)
		})
	}
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "Slug already taken", ErrorMessage(&APIError{Status: 409, Message: "Slug already taken"}, "Failed"))
	assert.Equal(t, "Failed", ErrorMessage(&APIError{Status: 500}, "Failed"))
	assert.Equal(t, "Failed", ErrorMessage(errors.New("dial tcp: refused"), "Failed"))
}

func TestResource_CRUD(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/v1/admin/faqs":
			q := r.URL.Query()
			assert.Equal(t, "2", q.Get("page"))
			assert.Equal(t, "5", q.Get("limit"))
			assert.Equal(t, "refund", q.Get("search"))
			assert.Equal(t, "sort_order", q.Get("sort_by"))
			assert.Equal(t, "asc", q.Get("sort_order"))
			assert.Equal(t, "true", q.Get("is_active"))
			writeJSON(w, http.StatusOK, map[string]any{
				"success":    true,
				"data":       []faq{{ID: "a", Question: "When is my refund?"}},
				"pagination": map[string]any{"total": 6, "page": 2, "limit": 5},
			})
		case r.Method == http.MethodPost && r.URL.Path == "/api/v1/admin/faqs":
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			var in faq
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			in.ID = "b"
			writeJSON(w, http.StatusCreated, map[string]any{"success": true, "data": in})
		case r.Method == http.MethodPut && r.URL.Path == "/api/v1/admin/faqs/b":
			var in faq
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			in.ID = "b"
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": in})
		case r.Method == http.MethodDelete && r.URL.Path == "/api/v1/admin/faqs/b":
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Deleted"})
		case r.Method == http.MethodPost && r.URL.Path == "/api/v1/admin/invoices/b/send":
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": faq{ID: "b"}})
		default:
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	})
	ctx := context.Background()
	faqs := NewResource[faq](c, "/admin/faqs")

	page, err := faqs.List(ctx, ListParams{
		Page: 2, Limit: 5, Search: "refund", SortBy: "sort_order", SortOrder: "asc",
		Filters: map[string]string{"is_active": "true"},
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, int64(6), page.Pagination.Total)

	created, err := faqs.Create(ctx, faq{Question: "Do I need to file?"})
	require.NoError(t, err)
	assert.Equal(t, "b", created.ID)

	updated, err := faqs.Update(ctx, "b", faq{Question: "Who needs to file?"})
	require.NoError(t, err)
	assert.Equal(t, "Who needs to file?", updated.Question)

	require.NoError(t, faqs.Delete(ctx, "b"))

	_, err = NewResource[faq](c, "/admin/invoices").Action(ctx, "b", "send")
	require.NoError(t, err)
}

func TestUploadTo(t *testing.T) {
	c := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/admin/uploads", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "blogs", r.FormValue("folder"))
		f, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "cover.png", header.Filename)
		assert.Equal(t, "png-bytes", string(data))
		writeJSON(w, http.StatusCreated, map[string]any{"success": true, "data": "http://cdn/blogs/x.png"})
	})

	u, err := c.UploadTo(context.Background(), "blogs", "cover.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "http://cdn/blogs/x.png", u)
}
