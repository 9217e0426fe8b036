package views

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/docsieve/docsieve/internal/filter"
	"github.com/docsieve/docsieve/internal/types"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "testtoken", 5*time.Second)
}

func TestClient_Headers(t *testing.T) {
	var gotAuth, gotRequestID string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-Id")
		json.NewEncoder(w).Encode(listPage{})
	})

	if _, err := c.List(context.Background()); err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if gotAuth != "Token testtoken" {
		t.Errorf("Authorization = %q, want token header", gotAuth)
	}
	if gotRequestID == "" {
		t.Error("X-Request-Id header missing")
	}
}

func TestClient_ListPagination(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := listPage{Count: 3}
		if r.URL.Query().Get("page") == "2" {
			page.Results = []SavedView{{ID: 3, Name: "third"}}
		} else {
			next := srv.URL + "/api/saved_views/?page=2"
			page.Next = &next
			page.Results = []SavedView{{ID: 1, Name: "first"}, {ID: 2, Name: "second"}}
		}
		json.NewEncoder(w).Encode(page)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "testtoken", 5*time.Second)
	views, err := c.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(views) != 3 {
		t.Fatalf("List returned %d views, want 3 across pages", len(views))
	}
	if views[2].Name != "third" {
		t.Errorf("last view = %+v, want the second page's view", views[2])
	}
}

func TestClient_Get(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/saved_views/12/" {
			t.Errorf("path = %s, want /api/saved_views/12/", r.URL.Path)
		}
		json.NewEncoder(w).Encode(SavedView{
			ID:   12,
			Name: "inbox",
			FilterRules: []filter.Rule{
				{Type: filter.RuleHasTagsAny, Value: filter.TagValue(1)},
			},
		})
	})

	v, err := c.Get(context.Background(), 12)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if v.Name != "inbox" || len(v.FilterRules) != 1 {
		t.Errorf("Get = %+v, want inbox with one rule", v)
	}
}

func TestClient_GetNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	_, err := c.Get(context.Background(), 99)
	if !errors.Is(err, types.ErrViewNotFound) {
		t.Errorf("Get error = %v, want ErrViewNotFound", err)
	}
}

func TestClient_ServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.List(context.Background())
	if !errors.Is(err, types.ErrRemoteStatus) {
		t.Errorf("List error = %v, want ErrRemoteStatus", err)
	}
}

func TestClient_Create(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", ct)
		}
		var v SavedView
		if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		v.ID = 42
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(v)
	})

	created, err := c.Create(context.Background(), SavedView{Name: "new view"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID != 42 || created.Name != "new view" {
		t.Errorf("Create = %+v, want server-assigned id 42", created)
	}
}

func TestClient_Update(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/api/saved_views/7/" {
			t.Errorf("%s %s, want PUT /api/saved_views/7/", r.Method, r.URL.Path)
		}
		var v SavedView
		json.NewDecoder(r.Body).Decode(&v)
		json.NewEncoder(w).Encode(v)
	})

	if _, err := c.Update(context.Background(), SavedView{ID: 7, Name: "renamed"}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if _, err := c.Update(context.Background(), SavedView{Name: "no id"}); err == nil {
		t.Error("Update without id succeeded, want error")
	}
}

func TestClient_Delete(t *testing.T) {
	var gotMethod, gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	})

	if err := c.Delete(context.Background(), 7); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/api/saved_views/7/" {
		t.Errorf("%s %s, want DELETE /api/saved_views/7/", gotMethod, gotPath)
	}
}

func TestClient_ContextCancellation(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := c.List(ctx); err == nil {
		t.Error("List with expired context succeeded, want error")
	}
}

func TestClient_RuleWirePayload(t *testing.T) {
	// The client must ship rules in the server's wire shape: integer
	// rule_type, string-or-null value.
	var body map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id": 1, "name": "x"}`)
	})

	_, err := c.Create(context.Background(), SavedView{
		Name: "x",
		FilterRules: []filter.Rule{
			{Type: filter.RuleCorrespondent, Value: filter.CorrespondentValue(filter.NoRef)},
		},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	rules, ok := body["filter_rules"].([]any)
	if !ok || len(rules) != 1 {
		t.Fatalf("filter_rules = %v, want one rule", body["filter_rules"])
	}
	rule := rules[0].(map[string]any)
	if rule["rule_type"] != float64(3) {
		t.Errorf("rule_type = %v, want 3", rule["rule_type"])
	}
	if rule["value"] != nil {
		t.Errorf("value = %v, want null", rule["value"])
	}
}
