package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/fixturegraph/pkg/fixture"
)

const shop = `
name = "shop"

[[fixture]]
name = "orders"
depends_on = ["users", "products"]

[[fixture]]
name = "orgs"

[[fixture]]
name = "users"
depends_on = ["orgs"]
target = "accounts"

[[fixture]]
name = "products"
`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	m, err := fixture.Parse([]byte(shop), fixture.FormatTOML)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	return New(m, WithLogger(log.New(io.Discard)))
}

func do(t *testing.T, s *Server, method, target string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := decode[map[string]string](t, rec); got["status"] != "ok" {
		t.Errorf("status field = %q, want ok", got["status"])
	}
}

func TestFixtures(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/v1/fixtures", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	resp := decode[FixturesResponse](t, rec)
	if resp.Manifest != "shop" || len(resp.Fixtures) != 4 {
		t.Fatalf("response = %+v", resp)
	}
	users := resp.Fixtures[2]
	if users.Name != "users" || users.Target != "accounts" || !slices.Equal(users.DependsOn, []string{"orgs"}) {
		t.Errorf("users = %+v", users)
	}
	if resp.Fixtures[1].DependsOn == nil {
		t.Error("depends_on should be an empty list, not null")
	}
}

func TestOrder(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   []string
	}{
		{"all", "/v1/order", []string{"orgs", "users", "products", "orders"}},
		{"comma subset", "/v1/order?only=products,users", []string{"products", "orgs", "users"}},
		{"repeated subset", "/v1/order?only=users&only=products", []string{"orgs", "users", "products"}},
		{"single fixture", "/v1/fixtures/orders/order", []string{"orgs", "users", "products", "orders"}},
		{"leaf fixture", "/v1/fixtures/orgs/order", []string{"orgs"}},
	}

	s := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodGet, tt.target, nil)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
			}
			if got := decode[OrderResponse](t, rec).Order; !slices.Equal(got, tt.want) {
				t.Errorf("order = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name   string
		method string
		target string
		body   string
		status int
		code   string
	}{
		{"unknown fixture", http.MethodGet, "/v1/fixtures/nope/order", "", http.StatusNotFound, "FIXTURE_NOT_FOUND"},
		{"unknown subset member", http.MethodGet, "/v1/order?only=nope", "", http.StatusNotFound, "FIXTURE_NOT_FOUND"},
		{"unknown route", http.MethodGet, "/v2/anything", "", http.StatusNotFound, "NOT_FOUND"},
		{"bad graph format", http.MethodGet, "/v1/graph?format=png", "", http.StatusUnprocessableEntity, "INVALID_FORMAT"},
		{"malformed body", http.MethodPost, "/v1/resolve", "{", http.StatusUnprocessableEntity, "INVALID_INPUT"},
		{"unknown body field", http.MethodPost, "/v1/resolve", `{"fixturez":[]}`, http.StatusUnprocessableEntity, "INVALID_INPUT"},
		{"cycle", http.MethodPost, "/v1/resolve",
			`{"fixtures":[{"name":"a","depends_on":["b"]},{"name":"b","depends_on":["a"]}]}`,
			http.StatusUnprocessableEntity, "CIRCULAR_DEPENDENCY"},
		{"missing dependency", http.MethodPost, "/v1/resolve",
			`{"fixtures":[{"name":"a","depends_on":["x"]}]}`,
			http.StatusUnprocessableEntity, "MISSING_DEPENDENCY"},
	}

	s := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, tt.method, tt.target, strings.NewReader(tt.body))
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.status, rec.Body)
			}
			resp := decode[ErrorResponse](t, rec)
			if string(resp.Code) != tt.code {
				t.Errorf("code = %q, want %q", resp.Code, tt.code)
			}
			if resp.Message == "" {
				t.Error("message should not be empty")
			}
		})
	}
}

func TestResolve(t *testing.T) {
	body := `{
		"fixtures": [
			{"name": "a", "depends_on": ["b", "c"]},
			{"name": "b", "depends_on": ["c", "e"]},
			{"name": "c", "depends_on": ["d", "e"]},
			{"name": "d"},
			{"name": "e"}
		],
		"only": ["b"]
	}`

	rec := do(t, newTestServer(t), http.MethodPost, "/v1/resolve", strings.NewReader(body))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
	if got, want := decode[OrderResponse](t, rec).Order, []string{"d", "e", "c", "b"}; !slices.Equal(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestGraphDOT(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/v1/graph?detailed=true", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/vnd.graphviz") {
		t.Errorf("Content-Type = %q", ct)
	}
	if body := rec.Body.String(); !strings.Contains(body, `"orders" -> "users";`) {
		t.Errorf("DOT body missing edge:\n%s", body)
	}
}

func TestSplitList(t *testing.T) {
	got := splitList([]string{"a, b", "", "c,,", " d "})
	if want := []string{"a", "b", "c", "d"}; !slices.Equal(got, want) {
		t.Errorf("splitList() = %v, want %v", got, want)
	}
	if got := splitList(nil); got != nil {
		t.Errorf("splitList(nil) = %v, want nil", got)
	}
}

func TestListenAndServeShutsDownOnCancel(t *testing.T) {
	s := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe() error = %v, want nil after cancel", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("ListenAndServe did not return after cancel")
	}
}

