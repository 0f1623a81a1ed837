package fixture

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"strconv"
	"testing"
	"time"

	ferrors "github.com/matzehuels/fixturegraph/pkg/errors"
	"github.com/matzehuels/fixturegraph/pkg/graph"
	"github.com/matzehuels/fixturegraph/pkg/observability"
)

// letters mirrors the graph used across the resolver tests:
//
//	a -> d, b
//	b -> c, e
//	c -> d, e
const letters = `{
  "name": "letters",
  "fixtures": [
    {"name": "a", "depends_on": ["d", "b"]},
    {"name": "b", "depends_on": ["c", "e"]},
    {"name": "c", "depends_on": ["d", "e"]},
    {"name": "d"},
    {"name": "e"}
  ]
}`

func names(fixtures []*Fixture) []string {
	out := make([]string, len(fixtures))
	for i, f := range fixtures {
		out[i] = f.Name
	}
	return out
}

func TestOrder(t *testing.T) {
	m, err := Parse([]byte(letters), FormatJSON)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	tests := []struct {
		name  string
		names []string
		want  []string
	}{
		{"all", nil, []string{"d", "e", "c", "b", "a"}},
		{"node", []string{"c"}, []string{"d", "e", "c"}},
		{"subset", []string{"b", "c"}, []string{"d", "e", "c", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.Order(context.Background(), tt.names...)
			if err != nil {
				t.Fatalf("Order() error: %v", err)
			}
			if !slices.Equal(names(got), tt.want) {
				t.Errorf("Order(%v) = %v, want %v", tt.names, names(got), tt.want)
			}
		})
	}
}

func TestOrderLargeManifest(t *testing.T) {
	const n = 50000
	fixtures := make([]Fixture, n)
	for i := range fixtures {
		fixtures[i].Name = "f" + strconv.Itoa(i)
		if i > 0 {
			fixtures[i].DependsOn = []string{fixtures[i-1].Name}
		}
	}
	m, err := New("large", fixtures)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	start := time.Now()
	got, err := m.Order(context.Background(), fixtures[n-1].Name)
	if err != nil {
		t.Fatalf("Order() error: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("Order() took %v", elapsed)
	}
	if len(got) != n {
		t.Fatalf("len(Order()) = %d, want %d", len(got), n)
	}
	for i, f := range got {
		if f != &m.Fixtures[i] {
			t.Fatalf("Order()[%d] = %s, want a pointer to fixture %s", i, f.Name, m.Fixtures[i].Name)
		}
	}
}

func TestOrderForwardReferences(t *testing.T) {
	m, err := ReadFile(filepath.Join("testdata", "shop.toml"))
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}

	got, err := m.Order(context.Background())
	if err != nil {
		t.Fatalf("Order() error: %v", err)
	}
	want := []string{"orgs", "users", "products", "orders"}
	if !slices.Equal(names(got), want) {
		t.Errorf("Order() = %v, want %v", names(got), want)
	}

	got, err = m.Order(context.Background(), "products", "users")
	if err != nil {
		t.Fatalf("Order() error: %v", err)
	}
	want = []string{"products", "orgs", "users"}
	if !slices.Equal(names(got), want) {
		t.Errorf("Order(products, users) = %v, want %v", names(got), want)
	}
}

func TestOrderCycle(t *testing.T) {
	m, err := ReadFile(filepath.Join("testdata", "cycle.toml"))
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}

	_, err = m.Order(context.Background())
	if !ferrors.Is(err, ferrors.ErrCodeCircularDependency) {
		t.Fatalf("Order() error = %v, want CIRCULAR_DEPENDENCY", err)
	}

	var cerr *graph.CircularDependencyError[string]
	if !errors.As(err, &cerr) {
		t.Fatal("error chain should contain *graph.CircularDependencyError")
	}
	if cerr.Error() != "Circular dependency c > a" {
		t.Errorf("cycle = %q, want %q", cerr.Error(), "Circular dependency c > a")
	}

	if err := m.Validate(); !ferrors.Is(err, ferrors.ErrCodeCircularDependency) {
		t.Errorf("Validate() error = %v, want CIRCULAR_DEPENDENCY", err)
	}
}

func TestOrderMissingDependency(t *testing.T) {
	m, err := Parse([]byte(`{"fixtures":[{"name":"c","depends_on":["x"]}]}`), FormatJSON)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	_, err = m.Order(context.Background())
	if !ferrors.Is(err, ferrors.ErrCodeMissingDependency) {
		t.Fatalf("Order() error = %v, want MISSING_DEPENDENCY", err)
	}
	if !errors.Is(err, graph.ErrMissingDependency) {
		t.Error("error chain should match graph.ErrMissingDependency")
	}
	want := `MISSING_DEPENDENCY: build fixture graph: Dependency "x" required for "c" but is not set.`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestOrderUnknownFixture(t *testing.T) {
	m, err := Parse([]byte(letters), FormatJSON)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	for _, args := range [][]string{{"zzz"}, {"a", "zzz"}} {
		_, err := m.Order(context.Background(), args...)
		if !ferrors.Is(err, ferrors.ErrCodeFixtureNotFound) {
			t.Errorf("Order(%v) error = %v, want FIXTURE_NOT_FOUND", args, err)
		}
	}
}

func TestValidate(t *testing.T) {
	m, err := ReadFile(filepath.Join("testdata", "shop.yaml"))
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if err := m.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
}

func TestOrderEmitsHooks(t *testing.T) {
	rec := &recordingHooks{}
	observability.SetResolveHooks(rec)
	defer observability.Reset()

	m, _ := Parse([]byte(letters), FormatJSON)
	if _, err := m.Order(context.Background(), "b", "c"); err != nil {
		t.Fatalf("Order() error: %v", err)
	}

	if rec.mode != ModeSubset || rec.seeds != 2 || rec.resolved != 4 {
		t.Errorf("hooks saw mode=%s seeds=%d resolved=%d", rec.mode, rec.seeds, rec.resolved)
	}
}

type recordingHooks struct {
	mode     string
	seeds    int
	resolved int
}

func (r *recordingHooks) OnResolveStart(_ context.Context, mode string, seeds int) {
	r.mode, r.seeds = mode, seeds
}

func (r *recordingHooks) OnResolveComplete(_ context.Context, _ string, resolved int, _ time.Duration, _ error) {
	r.resolved = resolved
}
