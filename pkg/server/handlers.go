package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/fixturegraph/pkg/buildinfo"
	ferrors "github.com/matzehuels/fixturegraph/pkg/errors"
	"github.com/matzehuels/fixturegraph/pkg/fixture"
	"github.com/matzehuels/fixturegraph/pkg/render/nodelink"
)

// FixtureInfo describes one fixture in API responses.
type FixtureInfo struct {
	Name        string   `json:"name"`
	DependsOn   []string `json:"depends_on"`
	Target      string   `json:"target"`
	Description string   `json:"description,omitempty"`
}

// FixturesResponse is returned by GET /v1/fixtures.
type FixturesResponse struct {
	Manifest string        `json:"manifest"`
	Fixtures []FixtureInfo `json:"fixtures"`
}

// OrderResponse is returned by the ordering endpoints.
type OrderResponse struct {
	Order []string `json:"order"`
}

// ResolveRequest is the body of POST /v1/resolve.
type ResolveRequest struct {
	Fixtures []fixture.Fixture `json:"fixtures"`
	Only     []string          `json:"only,omitempty"`
}

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Code    ferrors.Code `json:"code"`
	Message string       `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
}

func (s *Server) handleFixtures(w http.ResponseWriter, r *http.Request) {
	resp := FixturesResponse{Manifest: s.manifest.Name, Fixtures: make([]FixtureInfo, 0, len(s.manifest.Fixtures))}
	for _, f := range s.manifest.Fixtures {
		deps := f.DependsOn
		if deps == nil {
			deps = []string{}
		}
		resp.Fixtures = append(resp.Fixtures, FixtureInfo{
			Name:        f.Name,
			DependsOn:   deps,
			Target:      f.TargetName(),
			Description: f.Description,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleOrder(w http.ResponseWriter, r *http.Request) {
	s.writeOrder(w, r, s.manifest, splitList(r.URL.Query()["only"]))
}

func (s *Server) handleFixtureOrder(w http.ResponseWriter, r *http.Request) {
	s.writeOrder(w, r, s.manifest, []string{chi.URLParam(r, "name")})
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	detailed, _ := strconv.ParseBool(r.URL.Query().Get("detailed"))
	dot, err := nodelink.ToDOT(s.manifest, nodelink.Options{Detailed: detailed})
	if err != nil {
		writeError(w, err)
		return
	}

	switch format := r.URL.Query().Get("format"); format {
	case "", "dot":
		w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
		_, _ = w.Write([]byte(dot))
	case "svg":
		svg, err := nodelink.RenderSVG(r.Context(), dot)
		if err != nil {
			writeError(w, ferrors.Wrap(ferrors.ErrCodeInternal, err, "render svg"))
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		_, _ = w.Write(svg)
	default:
		writeError(w, ferrors.New(ferrors.ErrCodeInvalidFormat, "unsupported graph format %q (want dot or svg)", format))
	}
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	var req ResolveRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, ferrors.Wrap(ferrors.ErrCodeInvalidInput, err, "decode request"))
		return
	}

	m, err := fixture.New("request", req.Fixtures)
	if err != nil {
		writeError(w, err)
		return
	}
	s.writeOrder(w, r, m, req.Only)
}

func (s *Server) writeOrder(w http.ResponseWriter, r *http.Request, m *fixture.Manifest, names []string) {
	order, err := m.Order(r.Context(), names...)
	if err != nil {
		writeError(w, err)
		return
	}
	resp := OrderResponse{Order: make([]string, len(order))}
	for i, f := range order {
		resp.Order[i] = f.Name
	}
	writeJSON(w, http.StatusOK, resp)
}

// splitList flattens repeated and comma-separated query values.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func errNotFound(path string) error {
	return ferrors.New(ferrors.ErrCodeNotFound, "no route for %s", path)
}

func statusFor(code ferrors.Code) int {
	switch code {
	case ferrors.ErrCodeNotFound, ferrors.ErrCodeFixtureNotFound:
		return http.StatusNotFound
	case ferrors.ErrCodeCircularDependency, ferrors.ErrCodeMissingDependency:
		return http.StatusUnprocessableEntity
	}
	if strings.HasPrefix(string(code), "INVALID_") {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, err error) {
	code := ferrors.GetCode(err)
	if code == "" {
		code = ferrors.ErrCodeInternal
	}
	writeJSON(w, statusFor(code), ErrorResponse{Code: code, Message: ferrors.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
