// Package fakeapi provides an in-process stand-in for the platform HTTP API.
// Handlers are registered per command or query name; every request is
// recorded for later inspection in tests.
package fakeapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// Call is one recorded request.
type Call struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   []byte
	// Name is the command or query name for envelope requests.
	Name string
	// Kind is "command" or "query" for envelope requests.
	Kind   string
	Params map[string]any
}

// Handler answers an envelope request with a status and a JSON body.
type Handler func(params map[string]any) (int, any)

// Server is a fake platform API backed by httptest.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	handlers map[string]Handler
	routes   map[string]http.HandlerFunc
	calls    []Call
}

// New starts a server that is closed when the test ends.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		handlers: map[string]Handler{},
		routes:   map[string]http.HandlerFunc{},
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

// Handle registers h for the command or query called name.
func (s *Server) Handle(name string, h Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[name] = h
}

// Reply registers a handler that always answers 200 with body.
func (s *Server) Reply(name string, body any) {
	s.Handle(name, func(map[string]any) (int, any) { return http.StatusOK, body })
}

// Fail registers a handler that always answers status with an error body.
func (s *Server) Fail(name string, status int) {
	s.Handle(name, func(map[string]any) (int, any) {
		return status, map[string]any{"error": http.StatusText(status)}
	})
}

// Route registers a raw handler for method and path, bypassing envelope
// dispatch. Used for auth, upload and download endpoints.
func (s *Server) Route(method, path string, h http.HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes[method+" "+path] = h
}

// Calls returns every recorded request in arrival order.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

// CallsTo returns the recorded envelope requests for name.
func (s *Server) CallsTo(name string) []Call {
	var out []Call
	for _, c := range s.Calls() {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	call := Call{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.RawQuery,
		Header: r.Header.Clone(),
		Body:   body,
	}

	var env struct {
		Command string         `json:"command"`
		Query   string         `json:"query"`
		Params  map[string]any `json:"params"`
	}
	if r.Method == http.MethodPost && json.Unmarshal(body, &env) == nil {
		call.Params = env.Params
		switch {
		case env.Command != "":
			call.Name, call.Kind = env.Command, "command"
		case env.Query != "":
			call.Name, call.Kind = env.Query, "query"
		}
	}

	s.mu.Lock()
	s.calls = append(s.calls, call)
	route := s.routes[r.Method+" "+r.URL.Path]
	h := s.handlers[call.Name]
	s.mu.Unlock()

	if route != nil {
		r.Body = io.NopCloser(bytes.NewReader(body))
		route(w, r)
		return
	}
	if call.Name == "" || h == nil {
		WriteJSON(w, http.StatusNotFound, map[string]any{"error": fmt.Sprintf("no handler for %s %s %q", r.Method, r.URL.Path, call.Name)})
		return
	}
	status, resp := h(call.Params)
	WriteJSON(w, status, resp)
}

// WriteJSON writes v as a JSON response with status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Data wraps v as {"data": v}.
func Data(v any) map[string]any {
	return map[string]any{"data": v}
}

// ID wraps id as {"data": {"id": id}}.
func ID(id string) map[string]any {
	return Data(map[string]any{"id": id})
}

// Page builds a list response page.
func Page(items []any, page, total int) map[string]any {
	return Data(map[string]any{"items": items, "page": page, "total": total})
}
