package services_test

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"go.uber.org/zap"

	"bcibizz-gateway/internal/services"
)

// upstream is a fake REST API keyed by "METHOD /path".
type upstream struct {
	mu     sync.Mutex
	routes map[string]http.HandlerFunc
	calls  map[string]int
	auth   map[string]string
}

func newUpstream(t *testing.T, routes map[string]http.HandlerFunc) (*upstream, *services.APIClient) {
	t.Helper()

	u := &upstream{
		routes: routes,
		calls:  make(map[string]int),
		auth:   make(map[string]string),
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path

		u.mu.Lock()
		u.calls[key]++
		u.auth[key] = r.Header.Get("Authorization")
		handler, ok := u.routes[key]
		u.mu.Unlock()

		if !ok {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"message":"not found"}`))
			return
		}
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	return u, services.NewAPIClient(srv.URL, 0, zap.NewNop())
}

func (u *upstream) Calls(key string) int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.calls[key]
}

func (u *upstream) Authorization(key string) string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.auth[key]
}

func reply(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}
}
