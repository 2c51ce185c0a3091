// Lectern - Category-Weighted Article Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/lectern

package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/lectern/internal/app"
	"github.com/tomtom215/lectern/internal/config"
	"github.com/tomtom215/lectern/internal/supervisor"
	"github.com/tomtom215/lectern/internal/supervisor/services"
)

func TestNewHTTPServer(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"svd.json":               `{"kind":"svd","global_mean":3,"rating_scale":[1,5],"users":{},"items":{}}`,
		"cat_rating_by_user.csv": "user_id,category_id,nb_clicks\n7,3,6\n",
		"articles_by_user.csv":   "user_id,article_id\n7,301\n8,302\n",
		"articles_metadata.csv":  "article_id,category_id\n301,3\n302,3\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	cfg := &config.Config{
		Server:   config.ServerConfig{Host: "127.0.0.1", Port: 9090, ReadTimeout: time.Second, WriteTimeout: time.Second, RequestTimeout: time.Second, Environment: "development"},
		Security: config.SecurityConfig{CORSOrigins: []string{"*"}, RateLimitDisabled: true},
		Resources: config.ResourcesConfig{
			Backend: "file",
			Dir:     dir,
			Names:   config.NamesConfig{Model: "svd.json", CategoryCounts: "cat_rating_by_user.csv", History: "articles_by_user.csv", Catalog: "articles_metadata.csv"},
		},
		Recommend: config.RecommendConfig{Strategy: "category", TopN: 10, SlotCount: 5, MaxCategories: 5, CandidateScope: "history", SkipImpossible: true},
	}

	reco, err := app.Open(context.Background(), cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("app.Open() error = %v", err)
	}
	defer reco.Close()

	server, err := newHTTPServer(cfg, reco)
	if err != nil {
		t.Fatalf("newHTTPServer() error = %v", err)
	}
	if server.Addr != "127.0.0.1:9090" {
		t.Errorf("Addr = %q, want 127.0.0.1:9090", server.Addr)
	}

	// User 7 is unknown to the empty model, so the history fallback serves 302.
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/get_reco?user_id=7", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"reco_arts":"[302]"`) {
		t.Errorf("body = %s, want reco_arts [302]", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	if !strings.Contains(rec.Body.String(), `"version":"dev"`) {
		t.Errorf("health body = %s, want version dev", rec.Body.String())
	}
}

// stubbornService ignores cancellation until released.
type stubbornService struct{ release chan struct{} }

func (s *stubbornService) Serve(context.Context) error {
	<-s.release
	return nil
}

func (s *stubbornService) String() string { return "stubborn" }

func TestServe_ReturnsAfterCancel(t *testing.T) {
	tests := []struct {
		name     string
		stubborn bool
		grace    time.Duration
	}{
		{name: "clean shutdown", grace: 5 * time.Second},
		{name: "service ignores cancellation", stubborn: true, grace: 200 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := supervisor.NewSupervisorTree(
				slog.New(slog.NewTextHandler(io.Discard, nil)),
				supervisor.TreeConfig{ShutdownTimeout: 300 * time.Millisecond},
			)
			if err != nil {
				t.Fatalf("NewSupervisorTree() error = %v", err)
			}

			server := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler(), ReadHeaderTimeout: time.Second}
			tree.AddAPIService(services.NewHTTPServerService(server, services.HTTPServiceConfig{
				Addr:            server.Addr,
				ShutdownTimeout: time.Second,
			}, zerolog.Nop()))

			if tt.stubborn {
				svc := &stubbornService{release: make(chan struct{})}
				defer close(svc.release)
				tree.AddDataService(svc)
			}

			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan error, 1)
			go func() { done <- serve(ctx, tree, tt.grace) }()

			time.Sleep(100 * time.Millisecond)
			cancel()

			select {
			case err := <-done:
				if err != nil {
					t.Errorf("serve() error = %v, want nil", err)
				}
			case <-time.After(5 * time.Second):
				t.Fatal("serve() did not return after cancellation")
			}
		})
	}
}
