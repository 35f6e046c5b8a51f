package offline

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/colorsplash/pkg/buildinfo"
	"github.com/matzehuels/colorsplash/pkg/cache"
)

func TestNewURLOrigin(t *testing.T) {
	tests := []struct {
		base    string
		wantErr bool
	}{
		{"https://example.com/app/", false},
		{"/relative", true},
		{"://bad", true},
	}
	for _, tt := range tests {
		_, err := NewURLOrigin(tt.base)
		if (err != nil) != tt.wantErr {
			t.Errorf("NewURLOrigin(%q) err = %v, wantErr %v", tt.base, err, tt.wantErr)
		}
	}
}

func TestURLOriginFetch(t *testing.T) {
	var calls atomic.Int32
	var agent atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agent.Store(r.UserAgent())
		switch r.URL.Path {
		case "/app/flaky.css":
			if calls.Add(1) < 2 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.Header().Set("Content-Type", "text/css")
			_, _ = w.Write([]byte("body{}"))
		case "/app/index.html":
			_, _ = w.Write([]byte("<html>"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	o, err := NewURLOrigin(srv.URL + "/app/")
	if err != nil {
		t.Fatal(err)
	}
	o.Backoff = time.Millisecond
	ctx := context.Background()

	resp, err := o.Fetch(ctx, "/flaky.css")
	if err != nil {
		t.Fatal(err)
	}
	if resp.Status != http.StatusOK || string(resp.Body) != "body{}" {
		t.Errorf("flaky = %d %q", resp.Status, resp.Body)
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want a retry", calls.Load())
	}
	if got := agent.Load().(string); got != buildinfo.UserAgent() {
		t.Errorf("User-Agent = %q", got)
	}

	resp, err = o.Fetch(ctx, "/index.html")
	if err != nil || string(resp.Body) != "<html>" {
		t.Errorf("index = %v, %v", resp, err)
	}

	resp, err = o.Fetch(ctx, "/missing")
	if err != nil {
		t.Fatal(err)
	}
	if resp.Status != http.StatusNotFound || resp.OK() {
		t.Errorf("missing status = %d", resp.Status)
	}
}

func TestURLOriginUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	o, err := NewURLOrigin(base)
	if err != nil {
		t.Fatal(err)
	}
	o.Attempts, o.Backoff = 2, time.Millisecond
	if _, err := o.Fetch(context.Background(), "/x"); err == nil {
		t.Error("expected an error from a closed server")
	}
}

func TestURLOriginStaysOnBaseHost(t *testing.T) {
	var leaked atomic.Int32
	other := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		leaked.Add(1)
		_, _ = w.Write([]byte("from-other-host"))
	}))
	defer other.Close()
	app := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("app:" + r.URL.Path))
	}))
	defer app.Close()

	o, err := NewURLOrigin(app.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	o.Attempts, o.Backoff = 1, time.Millisecond
	otherHost := strings.TrimPrefix(other.URL, "http://")

	targets := []string{
		"/" + other.URL + "/secret",
		other.URL + "/secret",
		"//" + otherHost + "/secret",
		"///" + otherHost + "/secret",
		"http:" + otherHost + "/secret",
	}
	for _, target := range targets {
		t.Run(target, func(t *testing.T) {
			resp, err := o.Fetch(context.Background(), target)
			if err != nil {
				t.Fatal(err)
			}
			if strings.Contains(string(resp.Body), "from-other-host") {
				t.Errorf("body = %q, fetched from another host", resp.Body)
			}
		})
	}

	t.Run("through worker", func(t *testing.T) {
		w := New(Config{Store: cache.NewMemoryCache(), Origin: o})
		rec := httptest.NewRecorder()
		w.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/"+other.URL+"/secret", nil))
		if strings.Contains(rec.Body.String(), "from-other-host") {
			t.Errorf("status=%d body=%q, relayed another host", rec.Code, rec.Body.String())
		}
	})

	if n := leaked.Load(); n != 0 {
		t.Errorf("other host received %d requests", n)
	}

	resp, err := o.Fetch(context.Background(), "/sprites/apple.png?v=2")
	if err != nil {
		t.Fatal(err)
	}
	if string(resp.Body) != "app:/sprites/apple.png" {
		t.Errorf("same-host fetch = %q", resp.Body)
	}
}

func TestFSOriginDirectoryIndex(t *testing.T) {
	o := FSOrigin{FS: assetFS()}
	resp, err := o.Fetch(context.Background(), "/?utm=1")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(resp.Body), "index.html") {
		t.Errorf("body = %q", resp.Body)
	}
	resp, err = o.Fetch(context.Background(), "/../../etc/passwd")
	if err != nil {
		t.Fatal(err)
	}
	if resp.Status != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.Status)
	}
}
