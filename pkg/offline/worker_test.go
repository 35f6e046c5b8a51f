package offline

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"testing/fstest"

	"github.com/matzehuels/colorsplash/pkg/cache"
	cserrors "github.com/matzehuels/colorsplash/pkg/errors"
)

func assetFS() fstest.MapFS {
	fsys := fstest.MapFS{}
	for _, e := range DefaultManifest() {
		if e == "./" {
			continue
		}
		name := strings.TrimPrefix(e, "./")
		fsys[name] = &fstest.MapFile{Data: []byte("v1 " + name)}
	}
	return fsys
}

// countingOrigin counts origin fetches.
type countingOrigin struct {
	Origin
	n atomic.Int32
}

func (c *countingOrigin) Fetch(ctx context.Context, target string) (*Response, error) {
	c.n.Add(1)
	return c.Origin.Fetch(ctx, target)
}

func TestResolve(t *testing.T) {
	tests := map[string]string{
		"./":                      "/",
		"./index.html":            "/index.html",
		"./images/apple.png":      "/images/apple.png",
		"./sounds/fruit-load.mp3": "/sounds/fruit-load.mp3",
		"./script.js?v=2":         "/script.js?v=2",
	}
	for in, want := range tests {
		got, err := Resolve(in)
		if err != nil {
			t.Fatalf("Resolve(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("Resolve(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDefaultManifest(t *testing.T) {
	m := DefaultManifest()
	if len(m) != 16 {
		t.Fatalf("len = %d, want 16", len(m))
	}
	if m[0] != "./" || m[15] != "./sounds/background.mp3" {
		t.Errorf("manifest = %v", m)
	}
}

func TestInstallStoresEverything(t *testing.T) {
	ctx := context.Background()
	w := New(Config{Store: cache.NewMemoryCache(), Origin: FSOrigin{FS: assetFS()}})

	if err := w.Install(ctx); err != nil {
		t.Fatalf("Install: %v", err)
	}
	statuses, err := w.Status(ctx)
	if err != nil {
		t.Fatal(err)
	}
	for _, st := range statuses {
		if !st.Cached {
			t.Errorf("%s not cached", st.Entry)
		}
	}
}

func TestInstallIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	fsys := assetFS()
	delete(fsys, "sounds/click.mp3")
	store := cache.NewMemoryCache()
	w := New(Config{Store: store, Origin: FSOrigin{FS: fsys}})

	err := w.Install(ctx)
	if !cserrors.Is(err, cserrors.ErrCodeInstallFailed) {
		t.Fatalf("err = %v, want INSTALL_FAILED", err)
	}
	if store.Len() != 0 {
		t.Errorf("store has %d entries after failed install", store.Len())
	}
}

func TestFetchIsCacheFirst(t *testing.T) {
	ctx := context.Background()
	fsys := assetFS()
	w := New(Config{Store: cache.NewMemoryCache(), Origin: FSOrigin{FS: fsys}})
	if err := w.Install(ctx); err != nil {
		t.Fatal(err)
	}

	fsys["index.html"] = &fstest.MapFile{Data: []byte("v2")}
	for _, target := range []string{"/", "/index.html"} {
		resp, err := w.Fetch(ctx, target)
		if err != nil {
			t.Fatal(err)
		}
		if string(resp.Body) != "v1 index.html" {
			t.Errorf("Fetch(%q) = %q, want cached v1", target, resp.Body)
		}
		if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
			t.Errorf("Content-Type = %q", ct)
		}
	}
}

func TestFetchMissFallsThroughWithoutStoring(t *testing.T) {
	ctx := context.Background()
	fsys := fstest.MapFS{"extra.txt": {Data: []byte("hello")}}
	origin := &countingOrigin{Origin: FSOrigin{FS: fsys}}
	store := cache.NewMemoryCache()
	w := New(Config{Store: store, Origin: origin})

	for i := 0; i < 2; i++ {
		resp, err := w.Fetch(ctx, "/extra.txt")
		if err != nil {
			t.Fatal(err)
		}
		if string(resp.Body) != "hello" {
			t.Errorf("body = %q", resp.Body)
		}
	}
	if got := origin.n.Load(); got != 2 {
		t.Errorf("origin fetches = %d, want 2", got)
	}
	if store.Len() != 0 {
		t.Errorf("network response was written back")
	}

	resp, err := w.Fetch(ctx, "/missing.txt")
	if err != nil {
		t.Fatal(err)
	}
	if resp.Status != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.Status)
	}
}

func TestFetchOriginUnreachable(t *testing.T) {
	down := originFunc(func(context.Context, string) (*Response, error) {
		return nil, errors.New("offline")
	})
	w := New(Config{Store: cache.NewMemoryCache(), Origin: down})
	_, err := w.Fetch(context.Background(), "/index.html")
	if !cserrors.Is(err, cserrors.ErrCodeNetwork) {
		t.Errorf("err = %v, want NETWORK_ERROR", err)
	}
}

type originFunc func(context.Context, string) (*Response, error)

func (f originFunc) Fetch(ctx context.Context, target string) (*Response, error) {
	return f(ctx, target)
}

func TestVersionScoping(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryCache()
	fsys := assetFS()

	v1 := New(Config{Store: store, Origin: FSOrigin{FS: fsys}})
	if err := v1.Install(ctx); err != nil {
		t.Fatal(err)
	}

	v2 := New(Config{Version: "color-splash-v2", Store: store, Origin: FSOrigin{FS: fsys}})
	statuses, err := v2.Status(ctx)
	if err != nil {
		t.Fatal(err)
	}
	for _, st := range statuses {
		if st.Cached {
			t.Errorf("v2 sees v1 entry %s", st.Entry)
		}
	}

	if err := v2.Install(ctx); err != nil {
		t.Fatal(err)
	}
	if store.Len() != 32 {
		t.Errorf("store has %d entries, want both generations (32)", store.Len())
	}
}

func TestUninstall(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryCache()
	w := New(Config{Store: store, Origin: FSOrigin{FS: assetFS()}})
	if err := w.Install(ctx); err != nil {
		t.Fatal(err)
	}
	if err := w.Uninstall(ctx); err != nil {
		t.Fatal(err)
	}
	if store.Len() != 0 {
		t.Errorf("store has %d entries after uninstall", store.Len())
	}
}

func TestServeHTTP(t *testing.T) {
	w := New(Config{Store: cache.NewMemoryCache(), Origin: FSOrigin{FS: assetFS()}})
	if err := w.Install(context.Background()); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		method     string
		path       string
		wantStatus int
		wantBody   string
	}{
		{http.MethodGet, "/", http.StatusOK, "v1 index.html"},
		{http.MethodGet, "/images/apple.png", http.StatusOK, "v1 images/apple.png"},
		{http.MethodHead, "/style.css", http.StatusOK, ""},
		{http.MethodGet, "/nope.png", http.StatusNotFound, ""},
		{http.MethodPost, "/", http.StatusMethodNotAllowed, ""},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			w.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantBody != "" && rec.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.wantBody)
			}
			if tt.method == http.MethodHead && rec.Body.Len() != 0 {
				t.Error("HEAD wrote a body")
			}
		})
	}
}
