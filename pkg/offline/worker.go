// Package offline is the cache-first asset worker that lets the app run
// without a network.
//
// [Worker.Install] fetches every manifest entry and stores them all, or
// none. [Worker.Fetch] then answers from the cache and only goes to the
// origin on a miss. Network answers are passed through and never stored, so
// the cache only ever holds what Install put there.
package offline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/colorsplash/pkg/cache"
	cserrors "github.com/matzehuels/colorsplash/pkg/errors"
	"github.com/matzehuels/colorsplash/pkg/observability"
)

// Config configures a Worker. Store and Origin are required.
type Config struct {
	Version  string
	Manifest []string
	Store    cache.Cache
	Origin   Origin
	// TTL applied to installed entries. Zero keeps them forever.
	TTL    time.Duration
	Logger *log.Logger
}

// Worker intercepts asset requests.
type Worker struct {
	version  string
	manifest []string
	store    cache.Cache
	keyer    cache.Keyer
	origin   Origin
	ttl      time.Duration
	logger   *log.Logger
}

// New creates a worker. Empty Version and Manifest take the defaults.
func New(cfg Config) *Worker {
	if cfg.Version == "" {
		cfg.Version = DefaultVersion
	}
	if cfg.Manifest == nil {
		cfg.Manifest = DefaultManifest()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	return &Worker{
		version:  cfg.Version,
		manifest: cfg.Manifest,
		store:    cfg.Store,
		keyer:    cache.NewScopedKeyer(cache.NewDefaultKeyer(), cfg.Version+":"),
		origin:   cfg.Origin,
		ttl:      cfg.TTL,
		logger:   cfg.Logger,
	}
}

// Version returns the cache version identifier.
func (w *Worker) Version() string { return w.version }

// Manifest returns the entries Install caches.
func (w *Worker) Manifest() []string { return append([]string(nil), w.manifest...) }

// Install fetches every manifest entry and, only if all of them succeed,
// stores them. Any failure is an INSTALL_FAILED error.
func (w *Worker) Install(ctx context.Context) error {
	type entry struct {
		key  string
		data []byte
	}
	entries := make([]entry, 0, len(w.manifest))

	for _, item := range w.manifest {
		target, err := Resolve(item)
		if err != nil {
			return cserrors.Wrap(cserrors.ErrCodeInstallFailed, err, "bad manifest entry %q", item)
		}
		resp, err := w.origin.Fetch(ctx, target)
		if err != nil {
			return cserrors.Wrap(cserrors.ErrCodeInstallFailed, err, "fetch %s", target)
		}
		if !resp.OK() {
			return cserrors.New(cserrors.ErrCodeInstallFailed, "fetch %s: status %d", target, resp.Status)
		}
		data, err := json.Marshal(resp)
		if err != nil {
			return cserrors.Wrap(cserrors.ErrCodeInstallFailed, err, "encode %s", target)
		}
		entries = append(entries, entry{key: w.keyer.AssetKey(target), data: data})
	}

	hooks := observability.Cache()
	for _, e := range entries {
		if err := w.store.Set(ctx, e.key, e.data, w.ttl); err != nil {
			return cserrors.Wrap(cserrors.ErrCodeInstallFailed, err, "store %s", e.key)
		}
		hooks.OnCacheSet(ctx, "asset", len(e.data))
	}
	w.logger.Info("offline cache installed", "version", w.version, "assets", len(entries))
	return nil
}

// Uninstall removes this version's manifest entries from the store.
func (w *Worker) Uninstall(ctx context.Context) error {
	for _, item := range w.manifest {
		target, err := Resolve(item)
		if err != nil {
			continue
		}
		if err := w.store.Delete(ctx, w.keyer.AssetKey(target)); err != nil {
			return fmt.Errorf("delete %s: %w", target, err)
		}
	}
	return nil
}

// Status describes one manifest entry in the store.
type Status struct {
	Entry  string
	Target string
	Cached bool
	Size   int
}

// Status reports which manifest entries are cached.
func (w *Worker) Status(ctx context.Context) ([]Status, error) {
	out := make([]Status, 0, len(w.manifest))
	for _, item := range w.manifest {
		target, err := Resolve(item)
		if err != nil {
			return nil, err
		}
		st := Status{Entry: item, Target: target}
		resp, ok, err := w.lookup(ctx, target)
		if err != nil {
			return nil, err
		}
		if ok {
			st.Cached, st.Size = true, len(resp.Body)
		}
		out = append(out, st)
	}
	return out, nil
}

// Fetch answers target from the cache, falling back to the origin on a
// miss. Origin answers are not stored.
func (w *Worker) Fetch(ctx context.Context, target string) (*Response, error) {
	hooks := observability.Cache()
	resp, ok, err := w.lookup(ctx, target)
	if err != nil {
		w.logger.Warn("cache read failed", "target", target, "err", err)
	}
	if ok {
		hooks.OnCacheHit(ctx, "asset")
		return resp, nil
	}
	hooks.OnCacheMiss(ctx, "asset")

	resp, err = w.origin.Fetch(ctx, target)
	if err != nil {
		return nil, cserrors.Wrap(cserrors.ErrCodeNetwork, err, "fetch %s", target)
	}
	return resp, nil
}

func (w *Worker) lookup(ctx context.Context, target string) (*Response, bool, error) {
	data, ok, err := w.store.Get(ctx, w.keyer.AssetKey(target))
	if err != nil || !ok {
		return nil, false, err
	}
	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, false, fmt.Errorf("decode cached %s: %w", target, err)
	}
	return &resp, true, nil
}

// ServeHTTP answers GET and HEAD requests through Fetch.
func (w *Worker) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		rw.Header().Set("Allow", "GET, HEAD")
		http.Error(rw, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}
	resp, err := w.Fetch(r.Context(), r.URL.RequestURI())
	if err != nil {
		w.logger.Error("asset fetch failed", "path", r.URL.Path, "err", err)
		http.Error(rw, cserrors.UserMessage(err), cserrors.HTTPStatus(cserrors.GetCode(err)))
		return
	}
	for k, vs := range resp.Header {
		for _, v := range vs {
			rw.Header().Add(k, v)
		}
	}
	rw.WriteHeader(resp.Status)
	if r.Method == http.MethodGet {
		_, _ = rw.Write(resp.Body)
	}
}
