package offline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/matzehuels/colorsplash/pkg/buildinfo"
	"github.com/matzehuels/colorsplash/pkg/httputil"
	"github.com/matzehuels/colorsplash/pkg/observability"
)

// Response is a stored or fetched asset response.
type Response struct {
	Status int         `json:"status"`
	Header http.Header `json:"headers"`
	Body   []byte      `json:"body"`
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// Origin is the network the worker falls back to.
type Origin interface {
	// Fetch requests target, a path plus optional query. A non-2xx answer is
	// a Response, not an error; errors mean the origin was unreachable.
	Fetch(ctx context.Context, target string) (*Response, error)
}

// FSOrigin serves assets from a filesystem rooted at the app directory.
// Directory requests serve their index.html.
type FSOrigin struct {
	FS fs.FS
}

// Fetch reads target from the filesystem.
func (o FSOrigin) Fetch(_ context.Context, target string) (*Response, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, err
	}
	name := strings.TrimPrefix(path.Clean("/"+u.Path), "/")
	if name == "" || strings.HasSuffix(u.Path, "/") {
		name = path.Join(name, "index.html")
	}

	data, err := fs.ReadFile(o.FS, name)
	if errors.Is(err, fs.ErrNotExist) {
		return &Response{Status: http.StatusNotFound, Header: http.Header{}}, nil
	}
	if err != nil {
		return nil, err
	}

	h := http.Header{}
	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		h.Set("Content-Type", ct)
	}
	return &Response{Status: http.StatusOK, Header: h, Body: data}, nil
}

// URLOrigin fetches assets from a remote base URL. Transient failures are
// retried with backoff.
type URLOrigin struct {
	Base     *url.URL
	Client   *http.Client
	Attempts int
	Backoff  time.Duration
}

// NewURLOrigin parses base and returns an origin with default retry
// settings.
func NewURLOrigin(base string) (*URLOrigin, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse origin: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("origin %q must be absolute", base)
	}
	return &URLOrigin{
		Base:     u,
		Client:   &http.Client{Timeout: 30 * time.Second},
		Attempts: 3,
		Backoff:  200 * time.Millisecond,
	}, nil
}

// Fetch requests target relative to Base. Only the path and query of target
// are used; a target naming another scheme or host is answered 404 without
// any request.
func (o *URLOrigin) Fetch(ctx context.Context, target string) (*Response, error) {
	u, ok := o.resolve(target)
	if !ok {
		return &Response{Status: http.StatusNotFound, Header: http.Header{}}, nil
	}
	client := o.Client
	if client == nil {
		client = http.DefaultClient
	}
	hooks := observability.HTTP()

	var out *Response
	err := httputil.Retry(ctx, o.Attempts, o.Backoff, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return err
		}
		req.Header.Set("User-Agent", buildinfo.UserAgent())

		hooks.OnRequest(ctx, req.Method, u.Host, u.Path)
		start := time.Now()
		resp, err := client.Do(req)
		if err != nil {
			hooks.OnError(ctx, req.Method, u.Host, u.Path, err)
			return &httputil.RetryableError{Err: err}
		}
		defer resp.Body.Close()
		hooks.OnResponse(ctx, req.Method, u.Host, u.Path, resp.StatusCode, time.Since(start))

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return &httputil.RetryableError{Err: err}
		}
		out = &Response{Status: resp.StatusCode, Header: resp.Header.Clone(), Body: body}
		if httputil.Transient(resp.StatusCode) {
			return &httputil.RetryableError{Err: fmt.Errorf("%s: %s", u, resp.Status)}
		}
		return nil
	})
	if err != nil && out == nil {
		return nil, err
	}
	return out, nil
}

func (o *URLOrigin) resolve(target string) (*url.URL, bool) {
	ref, err := url.Parse(target)
	if err != nil || ref.IsAbs() || ref.Host != "" || ref.Opaque != "" {
		return nil, false
	}
	rel := &url.URL{Path: strings.TrimLeft(ref.Path, "/"), RawQuery: ref.RawQuery}
	u := o.Base.ResolveReference(rel)
	if u.Scheme != o.Base.Scheme || u.Host != o.Base.Host {
		return nil, false
	}
	return u, true
}
