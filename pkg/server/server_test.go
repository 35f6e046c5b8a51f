package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/gorilla/websocket"

	"github.com/matzehuels/colorsplash/pkg/cache"
	"github.com/matzehuels/colorsplash/pkg/canvas"
	"github.com/matzehuels/colorsplash/pkg/offline"
	"github.com/matzehuels/colorsplash/pkg/session"
	"github.com/matzehuels/colorsplash/pkg/studio"
)

func solidPNG(t *testing.T, c color.NRGBA) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	fsys := fstest.MapFS{
		"index.html":       {Data: []byte("<h1>Color Splash</h1>")},
		"images/apple.png": {Data: solidPNG(t, canvas.Green.RGBA)},
	}
	worker := offline.New(offline.Config{
		Store:    cache.NewMemoryCache(),
		Origin:   offline.FSOrigin{FS: fsys},
		Manifest: []string{"./", "./images/apple.png"},
	})
	if err := worker.Install(context.Background()); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	srv := New(ctx, Config{
		Worker: worker,
		Store:  session.NewMemoryStore(time.Hour),
		Studio: studio.Options{MaxSize: 60},
	})
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return ts
}

func createSession(t *testing.T, ts *httptest.Server, body string) createResponse {
	t.Helper()
	resp, err := http.Post(ts.URL+"/api/sessions", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	var out createResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	return out
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body errorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	return body.Error.Code
}

func TestPalette(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/api/palette")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var p paletteResponse
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		t.Fatal(err)
	}
	if len(p.Colors) != 5 || p.Colors[2] != (paletteColor{Name: "green", Hex: "#008000"}) {
		t.Errorf("colors = %+v", p.Colors)
	}
	if p.Eraser.Hex != "#ffffff" || p.DefaultRadius != 10 || len(p.Stencils) != 5 {
		t.Errorf("palette = %+v", p)
	}
}

func TestAssetsServedByWorker(t *testing.T) {
	ts := newTestServer(t)
	tests := []struct {
		path   string
		status int
	}{
		{"/", http.StatusOK},
		{"/images/apple.png", http.StatusOK},
		{"/sounds/click.mp3", http.StatusNotFound},
	}
	for _, tt := range tests {
		resp, err := http.Get(ts.URL + tt.path)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != tt.status {
			t.Errorf("GET %s = %d, want %d", tt.path, resp.StatusCode, tt.status)
		}
	}
}

func TestSessionLifecycle(t *testing.T) {
	ts := newTestServer(t)

	sess := createSession(t, ts, `{"viewport_width": 50}`)
	if sess.ID == "" || sess.Size != 45 {
		t.Fatalf("session = %+v", sess)
	}

	resp, err := http.Get(ts.URL + "/api/sessions/" + sess.ID + "/canvas.png")
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 45 {
		t.Errorf("canvas width = %d", img.Bounds().Dx())
	}

	resp, err = http.Get(ts.URL + "/api/sessions/" + sess.ID + "/export")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusNotFound || errorCode(t, resp) != "NOTHING_TO_EXPORT" {
		t.Errorf("export before save = %d", resp.StatusCode)
	}
	resp.Body.Close()

	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/sessions/"+sess.ID, nil)
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete = %d", resp.StatusCode)
	}

	resp, err = http.Get(ts.URL + "/api/sessions/" + sess.ID + "/canvas.png")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound || errorCode(t, resp) != "SESSION_NOT_FOUND" {
		t.Errorf("canvas after delete = %d", resp.StatusCode)
	}
}

func TestCreateRejectsBadBody(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Post(ts.URL+"/api/sessions", "application/json", strings.NewReader("{"))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

type socket struct {
	t    *testing.T
	conn *websocket.Conn
	seq  int
}

func dial(t *testing.T, ts *httptest.Server, id string) *socket {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/sessions/" + id + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { conn.Close() })
	return &socket{t: t, conn: conn}
}

// send writes msg and returns its outcome, collecting notices seen on the way.
func (s *socket) send(msg map[string]any) (outcome, []session.Notice) {
	s.t.Helper()
	s.seq++
	msg["seq"] = s.seq
	if err := s.conn.WriteJSON(msg); err != nil {
		s.t.Fatal(err)
	}
	var notices []session.Notice
	_ = s.conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		var raw json.RawMessage
		if err := s.conn.ReadJSON(&raw); err != nil {
			s.t.Fatal(err)
		}
		var probe struct {
			Type string `json:"type"`
		}
		_ = json.Unmarshal(raw, &probe)
		if probe.Type == "outcome" {
			var out outcome
			_ = json.Unmarshal(raw, &out)
			if out.Seq == s.seq {
				return out, notices
			}
			continue
		}
		var n session.Notice
		_ = json.Unmarshal(raw, &n)
		notices = append(notices, n)
	}
}

// notice returns the first notice matching pred, looking at seen first.
func (s *socket) notice(seen []session.Notice, pred func(session.Notice) bool) session.Notice {
	s.t.Helper()
	for _, n := range seen {
		if pred(n) {
			return n
		}
	}
	_ = s.conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		var n session.Notice
		if err := s.conn.ReadJSON(&n); err != nil {
			s.t.Fatal(err)
		}
		if pred(n) {
			return n
		}
	}
}

func TestSocketPaintsAndExports(t *testing.T) {
	ts := newTestServer(t)
	sess := createSession(t, ts, "")
	ws := dial(t, ts, sess.ID)

	out, _ := ws.send(map[string]any{"type": "touchstart", "client_x": 110, "client_y": 210, "origin_x": 100, "origin_y": 200})
	if !out.PreventDefault || out.Error != nil {
		t.Errorf("touchstart outcome = %+v", out)
	}
	ws.send(map[string]any{"type": "touchmove", "client_x": 130, "client_y": 230, "origin_x": 100, "origin_y": 200})
	ws.send(map[string]any{"type": "touchend"})

	out, _ = ws.send(map[string]any{"type": "color", "name": "teal"})
	if out.Error == nil || out.Error.Code != "INVALID_INPUT" {
		t.Errorf("bad color outcome = %+v", out)
	}
	out, _ = ws.send(map[string]any{"type": "wave"})
	if out.Error == nil {
		t.Error("unknown event accepted")
	}

	_, seen := ws.send(map[string]any{"type": "save"})
	n := ws.notice(seen, func(n session.Notice) bool { return n.Type == session.NoticeDownload })
	if n.Filename != studio.ExportFilename {
		t.Errorf("download notice = %+v", n)
	}

	resp, err := http.Get(ts.URL + "/api/sessions/" + sess.ID + "/export")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if cd := resp.Header.Get("Content-Disposition"); !strings.Contains(cd, studio.ExportFilename) {
		t.Errorf("Content-Disposition = %q", cd)
	}
	img, err := png.Decode(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if got := color.NRGBAModel.Convert(img.At(30, 30)); got != canvas.Red.RGBA {
		t.Errorf("exported pixel = %v, want red", got)
	}
}

func TestSocketLoadsStencilThroughWorker(t *testing.T) {
	ts := newTestServer(t)
	sess := createSession(t, ts, "")
	ws := dial(t, ts, sess.ID)

	_, seen := ws.send(map[string]any{"type": "stencil", "name": "apple"})
	ws.notice(seen, func(n session.Notice) bool { return n.Cue == "fruit-load" })

	resp, err := http.Get(ts.URL + "/api/sessions/" + sess.ID + "/canvas.png")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	img, err := png.Decode(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if got := color.NRGBAModel.Convert(img.At(10, 10)); got != canvas.Green.RGBA {
		t.Errorf("pixel = %v, want stencil green", got)
	}
}

func TestSocketClosesWhenSessionDeleted(t *testing.T) {
	ts := newTestServer(t)
	sess := createSession(t, ts, "")
	ws := dial(t, ts, sess.ID)

	if out, _ := ws.send(map[string]any{"type": "undo"}); out.Error != nil {
		t.Fatalf("undo before delete = %+v", out)
	}

	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/sessions/"+sess.ID+"/", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete = %d", resp.StatusCode)
	}

	// The write may race the server's close frame; either way the reader
	// must hear back promptly.
	_ = ws.conn.WriteJSON(map[string]any{"seq": 99, "type": "undo"})
	_ = ws.conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		var raw json.RawMessage
		err := ws.conn.ReadJSON(&raw)
		if err != nil {
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				t.Fatalf("no reply after session deleted: %v", err)
			}
			if !websocket.IsCloseError(err, websocket.CloseGoingAway) {
				t.Errorf("read err = %v, want going-away close", err)
			}
			return
		}
		var out outcome
		if json.Unmarshal(raw, &out) == nil && out.Type == "outcome" && out.Seq == 99 {
			if out.Error == nil || out.Error.Code != "STOPPED" {
				t.Errorf("outcome after delete = %+v, want STOPPED", out)
			}
		}
	}
}

func TestSocketUnknownSession(t *testing.T) {
	ts := newTestServer(t)
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/sessions/missing/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("dial succeeded")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Errorf("resp = %v", resp)
	}
}
