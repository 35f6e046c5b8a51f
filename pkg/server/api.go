package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/colorsplash/pkg/canvas"
	cserrors "github.com/matzehuels/colorsplash/pkg/errors"
	"github.com/matzehuels/colorsplash/pkg/session"
	"github.com/matzehuels/colorsplash/pkg/stencil"
	"github.com/matzehuels/colorsplash/pkg/studio"
)

type paletteColor struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

type paletteResponse struct {
	Colors        []paletteColor `json:"colors"`
	Eraser        paletteColor   `json:"eraser"`
	Stencils      []string       `json:"stencils"`
	DefaultRadius int            `json:"default_radius"`
}

func hex(c canvas.Color) paletteColor {
	return paletteColor{Name: c.Name, Hex: fmt.Sprintf("#%02x%02x%02x", c.RGBA.R, c.RGBA.G, c.RGBA.B)}
}

func (s *Server) handlePalette(w http.ResponseWriter, r *http.Request) {
	resp := paletteResponse{
		Eraser:        hex(canvas.Eraser),
		Stencils:      stencil.Names(),
		DefaultRadius: canvas.DefaultRadius,
	}
	for _, c := range canvas.Palette() {
		resp.Colors = append(resp.Colors, hex(c))
	}
	writeJSON(w, http.StatusOK, resp)
}

type createRequest struct {
	ViewportWidth float64 `json:"viewport_width"`
}

type createResponse struct {
	ID   string `json:"id"`
	Size int    `json:"size"`
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, cserrors.Wrap(cserrors.ErrCodeInvalidInput, err, "invalid request body"))
			return
		}
	}
	opts := s.studio
	if req.ViewportWidth > 0 {
		opts.ViewportWidth = req.ViewportWidth
	}

	sess := session.New(s.ctx, opts)
	if err := s.store.Set(r.Context(), sess); err != nil {
		sess.Close()
		s.writeError(w, err)
		return
	}

	var size int
	sess.Studio.View(func(v studio.View) { size = v.Surface().Width() })
	s.logger.Info("session started", "session", sess.ID, "size", size)
	writeJSON(w, http.StatusCreated, createResponse{ID: sess.ID, Size: size})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.writeError(w, sessionError(id, err))
		return
	}
	s.logger.Info("session ended", "session", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCanvas(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookup(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var data []byte
	if !sess.Studio.View(func(v studio.View) { data, err = v.PNG() }) {
		s.writeError(w, cserrors.New(cserrors.ErrCodeStopped, "session %s has ended", sess.ID))
		return
	}
	if err != nil {
		s.writeError(w, cserrors.Wrap(cserrors.ErrCodeInternal, err, "encode surface"))
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sess, err := s.lookup(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	name, data, ok := sess.Export()
	if !ok {
		s.writeError(w, cserrors.New(cserrors.ErrCodeNothingToExport, "nothing saved yet"))
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}

func (s *Server) lookup(r *http.Request) (*session.Session, error) {
	id := chi.URLParam(r, "id")
	sess, err := s.store.Get(r.Context(), id)
	if err != nil {
		return nil, sessionError(id, err)
	}
	sess.Touch()
	return sess, nil
}

func sessionError(id string, err error) error {
	if errors.Is(err, session.ErrNotFound) {
		return cserrors.Wrap(cserrors.ErrCodeSessionNotFound, err, "session %s not found", id)
	}
	return err
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := cserrors.GetCode(err)
	if code == "" {
		code = cserrors.ErrCodeInternal
	}
	status := cserrors.HTTPStatus(code)
	if status >= 500 {
		s.logger.Error("request failed", "err", err)
	}
	var body errorBody
	body.Error.Code = string(code)
	body.Error.Message = cserrors.UserMessage(err)
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
