// Package session keeps the live painting sessions of the session server.
//
// Each [Session] owns one studio running on its own event loop. The studio
// reports sound cues and finished exports through the session's notice
// channel, which the server forwards to the connected client. Sessions live
// in memory only and expire after a period without activity.
package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/colorsplash/pkg/audio"
	"github.com/matzehuels/colorsplash/pkg/studio"
)

// Sentinel errors for session operations.
var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New("session not found")

	// ErrNoListener is returned by Play when no client drains notices.
	ErrNoListener = errors.New("no listener for playback")
)

// DefaultTTL is how long an untouched session survives.
const DefaultTTL = 30 * time.Minute

const noticeBuffer = 64

// Notice kinds.
const (
	NoticeCue      = "cue"
	NoticeDownload = "download"
)

// Notice is a message for the client driving a session.
type Notice struct {
	Type     string  `json:"type"`
	Cue      string  `json:"cue,omitempty"`
	File     string  `json:"file,omitempty"`
	Volume   float64 `json:"volume,omitempty"`
	Loop     bool    `json:"loop,omitempty"`
	Filename string  `json:"filename,omitempty"`
	Size     int     `json:"size,omitempty"`
}

// Session is one client's studio.
type Session struct {
	ID        string
	Studio    *studio.Studio
	CreatedAt time.Time

	lastSeen atomic.Int64
	notices  chan Notice
	stop     context.CancelFunc

	mu       sync.Mutex
	filename string
	export   []byte
}

// GenerateID returns a random session ID.
func GenerateID() string {
	return uuid.NewString()
}

// New starts a session. opts.Player and opts.Downloader are replaced by the
// session so cues and exports reach the client.
func New(ctx context.Context, opts studio.Options) *Session {
	ctx, cancel := context.WithCancel(ctx)
	s := &Session{
		ID:        GenerateID(),
		CreatedAt: time.Now(),
		notices:   make(chan Notice, noticeBuffer),
		stop:      cancel,
	}
	s.Touch()

	opts.Player = audio.PlayerFunc(s.play)
	opts.Downloader = studio.DownloaderFunc(s.download)
	opts.Loop = nil
	if opts.Logger != nil {
		opts.Logger = opts.Logger.With("session", s.ID)
	}
	s.Studio = studio.New(ctx, opts)
	go func() { _ = s.Studio.Run(ctx) }()
	return s
}

// Close stops the session's loop.
func (s *Session) Close() {
	s.stop()
}

// Touch records activity.
func (s *Session) Touch() {
	s.lastSeen.Store(time.Now().UnixNano())
}

// LastSeen returns the time of the latest activity.
func (s *Session) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

// IsExpired reports whether the session has been idle longer than ttl.
func (s *Session) IsExpired(ttl time.Duration) bool {
	return time.Since(s.LastSeen()) > ttl
}

// Notices delivers cues and download announcements. Notices are dropped
// while nobody reads.
func (s *Session) Notices() <-chan Notice {
	return s.notices
}

// Export returns the most recent export.
func (s *Session) Export() (string, []byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filename, s.export, s.export != nil
}

func (s *Session) notify(n Notice) bool {
	select {
	case s.notices <- n:
		return true
	default:
		return false
	}
}

func (s *Session) play(c audio.Cue) error {
	if !s.notify(Notice{Type: NoticeCue, Cue: c.String(), File: c.File(), Volume: c.Volume(), Loop: c.Loops()}) {
		return ErrNoListener
	}
	return nil
}

func (s *Session) download(_ context.Context, filename string, data []byte) error {
	s.mu.Lock()
	s.filename, s.export = filename, data
	s.mu.Unlock()
	s.notify(Notice{Type: NoticeDownload, Filename: filename, Size: len(data)})
	return nil
}
