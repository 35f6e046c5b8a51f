// Package pkg provides the libraries behind Color Splash, a coloring book
// for children.
//
// # Overview
//
// A child picks a fruit stencil, a color and a brush size, then paints over
// the stencil with a pointer or a finger. Every stroke can be undone, the
// canvas can be cleared back to the stencil, and the picture can be saved
// as a PNG. Sound cues accompany painting and button presses, and the app
// files are cached so the app keeps working offline.
//
// # Architecture
//
// Input flows through one event loop per drawing:
//
//	pointer / touch / control events
//	         ↓
//	    [studio] (state machine, owns everything below)
//	         ↓
//	    [canvas] + [history] + [stencil] + [audio]
//	         ↓
//	    PNG export via a studio.Downloader
//
// The app files reach the studio through the [offline] worker, which answers
// from a versioned [cache] and falls back to the network.
//
// # Main Packages
//
// ## Drawing
//
// [event] - Single-threaded event loop. Asynchronous work (decodes, stencil
// loads) completes back on the loop.
//
// [canvas] - Square raster surface, the palette, the eraser sentinel and
// brush radius parsing.
//
// [history] - Undo and redo stacks of PNG snapshots.
//
// [stencil] - The five fruit outlines and their loader.
//
// [audio] - Sound cues, background music and the beep mixer.
//
// [studio] - The painting state machine and its controls.
//
// [script] - TOML paint scripts replayed against a studio.
//
// ## Serving
//
// [offline] - Install-time precache and cache-first asset fetching.
//
// [cache] - Memory, file and Redis key-value backends.
//
// [session] - Live painting sessions and their expiry.
//
// [server] - HTTP API, WebSocket event stream and asset serving.
//
// ## Infrastructure
//
// [config] - TOML configuration.
//
// [errors] - Structured errors with stable codes.
//
// [observability] - Hooks for studio, cache and HTTP events.
//
// [httputil] - Retry helpers for remote asset origins.
//
// [buildinfo] - Version information set at build time.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/studio/...             # Specific package
//
// [event]: https://pkg.go.dev/github.com/matzehuels/colorsplash/pkg/event
// [canvas]: https://pkg.go.dev/github.com/matzehuels/colorsplash/pkg/canvas
// [history]: https://pkg.go.dev/github.com/matzehuels/colorsplash/pkg/history
// [stencil]: https://pkg.go.dev/github.com/matzehuels/colorsplash/pkg/stencil
// [audio]: https://pkg.go.dev/github.com/matzehuels/colorsplash/pkg/audio
// [studio]: https://pkg.go.dev/github.com/matzehuels/colorsplash/pkg/studio
// [script]: https://pkg.go.dev/github.com/matzehuels/colorsplash/pkg/script
// [offline]: https://pkg.go.dev/github.com/matzehuels/colorsplash/pkg/offline
// [cache]: https://pkg.go.dev/github.com/matzehuels/colorsplash/pkg/cache
// [session]: https://pkg.go.dev/github.com/matzehuels/colorsplash/pkg/session
// [server]: https://pkg.go.dev/github.com/matzehuels/colorsplash/pkg/server
// [config]: https://pkg.go.dev/github.com/matzehuels/colorsplash/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/colorsplash/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/colorsplash/pkg/observability
// [httputil]: https://pkg.go.dev/github.com/matzehuels/colorsplash/pkg/httputil
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/colorsplash/pkg/buildinfo
package pkg
