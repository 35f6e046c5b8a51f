package cli

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/colorsplash/pkg/offline"
)

// writeApp lays out every manifest file under a fresh directory. Stencils
// are real PNGs; the rest is placeholder text.
func writeApp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, entry := range offline.DefaultManifest() {
		target, err := offline.Resolve(entry)
		if err != nil {
			t.Fatal(err)
		}
		name := strings.TrimPrefix(target, "/")
		if name == "" {
			continue
		}
		data := []byte("asset " + name)
		if strings.HasSuffix(name, ".png") {
			data = pngBytes(t, color.NRGBA{A: 0xff})
		}
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func pngBytes(t *testing.T, c color.NRGBA) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// writeConfig writes a config for a test app and returns its path.
func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "colorsplash.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func tomlPath(p string) string {
	return strings.ReplaceAll(p, `\`, `\\`)
}

// execute runs the root command with args and returns what it wrote.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommandSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	want := []string{"palette", "paint", "tui", "serve", "cache", "completion"}
	for _, name := range want {
		t.Run(name, func(t *testing.T) {
			cmd, _, err := root.Find([]string{name})
			if err != nil || cmd.Name() != name {
				t.Errorf("Find(%q) = %v, %v", name, cmd, err)
			}
		})
	}
}

func TestUnknownConfigFails(t *testing.T) {
	_, err := execute(t, "--config", filepath.Join(t.TempDir(), "missing.toml"), "cache", "path")
	if err == nil {
		t.Fatal("expected error for missing config")
	}
}
