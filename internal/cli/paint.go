package cli

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/colorsplash/pkg/audio"
	"github.com/matzehuels/colorsplash/pkg/script"
	"github.com/matzehuels/colorsplash/pkg/studio"
)

type paintOpts struct {
	output   string
	viewport float64
	sound    bool
}

// paintCommand replays a paint script and exports the result.
func (c *CLI) paintCommand() *cobra.Command {
	opts := paintOpts{output: "."}

	cmd := &cobra.Command{
		Use:   "paint SCRIPT.toml",
		Short: "Replay a paint script and save the picture",
		Long: `Replay a paint script against a fresh canvas and save the picture.

A script is a TOML file of [[step]] tables. Each step picks a color, the
eraser, a brush size or a stencil, paints a stroke, resizes the canvas or
runs an action (clear, undo, redo, save). The final canvas is always saved.`,
		Example: `  # Color the apple and save my_fruit_coloring.png here
  colorsplash paint apple.toml

  # Save into a directory with sound
  colorsplash paint apple.toml -o out/ --sound`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPaint(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "directory for the exported picture")
	cmd.Flags().Float64Var(&opts.viewport, "viewport", 0, "viewport width in pixels (overrides the script)")
	cmd.Flags().BoolVar(&opts.sound, "sound", false, "play sound cues while replaying")

	return cmd
}

func (c *CLI) runPaint(cmd *cobra.Command, path string, opts paintOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	sc, err := script.Load(path)
	if err != nil {
		return err
	}

	so := studioOptions(cfg, logger)
	so.Downloader = studio.DirDownloader{Dir: opts.output}
	so.ViewportWidth = sc.Viewport
	if opts.viewport > 0 {
		so.ViewportWidth = opts.viewport
	}
	so.Player = audio.Silent
	if opts.sound {
		player, closePlayer := newPlayer(cfg, logger)
		defer closePlayer()
		so.Player = player
	}

	st := studio.New(ctx, so)
	go func() { _ = st.Run(ctx) }()

	if err := sc.Run(st); err != nil {
		return interrupted(ctx, err)
	}
	if !endsWithSave(sc) {
		if out := st.Dispatch(studio.Save{}); out.Err != nil {
			return interrupted(ctx, out.Err)
		}
	}
	prog.done("Replayed " + pluralSteps(len(sc.Steps)))

	printSuccess("Painted %s", filepath.Base(path))
	printFile(filepath.Join(opts.output, studio.ExportFilename))
	return nil
}

// interrupted reports the context error instead of err once ctx has ended,
// so an interrupted replay exits like any other canceled command.
func interrupted(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

func endsWithSave(sc *script.Script) bool {
	n := len(sc.Steps)
	return n > 0 && strings.EqualFold(sc.Steps[n-1].Action, "save")
}

func pluralSteps(n int) string {
	if n == 1 {
		return "1 step"
	}
	return strconv.Itoa(n) + " steps"
}
