package cli

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/colorsplash/pkg/canvas"
	"github.com/matzehuels/colorsplash/pkg/observability"
	"github.com/matzehuels/colorsplash/pkg/stencil"
	"github.com/matzehuels/colorsplash/pkg/studio"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

const (
	// Rows above the canvas: title and key help.
	painterHeader = 2
	// Rows below the canvas: status line.
	painterFooter = 2

	frameInterval = 100 * time.Millisecond
	sizeStep      = 2
)

type tuiOpts struct {
	output  string
	stencil string
	color   string
}

// tuiCommand starts the terminal painter.
func (c *CLI) tuiCommand() *cobra.Command {
	opts := tuiOpts{output: "."}

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Color a fruit in the terminal",
		Long: `Color a fruit in the terminal with the mouse.

Drag with the left button to paint. Keys: 1-5 pick a color, e the eraser,
+/- change the brush size, f picks a fruit, c clears, u undoes, r redoes,
s saves and q quits.`,
		Example: `  colorsplash tui --fruit apple --color purple
  colorsplash tui -o ~/Pictures`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTUI(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "directory for saved pictures")
	cmd.Flags().StringVar(&opts.stencil, "fruit", "", "fruit to start with")
	cmd.Flags().StringVar(&opts.color, "color", "", "color to start with")
	_ = cmd.RegisterFlagCompletionFunc("fruit", completeFruits)
	_ = cmd.RegisterFlagCompletionFunc("color", completeColors)

	return cmd
}

func (c *CLI) runTUI(cmd *cobra.Command, opts tuiOpts) error {
	ctx := cmd.Context()

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	// Log lines would tear the canvas.
	quiet := log.New(io.Discard)

	player, closePlayer := newPlayer(cfg, quiet)
	defer closePlayer()

	so := studioOptions(cfg, quiet)
	so.Player = player
	so.Downloader = studio.DirDownloader{Dir: opts.output}
	so.Hooks = observability.NoopStudioHooks{}
	st := studio.New(ctx, so)
	go func() { _ = st.Run(ctx) }()

	if opts.stencil != "" {
		st.Dispatch(studio.PickStencil{Name: opts.stencil})
	}
	if opts.color != "" {
		if out := st.Dispatch(studio.PickColor{Name: opts.color}); out.Err != nil {
			return out.Err
		}
	}

	p := tea.NewProgram(NewPainterModel(st, cfg.Canvas.ViewportFraction), tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(PainterModel); ok && m.Saved > 0 {
		printSuccess("Saved %d time(s)", m.Saved)
		printFile(filepath.Join(opts.output, studio.ExportFilename))
	}
	return nil
}

// =============================================================================
// PainterModel - Interactive coloring
// =============================================================================

type frameMsg time.Time

func nextFrame() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

// PainterModel is the bubbletea model driving a studio. Terminal cells map
// to one pixel column and two pixel rows.
type PainterModel struct {
	Studio   *studio.Studio
	Fraction float64
	Saved    int

	picker  *StencilListModel
	frame   string
	status  string
	message string
}

// NewPainterModel creates a painter for st. fraction is the share of the
// terminal width the canvas may take.
func NewPainterModel(st *studio.Studio, fraction float64) PainterModel {
	if fraction <= 0 {
		fraction = canvas.DefaultFraction
	}
	m := PainterModel{Studio: st, Fraction: fraction}
	m.refresh()
	return m
}

func (m PainterModel) Init() tea.Cmd {
	return nextFrame()
}

func (m PainterModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.picker != nil {
		return m.updatePicker(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "q" || msg.String() == "ctrl+c" || msg.String() == "esc" {
			return m, tea.Quit
		}
		m.handleKey(msg.String())
	case tea.MouseMsg:
		m.handleMouse(msg)
	case tea.WindowSizeMsg:
		m.Studio.Dispatch(studio.Resize{ViewportWidth: fitViewport(msg.Width, msg.Height, m.Fraction)})
	case frameMsg:
		m.refresh()
		return m, nextFrame()
	}
	m.refresh()
	return m, nil
}

func (m *PainterModel) handleKey(key string) {
	var ev studio.Event
	switch key {
	case "1", "2", "3", "4", "5":
		i, _ := strconv.Atoi(key)
		ev = studio.PickColor{Name: canvas.Palette()[i-1].Name}
	case "e":
		ev = studio.PickEraser{}
	case "+", "=":
		ev = studio.SetBrushSize{Value: strconv.Itoa(m.radius() + sizeStep)}
	case "-":
		ev = studio.SetBrushSize{Value: strconv.Itoa(max(m.radius()-sizeStep, 1))}
	case "c":
		ev = studio.ClearCanvas{}
	case "u":
		ev = studio.Undo{}
	case "r":
		ev = studio.Redo{}
	case "s":
		ev = studio.Save{}
	case "f":
		picker := NewStencilListModel(stencil.Names())
		m.picker = &picker
		return
	default:
		return
	}

	out := m.Studio.Dispatch(ev)
	switch {
	case out.Err != nil:
		m.message = StyleWarning.Render(out.Err.Error())
	case key == "s":
		m.Saved++
		m.message = StyleSuccess.Render("saved " + studio.ExportFilename)
	default:
		m.message = ""
	}
}

func (m *PainterModel) handleMouse(msg tea.MouseMsg) {
	x, y, inside := m.toCanvas(msg.X, msg.Y)
	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && inside:
		m.Studio.Dispatch(studio.PointerDown{X: x, Y: y})
	case msg.Action == tea.MouseActionMotion && inside:
		m.Studio.Dispatch(studio.PointerMove{X: x, Y: y})
	case msg.Action == tea.MouseActionRelease:
		m.Studio.Dispatch(studio.PointerUp{})
	}
}

// toCanvas maps a terminal cell to surface coordinates. The y coordinate is
// the center of the cell's two pixel rows.
func (m PainterModel) toCanvas(col, row int) (x, y float64, inside bool) {
	var size int
	m.Studio.View(func(v studio.View) { size = v.Surface().Width() })
	row -= painterHeader
	x, y = float64(col)+0.5, float64(row*2)+1
	return x, y, col >= 0 && row >= 0 && col < size && row*2 < size
}

func (m PainterModel) radius() int {
	var r float64
	m.Studio.View(func(v studio.View) { r = v.Tools().Radius })
	return int(r)
}

// fitViewport returns the viewport width whose square canvas fits a
// terminal of the given size.
func fitViewport(width, height int, fraction float64) float64 {
	rows := height - painterHeader - painterFooter
	side := min(width, rows*2)
	if side < 1 {
		side = 1
	}
	return float64(side) / fraction
}

func (m *PainterModel) refresh() {
	var (
		img   *image.NRGBA
		tools canvas.Tools
		fruit string
		undo  int
		redo  int
		state studio.State
	)
	ok := m.Studio.View(func(v studio.View) {
		img = v.Surface().Image()
		tools, fruit = v.Tools(), v.Stencil()
		undo, redo = v.UndoLen(), v.RedoLen()
		state = v.State()
	})
	if !ok {
		return
	}
	m.frame = renderSurface(img)

	if fruit == "" {
		fruit = "none"
	}
	swatch := lipgloss.NewStyle().Background(lipgloss.Color(hexColor(tools.Color))).Render("  ")
	m.status = fmt.Sprintf("%s %s  size %d  fruit %s  undo %d  redo %d  %s",
		swatch, tools.Color.Name, int(tools.Radius), fruit, undo, redo, state)
}

func (m PainterModel) View() string {
	if m.picker != nil {
		return m.picker.View()
	}

	var b strings.Builder
	b.WriteString(StyleTitle.Render("Color Splash"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("1-5 color  e eraser  +/- size  f fruit  c clear  u undo  r redo  s save  q quit"))
	b.WriteString("\n")
	b.WriteString(m.frame)
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(m.status))
	if m.message != "" {
		b.WriteString("  ")
		b.WriteString(m.message)
	}
	return b.String()
}

func (m PainterModel) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(frameMsg); ok {
		m.refresh()
		return m, nextFrame()
	}
	next, _ := m.picker.Update(msg)
	picker := next.(StencilListModel)
	switch {
	case picker.Selected != "":
		m.picker = nil
		m.Studio.Dispatch(studio.PickStencil{Name: picker.Selected})
		m.message = ""
	case picker.Canceled:
		m.picker = nil
	default:
		m.picker = &picker
	}
	m.refresh()
	return m, nil
}

// renderSurface draws img with upper half blocks: the foreground is the
// even pixel row, the background the odd one. Runs of identical cells share
// one style.
func renderSurface(img *image.NRGBA) string {
	b := img.Bounds()
	var out strings.Builder
	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		if y > b.Min.Y {
			out.WriteByte('\n')
		}
		var run int
		var top, bottom color.NRGBA
		flush := func() {
			if run == 0 {
				return
			}
			out.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(rgbHex(top))).
				Background(lipgloss.Color(rgbHex(bottom))).
				Render(strings.Repeat("▀", run)))
			run = 0
		}
		for x := b.Min.X; x < b.Max.X; x++ {
			t := img.NRGBAAt(x, y)
			bt := canvas.Background
			if y+1 < b.Max.Y {
				bt = img.NRGBAAt(x, y+1)
			}
			if run > 0 && (t != top || bt != bottom) {
				flush()
			}
			top, bottom = t, bt
			run++
		}
		flush()
	}
	return out.String()
}

func rgbHex(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// =============================================================================
// StencilListModel - Fruit selection
// =============================================================================

// StencilListModel is the bubbletea model for picking a fruit.
type StencilListModel struct {
	Names    []string
	Cursor   int
	Selected string
	Canceled bool
}

// NewStencilListModel creates a fruit list.
func NewStencilListModel(names []string) StencilListModel {
	return StencilListModel{Names: names}
}

func (m StencilListModel) Init() tea.Cmd {
	return nil
}

func (m StencilListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.Canceled = true
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Names)-1 {
				m.Cursor++
			}
		case "enter":
			m.Selected = m.Names[m.Cursor]
		}
	}
	return m, nil
}

func (m StencilListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Pick a Fruit"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  esc back"))
	b.WriteString("\n\n")

	for i, name := range m.Names {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		line := cursor + name
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}
