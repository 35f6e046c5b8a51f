package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/colorsplash/pkg/canvas"
	"github.com/matzehuels/colorsplash/pkg/stencil"
)

func (c *CLI) paletteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "palette",
		Short: "List colors, eraser and stencils",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(paletteTable())
			fmt.Println()
			printKeyValue("Stencils", fmt.Sprint(stencil.Names()))
			printKeyValue("Brush", strconv.Itoa(canvas.DefaultRadius)+"px default")
			return nil
		},
	}
}

func hexColor(c canvas.Color) string {
	return rgbHex(c.RGBA)
}

func paletteTable() string {
	colors := append(canvas.Palette(), canvas.Eraser)
	rows := make([][]string, 0, len(colors))
	for i, col := range colors {
		key := strconv.Itoa(i + 1)
		if col.IsEraser() {
			key = "e"
		}
		rows = append(rows, []string{key, col.Name, hexColor(col), "    "})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Key", "Color", "Hex", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			if col == 3 {
				return lipgloss.NewStyle().Background(lipgloss.Color(hexColor(colors[row])))
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		}).
		Render()
}
