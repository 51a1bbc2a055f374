package game

import (
	"fmt"

	"github.com/thornevale/runedelve/internal/gridview"
	"github.com/thornevale/runedelve/internal/textwrap"
)

var (
	hpBarFg   = gridview.Color{R: 200, G: 60, B: 60}
	dimText   = gridview.Color{R: 150, G: 150, B: 150}
	brightFg  = gridview.Color{R: 255, G: 255, B: 120}
	messageFg = gridview.Color{R: 210, G: 210, B: 210}
)

// drawSidebar repaints the player readout.  The grid's change tracking
// keeps the repaint free when nothing moved.
func (g *Game) drawSidebar() {
	grid := g.sidebarGrid
	w := g.world
	player := w.Entity(w.PlayerID)
	if player == nil {
		return
	}

	grid.ClearColor(gridview.White, gridview.Black)
	grid.PrintColor(1, 1, "Runedelve", true, brightFg, gridview.Black)
	grid.PrintColor(1, 3, fmt.Sprintf("HP %d/%d", player.HP, player.MaxHP), true, gridview.White, gridview.Black)
	grid.DrawBar(false, 1, 4, sidebarCells-2, 0, player.HP, player.MaxHP, hpBarFg, gridview.Black)
	grid.PrintColor(1, 6, fmt.Sprintf("Depth: %d", w.Map.Depth), true, dimText, gridview.Black)
	grid.PrintColor(1, 7, fmt.Sprintf("Turn:  %d", w.TurnCount), true, dimText, gridview.Black)
	grid.PrintColor(1, 8, fmt.Sprintf("Items: %d", len(player.Inventory)), true, dimText, gridview.Black)
}

// drawMessages repaints the message log, word-wrapped to the grid width,
// newest messages at the bottom.
func (g *Game) drawMessages() {
	grid := g.messageGrid
	grid.ClearColor(gridview.White, gridview.Black)

	width := grid.Width() - 2
	if width < 1 {
		width = 1
	}

	var lines []string
	for _, msg := range g.world.Messages.Recent(messageRows) {
		lines = append(lines, textwrap.Lines(msg, width)...)
	}
	if len(lines) > messageRows {
		lines = lines[len(lines)-messageRows:]
	}
	for i, line := range lines {
		grid.PrintColor(1, i, line, true, messageFg, gridview.Black)
	}
}
