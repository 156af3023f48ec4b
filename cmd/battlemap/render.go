package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/jwebster45206/battlemap/pkg/coord"
	"github.com/jwebster45206/battlemap/pkg/state"
)

// cellWidth is the number of terminal columns one grid cell takes, including
// the gap to its right neighbour.
const cellWidth = 5

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	tokenStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("214")). // yellow
			Bold(true)

	dmStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("196")). // red
		Bold(true)

	playerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")). // teal
			Bold(true)

	rollStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	inputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal
)

var titleCaser = cases.Title(language.English)

// camera is the top-left cell of the visible part of the map.
type camera struct {
	column int
	row    int
}

// clamp keeps the camera inside a map of the given size when visCols x visRows
// cells fit on screen.
func (c camera) clamp(bm state.BattlemapState, visCols, visRows int) camera {
	c.column = min(c.column, bm.Columns-visCols)
	c.row = min(c.row, bm.Rows-visRows)
	c.column = max(c.column, 0)
	c.row = max(c.row, 0)
	return c
}

// occupancy maps every covered cell to the token drawn there. Tokens earlier
// in turn order win when footprints overlap.
func occupancy(gs *state.GameState) map[[2]int]state.TokenState {
	cells := make(map[[2]int]state.TokenState)
	for _, c := range gs.TurnOrder() {
		t := c.Token
		col, row, err := t.Position.Cell()
		if err != nil {
			continue
		}
		n := t.Footprint()
		for dc := range n {
			for dr := range n {
				key := [2]int{col + dc, row + dr}
				if _, taken := cells[key]; !taken {
					cells[key] = t
				}
			}
		}
	}
	return cells
}

// renderGrid draws visCols x visRows cells starting at the camera. Empty cells
// show their chess label; covered cells show the token's id.
func renderGrid(gs *state.GameState, cam camera, visCols, visRows int) string {
	bm := gs.Battlemap
	cells := occupancy(gs)

	var b strings.Builder
	for row := cam.row; row < cam.row+visRows && row < bm.Rows; row++ {
		for col := cam.column; col < cam.column+visCols && col < bm.Columns; col++ {
			if t, ok := cells[[2]int{col, row}]; ok {
				b.WriteString(tokenStyle.Render(fit(t.ID, cellWidth-1)))
			} else {
				b.WriteString(labelStyle.Render(fit(coord.MustChess(col, row), cellWidth-1)))
			}
			b.WriteByte(' ')
		}
		b.WriteByte('\n')
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// fit pads or truncates s to exactly n runes.
func fit(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n])
	}
	return s + strings.Repeat(" ", n-len(r))
}

// renderSidePanel lists the session and the initiative order, read from each
// token's actor. Hit points are only shown to the DM.
func renderSidePanel(gs *state.GameState, dmMode bool) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("BATTLE MAP") + "\n")
	if dmMode {
		b.WriteString(dmStyle.Render("DM Mode") + "\n\n")
	} else {
		b.WriteString(playerStyle.Render("Player Mode") + "\n\n")
	}

	bm := gs.Battlemap
	fmt.Fprintf(&b, "Session:\n%s...\n\n", gs.ID.String()[:8])
	fmt.Fprintf(&b, "Map:\n%s\n%d x %d\n\n", bm.Image, bm.Columns, bm.Rows)

	b.WriteString(titleStyle.Render("INITIATIVE") + "\n")
	order := gs.TurnOrder()
	if len(order) == 0 {
		b.WriteString("No tokens\n")
	}
	for _, c := range order {
		t := c.Token
		fmt.Fprintf(&b, "%3d %s (%s)\n", c.Initiative(), t.Name, t.ID)
		fmt.Fprintf(&b, "    %s at %s", titleCaser.String(t.Size), t.Position)
		if dmMode {
			fmt.Fprintf(&b, ", HP %d/%d", c.Actor.HP(), c.Actor.MaxHP())
		}
		b.WriteByte('\n')
	}

	b.WriteString("\n")
	b.WriteString("Keys:\n")
	b.WriteString("• Enter: Send\n")
	b.WriteString("• Shift+Arrows: Pan\n")
	b.WriteString("• Ctrl+Y: Copy last\n")
	b.WriteString("• Ctrl+C: Quit\n")
	return b.String()
}

// renderLog wraps and styles the output log for a pane of the given width.
func renderLog(entries []logEntry, width int) string {
	var b strings.Builder
	for _, e := range entries {
		text := wordwrap.String(e.text, max(width, 10))
		switch e.kind {
		case entryInput:
			b.WriteString(inputStyle.Render(":: " + text))
		case entryRoll:
			b.WriteString(rollStyle.Render(text))
		case entryError:
			b.WriteString(errorStyle.Render(text))
		default:
			b.WriteString(text)
		}
		b.WriteString("\n")
	}
	return b.String()
}

type entryKind int

const (
	entryInfo entryKind = iota
	entryInput
	entryRoll
	entryError
)

type logEntry struct {
	kind entryKind
	text string
}
