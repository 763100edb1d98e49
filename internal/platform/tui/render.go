package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/snake3d/internal/core"
	"github.com/vovakirdan/snake3d/internal/engine"
	"github.com/vovakirdan/snake3d/internal/grid"
	"github.com/vovakirdan/snake3d/internal/session"
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:       lipgloss.NewStyle(),
	core.ColorRed:           lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	core.ColorGreen:         lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	core.ColorYellow:        lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	core.ColorBlue:          lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	core.ColorMagenta:       lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	core.ColorCyan:          lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	core.ColorWhite:         lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	core.ColorBrightRed:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	core.ColorBrightGreen:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
	core.ColorBrightYellow:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	core.ColorBrightBlue:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	core.ColorBrightMagenta: lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
	core.ColorBrightCyan:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
	core.ColorBrightWhite:   lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
	core.ColorOrange:        lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	core.ColorGray:          lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			startColor := s.GetCell(x, y).Color

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[core.ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// Board glyphs.
const (
	glyphEmpty  = '·'
	glyphBody   = 'o'
	glyphHead   = '@'
	glyphApple  = '*'
	glyphGold   = '$'
	glyphHazard = 'X'
)

// hudRows is the number of screen rows above the board.
const hudRows = 2

// boardLayout places one panel per Y layer. Each panel shows x across and
// z down inside a frame.
type boardLayout struct {
	size    int
	cols    int
	rows    int
	originX int
	originY int
}

func (l boardLayout) panelSize() int {
	return l.size + 2
}

// panel returns the frame of layer y.
func (l boardLayout) panel(y int) core.Rect {
	p := l.panelSize()
	col, row := y%l.cols, y/l.cols
	return core.NewRect(l.originX+col*(p+1), l.originY+row*(p+1), p, p)
}

// cell returns the screen position of grid cell v.
func (l boardLayout) cell(v core.Vec3) (int, int) {
	r := l.panel(v.Y)
	return r.X + 1 + v.X, r.Y + 1 + v.Z
}

// height returns the rows the panels take.
func (l boardLayout) height() int {
	return l.rows * (l.panelSize() + 1)
}

func layoutBoard(size, screenW, top int) boardLayout {
	p := size + 2
	cols := max(1, min(size, (screenW+1)/(p+1)))
	rows := (size + cols - 1) / cols
	width := cols*(p+1) - 1
	return boardLayout{
		size:    size,
		cols:    cols,
		rows:    rows,
		originX: max(0, (screenW-width)/2),
		originY: top,
	}
}

// DrawBoard renders every layer of the board onto dst below the HUD.
// The layer holding the head gets a highlighted frame. Returns the first
// screen row below the board.
func DrawBoard(dst *core.Screen, snap engine.Snapshot, pal core.Palette) int {
	l := layoutBoard(snap.Size, dst.Width(), hudRows)
	head := snap.Head()

	for y := range snap.Size {
		r := l.panel(y)
		frame := pal.Frame
		if len(snap.Snake) > 0 && y == head.Y {
			frame = pal.Head
		}
		dst.DrawBox(r, frame)
		dst.DrawTextColored(r.X+1, r.Y, fmt.Sprintf("y%d", y), frame)

		for z := range snap.Size {
			for x := range snap.Size {
				sx, sy := l.cell(core.V(x, y, z))
				dst.SetColored(sx, sy, glyphEmpty, pal.Frame)
			}
		}
	}

	for _, it := range snap.Items {
		glyph, color := itemGlyph(it.Kind, pal)
		sx, sy := l.cell(it.Cell)
		dst.SetColored(sx, sy, glyph, color)
	}

	// Tail first so the head is drawn last
	for i := len(snap.Snake) - 1; i >= 0; i-- {
		glyph, color := glyphBody, pal.Snake
		if i == 0 {
			glyph, color = glyphHead, pal.Head
		}
		sx, sy := l.cell(snap.Snake[i])
		dst.SetColored(sx, sy, glyph, color)
	}
	return l.originY + l.height()
}

func itemGlyph(kind grid.CellKind, pal core.Palette) (rune, core.Color) {
	switch kind {
	case grid.Apple:
		return glyphApple, pal.Apple
	case grid.Gold:
		return glyphGold, pal.Gold
	case grid.Hazard:
		return glyphHazard, pal.Hazard
	default:
		return glyphEmpty, pal.Frame
	}
}

// DrawHUD renders the status line and the turn progress bar.
func DrawHUD(dst *core.Screen, snap engine.Snapshot, hard bool, pal core.Palette) {
	mode := "NORMAL"
	if hard {
		mode = "HARD"
	}
	if snap.Tutorial {
		mode = "TUTORIAL"
	}

	status := fmt.Sprintf("SNAKE 3D  Score %d  Apples %d  Gold %d  Len %d  Dir %s  Revives %d  %s",
		snap.Score, snap.Apples, snap.Gold, len(snap.Snake), snap.Direction, snap.RevivesLeft, mode)
	dst.DrawTextColored(1, 0, status, core.ColorBrightWhite)

	head := snap.Head()
	dst.DrawTextColored(1, 1, fmt.Sprintf("head %s", head), pal.Head)

	const barWidth = 20
	filled := int(snap.TurnProgress() * barWidth)
	bar := strings.Repeat("▮", filled) + strings.Repeat("▯", barWidth-filled)
	dst.DrawTextColored(dst.Width()-barWidth-1, 1, bar, pal.Frame)
}

// stateMessage returns the prompt shown under the board.
func stateMessage(snap engine.Snapshot) (string, core.Color) {
	switch snap.State {
	case session.SettingPosition:
		return "Press ENTER to place the board", core.ColorBrightCyan
	case session.WaitingToStart:
		return "SPACE start · T tutorial · H hard mode · B re-place", core.ColorBrightCyan
	case session.GamePaused:
		if snap.Previous == session.TutorialRunning {
			return "PAUSED · P resume · B leave tutorial", core.ColorYellow
		}
		return "PAUSED · P resume · R restart", core.ColorYellow
	case session.GameOver:
		if snap.CanRevive {
			return fmt.Sprintf("GAME OVER · score %d · V revive (%d left) · R restart", snap.Score, snap.RevivesLeft),
				core.ColorBrightRed
		}
		return fmt.Sprintf("GAME OVER · score %d · R restart", snap.Score), core.ColorBrightRed
	case session.TutorialRunning:
		if snap.Halted {
			return "Blocked! Pick a new direction", core.ColorOrange
		}
		return "Tutorial · steer with arrows, E and C · B to leave", core.ColorGray
	}
	return "", core.ColorDefault
}
