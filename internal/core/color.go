package core

// Color represents a foreground color for a screen cell.
// The platform layer maps these to lipgloss styles.
type Color uint8

// Predefined colors for board elements.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
)

// Palette assigns colors to the board elements.
type Palette struct {
	Snake  Color
	Head   Color
	Apple  Color
	Gold   Color
	Hazard Color
	Frame  Color
}

// DefaultPalette is the standard color scheme.
func DefaultPalette() Palette {
	return Palette{
		Snake:  ColorGreen,
		Head:   ColorBrightGreen,
		Apple:  ColorRed,
		Gold:   ColorYellow,
		Hazard: ColorMagenta,
		Frame:  ColorGray,
	}
}

// ColorblindPalette avoids relying on red/green contrast.
func ColorblindPalette() Palette {
	return Palette{
		Snake:  ColorBlue,
		Head:   ColorBrightCyan,
		Apple:  ColorOrange,
		Gold:   ColorBrightYellow,
		Hazard: ColorBrightWhite,
		Frame:  ColorGray,
	}
}
