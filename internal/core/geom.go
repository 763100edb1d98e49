// Package core provides fundamental types shared by the simulation and the
// presentation layers. It has no external dependencies (especially no Bubble Tea)
// so the game logic stays pure and testable.
package core

import (
	"fmt"
	"strings"
)

// Vec3 is an integer coordinate in the 3D grid.
type Vec3 struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
	Z int `json:"z" yaml:"z"`
}

// V is a convenience constructor for Vec3.
func V(x, y, z int) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Add returns the component-wise sum of two coordinates.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Step returns the coordinate one cell away in direction d.
func (v Vec3) Step(d Direction) Vec3 {
	return v.Add(d.Offset())
}

// Manhattan returns the taxicab distance to another coordinate.
func (v Vec3) Manhattan(o Vec3) int {
	return Abs(v.X-o.X) + Abs(v.Y-o.Y) + Abs(v.Z-o.Z)
}

// Adjacent reports whether two coordinates share a face.
func (v Vec3) Adjacent(o Vec3) bool {
	return v.Manhattan(o) == 1
}

// String returns a string representation of the coordinate.
func (v Vec3) String() string {
	return fmt.Sprintf("(%d,%d,%d)", v.X, v.Y, v.Z)
}

// Direction is one of the six unit-axis directions.
// The numbering keeps opposites three apart: PosX/NegX, PosY/NegY, PosZ/NegZ.
type Direction int

const (
	DirPosX Direction = iota
	DirPosY
	DirPosZ
	DirNegX
	DirNegY
	DirNegZ
)

// Directions lists all six directions in canonical order.
var Directions = [...]Direction{DirPosX, DirPosY, DirPosZ, DirNegX, DirNegY, DirNegZ}

var directionOffsets = [...]Vec3{
	DirPosX: {X: 1},
	DirPosY: {Y: 1},
	DirPosZ: {Z: 1},
	DirNegX: {X: -1},
	DirNegY: {Y: -1},
	DirNegZ: {Z: -1},
}

// Valid reports whether d is one of the six axis directions.
func (d Direction) Valid() bool {
	return d >= DirPosX && d <= DirNegZ
}

// Offset returns the unit vector for the direction.
// Invalid directions yield the zero vector.
func (d Direction) Offset() Vec3 {
	if !d.Valid() {
		return Vec3{}
	}
	return directionOffsets[d]
}

// Opposite returns the direction pointing the other way.
func (d Direction) Opposite() Direction {
	if !d.Valid() {
		return d
	}
	return (d + 3) % 6
}

// String returns a human-readable name for the direction.
func (d Direction) String() string {
	switch d {
	case DirPosX:
		return "+x"
	case DirPosY:
		return "+y"
	case DirPosZ:
		return "+z"
	case DirNegX:
		return "-x"
	case DirNegY:
		return "-y"
	case DirNegZ:
		return "-z"
	default:
		return "unknown"
	}
}

// ParseDirection parses names like "+x", "-y", "z" (implicitly positive).
func ParseDirection(s string) (Direction, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if len(s) == 1 {
		s = "+" + s
	}
	for _, d := range Directions {
		if d.String() == s {
			return d, nil
		}
	}
	return 0, fmt.Errorf("core: unknown direction %q", s)
}

// MarshalText implements encoding.TextMarshaler so directions read well in YAML and JSON.
func (d Direction) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("core: invalid direction %d", int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Rect represents an axis-aligned rectangle on the render screen.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Abs returns the absolute value of an integer.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// WorldPos is a continuous position in presentation space.
type WorldPos struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// World converts a grid coordinate to presentation space using scale units per cell.
func (v Vec3) World(scale float64) WorldPos {
	return WorldPos{
		X: float64(v.X) * scale,
		Y: float64(v.Y) * scale,
		Z: float64(v.Z) * scale,
	}
}
