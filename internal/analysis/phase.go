package analysis

import (
	"fmt"
	"strings"

	"github.com/san-kum/gtpsa/internal/dynamo"
)

// Point is one sample of a phase portrait.
type Point struct{ X, Y float64 }

// PhasePortrait2D holds data for a 2D phase space plot
type PhasePortrait2D struct {
	XIndex, YIndex int
	Points         []Point
}

// NewPhasePortrait projects a sequence of phase-space points, such as a
// propagated orbit or turn-by-turn tracking output, onto two coordinates.
func NewPhasePortrait(points [][]float64, xIdx, yIdx int) (*PhasePortrait2D, error) {
	portrait := &PhasePortrait2D{
		XIndex: xIdx,
		YIndex: yIdx,
		Points: make([]Point, 0, len(points)),
	}
	for k, p := range points {
		if xIdx < 0 || yIdx < 0 || xIdx >= len(p) || yIdx >= len(p) {
			return nil, fmt.Errorf("%w: point %d has %d coordinates, need indices %d and %d", dynamo.ErrDimensionMismatch, k, len(p), xIdx, yIdx)
		}
		portrait.Points = append(portrait.Points, Point{X: p[xIdx], Y: p[yIdx]})
	}
	return portrait, nil
}

// PhasePortraitToASCII converts phase portrait to ASCII art
func PhasePortraitToASCII(portrait *PhasePortrait2D, width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 || width <= 1 || height <= 1 {
		return ""
	}

	// Find bounds
	minX, maxX := portrait.Points[0].X, portrait.Points[0].X
	minY, maxY := portrait.Points[0].Y, portrait.Points[0].Y

	for _, p := range portrait.Points {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}

	// Add padding
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	// Create canvas
	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	// Plot points
	for _, p := range portrait.Points {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))

		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	// Draw axes if they cross the visible area
	if minX <= 0 && maxX >= 0 {
		col := int((0 - minX) / rangeX * float64(width-1))
		for row := 0; row < height; row++ {
			if col >= 0 && col < width && canvas[row][col] == ' ' {
				canvas[row][col] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if row >= 0 && row < height && canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}

	// Convert to string
	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}

// PoincareSection records points when a trajectory crosses a plane
type PoincareSection struct {
	Points []Point
}

// NewPoincareSection records the upward crossings of coordinate crossIdx
// through threshold along an orbit. The recorded coordinates are linearly
// interpolated to the crossing.
func NewPoincareSection(orbit [][]float64, crossIdx int, threshold float64, recordX, recordY int) (*PoincareSection, error) {
	section := &PoincareSection{}
	for k, p := range orbit {
		for _, i := range []int{crossIdx, recordX, recordY} {
			if i < 0 || i >= len(p) {
				return nil, fmt.Errorf("%w: point %d has %d coordinates, need index %d", dynamo.ErrDimensionMismatch, k, len(p), i)
			}
		}
		if k == 0 {
			continue
		}
		prev, curr := orbit[k-1][crossIdx], p[crossIdx]
		if prev < threshold && curr >= threshold {
			frac := (threshold - prev) / (curr - prev)
			lerp := func(i int) float64 { return orbit[k-1][i] + frac*(p[i]-orbit[k-1][i]) }
			section.Points = append(section.Points, Point{X: lerp(recordX), Y: lerp(recordY)})
		}
	}
	return section, nil
}

// PoincareSectionToASCII converts section data to ASCII plot
func PoincareSectionToASCII(section *PoincareSection, width, height int) string {
	if section == nil || len(section.Points) == 0 {
		return "No crossings detected"
	}
	return PhasePortraitToASCII(&PhasePortrait2D{Points: section.Points}, width, height)
}
