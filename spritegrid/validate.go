package spritegrid

import "fmt"

const (
	minAspect      = 0.2
	maxAspect      = 5.0
	largeCellCount = 1000
)

// Validate returns human-readable, non-fatal warnings about the grid.
func (g *Grid) Validate() []string {
	var warnings []string
	p := g.params

	aspect := 1.0
	if p.Tile.H > 0 {
		aspect = float64(p.Tile.W) / float64(p.Tile.H)
	}
	if aspect < minAspect || aspect > maxAspect {
		warnings = append(warnings, fmt.Sprintf("unusual tile aspect ratio: %.2f", aspect))
	}

	// 计算网格实际覆盖的跨度，小于图像尺寸说明边缘有剩余像素
	expectedW := p.Margin*2 + g.cols*p.Tile.W + (g.cols-1)*p.Spacing
	expectedH := p.Margin*2 + g.rows*p.Tile.H + (g.rows-1)*p.Spacing
	if expectedW < g.width {
		warnings = append(warnings, "sprite sheet has extra pixels on right edge")
	}
	if expectedH < g.height {
		warnings = append(warnings, "sprite sheet has extra pixels on bottom edge")
	}

	total := g.TotalCells()
	switch {
	case total < 1:
		warnings = append(warnings, "no valid tiles found")
	case total > largeCellCount:
		warnings = append(warnings, fmt.Sprintf("very large tile count: %d", total))
	}
	return warnings
}
