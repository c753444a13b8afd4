// Package systems provides the per-entity simulation systems.
package systems

import "github.com/jxoesneon/EvoSim/components"

// Grid sizing for plant lookups.
const (
	plantCellSize = 32
	maxGridCells  = 256 // per axis
)

// PlantGrid indexes plants by cell for radius queries. Plants outside the
// world rectangle are filed in the nearest edge cell and queries clamp the
// same way, so a query never misses a plant a full scan would find.
type PlantGrid struct {
	cellSize float32
	cols     int
	rows     int
	plants   []components.Plant
	cells    [][]int32 // indices into plants
}

// NewPlantGrid creates an empty grid covering the given world size.
func NewPlantGrid(width, height float32) *PlantGrid {
	cellSize := float32(plantCellSize)
	cellSize = max(cellSize, width/maxGridCells, height/maxGridCells)

	cols := int(width/cellSize) + 1
	rows := int(height/cellSize) + 1

	return &PlantGrid{
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		cells:    make([][]int32, cols*rows),
	}
}

// Clear removes all plants from the grid.
func (g *PlantGrid) Clear() {
	g.plants = g.plants[:0]
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert adds a plant to the grid.
func (g *PlantGrid) Insert(p components.Plant) {
	idx := int32(len(g.plants))
	g.plants = append(g.plants, p)
	c := g.cellIndex(g.col(p.X), g.row(p.Y))
	g.cells[c] = append(g.cells[c], idx)
}

// Plants returns the indexed plants in insertion order. The slice is owned
// by the grid.
func (g *PlantGrid) Plants() []components.Plant {
	return g.plants
}

// Len returns the number of plants.
func (g *PlantGrid) Len() int {
	return len(g.plants)
}

// AnyWithin reports whether any plant center lies within radius of (x, y).
func (g *PlantGrid) AnyWithin(x, y, radius float32) bool {
	r2 := radius * radius
	c0, c1 := g.col(x-radius), g.col(x+radius)
	r0, r1 := g.row(y-radius), g.row(y+radius)
	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			for _, i := range g.cells[g.cellIndex(col, row)] {
				p := &g.plants[i]
				if distanceSq(x, y, p.X, p.Y) <= r2 {
					return true
				}
			}
		}
	}
	return false
}

func (g *PlantGrid) col(x float32) int {
	return clampCell(x/g.cellSize, g.cols)
}

func (g *PlantGrid) row(y float32) int {
	return clampCell(y/g.cellSize, g.rows)
}

// clampCell floors v and clamps it to [0, n-1]. NaN maps to 0.
func clampCell(v float32, n int) int {
	if !(v >= 0) {
		return 0
	}
	if v >= float32(n-1) {
		return n - 1
	}
	return int(v)
}

func (g *PlantGrid) cellIndex(col, row int) int {
	return row*g.cols + col
}
