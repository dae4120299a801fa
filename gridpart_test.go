// Copyright (C) 2025, doomcrafter
//
// This file is part of GridBM program.
//
// GridBM is free software: you can redistribute it
// and/or modify it under the terms of GNU General Public License
// as published by the Free Software Foundation, either version 2 of
// the License, or (at your option) any later version.
//
// GridBM is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with GridBM.  If not, see <https://www.gnu.org/licenses/>.
package main

import (
	"testing"
)

// stubLines lets tests feed raw coordinates without building lump structures
type stubLines struct {
	coords [][4]int
	skip   map[uint16]bool
}

func (s *stubLines) XY(idx uint16) (int, int, int, int) {
	c := s.coords[idx]
	return c[0], c[1], c[2], c[3]
}

func (s *stubLines) Len() uint16 {
	return uint16(len(s.coords))
}

func (s *stubLines) SkipInBlockmap(idx uint16) bool {
	return s.skip[idx]
}

func partitionOf(lines MapLines) *BlockGrid {
	bounds, ok := ComputeLineBounds(lines)
	return PartitionGrid(GridInput{
		lines:      lines,
		bounds:     bounds,
		haveBounds: ok,
	})
}

func TestPartitionEmptyLevel(t *testing.T) {
	grid := partitionOf(&stubLines{})
	if grid.header.Columns != 1 || grid.header.Rows != 1 {
		t.Errorf("Expected 1x1 grid for empty level, got %dx%d.\n",
			grid.header.Columns, grid.header.Rows)
	}
	if grid.header.OriginX != 0 || grid.header.OriginY != 0 {
		t.Errorf("Expected origin (0,0) for empty level, got (%d,%d).\n",
			grid.header.OriginX, grid.header.OriginY)
	}
	if len(grid.cells) != 1 || len(grid.cells[0]) != 0 {
		t.Errorf("Expected a single empty cell for empty level.\n")
	}
}

func TestPartitionSingleShortLine(t *testing.T) {
	grid := partitionOf(&stubLines{
		coords: [][4]int{{10, 10, 50, 30}},
	})
	if grid.header.Columns != 1 || grid.header.Rows != 1 {
		t.Errorf("Line within one cell should produce 1x1 grid, got %dx%d.\n",
			grid.header.Columns, grid.header.Rows)
	}
	if grid.header.OriginX != 0 || grid.header.OriginY != 0 {
		t.Errorf("Origin should snap down to (0,0), got (%d,%d).\n",
			grid.header.OriginX, grid.header.OriginY)
	}
	if len(grid.cells[0]) != 1 || grid.cells[0][0] != 0 {
		t.Errorf("Cell 0 should hold exactly line 0, got %v.\n", grid.cells[0])
	}
}

func TestOriginSnapsDownForNegativeCoords(t *testing.T) {
	grid := partitionOf(&stubLines{
		coords: [][4]int{{-100, -60, -50, -10}},
	})
	if grid.header.OriginX != -128 || grid.header.OriginY != -128 {
		t.Errorf("Expected origin (-128,-128), got (%d,%d).\n",
			grid.header.OriginX, grid.header.OriginY)
	}
	if grid.header.Columns != 1 || grid.header.Rows != 1 {
		t.Errorf("Expected 1x1 grid, got %dx%d.\n", grid.header.Columns,
			grid.header.Rows)
	}
}

// A diagonal whose bounding box spans 2x2 cells but whose path misses one of
// them. The exact overlap test must reject the missed cell that a plain
// bounding box assignment would include
func TestDiagonalMissesCornerCell(t *testing.T) {
	grid := partitionOf(&stubLines{
		coords: [][4]int{{10, 0, 250, 240}},
	})
	if grid.header.Columns != 2 || grid.header.Rows != 2 {
		t.Fatalf("Expected 2x2 grid, got %dx%d.\n", grid.header.Columns,
			grid.header.Rows)
	}
	expect := []int{1, 1, 0, 1} // cells 0,1,3 touched, cell 2 missed
	for i, cnt := range expect {
		if len(grid.cells[i]) != cnt {
			t.Errorf("Cell %d: expected %d entries, got %v.\n", i, cnt,
				grid.cells[i])
		}
	}
}

// A line lying exactly on the shared boundary of two cell columns belongs to
// both columns
func TestBoundaryLineLandsInBothCells(t *testing.T) {
	grid := partitionOf(&stubLines{
		coords: [][4]int{
			{128, 0, 128, 100},
			{0, 0, 255, 0},
		},
	})
	if grid.header.Columns != 2 || grid.header.Rows != 1 {
		t.Fatalf("Expected 2x1 grid, got %dx%d.\n", grid.header.Columns,
			grid.header.Rows)
	}
	if !containsLine(grid.cells[0], 0) || !containsLine(grid.cells[1], 0) {
		t.Errorf("Boundary line 0 should be in both cells: %v / %v.\n",
			grid.cells[0], grid.cells[1])
	}
}

func TestZeroLengthLine(t *testing.T) {
	grid := partitionOf(&stubLines{
		coords: [][4]int{{200, 200, 200, 200}},
	})
	if grid.header.Columns != 1 || grid.header.Rows != 1 {
		t.Fatalf("Expected 1x1 grid, got %dx%d.\n", grid.header.Columns,
			grid.header.Rows)
	}
	if grid.header.OriginX != 128 || grid.header.OriginY != 128 {
		t.Errorf("Expected origin (128,128), got (%d,%d).\n",
			grid.header.OriginX, grid.header.OriginY)
	}
	if len(grid.cells[0]) != 1 {
		t.Errorf("Degenerate line should still occupy its cell, got %v.\n",
			grid.cells[0])
	}
}

func TestSkippedLinesDontAffectGrid(t *testing.T) {
	// line 1 is both far away and excluded - neither bounds nor cells may
	// reflect its existence
	grid := partitionOf(&stubLines{
		coords: [][4]int{
			{10, 10, 50, 30},
			{20000, 20000, 21000, 21000},
		},
		skip: map[uint16]bool{1: true},
	})
	if grid.header.Columns != 1 || grid.header.Rows != 1 {
		t.Errorf("Excluded line leaked into bounds: grid is %dx%d.\n",
			grid.header.Columns, grid.header.Rows)
	}
	for i, cell := range grid.cells {
		if containsLine(cell, 1) {
			t.Errorf("Excluded line leaked into cell %d.\n", i)
		}
	}
}

func TestCellListsAscendingNoDuplicates(t *testing.T) {
	grid := partitionOf(&stubLines{
		coords: [][4]int{
			{0, 0, 300, 0},
			{0, 64, 300, 64},
			{150, 0, 150, 300},
			{10, 0, 250, 240},
		},
	})
	for i, cell := range grid.cells {
		for j := 1; j < len(cell); j++ {
			if cell[j] <= cell[j-1] {
				t.Errorf("Cell %d list not strictly ascending: %v.\n", i, cell)
				break
			}
		}
	}
}

func containsLine(cell CellList, line uint16) bool {
	for _, v := range cell {
		if v == line {
			return true
		}
	}
	return false
}
