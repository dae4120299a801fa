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

// gridpart - partitions level lines over the uniform blockmap grid
package main

// CellList is one cell's list of line indices. The partitioner produces them
// in ascending order with no duplicates - the invariant the encoder's
// deduplication relies on
type CellList []uint16

// BlockGrid is the geometric product of partitioning: the header describes
// grid placement, cells holds Columns*Rows lists in row-major order (row 0
// is the bottom one). Encoding concerns don't exist at this stage
type BlockGrid struct {
	header BlockmapHeader
	cells  []CellList
}

type GridInput struct {
	lines      MapLines
	bounds     LevelBounds
	haveBounds bool
}

// PartitionGrid assigns every eligible line to every cell it geometrically
// overlaps. Cell membership is decided by an exact integer overlap test, not
// by walking the line's raster - a line touching only a cell's boundary
// still belongs to that cell, and to the neighbor sharing the boundary
func PartitionGrid(input GridInput) *BlockGrid {
	if !input.haveBounds {
		// degenerate level, but the lump must still parse: a single empty
		// cell anchored at (0,0)
		return &BlockGrid{
			header: BlockmapHeader{
				OriginX: 0,
				OriginY: 0,
				Columns: 1,
				Rows:    1,
			},
			cells: make([]CellList, 1),
		}
	}

	// Origin snaps DOWN to a multiple of the cell width. The AND with the
	// inverted mask does the right thing for negative coordinates too,
	// thanks to two's complement
	ox := int(input.bounds.Xmin) &^ (BLOCK_WIDTH - 1)
	oy := int(input.bounds.Ymin) &^ (BLOCK_WIDTH - 1)
	cols := ((int(input.bounds.Xmax) - ox) >> BLOCK_BITS) + 1
	rows := ((int(input.bounds.Ymax) - oy) >> BLOCK_BITS) + 1

	grid := &BlockGrid{
		header: BlockmapHeader{
			OriginX: int16(ox),
			OriginY: int16(oy),
			Columns: uint16(cols),
			Rows:    uint16(rows),
		},
		cells: make([]CellList, cols*rows),
	}

	linesCount := input.lines.Len()
	for i := uint16(0); i < linesCount; i++ {
		if input.lines.SkipInBlockmap(i) {
			continue
		}
		x1, y1, x2, y2 := input.lines.XY(i)

		bxmin, bxmax := minMax(x1, x2)
		bymin, bymax := minMax(y1, y2)

		// Candidate cells come from the line's bounding box. A bound lying
		// exactly on a cell boundary pulls in the cell on the other side of
		// it as well
		c0, c1 := cellRange(bxmin, bxmax, ox, cols)
		r0, r1 := cellRange(bymin, bymax, oy, rows)

		for row := r0; row <= r1; row++ {
			for col := c0; col <= c1; col++ {
				xl := ox + col<<BLOCK_BITS
				yl := oy + row<<BLOCK_BITS
				if segMeetsCell(x1, y1, x2, y2, xl, yl, xl+BLOCK_WIDTH,
					yl+BLOCK_WIDTH) {
					cell := row*cols + col
					grid.cells[cell] = append(grid.cells[cell], i)
				}
			}
		}
	}
	return grid
}

func minMax(a, b int) (int, int) {
	if a < b {
		return a, b
	}
	return b, a
}

// cellRange maps one axis of the line's bounding box to an inclusive range
// of cell indices, clamped to the grid
func cellRange(lo, hi, origin, count int) (int, int) {
	i0 := (lo - origin) >> BLOCK_BITS
	i1 := (hi - origin) >> BLOCK_BITS
	// a bound sitting on a cell boundary also touches the lower neighbor
	if i0 > 0 && (lo-origin)&(BLOCK_WIDTH-1) == 0 {
		i0--
	}
	if i0 < 0 {
		i0 = 0
	}
	if i1 > count-1 {
		i1 = count - 1
	}
	return i0, i1
}

// segMeetsCell reports whether the closed segment (x1,y1)-(x2,y2) has at
// least one common point with the closed box [xl,xh]x[yl,yh]. Exact: all
// arithmetic is on integers, with clip parameter bounds kept as fractions
// rather than divided out
func segMeetsCell(x1, y1, x2, y2, xl, yl, xh, yh int) bool {
	// endpoint inside (boundary counts) settles it without clipping; also
	// the only test able to accept a zero-length segment
	if pointInBox(x1, y1, xl, yl, xh, yh) || pointInBox(x2, y2, xl, yl, xh, yh) {
		return true
	}

	dx := int64(x2 - x1)
	dy := int64(y2 - y1)
	w := clipWindow{t0n: 0, t0d: 1, t1n: 1, t1d: 1}
	// Liang-Barsky: each box side narrows the parameter window; the segment
	// meets the box iff the window stays non-empty after all four
	if !w.narrow(-dx, int64(x1-xl)) {
		return false
	}
	if !w.narrow(dx, int64(xh-x1)) {
		return false
	}
	if !w.narrow(-dy, int64(y1-yl)) {
		return false
	}
	if !w.narrow(dy, int64(yh-y1)) {
		return false
	}
	return w.t0n*w.t1d <= w.t1n*w.t0d
}

func pointInBox(x, y, xl, yl, xh, yh int) bool {
	return x >= xl && x <= xh && y >= yl && y <= yh
}

// clipWindow is the [t0, t1] parameter interval of Liang-Barsky clipping,
// with both bounds held as fractions t0n/t0d and t1n/t1d. Denominators stay
// positive, so fraction comparison is cross-multiplication without sign
// fixups. Coordinates fit in 16 bits, so the products fit int64 easily
type clipWindow struct {
	t0n, t0d int64
	t1n, t1d int64
}

// narrow clips the window against one side, given the side's p (directed
// extent against the boundary) and q (distance allowance). Returns false
// when the segment runs parallel to this side wholly outside it
func (w *clipWindow) narrow(p, q int64) bool {
	if p == 0 {
		return q >= 0
	}
	if p < 0 {
		// entering: candidate lower bound q/p == (-q)/(-p), keep if greater
		n, d := -q, -p
		if n*w.t0d > w.t0n*d {
			w.t0n, w.t0d = n, d
		}
	} else {
		// leaving: candidate upper bound q/p, keep if smaller
		if q*w.t1d < w.t1n*p {
			w.t1n, w.t1d = q, p
		}
	}
	return true
}
