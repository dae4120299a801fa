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

// level - the level data model the blockmap builder reads from
package main

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

type LevelBounds struct {
	Xmin int16
	Ymin int16
	Xmax int16
	Ymax int16
}

// MapLines is a read-only ordered collection of the level's lines. Methods
// must be stateless - the same collection may back several independent
// builds at once
type MapLines interface {
	// returns coordinates of both #idx line's vertices, in the order X1,Y1,X2,Y2
	XY(idx uint16) (int, int, int, int)
	// returns total count of lines
	Len() uint16
	// this line should be ignored - its properties known to the implementation
	// render it irrelevant for collision and thus for the blockmap
	SkipInBlockmap(idx uint16) bool
}

// LevelLines implements MapLines over the loaded LINEDEFS + VERTEXES lumps.
// Lines are referenced by index everywhere, never copied - block lists in
// the output store these same indices
type LevelLines struct {
	linedefs []Linedef
	vertices []Vertex
}

func (o *LevelLines) XY(idx uint16) (int, int, int, int) {
	line := o.linedefs[idx]
	x1 := int(o.vertices[line.StartVertex].XPos)
	y1 := int(o.vertices[line.StartVertex].YPos)
	x2 := int(o.vertices[line.EndVertex].XPos)
	y2 := int(o.vertices[line.EndVertex].YPos)
	return x1, y1, x2, y2
}

func (o *LevelLines) Len() uint16 {
	return uint16(len(o.linedefs))
}

func (o *LevelLines) SkipInBlockmap(idx uint16) bool {
	return o.linedefs[idx].Tag == TAG_NO_BLOCKMAP
}

// ComputeLineBounds returns level boundaries produced from only those
// vertices which belong to the lines that will be included in blockmap.
// Anything removed from blockmap does not participate in bounds estimation.
// The second return value is false when not a single line is includable -
// the grid partitioner then degrades to the minimal single empty cell
func ComputeLineBounds(lines MapLines) (LevelBounds, bool) {
	Xmax := -2147483648
	Ymax := -2147483648
	Xmin := 2147483647
	Ymin := 2147483647
	any := false
	linesCount := lines.Len()
	for i := uint16(0); i < linesCount; i++ {
		if lines.SkipInBlockmap(i) {
			continue
		}
		any = true
		x1, y1, x2, y2 := lines.XY(i)

		if x1 < Xmin {
			Xmin = x1
		}
		if x1 > Xmax {
			Xmax = x1
		}
		if y1 < Ymin {
			Ymin = y1
		}
		if y1 > Ymax {
			Ymax = y1
		}

		if x2 < Xmin {
			Xmin = x2
		}
		if x2 > Xmax {
			Xmax = x2
		}
		if y2 < Ymin {
			Ymin = y2
		}
		if y2 > Ymax {
			Ymax = y2
		}
	}
	if !any {
		return LevelBounds{}, false
	}
	return LevelBounds{
		Xmin: int16(Xmin),
		Ymin: int16(Ymin),
		Xmax: int16(Xmax),
		Ymax: int16(Ymax),
	}, true
}

func LoadLinedefs(f io.ReadSeeker, entry LumpEntry) ([]Linedef, error) {
	cnt := entry.Size / DOOM_LINEDEF_SIZE
	linedefs := make([]Linedef, cnt)
	if _, err := f.Seek(int64(entry.FilePos), io.SeekStart); err != nil {
		return nil, errors.Wrap(err, "seek to LINEDEFS lump")
	}
	if err := binary.Read(f, binary.LittleEndian, linedefs); err != nil {
		return nil, errors.Wrap(err, "read LINEDEFS lump")
	}
	return linedefs, nil
}

func LoadVertices(f io.ReadSeeker, entry LumpEntry) ([]Vertex, error) {
	cnt := entry.Size / DOOM_VERTEX_SIZE
	vertices := make([]Vertex, cnt)
	if _, err := f.Seek(int64(entry.FilePos), io.SeekStart); err != nil {
		return nil, errors.Wrap(err, "seek to VERTEXES lump")
	}
	if err := binary.Read(f, binary.LittleEndian, vertices); err != nil {
		return nil, errors.Wrap(err, "read VERTEXES lump")
	}
	return vertices, nil
}

// BuildBlockmapLump runs the whole pipeline over a loaded level model: grid
// partition, block list assembly with automatic encoding selection, and
// serialization. Returns the lump bytes, or an error when even the packed
// encoding can't keep every offset addressable - there is no partial output
// in that case
func BuildBlockmapLump(lines MapLines) ([]byte, error) {
	bounds, ok := ComputeLineBounds(lines)
	if !ok {
		Log.Verbose(1, "Blockmap: no lines eligible for it, will emit a minimal 1x1 grid.\n")
	} else {
		Log.Verbose(1, "Blockmap: collidable part of map goes from (%d,%d) to (%d,%d).\n",
			bounds.Xmin, bounds.Ymin, bounds.Xmax, bounds.Ymax)
	}
	grid := PartitionGrid(GridInput{
		lines:      lines,
		bounds:     bounds,
		haveBounds: ok,
	})
	lump, err := grid.Encode()
	if err != nil {
		return nil, err
	}
	enc := "direct"
	if lump.packed {
		enc = "packed"
	}
	Log.Verbose(1, "Blockmap: %dx%d cells, %s encoding, %d bytes, largest offset value: %d\n",
		grid.header.Columns, grid.header.Rows, enc, len(lump.data),
		lump.largestOffset)
	return lump.data, nil
}
