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

// bmencode - serializes a partitioned grid into the binary BLOCKMAP lump
package main

import (
	"github.com/pkg/errors"
)

// Every block list opens with this marker word (historically the count of
// "things" in the cell, always zero in practice) and closes with the
// terminator
const BLOCKLIST_START = uint16(0x0000)
const BLOCKLIST_TERM = uint16(0xFFFF)

// Header takes 4 words, each offset table entry one word
const HEADER_WORDS = 4

// Offsets are 16-bit words counted in words, so no block list may start
// beyond this
const MAX_BLOCK_OFFSET = 65535

// ErrBlockmapOverflow means even the packed encoding could not keep every
// block list within the addressable offset range. Nothing usable can be
// emitted for such a level
var ErrBlockmapOverflow = errors.New("blockmap exceeds offset addressing limit")

// BlockmapLump is the serialized result plus what the caller wants to report
// about it
type BlockmapLump struct {
	data          []byte
	packed        bool
	largestOffset int
}

// directLayout computes the size the direct (no sharing) encoding would
// occupy, without serializing anything. totalWords sizes the buffer,
// lastOffset is the offset the final cell's list would get - the value the
// encoding choice hinges on
func (grid *BlockGrid) directLayout() (totalWords int, lastOffset int) {
	cellCnt := len(grid.cells)
	if cellCnt == 0 {
		// the partitioner always makes at least one cell, even for a level
		// with no lines
		Log.Panic("directLayout: grid has zero cells\n")
	}
	totalWords = HEADER_WORDS + cellCnt
	lastOffset = 0
	for _, cell := range grid.cells {
		lastOffset = totalWords
		totalWords += len(cell) + 2 // start marker + indices + terminator
	}
	return totalWords, lastOffset
}

// Encode picks the encoding and serializes. The direct encoding is the
// default; the packed one replaces it when the direct layout would push an
// offset beyond MAX_BLOCK_OFFSET, or when the user demands packing outright
func (grid *BlockGrid) Encode() (*BlockmapLump, error) {
	totalWords, lastOffset := grid.directLayout()
	if config.ForcePacked || lastOffset > MAX_BLOCK_OFFSET {
		if !config.ForcePacked {
			Log.Verbose(1, "Blockmap: direct encoding would place a block list at offset %d (limit %d), switching to packed.\n",
				lastOffset, MAX_BLOCK_OFFSET)
		}
		return grid.encodePacked(totalWords)
	}
	return grid.encodeDirect(totalWords, lastOffset)
}

func (grid *BlockGrid) encodeDirect(totalWords int, lastOffset int) (*BlockmapLump, error) {
	wri := NewFixedWriter(totalWords << 1)
	writeBlockmapHeader(wri, grid.header)

	// block lists get streamed first, then we come back for the offset
	// table - its values are only known as the lists land
	offsets := make([]uint16, len(grid.cells))
	if err := wri.Seek((HEADER_WORDS + len(grid.cells)) << 1); err != nil {
		return nil, err
	}
	for i, cell := range grid.cells {
		offsets[i] = uint16(wri.Words())
		if err := wri.WriteUint16(BLOCKLIST_START); err != nil {
			return nil, err
		}
		if err := wri.WriteUint16s(cell); err != nil {
			return nil, err
		}
		if err := wri.WriteUint16(BLOCKLIST_TERM); err != nil {
			return nil, err
		}
	}
	if err := wri.Seek(HEADER_WORDS << 1); err != nil {
		return nil, err
	}
	if err := wri.WriteUint16s(offsets); err != nil {
		return nil, err
	}
	return &BlockmapLump{
		data:          wri.Bytes(),
		packed:        false,
		largestOffset: lastOffset,
	}, nil
}

// encodePacked shares one physical block list between all cells whose lists
// match exactly. Single pass over the cells: each list is either found in
// the registry of already emitted lists, or emitted and registered. All
// empty cells end up sharing a single marker+terminator pair
func (grid *BlockGrid) encodePacked(worstWords int) (*BlockmapLump, error) {
	// the direct layout is the worst case - sharing only removes words
	wri := NewFixedWriter(worstWords << 1)
	writeBlockmapHeader(wri, grid.header)

	offsets := make([]uint16, len(grid.cells))
	if err := wri.Seek((HEADER_WORDS + len(grid.cells)) << 1); err != nil {
		return nil, err
	}

	// hash buckets hold offsets (in words) of emitted lists; collisions are
	// resolved by comparing the actual sequences
	registry := make(map[uint64][]int)
	emitted := make(map[int]CellList)
	largest := 0
	for i, cell := range grid.cells {
		h := cell.Hash()
		found := false
		for _, at := range registry[h] {
			if sameCellList(emitted[at], cell) {
				offsets[i] = uint16(at)
				found = true
				break
			}
		}
		if found {
			continue
		}
		at := wri.Words()
		if at > MAX_BLOCK_OFFSET {
			return nil, errors.Wrapf(ErrBlockmapOverflow,
				"packed encoding needs offset %d for cell %d", at, i)
		}
		if err := wri.WriteUint16(BLOCKLIST_START); err != nil {
			return nil, err
		}
		if err := wri.WriteUint16s(cell); err != nil {
			return nil, err
		}
		if err := wri.WriteUint16(BLOCKLIST_TERM); err != nil {
			return nil, err
		}
		registry[h] = append(registry[h], at)
		emitted[at] = cell
		offsets[i] = uint16(at)
		if at > largest {
			largest = at
		}
	}
	if err := wri.Seek(HEADER_WORDS << 1); err != nil {
		return nil, err
	}
	if err := wri.WriteUint16s(offsets); err != nil {
		return nil, err
	}
	return &BlockmapLump{
		data:          wri.Bytes(),
		packed:        true,
		largestOffset: largest,
	}, nil
}

func writeBlockmapHeader(wri *FixedWriter, header BlockmapHeader) {
	// FixedWriter can't fail this early - capacity always covers the header
	wri.WriteUint16(uint16(header.OriginX))
	wri.WriteUint16(uint16(header.OriginY))
	wri.WriteUint16(header.Columns)
	wri.WriteUint16(header.Rows)
}

// Hash distributes cell lists over registry buckets. Same multiplier ZDBSP
// uses for its blockmap - cheap and spreads consecutive index runs well
// enough
func (cell CellList) Hash() uint64 {
	hash := uint64(0)
	for _, line := range cell {
		hash = hash*12235 + uint64(line)
	}
	return hash
}

func sameCellList(a, b CellList) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
