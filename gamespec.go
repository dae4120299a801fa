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

// gamespec - on-disk structures of the wad container and the Doom level
// format, as the game engines read them
package main

import (
	"regexp"
)

var MAP_SEQUEL = regexp.MustCompile(`^MAP[0-9][0-9][0-9]?$`)
var MAP_ExMx = regexp.MustCompile(`^E[1-9]M[0-9][0-9]?$`)

const IWAD_MAGIC_SIG = uint32(0x44415749) // ASCII - 'IWAD'
const PWAD_MAGIC_SIG = uint32(0x44415750) // ASCII - 'PWAD'

// Blockmap cells are squares of fixed edge length, 128 map units. Divisions
// by the edge length are done as right shifts by BLOCK_BITS
const BLOCK_WIDTH = 128
const BLOCK_BITS = 7

// Zokumbsp convention: a linedef with this tag is excluded from the blockmap
// (level designers use it against intercepts overflow)
const TAG_NO_BLOCKMAP = 999

// Wad header, 12 bytes.
type WadHeader struct {
	MagicSig       uint32
	LumpCount      uint32 // vanilla treats this as signed int32
	DirectoryStart uint32 // vanilla treats this as signed int32
}

// Lump entries listed one after another comprise the directory,
// the first such lump entry is found at WadHeader.DirectoryStart offset into
// the wad file.
// Each lump entry is 16 bytes long
type LumpEntry struct {
	FilePos uint32 // vanilla treats this as signed int32
	Size    uint32 // vanilla treats this as signed int32
	Name    [8]byte
}

// Doom/Heretic linedef format
type Linedef struct {
	// Vanilla treats ALL fields as signed int16
	StartVertex uint16
	EndVertex   uint16
	Flags       uint16
	Action      uint16
	Tag         uint16
	FrontSdef   uint16 // Front Sidedef number
	BackSdef    uint16 // Back Sidedef number (0xFFFF special value for one-sided line)
}

// A Vertex is a coordinate on the map, referenced from linedefs by index
type Vertex struct {
	XPos int16
	YPos int16
}

const DOOM_LINEDEF_SIZE = 14 // Size of "Linedef" struct
const DOOM_VERTEX_SIZE = 4   // Size of "Vertex" struct

// Blockmap lump consists of: this header, followed by Columns*Rows word
// offsets in row-major order, followed by the blocklists (arbitrary size).
// The origin is the bottom-left corner of the grid, snapped down to a cell
// boundary
type BlockmapHeader struct {
	OriginX int16
	OriginY int16
	Columns uint16 // vanilla treats this as signed int16
	Rows    uint16 // vanilla treats this as signed int16
}

// Returns whether the string in lumpName represents Doom level marker,
// i.e. MAP02, E3M1
func IsALevel(lumpName []byte) bool {
	return MAP_SEQUEL.Match(lumpName) || MAP_ExMx.Match(lumpName)
}
