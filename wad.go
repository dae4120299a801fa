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

// wad - reading the input wad and composing the output wad
package main

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// Lump names that belong to the level they directly follow. Order within a
// level varies between node builders, so membership is decided by name, not
// position
var LEVEL_LUMPS = map[string]bool{
	"THINGS":   true,
	"LINEDEFS": true,
	"SIDEDEFS": true,
	"VERTEXES": true,
	"SEGS":     true,
	"SSECTORS": true,
	"NODES":    true,
	"SECTORS":  true,
	"REJECT":   true,
	"BLOCKMAP": true,
	"BEHAVIOR": true,
	"SCRIPTS":  true,
}

// Returns the part of the byte array before the zero byte, as lump names are
// padded with zeros to 8 bytes in the directory
func ByteSliceBeforeTerm(b []byte) []byte {
	i := bytes.IndexByte(b, 0)
	if i == -1 {
		return b
	}
	return b[:i]
}

func IsLevelLumpName(lumpName []byte) bool {
	return LEVEL_LUMPS[string(ByteSliceBeforeTerm(lumpName))]
}

type WadSource interface {
	io.ReadSeeker
}

type WadSink interface {
	io.Writer
	io.Seeker
}

func ReadWadDirectory(f WadSource) (WadHeader, []LumpEntry, error) {
	var header WadHeader
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return header, nil, errors.Wrap(err, "seek to wad header")
	}
	if err := binary.Read(f, binary.LittleEndian, &header); err != nil {
		return header, nil, errors.Wrap(err, "read wad header")
	}
	if header.MagicSig != IWAD_MAGIC_SIG && header.MagicSig != PWAD_MAGIC_SIG {
		return header, nil, errors.Errorf("the input file is not a wad file (magic %08X)",
			header.MagicSig)
	}
	le := make([]LumpEntry, header.LumpCount)
	if header.LumpCount > 0 {
		if _, err := f.Seek(int64(header.DirectoryStart), io.SeekStart); err != nil {
			return header, nil, errors.Wrap(err, "seek to wad directory")
		}
		if err := binary.Read(f, binary.LittleEndian, le); err != nil {
			return header, nil, errors.Wrap(err, "read wad directory")
		}
	}
	return header, le, nil
}

// ProcessWad rebuilds the BLOCKMAP lump of every level found in fin and
// streams everything (modified or not) into fout: header first, then lump
// data in the input's order, the directory last. Returns the count of
// levels that got a rebuilt blockmap and the count of levels whose blockmap
// couldn't fit the format's offset range - the caller must not report
// success when the latter is non-zero
func ProcessWad(fin WadSource, fout WadSink) (rebuilt int, failed int, err error) {
	header, le, err := ReadWadDirectory(fin)
	if err != nil {
		return 0, 0, err
	}

	// header goes out first as is; DirectoryStart becomes stale the moment
	// lump sizes change and is patched at the end
	if err := binary.Write(fout, binary.LittleEndian, &header); err != nil {
		return 0, 0, errors.Wrap(err, "write output wad header")
	}

	outDir := make([]LumpEntry, 0, len(le))
	outPos := uint32(12) // past the header
	for i := 0; i < len(le); i++ {
		if IsALevel(ByteSliceBeforeTerm(le[i].Name[:])) {
			// collect the level: marker plus the member lumps that follow
			j := i + 1
			for j < len(le) && IsLevelLumpName(le[j].Name[:]) {
				j++
			}
			built, overflowed, err := rebuildLevel(fin, fout, le[i:j], &outDir,
				&outPos)
			if err != nil {
				return rebuilt, failed, err
			}
			if built {
				rebuilt++
			}
			if overflowed {
				failed++
			}
			i = j - 1
			continue
		}
		if err := copyLump(fin, fout, le[i], &outDir, &outPos); err != nil {
			return rebuilt, failed, err
		}
	}

	dirStart := outPos
	if err := binary.Write(fout, binary.LittleEndian, outDir); err != nil {
		return rebuilt, failed, errors.Wrap(err, "write output wad directory")
	}
	header.LumpCount = uint32(len(outDir))
	header.DirectoryStart = dirStart
	if _, err := fout.Seek(0, io.SeekStart); err != nil {
		return rebuilt, failed, errors.Wrap(err, "seek to output wad header")
	}
	if err := binary.Write(fout, binary.LittleEndian, &header); err != nil {
		return rebuilt, failed, errors.Wrap(err, "rewrite output wad header")
	}
	return rebuilt, failed, nil
}

// rebuildLevel writes out one level's lumps: the BLOCKMAP lump is replaced
// with a freshly built one (or appended, if the level had none), everything
// else is copied through. Returns whether a blockmap was actually built, and
// whether the build failed on the offset addressing limit
func rebuildLevel(fin WadSource, fout WadSink, level []LumpEntry,
	outDir *[]LumpEntry, outPos *uint32) (bool, bool, error) {
	levelName := string(ByteSliceBeforeTerm(level[0].Name[:]))

	var linedefsEntry, vertexesEntry *LumpEntry
	for k := 1; k < len(level); k++ {
		name := string(ByteSliceBeforeTerm(level[k].Name[:]))
		if name == "LINEDEFS" {
			linedefsEntry = &level[k]
		} else if name == "VERTEXES" {
			vertexesEntry = &level[k]
		}
	}
	if linedefsEntry == nil || vertexesEntry == nil {
		Log.Error("Level %s lacks LINEDEFS or VERTEXES, copying it unchanged.\n",
			levelName)
		for k := 0; k < len(level); k++ {
			if err := copyLump(fin, fout, level[k], outDir, outPos); err != nil {
				return false, false, err
			}
		}
		return false, false, nil
	}

	linedefs, err := LoadLinedefs(fin, *linedefsEntry)
	if err != nil {
		return false, false, errors.Wrapf(err, "level %s", levelName)
	}
	vertices, err := LoadVertices(fin, *vertexesEntry)
	if err != nil {
		return false, false, errors.Wrapf(err, "level %s", levelName)
	}

	Log.Printf("Building BLOCKMAP for level %s (%d linedefs, %d vertices)\n",
		levelName, len(linedefs), len(vertices))
	lump, err := BuildBlockmapLump(&LevelLines{
		linedefs: linedefs,
		vertices: vertices,
	})
	built := true
	overflowed := false
	if err != nil {
		if errors.Cause(err) == ErrBlockmapOverflow {
			// an unaddressable blockmap is worse than none: source ports
			// rebuild a missing (zero-size) lump at load time themselves.
			// The rest of the wad is still written, but the failure counts
			// against the final exit status
			Log.Error("Level %s: %s. Writing zero-size BLOCKMAP instead.\n",
				levelName, err.Error())
			lump = nil
			built = false
			overflowed = true
		} else {
			return false, false, errors.Wrapf(err, "level %s", levelName)
		}
	}

	hadBlockmap := false
	for k := 0; k < len(level); k++ {
		if string(ByteSliceBeforeTerm(level[k].Name[:])) == "BLOCKMAP" {
			hadBlockmap = true
			if err := writeLump(fout, level[k].Name, lump, outDir, outPos); err != nil {
				return built, overflowed, err
			}
			continue
		}
		if err := copyLump(fin, fout, level[k], outDir, outPos); err != nil {
			return built, overflowed, err
		}
	}
	if !hadBlockmap {
		var name [8]byte
		copy(name[:], "BLOCKMAP")
		if err := writeLump(fout, name, lump, outDir, outPos); err != nil {
			return built, overflowed, err
		}
	}
	return built, overflowed, nil
}

// copyLump streams one lump's bytes from input to output unchanged and
// records it in the output directory at its new position
func copyLump(fin WadSource, fout WadSink, entry LumpEntry,
	outDir *[]LumpEntry, outPos *uint32) error {
	if entry.Size > 0 {
		if _, err := fin.Seek(int64(entry.FilePos), io.SeekStart); err != nil {
			return errors.Wrapf(err, "seek to lump %s",
				string(ByteSliceBeforeTerm(entry.Name[:])))
		}
		if _, err := io.CopyN(fout, fin, int64(entry.Size)); err != nil {
			return errors.Wrapf(err, "copy lump %s",
				string(ByteSliceBeforeTerm(entry.Name[:])))
		}
	}
	entry.FilePos = *outPos
	*outDir = append(*outDir, entry)
	*outPos += entry.Size
	return nil
}

func writeLump(fout WadSink, name [8]byte, data []byte,
	outDir *[]LumpEntry, outPos *uint32) error {
	if len(data) > 0 {
		if _, err := fout.Write(data); err != nil {
			return errors.Wrapf(err, "write lump %s",
				string(ByteSliceBeforeTerm(name[:])))
		}
	}
	*outDir = append(*outDir, LumpEntry{
		FilePos: *outPos,
		Size:    uint32(len(data)),
		Name:    name,
	})
	*outPos += uint32(len(data))
	return nil
}
