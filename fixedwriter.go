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

// fixedwriter
package main

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// Writer to a fixed-capacity byte slice which can't be grown whatsoever.
// The blockmap encoder allocates the worst-case buffer up front, streams
// block lists past the offset table region, then seeks back to patch the
// table in - so the writer supports repositioning, but trying to write past
// capacity fails
type FixedWriter struct {
	data   []byte
	offset int // offset at which data gets written by next Write call. Can be changed with Seek
}

func NewFixedWriter(capacity int) *FixedWriter {
	return &FixedWriter{
		data:   make([]byte, 0, capacity),
		offset: 0,
	}
}

// Changes offset (relative to the beginning of backing storage) at which
// next Write call will write bytes
// If requested to move beyond length but within capacity, will automatically
// increase length
func (w *FixedWriter) Seek(offset int) error {
	if offset > cap(w.data) {
		return errors.Errorf("seek out of range: %d with capacity %d", offset,
			cap(w.data))
	}
	w.offset = offset
	if offset > len(w.data) {
		w.data = w.data[:offset]
	}
	return nil
}

func (w *FixedWriter) Bytes() []byte {
	return w.data
}

// Words returns committed length in 16-bit words - the unit blockmap offsets
// are counted in
func (w *FixedWriter) Words() int {
	return len(w.data) >> 1
}

// Write bytes at current offset, and move offset
func (w *FixedWriter) Write(p []byte) (n int, err error) {
	towrite := len(p)
	if towrite == 0 {
		return 0, nil
	}
	nlen := len(w.data)
	sl := w.data[w.offset:]
	if cap(sl) < towrite {
		// don't bother writing incomplete data!
		return 0, errors.Errorf("insufficient buffer size: want %d bytes have %d bytes",
			towrite, cap(sl))
	}
	if len(sl) < towrite {
		// we know already there is enough capacity
		// need to extend slice just enough to write data
		oldlen := len(sl)
		sl = sl[:towrite]
		nlen = nlen + len(sl) - oldlen
	}
	copy(sl, p)
	w.data = w.data[:nlen]
	w.offset = w.offset + towrite
	return len(p), nil
}

// WriteUint16 writes a single word in the lump's endianness (little)
func (w *FixedWriter) WriteUint16(v uint16) error {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	_, err := w.Write(b[:])
	return err
}

// WriteUint16s writes a word slice in the lump's endianness without the
// intermediary byte slice allocation binary.Write would do
func (w *FixedWriter) WriteUint16s(p []uint16) error {
	words := len(p)
	towrite := words << 1
	if towrite == 0 {
		return nil
	}
	nlen := len(w.data)
	sl := w.data[w.offset:]
	if cap(sl) < towrite {
		return errors.Errorf("insufficient buffer size: want %d bytes have %d bytes",
			towrite, cap(sl))
	}
	if len(sl) < towrite {
		oldlen := len(sl)
		sl = sl[:towrite]
		nlen = nlen + len(sl) - oldlen
	}
	a := 0
	for i := 0; i < words; i++ {
		binary.LittleEndian.PutUint16(sl[a:], p[i])
		a += 2
	}
	w.data = w.data[:nlen]
	w.offset = w.offset + towrite
	return nil
}
