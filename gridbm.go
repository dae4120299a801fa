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

// gridbm (main). A BLOCKMAP rebuilder for Doom-engine wad files
package main

import (
	"os"
	"path/filepath"
	"time"
)

func main() {
	timeStart := time.Now()
	Configure()
	if config.InputFileName == "" {
		PrintHelp()
		os.Exit(1)
	}
	if config.OutputFileName == "" {
		Log.Error("You must specify an output file via -o. The input wad is never modified in place.\n")
		os.Exit(1)
	}
	config.InputFileName = filepath.Clean(config.InputFileName)
	config.OutputFileName = filepath.Clean(config.OutputFileName)
	if sameFile(config.InputFileName, config.OutputFileName) {
		Log.Error("Output file must differ from the input file.\n")
		os.Exit(1)
	}

	fin, err := os.Open(config.InputFileName)
	if err != nil {
		Log.Error("An error has occurred while trying to read %s: %s\n",
			config.InputFileName, err)
		os.Exit(1)
	}
	defer fin.Close()

	fout, err := os.Create(config.OutputFileName)
	if err != nil {
		Log.Error("Couldn't create file %s: %s\n", config.OutputFileName, err)
		os.Exit(1)
	}

	rebuilt, failed, err := ProcessWad(fin, fout)
	if err != nil {
		Log.Error("%s\n", err)
		fout.Close()
		os.Remove(config.OutputFileName)
		os.Exit(1)
	}
	fout.Close()
	Log.Printf("%d level(s) got a rebuilt BLOCKMAP.\n", rebuilt)
	Log.Printf("Total time: %s\n", time.Since(timeStart))
	if failed > 0 {
		// the output wad was still written (those levels carry a zero-size
		// BLOCKMAP), but the run can't be called a success
		Log.Error("%d level(s) exceed the BLOCKMAP offset limit.\n", failed)
		os.Exit(1)
	}
}

// sameFile guards against clobbering the input. Paths that can't be stat'ed
// get compared literally - the open/create calls will produce the real error
func sameFile(a, b string) bool {
	ia, erra := os.Stat(a)
	ib, errb := os.Stat(b)
	if erra != nil || errb != nil {
		return a == b
	}
	return os.SameFile(ia, ib)
}
