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
	"os"
)

const VERSION = "0.31"

/*
-p Force packed (deduplicated) BLOCKMAP encoding even when the direct
   encoding would fit the offset limit. Packed output is what the builder
   falls back to automatically on big levels; this switch makes it
   unconditional.

-v Add verbosity to text output. Use multiple times for increased verbosity.

-o Output wad file (required).

-h Print usage and quit.
*/

type ProgramConfig struct {
	InputFileName  string
	OutputFileName string
	ForcePacked    bool // always use the packed encoding, don't wait for the direct one to overflow
	VerbosityLevel int
	HelpRequested  bool // print usage and quit without processing anything
}

// Global config with defaults that are valid without command line parsing -
// tests access it as is, main calls Configure() to overlay user arguments
var config = &ProgramConfig{
	InputFileName:  "",
	OutputFileName: "",
	ForcePacked:    false,
	VerbosityLevel: 0,
}

// Configure must be called before config values sourced from the command
// line are accessed
func Configure() {
	Log.Printf("GridBM ver %s\n", VERSION)
	Log.Printf("Copyright (c) 2025 doomcrafter\n")
	Log.Printf("Blockmap construction follows the approach pioneered in ZDBSP by Marisa Heit\n")
	Log.Printf("and refined in zokumbsp and VigilantBSP, and is distributed under the terms\n")
	Log.Printf("of GNU General Public License v2.\n")
	Log.Printf("\n")
	if !config.FromCommandLine(os.Args[1:]) {
		Log.Printf("\n")
		os.Exit(1)
	}
	if config.HelpRequested {
		PrintHelp()
		os.Exit(0)
	}
}

func (c *ProgramConfig) FromCommandLine(args []string) bool {
	for k := 0; k < len(args); k++ {
		arg := args[k]
		switch arg {
		case "-p":
			c.ForcePacked = true
		case "-v":
			c.VerbosityLevel++
		case "-h", "-?", "--help":
			c.HelpRequested = true
			return true
		case "-o":
			if k+1 >= len(args) {
				Log.Error("Option -o requires a file name to follow it.\n")
				return false
			}
			k++
			c.OutputFileName = args[k]
		default:
			if len(arg) > 0 && arg[0] == '-' {
				Log.Error("Unrecognized option: %s\n", arg)
				return false
			}
			if c.InputFileName != "" {
				Log.Error("Only one input file may be specified.\n")
				return false
			}
			c.InputFileName = arg
		}
	}
	return true
}

func PrintHelp() {
	Log.Printf("Usage: gridbm {-options} filename.wad -o output.wad\n")
	Log.Printf("\n")
	Log.Printf("-p Force packed BLOCKMAP encoding.\n")
	Log.Printf("	By default, the packed encoding (block lists shared between cells\n")
	Log.Printf("	with identical content) is only used when the straightforward one\n")
	Log.Printf("	would overflow the 16-bit offset range. This makes it unconditional.\n")
	Log.Printf("-v Add verbosity to text output. Use multiple times for increased verbosity.\n")
	Log.Printf("-h Print this usage text and quit.\n")
	Log.Printf("\n")
	Log.Printf("Example: gridbm -p -v file.wad -o file_out.wad\n")
	Log.Printf("	Rebuilds BLOCKMAP lump of every level in file.wad, always using the\n")
	Log.Printf("	packed encoding, and writes the result to file_out.wad. The input\n")
	Log.Printf("	wad file is not modified.\n")
	Log.Printf("\n")
}
