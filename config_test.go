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

func TestCommandLineFullInvocation(t *testing.T) {
	c := &ProgramConfig{}
	if !c.FromCommandLine([]string{"-p", "-v", "-v", "file.wad", "-o",
		"out.wad"}) {
		t.Fatalf("Valid command line rejected.\n")
	}
	if !c.ForcePacked {
		t.Errorf("-p not honored.\n")
	}
	if c.VerbosityLevel != 2 {
		t.Errorf("Expected verbosity 2, got %d.\n", c.VerbosityLevel)
	}
	if c.InputFileName != "file.wad" || c.OutputFileName != "out.wad" {
		t.Errorf("File names parsed as %q / %q.\n", c.InputFileName,
			c.OutputFileName)
	}
	if c.HelpRequested {
		t.Errorf("Help requested out of nowhere.\n")
	}
}

func TestCommandLineHelpSwitch(t *testing.T) {
	for _, sw := range []string{"-h", "-?", "--help"} {
		c := &ProgramConfig{}
		if !c.FromCommandLine([]string{sw}) {
			t.Errorf("%s rejected as an unrecognized option.\n", sw)
		}
		if !c.HelpRequested {
			t.Errorf("%s didn't set the help request.\n", sw)
		}
	}
}

func TestCommandLineRejectsBadInput(t *testing.T) {
	c := &ProgramConfig{}
	if c.FromCommandLine([]string{"-z"}) {
		t.Errorf("Unknown option accepted.\n")
	}
	c = &ProgramConfig{}
	if c.FromCommandLine([]string{"a.wad", "b.wad"}) {
		t.Errorf("Second input file accepted.\n")
	}
	c = &ProgramConfig{}
	if c.FromCommandLine([]string{"a.wad", "-o"}) {
		t.Errorf("Dangling -o accepted.\n")
	}
}
