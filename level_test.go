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

func TestLevelLinesTagExclusion(t *testing.T) {
	lines := &LevelLines{
		linedefs: []Linedef{
			{StartVertex: 0, EndVertex: 1, Tag: 0},
			{StartVertex: 1, EndVertex: 2, Tag: TAG_NO_BLOCKMAP},
		},
		vertices: []Vertex{
			{XPos: 0, YPos: 0},
			{XPos: 100, YPos: 0},
			{XPos: 20000, YPos: 20000},
		},
	}
	if lines.SkipInBlockmap(0) {
		t.Errorf("Ordinary line reported as excluded.\n")
	}
	if !lines.SkipInBlockmap(1) {
		t.Errorf("Tag %d line not reported as excluded.\n", TAG_NO_BLOCKMAP)
	}
	bounds, ok := ComputeLineBounds(lines)
	if !ok {
		t.Fatalf("Bounds should exist, line 0 is included.\n")
	}
	if bounds.Xmax != 100 || bounds.Ymax != 0 {
		t.Errorf("Excluded line leaked into bounds: (%d,%d)-(%d,%d).\n",
			bounds.Xmin, bounds.Ymin, bounds.Xmax, bounds.Ymax)
	}
}

func TestComputeLineBoundsAllExcluded(t *testing.T) {
	lines := &LevelLines{
		linedefs: []Linedef{
			{StartVertex: 0, EndVertex: 1, Tag: TAG_NO_BLOCKMAP},
		},
		vertices: []Vertex{
			{XPos: 0, YPos: 0},
			{XPos: 100, YPos: 100},
		},
	}
	if _, ok := ComputeLineBounds(lines); ok {
		t.Errorf("Bounds reported for a level with no includable lines.\n")
	}
}

func TestLevelLinesXY(t *testing.T) {
	lines := &LevelLines{
		linedefs: []Linedef{
			{StartVertex: 1, EndVertex: 0},
		},
		vertices: []Vertex{
			{XPos: -5, YPos: 7},
			{XPos: 64, YPos: -100},
		},
	}
	x1, y1, x2, y2 := lines.XY(0)
	if x1 != 64 || y1 != -100 || x2 != -5 || y2 != 7 {
		t.Errorf("XY returned (%d,%d)-(%d,%d).\n", x1, y1, x2, y2)
	}
}

func TestIsALevel(t *testing.T) {
	yes := []string{"MAP01", "MAP32", "E1M1", "E4M9"}
	no := []string{"THINGS", "MAP", "E1M", "DEHACKED", "BLOCKMAP"}
	for _, s := range yes {
		if !IsALevel([]byte(s)) {
			t.Errorf("%s should be recognized as a level marker.\n", s)
		}
	}
	for _, s := range no {
		if IsALevel([]byte(s)) {
			t.Errorf("%s should not be recognized as a level marker.\n", s)
		}
	}
}
