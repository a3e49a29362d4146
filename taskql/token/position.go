// Copyright 2025 The TaskQL Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package token defines source positions for TaskQL syntax trees.
//
// Positions originate in a producer (a parser or a program builder) and are
// carried, never interpreted, by the tree: a node synthesized by a rewrite or
// an interned singleton simply has no position.
package token

import "fmt"

// A Pos is a single point in a source text. The zero value reports
// !IsValid() and is used for synthesized nodes.
type Pos struct {
	// Offset is the byte offset in the source, starting at 0.
	Offset int
	// Line is the line number, starting at 1. A Pos with Line == 0 is
	// not associated with any source.
	Line int
	// Column is the column number in bytes, starting at 1.
	Column int
}

// NoPos is the zero Pos. It is the position of all synthesized nodes.
var NoPos = Pos{}

// IsValid reports whether p refers to an actual source location.
func (p Pos) IsValid() bool { return p.Line > 0 }

func (p Pos) String() string {
	if !p.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Before reports whether p is strictly before q in the same source.
func (p Pos) Before(q Pos) bool {
	return p.Line < q.Line || (p.Line == q.Line && p.Column < q.Column)
}

// A SourceRange locates a node in a named source text. Nodes carry a
// *SourceRange so that a nil range marks a node with no source, which is
// the normal state for values created by slot filling or optimization.
type SourceRange struct {
	// File is the name of the source, or "" for anonymous input.
	File  string
	Start Pos
	End   Pos
}

func (r *SourceRange) String() string {
	if r == nil || !r.Start.IsValid() {
		return "-"
	}
	file := r.File
	if file == "" {
		file = "<input>"
	}
	if r.End.IsValid() && r.End != r.Start {
		return fmt.Sprintf("%s:%v-%v", file, r.Start, r.End)
	}
	return fmt.Sprintf("%s:%v", file, r.Start)
}

// Pos returns the start position, or NoPos for a nil range.
func (r *SourceRange) Pos() Pos {
	if r == nil {
		return NoPos
	}
	return r.Start
}

// Clone returns an independent copy of r. Ranges are treated as immutable
// throughout the tree, but clone-independence of nodes extends to their
// locations as well.
func (r *SourceRange) Clone() *SourceRange {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}
