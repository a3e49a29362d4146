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

package ast

import (
	"fmt"
	"strings"
	"unicode"

	"taskql.org/go/taskql/token"
	"taskql.org/go/taskql/types"
)

// A Direction classifies an argument of a function signature.
type Direction int

const (
	NoDirection Direction = iota
	InReq                 // required input
	InOpt                 // optional input
	Out                   // output
)

func (d Direction) String() string {
	switch d {
	case InReq:
		return "in req"
	case InOpt:
		return "in opt"
	case Out:
		return "out"
	default:
		return "none"
	}
}

// IsInput reports whether d marks an input argument.
func (d Direction) IsInput() bool { return d == InReq || d == InOpt }

// An ArgumentDef declares one argument of a function signature: its
// direction, name, type and annotations. Arguments of compound type are
// accompanied in the signature by synthesized per-field definitions with
// dotted names; see NewExpressionSignature.
type ArgumentDef struct {
	Src       *token.SourceRange
	Direction Direction
	Name      string
	Type      types.Type

	// NL holds the natural-language annotations (canonical phrase,
	// prompt, formatting hints). Values are strings, numbers, booleans,
	// or nested maps and slices thereof.
	NL map[string]interface{}

	// Impl holds the implementation annotations. Values are constant
	// TaskQL values.
	Impl map[string]Value
}

// NewArgumentDef returns an argument declaration. It panics if the name
// is empty, the type is nil, or the direction is invalid.
func NewArgumentDef(dir Direction, name string, typ types.Type, nl map[string]interface{}, impl map[string]Value) *ArgumentDef {
	if name == "" {
		panic("ast: empty argument name")
	}
	if typ == nil {
		panic(fmt.Sprintf("ast: nil type for argument %q", name))
	}
	switch dir {
	case InReq, InOpt, Out:
	default:
		panic(fmt.Sprintf("ast: invalid direction for argument %q", name))
	}
	return &ArgumentDef{Direction: dir, Name: name, Type: typ, NL: nl, Impl: impl}
}

func (a *ArgumentDef) Loc() *token.SourceRange { return a.Src }

// IsInput reports whether the argument is an input.
func (a *ArgumentDef) IsInput() bool { return a.Direction.IsInput() }

// Required reports whether the argument is a required input.
func (a *ArgumentDef) Required() bool { return a.Direction == InReq }

// Canonical reports the canonical natural-language phrase for the
// argument. If no canonical annotation is present, a phrase is derived
// from the argument name.
func (a *ArgumentDef) Canonical() string {
	if c, ok := a.NL["canonical"].(string); ok && c != "" {
		return c
	}
	return canonicalName(a.Name)
}

// Clone returns a deep copy of the argument declaration. Types are
// immutable and shared.
func (a *ArgumentDef) Clone() *ArgumentDef {
	return &ArgumentDef{
		Src:       a.Src.Clone(),
		Direction: a.Direction,
		Name:      a.Name,
		Type:      a.Type,
		NL:        cloneNLAnnotations(a.NL),
		Impl:      cloneImplAnnotations(a.Impl),
	}
}

// canonicalName derives a display phrase from an argument or function
// name: underscores become spaces and camelCase words are split and
// lowered.
func canonicalName(name string) string {
	var b strings.Builder
	for i, r := range name {
		switch {
		case r == '_':
			b.WriteRune(' ')
		case unicode.IsUpper(r):
			if i > 0 {
				b.WriteRune(' ')
			}
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func cloneNLAnnotations(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return nil
	}
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = cloneNLValue(v)
	}
	return out
}

func cloneNLValue(v interface{}) interface{} {
	switch x := v.(type) {
	case map[string]interface{}:
		return cloneNLAnnotations(x)
	case []interface{}:
		out := make([]interface{}, len(x))
		for i, e := range x {
			out[i] = cloneNLValue(e)
		}
		return out
	default:
		return x
	}
}

func cloneImplAnnotations(m map[string]Value) map[string]Value {
	if m == nil {
		return nil
	}
	out := make(map[string]Value, len(m))
	for k, v := range m {
		out[k] = v.CloneValue()
	}
	return out
}

// A FunctionType distinguishes the three kinds of functions a class can
// declare.
type FunctionType int

const (
	FunctionQuery FunctionType = iota
	FunctionStream
	FunctionAction
)

func (t FunctionType) String() string {
	switch t {
	case FunctionQuery:
		return "query"
	case FunctionStream:
		return "stream"
	case FunctionAction:
		return "action"
	default:
		return fmt.Sprintf("FunctionType(%d)", int(t))
	}
}

// An ExpressionSignature describes the callable shape of a function: its
// kind, its ordered argument list, and the names of the same-class
// functions it extends. Compound arguments are flattened at construction
// so that every reachable field has an addressable dotted name.
//
// A signature that extends other functions can only resolve inherited
// arguments once its function is attached to a class; looking up an
// inherited argument on a detached signature is a programmer error and
// panics.
type ExpressionSignature struct {
	Src           *token.SourceRange
	FunctionType  FunctionType
	IsList        bool
	IsMonitorable bool

	// Extends lists same-class functions whose arguments this signature
	// inherits, in resolution order.
	Extends []string

	args  []*ArgumentDef
	index map[string]*ArgumentDef
	class *ClassDef

	reqInputs map[string]*ArgumentDef
	optInputs map[string]*ArgumentDef
	outputs   map[string]*ArgumentDef
}

// NewExpressionSignature returns a signature of the given kind over the
// given arguments. Compound and array-of-compound arguments are
// flattened into synthesized dotted-name arguments that inherit the
// parent's direction; a name that is already present is never added
// twice, so flattening an already-flat list is the identity. It panics
// if an argument is nil or if an action is declared as a list or as
// monitorable.
func NewExpressionSignature(ftype FunctionType, args []*ArgumentDef, extends []string, isList, isMonitorable bool) *ExpressionSignature {
	if ftype == FunctionAction && (isList || isMonitorable) {
		panic("ast: an action cannot be a list or monitorable")
	}
	s := &ExpressionSignature{
		FunctionType:  ftype,
		IsList:        isList,
		IsMonitorable: isMonitorable,
		Extends:       append([]string(nil), extends...),
		index:         make(map[string]*ArgumentDef),
		reqInputs:     make(map[string]*ArgumentDef),
		optInputs:     make(map[string]*ArgumentDef),
		outputs:       make(map[string]*ArgumentDef),
	}
	for i, a := range args {
		if a == nil {
			panic(fmt.Sprintf("ast: nil argument at index %d", i))
		}
		s.appendFlattened(a)
	}
	return s
}

// appendFlattened adds arg and, for compound types, its synthesized
// field arguments, skipping names already present.
func (s *ExpressionSignature) appendFlattened(arg *ArgumentDef) {
	if _, ok := s.index[arg.Name]; ok {
		return
	}
	s.args = append(s.args, arg)
	s.index[arg.Name] = arg
	switch arg.Direction {
	case InReq:
		s.reqInputs[arg.Name] = arg
	case InOpt:
		s.optInputs[arg.Name] = arg
	case Out:
		s.outputs[arg.Name] = arg
	}

	t := arg.Type
	if at, ok := t.(*types.ArrayType); ok {
		t = at.Elem
	}
	ct, ok := t.(*types.CompoundType)
	if !ok {
		return
	}
	for _, f := range ct.Fields {
		s.appendFlattened(&ArgumentDef{
			Direction: arg.Direction,
			Name:      arg.Name + "." + f.Name,
			Type:      f.Type,
		})
	}
}

func (s *ExpressionSignature) Loc() *token.SourceRange { return s.Src }

// Class reports the class this signature's function belongs to, or nil
// while detached.
func (s *ExpressionSignature) Class() *ClassDef { return s.class }

func (s *ExpressionSignature) setClass(c *ClassDef) { s.class = c }

// Arguments reports the local flattened arguments in declaration order.
// Callers must not modify the returned slice.
func (s *ExpressionSignature) Arguments() []*ArgumentDef { return s.args }

// ArgumentNames reports the names of the local flattened arguments in
// declaration order.
func (s *ExpressionSignature) ArgumentNames() []string {
	names := make([]string, len(s.args))
	for i, a := range s.args {
		names[i] = a.Name
	}
	return names
}

// RequiredInputs reports the local required input arguments by name.
// Callers must not modify the returned map.
func (s *ExpressionSignature) RequiredInputs() map[string]*ArgumentDef { return s.reqInputs }

// OptionalInputs reports the local optional input arguments by name.
// Callers must not modify the returned map.
func (s *ExpressionSignature) OptionalInputs() map[string]*ArgumentDef { return s.optInputs }

// Outputs reports the local output arguments by name. Callers must not
// modify the returned map.
func (s *ExpressionSignature) Outputs() map[string]*ArgumentDef { return s.outputs }

// GetArgument resolves an argument by name: locally first, then through
// the extends chain in declaration order, first match wins. It returns
// nil if no such argument exists, and panics if the signature extends
// other functions but is not attached to a class.
func (s *ExpressionSignature) GetArgument(name string) *ArgumentDef {
	if a, ok := s.index[name]; ok {
		return a
	}
	for _, parent := range s.Extends {
		if a := s.parent(parent).GetArgument(name); a != nil {
			return a
		}
	}
	return nil
}

// HasArgument reports whether the signature declares or inherits an
// argument with the given name.
func (s *ExpressionSignature) HasArgument(name string) bool {
	return s.GetArgument(name) != nil
}

// GetArgType reports the type of the named argument, or nil if the
// argument does not exist.
func (s *ExpressionSignature) GetArgType(name string) types.Type {
	if a := s.GetArgument(name); a != nil {
		return a.Type
	}
	return nil
}

// GetArgCanonical reports the canonical phrase of the named argument,
// or the empty string if the argument does not exist.
func (s *ExpressionSignature) GetArgCanonical(name string) string {
	if a := s.GetArgument(name); a != nil {
		return a.Canonical()
	}
	return ""
}

// IsArgInput reports whether the named argument is an input.
func (s *ExpressionSignature) IsArgInput(name string) bool {
	if a := s.GetArgument(name); a != nil {
		return a.IsInput()
	}
	return false
}

// IsArgRequired reports whether the named argument is a required input.
func (s *ExpressionSignature) IsArgRequired(name string) bool {
	if a := s.GetArgument(name); a != nil {
		return a.Required()
	}
	return false
}

// IterateArguments calls yield for every argument of the signature,
// local arguments first in declaration order, then inherited ones in
// extends order. An argument name is yielded at most once; a local
// declaration shadows an inherited one. Iteration stops early if yield
// returns false.
func (s *ExpressionSignature) IterateArguments(yield func(*ArgumentDef) bool) {
	seen := make(map[string]bool)
	s.iterateArguments(seen, yield)
}

func (s *ExpressionSignature) iterateArguments(seen map[string]bool, yield func(*ArgumentDef) bool) bool {
	for _, a := range s.args {
		if seen[a.Name] {
			continue
		}
		seen[a.Name] = true
		if !yield(a) {
			return false
		}
	}
	for _, parent := range s.Extends {
		if !s.parent(parent).iterateArguments(seen, yield) {
			return false
		}
	}
	return true
}

// AllArguments reports every argument of the signature, local and
// inherited, de-duplicated by name.
func (s *ExpressionSignature) AllArguments() []*ArgumentDef {
	var all []*ArgumentDef
	s.IterateArguments(func(a *ArgumentDef) bool {
		all = append(all, a)
		return true
	})
	return all
}

func (s *ExpressionSignature) parent(name string) *ExpressionSignature {
	if s.class == nil {
		panic(fmt.Sprintf("ast: signature extends %q but is not attached to a class", name))
	}
	f := s.class.GetFunction(s.FunctionType, name)
	if f == nil {
		panic(fmt.Sprintf("ast: extended %s %q not found in class %q", s.FunctionType, name, s.class.Kind))
	}
	return &f.ExpressionSignature
}

// Clone returns a deep copy of the signature. The copy keeps the same
// class pointer; cloning a whole class re-points it.
func (s *ExpressionSignature) Clone() *ExpressionSignature {
	args := make([]*ArgumentDef, len(s.args))
	for i, a := range s.args {
		args[i] = a.Clone()
	}
	c := NewExpressionSignature(s.FunctionType, args, s.Extends, s.IsList, s.IsMonitorable)
	c.Src = s.Src.Clone()
	c.class = s.class
	return c
}
