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
	"taskql.org/go/taskql/errors"
)

// A FunctionDef is a named function declared by a class: an expression
// signature plus natural-language metadata, implementation annotations
// and projection hints.
//
// A function is built detached and attached to its class by NewClassDef
// (or by ClassDef.Clone); projection defaults are computed at attach
// time because they depend on inherited arguments.
type FunctionDef struct {
	ExpressionSignature

	Name string

	// NL holds the natural-language metadata of the function (canonical
	// phrase, confirmation sentence, result formatting).
	NL map[string]interface{}

	// Impl holds the implementation annotations of the function.
	Impl map[string]Value

	defaultProjection []string
	minimalProjection []string
	minimalSet        bool
}

// NewFunctionDef returns a detached function definition. The argument
// list is flattened as described at NewExpressionSignature. It panics if
// the name is empty.
func NewFunctionDef(ftype FunctionType, name string, args []*ArgumentDef, extends []string, isList, isMonitorable bool, nl map[string]interface{}, impl map[string]Value) *FunctionDef {
	if name == "" {
		panic("ast: empty function name")
	}
	f := &FunctionDef{
		ExpressionSignature: *NewExpressionSignature(ftype, args, extends, isList, isMonitorable),
		Name:                name,
		NL:                  nl,
		Impl:                impl,
	}
	if proj, ok := stringListValue(impl["default_projection"]); ok {
		f.defaultProjection = proj
	}
	if proj, ok := stringListValue(impl["minimal_projection"]); ok {
		f.minimalProjection = proj
		f.minimalSet = true
	}
	return f
}

// Canonical reports the canonical natural-language phrase of the
// function, deriving one from the name if the annotation is absent.
func (f *FunctionDef) Canonical() string {
	if c, ok := f.NL["canonical"].(string); ok && c != "" {
		return c
	}
	return canonicalName(f.Name)
}

// Confirmation reports the confirmation sentence of the function, or
// the empty string if none is declared.
func (f *FunctionDef) Confirmation() string {
	c, _ := f.NL["confirmation"].(string)
	return c
}

// Signature reports the function's expression signature. It is nil-safe
// so callers can pass through an unresolved schema pointer.
func (f *FunctionDef) Signature() *ExpressionSignature {
	if f == nil {
		return nil
	}
	return &f.ExpressionSignature
}

// QualifiedName reports kind:name once the function is attached to a
// class, and the bare name while detached.
func (f *FunctionDef) QualifiedName() string {
	if f.class != nil {
		return f.class.Kind + ":" + f.Name
	}
	return f.Name
}

// DefaultProjection reports the arguments a bare invocation of the
// function should return, or nil when the function returns everything.
// Callers must not modify the returned slice.
func (f *FunctionDef) DefaultProjection() []string { return f.defaultProjection }

// MinimalProjection reports the arguments that must survive any
// projection over the function's results. If the annotation is absent
// it defaults, at class attach time, to the id argument when the
// function has one. Callers must not modify the returned slice.
func (f *FunctionDef) MinimalProjection() []string { return f.minimalProjection }

// ImplAnnotation reports the named implementation annotation.
func (f *FunctionDef) ImplAnnotation(name string) (Value, bool) {
	v, ok := f.Impl[name]
	return v, ok
}

// NLAnnotation reports the named natural-language annotation.
func (f *FunctionDef) NLAnnotation(name string) (interface{}, bool) {
	v, ok := f.NL[name]
	return v, ok
}

// attach wires the function to its class and computes the projection
// defaults that depend on inherited arguments.
func (f *FunctionDef) attach(c *ClassDef) errors.Error {
	f.setClass(c)
	if !f.minimalSet {
		if f.HasArgument("id") {
			f.minimalProjection = []string{"id"}
		} else {
			f.minimalProjection = []string{}
		}
		f.minimalSet = true
	}
	if len(f.defaultProjection) == 0 {
		return nil
	}
	def := make(map[string]bool, len(f.defaultProjection))
	for _, name := range f.defaultProjection {
		def[name] = true
	}
	for _, name := range f.minimalProjection {
		if !def[name] {
			return errors.NewfPath([]string{c.Kind, f.Name},
				"minimal projection includes %q, which is missing from the default projection", name)
		}
	}
	return nil
}

// Clone returns a deep copy of the function. The copy keeps the same
// class pointer; cloning a whole class re-points it.
func (f *FunctionDef) Clone() *FunctionDef {
	c := &FunctionDef{
		ExpressionSignature: *f.ExpressionSignature.Clone(),
		Name:                f.Name,
		NL:                  cloneNLAnnotations(f.NL),
		Impl:                cloneImplAnnotations(f.Impl),
		minimalSet:          f.minimalSet,
	}
	if f.defaultProjection != nil {
		c.defaultProjection = append([]string(nil), f.defaultProjection...)
	}
	if f.minimalProjection != nil {
		c.minimalProjection = append([]string(nil), f.minimalProjection...)
	}
	return c
}

// stringListValue extracts a list of strings from an annotation value.
// A single string is accepted as a one-element list.
func stringListValue(v Value) ([]string, bool) {
	switch x := v.(type) {
	case *StringValue:
		return []string{x.Value}, true
	case *ArrayValue:
		out := make([]string, 0, len(x.Values))
		for _, e := range x.Values {
			s, ok := e.(*StringValue)
			if !ok {
				return nil, false
			}
			out = append(out, s.Value)
		}
		return out, true
	default:
		return nil, false
	}
}
