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
	"sort"
	"strings"

	"taskql.org/go/taskql/errors"
	"taskql.org/go/taskql/token"
)

// A MixinImportStmt pulls a mixin module into a class, binding one or
// more facets (loader, config) with the given parameters.
type MixinImportStmt struct {
	Src      *token.SourceRange
	Facets   []string
	Module   string
	InParams []*InputParam
}

func (s *MixinImportStmt) Loc() *token.SourceRange { return s.Src }

// CloneImport returns a deep copy of the import.
func (s *MixinImportStmt) CloneImport() ImportStmt {
	c := &MixinImportStmt{
		Src:    s.Src.Clone(),
		Module: s.Module,
		Facets: append([]string(nil), s.Facets...),
	}
	if s.InParams != nil {
		c.InParams = make([]*InputParam, len(s.InParams))
		for i, p := range s.InParams {
			c.InParams[i] = p.Clone()
		}
	}
	return c
}

// A ClassImportStmt imports another class under an alias.
type ClassImportStmt struct {
	Src   *token.SourceRange
	Kind  string
	Alias string
}

func (s *ClassImportStmt) Loc() *token.SourceRange { return s.Src }

// CloneImport returns a deep copy of the import.
func (s *ClassImportStmt) CloneImport() ImportStmt {
	c := *s
	c.Src = s.Src.Clone()
	return &c
}

// A ClassDef declares a device class: a kind, the classes it extends,
// its queries and actions, its imports and its annotations. The class
// owns its functions; every contained FunctionDef points back to the
// class so that signature inheritance can be resolved.
type ClassDef struct {
	Src *token.SourceRange

	Kind string

	// Extends lists the kinds of the parent classes.
	Extends []string

	Imports []ImportStmt

	Queries map[string]*FunctionDef
	Actions map[string]*FunctionDef

	// NL holds the natural-language metadata of the class.
	NL map[string]interface{}

	// Impl holds the implementation annotations of the class.
	Impl map[string]Value

	IsAbstract bool
}

// NewClassDef returns a class over the given functions. Each function is
// attached to the class, which fixes its projection defaults. The
// function-level extends graphs are checked here: a reference to a
// function that does not exist in the class, or a cycle, is rejected, so
// argument resolution on an attached signature always terminates.
//
// Imports, class-level extends and annotations carry no construction
// invariants and can be set on the returned class directly. It panics if
// a function was built for a different function type than the list it
// appears in.
func NewClassDef(kind string, queries, actions []*FunctionDef) (*ClassDef, error) {
	if kind == "" {
		return nil, errors.NewfPath(nil, "empty class kind")
	}
	c := &ClassDef{
		Kind:    kind,
		Queries: make(map[string]*FunctionDef, len(queries)),
		Actions: make(map[string]*FunctionDef, len(actions)),
	}

	var errs errors.Error
	add := func(m map[string]*FunctionDef, f *FunctionDef, what string) {
		isAction := f.FunctionType == FunctionAction
		if isAction != (what == "action") {
			panic(fmt.Sprintf("ast: %s %q declared as %s", f.FunctionType, f.Name, what))
		}
		if _, ok := m[f.Name]; ok {
			errs = errors.Append(errs, errors.NewfPath([]string{kind, f.Name},
				"duplicate %s %q", what, f.Name))
			return
		}
		m[f.Name] = f
	}
	for _, f := range queries {
		add(c.Queries, f, "query")
	}
	for _, f := range actions {
		add(c.Actions, f, "action")
	}
	if errs != nil {
		return nil, errs
	}

	if err := checkExtendsGraph(kind, "query", c.Queries); err != nil {
		errs = errors.Append(errs, err)
	}
	if err := checkExtendsGraph(kind, "action", c.Actions); err != nil {
		errs = errors.Append(errs, err)
	}
	if errs != nil {
		return nil, errs
	}

	for _, f := range queries {
		if err := f.attach(c); err != nil {
			errs = errors.Append(errs, err)
		}
	}
	for _, f := range actions {
		if err := f.attach(c); err != nil {
			errs = errors.Append(errs, err)
		}
	}
	if errs != nil {
		return nil, errs
	}
	return c, nil
}

// checkExtendsGraph verifies that every function-level extends reference
// resolves within the class and that the resulting graph is acyclic.
func checkExtendsGraph(kind, what string, funcs map[string]*FunctionDef) errors.Error {
	var errs errors.Error
	for _, name := range sortedNames(funcs) {
		for _, parent := range funcs[name].Extends {
			if _, ok := funcs[parent]; !ok {
				errs = errors.Append(errs, errors.NewfPath([]string{kind, name},
					"%s %q extends undeclared %s %q", what, name, what, parent))
			}
		}
	}
	if errs != nil {
		return errs
	}

	const (
		white = iota
		grey
		black
	)
	color := make(map[string]int, len(funcs))
	var path []string
	var visit func(name string) bool
	visit = func(name string) bool {
		switch color[name] {
		case black:
			return true
		case grey:
			path = append(path, name)
			return false
		}
		color[name] = grey
		path = append(path, name)
		for _, parent := range funcs[name].Extends {
			if !visit(parent) {
				return false
			}
		}
		path = path[:len(path)-1]
		color[name] = black
		return true
	}
	for _, name := range sortedNames(funcs) {
		path = path[:0]
		if !visit(name) {
			return errors.NewfPath([]string{kind},
				"cyclic %s inheritance: %s", what, strings.Join(path, " extends "))
		}
	}
	return nil
}

func sortedNames(funcs map[string]*FunctionDef) []string {
	names := make([]string, 0, len(funcs))
	for name := range funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *ClassDef) Loc() *token.SourceRange { return c.Src }

// GetFunction resolves a function of the class by type and name.
// Streams resolve against the monitorable queries. It returns nil if
// the class has no such function.
func (c *ClassDef) GetFunction(ftype FunctionType, name string) *FunctionDef {
	switch ftype {
	case FunctionQuery, FunctionStream:
		return c.Queries[name]
	case FunctionAction:
		return c.Actions[name]
	default:
		return nil
	}
}

// QueryNames reports the names of the queries in sorted order.
func (c *ClassDef) QueryNames() []string { return sortedNames(c.Queries) }

// ActionNames reports the names of the actions in sorted order.
func (c *ClassDef) ActionNames() []string { return sortedNames(c.Actions) }

// Canonical reports the canonical name of the class: the canonical
// annotation if present, otherwise a phrase derived from the last
// component of the kind.
func (c *ClassDef) Canonical() string {
	if s, ok := c.NL["canonical"].(string); ok && s != "" {
		return s
	}
	kind := c.Kind
	if i := strings.LastIndex(kind, "."); i >= 0 {
		kind = kind[i+1:]
	}
	return canonicalName(kind)
}

// Clone returns a deep copy of the class. Every cloned function is
// re-pointed at the clone, so inherited-argument resolution on the copy
// never touches the original.
func (c *ClassDef) Clone() *ClassDef {
	out := &ClassDef{
		Src:        c.Src.Clone(),
		Kind:       c.Kind,
		Extends:    append([]string(nil), c.Extends...),
		Queries:    make(map[string]*FunctionDef, len(c.Queries)),
		Actions:    make(map[string]*FunctionDef, len(c.Actions)),
		NL:         cloneNLAnnotations(c.NL),
		Impl:       cloneImplAnnotations(c.Impl),
		IsAbstract: c.IsAbstract,
	}
	if c.Imports != nil {
		out.Imports = make([]ImportStmt, len(c.Imports))
		for i, imp := range c.Imports {
			out.Imports[i] = imp.CloneImport()
		}
	}
	for name, f := range c.Queries {
		fc := f.Clone()
		fc.setClass(out)
		out.Queries[name] = fc
	}
	for name, f := range c.Actions {
		fc := f.Clone()
		fc.setClass(out)
		out.Actions[name] = fc
	}
	return out
}
