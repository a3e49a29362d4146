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

// Package format emits TaskQL surface syntax for operator trees.
//
// Emission is one-way: the produced text regenerates every construct a
// tree can hold, but this package makes no attempt to parse it back.
// The output is deterministic; constructs stored in maps (object
// fields, lambda arguments, annotations) are emitted in sorted key
// order.
//
// The surface forms, in brief:
//
//	now => @com.mail.inbox(), sender == "bob"^^tt:email => notify;
//	monitor (@com.sensor.reading()) => @com.light.set_power(power=enum(off));
//	let query recent(limit : Number) := @com.mail.inbox()[1 : limit];
//
// Classes print as a block of function signatures with their
// annotations, and permission rules print as
//
//	principal : query => action;
package format

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"taskql.org/go/taskql/ast"
	"taskql.org/go/taskql/errors"
)

// Node formats any operator-tree node as TaskQL surface syntax.
// Statements and programs end with the statement terminator and a
// newline; expression nodes produce a bare fragment.
func Node(n ast.Node) ([]byte, error) {
	var p printer
	switch x := n.(type) {
	case *ast.Program:
		p.program(x)
	case ast.Statement:
		p.statement(x)
		p.WriteString(";\n")
	case *ast.ClassDef:
		p.class(x, "")
	case *ast.PermissionRule:
		p.permissionRule(x)
		p.WriteString(";\n")
	case ast.PermissionFunction:
		p.permission(x, "now")
	case ast.Table:
		p.table(x)
	case ast.Stream:
		p.stream(x)
	case ast.Action:
		p.action(x)
	case ast.BooleanExpression:
		p.boolean(x)
	case ast.ScalarExpression:
		p.scalar(x)
	case ast.Value:
		p.value(x)
	case ast.Selector:
		p.selector(x)
	case *ast.Invocation:
		p.invocation(x)
	case *ast.InputParam:
		p.inputParam(x)
	case *ast.FunctionDef:
		p.function(x, "")
	case *ast.ArgumentDef:
		p.argument(x)
	default:
		return nil, errors.Newf(n.Loc(), "format: cannot emit %T", n)
	}
	return []byte(p.String()), nil
}

// A printer accumulates surface syntax. Emission methods cover every
// variant of their family and panic on an unknown one, like the other
// tree traversals do.
type printer struct {
	strings.Builder
}

func (p *printer) printf(format string, args ...interface{}) {
	fmt.Fprintf(p, format, args...)
}

func (p *printer) program(prog *ast.Program) {
	indent := ""
	if prog.Principal != nil {
		p.WriteString("executor = ")
		p.value(prog.Principal)
		p.WriteString(" : {\n")
		indent = "  "
	}
	for _, c := range prog.Classes {
		p.class(c, indent)
	}
	for _, d := range prog.Declarations {
		p.WriteString(indent)
		p.statement(d)
		p.WriteString(";\n")
	}
	for _, s := range prog.Statements {
		p.WriteString(indent)
		p.statement(s)
		p.WriteString(";\n")
	}
	if prog.Principal != nil {
		p.WriteString("}\n")
	}
}

func (p *printer) statement(s ast.Statement) {
	switch x := s.(type) {
	case *ast.Rule:
		p.stream(x.Stream)
		p.WriteString(" => ")
		p.actions(x.Actions)
	case *ast.Command:
		p.WriteString("now => ")
		if x.Table != nil {
			p.table(x.Table)
			p.WriteString(" => ")
		}
		p.actions(x.Actions)
	case *ast.Assignment:
		p.printf("let result %s := ", x.Name)
		p.table(x.Value)
	case *ast.Declaration:
		p.declaration(x)
	default:
		panic(fmt.Sprintf("format: unexpected statement type %T", s))
	}
}

func (p *printer) actions(actions []ast.Action) {
	for i, a := range actions {
		if i > 0 {
			p.WriteString(", ")
		}
		p.action(a)
	}
}

func (p *printer) declaration(d *ast.Declaration) {
	p.printf("let %s %s", d.Type, d.Name)
	if len(d.Args) > 0 {
		names := make([]string, 0, len(d.Args))
		for name := range d.Args {
			names = append(names, name)
		}
		sort.Strings(names)
		p.WriteString("(")
		for i, name := range names {
			if i > 0 {
				p.WriteString(", ")
			}
			p.printf("%s : %s", name, d.Args[name])
		}
		p.WriteString(")")
	}
	p.WriteString(" := ")
	switch v := d.Value.(type) {
	case ast.Table:
		p.table(v)
	case ast.Stream:
		p.stream(v)
	case ast.Action:
		p.action(v)
	default:
		panic(fmt.Sprintf("format: unexpected declaration value type %T", d.Value))
	}
	p.annotations(" ", d.NL, d.Impl)
}

func (p *printer) class(c *ast.ClassDef, indent string) {
	p.WriteString(indent)
	if c.IsAbstract {
		p.WriteString("abstract ")
	}
	p.printf("class @%s", c.Kind)
	for i, ext := range c.Extends {
		if i == 0 {
			p.WriteString(" extends ")
		} else {
			p.WriteString(", ")
		}
		p.printf("@%s", ext)
	}
	p.classAnnotations(indent, c.NL, c.Impl)
	p.WriteString(" {\n")
	for _, imp := range c.Imports {
		p.importStmt(imp, indent+"  ")
	}
	for _, name := range c.QueryNames() {
		p.function(c.Queries[name], indent+"  ")
	}
	for _, name := range c.ActionNames() {
		p.function(c.Actions[name], indent+"  ")
	}
	p.WriteString(indent + "}\n")
}

func (p *printer) importStmt(s ast.ImportStmt, indent string) {
	switch x := s.(type) {
	case *ast.MixinImportStmt:
		p.WriteString(indent + "import ")
		for i, facet := range x.Facets {
			if i > 0 {
				p.WriteString(", ")
			}
			p.WriteString(facet)
		}
		p.printf(" from @%s(", x.Module)
		p.inputParams(x.InParams)
		p.WriteString(");\n")
	case *ast.ClassImportStmt:
		p.WriteString(indent)
		if x.Alias != "" && x.Alias != x.Kind {
			p.printf("import @%s as %s;\n", x.Kind, x.Alias)
		} else {
			p.printf("import @%s;\n", x.Kind)
		}
	default:
		panic(fmt.Sprintf("format: unexpected import type %T", s))
	}
}

func (p *printer) function(f *ast.FunctionDef, indent string) {
	p.WriteString(indent)
	if f.IsMonitorable {
		p.WriteString("monitorable ")
	}
	if f.IsList {
		p.WriteString("list ")
	}
	p.printf("%s %s", f.FunctionType, f.Name)
	for i, ext := range f.Extends {
		if i == 0 {
			p.WriteString(" extends ")
		} else {
			p.WriteString(", ")
		}
		p.WriteString(ext)
	}
	p.WriteString("(")
	for i, arg := range f.Arguments() {
		if i > 0 {
			p.WriteString(", ")
		}
		p.argument(arg)
	}
	p.WriteString(")")
	p.annotations(" ", f.NL, f.Impl)
	if indent != "" {
		p.WriteString(";\n")
	}
}

func (p *printer) argument(a *ast.ArgumentDef) {
	switch a.Direction {
	case ast.InReq:
		p.WriteString("in req ")
	case ast.InOpt:
		p.WriteString("in opt ")
	case ast.Out:
		p.WriteString("out ")
	}
	p.printf("%s : %s", a.Name, a.Type)
	p.annotations(" ", a.NL, a.Impl)
}

// annotations emits natural-language and implementation annotations,
// sep-prefixed, in sorted key order. Natural-language values are
// rendered as JSON, implementation values as TaskQL constants.
func (p *printer) annotations(sep string, nl map[string]interface{}, impl map[string]ast.Value) {
	for _, k := range sortedKeys(nl) {
		p.printf("%s#_[%s=%s]", sep, k, jsonText(nl[k]))
	}
	for _, k := range sortedValueKeys(impl) {
		p.printf("%s#[%s=", sep, k)
		p.value(impl[k])
		p.WriteString("]")
	}
}

// classAnnotations places each annotation on its own line under the
// class header.
func (p *printer) classAnnotations(indent string, nl map[string]interface{}, impl map[string]ast.Value) {
	for _, k := range sortedKeys(nl) {
		p.printf("\n%s#_[%s=%s]", indent, k, jsonText(nl[k]))
	}
	for _, k := range sortedValueKeys(impl) {
		p.printf("\n%s#[%s=", indent, k)
		p.value(impl[k])
		p.WriteString("]")
	}
}

func (p *printer) permissionRule(r *ast.PermissionRule) {
	p.boolean(r.Principal)
	p.WriteString(" : ")
	p.permission(r.Query, "now")
	p.WriteString(" => ")
	p.permission(r.Action, "notify")
}

// permission emits one side of a permission rule. builtin is the
// keyword standing for the builtin function in that position.
func (p *printer) permission(f ast.PermissionFunction, builtin string) {
	switch x := f.(type) {
	case *ast.BuiltinPermissionFunction:
		p.WriteString(builtin)
	case *ast.StarPermissionFunction:
		p.WriteString("*")
	case *ast.ClassStarPermissionFunction:
		p.printf("@%s.*", x.Kind)
	case *ast.SpecifiedPermissionFunction:
		p.printf("@%s.%s", x.Kind, x.Channel)
		if _, ok := x.Filter.(*ast.TrueBooleanExpression); !ok {
			p.WriteString(", ")
			p.boolean(x.Filter)
		}
	default:
		panic(fmt.Sprintf("format: unexpected permission function type %T", f))
	}
}

func jsonText(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return strconv.Quote(fmt.Sprint(v))
	}
	return string(b)
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedValueKeys(m map[string]ast.Value) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
