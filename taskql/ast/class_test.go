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

package ast_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"taskql.org/go/taskql/ast"
	"taskql.org/go/taskql/types"
)

func query(name string, args []*ast.ArgumentDef, extends []string) *ast.FunctionDef {
	return ast.NewFunctionDef(ast.FunctionQuery, name, args, extends, true, true, nil, nil)
}

func action(name string, args []*ast.ArgumentDef) *ast.FunctionDef {
	return ast.NewFunctionDef(ast.FunctionAction, name, args, nil, false, false, nil, nil)
}

func TestInheritanceResolution(t *testing.T) {
	f := query("f", []*ast.ArgumentDef{arg(ast.Out, "a", types.String)}, nil)
	g := query("g", nil, []string{"f"})
	if _, err := ast.NewClassDef("com.example", []*ast.FunctionDef{f, g}, nil); err != nil {
		t.Fatal(err)
	}

	if !g.HasArgument("a") {
		t.Fatal("g.hasArgument(a) = false; want true through extends")
	}
	if got := g.GetArgType("a"); !types.Equal(got, types.String) {
		t.Errorf("g.getArgType(a) = %v; want String", got)
	}
	if g.GetArgument("a") != f.GetArgument("a") {
		t.Error("inherited argument is not f's own definition")
	}
}

func TestInheritanceFirstParentWins(t *testing.T) {
	f1 := query("f1", []*ast.ArgumentDef{arg(ast.Out, "a", types.String)}, nil)
	f2 := query("f2", []*ast.ArgumentDef{arg(ast.Out, "a", types.Number)}, nil)
	g := query("g", nil, []string{"f1", "f2"})
	if _, err := ast.NewClassDef("com.example", []*ast.FunctionDef{f1, f2, g}, nil); err != nil {
		t.Fatal(err)
	}
	if got := g.GetArgType("a"); !types.Equal(got, types.String) {
		t.Errorf("g.getArgType(a) = %v; want the first parent's String", got)
	}
}

func TestLocalOverridesInherited(t *testing.T) {
	f := query("f", []*ast.ArgumentDef{arg(ast.Out, "a", types.String)}, nil)
	g := query("g", []*ast.ArgumentDef{arg(ast.Out, "a", types.Number)}, []string{"f"})
	if _, err := ast.NewClassDef("com.example", []*ast.FunctionDef{f, g}, nil); err != nil {
		t.Fatal(err)
	}

	if got := g.GetArgType("a"); !types.Equal(got, types.Number) {
		t.Errorf("g.getArgType(a) = %v; want the local Number", got)
	}

	var names []string
	g.IterateArguments(func(a *ast.ArgumentDef) bool {
		names = append(names, a.Name)
		return true
	})
	if diff := cmp.Diff([]string{"a"}, names); diff != "" {
		t.Errorf("iterateArguments yielded an overridden name twice (-want +got):\n%s", diff)
	}
}

func TestMultiLevelInheritance(t *testing.T) {
	base := query("base", []*ast.ArgumentDef{arg(ast.Out, "id", types.Entity("tt:thing"))}, nil)
	mid := query("mid", []*ast.ArgumentDef{arg(ast.Out, "name", types.String)}, []string{"base"})
	leaf := query("leaf", nil, []string{"mid"})
	if _, err := ast.NewClassDef("com.example", []*ast.FunctionDef{base, mid, leaf}, nil); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"id", "name"} {
		if !leaf.HasArgument(name) {
			t.Errorf("leaf.hasArgument(%q) = false; want true", name)
		}
	}
	var names []string
	leaf.IterateArguments(func(a *ast.ArgumentDef) bool {
		names = append(names, a.Name)
		return true
	})
	if diff := cmp.Diff([]string{"name", "id"}, names); diff != "" {
		t.Errorf("argument order mismatch (-want +got):\n%s", diff)
	}
}

func TestMinimalProjectionDefault(t *testing.T) {
	withID := query("withID", []*ast.ArgumentDef{
		arg(ast.Out, "id", types.Entity("tt:thing")),
		arg(ast.Out, "name", types.String),
	}, nil)
	withoutID := query("withoutID", []*ast.ArgumentDef{
		arg(ast.Out, "name", types.String),
	}, nil)
	inherited := query("inherited", nil, []string{"withID"})
	if _, err := ast.NewClassDef("com.example",
		[]*ast.FunctionDef{withID, withoutID, inherited}, nil); err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]string{"id"}, withID.MinimalProjection()); diff != "" {
		t.Errorf("withID minimal projection (-want +got):\n%s", diff)
	}
	if got := withoutID.MinimalProjection(); len(got) != 0 {
		t.Errorf("withoutID minimal projection = %v; want empty", got)
	}
	// The id argument is inherited, so the default must be computed after
	// the class back-pointer is set.
	if diff := cmp.Diff([]string{"id"}, inherited.MinimalProjection()); diff != "" {
		t.Errorf("inherited minimal projection (-want +got):\n%s", diff)
	}
}

func TestExplicitMinimalProjection(t *testing.T) {
	f := ast.NewFunctionDef(ast.FunctionQuery, "f", []*ast.ArgumentDef{
		arg(ast.Out, "id", types.Entity("tt:thing")),
		arg(ast.Out, "name", types.String),
	}, nil, true, false, nil, map[string]ast.Value{
		"minimal_projection": ast.NewArray(ast.NewString("name")),
	})
	if _, err := ast.NewClassDef("com.example", []*ast.FunctionDef{f}, nil); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"name"}, f.MinimalProjection()); diff != "" {
		t.Errorf("explicit annotation was overridden (-want +got):\n%s", diff)
	}
}

func TestMinimalProjectionValidation(t *testing.T) {
	f := ast.NewFunctionDef(ast.FunctionQuery, "f", []*ast.ArgumentDef{
		arg(ast.Out, "id", types.Entity("tt:thing")),
		arg(ast.Out, "name", types.String),
	}, nil, true, false, nil, map[string]ast.Value{
		"default_projection": ast.NewArray(ast.NewString("name")),
	})
	_, err := ast.NewClassDef("com.example", []*ast.FunctionDef{f}, nil)
	if err == nil {
		t.Fatal("minimal projection outside the default projection was accepted")
	}
	if !strings.Contains(err.Error(), "minimal projection") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestUndeclaredParent(t *testing.T) {
	g := query("g", nil, []string{"nope"})
	_, err := ast.NewClassDef("com.example", []*ast.FunctionDef{g}, nil)
	if err == nil {
		t.Fatal("extends of an undeclared function was accepted")
	}
	if !strings.Contains(err.Error(), "undeclared") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestCyclicExtends(t *testing.T) {
	a := query("a", nil, []string{"b"})
	b := query("b", nil, []string{"c"})
	c := query("c", nil, []string{"a"})
	_, err := ast.NewClassDef("com.example", []*ast.FunctionDef{a, b, c}, nil)
	if err == nil {
		t.Fatal("cyclic extends chain was accepted")
	}
	if !strings.Contains(err.Error(), "cyclic") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestSelfExtends(t *testing.T) {
	a := query("a", nil, []string{"a"})
	if _, err := ast.NewClassDef("com.example", []*ast.FunctionDef{a}, nil); err == nil {
		t.Fatal("self-extends was accepted")
	}
}

func TestDuplicateFunction(t *testing.T) {
	f1 := query("f", nil, nil)
	f2 := query("f", nil, nil)
	_, err := ast.NewClassDef("com.example", []*ast.FunctionDef{f1, f2}, nil)
	if err == nil {
		t.Fatal("duplicate query name was accepted")
	}
	if !strings.Contains(err.Error(), "duplicate") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestGetFunction(t *testing.T) {
	list := query("list", nil, nil)
	post := action("post", []*ast.ArgumentDef{arg(ast.InReq, "text", types.String)})
	c, err := ast.NewClassDef("com.example", []*ast.FunctionDef{list}, []*ast.FunctionDef{post})
	if err != nil {
		t.Fatal(err)
	}

	if c.GetFunction(ast.FunctionQuery, "list") != list {
		t.Error("query lookup failed")
	}
	// Streams are monitorable queries; they resolve in the query table.
	if c.GetFunction(ast.FunctionStream, "list") != list {
		t.Error("stream lookup did not resolve against queries")
	}
	if c.GetFunction(ast.FunctionAction, "post") != post {
		t.Error("action lookup failed")
	}
	if c.GetFunction(ast.FunctionQuery, "post") != nil {
		t.Error("action leaked into the query namespace")
	}
}

func TestQualifiedName(t *testing.T) {
	f := query("list", nil, nil)
	if got := f.QualifiedName(); got != "list" {
		t.Errorf("detached: got %q; want %q", got, "list")
	}
	if _, err := ast.NewClassDef("com.example", []*ast.FunctionDef{f}, nil); err != nil {
		t.Fatal(err)
	}
	if got := f.QualifiedName(); got != "com.example:list" {
		t.Errorf("attached: got %q; want %q", got, "com.example:list")
	}
}

func TestClassCanonical(t *testing.T) {
	c, err := ast.NewClassDef("com.example.widget", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := c.Canonical(); got != "widget" {
		t.Errorf("got %q; want %q", got, "widget")
	}
}

func TestClassClone(t *testing.T) {
	f := query("f", []*ast.ArgumentDef{arg(ast.Out, "a", types.String)}, nil)
	g := query("g", nil, []string{"f"})
	c, err := ast.NewClassDef("com.example", []*ast.FunctionDef{f, g}, nil)
	if err != nil {
		t.Fatal(err)
	}

	clone := c.Clone()
	if clone == c {
		t.Fatal("clone returned the same class")
	}
	cg := clone.Queries["g"]
	if cg == g {
		t.Fatal("clone shares function definitions with the original")
	}
	// Inheritance on the clone must resolve through the clone, not reach
	// back into the original class.
	if !cg.HasArgument("a") {
		t.Error("clone lost inherited arguments")
	}
	if cg.GetArgument("a") == g.GetArgument("a") {
		t.Error("clone resolves inherited arguments to the original's definitions")
	}
	if cg.QualifiedName() != "com.example:g" {
		t.Errorf("clone qualified name = %q", cg.QualifiedName())
	}
}

func TestFunctionTypeMismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("action declared in the query list did not panic")
		}
	}()
	post := action("post", nil)
	ast.NewClassDef("com.example", []*ast.FunctionDef{post}, nil)
}
