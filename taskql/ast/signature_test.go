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
	"testing"

	"github.com/google/go-cmp/cmp"

	"taskql.org/go/taskql/ast"
	"taskql.org/go/taskql/types"
)

func arg(dir ast.Direction, name string, typ types.Type) *ast.ArgumentDef {
	return ast.NewArgumentDef(dir, name, typ, nil, nil)
}

func TestCompoundFlattening(t *testing.T) {
	point := types.Compound("",
		types.Field{Name: "x", Type: types.Number},
		types.Field{Name: "y", Type: types.Number},
	)
	sig := ast.NewExpressionSignature(ast.FunctionQuery,
		[]*ast.ArgumentDef{arg(ast.InReq, "p", point)}, nil, false, false)

	want := []string{"p", "p.x", "p.y"}
	if diff := cmp.Diff(want, sig.ArgumentNames()); diff != "" {
		t.Errorf("argument names mismatch (-want +got):\n%s", diff)
	}
	if !sig.HasArgument("p.x") {
		t.Error("hasArgument(p.x) = false; want true")
	}
	px := sig.GetArgument("p.x")
	if px == nil {
		t.Fatal("getArgument(p.x) = nil")
	}
	if px.Direction != ast.InReq {
		t.Errorf("p.x direction = %v; want %v", px.Direction, ast.InReq)
	}
	if !types.Equal(px.Type, types.Number) {
		t.Errorf("p.x type = %v; want Number", px.Type)
	}
}

func TestNestedCompoundFlattening(t *testing.T) {
	inner := types.Compound("",
		types.Field{Name: "lat", Type: types.Number},
		types.Field{Name: "lon", Type: types.Number},
	)
	outer := types.Compound("",
		types.Field{Name: "geo", Type: inner},
		types.Field{Name: "label", Type: types.String},
	)
	sig := ast.NewExpressionSignature(ast.FunctionQuery,
		[]*ast.ArgumentDef{arg(ast.Out, "place", outer)}, nil, true, false)

	want := []string{"place", "place.geo", "place.geo.lat", "place.geo.lon", "place.label"}
	if diff := cmp.Diff(want, sig.ArgumentNames()); diff != "" {
		t.Errorf("argument names mismatch (-want +got):\n%s", diff)
	}
}

func TestArrayOfCompoundFlattening(t *testing.T) {
	elem := types.Compound("",
		types.Field{Name: "who", Type: types.String},
		types.Field{Name: "when", Type: types.Date},
	)
	sig := ast.NewExpressionSignature(ast.FunctionQuery,
		[]*ast.ArgumentDef{arg(ast.Out, "edits", types.Array(elem))}, nil, true, true)

	want := []string{"edits", "edits.who", "edits.when"}
	if diff := cmp.Diff(want, sig.ArgumentNames()); diff != "" {
		t.Errorf("argument names mismatch (-want +got):\n%s", diff)
	}
}

func TestPartitions(t *testing.T) {
	sig := ast.NewExpressionSignature(ast.FunctionQuery, []*ast.ArgumentDef{
		arg(ast.InReq, "query", types.String),
		arg(ast.InOpt, "count", types.Number),
		arg(ast.Out, "link", types.Entity("tt:url")),
		arg(ast.Out, "title", types.String),
	}, nil, true, false)

	if got := len(sig.RequiredInputs()); got != 1 {
		t.Errorf("got %d required inputs; want 1", got)
	}
	if got := len(sig.OptionalInputs()); got != 1 {
		t.Errorf("got %d optional inputs; want 1", got)
	}
	if got := len(sig.Outputs()); got != 2 {
		t.Errorf("got %d outputs; want 2", got)
	}
	if !sig.IsArgInput("query") || sig.IsArgInput("link") {
		t.Error("input partition classified arguments incorrectly")
	}
	if !sig.IsArgRequired("query") || sig.IsArgRequired("count") {
		t.Error("required partition classified arguments incorrectly")
	}
}

func TestActionConstraints(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("list-valued action did not panic")
		}
	}()
	ast.NewExpressionSignature(ast.FunctionAction, nil, nil, true, false)
}

func TestDetachedExtendsFailsFast(t *testing.T) {
	sig := ast.NewExpressionSignature(ast.FunctionQuery, nil, []string{"base"}, false, false)
	defer func() {
		if recover() == nil {
			t.Error("argument lookup on a detached extending signature did not panic")
		}
	}()
	sig.HasArgument("anything")
}

func TestArgumentCanonical(t *testing.T) {
	testCases := []struct {
		name string
		want string
	}{
		{"file_name", "file name"},
		{"pictureUrl", "picture url"},
		{"id", "id"},
		{"inReplyTo", "in reply to"},
	}
	for _, tc := range testCases {
		a := arg(ast.Out, tc.name, types.String)
		if got := a.Canonical(); got != tc.want {
			t.Errorf("%s: got canonical %q; want %q", tc.name, got, tc.want)
		}
	}
	withNL := ast.NewArgumentDef(ast.Out, "file_name", types.String,
		map[string]interface{}{"canonical": "document title"}, nil)
	if got := withNL.Canonical(); got != "document title" {
		t.Errorf("got canonical %q; want annotation to win", got)
	}
}

func TestDirectionString(t *testing.T) {
	testCases := []struct {
		dir  ast.Direction
		want string
	}{
		{ast.InReq, "in req"},
		{ast.InOpt, "in opt"},
		{ast.Out, "out"},
	}
	for _, tc := range testCases {
		if got := tc.dir.String(); got != tc.want {
			t.Errorf("got %q; want %q", got, tc.want)
		}
	}
}

func TestSignatureCloneIndependence(t *testing.T) {
	sig := ast.NewExpressionSignature(ast.FunctionQuery, []*ast.ArgumentDef{
		arg(ast.Out, "id", types.Entity("tt:thing")),
	}, nil, true, true)
	clone := sig.Clone()

	if clone == sig {
		t.Fatal("clone returned the same signature")
	}
	if clone.GetArgument("id") == sig.GetArgument("id") {
		t.Error("clone shares argument definitions with the original")
	}
	if !types.Equal(clone.GetArgType("id"), sig.GetArgType("id")) {
		t.Error("clone changed an argument type")
	}
	if clone.IsList != sig.IsList || clone.IsMonitorable != sig.IsMonitorable {
		t.Error("clone changed signature flags")
	}
}
