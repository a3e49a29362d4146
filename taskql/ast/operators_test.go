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

	"taskql.org/go/taskql/ast"
	"taskql.org/go/taskql/types"
)

func TestFilterValueType(t *testing.T) {
	testCases := []struct {
		op   string
		lhs  types.Type
		want types.Type
	}{
		{"==", types.Number, types.Number},
		{">=", types.Measure("C"), types.Measure("C")},
		{"==", nil, types.Any},
		{"=~", types.Entity("tt:hashtag"), types.String},
		{"~=", types.String, types.String},
		{"starts_with", types.String, types.String},
		{"ends_with", types.String, types.String},
		{"prefix_of", types.String, types.String},
		{"suffix_of", types.String, types.String},
		{"contains", types.Array(types.Number), types.Number},
		{"contains", types.String, types.Any},
		{"contains~", types.Array(types.Entity("tt:person")), types.String},
		{"~contains", types.String, types.String},
		{"in_array", types.String, types.Array(types.String)},
		{"in_array~", types.Entity("tt:person"), types.Array(types.Entity("tt:person"))},
		{"group_member", types.Entity("tt:contact"), types.Entity("tt:contact_group")},
	}
	for _, tc := range testCases {
		got := ast.FilterValueType(tc.op, tc.lhs)
		if !types.Equal(got, tc.want) {
			t.Errorf("FilterValueType(%q, %v) = %v; want %v", tc.op, tc.lhs, got, tc.want)
		}
	}
}

func TestOperatorSets(t *testing.T) {
	for _, op := range []string{"==", "=~", "in_array", "group_member"} {
		if !ast.IsComparisonOp(op) {
			t.Errorf("IsComparisonOp(%q) = false", op)
		}
	}
	for _, op := range []string{"+", "distance", "count"} {
		if !ast.IsScalarOp(op) {
			t.Errorf("IsScalarOp(%q) = false", op)
		}
	}
	for _, op := range []string{"count", "argmax", "avg"} {
		if !ast.IsAggregationOp(op) {
			t.Errorf("IsAggregationOp(%q) = false", op)
		}
	}
	if ast.IsComparisonOp("+") {
		t.Error("IsComparisonOp(+) = true")
	}
	if ast.IsScalarOp("argmax") {
		t.Error("IsScalarOp(argmax) = true")
	}
	if ast.IsAggregationOp("=~") {
		t.Error("IsAggregationOp(=~) = true")
	}
}
