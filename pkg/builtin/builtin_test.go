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

package builtin_test

import (
	"testing"

	"taskql.org/go/pkg/builtin"
	"taskql.org/go/taskql/ast"
)

func TestClass(t *testing.T) {
	for _, name := range []string{"notify", "return", "save"} {
		f := builtin.Class.GetFunction(ast.FunctionAction, name)
		if f == nil {
			t.Fatalf("missing built-in action %q", name)
		}
		if f.FunctionType != ast.FunctionAction {
			t.Errorf("%s is a %s; want an action", name, f.FunctionType)
		}
		if got := len(f.Arguments()); got != 0 {
			t.Errorf("%s has %d arguments; want none", name, got)
		}
		if !builtin.IsAction(name) {
			t.Errorf("IsAction(%q) = false", name)
		}
	}
	if builtin.IsAction("launder") {
		t.Error(`IsAction("launder") = true`)
	}
	if builtin.Notify() == nil || builtin.Return() == nil || builtin.Save() == nil {
		t.Error("an accessor returned nil")
	}
}
