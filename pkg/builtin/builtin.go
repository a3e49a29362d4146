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

// Package builtin declares the assistant's built-in functions.
//
// The Builtin selector resolves against a pseudo-class of three
// actions: notify forwards the current result to the user, return
// forwards it to whoever issued the program, and save persists it.
// Executors handle all three specially, so their signatures must stay
// stable; the definitions here are shared and must not be modified.
package builtin

import (
	"taskql.org/go/taskql/ast"
)

// Kind is the kind of the pseudo-class the built-in functions belong
// to.
const Kind = "org.taskql.builtin"

// Class is the pseudo-class declaring the built-in actions.
var Class = newClass()

func newClass() *ast.ClassDef {
	actions := []*ast.FunctionDef{
		def("notify", "notify me"),
		def("return", "return the result to me"),
		def("save", "save the result"),
	}
	c, err := ast.NewClassDef(Kind, nil, actions)
	if err != nil {
		panic(err)
	}
	return c
}

// The built-in actions take no declared arguments; the executor
// forwards whatever the producing query emits.
func def(name, canonical string) *ast.FunctionDef {
	return ast.NewFunctionDef(ast.FunctionAction, name, nil, nil, false, false,
		map[string]interface{}{"canonical": canonical}, nil)
}

// Notify reports the definition of the notify action.
func Notify() *ast.FunctionDef { return Class.Actions["notify"] }

// Return reports the definition of the return action.
func Return() *ast.FunctionDef { return Class.Actions["return"] }

// Save reports the definition of the save action.
func Save() *ast.FunctionDef { return Class.Actions["save"] }

// IsAction reports whether name is one of the built-in actions.
func IsAction(name string) bool {
	return Class.Actions[name] != nil
}
