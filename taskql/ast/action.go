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

	"taskql.org/go/taskql/token"
)

// A VarRefAction calls an action declared earlier in the program by
// name.
type VarRefAction struct {
	Src      *token.SourceRange
	Name     string
	InParams []*InputParam

	Schema *ExpressionSignature
}

// NewVarRefAction calls the named declared action. It panics if the
// name is empty or an input parameter is nil.
func NewVarRefAction(name string, inParams []*InputParam) *VarRefAction {
	if name == "" {
		panic("ast: empty action reference name")
	}
	for i, p := range inParams {
		if p == nil {
			panic(fmt.Sprintf("ast: nil input parameter at index %d", i))
		}
	}
	return &VarRefAction{Name: name, InParams: inParams}
}

func (a *VarRefAction) Loc() *token.SourceRange          { return a.Src }
func (a *VarRefAction) Signature() *ExpressionSignature { return a.Schema }

// CloneAction returns a deep copy.
func (a *VarRefAction) CloneAction() Action {
	c := &VarRefAction{Src: a.Src.Clone(), Name: a.Name, Schema: cloneSchema(a.Schema)}
	if a.InParams != nil {
		c.InParams = make([]*InputParam, len(a.InParams))
		for i, p := range a.InParams {
			c.InParams[i] = p.Clone()
		}
	}
	return c
}

// An InvocationAction executes one action invocation.
type InvocationAction struct {
	Src        *token.SourceRange
	Invocation *Invocation

	Schema *ExpressionSignature
}

// NewInvocationAction wraps an action invocation. It panics if the
// invocation is nil.
func NewInvocationAction(inv *Invocation) *InvocationAction {
	if inv == nil {
		panic("ast: nil action invocation")
	}
	return &InvocationAction{Invocation: inv}
}

// NotifyAction returns the built-in action that presents the current
// result to the user.
func NotifyAction() *InvocationAction {
	return NewInvocationAction(NewInvocation(Builtin, "notify", nil))
}

func (a *InvocationAction) Loc() *token.SourceRange          { return a.Src }
func (a *InvocationAction) Signature() *ExpressionSignature { return a.Schema }

// CloneAction returns a deep copy.
func (a *InvocationAction) CloneAction() Action {
	return &InvocationAction{
		Src:        a.Src.Clone(),
		Invocation: a.Invocation.Clone(),
		Schema:     cloneSchema(a.Schema),
	}
}
