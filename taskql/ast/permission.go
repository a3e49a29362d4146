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

// A PermissionRule grants a class of principals the right to run
// programs whose query and action match the given permission functions.
type PermissionRule struct {
	Src       *token.SourceRange
	Principal BooleanExpression
	Query     PermissionFunction
	Action    PermissionFunction
}

// NewPermissionRule grants principals matching the principal filter the
// right to run programs matching query and action. It panics if any
// part is nil.
func NewPermissionRule(principal BooleanExpression, query, action PermissionFunction) *PermissionRule {
	if principal == nil {
		panic("ast: nil permission principal")
	}
	if query == nil {
		panic("ast: nil permission query")
	}
	if action == nil {
		panic("ast: nil permission action")
	}
	return &PermissionRule{Principal: principal, Query: query, Action: action}
}

func (r *PermissionRule) Loc() *token.SourceRange { return r.Src }

// Clone returns a deep copy of the permission rule.
func (r *PermissionRule) Clone() *PermissionRule {
	return &PermissionRule{
		Src:       r.Src.Clone(),
		Principal: r.Principal.CloneBoolean(),
		Query:     r.Query.ClonePermissionFunction(),
		Action:    r.Action.ClonePermissionFunction(),
	}
}

// A SpecifiedPermissionFunction matches one function of one device
// class, restricted by a filter over its arguments.
type SpecifiedPermissionFunction struct {
	Src     *token.SourceRange
	Kind    string
	Channel string
	Filter  BooleanExpression

	Schema *FunctionDef
}

// NewSpecifiedPermission matches the given channel of the given kind,
// restricted by filter. It panics if the kind or channel is empty or
// the filter is nil.
func NewSpecifiedPermission(kind, channel string, filter BooleanExpression) *SpecifiedPermissionFunction {
	if kind == "" {
		panic("ast: empty permission kind")
	}
	if channel == "" {
		panic("ast: empty permission channel")
	}
	if filter == nil {
		panic("ast: nil permission filter")
	}
	return &SpecifiedPermissionFunction{Kind: kind, Channel: channel, Filter: filter}
}

func (f *SpecifiedPermissionFunction) Loc() *token.SourceRange { return f.Src }

// ClonePermissionFunction returns a deep copy, schema included.
func (f *SpecifiedPermissionFunction) ClonePermissionFunction() PermissionFunction {
	c := &SpecifiedPermissionFunction{
		Src:     f.Src.Clone(),
		Kind:    f.Kind,
		Channel: f.Channel,
		Filter:  f.Filter.CloneBoolean(),
	}
	if f.Schema != nil {
		c.Schema = f.Schema.Clone()
	}
	return c
}

// A BuiltinPermissionFunction matches only the built-in notification
// functions. There is exactly one, the PermissionBuiltin singleton.
type BuiltinPermissionFunction struct{}

// PermissionBuiltin matches only the built-in notification functions.
var PermissionBuiltin = &BuiltinPermissionFunction{}

func (f *BuiltinPermissionFunction) Loc() *token.SourceRange { return nil }

// ClonePermissionFunction returns the PermissionBuiltin singleton
// itself.
func (f *BuiltinPermissionFunction) ClonePermissionFunction() PermissionFunction {
	return PermissionBuiltin
}

// A ClassStarPermissionFunction matches every function of one device
// class.
type ClassStarPermissionFunction struct {
	Src  *token.SourceRange
	Kind string
}

// NewClassStarPermission matches every function of the given kind. It
// panics if the kind is empty.
func NewClassStarPermission(kind string) *ClassStarPermissionFunction {
	if kind == "" {
		panic("ast: empty permission kind")
	}
	return &ClassStarPermissionFunction{Kind: kind}
}

func (f *ClassStarPermissionFunction) Loc() *token.SourceRange { return f.Src }

// ClonePermissionFunction returns a deep copy.
func (f *ClassStarPermissionFunction) ClonePermissionFunction() PermissionFunction {
	c := *f
	c.Src = f.Src.Clone()
	return &c
}

// A StarPermissionFunction matches every function of every class. There
// is exactly one, the PermissionStar singleton.
type StarPermissionFunction struct{}

// PermissionStar matches every function of every class.
var PermissionStar = &StarPermissionFunction{}

func (f *StarPermissionFunction) Loc() *token.SourceRange { return nil }

// ClonePermissionFunction returns the PermissionStar singleton itself.
func (f *StarPermissionFunction) ClonePermissionFunction() PermissionFunction {
	return PermissionStar
}

// EqualPermissionFunction reports whether two permission functions are
// structurally equal.
func EqualPermissionFunction(a, b PermissionFunction) bool {
	if a == nil || b == nil {
		return a == b
	}
	switch x := a.(type) {
	case *SpecifiedPermissionFunction:
		y, ok := b.(*SpecifiedPermissionFunction)
		return ok && x.Kind == y.Kind && x.Channel == y.Channel && EqualBoolean(x.Filter, y.Filter)
	case *BuiltinPermissionFunction:
		_, ok := b.(*BuiltinPermissionFunction)
		return ok
	case *ClassStarPermissionFunction:
		y, ok := b.(*ClassStarPermissionFunction)
		return ok && x.Kind == y.Kind
	case *StarPermissionFunction:
		_, ok := b.(*StarPermissionFunction)
		return ok
	default:
		panic(fmt.Sprintf("ast: EqualPermissionFunction: unexpected type %T", x))
	}
}
