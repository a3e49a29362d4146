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

// A DeviceSelector targets a function of a configured device: the device
// class kind, optionally a concrete device identifier, and attribute
// constraints used to pick among multiple configured devices. A selector
// with an empty ID is unresolved; the dialogue layer fills it in.
type DeviceSelector struct {
	Src  *token.SourceRange
	Kind string
	ID   string

	// Attributes constrain device selection, for example by name.
	Attributes []*InputParam

	// All targets every matching device instead of exactly one.
	All bool
}

// NewDeviceSelector returns an unresolved selector for the given device
// class. It panics if the kind is empty.
func NewDeviceSelector(kind string) *DeviceSelector {
	if kind == "" {
		panic("ast: empty device kind")
	}
	return &DeviceSelector{Kind: kind}
}

func (s *DeviceSelector) Loc() *token.SourceRange { return s.Src }

// CloneSelector returns a deep copy of the selector.
func (s *DeviceSelector) CloneSelector() Selector {
	c := &DeviceSelector{
		Src:  s.Src.Clone(),
		Kind: s.Kind,
		ID:   s.ID,
		All:  s.All,
	}
	if s.Attributes != nil {
		c.Attributes = make([]*InputParam, len(s.Attributes))
		for i, a := range s.Attributes {
			c.Attributes[i] = a.Clone()
		}
	}
	return c
}

// A BuiltinSelector targets the assistant's own built-in functions.
// There is exactly one BuiltinSelector, the Builtin singleton; it is
// compared by identity and survives cloning.
type BuiltinSelector struct{}

// Builtin is the selector of the assistant's built-in functions.
var Builtin = &BuiltinSelector{}

func (s *BuiltinSelector) Loc() *token.SourceRange { return nil }

// CloneSelector returns the Builtin singleton itself.
func (s *BuiltinSelector) CloneSelector() Selector { return Builtin }

// An InputParam binds a value to a named input argument of an
// invocation.
type InputParam struct {
	Src   *token.SourceRange
	Name  string
	Value Value
}

// NewInputParam binds value to the named input argument. It panics if
// the name is empty or the value is nil.
func NewInputParam(name string, value Value) *InputParam {
	if name == "" {
		panic("ast: empty input parameter name")
	}
	if value == nil {
		panic(fmt.Sprintf("ast: nil value for input parameter %q", name))
	}
	return &InputParam{Name: name, Value: value}
}

func (p *InputParam) Loc() *token.SourceRange { return p.Src }

// Clone returns a deep copy of the input parameter.
func (p *InputParam) Clone() *InputParam {
	return &InputParam{Src: p.Src.Clone(), Name: p.Name, Value: p.Value.CloneValue()}
}

// An Invocation calls one channel of a device: a selector, a channel
// name, and bindings for some of the channel's input arguments. The
// schema is filled in by the type checker.
type Invocation struct {
	Src      *token.SourceRange
	Selector Selector
	Channel  string
	InParams []*InputParam

	Schema *FunctionDef
}

// NewInvocation returns a call to the given channel through the given
// selector. It panics if the selector is nil, the channel is empty, or
// an input parameter is nil.
func NewInvocation(sel Selector, channel string, inParams []*InputParam) *Invocation {
	if sel == nil {
		panic("ast: nil invocation selector")
	}
	if channel == "" {
		panic("ast: empty invocation channel")
	}
	for i, p := range inParams {
		if p == nil {
			panic(fmt.Sprintf("ast: nil input parameter at index %d", i))
		}
	}
	return &Invocation{Selector: sel, Channel: channel, InParams: inParams}
}

func (inv *Invocation) Loc() *token.SourceRange { return inv.Src }

// InputParam reports the binding for the named argument, or nil.
func (inv *Invocation) InputParam(name string) *InputParam {
	for _, p := range inv.InParams {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Clone returns a deep copy of the invocation, schema included.
func (inv *Invocation) Clone() *Invocation {
	c := &Invocation{
		Src:      inv.Src.Clone(),
		Selector: inv.Selector.CloneSelector(),
		Channel:  inv.Channel,
	}
	if inv.Schema != nil {
		c.Schema = inv.Schema.Clone()
	}
	if inv.InParams != nil {
		c.InParams = make([]*InputParam, len(inv.InParams))
		for i, p := range inv.InParams {
			c.InParams[i] = p.Clone()
		}
	}
	return c
}
