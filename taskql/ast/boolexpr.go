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

// A TrueBooleanExpression accepts every row. There is exactly one, the
// True singleton; cloning returns the singleton, so identity comparison
// with True is always valid.
type TrueBooleanExpression struct{}

// True is the filter that accepts every row.
var True = &TrueBooleanExpression{}

func (e *TrueBooleanExpression) Loc() *token.SourceRange { return nil }

// CloneBoolean returns the True singleton itself.
func (e *TrueBooleanExpression) CloneBoolean() BooleanExpression { return True }

// A FalseBooleanExpression rejects every row. There is exactly one, the
// False singleton.
type FalseBooleanExpression struct{}

// False is the filter that rejects every row.
var False = &FalseBooleanExpression{}

func (e *FalseBooleanExpression) Loc() *token.SourceRange { return nil }

// CloneBoolean returns the False singleton itself.
func (e *FalseBooleanExpression) CloneBoolean() BooleanExpression { return False }

// An AndBooleanExpression is the conjunction of its operands. An empty
// conjunction accepts every row.
type AndBooleanExpression struct {
	Src      *token.SourceRange
	Operands []BooleanExpression
}

// NewAnd returns the conjunction of the given filters. It panics if an
// operand is nil.
func NewAnd(operands ...BooleanExpression) *AndBooleanExpression {
	for i, op := range operands {
		if op == nil {
			panic(fmt.Sprintf("ast: nil conjunction operand at index %d", i))
		}
	}
	return &AndBooleanExpression{Operands: operands}
}

func (e *AndBooleanExpression) Loc() *token.SourceRange { return e.Src }

// CloneBoolean returns a deep copy of the conjunction.
func (e *AndBooleanExpression) CloneBoolean() BooleanExpression {
	c := &AndBooleanExpression{Src: e.Src.Clone()}
	if e.Operands != nil {
		c.Operands = make([]BooleanExpression, len(e.Operands))
		for i, op := range e.Operands {
			c.Operands[i] = op.CloneBoolean()
		}
	}
	return c
}

// An OrBooleanExpression is the disjunction of its operands. An empty
// disjunction rejects every row.
type OrBooleanExpression struct {
	Src      *token.SourceRange
	Operands []BooleanExpression
}

// NewOr returns the disjunction of the given filters. It panics if an
// operand is nil.
func NewOr(operands ...BooleanExpression) *OrBooleanExpression {
	for i, op := range operands {
		if op == nil {
			panic(fmt.Sprintf("ast: nil disjunction operand at index %d", i))
		}
	}
	return &OrBooleanExpression{Operands: operands}
}

func (e *OrBooleanExpression) Loc() *token.SourceRange { return e.Src }

// CloneBoolean returns a deep copy of the disjunction.
func (e *OrBooleanExpression) CloneBoolean() BooleanExpression {
	c := &OrBooleanExpression{Src: e.Src.Clone()}
	if e.Operands != nil {
		c.Operands = make([]BooleanExpression, len(e.Operands))
		for i, op := range e.Operands {
			c.Operands[i] = op.CloneBoolean()
		}
	}
	return c
}

// A NotBooleanExpression negates its operand.
type NotBooleanExpression struct {
	Src  *token.SourceRange
	Expr BooleanExpression
}

// NewNot returns the negation of the given filter. It panics if the
// filter is nil.
func NewNot(expr BooleanExpression) *NotBooleanExpression {
	if expr == nil {
		panic("ast: nil negated filter")
	}
	return &NotBooleanExpression{Expr: expr}
}

func (e *NotBooleanExpression) Loc() *token.SourceRange { return e.Src }

// CloneBoolean returns a deep copy of the negation.
func (e *NotBooleanExpression) CloneBoolean() BooleanExpression {
	return &NotBooleanExpression{Src: e.Src.Clone(), Expr: e.Expr.CloneBoolean()}
}

// An AtomBooleanExpression compares a named argument of the current row
// against a value.
type AtomBooleanExpression struct {
	Src      *token.SourceRange
	Name     string
	Operator string
	Value    Value
}

// NewAtom returns the filter comparing the named argument with value.
// It panics if the name is empty, the operator is unknown, or the value
// is nil.
func NewAtom(name, operator string, value Value) *AtomBooleanExpression {
	if name == "" {
		panic("ast: empty filter argument name")
	}
	if !IsComparisonOp(operator) {
		panic(fmt.Sprintf("ast: unknown comparison operator %q", operator))
	}
	if value == nil {
		panic(fmt.Sprintf("ast: nil value in filter on %q", name))
	}
	return &AtomBooleanExpression{Name: name, Operator: operator, Value: value}
}

func (e *AtomBooleanExpression) Loc() *token.SourceRange { return e.Src }

// CloneBoolean returns a deep copy of the atom.
func (e *AtomBooleanExpression) CloneBoolean() BooleanExpression {
	return &AtomBooleanExpression{
		Src:      e.Src.Clone(),
		Name:     e.Name,
		Operator: e.Operator,
		Value:    e.Value.CloneValue(),
	}
}

// An ExternalBooleanExpression is a get-predicate: it calls a query of
// another device and applies a filter to the result. Only device
// functions can be used as get-predicates, so the selector is always a
// DeviceSelector. The schema is filled in by the type checker.
type ExternalBooleanExpression struct {
	Src      *token.SourceRange
	Selector *DeviceSelector
	Channel  string
	InParams []*InputParam
	Filter   BooleanExpression

	Schema *FunctionDef
}

// NewExternal returns a get-predicate over the given channel. It panics
// if the selector is nil, the channel is empty, the filter is nil, or an
// input parameter is nil.
func NewExternal(sel *DeviceSelector, channel string, inParams []*InputParam, filter BooleanExpression) *ExternalBooleanExpression {
	if sel == nil {
		panic("ast: nil get-predicate selector")
	}
	if channel == "" {
		panic("ast: empty get-predicate channel")
	}
	if filter == nil {
		panic("ast: nil get-predicate filter")
	}
	for i, p := range inParams {
		if p == nil {
			panic(fmt.Sprintf("ast: nil input parameter at index %d", i))
		}
	}
	return &ExternalBooleanExpression{Selector: sel, Channel: channel, InParams: inParams, Filter: filter}
}

func (e *ExternalBooleanExpression) Loc() *token.SourceRange { return e.Src }

// CloneBoolean returns a deep copy of the get-predicate, schema
// included.
func (e *ExternalBooleanExpression) CloneBoolean() BooleanExpression {
	c := &ExternalBooleanExpression{
		Src:      e.Src.Clone(),
		Selector: e.Selector.CloneSelector().(*DeviceSelector),
		Channel:  e.Channel,
		Filter:   e.Filter.CloneBoolean(),
	}
	if e.Schema != nil {
		c.Schema = e.Schema.Clone()
	}
	if e.InParams != nil {
		c.InParams = make([]*InputParam, len(e.InParams))
		for i, p := range e.InParams {
			c.InParams[i] = p.Clone()
		}
	}
	return c
}

// A DontCareBooleanExpression records that the user explicitly does not
// care about the named argument. It accepts every row; dialogue agents
// use it to stop asking about the argument.
type DontCareBooleanExpression struct {
	Src  *token.SourceRange
	Name string
}

// NewDontCare marks the named argument as irrelevant. It panics if the
// name is empty.
func NewDontCare(name string) *DontCareBooleanExpression {
	if name == "" {
		panic("ast: empty dont-care argument name")
	}
	return &DontCareBooleanExpression{Name: name}
}

func (e *DontCareBooleanExpression) Loc() *token.SourceRange { return e.Src }

// CloneBoolean returns a deep copy.
func (e *DontCareBooleanExpression) CloneBoolean() BooleanExpression {
	c := *e
	c.Src = e.Src.Clone()
	return &c
}

// A ComputeBooleanExpression compares a computed scalar against a value.
type ComputeBooleanExpression struct {
	Src      *token.SourceRange
	LHS      ScalarExpression
	Operator string
	RHS      Value
}

// NewComputeFilter returns the filter comparing lhs with rhs. It panics
// if either side is nil or the operator is unknown.
func NewComputeFilter(lhs ScalarExpression, operator string, rhs Value) *ComputeBooleanExpression {
	if lhs == nil {
		panic("ast: nil compute filter scalar")
	}
	if !IsComparisonOp(operator) {
		panic(fmt.Sprintf("ast: unknown comparison operator %q", operator))
	}
	if rhs == nil {
		panic("ast: nil compute filter value")
	}
	return &ComputeBooleanExpression{LHS: lhs, Operator: operator, RHS: rhs}
}

func (e *ComputeBooleanExpression) Loc() *token.SourceRange { return e.Src }

// CloneBoolean returns a deep copy of the compute filter.
func (e *ComputeBooleanExpression) CloneBoolean() BooleanExpression {
	return &ComputeBooleanExpression{
		Src:      e.Src.Clone(),
		LHS:      e.LHS.CloneScalar(),
		Operator: e.Operator,
		RHS:      e.RHS.CloneValue(),
	}
}

// EqualBoolean reports whether two filters are structurally equal.
// Operand order is significant. Source ranges and checker-filled schemas
// are ignored.
func EqualBoolean(a, b BooleanExpression) bool {
	if a == nil || b == nil {
		return a == b
	}
	switch x := a.(type) {
	case *TrueBooleanExpression:
		_, ok := b.(*TrueBooleanExpression)
		return ok
	case *FalseBooleanExpression:
		_, ok := b.(*FalseBooleanExpression)
		return ok
	case *AndBooleanExpression:
		y, ok := b.(*AndBooleanExpression)
		return ok && equalBooleanList(x.Operands, y.Operands)
	case *OrBooleanExpression:
		y, ok := b.(*OrBooleanExpression)
		return ok && equalBooleanList(x.Operands, y.Operands)
	case *NotBooleanExpression:
		y, ok := b.(*NotBooleanExpression)
		return ok && EqualBoolean(x.Expr, y.Expr)
	case *AtomBooleanExpression:
		y, ok := b.(*AtomBooleanExpression)
		return ok && x.Name == y.Name && x.Operator == y.Operator && EqualValue(x.Value, y.Value)
	case *ExternalBooleanExpression:
		y, ok := b.(*ExternalBooleanExpression)
		return ok && equalDeviceSelector(x.Selector, y.Selector) &&
			x.Channel == y.Channel &&
			equalInputParams(x.InParams, y.InParams) &&
			EqualBoolean(x.Filter, y.Filter)
	case *DontCareBooleanExpression:
		y, ok := b.(*DontCareBooleanExpression)
		return ok && x.Name == y.Name
	case *ComputeBooleanExpression:
		y, ok := b.(*ComputeBooleanExpression)
		return ok && x.Operator == y.Operator && EqualScalar(x.LHS, y.LHS) && EqualValue(x.RHS, y.RHS)
	default:
		panic(fmt.Sprintf("ast: EqualBoolean: unexpected filter type %T", x))
	}
}

func equalBooleanList(a, b []BooleanExpression) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !EqualBoolean(a[i], b[i]) {
			return false
		}
	}
	return true
}

func equalDeviceSelector(a, b *DeviceSelector) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Kind == b.Kind && a.ID == b.ID && a.All == b.All &&
		equalInputParams(a.Attributes, b.Attributes)
}

func equalInputParams(a, b []*InputParam) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Name != b[i].Name || !EqualValue(a[i].Value, b[i].Value) {
			return false
		}
	}
	return true
}
