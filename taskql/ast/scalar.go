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

// A PrimaryScalarExpression lifts a value into a scalar expression.
type PrimaryScalarExpression struct {
	Src   *token.SourceRange
	Value Value
}

// NewPrimaryScalar lifts value into a scalar expression. It panics if
// the value is nil.
func NewPrimaryScalar(value Value) *PrimaryScalarExpression {
	if value == nil {
		panic("ast: nil primary scalar value")
	}
	return &PrimaryScalarExpression{Value: value}
}

func (e *PrimaryScalarExpression) Loc() *token.SourceRange { return e.Src }

// CloneScalar returns a deep copy.
func (e *PrimaryScalarExpression) CloneScalar() ScalarExpression {
	return &PrimaryScalarExpression{Src: e.Src.Clone(), Value: e.Value.CloneValue()}
}

// A DerivedScalarExpression applies a scalar operator to sub-expressions.
type DerivedScalarExpression struct {
	Src      *token.SourceRange
	Op       string
	Operands []ScalarExpression
}

// NewDerivedScalar applies op to the given operands. It panics if the
// operator is unknown or an operand is nil.
func NewDerivedScalar(op string, operands ...ScalarExpression) *DerivedScalarExpression {
	if !IsScalarOp(op) {
		panic(fmt.Sprintf("ast: unknown scalar operator %q", op))
	}
	for i, o := range operands {
		if o == nil {
			panic(fmt.Sprintf("ast: nil scalar operand at index %d", i))
		}
	}
	return &DerivedScalarExpression{Op: op, Operands: operands}
}

func (e *DerivedScalarExpression) Loc() *token.SourceRange { return e.Src }

// CloneScalar returns a deep copy.
func (e *DerivedScalarExpression) CloneScalar() ScalarExpression {
	c := &DerivedScalarExpression{Src: e.Src.Clone(), Op: e.Op}
	if e.Operands != nil {
		c.Operands = make([]ScalarExpression, len(e.Operands))
		for i, o := range e.Operands {
			c.Operands[i] = o.CloneScalar()
		}
	}
	return c
}

// An AggregationScalarExpression reduces a list-valued expression with
// an aggregation operator. Field selects the aggregated field of
// compound elements; it is empty for count and for scalar lists.
type AggregationScalarExpression struct {
	Src      *token.SourceRange
	Operator string
	Field    string
	List     ScalarExpression
}

// NewAggregationScalar reduces list with the given operator. It panics
// if the operator is unknown or the list is nil.
func NewAggregationScalar(operator, field string, list ScalarExpression) *AggregationScalarExpression {
	if !IsAggregationOp(operator) {
		panic(fmt.Sprintf("ast: unknown aggregation operator %q", operator))
	}
	if list == nil {
		panic("ast: nil aggregation list")
	}
	return &AggregationScalarExpression{Operator: operator, Field: field, List: list}
}

func (e *AggregationScalarExpression) Loc() *token.SourceRange { return e.Src }

// CloneScalar returns a deep copy.
func (e *AggregationScalarExpression) CloneScalar() ScalarExpression {
	return &AggregationScalarExpression{
		Src:      e.Src.Clone(),
		Operator: e.Operator,
		Field:    e.Field,
		List:     e.List.CloneScalar(),
	}
}

// A VarRefScalarExpression calls a named scalar function of a provider,
// such as a declared compute function.
type VarRefScalarExpression struct {
	Src      *token.SourceRange
	Selector Selector
	Name     string
	Args     []*InputParam
}

// NewVarRefScalar calls the named scalar function through the given
// selector. It panics if the selector is nil or the name is empty.
func NewVarRefScalar(sel Selector, name string, args []*InputParam) *VarRefScalarExpression {
	if sel == nil {
		panic("ast: nil scalar function selector")
	}
	if name == "" {
		panic("ast: empty scalar function name")
	}
	for i, p := range args {
		if p == nil {
			panic(fmt.Sprintf("ast: nil input parameter at index %d", i))
		}
	}
	return &VarRefScalarExpression{Selector: sel, Name: name, Args: args}
}

func (e *VarRefScalarExpression) Loc() *token.SourceRange { return e.Src }

// CloneScalar returns a deep copy.
func (e *VarRefScalarExpression) CloneScalar() ScalarExpression {
	c := &VarRefScalarExpression{
		Src:      e.Src.Clone(),
		Selector: e.Selector.CloneSelector(),
		Name:     e.Name,
	}
	if e.Args != nil {
		c.Args = make([]*InputParam, len(e.Args))
		for i, p := range e.Args {
			c.Args[i] = p.Clone()
		}
	}
	return c
}

// EqualScalar reports whether two scalar expressions are structurally
// equal.
func EqualScalar(a, b ScalarExpression) bool {
	if a == nil || b == nil {
		return a == b
	}
	switch x := a.(type) {
	case *PrimaryScalarExpression:
		y, ok := b.(*PrimaryScalarExpression)
		return ok && EqualValue(x.Value, y.Value)
	case *DerivedScalarExpression:
		y, ok := b.(*DerivedScalarExpression)
		if !ok || x.Op != y.Op || len(x.Operands) != len(y.Operands) {
			return false
		}
		for i := range x.Operands {
			if !EqualScalar(x.Operands[i], y.Operands[i]) {
				return false
			}
		}
		return true
	case *AggregationScalarExpression:
		y, ok := b.(*AggregationScalarExpression)
		return ok && x.Operator == y.Operator && x.Field == y.Field && EqualScalar(x.List, y.List)
	case *VarRefScalarExpression:
		y, ok := b.(*VarRefScalarExpression)
		return ok && x.Name == y.Name && equalInputParams(x.Args, y.Args)
	default:
		panic(fmt.Sprintf("ast: EqualScalar: unexpected scalar type %T", x))
	}
}
