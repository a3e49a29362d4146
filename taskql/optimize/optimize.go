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

// Package optimize simplifies filter expressions algebraically.
//
// The rewrites never change what a filter accepts: for every valuation
// of its atoms the optimized expression evaluates exactly like the
// input. Optimized results share unmodified children with the input
// tree; callers that need an independent tree must clone.
package optimize

import (
	"fmt"

	"taskql.org/go/taskql/ast"
)

// Filter returns an equivalent, simpler form of b. Operands are
// simplified bottom-up; nested conjunctions and disjunctions of the
// same connective are flattened; neutral operands (true in a
// conjunction, false in a disjunction) are dropped; an absorbing
// operand short-circuits the whole connective; a connective left with a
// single operand collapses to that operand, and one left with none
// collapses to its neutral element. Atoms, don't-cares and comparison
// predicates are left alone; get-predicates are simplified only in
// their nested filter.
func Filter(b ast.BooleanExpression) ast.BooleanExpression {
	switch x := b.(type) {
	case *ast.TrueBooleanExpression,
		*ast.FalseBooleanExpression,
		*ast.AtomBooleanExpression,
		*ast.DontCareBooleanExpression,
		*ast.ComputeBooleanExpression:
		return b

	case *ast.NotBooleanExpression:
		inner := Filter(x.Expr)
		if inner == x.Expr {
			return x
		}
		c := *x
		c.Expr = inner
		return &c

	case *ast.ExternalBooleanExpression:
		inner := Filter(x.Filter)
		if inner == x.Filter {
			return x
		}
		c := *x
		c.Filter = inner
		return &c

	case *ast.AndBooleanExpression:
		ops, changed := simplifyOperands(x.Operands, true)
		if ops == nil {
			return ast.False
		}
		switch len(ops) {
		case 0:
			return ast.True
		case 1:
			return ops[0]
		}
		if !changed {
			return x
		}
		c := *x
		c.Operands = ops
		return &c

	case *ast.OrBooleanExpression:
		ops, changed := simplifyOperands(x.Operands, false)
		if ops == nil {
			return ast.True
		}
		switch len(ops) {
		case 0:
			return ast.False
		case 1:
			return ops[0]
		}
		if !changed {
			return x
		}
		c := *x
		c.Operands = ops
		return &c

	default:
		panic(fmt.Sprintf("optimize: unexpected boolean expression type %T", b))
	}
}

// simplifyOperands optimizes the operands of a conjunction (and=true)
// or disjunction (and=false), flattening same-connective children and
// dropping neutral operands. A nil result means an absorbing operand
// was found and the whole connective short-circuits.
func simplifyOperands(operands []ast.BooleanExpression, and bool) (out []ast.BooleanExpression, changed bool) {
	out = make([]ast.BooleanExpression, 0, len(operands))
	for _, op := range operands {
		simplified := Filter(op)
		if simplified != op {
			changed = true
		}
		switch sub := simplified.(type) {
		case *ast.TrueBooleanExpression:
			if !and {
				return nil, true
			}
			changed = true
		case *ast.FalseBooleanExpression:
			if and {
				return nil, true
			}
			changed = true
		case *ast.AndBooleanExpression:
			if and {
				// Already optimized, so the nested operands contain no
				// further conjunctions or constants.
				out = append(out, sub.Operands...)
				changed = true
			} else {
				out = append(out, sub)
			}
		case *ast.OrBooleanExpression:
			if !and {
				out = append(out, sub.Operands...)
				changed = true
			} else {
				out = append(out, sub)
			}
		default:
			out = append(out, simplified)
		}
	}
	return out, changed
}

func isTrue(b ast.BooleanExpression) bool {
	_, ok := b.(*ast.TrueBooleanExpression)
	return ok
}

// Table returns t with every embedded filter simplified. A filter
// operator whose predicate reduces to true is unwrapped, and directly
// nested filter operators are merged into one conjunction before
// simplification. The result shares unmodified children with t.
func Table(t ast.Table) ast.Table {
	switch x := t.(type) {
	case *ast.VarRefTable, *ast.InvocationTable:
		return t

	case *ast.FilteredTable:
		inner := Table(x.Table)
		filter := Filter(x.Filter)
		if ft, ok := inner.(*ast.FilteredTable); ok {
			filter = Filter(ast.NewAnd(ft.Filter, filter))
			inner = ft.Table
		}
		if isTrue(filter) {
			return inner
		}
		if inner == x.Table && filter == x.Filter {
			return x
		}
		c := *x
		c.Table = inner
		c.Filter = filter
		return &c

	case *ast.ProjectionTable:
		inner := Table(x.Table)
		if inner == x.Table {
			return x
		}
		c := *x
		c.Table = inner
		return &c
	case *ast.ComputeTable:
		inner := Table(x.Table)
		if inner == x.Table {
			return x
		}
		c := *x
		c.Table = inner
		return &c
	case *ast.AliasTable:
		inner := Table(x.Table)
		if inner == x.Table {
			return x
		}
		c := *x
		c.Table = inner
		return &c
	case *ast.AggregationTable:
		inner := Table(x.Table)
		if inner == x.Table {
			return x
		}
		c := *x
		c.Table = inner
		return &c
	case *ast.SortedTable:
		inner := Table(x.Table)
		if inner == x.Table {
			return x
		}
		c := *x
		c.Table = inner
		return &c
	case *ast.IndexTable:
		inner := Table(x.Table)
		if inner == x.Table {
			return x
		}
		c := *x
		c.Table = inner
		return &c
	case *ast.SlicedTable:
		inner := Table(x.Table)
		if inner == x.Table {
			return x
		}
		c := *x
		c.Table = inner
		return &c
	case *ast.SequenceTable:
		inner := Table(x.Table)
		if inner == x.Table {
			return x
		}
		c := *x
		c.Table = inner
		return &c
	case *ast.HistoryTable:
		inner := Table(x.Table)
		if inner == x.Table {
			return x
		}
		c := *x
		c.Table = inner
		return &c

	case *ast.JoinTable:
		lhs, rhs := Table(x.LHS), Table(x.RHS)
		if lhs == x.LHS && rhs == x.RHS {
			return x
		}
		c := *x
		c.LHS = lhs
		c.RHS = rhs
		return &c

	case *ast.WindowTable:
		st := Stream(x.Stream)
		if st == x.Stream {
			return x
		}
		c := *x
		c.Stream = st
		return &c
	case *ast.TimeSeriesTable:
		st := Stream(x.Stream)
		if st == x.Stream {
			return x
		}
		c := *x
		c.Stream = st
		return &c

	default:
		panic(fmt.Sprintf("optimize: unexpected table type %T", t))
	}
}

// Stream returns st with every embedded filter simplified. A plain
// filter whose predicate reduces to true is unwrapped; an edge filter
// is kept even then, because it still gates firing on the predicate's
// rising edge.
func Stream(st ast.Stream) ast.Stream {
	switch x := st.(type) {
	case *ast.VarRefStream, *ast.TimerStream, *ast.AtTimerStream:
		return st

	case *ast.MonitorStream:
		t := Table(x.Table)
		if t == x.Table {
			return x
		}
		c := *x
		c.Table = t
		return &c

	case *ast.EdgeNewStream:
		inner := Stream(x.Stream)
		if inner == x.Stream {
			return x
		}
		c := *x
		c.Stream = inner
		return &c

	case *ast.EdgeFilterStream:
		inner := Stream(x.Stream)
		filter := Filter(x.Filter)
		if inner == x.Stream && filter == x.Filter {
			return x
		}
		c := *x
		c.Stream = inner
		c.Filter = filter
		return &c

	case *ast.FilteredStream:
		inner := Stream(x.Stream)
		filter := Filter(x.Filter)
		if fs, ok := inner.(*ast.FilteredStream); ok {
			filter = Filter(ast.NewAnd(fs.Filter, filter))
			inner = fs.Stream
		}
		if isTrue(filter) {
			return inner
		}
		if inner == x.Stream && filter == x.Filter {
			return x
		}
		c := *x
		c.Stream = inner
		c.Filter = filter
		return &c

	case *ast.ProjectionStream:
		inner := Stream(x.Stream)
		if inner == x.Stream {
			return x
		}
		c := *x
		c.Stream = inner
		return &c
	case *ast.ComputeStream:
		inner := Stream(x.Stream)
		if inner == x.Stream {
			return x
		}
		c := *x
		c.Stream = inner
		return &c
	case *ast.AliasStream:
		inner := Stream(x.Stream)
		if inner == x.Stream {
			return x
		}
		c := *x
		c.Stream = inner
		return &c

	case *ast.JoinStream:
		inner := Stream(x.Stream)
		t := Table(x.Table)
		if inner == x.Stream && t == x.Table {
			return x
		}
		c := *x
		c.Stream = inner
		c.Table = t
		return &c

	default:
		panic(fmt.Sprintf("optimize: unexpected stream type %T", st))
	}
}

// Statement returns s with the filters of its stream or table
// simplified. Actions carry no filters and pass through untouched.
func Statement(s ast.Statement) ast.Statement {
	switch x := s.(type) {
	case *ast.Rule:
		st := Stream(x.Stream)
		if st == x.Stream {
			return x
		}
		c := *x
		c.Stream = st
		return &c

	case *ast.Command:
		if x.Table == nil {
			return x
		}
		t := Table(x.Table)
		if t == x.Table {
			return x
		}
		c := *x
		c.Table = t
		return &c

	case *ast.Assignment:
		t := Table(x.Value)
		if t == x.Value {
			return x
		}
		c := *x
		c.Value = t
		return &c

	case *ast.Declaration:
		var opt ast.Node
		switch v := x.Value.(type) {
		case ast.Table:
			opt = Table(v)
		case ast.Stream:
			opt = Stream(v)
		default:
			return x
		}
		if opt == x.Value {
			return x
		}
		c := *x
		c.Value = opt
		return &c

	default:
		panic(fmt.Sprintf("optimize: unexpected statement type %T", s))
	}
}

// Program returns p with the filters of every statement simplified.
func Program(p *ast.Program) *ast.Program {
	changed := false
	stmts := make([]ast.Statement, len(p.Statements))
	for i, s := range p.Statements {
		stmts[i] = Statement(s)
		if stmts[i] != s {
			changed = true
		}
	}
	if !changed {
		return p
	}
	c := *p
	c.Statements = stmts
	return &c
}

// PermissionRule returns r with its principal filter and the filters of
// its permission functions simplified.
func PermissionRule(r *ast.PermissionRule) *ast.PermissionRule {
	principal := Filter(r.Principal)
	query := permissionFunction(r.Query)
	action := permissionFunction(r.Action)
	if principal == r.Principal && query == r.Query && action == r.Action {
		return r
	}
	c := *r
	c.Principal = principal
	c.Query = query
	c.Action = action
	return &c
}

func permissionFunction(pf ast.PermissionFunction) ast.PermissionFunction {
	spec, ok := pf.(*ast.SpecifiedPermissionFunction)
	if !ok {
		return pf
	}
	filter := Filter(spec.Filter)
	if filter == spec.Filter {
		return pf
	}
	c := *spec
	c.Filter = filter
	return &c
}
