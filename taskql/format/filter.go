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

package format

import (
	"fmt"

	"taskql.org/go/taskql/ast"
)

func (p *printer) boolean(b ast.BooleanExpression) {
	switch x := b.(type) {
	case *ast.TrueBooleanExpression:
		p.WriteString("true")
	case *ast.FalseBooleanExpression:
		p.WriteString("false")
	case *ast.AndBooleanExpression:
		p.junction(x.Operands, " && ")
	case *ast.OrBooleanExpression:
		p.junction(x.Operands, " || ")
	case *ast.NotBooleanExpression:
		p.WriteString("!(")
		p.boolean(x.Expr)
		p.WriteString(")")
	case *ast.AtomBooleanExpression:
		p.printf("%s %s ", x.Name, x.Operator)
		p.value(x.Value)
	case *ast.ExternalBooleanExpression:
		p.selector(x.Selector)
		p.printf(".%s(", x.Channel)
		p.inputParams(x.InParams)
		p.WriteString(") { ")
		p.boolean(x.Filter)
		p.WriteString(" }")
	case *ast.DontCareBooleanExpression:
		p.printf("true(%s)", x.Name)
	case *ast.ComputeBooleanExpression:
		p.scalar(x.LHS)
		p.printf(" %s ", x.Operator)
		p.value(x.RHS)
	default:
		panic(fmt.Sprintf("format: unexpected boolean expression type %T", b))
	}
}

// junction emits the operands of a conjunction or disjunction,
// parenthesizing nested junctions so precedence survives on paper.
func (p *printer) junction(operands []ast.BooleanExpression, sep string) {
	for i, op := range operands {
		if i > 0 {
			p.WriteString(sep)
		}
		switch op.(type) {
		case *ast.AndBooleanExpression, *ast.OrBooleanExpression:
			p.WriteString("(")
			p.boolean(op)
			p.WriteString(")")
		default:
			p.boolean(op)
		}
	}
}

func (p *printer) scalar(s ast.ScalarExpression) {
	switch x := s.(type) {
	case *ast.PrimaryScalarExpression:
		p.value(x.Value)
	case *ast.DerivedScalarExpression:
		if sym, ok := infixScalarOps[x.Op]; ok && len(x.Operands) == 2 {
			p.subscalar(x.Operands[0])
			p.printf(" %s ", sym)
			p.subscalar(x.Operands[1])
			return
		}
		p.printf("%s(", x.Op)
		for i, op := range x.Operands {
			if i > 0 {
				p.WriteString(", ")
			}
			p.scalar(op)
		}
		p.WriteString(")")
	case *ast.AggregationScalarExpression:
		p.printf("%s(", x.Operator)
		if x.Field != "" {
			p.printf("%s of ", x.Field)
		}
		p.scalar(x.List)
		p.WriteString(")")
	case *ast.VarRefScalarExpression:
		if _, ok := x.Selector.(*ast.BuiltinSelector); ok {
			p.WriteString(x.Name)
		} else {
			p.selector(x.Selector)
			p.printf(".%s", x.Name)
		}
		p.WriteString("(")
		p.inputParams(x.Args)
		p.WriteString(")")
	default:
		panic(fmt.Sprintf("format: unexpected scalar expression type %T", s))
	}
}

// subscalar parenthesizes operands that themselves print infix;
// call-notation operands need no grouping.
func (p *printer) subscalar(s ast.ScalarExpression) {
	if d, ok := s.(*ast.DerivedScalarExpression); ok {
		if _, infix := infixScalarOps[d.Op]; infix && len(d.Operands) == 2 {
			p.WriteString("(")
			p.scalar(s)
			p.WriteString(")")
			return
		}
	}
	p.scalar(s)
}

// infixScalarOps are the arithmetic operators written between their
// two operands; every other scalar operator uses call notation.
var infixScalarOps = map[string]string{
	"+":  "+",
	"-":  "-",
	"*":  "*",
	"/":  "/",
	"%":  "%",
	"**": "**",
}
