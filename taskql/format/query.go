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

func (p *printer) selector(s ast.Selector) {
	switch x := s.(type) {
	case *ast.DeviceSelector:
		p.printf("@%s", x.Kind)
		attrs := x.Attributes
		if x.ID != "" || x.All || len(attrs) > 0 {
			p.WriteString("(")
			sep := ""
			if x.ID != "" {
				p.printf("id=%s", quote(x.ID))
				sep = ", "
			}
			for _, a := range attrs {
				p.WriteString(sep)
				p.inputParam(a)
				sep = ", "
			}
			if x.All {
				p.WriteString(sep)
				p.WriteString("all=true")
			}
			p.WriteString(")")
		}
	case *ast.BuiltinSelector:
		p.WriteString("@$builtin")
	default:
		panic(fmt.Sprintf("format: unexpected selector type %T", s))
	}
}

// invocation emits a channel call. Builtin channels without bound
// parameters print as their bare keyword, so a plain notification is
// "notify" rather than "@$builtin.notify()".
func (p *printer) invocation(inv *ast.Invocation) {
	if _, ok := inv.Selector.(*ast.BuiltinSelector); ok && len(inv.InParams) == 0 {
		p.WriteString(inv.Channel)
		return
	}
	p.selector(inv.Selector)
	p.printf(".%s(", inv.Channel)
	p.inputParams(inv.InParams)
	p.WriteString(")")
}

func (p *printer) inputParams(params []*ast.InputParam) {
	for i, prm := range params {
		if i > 0 {
			p.WriteString(", ")
		}
		p.inputParam(prm)
	}
}

func (p *printer) inputParam(prm *ast.InputParam) {
	p.printf("%s=", prm.Name)
	p.value(prm.Value)
}

func (p *printer) table(t ast.Table) {
	switch x := t.(type) {
	case *ast.VarRefTable:
		p.printf("%s(", x.Name)
		p.inputParams(x.InParams)
		p.WriteString(")")
	case *ast.InvocationTable:
		p.invocation(x.Invocation)
	case *ast.FilteredTable:
		p.table(x.Table)
		p.WriteString(", ")
		p.boolean(x.Filter)
	case *ast.ProjectionTable:
		p.WriteString("[")
		p.nameList(x.Args)
		p.WriteString("] of ")
		p.subtable(x.Table)
	case *ast.ComputeTable:
		p.WriteString("compute ")
		p.scalar(x.Expression)
		if x.Alias != "" {
			p.printf(" as %s", x.Alias)
		}
		p.WriteString(" of ")
		p.subtable(x.Table)
	case *ast.AliasTable:
		p.subtable(x.Table)
		p.printf(" as %s", x.Name)
	case *ast.AggregationTable:
		p.WriteString("aggregate ")
		if x.Field == "*" {
			p.WriteString(x.Operator)
		} else {
			p.printf("%s %s", x.Operator, x.Field)
		}
		if x.Alias != "" {
			p.printf(" as %s", x.Alias)
		}
		p.WriteString(" of ")
		p.subtable(x.Table)
	case *ast.SortedTable:
		p.printf("sort %s %s of ", x.Field, x.Direction)
		p.subtable(x.Table)
	case *ast.IndexTable:
		p.subtable(x.Table)
		p.WriteString("[")
		p.valueList(x.Indices)
		p.WriteString("]")
	case *ast.SlicedTable:
		p.subtable(x.Table)
		p.WriteString("[")
		p.value(x.Base)
		p.WriteString(" : ")
		p.value(x.Limit)
		p.WriteString("]")
	case *ast.JoinTable:
		p.subtable(x.LHS)
		p.WriteString(" join ")
		p.subtable(x.RHS)
		if len(x.InParams) > 0 {
			p.WriteString(" on (")
			p.inputParams(x.InParams)
			p.WriteString(")")
		}
	case *ast.WindowTable:
		p.WriteString("window ")
		p.value(x.Base)
		p.WriteString(", ")
		p.value(x.Delta)
		p.WriteString(" of ")
		p.substream(x.Stream)
	case *ast.TimeSeriesTable:
		p.WriteString("timeseries ")
		p.value(x.Base)
		p.WriteString(", ")
		p.value(x.Delta)
		p.WriteString(" of ")
		p.substream(x.Stream)
	case *ast.SequenceTable:
		p.WriteString("sequence ")
		p.value(x.Base)
		p.WriteString(", ")
		p.value(x.Delta)
		p.WriteString(" of ")
		p.subtable(x.Table)
	case *ast.HistoryTable:
		p.WriteString("history ")
		p.value(x.Base)
		p.WriteString(", ")
		p.value(x.Delta)
		p.WriteString(" of ")
		p.subtable(x.Table)
	default:
		panic(fmt.Sprintf("format: unexpected table type %T", t))
	}
}

// subtable emits a table that is an operand of a larger construct,
// parenthesized unless it is a bare reference or call.
func (p *printer) subtable(t ast.Table) {
	switch t.(type) {
	case *ast.VarRefTable, *ast.InvocationTable:
		p.table(t)
	default:
		p.WriteString("(")
		p.table(t)
		p.WriteString(")")
	}
}

func (p *printer) stream(s ast.Stream) {
	switch x := s.(type) {
	case *ast.VarRefStream:
		p.printf("%s(", x.Name)
		p.inputParams(x.InParams)
		p.WriteString(")")
	case *ast.TimerStream:
		p.WriteString("timer(base=")
		p.value(x.Base)
		p.WriteString(", interval=")
		p.value(x.Interval)
		if x.Frequency != nil {
			p.WriteString(", frequency=")
			p.value(x.Frequency)
		}
		p.WriteString(")")
	case *ast.AtTimerStream:
		p.WriteString("attimer(time=[")
		p.valueList(x.Times)
		p.WriteString("]")
		if x.Expiration != nil {
			p.WriteString(", expiration_date=")
			p.value(x.Expiration)
		}
		p.WriteString(")")
	case *ast.MonitorStream:
		p.WriteString("monitor ")
		p.subtable(x.Table)
		if len(x.Args) > 0 {
			p.WriteString(" on new [")
			p.nameList(x.Args)
			p.WriteString("]")
		}
	case *ast.EdgeNewStream:
		p.WriteString("edge ")
		p.substream(x.Stream)
		p.WriteString(" on new")
	case *ast.EdgeFilterStream:
		p.WriteString("edge ")
		p.substream(x.Stream)
		p.WriteString(" on ")
		p.boolean(x.Filter)
	case *ast.FilteredStream:
		p.stream(x.Stream)
		p.WriteString(", ")
		p.boolean(x.Filter)
	case *ast.ProjectionStream:
		p.WriteString("[")
		p.nameList(x.Args)
		p.WriteString("] of ")
		p.substream(x.Stream)
	case *ast.ComputeStream:
		p.WriteString("compute ")
		p.scalar(x.Expression)
		if x.Alias != "" {
			p.printf(" as %s", x.Alias)
		}
		p.WriteString(" of ")
		p.substream(x.Stream)
	case *ast.AliasStream:
		p.substream(x.Stream)
		p.printf(" as %s", x.Name)
	case *ast.JoinStream:
		p.substream(x.Stream)
		p.WriteString(" join ")
		p.subtable(x.Table)
		if len(x.InParams) > 0 {
			p.WriteString(" on (")
			p.inputParams(x.InParams)
			p.WriteString(")")
		}
	default:
		panic(fmt.Sprintf("format: unexpected stream type %T", s))
	}
}

// substream parenthesizes compound stream operands.
func (p *printer) substream(s ast.Stream) {
	switch s.(type) {
	case *ast.VarRefStream, *ast.TimerStream, *ast.AtTimerStream:
		p.stream(s)
	default:
		p.WriteString("(")
		p.stream(s)
		p.WriteString(")")
	}
}

func (p *printer) action(a ast.Action) {
	switch x := a.(type) {
	case *ast.VarRefAction:
		p.printf("%s(", x.Name)
		p.inputParams(x.InParams)
		p.WriteString(")")
	case *ast.InvocationAction:
		p.invocation(x.Invocation)
	default:
		panic(fmt.Sprintf("format: unexpected action type %T", a))
	}
}

func (p *printer) nameList(names []string) {
	for i, n := range names {
		if i > 0 {
			p.WriteString(", ")
		}
		p.WriteString(n)
	}
}

func (p *printer) valueList(values []ast.Value) {
	for i, v := range values {
		if i > 0 {
			p.WriteString(", ")
		}
		p.value(v)
	}
}
