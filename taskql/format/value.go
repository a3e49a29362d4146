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
	"sort"
	"strconv"
	"time"

	"taskql.org/go/taskql/ast"
)

func (p *printer) value(v ast.Value) {
	switch x := v.(type) {
	case *ast.BooleanValue:
		p.WriteString(strconv.FormatBool(x.Value))
	case *ast.StringValue:
		p.WriteString(quote(x.Value))
	case *ast.NumberValue:
		p.WriteString(number(x.Value))
	case *ast.CurrencyValue:
		p.printf("makeCurrency(%s, %s)", x.Amount.Text('f'), x.Code)
	case *ast.EntityValue:
		if x.Value == "" {
			p.printf("null^^%s", x.Type)
		} else {
			p.printf("%s^^%s", quote(x.Value), x.Type)
		}
		if x.Display != "" {
			p.printf("(%s)", quote(x.Display))
		}
	case *ast.MeasureValue:
		p.printf("%s%s", number(x.Value), x.Unit)
	case *ast.EnumValue:
		p.printf("enum(%s)", x.Value)
	case *ast.TimeValue:
		p.timeSpec(x.Spec)
	case *ast.DateValue:
		p.dateSpec(x.Spec)
	case *ast.LocationValue:
		p.locationSpec(x.Spec)
	case *ast.ArrayValue:
		p.WriteString("[")
		p.valueList(x.Values)
		p.WriteString("]")
	case *ast.ObjectValue:
		p.object(x)
	case *ast.VarRefValue:
		p.WriteString(x.Name)
	case *ast.EventValue:
		if x.Name == "" {
			p.WriteString("$event")
		} else {
			p.printf("$event.%s", x.Name)
		}
	case *ast.ContextRefValue:
		p.printf("$context.%s : %s", x.Name, x.Type)
	case *ast.UndefinedValue:
		if x.Local {
			p.WriteString("$undefined")
		} else {
			p.WriteString("$undefined.remote")
		}
	case *ast.FilterValue:
		p.value(x.Value)
		p.WriteString(" filter { ")
		p.boolean(x.Filter)
		p.WriteString(" }")
	case *ast.ArrayFieldValue:
		p.printf("%s of ", x.Field)
		p.value(x.Value)
	case *ast.ComputationValue:
		p.computation(x)
	case *ast.NullValue:
		p.WriteString("null")
	case *ast.RecurrentTimeValue:
		p.WriteString("recurrentTimeSpec(")
		for i, r := range x.Rules {
			if i > 0 {
				p.WriteString(", ")
			}
			p.recurrenceRule(r)
		}
		p.WriteString(")")
	default:
		panic(fmt.Sprintf("format: unexpected value type %T", v))
	}
}

func (p *printer) object(o *ast.ObjectValue) {
	names := make([]string, 0, len(o.Fields))
	for name := range o.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	p.WriteString("{")
	for i, name := range names {
		if i > 0 {
			p.WriteString(", ")
		}
		p.printf("%s=", name)
		p.value(o.Fields[name])
	}
	p.WriteString("}")
}

func (p *printer) computation(c *ast.ComputationValue) {
	if sym, ok := infixScalarOps[c.Op]; ok && len(c.Operands) == 2 {
		p.subcomputation(c.Operands[0])
		p.printf(" %s ", sym)
		p.subcomputation(c.Operands[1])
		return
	}
	p.printf("%s(", c.Op)
	p.valueList(c.Operands)
	p.WriteString(")")
}

func (p *printer) subcomputation(v ast.Value) {
	if c, ok := v.(*ast.ComputationValue); ok {
		if _, infix := infixScalarOps[c.Op]; infix && len(c.Operands) == 2 {
			p.WriteString("(")
			p.value(v)
			p.WriteString(")")
			return
		}
	}
	p.value(v)
}

func (p *printer) timeSpec(spec ast.TimeSpec) {
	switch x := spec.(type) {
	case *ast.AbsoluteTime:
		p.WriteString(absTime(x))
	case *ast.RelativeTime:
		p.printf("$context.time.%s", x.Tag)
	default:
		panic(fmt.Sprintf("format: unexpected time spec type %T", spec))
	}
}

func absTime(t *ast.AbsoluteTime) string {
	if t.Second != 0 {
		return fmt.Sprintf("makeTime(%d, %d, %d)", t.Hour, t.Minute, t.Second)
	}
	return fmt.Sprintf("makeTime(%d, %d)", t.Hour, t.Minute)
}

func (p *printer) dateSpec(spec ast.DateSpec) {
	switch x := spec.(type) {
	case nil:
		p.WriteString("makeDate()")
	case *ast.AbsoluteDate:
		p.printf("makeDate(%d)", unixMillis(x.Time))
	case *ast.DateEdge:
		p.printf("%s(%s)", x.Edge, x.Unit)
	case *ast.WeekDayDate:
		if x.Time != nil {
			p.printf("weekday(%s, %s)", x.Day, absTime(x.Time))
		} else {
			p.printf("weekday(%s)", x.Day)
		}
	default:
		panic(fmt.Sprintf("format: unexpected date spec type %T", spec))
	}
}

func (p *printer) locationSpec(spec ast.LocationSpec) {
	switch x := spec.(type) {
	case *ast.AbsoluteLocation:
		if x.Display != "" {
			p.printf("makeLocation(%s, %s, %s)", number(x.Latitude), number(x.Longitude), quote(x.Display))
		} else {
			p.printf("makeLocation(%s, %s)", number(x.Latitude), number(x.Longitude))
		}
	case *ast.RelativeLocation:
		p.printf("$context.location.%s", x.Tag)
	case *ast.UnresolvedLocation:
		p.printf("makeLocation(%s)", quote(x.Name))
	default:
		panic(fmt.Sprintf("format: unexpected location spec type %T", spec))
	}
}

// recurrenceRule emits one rule of a recurrence set. Only the parts
// the rule sets appear, in a fixed order.
func (p *printer) recurrenceRule(r *ast.RecurrentTimeRule) {
	p.WriteString("{")
	sep := ""
	part := func(format string, args ...interface{}) {
		p.WriteString(sep)
		p.printf(format, args...)
		sep = ", "
	}
	if r.BeginTime != nil {
		part("begin=%s", absTime(r.BeginTime))
	}
	if r.EndTime != nil {
		part("end=%s", absTime(r.EndTime))
	}
	if r.Interval != 0 {
		part("interval=%s%s", number(r.Interval), r.IntervalUnit)
	}
	if r.Frequency != 0 {
		part("frequency=%d", r.Frequency)
	}
	if r.DayOfWeek != "" {
		part("dayOfWeek=%s", r.DayOfWeek)
	}
	if r.BeginDate != nil {
		part("beginDate=makeDate(%d)", unixMillis(*r.BeginDate))
	}
	if r.EndDate != nil {
		part("endDate=makeDate(%d)", unixMillis(*r.EndDate))
	}
	if r.Subtract {
		part("subtract=true")
	}
	p.WriteString("}")
}

func quote(s string) string { return strconv.Quote(s) }

func number(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) }

func unixMillis(t time.Time) int64 { return t.UnixNano() / int64(time.Millisecond) }
